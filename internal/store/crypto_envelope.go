package store

import (
	"bytes"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"runtime"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/scrypt"
)

const (
	// The current supported version of the sealed blob format stored on disk.
	sealedFormatVersion = 1
)

var (
	// ErrWrongPassphrase is returned when the passphrase is incorrect or the
	// ciphertext has been modified or corrupted.
	ErrWrongPassphrase = errors.New("store: wrong passphrase or corrupted record")
)

// blob is the on-disk JSON structure holding the ciphertext and KDF parameters.
type blob struct {
	V      int    `json:"v"`
	Salt   []byte `json:"salt"`
	N      int    `json:"scrypt_N"`
	R      int    `json:"scrypt_r"`
	P      int    `json:"scrypt_p"`
	Nonce  []byte `json:"nonce"`
	Cipher []byte `json:"cipher"`
}

// kdfParams are the scrypt cost parameters.
type kdfParams struct {
	N, R, P int
}

// Tunables for scrypt key derivation.
func scryptParamsDefault() kdfParams { return kdfParams{N: 1 << 15, R: 8, P: 1} }

// Upper bounds accepted from a stored record. Anything larger would let a
// damaged record exhaust memory inside scrypt.
const (
	maxScryptN = 1 << 20
	maxScryptR = 32
	maxScryptP = 16
)

// valid reports whether p can be handed to scrypt safely.
func (p kdfParams) valid() bool {
	return p.N > 1 && p.N <= maxScryptN && p.N&(p.N-1) == 0 &&
		p.R >= 1 && p.R <= maxScryptR &&
		p.P >= 1 && p.P <= maxScryptP
}

// derivedKey caches one scrypt output so repeated writes do not pay the KDF cost.
type derivedKey struct {
	salt   []byte
	params kdfParams
	key    []byte
}

func (k *derivedKey) matches(salt []byte, p kdfParams) bool {
	return k != nil && k.params == p && bytes.Equal(k.salt, salt)
}

func deriveKey(passphrase string, salt []byte, p kdfParams) (*derivedKey, error) {
	key, err := scrypt.Key([]byte(passphrase), salt, p.N, p.R, p.P, chacha20poly1305.KeySize)
	if err != nil {
		return nil, err
	}
	return &derivedKey{salt: append([]byte(nil), salt...), params: p, key: key}, nil
}

func newSalt() ([]byte, error) {
	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		return nil, err
	}
	return salt, nil
}

// seal encrypts raw under k and encodes the result as a JSON blob.
func seal(k *derivedKey, raw []byte) ([]byte, error) {
	aead, err := chacha20poly1305.New(k.key)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}
	ct := aead.Seal(nil, nonce, raw, k.salt)

	return json.Marshal(blob{
		V:      sealedFormatVersion,
		Salt:   k.salt,
		N:      k.params.N,
		R:      k.params.R,
		P:      k.params.P,
		Nonce:  nonce,
		Cipher: ct,
	})
}

// parseBlob decodes b and validates its header.
func parseBlob(b []byte) (blob, error) {
	var bl blob
	if err := json.Unmarshal(b, &bl); err != nil {
		return blob{}, fmt.Errorf("%w: %v", ErrWrongPassphrase, err)
	}
	if bl.V > sealedFormatVersion {
		return blob{}, fmt.Errorf("unsupported sealed record version %d", bl.V)
	}
	if len(bl.Salt) == 0 || len(bl.Nonce) != chacha20poly1305.NonceSize {
		return blob{}, ErrWrongPassphrase
	}
	if p := (kdfParams{N: bl.N, R: bl.R, P: bl.P}); !p.valid() {
		return blob{}, fmt.Errorf("%w: scrypt parameters out of range (N=%d r=%d p=%d)", ErrWrongPassphrase, bl.N, bl.R, bl.P)
	}
	return bl, nil
}

// open decrypts bl using k, which must have been derived from bl's salt.
func open(k *derivedKey, bl blob) ([]byte, error) {
	aead, err := chacha20poly1305.New(k.key)
	if err != nil {
		return nil, err
	}
	pt, err := aead.Open(nil, bl.Nonce, bl.Cipher, bl.Salt)
	if err != nil {
		return nil, ErrWrongPassphrase
	}
	return pt, nil
}

// wipe zeroes b. Best-effort; aims to keep the compiler from eliding the write.
//
//go:noinline
func wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
	runtime.KeepAlive(&b)
}
