package store

import (
	"fmt"
	"sync"

	"devsearch/internal/domain"
)

// SealedStore encrypts values at rest before handing them to an inner store.
//
// Values are sealed with ChaCha20-Poly1305 under a key derived from the
// passphrase with scrypt. The derived key is cached per salt, so only the
// first write and the first read of a foreign salt pay the KDF cost.
type SealedStore struct {
	inner      domain.KeyValueStore
	passphrase string
	params     kdfParams

	mu     sync.Mutex
	writer *derivedKey
	reader *derivedKey
}

// SealedOption configures a SealedStore.
type SealedOption func(*SealedStore)

// WithScryptParams overrides the scrypt cost parameters used for new records.
func WithScryptParams(n, r, p int) SealedOption {
	return func(s *SealedStore) { s.params = kdfParams{N: n, R: r, P: p} }
}

// NewSealedStore wraps inner so that every value is encrypted with passphrase.
func NewSealedStore(inner domain.KeyValueStore, passphrase string, opts ...SealedOption) *SealedStore {
	s := &SealedStore{
		inner:      inner,
		passphrase: passphrase,
		params:     scryptParamsDefault(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get reads and decrypts the value for key.
func (s *SealedStore) Get(key string) ([]byte, error) {
	b, err := s.inner.Get(key)
	if err != nil {
		return nil, err
	}
	bl, err := parseBlob(b)
	if err != nil {
		return nil, err
	}
	p := kdfParams{N: bl.N, R: bl.R, P: bl.P}

	s.mu.Lock()
	defer s.mu.Unlock()

	k := s.reader
	switch {
	case s.writer.matches(bl.Salt, p):
		k = s.writer
	case !k.matches(bl.Salt, p):
		if k, err = deriveKey(s.passphrase, bl.Salt, p); err != nil {
			return nil, err
		}
		s.reader = k
	}
	return open(k, bl)
}

// Put encrypts value and stores it under key.
func (s *SealedStore) Put(key string, value []byte) error {
	s.mu.Lock()
	if s.writer == nil {
		if !s.params.valid() {
			s.mu.Unlock()
			return fmt.Errorf("sealing %q: invalid scrypt parameters %+v", key, s.params)
		}
		salt, err := newSalt()
		if err != nil {
			s.mu.Unlock()
			return err
		}
		if s.writer, err = deriveKey(s.passphrase, salt, s.params); err != nil {
			s.mu.Unlock()
			return err
		}
	}
	b, err := seal(s.writer, value)
	s.mu.Unlock()
	if err != nil {
		return err
	}
	return s.inner.Put(key, b)
}

// Close wipes cached key material and closes the inner store.
func (s *SealedStore) Close() error {
	s.mu.Lock()
	for _, k := range []*derivedKey{s.writer, s.reader} {
		if k != nil {
			wipe(k.key)
		}
	}
	s.writer, s.reader = nil, nil
	s.mu.Unlock()
	return s.inner.Close()
}

// Compile-time assertion that SealedStore implements domain.KeyValueStore.
var _ domain.KeyValueStore = (*SealedStore)(nil)
