package favorites

import (
	"bytes"
	"encoding/json"
	"errors"

	"go.uber.org/zap"

	"devsearch/internal/domain"
	"devsearch/internal/store"
)

// StorageKey is the key under which the favorites collection is persisted.
const StorageKey = "github-search-favorites"

// Persister loads and saves the full favorites collection.
type Persister interface {
	Load() []domain.Account
	Save(accounts []domain.Account)
}

// Adapter persists the collection as a JSON array in a key-value store.
// It holds no collection state of its own.
type Adapter struct {
	kv  domain.KeyValueStore
	key string
	log *zap.Logger
}

// NewAdapter returns an Adapter that stores the collection under StorageKey.
func NewAdapter(kv domain.KeyValueStore, logger *zap.Logger) *Adapter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Adapter{kv: kv, key: StorageKey, log: logger.Named("favorites")}
}

// Load reads the persisted collection. A missing record yields an empty
// collection; unreadable or malformed records are logged and also yield an
// empty collection.
func (a *Adapter) Load() []domain.Account {
	b, err := a.kv.Get(a.key)
	if errors.Is(err, store.ErrNotFound) {
		a.log.Debug("no persisted favorites", zap.String("key", a.key))
		return []domain.Account{}
	}
	if err != nil {
		a.log.Warn("error loading favorites from storage", zap.String("key", a.key), zap.Error(err))
		return []domain.Account{}
	}

	trimmed := bytes.TrimSpace(b)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		a.log.Warn("persisted favorites are not an array",
			zap.String("key", a.key),
			zap.ByteString("value", truncate(trimmed, 64)))
		return []domain.Account{}
	}

	var accounts []domain.Account
	if err := json.Unmarshal(trimmed, &accounts); err != nil {
		a.log.Warn("error decoding favorites from storage", zap.String("key", a.key), zap.Error(err))
		return []domain.Account{}
	}
	if accounts == nil {
		accounts = []domain.Account{}
	}
	a.log.Debug("loaded favorites", zap.Int("count", len(accounts)))
	return accounts
}

// Save replaces the persisted collection with accounts. Failures are logged
// and absorbed; the caller's in-memory state stays authoritative.
func (a *Adapter) Save(accounts []domain.Account) {
	if accounts == nil {
		accounts = []domain.Account{}
	}
	b, err := json.Marshal(accounts)
	if err != nil {
		a.log.Error("error encoding favorites", zap.Error(err))
		return
	}
	if err := a.kv.Put(a.key, b); err != nil {
		a.log.Error("error saving favorites to storage",
			zap.String("key", a.key),
			zap.Int("count", len(accounts)),
			zap.Error(err))
		return
	}
	a.log.Debug("saved favorites", zap.Int("count", len(accounts)))
}

func truncate(b []byte, n int) []byte {
	if len(b) <= n {
		return b
	}
	return b[:n]
}

// Compile-time assertion that Adapter implements Persister.
var _ Persister = (*Adapter)(nil)
