package interfaces

// KeyValueStore is a durable byte store addressed by string keys.
//
// Get returns an error wrapping store.ErrNotFound when key has never been
// written. Put replaces the full value for key in one step.
type KeyValueStore interface {
	Get(key string) ([]byte, error)
	Put(key string, value []byte) error
	Close() error
}
