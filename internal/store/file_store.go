package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"devsearch/internal/domain"
)

const recordExt = ".json"

// FileStore persists each key as its own file under dir.
type FileStore struct {
	dir    string
	mu     sync.Mutex
	closed bool
}

// NewFileStore returns a FileStore rooted at dir, creating dir if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("creating store dir %s: %w", dir, err)
	}
	return &FileStore{dir: dir}, nil
}

// Path returns the file that backs key.
func (s *FileStore) Path(key string) string {
	return filepath.Join(s.dir, key+recordExt)
}

// Get returns the stored value for key.
func (s *FileStore) Get(key string) ([]byte, error) {
	if !validKey(key) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrClosed
	}
	b, err := readFile(s.Path(key))
	if err != nil {
		return nil, fmt.Errorf("reading %q: %w", key, err)
	}
	return b, nil
}

// Put replaces the value for key.
func (s *FileStore) Put(key string, value []byte) error {
	if !validKey(key) {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	if err := writeFile(s.Path(key), value, 0o600); err != nil {
		return fmt.Errorf("writing %q: %w", key, err)
	}
	return nil
}

// Close marks the store closed. Files are left in place.
func (s *FileStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// Compile-time assertion that FileStore implements domain.KeyValueStore.
var _ domain.KeyValueStore = (*FileStore)(nil)
