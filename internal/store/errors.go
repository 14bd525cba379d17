package store

import "errors"

var (
	// ErrNotFound is returned by Get when the key has never been written.
	ErrNotFound = errors.New("store: key not found")

	// ErrClosed is returned by any operation on a closed store.
	ErrClosed = errors.New("store: closed")

	// ErrInvalidKey is returned for keys that cannot be used as a record name.
	ErrInvalidKey = errors.New("store: invalid key")
)

// validKey reports whether key is safe to use as a file name.
func validKey(key string) bool {
	if key == "" || key == "." || key == ".." {
		return false
	}
	for _, r := range key {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '-', r == '_', r == '.':
		default:
			return false
		}
	}
	return true
}
