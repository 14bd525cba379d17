// Package store provides the durable key-value backends behind devsearch's
// persisted state.
//
// Every backend implements domain.KeyValueStore and replaces a key's value in
// a single step, so a reader never observes a half-written record. All
// methods are concurrency-safe via internal locking. Stored files typically
// live under the user's configured home directory.
//
// The package includes:
//   - FileStore: one file per key, written via temp file and rename
//   - SQLiteStore: a kv table in a SQLite database, schema managed by goose
//   - MemoryStore: a map, for session-only mode and tests
//   - SealedStore: wraps another backend and encrypts values at rest
package store
