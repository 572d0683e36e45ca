// Package storage provides the key-value persistence backend for chat state.
// The store writes full documents under string keys; there are no partial
// updates.
package storage

// KV abstracts key-value persistence (SQLite, in-memory, etc.).
type KV interface {
	// Get returns the value for key. The second return is false when the
	// key has never been set.
	Get(key string) (string, bool, error)
	Set(key, value string) error
	// Clear removes every key.
	Clear() error
	Close() error
}
