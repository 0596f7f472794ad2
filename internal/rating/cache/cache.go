// Package cache provides the persistent store for resolved ratings.
package cache

import "time"

// Store is a key-value store for serialized rating records. Keys are
// normalized movie titles.
type Store interface {
	// Get retrieves a record by key.
	// Returns the record and true if present and not expired.
	Get(key string) ([]byte, bool)

	// Set stores a record under key. A zero ttl means the record
	// never expires.
	Set(key string, data []byte, ttl time.Duration) error

	// Clear removes all records from the store.
	Clear() error

	// Close releases any resources held by the store.
	Close() error
}
