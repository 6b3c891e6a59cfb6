// Package cache provides a generic key/value cache with in-memory and
// database-backed implementations.
package cache

// Cache defines a generic cache interface.
type Cache[T any] interface {
	// Get retrieves a value from the cache. The second return is false on a
	// miss.
	Get(key string) (T, bool, error)

	// Set stores a value in the cache.
	Set(key string, data T) error

	// Delete removes a key from the cache.
	Delete(key string) error
}
