package pgrequests

import (
	"context"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// Cache is the interface for caching compiled statements across processes.
// Users should implement this interface with their preferred caching
// solution (e.g., Redis, Memcached, in-memory). Finalized statements are
// already cached per builder instance; this interface is for sharing
// compiled results between statement instances or processes.
type Cache interface {
	// Get retrieves a value from the cache.
	// Returns nil, nil if the key doesn't exist.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value in the cache with an optional TTL.
	// If ttl is 0, the value should not expire.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a value from the cache.
	Delete(ctx context.Context, key string) error

	// Clear removes all values from the cache.
	Clear(ctx context.Context) error
}

// CacheKey identifies a compiled statement in a Cache.
type CacheKey struct {
	Dialect   string
	Statement string // "select", "insert" or "update"
	Table     string
	Name      string // Caller-chosen discriminator for otherwise equal keys.
}

// String returns the string representation of the cache key.
func (k CacheKey) String() string {
	return k.Dialect + ":" + k.Statement + ":" + k.Table + ":" + k.Name
}

// cachedQuery is the wire form of a compiled statement in cache values.
type cachedQuery struct {
	SQL  string `msgpack:"sql"`
	Args []any  `msgpack:"args"`
}

// EncodeQuery serializes a compiled statement for storage in a Cache.
func EncodeQuery(sql string, args []any) ([]byte, error) {
	return msgpack.Marshal(cachedQuery{SQL: sql, Args: args})
}

// DecodeQuery deserializes a compiled statement previously encoded with
// EncodeQuery.
func DecodeQuery(data []byte) (sql string, args []any, err error) {
	var q cachedQuery
	if err := msgpack.Unmarshal(data, &q); err != nil {
		return "", nil, err
	}
	return q.SQL, q.Args, nil
}
