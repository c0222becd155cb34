package cache

import (
	"context"
	"errors"
	"time"
)

// Store is a namespaced key-value store backing the console caches.
// Every key a Store sees lives in its own namespace; DeleteAll never reaches outside it.
type Store interface {
	// Get retrieves a value by key, returning ErrKeyNotFound on a miss
	Get(ctx context.Context, key string) ([]byte, error)

	// SetMany writes all entries in one atomic batch
	SetMany(ctx context.Context, entries map[string][]byte) error

	// DeleteAll removes every key in the namespace
	DeleteAll(ctx context.Context) error

	// Close releases the underlying connection or file
	Close() error
}

// StoreType names a Store implementation
type StoreType string

const (
	StoreTypeBolt   StoreType = "bolt"
	StoreTypeRedis  StoreType = "redis"
	StoreTypeMemory StoreType = "memory"
)

// StoreConfig holds configuration for Store instances
type StoreConfig struct {
	Backend   StoreType
	Namespace string

	// Path is the bbolt database file
	Path        string
	OpenTimeout time.Duration

	Redis RedisConfig
}

// RedisConfig holds Redis-specific configuration
type RedisConfig struct {
	Address      string
	Password     string
	Database     int
	PoolSize     int
	MinIdleConns int
}

// Common cache errors
var (
	ErrKeyNotFound      = errors.New("key not found")
	ErrCacheUnavailable = errors.New("cache unavailable")
	ErrInvalidConfig    = errors.New("invalid cache configuration")
	ErrStoreClosed      = errors.New("cache store closed")
)
