package storage

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Store is a key-value blob store. Every Set overwrites the whole value.
type Store interface {
	// Get returns nil without error when the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// StoreType selects a Store driver.
type StoreType string

const (
	StoreTypeMemory StoreType = "memory"
	StoreTypeFile   StoreType = "file"
	StoreTypeRedis  StoreType = "redis"
	StoreTypeSQLite StoreType = "sqlite"
)

// StoreOption configures NewStore.
type StoreOption func(*storeConfig)

type storeConfig struct {
	redisClient *redis.Client
	redisTTL    time.Duration
	dir         string
	db          *gorm.DB
}

// WithRedisClient sets the client used by the redis driver.
func WithRedisClient(client *redis.Client) StoreOption {
	return func(c *storeConfig) {
		c.redisClient = client
	}
}

// WithRedisTTL sets the expiry of redis keys. Zero keeps keys forever.
func WithRedisTTL(ttl time.Duration) StoreOption {
	return func(c *storeConfig) {
		c.redisTTL = ttl
	}
}

// WithDir sets the directory used by the file driver.
func WithDir(dir string) StoreOption {
	return func(c *storeConfig) {
		c.dir = dir
	}
}

// WithDB sets the database used by the sqlite driver.
func WithDB(db *gorm.DB) StoreOption {
	return func(c *storeConfig) {
		c.db = db
	}
}

// NewStore creates a Store of the given type.
// The redis driver requires WithRedisClient, the file driver WithDir and
// the sqlite driver WithDB.
func NewStore(storeType StoreType, opts ...StoreOption) (Store, error) {
	config := &storeConfig{}
	for _, opt := range opts {
		opt(config)
	}

	switch storeType {
	case StoreTypeMemory:
		return NewMemoryStore(), nil

	case StoreTypeFile:
		if config.dir == "" {
			return nil, ErrInvalidConfig
		}
		return NewFileStore(config.dir)

	case StoreTypeRedis:
		if config.redisClient == nil {
			return nil, ErrInvalidConfig
		}
		return NewRedisStore(config.redisClient, config.redisTTL), nil

	case StoreTypeSQLite:
		if config.db == nil {
			return nil, ErrInvalidConfig
		}
		return NewSQLiteStore(config.db)

	default:
		return nil, ErrInvalidStoreType
	}
}
