package kvstore

import (
	"context"
	"fmt"
)

// Backend is raw byte storage under string keys. Get returns (nil, nil)
// for an absent key.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Driver identifiers accepted by NewBackend.
const (
	DriverSQLite = "sqlite"
	DriverRedis  = "redis"
	DriverMemory = "memory"
)

// Config selects and configures a backend.
type Config struct {
	Driver string
	SQLite *SQLiteConfig
	Redis  *RedisConfig
}

type SQLiteConfig struct {
	DSN string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// NewBackend creates the backend named by cfg.Driver; an empty driver
// means sqlite.
func NewBackend(ctx context.Context, cfg Config) (Backend, error) {
	driver := cfg.Driver
	if driver == "" {
		driver = DriverSQLite
	}

	switch driver {
	case DriverSQLite:
		if cfg.SQLite == nil || cfg.SQLite.DSN == "" {
			return nil, fmt.Errorf("sqlite driver requires a dsn")
		}
		return OpenSQLite(ctx, cfg.SQLite.DSN)
	case DriverRedis:
		return NewRedisBackend(ctx, cfg.Redis)
	case DriverMemory:
		return NewMemoryBackend(), nil
	default:
		return nil, fmt.Errorf("unsupported store driver: %s", driver)
	}
}
