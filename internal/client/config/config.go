package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/dmitrijs2005/blogkeeper/internal/client/credentials"
	"github.com/dmitrijs2005/blogkeeper/internal/client/kvstore"
	"github.com/dmitrijs2005/blogkeeper/internal/client/media"
)

// Config holds runtime settings for the blog client.
type Config struct {
	APIBaseURL     string
	RequestTimeout time.Duration
	// RateLimit is requests per second against the API; 0 disables it.
	RateLimit    float64
	ShareBaseURL string

	StoreDriver   string
	DataDir       string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string

	PasswordScheme string
	TokenSecret    string

	S3Endpoint  string
	S3Region    string
	S3Bucket    string
	S3AccessKey string
	S3SecretKey string
	S3PublicURL string

	PageSize  int
	LogLevel  string
	LogFormat string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://localhost:3000"
	c.RequestTimeout = 10 * time.Second
	c.RateLimit = 10
	c.ShareBaseURL = "http://localhost:5173"
	c.StoreDriver = kvstore.DriverSQLite
	c.DataDir = "data"
	c.RedisPrefix = "blog:"
	c.PasswordScheme = credentials.SchemePlain
	c.S3Region = "us-east-1"
	c.PageSize = 5
	c.LogLevel = "info"
	c.LogFormat = "text"
}

// LoadConfig constructs a Config, applies defaults, then overlays the
// config file, the environment and command-line flags. Later sources take
// precedence over earlier ones. args excludes the program name.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseFile(cfg, args); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg, ".env"); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.StoreDriver {
	case kvstore.DriverSQLite, kvstore.DriverRedis, kvstore.DriverMemory:
	default:
		return fmt.Errorf("unknown store driver %q", c.StoreDriver)
	}
	if _, err := credentials.NewVerifier(c.PasswordScheme); err != nil {
		return err
	}
	if c.APIBaseURL == "" {
		return fmt.Errorf("api base url is required")
	}
	if c.PageSize <= 0 {
		return fmt.Errorf("page size must be positive, got %d", c.PageSize)
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("rate limit must not be negative, got %v", c.RateLimit)
	}
	return nil
}

// KVStore returns the local store settings. dataDir is the resolved,
// existing data directory.
func (c *Config) KVStore(dataDir string) kvstore.Config {
	return kvstore.Config{
		Driver: c.StoreDriver,
		SQLite: &kvstore.SQLiteConfig{DSN: "file:" + filepath.Join(dataDir, "blog.db")},
		Redis: &kvstore.RedisConfig{
			Addr:     c.RedisAddr,
			Password: c.RedisPassword,
			DB:       c.RedisDB,
			Prefix:   c.RedisPrefix,
		},
	}
}

func (c *Config) S3() media.S3Config {
	return media.S3Config{
		Endpoint:  c.S3Endpoint,
		Region:    c.S3Region,
		Bucket:    c.S3Bucket,
		AccessKey: c.S3AccessKey,
		SecretKey: c.S3SecretKey,
		PublicURL: c.S3PublicURL,
	}
}
