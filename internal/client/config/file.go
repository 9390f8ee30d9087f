package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/dmitrijs2005/blogkeeper/internal/flagx"
	"github.com/dmitrijs2005/blogkeeper/internal/timex"
	"gopkg.in/yaml.v3"
)

// FileConfig is a DTO used exclusively for decoding config files. Keys
// missing from the file keep their current values.
type FileConfig struct {
	APIBaseURL     string         `json:"api_base_url" yaml:"api_base_url" toml:"api_base_url"`
	RequestTimeout timex.Duration `json:"request_timeout" yaml:"request_timeout" toml:"request_timeout"`
	RateLimit      float64        `json:"rate_limit" yaml:"rate_limit" toml:"rate_limit"`
	ShareBaseURL   string         `json:"share_base_url" yaml:"share_base_url" toml:"share_base_url"`

	StoreDriver   string `json:"store_driver" yaml:"store_driver" toml:"store_driver"`
	DataDir       string `json:"data_dir" yaml:"data_dir" toml:"data_dir"`
	RedisAddr     string `json:"redis_addr" yaml:"redis_addr" toml:"redis_addr"`
	RedisPassword string `json:"redis_password" yaml:"redis_password" toml:"redis_password"`
	RedisDB       int    `json:"redis_db" yaml:"redis_db" toml:"redis_db"`
	RedisPrefix   string `json:"redis_prefix" yaml:"redis_prefix" toml:"redis_prefix"`

	PasswordScheme string `json:"password_scheme" yaml:"password_scheme" toml:"password_scheme"`
	TokenSecret    string `json:"token_secret" yaml:"token_secret" toml:"token_secret"`

	S3Endpoint  string `json:"s3_endpoint" yaml:"s3_endpoint" toml:"s3_endpoint"`
	S3Region    string `json:"s3_region" yaml:"s3_region" toml:"s3_region"`
	S3Bucket    string `json:"s3_bucket" yaml:"s3_bucket" toml:"s3_bucket"`
	S3AccessKey string `json:"s3_access_key" yaml:"s3_access_key" toml:"s3_access_key"`
	S3SecretKey string `json:"s3_secret_key" yaml:"s3_secret_key" toml:"s3_secret_key"`
	S3PublicURL string `json:"s3_public_url" yaml:"s3_public_url" toml:"s3_public_url"`

	PageSize  int    `json:"page_size" yaml:"page_size" toml:"page_size"`
	LogLevel  string `json:"log_level" yaml:"log_level" toml:"log_level"`
	LogFormat string `json:"log_format" yaml:"log_format" toml:"log_format"`
}

// parseFile overlays cfg with the file named by -c/-config in args. No
// flag means no change. Environment references like ${HOME} are expanded
// before decoding.
func parseFile(cfg *Config, args []string) error {
	path := flagx.ConfigFile(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	data = []byte(os.ExpandEnv(string(data)))

	fc := toFile(cfg)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json", "":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(&fc)
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		err = dec.Decode(&fc)
	case ".toml":
		_, err = toml.Decode(string(data), &fc)
	default:
		return fmt.Errorf("unsupported config format %q", ext)
	}
	if err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	fromFile(cfg, fc)
	return nil
}

func toFile(c *Config) FileConfig {
	return FileConfig{
		APIBaseURL:     c.APIBaseURL,
		RequestTimeout: timex.Duration{Duration: c.RequestTimeout},
		RateLimit:      c.RateLimit,
		ShareBaseURL:   c.ShareBaseURL,
		StoreDriver:    c.StoreDriver,
		DataDir:        c.DataDir,
		RedisAddr:      c.RedisAddr,
		RedisPassword:  c.RedisPassword,
		RedisDB:        c.RedisDB,
		RedisPrefix:    c.RedisPrefix,
		PasswordScheme: c.PasswordScheme,
		TokenSecret:    c.TokenSecret,
		S3Endpoint:     c.S3Endpoint,
		S3Region:       c.S3Region,
		S3Bucket:       c.S3Bucket,
		S3AccessKey:    c.S3AccessKey,
		S3SecretKey:    c.S3SecretKey,
		S3PublicURL:    c.S3PublicURL,
		PageSize:       c.PageSize,
		LogLevel:       c.LogLevel,
		LogFormat:      c.LogFormat,
	}
}

func fromFile(c *Config, fc FileConfig) {
	c.APIBaseURL = fc.APIBaseURL
	c.RequestTimeout = fc.RequestTimeout.Duration
	c.RateLimit = fc.RateLimit
	c.ShareBaseURL = fc.ShareBaseURL
	c.StoreDriver = fc.StoreDriver
	c.DataDir = fc.DataDir
	c.RedisAddr = fc.RedisAddr
	c.RedisPassword = fc.RedisPassword
	c.RedisDB = fc.RedisDB
	c.RedisPrefix = fc.RedisPrefix
	c.PasswordScheme = fc.PasswordScheme
	c.TokenSecret = fc.TokenSecret
	c.S3Endpoint = fc.S3Endpoint
	c.S3Region = fc.S3Region
	c.S3Bucket = fc.S3Bucket
	c.S3AccessKey = fc.S3AccessKey
	c.S3SecretKey = fc.S3SecretKey
	c.S3PublicURL = fc.S3PublicURL
	c.PageSize = fc.PageSize
	c.LogLevel = fc.LogLevel
	c.LogFormat = fc.LogFormat
}
