package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const envPrefix = "BLOG_"

// parseEnv loads dotenv (when it exists) into the process environment
// without overriding variables already set, then overlays BLOG_* values.
func parseEnv(cfg *Config, dotenv string) error {
	if dotenv != "" {
		if err := godotenv.Load(dotenv); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", dotenv, err)
		}
	}

	str := func(name string, dst *string) {
		if v, ok := os.LookupEnv(envPrefix + name); ok {
			*dst = v
		}
	}
	str("API_BASE_URL", &cfg.APIBaseURL)
	str("SHARE_BASE_URL", &cfg.ShareBaseURL)
	str("STORE_DRIVER", &cfg.StoreDriver)
	str("DATA_DIR", &cfg.DataDir)
	str("REDIS_ADDR", &cfg.RedisAddr)
	str("REDIS_PASSWORD", &cfg.RedisPassword)
	str("REDIS_PREFIX", &cfg.RedisPrefix)
	str("PASSWORD_SCHEME", &cfg.PasswordScheme)
	str("TOKEN_SECRET", &cfg.TokenSecret)
	str("S3_ENDPOINT", &cfg.S3Endpoint)
	str("S3_REGION", &cfg.S3Region)
	str("S3_BUCKET", &cfg.S3Bucket)
	str("S3_ACCESS_KEY", &cfg.S3AccessKey)
	str("S3_SECRET_KEY", &cfg.S3SecretKey)
	str("S3_PUBLIC_URL", &cfg.S3PublicURL)
	str("LOG_LEVEL", &cfg.LogLevel)
	str("LOG_FORMAT", &cfg.LogFormat)

	if v, ok := os.LookupEnv(envPrefix + "REQUEST_TIMEOUT"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%sREQUEST_TIMEOUT: %w", envPrefix, err)
		}
		cfg.RequestTimeout = d
	}
	if v, ok := os.LookupEnv(envPrefix + "RATE_LIMIT"); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%sRATE_LIMIT: %w", envPrefix, err)
		}
		cfg.RateLimit = f
	}
	for name, dst := range map[string]*int{"REDIS_DB": &cfg.RedisDB, "PAGE_SIZE": &cfg.PageSize} {
		if v, ok := os.LookupEnv(envPrefix + name); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("%s%s: %w", envPrefix, name, err)
			}
			*dst = n
		}
	}
	return nil
}
