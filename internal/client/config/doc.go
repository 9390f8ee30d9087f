// Package config loads runtime configuration for the blog client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional config file selected via -c or -config. The format follows
//     the extension: .json, .yaml/.yml or .toml.
//  3. A .env file in the working directory, then BLOG_* environment
//     variables.
//  4. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the posts API
//	-t int      request timeout (seconds)
//	-s string   local store driver: sqlite, redis or memory
//	-l string   log level: debug, info, warn or error
//
// # File format
//
// Durations use timex.Duration, so JSON values can be either strings like
// "10s" or integer nanoseconds; YAML and TOML take the string form:
//
//	{
//	  "api_base_url": "http://localhost:3000",
//	  "request_timeout": "10s",
//	  "store_driver": "sqlite",
//	  "data_dir": "data"
//	}
//
// Environment variables carry the same names upper-cased with a BLOG_
// prefix, e.g. BLOG_API_BASE_URL or BLOG_S3_BUCKET.
package config
