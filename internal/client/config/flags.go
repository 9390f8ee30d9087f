package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/blogkeeper/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   base URL of the posts API (default from Config)
//	-t int      request timeout in seconds (default from Config)
//	-s string   local store driver (default from Config)
//	-l string   log level (default from Config)
//
// Note: The function filters args to only include the flags it knows
// about, using flagx.FilterArgs, to avoid interference with other
// components.
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-t", "-s", "-l"})

	fs := flag.NewFlagSet("client", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "base URL of the posts API")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	fs.StringVar(&cfg.StoreDriver, "s", cfg.StoreDriver, "local store driver: sqlite, redis or memory")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		return err
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			cfg.RequestTimeout = time.Duration(*timeout) * time.Second
		}
	})
	return nil
}
