package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/blogkeeper/internal/devserver"
	"github.com/dmitrijs2005/blogkeeper/internal/logging"
	"github.com/gin-gonic/gin"
)

func main() {

	var (
		addr     string
		secret   string
		seed     string
		logLevel string
	)
	flag.StringVar(&addr, "addr", ":3000", "listen address")
	flag.StringVar(&secret, "secret", "", "token secret; when set, writes require a bearer token")
	flag.StringVar(&seed, "seed", "", "path to a JSON file with initial posts")
	flag.StringVar(&logLevel, "l", "info", "log level")
	flag.Parse()

	gin.SetMode(gin.ReleaseMode)
	logger := logging.New(os.Stderr, logLevel, "text")

	srv := devserver.New(logger, []byte(secret))
	if seed != "" {
		if err := srv.SeedFile(seed); err != nil {
			log.Fatalf("%v", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info(ctx, "dev server listening", "addr", addr)
	if err := devserver.Run(ctx, addr, srv.Handler()); err != nil {
		log.Fatalf("%v", err)
	}
}
