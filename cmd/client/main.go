package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/blogkeeper/internal/client/cli"
	"github.com/dmitrijs2005/blogkeeper/internal/client/config"
	"github.com/dmitrijs2005/blogkeeper/internal/logging"
)

func main() {

	cfg, err := config.LoadConfig(os.Args[1:])
	if err != nil {
		log.Fatalf("%v", err)
	}

	logger := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if err := app.Run(ctx); err != nil && ctx.Err() == nil {
		log.Printf("%v", err)
	}
}
