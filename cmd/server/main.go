package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/certifier/internal/logging"
	"github.com/dmitrijs2005/certifier/internal/server"
	"github.com/dmitrijs2005/certifier/internal/server/config"
	"go.uber.org/automaxprocs/maxprocs"
)

func main() {
	cfg, err := config.LoadConfig(os.Args[1:])
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.NewJSONLogger(os.Stdout, cfg.Debug)
	ctx := context.Background()

	if _, err := maxprocs.Set(maxprocs.Logger(func(format string, args ...any) {
		logger.Debug(ctx, "automaxprocs", "message", format, "args", args)
	})); err != nil {
		logger.Warn(ctx, "failed to set GOMAXPROCS", "error", err)
	}

	app, err := server.NewApp(ctx, cfg, logger)
	if err != nil {
		logger.Error(ctx, "init failed", "error", err)
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil {
		logger.Error(ctx, "server stopped with error", "error", err)
		os.Exit(1)
	}
}
