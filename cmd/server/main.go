package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"phpayroll/internal/app/server"
	"phpayroll/internal/platform/config"
	"phpayroll/internal/platform/logging"
)

func main() {
	cfg := config.Load()

	logger, err := logging.New(cfg.Environment, cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	if err := cfg.Validate(); err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}

	if err := server.Run(cfg, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
