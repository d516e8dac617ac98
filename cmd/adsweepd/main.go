// Package main is the entry point for the adsweepd server binary.
// The server binds to the directory read-only and exposes the inactivity
// query as a JSON API plus a small HTML front end.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"adsweep/internal/app"
	"adsweep/internal/config"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// .env is a development convenience; absence is fine.
	_ = config.LoadDotEnv(".env")

	cfg, err := config.LoadFromEnv()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	for _, w := range cfg.Warnings {
		logger.Warn(w)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	return app.Run(ctx, cfg, logger)
}
