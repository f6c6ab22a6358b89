package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"NewsEnricher/internal/app"
	"NewsEnricher/internal/config"
	"NewsEnricher/internal/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	logger := logging.New(cfg.Logging.Level, cfg.Logging.Format)

	application, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("startup failed", "error", err)
		os.Exit(1)
	}

	logger.Info("news enricher starting",
		"topic", cfg.Kafka.RawTopic, "group", cfg.Kafka.ConsumerGroup)

	if err := application.Run(ctx); err != nil {
		logger.Error("consumer stopped", "error", err)
		os.Exit(1)
	}
}
