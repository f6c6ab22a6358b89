package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"NewsEnricher/internal/config"
	"NewsEnricher/internal/infrastructure/broker"
	"NewsEnricher/internal/infrastructure/factcheck"
	"NewsEnricher/internal/infrastructure/llm"
	"NewsEnricher/internal/infrastructure/storage"
	"NewsEnricher/internal/usecase"
	"NewsEnricher/internal/veracity"
)

// Application wires configuration into the enrichment consumer with its
// adapters. All components are explicitly constructed and injected; nothing
// is looked up from shared global state.
type Application struct {
	cfg      config.Config
	logger   *slog.Logger
	consumer *usecase.Consumer
	repo     *storage.Repository
}

// New builds a runnable application instance.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*Application, error) {
	repo, err := storage.Open(ctx, cfg.Database.DSN, logger.With("component", "storage"))
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}

	gemini := llm.NewGeminiClient(cfg.Gemini)
	claims := factcheck.NewClient(cfg.FactCheck)
	scorer := veracity.NewScorer(claims, cfg.FactCheck.Language, logger.With("component", "veracity"))
	stream := broker.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.RawTopic, cfg.Kafka.ConsumerGroup,
		logger.With("component", "broker"))

	consumer := usecase.NewConsumer(usecase.Deps{
		Stream:         stream,
		Summarizer:     gemini,
		Extractor:      gemini,
		Checker:        scorer,
		Repository:     repo,
		SubtaskTimeout: time.Duration(cfg.Pipeline.SubtaskTimeout),
		Logger:         logger.With("component", "consumer"),
	})

	return &Application{cfg: cfg, logger: logger, consumer: consumer, repo: repo}, nil
}

// Run processes events until the context is cancelled or the stream fails.
func (a *Application) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		a.consumer.Stop()
	}()

	err := a.consumer.Start(ctx)

	if closeErr := a.repo.Close(); closeErr != nil {
		a.logger.Error("close storage", "error", closeErr)
	}

	return err
}
