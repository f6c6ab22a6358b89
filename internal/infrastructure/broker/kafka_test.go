package broker

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"NewsEnricher/internal/domain"
	"NewsEnricher/internal/ports"
)

func TestProducerUnavailableBeforeStart(t *testing.T) {
	t.Parallel()

	producer := NewProducer([]string{"localhost:9092"}, slog.Default())
	err := producer.Publish(context.Background(), TopicNewsRaw, map[string]string{"id": "a1"})
	if !errors.Is(err, domain.ErrBrokerUnavailable) {
		t.Fatalf("expected ErrBrokerUnavailable, got %v", err)
	}
}

func TestProducerTopicHelpersUnavailableBeforeStart(t *testing.T) {
	t.Parallel()

	producer := NewProducer([]string{"localhost:9092"}, slog.Default())
	ctx := context.Background()

	helpers := map[string]func() error{
		TopicNewsRaw:        func() error { return producer.PublishRawArticle(ctx, map[string]string{"id": "a1"}) },
		TopicNewsSummarized: func() error { return producer.PublishSummarizedArticle(ctx, map[string]string{"id": "a1"}) },
		TopicUserEvents:     func() error { return producer.PublishUserEvent(ctx, map[string]string{"type": "view"}) },
	}
	for topic, publish := range helpers {
		if err := publish(); !errors.Is(err, domain.ErrBrokerUnavailable) {
			t.Errorf("%s: expected ErrBrokerUnavailable, got %v", topic, err)
		}
	}
}

func TestProducerStartStopIdempotent(t *testing.T) {
	t.Parallel()

	producer := NewProducer([]string{"localhost:9092"}, slog.Default())
	ctx := context.Background()

	if err := producer.Start(ctx); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	if err := producer.Start(ctx); err != nil {
		t.Fatalf("repeated Start must be a no-op: %v", err)
	}

	if err := producer.Stop(); err != nil {
		t.Fatalf("Stop returned error: %v", err)
	}
	if err := producer.Stop(); err != nil {
		t.Fatalf("repeated Stop must be a no-op: %v", err)
	}

	// the session is gone after Stop
	err := producer.Publish(ctx, TopicNewsRaw, "payload")
	if !errors.Is(err, domain.ErrBrokerUnavailable) {
		t.Fatalf("expected ErrBrokerUnavailable after Stop, got %v", err)
	}
}

func TestConsumerUnavailableBeforeStart(t *testing.T) {
	t.Parallel()

	consumer := NewConsumer([]string{"localhost:9092"}, TopicNewsRaw, "ai-processor-group", slog.Default())

	if _, err := consumer.Fetch(context.Background()); !errors.Is(err, domain.ErrBrokerUnavailable) {
		t.Fatalf("Fetch before Start must fail with ErrBrokerUnavailable, got %v", err)
	}
	if err := consumer.Commit(context.Background(), ports.Message{}); !errors.Is(err, domain.ErrBrokerUnavailable) {
		t.Fatalf("Commit before Start must fail with ErrBrokerUnavailable, got %v", err)
	}
	if err := consumer.Stop(); err != nil {
		t.Fatalf("Stop before Start must be a no-op: %v", err)
	}
}
