package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/segmentio/kafka-go"

	"NewsEnricher/internal/domain"
	"NewsEnricher/internal/ports"
)

// Topic names shared with the surrounding system.
const (
	TopicNewsRaw        = "news-raw"
	TopicNewsSummarized = "news-summarized"
	TopicUserEvents     = "user-events"
)

// Producer publishes JSON payloads with at-least-once delivery: Publish
// blocks until all in-sync replicas acknowledge the write.
type Producer struct {
	brokers []string
	logger  *slog.Logger

	mu     sync.Mutex
	writer *kafka.Writer
}

var _ ports.Publisher = (*Producer)(nil)

// NewProducer wires broker addresses; the network session opens on Start.
func NewProducer(brokers []string, logger *slog.Logger) *Producer {
	return &Producer{brokers: brokers, logger: logger}
}

// Start opens the producer session. Calling it again is a no-op.
func (p *Producer) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.writer != nil {
		return nil
	}

	p.writer = &kafka.Writer{
		Addr:         kafka.TCP(p.brokers...),
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireAll,
	}
	p.logger.Info("producer started", "brokers", p.brokers)
	return nil
}

// Stop closes the producer session. Safe to call repeatedly.
func (p *Producer) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.writer == nil {
		return nil
	}

	err := p.writer.Close()
	p.writer = nil
	p.logger.Info("producer stopped")
	if err != nil {
		return fmt.Errorf("close producer: %w", err)
	}
	return nil
}

// Publish JSON-encodes the payload and sends it to the topic, blocking until
// the broker acknowledges.
func (p *Producer) Publish(ctx context.Context, topic string, payload any) error {
	p.mu.Lock()
	writer := p.writer
	p.mu.Unlock()

	if writer == nil {
		return domain.ErrBrokerUnavailable
	}

	value, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	if err := writer.WriteMessages(ctx, kafka.Message{Topic: topic, Value: value}); err != nil {
		return fmt.Errorf("publish to %s: %w", topic, err)
	}
	return nil
}

// PublishRawArticle sends a raw article onto the ingestion topic.
func (p *Producer) PublishRawArticle(ctx context.Context, article any) error {
	return p.Publish(ctx, TopicNewsRaw, article)
}

// PublishSummarizedArticle sends an enriched article notification.
func (p *Producer) PublishSummarizedArticle(ctx context.Context, article any) error {
	return p.Publish(ctx, TopicNewsSummarized, article)
}

// PublishUserEvent sends an analytics event.
func (p *Producer) PublishUserEvent(ctx context.Context, event any) error {
	return p.Publish(ctx, TopicUserEvents, event)
}

// Consumer pulls messages for one (topic, consumer group) pair. Ordering is
// preserved only within a partition; the group gives each message to exactly
// one member.
type Consumer struct {
	brokers []string
	topic   string
	group   string
	logger  *slog.Logger

	mu     sync.Mutex
	reader *kafka.Reader
}

var _ ports.EventStream = (*Consumer)(nil)

// NewConsumer binds the consumer to a topic and group; the session opens on
// Start.
func NewConsumer(brokers []string, topic, group string, logger *slog.Logger) *Consumer {
	return &Consumer{brokers: brokers, topic: topic, group: group, logger: logger}
}

// Start opens the consumer session and joins the group. Idempotent.
func (c *Consumer) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.reader != nil {
		return nil
	}

	c.reader = kafka.NewReader(kafka.ReaderConfig{
		Brokers:  c.brokers,
		GroupID:  c.group,
		Topic:    c.topic,
		MinBytes: 1,
		MaxBytes: 10 << 20,
	})
	c.logger.Info("consumer started", "topic", c.topic, "group", c.group)
	return nil
}

// Stop closes the session and releases held partition assignments. Safe to
// call repeatedly; a blocked Fetch returns with an error.
func (c *Consumer) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.reader == nil {
		return nil
	}

	err := c.reader.Close()
	c.reader = nil
	c.logger.Info("consumer stopped", "topic", c.topic)
	if err != nil {
		return fmt.Errorf("close consumer: %w", err)
	}
	return nil
}

// Fetch blocks until the next message arrives. The message stays
// uncommitted until Commit, so a crash before Commit leads to redelivery.
func (c *Consumer) Fetch(ctx context.Context) (ports.Message, error) {
	c.mu.Lock()
	reader := c.reader
	c.mu.Unlock()

	if reader == nil {
		return ports.Message{}, domain.ErrBrokerUnavailable
	}

	msg, err := reader.FetchMessage(ctx)
	if err != nil {
		return ports.Message{}, fmt.Errorf("fetch message: %w", err)
	}

	return ports.Message{Partition: msg.Partition, Offset: msg.Offset, Payload: msg.Value}, nil
}

// Commit acknowledges a fetched message, advancing the group offset.
func (c *Consumer) Commit(ctx context.Context, msg ports.Message) error {
	c.mu.Lock()
	reader := c.reader
	c.mu.Unlock()

	if reader == nil {
		return domain.ErrBrokerUnavailable
	}

	kmsg := kafka.Message{Topic: c.topic, Partition: msg.Partition, Offset: msg.Offset}
	if err := reader.CommitMessages(ctx, kmsg); err != nil {
		return fmt.Errorf("commit offset: %w", err)
	}
	return nil
}
