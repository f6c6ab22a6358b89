package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"NewsEnricher/internal/domain"
	"NewsEnricher/internal/ports"
	"NewsEnricher/internal/sanitize"
)

const defaultSubtaskTimeout = 60 * time.Second

// Deps wires all driven adapters into the consumer.
type Deps struct {
	Stream         ports.EventStream
	Summarizer     ports.Summarizer
	Extractor      ports.JargonExtractor
	Checker        ports.VeracityChecker
	Repository     ports.EnrichmentRepository
	SubtaskTimeout time.Duration
	Logger         *slog.Logger
}

// Consumer drives the enrichment pipeline: fetch one event, fan out the four
// subtasks, aggregate with per-task failure substitution, persist, commit.
// Events are processed strictly one at a time.
type Consumer struct {
	stream     ports.EventStream
	summarizer ports.Summarizer
	extractor  ports.JargonExtractor
	checker    ports.VeracityChecker
	repo       ports.EnrichmentRepository
	timeout    time.Duration
	logger     *slog.Logger
	running    atomic.Bool
}

// NewConsumer constructs the orchestration component.
func NewConsumer(deps Deps) *Consumer {
	timeout := deps.SubtaskTimeout
	if timeout <= 0 {
		timeout = defaultSubtaskTimeout
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Consumer{
		stream:     deps.Stream,
		summarizer: deps.Summarizer,
		extractor:  deps.Extractor,
		checker:    deps.Checker,
		repo:       deps.Repository,
		timeout:    timeout,
		logger:     logger,
	}
}

// Start connects the event stream and processes events until Stop is called
// or the stream fails. The next fetch happens only after the current event's
// persistence resolved, which bounds in-flight work to one event. A stream
// failure is fatal to this instance; a persistence failure fails only the
// current event and leaves it uncommitted for redelivery.
func (c *Consumer) Start(ctx context.Context) error {
	if !c.running.CompareAndSwap(false, true) {
		return nil
	}

	if err := c.stream.Start(ctx); err != nil {
		c.running.Store(false)
		return fmt.Errorf("start event stream: %w", err)
	}
	c.logger.Info("consumer started")

	for c.running.Load() {
		msg, err := c.stream.Fetch(ctx)
		if err != nil {
			if ctx.Err() != nil || !c.running.Load() {
				break
			}
			c.logger.Error("event stream failed, stopping consumer", "error", err)
			c.Stop()
			return err
		}

		if err := c.processMessage(ctx, msg.Payload); err != nil {
			// leave the message uncommitted; the broker redelivers and the
			// idempotent upserts absorb the duplicate
			c.logger.Error("event processing failed", "error", err)
			continue
		}

		if err := c.stream.Commit(ctx, msg); err != nil {
			c.logger.Error("commit failed", "error", err)
			continue
		}
		c.logger.Debug("message acknowledged",
			"status", domain.StatusAcknowledged, "partition", msg.Partition, "offset", msg.Offset)
	}

	c.Stop()
	return nil
}

// Stop flips the running flag and closes the stream. Cooperative: an event
// already inside the pipeline runs to completion before the loop exits.
// Repeated calls are no-ops.
func (c *Consumer) Stop() {
	if !c.running.CompareAndSwap(true, false) {
		return
	}
	if err := c.stream.Stop(); err != nil {
		c.logger.Error("stop event stream", "error", err)
	}
	c.logger.Info("consumer stopped")
}

func (c *Consumer) processMessage(ctx context.Context, payload []byte) error {
	var event domain.RawEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		c.logger.Warn("dropping undecodable event",
			"status", domain.StatusDropped, "error", err)
		return nil
	}
	return c.Process(ctx, event)
}

// Process runs one event through the pipeline. Invalid events are dropped
// and logged, never an error. The returned error is a persistence failure
// for this event only.
func (c *Consumer) Process(ctx context.Context, event domain.RawEvent) error {
	logger := c.logger.With("processing_id", uuid.NewString(), "article_id", event.ID)

	if !event.Valid() {
		logger.Warn("dropping event without id or content", "status", domain.StatusDropped)
		return nil
	}
	logger.Info("processing event",
		"status", domain.StatusReceived, "title", headline(event.Title))

	enrichment := c.dispatch(ctx, event, logger)
	logger.Info("subtasks joined", "status", domain.StatusAggregated)

	if err := c.repo.SaveEnrichment(ctx, enrichment); err != nil {
		return fmt.Errorf("persist enrichment for %s: %w", event.ID, err)
	}
	logger.Info("event persisted", "status", domain.StatusPersisted)

	return nil
}

// subtaskResult carries one subtask's typed output through the fan-in join,
// so failure substitution is an explicit branch rather than a recover.
type subtaskResult[T any] struct {
	value T
	err   error
}

// dispatch fans out the four enrichment subtasks and joins them. A failing
// subtask never aborts the others: its result is substituted with a neutral
// default and logged. Each subtask runs under its own timeout so a hung
// external call becomes an ordinary isolated failure.
func (c *Consumer) dispatch(ctx context.Context, event domain.RawEvent, logger *slog.Logger) domain.Enrichment {
	content := sanitize.Text(event.Content)
	if content == "" {
		content = event.Content
	}

	logger.Info("dispatching subtasks", "status", domain.StatusDispatched)

	var (
		wg     sync.WaitGroup
		kid    subtaskResult[string]
		pro    subtaskResult[string]
		jargon subtaskResult[[]domain.JargonTerm]
		check  subtaskResult[domain.VeracityAssessment]
	)

	wg.Add(4)
	go func() {
		defer wg.Done()
		kid.value, kid.err = c.summarize(ctx, content, domain.ModeKid)
	}()
	go func() {
		defer wg.Done()
		pro.value, pro.err = c.summarize(ctx, content, domain.ModePro)
	}()
	go func() {
		defer wg.Done()
		tctx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()
		jargon.value, jargon.err = c.extractor.ExtractJargon(tctx, content)
	}()
	go func() {
		defer wg.Done()
		tctx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()
		check.value, check.err = c.checker.Check(tctx, event.Title, content)
	}()
	wg.Wait()

	enrichment := domain.Enrichment{ArticleID: event.ID}

	if kid.err != nil {
		logger.Error("kid summary failed", "error", kid.err)
	} else if kid.value != "" {
		enrichment.KidSummary = &kid.value
	}

	if pro.err != nil {
		logger.Error("pro summary failed", "error", pro.err)
	} else if pro.value != "" {
		enrichment.ProSummary = &pro.value
	}

	if jargon.err != nil {
		logger.Error("jargon extraction failed", "error", jargon.err)
	} else {
		enrichment.Jargon = jargon.value
	}

	if check.err != nil {
		logger.Error("veracity check failed", "error", check.err)
		enrichment.Veracity = domain.VeracityAssessment{Status: domain.VeracityError}
	} else {
		enrichment.Veracity = check.value
	}

	return enrichment
}

func (c *Consumer) summarize(ctx context.Context, content string, mode domain.SummaryMode) (string, error) {
	tctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	return c.summarizer.GenerateSummary(tctx, content, mode)
}

func headline(title string) string {
	runes := []rune(title)
	if len(runes) <= 50 {
		return title
	}
	return string(runes[:50])
}
