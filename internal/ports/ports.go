package ports

import (
	"context"

	"NewsEnricher/internal/domain"
)

// Message is one broker delivery. Partition and Offset identify it for the
// commit; ordering is guaranteed only within a single partition.
type Message struct {
	Partition int
	Offset    int64
	Payload   []byte
}

// EventStream pulls raw events for one (topic, consumer group) pair. Fetch
// blocks until the next message; the message stays uncommitted until Commit,
// so a crash before Commit leads to redelivery.
type EventStream interface {
	Start(ctx context.Context) error
	Stop() error
	Fetch(ctx context.Context) (Message, error)
	Commit(ctx context.Context, msg Message) error
}

// Publisher sends payloads to named topics with at-least-once semantics.
type Publisher interface {
	Start(ctx context.Context) error
	Stop() error
	Publish(ctx context.Context, topic string, payload any) error
}

// Summarizer generates audience-tailored article summaries.
type Summarizer interface {
	GenerateSummary(ctx context.Context, content string, mode domain.SummaryMode) (string, error)
}

// JargonExtractor pulls technical terms with definitions out of article
// content. An empty result means no signal, not an empty glossary.
type JargonExtractor interface {
	ExtractJargon(ctx context.Context, content string) ([]domain.JargonTerm, error)
}

// ClaimSearcher queries an external claim-review capability with a short
// text query.
type ClaimSearcher interface {
	Search(ctx context.Context, query, language string) (domain.ClaimSearchResult, error)
}

// VeracityChecker runs the full claim-check strategy for one event.
type VeracityChecker interface {
	Check(ctx context.Context, title, content string) (domain.VeracityAssessment, error)
}

// EnrichmentRepository persists one event's aggregated enrichment atomically.
type EnrichmentRepository interface {
	SaveEnrichment(ctx context.Context, enr domain.Enrichment) error
	Close() error
}
