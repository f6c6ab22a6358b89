package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/lib/pq"

	"NewsEnricher/internal/domain"
	"NewsEnricher/internal/ports"
)

// Repository persists enrichment output into Postgres.
type Repository struct {
	db     *sql.DB
	logger *slog.Logger
}

var _ ports.EnrichmentRepository = (*Repository)(nil)

// Open connects to Postgres, verifies the connection and applies the schema.
func Open(ctx context.Context, dsn string, logger *slog.Logger) (*Repository, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := db.ExecContext(ctx, Schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Repository{db: db, logger: logger}, nil
}

// Close releases the connection pool.
func (r *Repository) Close() error {
	return r.db.Close()
}

// SaveEnrichment writes all records for one event inside a single
// transaction: summary upserts, a wholesale jargon replace for non-empty
// term lists, and a veracity update only when the assessment carries signal.
// Any error rolls back the whole set and is returned to the caller.
func (r *Repository) SaveEnrichment(ctx context.Context, enr domain.Enrichment) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }() // no-op once committed

	exists, err := articleExists(ctx, tx, enr.ArticleID)
	if err != nil {
		return err
	}
	if !exists {
		r.logger.Warn("article not found, skipping save", "article_id", enr.ArticleID)
		return nil
	}

	now := time.Now().UTC()

	if enr.Veracity.Signal() {
		if err := execBuilt(ctx, tx, func() (string, []any, error) {
			return veracityUpdate(enr.ArticleID, enr.Veracity)
		}); err != nil {
			return fmt.Errorf("update veracity: %w", err)
		}
	}

	if enr.KidSummary != nil {
		if err := execBuilt(ctx, tx, func() (string, []any, error) {
			return summaryUpsert(enr.ArticleID, domain.ModeKid, *enr.KidSummary, now)
		}); err != nil {
			return fmt.Errorf("upsert kid summary: %w", err)
		}
	}

	if enr.ProSummary != nil {
		if err := execBuilt(ctx, tx, func() (string, []any, error) {
			return summaryUpsert(enr.ArticleID, domain.ModePro, *enr.ProSummary, now)
		}); err != nil {
			return fmt.Errorf("upsert pro summary: %w", err)
		}
	}

	// An empty term list is "no signal": prior terms stay untouched. Only a
	// non-empty extraction replaces the set, and it replaces it wholesale.
	if terms := usableTerms(enr.Jargon); len(terms) > 0 {
		if err := execBuilt(ctx, tx, func() (string, []any, error) {
			return jargonDelete(enr.ArticleID)
		}); err != nil {
			return fmt.Errorf("clear jargon: %w", err)
		}
		if err := execBuilt(ctx, tx, func() (string, []any, error) {
			return jargonInsert(enr.ArticleID, terms)
		}); err != nil {
			return fmt.Errorf("insert jargon: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

func articleExists(ctx context.Context, tx *sql.Tx, articleID string) (bool, error) {
	query, args, err := articleExistsQuery(articleID)
	if err != nil {
		return false, fmt.Errorf("build exists query: %w", err)
	}

	var one int
	err = tx.QueryRowContext(ctx, query, args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check article: %w", err)
	}
	return true, nil
}

func execBuilt(ctx context.Context, tx *sql.Tx, build func() (string, []any, error)) error {
	query, args, err := build()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return err
	}
	return nil
}

func usableTerms(terms []domain.JargonTerm) []domain.JargonTerm {
	usable := make([]domain.JargonTerm, 0, len(terms))
	for _, t := range terms {
		if t.Term == "" {
			continue
		}
		if t.Difficulty == "" {
			t.Difficulty = "intermediate"
		}
		usable = append(usable, t)
	}
	return usable
}
