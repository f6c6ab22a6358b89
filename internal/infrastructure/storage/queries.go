package storage

import (
	"encoding/json"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"NewsEnricher/internal/domain"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

func articleExistsQuery(articleID string) (string, []any, error) {
	return psql.Select("1").
		From("articles").
		Where(sq.Eq{"id": articleID}).
		ToSql()
}

func summaryUpsert(articleID string, mode domain.SummaryMode, text string, at time.Time) (string, []any, error) {
	return psql.Insert("article_summaries").
		Columns("article_id", "mode", "summary", "generated_at").
		Values(articleID, string(mode), text, at).
		Suffix("ON CONFLICT (article_id, mode) DO UPDATE SET summary = EXCLUDED.summary, generated_at = EXCLUDED.generated_at").
		ToSql()
}

func veracityUpdate(articleID string, v domain.VeracityAssessment) (string, []any, error) {
	claims, err := json.Marshal(v.Claims)
	if err != nil {
		return "", nil, fmt.Errorf("marshal claims: %w", err)
	}

	return psql.Update("articles").
		Set("veracity_score", v.Score).
		Set("veracity_claims", string(claims)).
		Set("veracity_checked_at", v.CheckedAt).
		Where(sq.Eq{"id": articleID}).
		ToSql()
}

func jargonDelete(articleID string) (string, []any, error) {
	return psql.Delete("article_jargon").
		Where(sq.Eq{"article_id": articleID}).
		ToSql()
}

func jargonInsert(articleID string, terms []domain.JargonTerm) (string, []any, error) {
	builder := psql.Insert("article_jargon").
		Columns("article_id", "term", "definition", "difficulty")
	for _, t := range terms {
		builder = builder.Values(articleID, t.Term, t.Definition, t.Difficulty)
	}
	return builder.ToSql()
}
