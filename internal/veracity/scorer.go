package veracity

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"NewsEnricher/internal/domain"
	"NewsEnricher/internal/ports"
)

const (
	maxQueryLen = 200
	maxClaims   = 5
)

type bucket struct {
	words []string
	score int
}

// Rating buckets checked in order. The specific buckets come before the
// generic false/true substrings so that "Mostly True" lands on 80 instead of
// matching the bare "true" bucket.
var buckets = []bucket{
	{words: []string{"mostly true", "mostly accurate", "largely true"}, score: 80},
	{words: []string{"half true", "mixed", "partly", "partially"}, score: 50},
	{words: []string{"mostly false", "mostly inaccurate", "largely false"}, score: 20},
	{words: []string{"false", "fake", "incorrect", "wrong", "pants on fire"}, score: 0},
	{words: []string{"true", "accurate", "correct", "verified"}, score: 100},
}

// RatingScore maps a textual claim rating to its numeric bucket via
// case-insensitive substring matching. The second return is false for
// ratings that carry no numeric signal (unverifiable, unrated, satire, or
// anything unrecognized); such claims are retained but excluded from the
// aggregate.
func RatingScore(rating string) (int, bool) {
	lowered := strings.ToLower(rating)
	for _, b := range buckets {
		for _, w := range b.words {
			if strings.Contains(lowered, w) {
				return b.score, true
			}
		}
	}
	return 0, false
}

// Scorer normalizes external claim-check responses into a 0-100 veracity
// score with the list of retained claims.
type Scorer struct {
	search   ports.ClaimSearcher
	language string
	logger   *slog.Logger
}

var _ ports.VeracityChecker = (*Scorer)(nil)

// NewScorer wires the claim-search capability and the query language.
func NewScorer(search ports.ClaimSearcher, language string, logger *slog.Logger) *Scorer {
	if language == "" {
		language = "en"
	}
	return &Scorer{search: search, language: language, logger: logger}
}

// Check runs the two-stage query strategy: the event title first, then
// exactly one fallback on the first sentence of the content when the title
// matched nothing. Transport failures surface as errors; API-side rejections
// arrive as a neutral assessment with a status reason.
func (s *Scorer) Check(ctx context.Context, title, content string) (domain.VeracityAssessment, error) {
	res, err := s.search.Search(ctx, truncate(title, maxQueryLen), s.language)
	if err != nil {
		return domain.VeracityAssessment{}, fmt.Errorf("claim search: %w", err)
	}

	if res.Status == domain.VeracityNoMatches && content != "" {
		firstSentence := strings.Split(content, ".")[0]
		s.logger.Debug("no claims for title, retrying with first sentence")
		res, err = s.search.Search(ctx, truncate(firstSentence, maxQueryLen), s.language)
		if err != nil {
			return domain.VeracityAssessment{}, fmt.Errorf("fallback claim search: %w", err)
		}
	}

	return s.score(res), nil
}

// score takes up to the first five claims, maps each rating and averages the
// numeric ones. Zero scorable claims leave the aggregate nil.
func (s *Scorer) score(res domain.ClaimSearchResult) domain.VeracityAssessment {
	now := time.Now().UTC()

	if len(res.Claims) == 0 {
		status := res.Status
		if status == "" {
			status = domain.VeracityNoMatches
		}
		return domain.VeracityAssessment{Status: status, CheckedAt: now}
	}

	found := res.Claims
	if len(found) > maxClaims {
		found = found[:maxClaims]
	}

	claims := make([]domain.Claim, 0, len(found))
	total, scored := 0, 0
	for _, fc := range found {
		claim := domain.Claim{
			ClaimText: fc.Text,
			Claimant:  fc.Claimant,
			Rating:    fc.Rating,
			Publisher: fc.Publisher,
			ReviewURL: fc.ReviewURL,
		}
		if v, ok := RatingScore(fc.Rating); ok {
			score := v
			claim.NormalizedScore = &score
			total += v
			scored++
		}
		claims = append(claims, claim)
	}

	assessment := domain.VeracityAssessment{
		Claims:    claims,
		Status:    domain.VeracityOK,
		CheckedAt: now,
	}
	if scored > 0 {
		mean := int(math.Round(float64(total) / float64(scored)))
		assessment.Score = &mean
	}
	return assessment
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
