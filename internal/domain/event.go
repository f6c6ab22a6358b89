package domain

import (
	"errors"
	"time"
)

// ErrBrokerUnavailable reports a broker call made before Start or after the
// connection was closed.
var ErrBrokerUnavailable = errors.New("broker unavailable")

// RawEvent is one unit of ingestible content arriving from the inbound stream.
type RawEvent struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Content     string     `json:"content"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
}

// Valid reports whether the event carries enough to be enriched.
func (e RawEvent) Valid() bool {
	return e.ID != "" && e.Content != ""
}

// SummaryMode selects the audience for a generated summary.
type SummaryMode string

const (
	ModeKid SummaryMode = "kid"
	ModePro SummaryMode = "pro"
)

// JargonTerm is one technical term extracted from an article.
type JargonTerm struct {
	Term       string `json:"term"`
	Definition string `json:"definition"`
	Difficulty string `json:"difficulty"`
}

// QuizQuestion is a multiple-choice question generated from article content.
type QuizQuestion struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
}

// Claim is one external review of a factual claim. NormalizedScore is nil
// for ratings that carry no numeric signal (unrated, satire, ...).
type Claim struct {
	ClaimText       string `json:"claim_text"`
	Claimant        string `json:"claimant"`
	Rating          string `json:"rating"`
	NormalizedScore *int   `json:"normalized_score,omitempty"`
	Publisher       string `json:"publisher"`
	ReviewURL       string `json:"review_url"`
}

// Status reasons attached to claim-search results and veracity assessments.
const (
	VeracityOK           = "success"
	VeracityNoMatches    = "no_matching_claims"
	VeracityNoAPIKey     = "no_api_key"
	VeracityAccessDenied = "access_denied"
	VeracityError        = "error"
)

// FoundClaim is one raw claim review returned by the external claim-search
// capability, before any scoring.
type FoundClaim struct {
	Text      string
	Claimant  string
	Rating    string
	Publisher string
	ReviewURL string
}

// ClaimSearchResult is the narrow response contract of the claim-search
// capability: a status reason plus the matching reviews, if any.
type ClaimSearchResult struct {
	Status string
	Claims []FoundClaim
}

// VeracityAssessment is the normalized outcome of a claim check for one
// article. A nil Score means "insufficient signal", which is distinct from a
// zero Score ("assessed as false").
type VeracityAssessment struct {
	Score     *int
	Claims    []Claim
	Status    string
	CheckedAt time.Time
}

// Signal reports whether the assessment carries anything worth persisting.
// Failed or empty checks must never overwrite a prior assessment.
func (v VeracityAssessment) Signal() bool {
	return v.Score != nil || len(v.Claims) > 0
}

// Enrichment aggregates the four subtask outputs for one event. Nil
// summaries and an empty jargon set mean the corresponding subtask produced
// no signal.
type Enrichment struct {
	ArticleID  string
	KidSummary *string
	ProSummary *string
	Jargon     []JargonTerm
	Veracity   VeracityAssessment
}

// EventStatus enumerates pipeline milestones for one event.
type EventStatus string

const (
	StatusReceived     EventStatus = "received"
	StatusDispatched   EventStatus = "dispatched"
	StatusAggregated   EventStatus = "aggregated"
	StatusPersisted    EventStatus = "persisted"
	StatusAcknowledged EventStatus = "acknowledged"
	StatusDropped      EventStatus = "dropped"
)
