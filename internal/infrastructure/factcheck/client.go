package factcheck

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"NewsEnricher/internal/config"
	"NewsEnricher/internal/domain"
	"NewsEnricher/internal/ports"
)

// Client queries the Google FactCheck Tools claims:search API.
type Client struct {
	endpoint string
	apiKey   string
	http     *http.Client
}

var _ ports.ClaimSearcher = (*Client)(nil)

// NewClient builds a reusable claim-search client from configuration.
func NewClient(cfg config.FactCheckConfig) *Client {
	return &Client{
		endpoint: cfg.Endpoint,
		apiKey:   cfg.APIKey,
		http:     &http.Client{Timeout: 30 * time.Second},
	}
}

// Search issues one claims:search query. Missing credentials and API-side
// rejections (403, other non-200 statuses) are reported through the result
// status rather than as errors; only transport and decoding failures return
// an error.
func (c *Client) Search(ctx context.Context, query, language string) (domain.ClaimSearchResult, error) {
	if c.apiKey == "" {
		return domain.ClaimSearchResult{Status: domain.VeracityNoAPIKey}, nil
	}

	endpoint, err := url.Parse(c.endpoint)
	if err != nil {
		return domain.ClaimSearchResult{}, fmt.Errorf("invalid endpoint %s: %w", c.endpoint, err)
	}
	params := endpoint.Query()
	params.Set("key", c.apiKey)
	params.Set("query", query)
	params.Set("languageCode", language)
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return domain.ClaimSearchResult{}, fmt.Errorf("new request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return domain.ClaimSearchResult{}, fmt.Errorf("search claims: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusForbidden:
		return domain.ClaimSearchResult{Status: domain.VeracityAccessDenied}, nil
	default:
		return domain.ClaimSearchResult{Status: domain.VeracityError}, nil
	}

	var payload searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return domain.ClaimSearchResult{}, fmt.Errorf("decode response: %w", err)
	}

	if len(payload.Claims) == 0 {
		return domain.ClaimSearchResult{Status: domain.VeracityNoMatches}, nil
	}

	claims := make([]domain.FoundClaim, 0, len(payload.Claims))
	for _, entry := range payload.Claims {
		claims = append(claims, entry.flatten())
	}

	return domain.ClaimSearchResult{Status: domain.VeracityOK, Claims: claims}, nil
}

type searchResponse struct {
	Claims []claimEntry `json:"claims"`
}

type claimEntry struct {
	Text        string `json:"text"`
	Claimant    string `json:"claimant"`
	ClaimReview []struct {
		TextualRating string `json:"textualRating"`
		URL           string `json:"url"`
		Publisher     struct {
			Name string `json:"name"`
		} `json:"publisher"`
	} `json:"claimReview"`
}

// flatten keeps only the first review of a claim, which is what the
// downstream scoring uses.
func (e claimEntry) flatten() domain.FoundClaim {
	claim := domain.FoundClaim{
		Text:      e.Text,
		Claimant:  e.Claimant,
		Publisher: "Unknown",
	}
	if claim.Claimant == "" {
		claim.Claimant = "Unknown"
	}
	if len(e.ClaimReview) > 0 {
		review := e.ClaimReview[0]
		claim.Rating = review.TextualRating
		claim.ReviewURL = review.URL
		if review.Publisher.Name != "" {
			claim.Publisher = review.Publisher.Name
		}
	}
	return claim
}
