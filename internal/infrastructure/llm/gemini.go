package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"NewsEnricher/internal/config"
	"NewsEnricher/internal/domain"
	"NewsEnricher/internal/ports"
)

// GeminiClient implements summary generation, jargon extraction and quiz
// generation on top of the Gemini generateContent API.
type GeminiClient struct {
	endpoint   string
	model      string
	apiKey     string
	httpClient *http.Client
}

var _ ports.Summarizer = (*GeminiClient)(nil)
var _ ports.JargonExtractor = (*GeminiClient)(nil)

// NewGeminiClient builds a client from configuration.
func NewGeminiClient(cfg config.GeminiConfig) *GeminiClient {
	return &GeminiClient{
		endpoint: cfg.Endpoint,
		model:    cfg.Model,
		apiKey:   cfg.APIKey,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// GenerateSummary produces an audience-tailored summary of the content.
func (c *GeminiClient) GenerateSummary(ctx context.Context, content string, mode domain.SummaryMode) (string, error) {
	text, err := c.generate(ctx, summaryPrompt(content, mode))
	if err != nil {
		return "", fmt.Errorf("generate %s summary: %w", mode, err)
	}
	return strings.TrimSpace(text), nil
}

// ExtractJargon asks the model for technical terms with definitions. A
// response that is not the requested JSON is treated as no signal, not as a
// failure, so prior glossaries stay intact.
func (c *GeminiClient) ExtractJargon(ctx context.Context, content string) ([]domain.JargonTerm, error) {
	text, err := c.generate(ctx, jargonPrompt(content))
	if err != nil {
		return nil, fmt.Errorf("extract jargon: %w", err)
	}

	var raw []domain.JargonTerm
	if err := json.Unmarshal([]byte(stripFences(text)), &raw); err != nil {
		return nil, nil
	}

	terms := make([]domain.JargonTerm, 0, len(raw))
	for _, t := range raw {
		if t.Term == "" {
			continue
		}
		if t.Difficulty == "" {
			t.Difficulty = "intermediate"
		}
		terms = append(terms, t)
	}
	return terms, nil
}

// GenerateQuizQuestions builds multiple-choice questions from the content.
// The quiz storage and serving side lives outside this process; this is the
// generation capability it calls into.
func (c *GeminiClient) GenerateQuizQuestions(ctx context.Context, content string, numQuestions int) ([]domain.QuizQuestion, error) {
	if numQuestions <= 0 {
		numQuestions = 3
	}
	text, err := c.generate(ctx, quizPrompt(content, numQuestions))
	if err != nil {
		return nil, fmt.Errorf("generate quiz: %w", err)
	}

	var questions []domain.QuizQuestion
	if err := json.Unmarshal([]byte(stripFences(text)), &questions); err != nil {
		return nil, nil
	}
	return questions, nil
}

func (c *GeminiClient) generate(ctx context.Context, prompt string) (string, error) {
	if c.apiKey == "" || c.endpoint == "" || c.model == "" {
		return "", fmt.Errorf("gemini client misconfigured")
	}

	body, err := json.Marshal(generateRequest{
		Contents: []requestContent{{Parts: []requestPart{{Text: prompt}}}},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s",
		strings.TrimSuffix(c.endpoint, "/"), c.model, url.QueryEscape(c.apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("call gemini: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("gemini error %s: %s", resp.Status, strings.TrimSpace(string(detail)))
	}

	var payload generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	if len(payload.Candidates) == 0 || len(payload.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini returned no candidates")
	}

	var text strings.Builder
	for _, part := range payload.Candidates[0].Content.Parts {
		text.WriteString(part.Text)
	}
	return text.String(), nil
}

type generateRequest struct {
	Contents []requestContent `json:"contents"`
}

type requestContent struct {
	Parts []requestPart `json:"parts"`
}

type requestPart struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// stripFences removes a surrounding markdown code block, which the model
// often wraps JSON answers in despite instructions not to.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		if i := strings.Index(s, "\n"); i >= 0 {
			s = s[i+1:]
		} else {
			s = ""
		}
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
