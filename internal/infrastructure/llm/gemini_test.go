package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"NewsEnricher/internal/config"
	"NewsEnricher/internal/domain"
)

func geminiStub(t *testing.T, reply string) (*httptest.Server, *string) {
	t.Helper()

	var prompt string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req generateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if len(req.Contents) > 0 && len(req.Contents[0].Parts) > 0 {
			prompt = req.Contents[0].Parts[0].Text
		}
		resp := map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"parts": []map[string]any{{"text": reply}}}},
			},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(server.Close)
	return server, &prompt
}

func newTestClient(endpoint string) *GeminiClient {
	return NewGeminiClient(config.GeminiConfig{
		Endpoint: endpoint,
		Model:    "gemini-2.0-flash",
		APIKey:   "k",
	})
}

func TestGenerateSummaryModes(t *testing.T) {
	t.Parallel()

	server, prompt := geminiStub(t, "  a summary  ")
	client := newTestClient(server.URL)

	got, err := client.GenerateSummary(context.Background(), "article body", domain.ModeKid)
	if err != nil {
		t.Fatalf("GenerateSummary returned error: %v", err)
	}
	if got != "a summary" {
		t.Fatalf("expected trimmed summary, got %q", got)
	}
	if !strings.Contains(*prompt, "10-year-old") {
		t.Fatalf("kid prompt not used: %q", *prompt)
	}

	if _, err := client.GenerateSummary(context.Background(), "article body", domain.ModePro); err != nil {
		t.Fatalf("GenerateSummary returned error: %v", err)
	}
	if !strings.Contains(*prompt, "industry experts") {
		t.Fatalf("pro prompt not used: %q", *prompt)
	}
}

func TestExtractJargonParsesFencedJSON(t *testing.T) {
	t.Parallel()

	reply := "```json\n[{\"term\": \"mRNA\", \"definition\": \"messenger RNA\", \"difficulty\": \"advanced\"}, {\"term\": \"\", \"definition\": \"dropped\"}, {\"term\": \"API\", \"definition\": \"interface\"}]\n```"
	server, _ := geminiStub(t, reply)
	client := newTestClient(server.URL)

	terms, err := client.ExtractJargon(context.Background(), "article body")
	if err != nil {
		t.Fatalf("ExtractJargon returned error: %v", err)
	}
	if len(terms) != 2 {
		t.Fatalf("expected 2 usable terms, got %d", len(terms))
	}
	if terms[0].Term != "mRNA" || terms[0].Difficulty != "advanced" {
		t.Fatalf("unexpected term: %+v", terms[0])
	}
	if terms[1].Difficulty != "intermediate" {
		t.Fatalf("missing difficulty should default to intermediate")
	}
}

func TestExtractJargonBadJSONIsNoSignal(t *testing.T) {
	t.Parallel()

	server, _ := geminiStub(t, "I could not find any terms, sorry!")
	client := newTestClient(server.URL)

	terms, err := client.ExtractJargon(context.Background(), "article body")
	if err != nil {
		t.Fatalf("unparseable output must not error: %v", err)
	}
	if len(terms) != 0 {
		t.Fatalf("expected no terms, got %d", len(terms))
	}
}

func TestExtractJargonServerErrorFails(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	if _, err := client.ExtractJargon(context.Background(), "article body"); err == nil {
		t.Fatalf("server error must surface as an error")
	}
}

func TestGenerateQuizQuestions(t *testing.T) {
	t.Parallel()

	reply := `[{"question": "What is mRNA?", "options": ["A) a molecule", "B) a metal"], "correct_answer": "A) a molecule"}]`
	server, prompt := geminiStub(t, reply)
	client := newTestClient(server.URL)

	questions, err := client.GenerateQuizQuestions(context.Background(), "article body", 0)
	if err != nil {
		t.Fatalf("GenerateQuizQuestions returned error: %v", err)
	}
	if len(questions) != 1 || questions[0].CorrectAnswer != "A) a molecule" {
		t.Fatalf("unexpected questions: %+v", questions)
	}
	// zero requested questions falls back to the default of three
	if !strings.Contains(*prompt, "Generate 3 multiple-choice") {
		t.Fatalf("default question count not applied: %q", *prompt)
	}
}

func TestGenerateMisconfigured(t *testing.T) {
	t.Parallel()

	client := NewGeminiClient(config.GeminiConfig{})
	if _, err := client.GenerateSummary(context.Background(), "body", domain.ModePro); err == nil {
		t.Fatalf("missing credentials must error")
	}
}

func TestStripFences(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{"```json\n[1]\n```", "[1]"},
		{"```\n[1]\n```", "[1]"},
		{"[1]", "[1]"},
		{"  [1]  ", "[1]"},
		{"```", ""},
	}
	for _, tc := range cases {
		if got := stripFences(tc.in); got != tc.want {
			t.Fatalf("stripFences(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
