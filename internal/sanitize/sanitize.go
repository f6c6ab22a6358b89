package sanitize

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Text extracts the visible text from an HTML fragment and collapses runs of
// whitespace. Plain text passes through unchanged apart from the collapsing.
func Text(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || !strings.Contains(trimmed, "<") {
		return collapse(trimmed)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(trimmed))
	if err != nil {
		return collapse(trimmed)
	}

	doc.Find("script, style").Remove()
	return collapse(doc.Text())
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
