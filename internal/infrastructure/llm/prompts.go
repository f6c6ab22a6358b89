package llm

import (
	"fmt"

	"NewsEnricher/internal/domain"
)

func summaryPrompt(content string, mode domain.SummaryMode) string {
	if mode == domain.ModeKid {
		return fmt.Sprintf(`
Summarize this news article for a 10-year-old reader:
- Use simple words and short sentences
- Explain technical terms with fun analogies
- Keep it under 150 words
- Make it engaging and educational

Article: %s

Summary:`, content)
	}

	return fmt.Sprintf(`
Provide a professional summary for industry experts:
- Maintain technical accuracy and terminology
- Include key statistics and citations if present
- Highlight industry implications
- Keep it under 300 words

Article: %s

Summary:`, content)
}

func jargonPrompt(content string) string {
	return fmt.Sprintf(`
Extract technical terms from this article and provide definitions.
Return ONLY valid JSON array, no other text.

Format: [{"term": "...", "definition": "...", "difficulty": "basic|intermediate|advanced"}]

Article: %s

JSON:`, content)
}

func quizPrompt(content string, numQuestions int) string {
	return fmt.Sprintf(`
Generate %d multiple-choice quiz questions based on this article.
Return ONLY valid JSON array, no other text.

Format: [
  {
    "question": "Question text?",
    "options": ["A) Option 1", "B) Option 2", "C) Option 3", "D) Option 4"],
    "correct_answer": "A) Option 1"
  }
]

Article: %s

JSON:`, numQuestions, content)
}
