package research

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"decipher-research-be/pkg/llm"
)

// perSourceWordLimit keeps the composer prompt inside typical context
// windows even when pages are long.
const perSourceWordLimit = 1500

// Composer writes the final titled document from scraped material.
type Composer struct {
	provider llm.LLMProvider
}

func NewComposer(provider llm.LLMProvider) *Composer {
	return &Composer{provider: provider}
}

type composerResult struct {
	Title    string `json:"title"`
	BlogPost string `json:"blog_post"`
}

func (c *Composer) Compose(ctx context.Context, topic string, visits []Visit) (title string, document string, err error) {
	if len(visits) == 0 {
		return "", "", fmt.Errorf("no source material to compose from")
	}

	var sb strings.Builder
	for i, visit := range visits {
		fmt.Fprintf(&sb, "--- Source %d: %s (%s) ---\n", i+1, visit.PageTitle, visit.URL)
		sb.WriteString(truncateWords(visit.Content, perSourceWordLimit))
		sb.WriteString("\n\n")
	}

	now := time.Now().Format("2006-01-02 15:04:05")
	prompt := fmt.Sprintf(composerPrompt, topic, now, sb.String())

	raw, err := c.provider.Generate(ctx, prompt, llm.WithTemperature(0.7))
	if err != nil {
		return "", "", fmt.Errorf("composer generation failed: %w", err)
	}

	var result composerResult
	if err := json.Unmarshal([]byte(extractJSON(raw)), &result); err != nil {
		return "", "", fmt.Errorf("composer returned invalid JSON: %w", err)
	}

	if result.Title == "" || result.BlogPost == "" {
		return "", "", fmt.Errorf("composer returned empty title or document")
	}

	return result.Title, result.BlogPost, nil
}

func truncateWords(text string, limit int) string {
	words := strings.Fields(text)
	if len(words) <= limit {
		return strings.Join(words, " ")
	}
	return strings.Join(words[:limit], " ")
}
