package research

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"decipher-research-be/pkg/llm"
)

// Planner turns a research topic into a set of search queries.
type Planner struct {
	provider   llm.LLMProvider
	maxQueries int
}

func NewPlanner(provider llm.LLMProvider, maxQueries int) *Planner {
	if maxQueries <= 0 {
		maxQueries = 5
	}
	return &Planner{
		provider:   provider,
		maxQueries: maxQueries,
	}
}

type plannerResult struct {
	SearchQueries []string `json:"search_queries"`
}

func (p *Planner) PlanQueries(ctx context.Context, topic string) ([]string, error) {
	now := time.Now().Format("2006-01-02 15:04:05")
	prompt := fmt.Sprintf(plannerPrompt, topic, now, p.maxQueries)

	raw, err := p.provider.Generate(ctx, prompt, llm.WithTemperature(0.3))
	if err != nil {
		return nil, fmt.Errorf("planner generation failed: %w", err)
	}

	var result plannerResult
	if err := json.Unmarshal([]byte(extractJSON(raw)), &result); err != nil {
		return nil, fmt.Errorf("planner returned invalid JSON: %w", err)
	}

	var queries []string
	for _, q := range result.SearchQueries {
		q = strings.TrimSpace(q)
		if q != "" {
			queries = append(queries, q)
		}
	}

	if len(queries) == 0 {
		return nil, fmt.Errorf("planner produced no queries")
	}
	if len(queries) > p.maxQueries {
		queries = queries[:p.maxQueries]
	}

	return queries, nil
}

// extractJSON strips markdown code fences and surrounding chatter so that
// model output can be unmarshalled. It returns the substring between the
// first '{' and the last '}'.
func extractJSON(raw string) string {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 || end < start {
		return raw
	}
	return raw[start : end+1]
}
