package agents

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// ResearchAgent answers "look this up" requests. Results are simulated; a
// real web-search backend would slot in behind the same Outcome shape.
type ResearchAgent struct {
	logger *slog.Logger
}

func NewResearchAgent(logger *slog.Logger) *ResearchAgent {
	return &ResearchAgent{logger: logger}
}

func (a *ResearchAgent) Invoke(ctx context.Context, params map[string]string, rawInput string) (Outcome, error) {
	query := researchQueryFrom(rawInput)
	a.logger.Info("researching", "query", query)

	results := map[string]any{
		"summary": fmt.Sprintf("Research results for '%s' would appear here.", query),
		"sources": []map[string]string{
			{"title": fmt.Sprintf("Article about %s", query), "url": "https://example.com/1"},
			{"title": fmt.Sprintf("Guide to %s", query), "url": "https://example.com/2"},
		},
		"key_points": []string{
			fmt.Sprintf("Key insight 1 about %s", query),
			fmt.Sprintf("Key insight 2 about %s", query),
			fmt.Sprintf("Recommended action for %s", query),
		},
	}

	return Outcome{
		Success: true,
		Message: fmt.Sprintf("Found information about: %s", query),
		Data:    map[string]any{"results": results},
		ActionsTaken: []string{
			fmt.Sprintf("Searched for '%s'", query),
			"Analyzed results",
		},
	}, nil
}

func researchQueryFrom(rawInput string) string {
	s := strings.ReplaceAll(rawInput, "search for", "")
	s = strings.ReplaceAll(s, "research", "")
	return strings.TrimSpace(s)
}
