package agents

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/projectbrainsaver/brainsaver/internal/memory"
)

const recallLimit = 5

// RecallAgent surfaces past interactions matching the request.
type RecallAgent struct {
	retriever *memory.Retriever
	logger    *slog.Logger
}

func NewRecallAgent(retriever *memory.Retriever, logger *slog.Logger) *RecallAgent {
	return &RecallAgent{retriever: retriever, logger: logger}
}

func (a *RecallAgent) Invoke(ctx context.Context, params map[string]string, rawInput string) (Outcome, error) {
	query := recallQueryFrom(rawInput)
	a.logger.Info("recalling interactions", "query", query)

	past, err := a.retriever.FindRelevant(query, recallLimit)
	if err != nil {
		return Outcome{}, fmt.Errorf("searching memory: %w", err)
	}

	entries := make([]map[string]string, len(past))
	for i, ix := range past {
		entries[i] = map[string]string{
			"timestamp":    ix.Timestamp.Format(time.RFC3339),
			"user_input":   ix.UserInput,
			"agent_output": ix.AgentOutput,
			"context_tags": ix.ContextTags,
		}
	}

	return Outcome{
		Success:      true,
		Message:      fmt.Sprintf("Found %d relevant past interactions", len(past)),
		Data:         map[string]any{"past_interactions": entries},
		ActionsTaken: []string{fmt.Sprintf("Searched memory for: %s", query)},
	}, nil
}

func recallQueryFrom(rawInput string) string {
	s := strings.ReplaceAll(rawInput, "remember", "")
	s = strings.ReplaceAll(s, "recall", "")
	return strings.TrimSpace(s)
}
