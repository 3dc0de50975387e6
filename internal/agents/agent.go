// Package agents holds the handler adapters the orchestrator dispatches to.
// Every adapter exposes the same call/response contract and owns its own
// derived-parameter extraction from the raw input.
package agents

import "context"

// Outcome is the structured result of one agent invocation. Its message ends
// up in the compiled reply; it is never persisted on its own.
type Outcome struct {
	Success      bool
	Message      string
	Data         map[string]any
	ActionsTaken []string
}

// Agent is the uniform adapter contract. A returned error is converted by
// the orchestrator into a failed Outcome; it never aborts the turn.
type Agent interface {
	Invoke(ctx context.Context, params map[string]string, rawInput string) (Outcome, error)
}

func failure(message string) Outcome {
	return Outcome{Success: false, Message: message}
}
