// Package orchestrator sequences one request through classification, agent
// dispatch, response compilation, and persistence.
package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/projectbrainsaver/brainsaver/internal/agents"
	"github.com/projectbrainsaver/brainsaver/internal/composer"
	"github.com/projectbrainsaver/brainsaver/internal/intent"
	"github.com/projectbrainsaver/brainsaver/internal/storage"
)

const contextLimit = 3

const clarificationMessage = "I'm not sure what you'd like me to help with. Could you please clarify your request?"

// InteractionWriter is the slice of the store the orchestrator persists to.
type InteractionWriter interface {
	SaveInteraction(userInput, agentOutput, sessionID, contextTags string) (int64, error)
}

// ContextRetriever finds prior interactions relevant to the raw input.
type ContextRetriever interface {
	FindRelevant(query string, limit int) ([]storage.Interaction, error)
}

// Orchestrator routes each request to the agents its classification names
// and persists the compiled exchange. Turns are strictly sequential; a turn
// always reaches its terminal state.
type Orchestrator struct {
	store     InteractionWriter
	retriever ContextRetriever
	agents    map[string]agents.Agent
	sessionID string
	logger    *slog.Logger
}

// New creates an Orchestrator. The agent map is keyed by the handler names
// the classifier emits (intent.AgentFile and friends).
func New(store InteractionWriter, retriever ContextRetriever, agentSet map[string]agents.Agent, sessionID string, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{
		store:     store,
		retriever: retriever,
		agents:    agentSet,
		sessionID: sessionID,
		logger:    logger,
	}
}

// Process handles one request to completion and returns the reply. A non-nil
// error means persistence failed after the reply was already produced; the
// reply is still valid and should be shown to the user.
func (o *Orchestrator) Process(ctx context.Context, userInput string) (string, error) {
	o.logger.Info("processing request", "input", userInput)

	// Past context only decorates the reply; it never alters classification.
	contextNote := ""
	past, err := o.retriever.FindRelevant(userInput, contextLimit)
	if err != nil {
		o.logger.Warn("memory retrieval failed, continuing without context", "error", err)
	} else if len(past) > 0 {
		contextNote = fmt.Sprintf("Found %d relevant past interactions. ", len(past))
	}

	interp := intent.Classify(userInput)

	if interp.PrimaryIntent == intent.IntentUnknown {
		if _, err := o.store.SaveInteraction(userInput, clarificationMessage, o.sessionID, "unknown_intent"); err != nil {
			return clarificationMessage, fmt.Errorf("persisting interaction: %w", err)
		}
		return clarificationMessage, nil
	}

	outcomes := make([]agents.Outcome, 0, len(interp.AgentsNeeded))
	for _, name := range interp.AgentsNeeded {
		outcomes = append(outcomes, o.dispatch(ctx, name, interp.Parameters, userInput))
	}

	reply := composer.Compile(contextNote, interp, outcomes)

	tags := interp.PrimaryIntent + "," + strings.Join(interp.AgentsNeeded, ",")
	if _, err := o.store.SaveInteraction(userInput, reply, o.sessionID, tags); err != nil {
		return reply, fmt.Errorf("persisting interaction: %w", err)
	}

	return reply, nil
}

// dispatch invokes one agent and converts every fault, error return or
// panic, into a failed outcome so the remaining agents still run.
func (o *Orchestrator) dispatch(ctx context.Context, name string, params map[string]string, userInput string) (out agents.Outcome) {
	defer func() {
		if r := recover(); r != nil {
			o.logger.Error("agent panicked", "agent", name, "panic", r)
			out = agents.Outcome{Success: false, Message: fmt.Sprintf("Error in %s: %v", name, r)}
		}
	}()

	agent, ok := o.agents[name]
	if !ok {
		return agents.Outcome{Success: false, Message: fmt.Sprintf("Unknown agent: %s", name)}
	}

	out, err := agent.Invoke(ctx, params, userInput)
	if err != nil {
		o.logger.Warn("agent invocation failed", "agent", name, "error", err)
		return agents.Outcome{Success: false, Message: fmt.Sprintf("Error in %s: %v", name, err)}
	}
	return out
}
