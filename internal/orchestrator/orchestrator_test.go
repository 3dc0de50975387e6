package orchestrator

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/projectbrainsaver/brainsaver/internal/agents"
	"github.com/projectbrainsaver/brainsaver/internal/storage"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// recordingStore captures persisted interactions and can be made to fail.
type recordingStore struct {
	saved   []storage.Interaction
	saveErr error
}

func (r *recordingStore) SaveInteraction(userInput, agentOutput, sessionID, contextTags string) (int64, error) {
	if r.saveErr != nil {
		return 0, r.saveErr
	}
	r.saved = append(r.saved, storage.Interaction{
		UserInput:   userInput,
		AgentOutput: agentOutput,
		SessionID:   sessionID,
		ContextTags: contextTags,
	})
	return int64(len(r.saved)), nil
}

// fakeRetriever returns a fixed history or error.
type fakeRetriever struct {
	rows []storage.Interaction
	err  error
}

func (f *fakeRetriever) FindRelevant(query string, limit int) ([]storage.Interaction, error) {
	return f.rows, f.err
}

// stubAgent returns a canned outcome, error, or panic and records calls.
type stubAgent struct {
	outcome agents.Outcome
	err     error
	panics  bool
	calls   int
}

func (s *stubAgent) Invoke(ctx context.Context, params map[string]string, rawInput string) (agents.Outcome, error) {
	s.calls++
	if s.panics {
		panic("stub agent exploded")
	}
	return s.outcome, s.err
}

func newTestOrchestrator(store *recordingStore, retriever *fakeRetriever, agentSet map[string]agents.Agent) *Orchestrator {
	return New(store, retriever, agentSet, "test-session", testLogger())
}

func TestProcessUnknownIntentShortCircuits(t *testing.T) {
	store := &recordingStore{}
	file := &stubAgent{outcome: agents.Outcome{Success: true, Message: "ok"}}
	o := newTestOrchestrator(store, &fakeRetriever{}, map[string]agents.Agent{"file": file})

	reply, err := o.Process(context.Background(), "hello there")
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if !strings.Contains(reply, "clarify") {
		t.Errorf("reply = %q, want the clarification message", reply)
	}
	if file.calls != 0 {
		t.Errorf("agent invoked %d times for unknown intent, want 0", file.calls)
	}
	if len(store.saved) != 1 {
		t.Fatalf("saved %d interactions, want 1", len(store.saved))
	}
	if store.saved[0].ContextTags != "unknown_intent" {
		t.Errorf("tags = %q, want unknown_intent", store.saved[0].ContextTags)
	}
}

func TestProcessTagsMatchClassification(t *testing.T) {
	store := &recordingStore{}
	o := newTestOrchestrator(store, &fakeRetriever{}, map[string]agents.Agent{
		"phone":  &stubAgent{outcome: agents.Outcome{Success: true, Message: "phone ok"}},
		"memory": &stubAgent{outcome: agents.Outcome{Success: true, Message: "memory ok"}},
	})

	reply, err := o.Process(context.Background(), "organize my phone and files")
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if reply == "" {
		t.Fatal("empty reply")
	}
	if len(store.saved) != 1 {
		t.Fatalf("saved %d interactions, want 1", len(store.saved))
	}
	// The override yields {phone, memory}; tags follow the same set.
	if got := store.saved[0].ContextTags; got != "file_management,phone,memory" {
		t.Errorf("tags = %q, want %q", got, "file_management,phone,memory")
	}
}

// TestProcessAgentFailureDoesNotStopTheTurn: an erroring agent becomes a
// failed outcome and subsequent agents still run, and the turn persists.
func TestProcessAgentFailureDoesNotStopTheTurn(t *testing.T) {
	store := &recordingStore{}
	phone := &stubAgent{err: errors.New("device unreachable")}
	mem := &stubAgent{outcome: agents.Outcome{Success: true, Message: "memory searched"}}
	o := newTestOrchestrator(store, &fakeRetriever{}, map[string]agents.Agent{
		"phone":  phone,
		"memory": mem,
	})

	reply, err := o.Process(context.Background(), "organize my phone")
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if mem.calls != 1 {
		t.Errorf("memory agent ran %d times, want 1 (failure must not stop dispatch)", mem.calls)
	}
	if !strings.Contains(reply, "device unreachable") {
		t.Errorf("reply lacks the failure text:\n%s", reply)
	}
	if !strings.Contains(reply, "memory searched") {
		t.Errorf("reply lacks the later success:\n%s", reply)
	}
	if len(store.saved) != 1 {
		t.Errorf("saved %d interactions, want 1", len(store.saved))
	}
}

func TestProcessAgentPanicIsContained(t *testing.T) {
	store := &recordingStore{}
	phone := &stubAgent{panics: true}
	mem := &stubAgent{outcome: agents.Outcome{Success: true, Message: "still ran"}}
	o := newTestOrchestrator(store, &fakeRetriever{}, map[string]agents.Agent{
		"phone":  phone,
		"memory": mem,
	})

	reply, err := o.Process(context.Background(), "organize my phone")
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if !strings.Contains(reply, "stub agent exploded") {
		t.Errorf("reply lacks the panic text:\n%s", reply)
	}
	if mem.calls != 1 {
		t.Errorf("memory agent ran %d times, want 1", mem.calls)
	}
}

func TestProcessUnknownAgentName(t *testing.T) {
	store := &recordingStore{}
	// No phone adapter registered; classification still names it.
	o := newTestOrchestrator(store, &fakeRetriever{}, map[string]agents.Agent{
		"memory": &stubAgent{outcome: agents.Outcome{Success: true, Message: "ok"}},
	})

	reply, err := o.Process(context.Background(), "organize my phone")
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if !strings.Contains(reply, "Unknown agent: phone") {
		t.Errorf("reply lacks the unknown-agent failure:\n%s", reply)
	}
}

// TestProcessRetrievalFailureDegrades: a store read error costs only the
// context note, never the turn.
func TestProcessRetrievalFailureDegrades(t *testing.T) {
	store := &recordingStore{}
	o := newTestOrchestrator(store, &fakeRetriever{err: errors.New("db locked")}, map[string]agents.Agent{
		"research": &stubAgent{outcome: agents.Outcome{Success: true, Message: "found it"}},
	})

	reply, err := o.Process(context.Background(), "research gophers")
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if strings.Contains(reply, "relevant past interactions") {
		t.Errorf("context note present despite retrieval failure:\n%s", reply)
	}
	if !strings.Contains(reply, "found it") {
		t.Errorf("agent outcome missing:\n%s", reply)
	}
}

func TestProcessContextNote(t *testing.T) {
	store := &recordingStore{}
	retriever := &fakeRetriever{rows: []storage.Interaction{
		{UserInput: "a"}, {UserInput: "b"},
	}}
	o := newTestOrchestrator(store, retriever, map[string]agents.Agent{
		"research": &stubAgent{outcome: agents.Outcome{Success: true, Message: "done"}},
	})

	reply, err := o.Process(context.Background(), "research gophers")
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if !strings.Contains(reply, "Found 2 relevant past interactions.") {
		t.Errorf("context note missing:\n%s", reply)
	}
}

// TestProcessPersistFailureStillReturnsReply: the reply comes back alongside
// the storage error so the caller can show it and report the fault.
func TestProcessPersistFailureStillReturnsReply(t *testing.T) {
	store := &recordingStore{saveErr: errors.New("disk full")}
	o := newTestOrchestrator(store, &fakeRetriever{}, map[string]agents.Agent{
		"research": &stubAgent{outcome: agents.Outcome{Success: true, Message: "found it"}},
	})

	reply, err := o.Process(context.Background(), "research gophers")
	if err == nil {
		t.Fatal("expected persistence error")
	}
	if !strings.Contains(reply, "found it") {
		t.Errorf("reply lost on persistence failure:\n%s", reply)
	}
}
