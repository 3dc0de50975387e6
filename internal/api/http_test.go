package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/projectbrainsaver/brainsaver/internal/storage"
)

// --- mocks ---

type stubProcessor struct {
	reply string
	err   error
	seen  []string
}

func (p *stubProcessor) Process(_ context.Context, input string) (string, error) {
	p.seen = append(p.seen, input)
	return p.reply, p.err
}

// --- helpers ---

func newTestAppDeps(t *testing.T) (AppDeps, *storage.Store, *stubProcessor) {
	t.Helper()
	store, err := storage.Open(":memory:")
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	proc := &stubProcessor{reply: "done"}
	return AppDeps{Store: store, Assistant: proc}, store, proc
}

func doJSON(t *testing.T, handler http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

// --- tests ---

func TestHandleRequest(t *testing.T) {
	deps, _, proc := newTestAppDeps(t)
	proc.reply = "Here's what I accomplished:\n✓ Found 2 files"
	handler := NewAppHandler(deps)

	rec := doJSON(t, handler, http.MethodPost, "/requests", `{"input":"find my report"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("parsing response: %v", err)
	}
	if resp["reply"] != proc.reply {
		t.Errorf("reply = %q", resp["reply"])
	}
	if len(proc.seen) != 1 || proc.seen[0] != "find my report" {
		t.Errorf("processor saw %v", proc.seen)
	}
}

func TestHandleRequest_EmptyInput(t *testing.T) {
	deps, _, _ := newTestAppDeps(t)
	handler := NewAppHandler(deps)

	rec := doJSON(t, handler, http.MethodPost, "/requests", `{"input":""}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestHandleRequest_PersistFailureStillReplies(t *testing.T) {
	deps, _, proc := newTestAppDeps(t)
	proc.reply = "partial reply"
	proc.err = errors.New("disk full")
	handler := NewAppHandler(deps)

	rec := doJSON(t, handler, http.MethodPost, "/requests", `{"input":"hello"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("parsing response: %v", err)
	}
	if resp["reply"] != "partial reply" {
		t.Errorf("reply = %q", resp["reply"])
	}
	if !strings.Contains(resp["warning"], "disk full") {
		t.Errorf("warning = %q, want persistence failure mentioned", resp["warning"])
	}
}

func TestHandleListInteractions(t *testing.T) {
	deps, store, _ := newTestAppDeps(t)
	handler := NewAppHandler(deps)

	if _, err := store.SaveInteraction("find my keys", "found them", "s1", "file_management,file"); err != nil {
		t.Fatalf("saving interaction: %v", err)
	}
	if _, err := store.SaveInteraction("check my domain", "domain is up", "s1", "domain_management,domain"); err != nil {
		t.Fatalf("saving interaction: %v", err)
	}

	rec := doJSON(t, handler, http.MethodGet, "/interactions", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var out []interactionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("parsing response: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("got %d interactions, want 2", len(out))
	}
	if out[0].UserInput != "check my domain" {
		t.Errorf("newest first: got %q", out[0].UserInput)
	}
}

func TestHandleListInteractions_Query(t *testing.T) {
	deps, store, _ := newTestAppDeps(t)
	handler := NewAppHandler(deps)

	if _, err := store.SaveInteraction("find my keys", "found them", "s1", ""); err != nil {
		t.Fatalf("saving interaction: %v", err)
	}
	if _, err := store.SaveInteraction("check my domain", "domain is up", "s1", ""); err != nil {
		t.Fatalf("saving interaction: %v", err)
	}

	rec := doJSON(t, handler, http.MethodGet, "/interactions?q=domain", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var out []interactionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("parsing response: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("got %d interactions, want 1", len(out))
	}
	if out[0].UserInput != "check my domain" {
		t.Errorf("got %q", out[0].UserInput)
	}
}

func TestPreferenceRoundTrip(t *testing.T) {
	deps, _, _ := newTestAppDeps(t)
	handler := NewAppHandler(deps)

	rec := doJSON(t, handler, http.MethodPut, "/preferences/tone", `{"value":"direct"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("put status = %d, want 200", rec.Code)
	}

	rec = doJSON(t, handler, http.MethodGet, "/preferences/tone", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d, want 200", rec.Code)
	}
	var got map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("parsing response: %v", err)
	}
	if got["value"] != "direct" {
		t.Errorf("value = %q, want %q", got["value"], "direct")
	}

	rec = doJSON(t, handler, http.MethodGet, "/preferences", "")
	var all map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &all); err != nil {
		t.Fatalf("parsing response: %v", err)
	}
	if all["tone"] != "direct" {
		t.Errorf("all preferences = %v", all)
	}
}

func TestGetPreference_NotFound(t *testing.T) {
	deps, _, _ := newTestAppDeps(t)
	handler := NewAppHandler(deps)

	rec := doJSON(t, handler, http.MethodGet, "/preferences/missing", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestHandleHealth(t *testing.T) {
	deps, store, _ := newTestAppDeps(t)
	handler := NewAppHandler(deps)

	if _, err := store.SaveInteraction("hi", "hello", "s1", ""); err != nil {
		t.Fatalf("saving interaction: %v", err)
	}

	rec := doJSON(t, handler, http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("parsing response: %v", err)
	}
	if resp["status"] != "ok" {
		t.Errorf("status = %v", resp["status"])
	}
	if resp["interactions"] != float64(1) {
		t.Errorf("interactions = %v, want 1", resp["interactions"])
	}
}
