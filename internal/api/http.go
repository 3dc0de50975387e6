// Package api exposes the assistant over a local HTTP surface and an MCP
// server so editors and other tools can drive it.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/projectbrainsaver/brainsaver/internal/storage"
)

const maxRequestBodySize = 1 << 20 // 1MB

// Processor handles one user request end to end and returns the reply text.
type Processor interface {
	Process(ctx context.Context, userInput string) (string, error)
}

// AppDeps holds dependencies for the HTTP handler.
type AppDeps struct {
	Store     *storage.Store
	Assistant Processor
}

// NewAppHandler returns the local REST surface: request dispatch, stored
// interaction history, and preference management.
func NewAppHandler(deps AppDeps) http.Handler {
	r := chi.NewRouter()

	r.Get("/health", handleHealth(deps))
	r.Post("/requests", handleRequest(deps))
	r.Get("/interactions", handleListInteractions(deps))
	r.Get("/preferences", handleListPreferences(deps))
	r.Get("/preferences/{key}", handleGetPreference(deps))
	r.Put("/preferences/{key}", handlePutPreference(deps))

	return r
}

func handleHealth(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		count, err := deps.Store.CountInteractions()
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "storage unavailable: %v", err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"status":       "ok",
			"interactions": count,
		})
	}
}

type assistantRequest struct {
	Input string `json:"input"`
}

func handleRequest(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
		defer r.Body.Close()

		var req assistantRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}
		if req.Input == "" {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "input is required")
			return
		}

		reply, err := deps.Assistant.Process(r.Context(), req.Input)
		if err != nil {
			// The reply is still valid when only persistence failed; surface
			// both rather than discarding the work already done.
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"reply":   reply,
				"warning": fmt.Sprintf("interaction not persisted: %v", err),
			})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"reply": reply})
	}
}

type interactionResponse struct {
	ID          int64  `json:"id"`
	Timestamp   string `json:"timestamp"`
	UserInput   string `json:"user_input"`
	AgentOutput string `json:"agent_output"`
	SessionID   string `json:"session_id"`
	ContextTags string `json:"context_tags,omitempty"`
}

func handleListInteractions(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := parseIntParam(r, "limit", 20, 100)

		var (
			interactions []storage.Interaction
			err          error
		)
		if q := r.URL.Query().Get("q"); q != "" {
			interactions, err = deps.Store.SearchInteractions(splitTerms(q), limit)
		} else {
			interactions, err = deps.Store.RecentInteractions(limit)
		}
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to list interactions: %v", err)
			return
		}

		out := make([]interactionResponse, len(interactions))
		for i, ix := range interactions {
			out[i] = interactionResponse{
				ID:          ix.ID,
				Timestamp:   ix.Timestamp.Format(time.RFC3339),
				UserInput:   ix.UserInput,
				AgentOutput: ix.AgentOutput,
				SessionID:   ix.SessionID,
				ContextTags: ix.ContextTags,
			}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(out)
	}
}

func handleListPreferences(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		prefs, err := deps.Store.AllPreferences()
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to list preferences: %v", err)
			return
		}
		if prefs == nil {
			prefs = map[string]string{}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(prefs)
	}
}

func handleGetPreference(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := chi.URLParam(r, "key")

		value, err := deps.Store.GetPreference(key)
		if errors.Is(err, storage.ErrNotFound) {
			httpError(w, http.StatusNotFound, "not_found", "preference not found")
			return
		}
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to get preference: %v", err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"key": key, "value": value})
	}
}

func handlePutPreference(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := chi.URLParam(r, "key")

		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
		body, err := io.ReadAll(r.Body)
		if err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "failed to read body: %v", err)
			return
		}

		var req struct {
			Value string `json:"value"`
		}
		if err := json.Unmarshal(body, &req); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}

		if err := deps.Store.SetPreference(key, req.Value); err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to set preference: %v", err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "updated"})
	}
}

func splitTerms(q string) []string {
	return strings.Fields(strings.ToLower(q))
}

func parseIntParam(r *http.Request, key string, defaultVal, maxVal int) int {
	s := r.URL.Query().Get(key)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return defaultVal
	}
	if maxVal > 0 && v > maxVal {
		return maxVal
	}
	return v
}

func httpError(w http.ResponseWriter, code int, errType string, format string, args ...any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	msg := fmt.Sprintf(format, args...)
	json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{
			"message": msg,
			"type":    errType,
		},
	})
}
