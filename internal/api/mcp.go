package api

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/projectbrainsaver/brainsaver/internal/storage"
)

// MCPRecaller abstracts interaction recall for the MCP layer.
type MCPRecaller interface {
	FindRelevant(query string, limit int) ([]storage.Interaction, error)
}

// MCPDeps holds dependencies for the MCP server.
type MCPDeps struct {
	Store     *storage.Store
	Assistant Processor
	Recaller  MCPRecaller
}

// NewMCPServer creates an MCP server with the assistant's tools and
// resources registered.
func NewMCPServer(deps MCPDeps) *server.MCPServer {
	s := server.NewMCPServer(
		"brainsaver",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithInstructions("brainsaver — local personal assistant for file, research, domain, phone, and automation requests, with interaction memory."),
		server.WithRecovery(),
	)

	// Tools
	s.AddTool(
		mcp.NewTool("ask",
			mcp.WithDescription("Send a natural-language request to the assistant and get its reply."),
			mcp.WithString("input", mcp.Description("The request text"), mcp.Required()),
		),
		mcpAsk(deps),
	)

	s.AddTool(
		mcp.NewTool("recall",
			mcp.WithDescription("Search past interactions for entries matching every query term."),
			mcp.WithString("query", mcp.Description("Search query; empty returns the most recent interactions")),
			mcp.WithNumber("limit", mcp.Description("Maximum number of results (default 5)")),
		),
		mcpRecall(deps),
	)

	s.AddTool(
		mcp.NewTool("set_preference",
			mcp.WithDescription("Store a user preference key/value pair."),
			mcp.WithString("key", mcp.Description("Preference key (e.g. default_search_engine)"), mcp.Required()),
			mcp.WithString("value", mcp.Description("Value to set"), mcp.Required()),
		),
		mcpSetPreference(deps),
	)

	// Resources
	s.AddResource(
		mcp.NewResource(
			"brainsaver://recent",
			"Recent Interactions",
			mcp.WithResourceDescription("Last 10 stored interactions (inputs only)"),
			mcp.WithMIMEType("application/json"),
		),
		mcpResourceRecent(deps),
	)

	return s
}

func mcpAsk(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		input, err := req.RequireString("input")
		if err != nil {
			return mcpError("input is required"), nil
		}

		reply, err := deps.Assistant.Process(ctx, input)
		if err != nil {
			// Persistence failures still produce a usable reply.
			if reply != "" {
				return mcpText(reply), nil
			}
			return mcpError(fmt.Sprintf("request failed: %v", err)), nil
		}

		return mcpText(reply), nil
	}
}

func mcpRecall(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query := req.GetString("query", "")

		limit := req.GetInt("limit", 5)
		if limit <= 0 {
			limit = 5
		}
		if limit > 50 {
			limit = 50
		}

		interactions, err := deps.Recaller.FindRelevant(query, limit)
		if err != nil {
			return mcpError(fmt.Sprintf("recall failed: %v", err)), nil
		}

		if len(interactions) == 0 {
			return mcpText("[]"), nil
		}

		type recallResult struct {
			ID          int64  `json:"id"`
			Timestamp   string `json:"timestamp"`
			UserInput   string `json:"user_input"`
			AgentOutput string `json:"agent_output"`
			ContextTags string `json:"context_tags,omitempty"`
		}

		results := make([]recallResult, len(interactions))
		for i, ix := range interactions {
			results[i] = recallResult{
				ID:          ix.ID,
				Timestamp:   ix.Timestamp.Format(time.RFC3339),
				UserInput:   ix.UserInput,
				AgentOutput: ix.AgentOutput,
				ContextTags: ix.ContextTags,
			}
		}

		b, err := json.Marshal(results)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal results: %v", err)), nil
		}

		return mcpText(string(b)), nil
	}
}

func mcpSetPreference(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		key, err := req.RequireString("key")
		if err != nil {
			return mcpError("key is required"), nil
		}
		value, err := req.RequireString("value")
		if err != nil {
			return mcpError("value is required"), nil
		}

		if err := deps.Store.SetPreference(key, value); err != nil {
			return mcpError(fmt.Sprintf("failed to set preference: %v", err)), nil
		}

		return mcpText(fmt.Sprintf("Set %s = %s", key, value)), nil
	}
}

func mcpResourceRecent(deps MCPDeps) server.ResourceHandlerFunc {
	return func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		interactions, err := deps.Store.RecentInteractions(10)
		if err != nil {
			return nil, fmt.Errorf("failed to get recent interactions: %w", err)
		}

		type interactionSummary struct {
			ID        int64  `json:"id"`
			Timestamp string `json:"timestamp"`
			Input     string `json:"input"`
		}

		summaries := make([]interactionSummary, len(interactions))
		for i, ix := range interactions {
			input := ix.UserInput
			if utf8.RuneCountInString(input) > 200 {
				runes := []rune(input)
				input = string(runes[:200]) + "..."
			}
			summaries[i] = interactionSummary{
				ID:        ix.ID,
				Timestamp: ix.Timestamp.Format(time.RFC3339),
				Input:     input,
			}
		}

		b, err := json.Marshal(summaries)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal interactions: %w", err)
		}

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     string(b),
			},
		}, nil
	}
}

func mcpText(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

func mcpError(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: msg},
		},
		IsError: true,
	}
}
