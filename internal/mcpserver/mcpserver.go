// Package mcpserver exposes the knowledge store as MCP tools over stdio,
// so agent runtimes can query the same knowledge base the chat gateway
// answers from.
package mcpserver

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/concierge-chat/concierge/internal/knowledge"
)

// Server wraps the MCP stdio server around a knowledge store.
type Server struct {
	store    *knowledge.Store
	searcher *knowledge.Searcher
	mcp      *server.MCPServer
}

// New builds the MCP server and registers the knowledge tools.
func New(store *knowledge.Store, searcher *knowledge.Searcher, version string) *Server {
	s := &Server{
		store:    store,
		searcher: searcher,
		mcp:      server.NewMCPServer("concierge-knowledge", version),
	}

	s.mcp.AddTool(mcp.NewTool("knowledge_search",
		mcp.WithDescription("Search the knowledge base and return ranked matches."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Free-text search query.")),
		mcp.WithString("category", mcp.Description("Optional category filter: faq, onboarding, troubleshooting, or product.")),
	), s.handleSearch)

	s.mcp.AddTool(mcp.NewTool("knowledge_get",
		mcp.WithDescription("Fetch a single knowledge entry by id."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Entry id.")),
	), s.handleGet)

	s.mcp.AddTool(mcp.NewTool("knowledge_stats",
		mcp.WithDescription("Report knowledge base size and per-category counts."),
	), s.handleStats)

	return s
}

// ServeStdio blocks serving MCP requests on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

func (s *Server) handleSearch(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]any)
	if !ok {
		return mcp.NewToolResultError("invalid arguments type"), nil
	}

	query, ok := args["query"].(string)
	if !ok || query == "" {
		return mcp.NewToolResultError("query parameter is required"), nil
	}

	opts := knowledge.DefaultSearchOptions()
	if raw, ok := args["category"].(string); ok && raw != "" {
		cat, err := knowledge.ParseCategory(raw)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		opts.Category = &cat
	}

	results := s.searcher.Search(query, opts)
	if len(results) == 0 {
		return mcp.NewToolResultText("No matching entries found."), nil
	}
	return mcp.NewToolResultText(formatResults(results)), nil
}

func (s *Server) handleGet(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]any)
	if !ok {
		return mcp.NewToolResultError("invalid arguments type"), nil
	}

	id, ok := args["id"].(string)
	if !ok || id == "" {
		return mcp.NewToolResultError("id parameter is required"), nil
	}

	entry, found := s.store.Get(id)
	if !found {
		return mcp.NewToolResultText(fmt.Sprintf("No entry with id %s.", id)), nil
	}
	return mcp.NewToolResultText(formatEntry(entry)), nil
}

func (s *Server) handleStats(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stats := s.store.Stats()

	var b strings.Builder
	fmt.Fprintf(&b, "Entries: %d\n", stats.Entries)
	fmt.Fprintf(&b, "Distinct keywords: %d\n", stats.DistinctKeywords)
	for cat, n := range stats.ByCategory {
		fmt.Fprintf(&b, "  %s: %d\n", cat, n)
	}
	return mcp.NewToolResultText(b.String()), nil
}

func formatResults(results []knowledge.Result) string {
	var b strings.Builder
	for i, res := range results {
		fmt.Fprintf(&b, "%d. [%.2f] %s (id %s)\n", i+1, res.Score, res.Entry.Question, res.Entry.ID)
		fmt.Fprintf(&b, "   %s\n", res.Entry.Answer)
		if len(res.MatchedKeywords) > 0 {
			fmt.Fprintf(&b, "   matched: %s\n", strings.Join(res.MatchedKeywords, ", "))
		}
	}
	return b.String()
}

func formatEntry(e knowledge.Entry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Question: %s\n", e.Question)
	fmt.Fprintf(&b, "Answer: %s\n", e.Answer)
	fmt.Fprintf(&b, "Category: %s\n", e.Category)
	if len(e.Keywords) > 0 {
		fmt.Fprintf(&b, "Keywords: %s\n", strings.Join(e.Keywords, ", "))
	}
	fmt.Fprintf(&b, "Updated: %s\n", e.LastUpdated.Format("2006-01-02 15:04:05"))
	return b.String()
}
