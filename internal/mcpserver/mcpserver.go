// Package mcpserver exposes the portfolio document read-only over the Model Context Protocol.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"git.home.luguber.info/inful/aboutme/internal/document"
	"git.home.luguber.info/inful/aboutme/internal/store"
	"git.home.luguber.info/inful/aboutme/internal/version"
)

// Reader is the read half of the document store.
type Reader interface {
	Get(ctx context.Context) (json.RawMessage, error)
}

type GetPortfolioRequest struct{}

type ListProjectsRequest struct {
	Category string `json:"category"` // Optional category id or name
}

// ProjectEntry is one project with the category it belongs to.
type ProjectEntry struct {
	Category string           `json:"category"`
	Project  document.Project `json:"project"`
}

type ListProjectsResponse struct {
	Projects []ProjectEntry `json:"projects"`
}

// NewServer creates the MCP server with the get_portfolio and list_projects tools.
func NewServer(reader Reader) *server.MCPServer {
	s := server.NewMCPServer(
		"aboutme portfolio",
		version.Version,
		server.WithToolCapabilities(false),
	)

	portfolioTool := mcp.NewTool("get_portfolio",
		mcp.WithDescription("Return the complete portfolio document as JSON"),
	)
	s.AddTool(portfolioTool, mcp.NewTypedToolHandler(getPortfolioHandler(reader)))

	projectsTool := mcp.NewTool("list_projects",
		mcp.WithDescription("List portfolio projects, optionally limited to one category"),
		mcp.WithString("category",
			mcp.Description("Category id or name to filter by"),
		),
	)
	s.AddTool(projectsTool, mcp.NewTypedToolHandler(listProjectsHandler(reader)))

	return s
}

// NewHTTPHandler serves s over the streamable HTTP transport at endpoint.
func NewHTTPHandler(s *server.MCPServer, endpoint string) http.Handler {
	return server.NewStreamableHTTPServer(s, server.WithEndpointPath(endpoint))
}

func getPortfolioHandler(reader Reader) func(ctx context.Context, request mcp.CallToolRequest, args GetPortfolioRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, _ mcp.CallToolRequest, _ GetPortfolioRequest) (*mcp.CallToolResult, error) {
		raw, err := reader.Get(ctx)
		if err != nil {
			return mcp.NewToolResultError(store.ErrStorageUnavailable.Message()), nil
		}
		return mcp.NewToolResultText(string(raw)), nil
	}
}

func listProjectsHandler(reader Reader) func(ctx context.Context, request mcp.CallToolRequest, args ListProjectsRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, _ mcp.CallToolRequest, args ListProjectsRequest) (*mcp.CallToolResult, error) {
		raw, err := reader.Get(ctx)
		if err != nil {
			return mcp.NewToolResultError(store.ErrStorageUnavailable.Message()), nil
		}
		doc, err := document.Parse(raw)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to parse document: %v", err)), nil
		}

		response := ListProjectsResponse{Projects: []ProjectEntry{}}
		matched := args.Category == ""
		for i, cat := range doc.Projects.Categories {
			key := cat.Key(i)
			if args.Category != "" && args.Category != key && args.Category != cat.Name {
				continue
			}
			matched = true
			for _, p := range cat.Projects {
				response.Projects = append(response.Projects, ProjectEntry{Category: key, Project: p})
			}
		}
		if !matched {
			return mcp.NewToolResultError(fmt.Sprintf("unknown category %q", args.Category)), nil
		}

		b, err := json.Marshal(response)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
		}
		return mcp.NewToolResultText(string(b)), nil
	}
}
