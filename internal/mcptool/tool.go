// Package mcptool exposes the query router as an MCP tool.
package mcptool

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/MdDhaanish/AI-Based-Indian-Legal-Assistant/internal/domain"
)

const ToolName = "route_legal_query"

// QueryRouter runs the legal query pipeline.
type QueryRouter interface {
	Route(ctx context.Context, query string, topK int) (*domain.RoutedResponse, error)
}

// RouteInput is the tool argument object.
type RouteInput struct {
	Query string `json:"query" jsonschema:"Legal question in plain English"`
	TopK  int    `json:"top_k,omitempty" jsonschema:"Number of statute sections to retrieve (optional, 1-20, defaults to the configured value)"`
}

// Register adds the route_legal_query tool to server.
func Register(server *mcp.Server, router QueryRouter) {
	mcp.AddTool(server,
		&mcp.Tool{
			Name:        ToolName,
			Description: "Classifies an Indian legal question into a domain (criminal, civil, constitutional), retrieves the most relevant statute sections and returns a formal answer grounded in them together with a short plain-language version.",
		},
		handler(router),
	)
}

func handler(router QueryRouter) mcp.ToolHandlerFor[RouteInput, domain.RoutedResponse] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input RouteInput) (*mcp.CallToolResult, domain.RoutedResponse, error) {
		topK := input.TopK
		if topK > domain.MaxTopK {
			topK = 0
		}
		resp, err := router.Route(ctx, input.Query, topK)
		if err != nil {
			return nil, domain.RoutedResponse{}, fmt.Errorf("route query: %w", err)
		}
		return nil, *resp, nil
	}
}
