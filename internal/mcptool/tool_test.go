package mcptool

import (
	"context"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MdDhaanish/AI-Based-Indian-Legal-Assistant/internal/domain"
)

type stubRouter struct {
	err     error
	gotTopK int
}

func (s *stubRouter) Route(_ context.Context, query string, topK int) (*domain.RoutedResponse, error) {
	s.gotTopK = topK
	if s.err != nil {
		return nil, s.err
	}
	return &domain.RoutedResponse{
		Domain:              "criminal",
		Sections:            []domain.SectionMatch{{DocumentID: "IPC", SectionID: "Section 379", Text: "Punishment for theft.", Score: 10}},
		FormalAnswer:        "Theft is punishable under Section 379.",
		SimplifiedAnswer:    "Stealing can get you jailed (Section 379).",
		SimplifiedAvailable: true,
		Meta:                domain.Meta{TopK: topK, Warnings: []string{}},
	}, nil
}

func TestHandler(t *testing.T) {
	router := &stubRouter{}
	h := handler(router)

	_, out, err := h(context.Background(), nil, RouteInput{Query: "punishment for theft", TopK: 3})
	require.NoError(t, err)
	assert.Equal(t, "criminal", out.Domain)
	assert.Equal(t, 3, router.gotTopK)

	_, _, err = h(context.Background(), nil, RouteInput{Query: "theft", TopK: 50})
	require.NoError(t, err)
	assert.Equal(t, 0, router.gotTopK)
}

func TestHandler_Error(t *testing.T) {
	h := handler(&stubRouter{err: domain.NewValidationError("query is required")})

	_, _, err := h(context.Background(), nil, RouteInput{})
	require.Error(t, err)
	assert.Equal(t, domain.ErrCatValidation, domain.CategoryOf(err))
}

func TestRegister_CallOverInMemoryTransport(t *testing.T) {
	ctx := context.Background()

	server := mcp.NewServer(&mcp.Implementation{Name: "legal-router", Version: "test"}, nil)
	Register(server, &stubRouter{})

	serverTransport, clientTransport := mcp.NewInMemoryTransports()
	serverSession, err := server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	defer serverSession.Close()

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "test"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	defer session.Close()

	res, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name:      ToolName,
		Arguments: map[string]any{"query": "What is the punishment for theft?"},
	})
	require.NoError(t, err)
	assert.False(t, res.IsError)

	out, ok := res.StructuredContent.(map[string]any)
	require.True(t, ok, "structured content: %T", res.StructuredContent)
	assert.Equal(t, "criminal", out["domain"])
}
