package mcp

import (
	"context"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/sercha-manuals/internal/core/domain"
)

// RetrieveInput is the input schema for the retrieve_manual tool.
type RetrieveInput struct {
	ConversationID string `json:"conversation_id" jsonschema:"the conversation whose manual should be searched"`
	PrincipalID    string `json:"principal_id,omitempty" jsonschema:"the authenticated user; omit for guest sessions"`
	Query          string `json:"query" jsonschema:"what to look up in the manual"`
	TopK           int    `json:"top_k,omitempty" jsonschema:"maximum number of fragments to return (default 3)"`
}

// RetrieveOutput is the output schema for the retrieve_manual tool.
type RetrieveOutput struct {
	Fragments []string `json:"fragments"`
	Count     int      `json:"count"`
}

// StatusInput is the input schema for the manual_status tool.
type StatusInput struct {
	ConversationID string `json:"conversation_id" jsonschema:"the conversation whose manual should be described"`
	PrincipalID    string `json:"principal_id,omitempty" jsonschema:"the authenticated user; omit for guest sessions"`
}

// StatusOutput is the output schema for the manual_status tool.
type StatusOutput struct {
	HasManual      bool           `json:"has_manual"`
	OwnerType      string         `json:"owner_type"`
	FileCount      int            `json:"file_count,omitempty"`
	ChunkCount     int            `json:"chunk_count,omitempty"`
	EmbeddedChunks int            `json:"embedded_chunks,omitempty"`
	EmbedRatio     float64        `json:"embed_ratio,omitempty"`
	UpdatedAt      string         `json:"updated_at,omitempty"`
	Sources        []SourceOutput `json:"sources,omitempty"`
}

// SourceOutput describes one manual source.
type SourceOutput struct {
	ID      string `json:"id"`
	Kind    string `json:"kind"`
	Label   string `json:"label"`
	Preview string `json:"preview,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "retrieve_manual",
		Description: "Retrieve the manual fragments most relevant to a query for a conversation",
	}, s.handleRetrieve)

	if s.ports.Manuals != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "manual_status",
			Description: "Describe the manual attached to a conversation",
		}, s.handleStatus)
	}
}

func principalFor(id string) *domain.Principal {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil
	}
	return &domain.Principal{ID: id}
}

// handleRetrieve handles the retrieve_manual tool invocation.
func (s *Server) handleRetrieve(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RetrieveInput,
) (*mcp.CallToolResult, RetrieveOutput, error) {
	owner, err := s.ports.Owners.Resolve(ctx, input.ConversationID, principalFor(input.PrincipalID))
	if err != nil {
		return nil, RetrieveOutput{}, toolError("retrieve_manual", err)
	}

	fragments, err := s.ports.Retrieval.Retrieve(ctx, owner, input.Query, input.TopK)
	if err != nil {
		return nil, RetrieveOutput{}, toolError("retrieve_manual", err)
	}

	return nil, RetrieveOutput{Fragments: fragments, Count: len(fragments)}, nil
}

// handleStatus handles the manual_status tool invocation.
func (s *Server) handleStatus(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input StatusInput,
) (*mcp.CallToolResult, StatusOutput, error) {
	owner, err := s.ports.Owners.Resolve(ctx, input.ConversationID, principalFor(input.PrincipalID))
	if err != nil {
		return nil, StatusOutput{}, toolError("manual_status", err)
	}

	status, err := s.ports.Manuals.Status(ctx, owner)
	if err != nil {
		return nil, StatusOutput{}, toolError("manual_status", err)
	}

	return nil, statusOutput(owner, status), nil
}

func statusOutput(owner domain.Owner, status domain.ManualStatus) StatusOutput {
	out := StatusOutput{HasManual: status.HasManual, OwnerType: owner.Type.String()}
	if status.Stats == nil {
		return out
	}

	st := status.Stats
	out.FileCount = st.FileCount
	out.ChunkCount = st.ChunkCount
	out.EmbeddedChunks = st.EmbeddedChunks
	out.EmbedRatio = st.EmbedRatio
	out.UpdatedAt = st.UpdatedAt.UTC().Format(time.RFC3339)
	out.Sources = make([]SourceOutput, len(st.Sources))
	for i, src := range st.Sources {
		out.Sources[i] = SourceOutput{
			ID:      src.ID,
			Kind:    string(src.Kind),
			Label:   src.Label,
			Preview: src.Preview,
		}
	}
	return out
}
