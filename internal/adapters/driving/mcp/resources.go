package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/sercha-manuals/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for manual resources.
	uriScheme = "manuals://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	if s.ports.Manuals == nil {
		return
	}

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "owners/{ownerType}/{ownerId}",
		Name:        "owner-manual",
		Description: "Status and sources of the manual held by an owner",
		MIMEType:    "application/json",
	}, s.handleOwnerResource)
}

// handleOwnerResource returns the status of one owner's manual.
func (s *Server) handleOwnerResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	owner, err := parseOwnerURI(req.Params.URI)
	if err != nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	status, err := s.ports.Manuals.Status(ctx, owner)
	if err != nil {
		return nil, toolError("read manual", err)
	}

	data, err := json.Marshal(statusOutput(owner, status))
	if err != nil {
		return nil, fmt.Errorf("encoding status: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// parseOwnerURI parses manuals://owners/{type}/{id}.
func parseOwnerURI(uri string) (domain.Owner, error) {
	rest, ok := strings.CutPrefix(uri, uriScheme+"owners/")
	if !ok {
		return domain.Owner{}, fmt.Errorf("unexpected uri %q: %w", uri, domain.ErrBadRequest)
	}
	typ, id, ok := strings.Cut(rest, "/")
	if !ok {
		return domain.Owner{}, fmt.Errorf("unexpected uri %q: %w", uri, domain.ErrBadRequest)
	}

	ownerType, err := domain.ParseOwnerType(typ)
	if err != nil {
		return domain.Owner{}, err
	}
	owner := domain.Owner{ID: id, Type: ownerType}
	if err := owner.Validate(); err != nil {
		return domain.Owner{}, err
	}
	return owner, nil
}
