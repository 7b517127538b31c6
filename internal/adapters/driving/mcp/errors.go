// Package mcp provides an MCP (Model Context Protocol) server adapter for manuals.
// It lets an orchestrator retrieve manual fragments as a tool during a conversation.
package mcp

import (
	"errors"
	"fmt"

	"github.com/custodia-labs/sercha-manuals/internal/core/domain"
)

// Errors returned when required ports are missing.
var (
	ErrMissingRetrievalService = errors.New("mcp: retrieval service is required")
	ErrMissingOwnerResolver    = errors.New("mcp: owner resolver is required")
)

// toolError turns a service error into a message safe to show the model.
// Upstream details stay in the logs.
func toolError(op string, err error) error {
	switch {
	case errors.Is(err, domain.ErrBadRequest):
		return fmt.Errorf("%s: invalid request: %w", op, err)
	case errors.Is(err, domain.ErrNotFound):
		return fmt.Errorf("%s: conversation not found", op)
	case errors.Is(err, domain.ErrForbidden):
		return fmt.Errorf("%s: access denied", op)
	case errors.Is(err, domain.ErrEmbeddingUnavailable):
		return fmt.Errorf("%s: embedding provider not configured", op)
	case errors.Is(err, domain.ErrUpstream):
		return fmt.Errorf("%s: embedding provider failed", op)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
