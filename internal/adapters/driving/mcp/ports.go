package mcp

import (
	"github.com/custodia-labs/sercha-manuals/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Retrieval answers retrieve_manual calls.
	Retrieval driving.RetrievalService

	// Owners maps conversation ids to manual owners.
	Owners driving.OwnerResolver

	// Manuals reports manual status. Optional.
	Manuals driving.ManualService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Retrieval == nil {
		return ErrMissingRetrievalService
	}
	if p.Owners == nil {
		return ErrMissingOwnerResolver
	}
	return nil
}
