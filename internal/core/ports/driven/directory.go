package driven

import (
	"context"

	"github.com/custodia-labs/sercha-manuals/internal/core/domain"
)

// ConversationDirectory is a read-only view of conversations and projects.
// Conversation and project lifecycles are managed elsewhere.
type ConversationDirectory interface {
	// GetConversation returns domain.ErrNotFound for unknown ids.
	GetConversation(ctx context.Context, id string) (*domain.Conversation, error)

	// GetProject returns domain.ErrNotFound for unknown ids.
	GetProject(ctx context.Context, id string) (*domain.Project, error)
}

// ConversationRegistry extends the directory with writes.
// Only local tooling and tests register conversations directly.
type ConversationRegistry interface {
	ConversationDirectory

	SaveProject(ctx context.Context, p *domain.Project) error
	SaveConversation(ctx context.Context, c *domain.Conversation) error
}
