package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/custodia-labs/sercha-manuals/internal/core/domain"
	"github.com/custodia-labs/sercha-manuals/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-manuals/internal/core/ports/driving"
	"github.com/custodia-labs/sercha-manuals/internal/logger"
)

// Ensure OwnerResolver implements the interface.
var _ driving.OwnerResolver = (*OwnerResolver)(nil)

// OwnerResolver maps conversations to the owner of their manual.
// Conversations inside a project share the project's manual.
type OwnerResolver struct {
	directory driven.ConversationDirectory
}

// NewOwnerResolver creates a new owner resolver.
func NewOwnerResolver(directory driven.ConversationDirectory) *OwnerResolver {
	return &OwnerResolver{directory: directory}
}

// Resolve returns the owner for conversationID on behalf of principal.
func (r *OwnerResolver) Resolve(
	ctx context.Context, conversationID string, principal *domain.Principal,
) (domain.Owner, error) {
	conversationID = strings.TrimSpace(conversationID)
	if conversationID == "" {
		return domain.Owner{}, fmt.Errorf("missing conversation identifier: %w", domain.ErrBadRequest)
	}

	if principal == nil {
		logger.Debug("No principal, resolving %q as guest session", conversationID)
		return domain.GuestOwner(conversationID), nil
	}

	conv, err := r.directory.GetConversation(ctx, conversationID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Owner{}, fmt.Errorf("conversation %q: %w", conversationID, domain.ErrNotFound)
		}
		return domain.Owner{}, fmt.Errorf("lookup conversation: %w", err)
	}

	if conv.InProject() {
		project, err := r.directory.GetProject(ctx, conv.ProjectID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.Owner{}, fmt.Errorf("project %q: %w", conv.ProjectID, domain.ErrNotFound)
			}
			return domain.Owner{}, fmt.Errorf("lookup project: %w", err)
		}
		if project.PrincipalID != principal.ID {
			return domain.Owner{}, fmt.Errorf("project %q: %w", project.ID, domain.ErrForbidden)
		}
		return domain.ProjectOwner(project.ID), nil
	}

	if conv.PrincipalID != principal.ID {
		return domain.Owner{}, fmt.Errorf("conversation %q: %w", conv.ID, domain.ErrForbidden)
	}
	return domain.ConversationOwner(conv.ID), nil
}
