package driving

import (
	"context"

	"github.com/custodia-labs/sercha-manuals/internal/core/domain"
)

// OwnerResolver maps an external conversation identifier to the owner of its manual.
type OwnerResolver interface {
	// Resolve returns the owner for conversationID.
	// A nil principal resolves to a guest owner keyed by conversationID without lookup.
	// Returns domain.ErrNotFound for unknown conversations and domain.ErrForbidden
	// when the owner belongs to another principal.
	Resolve(ctx context.Context, conversationID string, principal *domain.Principal) (domain.Owner, error)
}
