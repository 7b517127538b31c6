package domain

import (
	"fmt"
	"strings"
)

// OwnerType classifies the entity a manual belongs to.
type OwnerType string

// Owner types.
const (
	// OwnerProject shares one manual across every conversation of a project.
	OwnerProject OwnerType = "project"

	// OwnerConversation scopes a manual to one standalone conversation.
	OwnerConversation OwnerType = "conversation"

	// OwnerGuest scopes a manual to an unauthenticated session.
	OwnerGuest OwnerType = "guest"
)

// IsValid returns true if the owner type is recognised.
func (t OwnerType) IsValid() bool {
	switch t {
	case OwnerProject, OwnerConversation, OwnerGuest:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (t OwnerType) String() string {
	return string(t)
}

// ParseOwnerType parses a case-insensitive owner type name.
func ParseOwnerType(s string) (OwnerType, error) {
	t := OwnerType(strings.ToLower(strings.TrimSpace(s)))
	if !t.IsValid() {
		return "", fmt.Errorf("owner type %q: %w", s, ErrUnsupportedType)
	}
	return t, nil
}

// Owner is the resolved storage key for a manual.
// It is produced once by the owner resolver and passed explicitly afterwards.
type Owner struct {
	ID   string
	Type OwnerType
}

// ProjectOwner returns the owner for a project.
func ProjectOwner(id string) Owner { return Owner{ID: id, Type: OwnerProject} }

// ConversationOwner returns the owner for a standalone conversation.
func ConversationOwner(id string) Owner { return Owner{ID: id, Type: OwnerConversation} }

// GuestOwner returns the owner for a guest session.
func GuestOwner(sessionID string) Owner { return Owner{ID: sessionID, Type: OwnerGuest} }

// Validate checks that the owner has an identifier and a known type.
func (o Owner) Validate() error {
	if strings.TrimSpace(o.ID) == "" {
		return fmt.Errorf("missing owner identifier: %w", ErrBadRequest)
	}
	if !o.Type.IsValid() {
		return fmt.Errorf("owner type %q: %w", o.Type, ErrBadRequest)
	}
	return nil
}

// String formats the owner as type:id.
func (o Owner) String() string {
	return string(o.Type) + ":" + o.ID
}

// Principal is an authenticated caller.
type Principal struct {
	ID string
}

// Project is the subset of a project the manual engine needs.
type Project struct {
	ID          string
	PrincipalID string
}

// Conversation is the subset of a conversation the manual engine needs.
// ProjectID is empty for standalone conversations.
type Conversation struct {
	ID          string
	ProjectID   string
	PrincipalID string
}

// InProject reports whether the conversation belongs to a project.
func (c Conversation) InProject() bool {
	return c.ProjectID != ""
}
