package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/sercha-manuals/internal/core/domain"
	"github.com/custodia-labs/sercha-manuals/internal/core/ports/driven"
)

// Ensure Directory implements the interface.
var _ driven.ConversationRegistry = (*Directory)(nil)

// Directory is an in-memory implementation of driven.ConversationRegistry.
type Directory struct {
	mu            sync.RWMutex
	projects      map[string]domain.Project
	conversations map[string]domain.Conversation
}

// NewDirectory creates a new in-memory directory.
func NewDirectory() *Directory {
	return &Directory{
		projects:      make(map[string]domain.Project),
		conversations: make(map[string]domain.Conversation),
	}
}

// GetConversation retrieves a conversation by ID.
func (d *Directory) GetConversation(_ context.Context, id string) (*domain.Conversation, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	c, ok := d.conversations[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &c, nil
}

// GetProject retrieves a project by ID.
func (d *Directory) GetProject(_ context.Context, id string) (*domain.Project, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	p, ok := d.projects[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &p, nil
}

// SaveProject stores or updates a project.
func (d *Directory) SaveProject(_ context.Context, p *domain.Project) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.projects[p.ID] = *p
	return nil
}

// SaveConversation stores or updates a conversation.
func (d *Directory) SaveConversation(_ context.Context, c *domain.Conversation) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.conversations[c.ID] = *c
	return nil
}
