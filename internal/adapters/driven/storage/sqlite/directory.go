package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/custodia-labs/sercha-manuals/internal/core/domain"
	"github.com/custodia-labs/sercha-manuals/internal/core/ports/driven"
)

// Verify interface compliance.
var _ driven.ConversationRegistry = (*directory)(nil)

// directory wraps Store to implement ConversationRegistry.
type directory struct {
	store *Store
}

func (d *directory) GetConversation(ctx context.Context, id string) (*domain.Conversation, error) {
	var (
		c         domain.Conversation
		projectID sql.NullString
	)
	err := d.store.db.QueryRowContext(ctx,
		"SELECT id, project_id, principal_id FROM conversations WHERE id = ?", id,
	).Scan(&c.ID, &projectID, &c.PrincipalID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting conversation: %w", err)
	}
	c.ProjectID = projectID.String
	return &c, nil
}

func (d *directory) GetProject(ctx context.Context, id string) (*domain.Project, error) {
	var p domain.Project
	err := d.store.db.QueryRowContext(ctx,
		"SELECT id, principal_id FROM projects WHERE id = ?", id,
	).Scan(&p.ID, &p.PrincipalID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting project: %w", err)
	}
	return &p, nil
}

func (d *directory) SaveProject(ctx context.Context, p *domain.Project) error {
	if p == nil || p.ID == "" {
		return fmt.Errorf("project without id: %w", domain.ErrBadRequest)
	}
	_, err := d.store.db.ExecContext(ctx, `
		INSERT INTO projects (id, principal_id) VALUES (?, ?)
		ON CONFLICT(id) DO UPDATE SET principal_id = excluded.principal_id
	`, p.ID, p.PrincipalID)
	if err != nil {
		return fmt.Errorf("saving project: %w", err)
	}
	return nil
}

func (d *directory) SaveConversation(ctx context.Context, c *domain.Conversation) error {
	if c == nil || c.ID == "" {
		return fmt.Errorf("conversation without id: %w", domain.ErrBadRequest)
	}
	var projectID sql.NullString
	if c.ProjectID != "" {
		projectID = sql.NullString{String: c.ProjectID, Valid: true}
	}
	_, err := d.store.db.ExecContext(ctx, `
		INSERT INTO conversations (id, project_id, principal_id) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			project_id = excluded.project_id,
			principal_id = excluded.principal_id
	`, c.ID, projectID, c.PrincipalID)
	if err != nil {
		return fmt.Errorf("saving conversation: %w", err)
	}
	return nil
}
