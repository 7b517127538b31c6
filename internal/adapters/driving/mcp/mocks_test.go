package mcp

import (
	"context"

	"github.com/custodia-labs/sercha-manuals/internal/core/domain"
)

// mockRetrievalService is a mock implementation of driving.RetrievalService.
type mockRetrievalService struct {
	fragments []string
	err       error
	gotOwner  domain.Owner
	gotQuery  string
	gotTopK   int
}

func (m *mockRetrievalService) Retrieve(
	_ context.Context,
	owner domain.Owner,
	query string,
	topK int,
) ([]string, error) {
	m.gotOwner, m.gotQuery, m.gotTopK = owner, query, topK
	return m.fragments, m.err
}

// mockOwnerResolver resolves project conversations from a fixed table.
type mockOwnerResolver struct {
	projects map[string]string // conversation id -> project id
	err      error
}

func (m *mockOwnerResolver) Resolve(
	_ context.Context,
	conversationID string,
	principal *domain.Principal,
) (domain.Owner, error) {
	if m.err != nil {
		return domain.Owner{}, m.err
	}
	if principal == nil {
		return domain.GuestOwner(conversationID), nil
	}
	if p, ok := m.projects[conversationID]; ok {
		return domain.ProjectOwner(p), nil
	}
	return domain.ConversationOwner(conversationID), nil
}

// mockManualService is a mock implementation of driving.ManualService.
type mockManualService struct {
	status   domain.ManualStatus
	err      error
	gotOwner domain.Owner
}

func (m *mockManualService) Ingest(
	_ context.Context,
	_ domain.Owner,
	_ domain.IngestRequest,
) (*domain.ManualSummary, error) {
	return nil, m.err
}

func (m *mockManualService) Status(_ context.Context, owner domain.Owner) (domain.ManualStatus, error) {
	m.gotOwner = owner
	return m.status, m.err
}

func (m *mockManualService) RemoveSource(_ context.Context, _ domain.Owner, _ string) (domain.ManualStatus, error) {
	return m.status, m.err
}

func (m *mockManualService) DeleteOwner(_ context.Context, _ domain.Owner) error {
	return m.err
}

func (m *mockManualService) Owners(_ context.Context) ([]domain.Owner, error) {
	return nil, m.err
}
