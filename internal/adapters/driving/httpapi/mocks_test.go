package httpapi

import (
	"context"

	"github.com/custodia-labs/sercha-manuals/internal/core/domain"
)

type mockOwnerResolver struct {
	err          error
	gotPrincipal *domain.Principal
}

func (m *mockOwnerResolver) Resolve(
	_ context.Context,
	conversationID string,
	principal *domain.Principal,
) (domain.Owner, error) {
	m.gotPrincipal = principal
	if m.err != nil {
		return domain.Owner{}, m.err
	}
	if principal == nil {
		return domain.GuestOwner(conversationID), nil
	}
	return domain.ConversationOwner(conversationID), nil
}

type mockManualService struct {
	summary *domain.ManualSummary
	status  domain.ManualStatus
	err     error

	gotOwner    domain.Owner
	gotRequest  domain.IngestRequest
	gotSourceID string
	deleted     []domain.Owner
}

func (m *mockManualService) Ingest(
	_ context.Context,
	owner domain.Owner,
	req domain.IngestRequest,
) (*domain.ManualSummary, error) {
	m.gotOwner, m.gotRequest = owner, req
	return m.summary, m.err
}

func (m *mockManualService) Status(_ context.Context, owner domain.Owner) (domain.ManualStatus, error) {
	m.gotOwner = owner
	return m.status, m.err
}

func (m *mockManualService) RemoveSource(
	_ context.Context,
	owner domain.Owner,
	sourceID string,
) (domain.ManualStatus, error) {
	m.gotOwner, m.gotSourceID = owner, sourceID
	return m.status, m.err
}

func (m *mockManualService) DeleteOwner(_ context.Context, owner domain.Owner) error {
	m.deleted = append(m.deleted, owner)
	return m.err
}

func (m *mockManualService) Owners(_ context.Context) ([]domain.Owner, error) {
	return nil, m.err
}

type mockRetrievalService struct {
	fragments []string
	err       error
	gotQuery  string
	gotTopK   int
}

func (m *mockRetrievalService) Retrieve(
	_ context.Context,
	_ domain.Owner,
	query string,
	topK int,
) ([]string, error) {
	m.gotQuery, m.gotTopK = query, topK
	return m.fragments, m.err
}
