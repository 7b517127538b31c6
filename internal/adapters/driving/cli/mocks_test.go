package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/custodia-labs/sercha-manuals/internal/adapters/driven/extract"
	"github.com/custodia-labs/sercha-manuals/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/sercha-manuals/internal/core/domain"
	"github.com/custodia-labs/sercha-manuals/internal/core/services"
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
	owners      []domain.Owner
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
	return m.owners, m.err
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

type testServices struct {
	manuals   *mockManualService
	retrieval *mockRetrievalService
	owners    *mockOwnerResolver
	settings  *services.SettingsService
	directory *memory.Directory
}

// setupTestServices installs mocks and resets flag state after the test.
func setupTestServices(t *testing.T) *testServices {
	t.Helper()
	ts := &testServices{
		manuals:   &mockManualService{},
		retrieval: &mockRetrievalService{},
		owners:    &mockOwnerResolver{},
		settings:  services.NewSettingsService(memory.NewConfigStore(), nil),
		directory: memory.NewDirectory(),
	}
	SetServices(Services{
		Manuals:   ts.manuals,
		Retrieval: ts.retrieval,
		Owners:    ts.owners,
		Settings:  ts.settings,
		Extractor: extract.Default(),
		Registry:  ts.directory,
	})
	t.Cleanup(func() {
		SetServices(Services{})
		resetFlags()
	})
	return ts
}

func resetFlags() {
	verbose = false
	conversationID = ""
	principalID = ""
	manualJSON = false
	ingestInstruction = ""
	ingestMode = string(domain.MergeAppend)
	ingestRatio = 0
	retrieveTopK = 0
	retrieveJSON = false
	serveAddr = ""
	registerProject = ""
	registerPrincipal = ""
	rootCmd.SetArgs(nil)
	rootCmd.SetIn(nil)
}

// runCommand executes the root command and returns its combined output.
func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}
