package services

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/custodia-labs/sercha-manuals/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/sercha-manuals/internal/core/domain"
	"github.com/custodia-labs/sercha-manuals/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockEmbedder implements driven.EmbeddingService with letter-frequency vectors,
// so texts sharing letters score higher against each other.
type mockEmbedder struct {
	err      error
	delay    time.Duration
	calls    atomic.Int32
	inFlight atomic.Int32
	maxSeen  atomic.Int32
}

var _ driven.EmbeddingService = (*mockEmbedder)(nil)

func letterVector(text string) []float32 {
	if strings.TrimSpace(text) == "" {
		return []float32{}
	}
	v := make([]float32, 26)
	for _, r := range strings.ToLower(text) {
		if r >= 'a' && r <= 'z' {
			v[r-'a']++
		}
	}
	return v
}

func (m *mockEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vecs, err := m.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

func (m *mockEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	m.calls.Add(1)
	n := m.inFlight.Add(1)
	defer m.inFlight.Add(-1)
	for {
		seen := m.maxSeen.Load()
		if n <= seen || m.maxSeen.CompareAndSwap(seen, n) {
			break
		}
	}

	if m.delay > 0 {
		timer := time.NewTimer(m.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
	if m.err != nil {
		return nil, m.err
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = letterVector(t)
	}
	return out, nil
}

func (m *mockEmbedder) Dimensions() int              { return 26 }
func (m *mockEmbedder) ModelName() string            { return "letters" }
func (m *mockEmbedder) Ping(_ context.Context) error { return m.err }
func (m *mockEmbedder) Close() error                 { return nil }

// failingManualStore wraps the memory store and fails commits on demand.
type failingManualStore struct {
	*memory.ManualStore
	mu        sync.Mutex
	commitErr error
	getErr    error
}

func (s *failingManualStore) Commit(
	ctx context.Context, record *domain.ManualCacheRecord, docs []domain.VectorDocument,
) error {
	s.mu.Lock()
	err := s.commitErr
	s.mu.Unlock()
	if err != nil {
		return err
	}
	return s.ManualStore.Commit(ctx, record, docs)
}

func (s *failingManualStore) Get(ctx context.Context, owner domain.Owner) (*domain.ManualCacheRecord, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.ManualStore.Get(ctx, owner)
}

// stubDirectory implements driven.ConversationDirectory with a fixed error.
type stubDirectory struct {
	err error
}

func (d *stubDirectory) GetConversation(_ context.Context, _ string) (*domain.Conversation, error) {
	return nil, d.err
}

func (d *stubDirectory) GetProject(_ context.Context, _ string) (*domain.Project, error) {
	return nil, d.err
}

// stubValidator implements driven.AIConfigValidator.
type stubValidator struct {
	err    error
	called bool
}

func (v *stubValidator) ValidateEmbedding(_ *domain.EmbeddingSettings) error {
	v.called = true
	return v.err
}
