package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/sercha-manuals/internal/core/domain"
	"github.com/custodia-labs/sercha-manuals/internal/core/ports/driven"
)

// Ensure ManualStore implements the interfaces.
var (
	_ driven.ManualStore = (*ManualStore)(nil)
	_ driven.VectorStore = (*ManualStore)(nil)
)

// ManualStore is an in-memory implementation of driven.ManualStore and driven.VectorStore.
// Records and vectors share one lock so Commit is atomic.
type ManualStore struct {
	mu      sync.RWMutex
	records map[domain.Owner]domain.ManualCacheRecord
	vectors map[domain.Owner][]domain.VectorDocument
}

// NewManualStore creates a new in-memory manual store.
func NewManualStore() *ManualStore {
	return &ManualStore{
		records: make(map[domain.Owner]domain.ManualCacheRecord),
		vectors: make(map[domain.Owner][]domain.VectorDocument),
	}
}

// Get retrieves the record for owner.
func (s *ManualStore) Get(_ context.Context, owner domain.Owner) (*domain.ManualCacheRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.records[owner]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return copyRecord(&r), nil
}

// Commit stores record and replaces its owner's vectors.
func (s *ManualStore) Commit(_ context.Context, record *domain.ManualCacheRecord, docs []domain.VectorDocument) error {
	if record == nil {
		return domain.ErrBadRequest
	}
	if err := record.Owner.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[record.Owner] = *copyRecord(record)
	s.vectors[record.Owner] = copyDocs(docs)
	return nil
}

// Delete removes the record and vectors for owner.
func (s *ManualStore) Delete(_ context.Context, owner domain.Owner) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, owner)
	delete(s.vectors, owner)
	return nil
}

// List returns all owners with a record, sorted by type then id.
func (s *ManualStore) List(_ context.Context) ([]domain.Owner, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	owners := make([]domain.Owner, 0, len(s.records))
	for _, r := range s.records {
		owners = append(owners, r.Owner)
	}
	sort.Slice(owners, func(i, j int) bool {
		if owners[i].Type != owners[j].Type {
			return owners[i].Type < owners[j].Type
		}
		return owners[i].ID < owners[j].ID
	})
	return owners, nil
}

// Replace overwrites the vectors for owner.
func (s *ManualStore) Replace(_ context.Context, owner domain.Owner, docs []domain.VectorDocument) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vectors[owner] = copyDocs(docs)
	return nil
}

// Clear removes the vectors for owner.
func (s *ManualStore) Clear(_ context.Context, owner domain.Owner) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.vectors, owner)
	return nil
}

// Query ranks the owner's vectors against embedding.
func (s *ManualStore) Query(
	_ context.Context, owner domain.Owner, embedding []float32, topK int,
) ([]domain.VectorHit, error) {
	if topK <= 0 {
		topK = driven.DefaultTopK
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.RankTopK(s.vectors[owner], embedding, topK), nil
}

// PutLegacy stores a record as written before sources were tracked.
// Only tests use it.
func (s *ManualStore) PutLegacy(owner domain.Owner, manualText string, embedRatio float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[owner] = domain.ManualCacheRecord{
		Owner:      owner,
		ManualText: manualText,
		EmbedRatio: embedRatio,
	}
}

func copyRecord(r *domain.ManualCacheRecord) *domain.ManualCacheRecord {
	out := *r
	if r.Sources != nil {
		out.Sources = make([]domain.ManualSource, len(r.Sources))
		copy(out.Sources, r.Sources)
	}
	return &out
}

func copyDocs(docs []domain.VectorDocument) []domain.VectorDocument {
	out := make([]domain.VectorDocument, len(docs))
	copy(out, docs)
	return out
}
