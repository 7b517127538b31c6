package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/sercha-manuals/internal/core/domain"
	"github.com/custodia-labs/sercha-manuals/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-manuals/internal/core/ports/driving"
	"github.com/custodia-labs/sercha-manuals/internal/logger"
	"github.com/custodia-labs/sercha-manuals/internal/postprocessors/selector"
)

// Ensure ManualService implements the interface.
var _ driving.ManualService = (*ManualService)(nil)

// legacyNamespace seeds the ids of sources reconstructed from legacy records.
var legacyNamespace = uuid.MustParse("5b0c3f4e-8f0a-4d8e-9a51-2f6f0b7d9c11")

// ManualService owns the manual record of every owner.
// A rebuild is staged in memory and committed in one store call, so a failure
// at any step leaves the previously committed manual in place.
type ManualService struct {
	store    driven.ManualStore
	splitter driven.TextSplitter
	embedder driven.EmbeddingService
	ingestor *SourceIngestor
	settings domain.IngestSettings
	locks    *ownerLocks
	now      func() time.Time
}

// NewManualService creates a new manual service.
// The embedder may be nil; rebuilds then fail with domain.ErrEmbeddingUnavailable.
func NewManualService(
	store driven.ManualStore,
	splitter driven.TextSplitter,
	embedder driven.EmbeddingService,
	settings domain.IngestSettings,
) *ManualService {
	defaults := domain.DefaultAppSettings().Ingest
	if settings.EmbedConcurrency <= 0 {
		settings.EmbedConcurrency = defaults.EmbedConcurrency
	}
	if settings.EmbedBatchSize <= 0 {
		settings.EmbedBatchSize = defaults.EmbedBatchSize
	}
	if settings.DefaultEmbedRatio == 0 {
		settings.DefaultEmbedRatio = defaults.DefaultEmbedRatio
	}
	return &ManualService{
		store:    store,
		splitter: splitter,
		embedder: embedder,
		ingestor: NewSourceIngestor(),
		settings: settings,
		locks:    newOwnerLocks(),
		now:      time.Now,
	}
}

// Ingest merges the request's sources into the owner's manual and rebuilds it.
func (s *ManualService) Ingest(
	ctx context.Context, owner domain.Owner, req domain.IngestRequest,
) (*domain.ManualSummary, error) {
	logger.Section("Manual Ingestion")

	if err := owner.Validate(); err != nil {
		return nil, err
	}
	mode, err := domain.ParseMergeMode(req.Mode)
	if err != nil {
		return nil, err
	}
	ratio := domain.ClampEmbedRatio(req.EmbedRatio, s.settings.DefaultEmbedRatio)
	added := s.ingestor.Build(req.Files, req.Instruction)

	unlock, err := s.locks.lock(ctx, owner.String())
	if err != nil {
		return nil, err
	}
	defer unlock()

	existing, err := s.loadSources(ctx, owner)
	if err != nil {
		return nil, err
	}

	merged, err := domain.MergeSources(mode, existing, added)
	if err != nil {
		return nil, err
	}
	logger.Debug("Mode %s: %d existing + %d new sources -> %d", mode, len(existing), len(added), len(merged))

	record, err := s.rebuild(ctx, owner, merged, ratio)
	if err != nil {
		return nil, err
	}
	summary := record.Summary()
	return &summary, nil
}

// Status reports the owner's manual as last committed.
func (s *ManualService) Status(ctx context.Context, owner domain.Owner) (domain.ManualStatus, error) {
	if err := owner.Validate(); err != nil {
		return domain.ManualStatus{}, err
	}

	record, err := s.store.Get(ctx, owner)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.NoManual(), nil
	}
	if err != nil {
		return domain.ManualStatus{}, fmt.Errorf("load manual: %w", err)
	}

	if record.IsLegacy() {
		record.Sources = reconstructSources(record.ManualText, record.UpdatedAt, legacyIDs(owner))
		record.FileCount = domain.CountFiles(record.Sources)
	}
	if len(record.Sources) == 0 {
		return domain.NoManual(), nil
	}
	return domain.StatusOf(record), nil
}

// RemoveSource drops sourceID from the owner's manual.
// Removing the last source deletes the manual.
func (s *ManualService) RemoveSource(
	ctx context.Context, owner domain.Owner, sourceID string,
) (domain.ManualStatus, error) {
	logger.Section("Manual Source Removal")

	if err := owner.Validate(); err != nil {
		return domain.ManualStatus{}, err
	}
	sourceID = strings.TrimSpace(sourceID)
	if sourceID == "" {
		return domain.ManualStatus{}, fmt.Errorf("missing source id: %w", domain.ErrBadRequest)
	}

	unlock, err := s.locks.lock(ctx, owner.String())
	if err != nil {
		return domain.ManualStatus{}, err
	}
	defer unlock()

	record, err := s.store.Get(ctx, owner)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ManualStatus{}, fmt.Errorf("manual for %s: %w", owner, domain.ErrNotFound)
		}
		return domain.ManualStatus{}, fmt.Errorf("load manual: %w", err)
	}
	sources := record.Sources
	if record.IsLegacy() {
		sources = reconstructSources(record.ManualText, record.UpdatedAt, legacyIDs(owner))
	}

	remaining, removed := domain.RemoveSource(sources, sourceID)
	if !removed {
		return domain.ManualStatus{}, fmt.Errorf("source %q: %w", sourceID, domain.ErrNotFound)
	}

	if len(remaining) == 0 {
		if err := s.store.Delete(ctx, owner); err != nil {
			return domain.ManualStatus{}, fmt.Errorf("delete manual: %w", err)
		}
		logger.Infow("manual deleted", "owner", owner.String(), "reason", "last source removed")
		return domain.NoManual(), nil
	}

	ratio := domain.ClampEmbedRatio(record.EmbedRatio, s.settings.DefaultEmbedRatio)
	rebuilt, err := s.rebuild(ctx, owner, remaining, ratio)
	if err != nil {
		return domain.ManualStatus{}, err
	}
	return domain.StatusOf(rebuilt), nil
}

// DeleteOwner removes the owner's manual and vector documents.
func (s *ManualService) DeleteOwner(ctx context.Context, owner domain.Owner) error {
	if err := owner.Validate(); err != nil {
		return err
	}

	unlock, err := s.locks.lock(ctx, owner.String())
	if err != nil {
		return err
	}
	defer unlock()

	if err := s.store.Delete(ctx, owner); err != nil {
		return fmt.Errorf("delete manual: %w", err)
	}
	logger.Infow("manual deleted", "owner", owner.String(), "reason", "owner deleted")
	return nil
}

// Owners lists every owner with a stored manual.
func (s *ManualService) Owners(ctx context.Context) ([]domain.Owner, error) {
	owners, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list manuals: %w", err)
	}
	return owners, nil
}

// loadSources returns the owner's current sources, or nil without a manual.
func (s *ManualService) loadSources(ctx context.Context, owner domain.Owner) ([]domain.ManualSource, error) {
	record, err := s.store.Get(ctx, owner)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load manual: %w", err)
	}
	if record.IsLegacy() {
		logger.Debug("Reconstructing sources of legacy manual for %s", owner)
		return reconstructSources(record.ManualText, record.UpdatedAt, legacyIDs(owner)), nil
	}
	return record.Sources, nil
}

// rebuild recomputes the manual from sources and commits record and vectors together.
func (s *ManualService) rebuild(
	ctx context.Context, owner domain.Owner, sources []domain.ManualSource, ratio float64,
) (*domain.ManualCacheRecord, error) {
	text := domain.FlattenSources(sources)
	chunks := s.splitter.Split(text)
	if len(chunks) == 0 {
		return nil, fmt.Errorf("manual text produced no chunks: %w", domain.ErrBadRequest)
	}

	selected := selector.Select(chunks, ratio)
	logger.Debug("Chunks: %d, embedding first %d (ratio %.2f)", len(chunks), len(selected), ratio)

	embeddings, err := s.embedAll(ctx, selected)
	if err != nil {
		return nil, err
	}
	docs, err := selector.Pair(selected, embeddings)
	if err != nil {
		return nil, fmt.Errorf("pair embeddings: %w", err)
	}

	record := &domain.ManualCacheRecord{
		Owner:          owner,
		ManualText:     text,
		ChunkCount:     len(chunks),
		EmbeddedChunks: len(docs),
		FileCount:      domain.CountFiles(sources),
		EmbedRatio:     ratio,
		UpdatedAt:      s.now().UTC(),
		Sources:        sources,
	}
	if err := record.Validate(); err != nil {
		return nil, err
	}

	if err := s.store.Commit(ctx, record, docs); err != nil {
		return nil, fmt.Errorf("commit manual: %w", err)
	}

	logger.Infow("manual rebuilt",
		"owner", owner.String(),
		"sources", len(sources),
		"files", record.FileCount,
		"chunks", record.ChunkCount,
		"embedded", record.EmbeddedChunks,
	)
	return record, nil
}

// embedAll embeds texts in batches, running up to EmbedConcurrency batches at once.
// Any failure or timeout is reported as domain.ErrUpstream.
func (s *ManualService) embedAll(ctx context.Context, texts []string) ([][]float32, error) {
	if s.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}

	if s.settings.EmbedTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.settings.EmbedTimeout)
		defer cancel()
	}

	results := make([][]float32, len(texts))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.settings.EmbedConcurrency)

	for start := 0; start < len(texts); start += s.settings.EmbedBatchSize {
		end := min(start+s.settings.EmbedBatchSize, len(texts))
		g.Go(func() error {
			vecs, err := s.embedder.EmbedBatch(gctx, texts[start:end])
			if err != nil {
				return err
			}
			if len(vecs) != end-start {
				return fmt.Errorf("got %d embeddings for %d chunks", len(vecs), end-start)
			}
			for i, v := range vecs {
				if len(v) == 0 {
					return fmt.Errorf("empty embedding for chunk %d", start+i)
				}
				results[start+i] = v
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		if errors.Is(err, domain.ErrEmbeddingUnavailable) {
			return nil, err
		}
		logger.Warnw("embedding failed, keeping previous manual", "error", err)
		return nil, fmt.Errorf("embed %d chunks: %w: %w", len(texts), domain.ErrUpstream, err)
	}
	return results, nil
}

// legacyIDs returns a generator of stable ids for an owner's reconstructed sources,
// so ids shown by Status can be used for RemoveSource.
func legacyIDs(owner domain.Owner) func() string {
	n := 0
	return func() string {
		n++
		return uuid.NewSHA1(legacyNamespace, fmt.Appendf(nil, "%s/%d", owner.String(), n)).String()
	}
}
