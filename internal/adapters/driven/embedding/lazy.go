package embedding

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/custodia-labs/sercha-manuals/internal/core/domain"
	"github.com/custodia-labs/sercha-manuals/internal/core/ports/driven"
)

var _ driven.EmbeddingService = (*Lazy)(nil)

// Factory constructs the underlying embedding service.
type Factory func() (driven.EmbeddingService, error)

// Lazy builds its service on first use and reuses it afterwards.
// A failed construction is retried on the next call.
type Lazy struct {
	mu         sync.Mutex
	factory    Factory
	svc        driven.EmbeddingService
	model      string
	dimensions int
}

// NewLazy returns a Lazy that reports model and dimensions before the
// service exists.
func NewLazy(model string, dimensions int, factory Factory) *Lazy {
	return &Lazy{factory: factory, model: model, dimensions: dimensions}
}

func (l *Lazy) get() (driven.EmbeddingService, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.svc != nil {
		return l.svc, nil
	}
	if l.factory == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}
	svc, err := l.factory()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrEmbeddingUnavailable, err)
	}
	if svc == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}
	l.svc = svc
	return svc, nil
}

// Embed returns an empty vector for blank text without building the service.
func (l *Lazy) Embed(ctx context.Context, text string) ([]float32, error) {
	if strings.TrimSpace(text) == "" {
		return []float32{}, nil
	}
	svc, err := l.get()
	if err != nil {
		return nil, err
	}
	return svc.Embed(ctx, text)
}

func (l *Lazy) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	svc, err := l.get()
	if err != nil {
		return nil, err
	}
	return svc.EmbedBatch(ctx, texts)
}

func (l *Lazy) Dimensions() int {
	return l.dimensions
}

func (l *Lazy) ModelName() string {
	return l.model
}

func (l *Lazy) Ping(ctx context.Context) error {
	svc, err := l.get()
	if err != nil {
		return err
	}
	return svc.Ping(ctx)
}

// Close closes the service if it was ever built.
func (l *Lazy) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.svc == nil {
		return nil
	}
	err := l.svc.Close()
	l.svc = nil
	return err
}
