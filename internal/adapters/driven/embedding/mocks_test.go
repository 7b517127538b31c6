package embedding

import (
	"context"
	"errors"
	"sync"

	"github.com/custodia-labs/sercha-manuals/internal/core/ports/driven"
)

// fakeEmbedder returns [len(text), 1] for every text and records batches.
type fakeEmbedder struct {
	mu      sync.Mutex
	batches [][]string
	err     error
	pingErr error
	closed  bool
	pinged  int
}

var _ driven.EmbeddingService = (*fakeEmbedder)(nil)

func (f *fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	out, err := f.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return out[0], nil
}

func (f *fakeEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.batches = append(f.batches, append([]string(nil), texts...))
	if f.err != nil {
		return nil, f.err
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = []float32{float32(len(t)), 1}
	}
	return out, nil
}

func (f *fakeEmbedder) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.batches)
}

func (f *fakeEmbedder) Dimensions() int   { return 2 }
func (f *fakeEmbedder) ModelName() string { return "fake-model" }

func (f *fakeEmbedder) Ping(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pinged++
	return f.pingErr
}

func (f *fakeEmbedder) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

var errProvider = errors.New("provider down")
