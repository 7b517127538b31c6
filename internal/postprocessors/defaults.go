// Package postprocessors builds the text processing stages of a manual rebuild.
package postprocessors

import (
	"github.com/custodia-labs/sercha-manuals/internal/core/domain"
	"github.com/custodia-labs/sercha-manuals/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-manuals/internal/postprocessors/chunker"
)

// NewSplitter creates the chunker configured by cfg.
// Non-positive sizes and negative overlaps fall back to the chunker defaults.
func NewSplitter(cfg domain.ChunkerSettings) driven.TextSplitter {
	var opts []chunker.Option
	if cfg.ChunkSize > 0 {
		opts = append(opts, chunker.WithChunkSize(cfg.ChunkSize))
	}
	if cfg.Overlap >= 0 {
		opts = append(opts, chunker.WithOverlap(cfg.Overlap))
	}
	return chunker.New(opts...)
}
