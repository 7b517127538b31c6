// Package selector chooses which chunks of a manual are embedded.
//
// The policy is a prefix: given n chunks and a ratio, the first
// max(1, round(n*ratio)) chunks are embedded and the rest are not
// retrievable. Lowering the ratio therefore biases retrieval toward
// content that appears early in the manual text, which is earlier
// uploaded files and, for a single request, files ahead of the
// instruction text.
package selector

import (
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/custodia-labs/sercha-manuals/internal/core/domain"
)

// Count returns how many of n chunks are embedded at ratio.
func Count(n int, ratio float64) int {
	if n <= 0 {
		return 0
	}
	k := int(math.Round(float64(n) * ratio))
	if k < 1 {
		k = 1
	}
	if k > n {
		k = n
	}
	return k
}

// Select returns the prefix of chunks to embed.
func Select(chunks []string, ratio float64) []string {
	return chunks[:Count(len(chunks), ratio)]
}

// Pair builds vector documents from texts and their embeddings with fresh ids.
func Pair(texts []string, embeddings [][]float32) ([]domain.VectorDocument, error) {
	if len(texts) != len(embeddings) {
		return nil, fmt.Errorf("%d texts but %d embeddings", len(texts), len(embeddings))
	}
	docs := make([]domain.VectorDocument, len(texts))
	for i := range texts {
		docs[i] = domain.VectorDocument{
			ID:        uuid.NewString(),
			Content:   texts[i],
			Embedding: embeddings[i],
		}
	}
	return docs, nil
}
