package domain

import (
	"math"
	"sort"
)

// CosineSimilarity returns the cosine of the angle between a and b.
// Empty, zero or mismatched vectors score 0.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0
	}
	s := dot / (math.Sqrt(na) * math.Sqrt(nb))
	if math.IsNaN(s) {
		return 0
	}
	return s
}

// RankTopK scores docs against query and returns the best topK, highest first.
// Ties keep the order of docs.
func RankTopK(docs []VectorDocument, query []float32, topK int) []VectorHit {
	if len(docs) == 0 || len(query) == 0 || topK <= 0 {
		return []VectorHit{}
	}
	hits := make([]VectorHit, len(docs))
	for i, d := range docs {
		hits[i] = VectorHit{
			ID:      d.ID,
			Content: d.Content,
			Score:   CosineSimilarity(query, d.Embedding),
		}
	}
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Score > hits[j].Score
	})
	if len(hits) > topK {
		hits = hits[:topK]
	}
	return hits
}
