package domain

// VectorDocument is one embedded chunk of an owner's manual.
// Vector documents are regenerated wholesale on every rebuild.
type VectorDocument struct {
	ID        string
	Content   string
	Embedding []float32
}

// VectorHit is a vector document scored against a query.
type VectorHit struct {
	ID      string
	Content string
	Score   float64
}

// Contents returns the chunk texts of hits in order.
func Contents(hits []VectorHit) []string {
	out := make([]string, len(hits))
	for i, h := range hits {
		out[i] = h.Content
	}
	return out
}
