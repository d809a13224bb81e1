package embedding

// Provider defines the interface for generating text embeddings
type Provider interface {
	Generate(text string, taskType string) (*Response, error)
}

// Response wraps a single embedding vector
type Response struct {
	Embedding Vector `json:"embedding"`
}

// Vector holds the normalized embedding values
type Vector struct {
	Values []float32 `json:"values"`
}

// Cosine computes the cosine similarity of two normalized vectors.
// Vectors produced by this package are unit length, so the dot product
// is the similarity.
func Cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
	}
	if dot < 0 {
		return 0
	}
	if dot > 1 {
		return 1
	}
	return dot
}
