package index

import (
	"context"
	"fmt"
	"math"
)

// DenseIndex scores queries by exact inner-product search over L2-normalized
// embedding vectors, which on normalized vectors equals cosine similarity.
// The corpus is small enough that a flat scan is exact and fast.
type DenseIndex struct {
	enc     Encoder
	vectors [][]float32
	dim     int
}

// BuildDenseIndex embeds every document once and stores the normalized
// vectors. Returns an error if the encoder cannot produce embeddings,
// in which case the caller falls back to the sparse index.
func BuildDenseIndex(ctx context.Context, documents []string, enc Encoder) (*DenseIndex, error) {
	if len(documents) == 0 {
		return &DenseIndex{enc: enc}, nil
	}

	vectors, err := enc.EmbedBatch(ctx, documents)
	if err != nil {
		return nil, fmt.Errorf("embedding documents: %w", err)
	}
	if len(vectors) != len(documents) {
		return nil, fmt.Errorf("encoder returned %d vectors for %d documents", len(vectors), len(documents))
	}

	dim := len(vectors[0])
	for i, v := range vectors {
		if len(v) != dim {
			return nil, fmt.Errorf("vector %d has dimension %d, expected %d", i, len(v), dim)
		}
		normalize(v)
	}

	return &DenseIndex{enc: enc, vectors: vectors, dim: dim}, nil
}

// Score embeds the query and computes its inner product with every
// document vector.
func (d *DenseIndex) Score(ctx context.Context, query string) ([]float64, error) {
	if len(d.vectors) == 0 {
		return nil, nil
	}

	embedded, err := d.enc.EmbedBatch(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}
	if len(embedded) != 1 || len(embedded[0]) != d.dim {
		return nil, fmt.Errorf("encoder returned unexpected query embedding shape")
	}

	q := embedded[0]
	normalize(q)

	scores := make([]float64, len(d.vectors))
	for i, v := range d.vectors {
		scores[i] = dot(q, v)
	}
	return scores, nil
}

// Len returns the number of indexed documents.
func (d *DenseIndex) Len() int {
	return len(d.vectors)
}

// Dimension returns the embedding dimension.
func (d *DenseIndex) Dimension() int {
	return d.dim
}

// Backend returns the dense backend identifier.
func (d *DenseIndex) Backend() string {
	return BackendDense
}

func normalize(v []float32) {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return
	}
	norm := float32(math.Sqrt(sum))
	for i := range v {
		v[i] /= norm
	}
}

func dot(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}
