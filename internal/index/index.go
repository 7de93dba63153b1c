package index

import (
	"context"
	"log"
)

// Backend identifiers reported by the health endpoint.
const (
	BackendDense  = "embeddings"
	BackendSparse = "tfidf"
)

// Index scores an arbitrary query against every indexed document.
// Implementations are built once at startup and are read-only afterwards,
// so they are safe for unlimited concurrent use.
type Index interface {
	// Score returns one similarity score per indexed document,
	// order-aligned with the documents the index was built from.
	Score(ctx context.Context, query string) ([]float64, error)

	// Len returns the number of indexed documents.
	Len() int

	// Backend returns the identifier of the active scoring strategy.
	Backend() string
}

// Encoder maps a batch of texts to fixed-dimension embedding vectors.
// A nil Encoder means no semantic model is available.
type Encoder interface {
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// Build constructs the search index for the given documents. The strategy is
// chosen exactly once here: with a working encoder the dense embedding index
// is used, otherwise the TF-IDF index. Encoder failures degrade the backend,
// never the service.
func Build(ctx context.Context, documents []string, enc Encoder) Index {
	if enc == nil {
		log.Printf("No embedding encoder configured, using TF-IDF index")
		return NewSparseIndex(documents)
	}

	dense, err := BuildDenseIndex(ctx, documents, enc)
	if err != nil {
		log.Printf("Embedding encoder unavailable, falling back to TF-IDF index: %v", err)
		return NewSparseIndex(documents)
	}

	log.Printf("Dense index built with %d vectors (dim=%d)", dense.Len(), dense.Dimension())
	return dense
}
