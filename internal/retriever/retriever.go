package retriever

import (
	"context"
	"fmt"
	"sort"

	"github.com/rubberintel/internal/index"
	"github.com/rubberintel/internal/knowledge"
	"github.com/rubberintel/pkg/models"
)

// Retriever ranks knowledge entries by similarity against a query.
type Retriever struct {
	store *knowledge.Store
	index index.Index
}

// New creates a Retriever over the given store and index. The index must
// have been built from the store's search documents.
func New(store *knowledge.Store, idx index.Index) *Retriever {
	return &Retriever{store: store, index: idx}
}

// Search returns up to topK entries sorted by score descending. Ties keep
// the original entry order. An empty store yields an empty result, not an
// error. Query trimming is the caller's responsibility.
func (r *Retriever) Search(ctx context.Context, query string, topK int) ([]models.ScoredResult, error) {
	if r.store.Len() == 0 {
		return nil, nil
	}

	scores, err := r.index.Score(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("scoring query: %w", err)
	}
	if len(scores) != r.store.Len() {
		return nil, fmt.Errorf("index returned %d scores for %d entries", len(scores), r.store.Len())
	}

	entries := r.store.Entries()
	results := make([]models.ScoredResult, len(entries))
	for i := range entries {
		results[i] = models.ScoredResult{Entry: &entries[i], Score: scores[i]}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if topK > 0 && len(results) > topK {
		results = results[:topK]
	}
	return results, nil
}

// Backend reports the active index backend.
func (r *Retriever) Backend() string {
	return r.index.Backend()
}
