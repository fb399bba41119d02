package storage

import (
	"context"
	"fmt"

	"github.com/ragloop/selfrag/internal/graph"
	"github.com/ragloop/selfrag/internal/processing"
)

// DefaultTopK is how many chunks a retrieval returns.
const DefaultTopK = 4

// Searcher is the nearest-neighbour lookup the retriever needs.
type Searcher interface {
	QuerySimilar(ctx context.Context, queryEmb []float32, topK int) ([]string, error)
}

// Retriever embeds the query and runs a nearest-neighbour search over the
// chunk index. It satisfies the workflow's Retriever contract: fresh search
// every call, retriever order preserved, failures surfaced as-is.
type Retriever struct {
	store    Searcher
	embedder processing.Embedder
	topK     int
}

func NewRetriever(store Searcher, embedder processing.Embedder, topK int) *Retriever {
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &Retriever{store: store, embedder: embedder, topK: topK}
}

func (r *Retriever) Retrieve(ctx context.Context, query string) ([]graph.Document, error) {
	emb, err := r.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}
	contents, err := r.store.QuerySimilar(ctx, emb, r.topK)
	if err != nil {
		return nil, fmt.Errorf("searching index: %w", err)
	}
	docs := make([]graph.Document, len(contents))
	for i, c := range contents {
		docs[i] = graph.Document{Text: c}
	}
	return docs, nil
}
