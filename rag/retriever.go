package rag

import (
	"context"

	"github.com/pkg/errors"

	"github.com/movievec/movievec/embed"
	"github.com/movievec/movievec/vector"
)

// DefaultTopK is the number of contexts retrieved per question when the
// caller does not override it.
const DefaultTopK = 5

// Context is one retrieved document with its similarity score.
type Context struct {
	ID       string  `json:"id"`
	Content  string  `json:"content"`
	Metadata string  `json:"metadata,omitempty"`
	Score    float64 `json:"score"`
}

// Document converts the context back into a vector.Document (without the
// embedding, which retrieval does not carry along).
func (c Context) Document() vector.Document {
	return vector.Document{ID: c.ID, Content: c.Content, Metadata: c.Metadata}
}

// Retriever embeds a query and finds the closest stored documents.
type Retriever struct {
	embedder embed.Embedder
	store    vector.Store
	topK     int
	minScore float64
}

// RetrieverOption customizes a Retriever.
type RetrieverOption func(*Retriever)

// WithTopK sets how many contexts a retrieval returns.
func WithTopK(k int) RetrieverOption {
	return func(r *Retriever) { r.topK = k }
}

// WithMinScore drops contexts scoring below the threshold.
func WithMinScore(score float64) RetrieverOption {
	return func(r *Retriever) { r.minScore = score }
}

// NewRetriever wires an embedder to a vector store.
func NewRetriever(embedder embed.Embedder, store vector.Store, opts ...RetrieverOption) (*Retriever, error) {
	if embedder == nil {
		return nil, errors.New("rag: embedder is nil")
	}
	if store == nil {
		return nil, errors.New("rag: store is nil")
	}
	r := &Retriever{embedder: embedder, store: store, topK: DefaultTopK}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// EmbedQuery returns the embedding of a query string.
func (r *Retriever) EmbedQuery(ctx context.Context, query string) ([]float32, error) {
	vec, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, errors.Wrap(err, "rag: embed query")
	}
	return vec, nil
}

// Retrieve embeds the query and returns the closest contexts.
func (r *Retriever) Retrieve(ctx context.Context, query string) ([]Context, error) {
	emb, err := r.EmbedQuery(ctx, query)
	if err != nil {
		return nil, err
	}
	return r.RetrieveEmbedding(ctx, emb)
}

// RetrieveEmbedding returns the closest contexts for a pre-computed query
// embedding.
func (r *Retriever) RetrieveEmbedding(ctx context.Context, queryEmbedding []float32) ([]Context, error) {
	matches, err := r.store.SimilaritySearch(ctx, queryEmbedding, r.topK)
	if err != nil {
		return nil, errors.Wrap(err, "rag: similarity search")
	}
	out := make([]Context, 0, len(matches))
	for _, m := range matches {
		if m.Score < r.minScore {
			continue
		}
		out = append(out, Context{
			ID:       m.ID,
			Content:  m.Content,
			Metadata: m.Metadata,
			Score:    m.Score,
		})
	}
	return out, nil
}
