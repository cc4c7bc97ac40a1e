package embed

import (
	"context"
)

// Embedder converts text into fixed-length embedding vectors.
type Embedder interface {
	// Embed returns the embedding for a single text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch returns embeddings for texts, in order.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Model names the underlying embedding model.
	Model() string

	// Dimensions reports the embedding dimension, or 0 if not yet known.
	Dimensions() int
}

// Func converts free-form text into an embedding. Store-level helpers accept
// a Func so they stay provider-agnostic.
type Func func(ctx context.Context, text string) ([]float32, error)

// AsFunc adapts an Embedder into a plain Func.
func AsFunc(e Embedder) Func {
	return func(ctx context.Context, text string) ([]float32, error) {
		return e.Embed(ctx, text)
	}
}
