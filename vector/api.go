package vector

import (
	"context"
)

// Document represents a logical document stored in a vector store.
type Document struct {
	// ID is the logical identifier of the document. When empty on insert, the
	// store generates one.
	ID string

	// Content holds the text that was (or will be) embedded.
	Content string

	// Metadata is an opaque JSON payload associated with the document. It is
	// modeled as a raw string so stores do not impose a schema on callers.
	Metadata string

	// Embedding is the vector representation of the document content.
	Embedding []float32
}

// Match pairs a retrieved document with its similarity score. Higher scores
// mean closer matches regardless of the underlying metric.
type Match struct {
	Document
	Score float64
}

// Store defines the application-level vector store API. This module ships two
// implementations: SQLiteStore (durable, index-backed) and ChromemStore
// (embedded third-party vector database).
type Store interface {
	// AddDocuments upserts documents into the store and returns their assigned
	// IDs. Documents with an empty ID receive a generated one; documents with
	// an existing ID replace the stored row.
	AddDocuments(ctx context.Context, docs []Document) ([]string, error)

	// SimilaritySearch performs a k-nearest-neighbour search using the provided
	// embedding as the query vector and returns up to k matches ordered by
	// decreasing score.
	SimilaritySearch(ctx context.Context, queryEmbedding []float32, k int) ([]Match, error)

	// Remove deletes the document with the given ID.
	Remove(ctx context.Context, id string) error

	// Count reports the number of stored documents.
	Count(ctx context.Context) (int, error)
}
