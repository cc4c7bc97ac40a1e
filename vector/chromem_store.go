package vector

import (
	"context"
	"fmt"

	chromem "github.com/philippgille/chromem-go"

	"github.com/google/uuid"
)

// ChromemStore implements Store on top of chromem-go, an embedded vector
// database with its own persistence and ANN-style search. Embeddings are
// always supplied by the caller, so the collection never invokes a remote
// embedding function.
type ChromemStore struct {
	db         *chromem.DB
	collection *chromem.Collection
}

// NewChromemStore creates an in-memory chromem-backed Store with the given
// collection name.
func NewChromemStore(name string) (*ChromemStore, error) {
	return newChromemStore(chromem.NewDB(), name)
}

// NewPersistentChromemStore creates a chromem-backed Store that persists the
// collection under dir.
func NewPersistentChromemStore(dir, name string) (*ChromemStore, error) {
	db, err := chromem.NewPersistentDB(dir, false)
	if err != nil {
		return nil, err
	}
	return newChromemStore(db, name)
}

func newChromemStore(db *chromem.DB, name string) (*ChromemStore, error) {
	if name == "" {
		return nil, fmt.Errorf("vector: chromem collection name is empty")
	}
	// Documents always arrive pre-embedded; this func only guards against
	// accidental use of the collection without an embedding.
	embed := func(_ context.Context, text string) ([]float32, error) {
		return nil, fmt.Errorf("vector: chromem store requires pre-computed embeddings (got raw text %q)", text)
	}
	collection, err := db.GetOrCreateCollection(name, nil, embed)
	if err != nil {
		return nil, err
	}
	return &ChromemStore{db: db, collection: collection}, nil
}

// AddDocuments upserts pre-embedded documents into the collection. Documents
// with an empty ID receive a generated UUID.
func (s *ChromemStore) AddDocuments(ctx context.Context, docs []Document) ([]string, error) {
	if len(docs) == 0 {
		return nil, nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	ids := make([]string, 0, len(docs))
	for _, d := range docs {
		if len(d.Embedding) == 0 {
			return nil, fmt.Errorf("vector: chromem store requires an embedding for document %q", d.ID)
		}
		id := d.ID
		if id == "" {
			id = uuid.NewString()
		}
		var meta map[string]string
		if d.Metadata != "" {
			meta = map[string]string{"meta": d.Metadata}
		}
		err := s.collection.AddDocument(ctx, chromem.Document{
			ID:        id,
			Content:   d.Content,
			Metadata:  meta,
			Embedding: d.Embedding,
		})
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// SimilaritySearch queries the collection with the provided embedding and
// returns up to k matches ordered by decreasing cosine similarity.
func (s *ChromemStore) SimilaritySearch(ctx context.Context, queryEmbedding []float32, k int) ([]Match, error) {
	if k <= 0 || len(queryEmbedding) == 0 {
		return nil, nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	// chromem rejects nResults greater than the collection size.
	if n := s.collection.Count(); k > n {
		k = n
	}
	if k == 0 {
		return nil, nil
	}
	results, err := s.collection.QueryEmbedding(ctx, queryEmbedding, k, nil, nil)
	if err != nil {
		return nil, err
	}
	out := make([]Match, 0, len(results))
	for _, r := range results {
		out = append(out, Match{
			Document: Document{
				ID:        r.ID,
				Content:   r.Content,
				Metadata:  r.Metadata["meta"],
				Embedding: r.Embedding,
			},
			Score: float64(r.Similarity),
		})
	}
	return out, nil
}

// Remove deletes a document by ID.
func (s *ChromemStore) Remove(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("vector: Remove called with empty id")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	return s.collection.Delete(ctx, nil, nil, id)
}

// Count reports the number of stored documents.
func (s *ChromemStore) Count(_ context.Context) (int, error) {
	return s.collection.Count(), nil
}

// Ensure ChromemStore satisfies the Store interface.
var _ Store = (*ChromemStore)(nil)
