package vector

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/google/uuid"

	idxapi "github.com/movievec/movievec/index"
	"github.com/movievec/movievec/index/bruteforce"
)

// IndexFactory produces a fresh, empty index. SQLiteStore rebuilds the index
// from the docs table whenever the stored documents change.
type IndexFactory func() idxapi.Index

// SQLiteStore implements Store on top of a SQLite database. Documents live in
// the docs table; kNN queries run against an in-memory index built from the
// stored embeddings and cached until the next write.
type SQLiteStore struct {
	db       *sql.DB
	newIndex IndexFactory
	mu       sync.Mutex
	idx      idxapi.Index
}

// StoreOption customizes a SQLiteStore.
type StoreOption func(*SQLiteStore)

// WithIndexFactory overrides the default brute-force index used for
// similarity search.
func WithIndexFactory(f IndexFactory) StoreOption {
	return func(s *SQLiteStore) { s.newIndex = f }
}

// NewSQLiteStore creates a SQLite-backed Store. It ensures the docs schema
// exists in the provided database.
func NewSQLiteStore(db *sql.DB, opts ...StoreOption) (*SQLiteStore, error) {
	if db == nil {
		return nil, fmt.Errorf("vector: db is nil")
	}
	if err := EnsureSchema(db); err != nil {
		return nil, err
	}
	s := &SQLiteStore{
		db:       db,
		newIndex: func() idxapi.Index { return &bruteforce.Index{} },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// AddDocuments upserts documents into the docs table. Documents with an empty
// ID receive a generated UUID. Any cached index is invalidated.
func (s *SQLiteStore) AddDocuments(ctx context.Context, docs []Document) ([]string, error) {
	if len(docs) == 0 {
		return nil, nil
	}
	if ctx == nil {
		ctx = context.Background()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO docs(id, content, meta, embedding) VALUES(?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
  content = excluded.content,
  meta = excluded.meta,
  embedding = excluded.embedding`)
	if err != nil {
		return nil, err
	}
	defer stmt.Close()

	ids := make([]string, 0, len(docs))
	for _, d := range docs {
		id := d.ID
		if id == "" {
			id = uuid.NewString()
		}
		emb, err := EncodeEmbedding(d.Embedding)
		if err != nil {
			return nil, err
		}
		if _, err := stmt.ExecContext(ctx, id, d.Content, d.Metadata, emb); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	s.invalidate()
	return ids, nil
}

// SimilaritySearch ranks stored documents against the query embedding and
// returns up to k matches ordered by decreasing score.
func (s *SQLiteStore) SimilaritySearch(ctx context.Context, queryEmbedding []float32, k int) ([]Match, error) {
	if k <= 0 || len(queryEmbedding) == 0 {
		return nil, nil
	}
	if ctx == nil {
		ctx = context.Background()
	}

	idx, err := s.index(ctx)
	if err != nil {
		return nil, err
	}
	if idx == nil {
		return nil, nil
	}
	ids, scores, err := idx.Query(queryEmbedding, k)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}

	byID := make(map[string]int, len(ids))
	for i, id := range ids {
		byID[id] = i
	}
	out := make([]Match, len(ids))
	for i, id := range ids {
		doc, err := s.get(ctx, id)
		if err != nil {
			return nil, err
		}
		out[i] = Match{Document: doc, Score: scores[byID[id]]}
	}
	return out, nil
}

// Remove deletes a document by ID from the docs table and invalidates any
// cached index.
func (s *SQLiteStore) Remove(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("vector: Remove called with empty id")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM docs WHERE id = ?`, id); err != nil {
		return err
	}
	s.invalidate()
	return nil
}

// Count reports the number of stored documents.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM docs`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (s *SQLiteStore) get(ctx context.Context, id string) (Document, error) {
	var d Document
	var blob []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT id, content, meta, embedding FROM docs WHERE id = ?`, id).
		Scan(&d.ID, &d.Content, &d.Metadata, &blob)
	if err != nil {
		return Document{}, err
	}
	d.Embedding, err = DecodeEmbedding(blob)
	if err != nil {
		return Document{}, err
	}
	return d, nil
}

func (s *SQLiteStore) invalidate() {
	s.mu.Lock()
	s.idx = nil
	s.mu.Unlock()
}

// index returns a kNN index over all stored documents with embeddings,
// building and caching it on first use.
func (s *SQLiteStore) index(ctx context.Context) (idxapi.Index, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.idx != nil {
		return s.idx, nil
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, embedding FROM docs WHERE embedding IS NOT NULL ORDER BY rowid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	var vecs [][]float32
	for rows.Next() {
		var id string
		var blob []byte
		if err := rows.Scan(&id, &blob); err != nil {
			return nil, err
		}
		vec, err := DecodeEmbedding(blob)
		if err != nil {
			return nil, err
		}
		if len(vec) == 0 {
			continue
		}
		ids = append(ids, id)
		vecs = append(vecs, vec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}

	idx := s.newIndex()
	if err := idx.Build(ids, vecs); err != nil {
		return nil, err
	}
	s.idx = idx
	return idx, nil
}

// Ensure SQLiteStore satisfies the Store interface.
var _ Store = (*SQLiteStore)(nil)
