package vecutil

import (
	"context"
	"testing"

	"github.com/movievec/movievec/embed"
	"github.com/movievec/movievec/engine"
	"github.com/movievec/movievec/vector"
)

func newTestStore(t *testing.T) vector.Store {
	t.Helper()
	db, err := engine.Open(":memory:")
	if err != nil {
		t.Fatalf("engine.Open(:memory:) failed: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	store, err := vector.NewSQLiteStore(db)
	if err != nil {
		t.Fatalf("NewSQLiteStore failed: %v", err)
	}
	return store
}

func TestUpsertAndMatchText(t *testing.T) {
	store := newTestStore(t)
	embedFn := embed.AsFunc(embed.NewLocal(0))
	ctx := context.Background()

	texts := map[string]string{
		"inception": "a thief steals corporate secrets through dream sharing technology",
		"heat":      "a seasoned detective pursues a crew of professional bank robbers",
		"alien":     "the crew of a spaceship is hunted by a deadly alien creature",
	}
	for id, content := range texts {
		if err := UpsertDocument(ctx, store, embedFn, id, content, ""); err != nil {
			t.Fatalf("UpsertDocument(%s) failed: %v", id, err)
		}
	}

	matches, err := MatchText(ctx, store, embedFn, "a spaceship crew hunted by an alien creature", 1)
	if err != nil {
		t.Fatalf("MatchText failed: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("MatchText returned %d matches, want 1", len(matches))
	}
	if matches[0].ID != "alien" {
		t.Errorf("best match = %s, want alien", matches[0].ID)
	}
}

func TestUpsertDocument_NilArgs(t *testing.T) {
	embedFn := embed.AsFunc(embed.NewLocal(0))
	if err := UpsertDocument(context.Background(), nil, embedFn, "id", "text", ""); err == nil {
		t.Error("expected error for nil store")
	}
	if err := UpsertDocument(context.Background(), newTestStore(t), nil, "id", "text", ""); err == nil {
		t.Error("expected error for nil embed func")
	}
}

func TestMatchText_NilArgs(t *testing.T) {
	embedFn := embed.AsFunc(embed.NewLocal(0))
	if _, err := MatchText(context.Background(), nil, embedFn, "q", 1); err == nil {
		t.Error("expected error for nil store")
	}
	if _, err := MatchText(context.Background(), newTestStore(t), nil, "q", 1); err == nil {
		t.Error("expected error for nil embed func")
	}
}
