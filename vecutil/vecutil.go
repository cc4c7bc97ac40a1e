package vecutil

import (
	"context"
	"fmt"

	"github.com/movievec/movievec/embed"
	"github.com/movievec/movievec/vector"
)

// UpsertDocument embeds content with the provided embed.Func and upserts the
// resulting document into the store.
func UpsertDocument(
	ctx context.Context,
	store vector.Store,
	embedFn embed.Func,
	id, content, meta string,
) error {
	if store == nil {
		return fmt.Errorf("vecutil: store is nil")
	}
	if embedFn == nil {
		return fmt.Errorf("vecutil: embed func is nil")
	}
	vec, err := embedFn(ctx, content)
	if err != nil {
		return err
	}
	_, err = store.AddDocuments(ctx, []vector.Document{{
		ID:        id,
		Content:   content,
		Metadata:  meta,
		Embedding: vec,
	}})
	return err
}

// MatchText embeds a free-form query and runs a similarity search against the
// store, returning up to k matches.
func MatchText(
	ctx context.Context,
	store vector.Store,
	embedFn embed.Func,
	query string,
	k int,
) ([]vector.Match, error) {
	if store == nil {
		return nil, fmt.Errorf("vecutil: store is nil")
	}
	if embedFn == nil {
		return nil, fmt.Errorf("vecutil: embed func is nil")
	}
	vec, err := embedFn(ctx, query)
	if err != nil {
		return nil, err
	}
	return store.SimilaritySearch(ctx, vec, k)
}
