package embed

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocal_Deterministic(t *testing.T) {
	l := NewLocal(0)
	assert.Equal(t, DefaultLocalDimensions, l.Dimensions())

	a, err := l.Embed(context.Background(), "a thief steals secrets through dreams")
	require.NoError(t, err)
	b, err := l.Embed(context.Background(), "a thief steals secrets through dreams")
	require.NoError(t, err)
	assert.Equal(t, a, b)
	require.Len(t, a, DefaultLocalDimensions)
}

func TestLocal_Normalized(t *testing.T) {
	l := NewLocal(64)
	vec, err := l.Embed(context.Background(), "some text to embed")
	require.NoError(t, err)

	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	assert.InDelta(t, 1.0, math.Sqrt(sum), 1e-5)
}

func TestLocal_SimilarTextsCloser(t *testing.T) {
	l := NewLocal(0)
	ctx := context.Background()
	base, err := l.Embed(ctx, "a space crew fights an alien on their ship")
	require.NoError(t, err)
	near, err := l.Embed(ctx, "a crew fights an alien aboard their space ship")
	require.NoError(t, err)
	far, err := l.Embed(ctx, "two lovers meet in nineteenth century england")
	require.NoError(t, err)

	assert.Greater(t, dot(base, near), dot(base, far))
}

func TestLocal_EmptyText(t *testing.T) {
	l := NewLocal(16)
	vec, err := l.Embed(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, vec, 16)
	for _, v := range vec {
		assert.Zero(t, v)
	}
}

func TestLocal_EmbedBatch(t *testing.T) {
	l := NewLocal(32)
	texts := []string{"first", "second", "third"}
	vecs, err := l.EmbedBatch(context.Background(), texts)
	require.NoError(t, err)
	require.Len(t, vecs, 3)

	single, err := l.Embed(context.Background(), "second")
	require.NoError(t, err)
	assert.Equal(t, single, vecs[1])
}

func dot(a, b []float32) float64 {
	var s float64
	for i := range a {
		s += float64(a[i]) * float64(b[i])
	}
	return s
}
