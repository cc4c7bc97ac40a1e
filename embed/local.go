package embed

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
	"unicode"
)

// DefaultLocalDimensions is the vector size used by the local embedder.
const DefaultLocalDimensions = 256

// Local is a deterministic, offline embedder. It hashes word unigrams and
// bigrams into a fixed number of buckets and L2-normalizes the result, so
// equal texts always produce equal vectors and related texts share buckets.
// It is no substitute for a trained sentence encoder, but it keeps the whole
// pipeline runnable without network access.
type Local struct {
	dims int
}

// NewLocal creates a local embedder. A non-positive dims selects
// DefaultLocalDimensions.
func NewLocal(dims int) *Local {
	if dims <= 0 {
		dims = DefaultLocalDimensions
	}
	return &Local{dims: dims}
}

// Embed returns the hashed bag-of-words embedding of text.
func (l *Local) Embed(_ context.Context, text string) ([]float32, error) {
	vec := make([]float32, l.dims)
	tokens := tokenize(text)
	for i, tok := range tokens {
		vec[bucket(tok, l.dims)]++
		if i+1 < len(tokens) {
			vec[bucket(tok+" "+tokens[i+1], l.dims)]++
		}
	}
	normalize(vec)
	return vec, nil
}

// EmbedBatch embeds each text in order.
func (l *Local) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		vec, err := l.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		out[i] = vec
	}
	return out, nil
}

// Model names the local embedding scheme.
func (l *Local) Model() string { return "local-hash" }

// Dimensions reports the configured vector size.
func (l *Local) Dimensions() int { return l.dims }

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}

func bucket(token string, dims int) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(token))
	return int(h.Sum32() % uint32(dims))
}

func normalize(vec []float32) {
	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	if sum == 0 {
		return
	}
	norm := float32(math.Sqrt(sum))
	for i := range vec {
		vec[i] /= norm
	}
}

// Ensure Local satisfies the Embedder interface.
var _ Embedder = (*Local)(nil)
