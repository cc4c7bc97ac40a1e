package embed

import (
	"context"
	"time"

	"github.com/pkg/errors"
	langchainembeddings "github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"
)

// Default settings for the OpenAI-compatible embedder.
const (
	DefaultEmbeddingModel = "text-embedding-3-small"
	DefaultBatchSize      = 100
	defaultMaxRetries     = 3
	initialRetryDelay     = time.Second
	maxRetryDelay         = 30 * time.Second
)

// knownDimensions maps embedding model names to their vector sizes.
var knownDimensions = map[string]int{
	"text-embedding-3-small": 1536,
	"text-embedding-3-large": 3072,
	"text-embedding-ada-002": 1536,
}

// OpenAIConfig configures the OpenAI-compatible embedder.
type OpenAIConfig struct {
	// APIKey authenticates against the embedding endpoint.
	APIKey string
	// BaseURL points at an OpenAI-compatible server; empty selects the
	// official API.
	BaseURL string
	// Model is the embedding model name; empty selects
	// DefaultEmbeddingModel.
	Model string
	// BatchSize caps how many texts go into one API call.
	BatchSize int
	// MaxRetries bounds retry attempts per batch.
	MaxRetries int
}

// OpenAI embeds text through any OpenAI-compatible embeddings endpoint.
type OpenAI struct {
	embedder   *langchainembeddings.EmbedderImpl
	model      string
	dims       int
	batchSize  int
	maxRetries int
}

// NewOpenAI creates an embedder for an OpenAI-compatible API.
func NewOpenAI(cfg OpenAIConfig) (*OpenAI, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("embed: OpenAI API key is required")
	}
	model := cfg.Model
	if model == "" {
		model = DefaultEmbeddingModel
	}
	opts := []openai.Option{
		openai.WithToken(cfg.APIKey),
		openai.WithEmbeddingModel(model),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}
	llm, err := openai.New(opts...)
	if err != nil {
		return nil, errors.Wrap(err, "embed: create OpenAI client")
	}
	embedder, err := langchainembeddings.NewEmbedder(llm)
	if err != nil {
		return nil, errors.Wrap(err, "embed: create embedder")
	}
	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}
	return &OpenAI{
		embedder:   embedder,
		model:      model,
		dims:       knownDimensions[model],
		batchSize:  batchSize,
		maxRetries: maxRetries,
	}, nil
}

// Embed returns the embedding for a single text.
func (o *OpenAI) Embed(ctx context.Context, text string) ([]float32, error) {
	vec, err := o.embedder.EmbedQuery(ctx, text)
	if err != nil {
		return nil, errors.Wrap(err, "embed: embed query")
	}
	o.observe(vec)
	return vec, nil
}

// EmbedBatch embeds texts in API-sized batches with exponential backoff on
// transient failures.
func (o *OpenAI) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += o.batchSize {
		end := start + o.batchSize
		if end > len(texts) {
			end = len(texts)
		}
		vecs, err := o.embedWithRetry(ctx, texts[start:end])
		if err != nil {
			return nil, errors.Wrapf(err, "embed: batch %d-%d", start, end)
		}
		out = append(out, vecs...)
	}
	if len(out) > 0 {
		o.observe(out[0])
	}
	return out, nil
}

func (o *OpenAI) embedWithRetry(ctx context.Context, texts []string) ([][]float32, error) {
	delay := initialRetryDelay
	var lastErr error
	for attempt := 0; attempt < o.maxRetries; attempt++ {
		vecs, err := o.embedder.EmbedDocuments(ctx, texts)
		if err == nil {
			return vecs, nil
		}
		lastErr = err
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
		if delay > maxRetryDelay {
			delay = maxRetryDelay
		}
	}
	return nil, lastErr
}

// Model names the configured embedding model.
func (o *OpenAI) Model() string { return o.model }

// Dimensions reports the embedding dimension. For models outside the known
// set it is 0 until the first successful call.
func (o *OpenAI) Dimensions() int { return o.dims }

func (o *OpenAI) observe(vec []float32) {
	if o.dims == 0 && len(vec) > 0 {
		o.dims = len(vec)
	}
}

// Ensure OpenAI satisfies the Embedder interface.
var _ Embedder = (*OpenAI)(nil)
