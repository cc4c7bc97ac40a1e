package rag

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/tmc/langchaingo/llms"
)

// Defaults for the chat engine.
const (
	DefaultMaxTokens   = 1024
	DefaultTemperature = 0.2
	defaultMaxHistory  = 20 // messages, i.e. 10 exchanges
)

// Message is one turn of the conversation.
type Message struct {
	Role    string    `json:"role"` // "user" or "assistant"
	Content string    `json:"content"`
	Time    time.Time `json:"time"`
}

// Answer is the result of one RAG round trip.
type Answer struct {
	Text     string    `json:"text"`
	Contexts []Context `json:"contexts"`
	Cached   bool      `json:"cached"`
}

// AnswerCache stores previously generated answers keyed by question. The
// embedding allows semantic (not just exact) lookups.
type AnswerCache interface {
	Get(ctx context.Context, question string, embedding []float32) (string, bool, error)
	Put(ctx context.Context, question, answer string, embedding []float32) error
}

// Engine answers questions by retrieving contexts from the store and asking
// the configured language model. It keeps a bounded conversation history so
// follow-up questions stay coherent.
type Engine struct {
	llm       llms.Model
	retriever *Retriever
	cache     AnswerCache

	maxTokens   int
	temperature float64
	maxHistory  int
	streamFunc  func(ctx context.Context, chunk []byte) error

	mu      sync.Mutex
	history []Message
}

// EngineOption customizes an Engine.
type EngineOption func(*Engine)

// WithAnswerCache enables answer caching.
func WithAnswerCache(c AnswerCache) EngineOption {
	return func(e *Engine) { e.cache = c }
}

// WithMaxTokens caps the completion length.
func WithMaxTokens(n int) EngineOption {
	return func(e *Engine) { e.maxTokens = n }
}

// WithTemperature sets the sampling temperature.
func WithTemperature(t float64) EngineOption {
	return func(e *Engine) { e.temperature = t }
}

// WithStreamFunc streams completion chunks as they arrive.
func WithStreamFunc(fn func(ctx context.Context, chunk []byte) error) EngineOption {
	return func(e *Engine) { e.streamFunc = fn }
}

// NewEngine creates a chat engine over a language model and a retriever.
func NewEngine(llm llms.Model, retriever *Retriever, opts ...EngineOption) (*Engine, error) {
	if llm == nil {
		return nil, errors.New("rag: llm is nil")
	}
	if retriever == nil {
		return nil, errors.New("rag: retriever is nil")
	}
	e := &Engine{
		llm:         llm,
		retriever:   retriever,
		maxTokens:   DefaultMaxTokens,
		temperature: DefaultTemperature,
		maxHistory:  defaultMaxHistory,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Ask answers a question grounded in retrieved contexts.
func (e *Engine) Ask(ctx context.Context, question string) (*Answer, error) {
	if question == "" {
		return nil, errors.New("rag: question is empty")
	}

	emb, err := e.retriever.EmbedQuery(ctx, question)
	if err != nil {
		return nil, err
	}

	if e.cache != nil {
		if answer, ok, err := e.cache.Get(ctx, question, emb); err == nil && ok {
			e.remember(question, answer)
			return &Answer{Text: answer, Cached: true}, nil
		}
	}

	contexts, err := e.retriever.RetrieveEmbedding(ctx, emb)
	if err != nil {
		return nil, err
	}

	messages := e.messages(question, contexts)
	callOpts := []llms.CallOption{
		llms.WithMaxTokens(e.maxTokens),
		llms.WithTemperature(e.temperature),
	}
	if e.streamFunc != nil {
		callOpts = append(callOpts, llms.WithStreamingFunc(e.streamFunc))
	}
	response, err := e.llm.GenerateContent(ctx, messages, callOpts...)
	if err != nil {
		return nil, errors.Wrap(err, "rag: generate answer")
	}
	if len(response.Choices) == 0 {
		return nil, errors.New("rag: model returned no choices")
	}
	text := response.Choices[0].Content

	e.remember(question, text)
	if e.cache != nil {
		_ = e.cache.Put(ctx, question, text, emb)
	}
	return &Answer{Text: text, Contexts: contexts}, nil
}

// History returns a copy of the conversation so far.
func (e *Engine) History() []Message {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]Message(nil), e.history...)
}

// Reset discards the conversation history.
func (e *Engine) Reset() {
	e.mu.Lock()
	e.history = nil
	e.mu.Unlock()
}

// messages assembles system prompt, prior turns and the context-grounded
// question into the model input.
func (e *Engine) messages(question string, contexts []Context) []llms.MessageContent {
	e.mu.Lock()
	history := append([]Message(nil), e.history...)
	e.mu.Unlock()

	out := make([]llms.MessageContent, 0, len(history)+2)
	out = append(out, llms.TextParts(llms.ChatMessageTypeSystem, systemPrompt))
	for _, msg := range history {
		msgType := llms.ChatMessageTypeHuman
		if msg.Role == "assistant" {
			msgType = llms.ChatMessageTypeAI
		}
		out = append(out, llms.TextParts(msgType, msg.Content))
	}
	out = append(out, llms.TextParts(llms.ChatMessageTypeHuman, BuildPrompt(question, contexts)))
	return out
}

func (e *Engine) remember(question, answer string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	now := time.Now()
	e.history = append(e.history,
		Message{Role: "user", Content: question, Time: now},
		Message{Role: "assistant", Content: answer, Time: now},
	)
	if len(e.history) > e.maxHistory {
		e.history = e.history[len(e.history)-e.maxHistory:]
	}
}
