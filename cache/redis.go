package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// recentKey is the list of recent entries scanned for semantic matches.
const recentKey = "movievec:cache:recent"

// DefaultTTL is how long exact-match answers stay cached.
const DefaultTTL = time.Hour

// Redis is a shared answer cache backed by a redis server. Exact matches use
// hashed keys with a TTL; semantic matches scan a capped list of recent
// entries.
type Redis struct {
	client    *redis.Client
	ttl       time.Duration
	threshold float64
	window    int
}

// RedisOption customizes a Redis cache.
type RedisOption func(*Redis)

// WithTTL overrides the exact-match TTL.
func WithTTL(ttl time.Duration) RedisOption {
	return func(r *Redis) { r.ttl = ttl }
}

// WithThreshold overrides the semantic-hit similarity threshold.
func WithThreshold(threshold float64) RedisOption {
	return func(r *Redis) { r.threshold = threshold }
}

// WithWindow overrides how many recent entries a semantic lookup scans.
func WithWindow(window int) RedisOption {
	return func(r *Redis) { r.window = window }
}

// NewRedis creates a redis-backed cache for the given address.
func NewRedis(addr string, opts ...RedisOption) *Redis {
	r := &Redis{
		client:    redis.NewClient(&redis.Options{Addr: addr}),
		ttl:       DefaultTTL,
		threshold: DefaultThreshold,
		window:    DefaultWindow,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Get looks up an answer, first by exact question key, then semantically over
// the recent-entry window.
func (r *Redis) Get(ctx context.Context, question string, embedding []float32) (string, bool, error) {
	answer, err := r.client.Get(ctx, key(question)).Result()
	if err == nil {
		return answer, true, nil
	}
	if err != redis.Nil {
		return "", false, err
	}
	if len(embedding) == 0 {
		return "", false, nil
	}
	raw, err := r.client.LRange(ctx, recentKey, 0, int64(r.window)-1).Result()
	if err != nil {
		return "", false, err
	}
	entries := make([]entry, 0, len(raw))
	for _, item := range raw {
		var e entry
		if json.Unmarshal([]byte(item), &e) == nil {
			entries = append(entries, e)
		}
	}
	answer, ok := bestMatch(entries, embedding, r.threshold)
	return answer, ok, nil
}

// Put stores an answer under the exact key and pushes it onto the
// recent-entry window.
func (r *Redis) Put(ctx context.Context, question, answer string, embedding []float32) error {
	if err := r.client.Set(ctx, key(question), answer, r.ttl).Err(); err != nil {
		return err
	}
	raw, err := json.Marshal(entry{Question: question, Answer: answer, Embedding: embedding})
	if err != nil {
		return err
	}
	pipe := r.client.TxPipeline()
	pipe.LPush(ctx, recentKey, raw)
	pipe.LTrim(ctx, recentKey, 0, int64(r.window)-1)
	_, err = pipe.Exec(ctx)
	return err
}

// Close releases the underlying redis connection.
func (r *Redis) Close() error { return r.client.Close() }
