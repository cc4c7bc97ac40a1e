package cache

import (
	"context"
	"crypto/sha256"
	"fmt"
	"sync"

	"github.com/movievec/movievec/vector"
)

// Defaults shared by the cache backends.
const (
	// DefaultThreshold is the cosine similarity above which a cached answer
	// counts as a semantic hit.
	DefaultThreshold = 0.95
	// DefaultWindow bounds how many recent entries a semantic lookup scans.
	DefaultWindow = 256
)

// key derives the exact-match cache key for a question.
func key(question string) string {
	return fmt.Sprintf("movievec:cache:q:%x", sha256.Sum256([]byte(question)))
}

type entry struct {
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	Embedding []float32 `json:"embedding"`
}

// bestMatch scans entries for the highest cosine similarity to the query
// embedding, returning ok when it clears the threshold.
func bestMatch(entries []entry, embedding []float32, threshold float64) (string, bool) {
	bestScore := threshold
	var answer string
	var found bool
	for _, e := range entries {
		sim, err := vector.CosineSimilarity(embedding, e.Embedding)
		if err != nil {
			continue
		}
		if sim >= bestScore {
			bestScore = sim
			answer = e.Answer
			found = true
		}
	}
	return answer, found
}

// Memory is an in-process answer cache: exact matches by question hash,
// semantic matches by cosine similarity over a bounded window of recent
// entries.
type Memory struct {
	threshold float64
	window    int

	mu      sync.Mutex
	exact   map[string]string
	entries []entry
}

// NewMemory creates an in-memory cache. Non-positive arguments select the
// package defaults.
func NewMemory(threshold float64, window int) *Memory {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	if window <= 0 {
		window = DefaultWindow
	}
	return &Memory{
		threshold: threshold,
		window:    window,
		exact:     make(map[string]string),
	}
}

// Get looks up an answer, first by exact question, then semantically.
func (m *Memory) Get(_ context.Context, question string, embedding []float32) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if answer, ok := m.exact[key(question)]; ok {
		return answer, true, nil
	}
	if len(embedding) == 0 {
		return "", false, nil
	}
	answer, ok := bestMatch(m.entries, embedding, m.threshold)
	return answer, ok, nil
}

// Put stores an answer for both exact and semantic lookups.
func (m *Memory) Put(_ context.Context, question, answer string, embedding []float32) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.exact[key(question)] = answer
	m.entries = append(m.entries, entry{Question: question, Answer: answer, Embedding: embedding})
	if len(m.entries) > m.window {
		drop := m.entries[0]
		delete(m.exact, key(drop.Question))
		m.entries = m.entries[1:]
	}
	return nil
}
