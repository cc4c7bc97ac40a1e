// Package cache caches generated answers by question. Lookups match exactly
// by question hash or semantically by cosine similarity between query
// embeddings. An in-memory backend serves single-process use and tests; the
// redis backend shares the cache across processes.
package cache
