// Package index defines a minimal abstraction for vector indexes that can be
// built from embeddings, queried for kNN, and serialized for persistence.
// Implementations in this module include an exact brute-force scan and a
// vantage-point tree with pruned search.
package index
