// Package embed produces sentence embeddings. It ships a client for
// OpenAI-compatible embedding APIs and a deterministic local embedder for
// offline use and tests.
package embed
