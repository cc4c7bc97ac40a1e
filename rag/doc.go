// Package rag implements retrieval-augmented generation: queries are
// embedded, the closest stored documents are retrieved, and a language model
// answers grounded in those contexts.
package rag
