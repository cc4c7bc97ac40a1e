// Package vector defines the document model and vector-store API used across
// this project. It includes:
//   - Document/Match model and Store interface
//   - SQLiteStore: durable storage with pluggable kNN index
//   - ChromemStore: chromem-go backed embedded vector database
//   - Schema helpers for the docs table
//   - Embedding encoding (BLOB) and distance functions
package vector
