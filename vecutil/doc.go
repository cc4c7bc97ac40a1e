// Package vecutil provides high-level helpers over the vector store API:
// embed-and-upsert, text queries, and 2D projection of embeddings for
// plotting.
package vecutil
