// Package bruteforce provides an exact vector index that answers kNN queries
// by scanning all vectors. It supports cosine similarity and Euclidean
// distance scoring and a compact binary format for persistence.
package bruteforce
