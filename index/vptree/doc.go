// Package vptree provides a vantage-point tree index for cosine kNN. The tree
// is built and pruned over angular distance, a proper metric, so queries
// return the same ranking as the brute-force scan while skipping a large
// share of the distance computations on clustered data.
package vptree
