// Package dataset loads the movie catalog from CSV and renders movies as
// documents for embedding and retrieval.
package dataset
