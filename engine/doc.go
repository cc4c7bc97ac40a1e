// Package engine opens SQLite databases and registers vector SQL functions.
package engine
