// Package engine opens SQLite databases through the pure-Go
// modernc.org/sqlite driver and registers the vec_cosine and vec_l2 scalar
// functions over embedding BLOBs.
package engine
