// Package engine opens SQLite databases through the pure-Go modernc.org/sqlite
// driver and registers the vec_l2 and vec_cosine scalar functions used by the
// vector catalog.
package engine
