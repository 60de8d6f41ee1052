// ABOUTME: Package store is the persistence layer for focuslearn
// ABOUTME: Wraps an in-memory SQLite engine with whole-file snapshot durability

// Package store holds the embedded database engine, the schema, the
// entity repositories and the journey fork engine.
//
// The engine keeps the whole database in memory and rewrites a single
// snapshot file after every successful write. There is no write-ahead
// log and no multi-statement transaction surface; callers that need
// atomicity across several writes cannot get it from this layer.
package store
