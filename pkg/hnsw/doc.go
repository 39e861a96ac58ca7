// Package hnsw implements an in-memory Hierarchical Navigable Small
// World graph for approximate nearest-neighbor search over
// high-dimensional float vectors.
//
// Vectors are stored in one of three quantization modes (F32, Q8,
// BIN); distance is cosine distance throughout an index, compared in
// float32 with ties broken by lower id. The graph supports a plain
// locked Insert, a lock-free PrepareInsert/TryCommitInsert optimistic
// path for concurrent writers, live deletion with neighbor repair, a
// structural ValidateGraph, and a recall self-test against a brute-force
// scan.
//
// # Concurrency
//
// Readers acquire a slot from a fixed-size table and never block
// writers; a single write mutex serializes structural mutation.
// Tombstoned node payloads are reclaimed only once every reader slot's
// recorded epoch has advanced past the tombstone's epoch — see
// AcquireReadSlot and the design notes in concurrency.go.
//
// # Quick start
//
//	idx := hnsw.NewIndex(128, hnsw.QuantNone)
//	n, err := idx.Insert(vector, 1, myPayload, hnsw.DefaultEfConstruction)
//	results, err := idx.Search(query, 10, hnsw.DefaultEfSearch)
package hnsw
