// Package db defines the narrow store facade the repositories consume. A single
// Redis 8 instance backs all three concerns: the FT vector indexes, the JSON
// document collections, and the embedding cache keyspace.
package db

import (
	"context"
	"time"
)

// Store is the database facade combining all sub-interfaces. Consumers depend
// on the narrow sub-interfaces, never on Store itself.
type Store interface {
	Pinger
	JSONStore
	KVStore
	Searcher
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// JSONStore provides JSON document reads.
type JSONStore interface {
	JSONGet(ctx context.Context, key string, paths ...string) ([]byte, error)
}

// KVStore provides simple key-value operations.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Searcher provides KNN search over FT indexes.
type Searcher interface {
	SearchKNN(ctx context.Context, q *KNNQuery) (*SearchResult, error)
}
