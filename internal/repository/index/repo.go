// Package index is the vector index client: approximate top-k similarity
// search over the per-kind FT indexes, yielding document identifiers.
package index

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/mini-lawyer/lawdex/internal/db"
	"github.com/mini-lawyer/lawdex/internal/domain"
)

// store is the consumer interface for KNN search (ISP).
type store interface {
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
}

// Repo implements the retrieval usecase Index contract.
type Repo struct {
	store          store
	lawsIndex      string
	judgmentsIndex string
	logger         *zap.Logger
}

// New creates a vector index client. Index names correspond to the per-kind
// FT indexes maintained by the ingestion pipeline.
func New(s store, lawsIndex, judgmentsIndex string, logger *zap.Logger) *Repo {
	return &Repo{
		store:          s,
		lawsIndex:      lawsIndex,
		judgmentsIndex: judgmentsIndex,
		logger:         logger,
	}
}

// Query returns up to topK candidates for the kind's index, ordered by
// descending similarity with ties broken by document ID so repeated calls with
// identical input rank identically. Hits missing the identifier metadata field
// are dropped.
func (r *Repo) Query(
	ctx context.Context, kind domain.Kind, vector []float32, topK int,
) ([]domain.Candidate, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidKind, kind)
	}
	if topK <= 0 {
		return nil, fmt.Errorf("topK must be positive, got %d", topK)
	}

	indexName := r.lawsIndex
	if kind == domain.KindJudgment {
		indexName = r.judgmentsIndex
	}

	result, err := r.store.SearchKNN(ctx, &db.KNNQuery{
		IndexName:    indexName,
		Vector:       vector,
		K:            topK,
		ReturnFields: []string{kind.IDField()},
	})
	if err != nil {
		return nil, fmt.Errorf("search knn %s: %w: %w", indexName, domain.ErrIndexUnavailable, err)
	}

	candidates := make([]domain.Candidate, 0, len(result.Entries))
	for _, entry := range result.Entries {
		id := entry.Fields[kind.IDField()]
		if id == "" {
			r.logger.Warn("Index hit missing identifier metadata",
				zap.String("index", indexName),
				zap.String("key", entry.Key),
			)
			continue
		}
		candidates = append(candidates, domain.Candidate{DocID: id, Score: entry.Score})
	}

	// The index already ranks by similarity; re-sort stably so equal scores
	// come back in a deterministic order.
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		return candidates[i].DocID < candidates[j].DocID
	})

	return candidates, nil
}
