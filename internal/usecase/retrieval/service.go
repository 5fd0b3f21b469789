// Package retrieval orchestrates the scenario-to-results pipeline: encode the
// scenario, query the vector index, hydrate the matching documents, and attach
// an LLM relevance explanation to each one.
package retrieval

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mini-lawyer/lawdex/internal/domain"
	"github.com/mini-lawyer/lawdex/internal/logger"
	"github.com/mini-lawyer/lawdex/internal/metrics"
)

// Service runs scenario-based retrieval over laws and judgments.
type Service struct {
	embedder    Embedder
	index       Index
	documents   Documents
	explainer   Explainer
	defaultTopK int
	maxTopK     int
	concurrency int
}

// Config holds the retrieval tuning knobs.
type Config struct {
	DefaultTopK        int
	MaxTopK            int
	ExplainConcurrency int
}

// New creates a retrieval service.
func New(embedder Embedder, index Index, documents Documents, explainer Explainer, cfg Config) *Service {
	if cfg.DefaultTopK <= 0 {
		cfg.DefaultTopK = 5
	}
	if cfg.MaxTopK <= 0 {
		cfg.MaxTopK = 20
	}
	if cfg.ExplainConcurrency <= 0 {
		cfg.ExplainConcurrency = 5
	}
	return &Service{
		embedder:    embedder,
		index:       index,
		documents:   documents,
		explainer:   explainer,
		defaultTopK: cfg.DefaultTopK,
		maxTopK:     cfg.MaxTopK,
		concurrency: cfg.ExplainConcurrency,
	}
}

// FindSuitable returns up to topK documents of the given kind relevant to the
// scenario, each with an LLM-generated explanation and 0-10 score. Results
// keep the similarity order of the vector index; they are never re-ranked by
// the explanation score. A candidate whose document is missing from storage is
// skipped, so fewer than topK results may come back. An explanation failure
// for one candidate degrades that result to a fallback instead of failing the
// whole request.
func (s *Service) FindSuitable(
	ctx context.Context, scenario string, kind domain.Kind, topK int,
) ([]domain.ExplainedResult, error) {
	scenario = strings.TrimSpace(scenario)
	if scenario == "" {
		return nil, domain.ErrInvalidScenario
	}
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidKind, string(kind))
	}
	if topK <= 0 {
		topK = s.defaultTopK
	}
	if topK > s.maxTopK {
		topK = s.maxTopK
	}

	embResult, err := s.embedder.Embed(ctx, scenario)
	if err != nil {
		return nil, fmt.Errorf("encode scenario: %w", err)
	}

	candidates, err := s.index.Query(ctx, kind, embResult.Embedding, topK)
	if err != nil {
		return nil, fmt.Errorf("query %s index: %w", kind, err)
	}
	if len(candidates) == 0 {
		return []domain.ExplainedResult{}, nil
	}

	return s.explainCandidates(ctx, scenario, kind, candidates)
}

// explainCandidates hydrates and explains candidates concurrently. The slot
// slice is indexed by candidate position so concurrency cannot reorder the
// similarity ranking; nil slots mark skipped candidates.
func (s *Service) explainCandidates(
	ctx context.Context, scenario string, kind domain.Kind, candidates []domain.Candidate,
) ([]domain.ExplainedResult, error) {
	log := logger.FromContext(ctx)
	slots := make([]*domain.ExplainedResult, len(candidates))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for i, cand := range candidates {
		i, cand := i, cand
		g.Go(func() error {
			doc, err := s.documents.Get(gctx, kind, cand.DocID)
			if err != nil {
				if errors.Is(err, domain.ErrDocumentNotFound) {
					metrics.CandidatesSkippedTotal.WithLabelValues(string(kind)).Inc()
					log.Warn("Skipping candidate without a stored document",
						zap.String("kind", string(kind)),
						zap.String("doc_id", cand.DocID))
					return nil
				}
				return fmt.Errorf("hydrate %s %s: %w", kind, cand.DocID, err)
			}

			result := s.explainOne(gctx, scenario, doc, cand.Score)
			slots[i] = &result
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	results := make([]domain.ExplainedResult, 0, len(candidates))
	for _, slot := range slots {
		if slot != nil {
			results = append(results, *slot)
		}
	}
	return results, nil
}

// explainOne never fails: any explainer error degrades to the fallback result.
func (s *Service) explainOne(
	ctx context.Context, scenario string, doc domain.LegalDocument, similarity float64,
) domain.ExplainedResult {
	explanation, err := s.explainer.Explain(ctx, scenario, doc)
	if err != nil {
		metrics.ExplainFallbacksTotal.WithLabelValues(string(doc.Kind)).Inc()
		logger.FromContext(ctx).Warn("Falling back to default explanation",
			zap.String("kind", string(doc.Kind)),
			zap.String("doc_id", doc.ID),
			zap.Error(err))
		return domain.NewFallbackResult(doc, similarity)
	}
	return domain.NewExplainedResult(doc, explanation, similarity)
}
