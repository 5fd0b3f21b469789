package lawdex

import (
	"github.com/mini-lawyer/lawdex/internal/domain"
	healthuc "github.com/mini-lawyer/lawdex/internal/usecase/health"
)

// Kind selects which corpus a retrieval runs against.
type Kind string

const (
	// KindLaw searches the laws corpus.
	KindLaw Kind = "law"
	// KindJudgment searches the judgments corpus.
	KindJudgment Kind = "judgment"
)

// Document is a hydrated law or judgment record.
type Document struct {
	Kind        Kind
	ID          string
	Name        string
	Description string
	Meta        map[string]any
}

// Result is one retrieval hit with its relevance explanation.
// Similarity is the vector index score in [0,1]; results arrive in descending
// similarity order and are never re-ranked by the explanation score.
type Result struct {
	Document   Document
	Advice     string
	Score      int
	Similarity float64
	Fallback   bool
}

// ScoreLabel renders the score for display: "0".."10", or "N/A" on fallback.
func (r Result) ScoreLabel() string {
	return domain.ExplainedResult{Score: r.Score, Fallback: r.Fallback}.ScoreLabel()
}

// HealthReport aggregates component health check outcomes.
type HealthReport struct {
	Status string
	Checks map[string]string
}

func resultFromDomain(r domain.ExplainedResult) Result {
	return Result{
		Document: Document{
			Kind:        Kind(r.Document.Kind),
			ID:          r.Document.ID,
			Name:        r.Document.Name,
			Description: r.Document.Description,
			Meta:        r.Document.Meta,
		},
		Advice:     r.Advice,
		Score:      r.Score,
		Similarity: r.Similarity,
		Fallback:   r.Fallback,
	}
}

func reportFromDomain(r healthuc.Report) HealthReport {
	checks := make(map[string]string, len(r.Checks))
	for k, v := range r.Checks {
		checks[k] = string(v)
	}
	return HealthReport{Status: string(r.Status), Checks: checks}
}
