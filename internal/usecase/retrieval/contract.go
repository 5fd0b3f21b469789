package retrieval

import (
	"context"

	"github.com/mini-lawyer/lawdex/internal/domain"
)

// Embedder vectorizes scenario text into an embedding.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

// Index runs vector KNN queries against a per-kind index.
type Index interface {
	Query(ctx context.Context, kind domain.Kind, vector []float32, topK int) ([]domain.Candidate, error)
}

// Documents hydrates candidate identifiers into full legal documents.
type Documents interface {
	Get(ctx context.Context, kind domain.Kind, id string) (domain.LegalDocument, error)
}

// Explainer produces the per-document relevance advice and score.
type Explainer interface {
	Explain(ctx context.Context, scenario string, doc domain.LegalDocument) (domain.Explanation, error)
}
