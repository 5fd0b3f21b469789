// Package document hydrates candidate identifiers into full legal-document
// records stored as JSON, one collection per kind.
package document

import (
	"context"
	"errors"
	"fmt"

	"github.com/mini-lawyer/lawdex/internal/db"
	"github.com/mini-lawyer/lawdex/internal/domain"
)

// store is the consumer interface for document reads (ISP).
type store interface {
	JSONGet(ctx context.Context, key string, paths ...string) ([]byte, error)
}

// Repo implements the retrieval usecase Documents contract.
type Repo struct {
	store store
}

// New creates a document repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Get returns a document by kind and identifier. The core never writes;
// records are owned by the ingestion pipeline.
func (r *Repo) Get(ctx context.Context, kind domain.Kind, id string) (domain.LegalDocument, error) {
	if !kind.Valid() {
		return domain.LegalDocument{}, fmt.Errorf("%w: %q", domain.ErrInvalidKind, kind)
	}

	key := docKey(kind, id)
	raw, err := r.store.JSONGet(ctx, key, "$")
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domain.LegalDocument{}, domain.ErrDocumentNotFound
		}
		return domain.LegalDocument{}, fmt.Errorf("json.get %s: %w", key, err)
	}

	return parseJSONGetResult(kind, id, raw)
}

// docKey builds the store key: lawdex:doc:<collection>:<id>.
func docKey(kind domain.Kind, id string) string {
	return domain.KeyPrefix + "doc:" + kind.Collection() + ":" + id
}
