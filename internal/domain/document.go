package domain

import "fmt"

// KeyPrefix namespaces every lawdex key in the store.
const KeyPrefix = "lawdex:"

// Kind selects which corpus a retrieval runs against. Laws and judgments live in
// separate index namespaces and store collections with distinct identifier spaces.
type Kind string

const (
	// KindLaw targets the laws corpus, identified by IsraelLawID.
	KindLaw Kind = "law"
	// KindJudgment targets the judgments corpus, identified by CaseNumber.
	KindJudgment Kind = "judgment"
)

// ParseKind validates a kind string from the outside world.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindLaw, KindJudgment:
		return Kind(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidKind, s)
	}
}

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	return k == KindLaw || k == KindJudgment
}

// IDField returns the metadata field carrying the document identifier in the
// vector index for this kind.
func (k Kind) IDField() string {
	if k == KindJudgment {
		return "CaseNumber"
	}
	return "IsraelLawID"
}

// Collection returns the store collection name for this kind.
func (k Kind) Collection() string {
	if k == KindJudgment {
		return "judgments"
	}
	return "laws"
}

// LegalDocument is a hydrated law or judgment record. The retrieval core only
// reads Name and Description; everything else rides along in Meta for display.
type LegalDocument struct {
	Kind        Kind
	ID          string
	Name        string
	Description string
	Meta        map[string]any
}

// HasDescription reports whether a pre-computed summary is present. Newly
// ingested documents may not have one yet.
func (d LegalDocument) HasDescription() bool {
	return d.Description != ""
}
