package domain

import "errors"

var (
	// ErrInvalidScenario signals an empty or whitespace-only scenario.
	ErrInvalidScenario = errors.New("invalid scenario")
	// ErrInvalidKind signals an unknown document kind.
	ErrInvalidKind = errors.New("invalid document kind")
	// ErrEmbeddingProviderError signals an embedding backend failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrIndexUnavailable signals a vector index service failure.
	ErrIndexUnavailable = errors.New("vector index unavailable")
	// ErrDocumentNotFound signals a missing document.
	ErrDocumentNotFound = errors.New("document not found")
	// ErrExplanationParse signals an LLM reply that violates the output contract.
	ErrExplanationParse = errors.New("explanation parse failure")
)
