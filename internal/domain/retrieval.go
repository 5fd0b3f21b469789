package domain

import "strconv"

// Candidate is a vector index hit before hydration: a document identifier with
// its similarity score, in [0,1].
type Candidate struct {
	DocID string
	Score float64
}

// Explanation score bounds enforced on LLM replies.
const (
	MinExplanationScore = 0
	MaxExplanationScore = 10
)

// FallbackAdvice is shown when no explanation could be obtained. User-facing
// text is Hebrew, like the rest of the application.
const FallbackAdvice = "לא ניתן לקבל הסבר בשלב זה."

// FallbackScoreLabel replaces the numeric score when the explainer failed.
const FallbackScoreLabel = "N/A"

// Explanation is the parsed LLM verdict on one (scenario, document) pair.
type Explanation struct {
	Advice string
	Score  int
}

// ExplainedResult is the unit the retrieval pipeline emits: a hydrated document,
// the explanation attached to it, and the index similarity that ranked it.
// Fallback marks results whose explainer call failed; their Score is meaningless.
type ExplainedResult struct {
	Document   LegalDocument
	Advice     string
	Score      int
	Similarity float64
	Fallback   bool
}

// NewExplainedResult builds a result from a successful explanation.
func NewExplainedResult(doc LegalDocument, ex Explanation, similarity float64) ExplainedResult {
	return ExplainedResult{
		Document:   doc,
		Advice:     ex.Advice,
		Score:      ex.Score,
		Similarity: similarity,
	}
}

// NewFallbackResult builds the neutral placeholder result substituted when the
// explainer fails. One bad explanation must not sink the rest of the batch.
func NewFallbackResult(doc LegalDocument, similarity float64) ExplainedResult {
	return ExplainedResult{
		Document:   doc,
		Advice:     FallbackAdvice,
		Similarity: similarity,
		Fallback:   true,
	}
}

// ScoreLabel renders the score for display: "0".."10", or "N/A" on fallback.
func (r ExplainedResult) ScoreLabel() string {
	if r.Fallback {
		return FallbackScoreLabel
	}
	return strconv.Itoa(r.Score)
}
