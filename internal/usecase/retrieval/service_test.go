package retrieval

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/mini-lawyer/lawdex/internal/domain"
)

type mockEmbedder struct {
	mu     sync.Mutex
	calls  int
	result domain.EmbeddingResult
	err    error
}

func (m *mockEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	return m.result, m.err
}

type mockIndex struct {
	mu         sync.Mutex
	calls      int
	lastKind   domain.Kind
	lastTopK   int
	candidates []domain.Candidate
	err        error
}

func (m *mockIndex) Query(
	_ context.Context, kind domain.Kind, _ []float32, topK int,
) ([]domain.Candidate, error) {
	m.mu.Lock()
	m.calls++
	m.lastKind = kind
	m.lastTopK = topK
	m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return m.candidates, nil
}

type mockDocuments struct {
	mu      sync.Mutex
	calls   int
	docs    map[string]domain.LegalDocument
	missing map[string]bool
	err     error
}

func (m *mockDocuments) Get(
	_ context.Context, kind domain.Kind, id string,
) (domain.LegalDocument, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.err != nil {
		return domain.LegalDocument{}, m.err
	}
	if m.missing[id] {
		return domain.LegalDocument{}, fmt.Errorf("document %s/%s: %w", kind, id, domain.ErrDocumentNotFound)
	}
	doc, ok := m.docs[id]
	if !ok {
		return domain.LegalDocument{Kind: kind, ID: id, Name: "doc " + id}, nil
	}
	return doc, nil
}

type mockExplainer struct {
	mu       sync.Mutex
	calls    int
	explain  domain.Explanation
	err      error
	failDocs map[string]bool
}

func (m *mockExplainer) Explain(
	_ context.Context, _ string, doc domain.LegalDocument,
) (domain.Explanation, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.err != nil {
		return domain.Explanation{}, m.err
	}
	if m.failDocs[doc.ID] {
		return domain.Explanation{}, fmt.Errorf("%w: prose instead of JSON", domain.ErrExplanationParse)
	}
	return m.explain, nil
}

func newTestService(
	embedder *mockEmbedder, index *mockIndex, docs *mockDocuments, explainer *mockExplainer,
) *Service {
	return New(embedder, index, docs, explainer, Config{
		DefaultTopK:        5,
		MaxTopK:            20,
		ExplainConcurrency: 3,
	})
}

func defaultMocks() (*mockEmbedder, *mockIndex, *mockDocuments, *mockExplainer) {
	embedder := &mockEmbedder{result: domain.EmbeddingResult{Embedding: []float32{0.1, 0.2}}}
	index := &mockIndex{}
	docs := &mockDocuments{}
	explainer := &mockExplainer{explain: domain.Explanation{Advice: "ok", Score: 7}}
	return embedder, index, docs, explainer
}

func TestFindSuitable_OrderAndSkip(t *testing.T) {
	embedder, index, docs, explainer := defaultMocks()
	index.candidates = []domain.Candidate{
		{DocID: "101", Score: 0.92},
		{DocID: "102", Score: 0.88},
		{DocID: "103", Score: 0.81},
	}
	docs.missing = map[string]bool{"102": true}
	svc := newTestService(embedder, index, docs, explainer)

	results, err := svc.FindSuitable(context.Background(), "פיטורין בהריון", domain.KindLaw, 3)
	if err != nil {
		t.Fatalf("FindSuitable() error = %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("results = %d, want 2 (missing candidate skipped)", len(results))
	}

	wantIDs := []string{"101", "103"}
	for i, want := range wantIDs {
		if results[i].Document.ID != want {
			t.Errorf("results[%d].Document.ID = %q, want %q", i, results[i].Document.ID, want)
		}
		if results[i].Advice != "ok" || results[i].Score != 7 {
			t.Errorf("results[%d] = advice %q score %d, want ok/7", i, results[i].Advice, results[i].Score)
		}
		if results[i].Fallback {
			t.Errorf("results[%d].Fallback = true, want false", i)
		}
	}
	if results[0].Similarity != 0.92 || results[1].Similarity != 0.81 {
		t.Errorf("similarities = %v/%v, want 0.92/0.81", results[0].Similarity, results[1].Similarity)
	}
	if explainer.calls != 2 {
		t.Errorf("explainer calls = %d, want 2 (missing candidate never explained)", explainer.calls)
	}
}

func TestFindSuitable_PreservesSimilarityOrderUnderConcurrency(t *testing.T) {
	embedder, index, docs, explainer := defaultMocks()
	for i := 0; i < 10; i++ {
		index.candidates = append(index.candidates, domain.Candidate{
			DocID: fmt.Sprintf("%d", 200+i),
			Score: 1.0 - float64(i)*0.05,
		})
	}
	svc := newTestService(embedder, index, docs, explainer)

	results, err := svc.FindSuitable(context.Background(), "scenario", domain.KindJudgment, 10)
	if err != nil {
		t.Fatalf("FindSuitable() error = %v", err)
	}
	if len(results) != 10 {
		t.Fatalf("results = %d, want 10", len(results))
	}
	for i, r := range results {
		want := fmt.Sprintf("%d", 200+i)
		if r.Document.ID != want {
			t.Errorf("results[%d].Document.ID = %q, want %q (index order must hold)", i, r.Document.ID, want)
		}
	}
}

func TestFindSuitable_ExplainFailureFallsBack(t *testing.T) {
	embedder, index, docs, explainer := defaultMocks()
	index.candidates = []domain.Candidate{
		{DocID: "301", Score: 0.9},
		{DocID: "302", Score: 0.8},
	}
	explainer.failDocs = map[string]bool{"302": true}
	svc := newTestService(embedder, index, docs, explainer)

	results, err := svc.FindSuitable(context.Background(), "scenario", domain.KindLaw, 2)
	if err != nil {
		t.Fatalf("FindSuitable() error = %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("results = %d, want 2 (fallback substitutes, never drops)", len(results))
	}
	if results[0].Fallback {
		t.Errorf("results[0].Fallback = true, want false")
	}
	if !results[1].Fallback {
		t.Fatalf("results[1].Fallback = false, want true")
	}
	if results[1].Advice != domain.FallbackAdvice {
		t.Errorf("fallback advice = %q, want %q", results[1].Advice, domain.FallbackAdvice)
	}
	if got := results[1].ScoreLabel(); got != domain.FallbackScoreLabel {
		t.Errorf("fallback ScoreLabel() = %q, want %q", got, domain.FallbackScoreLabel)
	}
	if results[1].Similarity != 0.8 {
		t.Errorf("fallback keeps similarity, got %v want 0.8", results[1].Similarity)
	}
}

func TestFindSuitable_EmptyScenario(t *testing.T) {
	embedder, index, docs, explainer := defaultMocks()
	svc := newTestService(embedder, index, docs, explainer)

	for _, scenario := range []string{"", "   ", "\n\t"} {
		_, err := svc.FindSuitable(context.Background(), scenario, domain.KindLaw, 5)
		if !errors.Is(err, domain.ErrInvalidScenario) {
			t.Errorf("FindSuitable(%q) error = %v, want ErrInvalidScenario", scenario, err)
		}
	}
	if embedder.calls != 0 || index.calls != 0 {
		t.Errorf("empty scenario must not touch the network: embed=%d index=%d", embedder.calls, index.calls)
	}
}

func TestFindSuitable_InvalidKind(t *testing.T) {
	embedder, index, docs, explainer := defaultMocks()
	svc := newTestService(embedder, index, docs, explainer)

	_, err := svc.FindSuitable(context.Background(), "scenario", domain.Kind("contract"), 5)
	if !errors.Is(err, domain.ErrInvalidKind) {
		t.Fatalf("FindSuitable() error = %v, want ErrInvalidKind", err)
	}
	if embedder.calls != 0 {
		t.Errorf("invalid kind must not embed, calls = %d", embedder.calls)
	}
}

func TestFindSuitable_TopKDefaultsAndCap(t *testing.T) {
	tests := []struct {
		name     string
		topK     int
		wantTopK int
	}{
		{"zero uses default", 0, 5},
		{"negative uses default", -3, 5},
		{"explicit passes through", 8, 8},
		{"above max is capped", 100, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			embedder, index, docs, explainer := defaultMocks()
			svc := newTestService(embedder, index, docs, explainer)

			if _, err := svc.FindSuitable(context.Background(), "scenario", domain.KindLaw, tt.topK); err != nil {
				t.Fatalf("FindSuitable() error = %v", err)
			}
			if index.lastTopK != tt.wantTopK {
				t.Errorf("index topK = %d, want %d", index.lastTopK, tt.wantTopK)
			}
		})
	}
}

func TestFindSuitable_EmbedErrorPropagates(t *testing.T) {
	embedder, index, docs, explainer := defaultMocks()
	embedder.err = fmt.Errorf("%w: upstream 500", domain.ErrEmbeddingProviderError)
	svc := newTestService(embedder, index, docs, explainer)

	_, err := svc.FindSuitable(context.Background(), "scenario", domain.KindLaw, 5)
	if !errors.Is(err, domain.ErrEmbeddingProviderError) {
		t.Fatalf("FindSuitable() error = %v, want ErrEmbeddingProviderError", err)
	}
	if index.calls != 0 {
		t.Errorf("index must not be queried after embed failure, calls = %d", index.calls)
	}
}

func TestFindSuitable_IndexErrorPropagates(t *testing.T) {
	embedder, index, docs, explainer := defaultMocks()
	index.err = fmt.Errorf("%w: connection refused", domain.ErrIndexUnavailable)
	svc := newTestService(embedder, index, docs, explainer)

	_, err := svc.FindSuitable(context.Background(), "scenario", domain.KindJudgment, 5)
	if !errors.Is(err, domain.ErrIndexUnavailable) {
		t.Fatalf("FindSuitable() error = %v, want ErrIndexUnavailable", err)
	}
	if docs.calls != 0 {
		t.Errorf("documents must not be read after index failure, calls = %d", docs.calls)
	}
}

func TestFindSuitable_NoCandidates(t *testing.T) {
	embedder, index, docs, explainer := defaultMocks()
	svc := newTestService(embedder, index, docs, explainer)

	results, err := svc.FindSuitable(context.Background(), "scenario", domain.KindLaw, 5)
	if err != nil {
		t.Fatalf("FindSuitable() error = %v", err)
	}
	if results == nil || len(results) != 0 {
		t.Fatalf("results = %v, want empty non-nil slice", results)
	}
	if explainer.calls != 0 {
		t.Errorf("no candidates means no explanations, calls = %d", explainer.calls)
	}
}

func TestFindSuitable_HydrationHardErrorFails(t *testing.T) {
	embedder, index, docs, explainer := defaultMocks()
	index.candidates = []domain.Candidate{{DocID: "401", Score: 0.9}}
	docs.err = errors.New("dial tcp: connection refused")
	svc := newTestService(embedder, index, docs, explainer)

	_, err := svc.FindSuitable(context.Background(), "scenario", domain.KindLaw, 1)
	if err == nil {
		t.Fatal("FindSuitable() error = nil, want storage error")
	}
	if errors.Is(err, domain.ErrDocumentNotFound) {
		t.Fatalf("storage outage must not be treated as a missing document: %v", err)
	}
}

func TestFindSuitable_CancelledContext(t *testing.T) {
	embedder, index, docs, explainer := defaultMocks()
	index.candidates = []domain.Candidate{
		{DocID: "501", Score: 0.9},
		{DocID: "502", Score: 0.8},
	}
	svc := newTestService(embedder, index, docs, explainer)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.FindSuitable(ctx, "scenario", domain.KindLaw, 2)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("FindSuitable() error = %v, want context.Canceled", err)
	}
}
