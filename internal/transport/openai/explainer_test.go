package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/mini-lawyer/lawdex/internal/domain"
)

func chatServer(t *testing.T, reply string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		body := fmt.Sprintf(`{
			"id": "chatcmpl-test",
			"object": "chat.completion",
			"model": "gpt-3.5-turbo",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": %q}, "finish_reason": "stop"}]
		}`, reply)
		_, _ = w.Write([]byte(body))
	}))
}

func testDoc() domain.LegalDocument {
	return domain.LegalDocument{
		Kind:        domain.KindLaw,
		ID:          "101",
		Name:        "חוק השכירות והשאילה",
		Description: "מסדיר יחסי שוכר ומשכיר.",
	}
}

func TestExplainer_Explain(t *testing.T) {
	server := chatServer(t, `{"advice": "החוק מסדיר את המקרה המתואר.", "score": 8}`)
	defer server.Close()

	e := NewExplainer(&ExplainerConfig{
		APIKey:      "test-key",
		BaseURL:     server.URL,
		Model:       "gpt-3.5-turbo",
		Temperature: 0.7,
		Logger:      zap.NewNop(),
	})

	ex, err := e.Explain(context.Background(), "שכרתי דירה והמשכיר מסרב לתקן ליקויים", testDoc())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ex.Score != 8 {
		t.Errorf("score = %d, want 8", ex.Score)
	}
	if ex.Advice == "" {
		t.Error("expected advice text")
	}
}

func TestExplainer_MalformedReply(t *testing.T) {
	server := chatServer(t, `כמובן! הנה התשובה: החוק רלוונטי מאוד.`)
	defer server.Close()

	e := NewExplainer(&ExplainerConfig{
		APIKey:  "test-key",
		BaseURL: server.URL,
		Model:   "gpt-3.5-turbo",
		Logger:  zap.NewNop(),
	})

	_, err := e.Explain(context.Background(), "סצנריו", testDoc())
	if !errors.Is(err, domain.ErrExplanationParse) {
		t.Fatalf("expected ErrExplanationParse, got %v", err)
	}
}

func TestParseExplanation(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    domain.Explanation
		wantErr bool
	}{
		{
			name: "plain object",
			raw:  `{"advice": "מתאים", "score": 7}`,
			want: domain.Explanation{Advice: "מתאים", Score: 7},
		},
		{
			name: "fenced object",
			raw:  "```json\n{\"advice\": \"מתאים\", \"score\": 10}\n```",
			want: domain.Explanation{Advice: "מתאים", Score: 10},
		},
		{
			name: "bare fence",
			raw:  "```\n{\"advice\": \"לא רלוונטי\", \"score\": 0}\n```",
			want: domain.Explanation{Advice: "לא רלוונטי", Score: 0},
		},
		{
			name: "surrounding whitespace",
			raw:  "\n  {\"advice\": \"ok\", \"score\": 3}  \n",
			want: domain.Explanation{Advice: "ok", Score: 3},
		},
		{name: "prose before object", raw: `הנה: {"advice": "x", "score": 5}`, wantErr: true},
		{name: "prose after object", raw: `{"advice": "x", "score": 5} בהצלחה!`, wantErr: true},
		{name: "missing advice", raw: `{"score": 5}`, wantErr: true},
		{name: "missing score", raw: `{"advice": "x"}`, wantErr: true},
		{name: "empty advice", raw: `{"advice": "", "score": 5}`, wantErr: true},
		{name: "wrong field names", raw: `{"explanation": "x", "rating": 5}`, wantErr: true},
		{name: "string score", raw: `{"advice": "x", "score": "8"}`, wantErr: true},
		{name: "score too high", raw: `{"advice": "x", "score": 11}`, wantErr: true},
		{name: "score negative", raw: `{"advice": "x", "score": -1}`, wantErr: true},
		{name: "empty reply", raw: "", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := parseExplanation(tc.raw)
			if tc.wantErr {
				if !errors.Is(err, domain.ErrExplanationParse) {
					t.Fatalf("expected ErrExplanationParse, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("got %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestBuildPrompt_Law(t *testing.T) {
	doc := testDoc()
	p := buildPrompt("נכנסתי לדירה שכורה", doc)

	if !strings.Contains(p, doc.Name) {
		t.Error("prompt missing document name")
	}
	if !strings.Contains(p, doc.Description) {
		t.Error("prompt missing description")
	}
	if !strings.Contains(p, "נכנסתי לדירה שכורה") {
		t.Error("prompt missing scenario")
	}
	if !strings.Contains(p, "JSON") {
		t.Error("prompt missing format instruction")
	}
}

func TestBuildPrompt_NoDescriptionPlaceholder(t *testing.T) {
	law := domain.LegalDocument{Kind: domain.KindLaw, ID: "7", Name: "חוק"}
	if p := buildPrompt("s", law); !strings.Contains(p, noLawDescription) {
		t.Error("law prompt missing placeholder description")
	}

	j := domain.LegalDocument{Kind: domain.KindJudgment, ID: "55/21", Name: "פס\"ד"}
	if p := buildPrompt("s", j); !strings.Contains(p, noJudgmentDescription) {
		t.Error("judgment prompt missing placeholder description")
	}
}

func TestBuildPrompt_KindSelectsTemplate(t *testing.T) {
	law := buildPrompt("s", domain.LegalDocument{Kind: domain.KindLaw, Name: "x"})
	judgment := buildPrompt("s", domain.LegalDocument{Kind: domain.KindJudgment, Name: "x"})

	if !strings.Contains(law, "החוק") {
		t.Error("law prompt should speak about a law")
	}
	if !strings.Contains(judgment, "פסק הדין") {
		t.Error("judgment prompt should speak about a judgment")
	}
}
