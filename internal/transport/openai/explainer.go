package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/mini-lawyer/lawdex/internal/domain"
	"github.com/mini-lawyer/lawdex/internal/metrics"
)

// Explainer asks a chat model why a document is relevant to a scenario and
// parses its strictly-formatted reply.
type Explainer struct {
	client      *openai.Client
	model       string
	temperature float32
	timeout     time.Duration
	logger      *zap.Logger
}

// ExplainerConfig holds the LLM settings.
type ExplainerConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float32
	Timeout     time.Duration
	Logger      *zap.Logger
}

// NewExplainer creates an OpenAI-compatible chat explainer.
func NewExplainer(cfg *ExplainerConfig) *Explainer {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &Explainer{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		timeout:     cfg.Timeout,
		logger:      cfg.Logger,
	}
}

// Explain sends the kind-specific prompt and parses the advice/score reply.
// A reply that is not exactly the contract object yields ErrExplanationParse;
// the caller decides the fallback policy.
func (e *Explainer) Explain(
	ctx context.Context, scenario string, doc domain.LegalDocument,
) (domain.Explanation, error) {
	prompt := buildPrompt(scenario, doc)

	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	start := time.Now()

	resp, err := e.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: e.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: e.temperature,
	})

	duration := time.Since(start)

	if err != nil {
		metrics.ExplainRequestsTotal.WithLabelValues(e.model, "error").Inc()
		return domain.Explanation{}, parseAPIError(err, domain.ErrExplanationParse)
	}

	metrics.ExplainRequestsTotal.WithLabelValues(e.model, "success").Inc()
	metrics.ExplainRequestDuration.WithLabelValues(e.model).Observe(duration.Seconds())

	if len(resp.Choices) == 0 {
		metrics.ExplainParseFailuresTotal.WithLabelValues(string(doc.Kind)).Inc()
		return domain.Explanation{}, fmt.Errorf("empty chat response: %w", domain.ErrExplanationParse)
	}

	ex, err := parseExplanation(resp.Choices[0].Message.Content)
	if err != nil {
		metrics.ExplainParseFailuresTotal.WithLabelValues(string(doc.Kind)).Inc()
		e.logger.Warn("Explanation reply violated output contract",
			zap.String("kind", string(doc.Kind)),
			zap.String("doc_id", doc.ID),
			zap.Error(err),
		)
		return domain.Explanation{}, err
	}

	return ex, nil
}

// HealthCheck verifies API availability via ListModels (free endpoint).
func (e *Explainer) HealthCheck(ctx context.Context) error {
	if _, err := e.client.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}

// parseExplanation parses the raw chat reply into an Explanation. The contract
// is a single JSON object with exactly an "advice" string and an integer
// "score" in [0,10]. A markdown code fence around the object is tolerated;
// anything else is a parse failure, never a guessed value.
func parseExplanation(raw string) (domain.Explanation, error) {
	s := strings.TrimSpace(raw)
	s = stripCodeFence(s)

	var parsed struct {
		Advice *string `json:"advice"`
		Score  *int    `json:"score"`
	}
	dec := json.NewDecoder(strings.NewReader(s))
	if err := dec.Decode(&parsed); err != nil {
		return domain.Explanation{}, fmt.Errorf("%w: %v", domain.ErrExplanationParse, err)
	}
	// Anything after the object means the model added prose.
	if dec.More() {
		return domain.Explanation{}, fmt.Errorf("%w: trailing content after object", domain.ErrExplanationParse)
	}
	if parsed.Advice == nil || *parsed.Advice == "" {
		return domain.Explanation{}, fmt.Errorf("%w: missing advice", domain.ErrExplanationParse)
	}
	if parsed.Score == nil {
		return domain.Explanation{}, fmt.Errorf("%w: missing score", domain.ErrExplanationParse)
	}
	if *parsed.Score < domain.MinExplanationScore || *parsed.Score > domain.MaxExplanationScore {
		return domain.Explanation{}, fmt.Errorf("%w: score %d out of range", domain.ErrExplanationParse, *parsed.Score)
	}

	return domain.Explanation{Advice: *parsed.Advice, Score: *parsed.Score}, nil
}

// stripCodeFence removes a ```json ... ``` wrapper if the whole reply is fenced.
func stripCodeFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	rest, ok := strings.CutPrefix(s, "```json")
	if !ok {
		rest = strings.TrimPrefix(s, "```")
	}
	rest = strings.TrimSpace(rest)
	if inner, ok := strings.CutSuffix(rest, "```"); ok {
		return strings.TrimSpace(inner)
	}
	return s
}
