package lawdex

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mini-lawyer/lawdex/internal/db"
	dbRedis "github.com/mini-lawyer/lawdex/internal/db/redis"
	"github.com/mini-lawyer/lawdex/internal/domain"
	documentrepo "github.com/mini-lawyer/lawdex/internal/repository/document"
	"github.com/mini-lawyer/lawdex/internal/repository/embcache"
	indexrepo "github.com/mini-lawyer/lawdex/internal/repository/index"
	openaiProvider "github.com/mini-lawyer/lawdex/internal/transport/openai"
	healthuc "github.com/mini-lawyer/lawdex/internal/usecase/health"
	retrievaluc "github.com/mini-lawyer/lawdex/internal/usecase/retrieval"
)

const defaultReadinessTimeout = 10 * time.Second

// Sentinel errors surfaced by the client. All errors returned from Client
// methods wrap one of these or the underlying cause.
var (
	// ErrInvalidScenario means the scenario text was empty.
	ErrInvalidScenario = domain.ErrInvalidScenario
	// ErrInvalidKind means the kind was neither KindLaw nor KindJudgment.
	ErrInvalidKind = domain.ErrInvalidKind
)

// Client is the lawdex in-process entry point.
type Client struct {
	store     db.Store
	retrieval *retrievaluc.Service
	health    *healthuc.Service
}

// New creates a lawdex Client and connects to the database.
// The provided context is used for the initial readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		llmTemperature: 0.7,
		lawsIndex:      "laws-names",
		judgmentsIndex: "judgments-names",
		defaultTopK:    5,
		maxTopK:        20,
		concurrency:    5,
	}
	for _, o := range opts {
		o.apply(cfg)
	}

	if len(cfg.addrs) == 0 {
		return nil, errors.New("lawdex: database address required (use WithRedis)")
	}
	if cfg.embeddingModel == "" {
		return nil, errors.New("lawdex: embedding model required (use WithEmbedding)")
	}
	if cfg.llmModel == "" {
		return nil, errors.New("lawdex: llm model required (use WithLLM)")
	}
	if cfg.logger == nil {
		cfg.logger = zap.NewNop()
	}

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.addrs,
		Username: cfg.username,
		Password: cfg.password,
	})
	if err != nil {
		return nil, fmt.Errorf("lawdex: create redis store: %w", err)
	}

	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("lawdex: database not ready: %w", err)
	}

	return wireClient(store, cfg), nil
}

func wireClient(store db.Store, cfg *clientConfig) *Client {
	baseEmbedder := openaiProvider.NewEmbedder(&openaiProvider.EmbedderConfig{
		APIKey:     cfg.embeddingAPIKey,
		BaseURL:    cfg.embeddingBaseURL,
		Model:      cfg.embeddingModel,
		Dimensions: cfg.dimensions,
		Logger:     cfg.logger,
	})

	var embedder domain.Embedder = baseEmbedder
	if cfg.cacheTTL > 0 {
		embedder = embcache.New(baseEmbedder, store, cfg.cacheTTL, cfg.logger)
	}

	explainer := openaiProvider.NewExplainer(&openaiProvider.ExplainerConfig{
		APIKey:      cfg.llmAPIKey,
		BaseURL:     cfg.llmBaseURL,
		Model:       cfg.llmModel,
		Temperature: cfg.llmTemperature,
		Logger:      cfg.logger,
	})

	indexRepo := indexrepo.New(store, cfg.lawsIndex, cfg.judgmentsIndex, cfg.logger)
	docRepo := documentrepo.New(store)

	retrieval := retrievaluc.New(embedder, indexRepo, docRepo, explainer, retrievaluc.Config{
		DefaultTopK:        cfg.defaultTopK,
		MaxTopK:            cfg.maxTopK,
		ExplainConcurrency: cfg.concurrency,
	})

	return &Client{
		store:     store,
		retrieval: retrieval,
		health:    healthuc.New(store, baseEmbedder, explainer),
	}
}

// FindSuitable returns up to topK documents of the given kind relevant to the
// scenario, each with advice and a 0-10 score. topK <= 0 uses the default.
func (c *Client) FindSuitable(ctx context.Context, scenario string, kind Kind, topK int) ([]Result, error) {
	results, err := c.retrieval.FindSuitable(ctx, scenario, domain.Kind(kind), topK)
	if err != nil {
		return nil, err
	}

	out := make([]Result, len(results))
	for i, r := range results {
		out[i] = resultFromDomain(r)
	}
	return out, nil
}

// Health reports database and provider availability.
func (c *Client) Health(ctx context.Context) HealthReport {
	return reportFromDomain(c.health.Check(ctx))
}

// Close releases the database connection.
func (c *Client) Close() {
	c.store.Close()
}
