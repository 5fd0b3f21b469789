package lawdex

import (
	"time"

	"go.uber.org/zap"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	addrs    []string
	username string
	password string

	embeddingAPIKey  string
	embeddingBaseURL string
	embeddingModel   string
	dimensions       int

	llmAPIKey      string
	llmBaseURL     string
	llmModel       string
	llmTemperature float32

	cacheTTL time.Duration

	lawsIndex      string
	judgmentsIndex string
	defaultTopK    int
	maxTopK        int
	concurrency    int

	logger *zap.Logger
}

// WithRedis configures the client to connect to a Redis instance.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithRedisAuth sets the Redis ACL username. Optional.
func WithRedisAuth(username string) Option {
	return optionFunc(func(c *clientConfig) {
		c.username = username
	})
}

// WithEmbedding sets the embedding provider credentials and model. Required.
func WithEmbedding(apiKey, model string) Option {
	return optionFunc(func(c *clientConfig) {
		c.embeddingAPIKey = apiKey
		c.embeddingModel = model
	})
}

// WithEmbeddingBaseURL points the embedding client at an OpenAI-compatible
// endpoint other than api.openai.com.
func WithEmbeddingBaseURL(baseURL string) Option {
	return optionFunc(func(c *clientConfig) {
		c.embeddingBaseURL = baseURL
	})
}

// WithDimensions requests reduced-dimension embeddings from the provider.
func WithDimensions(dim int) Option {
	return optionFunc(func(c *clientConfig) {
		c.dimensions = dim
	})
}

// WithLLM sets the chat provider credentials and model used for explanations.
// Required.
func WithLLM(apiKey, model string) Option {
	return optionFunc(func(c *clientConfig) {
		c.llmAPIKey = apiKey
		c.llmModel = model
	})
}

// WithLLMBaseURL points the chat client at an OpenAI-compatible endpoint.
func WithLLMBaseURL(baseURL string) Option {
	return optionFunc(func(c *clientConfig) {
		c.llmBaseURL = baseURL
	})
}

// WithTemperature sets the explanation sampling temperature. Default: 0.7.
func WithTemperature(t float32) Option {
	return optionFunc(func(c *clientConfig) {
		c.llmTemperature = t
	})
}

// WithCacheTTL enables the embedding read-through cache. Zero disables it
// (default).
func WithCacheTTL(ttl time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.cacheTTL = ttl
	})
}

// WithIndexes overrides the vector index names.
// Defaults: "laws-names" and "judgments-names".
func WithIndexes(laws, judgments string) Option {
	return optionFunc(func(c *clientConfig) {
		c.lawsIndex = laws
		c.judgmentsIndex = judgments
	})
}

// WithTopK overrides the default and maximum result counts. Defaults: 5, 20.
func WithTopK(defaultTopK, maxTopK int) Option {
	return optionFunc(func(c *clientConfig) {
		c.defaultTopK = defaultTopK
		c.maxTopK = maxTopK
	})
}

// WithConcurrency bounds parallel hydrate-and-explain work. Default: 5.
func WithConcurrency(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.concurrency = n
	})
}

// WithLogger enables structured logging for client operations.
// Pass nil to disable (default).
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}
