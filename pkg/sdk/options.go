package memdex

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
	driver    string // "memory" or "redis"
	addrs     []string
	username  string
	password  string
	db        int
	keyPrefix string

	embedder      Embedder
	openAIKey     string
	openAIBaseURL string
	openAIModel   string
	openAIDim     int

	cacheSize int
	cacheTTL  time.Duration

	hybridLexical     float64
	hybridSemantic    float64
	semanticThreshold float64

	staleInterval time.Duration

	logger *zap.Logger
}

// WithMemory stores context records in process memory. Records do not
// survive restarts. This is the default driver.
func WithMemory() Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "memory"
	})
}

// WithRedis persists context records in a Redis instance. The index is
// rebuilt from the stored snapshot when the client starts.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "redis"
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithRedisKeyPrefix overrides the key prefix for stored records.
// Default: "memdex:ctx:".
func WithRedisKeyPrefix(prefix string) Option {
	return optionFunc(func(c *clientConfig) {
		c.keyPrefix = prefix
	})
}

// WithEmbedder sets the text embedding provider used for semantic search.
func WithEmbedder(e Embedder) Option {
	return optionFunc(func(c *clientConfig) {
		c.embedder = e
	})
}

// WithOpenAI uses an OpenAI-compatible embeddings API as the embedding
// provider. baseURL may be empty for api.openai.com.
func WithOpenAI(apiKey, baseURL, model string, dimensions int) Option {
	return optionFunc(func(c *clientConfig) {
		c.openAIKey = apiKey
		c.openAIBaseURL = baseURL
		c.openAIModel = model
		c.openAIDim = dimensions
	})
}

// WithEmbeddingCache caches embedding vectors in an in-process LRU so
// repeated queries skip the provider round trip. Disabled by default.
func WithEmbeddingCache(size int, ttl time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.cacheSize = size
		c.cacheTTL = ttl
	})
}

// WithHybridWeights overrides the lexical/semantic score combination
// weights. Defaults: 0.4 lexical, 0.6 semantic.
func WithHybridWeights(lexical, semantic float64) Option {
	return optionFunc(func(c *clientConfig) {
		c.hybridLexical = lexical
		c.hybridSemantic = semantic
	})
}

// WithSemanticThreshold overrides the minimum cosine similarity for a
// semantic match. Default: 0.3.
func WithSemanticThreshold(t float64) Option {
	return optionFunc(func(c *clientConfig) {
		c.semanticThreshold = t
	})
}

// WithStaleInterval overrides how old the index may grow before a search
// triggers a background rebuild. Default: 5 minutes.
func WithStaleInterval(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.staleInterval = d
	})
}

// WithLogger enables structured logging for client operations.
// Pass nil to disable (default).
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}
