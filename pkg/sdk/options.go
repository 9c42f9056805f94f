package catalogsearch

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	catalogURL     string
	catalogTimeout time.Duration
	httpClient     *http.Client

	provider          string // "openai" or "anthropic"
	apiKey            string
	baseURL           string
	model             string
	completer         Completer
	maxTokens         int
	temperature       *float32
	completionTimeout time.Duration
	dailyTokenLimit   int64
	monthlyTokenLimit int64

	cacheAddrs    []string
	cachePassword string
	cacheTTL      time.Duration
	standalone    bool

	synonyms map[string]string

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithCatalogURL sets the FakeStore-compatible catalog base URL.
// Defaults to https://fakestoreapi.com.
func WithCatalogURL(url string) Option {
	return optionFunc(func(c *clientConfig) {
		c.catalogURL = url
	})
}

// WithCatalogTimeout bounds each catalog request. Default: 10s.
func WithCatalogTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.catalogTimeout = d
	})
}

// WithHTTPClient sets the HTTP client used for catalog requests.
func WithHTTPClient(hc *http.Client) Option {
	return optionFunc(func(c *clientConfig) {
		c.httpClient = hc
	})
}

// WithOpenAI enables the model interpreter through an OpenAI-compatible
// chat completions API. Empty baseURL and model select OpenRouter and its
// default free model. An empty apiKey leaves the model path disabled.
func WithOpenAI(apiKey, baseURL, model string) Option {
	return optionFunc(func(c *clientConfig) {
		c.provider = "openai"
		c.apiKey = apiKey
		c.baseURL = baseURL
		c.model = model
	})
}

// WithAnthropic enables the model interpreter through the Anthropic
// Messages API. An empty apiKey leaves the model path disabled.
func WithAnthropic(apiKey, baseURL, model string) Option {
	return optionFunc(func(c *clientConfig) {
		c.provider = "anthropic"
		c.apiKey = apiKey
		c.baseURL = baseURL
		c.model = model
	})
}

// WithCompleter enables the model interpreter with a caller-supplied
// provider. It takes precedence over WithOpenAI and WithAnthropic.
func WithCompleter(comp Completer) Option {
	return optionFunc(func(c *clientConfig) {
		c.completer = comp
	})
}

// WithCompletion tunes the model call. Zero maxTokens and timeout keep the
// defaults (500 tokens, 20s). Temperature is used as given, 0 included; a
// negative temperature keeps the default 0.2.
func WithCompletion(maxTokens int, temperature float32, timeout time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.maxTokens = maxTokens
		c.temperature = nil
		if temperature >= 0 {
			c.temperature = &temperature
		}
		c.completionTimeout = timeout
	})
}

// WithCompletionBudget caps completion tokens per UTC day and month
// (0 = unlimited). A spent budget sends searches to the pattern interpreter.
// With WithCache the counters are shared through Valkey/Redis.
func WithCompletionBudget(daily, monthly int64) Option {
	return optionFunc(func(c *clientConfig) {
		c.dailyTokenLimit = daily
		c.monthlyTokenLimit = monthly
	})
}

// WithCache keeps a catalog snapshot in Valkey/Redis for ttl (default 60s).
func WithCache(addr, password string, ttl time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.cacheAddrs = []string{addr}
		c.cachePassword = password
		c.cacheTTL = ttl
	})
}

// WithStandalone disables cluster topology discovery for the cache.
// Use for standalone Valkey/Redis instances (not managed by cluster operator).
func WithStandalone() Option {
	return optionFunc(func(c *clientConfig) {
		c.standalone = true
	})
}

// WithSynonyms adds shopper words that select a catalog category,
// e.g. {"gadgets": "electronics"}.
func WithSynonyms(s map[string]string) Option {
	return optionFunc(func(c *clientConfig) {
		c.synonyms = s
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
