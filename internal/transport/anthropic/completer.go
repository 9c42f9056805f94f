// Package anthropic adapts the Anthropic Messages API to domain.Completer.
package anthropic

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/liushuangls/go-anthropic/v2"
	"go.uber.org/zap"

	"github.com/kailas-cloud/catalogsearch/internal/domain"
	"github.com/kailas-cloud/catalogsearch/internal/metrics"
)

const provider = "anthropic"

// Completer is a completion provider backed by the Anthropic Messages API.
type Completer struct {
	client *anthropic.Client
	model  string
	logger *zap.Logger
}

// Config holds the Anthropic provider settings.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Logger  *zap.Logger
}

// NewCompleter creates an Anthropic completion provider.
func NewCompleter(cfg *Config) *Completer {
	var opts []anthropic.ClientOption
	if cfg.BaseURL != "" {
		opts = append(opts, anthropic.WithBaseURL(cfg.BaseURL))
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Completer{
		client: anthropic.NewClient(cfg.APIKey, opts...),
		model:  cfg.Model,
		logger: logger,
	}
}

// Complete implements domain.Completer.
func (c *Completer) Complete(ctx context.Context, req domain.CompletionRequest) (domain.CompletionResult, error) {
	temperature := req.Temperature
	msgReq := anthropic.MessagesRequest{
		Model:       anthropic.Model(c.model),
		System:      req.System,
		Messages:    []anthropic.Message{anthropic.NewUserTextMessage(req.User)},
		MaxTokens:   req.MaxTokens,
		Temperature: &temperature,
	}

	start := time.Now()
	resp, err := c.client.CreateMessages(ctx, msgReq)
	duration := time.Since(start)

	if err != nil {
		metrics.CompletionRequestsTotal.WithLabelValues(provider, c.model, "error").Inc()
		metrics.CompletionErrorsTotal.WithLabelValues(provider, c.model, "api_error").Inc()
		c.logger.Debug("completion request failed",
			zap.String("provider", provider),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return domain.CompletionResult{}, parseAPIError(err)
	}

	var text string
	for _, part := range resp.Content {
		if part.Text != nil {
			text += *part.Text
		}
	}
	if text == "" {
		metrics.CompletionRequestsTotal.WithLabelValues(provider, c.model, "error").Inc()
		metrics.CompletionErrorsTotal.WithLabelValues(provider, c.model, "empty_response").Inc()
		return domain.CompletionResult{}, fmt.Errorf("empty completion response: %w", domain.ErrCompletionProviderError)
	}

	metrics.CompletionRequestsTotal.WithLabelValues(provider, c.model, "success").Inc()
	metrics.CompletionRequestDuration.WithLabelValues(provider, c.model).Observe(duration.Seconds())
	metrics.CompletionTokensTotal.WithLabelValues(provider, c.model, "prompt").Add(float64(resp.Usage.InputTokens))
	metrics.CompletionTokensTotal.WithLabelValues(provider, c.model, "completion").Add(float64(resp.Usage.OutputTokens))

	return domain.CompletionResult{
		Text:             text,
		PromptTokens:     resp.Usage.InputTokens,
		CompletionTokens: resp.Usage.OutputTokens,
	}, nil
}

// parseAPIError wraps every failure in domain.ErrCompletionProviderError;
// rate limit errors also wrap domain.ErrRateLimited.
func parseAPIError(err error) error {
	var apiErr *anthropic.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Type == anthropic.ErrTypeRateLimit {
			return fmt.Errorf("anthropic API error %s: %s: %w: %w",
				apiErr.Type, apiErr.Message, domain.ErrCompletionProviderError, domain.ErrRateLimited)
		}
		return fmt.Errorf("anthropic API error %s: %s: %w",
			apiErr.Type, apiErr.Message, domain.ErrCompletionProviderError)
	}
	return fmt.Errorf("anthropic request failed: %w: %w", domain.ErrCompletionProviderError, err)
}
