package catalogsearch

import (
	"context"

	"github.com/kailas-cloud/catalogsearch/internal/domain"
)

// Completer answers a single system+user prompt. Supply one with
// WithCompleter to use a provider the SDK does not ship.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (CompletionResult, error)
}

// CompletionRequest is one prompt exchange.
type CompletionRequest struct {
	System      string
	User        string
	MaxTokens   int
	Temperature float32
}

// CompletionResult carries the completion text and token counts.
type CompletionResult struct {
	Text             string
	PromptTokens     int
	CompletionTokens int
}

// completerAdapter bridges the public Completer to domain.Completer.
type completerAdapter struct {
	inner Completer
}

func (a *completerAdapter) Complete(ctx context.Context, req domain.CompletionRequest) (domain.CompletionResult, error) {
	res, err := a.inner.Complete(ctx, CompletionRequest{
		System:      req.System,
		User:        req.User,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	})
	if err != nil {
		return domain.CompletionResult{}, err
	}
	return domain.CompletionResult{
		Text:             res.Text,
		PromptTokens:     res.PromptTokens,
		CompletionTokens: res.CompletionTokens,
	}, nil
}
