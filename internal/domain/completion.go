package domain

import "context"

// Completer is the shared text completion contract between layers.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (CompletionResult, error)
}

// HealthChecker verifies completion provider availability.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// CompletionRequest is a single system+user exchange with decoding parameters.
type CompletionRequest struct {
	System      string
	User        string
	MaxTokens   int
	Temperature float32
}

// CompletionResult carries the completion text and token usage.
type CompletionResult struct {
	Text             string
	PromptTokens     int
	CompletionTokens int
}
