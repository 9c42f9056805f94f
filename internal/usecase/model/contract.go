package model

import (
	"context"

	"github.com/kailas-cloud/catalogsearch/internal/domain"
)

// Completer sends one system+user exchange to a completion provider.
type Completer interface {
	Complete(ctx context.Context, req domain.CompletionRequest) (domain.CompletionResult, error)
}
