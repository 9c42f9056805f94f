package search

import (
	"context"

	"github.com/kailas-cloud/catalogsearch/internal/domain/product"
)

// Interpreter selects the candidates that satisfy a free-text query.
// An empty result is a valid answer; an error means the strategy failed.
type Interpreter interface {
	Interpret(ctx context.Context, query string, candidates []product.Product) ([]product.Product, error)
}
