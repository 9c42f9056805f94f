package catalog

import (
	"context"

	"github.com/kailas-cloud/catalogsearch/internal/domain/product"
)

// Source reads the upstream product catalog.
type Source interface {
	Products(ctx context.Context) ([]product.Product, error)
	Product(ctx context.Context, id string) (product.Product, error)
	Categories(ctx context.Context) ([]string, error)
}
