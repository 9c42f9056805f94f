package catalog

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/catalogsearch/internal/domain"
	"github.com/kailas-cloud/catalogsearch/internal/domain/product"
	"github.com/kailas-cloud/catalogsearch/internal/logger"
)

// Service exposes the upstream catalog to the API and the search path.
type Service struct {
	source Source
}

// New creates a catalog service.
func New(source Source) *Service {
	return &Service{source: source}
}

// List returns every product.
func (s *Service) List(ctx context.Context) ([]product.Product, error) {
	items, err := s.source.Products(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return items, nil
}

// Get returns one product by id.
func (s *Service) Get(ctx context.Context, id string) (product.Product, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return product.Product{}, fmt.Errorf("%w: product id is required", domain.ErrNotFound)
	}
	p, err := s.source.Product(ctx, id)
	if err != nil {
		return product.Product{}, fmt.Errorf("get product %s: %w", id, err)
	}
	return p, nil
}

// Categories returns the distinct category labels.
func (s *Service) Categories(ctx context.Context) ([]string, error) {
	cats, err := s.source.Categories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return cats, nil
}

// Snapshot returns the catalog for one search. An unavailable catalog is
// logged and degrades to an empty snapshot.
func (s *Service) Snapshot(ctx context.Context) []product.Product {
	items, err := s.source.Products(ctx)
	if err != nil {
		logger.FromContext(ctx).Warn("catalog unavailable, searching an empty snapshot", zap.Error(err))
		return []product.Product{}
	}
	return items
}
