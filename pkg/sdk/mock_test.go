package catalogsearch

import (
	"context"

	"github.com/kailas-cloud/catalogsearch/internal/domain/product"
	"github.com/kailas-cloud/catalogsearch/internal/domain/search/request"
	"github.com/kailas-cloud/catalogsearch/internal/domain/search/result"
	healthuc "github.com/kailas-cloud/catalogsearch/internal/usecase/health"
)

// --- catalogUseCase mock ---

type mockCatalogUC struct {
	listFn       func(ctx context.Context) ([]product.Product, error)
	getFn        func(ctx context.Context, id string) (product.Product, error)
	categoriesFn func(ctx context.Context) ([]string, error)
	snapshot     []product.Product
}

func (m *mockCatalogUC) List(ctx context.Context) ([]product.Product, error) {
	return m.listFn(ctx)
}

func (m *mockCatalogUC) Get(ctx context.Context, id string) (product.Product, error) {
	return m.getFn(ctx, id)
}

func (m *mockCatalogUC) Categories(ctx context.Context) ([]string, error) {
	return m.categoriesFn(ctx)
}

func (m *mockCatalogUC) Snapshot(context.Context) []product.Product {
	return m.snapshot
}

// --- searchUseCase mock ---

type mockSearchUC struct {
	searchFn func(ctx context.Context, catalog []product.Product, req request.Request) result.Result
}

func (m *mockSearchUC) Search(ctx context.Context, catalog []product.Product, req request.Request) result.Result {
	return m.searchFn(ctx, catalog, req)
}

// --- healthUseCase mock ---

type mockHealthUC struct {
	report healthuc.Report
}

func (m *mockHealthUC) Check(context.Context) healthuc.Report {
	return m.report
}

// --- Completer mock ---

type mockCompleter struct {
	fn func(ctx context.Context, req CompletionRequest) (CompletionResult, error)
}

func (m *mockCompleter) Complete(ctx context.Context, req CompletionRequest) (CompletionResult, error) {
	return m.fn(ctx, req)
}
