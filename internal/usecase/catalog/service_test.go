package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/kailas-cloud/catalogsearch/internal/domain"
	"github.com/kailas-cloud/catalogsearch/internal/domain/product"
)

// --- Mocks ---

type mockSource struct {
	items  []product.Product
	cats   []string
	err    error
	lastID string
}

func (m *mockSource) Products(_ context.Context) ([]product.Product, error) {
	return m.items, m.err
}

func (m *mockSource) Product(_ context.Context, id string) (product.Product, error) {
	m.lastID = id
	if m.err != nil {
		return product.Product{}, m.err
	}
	for _, p := range m.items {
		if p.ID() == id {
			return p, nil
		}
	}
	return product.Product{}, domain.ErrNotFound
}

func (m *mockSource) Categories(_ context.Context) ([]string, error) {
	return m.cats, m.err
}

func items() []product.Product {
	return []product.Product{
		product.New("1", "Backpack", "Fits 15in laptops", "men's clothing", 109.95),
		product.New("2", "Ring", "Gold", "jewelery", 20),
	}
}

// --- Tests ---

func TestList(t *testing.T) {
	svc := New(&mockSource{items: items()})
	got, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("expected 2 products, got %d", len(got))
	}
}

func TestList_UpstreamError(t *testing.T) {
	svc := New(&mockSource{err: domain.NewUpstreamError("products", 503)})
	_, err := svc.List(context.Background())
	if !errors.Is(err, domain.ErrCatalogUnavailable) {
		t.Fatalf("expected ErrCatalogUnavailable, got %v", err)
	}
}

func TestGet(t *testing.T) {
	src := &mockSource{items: items()}
	svc := New(src)

	p, err := svc.Get(context.Background(), " 2 ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Title() != "Ring" {
		t.Errorf("expected Ring, got %q", p.Title())
	}
	if src.lastID != "2" {
		t.Errorf("expected trimmed id, got %q", src.lastID)
	}
}

func TestGet_NotFound(t *testing.T) {
	svc := New(&mockSource{items: items()})
	for _, id := range []string{"99", ""} {
		if _, err := svc.Get(context.Background(), id); !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("Get(%q): expected ErrNotFound, got %v", id, err)
		}
	}
}

func TestCategories(t *testing.T) {
	svc := New(&mockSource{cats: []string{"electronics", "jewelery"}})
	got, err := svc.Categories(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0] != "electronics" {
		t.Errorf("unexpected categories %v", got)
	}
}

func TestCategories_Error(t *testing.T) {
	svc := New(&mockSource{err: domain.ErrCatalogUnavailable})
	if _, err := svc.Categories(context.Background()); !errors.Is(err, domain.ErrCatalogUnavailable) {
		t.Fatalf("expected ErrCatalogUnavailable, got %v", err)
	}
}

func TestSnapshot_DegradesToEmpty(t *testing.T) {
	svc := New(&mockSource{err: errors.New("dial tcp: connection refused")})
	got := svc.Snapshot(context.Background())
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil snapshot, got %v", got)
	}
}

func TestSnapshot(t *testing.T) {
	svc := New(&mockSource{items: items()})
	if got := svc.Snapshot(context.Background()); len(got) != 2 {
		t.Errorf("expected 2 products, got %d", len(got))
	}
}
