package catalogcache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/catalogsearch/internal/db"
	"github.com/kailas-cloud/catalogsearch/internal/domain/product"
)

type mockUpstream struct {
	mu            sync.Mutex
	products      []product.Product
	categories    []string
	err           error
	productCalls  int
	productByID   int
	categoryCalls int
	block         chan struct{}
	started       chan struct{}
	fetchCtxErr   error
}

func (m *mockUpstream) Products(ctx context.Context) ([]product.Product, error) {
	if m.started != nil {
		select {
		case m.started <- struct{}{}:
		default:
		}
	}
	if m.block != nil {
		<-m.block
	}
	m.mu.Lock()
	m.productCalls++
	m.fetchCtxErr = ctx.Err()
	m.mu.Unlock()
	return m.products, m.err
}

func (m *mockUpstream) Product(_ context.Context, id string) (product.Product, error) {
	m.mu.Lock()
	m.productByID++
	m.mu.Unlock()
	if m.err != nil {
		return product.Product{}, m.err
	}
	for _, p := range m.products {
		if p.ID() == id {
			return p, nil
		}
	}
	return product.Product{}, errNotFound
}

func (m *mockUpstream) Categories(_ context.Context) ([]string, error) {
	m.mu.Lock()
	m.categoryCalls++
	m.mu.Unlock()
	return m.categories, m.err
}

// memStore is an in-memory KV store; getErr/setErr simulate an unavailable cache.
type memStore struct {
	mu     sync.Mutex
	data   map[string][]byte
	ttls   map[string]time.Duration
	getErr error
	setErr error
}

func newMemStore() *memStore {
	return &memStore{data: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (m *memStore) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	v, ok := m.data[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return v, nil
}

func (m *memStore) SetWithTTL(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] = value
	m.ttls[key] = ttl
	return nil
}

func testProducts() []product.Product {
	return []product.Product{
		product.New("1", "Running Shoes", "Trail", "shoes", 80, product.WithRating(4.5, 120), product.WithImage("https://img/1.png")),
		product.New("2", "Mug", "Ceramic", "home", 12.5),
	}
}

func newTestSource(t *testing.T, inner *mockUpstream) (*Source, *memStore, *prometheus.CounterVec) {
	t.Helper()
	ms := newMemStore()
	counter := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "test_catalog_cache_total"}, []string{"result"})
	return New(inner, ms, time.Minute, counter, zap.NewNop()), ms, counter
}
