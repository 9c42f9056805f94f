// Package catalogcache keeps a short-lived copy of the upstream catalog in
// Valkey/Redis so concurrent searches share one upstream fetch.
package catalogcache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/kailas-cloud/catalogsearch/internal/db"
	"github.com/kailas-cloud/catalogsearch/internal/domain"
	"github.com/kailas-cloud/catalogsearch/internal/domain/product"
)

const (
	keyPrefix     = domain.KeyPrefix + "catalog:"
	productsKey   = keyPrefix + "products"
	categoriesKey = keyPrefix + "categories"
)

// DefaultTTL is used when New receives a non-positive ttl.
const DefaultTTL = 60 * time.Second

// fetchTimeout bounds a shared upstream fetch. The fetch outlives the caller
// that started it, so the caller's deadline cannot be used.
const fetchTimeout = 15 * time.Second

// upstream is the catalog source being cached.
type upstream interface {
	Products(ctx context.Context) ([]product.Product, error)
	Product(ctx context.Context, id string) (product.Product, error)
	Categories(ctx context.Context) ([]string, error)
}

// store is the consumer interface for the cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Source caches catalog reads. Store failures are logged and bypassed, so
// the cache can only ever make a request slower, never fail it.
type Source struct {
	inner      upstream
	store      store
	ttl        time.Duration
	group      singleflight.Group
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a caching decorator.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"/"error"), passed explicitly.
func New(
	inner upstream,
	s store,
	ttl time.Duration,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *Source {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Source{
		inner:      inner,
		store:      s,
		ttl:        ttl,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// Products returns the cached catalog or fetches it once for all concurrent callers.
func (s *Source) Products(ctx context.Context) ([]product.Product, error) {
	var cached []productDTO
	if s.getFromCache(ctx, productsKey, &cached) {
		s.incCache("hit")
		return fromDTOs(cached), nil
	}
	s.incCache("miss")

	v, err := s.shared(ctx, productsKey, func(fetchCtx context.Context) (any, error) {
		items, err := s.inner.Products(fetchCtx)
		if err != nil {
			return nil, err
		}
		dtos := make([]productDTO, len(items))
		for i := range items {
			dtos[i] = toDTO(&items[i])
		}
		s.putToCache(fetchCtx, productsKey, dtos)
		return items, nil
	})
	if err != nil {
		return nil, fmt.Errorf("fetch products: %w", err)
	}
	items, _ := v.([]product.Product)
	return items, nil
}

// Product serves the id from the cached catalog when present and asks the
// upstream otherwise.
func (s *Source) Product(ctx context.Context, id string) (product.Product, error) {
	var cached []productDTO
	if s.getFromCache(ctx, productsKey, &cached) {
		for i := range cached {
			if cached[i].ID == id {
				s.incCache("hit")
				return cached[i].toDomain(), nil
			}
		}
	}
	s.incCache("miss")

	p, err := s.inner.Product(ctx, id)
	if err != nil {
		return product.Product{}, fmt.Errorf("fetch product %s: %w", id, err)
	}
	return p, nil
}

// Categories returns the cached category list.
func (s *Source) Categories(ctx context.Context) ([]string, error) {
	var cached []string
	if s.getFromCache(ctx, categoriesKey, &cached) {
		s.incCache("hit")
		return cached, nil
	}
	s.incCache("miss")

	v, err := s.shared(ctx, categoriesKey, func(fetchCtx context.Context) (any, error) {
		cats, err := s.inner.Categories(fetchCtx)
		if err != nil {
			return nil, err
		}
		s.putToCache(fetchCtx, categoriesKey, cats)
		return cats, nil
	})
	if err != nil {
		return nil, fmt.Errorf("fetch categories: %w", err)
	}
	cats, _ := v.([]string)
	return cats, nil
}

// shared runs fetch once per key for all concurrent callers. The fetch keeps
// the first caller's values but not its cancellation, so one caller giving up
// does not fail the others; each caller still stops waiting on its own ctx.
func (s *Source) shared(ctx context.Context, key string, fetch func(context.Context) (any, error)) (any, error) {
	ch := s.group.DoChan(key, func() (any, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), fetchTimeout)
		defer cancel()
		return fetch(fetchCtx)
	})
	select {
	case res := <-ch:
		return res.Val, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *Source) incCache(result string) {
	if s.cacheTotal != nil {
		s.cacheTotal.WithLabelValues(result).Inc()
	}
}

func (s *Source) getFromCache(ctx context.Context, key string, dst any) bool {
	data, err := s.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			s.incCache("error")
			s.logger.Warn("Failed to get cached catalog", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	if len(data) == 0 {
		return false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		s.logger.Warn("Failed to parse cached catalog", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (s *Source) putToCache(ctx context.Context, key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		s.logger.Warn("Failed to encode catalog for cache", zap.String("key", key), zap.Error(err))
		return
	}
	if err := s.store.SetWithTTL(ctx, key, data, s.ttl); err != nil {
		s.incCache("error")
		s.logger.Warn("Failed to cache catalog", zap.String("key", key), zap.Error(err))
	}
}

func fromDTOs(dtos []productDTO) []product.Product {
	out := make([]product.Product, len(dtos))
	for i := range dtos {
		out[i] = dtos[i].toDomain()
	}
	return out
}
