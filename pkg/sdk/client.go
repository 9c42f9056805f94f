package catalogsearch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/catalogsearch/internal/db"
	dbRedis "github.com/kailas-cloud/catalogsearch/internal/db/redis"
	"github.com/kailas-cloud/catalogsearch/internal/domain"
	"github.com/kailas-cloud/catalogsearch/internal/domain/product"
	"github.com/kailas-cloud/catalogsearch/internal/domain/search/request"
	"github.com/kailas-cloud/catalogsearch/internal/domain/search/result"
	"github.com/kailas-cloud/catalogsearch/internal/metrics"
	budgetrepo "github.com/kailas-cloud/catalogsearch/internal/repository/budget"
	"github.com/kailas-cloud/catalogsearch/internal/repository/catalogcache"
	anthropicTransport "github.com/kailas-cloud/catalogsearch/internal/transport/anthropic"
	"github.com/kailas-cloud/catalogsearch/internal/transport/fakestore"
	openaiTransport "github.com/kailas-cloud/catalogsearch/internal/transport/openai"
	cataloguc "github.com/kailas-cloud/catalogsearch/internal/usecase/catalog"
	completionuc "github.com/kailas-cloud/catalogsearch/internal/usecase/completion"
	healthuc "github.com/kailas-cloud/catalogsearch/internal/usecase/health"
	"github.com/kailas-cloud/catalogsearch/internal/usecase/model"
	"github.com/kailas-cloud/catalogsearch/internal/usecase/pattern"
	searchuc "github.com/kailas-cloud/catalogsearch/internal/usecase/search"
	usageuc "github.com/kailas-cloud/catalogsearch/internal/usecase/usage"
)

const defaultReadinessTimeout = 10 * time.Second

// Internal interfaces so tests can substitute the use cases.
type catalogUseCase interface {
	List(ctx context.Context) ([]product.Product, error)
	Get(ctx context.Context, id string) (product.Product, error)
	Categories(ctx context.Context) ([]string, error)
	Snapshot(ctx context.Context) []product.Product
}

type searchUseCase interface {
	Search(ctx context.Context, catalog []product.Product, req request.Request) result.Result
}

// Client is the catalogsearch SDK entry point. It is safe for concurrent use.
type Client struct {
	store      db.Store
	catalogSvc catalogUseCase
	searchSvc  searchUseCase
	healthSvc  healthUseCase
	usageSvc   usageUseCase
	obs        *observer
}

// New creates a Client. Without WithOpenAI, WithAnthropic or WithCompleter
// every search uses the pattern interpreter. The provided context is used
// for the cache readiness check when WithCache is set.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, o := range opts {
		o.apply(cfg)
	}

	var store db.Store
	if len(cfg.cacheAddrs) > 0 && cfg.cacheAddrs[0] != "" {
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:      cfg.cacheAddrs,
			Password:   cfg.cachePassword,
			Standalone: cfg.standalone,
		})
		if err != nil {
			return nil, fmt.Errorf("catalogsearch: create cache store: %w", err)
		}
		if err := s.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
			s.Close()
			return nil, fmt.Errorf("catalogsearch: cache not ready: %w", err)
		}
		store = s
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		if store != nil {
			store.Close()
		}
		return nil, err
	}
	return wireClient(ctx, store, cfg, obs)
}

// buildCompleter picks the completion provider. nil means the model
// interpreter is off.
func buildCompleter(cfg *clientConfig) domain.Completer {
	switch {
	case cfg.completer != nil:
		return &completerAdapter{inner: cfg.completer}
	case cfg.apiKey == "":
		return nil
	case cfg.provider == "anthropic":
		return anthropicTransport.NewCompleter(&anthropicTransport.Config{
			APIKey:  cfg.apiKey,
			BaseURL: cfg.baseURL,
			Model:   cfg.model,
			Logger:  zap.NewNop(),
		})
	default:
		return openaiTransport.NewCompleter(&openaiTransport.Config{
			APIKey:   cfg.apiKey,
			BaseURL:  cfg.baseURL,
			Model:    cfg.model,
			Provider: cfg.provider,
			Logger:   zap.NewNop(),
		})
	}
}

func wireClient(ctx context.Context, store db.Store, cfg *clientConfig, obs *observer) (*Client, error) {
	var source cataloguc.Source = fakestore.New(fakestore.Config{
		BaseURL:    cfg.catalogURL,
		Timeout:    cfg.catalogTimeout,
		HTTPClient: cfg.httpClient,
	})

	// Nil interfaces, not typed nil pointers, for components that are off.
	var cachePinger healthuc.CachePinger
	if store != nil {
		ttl := cfg.cacheTTL
		if ttl <= 0 {
			ttl = catalogcache.DefaultTTL
		}
		source = catalogcache.New(source, store, ttl, metrics.CatalogCacheTotal, zap.NewNop())
		cachePinger = store
	}

	fallback := pattern.New(pattern.WithSynonyms(cfg.synonyms))

	var primary searchuc.Interpreter
	var completionChecker healthuc.CompletionChecker
	var budgetReader usageuc.BudgetReader
	if completer := buildCompleter(cfg); completer != nil {
		if hc, ok := completer.(domain.HealthChecker); ok {
			completionChecker = hc
		}
		provider := cfg.provider
		if cfg.completer != nil || provider == "" {
			provider = "custom"
		}
		// Nil interface, not a typed nil pointer, when no cap is set.
		var budgetChecker completionuc.BudgetChecker
		if cfg.dailyTokenLimit > 0 || cfg.monthlyTokenLimit > 0 {
			budget := completionuc.NewBudgetTracker(
				provider, cfg.dailyTokenLimit, cfg.monthlyTokenLimit, completionuc.BudgetActionReject, zap.NewNop(),
			)
			if store != nil {
				budget.WithStore(ctx, budgetrepo.New(store, 0, 0))
			}
			budgetChecker = budget
			budgetReader = budget
		}
		completer = completionuc.NewInstrumentedCompleter(completer, provider, cfg.model, budgetChecker, zap.NewNop())

		primary = model.New(completer, model.Config{
			MaxTokens:   cfg.maxTokens,
			Temperature: cfg.temperature,
			Timeout:     cfg.completionTimeout,
		})
	}

	catalogSvc := cataloguc.New(source)
	return &Client{
		store:      store,
		catalogSvc: catalogSvc,
		searchSvc:  searchuc.New(fallback, primary),
		healthSvc:  healthuc.New(catalogSvc, cachePinger, completionChecker),
		usageSvc:   usageuc.New(budgetReader),
		obs:        obs,
	}, nil
}

// Close releases the cache connection, if any.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Search returns the products matching a natural-language query within
// category ("" or AllCategories for the whole catalog). It never fails on
// an unavailable catalog or provider; the Note tells which path answered.
// The only error is an invalid request, wrapping ErrInvalidRequest.
func (c *Client) Search(ctx context.Context, query, category string) (_ SearchResult, err error) {
	start := time.Now()
	var out SearchResult
	defer func() { c.obs.search(ctx, start, &out, err) }()

	req, err := request.New(query, category)
	if err != nil {
		return SearchResult{}, fmt.Errorf("%w: %w", domain.ErrInvalidRequest, err)
	}
	res := c.searchSvc.Search(ctx, c.catalogSvc.Snapshot(ctx), req)
	out = searchResultFromDomain(&res)
	return out, nil
}

// Catalog returns every product in upstream order.
func (c *Client) Catalog(ctx context.Context) (_ []Product, err error) {
	start := time.Now()
	defer func() { c.obs.call("catalog.list", start, err) }()

	items, err := c.catalogSvc.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	return productsFromDomain(items), nil
}

// Product returns one product by id. A missing product yields ErrNotFound.
func (c *Client) Product(ctx context.Context, id string) (_ Product, err error) {
	start := time.Now()
	defer func() {
		// not-found is an answer, not an operation failure
		if errors.Is(err, ErrNotFound) {
			c.obs.call("catalog.get", start, nil)
			return
		}
		c.obs.call("catalog.get", start, err)
	}()

	p, err := c.catalogSvc.Get(ctx, id)
	if err != nil {
		return Product{}, fmt.Errorf("product: %w", err)
	}
	return productFromDomain(&p), nil
}

// Categories returns the distinct category labels.
func (c *Client) Categories(ctx context.Context) (_ []string, err error) {
	start := time.Now()
	defer func() { c.obs.call("catalog.categories", start, err) }()

	cats, err := c.catalogSvc.Categories(ctx)
	if err != nil {
		return nil, fmt.Errorf("categories: %w", err)
	}
	return cats, nil
}
