package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/catalogsearch/internal/config"
	"github.com/kailas-cloud/catalogsearch/internal/db"
	dbRedis "github.com/kailas-cloud/catalogsearch/internal/db/redis"
	"github.com/kailas-cloud/catalogsearch/internal/domain"
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

// app holds the wired use case services shared by serve and query.
type app struct {
	catalog *cataloguc.Service
	search  *searchuc.Service
	health  *healthuc.Service
	usage   *usageuc.Service
	store   db.Store
}

// buildApp is the composition root:
// fakestore -> [catalogcache] -> catalog service; pattern + [model(completer)] -> search service.
func buildApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*app, error) {
	var source cataloguc.Source = fakestore.New(fakestore.Config{
		BaseURL: cfg.Catalog.BaseURL,
		Timeout: cfg.Catalog.Timeout(),
	})

	// Pass nil interfaces (not typed nil pointers) to health when a component is off.
	var cachePinger healthuc.CachePinger
	var store db.Store
	if cfg.Cache.Enabled() {
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:      cfg.Cache.Addrs,
			Username:   cfg.Cache.Username,
			Password:   cfg.Cache.Password,
			DB:         cfg.Cache.DB,
			Standalone: cfg.Cache.Standalone,
		})
		if err != nil {
			return nil, fmt.Errorf("create cache store: %w", err)
		}
		if err := s.WaitForReady(ctx, time.Duration(cfg.Cache.ReadinessTimeout)*time.Second); err != nil {
			s.Close()
			return nil, fmt.Errorf("cache not ready: %w", err)
		}
		store = s
		cachePinger = s
		source = catalogcache.New(source, s, cfg.Cache.TTL(), metrics.CatalogCacheTotal, logger)
		logger.Info("Catalog cache enabled",
			zap.Strings("addrs", cfg.Cache.Addrs),
			zap.Duration("ttl", cfg.Cache.TTL()),
		)
	}

	fallback := pattern.New(pattern.WithSynonyms(cfg.Search.CategorySynonyms))

	var primary searchuc.Interpreter
	var completionChecker healthuc.CompletionChecker
	var budgetReader usageuc.BudgetReader
	if cfg.Completion.Enabled() {
		completer := buildCompleter(&cfg.Completion, logger)
		if hc, ok := completer.(domain.HealthChecker); ok {
			completionChecker = hc
		}

		// Nil interface, not a typed nil pointer, when no cap is configured.
		var budgetChecker completionuc.BudgetChecker
		if budget := buildBudget(ctx, &cfg.Completion, store, logger); budget != nil {
			budgetChecker = budget
			budgetReader = budget
		}
		completer = completionuc.NewInstrumentedCompleter(
			completer, cfg.Completion.Provider, cfg.Completion.Model, budgetChecker, logger,
		)

		primary = model.New(completer, model.Config{
			MaxTokens:   cfg.Completion.MaxTokens,
			Temperature: cfg.Completion.Temperature,
			Timeout:     cfg.Completion.Timeout(),
		})
		logger.Info("Model interpreter enabled",
			zap.String("provider", cfg.Completion.Provider),
			zap.String("model", cfg.Completion.Model),
		)
	} else {
		logger.Info("No completion API key configured, searches use the pattern interpreter")
	}

	catalogSvc := cataloguc.New(source)
	return &app{
		catalog: catalogSvc,
		search:  searchuc.New(fallback, primary),
		health:  healthuc.New(catalogSvc, cachePinger, completionChecker),
		usage:   usageuc.New(budgetReader),
		store:   store,
	}, nil
}

// buildBudget creates the token budget tracker, or nil without limits.
// Counters are persisted in the cache store when one is configured.
func buildBudget(
	ctx context.Context, cfg *config.CompletionConfig, store db.Store, logger *zap.Logger,
) *completionuc.BudgetTracker {
	if !cfg.Budget.Enabled() {
		return nil
	}
	action := completionuc.BudgetActionReject
	if cfg.Budget.Action == "warn" {
		action = completionuc.BudgetActionWarn
	}
	budget := completionuc.NewBudgetTracker(
		cfg.Provider, cfg.Budget.DailyTokenLimit, cfg.Budget.MonthlyTokenLimit, action, logger,
	)
	if store != nil {
		budget.WithStore(ctx, budgetrepo.New(store, budgetrepo.DefaultDailyTTL, budgetrepo.DefaultMonthlyTTL))
	}
	logger.Info("Completion budget enabled",
		zap.Int64("daily_token_limit", cfg.Budget.DailyTokenLimit),
		zap.Int64("monthly_token_limit", cfg.Budget.MonthlyTokenLimit),
		zap.String("action", cfg.Budget.Action),
	)
	return budget
}

// buildCompleter selects the completion provider.
func buildCompleter(cfg *config.CompletionConfig, logger *zap.Logger) domain.Completer {
	if cfg.Provider == "anthropic" {
		return anthropicTransport.NewCompleter(&anthropicTransport.Config{
			APIKey:  cfg.APIKey,
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
			Logger:  logger,
		})
	}
	return openaiTransport.NewCompleter(&openaiTransport.Config{
		APIKey:   cfg.APIKey,
		BaseURL:  cfg.BaseURL,
		Model:    cfg.Model,
		Provider: cfg.Provider,
		Logger:   logger,
	})
}

// Close releases the cache connection, if any.
func (a *app) Close() {
	if a.store != nil {
		a.store.Close()
	}
}
