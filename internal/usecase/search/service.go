package search

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/catalogsearch/internal/domain/product"
	"github.com/kailas-cloud/catalogsearch/internal/domain/search/request"
	"github.com/kailas-cloud/catalogsearch/internal/domain/search/result"
	"github.com/kailas-cloud/catalogsearch/internal/logger"
	"github.com/kailas-cloud/catalogsearch/internal/metrics"
)

// Service runs the model interpreter first and falls back to the pattern
// interpreter, tagging every result with the path that produced it.
type Service struct {
	fallback Interpreter
	primary  Interpreter
}

// New creates a search service. primary is nil when no completion credential
// is configured; every search then goes straight to the fallback.
func New(fallback, primary Interpreter) *Service {
	return &Service{fallback: fallback, primary: primary}
}

// ModelEnabled reports whether a model interpreter is configured.
func (s *Service) ModelEnabled() bool { return s.primary != nil }

// Search filters catalog for req. It never fails: the worst outcome is an
// empty result whose tag explains why.
func (s *Service) Search(
	ctx context.Context, catalog []product.Product, req request.Request,
) result.Result {
	start := time.Now()
	candidates := catalog
	if req.HasCategory() {
		candidates = product.InCategory(catalog, req.Category())
	}

	res := s.run(ctx, candidates, req.Query(), req.IsBrowse())

	tag := string(res.Tag())
	metrics.SearchRequestsTotal.WithLabelValues(tag).Inc()
	metrics.SearchDuration.WithLabelValues(tag).Observe(time.Since(start).Seconds())
	metrics.SearchResults.Observe(float64(res.Len()))

	logger.FromContext(ctx).Info("search",
		zap.String("tag", tag),
		zap.String("category", req.Category()),
		zap.Int("candidates", len(candidates)),
		zap.Int("results", res.Len()),
		zap.Duration("duration", time.Since(start)),
	)
	return res
}

func (s *Service) run(ctx context.Context, candidates []product.Product, query string, browse bool) result.Result {
	if browse {
		return result.New(candidates, result.Unfiltered)
	}
	if s.primary == nil {
		return s.fallbackResult(ctx, candidates, query, result.FallbackNoKey)
	}

	items, err := s.primary.Interpret(ctx, query, candidates)
	if err != nil {
		logger.FromContext(ctx).Warn("model interpreter failed, using pattern fallback", zap.Error(err))
		return s.fallbackResult(ctx, candidates, query, result.FallbackOnError)
	}
	if len(items) == 0 {
		return s.fallbackResult(ctx, candidates, query, result.FallbackEmpty)
	}
	return result.New(items, result.ModelServed)
}

func (s *Service) fallbackResult(
	ctx context.Context, candidates []product.Product, query string, tag result.Tag,
) result.Result {
	items, err := s.fallback.Interpret(ctx, query, candidates)
	if err != nil {
		logger.FromContext(ctx).Error("pattern interpreter failed", zap.Error(err))
		return result.New(nil, tag)
	}
	return result.New(items, tag)
}
