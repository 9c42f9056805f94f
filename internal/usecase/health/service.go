package health

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
	// Unhealthy indicates total failure.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	catalog    CatalogChecker
	cache      CachePinger
	completion CompletionChecker
}

// New creates a Service. cache and completion can be nil when not configured.
func New(catalog CatalogChecker, cache CachePinger, completion CompletionChecker) *Service {
	return &Service{catalog: catalog, cache: cache, completion: completion}
}

// Check runs the configured component checks concurrently. Without the
// catalog every search is empty, so its failure is reported as Unhealthy; a
// failing cache or completion provider only degrades search.
func (s *Service) Check(ctx context.Context) Report {
	pings := map[string]func(context.Context) error{
		"catalog": func(ctx context.Context) error {
			_, err := s.catalog.Categories(ctx)
			return err
		},
	}
	if s.cache != nil {
		pings["cache"] = s.cache.Ping
	}
	if s.completion != nil {
		pings["completion"] = s.completion.HealthCheck
	}

	var mu sync.Mutex
	checks := make(map[string]CheckResult, len(pings))
	group, gctx := errgroup.WithContext(ctx)
	for name, ping := range pings {
		group.Go(func() error {
			res := result(ping(gctx))
			mu.Lock()
			checks[name] = res
			mu.Unlock()
			return nil
		})
	}
	_ = group.Wait()

	status := Healthy
	for _, v := range checks {
		if v == CheckError {
			status = Degraded
			break
		}
	}
	if checks["catalog"] == CheckError {
		status = Unhealthy
	}

	return Report{Status: status, Checks: checks}
}

func result(err error) CheckResult {
	if err != nil {
		return CheckError
	}
	return CheckOK
}
