package health

import "context"

// CatalogChecker checks upstream catalog availability.
type CatalogChecker interface {
	Categories(ctx context.Context) ([]string, error)
}

// CachePinger checks cache store availability.
type CachePinger interface {
	Ping(ctx context.Context) error
}

// CompletionChecker checks completion provider availability.
type CompletionChecker interface {
	HealthCheck(ctx context.Context) error
}
