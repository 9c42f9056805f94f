package catalogsearch

import "github.com/kailas-cloud/catalogsearch/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrNotFound                = domain.ErrNotFound
	ErrCatalogUnavailable      = domain.ErrCatalogUnavailable
	ErrCompletionProviderError = domain.ErrCompletionProviderError
	ErrMalformedModelOutput    = domain.ErrMalformedModelOutput
	ErrRateLimited             = domain.ErrRateLimited
	ErrInvalidRequest          = domain.ErrInvalidRequest
)
