package result

import "github.com/kailas-cloud/catalogsearch/internal/domain/product"

// Tag names the path that produced a search result.
type Tag string

// Diagnostic tags.
const (
	// ModelServed means the completion provider's ids were returned.
	ModelServed Tag = "model-served"
	// FallbackNoKey means no completion credential is configured.
	FallbackNoKey Tag = "fallback-no-key"
	// FallbackOnError means the model path failed.
	FallbackOnError Tag = "fallback-on-error"
	// FallbackEmpty means the model path resolved to no products.
	FallbackEmpty Tag = "fallback-empty"
	// Unfiltered means the query was empty and candidates were returned as is.
	Unfiltered Tag = "unfiltered"
)

// IsValid checks if the tag is one of the known values.
func (t Tag) IsValid() bool {
	switch t {
	case ModelServed, FallbackNoKey, FallbackOnError, FallbackEmpty, Unfiltered:
		return true
	default:
		return false
	}
}

// IsFallback reports whether the pattern interpreter produced the result.
func (t Tag) IsFallback() bool {
	return t == FallbackNoKey || t == FallbackOnError || t == FallbackEmpty
}

// Result is an ordered product list with the tag of the path that produced it.
type Result struct {
	items []product.Product
	tag   Tag
}

// New creates a search result.
func New(items []product.Product, tag Tag) Result {
	if items == nil {
		items = []product.Product{}
	}
	return Result{items: items, tag: tag}
}

// Items returns the matched products in result order.
func (r *Result) Items() []product.Product { return r.items }

// Tag returns the diagnostic tag.
func (r *Result) Tag() Tag { return r.tag }

// Len returns the number of matched products.
func (r *Result) Len() int { return len(r.items) }
