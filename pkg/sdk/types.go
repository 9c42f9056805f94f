package catalogsearch

import (
	"github.com/kailas-cloud/catalogsearch/internal/domain/product"
	"github.com/kailas-cloud/catalogsearch/internal/domain/search/result"
)

// Note names the path that produced a search result.
type Note string

// Note values.
const (
	NoteModelServed     Note = Note(result.ModelServed)
	NoteFallbackNoKey   Note = Note(result.FallbackNoKey)
	NoteFallbackOnError Note = Note(result.FallbackOnError)
	NoteFallbackEmpty   Note = Note(result.FallbackEmpty)
	NoteUnfiltered      Note = Note(result.Unfiltered)
)

// IsFallback reports whether the pattern interpreter produced the result.
func (n Note) IsFallback() bool { return result.Tag(n).IsFallback() }

// AllCategories disables the category filter.
const AllCategories = "all"

// Rating is the aggregated customer rating.
type Rating struct {
	Rate  float64
	Count int
}

// Product is a catalog item.
type Product struct {
	ID          string
	Title       string
	Description string
	Category    string
	Image       string
	Price       float64
	Rating      *Rating // nil when the catalog has no rating
}

// SearchResult is an ordered product list and the path that produced it.
type SearchResult struct {
	Products []Product
	Note     Note
}

func productFromDomain(p *product.Product) Product {
	out := Product{
		ID:          p.ID(),
		Title:       p.Title(),
		Description: p.Description(),
		Category:    p.Category(),
		Image:       p.Image(),
		Price:       p.Price(),
	}
	if r := p.Rating(); r != nil {
		out.Rating = &Rating{Rate: r.Rate, Count: r.Count}
	}
	return out
}

func productsFromDomain(items []product.Product) []Product {
	out := make([]Product, len(items))
	for i := range items {
		out[i] = productFromDomain(&items[i])
	}
	return out
}

func searchResultFromDomain(r *result.Result) SearchResult {
	return SearchResult{
		Products: productsFromDomain(r.Items()),
		Note:     Note(r.Tag()),
	}
}
