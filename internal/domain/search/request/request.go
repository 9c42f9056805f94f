package request

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// AllCategories is the category selector meaning "no category filter".
const AllCategories = "all"

// MaxQueryLength is the maximum allowed search query length in characters.
const MaxQueryLength = 1024

// Request is a validated search request.
type Request struct {
	query    string
	category string
}

// New validates search parameters. An empty query is allowed and means
// "browse the category without searching".
func New(query, category string) (Request, error) {
	if utf8.RuneCountInString(query) > MaxQueryLength {
		return Request{}, fmt.Errorf("query too long (max %d chars)", MaxQueryLength)
	}
	return Request{query: query, category: strings.TrimSpace(category)}, nil
}

// Query returns the raw query text.
func (r *Request) Query() string { return r.query }

// Category returns the category selector as given.
func (r *Request) Category() string { return r.category }

// HasCategory reports whether the request filters by category.
func (r *Request) HasCategory() bool {
	return r.category != "" && r.category != AllCategories
}

// IsBrowse reports whether the query is empty or whitespace only.
func (r *Request) IsBrowse() bool {
	return strings.TrimSpace(r.query) == ""
}
