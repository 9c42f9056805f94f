// Package pattern is the deterministic query interpreter used when the
// completion provider is unavailable. It never fails: a phrase it does not
// recognize simply leaves the candidates untouched.
package pattern

import (
	"context"
	"maps"
	"strings"

	"github.com/kailas-cloud/catalogsearch/internal/domain/product"
	"github.com/kailas-cloud/catalogsearch/internal/domain/search/constraint"
)

// DefaultSynonyms maps shopper vocabulary to catalog category labels.
var DefaultSynonyms = map[string]string{
	"men":       "men's clothing",
	"mens":      "men's clothing",
	"men's":     "men's clothing",
	"man":       "men's clothing",
	"women":     "women's clothing",
	"womens":    "women's clothing",
	"women's":   "women's clothing",
	"ladies":    "women's clothing",
	"lady":      "women's clothing",
	"jewelry":   "jewelery",
	"jewellry":  "jewelery",
	"jewellery": "jewelery",
	"jewelery":  "jewelery",
}

// Interpreter extracts price, rating and keyword constraints from a query
// and applies them by successive filtering.
type Interpreter struct {
	rules    []rule
	synonyms map[string]string
}

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithSynonyms adds or overrides category synonyms. Keys are matched
// case-insensitively against the whole keyword remainder.
func WithSynonyms(s map[string]string) Option {
	return func(i *Interpreter) {
		for k, v := range s {
			i.synonyms[strings.ToLower(strings.TrimSpace(k))] = v
		}
	}
}

// New creates a pattern interpreter.
func New(opts ...Option) *Interpreter {
	i := &Interpreter{
		rules:    defaultRules(),
		synonyms: maps.Clone(DefaultSynonyms),
	}
	for _, o := range opts {
		o(i)
	}
	return i
}

// Extract parses the query into a constraint set without filtering.
func (i *Interpreter) Extract(query string) constraint.Set {
	var set constraint.Set
	for _, c := range i.constraints(query) {
		set.Add(c)
	}
	return set
}

// Filter returns the candidates satisfying every constraint found in query,
// in their original order. An empty query returns the candidates unchanged.
func (i *Interpreter) Filter(candidates []product.Product, query string) []product.Product {
	filtered := candidates
	for _, c := range i.constraints(query) {
		filtered = constraint.Filter(filtered, c)
	}
	return filtered
}

// Interpret implements the search strategy contract. It never returns an error.
func (i *Interpreter) Interpret(
	_ context.Context, query string, candidates []product.Product,
) ([]product.Product, error) {
	return i.Filter(candidates, query), nil
}

// constraints runs every rule in precedence order and finishes with the
// keyword remainder.
func (i *Interpreter) constraints(query string) []constraint.Constraint {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}

	out := make([]constraint.Constraint, 0, len(i.rules)+1)
	for idx := range i.rules {
		if c, ok := i.rules[idx].extract(q); ok {
			out = append(out, c)
		}
	}

	if kw := keywordRemainder(q); kw != "" {
		var c constraint.Constraint
		var err error
		if cat, ok := i.synonyms[kw]; ok {
			c, err = constraint.NewKeyword(kw, cat)
		} else {
			c, err = constraint.NewKeyword(kw)
		}
		if err == nil {
			out = append(out, c)
		}
	}
	return out
}
