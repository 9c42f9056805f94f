package constraint

import (
	"strings"

	"github.com/kailas-cloud/catalogsearch/internal/domain/product"
)

// Set is the combined search intent of one query. Bounds are tightened as
// constraints are added; contradictory bounds are kept and match nothing.
type Set struct {
	priceMin   *Bound
	priceMax   *Bound
	ratingMin  *Bound
	ratingMax  *Bound
	keyword    string
	categories []string
	items      []Constraint
}

// Add merges c into the set.
func (s *Set) Add(c Constraint) {
	s.items = append(s.items, c)
	switch c.field {
	case Price:
		s.priceMin = tighterLower(s.priceMin, c.lower)
		s.priceMax = tighterUpper(s.priceMax, c.upper)
	case Rating:
		s.ratingMin = tighterLower(s.ratingMin, c.lower)
		s.ratingMax = tighterUpper(s.ratingMax, c.upper)
	case Keyword:
		s.keyword = c.text
		s.categories = c.categories
	}
}

// PriceMin returns the price lower bound.
func (s *Set) PriceMin() *Bound { return s.priceMin }

// PriceMax returns the price upper bound.
func (s *Set) PriceMax() *Bound { return s.priceMax }

// RatingMin returns the rating lower bound.
func (s *Set) RatingMin() *Bound { return s.ratingMin }

// RatingMax returns the rating upper bound.
func (s *Set) RatingMax() *Bound { return s.ratingMax }

// Keyword returns the free-text keyword remainder.
func (s *Set) Keyword() string { return s.keyword }

// Constraints returns the constraints in the order they were added.
func (s *Set) Constraints() []Constraint { return s.items }

// IsEmpty reports whether no constraint was added.
func (s *Set) IsEmpty() bool { return len(s.items) == 0 }

// Matches reports whether p satisfies every constraint in the set.
func (s *Set) Matches(p *product.Product) bool {
	for _, c := range s.items {
		if !c.Matches(p) {
			return false
		}
	}
	return true
}

// String renders the set for logs.
func (s *Set) String() string {
	parts := make([]string, len(s.items))
	for i, c := range s.items {
		parts[i] = c.String()
	}
	return strings.Join(parts, " AND ")
}

func tighterLower(cur, next *Bound) *Bound {
	switch {
	case next == nil:
		return cur
	case cur == nil:
		return next
	case next.Value > cur.Value:
		return next
	case next.Value == cur.Value && !next.Inclusive:
		return next
	default:
		return cur
	}
}

func tighterUpper(cur, next *Bound) *Bound {
	switch {
	case next == nil:
		return cur
	case cur == nil:
		return next
	case next.Value < cur.Value:
		return next
	case next.Value == cur.Value && !next.Inclusive:
		return next
	default:
		return cur
	}
}
