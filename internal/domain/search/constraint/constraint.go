package constraint

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/kailas-cloud/catalogsearch/internal/domain/product"
)

// Field is the product dimension a constraint applies to.
type Field string

// Constraint fields.
const (
	Price   Field = "price"
	Rating  Field = "rating"
	Keyword Field = "keyword"
)

// Bound is one side of a numeric range.
type Bound struct {
	Value     float64
	Inclusive bool
}

// Inclusive returns an inclusive bound.
func Inclusive(v float64) *Bound { return &Bound{Value: v, Inclusive: true} }

// Exclusive returns an exclusive bound.
func Exclusive(v float64) *Bound { return &Bound{Value: v} }

func (b *Bound) admitsFromBelow(v float64) bool {
	if b == nil {
		return true
	}
	if b.Inclusive {
		return v >= b.Value
	}
	return v > b.Value
}

func (b *Bound) admitsFromAbove(v float64) bool {
	if b == nil {
		return true
	}
	if b.Inclusive {
		return v <= b.Value
	}
	return v < b.Value
}

// Constraint is a single condition extracted from a query: a numeric range
// on price or rating, or a keyword match.
type Constraint struct {
	field      Field
	lower      *Bound
	upper      *Bound
	text       string
	categories []string
}

// NewRange creates a numeric range constraint. At least one bound is required.
func NewRange(f Field, lower, upper *Bound) (Constraint, error) {
	if f != Price && f != Rating {
		return Constraint{}, fmt.Errorf("range constraint on non-numeric field %q", f)
	}
	if lower == nil && upper == nil {
		return Constraint{}, fmt.Errorf("at least one bound is required for %q", f)
	}
	return Constraint{field: f, lower: lower, upper: upper}, nil
}

// NewKeyword creates a keyword constraint. A product matches when its search
// text contains text. When categories are given the keyword names a category
// and only products in one of them match.
func NewKeyword(text string, categories ...string) (Constraint, error) {
	text = strings.TrimSpace(strings.ToLower(text))
	if text == "" {
		return Constraint{}, fmt.Errorf("keyword is required")
	}
	return Constraint{field: Keyword, text: text, categories: categories}, nil
}

// Field returns the constrained dimension.
func (c Constraint) Field() Field { return c.field }

// Lower returns the lower bound (nil if unbounded).
func (c Constraint) Lower() *Bound { return c.lower }

// Upper returns the upper bound (nil if unbounded).
func (c Constraint) Upper() *Bound { return c.upper }

// Text returns the keyword text.
func (c Constraint) Text() string { return c.text }

// Categories returns the categories a keyword resolves to.
func (c Constraint) Categories() []string { return c.categories }

// Matches reports whether p satisfies the constraint.
// Products without a rating are treated as rated 0.
func (c Constraint) Matches(p *product.Product) bool {
	switch c.field {
	case Price:
		return c.lower.admitsFromBelow(p.Price()) && c.upper.admitsFromAbove(p.Price())
	case Rating:
		rate := p.RatingRate()
		return c.lower.admitsFromBelow(rate) && c.upper.admitsFromAbove(rate)
	case Keyword:
		if len(c.categories) > 0 {
			return slices.Contains(c.categories, p.Category())
		}
		return strings.Contains(p.SearchText(), c.text)
	default:
		return true
	}
}

// String renders the constraint for logs, e.g. "price<50" or "20<=rating<=50".
func (c Constraint) String() string {
	if c.field == Keyword {
		return fmt.Sprintf("keyword=%q", c.text)
	}
	var sb strings.Builder
	if c.lower != nil {
		sb.WriteString(formatNum(c.lower.Value))
		sb.WriteString(op(c.lower.Inclusive))
	}
	sb.WriteString(string(c.field))
	if c.upper != nil {
		sb.WriteString(op(c.upper.Inclusive))
		sb.WriteString(formatNum(c.upper.Value))
	}
	return sb.String()
}

func op(inclusive bool) string {
	if inclusive {
		return "<="
	}
	return "<"
}

func formatNum(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Filter returns the products matching c, keeping their order.
func Filter(items []product.Product, c Constraint) []product.Product {
	out := make([]product.Product, 0, len(items))
	for i := range items {
		if c.Matches(&items[i]) {
			out = append(out, items[i])
		}
	}
	return out
}
