package pattern

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/kailas-cloud/catalogsearch/internal/domain/search/constraint"
)

// rule extracts one constraint from a lowercased query. Only the first
// match of re is used, and rules never consume text from each other, so
// "between 3 and 4 stars" sets both a price and a rating range.
type rule struct {
	name  string
	re    *regexp.Regexp
	build func(m []string) (constraint.Constraint, bool)
}

const (
	money = `[$€£]?(\d+(?:\.\d+)?)`
	digit = `(\d(?:\.\d+)?)`
)

// defaultRules returns the extraction rules in precedence order.
func defaultRules() []rule {
	return []rule{
		{
			name: "price_range",
			re:   regexp.MustCompile(`(?:between|from)\s*` + money + `\s*(?:and|to)\s*` + money),
			build: func(m []string) (constraint.Constraint, bool) {
				return rangeOf(constraint.Price, m[1], true, m[2], true)
			},
		},
		{
			name: "price_under",
			re:   regexp.MustCompile(`under\s*` + money),
			build: func(m []string) (constraint.Constraint, bool) {
				return rangeOf(constraint.Price, "", false, m[1], false)
			},
		},
		{
			name: "price_over",
			re:   regexp.MustCompile(`(?:over|above|greater than|more than)\s*` + money),
			build: func(m []string) (constraint.Constraint, bool) {
				return rangeOf(constraint.Price, m[1], false, "", false)
			},
		},
		{
			name: "rating_range",
			re:   regexp.MustCompile(`(?:between|from)\s*` + digit + `\s*(?:and|to)\s*` + digit + `\s*stars?`),
			build: func(m []string) (constraint.Constraint, bool) {
				return rangeOf(constraint.Rating, m[1], true, m[2], true)
			},
		},
		{
			name: "rating_min",
			re:   regexp.MustCompile(`(?:rating\s*)?(?:more than|above|at least|>=|≥)\s*` + digit),
			build: func(m []string) (constraint.Constraint, bool) {
				return rangeOf(constraint.Rating, m[1], true, "", false)
			},
		},
		{
			name: "rating_max",
			re:   regexp.MustCompile(`(?:rating\s*)?(?:less than|below|under|<=|≤)\s*` + digit),
			build: func(m []string) (constraint.Constraint, bool) {
				return rangeOf(constraint.Rating, "", false, m[1], true)
			},
		},
	}
}

// extract applies the rule's first match in q. ok is false when nothing
// usable matched.
func (r *rule) extract(q string) (constraint.Constraint, bool) {
	m := r.re.FindStringSubmatch(q)
	if m == nil {
		return constraint.Constraint{}, false
	}
	return r.build(m)
}

// rangeOf builds a range constraint from the textual bounds; an empty text
// leaves that side open. Unparsable numbers drop the constraint.
func rangeOf(f constraint.Field, lo string, loIncl bool, hi string, hiIncl bool) (constraint.Constraint, bool) {
	var lower, upper *constraint.Bound
	if lo != "" {
		v, err := strconv.ParseFloat(lo, 64)
		if err != nil {
			return constraint.Constraint{}, false
		}
		lower = &constraint.Bound{Value: v, Inclusive: loIncl}
	}
	if hi != "" {
		v, err := strconv.ParseFloat(hi, 64)
		if err != nil {
			return constraint.Constraint{}, false
		}
		upper = &constraint.Bound{Value: v, Inclusive: hiIncl}
	}
	c, err := constraint.NewRange(f, lower, upper)
	if err != nil {
		return constraint.Constraint{}, false
	}
	return c, true
}

var (
	// tailCut drops everything from the first under/over/rating, as the
	// storefront always did. It also eats keywords like "hoverboard".
	tailCut = regexp.MustCompile(`under|over|rating`)

	phraseStrip = []*regexp.Regexp{
		regexp.MustCompile(`(?:between|from)\s*[$€£]?\d+(?:\.\d+)?\s*(?:and|to)\s*[$€£]?\d+(?:\.\d+)?(?:\s*stars?)?`),
		regexp.MustCompile(`(?:greater than|more than|above|at least|less than|below|>=|≥|<=|≤)\s*[$€£]?\d+(?:\.\d+)?(?:\s*stars?)?`),
	}

	connectors = map[string]struct{}{
		"with": {}, "and": {}, "or": {}, "for": {}, "that": {}, "has": {}, "have": {},
		"having": {}, "a": {}, "an": {}, "the": {}, "of": {}, "in": {}, "at": {},
	}
)

// keywordRemainder strips recognized price and rating phrases from a
// lowercased query and returns what is left.
func keywordRemainder(q string) string {
	if loc := tailCut.FindStringIndex(q); loc != nil {
		q = q[:loc[0]]
	}
	for _, re := range phraseStrip {
		q = re.ReplaceAllString(q, " ")
	}

	words := strings.Fields(q)
	for len(words) > 0 {
		if _, ok := connectors[words[0]]; !ok {
			break
		}
		words = words[1:]
	}
	for len(words) > 0 {
		if _, ok := connectors[words[len(words)-1]]; !ok {
			break
		}
		words = words[:len(words)-1]
	}
	return strings.Join(words, " ")
}
