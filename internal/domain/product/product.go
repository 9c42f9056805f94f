package product

import "strings"

// Currency is the currency reported for every catalog price.
const Currency = "USD"

// Rating is the aggregated customer rating of a product.
type Rating struct {
	Rate  float64
	Count int
}

// Product is a read-only catalog item.
type Product struct {
	id          string
	title       string
	description string
	category    string
	image       string
	price       float64
	rating      *Rating
}

// Option configures optional product attributes.
type Option func(*Product)

// WithRating sets the product rating.
func WithRating(rate float64, count int) Option {
	return func(p *Product) {
		p.rating = &Rating{Rate: rate, Count: count}
	}
}

// WithImage sets the product image URL.
func WithImage(url string) Option {
	return func(p *Product) { p.image = url }
}

// New creates a catalog product.
func New(id, title, description, category string, price float64, opts ...Option) Product {
	p := Product{
		id:          id,
		title:       title,
		description: description,
		category:    category,
		price:       price,
	}
	for _, o := range opts {
		o(&p)
	}
	return p
}

// ID returns the stable product identifier.
func (p *Product) ID() string { return p.id }

// Title returns the product title.
func (p *Product) Title() string { return p.title }

// Description returns the product description.
func (p *Product) Description() string { return p.description }

// Category returns the product category label.
func (p *Product) Category() string { return p.category }

// Image returns the product image URL.
func (p *Product) Image() string { return p.image }

// Price returns the product price.
func (p *Product) Price() float64 { return p.price }

// Rating returns the rating, or nil when the product has none.
func (p *Product) Rating() *Rating {
	if p.rating == nil {
		return nil
	}
	r := *p.rating
	return &r
}

// RatingRate returns the rating rate, 0 when absent.
func (p *Product) RatingRate() float64 {
	if p.rating == nil {
		return 0
	}
	return p.rating.Rate
}

// SearchText returns the lowercased title, description and category joined by spaces.
func (p *Product) SearchText() string {
	return strings.ToLower(p.title + " " + p.description + " " + p.category)
}

// Projection is the slimmed product view sent to the completion provider.
type Projection struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Price       float64  `json:"price"`
	Rating      *float64 `json:"rating,omitempty"`
	Currency    string   `json:"currency"`
}

// Project returns the prompt projection of the product.
func (p *Product) Project() Projection {
	proj := Projection{
		ID:          p.id,
		Title:       p.title,
		Description: p.description,
		Category:    p.category,
		Price:       p.price,
		Currency:    Currency,
	}
	if p.rating != nil {
		rate := p.rating.Rate
		proj.Rating = &rate
	}
	return proj
}

// InCategory filters products by exact category label, keeping order.
func InCategory(items []Product, category string) []Product {
	out := make([]Product, 0, len(items))
	for _, p := range items {
		if p.category == category {
			out = append(out, p)
		}
	}
	return out
}

// Categories returns the distinct category labels in first-seen order.
func Categories(items []Product) []string {
	seen := make(map[string]struct{}, len(items))
	var out []string
	for _, p := range items {
		if _, ok := seen[p.category]; ok {
			continue
		}
		seen[p.category] = struct{}{}
		out = append(out, p.category)
	}
	return out
}
