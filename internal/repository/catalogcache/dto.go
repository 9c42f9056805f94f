package catalogcache

import "github.com/kailas-cloud/catalogsearch/internal/domain/product"

type ratingDTO struct {
	Rate  float64 `json:"rate"`
	Count int     `json:"count"`
}

type productDTO struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Category    string     `json:"category"`
	Image       string     `json:"image,omitempty"`
	Price       float64    `json:"price"`
	Rating      *ratingDTO `json:"rating,omitempty"`
}

func toDTO(p *product.Product) productDTO {
	d := productDTO{
		ID:          p.ID(),
		Title:       p.Title(),
		Description: p.Description(),
		Category:    p.Category(),
		Image:       p.Image(),
		Price:       p.Price(),
	}
	if r := p.Rating(); r != nil {
		d.Rating = &ratingDTO{Rate: r.Rate, Count: r.Count}
	}
	return d
}

func (d *productDTO) toDomain() product.Product {
	var opts []product.Option
	if d.Rating != nil {
		opts = append(opts, product.WithRating(d.Rating.Rate, d.Rating.Count))
	}
	if d.Image != "" {
		opts = append(opts, product.WithImage(d.Image))
	}
	return product.New(d.ID, d.Title, d.Description, d.Category, d.Price, opts...)
}
