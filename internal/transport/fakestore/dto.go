package fakestore

import (
	"encoding/json"

	"github.com/kailas-cloud/catalogsearch/internal/domain/product"
)

type ratingDTO struct {
	Rate  float64 `json:"rate"`
	Count int     `json:"count"`
}

// productDTO is the upstream wire shape. Ids arrive as numbers but are
// accepted as strings too.
type productDTO struct {
	ID          json.Number `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Category    string      `json:"category"`
	Image       string      `json:"image"`
	Price       float64     `json:"price"`
	Rating      *ratingDTO  `json:"rating"`
}

func (d *productDTO) toDomain() product.Product {
	var opts []product.Option
	if d.Rating != nil {
		opts = append(opts, product.WithRating(d.Rating.Rate, d.Rating.Count))
	}
	if d.Image != "" {
		opts = append(opts, product.WithImage(d.Image))
	}
	return product.New(d.ID.String(), d.Title, d.Description, d.Category, d.Price, opts...)
}
