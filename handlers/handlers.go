package handlers

import (
	"github.com/bc144/sf-agent/models"
)

// ProductCard is the wire representation of a matched product. Colors
// and sizes always serialize as arrays, never null, so clients can
// iterate without nil checks.
type ProductCard struct {
	ProductID string   `json:"product_id"`
	Title     string   `json:"title"`
	Brand     *string  `json:"brand,omitempty"`
	Category  *string  `json:"category,omitempty"`
	Price     float64  `json:"price"`
	Colors    []string `json:"colors"`
	Sizes     []string `json:"sizes"`
	ImageURL  *string  `json:"image_url,omitempty"`
	Why       string   `json:"why,omitempty"`
}

// toProductCard flattens a match result into its wire form. The
// similarity score stays internal; clients see the ordering and the
// rationale, not the raw number.
func toProductCard(m models.MatchResult) ProductCard {
	card := ProductCard{
		ProductID: m.Product.ProductID,
		Title:     m.Product.Title,
		Brand:     m.Product.Brand,
		Category:  m.Product.Category,
		Price:     m.Product.Price,
		Colors:    m.Product.Colors,
		Sizes:     m.Product.Sizes,
		ImageURL:  m.Product.ImageURL,
		Why:       m.Why,
	}
	if card.Colors == nil {
		card.Colors = []string{}
	}
	if card.Sizes == nil {
		card.Sizes = []string{}
	}
	return card
}

// toProductCards maps results preserving order. An empty input yields
// an empty slice so the items field serializes as [].
func toProductCards(results []models.MatchResult) []ProductCard {
	cards := make([]ProductCard, 0, len(results))
	for _, r := range results {
		cards = append(cards, toProductCard(r))
	}
	return cards
}
