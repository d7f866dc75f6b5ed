package models

// Product is a catalog entry as stored in the vector index payload.
// Optional attributes are pointers so that absent values stay absent on
// the wire instead of serializing as empty strings.
type Product struct {
	ProductID   string   `json:"product_id"`
	Title       string   `json:"title"`
	Brand       *string  `json:"brand,omitempty"`
	Category    *string  `json:"category,omitempty"`
	Price       float64  `json:"price"`
	Colors      []string `json:"colors"`
	Sizes       []string `json:"sizes"`
	ImageURL    *string  `json:"image_url,omitempty"`
	Description *string  `json:"description,omitempty"`
	InStock     bool     `json:"in_stock"`
}

// HasColor reports whether the product is offered in the given color.
// Comparison is exact, matching the filter semantics of the index.
func (p Product) HasColor(color string) bool {
	for _, c := range p.Colors {
		if c == color {
			return true
		}
	}
	return false
}

// HasSize reports whether the product is offered in the given size.
func (p Product) HasSize(size string) bool {
	for _, s := range p.Sizes {
		if s == size {
			return true
		}
	}
	return false
}
