package models

// Constraint carries the optional filter criteria attached to a product
// search. Nil fields are unconstrained. String matches are exact and
// case-sensitive. Notes holds free-text context that never participates
// in filtering.
type Constraint struct {
	Category *string  `json:"category,omitempty"`
	PriceMin *float64 `json:"price_min,omitempty" validate:"omitempty,gte=0"`
	PriceMax *float64 `json:"price_max,omitempty" validate:"omitempty,gte=0"`
	Color    *string  `json:"color,omitempty"`
	Size     *string  `json:"size,omitempty"`
	Brand    *string  `json:"brand,omitempty"`
	Notes    *string  `json:"notes,omitempty"`
}

// IsEmpty reports whether no filter field is set. Notes alone does not
// make a constraint non-empty.
func (c Constraint) IsEmpty() bool {
	return c.Category == nil &&
		c.PriceMin == nil &&
		c.PriceMax == nil &&
		c.Color == nil &&
		c.Size == nil &&
		c.Brand == nil
}

// Query is a fully specified retrieval request: the text to embed, the
// filters to apply, and how many results to return.
type Query struct {
	Text        string
	Constraints Constraint
	K           int
}
