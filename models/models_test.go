package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstraint_IsEmpty(t *testing.T) {
	category := "Footwear"
	notes := "prefers breathable fabric"
	priceMax := 150.0

	tests := []struct {
		name       string
		constraint Constraint
		want       bool
	}{
		{"zero value", Constraint{}, true},
		{"only notes", Constraint{Notes: &notes}, true},
		{"category set", Constraint{Category: &category}, false},
		{"price max set", Constraint{PriceMax: &priceMax}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.constraint.IsEmpty())
		})
	}
}

func TestConstraint_JSONRoundTrip(t *testing.T) {
	color := "black"
	priceMin := 20.0
	c := Constraint{Color: &color, PriceMin: &priceMin}

	data, err := json.Marshal(c)
	require.NoError(t, err)

	// Unset fields stay off the wire entirely
	assert.NotContains(t, string(data), "category")
	assert.NotContains(t, string(data), "price_max")

	var decoded Constraint
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.NotNil(t, decoded.Color)
	assert.Equal(t, "black", *decoded.Color)
	require.NotNil(t, decoded.PriceMin)
	assert.Equal(t, 20.0, *decoded.PriceMin)
}

func TestProduct_HasColor(t *testing.T) {
	p := Product{Colors: []string{"black", "navy blue"}}

	tests := []struct {
		name  string
		color string
		want  bool
	}{
		{"present", "black", true},
		{"multi word", "navy blue", true},
		{"absent", "red", false},
		{"case sensitive", "Black", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.HasColor(tt.color))
		})
	}
}

func TestProduct_HasSize(t *testing.T) {
	p := Product{Sizes: []string{"M", "L", "10"}}

	assert.True(t, p.HasSize("M"))
	assert.True(t, p.HasSize("10"))
	assert.False(t, p.HasSize("XL"))
	assert.False(t, p.HasSize("m"))
}

func TestProduct_JSONMarshaling(t *testing.T) {
	brand := "Acme"
	p := Product{
		ProductID: "p-100",
		Title:     "Trail Runner",
		Brand:     &brand,
		Price:     89.99,
		Colors:    []string{"black"},
		Sizes:     []string{"9", "10"},
		InStock:   true,
	}

	data, err := json.Marshal(p)
	require.NoError(t, err)

	assert.Contains(t, string(data), `"product_id":"p-100"`)
	assert.Contains(t, string(data), `"in_stock":true`)
	// Optional fields without values are omitted
	assert.NotContains(t, string(data), "category")
	assert.NotContains(t, string(data), "image_url")
}
