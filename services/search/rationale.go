package search

import (
	"fmt"
	"strings"

	"github.com/bc144/sf-agent/models"
)

// whyFallback is the rationale shown when no requested constraint is
// verifiably satisfied by the product payload.
const whyFallback = "Matches your style"

// Explain builds a shopper-facing rationale from the constraints the
// product verifiably satisfies. Clauses appear in a fixed order so the
// same hit always reads the same way.
func Explain(p models.Product, c models.Constraint) string {
	var clauses []string

	if c.Category != nil && p.Category != nil && *p.Category == *c.Category {
		clauses = append(clauses, fmt.Sprintf("Matches the %s category", *c.Category))
	}
	if c.Color != nil && p.HasColor(*c.Color) {
		clauses = append(clauses, fmt.Sprintf("Available in %s", *c.Color))
	}
	if c.Size != nil && p.HasSize(*c.Size) {
		clauses = append(clauses, fmt.Sprintf("Offered in size %s", *c.Size))
	}
	if c.Brand != nil && p.Brand != nil && *p.Brand == *c.Brand {
		clauses = append(clauses, fmt.Sprintf("From %s", *c.Brand))
	}
	if c.PriceMin != nil && p.Price >= *c.PriceMin {
		clauses = append(clauses, fmt.Sprintf("Above your minimum ($%.0f min)", *c.PriceMin))
	}
	if c.PriceMax != nil && p.Price <= *c.PriceMax {
		clauses = append(clauses, fmt.Sprintf("Within your budget ($%.0f max)", *c.PriceMax))
	}

	if len(clauses) == 0 {
		return whyFallback
	}
	return strings.Join(clauses, "; ")
}
