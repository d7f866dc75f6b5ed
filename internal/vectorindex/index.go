// Package vectorindex defines the similarity-search surface over the
// product catalog and the deterministic ordering shared by its backends.
package vectorindex

import (
	"context"
	"sort"

	"github.com/bc144/sf-agent/models"
)

// ScoredProduct pairs a product with its similarity score.
type ScoredProduct struct {
	Product models.Product
	Score   float64
}

// Index abstracts the vector store holding the catalog. Every backend
// applies the same filter semantics: only in-stock products are eligible,
// attribute matches are exact, and price bounds are inclusive.
type Index interface {
	// Init prepares backend resources (collections, schema, payload
	// indexes). Calling it on an already prepared backend is a no-op.
	Init(ctx context.Context) error

	// Upsert writes products and their embedding vectors, replacing any
	// existing entries with the same product ID. products and vectors
	// must have equal length.
	Upsert(ctx context.Context, products []models.Product, vectors [][]float32) error

	// Query returns up to limit products matching the constraints,
	// ordered by descending similarity to the given vector. An empty
	// result is not an error.
	Query(ctx context.Context, vector []float32, constraints models.Constraint, limit int) ([]ScoredProduct, error)

	// HealthCheck reports whether the backend is reachable and serving.
	HealthCheck(ctx context.Context) error
}

// SortHits orders hits by descending score, breaking ties on ascending
// product ID so equal-scored results are stable across backends.
func SortHits(hits []ScoredProduct) {
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].Product.ProductID < hits[j].Product.ProductID
	})
}
