// Package memory implements an in-process vector index used for local
// development and tests. Vectors are compared with a brute-force dot
// product, which equals cosine similarity when inputs are normalized.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/bc144/sf-agent/internal/vectorindex"
	"github.com/bc144/sf-agent/models"
)

// Store holds the catalog entirely in memory.
type Store struct {
	mu        sync.RWMutex
	dimension int
	products  []models.Product
	vectors   [][]float32
}

// New creates an empty in-memory index for vectors of the given dimension.
func New(dimension int) *Store {
	return &Store{dimension: dimension}
}

// Init validates the configured dimension.
func (s *Store) Init(_ context.Context) error {
	if s.dimension <= 0 {
		return fmt.Errorf("vector dimension must be positive, got %d", s.dimension)
	}
	return nil
}

// Upsert stores products with their vectors, replacing entries that share
// a product ID.
func (s *Store) Upsert(_ context.Context, products []models.Product, vectors [][]float32) error {
	if len(products) != len(vectors) {
		return fmt.Errorf("products and vectors length mismatch: %d != %d", len(products), len(vectors))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, p := range products {
		if len(vectors[i]) != s.dimension {
			return fmt.Errorf("vector for product %s has dimension %d, want %d", p.ProductID, len(vectors[i]), s.dimension)
		}
		if idx := s.find(p.ProductID); idx >= 0 {
			s.products[idx] = p
			s.vectors[idx] = vectors[i]
			continue
		}
		s.products = append(s.products, p)
		s.vectors = append(s.vectors, vectors[i])
	}
	return nil
}

// Query scores every product that satisfies the constraints and returns
// the top results by similarity.
func (s *Store) Query(_ context.Context, vector []float32, constraints models.Constraint, limit int) ([]vectorindex.ScoredProduct, error) {
	if len(vector) != s.dimension {
		return nil, fmt.Errorf("query vector has dimension %d, want %d", len(vector), s.dimension)
	}
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be positive, got %d", limit)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	hits := make([]vectorindex.ScoredProduct, 0, len(s.products))
	for i, p := range s.products {
		if !matches(p, constraints) {
			continue
		}
		hits = append(hits, vectorindex.ScoredProduct{
			Product: p,
			Score:   dot(vector, s.vectors[i]),
		})
	}

	vectorindex.SortHits(hits)
	if len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}

// HealthCheck always succeeds for the in-memory backend.
func (s *Store) HealthCheck(_ context.Context) error {
	return nil
}

// Len reports how many products the index currently holds.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.products)
}

// find returns the position of the product with the given ID, or -1.
// Caller must hold the lock.
func (s *Store) find(productID string) int {
	for i, p := range s.products {
		if p.ProductID == productID {
			return i
		}
	}
	return -1
}

// matches applies the shared filter semantics: in-stock only, exact
// attribute matches, inclusive price bounds.
func matches(p models.Product, c models.Constraint) bool {
	if !p.InStock {
		return false
	}
	if c.Category != nil && (p.Category == nil || *p.Category != *c.Category) {
		return false
	}
	if c.Brand != nil && (p.Brand == nil || *p.Brand != *c.Brand) {
		return false
	}
	if c.Color != nil && !p.HasColor(*c.Color) {
		return false
	}
	if c.Size != nil && !p.HasSize(*c.Size) {
		return false
	}
	if c.PriceMin != nil && p.Price < *c.PriceMin {
		return false
	}
	if c.PriceMax != nil && p.Price > *c.PriceMax {
		return false
	}
	return true
}

func dot(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}
