package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bc144/sf-agent/models"
)

func strPtr(s string) *string     { return &s }
func floatPtr(f float64) *float64 { return &f }

func seedStore(t *testing.T) *Store {
	t.Helper()

	store := New(3)
	require.NoError(t, store.Init(context.Background()))

	products := []models.Product{
		{
			ProductID: "p-001",
			Title:     "Trail Runner",
			Brand:     strPtr("Acme"),
			Category:  strPtr("Footwear"),
			Price:     120,
			Colors:    []string{"black", "red"},
			Sizes:     []string{"9", "10"},
			InStock:   true,
		},
		{
			ProductID: "p-002",
			Title:     "Road Racer",
			Brand:     strPtr("Bolt"),
			Category:  strPtr("Footwear"),
			Price:     180,
			Colors:    []string{"white"},
			Sizes:     []string{"10", "11"},
			InStock:   true,
		},
		{
			ProductID: "p-003",
			Title:     "Canvas Tote",
			Category:  strPtr("Accessories"),
			Price:     35,
			Colors:    []string{"black"},
			InStock:   true,
		},
		{
			ProductID: "p-004",
			Title:     "Retired Sneaker",
			Category:  strPtr("Footwear"),
			Price:     90,
			Colors:    []string{"black"},
			Sizes:     []string{"9"},
			InStock:   false,
		},
	}
	vectors := [][]float32{
		{1, 0, 0},
		{0.9, 0.1, 0},
		{0, 1, 0},
		{1, 0, 0},
	}

	require.NoError(t, store.Upsert(context.Background(), products, vectors))
	return store
}

func TestStore_Upsert(t *testing.T) {
	t.Run("length mismatch", func(t *testing.T) {
		store := New(3)
		err := store.Upsert(context.Background(), []models.Product{{ProductID: "p-1"}}, nil)
		assert.Error(t, err)
	})

	t.Run("dimension mismatch", func(t *testing.T) {
		store := New(3)
		err := store.Upsert(context.Background(),
			[]models.Product{{ProductID: "p-1"}},
			[][]float32{{1, 0}},
		)
		assert.Error(t, err)
	})

	t.Run("replaces existing product", func(t *testing.T) {
		store := seedStore(t)
		require.Equal(t, 4, store.Len())

		updated := models.Product{
			ProductID: "p-001",
			Title:     "Trail Runner v2",
			Category:  strPtr("Footwear"),
			Price:     130,
			InStock:   true,
		}
		require.NoError(t, store.Upsert(context.Background(), []models.Product{updated}, [][]float32{{1, 0, 0}}))

		assert.Equal(t, 4, store.Len())

		hits, err := store.Query(context.Background(), []float32{1, 0, 0}, models.Constraint{}, 10)
		require.NoError(t, err)
		assert.Equal(t, "Trail Runner v2", hits[0].Product.Title)
	})
}

func TestStore_Query_Filters(t *testing.T) {
	store := seedStore(t)
	ctx := context.Background()
	query := []float32{1, 0, 0}

	t.Run("out of stock always excluded", func(t *testing.T) {
		hits, err := store.Query(ctx, query, models.Constraint{}, 10)
		require.NoError(t, err)

		for _, h := range hits {
			assert.NotEqual(t, "p-004", h.Product.ProductID)
		}
		assert.Len(t, hits, 3)
	})

	t.Run("category filter", func(t *testing.T) {
		hits, err := store.Query(ctx, query, models.Constraint{Category: strPtr("Footwear")}, 10)
		require.NoError(t, err)

		assert.Len(t, hits, 2)
		for _, h := range hits {
			assert.Equal(t, "Footwear", *h.Product.Category)
		}
	})

	t.Run("color membership is exact", func(t *testing.T) {
		hits, err := store.Query(ctx, query, models.Constraint{Color: strPtr("black")}, 10)
		require.NoError(t, err)
		assert.Len(t, hits, 2)

		hits, err = store.Query(ctx, query, models.Constraint{Color: strPtr("Black")}, 10)
		require.NoError(t, err)
		assert.Empty(t, hits)
	})

	t.Run("size membership", func(t *testing.T) {
		hits, err := store.Query(ctx, query, models.Constraint{Size: strPtr("11")}, 10)
		require.NoError(t, err)

		require.Len(t, hits, 1)
		assert.Equal(t, "p-002", hits[0].Product.ProductID)
	})

	t.Run("brand filter", func(t *testing.T) {
		hits, err := store.Query(ctx, query, models.Constraint{Brand: strPtr("Acme")}, 10)
		require.NoError(t, err)

		require.Len(t, hits, 1)
		assert.Equal(t, "p-001", hits[0].Product.ProductID)
	})

	t.Run("price bounds are inclusive", func(t *testing.T) {
		hits, err := store.Query(ctx, query, models.Constraint{
			PriceMin: floatPtr(35),
			PriceMax: floatPtr(120),
		}, 10)
		require.NoError(t, err)

		ids := make([]string, 0, len(hits))
		for _, h := range hits {
			ids = append(ids, h.Product.ProductID)
		}
		assert.ElementsMatch(t, []string{"p-001", "p-003"}, ids)
	})

	t.Run("no matches is not an error", func(t *testing.T) {
		hits, err := store.Query(ctx, query, models.Constraint{Category: strPtr("Electronics")}, 10)
		require.NoError(t, err)
		assert.Empty(t, hits)
	})
}

func TestStore_Query_Ordering(t *testing.T) {
	store := New(2)
	ctx := context.Background()

	// Two products with identical vectors produce tied scores
	products := []models.Product{
		{ProductID: "p-b", Title: "B", InStock: true},
		{ProductID: "p-a", Title: "A", InStock: true},
		{ProductID: "p-c", Title: "C", InStock: true},
	}
	vectors := [][]float32{
		{1, 0},
		{1, 0},
		{0, 1},
	}
	require.NoError(t, store.Upsert(ctx, products, vectors))

	hits, err := store.Query(ctx, []float32{1, 0}, models.Constraint{}, 10)
	require.NoError(t, err)
	require.Len(t, hits, 3)

	// Scores descend, and the tied pair orders by ascending product ID
	assert.Equal(t, "p-a", hits[0].Product.ProductID)
	assert.Equal(t, "p-b", hits[1].Product.ProductID)
	assert.Equal(t, "p-c", hits[2].Product.ProductID)
	assert.GreaterOrEqual(t, hits[0].Score, hits[1].Score)
	assert.GreaterOrEqual(t, hits[1].Score, hits[2].Score)
}

func TestStore_Query_Limit(t *testing.T) {
	store := seedStore(t)
	ctx := context.Background()

	hits, err := store.Query(ctx, []float32{1, 0, 0}, models.Constraint{}, 2)
	require.NoError(t, err)
	assert.Len(t, hits, 2)

	_, err = store.Query(ctx, []float32{1, 0, 0}, models.Constraint{}, 0)
	assert.Error(t, err)
}

func TestStore_Query_DimensionMismatch(t *testing.T) {
	store := seedStore(t)

	_, err := store.Query(context.Background(), []float32{1, 0}, models.Constraint{}, 10)
	assert.Error(t, err)
}

func TestStore_HealthCheck(t *testing.T) {
	store := seedStore(t)
	assert.NoError(t, store.HealthCheck(context.Background()))
}
