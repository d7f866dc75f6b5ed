package pinecone

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bc144/sf-agent/models"
)

func strPtr(s string) *string     { return &s }
func floatPtr(f float64) *float64 { return &f }

func TestBuildFilter(t *testing.T) {
	t.Run("empty constraints keep the stock condition", func(t *testing.T) {
		filter, err := buildFilter(models.Constraint{})
		require.NoError(t, err)

		expr := filter.AsMap()
		require.Len(t, expr, 1)

		stock := expr["in_stock"].(map[string]interface{})
		assert.Equal(t, true, stock["$eq"])
	})

	t.Run("full constraints", func(t *testing.T) {
		filter, err := buildFilter(models.Constraint{
			Category: strPtr("Footwear"),
			Brand:    strPtr("Acme"),
			Color:    strPtr("black"),
			Size:     strPtr("10"),
			PriceMin: floatPtr(50),
			PriceMax: floatPtr(150),
		})
		require.NoError(t, err)

		expr := filter.AsMap()

		assert.Equal(t, "Footwear", expr["category"].(map[string]interface{})["$eq"])
		assert.Equal(t, "Acme", expr["brand"].(map[string]interface{})["$eq"])

		colors := expr["colors"].(map[string]interface{})["$in"].([]interface{})
		assert.Equal(t, []interface{}{"black"}, colors)

		sizes := expr["sizes"].(map[string]interface{})["$in"].([]interface{})
		assert.Equal(t, []interface{}{"10"}, sizes)

		price := expr["price"].(map[string]interface{})
		assert.Equal(t, float64(50), price["$gte"])
		assert.Equal(t, float64(150), price["$lte"])
	})

	t.Run("half open price range", func(t *testing.T) {
		filter, err := buildFilter(models.Constraint{PriceMax: floatPtr(99)})
		require.NoError(t, err)

		price := filter.AsMap()["price"].(map[string]interface{})
		assert.Equal(t, float64(99), price["$lte"])
		assert.NotContains(t, price, "$gte")
	})
}

func TestMetadataRoundTrip(t *testing.T) {
	brand := "Acme"
	imageURL := "https://cdn.example.com/p-001.jpg"
	product := models.Product{
		ProductID: "p-001",
		Title:     "Trail Runner",
		Brand:     &brand,
		Category:  strPtr("Footwear"),
		Price:     120,
		Colors:    []string{"black", "red"},
		Sizes:     []string{"9", "10"},
		ImageURL:  &imageURL,
		InStock:   true,
	}

	metadata, err := metadataFromProduct(product)
	require.NoError(t, err)

	decoded := productFromMetadata("p-001", metadata)

	assert.Equal(t, product.ProductID, decoded.ProductID)
	assert.Equal(t, product.Title, decoded.Title)
	require.NotNil(t, decoded.Brand)
	assert.Equal(t, "Acme", *decoded.Brand)
	assert.Equal(t, product.Price, decoded.Price)
	assert.Equal(t, product.Colors, decoded.Colors)
	assert.Equal(t, product.Sizes, decoded.Sizes)
	require.NotNil(t, decoded.ImageURL)
	assert.Equal(t, imageURL, *decoded.ImageURL)
	assert.True(t, decoded.InStock)
	assert.Nil(t, decoded.Description)
}

func TestMetadataFromProduct_OmitsUnsetOptionals(t *testing.T) {
	metadata, err := metadataFromProduct(models.Product{
		ProductID: "p-002",
		Title:     "Canvas Tote",
		Price:     35,
		InStock:   true,
	})
	require.NoError(t, err)

	fields := metadata.AsMap()
	assert.NotContains(t, fields, "brand")
	assert.NotContains(t, fields, "category")
	assert.NotContains(t, fields, "image_url")
	assert.NotContains(t, fields, "description")
}

func TestProductFromMetadata_NilMetadata(t *testing.T) {
	p := productFromMetadata("p-003", nil)

	assert.Equal(t, "p-003", p.ProductID)
	assert.Equal(t, "Unknown Product", p.Title)
	assert.True(t, p.InStock)
}

func TestToStringSlice(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, toStringSlice([]interface{}{"a", "b"}))
	assert.Equal(t, []string{"a"}, toStringSlice([]interface{}{"a", 7}))
	assert.Nil(t, toStringSlice("not a slice"))
	assert.Nil(t, toStringSlice(nil))
}
