// Package pinecone implements the product index on a Pinecone serverless
// index using the official v4 SDK.
package pinecone

import (
	"context"
	"fmt"

	"github.com/pinecone-io/go-pinecone/v4/pinecone"
	"go.uber.org/zap"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/bc144/sf-agent/internal/vectorindex"
	"github.com/bc144/sf-agent/models"
)

// Config holds connection settings for the Pinecone backend.
type Config struct {
	APIKey    string
	Index     string
	Namespace string
}

// Store is a vector index backed by a Pinecone index.
type Store struct {
	client    *pinecone.Client
	conn      *pinecone.IndexConnection
	indexName string
	namespace string
	dimension int
	logger    *zap.Logger
}

// New resolves the index host and opens a data-plane connection.
func New(ctx context.Context, cfg Config, dimension int, logger *zap.Logger) (*Store, error) {
	pc, err := pinecone.NewClient(pinecone.NewClientParams{ApiKey: cfg.APIKey})
	if err != nil {
		return nil, fmt.Errorf("create pinecone client: %w", err)
	}

	idx, err := pc.DescribeIndex(ctx, cfg.Index)
	if err != nil {
		return nil, fmt.Errorf("describe index %s: %w", cfg.Index, err)
	}

	conn, err := pc.Index(pinecone.NewIndexConnParams{
		Host:      idx.Host,
		Namespace: cfg.Namespace,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to index %s: %w", cfg.Index, err)
	}

	logger.Info("pinecone index connected",
		zap.String("index", cfg.Index),
		zap.String("namespace", cfg.Namespace),
	)

	return &Store{
		client:    pc,
		conn:      conn,
		indexName: cfg.Index,
		namespace: cfg.Namespace,
		dimension: dimension,
		logger:    logger,
	}, nil
}

// Init verifies the remote index matches the configured dimension.
// Pinecone indexes are provisioned out of band, so there is nothing to
// create here.
func (s *Store) Init(ctx context.Context) error {
	idx, err := s.client.DescribeIndex(ctx, s.indexName)
	if err != nil {
		return fmt.Errorf("describe index: %w", err)
	}
	if idx.Dimension != nil && int(*idx.Dimension) != s.dimension {
		return fmt.Errorf("index %s has dimension %d, configured %d", s.indexName, *idx.Dimension, s.dimension)
	}
	return nil
}

// Upsert writes one batch of products. Pinecone accepts arbitrary string
// IDs, so the product ID doubles as the vector ID.
func (s *Store) Upsert(ctx context.Context, products []models.Product, vectors [][]float32) error {
	if len(products) != len(vectors) {
		return fmt.Errorf("products and vectors length mismatch: %d != %d", len(products), len(vectors))
	}

	pcVectors := make([]*pinecone.Vector, 0, len(products))
	for i, p := range products {
		metadata, err := metadataFromProduct(p)
		if err != nil {
			return fmt.Errorf("build metadata for %s: %w", p.ProductID, err)
		}
		values := vectors[i]
		pcVectors = append(pcVectors, &pinecone.Vector{
			Id:       p.ProductID,
			Values:   &values,
			Metadata: metadata,
		})
	}

	count, err := s.conn.UpsertVectors(ctx, pcVectors)
	if err != nil {
		return fmt.Errorf("upsert vectors: %w", err)
	}

	s.logger.Debug("vectors upserted",
		zap.String("index", s.indexName),
		zap.Uint32("count", count),
	)
	return nil
}

// Query runs a filtered similarity search against the index.
func (s *Store) Query(ctx context.Context, vector []float32, constraints models.Constraint, limit int) ([]vectorindex.ScoredProduct, error) {
	filter, err := buildFilter(constraints)
	if err != nil {
		return nil, fmt.Errorf("build filter: %w", err)
	}

	resp, err := s.conn.QueryByVectorValues(ctx, &pinecone.QueryByVectorValuesRequest{
		Vector:          vector,
		TopK:            uint32(limit),
		MetadataFilter:  filter,
		IncludeMetadata: true,
	})
	if err != nil {
		return nil, fmt.Errorf("query vectors: %w", err)
	}

	hits := make([]vectorindex.ScoredProduct, 0, len(resp.Matches))
	for _, match := range resp.Matches {
		if match == nil || match.Vector == nil {
			continue
		}
		hits = append(hits, vectorindex.ScoredProduct{
			Product: productFromMetadata(match.Vector.Id, match.Vector.Metadata),
			Score:   float64(match.Score),
		})
	}
	vectorindex.SortHits(hits)
	return hits, nil
}

// HealthCheck probes the data plane with a stats call.
func (s *Store) HealthCheck(ctx context.Context) error {
	if _, err := s.conn.DescribeIndexStats(ctx); err != nil {
		return fmt.Errorf("pinecone index stats: %w", err)
	}
	return nil
}

// buildFilter translates constraints into Pinecone's metadata filter
// expression. The stock condition is always present so out-of-stock
// products never surface regardless of the caller's constraints.
func buildFilter(c models.Constraint) (*pinecone.MetadataFilter, error) {
	expr := map[string]interface{}{
		"in_stock": map[string]interface{}{"$eq": true},
	}
	if c.Category != nil {
		expr["category"] = map[string]interface{}{"$eq": *c.Category}
	}
	if c.Brand != nil {
		expr["brand"] = map[string]interface{}{"$eq": *c.Brand}
	}
	if c.Color != nil {
		expr["colors"] = map[string]interface{}{"$in": []interface{}{*c.Color}}
	}
	if c.Size != nil {
		expr["sizes"] = map[string]interface{}{"$in": []interface{}{*c.Size}}
	}
	if c.PriceMin != nil || c.PriceMax != nil {
		price := map[string]interface{}{}
		if c.PriceMin != nil {
			price["$gte"] = *c.PriceMin
		}
		if c.PriceMax != nil {
			price["$lte"] = *c.PriceMax
		}
		expr["price"] = price
	}
	return structpb.NewStruct(expr)
}

func metadataFromProduct(p models.Product) (*pinecone.Metadata, error) {
	fields := map[string]interface{}{
		"product_id": p.ProductID,
		"title":      p.Title,
		"price":      p.Price,
		"colors":     toAnySlice(p.Colors),
		"sizes":      toAnySlice(p.Sizes),
		"in_stock":   p.InStock,
	}
	if p.Brand != nil {
		fields["brand"] = *p.Brand
	}
	if p.Category != nil {
		fields["category"] = *p.Category
	}
	if p.ImageURL != nil {
		fields["image_url"] = *p.ImageURL
	}
	if p.Description != nil {
		fields["description"] = *p.Description
	}
	return structpb.NewStruct(fields)
}

func productFromMetadata(id string, metadata *pinecone.Metadata) models.Product {
	p := models.Product{ProductID: id, Title: "Unknown Product", InStock: true}
	if metadata == nil {
		return p
	}
	fields := metadata.AsMap()

	if v, ok := fields["product_id"].(string); ok && v != "" {
		p.ProductID = v
	}
	if v, ok := fields["title"].(string); ok && v != "" {
		p.Title = v
	}
	if v, ok := fields["brand"].(string); ok {
		p.Brand = &v
	}
	if v, ok := fields["category"].(string); ok {
		p.Category = &v
	}
	if v, ok := fields["price"].(float64); ok {
		p.Price = v
	}
	if v, ok := fields["image_url"].(string); ok {
		p.ImageURL = &v
	}
	if v, ok := fields["description"].(string); ok {
		p.Description = &v
	}
	if v, ok := fields["in_stock"].(bool); ok {
		p.InStock = v
	}
	p.Colors = toStringSlice(fields["colors"])
	p.Sizes = toStringSlice(fields["sizes"])
	return p
}

func toAnySlice(items []string) []interface{} {
	out := make([]interface{}, len(items))
	for i, v := range items {
		out[i] = v
	}
	return out
}

func toStringSlice(v interface{}) []string {
	items, ok := v.([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
