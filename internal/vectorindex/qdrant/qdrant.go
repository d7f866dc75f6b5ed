// Package qdrant implements the product index on a Qdrant collection,
// talking to its REST API directly.
package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bc144/sf-agent/internal/vectorindex"
	"github.com/bc144/sf-agent/models"
)

// vectorName is the named vector holding the product document embedding.
const vectorName = "text"

// payloadIndexes maps payload fields to the index schema that makes
// filtered search efficient.
var payloadIndexes = map[string]string{
	"category": "keyword",
	"brand":    "keyword",
	"colors":   "keyword",
	"sizes":    "keyword",
	"in_stock": "bool",
	"price":    "float",
}

// Config holds connection settings for the Qdrant backend.
type Config struct {
	URL        string
	APIKey     string
	Collection string
	Dimension  int
	Timeout    time.Duration
}

// Store is a vector index backed by a Qdrant collection.
type Store struct {
	baseURL    string
	apiKey     string
	collection string
	dimension  int
	client     *http.Client
	logger     *zap.Logger
}

// New creates a Qdrant-backed store. It does not touch the network;
// call Init to ensure the collection exists.
func New(cfg Config, logger *zap.Logger) *Store {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Store{
		baseURL:    strings.TrimRight(cfg.URL, "/"),
		apiKey:     cfg.APIKey,
		collection: cfg.Collection,
		dimension:  cfg.Dimension,
		client:     &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// Init creates the collection and its payload indexes if they do not
// already exist.
func (s *Store) Init(ctx context.Context) error {
	status, _, err := s.do(ctx, http.MethodGet, s.collectionPath(""), nil)
	if err != nil {
		return fmt.Errorf("check collection: %w", err)
	}

	if status == http.StatusOK {
		s.logger.Debug("collection already exists", zap.String("collection", s.collection))
	} else {
		body := map[string]interface{}{
			"vectors": map[string]interface{}{
				vectorName: map[string]interface{}{
					"size":     s.dimension,
					"distance": "Cosine",
				},
			},
		}
		status, raw, err := s.do(ctx, http.MethodPut, s.collectionPath(""), body)
		if err != nil {
			return fmt.Errorf("create collection: %w", err)
		}
		if status >= 300 {
			return fmt.Errorf("create collection: status %d: %s", status, raw)
		}
		s.logger.Info("collection created",
			zap.String("collection", s.collection),
			zap.Int("dimension", s.dimension),
		)
	}

	// Index creation on an existing field returns an error from Qdrant;
	// treat that as already done and move on.
	for field, schema := range payloadIndexes {
		body := map[string]interface{}{
			"field_name":   field,
			"field_schema": schema,
		}
		status, raw, err := s.do(ctx, http.MethodPut, s.collectionPath("/index"), body)
		if err != nil {
			return fmt.Errorf("create payload index %s: %w", field, err)
		}
		if status >= 300 {
			s.logger.Debug("payload index not created",
				zap.String("field", field),
				zap.Int("status", status),
				zap.ByteString("response", raw),
			)
		}
	}
	return nil
}

// Upsert writes one batch of products with their vectors. Point IDs are
// derived deterministically from the product ID, so re-ingesting the
// same product overwrites its previous point.
func (s *Store) Upsert(ctx context.Context, products []models.Product, vectors [][]float32) error {
	if len(products) != len(vectors) {
		return fmt.Errorf("products and vectors length mismatch: %d != %d", len(products), len(vectors))
	}

	points := make([]map[string]interface{}, 0, len(products))
	for i, p := range products {
		points = append(points, map[string]interface{}{
			"id":      pointID(p.ProductID),
			"vector":  map[string]interface{}{vectorName: vectors[i]},
			"payload": p,
		})
	}

	status, raw, err := s.do(ctx, http.MethodPut, s.collectionPath("/points?wait=true"), map[string]interface{}{
		"points": points,
	})
	if err != nil {
		return fmt.Errorf("upsert points: %w", err)
	}
	if status >= 300 {
		return fmt.Errorf("upsert points: status %d: %s", status, raw)
	}
	return nil
}

// Query runs a filtered similarity search over the collection.
func (s *Store) Query(ctx context.Context, vector []float32, constraints models.Constraint, limit int) ([]vectorindex.ScoredProduct, error) {
	body := map[string]interface{}{
		"vector":       map[string]interface{}{"name": vectorName, "vector": vector},
		"limit":        limit,
		"with_payload": true,
		"filter":       buildFilter(constraints),
	}

	status, raw, err := s.do(ctx, http.MethodPost, s.collectionPath("/points/search"), body)
	if err != nil {
		return nil, fmt.Errorf("search points: %w", err)
	}
	if status >= 300 {
		return nil, fmt.Errorf("search points: status %d: %s", status, raw)
	}

	var result searchResponse
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	hits := make([]vectorindex.ScoredProduct, 0, len(result.Result))
	for _, hit := range result.Result {
		hits = append(hits, vectorindex.ScoredProduct{
			Product: hit.Payload.toProduct(string(hit.ID)),
			Score:   hit.Score,
		})
	}
	vectorindex.SortHits(hits)

	s.logger.Debug("search executed",
		zap.String("collection", s.collection),
		zap.Int("hits", len(hits)),
	)
	return hits, nil
}

// HealthCheck verifies the collection is reachable and exists.
func (s *Store) HealthCheck(ctx context.Context) error {
	status, raw, err := s.do(ctx, http.MethodGet, s.collectionPath(""), nil)
	if err != nil {
		return fmt.Errorf("qdrant unreachable: %w", err)
	}
	if status != http.StatusOK {
		return fmt.Errorf("collection %s not ready: status %d: %s", s.collection, status, raw)
	}
	return nil
}

// buildFilter translates constraints into a Qdrant must-clause filter.
// The stock condition is always present so out-of-stock products never
// surface regardless of the caller's constraints.
func buildFilter(c models.Constraint) map[string]interface{} {
	must := []map[string]interface{}{
		matchClause("in_stock", true),
	}
	if c.Category != nil {
		must = append(must, matchClause("category", *c.Category))
	}
	if c.Brand != nil {
		must = append(must, matchClause("brand", *c.Brand))
	}
	if c.Color != nil {
		must = append(must, matchClause("colors", *c.Color))
	}
	if c.Size != nil {
		must = append(must, matchClause("sizes", *c.Size))
	}
	if c.PriceMin != nil || c.PriceMax != nil {
		rng := map[string]interface{}{}
		if c.PriceMin != nil {
			rng["gte"] = *c.PriceMin
		}
		if c.PriceMax != nil {
			rng["lte"] = *c.PriceMax
		}
		must = append(must, map[string]interface{}{"key": "price", "range": rng})
	}
	return map[string]interface{}{"must": must}
}

func matchClause(key string, value interface{}) map[string]interface{} {
	return map[string]interface{}{
		"key":   key,
		"match": map[string]interface{}{"value": value},
	}
}

// pointID derives a stable UUID from the product ID. Qdrant point IDs
// must be UUIDs or unsigned integers; the original product ID travels in
// the payload.
func pointID(productID string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(productID)).String()
}

func (s *Store) collectionPath(suffix string) string {
	return "/collections/" + s.collection + suffix
}

// do executes one REST call and returns the status code and raw body.
func (s *Store) do(ctx context.Context, method, path string, body interface{}) (int, []byte, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, nil, fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, reader)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("api-key", s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, err
	}
	return resp.StatusCode, raw, nil
}

type searchResponse struct {
	Result []searchHit `json:"result"`
}

type searchHit struct {
	ID      jsonID  `json:"id"`
	Score   float64 `json:"score"`
	Payload payload `json:"payload"`
}

// jsonID tolerates both string and integer point IDs.
type jsonID string

func (id *jsonID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*id = jsonID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = jsonID(n.String())
	return nil
}

// payload mirrors the stored product, tolerating the looser shapes older
// ingests left behind (list fields stored as delimited strings, missing
// stock flags).
type payload struct {
	ProductID   string     `json:"product_id"`
	Title       string     `json:"title"`
	Brand       *string    `json:"brand"`
	Category    *string    `json:"category"`
	Price       float64    `json:"price"`
	Colors      stringList `json:"colors"`
	Sizes       stringList `json:"sizes"`
	ImageURL    *string    `json:"image_url"`
	Description *string    `json:"description"`
	InStock     *bool      `json:"in_stock"`
}

func (p payload) toProduct(fallbackID string) models.Product {
	prod := models.Product{
		ProductID:   p.ProductID,
		Title:       p.Title,
		Brand:       p.Brand,
		Category:    p.Category,
		Price:       p.Price,
		Colors:      p.Colors,
		Sizes:       p.Sizes,
		ImageURL:    p.ImageURL,
		Description: p.Description,
		InStock:     p.InStock == nil || *p.InStock,
	}
	if prod.ProductID == "" {
		prod.ProductID = fallbackID
	}
	if prod.Title == "" {
		prod.Title = "Unknown Product"
	}
	return prod
}

// stringList accepts either a JSON array of strings or a single
// semicolon-delimited string.
type stringList []string

func (l *stringList) UnmarshalJSON(data []byte) error {
	if len(data) == 0 || string(data) == "null" {
		*l = nil
		return nil
	}
	if data[0] == '[' {
		var items []string
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		*l = items
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	var items []string
	for _, part := range strings.Split(s, ";") {
		if part = strings.TrimSpace(part); part != "" {
			items = append(items, part)
		}
	}
	*l = items
	return nil
}
