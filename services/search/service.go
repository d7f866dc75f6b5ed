// Package search runs the product discovery pipeline: embed the query,
// filter and rank against the vector index, and explain every hit.
package search

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/bc144/sf-agent/internal/embedding"
	"github.com/bc144/sf-agent/internal/observability"
	"github.com/bc144/sf-agent/internal/vectorindex"
	"github.com/bc144/sf-agent/models"
	"github.com/bc144/sf-agent/services"
	"github.com/bc144/sf-agent/services/intent"
)

const (
	// DefaultK is the result count when the caller does not ask for one.
	DefaultK = 8
	// MaxK caps the result count of a single search.
	MaxK = 50

	defaultAskLimit = 6

	// noResultsSuffix is appended to the conversational reply when the
	// extracted intent produced an empty result set.
	noResultsSuffix = " Unfortunately, I couldn't find products matching those exact criteria. Try browsing our catalog or adjusting your preferences!"
)

// IntentExtractor interprets a raw utterance into a structured intent.
type IntentExtractor interface {
	Extract(ctx context.Context, utterance string) intent.Intent
}

// Service answers structured searches and natural-language asks.
type Service struct {
	embedder embedding.Embedder
	index    vectorindex.Index
	intenter IntentExtractor
	askLimit int
	logger   *zap.Logger
}

// NewService creates a search service over the given embedder and index.
func NewService(embedder embedding.Embedder, index vectorindex.Index, intenter IntentExtractor, logger *zap.Logger) *Service {
	return &Service{
		embedder: embedder,
		index:    index,
		intenter: intenter,
		askLimit: defaultAskLimit,
		logger:   logger,
	}
}

// WithAskLimit overrides how many products an ask returns. Values
// outside 1..MaxK keep the default.
func (s *Service) WithAskLimit(n int) *Service {
	if n >= 1 && n <= MaxK {
		s.askLimit = n
	}
	return s
}

// Search embeds the query text, retrieves up to K matching products from
// the index, and attaches a rationale to each hit. Validation problems
// are reported before any provider is contacted.
func (s *Service) Search(ctx context.Context, q models.Query) ([]models.MatchResult, error) {
	if q.K == 0 {
		q.K = DefaultK
	}
	if err := validateQuery(q); err != nil {
		return nil, err
	}

	vector, err := s.embedder.Embed(ctx, q.Text)
	if err != nil {
		return nil, services.WrapExternal("embedding provider error", err)
	}

	hits, err := s.index.Query(ctx, vector, q.Constraints, q.K)
	if err != nil {
		return nil, services.WrapExternal("vector index query failed", err)
	}

	results := make([]models.MatchResult, 0, len(hits))
	for _, hit := range hits {
		results = append(results, models.MatchResult{
			Product: hit.Product,
			Score:   hit.Score,
			Why:     Explain(hit.Product, q.Constraints),
		})
	}

	observability.SearchResultsCount.Observe(float64(len(results)))
	s.logger.Debug("search completed",
		zap.Int("k", q.K),
		zap.Int("results", len(results)),
		zap.Bool("filtered", !q.Constraints.IsEmpty()),
	)
	return results, nil
}

// Ask interprets the utterance, searches with the extracted intent, and
// wraps the results in a conversational reply. Intent extraction never
// fails an ask; index or embedding outages still do.
func (s *Service) Ask(ctx context.Context, utterance string) (models.ConversationalResult, error) {
	if strings.TrimSpace(utterance) == "" {
		err := services.NewDomainError(services.ErrorTypeValidation, "query text cannot be empty", nil)
		return models.ConversationalResult{}, err.WithDetail("query", "must not be empty")
	}

	in := s.intenter.Extract(ctx, utterance)

	items, err := s.Search(ctx, models.Query{
		Text:        in.SearchQuery,
		Constraints: in.Constraints,
		K:           s.askLimit,
	})
	if err != nil {
		return models.ConversationalResult{}, err
	}

	reply := in.Reply
	if !in.Fallback && len(items) == 0 {
		reply += noResultsSuffix
	}

	return models.ConversationalResult{Reply: reply, Items: items}, nil
}

// validateQuery collects every problem with the request into a single
// validation error so callers see all field issues at once.
func validateQuery(q models.Query) error {
	err := services.NewDomainError(services.ErrorTypeValidation, "invalid search request", nil)

	if strings.TrimSpace(q.Text) == "" {
		err.WithDetail("query", "must not be empty")
	}
	if q.K < 1 || q.K > MaxK {
		err.WithDetail("k", fmt.Sprintf("must be between 1 and %d", MaxK))
	}

	c := q.Constraints
	if c.PriceMin != nil && *c.PriceMin < 0 {
		err.WithDetail("price_min", "must not be negative")
	}
	if c.PriceMax != nil && *c.PriceMax < 0 {
		err.WithDetail("price_max", "must not be negative")
	}
	if c.PriceMin != nil && c.PriceMax != nil && *c.PriceMin > *c.PriceMax {
		err.WithDetail("price_min", "must not exceed price_max")
	}

	if len(err.Details) == 0 {
		return nil
	}
	return err
}
