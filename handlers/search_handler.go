package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/bc144/sf-agent/models"
	"github.com/bc144/sf-agent/utils"
)

// SearchRequest is the body of POST /api/v1/search
type SearchRequest struct {
	Query       string             `json:"query" validate:"required"`
	Constraints *models.Constraint `json:"constraints,omitempty"`
	K           int                `json:"k,omitempty" validate:"omitempty,gte=1,lte=50"`
}

// SearchResponse lists the matched product cards in rank order
type SearchResponse struct {
	Items []ProductCard `json:"items"`
}

// SearchService defines the interface for structured product search
type SearchService interface {
	// Search embeds the query, filters the index, and explains each hit
	Search(ctx context.Context, q models.Query) ([]models.MatchResult, error)
}

// SearchHandler handles structured search HTTP requests
type SearchHandler struct {
	service SearchService
	logger  *zap.Logger
}

// NewSearchHandler creates a new SearchHandler
func NewSearchHandler(service SearchService, logger *zap.Logger) *SearchHandler {
	return &SearchHandler{
		service: service,
		logger:  logger,
	}
}

// HandleSearch handles POST /api/v1/search
// Thin handler following GrantPulse pattern
func (h *SearchHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// Parse request body
	var searchReq SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&searchReq); err != nil {
		h.logger.Warn("failed to parse search request body", zap.Error(err))
		_ = utils.WriteBadRequest(w, "Invalid request body", nil)
		return
	}

	// Validate request
	if err := utils.ValidateStruct(&searchReq); err != nil {
		h.logger.Warn("search request validation failed", zap.Error(err))
		HandleValidationError(w, err, h.logger)
		return
	}

	// Build service query; missing constraints mean unfiltered search
	query := models.Query{
		Text: searchReq.Query,
		K:    searchReq.K,
	}
	if searchReq.Constraints != nil {
		query.Constraints = *searchReq.Constraints
	}

	results, err := h.service.Search(ctx, query)
	if err != nil {
		h.logger.Error("search failed", zap.Error(err))
		HandleServiceError(w, err, h.logger)
		return
	}

	h.logger.Info("search successful",
		zap.Int("k", query.K),
		zap.Int("results", len(results)))

	if err := utils.WriteOK(w, SearchResponse{Items: toProductCards(results)}); err != nil {
		h.logger.Error("failed to write search response", zap.Error(err))
	}
}
