package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/bc144/sf-agent/models"
	"github.com/bc144/sf-agent/utils"
)

// AskRequest is the body of POST /api/v1/ask
type AskRequest struct {
	Query string `json:"query" validate:"required"`
}

// ConversationalResponse carries the assistant reply plus the products
// it refers to
type ConversationalResponse struct {
	Response string        `json:"response"`
	Items    []ProductCard `json:"items"`
}

// AskService defines the interface for conversational product discovery
type AskService interface {
	// Ask interprets the utterance and returns a reply with ranked items
	Ask(ctx context.Context, utterance string) (models.ConversationalResult, error)
}

// AskHandler handles conversational HTTP requests
type AskHandler struct {
	service AskService
	logger  *zap.Logger
}

// NewAskHandler creates a new AskHandler
func NewAskHandler(service AskService, logger *zap.Logger) *AskHandler {
	return &AskHandler{
		service: service,
		logger:  logger,
	}
}

// HandleAsk handles POST /api/v1/ask
// Thin handler following GrantPulse pattern
func (h *AskHandler) HandleAsk(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// Parse request body
	var askReq AskRequest
	if err := json.NewDecoder(r.Body).Decode(&askReq); err != nil {
		h.logger.Warn("failed to parse ask request body", zap.Error(err))
		_ = utils.WriteBadRequest(w, "Invalid request body", nil)
		return
	}

	// Validate request
	if err := utils.ValidateStruct(&askReq); err != nil {
		h.logger.Warn("ask request validation failed", zap.Error(err))
		HandleValidationError(w, err, h.logger)
		return
	}

	result, err := h.service.Ask(ctx, askReq.Query)
	if err != nil {
		h.logger.Error("ask failed", zap.Error(err))
		HandleServiceError(w, err, h.logger)
		return
	}

	h.logger.Info("ask successful", zap.Int("results", len(result.Items)))

	response := ConversationalResponse{
		Response: result.Reply,
		Items:    toProductCards(result.Items),
	}
	if err := utils.WriteOK(w, response); err != nil {
		h.logger.Error("failed to write ask response", zap.Error(err))
	}
}
