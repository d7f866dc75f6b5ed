package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bc144/sf-agent/models"
	"github.com/bc144/sf-agent/services"
)

// MockAskService is a mock implementation of AskService
type MockAskService struct {
	mock.Mock
}

func (m *MockAskService) Ask(ctx context.Context, utterance string) (models.ConversationalResult, error) {
	args := m.Called(ctx, utterance)
	return args.Get(0).(models.ConversationalResult), args.Error(1)
}

func TestHandleAsk(t *testing.T) {
	logger := zap.NewNop()

	t.Run("successful ask", func(t *testing.T) {
		mockService := new(MockAskService)
		handler := NewAskHandler(mockService, logger)

		result := models.ConversationalResult{
			Reply: "Great choice! Here are some black footwear options for you.",
			Items: []models.MatchResult{
				{
					Product: models.Product{
						ProductID: "P010",
						Title:     "Leather Boots",
						Price:     120,
						Colors:    []string{"Black"},
						Sizes:     []string{"9", "10"},
						InStock:   true,
					},
					Score: 0.88,
					Why:   "Available in Black",
				},
			},
		}

		mockService.On("Ask", mock.Anything, "I like black, what shoes do you have?").
			Return(result, nil)

		body, _ := json.Marshal(AskRequest{Query: "I like black, what shoes do you have?"})
		req := httptest.NewRequest(http.MethodPost, "/api/v1/ask", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		w := httptest.NewRecorder()
		handler.HandleAsk(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var response ConversationalResponse
		err := json.NewDecoder(w.Body).Decode(&response)
		require.NoError(t, err)

		assert.Equal(t, "Great choice! Here are some black footwear options for you.", response.Response)
		require.Len(t, response.Items, 1)
		assert.Equal(t, "P010", response.Items[0].ProductID)
		assert.Equal(t, "Available in Black", response.Items[0].Why)

		mockService.AssertExpectations(t)
	})

	t.Run("empty items serialize as empty array", func(t *testing.T) {
		mockService := new(MockAskService)
		handler := NewAskHandler(mockService, logger)

		result := models.ConversationalResult{
			Reply: "I'd love to help! Unfortunately, I couldn't find products matching those exact criteria.",
			Items: nil,
		}
		mockService.On("Ask", mock.Anything, mock.Anything).Return(result, nil)

		body, _ := json.Marshal(AskRequest{Query: "neon purple parka under $5"})
		req := httptest.NewRequest(http.MethodPost, "/api/v1/ask", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		w := httptest.NewRecorder()
		handler.HandleAsk(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var raw map[string]interface{}
		err := json.NewDecoder(w.Body).Decode(&raw)
		require.NoError(t, err)
		assert.Equal(t, []interface{}{}, raw["items"])
	})

	t.Run("invalid request body", func(t *testing.T) {
		mockService := new(MockAskService)
		handler := NewAskHandler(mockService, logger)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/ask", bytes.NewReader([]byte("not json")))
		req.Header.Set("Content-Type", "application/json")

		w := httptest.NewRecorder()
		handler.HandleAsk(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("validation error - missing query", func(t *testing.T) {
		mockService := new(MockAskService)
		handler := NewAskHandler(mockService, logger)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/ask", bytes.NewReader([]byte(`{}`)))
		req.Header.Set("Content-Type", "application/json")

		w := httptest.NewRecorder()
		handler.HandleAsk(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("service error - index unavailable", func(t *testing.T) {
		mockService := new(MockAskService)
		handler := NewAskHandler(mockService, logger)

		mockService.On("Ask", mock.Anything, mock.Anything).
			Return(models.ConversationalResult{}, services.ErrIndexUnavailable)

		body, _ := json.Marshal(AskRequest{Query: "anything comfy"})
		req := httptest.NewRequest(http.MethodPost, "/api/v1/ask", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		w := httptest.NewRecorder()
		handler.HandleAsk(w, req)

		assert.Equal(t, http.StatusBadGateway, w.Code)
		mockService.AssertExpectations(t)
	})
}
