package embedding

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/bc144/sf-agent/internal/observability"
)

// maxRetries bounds how many times a transient provider error is retried.
const maxRetries = 3

// OpenAIConfig holds settings for the OpenAI embedder.
type OpenAIConfig struct {
	APIKey     string
	BaseURL    string
	Model      string
	Dimensions int
}

// OpenAIEmbedder produces embeddings through the OpenAI API. A non-zero
// Dimensions requests reduced-dimension output, which the
// text-embedding-3 family supports natively.
type OpenAIEmbedder struct {
	client     *openai.Client
	model      openai.EmbeddingModel
	dimensions int
	logger     *zap.Logger
}

// NewOpenAIEmbedder creates an embedder from the given config.
func NewOpenAIEmbedder(cfg OpenAIConfig, logger *zap.Logger) *OpenAIEmbedder {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return &OpenAIEmbedder{
		client:     openai.NewClientWithConfig(clientCfg),
		model:      openai.EmbeddingModel(cfg.Model),
		dimensions: cfg.Dimensions,
		logger:     logger,
	}
}

// Embed returns the vector for a single text.
func (e *OpenAIEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := e.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedBatch embeds all texts in a single provider call, retrying rate
// limits and provider 5xx with capped exponential backoff. Results are
// reordered by the response index so callers can rely on input order.
func (e *OpenAIEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	req := openai.EmbeddingRequest{
		Input:          texts,
		Model:          e.model,
		EncodingFormat: openai.EmbeddingEncodingFormatFloat,
		Dimensions:     e.dimensions,
	}

	var resp openai.EmbeddingResponse
	for attempt := 0; ; attempt++ {
		start := time.Now()
		r, err := e.client.CreateEmbeddings(ctx, req)
		observability.EmbeddingRequestDuration.Observe(time.Since(start).Seconds())

		if err == nil {
			resp = r
			observability.EmbeddingRequestsTotal.WithLabelValues("success").Inc()
			break
		}
		observability.EmbeddingRequestsTotal.WithLabelValues("error").Inc()

		if attempt >= maxRetries || !isTransientError(err) {
			return nil, parseAPIError(err)
		}
		e.logger.Warn("embedding request failed, retrying",
			zap.Int("attempt", attempt+1),
			zap.Error(err),
		)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(retryDelay(attempt)):
		}
	}

	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("embedding response has %d vectors, want %d", len(resp.Data), len(texts))
	}

	vectors := make([][]float32, len(texts))
	for _, item := range resp.Data {
		if item.Index < 0 || item.Index >= len(vectors) {
			return nil, fmt.Errorf("embedding response index %d out of range", item.Index)
		}
		vectors[item.Index] = item.Embedding
	}

	e.logger.Debug("texts embedded",
		zap.Int("count", len(texts)),
		zap.String("model", string(e.model)),
	)
	return vectors, nil
}

// isTransientError reports whether the provider error is worth retrying.
func isTransientError(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode == http.StatusTooManyRequests || apiErr.HTTPStatusCode >= 500
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode == http.StatusTooManyRequests || reqErr.HTTPStatusCode >= 500
	}
	return false
}

// retryDelay grows exponentially from 200ms, capped at 5s.
func retryDelay(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	d := 200 * time.Millisecond << attempt
	if d > 5*time.Second {
		d = 5 * time.Second
	}
	return d
}

// parseAPIError surfaces provider status codes instead of generic
// transport noise.
func parseAPIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("openai api error (status %d): %s", apiErr.HTTPStatusCode, apiErr.Message)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return fmt.Errorf("openai request failed (status %d): %w", reqErr.HTTPStatusCode, reqErr.Err)
	}
	return fmt.Errorf("openai embedding request: %w", err)
}
