// Package intent interprets free-form shopper utterances into structured
// search intents using an LLM with a guardrailed prompt.
package intent

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/bc144/sf-agent/internal/observability"
	"github.com/bc144/sf-agent/models"
)

const (
	defaultModel       = "gpt-4o-mini"
	defaultTemperature = 0.7
	defaultMaxTokens   = 300
	defaultTimeout     = 10 * time.Second

	// fallbackReply is used whenever extraction degrades, so the
	// conversational flow always has something to say.
	fallbackReply = "Here are some products I found for you!"

	// defaultReply covers the model omitting a conversational response.
	defaultReply = "Here are some products I think you'll love!"
)

// Intent is the structured outcome of interpreting an utterance.
// Fallback marks intents produced without the model's help.
type Intent struct {
	SearchQuery string
	Constraints models.Constraint
	Reply       string
	Fallback    bool
}

// ChatClient is the LLM surface used for extraction.
type ChatClient interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Config tunes the extraction call.
type Config struct {
	Model       string
	Temperature float32
	MaxTokens   int
	Timeout     time.Duration
}

// Service extracts search intents from natural language.
type Service struct {
	client ChatClient
	cfg    Config
	logger *zap.Logger
}

// NewService creates an intent extraction service. Zero config fields
// take the documented defaults.
func NewService(client ChatClient, cfg Config, logger *zap.Logger) *Service {
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = defaultTemperature
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = defaultMaxTokens
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}
	return &Service{client: client, cfg: cfg, logger: logger}
}

// Extract interprets the utterance. It never fails: any provider or
// parse problem degrades to a fallback intent that searches on the raw
// utterance with no filters.
func (s *Service) Extract(ctx context.Context, utterance string) Intent {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	start := time.Now()
	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.cfg.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: utterance},
		},
		Temperature: s.cfg.Temperature,
		MaxTokens:   s.cfg.MaxTokens,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	observability.IntentRequestDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		s.logger.Warn("intent extraction failed, using plain search",
			zap.Error(err),
		)
		return s.fallback(utterance)
	}
	if len(resp.Choices) == 0 {
		s.logger.Warn("intent extraction returned no choices")
		return s.fallback(utterance)
	}

	parsed, err := parseAgentOutput(resp.Choices[0].Message.Content)
	if err != nil {
		s.logger.Warn("intent output did not parse, using plain search",
			zap.Error(err),
		)
		return s.fallback(utterance)
	}

	intent := Intent{
		SearchQuery: parsed.SearchQuery,
		Constraints: parsed.Filters.toConstraint(),
		Reply:       parsed.ConversationalResponse,
	}
	if intent.SearchQuery == "" {
		intent.SearchQuery = utterance
	}
	if intent.Reply == "" {
		intent.Reply = defaultReply
	}

	// The system prompt forbids health and lifestyle advice, but model
	// output is untrusted. A reply that slips through the prompt is
	// replaced wholesale; the extracted filters stay usable.
	if violations := ScanReply(intent.Reply); len(violations) > 0 {
		observability.IntentRepliesScrubbedTotal.Inc()
		s.logger.Warn("guardrail violation in generated reply, reply replaced",
			zap.String("kind", string(violations[0].Kind)),
			zap.Int("violations", len(violations)),
		)
		intent.Reply = defaultReply
	}

	s.logger.Debug("intent extracted",
		zap.String("search_query", intent.SearchQuery),
		zap.Bool("has_filters", !intent.Constraints.IsEmpty()),
	)
	return intent
}

func (s *Service) fallback(utterance string) Intent {
	observability.IntentFallbacksTotal.Inc()
	return Intent{
		SearchQuery: utterance,
		Reply:       fallbackReply,
		Fallback:    true,
	}
}

// agentOutput mirrors the JSON structure the prompt demands.
type agentOutput struct {
	SearchQuery            string       `json:"search_query"`
	Filters                agentFilters `json:"filters"`
	ConversationalResponse string       `json:"conversational_response"`
}

type agentFilters struct {
	Category *string  `json:"category"`
	PriceMax *float64 `json:"price_max"`
	PriceMin *float64 `json:"price_min"`
	Color    *string  `json:"color"`
	Size     *string  `json:"size"`
	Brand    *string  `json:"brand"`
}

func (f agentFilters) toConstraint() models.Constraint {
	return models.Constraint{
		Category: f.Category,
		PriceMin: f.PriceMin,
		PriceMax: f.PriceMax,
		Color:    f.Color,
		Size:     f.Size,
		Brand:    f.Brand,
	}
}

// parseAgentOutput decodes the model output and rejects filters that
// could not drive a valid search, so bad model output degrades to the
// fallback instead of surfacing a validation error to the shopper.
func parseAgentOutput(content string) (agentOutput, error) {
	var out agentOutput
	if err := json.Unmarshal([]byte(content), &out); err != nil {
		return agentOutput{}, fmt.Errorf("decode agent output: %w", err)
	}

	f := out.Filters
	if f.PriceMin != nil && *f.PriceMin < 0 {
		return agentOutput{}, fmt.Errorf("agent filters: negative price_min %v", *f.PriceMin)
	}
	if f.PriceMax != nil && *f.PriceMax < 0 {
		return agentOutput{}, fmt.Errorf("agent filters: negative price_max %v", *f.PriceMax)
	}
	if f.PriceMin != nil && f.PriceMax != nil && *f.PriceMin > *f.PriceMax {
		return agentOutput{}, fmt.Errorf("agent filters: price_min %v exceeds price_max %v", *f.PriceMin, *f.PriceMax)
	}
	return out, nil
}
