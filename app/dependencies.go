package app

import (
	"context"
	"fmt"

	"github.com/redis/rueidis"
	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/bc144/sf-agent/config"
	"github.com/bc144/sf-agent/internal/embedding"
	"github.com/bc144/sf-agent/internal/observability"
	"github.com/bc144/sf-agent/internal/vectorindex"
	"github.com/bc144/sf-agent/internal/vectorindex/memory"
	"github.com/bc144/sf-agent/internal/vectorindex/pinecone"
	"github.com/bc144/sf-agent/internal/vectorindex/qdrant"
	"github.com/bc144/sf-agent/services/catalog"
	"github.com/bc144/sf-agent/services/intent"
	"github.com/bc144/sf-agent/services/search"
)

// Dependencies holds all application dependencies following the GrantPulse pattern.
// This is the central wiring point for dependency injection.
type Dependencies struct {
	// Infrastructure
	Config *config.Config
	Logger *zap.Logger

	// Pipeline components
	Embedder embedding.Embedder
	Index    vectorindex.Index

	// Services
	Intent  *intent.Service
	Search  *search.Service
	Catalog *catalog.Service

	// Held for shutdown; nil when the embedding cache is disabled
	redis rueidis.Client
}

// NewDependencies creates and wires up all application dependencies.
// This follows the GrantPulse pattern of centralized dependency injection.
func NewDependencies(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
	}

	observability.RegisterPipelineMetrics()

	deps.initEmbedder(cfg)

	if err := deps.initIndex(ctx, cfg); err != nil {
		return nil, fmt.Errorf("failed to initialize vector index: %w", err)
	}

	deps.initServices(cfg)

	logger.Info("all dependencies initialized successfully")
	return deps, nil
}

// initEmbedder builds the embedding provider and, when Redis is
// configured, wraps it with the write-through cache. A cache that cannot
// connect degrades to the bare embedder instead of blocking startup.
func (d *Dependencies) initEmbedder(cfg *config.Config) {
	embedder := embedding.NewOpenAIEmbedder(embedding.OpenAIConfig{
		APIKey:     cfg.OpenAI.APIKey,
		BaseURL:    cfg.OpenAI.BaseURL,
		Model:      cfg.OpenAI.EmbedModel,
		Dimensions: cfg.OpenAI.EmbedDimensions,
	}, d.Logger)

	if !cfg.Redis.CacheEnabled() {
		d.Embedder = embedder
		d.Logger.Info("embedding cache disabled")
		return
	}

	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress:  []string{cfg.Redis.Addr},
		DisableCache: true,
	})
	if err != nil {
		d.Logger.Warn("redis unavailable, continuing without embedding cache",
			zap.String("addr", cfg.Redis.Addr),
			zap.Error(err))
		d.Embedder = embedder
		return
	}

	d.redis = client
	d.Embedder = embedding.NewCachedEmbedder(embedder, client, cfg.OpenAI.EmbedModel, cfg.Redis.CacheTTL, d.Logger)
	d.Logger.Info("embedding cache enabled",
		zap.String("addr", cfg.Redis.Addr),
		zap.Duration("ttl", cfg.Redis.CacheTTL))
}

// initIndex selects the vector index backend and prepares its resources
func (d *Dependencies) initIndex(ctx context.Context, cfg *config.Config) error {
	switch cfg.Vector.Backend {
	case config.BackendQdrant:
		d.Index = qdrant.New(qdrant.Config{
			URL:        cfg.Vector.Qdrant.URL,
			APIKey:     cfg.Vector.Qdrant.APIKey,
			Collection: cfg.Vector.Qdrant.Collection,
			Dimension:  cfg.OpenAI.EmbedDimensions,
			Timeout:    cfg.Vector.Qdrant.Timeout,
		}, d.Logger)

	case config.BackendPinecone:
		store, err := pinecone.New(ctx, pinecone.Config{
			APIKey:    cfg.Vector.Pinecone.APIKey,
			Index:     cfg.Vector.Pinecone.Index,
			Namespace: cfg.Vector.Pinecone.Namespace,
		}, cfg.OpenAI.EmbedDimensions, d.Logger)
		if err != nil {
			return fmt.Errorf("failed to connect to pinecone: %w", err)
		}
		d.Index = store

	case config.BackendMemory:
		d.Index = memory.New(cfg.OpenAI.EmbedDimensions)

	default:
		return fmt.Errorf("unknown vector backend %q", cfg.Vector.Backend)
	}

	if err := d.Index.Init(ctx); err != nil {
		return fmt.Errorf("vector index init failed: %w", err)
	}

	d.Logger.Info("vector index ready",
		zap.String("backend", cfg.Vector.Backend),
		zap.Int("dimension", cfg.OpenAI.EmbedDimensions))
	return nil
}

// initServices wires the service layer on top of the pipeline components
func (d *Dependencies) initServices(cfg *config.Config) {
	clientCfg := openai.DefaultConfig(cfg.OpenAI.APIKey)
	if cfg.OpenAI.BaseURL != "" {
		clientCfg.BaseURL = cfg.OpenAI.BaseURL
	}
	chatClient := openai.NewClientWithConfig(clientCfg)

	d.Intent = intent.NewService(chatClient, intent.Config{
		Model:       cfg.OpenAI.IntentModel,
		Temperature: float32(cfg.Intent.Temperature),
		MaxTokens:   cfg.Intent.MaxTokens,
		Timeout:     cfg.Intent.Timeout,
	}, d.Logger)

	d.Search = search.NewService(d.Embedder, d.Index, d.Intent, d.Logger).
		WithAskLimit(cfg.Intent.AskLimit)

	d.Catalog = catalog.NewService(d.Embedder, d.Index, d.Logger)

	d.Logger.Info("services initialized")
}

// Close gracefully shuts down all dependencies
func (d *Dependencies) Close(ctx context.Context) error {
	d.Logger.Info("shutting down dependencies")

	if d.redis != nil {
		d.redis.Close()
		d.Logger.Info("redis connection closed")
	}

	// Sync logger
	if d.Logger != nil {
		_ = d.Logger.Sync()
	}

	return nil
}
