package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Vector index backends selectable through VECTOR_BACKEND.
const (
	BackendQdrant   = "qdrant"
	BackendPinecone = "pinecone"
	BackendMemory   = "memory"
)

// Config represents the complete application configuration
type Config struct {
	Server        ServerConfig
	OpenAI        OpenAIConfig
	Intent        IntentConfig
	Vector        VectorConfig
	Redis         RedisConfig
	CORS          CORSConfig
	Observability ObservabilityConfig
	Environment   string
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// OpenAIConfig holds OpenAI provider configuration, shared by the
// embedder and the intent extractor.
type OpenAIConfig struct {
	APIKey          string
	BaseURL         string
	EmbedModel      string
	IntentModel     string
	EmbedDimensions int
}

// IntentConfig tunes the conversational intent extraction call
type IntentConfig struct {
	Timeout     time.Duration
	MaxTokens   int
	Temperature float64
	AskLimit    int
}

// VectorConfig selects and configures the vector index backend
type VectorConfig struct {
	Backend  string
	Qdrant   QdrantConfig
	Pinecone PineconeConfig
}

// QdrantConfig holds Qdrant connection configuration
type QdrantConfig struct {
	URL        string
	APIKey     string
	Collection string
	Timeout    time.Duration
}

// PineconeConfig holds Pinecone connection configuration
type PineconeConfig struct {
	APIKey    string
	Index     string
	Namespace string
}

// RedisConfig holds the optional embedding cache configuration.
// An empty Addr disables the cache entirely.
type RedisConfig struct {
	Addr     string
	CacheTTL time.Duration
}

// CORSConfig holds cross-origin configuration for the HTTP surface
type CORSConfig struct {
	AllowedOrigins []string
}

// ObservabilityConfig holds monitoring and logging configuration
type ObservabilityConfig struct {
	LogLevel string
}

// New creates a Config instance by loading environment variables
func New() (*Config, error) {
	// Load .env if present; real environments configure the process
	// directly and have no file to load.
	_ = godotenv.Load(".env")

	cfg := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Server: ServerConfig{
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			Port:            getPort(),
			ReadTimeout:     getEnvAsDuration("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getEnvAsDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:     getEnvAsDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		OpenAI: OpenAIConfig{
			APIKey:          getEnv("OPENAI_API_KEY", ""),
			BaseURL:         getEnv("OPENAI_BASE_URL", ""),
			EmbedModel:      getEnv("OPENAI_EMBED_MODEL", "text-embedding-3-small"),
			IntentModel:     getEnv("OPENAI_INTENT_MODEL", "gpt-4o-mini"),
			EmbedDimensions: getEnvAsInt("EMBEDDING_DIMENSIONS", 384),
		},
		Intent: IntentConfig{
			Timeout:     getEnvAsDuration("INTENT_TIMEOUT", 10*time.Second),
			MaxTokens:   getEnvAsInt("INTENT_MAX_TOKENS", 300),
			Temperature: getEnvAsFloat("INTENT_TEMPERATURE", 0.7),
			AskLimit:    getEnvAsInt("ASK_RESULT_LIMIT", 6),
		},
		Vector: VectorConfig{
			Backend: strings.ToLower(getEnv("VECTOR_BACKEND", BackendQdrant)),
			Qdrant: QdrantConfig{
				URL:        getEnv("QDRANT_URL", "http://localhost:6333"),
				APIKey:     getEnv("QDRANT_API_KEY", ""),
				Collection: getEnv("QDRANT_COLLECTION", "products"),
				Timeout:    getEnvAsDuration("QDRANT_TIMEOUT", 10*time.Second),
			},
			Pinecone: PineconeConfig{
				APIKey:    getEnv("PINECONE_API_KEY", ""),
				Index:     getEnv("PINECONE_INDEX", "products"),
				Namespace: getEnv("PINECONE_NAMESPACE", ""),
			},
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			CacheTTL: getEnvAsDuration("EMBED_CACHE_TTL", 24*time.Hour),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),
		},
		Observability: ObservabilityConfig{
			LogLevel: getEnv("LOG_LEVEL", "info"),
		},
	}

	// Validate the configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks if all required configuration fields are set
func (c *Config) Validate() error {
	switch c.Vector.Backend {
	case BackendQdrant:
		if c.Vector.Qdrant.URL == "" {
			return fmt.Errorf("QDRANT_URL is required for the qdrant backend")
		}
		if c.Vector.Qdrant.Collection == "" {
			return fmt.Errorf("QDRANT_COLLECTION is required for the qdrant backend")
		}
	case BackendPinecone:
		if c.Vector.Pinecone.APIKey == "" {
			return fmt.Errorf("PINECONE_API_KEY is required for the pinecone backend")
		}
		if c.Vector.Pinecone.Index == "" {
			return fmt.Errorf("PINECONE_INDEX is required for the pinecone backend")
		}
	case BackendMemory:
		// Nothing to configure.
	default:
		return fmt.Errorf("unknown vector backend %q (want qdrant, pinecone, or memory)", c.Vector.Backend)
	}

	if c.OpenAI.EmbedDimensions <= 0 {
		return fmt.Errorf("embedding dimensions must be positive, got %d", c.OpenAI.EmbedDimensions)
	}

	// The OpenAI key is what makes embedding and intent extraction work;
	// development tolerates its absence so the memory backend can run
	// without credentials.
	if c.IsProduction() && c.OpenAI.APIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required in production")
	}

	if c.Intent.AskLimit < 1 || c.Intent.AskLimit > 50 {
		return fmt.Errorf("ask result limit must be between 1 and 50, got %d", c.Intent.AskLimit)
	}

	if c.Observability.LogLevel == "" {
		return fmt.Errorf("log level is required")
	}

	return nil
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.Environment == "production" || c.Environment == "prod"
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development" || c.Environment == "dev"
}

// Address returns the HTTP server address
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// CacheEnabled reports whether the embedding cache should be wired in
func (c *RedisConfig) CacheEnabled() bool {
	return c.Addr != ""
}

// Helper functions

// getPort returns the server port from PORT or SERVER_PORT env vars (default: 8080)
func getPort() int {
	if value := os.Getenv("PORT"); value != "" {
		if p, err := strconv.Atoi(value); err == nil {
			return p
		}
	}
	if value := os.Getenv("SERVER_PORT"); value != "" {
		if p, err := strconv.Atoi(value); err == nil {
			return p
		}
	}
	return 8080
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	parts := strings.Split(valueStr, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
