package embedding

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math"
	"time"

	"github.com/redis/rueidis"
	"go.uber.org/zap"

	"github.com/bc144/sf-agent/internal/observability"
)

// cacheStore is the key-value surface the cached embedder needs. Get
// returns nil data with no error on a miss.
type cacheStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// redisStore adapts a rueidis client to cacheStore.
type redisStore struct {
	client rueidis.Client
}

func (s *redisStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Do(ctx, s.client.B().Get().Key(key).Build()).AsBytes()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			return nil, nil
		}
		return nil, err
	}
	return data, nil
}

func (s *redisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	cmd := s.client.B().Set().Key(key).Value(string(value)).Ex(ttl).Build()
	return s.client.Do(ctx, cmd).Error()
}

// CachedEmbedder wraps another embedder with a write-through cache keyed
// on model and text hash, so switching models never serves stale
// vectors. Cache failures degrade to the inner embedder; they are
// logged, never returned.
type CachedEmbedder struct {
	inner  Embedder
	store  cacheStore
	model  string
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedEmbedder wires the cache onto a rueidis client.
func NewCachedEmbedder(inner Embedder, client rueidis.Client, model string, ttl time.Duration, logger *zap.Logger) *CachedEmbedder {
	return &CachedEmbedder{
		inner:  inner,
		store:  &redisStore{client: client},
		model:  model,
		ttl:    ttl,
		logger: logger,
	}
}

// Embed returns the cached vector for the text, or embeds and stores it.
func (c *CachedEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	key := cacheKey(c.model, text)

	data, err := c.store.Get(ctx, key)
	if err != nil {
		c.logger.Warn("embedding cache read failed", zap.Error(err))
	}
	if data != nil {
		vector, decodeErr := bytesToVector(data)
		if decodeErr == nil {
			observability.EmbeddingCacheTotal.WithLabelValues("hit").Inc()
			return vector, nil
		}
		c.logger.Warn("embedding cache entry corrupt", zap.Error(decodeErr))
	}
	observability.EmbeddingCacheTotal.WithLabelValues("miss").Inc()

	vector, err := c.inner.Embed(ctx, text)
	if err != nil {
		return nil, err
	}

	if err := c.store.Set(ctx, key, vectorToBytes(vector), c.ttl); err != nil {
		c.logger.Warn("embedding cache write failed", zap.Error(err))
	}
	return vector, nil
}

// EmbedBatch goes straight to the inner embedder. Batches are ingestion
// traffic where each document is usually seen once.
func (c *CachedEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	return c.inner.EmbedBatch(ctx, texts)
}

// cacheKey hashes the text so arbitrary-length queries produce fixed,
// safe Redis keys. The model sits in the key unhashed to keep entries
// inspectable per model.
func cacheKey(model, text string) string {
	sum := sha256.Sum256([]byte(text))
	return "emb:" + model + ":" + hex.EncodeToString(sum[:])
}

// vectorToBytes encodes float32 values little-endian, 4 bytes each.
func vectorToBytes(vector []float32) []byte {
	buf := make([]byte, 4*len(vector))
	for i, v := range vector {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}

func bytesToVector(data []byte) ([]float32, error) {
	if len(data) == 0 || len(data)%4 != 0 {
		return nil, fmt.Errorf("cache entry has invalid length %d", len(data))
	}
	vector := make([]float32, len(data)/4)
	for i := range vector {
		vector[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return vector, nil
}
