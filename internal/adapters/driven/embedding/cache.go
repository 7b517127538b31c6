package embedding

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/custodia-labs/sercha-manuals/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-manuals/internal/logger"
)

var _ driven.EmbeddingService = (*Cached)(nil)

// DefaultKeyPrefix namespaces cached vectors in Redis.
const DefaultKeyPrefix = "emb:"

// Cached serves repeated texts from Redis.
// Cache failures are logged and fall through to the inner service.
type Cached struct {
	inner  driven.EmbeddingService
	client *goredis.Client
	ttl    time.Duration
	prefix string
}

// NewCached wraps inner with a Redis cache. Close closes both inner and client.
func NewCached(inner driven.EmbeddingService, client *goredis.Client, ttl time.Duration) *Cached {
	return &Cached{inner: inner, client: client, ttl: ttl, prefix: DefaultKeyPrefix}
}

// key hashes model and text so vectors from different models never mix.
func (c *Cached) key(text string) string {
	hash := sha256.Sum256([]byte(c.inner.ModelName() + "\x00" + text))
	return c.prefix + hex.EncodeToString(hash[:])
}

func (c *Cached) Embed(ctx context.Context, text string) ([]float32, error) {
	out, err := c.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return out[0], nil
}

// EmbedBatch reads all keys with one MGET and embeds only the misses.
func (c *Cached) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	embeddings := make([][]float32, len(texts))
	keys := make([]string, 0, len(texts))
	slots := make([]int, 0, len(texts))
	for i, text := range texts {
		if strings.TrimSpace(text) == "" {
			embeddings[i] = []float32{}
			continue
		}
		keys = append(keys, c.key(text))
		slots = append(slots, i)
	}
	if len(keys) == 0 {
		return embeddings, nil
	}

	values, err := c.client.MGet(ctx, keys...).Result()
	if err != nil {
		logger.Warnw("embedding cache read failed", "error", err)
		values = make([]any, len(keys))
	}

	var (
		missTexts []string
		missSlots []int
		missKeys  []string
	)
	for j, v := range values {
		if s, ok := v.(string); ok {
			var vec []float32
			if err := json.Unmarshal([]byte(s), &vec); err == nil {
				embeddings[slots[j]] = vec
				continue
			}
			logger.Warnw("dropping corrupt cached embedding", "key", keys[j])
		}
		missTexts = append(missTexts, texts[slots[j]])
		missSlots = append(missSlots, slots[j])
		missKeys = append(missKeys, keys[j])
	}

	logger.Debugw("embedding cache lookup", "total", len(keys), "misses", len(missTexts))
	if len(missTexts) == 0 {
		return embeddings, nil
	}

	fresh, err := c.inner.EmbedBatch(ctx, missTexts)
	if err != nil {
		return nil, err
	}
	if len(fresh) != len(missTexts) {
		return nil, errors.New("embedding provider returned a mismatched batch")
	}

	pipe := c.client.Pipeline()
	for j, vec := range fresh {
		embeddings[missSlots[j]] = vec
		if len(vec) == 0 {
			continue
		}
		data, err := json.Marshal(vec)
		if err != nil {
			continue
		}
		pipe.Set(ctx, missKeys[j], data, c.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		logger.Warnw("embedding cache write failed", "error", err)
	}

	return embeddings, nil
}

func (c *Cached) Dimensions() int   { return c.inner.Dimensions() }
func (c *Cached) ModelName() string { return c.inner.ModelName() }

// Ping reports the provider's health. An unreachable Redis is only logged.
func (c *Cached) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		logger.Warnw("embedding cache unreachable", "error", err)
	}
	return c.inner.Ping(ctx)
}

func (c *Cached) Close() error {
	return errors.Join(c.inner.Close(), c.client.Close())
}
