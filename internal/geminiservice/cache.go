package geminiservice

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// NarrativeCache stores generated narratives by prompt key.
type NarrativeCache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// CacheKey identifies a prompt. Identical prompts share one narrative.
func CacheKey(prompt string) string {
	sum := sha256.Sum256([]byte(prompt))
	return hex.EncodeToString(sum[:])
}

// LRUCache keeps narratives in process memory.
type LRUCache struct {
	cache *lru.Cache[string, string]
}

func NewLRUCache(size int) (*LRUCache, error) {
	c, err := lru.New[string, string](size)
	if err != nil {
		return nil, fmt.Errorf("create narrative LRU: %w", err)
	}
	return &LRUCache{cache: c}, nil
}

func (c *LRUCache) Get(_ context.Context, key string) (string, bool, error) {
	v, ok := c.cache.Get(key)
	return v, ok, nil
}

func (c *LRUCache) Set(_ context.Context, key, value string) error {
	c.cache.Add(key, value)
	return nil
}

const redisKeyPrefix = "vitalog:narrative:"

// RedisCache shares narratives between instances and expires them after ttl.
type RedisCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewRedisCache connects to addr and verifies it with a ping.
func NewRedisCache(ctx context.Context, addr, password string, ttl time.Duration) (*RedisCache, *redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           0,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return NewRedisCacheFromClient(client, ttl), client, nil
}

func NewRedisCacheFromClient(client redis.Cmdable, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

func (c *RedisCache) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := c.client.Get(ctx, redisKeyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key, value string) error {
	return c.client.Set(ctx, redisKeyPrefix+key, value, c.ttl).Err()
}

// CachedNarrator answers repeated prompts from cache. Cache failures are
// logged and never fail the request.
type CachedNarrator struct {
	gen   Generator
	cache NarrativeCache
}

func NewCachedNarrator(gen Generator, cache NarrativeCache) *CachedNarrator {
	return &CachedNarrator{gen: gen, cache: cache}
}

func (n *CachedNarrator) GenerateNarrative(ctx context.Context, pc PromptContext) (string, error) {
	logger := zerolog.Ctx(ctx)
	prompt := BuildNarrativePrompt(pc)
	key := CacheKey(prompt)

	if cached, ok, err := n.cache.Get(ctx, key); err != nil {
		logger.Warn().Err(err).Msg("Narrative cache read failed")
	} else if ok {
		logger.Debug().Str("cache_key", key).Msg("Narrative cache hit")
		return cached, nil
	}

	text, err := n.gen.Generate(ctx, prompt)
	if err != nil {
		return "", err
	}

	if err := n.cache.Set(ctx, key, text); err != nil {
		logger.Warn().Err(err).Msg("Narrative cache write failed")
	}
	return text, nil
}
