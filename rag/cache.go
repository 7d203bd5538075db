package rag

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const cacheKeyPrefix = "newsrag:answer:"

// AnswerCache keeps generated answers in Redis for a bounded TTL. A nil
// cache is valid and means caching is disabled; all methods are nil-safe.
// Cache failures only degrade to uncached operation.
type AnswerCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewAnswerCache(addr string, ttl time.Duration, logger *zap.Logger) *AnswerCache {
	if addr == "" {
		return nil
	}
	return &AnswerCache{
		client: redis.NewClient(&redis.Options{Addr: addr}),
		ttl:    ttl,
		logger: logger,
	}
}

func (c *AnswerCache) Get(ctx context.Context, question, model string) (*Answer, bool) {
	if c == nil {
		return nil, false
	}

	data, err := c.client.Get(ctx, cacheKey(question, model)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("answer cache get failed", zap.Error(err))
		}
		return nil, false
	}

	var answer Answer
	if err := json.Unmarshal(data, &answer); err != nil {
		return nil, false
	}
	return &answer, true
}

func (c *AnswerCache) Set(ctx context.Context, question, model string, answer *Answer) {
	if c == nil {
		return
	}

	data, err := json.Marshal(answer)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, cacheKey(question, model), data, c.ttl).Err(); err != nil {
		c.logger.Warn("answer cache set failed", zap.Error(err))
	}
}

func cacheKey(question, model string) string {
	sum := sha256.Sum256([]byte(question + "\x00" + model))
	return cacheKeyPrefix + hex.EncodeToString(sum[:16])
}
