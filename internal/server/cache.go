package server

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/ragloop/selfrag/internal/graph"
)

const answerTTL = 10 * time.Minute

// AnswerCache keeps accepted answers in Redis, keyed by index generation and
// question, so a re-asked question skips the whole loop until the next
// upload invalidates it. A nil Redis client disables caching.
type AnswerCache struct {
	client *redis.Client
}

func NewAnswerCache(client *redis.Client) *AnswerCache {
	return &AnswerCache{client: client}
}

func answerKey(generation uint64, question string, temperature float64) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s|%g", question, temperature)))
	return fmt.Sprintf("answer:%d:%x", generation, sum)
}

func (c *AnswerCache) Get(ctx context.Context, generation uint64, question string, temperature float64) (*graph.Result, bool) {
	if c.client == nil {
		return nil, false
	}
	data, err := c.client.Get(ctx, answerKey(generation, question, temperature)).Result()
	if err != nil {
		return nil, false
	}
	var result graph.Result
	if err := json.Unmarshal([]byte(data), &result); err != nil {
		return nil, false
	}
	return &result, true
}

func (c *AnswerCache) Set(ctx context.Context, generation uint64, question string, temperature float64, result *graph.Result) error {
	if c.client == nil {
		return nil
	}
	data, err := json.Marshal(result)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, answerKey(generation, question, temperature), data, answerTTL).Err()
}
