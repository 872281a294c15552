package render

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/rueidis"
)

// DefaultCacheTTL is how long a rendered question stays in Redis.
const DefaultCacheTTL = time.Hour

// RedisCache is the Cache backed by Redis.
type RedisCache struct {
	redis rueidis.Client
	ttl   time.Duration
}

// NewRedisCache creates a new RedisCache. A non-positive ttl means DefaultCacheTTL.
func NewRedisCache(redis rueidis.Client, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}

	return &RedisCache{redis: redis, ttl: ttl}
}

func (c *RedisCache) Get(ctx context.Context, key string) (*RenderedQuestion, error) {
	reply := c.redis.Do(ctx, c.redis.B().Get().Key(key).Build())
	if err := reply.Error(); err != nil {
		if rueidis.IsRedisNil(err) {
			return nil, ErrCacheMiss
		}
		return nil, err
	}

	var rendered RenderedQuestion
	if err := reply.DecodeJSON(&rendered); err != nil {
		return nil, fmt.Errorf("decode rendered question: %w", err)
	}

	return &rendered, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, rendered *RenderedQuestion) error {
	data, err := json.Marshal(rendered)
	if err != nil {
		return fmt.Errorf("marshal rendered question: %w", err)
	}

	reply := c.redis.Do(ctx, c.redis.B().Set().Key(key).Value(rueidis.BinaryString(data)).Ex(c.ttl).Build())
	if reply.Error() != nil {
		return reply.Error()
	}

	return nil
}

func (c *RedisCache) DeleteQuestion(ctx context.Context, questionID int) error {
	var cursor uint64 = 0

	for {
		cursorReply := c.redis.Do(ctx, c.redis.B().Scan().Cursor(cursor).Match(questionKeyPattern(questionID)).Build())
		if cursorReply.Error() != nil {
			return fmt.Errorf("list cached renderings: %w", cursorReply.Error())
		}

		scanEntry, err := cursorReply.AsScanEntry()
		if err != nil {
			return fmt.Errorf("parse cached rendering keys: %w", err)
		}

		if len(scanEntry.Elements) > 0 {
			delReply := c.redis.Do(ctx, c.redis.B().Del().Key(scanEntry.Elements...).Build())
			if delReply.Error() != nil {
				return fmt.Errorf("delete cached renderings: %w", delReply.Error())
			}
		}

		if scanEntry.Cursor == 0 {
			break
		}

		cursor = scanEntry.Cursor
	}

	return nil
}

var _ Cache = (*RedisCache)(nil)
