package render

import (
	"context"
	"errors"
	"fmt"
	"strconv"
)

// ErrCacheMiss is returned by Cache.Get when the key is not cached.
var ErrCacheMiss = errors.New("render cache miss")

// Cache stores rendered questions.
type Cache interface {
	Get(ctx context.Context, key string) (*RenderedQuestion, error)
	Set(ctx context.Context, key string, rendered *RenderedQuestion) error
	// DeleteQuestion drops every cached rendering of a question.
	DeleteQuestion(ctx context.Context, questionID int) error
}

const cacheKeyPrefix = "render:question:"

// CacheKey returns the key of one version of a question. The version is the
// update time, so saving a question moves it to a new key.
func CacheKey(questionID int, updatedAtUnixNano int64) string {
	return cacheKeyPrefix + strconv.Itoa(questionID) + ":" + strconv.FormatInt(updatedAtUnixNano, 10)
}

func questionKeyPattern(questionID int) string {
	return fmt.Sprintf("%s%d:*", cacheKeyPrefix, questionID)
}

// NopCache caches nothing.
type NopCache struct{}

func (NopCache) Get(context.Context, string) (*RenderedQuestion, error) {
	return nil, ErrCacheMiss
}

func (NopCache) Set(context.Context, string, *RenderedQuestion) error {
	return nil
}

func (NopCache) DeleteQuestion(context.Context, int) error {
	return nil
}

var _ Cache = NopCache{}
