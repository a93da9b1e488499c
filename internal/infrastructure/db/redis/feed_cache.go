package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/flocknet/social-api/internal/core/domain"
)

const (
	feedKey = "feed:all"
	feedTTL = 30 * time.Second
)

// FeedCache caches the rendered all-posts feed in Redis as a JSON blob.
// Every mutation of the post set invalidates it; a short TTL bounds
// staleness if an invalidation is lost. All failures are soft: a broken
// cache degrades to repository reads, never to request errors.
type FeedCache struct {
	client *redis.Client
	log    zerolog.Logger
}

func NewFeedCache(client *redis.Client, log zerolog.Logger) *FeedCache {
	return &FeedCache{client: client, log: log}
}

func (c *FeedCache) GetAll(ctx context.Context) ([]*domain.Post, bool) {
	raw, err := c.client.Get(ctx, feedKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.Warn().Err(err).Msg("feed cache read failed")
		}
		return nil, false
	}

	var posts []*domain.Post
	if err := json.Unmarshal(raw, &posts); err != nil {
		c.log.Warn().Err(err).Msg("feed cache payload corrupt, dropping")
		_ = c.client.Del(ctx, feedKey).Err()
		return nil, false
	}
	return posts, true
}

func (c *FeedCache) SetAll(ctx context.Context, posts []*domain.Post) {
	raw, err := json.Marshal(posts)
	if err != nil {
		c.log.Warn().Err(err).Msg("feed cache encode failed")
		return
	}
	if err := c.client.Set(ctx, feedKey, raw, feedTTL).Err(); err != nil {
		c.log.Warn().Err(err).Msg("feed cache write failed")
	}
}

func (c *FeedCache) Invalidate(ctx context.Context) {
	if err := c.client.Del(ctx, feedKey).Err(); err != nil {
		c.log.Warn().Err(err).Msg("feed cache invalidation failed")
	}
}
