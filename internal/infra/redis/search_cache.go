package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"reddit-repost-assistant/internal/domain/ports/adapter"
	"reddit-repost-assistant/internal/infra/metrics"

	"github.com/rs/zerolog"
)

var _ adapter.ForumSearchClient = (*CachedSearchClient)(nil)

// CachedSearchClient memoizes forum search pages for a short TTL, so repeated
// checks of similar candidates within the window do not re-hit the forum API.
// Cache failures degrade to the delegate, never to an error.
type CachedSearchClient struct {
	delegate adapter.ForumSearchClient
	client   RedisClient
	ttl      time.Duration
	log      *zerolog.Logger
}

func NewCachedSearchClient(delegate adapter.ForumSearchClient, client RedisClient, ttl time.Duration, log *zerolog.Logger) *CachedSearchClient {
	return &CachedSearchClient{delegate: delegate, client: client, ttl: ttl, log: log}
}

func (c *CachedSearchClient) Search(ctx context.Context, subreddit, query, after string, limit int) (adapter.Page, error) {
	key := fmt.Sprintf("search_page:%s:%s:%s:%d", subreddit, query, after, limit)
	return c.cached(ctx, key, func() (adapter.Page, error) {
		return c.delegate.Search(ctx, subreddit, query, after, limit)
	})
}

func (c *CachedSearchClient) Recent(ctx context.Context, subreddit, after string, limit int) (adapter.Page, error) {
	key := fmt.Sprintf("recent_page:%s:%s:%d", subreddit, after, limit)
	return c.cached(ctx, key, func() (adapter.Page, error) {
		return c.delegate.Recent(ctx, subreddit, after, limit)
	})
}

func (c *CachedSearchClient) cached(ctx context.Context, key string, fetch func() (adapter.Page, error)) (adapter.Page, error) {
	if data, err := c.client.Get(ctx, key); err == nil {
		var page adapter.Page
		if err := json.Unmarshal([]byte(data), &page); err == nil {
			metrics.IncSearchCache(true)
			return page, nil
		}
		_ = c.client.Del(ctx, key)
	} else if !IsNil(err) {
		c.log.Warn().Err(err).Str("key", key).Msg("search cache read failed")
	}
	metrics.IncSearchCache(false)

	page, err := fetch()
	if err != nil {
		return adapter.Page{}, err
	}
	if data, err := json.Marshal(page); err == nil {
		if err := c.client.Set(ctx, key, data, c.ttl); err != nil {
			c.log.Warn().Err(err).Str("key", key).Msg("search cache write failed")
		}
	}
	return page, nil
}
