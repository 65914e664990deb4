package reddit

import (
	"context"

	"reddit-repost-assistant/internal/domain/ports/adapter"
)

var _ adapter.ForumSearchClient = (*NoopClient)(nil)

// NoopClient returns empty listings. Used in dev mode when no Reddit
// credentials are configured, so scans complete with zero hits instead of
// hammering the public API.
type NoopClient struct{}

func NewNoopClient() *NoopClient { return &NoopClient{} }

func (NoopClient) Search(ctx context.Context, subreddit, query, after string, limit int) (adapter.Page, error) {
	return adapter.Page{}, nil
}

func (NoopClient) Recent(ctx context.Context, subreddit, after string, limit int) (adapter.Page, error) {
	return adapter.Page{}, nil
}
