// Package reddit implements the forum search collaborator against Reddit's
// public JSON API. Unauthenticated access works with just a user agent;
// configuring app credentials switches to OAuth for higher limits.
package reddit

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"reddit-repost-assistant/internal/config"
	"reddit-repost-assistant/internal/domain/ports/adapter"
	"reddit-repost-assistant/internal/infra/metrics"
)

const (
	publicBaseURL = "https://www.reddit.com"
	oauthBaseURL  = "https://oauth.reddit.com"
	tokenURL      = "https://www.reddit.com/api/v1/access_token"
	httpTimeout   = 15 * time.Second
)

var _ adapter.ForumSearchClient = (*RealClient)(nil)

type RealClient struct {
	cfg    config.RedditConfig
	client *http.Client

	mu          sync.Mutex
	token       string
	tokenExpiry time.Time
}

func NewRealClient(cfg config.RedditConfig) *RealClient {
	return &RealClient{
		cfg:    cfg,
		client: &http.Client{Timeout: httpTimeout},
	}
}

// listing mirrors Reddit's Listing envelope.
type listing struct {
	Data struct {
		After    string `json:"after"`
		Children []struct {
			Data struct {
				Subreddit  string  `json:"subreddit"`
				ID         string  `json:"id"`
				Permalink  string  `json:"permalink"`
				Title      string  `json:"title"`
				URL        string  `json:"url"`
				CreatedUTC float64 `json:"created_utc"`
			} `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

func (c *RealClient) Search(ctx context.Context, subreddit, query, after string, limit int) (adapter.Page, error) {
	q := url.Values{}
	q.Set("q", query)
	q.Set("restrict_sr", "1")
	q.Set("sort", "new")
	q.Set("t", "year")
	q.Set("limit", strconv.Itoa(limit))
	if after != "" {
		q.Set("after", after)
	}
	page, err := c.fetchListing(ctx, fmt.Sprintf("/r/%s/search.json", url.PathEscape(subreddit)), q)
	metrics.IncForumCall("search", err == nil)
	return page, err
}

func (c *RealClient) Recent(ctx context.Context, subreddit, after string, limit int) (adapter.Page, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	if after != "" {
		q.Set("after", after)
	}
	page, err := c.fetchListing(ctx, fmt.Sprintf("/r/%s/new.json", url.PathEscape(subreddit)), q)
	metrics.IncForumCall("recent", err == nil)
	return page, err
}

func (c *RealClient) fetchListing(ctx context.Context, path string, q url.Values) (adapter.Page, error) {
	base := publicBaseURL
	token, err := c.accessToken(ctx)
	if err != nil {
		return adapter.Page{}, err
	}
	if token != "" {
		base = oauthBaseURL
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+path+"?"+q.Encode(), nil)
	if err != nil {
		return adapter.Page{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return adapter.Page{}, fmt.Errorf("reddit %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return adapter.Page{}, fmt.Errorf("reddit %s: status %d: %s", path, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var l listing
	if err := json.NewDecoder(resp.Body).Decode(&l); err != nil {
		return adapter.Page{}, fmt.Errorf("decode listing: %w", err)
	}

	page := adapter.Page{After: l.Data.After}
	for _, ch := range l.Data.Children {
		d := ch.Data
		page.Posts = append(page.Posts, adapter.Post{
			Subreddit:  d.Subreddit,
			ID:         d.ID,
			Permalink:  publicBaseURL + d.Permalink,
			Title:      d.Title,
			URL:        d.URL,
			CreatedUTC: d.CreatedUTC,
		})
	}
	return page, nil
}

// accessToken returns a cached app-only OAuth token, refreshing it when it is
// within a minute of expiry. Returns "" when no credentials are configured.
func (c *RealClient) accessToken(ctx context.Context) (string, error) {
	if c.cfg.ClientID == "" || c.cfg.ClientSecret == "" {
		return "", nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.token != "" && time.Until(c.tokenExpiry) > time.Minute {
		return c.token, nil
	}

	form := url.Values{}
	if c.cfg.Username != "" && c.cfg.Password != "" {
		form.Set("grant_type", "password")
		form.Set("username", c.cfg.Username)
		form.Set("password", c.cfg.Password)
	} else {
		form.Set("grant_type", "client_credentials")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("build token request: %w", err)
	}
	req.SetBasicAuth(c.cfg.ClientID, c.cfg.ClientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", c.cfg.UserAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		metrics.IncForumCall("token", false)
		return "", fmt.Errorf("reddit token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.IncForumCall("token", false)
		return "", fmt.Errorf("reddit token: status %d", resp.StatusCode)
	}

	var tok struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		metrics.IncForumCall("token", false)
		return "", fmt.Errorf("decode token: %w", err)
	}
	metrics.IncForumCall("token", true)

	c.token = tok.AccessToken
	c.tokenExpiry = time.Now().Add(time.Duration(tok.ExpiresIn) * time.Second)
	return c.token, nil
}
