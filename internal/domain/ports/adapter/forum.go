package adapter

import "context"

// Post is one forum submission as returned by a search client.
type Post struct {
	Subreddit  string  `json:"subreddit"`
	ID         string  `json:"id"`
	Permalink  string  `json:"permalink"`
	Title      string  `json:"title"`
	URL        string  `json:"url,omitempty"`
	CreatedUTC float64 `json:"created_utc"`
}

// Page is one page of search results. After is the opaque pagination cursor;
// empty means the listing is exhausted.
type Page struct {
	Posts []Post `json:"posts"`
	After string `json:"after,omitempty"`
}

// ForumSearchClient is the read-only forum collaborator. Implementations page
// lazily: the orchestrator decides how far to walk and how fast.
type ForumSearchClient interface {
	// Search returns posts in subreddit matching query, newest first.
	Search(ctx context.Context, subreddit, query, after string, limit int) (Page, error)
	// Recent returns the most recent posts in subreddit, used when the
	// candidate title yields no query terms.
	Recent(ctx context.Context, subreddit, after string, limit int) (Page, error)
}
