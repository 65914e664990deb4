package model

// Hit is one previously-posted item found during a scan, with its computed
// similarity to the candidate. Never mutated after creation.
type Hit struct {
	Subreddit       string  `json:"subreddit"`
	ID              string  `json:"id"`
	Permalink       string  `json:"permalink"`
	Title           string  `json:"title"`
	URL             string  `json:"url,omitempty"`
	CreatedUTC      float64 `json:"created_utc"`
	TitleSimilarity float64 `json:"title_similarity"`
	SameURL         bool    `json:"same_url"`
}
