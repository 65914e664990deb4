package model

import "time"

type DraftStatus string

const (
	DraftStatusNeedsReview DraftStatus = "needs_review"
	DraftStatusReady       DraftStatus = "draft_ready"
)

// Draft is the generated recommendation on whether it is safe to post the
// candidate. Computed exactly once per job, at the end of a successful scan.
type Draft struct {
	Title          string      `json:"title"`
	URL            string      `json:"url,omitempty"`
	Notes          string      `json:"notes,omitempty"`
	Status         DraftStatus `json:"status"`
	Recommendation string      `json:"recommendation"`
	GeneratedAt    time.Time   `json:"generated_at"`
}

// ResultsDocument is the final output written once per completed job. Before
// completion (or after failure) callers see the placeholder form: job id,
// current status, empty results.
type ResultsDocument struct {
	JobID              string      `json:"job_id"`
	Status             CheckStatus `json:"status"`
	Subreddits         []string    `json:"subreddits,omitempty"`
	LookbackDays       int         `json:"lookback_days,omitempty"`
	MinTitleSimilarity float64     `json:"min_title_similarity,omitempty"`
	Candidate          *Candidate  `json:"candidate,omitempty"`
	Results            []Hit       `json:"results"`
	Draft              *Draft      `json:"draft,omitempty"`
	CompletedAt        *time.Time  `json:"completed_at,omitempty"`
}
