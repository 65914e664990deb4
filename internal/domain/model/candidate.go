package model

import "time"

// Candidate is the content item being checked for prior duplication.
// Immutable once submitted.
type Candidate struct {
	Title string `json:"title"`
	URL   string `json:"url,omitempty"`
	Notes string `json:"notes,omitempty"`
}

// CandidateDocument is what gets persisted to the blob store at submission.
type CandidateDocument struct {
	Candidate Candidate `json:"candidate"`
	CreatedAt time.Time `json:"created_at"`
}
