package model

import "time"

type CheckStatus string

const (
	CheckStatusStarting  CheckStatus = "starting"
	CheckStatusRunning   CheckStatus = "running"
	CheckStatusCompleted CheckStatus = "completed"
	CheckStatusFailed    CheckStatus = "failed"
)

// Terminal reports whether the status admits no further transitions.
func (s CheckStatus) Terminal() bool {
	return s == CheckStatusCompleted || s == CheckStatusFailed
}

// FailureCode classifies where inside a background scan a job died.
type FailureCode string

const (
	FailureSchedule      FailureCode = "schedule"
	FailureLoadCandidate FailureCode = "load_candidate"
	FailureForumSearch   FailureCode = "forum_search"
	FailurePersist       FailureCode = "persist"
)

// JobFailure is recorded on the job when a scan fails. It is kept on the
// record for logs and operators but is not part of the public job status
// payload.
type JobFailure struct {
	Code    FailureCode
	Message string
}

// CheckJob is one duplicate-check request and its lifecycle state. Mutated
// only by the orchestrator through the job store's lock.
type CheckJob struct {
	JobID              string
	Status             CheckStatus
	Subreddits         []string
	LookbackDays       int
	MinTitleSimilarity float64
	StartedAt          time.Time
	FinishedAt         *time.Time
	CandidatePath      string
	ResultPath         string
	Failure            *JobFailure
}
