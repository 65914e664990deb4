package repository

import (
	"context"
	"time"

	"reddit-repost-assistant/internal/domain/model"
)

// CheckJobStore guards the job table. All status reads and writes go through
// one exclusive lock inside the implementation; Create performs the active-job
// cap check and the insert in a single critical section.
type CheckJobStore interface {
	// Create inserts job if fewer than maxActive jobs are in a non-terminal
	// state, otherwise returns domain.ErrTooManyActiveJobs.
	Create(ctx context.Context, job *model.CheckJob, maxActive int) error
	// Get returns a snapshot copy, or domain.ErrNotFound.
	Get(ctx context.Context, jobID string) (*model.CheckJob, error)
	// List returns snapshot copies of every job, in no particular order.
	List(ctx context.Context) ([]*model.CheckJob, error)
	// SetStatus moves the job to a non-terminal status.
	SetStatus(ctx context.Context, jobID string, status model.CheckStatus) error
	// Finish moves the job to a terminal status, stamping FinishedAt and
	// recording the failure, if any.
	Finish(ctx context.Context, jobID string, status model.CheckStatus, failure *model.JobFailure, at time.Time) error
}
