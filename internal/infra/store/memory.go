// Package store holds the in-process job table. Jobs accumulate for the
// process lifetime; there is no eviction.
package store

import (
	"context"
	"sync"
	"time"

	"reddit-repost-assistant/internal/domain"
	"reddit-repost-assistant/internal/domain/model"
	"reddit-repost-assistant/internal/domain/ports/repository"
)

var _ repository.CheckJobStore = (*MemoryJobStore)(nil)

type MemoryJobStore struct {
	mu   sync.Mutex
	jobs map[string]*model.CheckJob
}

func NewMemoryJobStore() *MemoryJobStore {
	return &MemoryJobStore{jobs: make(map[string]*model.CheckJob)}
}

// Create admits the job only when fewer than maxActive jobs are non-terminal.
// The count and the insert happen under one lock acquisition, so concurrent
// submissions can never transiently exceed the cap.
func (s *MemoryJobStore) Create(ctx context.Context, job *model.CheckJob, maxActive int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	active := 0
	for _, j := range s.jobs {
		if !j.Status.Terminal() {
			active++
		}
	}
	if active >= maxActive {
		return domain.ErrTooManyActiveJobs
	}
	s.jobs[job.JobID] = copyJob(job)
	return nil
}

func (s *MemoryJobStore) Get(ctx context.Context, jobID string) (*model.CheckJob, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	j, ok := s.jobs[jobID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return copyJob(j), nil
}

func (s *MemoryJobStore) List(ctx context.Context) ([]*model.CheckJob, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*model.CheckJob, 0, len(s.jobs))
	for _, j := range s.jobs {
		out = append(out, copyJob(j))
	}
	return out, nil
}

func (s *MemoryJobStore) SetStatus(ctx context.Context, jobID string, status model.CheckStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	j, ok := s.jobs[jobID]
	if !ok {
		return domain.ErrNotFound
	}
	j.Status = status
	return nil
}

func (s *MemoryJobStore) Finish(ctx context.Context, jobID string, status model.CheckStatus, failure *model.JobFailure, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	j, ok := s.jobs[jobID]
	if !ok {
		return domain.ErrNotFound
	}
	j.Status = status
	j.FinishedAt = &at
	if failure != nil {
		f := *failure
		j.Failure = &f
	}
	return nil
}

func copyJob(j *model.CheckJob) *model.CheckJob {
	cp := *j
	cp.Subreddits = append([]string(nil), j.Subreddits...)
	if j.FinishedAt != nil {
		t := *j.FinishedAt
		cp.FinishedAt = &t
	}
	if j.Failure != nil {
		f := *j.Failure
		cp.Failure = &f
	}
	return &cp
}
