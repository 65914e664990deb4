package store

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"reddit-repost-assistant/internal/domain"
	"reddit-repost-assistant/internal/domain/model"
)

func newJob(id string) *model.CheckJob {
	return &model.CheckJob{
		JobID:              id,
		Status:             model.CheckStatusStarting,
		Subreddits:         []string{"pics"},
		LookbackDays:       90,
		MinTitleSimilarity: 0.78,
		StartedAt:          time.Now().UTC(),
	}
}

func TestCreateEnforcesCap(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := NewMemoryJobStore()

	if err := s.Create(ctx, newJob("a"), 2); err != nil {
		t.Fatalf("create a: %v", err)
	}
	if err := s.Create(ctx, newJob("b"), 2); err != nil {
		t.Fatalf("create b: %v", err)
	}
	if err := s.Create(ctx, newJob("c"), 2); !errors.Is(err, domain.ErrTooManyActiveJobs) {
		t.Fatalf("expected ErrTooManyActiveJobs, got %v", err)
	}

	// terminal jobs free capacity
	if err := s.Finish(ctx, "a", model.CheckStatusCompleted, nil, time.Now().UTC()); err != nil {
		t.Fatalf("finish a: %v", err)
	}
	if err := s.Create(ctx, newJob("c"), 2); err != nil {
		t.Fatalf("create c after finish: %v", err)
	}
}

func TestCreateCapIsAtomicUnderConcurrency(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := NewMemoryJobStore()
	const maxActive = 5

	var wg sync.WaitGroup
	var mu sync.Mutex
	admitted := 0
	for i := 0; i < 40; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			job := newJob(string(rune('a' + n%26)))
			job.JobID = job.JobID + "-" + string(rune('0'+n/26))
			if err := s.Create(ctx, job, maxActive); err == nil {
				mu.Lock()
				admitted++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	if admitted != maxActive {
		t.Fatalf("admitted %d jobs, want exactly %d", admitted, maxActive)
	}
	jobs, _ := s.List(ctx)
	if len(jobs) != maxActive {
		t.Fatalf("store holds %d jobs, want %d", len(jobs), maxActive)
	}
}

func TestGetReturnsCopy(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := NewMemoryJobStore()
	if err := s.Create(ctx, newJob("a"), 10); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := s.Get(ctx, "a")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	got.Status = model.CheckStatusFailed
	got.Subreddits[0] = "mutated"

	again, _ := s.Get(ctx, "a")
	if again.Status != model.CheckStatusStarting {
		t.Fatalf("mutating a snapshot leaked into the store: %s", again.Status)
	}
	if again.Subreddits[0] != "pics" {
		t.Fatalf("mutating a snapshot slice leaked into the store: %v", again.Subreddits)
	}
}

func TestGetNotFound(t *testing.T) {
	t.Parallel()

	s := NewMemoryJobStore()
	if _, err := s.Get(context.Background(), "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := s.SetStatus(context.Background(), "missing", model.CheckStatusRunning); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound from SetStatus, got %v", err)
	}
}

func TestFinishStampsFailure(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := NewMemoryJobStore()
	if err := s.Create(ctx, newJob("a"), 10); err != nil {
		t.Fatalf("create: %v", err)
	}

	at := time.Now().UTC()
	failure := &model.JobFailure{Code: model.FailureForumSearch, Message: "boom"}
	if err := s.Finish(ctx, "a", model.CheckStatusFailed, failure, at); err != nil {
		t.Fatalf("finish: %v", err)
	}

	got, _ := s.Get(ctx, "a")
	if got.Status != model.CheckStatusFailed {
		t.Fatalf("status = %s, want failed", got.Status)
	}
	if got.FinishedAt == nil || !got.FinishedAt.Equal(at) {
		t.Fatalf("FinishedAt = %v, want %v", got.FinishedAt, at)
	}
	if got.Failure == nil || got.Failure.Code != model.FailureForumSearch || got.Failure.Message != "boom" {
		t.Fatalf("failure = %+v", got.Failure)
	}
}
