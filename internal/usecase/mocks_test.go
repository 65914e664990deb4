package usecase

import (
	"context"
	"errors"
	"path"
	"strings"
	"sync"

	"reddit-repost-assistant/internal/domain/ports/adapter"
	"reddit-repost-assistant/internal/infra/worker"
)

// memBlobStore is a small in-memory blob store used by unit tests.
type memBlobStore struct {
	mu       sync.Mutex
	blobs    map[string][]byte
	putErr   error  // used by tests to simulate persistence failures
	putErrOn string // when set, putErr fires only for paths containing it
	getErr   error
}

func newMemBlobStore() *memBlobStore {
	return &memBlobStore{blobs: make(map[string][]byte)}
}

func (m *memBlobStore) CandidatePath(jobID string) string {
	return path.Join("candidates", jobID+".json")
}

func (m *memBlobStore) ResultPath(jobID string) string {
	return path.Join("checks", jobID+"_results.json")
}

func (m *memBlobStore) DraftPath(jobID string) string {
	return path.Join("drafts", jobID+"_draft.json")
}

func (m *memBlobStore) Put(ctx context.Context, p string, data []byte) error {
	if m.putErr != nil && (m.putErrOn == "" || strings.Contains(p, m.putErrOn)) {
		return m.putErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := append([]byte(nil), data...)
	m.blobs[p] = cp
	return nil
}

func (m *memBlobStore) Get(ctx context.Context, p string) ([]byte, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.blobs[p]
	if !ok {
		return nil, errors.New("blob not found: " + p)
	}
	return append([]byte(nil), b...), nil
}

func (m *memBlobStore) Exists(ctx context.Context, p string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.blobs[p]
	return ok, nil
}

func (m *memBlobStore) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.blobs)
}

// fakeForum serves a fixed set of posts as a single page for every subreddit.
type fakeForum struct {
	mu          sync.Mutex
	posts       []adapter.Post
	err         error
	searchCalls int
	recentCalls int
}

func (f *fakeForum) Search(ctx context.Context, subreddit, query, after string, limit int) (adapter.Page, error) {
	f.mu.Lock()
	f.searchCalls++
	f.mu.Unlock()
	if f.err != nil {
		return adapter.Page{}, f.err
	}
	return adapter.Page{Posts: f.posts}, nil
}

func (f *fakeForum) Recent(ctx context.Context, subreddit, after string, limit int) (adapter.Page, error) {
	f.mu.Lock()
	f.recentCalls++
	f.mu.Unlock()
	if f.err != nil {
		return adapter.Page{}, f.err
	}
	return adapter.Page{Posts: f.posts}, nil
}

// immediateScheduler runs each task on its own goroutine and lets tests wait
// for all scheduled work to finish.
type immediateScheduler struct {
	wg sync.WaitGroup
}

func (s *immediateScheduler) Submit(task worker.Task) error {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		_ = task(context.Background())
	}()
	return nil
}

func (s *immediateScheduler) WaitIdle() { s.wg.Wait() }

// stalledScheduler accepts tasks and never runs them; jobs stay in "starting".
type stalledScheduler struct{}

func (stalledScheduler) Submit(task worker.Task) error { return nil }

// rejectingScheduler refuses every submission.
type rejectingScheduler struct{}

func (rejectingScheduler) Submit(task worker.Task) error {
	return errors.New("worker queue full")
}
