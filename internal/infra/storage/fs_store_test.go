package storage

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
)

func TestSafeFilename(t *testing.T) {
	t.Parallel()

	cases := []struct{ in, want string }{
		{"abc123", "abc123"},
		{"a-b_c", "a-b_c"},
		{"../../etc/passwd", "______etc_passwd"},
		{"job id!", "job_id_"},
	}
	for _, c := range cases {
		if got := SafeFilename(c.in); got != c.want {
			t.Errorf("SafeFilename(%q) = %q, want %q", c.in, got, c.want)
		}
	}

	long := strings.Repeat("x", 500)
	if got := SafeFilename(long); len(got) != 120 {
		t.Errorf("long input: len = %d, want 120", len(got))
	}
}

func TestPathsLandInAreas(t *testing.T) {
	t.Parallel()

	s, err := NewFSBlobStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFSBlobStore: %v", err)
	}

	if got := filepath.Base(s.CandidatePath("j1")); got != "j1.json" {
		t.Errorf("candidate file = %q", got)
	}
	if got := filepath.Base(s.ResultPath("j1")); got != "j1_results.json" {
		t.Errorf("result file = %q", got)
	}
	if got := filepath.Base(s.DraftPath("j1")); got != "j1_draft.json" {
		t.Errorf("draft file = %q", got)
	}
	if !strings.Contains(s.CandidatePath("j1"), "candidates") ||
		!strings.Contains(s.ResultPath("j1"), "checks") ||
		!strings.Contains(s.DraftPath("j1"), "drafts") {
		t.Errorf("paths must live in their areas: %q %q %q",
			s.CandidatePath("j1"), s.ResultPath("j1"), s.DraftPath("j1"))
	}
}

func TestPutGetExists(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s, err := NewFSBlobStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFSBlobStore: %v", err)
	}
	path := s.ResultPath("job42")

	ok, err := s.Exists(ctx, path)
	if err != nil {
		t.Fatalf("Exists before put: %v", err)
	}
	if ok {
		t.Fatalf("blob must not exist before Put")
	}

	want := []byte(`{"job_id":"job42"}`)
	if err := s.Put(ctx, path, want); err != nil {
		t.Fatalf("Put: %v", err)
	}

	ok, err = s.Exists(ctx, path)
	if err != nil || !ok {
		t.Fatalf("Exists after put: ok=%v err=%v", ok, err)
	}

	got, err := s.Get(ctx, path)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != string(want) {
		t.Fatalf("Get = %q, want %q", got, want)
	}
}

func TestGetMissingBlob(t *testing.T) {
	t.Parallel()

	s, err := NewFSBlobStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFSBlobStore: %v", err)
	}
	if _, err := s.Get(context.Background(), s.ResultPath("nope")); err == nil {
		t.Fatalf("expected error for missing blob")
	}
}
