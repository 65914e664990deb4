// Package storage implements the blob store on the local filesystem: three
// areas under one data root, one JSON document per job in each.
package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"reddit-repost-assistant/internal/domain/ports/repository"
)

const maxIDLen = 120

var _ repository.BlobStore = (*FSBlobStore)(nil)

type FSBlobStore struct {
	candidatesDir string
	checksDir     string
	draftsDir     string
}

// NewFSBlobStore creates the area directories under dataDir.
func NewFSBlobStore(dataDir string) (*FSBlobStore, error) {
	s := &FSBlobStore{
		candidatesDir: filepath.Join(dataDir, "candidates"),
		checksDir:     filepath.Join(dataDir, "checks"),
		draftsDir:     filepath.Join(dataDir, "drafts"),
	}
	for _, d := range []string{s.candidatesDir, s.checksDir, s.draftsDir} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return nil, fmt.Errorf("create data dir %s: %w", d, err)
		}
	}
	return s, nil
}

func (s *FSBlobStore) CandidatePath(jobID string) string {
	return filepath.Join(s.candidatesDir, SafeFilename(jobID)+".json")
}

func (s *FSBlobStore) ResultPath(jobID string) string {
	return filepath.Join(s.checksDir, SafeFilename(jobID)+"_results.json")
}

func (s *FSBlobStore) DraftPath(jobID string) string {
	return filepath.Join(s.draftsDir, SafeFilename(jobID)+"_draft.json")
}

func (s *FSBlobStore) Put(ctx context.Context, path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write blob %s: %w", path, err)
	}
	return nil
}

func (s *FSBlobStore) Get(ctx context.Context, path string) ([]byte, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read blob %s: %w", path, err)
	}
	return b, nil
}

func (s *FSBlobStore) Exists(ctx context.Context, path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

// SafeFilename keeps alphanumerics, '-' and '_', replaces everything else
// with '_' and caps the length.
func SafeFilename(s string) string {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			out = append(out, byte(r))
		default:
			out = append(out, '_')
		}
		if len(out) >= maxIDLen {
			break
		}
	}
	return string(out)
}
