package repository

import "context"

// BlobStore persists per-job JSON documents. Paths are opaque to callers;
// the three helpers hand out the location for each document kind so that
// concurrent jobs never contend on the same object.
type BlobStore interface {
	CandidatePath(jobID string) string
	ResultPath(jobID string) string
	DraftPath(jobID string) string

	Put(ctx context.Context, path string, data []byte) error
	Get(ctx context.Context, path string) ([]byte, error)
	Exists(ctx context.Context, path string) (bool, error)
}
