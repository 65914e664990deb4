package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound          = errors.New("job not found")
	ErrTooManyActiveJobs = errors.New("too many active jobs")
	ErrInvalidArgument   = errors.New("invalid argument")
)
