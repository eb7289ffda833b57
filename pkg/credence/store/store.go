package store

import (
	"context"
	"time"

	"credence/pkg/credence/inference"
)

// Store persists answered queries so they can be listed, re-read and
// reported on later
type Store interface {
	Close() error

	SaveRun(ctx context.Context, r Run) error
	GetRun(ctx context.Context, id string) (Run, bool, error)
	// ListRuns returns up to limit runs, newest first
	ListRuns(ctx context.Context, limit int) ([]Run, error)
}

// Run is one persisted inference computation
type Run struct {
	ID        string // ULID, so lexical order is creation order
	CreatedAt time.Time
	Network   string
	Query     string
	Evidence  inference.Evidence
	Posterior inference.Distribution
	Trace     string
}
