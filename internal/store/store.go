// Package store records lint, draft and revise runs in SQLite.
package store

import (
	"context"

	"github.com/rcliao/writer-harness/internal/model"
)

// RecordParams holds parameters for recording a run.
type RecordParams struct {
	Kind       model.RunKind
	Scene      string
	Source     string
	Provider   string
	Model      string
	Style      []model.Violation
	Continuity []model.Violation
}

// ListParams holds parameters for listing runs.
type ListParams struct {
	Scene string
	Kind  model.RunKind
	Limit int
}

// Store defines the run history interface.
type Store interface {
	// Record stores a run and its violations. Runs of the same kind for the
	// same scene are versioned; the new run supersedes the previous one.
	Record(ctx context.Context, p RecordParams) (*model.Run, error)

	// Get returns a run with its violations.
	Get(ctx context.Context, id string) (*model.Run, error)

	// List returns runs newest first, without violations.
	List(ctx context.Context, p ListParams) ([]model.Run, error)

	// Delete removes a run, its violations and its links.
	Delete(ctx context.Context, id string) error

	// Close closes the store.
	Close() error
}
