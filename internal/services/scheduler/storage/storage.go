// Package storage defines persistence contracts for scheduler run history.
package storage

import (
	"context"
	"time"
)

// RunRecord is one durable rotation-slot outcome from a scheduler sweep.
type RunRecord struct {
	ID       int64
	Date     string
	GameType string
	Outcome  string
	// PuzzleID is empty for skipped and failed slots.
	PuzzleID string
	// Detail carries the error text for failed slots.
	Detail    string
	CreatedAt time.Time
}

// RunStore persists scheduler sweep outcomes.
type RunStore interface {
	RecordRun(ctx context.Context, record RunRecord) error
	ListRuns(ctx context.Context, limit int) ([]RunRecord, error)
}
