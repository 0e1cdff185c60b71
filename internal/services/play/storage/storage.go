// Package storage defines persistence contracts for play service progress.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/puzzlebox-games/puzzlebox/internal/puzzle"
)

// ErrNotFound indicates a requested progress snapshot is missing.
var ErrNotFound = errors.New("snapshot not found")

// Progress captures the resumable state of one live puzzle session. The
// play service writes a snapshot after every applied mutation, so the
// record always reflects the last settled board.
type Progress struct {
	SessionID string
	PuzzleID  string
	GameType  puzzle.GameType
	// EncodedState is the session's JSON state view at snapshot time.
	EncodedState []byte
	MoveCount    int
	Complete     bool
	UpdatedAt    time.Time
}

// SnapshotStore persists progress snapshots across service restarts.
type SnapshotStore interface {
	Put(ctx context.Context, progress Progress) error
	Get(ctx context.Context, sessionID string) (Progress, error)
	Close() error
}
