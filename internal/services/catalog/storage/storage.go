// Package storage defines persistence contracts for catalog service state.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/puzzlebox-games/puzzlebox/internal/puzzle"
	"github.com/puzzlebox-games/puzzlebox/internal/services/catalog/core/filter"
)

// DateLayout is the civil date format used for daily assignment keys.
const DateLayout = "2006-01-02"

var (
	// ErrNotFound indicates a requested catalog record is missing.
	ErrNotFound = errors.New("record not found")
	// ErrAlreadyExists indicates a uniqueness-constrained record already exists.
	ErrAlreadyExists = errors.New("record already exists")
)

// PuzzleRecord stores one authored puzzle and its content payload.
type PuzzleRecord struct {
	ID         string
	GameType   puzzle.GameType
	Difficulty puzzle.Difficulty
	// Payload is the content document the engines are built from.
	Payload []byte
	// AssignedDate is the most recent civil date this puzzle served as a
	// daily, empty until the first assignment. Rotation orders by it.
	AssignedDate string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// DailyAssignment records which puzzle served as the daily for one
// game type on one civil date.
type DailyAssignment struct {
	Date       string
	GameType   puzzle.GameType
	PuzzleID   string
	AssignedAt time.Time
}

// PuzzlePage stores one page of puzzle records.
type PuzzlePage struct {
	Puzzles       []PuzzleRecord
	NextPageToken string
}

// ListQuery bundles the filter and paging inputs for a catalog listing.
type ListQuery struct {
	// Condition restricts rows; the zero value selects everything.
	Condition filter.SQLCondition
	// Filter is the raw expression the condition was translated from.
	// It is hashed into page tokens so a changed filter invalidates them.
	Filter    string
	PageSize  int
	PageToken string
	// Descending flips the ID ordering. Page tokens record the
	// direction they were minted under and reject the opposite one.
	Descending bool
}

// PuzzleStore persists authored puzzle records.
type PuzzleStore interface {
	CreatePuzzle(ctx context.Context, record PuzzleRecord) error
	GetPuzzle(ctx context.Context, id string) (PuzzleRecord, error)
	ListPuzzles(ctx context.Context, query ListQuery) (PuzzlePage, error)
	CountPuzzles(ctx context.Context, gameType puzzle.GameType) (int, error)
}

// DailyStore persists the daily assignment calendar.
type DailyStore interface {
	// AssignDaily records an assignment and stamps the puzzle's
	// AssignedDate in the same transaction.
	AssignDaily(ctx context.Context, assignment DailyAssignment) error
	GetDailyAssignment(ctx context.Context, date string, gameType puzzle.GameType) (DailyAssignment, error)
	ListDailyAssignments(ctx context.Context, date string) ([]DailyAssignment, error)
	// NextDailyCandidate returns the least recently assigned puzzle of a
	// game type, breaking ties by ID.
	NextDailyCandidate(ctx context.Context, gameType puzzle.GameType) (PuzzleRecord, error)
}

// CatalogStore combines the catalog persistence contracts.
type CatalogStore interface {
	PuzzleStore
	DailyStore
}
