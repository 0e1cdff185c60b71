// Package domain plans daily puzzle rotation for the scheduler service.
//
// A sweep covers a window of civil dates starting today: for each date and
// game type without an assignment, the planner asks the catalog to rotate
// in the least recently used puzzle. Sweeps are idempotent; re-running one
// reports the slots as already assigned.
package domain

import (
	"context"
	"errors"
	"time"

	apperrors "github.com/puzzlebox-games/puzzlebox/internal/platform/errors"
	"github.com/puzzlebox-games/puzzlebox/internal/puzzle"
	catalogstorage "github.com/puzzlebox-games/puzzlebox/internal/services/catalog/storage"
)

// DefaultLookaheadDays is how many days ahead of today a sweep fills when
// the caller does not choose a window.
const DefaultLookaheadDays = 2

// Rotator is the slice of the catalog service the planner drives.
type Rotator interface {
	// DailyBoard lists every assignment already recorded for a date.
	DailyBoard(ctx context.Context, date string) (string, []catalogstorage.DailyAssignment, error)
	// RotateDaily fills one (date, game type) slot with the least
	// recently assigned puzzle of that type.
	RotateDaily(ctx context.Context, date string, gameType puzzle.GameType) (catalogstorage.DailyAssignment, error)
}

// Outcome classifies what a sweep did with one rotation slot.
type Outcome string

const (
	// OutcomeExisting means the slot already had an assignment.
	OutcomeExisting Outcome = "existing"
	// OutcomeRotated means the sweep assigned a puzzle to the slot.
	OutcomeRotated Outcome = "rotated"
	// OutcomeSkipped means no puzzle of the game type exists to assign.
	OutcomeSkipped Outcome = "skipped"
	// OutcomeFailed means the rotation errored.
	OutcomeFailed Outcome = "failed"
)

// Result reports one rotation slot from a sweep.
type Result struct {
	Date     string
	GameType puzzle.GameType
	Outcome  Outcome
	// PuzzleID is set for existing and rotated slots.
	PuzzleID string
	// Err is set for failed slots.
	Err error
}

// Planner fills the daily assignment calendar.
type Planner struct {
	catalog   Rotator
	lookahead int
	now       func() time.Time
}

// NewPlanner creates a rotation planner. A non-positive lookahead falls
// back to DefaultLookaheadDays; a nil now falls back to time.Now.
func NewPlanner(catalog Rotator, lookaheadDays int, now func() time.Time) *Planner {
	if lookaheadDays <= 0 {
		lookaheadDays = DefaultLookaheadDays
	}
	if now == nil {
		now = time.Now
	}
	return &Planner{catalog: catalog, lookahead: lookaheadDays, now: now}
}

// Sweep fills every (date, game type) slot from today through the
// lookahead window, in date order. Slot failures are reported in the
// results, not returned; the error return covers sweep-level failures
// such as an unreadable board or context cancellation.
func (p *Planner) Sweep(ctx context.Context) ([]Result, error) {
	if p == nil || p.catalog == nil {
		return nil, errors.New("catalog rotator is not configured")
	}

	today := p.now().UTC().Truncate(24 * time.Hour)
	var results []Result
	for offset := 0; offset < p.lookahead; offset++ {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		date := today.AddDate(0, 0, offset).Format(catalogstorage.DateLayout)
		dateResults, err := p.sweepDate(ctx, date)
		results = append(results, dateResults...)
		if err != nil {
			return results, err
		}
	}
	return results, nil
}

func (p *Planner) sweepDate(ctx context.Context, date string) ([]Result, error) {
	_, assignments, err := p.catalog.DailyBoard(ctx, date)
	if err != nil {
		return nil, err
	}
	assigned := make(map[puzzle.GameType]string, len(assignments))
	for _, assignment := range assignments {
		assigned[assignment.GameType] = assignment.PuzzleID
	}

	results := make([]Result, 0, len(puzzle.GameTypes()))
	for _, gameType := range puzzle.GameTypes() {
		if puzzleID, ok := assigned[gameType]; ok {
			results = append(results, Result{
				Date:     date,
				GameType: gameType,
				Outcome:  OutcomeExisting,
				PuzzleID: puzzleID,
			})
			continue
		}
		results = append(results, p.rotateSlot(ctx, date, gameType))
	}
	return results, nil
}

func (p *Planner) rotateSlot(ctx context.Context, date string, gameType puzzle.GameType) Result {
	assignment, err := p.catalog.RotateDaily(ctx, date, gameType)
	if err != nil {
		var appErr *apperrors.Error
		if errors.As(err, &appErr) && appErr.Code == apperrors.CodeCatalogNoDailyCandidate {
			return Result{Date: date, GameType: gameType, Outcome: OutcomeSkipped}
		}
		return Result{Date: date, GameType: gameType, Outcome: OutcomeFailed, Err: err}
	}
	return Result{
		Date:     date,
		GameType: gameType,
		Outcome:  OutcomeRotated,
		PuzzleID: assignment.PuzzleID,
	}
}
