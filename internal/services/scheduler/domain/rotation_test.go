package domain

import (
	"context"
	"errors"
	"testing"
	"time"

	apperrors "github.com/puzzlebox-games/puzzlebox/internal/platform/errors"
	"github.com/puzzlebox-games/puzzlebox/internal/puzzle"
	catalogstorage "github.com/puzzlebox-games/puzzlebox/internal/services/catalog/storage"
)

type fakeRotator struct {
	boards   map[string][]catalogstorage.DailyAssignment
	rotated  []string
	rotate   func(date string, gameType puzzle.GameType) (catalogstorage.DailyAssignment, error)
	boardErr error
}

func (f *fakeRotator) DailyBoard(_ context.Context, date string) (string, []catalogstorage.DailyAssignment, error) {
	if f.boardErr != nil {
		return "", nil, f.boardErr
	}
	return date, f.boards[date], nil
}

func (f *fakeRotator) RotateDaily(_ context.Context, date string, gameType puzzle.GameType) (catalogstorage.DailyAssignment, error) {
	f.rotated = append(f.rotated, date+"/"+gameType.String())
	if f.rotate != nil {
		return f.rotate(date, gameType)
	}
	return catalogstorage.DailyAssignment{
		Date:     date,
		GameType: gameType,
		PuzzleID: "puzzle-" + gameType.String(),
	}, nil
}

func fixedClock() time.Time {
	return time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
}

func TestSweepFillsEveryGameTypeForWindow(t *testing.T) {
	rotator := &fakeRotator{}
	planner := NewPlanner(rotator, 2, fixedClock)

	results, err := planner.Sweep(context.Background())
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}

	wantSlots := 2 * len(puzzle.GameTypes())
	if len(results) != wantSlots {
		t.Fatalf("results len = %d, want %d", len(results), wantSlots)
	}
	if len(rotator.rotated) != wantSlots {
		t.Fatalf("rotate calls = %d, want %d", len(rotator.rotated), wantSlots)
	}
	if results[0].Date != "2026-03-14" {
		t.Fatalf("first date = %q, want 2026-03-14", results[0].Date)
	}
	last := results[len(results)-1]
	if last.Date != "2026-03-15" {
		t.Fatalf("last date = %q, want 2026-03-15", last.Date)
	}
	for _, result := range results {
		if result.Outcome != OutcomeRotated {
			t.Fatalf("slot %s/%s outcome = %q, want rotated", result.Date, result.GameType, result.Outcome)
		}
		if result.PuzzleID == "" {
			t.Fatalf("slot %s/%s has no puzzle id", result.Date, result.GameType)
		}
	}
}

func TestSweepSkipsAssignedSlots(t *testing.T) {
	rotator := &fakeRotator{
		boards: map[string][]catalogstorage.DailyAssignment{
			"2026-03-14": {
				{Date: "2026-03-14", GameType: puzzle.GameTypeSudoku, PuzzleID: "already"},
			},
		},
	}
	planner := NewPlanner(rotator, 1, fixedClock)

	results, err := planner.Sweep(context.Background())
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}

	var sudoku *Result
	for i := range results {
		if results[i].GameType == puzzle.GameTypeSudoku {
			sudoku = &results[i]
			break
		}
	}
	if sudoku == nil {
		t.Fatal("no sudoku result")
	}
	if sudoku.Outcome != OutcomeExisting {
		t.Fatalf("sudoku outcome = %q, want existing", sudoku.Outcome)
	}
	if sudoku.PuzzleID != "already" {
		t.Fatalf("sudoku puzzle id = %q, want already", sudoku.PuzzleID)
	}
	for _, call := range rotator.rotated {
		if call == "2026-03-14/sudoku" {
			t.Fatal("rotate was called for an assigned slot")
		}
	}
}

func TestSweepClassifiesMissingCandidatesAsSkipped(t *testing.T) {
	rotator := &fakeRotator{
		rotate: func(date string, gameType puzzle.GameType) (catalogstorage.DailyAssignment, error) {
			if gameType == puzzle.GameTypeKakuro {
				return catalogstorage.DailyAssignment{}, apperrors.New(
					apperrors.CodeCatalogNoDailyCandidate, "no puzzles available")
			}
			return catalogstorage.DailyAssignment{Date: date, GameType: gameType, PuzzleID: "p"}, nil
		},
	}
	planner := NewPlanner(rotator, 1, fixedClock)

	results, err := planner.Sweep(context.Background())
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	for _, result := range results {
		want := OutcomeRotated
		if result.GameType == puzzle.GameTypeKakuro {
			want = OutcomeSkipped
		}
		if result.Outcome != want {
			t.Fatalf("%s outcome = %q, want %q", result.GameType, result.Outcome, want)
		}
	}
}

func TestSweepReportsSlotFailuresWithoutAborting(t *testing.T) {
	slotErr := errors.New("disk on fire")
	rotator := &fakeRotator{
		rotate: func(date string, gameType puzzle.GameType) (catalogstorage.DailyAssignment, error) {
			if gameType == puzzle.GameTypeSudoku {
				return catalogstorage.DailyAssignment{}, slotErr
			}
			return catalogstorage.DailyAssignment{Date: date, GameType: gameType, PuzzleID: "p"}, nil
		},
	}
	planner := NewPlanner(rotator, 1, fixedClock)

	results, err := planner.Sweep(context.Background())
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}

	var failed, rotated int
	for _, result := range results {
		switch result.Outcome {
		case OutcomeFailed:
			failed++
			if !errors.Is(result.Err, slotErr) {
				t.Fatalf("failed slot err = %v, want %v", result.Err, slotErr)
			}
		case OutcomeRotated:
			rotated++
		}
	}
	if failed != 1 {
		t.Fatalf("failed slots = %d, want 1", failed)
	}
	if rotated != len(puzzle.GameTypes())-1 {
		t.Fatalf("rotated slots = %d, want %d", rotated, len(puzzle.GameTypes())-1)
	}
}

func TestSweepStopsWhenBoardUnreadable(t *testing.T) {
	boardErr := errors.New("catalog down")
	planner := NewPlanner(&fakeRotator{boardErr: boardErr}, 3, fixedClock)

	_, err := planner.Sweep(context.Background())
	if !errors.Is(err, boardErr) {
		t.Fatalf("sweep err = %v, want %v", err, boardErr)
	}
}

func TestSweepHonorsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	planner := NewPlanner(&fakeRotator{}, 2, fixedClock)
	_, err := planner.Sweep(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("sweep err = %v, want context.Canceled", err)
	}
}
