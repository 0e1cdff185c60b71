package sudoku

import (
	"testing"

	"github.com/puzzlebox-games/puzzlebox/internal/puzzle"
)

// solvedGrid returns a valid solved Sudoku built from cyclic row shifts.
func solvedGrid() [][]int {
	shifts := []int{0, 3, 6, 1, 4, 7, 2, 5, 8}
	grid := make([][]int, 9)
	for row := 0; row < 9; row++ {
		grid[row] = make([]int, 9)
		for col := 0; col < 9; col++ {
			grid[row][col] = (shifts[row]+col)%9 + 1
		}
	}
	return grid
}

func puzzleWithHoles(holes ...[2]int) ([][]int, [][]int) {
	solution := solvedGrid()
	grid := make([][]int, 9)
	for row := range solution {
		grid[row] = append([]int(nil), solution[row]...)
	}
	for _, hole := range holes {
		grid[hole[0]][hole[1]] = 0
	}
	return grid, solution
}

func newGame(t *testing.T, cfg Config) *Game {
	t.Helper()
	g, err := New(cfg)
	if err != nil {
		t.Fatalf("new game: %v", err)
	}
	return g
}

func TestPlaceRejectsGivens(t *testing.T) {
	grid, solution := puzzleWithHoles([2]int{0, 0})
	g := newGame(t, Config{Grid: grid, Solution: solution})

	if g.Place(1, 1, 9) {
		t.Fatal("expected placement on given cell to be rejected")
	}
	if g.Value(1, 1) != grid[1][1] {
		t.Fatalf("expected given cell unchanged, got %d", g.Value(1, 1))
	}
	if g.Envelope().MoveCount != 0 {
		t.Fatal("expected rejected move to leave counter untouched")
	}
}

func TestPlaceRejectsOutOfRange(t *testing.T) {
	grid, _ := puzzleWithHoles([2]int{0, 0})
	g := newGame(t, Config{Grid: grid})

	cases := []struct {
		name            string
		row, col, value int
	}{
		{name: "negative row", row: -1, col: 0, value: 5},
		{name: "row too large", row: 9, col: 0, value: 5},
		{name: "col too large", row: 0, col: 9, value: 5},
		{name: "value too large", row: 0, col: 0, value: 10},
		{name: "negative value", row: 0, col: 0, value: -1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if g.Place(tc.row, tc.col, tc.value) {
				t.Fatal("expected rejection")
			}
		})
	}
}

func TestIsValidPlacementChecksRowColBox(t *testing.T) {
	grid, _ := puzzleWithHoles([2]int{0, 0}, [2]int{4, 4})
	g := newGame(t, Config{Grid: grid})

	// Cell (0,0) belongs to a row containing 2..9, so only 1 is valid.
	if !g.IsValidPlacement(0, 0, 1) {
		t.Fatal("expected 1 to be valid at (0,0)")
	}
	for value := 2; value <= 9; value++ {
		if g.IsValidPlacement(0, 0, value) {
			t.Fatalf("expected %d to be invalid at (0,0)", value)
		}
	}
}

func TestIsValidPlacementIgnoresOwnCell(t *testing.T) {
	grid, _ := puzzleWithHoles([2]int{0, 0})
	g := newGame(t, Config{Grid: grid})

	if !g.Place(0, 0, 1) {
		t.Fatal("expected placement")
	}
	// Re-checking the placed value must not see itself as a duplicate.
	if !g.IsValidPlacement(0, 0, 1) {
		t.Fatal("expected placed value to remain valid at its own cell")
	}
}

func TestConflictingPlacementAllowedAndFlagged(t *testing.T) {
	grid, _ := puzzleWithHoles([2]int{0, 0})
	g := newGame(t, Config{Grid: grid})

	// Row 0 already holds 2 at (0,1); placing 2 at (0,0) conflicts.
	if !g.Place(0, 0, 2) {
		t.Fatal("expected conflicting placement to be accepted")
	}
	if !g.InConflict(0, 0) {
		t.Fatal("expected placed cell flagged")
	}
	if !g.InConflict(0, 1) {
		t.Fatal("expected peer cell flagged")
	}

	// Clearing removes the conflict.
	if !g.Place(0, 0, 0) {
		t.Fatal("expected clear to apply")
	}
	if g.InConflict(0, 1) {
		t.Fatal("expected conflict cleared")
	}
}

func TestNotesLifecycle(t *testing.T) {
	grid, _ := puzzleWithHoles([2]int{0, 0})
	g := newGame(t, Config{Grid: grid})

	if !g.ToggleNote(0, 0, 1) || !g.ToggleNote(0, 0, 5) {
		t.Fatal("expected note toggles on empty cell")
	}
	if got := g.Notes(0, 0); len(got) != 2 || got[0] != 1 || got[1] != 5 {
		t.Fatalf("expected notes [1 5], got %v", got)
	}

	// Toggling again removes the mark.
	if !g.ToggleNote(0, 0, 5) {
		t.Fatal("expected toggle off")
	}
	if got := g.Notes(0, 0); len(got) != 1 || got[0] != 1 {
		t.Fatalf("expected notes [1], got %v", got)
	}

	// Notes never advance the move counter.
	if g.Envelope().MoveCount != 0 {
		t.Fatalf("expected 0 moves, got %d", g.Envelope().MoveCount)
	}

	// Placing a value wipes the cell's notes.
	if !g.Place(0, 0, 1) {
		t.Fatal("expected placement")
	}
	if got := g.Notes(0, 0); got != nil {
		t.Fatalf("expected notes cleared, got %v", got)
	}

	// Notes are rejected on filled cells and givens.
	if g.ToggleNote(0, 0, 3) {
		t.Fatal("expected filled cell to reject notes")
	}
	if g.ToggleNote(1, 1, 3) {
		t.Fatal("expected given cell to reject notes")
	}
}

func TestUndoRestoresStateAndCounter(t *testing.T) {
	grid, _ := puzzleWithHoles([2]int{0, 0}, [2]int{8, 8})
	g := newGame(t, Config{Grid: grid})

	if !g.Place(0, 0, 1) {
		t.Fatal("expected placement")
	}
	if !g.ToggleNote(8, 8, 7) {
		t.Fatal("expected note toggle")
	}

	if !g.Undo() {
		t.Fatal("expected undo of note")
	}
	if got := g.Notes(8, 8); got != nil {
		t.Fatalf("expected note undone, got %v", got)
	}
	if g.Value(0, 0) != 1 {
		t.Fatal("expected placement to survive note undo")
	}

	if !g.Undo() {
		t.Fatal("expected undo of placement")
	}
	if g.Value(0, 0) != 0 {
		t.Fatal("expected placement undone")
	}
	if g.Envelope().MoveCount != 0 {
		t.Fatalf("expected move counter restored, got %d", g.Envelope().MoveCount)
	}

	if g.Undo() {
		t.Fatal("expected empty history")
	}
}

func TestCompletionRequiresFilledAndConflictFree(t *testing.T) {
	grid, _ := puzzleWithHoles([2]int{4, 4})
	g := newGame(t, Config{Grid: grid})

	if g.IsComplete() {
		t.Fatal("expected incomplete with empty cell")
	}

	// The removed value at (4,4) in the cyclic grid is (4+4)%9+1 = 9.
	if !g.Place(4, 4, 9) {
		t.Fatal("expected winning placement")
	}
	if !g.IsComplete() {
		t.Fatal("expected complete")
	}
}

func TestHintReturnsSolutionValue(t *testing.T) {
	grid, solution := puzzleWithHoles([2]int{2, 3})
	g := newGame(t, Config{Grid: grid, Solution: solution})

	value, ok := g.Hint(2, 3)
	if !ok {
		t.Fatal("expected hint")
	}
	if value != solution[2][3] {
		t.Fatalf("expected %d, got %d", solution[2][3], value)
	}

	noSolution := newGame(t, Config{Grid: grid})
	if _, ok := noSolution.Hint(2, 3); ok {
		t.Fatal("expected no hint without solution")
	}
}

func TestResetClearsProgress(t *testing.T) {
	grid, _ := puzzleWithHoles([2]int{0, 0}, [2]int{1, 0})
	g := newGame(t, Config{Grid: grid})

	g.Place(0, 0, 1)
	g.ToggleNote(1, 0, 4)
	g.Reset()

	if g.Value(0, 0) != 0 {
		t.Fatal("expected placed cell cleared")
	}
	if g.Notes(1, 0) != nil {
		t.Fatal("expected notes cleared")
	}
	if g.Envelope().MoveCount != 0 {
		t.Fatal("expected move counter reset")
	}
	if g.Undo() {
		t.Fatal("expected history cleared by reset")
	}
}

func TestKillerCageSatisfaction(t *testing.T) {
	grid, _ := puzzleWithHoles([2]int{0, 0})
	// Top-left row cells hold 1,2,3 when solved.
	cage := Cage{Sum: 6, Cells: []CageCell{{0, 0}, {0, 1}, {0, 2}}}
	g := newGame(t, Config{Grid: grid, Cages: []Cage{cage}, Envelope: puzzle.Envelope{Type: puzzle.GameTypeKillerSudoku}})

	if g.CageSatisfied(0) {
		t.Fatal("expected unsatisfied cage while cell empty")
	}
	if g.IsComplete() {
		t.Fatal("expected incomplete")
	}

	if !g.Place(0, 0, 1) {
		t.Fatal("expected placement")
	}
	if !g.CageSatisfied(0) {
		t.Fatal("expected satisfied cage")
	}
	if !g.IsComplete() {
		t.Fatal("expected complete killer puzzle")
	}
}

func TestKillerCompletionBlockedByWrongCageSum(t *testing.T) {
	grid, _ := puzzleWithHoles([2]int{0, 0})
	cage := Cage{Sum: 7, Cells: []CageCell{{0, 0}, {0, 1}, {0, 2}}}
	g := newGame(t, Config{Grid: grid, Cages: []Cage{cage}})

	if !g.Place(0, 0, 1) {
		t.Fatal("expected placement")
	}
	// Grid is filled and conflict-free, but the cage sum is wrong.
	if g.IsComplete() {
		t.Fatal("expected cage sum to block completion")
	}
}

func TestNewRejectsBadContent(t *testing.T) {
	valid, _ := puzzleWithHoles([2]int{0, 0})

	cases := []struct {
		name string
		cfg  Config
	}{
		{name: "short grid", cfg: Config{Grid: valid[:8]}},
		{name: "ragged row", cfg: func() Config {
			grid, _ := puzzleWithHoles()
			grid[3] = grid[3][:5]
			return Config{Grid: grid}
		}()},
		{name: "value out of range", cfg: func() Config {
			grid, _ := puzzleWithHoles()
			grid[0][0] = 12
			return Config{Grid: grid}
		}()},
		{name: "overlapping cages", cfg: Config{Grid: valid, Cages: []Cage{
			{Sum: 3, Cells: []CageCell{{0, 0}, {0, 1}}},
			{Sum: 5, Cells: []CageCell{{0, 1}, {0, 2}}},
		}}},
		{name: "impossible cage sum", cfg: Config{Grid: valid, Cages: []Cage{
			{Sum: 40, Cells: []CageCell{{0, 0}, {0, 1}}},
		}}},
		{name: "empty cage", cfg: Config{Grid: valid, Cages: []Cage{{Sum: 5}}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := New(tc.cfg); err == nil {
				t.Fatal("expected content error")
			}
		})
	}
}
