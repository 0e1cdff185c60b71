package minesweeper

import (
	"testing"

	"github.com/puzzlebox-games/puzzlebox/internal/puzzle"
)

// forced returns a game with a fixed mine layout instead of a lazily
// shuffled one.
func forced(t *testing.T, rows, cols int, mines ...[2]int) *Game {
	t.Helper()
	g, err := New(Config{
		Envelope:  puzzle.Envelope{ID: "m1", Type: puzzle.GameTypeMinesweeper},
		Rows:      rows,
		Cols:      cols,
		MineCount: len(mines),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for _, m := range mines {
		g.mines[m] = true
	}
	g.computeCounts()
	g.placed = true
	return g
}

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{name: "board too small", cfg: Config{Rows: 2, Cols: 5, MineCount: 1}},
		{name: "no mines", cfg: Config{Rows: 5, Cols: 5, MineCount: 0}},
		{name: "too many mines", cfg: Config{Rows: 5, Cols: 5, MineCount: 17}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := New(tc.cfg); err == nil {
				t.Fatal("New accepted invalid config")
			}
		})
	}
}

func TestFirstRevealZoneIsMineFree(t *testing.T) {
	// 16 mines on a 5x5 board fill every cell outside the 3x3 zone
	// around the first reveal, whatever the shuffle does.
	g, err := New(Config{
		Envelope:  puzzle.Envelope{ID: "m2", Type: puzzle.GameTypeMinesweeper},
		Rows:      5,
		Cols:      5,
		MineCount: 16,
		Seed:      1,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if !g.Reveal(2, 2) {
		t.Fatal("first reveal rejected")
	}
	if g.Lost() {
		t.Fatal("first reveal hit a mine")
	}

	// The zone floods open: zero at the center, numbered at its border.
	if n, ok := g.AdjacentMines(2, 2); !ok || n != 0 {
		t.Fatalf("AdjacentMines(2,2) = %d,%t, want 0,true", n, ok)
	}
	if n, ok := g.AdjacentMines(1, 2); !ok || n != 3 {
		t.Fatalf("AdjacentMines(1,2) = %d,%t, want 3,true", n, ok)
	}
	if n, ok := g.AdjacentMines(1, 1); !ok || n != 5 {
		t.Fatalf("AdjacentMines(1,1) = %d,%t, want 5,true", n, ok)
	}

	// Every safe cell is inside the zone, so the flood wins the game.
	if !g.IsComplete() {
		t.Fatal("IsComplete false with all safe cells revealed")
	}
	mines := g.Mines()
	if len(mines) != 16 {
		t.Fatalf("len(Mines) = %d, want 16", len(mines))
	}
	for _, m := range mines {
		if abs(m[0]-2) <= 1 && abs(m[1]-2) <= 1 {
			t.Fatalf("mine %v inside the first-reveal zone", m)
		}
	}
	if got := g.Envelope().MoveCount; got != 1 {
		t.Fatalf("MoveCount = %d, want 1", got)
	}
}

func TestRevealMineLoses(t *testing.T) {
	g := forced(t, 5, 5, [2]int{0, 0})

	if !g.Reveal(0, 0) {
		t.Fatal("Reveal rejected")
	}
	if !g.Lost() {
		t.Fatal("Lost false after revealing a mine")
	}
	if g.IsComplete() {
		t.Fatal("IsComplete true after a loss")
	}
	if g.Reveal(4, 4) {
		t.Fatal("Reveal accepted after the game ended")
	}
	if g.ToggleFlag(4, 4) {
		t.Fatal("ToggleFlag accepted after the game ended")
	}
	if mines := g.Mines(); len(mines) != 1 || mines[0] != [2]int{0, 0} {
		t.Fatalf("Mines = %v, want [[0 0]]", mines)
	}
}

func TestFloodNeverRevealsMines(t *testing.T) {
	g := forced(t, 5, 5, [2]int{0, 0})

	if !g.Reveal(4, 4) {
		t.Fatal("Reveal rejected")
	}
	if g.State(0, 0) != CellHidden {
		t.Fatal("flood revealed a mine")
	}
	// All 24 safe cells connect through the zero region.
	if !g.IsComplete() {
		t.Fatal("IsComplete false with every safe cell revealed")
	}
	if g.Lost() {
		t.Fatal("Lost true without revealing a mine")
	}
}

func TestNonzeroRevealDoesNotSpread(t *testing.T) {
	g := forced(t, 5, 5, [2]int{2, 2})

	if !g.Reveal(2, 1) {
		t.Fatal("Reveal rejected")
	}
	if n, ok := g.AdjacentMines(2, 1); !ok || n != 1 {
		t.Fatalf("AdjacentMines(2,1) = %d,%t, want 1,true", n, ok)
	}
	revealed := 0
	for r := 0; r < 5; r++ {
		for c := 0; c < 5; c++ {
			if g.State(r, c) == CellRevealed {
				revealed++
			}
		}
	}
	if revealed != 1 {
		t.Fatalf("revealed %d cells, want 1", revealed)
	}
	if g.Reveal(2, 1) {
		t.Fatal("Reveal accepted an already revealed cell")
	}
}

func TestFlags(t *testing.T) {
	g := forced(t, 5, 5, [2]int{2, 2})

	if !g.ToggleFlag(0, 0) {
		t.Fatal("ToggleFlag rejected a hidden cell")
	}
	if g.State(0, 0) != CellFlagged {
		t.Fatal("cell not flagged")
	}
	if g.Reveal(0, 0) {
		t.Fatal("Reveal accepted a flagged cell")
	}
	if !g.ToggleFlag(0, 0) {
		t.Fatal("ToggleFlag rejected a flagged cell")
	}
	if g.State(0, 0) != CellHidden {
		t.Fatal("flag not cleared")
	}

	if !g.Reveal(2, 1) {
		t.Fatal("Reveal rejected")
	}
	if g.ToggleFlag(2, 1) {
		t.Fatal("ToggleFlag accepted a revealed cell")
	}
}

func TestFloodSkipsFlaggedCells(t *testing.T) {
	g := forced(t, 5, 5, [2]int{2, 2})

	if !g.ToggleFlag(4, 4) {
		t.Fatal("ToggleFlag rejected")
	}
	if !g.Reveal(0, 0) {
		t.Fatal("Reveal rejected")
	}
	if g.State(4, 4) != CellFlagged {
		t.Fatal("flood revealed a flagged cell")
	}
	if g.IsComplete() {
		t.Fatal("IsComplete true with a safe cell still covered")
	}
}

func TestPlacementDeterministicForSeed(t *testing.T) {
	cfg := Config{
		Envelope:  puzzle.Envelope{ID: "m3", Type: puzzle.GameTypeMinesweeper},
		Rows:      9,
		Cols:      9,
		MineCount: 10,
		Seed:      42,
	}
	g1, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	g2, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if !g1.Reveal(4, 4) || !g2.Reveal(4, 4) {
		t.Fatal("Reveal rejected")
	}
	for r := 0; r < 9; r++ {
		for c := 0; c < 9; c++ {
			if g1.State(r, c) != g2.State(r, c) {
				t.Fatalf("state diverged at (%d,%d)", r, c)
			}
			n1, ok1 := g1.AdjacentMines(r, c)
			n2, ok2 := g2.AdjacentMines(r, c)
			if n1 != n2 || ok1 != ok2 {
				t.Fatalf("counts diverged at (%d,%d)", r, c)
			}
		}
	}
}

func TestResetReplaysSameSeed(t *testing.T) {
	g, err := New(Config{
		Envelope:  puzzle.Envelope{ID: "m4", Type: puzzle.GameTypeMinesweeper},
		Rows:      5,
		Cols:      5,
		MineCount: 16,
		Seed:      7,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if !g.Reveal(2, 2) || !g.IsComplete() {
		t.Fatal("first play did not complete")
	}
	g.Reset()

	if g.IsComplete() || g.Lost() {
		t.Fatal("reset did not clear the outcome")
	}
	if g.Mines() != nil {
		t.Fatal("Mines exposed before the game ended")
	}
	if got := g.Envelope().MoveCount; got != 0 {
		t.Fatalf("MoveCount = %d after reset, want 0", got)
	}
	for r := 0; r < 5; r++ {
		for c := 0; c < 5; c++ {
			if g.State(r, c) != CellHidden {
				t.Fatalf("cell (%d,%d) not hidden after reset", r, c)
			}
		}
	}
	if !g.Reveal(2, 2) || !g.IsComplete() {
		t.Fatal("replay after reset did not complete")
	}
}

func TestRevealOutOfRange(t *testing.T) {
	g := forced(t, 5, 5, [2]int{2, 2})

	if g.Reveal(-1, 0) || g.Reveal(0, 5) {
		t.Fatal("Reveal accepted an out-of-range cell")
	}
	if g.ToggleFlag(5, 0) {
		t.Fatal("ToggleFlag accepted an out-of-range cell")
	}
}
