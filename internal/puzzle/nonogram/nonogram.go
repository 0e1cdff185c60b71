// Package nonogram implements picture-logic grids with a drag-painting
// gesture interpreter.
package nonogram

import (
	"fmt"

	apperrors "github.com/puzzlebox-games/puzzlebox/internal/platform/errors"
	"github.com/puzzlebox-games/puzzlebox/internal/puzzle"
	"github.com/puzzlebox-games/puzzlebox/internal/puzzle/undo"
)

// CellState is the explicit tri-state of a nonogram cell. Marked is the
// player's "definitely empty" annotation and never counts toward the
// picture.
type CellState int

const (
	// CellEmpty is an untouched cell.
	CellEmpty CellState = iota
	// CellFilled is a painted cell.
	CellFilled
	// CellMarked is an X annotation.
	CellMarked
)

// Config describes the content needed to construct a game.
type Config struct {
	Envelope puzzle.Envelope
	Rows     int
	Cols     int
	// Solution is the target picture; true cells must be filled.
	Solution [][]bool
	// RowClues and ColClues are optional: when nil they are derived from
	// the solution, when present they are cross-checked against it.
	RowClues [][]int
	ColClues [][]int
}

type snapshot struct {
	grid [][]CellState
	env  puzzle.Envelope
}

// Game is a nonogram puzzle in progress.
type Game struct {
	env      puzzle.Envelope
	rows     int
	cols     int
	grid     [][]CellState
	solution [][]bool
	rowClues [][]int
	colClues [][]int
	total    int
	history  undo.Stack[snapshot]
	gesture  *gesture
}

var _ puzzle.Undoer = (*Game)(nil)

// New validates the config and constructs a game.
func New(cfg Config) (*Game, error) {
	if cfg.Rows < 1 || cfg.Cols < 1 {
		return nil, apperrors.New(apperrors.CodeContentValueOutOfRange,
			fmt.Sprintf("nonogram dimensions %dx%d invalid", cfg.Rows, cfg.Cols))
	}
	if len(cfg.Solution) != cfg.Rows {
		return nil, apperrors.New(apperrors.CodeContentDimensionMismatch,
			fmt.Sprintf("nonogram solution has %d rows, want %d", len(cfg.Solution), cfg.Rows))
	}
	total := 0
	for row, cells := range cfg.Solution {
		if len(cells) != cfg.Cols {
			return nil, apperrors.New(apperrors.CodeContentDimensionMismatch,
				fmt.Sprintf("nonogram solution row %d has %d cells, want %d", row, len(cells), cfg.Cols))
		}
		for _, filled := range cells {
			if filled {
				total++
			}
		}
	}

	rowClues, err := resolveClues(cfg.RowClues, rowLines(cfg.Solution), "row")
	if err != nil {
		return nil, err
	}
	colClues, err := resolveClues(cfg.ColClues, colLines(cfg.Solution, cfg.Cols), "column")
	if err != nil {
		return nil, err
	}

	g := &Game{
		env:      cfg.Envelope,
		rows:     cfg.Rows,
		cols:     cfg.Cols,
		solution: copyBools(cfg.Solution),
		rowClues: rowClues,
		colClues: colClues,
		total:    total,
		grid:     make([][]CellState, cfg.Rows),
	}
	for row := range g.grid {
		g.grid[row] = make([]CellState, cfg.Cols)
	}
	return g, nil
}

// Cell returns the state at the coordinates.
func (g *Game) Cell(row, col int) CellState {
	if !g.inBounds(row, col) {
		return CellEmpty
	}
	return g.grid[row][col]
}

// RowClues returns the run lengths for a row, outermost first.
func (g *Game) RowClues(row int) []int {
	if row < 0 || row >= g.rows {
		return nil
	}
	return append([]int(nil), g.rowClues[row]...)
}

// ColClues returns the run lengths for a column, topmost first.
func (g *Game) ColClues(col int) []int {
	if col < 0 || col >= g.cols {
		return nil
	}
	return append([]int(nil), g.colClues[col]...)
}

// Size returns the grid dimensions.
func (g *Game) Size() (rows, cols int) {
	return g.rows, g.cols
}

// Progress reports how many cells are painted and how many the picture
// needs.
func (g *Game) Progress() (filled, total int) {
	for _, row := range g.grid {
		for _, state := range row {
			if state == CellFilled {
				filled++
			}
		}
	}
	return filled, g.total
}

// Mistakes returns the painted cells that are not part of the picture.
// This backs the player-triggered check button; it is never consulted
// during normal play.
func (g *Game) Mistakes() [][2]int {
	var mistakes [][2]int
	for row := range g.grid {
		for col, state := range g.grid[row] {
			if state == CellFilled && !g.solution[row][col] {
				mistakes = append(mistakes, [2]int{row, col})
			}
		}
	}
	return mistakes
}

// IsComplete reports whether the painted cells match the picture exactly.
// Marks are ignored.
func (g *Game) IsComplete() bool {
	return g.env.Complete
}

// Envelope returns a copy of the puzzle envelope.
func (g *Game) Envelope() puzzle.Envelope {
	return g.env
}

// Undo restores the state before the most recent gesture.
func (g *Game) Undo() bool {
	if g.gesture != nil {
		// An in-flight drag keeps ownership of the state.
		return false
	}
	snap, ok := g.history.Pop()
	if !ok {
		return false
	}
	g.grid = snap.grid
	g.env = snap.env
	return true
}

// Reset clears the grid and progress.
func (g *Game) Reset() {
	for row := range g.grid {
		for col := range g.grid[row] {
			g.grid[row][col] = CellEmpty
		}
	}
	g.gesture = nil
	g.history.Clear()
	g.env.ResetProgress()
}

func (g *Game) inBounds(row, col int) bool {
	return row >= 0 && row < g.rows && col >= 0 && col < g.cols
}

func (g *Game) recompute() {
	filled, total := g.Progress()
	g.env.SetComplete(filled == total && len(g.Mistakes()) == 0)
}

func (g *Game) pushSnapshot() {
	g.history.Push(snapshot{grid: copyStates(g.grid), env: g.env})
}

func resolveClues(provided [][]int, lines [][]bool, kind string) ([][]int, error) {
	derived := make([][]int, len(lines))
	for i, line := range lines {
		derived[i] = runLengths(line)
	}
	if provided == nil {
		return derived, nil
	}
	if len(provided) != len(derived) {
		return nil, apperrors.New(apperrors.CodeContentDimensionMismatch,
			fmt.Sprintf("nonogram has %d %s clue lines, want %d", len(provided), kind, len(derived)))
	}
	for i := range provided {
		if !equalInts(provided[i], derived[i]) {
			return nil, apperrors.WithMetadata(apperrors.CodeContentSolutionMismatch,
				fmt.Sprintf("nonogram %s clue %d does not match solution", kind, i),
				map[string]string{"line": fmt.Sprintf("%d", i)})
		}
	}
	return derived, nil
}

func runLengths(line []bool) []int {
	var runs []int
	current := 0
	for _, filled := range line {
		if filled {
			current++
			continue
		}
		if current > 0 {
			runs = append(runs, current)
			current = 0
		}
	}
	if current > 0 {
		runs = append(runs, current)
	}
	return runs
}

func rowLines(solution [][]bool) [][]bool {
	return solution
}

func colLines(solution [][]bool, cols int) [][]bool {
	lines := make([][]bool, cols)
	for col := 0; col < cols; col++ {
		line := make([]bool, len(solution))
		for row := range solution {
			line[row] = solution[row][col]
		}
		lines[col] = line
	}
	return lines
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func copyBools(grid [][]bool) [][]bool {
	out := make([][]bool, len(grid))
	for i, row := range grid {
		out[i] = append([]bool(nil), row...)
	}
	return out
}

func copyStates(grid [][]CellState) [][]CellState {
	out := make([][]CellState, len(grid))
	for i, row := range grid {
		out[i] = append([]CellState(nil), row...)
	}
	return out
}
