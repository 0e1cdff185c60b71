// Package sudoku implements classic and killer Sudoku state machines.
package sudoku

import (
	"fmt"

	apperrors "github.com/puzzlebox-games/puzzlebox/internal/platform/errors"
	"github.com/puzzlebox-games/puzzlebox/internal/puzzle"
	"github.com/puzzlebox-games/puzzlebox/internal/puzzle/undo"
)

const (
	gridSize = 9
	boxSize  = 3
)

// CageCell addresses a single cell inside a killer cage.
type CageCell struct {
	Row int
	Col int
}

// Cage is a killer Sudoku group with a target sum. Cages never overlap.
type Cage struct {
	Sum   int
	Cells []CageCell
}

// Config describes the content needed to construct a game.
type Config struct {
	Envelope puzzle.Envelope
	// Grid holds the starting values; zero means empty, nonzero cells are
	// givens and stay immutable.
	Grid [][]int
	// Solution is the authored solved grid, used for hints.
	Solution [][]int
	// Cages is empty for classic Sudoku.
	Cages []Cage
}

type snapshot struct {
	grid  [][]int
	notes [][]uint16
	env   puzzle.Envelope
}

// Game is a Sudoku puzzle in progress.
type Game struct {
	env      puzzle.Envelope
	grid     [][]int
	givens   [][]bool
	solution [][]int
	notes    [][]uint16
	conflict [][]bool
	cages    []Cage
	history  undo.Stack[snapshot]
}

var _ puzzle.Undoer = (*Game)(nil)

// New validates the config and constructs a game.
func New(cfg Config) (*Game, error) {
	if err := validateGrid(cfg.Grid, "grid"); err != nil {
		return nil, err
	}
	if cfg.Solution != nil {
		if err := validateGrid(cfg.Solution, "solution"); err != nil {
			return nil, err
		}
	}
	if err := validateCages(cfg.Cages); err != nil {
		return nil, err
	}

	g := &Game{
		env:      cfg.Envelope,
		grid:     copyGrid(cfg.Grid),
		solution: copyGrid(cfg.Solution),
		cages:    copyCages(cfg.Cages),
		givens:   make([][]bool, gridSize),
		notes:    make([][]uint16, gridSize),
		conflict: make([][]bool, gridSize),
	}
	for row := 0; row < gridSize; row++ {
		g.givens[row] = make([]bool, gridSize)
		g.notes[row] = make([]uint16, gridSize)
		g.conflict[row] = make([]bool, gridSize)
		for col := 0; col < gridSize; col++ {
			g.givens[row][col] = cfg.Grid[row][col] != 0
		}
	}
	g.recompute()
	return g, nil
}

// Place sets value into the cell, or clears it when value is zero. Givens
// and out-of-range input are rejected. Conflicting values are accepted and
// flagged rather than blocked.
func (g *Game) Place(row, col, value int) bool {
	if !inBounds(row, col) || value < 0 || value > gridSize {
		return false
	}
	if g.givens[row][col] {
		return false
	}
	if g.grid[row][col] == value {
		return false
	}

	g.pushSnapshot()
	g.grid[row][col] = value
	if value != 0 {
		g.notes[row][col] = 0
	}
	g.env.RecordMove()
	g.recompute()
	return true
}

// ToggleNote flips a pencil mark on an empty, non-given cell. Notes do not
// advance the move counter.
func (g *Game) ToggleNote(row, col, value int) bool {
	if !inBounds(row, col) || value < 1 || value > gridSize {
		return false
	}
	if g.givens[row][col] || g.grid[row][col] != 0 {
		return false
	}

	g.pushSnapshot()
	g.notes[row][col] ^= 1 << uint(value)
	return true
}

// IsValidPlacement reports whether value could sit at the cell without
// duplicating its row, column, or box. The cell's own current value is
// ignored, so re-checking a placed cell works.
func (g *Game) IsValidPlacement(row, col, value int) bool {
	if !inBounds(row, col) || value < 1 || value > gridSize {
		return false
	}
	for i := 0; i < gridSize; i++ {
		if i != col && g.grid[row][i] == value {
			return false
		}
		if i != row && g.grid[i][col] == value {
			return false
		}
	}
	boxRow, boxCol := (row/boxSize)*boxSize, (col/boxSize)*boxSize
	for r := boxRow; r < boxRow+boxSize; r++ {
		for c := boxCol; c < boxCol+boxSize; c++ {
			if (r != row || c != col) && g.grid[r][c] == value {
				return false
			}
		}
	}
	return true
}

// Value returns the current value at the cell, zero when empty.
func (g *Game) Value(row, col int) int {
	if !inBounds(row, col) {
		return 0
	}
	return g.grid[row][col]
}

// IsGiven reports whether the cell is part of the starting clues.
func (g *Game) IsGiven(row, col int) bool {
	return inBounds(row, col) && g.givens[row][col]
}

// InConflict reports whether the cell currently duplicates a peer.
func (g *Game) InConflict(row, col int) bool {
	return inBounds(row, col) && g.conflict[row][col]
}

// Notes returns the pencil marks set on the cell in ascending order.
func (g *Game) Notes(row, col int) []int {
	if !inBounds(row, col) {
		return nil
	}
	var values []int
	for value := 1; value <= gridSize; value++ {
		if g.notes[row][col]&(1<<uint(value)) != 0 {
			values = append(values, value)
		}
	}
	return values
}

// Hint returns the authored solution value for the cell.
func (g *Game) Hint(row, col int) (int, bool) {
	if g.solution == nil || !inBounds(row, col) {
		return 0, false
	}
	return g.solution[row][col], true
}

// Cages returns a copy of the killer cages, empty for classic Sudoku.
func (g *Game) Cages() []Cage {
	return copyCages(g.cages)
}

// CageSatisfied reports whether the indexed cage is fully filled, sums to
// its target, and holds no duplicate values.
func (g *Game) CageSatisfied(index int) bool {
	if index < 0 || index >= len(g.cages) {
		return false
	}
	return g.cageSatisfied(g.cages[index])
}

// IsComplete reports whether every cell is filled without conflicts and,
// for killer Sudoku, every cage is satisfied.
func (g *Game) IsComplete() bool {
	return g.env.Complete
}

// Envelope returns a copy of the puzzle envelope.
func (g *Game) Envelope() puzzle.Envelope {
	return g.env
}

// Undo restores the state before the most recent placement or note toggle.
func (g *Game) Undo() bool {
	snap, ok := g.history.Pop()
	if !ok {
		return false
	}
	g.grid = snap.grid
	g.notes = snap.notes
	g.env = snap.env
	g.recompute()
	return true
}

// Reset clears all player progress back to the starting clues.
func (g *Game) Reset() {
	for row := 0; row < gridSize; row++ {
		for col := 0; col < gridSize; col++ {
			if !g.givens[row][col] {
				g.grid[row][col] = 0
			}
			g.notes[row][col] = 0
		}
	}
	g.history.Clear()
	g.env.ResetProgress()
	g.recompute()
}

func (g *Game) pushSnapshot() {
	g.history.Push(snapshot{
		grid:  copyGrid(g.grid),
		notes: copyNotes(g.notes),
		env:   g.env,
	})
}

// recompute refreshes the conflict mask and completion flag.
func (g *Game) recompute() {
	filled := true
	anyConflict := false
	for row := 0; row < gridSize; row++ {
		for col := 0; col < gridSize; col++ {
			value := g.grid[row][col]
			if value == 0 {
				filled = false
				g.conflict[row][col] = false
				continue
			}
			conflicted := !g.IsValidPlacement(row, col, value)
			g.conflict[row][col] = conflicted
			if conflicted {
				anyConflict = true
			}
		}
	}

	complete := filled && !anyConflict
	if complete {
		for _, cage := range g.cages {
			if !g.cageSatisfied(cage) {
				complete = false
				break
			}
		}
	}
	g.env.SetComplete(complete)
}

func (g *Game) cageSatisfied(cage Cage) bool {
	sum := 0
	var seen [gridSize + 1]bool
	for _, cell := range cage.Cells {
		value := g.grid[cell.Row][cell.Col]
		if value == 0 {
			return false
		}
		if seen[value] {
			return false
		}
		seen[value] = true
		sum += value
	}
	return sum == cage.Sum
}

func inBounds(row, col int) bool {
	return row >= 0 && row < gridSize && col >= 0 && col < gridSize
}

func validateGrid(grid [][]int, field string) error {
	if len(grid) != gridSize {
		return apperrors.WithMetadata(apperrors.CodeContentDimensionMismatch,
			fmt.Sprintf("sudoku %s must have %d rows", field, gridSize),
			map[string]string{"field": field})
	}
	for row, cells := range grid {
		if len(cells) != gridSize {
			return apperrors.WithMetadata(apperrors.CodeContentDimensionMismatch,
				fmt.Sprintf("sudoku %s row %d must have %d cells", field, row, gridSize),
				map[string]string{"field": field})
		}
		for col, value := range cells {
			if value < 0 || value > gridSize {
				return apperrors.WithMetadata(apperrors.CodeContentValueOutOfRange,
					fmt.Sprintf("sudoku %s cell (%d,%d) holds %d", field, row, col, value),
					map[string]string{"field": field})
			}
		}
	}
	return nil
}

func validateCages(cages []Cage) error {
	used := make(map[CageCell]bool)
	for i, cage := range cages {
		if len(cage.Cells) == 0 {
			return apperrors.New(apperrors.CodeContentMissingField,
				fmt.Sprintf("cage %d has no cells", i))
		}
		maxSum := 0
		for v := gridSize; v > gridSize-len(cage.Cells); v-- {
			maxSum += v
		}
		if cage.Sum < 1 || len(cage.Cells) > gridSize || cage.Sum > maxSum {
			return apperrors.New(apperrors.CodeContentValueOutOfRange,
				fmt.Sprintf("cage %d sum %d impossible for %d cells", i, cage.Sum, len(cage.Cells)))
		}
		for _, cell := range cage.Cells {
			if !inBounds(cell.Row, cell.Col) {
				return apperrors.New(apperrors.CodeContentValueOutOfRange,
					fmt.Sprintf("cage %d cell (%d,%d) out of range", i, cell.Row, cell.Col))
			}
			if used[cell] {
				return apperrors.New(apperrors.CodeContentDuplicateEntry,
					fmt.Sprintf("cell (%d,%d) appears in multiple cages", cell.Row, cell.Col))
			}
			used[cell] = true
		}
	}
	return nil
}

func copyGrid(grid [][]int) [][]int {
	if grid == nil {
		return nil
	}
	out := make([][]int, len(grid))
	for i, row := range grid {
		out[i] = append([]int(nil), row...)
	}
	return out
}

func copyNotes(notes [][]uint16) [][]uint16 {
	out := make([][]uint16, len(notes))
	for i, row := range notes {
		out[i] = append([]uint16(nil), row...)
	}
	return out
}

func copyCages(cages []Cage) []Cage {
	if cages == nil {
		return nil
	}
	out := make([]Cage, len(cages))
	for i, cage := range cages {
		out[i] = Cage{Sum: cage.Sum, Cells: append([]CageCell(nil), cage.Cells...)}
	}
	return out
}
