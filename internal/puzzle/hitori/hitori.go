// Package hitori implements number-elimination puzzles. The player
// shades cells so no value repeats unshaded in a row or column, no two
// shaded cells touch orthogonally, and the unshaded cells stay connected.
package hitori

import (
	"fmt"

	apperrors "github.com/puzzlebox-games/puzzlebox/internal/platform/errors"
	"github.com/puzzlebox-games/puzzlebox/internal/puzzle"
	"github.com/puzzlebox-games/puzzlebox/internal/puzzle/undo"
)

// Config describes the content needed to construct a game. Solution is
// the authored shading mask, true meaning shaded.
type Config struct {
	Envelope puzzle.Envelope
	Size     int
	Grid     [][]int
	Solution [][]bool
}

type snapshot struct {
	shaded    [][]bool
	moveCount int
	complete  bool
}

// Game is a hitori puzzle in progress.
type Game struct {
	env     puzzle.Envelope
	size    int
	grid    [][]int
	shaded  [][]bool
	history undo.Stack[snapshot]
}

var _ puzzle.Undoer = (*Game)(nil)

// New validates the config and constructs a game with nothing shaded.
// The authored solution must itself satisfy all three rules.
func New(cfg Config) (*Game, error) {
	if cfg.Size < 2 {
		return nil, apperrors.New(apperrors.CodeContentValueOutOfRange,
			fmt.Sprintf("hitori size %d below 2", cfg.Size))
	}
	if len(cfg.Grid) != cfg.Size {
		return nil, apperrors.New(apperrors.CodeContentDimensionMismatch,
			fmt.Sprintf("grid has %d rows, want %d", len(cfg.Grid), cfg.Size))
	}
	grid := make([][]int, cfg.Size)
	for r, row := range cfg.Grid {
		if len(row) != cfg.Size {
			return nil, apperrors.New(apperrors.CodeContentDimensionMismatch,
				fmt.Sprintf("row %d has %d cells, want %d", r, len(row), cfg.Size))
		}
		for c, v := range row {
			if v < 1 || v > cfg.Size {
				return nil, apperrors.New(apperrors.CodeContentValueOutOfRange,
					fmt.Sprintf("value %d at (%d,%d) outside 1..%d", v, r, c, cfg.Size))
			}
		}
		grid[r] = append([]int(nil), row...)
	}

	if len(cfg.Solution) != cfg.Size {
		return nil, apperrors.New(apperrors.CodeContentDimensionMismatch,
			fmt.Sprintf("solution has %d rows, want %d", len(cfg.Solution), cfg.Size))
	}
	for r, row := range cfg.Solution {
		if len(row) != cfg.Size {
			return nil, apperrors.New(apperrors.CodeContentDimensionMismatch,
				fmt.Sprintf("solution row %d has %d cells, want %d", r, len(row), cfg.Size))
		}
	}

	g := &Game{
		env:    cfg.Envelope,
		size:   cfg.Size,
		grid:   grid,
		shaded: emptyMask(cfg.Size),
	}
	if !g.solves(cfg.Solution) {
		return nil, apperrors.New(apperrors.CodeContentSolutionMismatch,
			"authored solution violates the shading rules")
	}
	g.recompute()
	return g, nil
}

// Toggle flips the shading of a cell.
func (g *Game) Toggle(row, col int) bool {
	if row < 0 || row >= g.size || col < 0 || col >= g.size {
		return false
	}
	g.pushSnapshot()
	g.shaded[row][col] = !g.shaded[row][col]
	g.env.RecordMove()
	g.recompute()
	return true
}

// Undo restores the previous shading.
func (g *Game) Undo() bool {
	snap, ok := g.history.Pop()
	if !ok {
		return false
	}
	g.shaded = snap.shaded
	g.env.MoveCount = snap.moveCount
	g.env.SetComplete(snap.complete)
	return true
}

// Shaded reports whether a cell is shaded.
func (g *Game) Shaded(row, col int) bool {
	if row < 0 || row >= g.size || col < 0 || col >= g.size {
		return false
	}
	return g.shaded[row][col]
}

// Value returns the printed number of a cell.
func (g *Game) Value(row, col int) int {
	if row < 0 || row >= g.size || col < 0 || col >= g.size {
		return 0
	}
	return g.grid[row][col]
}

// Size reports the board dimension.
func (g *Game) Size() int {
	return g.size
}

// DuplicateUnshaded returns unshaded cells whose value repeats unshaded
// in their row or column, in row-major order.
func (g *Game) DuplicateUnshaded() [][2]int {
	flag := make([][]bool, g.size)
	for i := range flag {
		flag[i] = make([]bool, g.size)
	}
	for a := 0; a < g.size; a++ {
		for b := 0; b < g.size; b++ {
			for c := b + 1; c < g.size; c++ {
				if !g.shaded[a][b] && !g.shaded[a][c] && g.grid[a][b] == g.grid[a][c] {
					flag[a][b], flag[a][c] = true, true
				}
				if !g.shaded[b][a] && !g.shaded[c][a] && g.grid[b][a] == g.grid[c][a] {
					flag[b][a], flag[c][a] = true, true
				}
			}
		}
	}
	return cellsWhere(flag)
}

// AdjacentShaded returns shaded cells touching another shaded cell
// orthogonally, in row-major order.
func (g *Game) AdjacentShaded() [][2]int {
	flag := make([][]bool, g.size)
	for i := range flag {
		flag[i] = make([]bool, g.size)
	}
	for r := 0; r < g.size; r++ {
		for c := 0; c < g.size; c++ {
			if !g.shaded[r][c] {
				continue
			}
			if r+1 < g.size && g.shaded[r+1][c] {
				flag[r][c], flag[r+1][c] = true, true
			}
			if c+1 < g.size && g.shaded[r][c+1] {
				flag[r][c], flag[r][c+1] = true, true
			}
		}
	}
	return cellsWhere(flag)
}

// Disconnected reports whether shading has split the unshaded region.
func (g *Game) Disconnected() bool {
	return !connected(g.shaded, g.size)
}

// IsComplete reports whether the current shading satisfies all three
// rules.
func (g *Game) IsComplete() bool {
	return g.env.Complete
}

// Envelope returns a copy of the puzzle envelope.
func (g *Game) Envelope() puzzle.Envelope {
	return g.env
}

// Reset clears all shading, progress, and history.
func (g *Game) Reset() {
	g.shaded = emptyMask(g.size)
	g.history.Clear()
	g.env.ResetProgress()
	g.recompute()
}

func (g *Game) pushSnapshot() {
	shaded := make([][]bool, g.size)
	for r := range g.shaded {
		shaded[r] = append([]bool(nil), g.shaded[r]...)
	}
	g.history.Push(snapshot{
		shaded:    shaded,
		moveCount: g.env.MoveCount,
		complete:  g.env.Complete,
	})
}

func (g *Game) recompute() {
	g.env.SetComplete(g.solves(g.shaded))
}

// solves checks a shading mask against all three rules.
func (g *Game) solves(shaded [][]bool) bool {
	for a := 0; a < g.size; a++ {
		for b := 0; b < g.size; b++ {
			for c := b + 1; c < g.size; c++ {
				if !shaded[a][b] && !shaded[a][c] && g.grid[a][b] == g.grid[a][c] {
					return false
				}
				if !shaded[b][a] && !shaded[c][a] && g.grid[b][a] == g.grid[c][a] {
					return false
				}
			}
		}
	}
	for r := 0; r < g.size; r++ {
		for c := 0; c < g.size; c++ {
			if !shaded[r][c] {
				continue
			}
			if r+1 < g.size && shaded[r+1][c] {
				return false
			}
			if c+1 < g.size && shaded[r][c+1] {
				return false
			}
		}
	}
	return connected(shaded, g.size)
}

// connected reports whether the unshaded cells form one orthogonal
// region. A fully shaded board counts as connected.
func connected(shaded [][]bool, size int) bool {
	var start [2]int
	total := 0
	for r := 0; r < size; r++ {
		for c := 0; c < size; c++ {
			if !shaded[r][c] {
				if total == 0 {
					start = [2]int{r, c}
				}
				total++
			}
		}
	}
	if total == 0 {
		return true
	}

	seen := make(map[[2]int]bool, total)
	seen[start] = true
	queue := [][2]int{start}
	visited := 0
	for len(queue) > 0 {
		cell := queue[0]
		queue = queue[1:]
		visited++
		for _, d := range [][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}} {
			n := [2]int{cell[0] + d[0], cell[1] + d[1]}
			if n[0] < 0 || n[0] >= size || n[1] < 0 || n[1] >= size {
				continue
			}
			if shaded[n[0]][n[1]] || seen[n] {
				continue
			}
			seen[n] = true
			queue = append(queue, n)
		}
	}
	return visited == total
}

func emptyMask(size int) [][]bool {
	mask := make([][]bool, size)
	for i := range mask {
		mask[i] = make([]bool, size)
	}
	return mask
}

func cellsWhere(flag [][]bool) [][2]int {
	var out [][2]int
	for r := range flag {
		for c := range flag[r] {
			if flag[r][c] {
				out = append(out, [2]int{r, c})
			}
		}
	}
	return out
}
