// Package minesweeper implements mine-avoidance puzzles with lazy,
// first-reveal-safe mine placement.
package minesweeper

import (
	"fmt"

	apperrors "github.com/puzzlebox-games/puzzlebox/internal/platform/errors"
	"github.com/puzzlebox-games/puzzlebox/internal/platform/random"
	"github.com/puzzlebox-games/puzzlebox/internal/puzzle"
)

// CellState is the player-visible state of one cell.
type CellState uint8

const (
	// CellHidden is an untouched cell.
	CellHidden CellState = iota
	// CellRevealed is an uncovered cell.
	CellRevealed
	// CellFlagged is a hidden cell marked as a suspected mine.
	CellFlagged
)

// Config describes the content needed to construct a game. Mines are not
// placed until the first reveal, so the board layout depends on Seed and
// on where the player first clicks.
type Config struct {
	Envelope  puzzle.Envelope
	Rows      int
	Cols      int
	MineCount int
	Seed      int64
}

// Game is a minesweeper puzzle in progress.
type Game struct {
	env       puzzle.Envelope
	rows      int
	cols      int
	mineCount int
	seed      int64
	state     [][]CellState
	mines     map[[2]int]bool
	counts    [][]int
	placed    bool
	lost      bool
	revealed  int
}

var _ puzzle.Variant = (*Game)(nil)

// New validates the config and constructs a game. MineCount must leave
// room for the mine-free zone around any first reveal.
func New(cfg Config) (*Game, error) {
	if cfg.Rows < 3 || cfg.Cols < 3 {
		return nil, apperrors.New(apperrors.CodeContentValueOutOfRange,
			fmt.Sprintf("minesweeper board %dx%d too small", cfg.Rows, cfg.Cols))
	}
	if cfg.MineCount < 1 || cfg.MineCount > cfg.Rows*cfg.Cols-9 {
		return nil, apperrors.WithMetadata(apperrors.CodeContentValueOutOfRange,
			fmt.Sprintf("mine count %d outside [1,%d]", cfg.MineCount, cfg.Rows*cfg.Cols-9),
			map[string]string{"mine_count": fmt.Sprint(cfg.MineCount)})
	}

	g := &Game{
		env:       cfg.Envelope,
		rows:      cfg.Rows,
		cols:      cfg.Cols,
		mineCount: cfg.MineCount,
		seed:      cfg.Seed,
	}
	g.clear()
	return g, nil
}

// Reveal uncovers a cell. The first reveal places the mines, guaranteeing
// a mine-free zone around it. Revealing a zero-count cell floods outward.
// Revealing a mine loses the game. Returns false for flagged, already
// revealed, or out-of-range cells, and after the game has ended.
func (g *Game) Reveal(row, col int) bool {
	if g.over() || !g.inBounds(row, col) {
		return false
	}
	if g.state[row][col] != CellHidden {
		return false
	}

	if !g.placed {
		g.placeMines(row, col)
	}

	g.env.RecordMove()
	if g.mines[[2]int{row, col}] {
		g.state[row][col] = CellRevealed
		g.lost = true
		return true
	}

	g.flood(row, col)
	if g.revealed == g.rows*g.cols-g.mineCount {
		g.env.SetComplete(true)
	}
	return true
}

// ToggleFlag marks or unmarks a hidden cell. Revealed cells and ended
// games reject the toggle.
func (g *Game) ToggleFlag(row, col int) bool {
	if g.over() || !g.inBounds(row, col) {
		return false
	}
	switch g.state[row][col] {
	case CellHidden:
		g.state[row][col] = CellFlagged
	case CellFlagged:
		g.state[row][col] = CellHidden
	default:
		return false
	}
	g.env.RecordMove()
	return true
}

// State returns the player-visible state of a cell.
func (g *Game) State(row, col int) CellState {
	if !g.inBounds(row, col) {
		return CellHidden
	}
	return g.state[row][col]
}

// AdjacentMines returns the mine count bordering a revealed cell. The
// second result is false for cells that are not revealed.
func (g *Game) AdjacentMines(row, col int) (int, bool) {
	if !g.inBounds(row, col) || g.state[row][col] != CellRevealed {
		return 0, false
	}
	return g.counts[row][col], true
}

// Size returns the grid dimensions.
func (g *Game) Size() (rows, cols int) {
	return g.rows, g.cols
}

// Lost reports whether a mine was revealed.
func (g *Game) Lost() bool {
	return g.lost
}

// Mines returns the mine positions once the game has ended, nil before.
func (g *Game) Mines() [][2]int {
	if !g.over() {
		return nil
	}
	out := make([][2]int, 0, len(g.mines))
	for r := 0; r < g.rows; r++ {
		for c := 0; c < g.cols; c++ {
			if g.mines[[2]int{r, c}] {
				out = append(out, [2]int{r, c})
			}
		}
	}
	return out
}

// IsComplete reports whether every non-mine cell is revealed.
func (g *Game) IsComplete() bool {
	return g.env.Complete
}

// Envelope returns a copy of the puzzle envelope.
func (g *Game) Envelope() puzzle.Envelope {
	return g.env
}

// Reset clears the board. Mines are placed again on the next first
// reveal from the same seed.
func (g *Game) Reset() {
	g.clear()
	g.env.ResetProgress()
}

func (g *Game) clear() {
	g.state = make([][]CellState, g.rows)
	g.counts = make([][]int, g.rows)
	for r := 0; r < g.rows; r++ {
		g.state[r] = make([]CellState, g.cols)
		g.counts[r] = make([]int, g.cols)
	}
	g.mines = make(map[[2]int]bool, g.mineCount)
	g.placed = false
	g.lost = false
	g.revealed = 0
}

func (g *Game) over() bool {
	return g.lost || g.env.Complete
}

func (g *Game) inBounds(row, col int) bool {
	return row >= 0 && row < g.rows && col >= 0 && col < g.cols
}

// placeMines scatters mines across every cell outside the 3x3 zone
// centered on the first reveal, then precomputes adjacency counts.
func (g *Game) placeMines(row, col int) {
	var candidates [][2]int
	for r := 0; r < g.rows; r++ {
		for c := 0; c < g.cols; c++ {
			if abs(r-row) <= 1 && abs(c-col) <= 1 {
				continue
			}
			candidates = append(candidates, [2]int{r, c})
		}
	}
	rng := random.NewSource(g.seed)
	rng.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})
	for _, cell := range candidates[:g.mineCount] {
		g.mines[cell] = true
	}
	g.computeCounts()
	g.placed = true
}

func (g *Game) computeCounts() {
	for r := 0; r < g.rows; r++ {
		for c := 0; c < g.cols; c++ {
			n := 0
			for dr := -1; dr <= 1; dr++ {
				for dc := -1; dc <= 1; dc++ {
					if dr == 0 && dc == 0 {
						continue
					}
					if g.mines[[2]int{r + dr, c + dc}] {
						n++
					}
				}
			}
			g.counts[r][c] = n
		}
	}
}

// flood reveals the cell and, when its count is zero, spreads across the
// blank region and its numbered border. Flagged cells stay covered.
func (g *Game) flood(row, col int) {
	queue := [][2]int{{row, col}}
	for len(queue) > 0 {
		cell := queue[0]
		queue = queue[1:]
		r, c := cell[0], cell[1]
		if g.state[r][c] != CellHidden {
			continue
		}
		g.state[r][c] = CellRevealed
		g.revealed++
		if g.counts[r][c] != 0 {
			continue
		}
		for dr := -1; dr <= 1; dr++ {
			for dc := -1; dc <= 1; dc++ {
				if dr == 0 && dc == 0 {
					continue
				}
				nr, nc := r+dr, c+dc
				if g.inBounds(nr, nc) && g.state[nr][nc] == CellHidden {
					queue = append(queue, [2]int{nr, nc})
				}
			}
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
