// Package sokoban implements box-pushing warehouse puzzles.
package sokoban

import (
	"fmt"
	"sort"

	apperrors "github.com/puzzlebox-games/puzzlebox/internal/platform/errors"
	"github.com/puzzlebox-games/puzzlebox/internal/puzzle"
	"github.com/puzzlebox-games/puzzlebox/internal/puzzle/undo"
)

// Cell is the fixed terrain of one board position.
type Cell uint8

const (
	// CellFloor is walkable ground.
	CellFloor Cell = iota
	// CellWall blocks the player and boxes.
	CellWall
	// CellTarget is walkable ground a box must end on.
	CellTarget
)

// Config describes the content needed to construct a game.
type Config struct {
	Envelope  puzzle.Envelope
	Cells     [][]Cell
	Boxes     [][2]int
	PlayerRow int
	PlayerCol int
}

type snapshot struct {
	player    [2]int
	boxes     map[[2]int]bool
	moveCount int
	pushCount int
	complete  bool
}

// Game is a sokoban puzzle in progress.
type Game struct {
	env          puzzle.Envelope
	cells        [][]Cell
	rows         int
	cols         int
	player       [2]int
	boxes        map[[2]int]bool
	pushCount    int
	initialBoxes [][2]int
	initialPos   [2]int
	history      undo.Stack[snapshot]
}

var _ puzzle.Undoer = (*Game)(nil)

// New validates the config and constructs a game.
func New(cfg Config) (*Game, error) {
	rows := len(cfg.Cells)
	if rows == 0 {
		return nil, apperrors.New(apperrors.CodeContentMissingField, "sokoban board is empty")
	}
	cols := len(cfg.Cells[0])
	if cols == 0 {
		return nil, apperrors.New(apperrors.CodeContentMissingField, "sokoban board is empty")
	}
	targets := 0
	for r, row := range cfg.Cells {
		if len(row) != cols {
			return nil, apperrors.New(apperrors.CodeContentDimensionMismatch,
				fmt.Sprintf("row %d has %d cells, want %d", r, len(row), cols))
		}
		for _, c := range row {
			if c > CellTarget {
				return nil, apperrors.New(apperrors.CodeContentValueOutOfRange,
					fmt.Sprintf("unknown cell kind %d", c))
			}
			if c == CellTarget {
				targets++
			}
		}
	}
	if targets == 0 {
		return nil, apperrors.New(apperrors.CodeContentMissingField, "sokoban board has no targets")
	}
	if len(cfg.Boxes) != targets {
		return nil, apperrors.New(apperrors.CodeContentValueOutOfRange,
			fmt.Sprintf("%d boxes for %d targets", len(cfg.Boxes), targets))
	}

	boxes := make(map[[2]int]bool, len(cfg.Boxes))
	for _, b := range cfg.Boxes {
		if b[0] < 0 || b[0] >= rows || b[1] < 0 || b[1] >= cols {
			return nil, apperrors.New(apperrors.CodeContentValueOutOfRange,
				fmt.Sprintf("box (%d,%d) out of range", b[0], b[1]))
		}
		if cfg.Cells[b[0]][b[1]] == CellWall {
			return nil, apperrors.New(apperrors.CodeContentValueOutOfRange,
				fmt.Sprintf("box (%d,%d) inside a wall", b[0], b[1]))
		}
		if boxes[b] {
			return nil, apperrors.New(apperrors.CodeContentDuplicateEntry,
				fmt.Sprintf("duplicate box at (%d,%d)", b[0], b[1]))
		}
		boxes[b] = true
	}

	player := [2]int{cfg.PlayerRow, cfg.PlayerCol}
	if player[0] < 0 || player[0] >= rows || player[1] < 0 || player[1] >= cols {
		return nil, apperrors.New(apperrors.CodeContentValueOutOfRange,
			fmt.Sprintf("player (%d,%d) out of range", player[0], player[1]))
	}
	if cfg.Cells[player[0]][player[1]] == CellWall {
		return nil, apperrors.New(apperrors.CodeContentValueOutOfRange,
			fmt.Sprintf("player (%d,%d) inside a wall", player[0], player[1]))
	}
	if boxes[player] {
		return nil, apperrors.New(apperrors.CodeContentDuplicateEntry,
			fmt.Sprintf("player (%d,%d) overlaps a box", player[0], player[1]))
	}

	cells := make([][]Cell, rows)
	for r := range cfg.Cells {
		cells[r] = append([]Cell(nil), cfg.Cells[r]...)
	}

	g := &Game{
		env:          cfg.Envelope,
		cells:        cells,
		rows:         rows,
		cols:         cols,
		player:       player,
		boxes:        boxes,
		initialBoxes: append([][2]int(nil), cfg.Boxes...),
		initialPos:   player,
	}
	g.recompute()
	return g, nil
}

// Move steps the player one cell. A box in the way is pushed when the cell
// beyond it is free. Returns false for non-unit deltas, walls, and blocked
// pushes.
func (g *Game) Move(dRow, dCol int) bool {
	if abs(dRow)+abs(dCol) != 1 {
		return false
	}
	next := [2]int{g.player[0] + dRow, g.player[1] + dCol}
	if g.blocked(next) {
		return false
	}

	pushed := false
	if g.boxes[next] {
		beyond := [2]int{next[0] + dRow, next[1] + dCol}
		if g.blocked(beyond) || g.boxes[beyond] {
			return false
		}
		pushed = true
		g.pushSnapshot()
		delete(g.boxes, next)
		g.boxes[beyond] = true
	} else {
		g.pushSnapshot()
	}

	g.player = next
	g.env.RecordMove()
	if pushed {
		g.pushCount++
	}
	g.recompute()
	return true
}

// Undo restores the previous position, box layout, and both counters.
func (g *Game) Undo() bool {
	snap, ok := g.history.Pop()
	if !ok {
		return false
	}
	g.player = snap.player
	g.boxes = snap.boxes
	g.env.MoveCount = snap.moveCount
	g.pushCount = snap.pushCount
	g.env.SetComplete(snap.complete)
	return true
}

// PushCount reports how many moves pushed a box.
func (g *Game) PushCount() int {
	return g.pushCount
}

// Player returns the player's position.
func (g *Game) Player() (row, col int) {
	return g.player[0], g.player[1]
}

// Boxes returns the box positions in row-major order.
func (g *Game) Boxes() [][2]int {
	out := make([][2]int, 0, len(g.boxes))
	for b := range g.boxes {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i][0] != out[j][0] {
			return out[i][0] < out[j][0]
		}
		return out[i][1] < out[j][1]
	})
	return out
}

// Cell returns the terrain at a position.
func (g *Game) Cell(row, col int) Cell {
	if row < 0 || row >= g.rows || col < 0 || col >= g.cols {
		return CellWall
	}
	return g.cells[row][col]
}

// Size returns the grid dimensions.
func (g *Game) Size() (rows, cols int) {
	return g.rows, g.cols
}

// IsComplete reports whether every target holds a box.
func (g *Game) IsComplete() bool {
	return g.env.Complete
}

// Envelope returns a copy of the puzzle envelope.
func (g *Game) Envelope() puzzle.Envelope {
	return g.env
}

// Reset restores the initial layout and clears progress and history.
func (g *Game) Reset() {
	g.player = g.initialPos
	g.boxes = make(map[[2]int]bool, len(g.initialBoxes))
	for _, b := range g.initialBoxes {
		g.boxes[b] = true
	}
	g.pushCount = 0
	g.history.Clear()
	g.env.ResetProgress()
	g.recompute()
}

// blocked reports whether the cell is out of bounds or a wall.
func (g *Game) blocked(cell [2]int) bool {
	if cell[0] < 0 || cell[0] >= g.rows || cell[1] < 0 || cell[1] >= g.cols {
		return true
	}
	return g.cells[cell[0]][cell[1]] == CellWall
}

func (g *Game) pushSnapshot() {
	boxes := make(map[[2]int]bool, len(g.boxes))
	for b := range g.boxes {
		boxes[b] = true
	}
	g.history.Push(snapshot{
		player:    g.player,
		boxes:     boxes,
		moveCount: g.env.MoveCount,
		pushCount: g.pushCount,
		complete:  g.env.Complete,
	})
}

func (g *Game) recompute() {
	for r := 0; r < g.rows; r++ {
		for c := 0; c < g.cols; c++ {
			if g.cells[r][c] == CellTarget && !g.boxes[[2]int{r, c}] {
				g.env.SetComplete(false)
				return
			}
		}
	}
	g.env.SetComplete(true)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
