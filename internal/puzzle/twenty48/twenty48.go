// Package twenty48 implements sliding tile-merge puzzles in the style
// of 2048.
package twenty48

import (
	"fmt"
	"math/rand"

	apperrors "github.com/puzzlebox-games/puzzlebox/internal/platform/errors"
	"github.com/puzzlebox-games/puzzlebox/internal/platform/random"
	"github.com/puzzlebox-games/puzzlebox/internal/puzzle"
)

// Direction is a slide direction.
type Direction uint8

const (
	// DirectionUp slides tiles toward row zero.
	DirectionUp Direction = iota
	// DirectionDown slides tiles toward the last row.
	DirectionDown
	// DirectionLeft slides tiles toward column zero.
	DirectionLeft
	// DirectionRight slides tiles toward the last column.
	DirectionRight
)

// Config describes the content needed to construct a game. Spawns derive
// from Seed, so the same seed replays identically.
type Config struct {
	Envelope   puzzle.Envelope
	Size       int
	TargetTile int
	Seed       int64
}

// Game is a tile-merge puzzle in progress.
type Game struct {
	env    puzzle.Envelope
	size   int
	target int
	seed   int64
	rng    *rand.Rand
	grid   [][]int
	score  int
	lost   bool
}

var _ puzzle.Variant = (*Game)(nil)

// New validates the config and constructs a game with two spawned tiles.
func New(cfg Config) (*Game, error) {
	if cfg.Size < 2 {
		return nil, apperrors.New(apperrors.CodeContentValueOutOfRange,
			fmt.Sprintf("board size %d below 2", cfg.Size))
	}
	if cfg.TargetTile < 8 || cfg.TargetTile&(cfg.TargetTile-1) != 0 {
		return nil, apperrors.New(apperrors.CodeContentValueOutOfRange,
			fmt.Sprintf("target tile %d is not a power of two above 4", cfg.TargetTile))
	}

	g := &Game{
		env:    cfg.Envelope,
		size:   cfg.Size,
		target: cfg.TargetTile,
		seed:   cfg.Seed,
	}
	g.start()
	return g, nil
}

// Move slides every tile in one direction, merging equal neighbors. A
// tile merges at most once per move. A move that changes nothing is
// rejected; a changing move spawns one new tile. Returns false after the
// board is stuck.
func (g *Game) Move(dir Direction) bool {
	if g.lost || dir > DirectionRight {
		return false
	}
	if !g.slide(dir) {
		return false
	}
	g.spawn()
	g.env.RecordMove()
	g.recompute()
	return true
}

// Tile returns the value at a cell, zero when empty.
func (g *Game) Tile(row, col int) int {
	if row < 0 || row >= g.size || col < 0 || col >= g.size {
		return 0
	}
	return g.grid[row][col]
}

// Grid returns a copy of the board.
func (g *Game) Grid() [][]int {
	out := make([][]int, g.size)
	for r := range g.grid {
		out[r] = append([]int(nil), g.grid[r]...)
	}
	return out
}

// Score reports the sum of all merged tile values.
func (g *Game) Score() int {
	return g.score
}

// Lost reports whether the board is full with no merge available.
func (g *Game) Lost() bool {
	return g.lost
}

// IsComplete reports whether a tile reached the target value.
func (g *Game) IsComplete() bool {
	return g.env.Complete
}

// Envelope returns a copy of the puzzle envelope.
func (g *Game) Envelope() puzzle.Envelope {
	return g.env
}

// Reset replays the initial spawns from the same seed and clears
// progress.
func (g *Game) Reset() {
	g.start()
	g.env.ResetProgress()
}

func (g *Game) start() {
	g.rng = random.NewSource(g.seed)
	g.grid = make([][]int, g.size)
	for r := range g.grid {
		g.grid[r] = make([]int, g.size)
	}
	g.score = 0
	g.lost = false
	g.spawn()
	g.spawn()
}

// spawn places a 2 (or, one time in ten, a 4) on a random empty cell.
func (g *Game) spawn() {
	var empty [][2]int
	for r := 0; r < g.size; r++ {
		for c := 0; c < g.size; c++ {
			if g.grid[r][c] == 0 {
				empty = append(empty, [2]int{r, c})
			}
		}
	}
	if len(empty) == 0 {
		return
	}
	cell := empty[g.rng.Intn(len(empty))]
	value := 2
	if g.rng.Intn(10) == 0 {
		value = 4
	}
	g.grid[cell[0]][cell[1]] = value
}

// slide moves every line toward the direction and reports whether any
// tile moved or merged.
func (g *Game) slide(dir Direction) bool {
	changed := false
	for i := 0; i < g.size; i++ {
		line := g.extract(dir, i)
		slid, gained := slideLine(line)
		for j := range line {
			if line[j] != slid[j] {
				changed = true
				break
			}
		}
		g.score += gained
		g.write(dir, i, slid)
	}
	return changed
}

// extract reads line i in slide order, nearest-edge first.
func (g *Game) extract(dir Direction, i int) []int {
	line := make([]int, g.size)
	for j := 0; j < g.size; j++ {
		switch dir {
		case DirectionLeft:
			line[j] = g.grid[i][j]
		case DirectionRight:
			line[j] = g.grid[i][g.size-1-j]
		case DirectionUp:
			line[j] = g.grid[j][i]
		case DirectionDown:
			line[j] = g.grid[g.size-1-j][i]
		}
	}
	return line
}

func (g *Game) write(dir Direction, i int, line []int) {
	for j := 0; j < g.size; j++ {
		switch dir {
		case DirectionLeft:
			g.grid[i][j] = line[j]
		case DirectionRight:
			g.grid[i][g.size-1-j] = line[j]
		case DirectionUp:
			g.grid[j][i] = line[j]
		case DirectionDown:
			g.grid[g.size-1-j][i] = line[j]
		}
	}
}

// slideLine compacts a line toward index zero and merges equal pairs
// front to back, each tile at most once.
func slideLine(line []int) ([]int, int) {
	compact := make([]int, 0, len(line))
	for _, v := range line {
		if v != 0 {
			compact = append(compact, v)
		}
	}
	out := make([]int, 0, len(line))
	gained := 0
	for i := 0; i < len(compact); i++ {
		if i+1 < len(compact) && compact[i] == compact[i+1] {
			out = append(out, compact[i]*2)
			gained += compact[i] * 2
			i++
			continue
		}
		out = append(out, compact[i])
	}
	for len(out) < len(line) {
		out = append(out, 0)
	}
	return out, gained
}

func (g *Game) recompute() {
	best := 0
	for r := 0; r < g.size; r++ {
		for c := 0; c < g.size; c++ {
			if g.grid[r][c] > best {
				best = g.grid[r][c]
			}
		}
	}
	g.env.SetComplete(best >= g.target)
	g.lost = g.stuck()
}

// stuck reports whether no slide can change the board.
func (g *Game) stuck() bool {
	for r := 0; r < g.size; r++ {
		for c := 0; c < g.size; c++ {
			if g.grid[r][c] == 0 {
				return false
			}
			if r+1 < g.size && g.grid[r][c] == g.grid[r+1][c] {
				return false
			}
			if c+1 < g.size && g.grid[r][c] == g.grid[r][c+1] {
				return false
			}
		}
	}
	return true
}
