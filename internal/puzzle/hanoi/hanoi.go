// Package hanoi implements Tower of Hanoi puzzles.
package hanoi

import (
	"fmt"

	apperrors "github.com/puzzlebox-games/puzzlebox/internal/platform/errors"
	"github.com/puzzlebox-games/puzzlebox/internal/puzzle"
)

// Config describes the content needed to construct a game.
type Config struct {
	Envelope  puzzle.Envelope
	DiskCount int
	PegCount  int
}

// Game is a Tower of Hanoi puzzle in progress. Disks are numbered by
// size, 1 the smallest; pegs hold them bottom to top.
type Game struct {
	env   puzzle.Envelope
	disks int
	pegs  [][]int
}

var _ puzzle.Variant = (*Game)(nil)

// New validates the config and constructs a game with every disk stacked
// on the first peg.
func New(cfg Config) (*Game, error) {
	if cfg.DiskCount < 1 {
		return nil, apperrors.New(apperrors.CodeContentValueOutOfRange,
			fmt.Sprintf("disk count %d below 1", cfg.DiskCount))
	}
	if cfg.PegCount < 3 {
		return nil, apperrors.New(apperrors.CodeContentValueOutOfRange,
			fmt.Sprintf("peg count %d below 3", cfg.PegCount))
	}

	g := &Game{
		env:   cfg.Envelope,
		disks: cfg.DiskCount,
		pegs:  make([][]int, cfg.PegCount),
	}
	g.stackFirstPeg()
	return g, nil
}

// Move lifts the top disk of one peg onto another. A disk may only rest
// on a larger disk or an empty peg.
func (g *Game) Move(from, to int) bool {
	if from < 0 || from >= len(g.pegs) || to < 0 || to >= len(g.pegs) || from == to {
		return false
	}
	src := g.pegs[from]
	if len(src) == 0 {
		return false
	}
	disk := src[len(src)-1]
	dst := g.pegs[to]
	if len(dst) > 0 && dst[len(dst)-1] < disk {
		return false
	}

	g.pegs[from] = src[:len(src)-1]
	g.pegs[to] = append(dst, disk)
	g.env.RecordMove()
	last := len(g.pegs) - 1
	g.env.SetComplete(len(g.pegs[last]) == g.disks)
	return true
}

// Peg returns a copy of a peg's disks, bottom to top.
func (g *Game) Peg(i int) []int {
	if i < 0 || i >= len(g.pegs) {
		return nil
	}
	return append([]int(nil), g.pegs[i]...)
}

// PegCount reports the number of pegs.
func (g *Game) PegCount() int {
	return len(g.pegs)
}

// DiskCount reports the number of disks.
func (g *Game) DiskCount() int {
	return g.disks
}

// MinimumMoves reports the optimal solution length for three pegs.
func (g *Game) MinimumMoves() int {
	return 1<<g.disks - 1
}

// IsComplete reports whether every disk rests on the last peg.
func (g *Game) IsComplete() bool {
	return g.env.Complete
}

// Envelope returns a copy of the puzzle envelope.
func (g *Game) Envelope() puzzle.Envelope {
	return g.env
}

// Reset restacks every disk on the first peg and clears progress.
func (g *Game) Reset() {
	g.stackFirstPeg()
	g.env.ResetProgress()
}

func (g *Game) stackFirstPeg() {
	for i := range g.pegs {
		g.pegs[i] = nil
	}
	stack := make([]int, g.disks)
	for i := 0; i < g.disks; i++ {
		stack[i] = g.disks - i
	}
	g.pegs[0] = stack
}
