// Package lightsout implements toggle-grid puzzles. Pressing a cell
// flips it and its orthogonal neighbors; the goal is all lights off.
package lightsout

import (
	"fmt"

	apperrors "github.com/puzzlebox-games/puzzlebox/internal/platform/errors"
	"github.com/puzzlebox-games/puzzlebox/internal/puzzle"
)

// Config describes the content needed to construct a game.
type Config struct {
	Envelope puzzle.Envelope
	Size     int
	Initial  [][]bool
}

// Game is a lights out puzzle in progress.
type Game struct {
	env     puzzle.Envelope
	size    int
	lights  [][]bool
	initial [][]bool
	lit     int
}

var _ puzzle.Variant = (*Game)(nil)

// New validates the config and constructs a game.
func New(cfg Config) (*Game, error) {
	if cfg.Size < 2 {
		return nil, apperrors.New(apperrors.CodeContentValueOutOfRange,
			fmt.Sprintf("lights out size %d below 2", cfg.Size))
	}
	if len(cfg.Initial) != cfg.Size {
		return nil, apperrors.New(apperrors.CodeContentDimensionMismatch,
			fmt.Sprintf("initial grid has %d rows, want %d", len(cfg.Initial), cfg.Size))
	}
	lit := 0
	initial := make([][]bool, cfg.Size)
	for r, row := range cfg.Initial {
		if len(row) != cfg.Size {
			return nil, apperrors.New(apperrors.CodeContentDimensionMismatch,
				fmt.Sprintf("row %d has %d cells, want %d", r, len(row), cfg.Size))
		}
		for _, on := range row {
			if on {
				lit++
			}
		}
		initial[r] = append([]bool(nil), row...)
	}
	if lit == 0 {
		return nil, apperrors.New(apperrors.CodeContentValueOutOfRange,
			"initial grid has no lights on")
	}

	g := &Game{
		env:     cfg.Envelope,
		size:    cfg.Size,
		initial: initial,
	}
	g.restore()
	return g, nil
}

// Press flips the cell and its orthogonal neighbors.
func (g *Game) Press(row, col int) bool {
	if row < 0 || row >= g.size || col < 0 || col >= g.size {
		return false
	}
	g.flip(row, col)
	g.flip(row-1, col)
	g.flip(row+1, col)
	g.flip(row, col-1)
	g.flip(row, col+1)
	g.env.RecordMove()
	g.env.SetComplete(g.lit == 0)
	return true
}

// On reports whether a light is lit.
func (g *Game) On(row, col int) bool {
	if row < 0 || row >= g.size || col < 0 || col >= g.size {
		return false
	}
	return g.lights[row][col]
}

// LitCount reports how many lights are on.
func (g *Game) LitCount() int {
	return g.lit
}

// Size reports the board dimension.
func (g *Game) Size() int {
	return g.size
}

// IsComplete reports whether every light is off.
func (g *Game) IsComplete() bool {
	return g.env.Complete
}

// Envelope returns a copy of the puzzle envelope.
func (g *Game) Envelope() puzzle.Envelope {
	return g.env
}

// Reset restores the initial lights and clears progress.
func (g *Game) Reset() {
	g.restore()
	g.env.ResetProgress()
}

func (g *Game) restore() {
	g.lights = make([][]bool, g.size)
	g.lit = 0
	for r := range g.initial {
		g.lights[r] = append([]bool(nil), g.initial[r]...)
		for _, on := range g.initial[r] {
			if on {
				g.lit++
			}
		}
	}
}

func (g *Game) flip(row, col int) {
	if row < 0 || row >= g.size || col < 0 || col >= g.size {
		return
	}
	if g.lights[row][col] {
		g.lit--
	} else {
		g.lit++
	}
	g.lights[row][col] = !g.lights[row][col]
}
