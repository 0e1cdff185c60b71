// Package simon implements sequence-memory puzzles. A color sequence
// grows by one each level and the player must reproduce it exactly.
package simon

import (
	"fmt"

	apperrors "github.com/puzzlebox-games/puzzlebox/internal/platform/errors"
	"github.com/puzzlebox-games/puzzlebox/internal/platform/random"
	"github.com/puzzlebox-games/puzzlebox/internal/puzzle"
)

// Config describes the content needed to construct a game. The full
// sequence derives from Seed, so the same seed replays identically.
type Config struct {
	Envelope     puzzle.Envelope
	ColorCount   int
	TargetLength int
	Seed         int64
}

// Game is a sequence-memory puzzle in progress.
type Game struct {
	env        puzzle.Envelope
	colorCount int
	sequence   []int
	level      int
	inputPos   int
	failed     bool
}

var _ puzzle.Variant = (*Game)(nil)

// New validates the config and constructs a game at level one.
func New(cfg Config) (*Game, error) {
	if cfg.ColorCount < 2 {
		return nil, apperrors.New(apperrors.CodeContentValueOutOfRange,
			fmt.Sprintf("color count %d below 2", cfg.ColorCount))
	}
	if cfg.TargetLength < 1 {
		return nil, apperrors.New(apperrors.CodeContentValueOutOfRange,
			fmt.Sprintf("target length %d below 1", cfg.TargetLength))
	}

	g := &Game{
		env:        cfg.Envelope,
		colorCount: cfg.ColorCount,
		sequence:   make([]int, cfg.TargetLength),
		level:      1,
	}
	rng := random.NewSource(cfg.Seed)
	for i := range g.sequence {
		g.sequence[i] = rng.Intn(cfg.ColorCount)
	}
	return g, nil
}

// Press plays one color. A correct press advances the level's input; a
// wrong press ends the game. Completing the final level completes the
// game. Returns false for unknown colors and after the game has ended.
func (g *Game) Press(color int) bool {
	if g.failed || g.env.Complete {
		return false
	}
	if color < 0 || color >= g.colorCount {
		return false
	}

	g.env.RecordMove()
	if color != g.sequence[g.inputPos] {
		g.failed = true
		return true
	}

	g.inputPos++
	if g.inputPos < g.level {
		return true
	}
	if g.level == len(g.sequence) {
		g.env.SetComplete(true)
		return true
	}
	g.level++
	g.inputPos = 0
	return true
}

// Sequence returns the portion of the sequence shown for the current
// level.
func (g *Game) Sequence() []int {
	return append([]int(nil), g.sequence[:g.level]...)
}

// Level reports the current sequence length being reproduced.
func (g *Game) Level() int {
	return g.level
}

// InputPosition reports how many presses of the current level are done.
func (g *Game) InputPosition() int {
	return g.inputPos
}

// Failed reports whether a wrong press ended the game.
func (g *Game) Failed() bool {
	return g.failed
}

// IsComplete reports whether the target level was reproduced.
func (g *Game) IsComplete() bool {
	return g.env.Complete
}

// Envelope returns a copy of the puzzle envelope.
func (g *Game) Envelope() puzzle.Envelope {
	return g.env
}

// Reset returns to level one with the same sequence.
func (g *Game) Reset() {
	g.level = 1
	g.inputPos = 0
	g.failed = false
	g.env.ResetProgress()
}
