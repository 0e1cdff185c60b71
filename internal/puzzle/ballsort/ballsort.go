// Package ballsort implements color-sorting tube puzzles.
package ballsort

import (
	"fmt"

	apperrors "github.com/puzzlebox-games/puzzlebox/internal/platform/errors"
	"github.com/puzzlebox-games/puzzlebox/internal/puzzle"
	"github.com/puzzlebox-games/puzzlebox/internal/puzzle/undo"
)

// Config describes the content needed to construct a game.
type Config struct {
	Envelope     puzzle.Envelope
	TubeCount    int
	TubeCapacity int
	// Initial lists each tube's balls bottom to top.
	Initial [][]string
}

type snapshot struct {
	tubes [][]string
	env   puzzle.Envelope
}

// Game is a ball sort puzzle in progress.
type Game struct {
	env      puzzle.Envelope
	capacity int
	tubes    [][]string
	history  undo.Stack[snapshot]
}

var _ puzzle.Undoer = (*Game)(nil)

// New validates the config and constructs a game.
func New(cfg Config) (*Game, error) {
	if cfg.TubeCount < 2 || cfg.TubeCapacity < 1 {
		return nil, apperrors.New(apperrors.CodeContentValueOutOfRange,
			fmt.Sprintf("ball sort needs at least two tubes with positive capacity, got %d tubes of %d", cfg.TubeCount, cfg.TubeCapacity))
	}
	if len(cfg.Initial) != cfg.TubeCount {
		return nil, apperrors.New(apperrors.CodeContentDimensionMismatch,
			fmt.Sprintf("ball sort lists %d tubes, want %d", len(cfg.Initial), cfg.TubeCount))
	}

	colorCounts := make(map[string]int)
	for i, tube := range cfg.Initial {
		if len(tube) > cfg.TubeCapacity {
			return nil, apperrors.New(apperrors.CodeContentValueOutOfRange,
				fmt.Sprintf("tube %d holds %d balls, capacity %d", i, len(tube), cfg.TubeCapacity))
		}
		for _, color := range tube {
			if color == "" {
				return nil, apperrors.New(apperrors.CodeContentMissingField,
					fmt.Sprintf("tube %d holds an unnamed color", i))
			}
			colorCounts[color]++
		}
	}
	// Every color must be able to fill a tube exactly, or the puzzle can
	// never complete.
	for color, count := range colorCounts {
		if count != cfg.TubeCapacity {
			return nil, apperrors.WithMetadata(apperrors.CodeContentValueOutOfRange,
				fmt.Sprintf("color %s appears %d times, want %d", color, count, cfg.TubeCapacity),
				map[string]string{"color": color})
		}
	}

	g := &Game{
		env:      cfg.Envelope,
		capacity: cfg.TubeCapacity,
		tubes:    copyTubes(cfg.Initial),
	}
	g.recompute()
	return g, nil
}

// CanMove reports whether at least one ball can transfer between the tubes.
func (g *Game) CanMove(from, to int) bool {
	if from == to || !g.tubeInBounds(from) || !g.tubeInBounds(to) {
		return false
	}
	source := g.tubes[from]
	target := g.tubes[to]
	if len(source) == 0 || len(target) >= g.capacity {
		return false
	}
	if len(target) == 0 {
		return true
	}
	return target[len(target)-1] == source[len(source)-1]
}

// Move transfers the source tube's top run into the target, bounded by the
// target's free space. Order is preserved and the whole transfer counts as
// one move.
func (g *Game) Move(from, to int) bool {
	if !g.CanMove(from, to) {
		return false
	}

	run := g.ConsecutiveTopBalls(from)
	room := g.capacity - len(g.tubes[to])
	count := run
	if room < count {
		count = room
	}

	g.pushSnapshot()
	source := g.tubes[from]
	moved := source[len(source)-count:]
	g.tubes[to] = append(g.tubes[to], moved...)
	g.tubes[from] = source[:len(source)-count]
	g.env.RecordMove()
	g.recompute()
	return true
}

// ConsecutiveTopBalls returns the length of the same-color run at the top
// of the tube.
func (g *Game) ConsecutiveTopBalls(tube int) int {
	if !g.tubeInBounds(tube) || len(g.tubes[tube]) == 0 {
		return 0
	}
	balls := g.tubes[tube]
	top := balls[len(balls)-1]
	run := 0
	for i := len(balls) - 1; i >= 0 && balls[i] == top; i-- {
		run++
	}
	return run
}

// TubeComplete reports whether the tube is empty or full of one color.
func (g *Game) TubeComplete(tube int) bool {
	if !g.tubeInBounds(tube) {
		return false
	}
	return tubeComplete(g.tubes[tube], g.capacity)
}

// Tubes returns a copy of all tube contents, bottom to top.
func (g *Game) Tubes() [][]string {
	return copyTubes(g.tubes)
}

// Capacity returns the per-tube ball limit.
func (g *Game) Capacity() int {
	return g.capacity
}

// IsComplete reports whether every tube is empty or full monochrome.
func (g *Game) IsComplete() bool {
	return g.env.Complete
}

// Envelope returns a copy of the puzzle envelope.
func (g *Game) Envelope() puzzle.Envelope {
	return g.env
}

// Undo restores tubes and counters to before the last move.
func (g *Game) Undo() bool {
	snap, ok := g.history.Pop()
	if !ok {
		return false
	}
	g.tubes = snap.tubes
	g.env = snap.env
	return true
}

// Reset restores the starting layout by unwinding the full history.
func (g *Game) Reset() {
	for {
		snap, ok := g.history.Pop()
		if !ok {
			break
		}
		g.tubes = snap.tubes
	}
	g.env.ResetProgress()
	g.recompute()
}

func (g *Game) tubeInBounds(tube int) bool {
	return tube >= 0 && tube < len(g.tubes)
}

func (g *Game) pushSnapshot() {
	g.history.Push(snapshot{tubes: copyTubes(g.tubes), env: g.env})
}

func (g *Game) recompute() {
	for _, tube := range g.tubes {
		if !tubeComplete(tube, g.capacity) {
			g.env.SetComplete(false)
			return
		}
	}
	g.env.SetComplete(true)
}

func tubeComplete(tube []string, capacity int) bool {
	if len(tube) == 0 {
		return true
	}
	if len(tube) != capacity {
		return false
	}
	first := tube[0]
	for _, color := range tube[1:] {
		if color != first {
			return false
		}
	}
	return true
}

func copyTubes(tubes [][]string) [][]string {
	out := make([][]string, len(tubes))
	for i, tube := range tubes {
		out[i] = append([]string(nil), tube...)
	}
	return out
}
