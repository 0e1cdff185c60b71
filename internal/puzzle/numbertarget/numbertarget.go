// Package numbertarget implements countdown-style arithmetic puzzles:
// combine six source numbers with the four basic operations to hit a
// target.
package numbertarget

import (
	"fmt"

	apperrors "github.com/puzzlebox-games/puzzlebox/internal/platform/errors"
	"github.com/puzzlebox-games/puzzlebox/internal/puzzle"
	"github.com/puzzlebox-games/puzzlebox/internal/puzzle/undo"
)

// Operation is one of the four arithmetic combinations.
type Operation uint8

const (
	// OperationAdd sums two numbers.
	OperationAdd Operation = iota
	// OperationSubtract takes the second from the first; the result
	// must stay positive.
	OperationSubtract
	// OperationMultiply multiplies two numbers.
	OperationMultiply
	// OperationDivide divides the first by the second; the division
	// must be exact.
	OperationDivide
)

// Config describes the content needed to construct a game.
type Config struct {
	Envelope puzzle.Envelope
	Numbers  []int
	Target   int
}

type snapshot struct {
	values    []int
	moveCount int
	complete  bool
}

// Game is a number target puzzle in progress.
type Game struct {
	env     puzzle.Envelope
	initial []int
	values  []int
	target  int
	history undo.Stack[snapshot]
}

var _ puzzle.Undoer = (*Game)(nil)

// New validates the config and constructs a game.
func New(cfg Config) (*Game, error) {
	if len(cfg.Numbers) != 6 {
		return nil, apperrors.New(apperrors.CodeContentDimensionMismatch,
			fmt.Sprintf("%d source numbers, want 6", len(cfg.Numbers)))
	}
	for i, n := range cfg.Numbers {
		if n < 1 {
			return nil, apperrors.New(apperrors.CodeContentValueOutOfRange,
				fmt.Sprintf("source number %d at index %d below 1", n, i))
		}
	}
	if cfg.Target < 1 {
		return nil, apperrors.New(apperrors.CodeContentValueOutOfRange,
			fmt.Sprintf("target %d below 1", cfg.Target))
	}

	g := &Game{
		env:     cfg.Envelope,
		initial: append([]int(nil), cfg.Numbers...),
		values:  append([]int(nil), cfg.Numbers...),
		target:  cfg.Target,
	}
	g.recompute()
	return g, nil
}

// Combine replaces the numbers at two working positions with the result
// of the operation. Division must be exact and subtraction must stay
// positive; anything else leaves the game untouched.
func (g *Game) Combine(i, j int, op Operation) bool {
	if i == j || i < 0 || i >= len(g.values) || j < 0 || j >= len(g.values) {
		return false
	}
	a, b := g.values[i], g.values[j]

	var result int
	switch op {
	case OperationAdd:
		result = a + b
	case OperationSubtract:
		if a <= b {
			return false
		}
		result = a - b
	case OperationMultiply:
		result = a * b
	case OperationDivide:
		if b == 0 || a%b != 0 {
			return false
		}
		result = a / b
	default:
		return false
	}

	g.history.Push(snapshot{
		values:    append([]int(nil), g.values...),
		moveCount: g.env.MoveCount,
		complete:  g.env.Complete,
	})

	// Drop the higher index first so the lower one stays valid.
	hi, lo := i, j
	if hi < lo {
		hi, lo = lo, hi
	}
	g.values = append(g.values[:hi], g.values[hi+1:]...)
	g.values = append(g.values[:lo], g.values[lo+1:]...)
	g.values = append(g.values, result)

	g.env.RecordMove()
	g.recompute()
	return true
}

// Undo unwinds the last combination.
func (g *Game) Undo() bool {
	snap, ok := g.history.Pop()
	if !ok {
		return false
	}
	g.values = snap.values
	g.env.MoveCount = snap.moveCount
	g.env.SetComplete(snap.complete)
	return true
}

// Values returns the current working numbers.
func (g *Game) Values() []int {
	return append([]int(nil), g.values...)
}

// Target returns the number to reach.
func (g *Game) Target() int {
	return g.target
}

// IsComplete reports whether any working number equals the target.
func (g *Game) IsComplete() bool {
	return g.env.Complete
}

// Envelope returns a copy of the puzzle envelope.
func (g *Game) Envelope() puzzle.Envelope {
	return g.env
}

// Reset restores the six source numbers and clears history.
func (g *Game) Reset() {
	g.values = append([]int(nil), g.initial...)
	g.history.Clear()
	g.env.ResetProgress()
	g.recompute()
}

func (g *Game) recompute() {
	for _, v := range g.values {
		if v == g.target {
			g.env.SetComplete(true)
			return
		}
	}
	g.env.SetComplete(false)
}
