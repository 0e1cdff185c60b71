// Package mathora implements cross-math grids: small arithmetic
// equations sharing value cells, evaluated strictly left to right.
package mathora

import (
	"fmt"

	apperrors "github.com/puzzlebox-games/puzzlebox/internal/platform/errors"
	"github.com/puzzlebox-games/puzzlebox/internal/puzzle"
)

// Operator symbols accepted in equations.
const (
	OpAdd      = "+"
	OpSubtract = "-"
	OpMultiply = "*"
	OpDivide   = "/"
)

// Cell declares one value cell. Given zero means the player fills it;
// any other value is a fixed constant (results may exceed one digit).
type Cell struct {
	Row   int
	Col   int
	Given int
}

// Equation chains operand cells with operators against a result cell.
// Evaluation is strictly left to right; there is no operator precedence.
type Equation struct {
	Operands  [][2]int
	Operators []string
	Result    [2]int
}

// Config describes the content needed to construct a game.
type Config struct {
	Envelope  puzzle.Envelope
	Size      int
	Cells     []Cell
	Equations []Equation
}

// Game is a cross-math puzzle in progress.
type Game struct {
	env       puzzle.Envelope
	size      int
	values    map[[2]int]int
	given     map[[2]int]bool
	equations []Equation
	openCells int
}

var _ puzzle.Variant = (*Game)(nil)

// New validates the config and constructs a game. Solvability is the
// authoring tool's promise; construction only checks structure.
func New(cfg Config) (*Game, error) {
	if cfg.Size < 2 {
		return nil, apperrors.New(apperrors.CodeContentValueOutOfRange,
			fmt.Sprintf("size %d below minimum 2", cfg.Size))
	}
	if len(cfg.Cells) == 0 {
		return nil, apperrors.New(apperrors.CodeContentMissingField, "no value cells")
	}
	if len(cfg.Equations) == 0 {
		return nil, apperrors.New(apperrors.CodeContentMissingField, "no equations")
	}

	g := &Game{
		env:    cfg.Envelope,
		size:   cfg.Size,
		values: make(map[[2]int]int, len(cfg.Cells)),
		given:  make(map[[2]int]bool, len(cfg.Cells)),
	}
	for i, cell := range cfg.Cells {
		if cell.Row < 0 || cell.Row >= cfg.Size || cell.Col < 0 || cell.Col >= cfg.Size {
			return nil, apperrors.WithMetadata(apperrors.CodeContentValueOutOfRange,
				fmt.Sprintf("cell %d at (%d,%d) outside the %dx%d grid", i, cell.Row, cell.Col, cfg.Size, cfg.Size),
				map[string]string{"row": fmt.Sprint(cell.Row), "col": fmt.Sprint(cell.Col)})
		}
		if cell.Given < 0 {
			return nil, apperrors.New(apperrors.CodeContentValueOutOfRange,
				fmt.Sprintf("cell (%d,%d) has negative given %d", cell.Row, cell.Col, cell.Given))
		}
		at := [2]int{cell.Row, cell.Col}
		if _, dup := g.values[at]; dup {
			return nil, apperrors.New(apperrors.CodeContentDuplicateEntry,
				fmt.Sprintf("cell (%d,%d) declared twice", cell.Row, cell.Col))
		}
		g.values[at] = cell.Given
		if cell.Given != 0 {
			g.given[at] = true
		} else {
			g.openCells++
		}
	}

	referenced := make(map[[2]int]bool, len(g.values))
	for i, eq := range cfg.Equations {
		if len(eq.Operands) < 2 {
			return nil, apperrors.New(apperrors.CodeContentDimensionMismatch,
				fmt.Sprintf("equation %d has %d operands, want at least 2", i, len(eq.Operands)))
		}
		if len(eq.Operators) != len(eq.Operands)-1 {
			return nil, apperrors.New(apperrors.CodeContentDimensionMismatch,
				fmt.Sprintf("equation %d has %d operators for %d operands", i, len(eq.Operators), len(eq.Operands)))
		}
		for _, op := range eq.Operators {
			switch op {
			case OpAdd, OpSubtract, OpMultiply, OpDivide:
			default:
				return nil, apperrors.New(apperrors.CodeContentValueOutOfRange,
					fmt.Sprintf("equation %d uses unknown operator %q", i, op))
			}
		}
		for _, at := range append(append([][2]int{}, eq.Operands...), eq.Result) {
			if _, ok := g.values[at]; !ok {
				return nil, apperrors.WithMetadata(apperrors.CodeContentUnreachableElement,
					fmt.Sprintf("equation %d references undeclared cell (%d,%d)", i, at[0], at[1]),
					map[string]string{"row": fmt.Sprint(at[0]), "col": fmt.Sprint(at[1])})
			}
			referenced[at] = true
		}
		g.equations = append(g.equations, Equation{
			Operands:  append([][2]int(nil), eq.Operands...),
			Operators: append([]string(nil), eq.Operators...),
			Result:    eq.Result,
		})
	}
	for at := range g.values {
		if !referenced[at] {
			return nil, apperrors.WithMetadata(apperrors.CodeContentUnreachableElement,
				fmt.Sprintf("cell (%d,%d) appears in no equation", at[0], at[1]),
				map[string]string{"row": fmt.Sprint(at[0]), "col": fmt.Sprint(at[1])})
		}
	}
	g.recompute()
	return g, nil
}

// Place writes a digit 1-9 into an open cell. Givens, undeclared cells,
// and unchanged digits are rejected.
func (g *Game) Place(row, col, digit int) bool {
	at := [2]int{row, col}
	current, ok := g.values[at]
	if !ok || g.given[at] || digit < 1 || digit > 9 || current == digit {
		return false
	}
	g.values[at] = digit
	g.env.RecordMove()
	g.recompute()
	return true
}

// Clear empties an open cell.
func (g *Game) Clear(row, col int) bool {
	at := [2]int{row, col}
	current, ok := g.values[at]
	if !ok || g.given[at] || current == 0 {
		return false
	}
	g.values[at] = 0
	g.env.RecordMove()
	g.recompute()
	return true
}

// Value returns the digit at a declared cell, zero when empty. The second
// return is false for cells outside the puzzle.
func (g *Game) Value(row, col int) (int, bool) {
	value, ok := g.values[[2]int{row, col}]
	return value, ok
}

// IsGiven reports whether the cell holds a fixed constant.
func (g *Game) IsGiven(row, col int) bool {
	return g.given[[2]int{row, col}]
}

// EquationSatisfied evaluates one equation against the current values.
// Unfilled operands, inexact division, and division by zero all read as
// unsatisfied, never as errors.
func (g *Game) EquationSatisfied(i int) bool {
	if i < 0 || i >= len(g.equations) {
		return false
	}
	eq := g.equations[i]
	for _, at := range eq.Operands {
		if g.values[at] == 0 {
			return false
		}
	}
	if g.values[eq.Result] == 0 {
		return false
	}

	total := g.values[eq.Operands[0]]
	for step, op := range eq.Operators {
		operand := g.values[eq.Operands[step+1]]
		switch op {
		case OpAdd:
			total += operand
		case OpSubtract:
			total -= operand
		case OpMultiply:
			total *= operand
		case OpDivide:
			if operand == 0 || total%operand != 0 {
				return false
			}
			total /= operand
		}
	}
	return total == g.values[eq.Result]
}

// Equations returns the equation layout for rendering.
func (g *Game) Equations() []Equation {
	out := make([]Equation, 0, len(g.equations))
	for _, eq := range g.equations {
		out = append(out, Equation{
			Operands:  append([][2]int(nil), eq.Operands...),
			Operators: append([]string(nil), eq.Operators...),
			Result:    eq.Result,
		})
	}
	return out
}

// Size returns the grid dimension.
func (g *Game) Size() int {
	return g.size
}

// IsComplete reports whether every open cell is filled and every equation
// holds.
func (g *Game) IsComplete() bool {
	return g.env.Complete
}

// Envelope returns a copy of the puzzle envelope.
func (g *Game) Envelope() puzzle.Envelope {
	return g.env
}

// Reset empties every open cell and zeroes progress.
func (g *Game) Reset() {
	for at := range g.values {
		if !g.given[at] {
			g.values[at] = 0
		}
	}
	g.env.ResetProgress()
	g.recompute()
}

func (g *Game) recompute() {
	for _, value := range g.values {
		if value == 0 {
			g.env.SetComplete(false)
			return
		}
	}
	for i := range g.equations {
		if !g.EquationSatisfied(i) {
			g.env.SetComplete(false)
			return
		}
	}
	g.env.SetComplete(true)
}
