// Package kakuro implements crossword-of-sums grids: clued runs of open
// cells filled with digits 1-9, no digit repeating within a run.
package kakuro

import (
	"fmt"

	apperrors "github.com/puzzlebox-games/puzzlebox/internal/platform/errors"
	"github.com/puzzlebox-games/puzzlebox/internal/puzzle"
)

// Block declares an unplayable cell. A nonzero AcrossSum clues the run
// starting immediately to its right; a nonzero DownSum the run below.
type Block struct {
	Row       int
	Col       int
	AcrossSum int
	DownSum   int
}

// Run is one derived clued strip of open cells.
type Run struct {
	Sum    int
	Across bool
	Cells  [][2]int
}

// Config describes the content needed to construct a game. Cells not
// listed as blocks are open.
type Config struct {
	Envelope puzzle.Envelope
	Rows     int
	Cols     int
	Blocks   []Block
}

// Game is a kakuro puzzle in progress.
type Game struct {
	env        puzzle.Envelope
	rows, cols int
	values     [][]int
	blocks     map[[2]int]Block
	runs       []Run
	// acrossRunOf and downRunOf index into runs for every open cell.
	acrossRunOf map[[2]int]int
	downRunOf   map[[2]int]int
}

var _ puzzle.Variant = (*Game)(nil)

// New validates the config, derives the clued runs, and constructs a
// game. Every open cell must sit in both an across and a down run of two
// to nine cells, and every clue must head such a run.
func New(cfg Config) (*Game, error) {
	if cfg.Rows < 2 || cfg.Cols < 2 {
		return nil, apperrors.New(apperrors.CodeContentDimensionMismatch,
			fmt.Sprintf("%dx%d grid below minimum 2x2", cfg.Rows, cfg.Cols))
	}

	g := &Game{
		env:         cfg.Envelope,
		rows:        cfg.Rows,
		cols:        cfg.Cols,
		values:      make([][]int, cfg.Rows),
		blocks:      make(map[[2]int]Block, len(cfg.Blocks)),
		acrossRunOf: make(map[[2]int]int),
		downRunOf:   make(map[[2]int]int),
	}
	for row := range g.values {
		g.values[row] = make([]int, cfg.Cols)
	}
	for _, block := range cfg.Blocks {
		if block.Row < 0 || block.Row >= cfg.Rows || block.Col < 0 || block.Col >= cfg.Cols {
			return nil, apperrors.WithMetadata(apperrors.CodeContentValueOutOfRange,
				fmt.Sprintf("block (%d,%d) outside the %dx%d grid", block.Row, block.Col, cfg.Rows, cfg.Cols),
				map[string]string{"row": fmt.Sprint(block.Row), "col": fmt.Sprint(block.Col)})
		}
		if block.AcrossSum < 0 || block.DownSum < 0 {
			return nil, apperrors.New(apperrors.CodeContentValueOutOfRange,
				fmt.Sprintf("block (%d,%d) carries a negative sum", block.Row, block.Col))
		}
		at := [2]int{block.Row, block.Col}
		if _, dup := g.blocks[at]; dup {
			return nil, apperrors.New(apperrors.CodeContentDuplicateEntry,
				fmt.Sprintf("block (%d,%d) declared twice", block.Row, block.Col))
		}
		g.blocks[at] = block
	}
	if len(g.blocks) == cfg.Rows*cfg.Cols {
		return nil, apperrors.New(apperrors.CodeContentMissingField, "grid has no open cells")
	}

	if err := g.deriveRuns(); err != nil {
		return nil, err
	}
	for at, block := range g.blocks {
		if block.AcrossSum > 0 && !g.isOpen(at[0], at[1]+1) {
			return nil, apperrors.New(apperrors.CodeContentUnreachableElement,
				fmt.Sprintf("across sum at (%d,%d) heads no run", at[0], at[1]))
		}
		if block.DownSum > 0 && !g.isOpen(at[0]+1, at[1]) {
			return nil, apperrors.New(apperrors.CodeContentUnreachableElement,
				fmt.Sprintf("down sum at (%d,%d) heads no run", at[0], at[1]))
		}
	}
	g.recompute()
	return g, nil
}

func (g *Game) deriveRuns() error {
	for row := 0; row < g.rows; row++ {
		for col := 0; col < g.cols; col++ {
			if g.isOpen(row, col) && !g.isOpen(row, col-1) {
				cells := [][2]int{}
				for c := col; g.isOpen(row, c); c++ {
					cells = append(cells, [2]int{row, c})
				}
				if err := g.addRun(cells, true); err != nil {
					return err
				}
			}
			if g.isOpen(row, col) && !g.isOpen(row-1, col) {
				cells := [][2]int{}
				for r := row; g.isOpen(r, col); r++ {
					cells = append(cells, [2]int{r, col})
				}
				if err := g.addRun(cells, false); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (g *Game) addRun(cells [][2]int, across bool) error {
	direction := "down"
	if across {
		direction = "across"
	}
	head := cells[0]
	if len(cells) < 2 || len(cells) > 9 {
		return apperrors.New(apperrors.CodeContentValueOutOfRange,
			fmt.Sprintf("%s run at (%d,%d) has %d cells, want 2 to 9", direction, head[0], head[1], len(cells)))
	}

	clueAt := [2]int{head[0], head[1] - 1}
	if !across {
		clueAt = [2]int{head[0] - 1, head[1]}
	}
	if clueAt[0] < 0 || clueAt[1] < 0 {
		return apperrors.New(apperrors.CodeContentMissingField,
			fmt.Sprintf("%s run at (%d,%d) starts at the edge with no clue", direction, head[0], head[1]))
	}
	block := g.blocks[clueAt]
	sum := block.AcrossSum
	if !across {
		sum = block.DownSum
	}
	if sum == 0 {
		return apperrors.New(apperrors.CodeContentMissingField,
			fmt.Sprintf("%s run at (%d,%d) has no clue sum", direction, head[0], head[1]))
	}
	if sum < minRunSum(len(cells)) || sum > maxRunSum(len(cells)) {
		return apperrors.WithMetadata(apperrors.CodeContentValueOutOfRange,
			fmt.Sprintf("%s run at (%d,%d) sums to %d, out of range for %d cells", direction, head[0], head[1], sum, len(cells)),
			map[string]string{"sum": fmt.Sprint(sum)})
	}

	index := len(g.runs)
	g.runs = append(g.runs, Run{Sum: sum, Across: across, Cells: cells})
	for _, at := range cells {
		if across {
			g.acrossRunOf[at] = index
		} else {
			g.downRunOf[at] = index
		}
	}
	return nil
}

// Place writes a digit 1-9 into an open cell. Wrong digits are accepted;
// correctness surfaces through run satisfaction, not placement.
func (g *Game) Place(row, col, digit int) bool {
	if !g.isOpen(row, col) || digit < 1 || digit > 9 || g.values[row][col] == digit {
		return false
	}
	g.values[row][col] = digit
	g.env.RecordMove()
	g.recompute()
	return true
}

// Clear empties an open cell.
func (g *Game) Clear(row, col int) bool {
	if !g.isOpen(row, col) || g.values[row][col] == 0 {
		return false
	}
	g.values[row][col] = 0
	g.env.RecordMove()
	g.recompute()
	return true
}

// IsValidPlacement reports whether the digit could sit at the cell
// without duplicating either of its runs. The cell's own current value is
// ignored, so re-checking a placed cell works.
func (g *Game) IsValidPlacement(row, col, digit int) bool {
	if !g.isOpen(row, col) || digit < 1 || digit > 9 {
		return false
	}
	at := [2]int{row, col}
	for _, index := range []int{g.acrossRunOf[at], g.downRunOf[at]} {
		for _, cell := range g.runs[index].Cells {
			if cell != at && g.values[cell[0]][cell[1]] == digit {
				return false
			}
		}
	}
	return true
}

// Digit returns the entered digit at a cell, zero when empty, a block, or
// out of range.
func (g *Game) Digit(row, col int) int {
	if !g.isOpen(row, col) {
		return 0
	}
	return g.values[row][col]
}

// IsBlock reports whether the cell is unplayable.
func (g *Game) IsBlock(row, col int) bool {
	_, ok := g.blocks[[2]int{row, col}]
	return ok
}

// AcrossClue returns the across sum clued at a block cell.
func (g *Game) AcrossClue(row, col int) (int, bool) {
	block, ok := g.blocks[[2]int{row, col}]
	if !ok || block.AcrossSum == 0 {
		return 0, false
	}
	return block.AcrossSum, true
}

// DownClue returns the down sum clued at a block cell.
func (g *Game) DownClue(row, col int) (int, bool) {
	block, ok := g.blocks[[2]int{row, col}]
	if !ok || block.DownSum == 0 {
		return 0, false
	}
	return block.DownSum, true
}

// Runs returns the derived runs for rendering.
func (g *Game) Runs() []Run {
	out := make([]Run, 0, len(g.runs))
	for _, run := range g.runs {
		out = append(out, Run{Sum: run.Sum, Across: run.Across, Cells: append([][2]int(nil), run.Cells...)})
	}
	return out
}

// RunSatisfied reports whether a run is fully entered, sums to its clue,
// and repeats no digit.
func (g *Game) RunSatisfied(i int) bool {
	if i < 0 || i >= len(g.runs) {
		return false
	}
	run := g.runs[i]
	total := 0
	seen := make(map[int]bool, len(run.Cells))
	for _, at := range run.Cells {
		digit := g.values[at[0]][at[1]]
		if digit == 0 || seen[digit] {
			return false
		}
		seen[digit] = true
		total += digit
	}
	return total == run.Sum
}

// Size returns the grid dimensions.
func (g *Game) Size() (rows, cols int) {
	return g.rows, g.cols
}

// IsComplete reports whether every run is satisfied.
func (g *Game) IsComplete() bool {
	return g.env.Complete
}

// Envelope returns a copy of the puzzle envelope.
func (g *Game) Envelope() puzzle.Envelope {
	return g.env
}

// Reset empties every open cell and zeroes progress.
func (g *Game) Reset() {
	for row := range g.values {
		for col := range g.values[row] {
			g.values[row][col] = 0
		}
	}
	g.env.ResetProgress()
	g.recompute()
}

func (g *Game) recompute() {
	for i := range g.runs {
		if !g.RunSatisfied(i) {
			g.env.SetComplete(false)
			return
		}
	}
	g.env.SetComplete(true)
}

func (g *Game) isOpen(row, col int) bool {
	if row < 0 || row >= g.rows || col < 0 || col >= g.cols {
		return false
	}
	_, block := g.blocks[[2]int{row, col}]
	return !block
}

// minRunSum and maxRunSum bound what n distinct digits 1-9 can total.
func minRunSum(n int) int { return n * (n + 1) / 2 }

func maxRunSum(n int) int { return n * (19 - n) / 2 }
