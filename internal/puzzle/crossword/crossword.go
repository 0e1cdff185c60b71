// Package crossword implements clued word grids with derived slot
// numbering and check-on-demand mistake reporting.
package crossword

import (
	"fmt"
	"unicode"

	apperrors "github.com/puzzlebox-games/puzzlebox/internal/platform/errors"
	"github.com/puzzlebox-games/puzzlebox/internal/puzzle"
)

// Block marks an unplayable cell in a grid row string.
const Block = '#'

// Slot is a numbered answer run. Direction comes from which accessor
// returned it.
type Slot struct {
	Number int
	Row    int
	Col    int
	Length int
}

// Config describes the content needed to construct a game.
type Config struct {
	Envelope puzzle.Envelope
	Rows     int
	Cols     int
	// Grid holds one string per row: '#' for blocks, A-Z solution
	// letters everywhere else.
	Grid []string
	// AcrossClues and DownClues are keyed by derived slot number.
	AcrossClues map[int]string
	DownClues   map[int]string
}

// Game is a crossword puzzle in progress.
type Game struct {
	env         puzzle.Envelope
	rows, cols  int
	solution    [][]rune
	entries     [][]rune
	across      []Slot
	down        []Slot
	acrossClues map[int]string
	downClues   map[int]string
	openCells   int
}

var _ puzzle.Variant = (*Game)(nil)

// New validates the config, derives slot numbering, and constructs a game.
func New(cfg Config) (*Game, error) {
	if cfg.Rows < 2 || cfg.Cols < 2 {
		return nil, apperrors.New(apperrors.CodeContentDimensionMismatch,
			fmt.Sprintf("%dx%d grid below minimum 2x2", cfg.Rows, cfg.Cols))
	}
	if len(cfg.Grid) != cfg.Rows {
		return nil, apperrors.New(apperrors.CodeContentDimensionMismatch,
			fmt.Sprintf("%d grid rows, want %d", len(cfg.Grid), cfg.Rows))
	}

	g := &Game{
		env:         cfg.Envelope,
		rows:        cfg.Rows,
		cols:        cfg.Cols,
		solution:    make([][]rune, cfg.Rows),
		entries:     make([][]rune, cfg.Rows),
		acrossClues: make(map[int]string, len(cfg.AcrossClues)),
		downClues:   make(map[int]string, len(cfg.DownClues)),
	}
	for row, line := range cfg.Grid {
		runes := []rune(line)
		if len(runes) != cfg.Cols {
			return nil, apperrors.WithMetadata(apperrors.CodeContentDimensionMismatch,
				fmt.Sprintf("grid row %d has %d cells, want %d", row, len(runes), cfg.Cols),
				map[string]string{"row": fmt.Sprint(row)})
		}
		g.solution[row] = make([]rune, cfg.Cols)
		g.entries[row] = make([]rune, cfg.Cols)
		for col, r := range runes {
			switch {
			case r == Block:
				g.solution[row][col] = Block
			case r >= 'A' && r <= 'Z':
				g.solution[row][col] = r
				g.openCells++
			default:
				return nil, apperrors.WithMetadata(apperrors.CodeContentValueOutOfRange,
					fmt.Sprintf("grid cell (%d,%d) holds %q, want A-Z or '#'", row, col, r),
					map[string]string{"row": fmt.Sprint(row), "col": fmt.Sprint(col)})
			}
		}
	}
	if g.openCells == 0 {
		return nil, apperrors.New(apperrors.CodeContentMissingField, "grid has no open cells")
	}

	g.deriveSlots()
	if err := g.checkCoverage(); err != nil {
		return nil, err
	}
	if err := checkClues(g.across, cfg.AcrossClues, "across"); err != nil {
		return nil, err
	}
	if err := checkClues(g.down, cfg.DownClues, "down"); err != nil {
		return nil, err
	}
	for number, clue := range cfg.AcrossClues {
		g.acrossClues[number] = clue
	}
	for number, clue := range cfg.DownClues {
		g.downClues[number] = clue
	}
	g.recompute()
	return g, nil
}

// deriveSlots numbers cells row-major: a cell takes the next number when
// it starts an across run, a down run, or both.
func (g *Game) deriveSlots() {
	number := 0
	for row := 0; row < g.rows; row++ {
		for col := 0; col < g.cols; col++ {
			if g.isBlock(row, col) {
				continue
			}
			startsAcross := (col == 0 || g.isBlock(row, col-1)) && col+1 < g.cols && !g.isBlock(row, col+1)
			startsDown := (row == 0 || g.isBlock(row-1, col)) && row+1 < g.rows && !g.isBlock(row+1, col)
			if !startsAcross && !startsDown {
				continue
			}
			number++
			if startsAcross {
				length := 0
				for c := col; c < g.cols && !g.isBlock(row, c); c++ {
					length++
				}
				g.across = append(g.across, Slot{Number: number, Row: row, Col: col, Length: length})
			}
			if startsDown {
				length := 0
				for r := row; r < g.rows && !g.isBlock(r, col); r++ {
					length++
				}
				g.down = append(g.down, Slot{Number: number, Row: row, Col: col, Length: length})
			}
		}
	}
}

// checkCoverage rejects open cells that belong to no slot, which no clue
// could ever describe.
func (g *Game) checkCoverage() error {
	covered := make([][]bool, g.rows)
	for row := range covered {
		covered[row] = make([]bool, g.cols)
	}
	for _, slot := range g.across {
		for i := 0; i < slot.Length; i++ {
			covered[slot.Row][slot.Col+i] = true
		}
	}
	for _, slot := range g.down {
		for i := 0; i < slot.Length; i++ {
			covered[slot.Row+i][slot.Col] = true
		}
	}
	for row := 0; row < g.rows; row++ {
		for col := 0; col < g.cols; col++ {
			if !g.isBlock(row, col) && !covered[row][col] {
				return apperrors.WithMetadata(apperrors.CodeContentUnreachableElement,
					fmt.Sprintf("cell (%d,%d) belongs to no slot", row, col),
					map[string]string{"row": fmt.Sprint(row), "col": fmt.Sprint(col)})
			}
		}
	}
	return nil
}

func checkClues(slots []Slot, clues map[int]string, direction string) error {
	numbers := make(map[int]bool, len(slots))
	for _, slot := range slots {
		numbers[slot.Number] = true
		clue, ok := clues[slot.Number]
		if !ok || clue == "" {
			return apperrors.New(apperrors.CodeContentMissingField,
				fmt.Sprintf("no clue for %d %s", slot.Number, direction))
		}
	}
	for number := range clues {
		if !numbers[number] {
			return apperrors.New(apperrors.CodeContentValueOutOfRange,
				fmt.Sprintf("clue for %d %s matches no slot", number, direction))
		}
	}
	return nil
}

// SetCell writes a letter into an open cell. Case is folded; anything
// outside A-Z, blocks, and unchanged letters are rejected.
func (g *Game) SetCell(row, col int, letter rune) bool {
	if !g.inBounds(row, col) || g.isBlock(row, col) {
		return false
	}
	letter = unicode.ToUpper(letter)
	if letter < 'A' || letter > 'Z' {
		return false
	}
	if g.entries[row][col] == letter {
		return false
	}
	g.entries[row][col] = letter
	g.env.RecordMove()
	g.recompute()
	return true
}

// ClearCell erases an entered letter.
func (g *Game) ClearCell(row, col int) bool {
	if !g.inBounds(row, col) || g.isBlock(row, col) || g.entries[row][col] == 0 {
		return false
	}
	g.entries[row][col] = 0
	g.env.RecordMove()
	g.recompute()
	return true
}

// Cell returns the entered letter at a cell, zero when empty, a block, or
// out of range.
func (g *Game) Cell(row, col int) rune {
	if !g.inBounds(row, col) || g.isBlock(row, col) {
		return 0
	}
	return g.entries[row][col]
}

// IsBlock reports whether the cell is unplayable.
func (g *Game) IsBlock(row, col int) bool {
	return g.inBounds(row, col) && g.isBlock(row, col)
}

// Mistakes returns the coordinates of entered letters that disagree with
// the solution, row-major. Empty cells are not mistakes; checking is
// on demand, never forced on the player.
func (g *Game) Mistakes() [][2]int {
	var out [][2]int
	for row := 0; row < g.rows; row++ {
		for col := 0; col < g.cols; col++ {
			if g.isBlock(row, col) {
				continue
			}
			if entry := g.entries[row][col]; entry != 0 && entry != g.solution[row][col] {
				out = append(out, [2]int{row, col})
			}
		}
	}
	return out
}

// AcrossSlots returns the derived across slots in number order.
func (g *Game) AcrossSlots() []Slot {
	return append([]Slot(nil), g.across...)
}

// DownSlots returns the derived down slots in number order.
func (g *Game) DownSlots() []Slot {
	return append([]Slot(nil), g.down...)
}

// AcrossClue returns the clue for a numbered across slot.
func (g *Game) AcrossClue(number int) (string, bool) {
	clue, ok := g.acrossClues[number]
	return clue, ok
}

// DownClue returns the clue for a numbered down slot.
func (g *Game) DownClue(number int) (string, bool) {
	clue, ok := g.downClues[number]
	return clue, ok
}

// Size returns the grid dimensions.
func (g *Game) Size() (rows, cols int) {
	return g.rows, g.cols
}

// IsComplete reports whether every open cell matches the solution.
func (g *Game) IsComplete() bool {
	return g.env.Complete
}

// Envelope returns a copy of the puzzle envelope.
func (g *Game) Envelope() puzzle.Envelope {
	return g.env
}

// Reset erases every entry and zeroes progress.
func (g *Game) Reset() {
	for row := range g.entries {
		for col := range g.entries[row] {
			g.entries[row][col] = 0
		}
	}
	g.env.ResetProgress()
	g.recompute()
}

func (g *Game) recompute() {
	for row := 0; row < g.rows; row++ {
		for col := 0; col < g.cols; col++ {
			if g.isBlock(row, col) {
				continue
			}
			if g.entries[row][col] != g.solution[row][col] {
				g.env.SetComplete(false)
				return
			}
		}
	}
	g.env.SetComplete(true)
}

func (g *Game) inBounds(row, col int) bool {
	return row >= 0 && row < g.rows && col >= 0 && col < g.cols
}

func (g *Game) isBlock(row, col int) bool {
	return g.solution[row][col] == Block
}
