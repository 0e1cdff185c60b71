// Package wordsearch implements find-the-word letter grids. Selections
// are straight lines; spelled words match targets in either direction.
package wordsearch

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/cases"

	apperrors "github.com/puzzlebox-games/puzzlebox/internal/platform/errors"
	"github.com/puzzlebox-games/puzzlebox/internal/puzzle"
)

// Config describes the content needed to construct a game. Grid rows are
// strings of letters; Words are the targets hidden in the grid.
type Config struct {
	Envelope puzzle.Envelope
	Rows     int
	Cols     int
	Grid     []string
	Words    []string
}

// Game is a word search puzzle in progress.
type Game struct {
	env     puzzle.Envelope
	rows    int
	cols    int
	grid    [][]rune
	targets map[string]string
	found   map[string][][2]int
	fold    cases.Caser
}

var _ puzzle.Variant = (*Game)(nil)

// New validates the config and constructs a game. Every target word must
// actually lie on a straight line in the grid.
func New(cfg Config) (*Game, error) {
	if cfg.Rows < 1 || cfg.Cols < 1 {
		return nil, apperrors.New(apperrors.CodeContentValueOutOfRange,
			fmt.Sprintf("grid %dx%d invalid", cfg.Rows, cfg.Cols))
	}
	if len(cfg.Grid) != cfg.Rows {
		return nil, apperrors.New(apperrors.CodeContentDimensionMismatch,
			fmt.Sprintf("grid has %d rows, want %d", len(cfg.Grid), cfg.Rows))
	}

	fold := cases.Fold()
	grid := make([][]rune, cfg.Rows)
	for r, row := range cfg.Grid {
		runes := []rune(fold.String(row))
		if len(runes) != cfg.Cols {
			return nil, apperrors.New(apperrors.CodeContentDimensionMismatch,
				fmt.Sprintf("row %d has %d letters, want %d", r, len(runes), cfg.Cols))
		}
		grid[r] = runes
	}

	if len(cfg.Words) == 0 {
		return nil, apperrors.New(apperrors.CodeContentMissingField, "word list is empty")
	}
	g := &Game{
		env:     cfg.Envelope,
		rows:    cfg.Rows,
		cols:    cfg.Cols,
		grid:    grid,
		targets: make(map[string]string, len(cfg.Words)),
		found:   make(map[string][][2]int),
		fold:    fold,
	}
	for _, w := range cfg.Words {
		if len(w) < 2 {
			return nil, apperrors.New(apperrors.CodeContentValueOutOfRange,
				fmt.Sprintf("target %q shorter than 2 letters", w))
		}
		folded := fold.String(w)
		if _, dup := g.targets[folded]; dup {
			return nil, apperrors.WithMetadata(apperrors.CodeContentDuplicateEntry,
				fmt.Sprintf("duplicate target %q", w), map[string]string{"word": w})
		}
		if !g.locatable(folded) {
			return nil, apperrors.WithMetadata(apperrors.CodeContentUnreachableElement,
				fmt.Sprintf("target %q not present in the grid", w),
				map[string]string{"word": w})
		}
		g.targets[folded] = w
	}
	return g, nil
}

// Select spells the straight line between two cells and matches it, in
// either direction, against the unfound targets. A hit marks the word
// found; anything else is rejected.
func (g *Game) Select(r1, c1, r2, c2 int) bool {
	cells, ok := g.line(r1, c1, r2, c2)
	if !ok {
		return false
	}
	var b strings.Builder
	for _, cell := range cells {
		b.WriteRune(g.grid[cell[0]][cell[1]])
	}
	spelled := b.String()

	folded, hit := g.match(spelled)
	if !hit {
		return false
	}
	if _, done := g.found[folded]; done {
		return false
	}
	g.found[folded] = cells
	g.env.RecordMove()
	g.env.SetComplete(len(g.found) == len(g.targets))
	return true
}

// Words returns every target in its authored spelling, sorted.
func (g *Game) Words() []string {
	out := make([]string, 0, len(g.targets))
	for _, w := range g.targets {
		out = append(out, w)
	}
	sort.Strings(out)
	return out
}

// FoundWords returns the found targets in authored spelling, sorted.
func (g *Game) FoundWords() []string {
	out := make([]string, 0, len(g.found))
	for folded := range g.found {
		out = append(out, g.targets[folded])
	}
	sort.Strings(out)
	return out
}

// FoundCells returns the grid line where a found word lies, nil for
// unfound words.
func (g *Game) FoundCells(word string) [][2]int {
	cells, ok := g.found[g.fold.String(word)]
	if !ok {
		return nil
	}
	return append([][2]int(nil), cells...)
}

// Letter returns the folded letter at a cell, zero when out of range.
func (g *Game) Letter(row, col int) rune {
	if row < 0 || row >= g.rows || col < 0 || col >= g.cols {
		return 0
	}
	return g.grid[row][col]
}

// IsComplete reports whether every target is found.
func (g *Game) IsComplete() bool {
	return g.env.Complete
}

// Envelope returns a copy of the puzzle envelope.
func (g *Game) Envelope() puzzle.Envelope {
	return g.env
}

// Reset forgets all found words and clears progress.
func (g *Game) Reset() {
	g.found = make(map[string][][2]int)
	g.env.ResetProgress()
}

// line returns the inclusive cells between two points when they share a
// row, column, or diagonal.
func (g *Game) line(r1, c1, r2, c2 int) ([][2]int, bool) {
	if r1 < 0 || r1 >= g.rows || c1 < 0 || c1 >= g.cols {
		return nil, false
	}
	if r2 < 0 || r2 >= g.rows || c2 < 0 || c2 >= g.cols {
		return nil, false
	}
	dr, dc := sign(r2-r1), sign(c2-c1)
	if dr == 0 && dc == 0 {
		return nil, false
	}
	if dr != 0 && dc != 0 && abs(r2-r1) != abs(c2-c1) {
		return nil, false
	}
	var cells [][2]int
	r, c := r1, c1
	for {
		cells = append(cells, [2]int{r, c})
		if r == r2 && c == c2 {
			return cells, true
		}
		r += dr
		c += dc
	}
}

// match folds a spelling and checks it forward and reversed against the
// target set.
func (g *Game) match(spelled string) (string, bool) {
	if _, ok := g.targets[spelled]; ok {
		return spelled, true
	}
	reversed := reverse(spelled)
	if _, ok := g.targets[reversed]; ok {
		return reversed, true
	}
	return "", false
}

// locatable scans every cell and direction for the folded word.
func (g *Game) locatable(word string) bool {
	runes := []rune(word)
	dirs := [][2]int{{0, 1}, {0, -1}, {1, 0}, {-1, 0}, {1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
	for r := 0; r < g.rows; r++ {
		for c := 0; c < g.cols; c++ {
			for _, d := range dirs {
				if g.runsFrom(runes, r, c, d[0], d[1]) {
					return true
				}
			}
		}
	}
	return false
}

func (g *Game) runsFrom(word []rune, r, c, dr, dc int) bool {
	for i, ch := range word {
		rr, cc := r+i*dr, c+i*dc
		if rr < 0 || rr >= g.rows || cc < 0 || cc >= g.cols {
			return false
		}
		if g.grid[rr][cc] != ch {
			return false
		}
	}
	return true
}

func reverse(s string) string {
	runes := []rune(s)
	for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
		runes[i], runes[j] = runes[j], runes[i]
	}
	return string(runes)
}

func sign(v int) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	}
	return 0
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
