// Package pipes implements endpoint-connection flow puzzles with bridge
// cells and a draw-gesture interpreter.
package pipes

import (
	"fmt"
	"sort"

	apperrors "github.com/puzzlebox-games/puzzlebox/internal/platform/errors"
	"github.com/puzzlebox-games/puzzlebox/internal/puzzle"
)

// Endpoint fixes one end of a color's path.
type Endpoint struct {
	Color string
	Row   int
	Col   int
}

// Config describes the content needed to construct a game.
type Config struct {
	Envelope puzzle.Envelope
	Rows     int
	Cols     int
	// Endpoints holds exactly two entries per color.
	Endpoints []Endpoint
	// Bridges are cells two perpendicular paths may share.
	Bridges [][2]int
}

// Game is a pipes puzzle in progress.
type Game struct {
	env       puzzle.Envelope
	rows      int
	cols      int
	endpoints map[string][2][2]int
	bridges   map[[2]int]bool
	paths     map[string][][2]int
	active    string
}

var _ puzzle.Variant = (*Game)(nil)

// New validates the config and constructs a game.
func New(cfg Config) (*Game, error) {
	if cfg.Rows < 1 || cfg.Cols < 1 {
		return nil, apperrors.New(apperrors.CodeContentValueOutOfRange,
			fmt.Sprintf("pipes dimensions %dx%d invalid", cfg.Rows, cfg.Cols))
	}

	endpoints := make(map[string][][2]int)
	usedCells := make(map[[2]int]string)
	for _, ep := range cfg.Endpoints {
		if ep.Color == "" {
			return nil, apperrors.New(apperrors.CodeContentMissingField, "endpoint without color")
		}
		if ep.Row < 0 || ep.Row >= cfg.Rows || ep.Col < 0 || ep.Col >= cfg.Cols {
			return nil, apperrors.New(apperrors.CodeContentValueOutOfRange,
				fmt.Sprintf("endpoint %s at (%d,%d) out of range", ep.Color, ep.Row, ep.Col))
		}
		cell := [2]int{ep.Row, ep.Col}
		if owner, taken := usedCells[cell]; taken {
			return nil, apperrors.New(apperrors.CodeContentDuplicateEntry,
				fmt.Sprintf("cell (%d,%d) hosts endpoints for %s and %s", ep.Row, ep.Col, owner, ep.Color))
		}
		usedCells[cell] = ep.Color
		endpoints[ep.Color] = append(endpoints[ep.Color], cell)
	}
	if len(endpoints) == 0 {
		return nil, apperrors.New(apperrors.CodeContentMissingField, "pipes puzzle has no endpoints")
	}
	fixed := make(map[string][2][2]int, len(endpoints))
	for color, cells := range endpoints {
		if len(cells) != 2 {
			return nil, apperrors.WithMetadata(apperrors.CodeContentValueOutOfRange,
				fmt.Sprintf("color %s has %d endpoints, want 2", color, len(cells)),
				map[string]string{"color": color})
		}
		fixed[color] = [2][2]int{cells[0], cells[1]}
	}

	bridges := make(map[[2]int]bool)
	for _, b := range cfg.Bridges {
		if b[0] < 0 || b[0] >= cfg.Rows || b[1] < 0 || b[1] >= cfg.Cols {
			return nil, apperrors.New(apperrors.CodeContentValueOutOfRange,
				fmt.Sprintf("bridge (%d,%d) out of range", b[0], b[1]))
		}
		if _, taken := usedCells[b]; taken {
			return nil, apperrors.New(apperrors.CodeContentDuplicateEntry,
				fmt.Sprintf("bridge (%d,%d) sits on an endpoint", b[0], b[1]))
		}
		bridges[b] = true
	}

	return &Game{
		env:       cfg.Envelope,
		rows:      cfg.Rows,
		cols:      cfg.Cols,
		endpoints: fixed,
		bridges:   bridges,
		paths:     make(map[string][][2]int),
	}, nil
}

// StartPath begins or resumes drawing a color. Starting at an endpoint
// restarts the path from that endpoint; starting on an existing path cell
// truncates the path beyond it and resumes there. One StartPath counts as
// one move regardless of how far the draw extends.
func (g *Game) StartPath(color string, row, col int) bool {
	ends, known := g.endpoints[color]
	if !known || !g.inBounds(row, col) {
		return false
	}
	cell := [2]int{row, col}

	if idx := indexOf(g.paths[color], cell); idx >= 0 {
		g.paths[color] = g.paths[color][:idx+1]
		g.active = color
		g.env.RecordMove()
		g.recompute()
		return true
	}

	if cell != ends[0] && cell != ends[1] {
		return false
	}
	g.paths[color] = [][2]int{cell}
	g.active = color
	g.env.RecordMove()
	g.recompute()
	return true
}

// ExtendPath appends a cell to the active path. The cell must be
// orthogonally adjacent to the tail, free of other colors (bridges may
// host a second, perpendicular crossing), not already on this path, and
// the path must not already be complete.
func (g *Game) ExtendPath(row, col int) bool {
	if g.active == "" || !g.inBounds(row, col) {
		return false
	}
	color := g.active
	path := g.paths[color]
	if len(path) == 0 {
		return false
	}
	if g.pathComplete(color) {
		return false
	}

	cell := [2]int{row, col}
	tail := path[len(path)-1]
	if !adjacent(tail, cell) {
		return false
	}
	if indexOf(path, cell) >= 0 {
		return false
	}

	if g.bridges[cell] {
		if len(g.occupants(cell)) >= 2 {
			return false
		}
	} else {
		if owner, taken := g.cellOwner(cell); taken && owner != color {
			return false
		}
	}

	// Leaving a bridge must continue straight through it.
	if len(path) >= 2 && g.bridges[tail] {
		prev := path[len(path)-2]
		dIn := [2]int{tail[0] - prev[0], tail[1] - prev[1]}
		dOut := [2]int{cell[0] - tail[0], cell[1] - tail[1]}
		if dIn != dOut {
			return false
		}
	}

	// Entering the wrong color's endpoint is blocked by the owner check
	// above; entering this color's far endpoint completes the path.
	g.paths[color] = append(path, cell)
	g.recompute()
	return true
}

// EndPath stops drawing. Returns false when no draw is active.
func (g *Game) EndPath() bool {
	if g.active == "" {
		return false
	}
	g.active = ""
	return true
}

// ClearPath removes a color's drawn path entirely.
func (g *Game) ClearPath(color string) bool {
	if _, known := g.endpoints[color]; !known {
		return false
	}
	if len(g.paths[color]) == 0 {
		return false
	}
	delete(g.paths, color)
	if g.active == color {
		g.active = ""
	}
	g.env.RecordMove()
	g.recompute()
	return true
}

// Path returns a copy of the color's drawn path in draw order.
func (g *Game) Path(color string) [][2]int {
	path := g.paths[color]
	if path == nil {
		return nil
	}
	return append([][2]int(nil), path...)
}

// Colors lists the puzzle's colors in sorted order.
func (g *Game) Colors() []string {
	colors := make([]string, 0, len(g.endpoints))
	for color := range g.endpoints {
		colors = append(colors, color)
	}
	sort.Strings(colors)
	return colors
}

// Endpoints returns the fixed endpoint pair for a color.
func (g *Game) Endpoints(color string) ([2][2]int, bool) {
	ends, ok := g.endpoints[color]
	return ends, ok
}

// IsBridge reports whether the cell is a bridge.
func (g *Game) IsBridge(row, col int) bool {
	return g.bridges[[2]int{row, col}]
}

// PathComplete reports whether the color's path connects its endpoints.
func (g *Game) PathComplete(color string) bool {
	return g.pathComplete(color)
}

// Size returns the grid dimensions.
func (g *Game) Size() (rows, cols int) {
	return g.rows, g.cols
}

// IsComplete reports whether every color connects its endpoints and every
// non-bridge cell is covered exactly once (bridges exactly twice).
func (g *Game) IsComplete() bool {
	return g.env.Complete
}

// Envelope returns a copy of the puzzle envelope.
func (g *Game) Envelope() puzzle.Envelope {
	return g.env
}

// Reset clears all paths and progress.
func (g *Game) Reset() {
	g.paths = make(map[string][][2]int)
	g.active = ""
	g.env.ResetProgress()
}

func (g *Game) inBounds(row, col int) bool {
	return row >= 0 && row < g.rows && col >= 0 && col < g.cols
}

func (g *Game) pathComplete(color string) bool {
	path := g.paths[color]
	ends, known := g.endpoints[color]
	if !known || len(path) < 2 {
		return false
	}
	head, tail := path[0], path[len(path)-1]
	return (head == ends[0] && tail == ends[1]) || (head == ends[1] && tail == ends[0])
}

// cellOwner returns the color occupying a non-bridge cell, counting both
// drawn paths and fixed endpoints.
func (g *Game) cellOwner(cell [2]int) (string, bool) {
	for color, ends := range g.endpoints {
		if ends[0] == cell || ends[1] == cell {
			return color, true
		}
	}
	for color, path := range g.paths {
		if indexOf(path, cell) >= 0 {
			return color, true
		}
	}
	return "", false
}

func (g *Game) occupants(cell [2]int) []string {
	var colors []string
	for color, path := range g.paths {
		if indexOf(path, cell) >= 0 {
			colors = append(colors, color)
		}
	}
	return colors
}

func (g *Game) recompute() {
	for color := range g.endpoints {
		if !g.pathComplete(color) {
			g.env.SetComplete(false)
			return
		}
	}

	covered := make(map[[2]int]int)
	for _, path := range g.paths {
		for _, cell := range path {
			covered[cell]++
		}
	}
	for row := 0; row < g.rows; row++ {
		for col := 0; col < g.cols; col++ {
			cell := [2]int{row, col}
			want := 1
			if g.bridges[cell] {
				want = 2
			}
			if covered[cell] != want {
				g.env.SetComplete(false)
				return
			}
		}
	}
	g.env.SetComplete(true)
}

func adjacent(a, b [2]int) bool {
	dRow := a[0] - b[0]
	dCol := a[1] - b[1]
	if dRow < 0 {
		dRow = -dRow
	}
	if dCol < 0 {
		dCol = -dCol
	}
	return dRow+dCol == 1
}

func indexOf(path [][2]int, cell [2]int) int {
	for i, c := range path {
		if c == cell {
			return i
		}
	}
	return -1
}
