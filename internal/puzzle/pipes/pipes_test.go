package pipes

import (
	"testing"

	"github.com/puzzlebox-games/puzzlebox/internal/puzzle"
)

// twoColor returns a 3x3 puzzle solvable by snaking red along the top two
// rows and blue along the bottom:
//
//	R . R
//	. . .
//	B . B
func twoColor(t *testing.T) *Game {
	t.Helper()
	g, err := New(Config{
		Envelope: puzzle.Envelope{ID: "p1", Type: puzzle.GameTypePipes},
		Rows:     3,
		Cols:     3,
		Endpoints: []Endpoint{
			{Color: "red", Row: 0, Col: 0},
			{Color: "red", Row: 0, Col: 2},
			{Color: "blue", Row: 2, Col: 0},
			{Color: "blue", Row: 2, Col: 2},
		},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return g
}

func drag(t *testing.T, g *Game, color string, cells ...[2]int) {
	t.Helper()
	if !g.StartPath(color, cells[0][0], cells[0][1]) {
		t.Fatalf("StartPath(%s, %v) rejected", color, cells[0])
	}
	for _, c := range cells[1:] {
		if !g.ExtendPath(c[0], c[1]) {
			t.Fatalf("ExtendPath(%s, %v) rejected", color, c)
		}
	}
	g.EndPath()
}

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{
			name: "no endpoints",
			cfg:  Config{Rows: 3, Cols: 3},
		},
		{
			name: "odd endpoint count",
			cfg: Config{Rows: 3, Cols: 3, Endpoints: []Endpoint{
				{Color: "red", Row: 0, Col: 0},
			}},
		},
		{
			name: "endpoint out of range",
			cfg: Config{Rows: 3, Cols: 3, Endpoints: []Endpoint{
				{Color: "red", Row: 0, Col: 0},
				{Color: "red", Row: 0, Col: 3},
			}},
		},
		{
			name: "endpoints share a cell",
			cfg: Config{Rows: 3, Cols: 3, Endpoints: []Endpoint{
				{Color: "red", Row: 0, Col: 0},
				{Color: "red", Row: 0, Col: 2},
				{Color: "blue", Row: 0, Col: 0},
				{Color: "blue", Row: 2, Col: 2},
			}},
		},
		{
			name: "bridge on endpoint",
			cfg: Config{Rows: 3, Cols: 3, Endpoints: []Endpoint{
				{Color: "red", Row: 0, Col: 0},
				{Color: "red", Row: 0, Col: 2},
			}, Bridges: [][2]int{{0, 0}}},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := New(tc.cfg); err == nil {
				t.Fatal("New accepted invalid config")
			}
		})
	}
}

func TestStartPathRequiresEndpointOrPath(t *testing.T) {
	g := twoColor(t)

	if g.StartPath("red", 1, 1) {
		t.Fatal("StartPath accepted a cell off red's endpoints and path")
	}
	if g.StartPath("green", 0, 0) {
		t.Fatal("StartPath accepted an unknown color")
	}
	if !g.StartPath("red", 0, 0) {
		t.Fatal("StartPath rejected red's endpoint")
	}
	if got := g.Envelope().MoveCount; got != 1 {
		t.Fatalf("MoveCount = %d, want 1", got)
	}
}

func TestExtendPathAdjacencyAndOccupancy(t *testing.T) {
	g := twoColor(t)

	drag(t, g, "blue", [2]int{2, 0}, [2]int{1, 0}, [2]int{1, 1})

	if !g.StartPath("red", 0, 0) {
		t.Fatal("StartPath red rejected")
	}
	if g.ExtendPath(0, 2) {
		t.Fatal("ExtendPath accepted a non-adjacent cell")
	}
	if g.ExtendPath(1, 0) {
		t.Fatal("ExtendPath accepted a cell on blue's path")
	}
	if !g.ExtendPath(0, 1) {
		t.Fatal("ExtendPath rejected a legal cell")
	}
	if g.ExtendPath(0, 0) {
		t.Fatal("ExtendPath accepted a cell already on this path")
	}
	if !g.ExtendPath(0, 2) {
		t.Fatal("ExtendPath rejected the far endpoint")
	}
	if !g.PathComplete("red") {
		t.Fatal("red path not complete after reaching far endpoint")
	}
	if g.ExtendPath(1, 2) {
		t.Fatal("ExtendPath accepted a cell after the path completed")
	}
}

func TestExtendPathBlockedByOtherEndpoint(t *testing.T) {
	g := twoColor(t)

	drag(t, g, "red", [2]int{0, 0}, [2]int{1, 0})
	if g.ExtendPath(2, 0) {
		t.Fatal("ExtendPath accepted blue's endpoint cell")
	}
}

func TestStartPathTruncates(t *testing.T) {
	g := twoColor(t)

	drag(t, g, "red", [2]int{0, 0}, [2]int{0, 1}, [2]int{1, 1}, [2]int{1, 2})

	if !g.StartPath("red", 0, 1) {
		t.Fatal("StartPath rejected a cell on red's path")
	}
	want := [][2]int{{0, 0}, {0, 1}}
	if got := g.Path("red"); len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("Path after truncation = %v, want %v", got, want)
	}
	if !g.ExtendPath(0, 2) {
		t.Fatal("ExtendPath rejected after truncation")
	}
	if !g.PathComplete("red") {
		t.Fatal("red path not complete")
	}
}

func TestStartPathAtEndpointRestarts(t *testing.T) {
	g := twoColor(t)

	drag(t, g, "red", [2]int{0, 0}, [2]int{0, 1})
	if !g.StartPath("red", 0, 2) {
		t.Fatal("StartPath rejected red's far endpoint")
	}
	if got := g.Path("red"); len(got) != 1 || got[0] != [2]int{0, 2} {
		t.Fatalf("Path after restart = %v, want [[0 2]]", got)
	}
}

// coverable returns a 2x3 puzzle where red can snake through the middle
// column to cover every cell:
//
//	R . B
//	R . B
func coverable(t *testing.T) *Game {
	t.Helper()
	g, err := New(Config{
		Envelope: puzzle.Envelope{ID: "p4", Type: puzzle.GameTypePipes},
		Rows:     2,
		Cols:     3,
		Endpoints: []Endpoint{
			{Color: "red", Row: 0, Col: 0},
			{Color: "red", Row: 1, Col: 0},
			{Color: "blue", Row: 0, Col: 2},
			{Color: "blue", Row: 1, Col: 2},
		},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return g
}

func TestCompletionRequiresFullCoverage(t *testing.T) {
	g := coverable(t)

	// Direct connections leave the middle column uncovered.
	drag(t, g, "red", [2]int{0, 0}, [2]int{1, 0})
	drag(t, g, "blue", [2]int{0, 2}, [2]int{1, 2})
	if !g.PathComplete("red") || !g.PathComplete("blue") {
		t.Fatal("paths not complete")
	}
	if g.IsComplete() {
		t.Fatal("IsComplete true with uncovered cells")
	}

	// Snake red through the middle column instead.
	drag(t, g, "red", [2]int{0, 0}, [2]int{0, 1}, [2]int{1, 1}, [2]int{1, 0})
	if !g.IsComplete() {
		t.Fatal("IsComplete false with every cell covered")
	}
}

func TestBridgeHostsTwoPerpendicularPaths(t *testing.T) {
	// 3x3 with a bridge at the center:
	//
	//	. R .
	//	B + B
	//	. R .
	g, err := New(Config{
		Envelope: puzzle.Envelope{ID: "p2", Type: puzzle.GameTypePipes},
		Rows:     3,
		Cols:     3,
		Endpoints: []Endpoint{
			{Color: "red", Row: 0, Col: 1},
			{Color: "red", Row: 2, Col: 1},
			{Color: "blue", Row: 1, Col: 0},
			{Color: "blue", Row: 1, Col: 2},
		},
		Bridges: [][2]int{{1, 1}},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	drag(t, g, "red", [2]int{0, 1}, [2]int{1, 1}, [2]int{2, 1})
	drag(t, g, "blue", [2]int{1, 0}, [2]int{1, 1}, [2]int{1, 2})

	if !g.PathComplete("red") || !g.PathComplete("blue") {
		t.Fatal("bridge crossing did not complete both paths")
	}
}

func TestBridgeRejectsTurn(t *testing.T) {
	// Entering the bridge at (1,1) from above and turning right must fail.
	g, err := New(Config{
		Envelope: puzzle.Envelope{ID: "p3", Type: puzzle.GameTypePipes},
		Rows:     3,
		Cols:     4,
		Endpoints: []Endpoint{
			{Color: "red", Row: 0, Col: 1},
			{Color: "red", Row: 2, Col: 1},
			{Color: "blue", Row: 1, Col: 0},
			{Color: "blue", Row: 1, Col: 3},
		},
		Bridges: [][2]int{{1, 1}},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if !g.StartPath("red", 0, 1) {
		t.Fatal("StartPath rejected")
	}
	if !g.ExtendPath(1, 1) {
		t.Fatal("ExtendPath rejected the bridge cell")
	}
	if g.ExtendPath(1, 2) {
		t.Fatal("ExtendPath allowed turning on a bridge")
	}
	if !g.ExtendPath(2, 1) {
		t.Fatal("ExtendPath rejected the straight continuation")
	}
}

func TestClearPath(t *testing.T) {
	g := twoColor(t)

	if g.ClearPath("red") {
		t.Fatal("ClearPath succeeded with nothing drawn")
	}
	drag(t, g, "red", [2]int{0, 0}, [2]int{0, 1})
	if !g.ClearPath("red") {
		t.Fatal("ClearPath rejected a drawn path")
	}
	if got := g.Path("red"); got != nil {
		t.Fatalf("Path after clear = %v, want nil", got)
	}
}

func TestReset(t *testing.T) {
	g := coverable(t)

	drag(t, g, "red", [2]int{0, 0}, [2]int{0, 1}, [2]int{1, 1}, [2]int{1, 0})
	drag(t, g, "blue", [2]int{0, 2}, [2]int{1, 2})
	if !g.IsComplete() {
		t.Fatal("puzzle should be complete")
	}

	g.Reset()
	if g.IsComplete() {
		t.Fatal("IsComplete true after reset")
	}
	if got := g.Envelope().MoveCount; got != 0 {
		t.Fatalf("MoveCount after reset = %d, want 0", got)
	}
	if got := g.Path("red"); got != nil {
		t.Fatalf("Path after reset = %v, want nil", got)
	}
}
