package generator

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/puzzlebox-games/puzzlebox/internal/puzzle"
)

type ballSortDoc struct {
	TubeCount    int        `json:"tubeCount"`
	TubeCapacity int        `json:"tubeCapacity"`
	InitialState [][]string `json:"initialState"`
}

var ballColors = []string{
	"red", "orange", "yellow", "green", "blue", "purple",
	"pink", "teal", "gray", "brown", "cyan", "lime",
}

// ballSort deals a shuffled bag of capacity-many balls per color into
// the filled tubes and leaves two tubes empty, so every color count is
// exact and the scramble is always reachable from a solved state.
func (g *Generator) ballSort(difficulty puzzle.Difficulty) (json.RawMessage, error) {
	colors := scale(difficulty, 4, 6, 8, 10)
	const capacity = 4

	bag := make([]string, 0, colors*capacity)
	for _, color := range ballColors[:colors] {
		for i := 0; i < capacity; i++ {
			bag = append(bag, color)
		}
	}
	g.rng.Shuffle(len(bag), func(i, j int) { bag[i], bag[j] = bag[j], bag[i] })

	tubes := make([][]string, colors+2)
	for t := 0; t < colors; t++ {
		tubes[t] = append([]string(nil), bag[t*capacity:(t+1)*capacity]...)
	}
	for t := colors; t < colors+2; t++ {
		tubes[t] = []string{}
	}
	return marshal(ballSortDoc{TubeCount: colors + 2, TubeCapacity: capacity, InitialState: tubes})
}

type pipesDoc struct {
	Rows      int           `json:"rows"`
	Cols      int           `json:"cols"`
	Endpoints []endpointDoc `json:"endpoints"`
	Bridges   [][2]int      `json:"bridges,omitempty"`
}

type endpointDoc struct {
	Color string `json:"color"`
	Row   int    `json:"row"`
	Col   int    `json:"col"`
}

// pipes pins each color's endpoints to opposite halves of its own row,
// which guarantees disjoint straight-line solutions exist.
func (g *Generator) pipes(difficulty puzzle.Difficulty) (json.RawMessage, error) {
	size := scale(difficulty, 5, 6, 7, 8)
	colors := scale(difficulty, 3, 4, 5, 6)

	endpoints := make([]endpointDoc, 0, colors*2)
	for i := 0; i < colors; i++ {
		left := g.rng.Intn(size / 2)
		right := size/2 + g.rng.Intn(size-size/2)
		endpoints = append(endpoints,
			endpointDoc{Color: ballColors[i], Row: i, Col: left},
			endpointDoc{Color: ballColors[i], Row: i, Col: right},
		)
	}

	doc := pipesDoc{Rows: size, Cols: size, Endpoints: endpoints}
	if difficulty == puzzle.DifficultyHard || difficulty == puzzle.DifficultyExpert {
		// Bottom row holds no endpoints.
		doc.Bridges = [][2]int{{size - 1, size / 2}}
	}
	return marshal(doc)
}

type sokobanDoc struct {
	Rows            int      `json:"rows"`
	Cols            int      `json:"cols"`
	Map             []string `json:"map"`
	BoxPositions    [][2]int `json:"boxPositions"`
	PlayerRow       int      `json:"playerRow"`
	PlayerCol       int      `json:"playerCol"`
	TargetPositions [][2]int `json:"targetPositions"`
}

// sokobanRooms are hand-authored: each box sits in an open column with
// its target straight below, so pushing every box down solves the room.
var sokobanRooms = map[puzzle.Difficulty]sokobanDoc{
	puzzle.DifficultyEasy: {
		Rows: 5, Cols: 5,
		Map: []string{
			"#####",
			"#...#",
			"#...#",
			"#...#",
			"#####",
		},
		BoxPositions:    [][2]int{{2, 2}},
		PlayerRow:       1, PlayerCol: 1,
		TargetPositions: [][2]int{{3, 3}},
	},
	puzzle.DifficultyMedium: {
		Rows: 6, Cols: 6,
		Map: []string{
			"######",
			"#....#",
			"#....#",
			"#....#",
			"#....#",
			"######",
		},
		BoxPositions:    [][2]int{{2, 2}, {2, 3}},
		PlayerRow:       1, PlayerCol: 1,
		TargetPositions: [][2]int{{4, 2}, {4, 3}},
	},
	puzzle.DifficultyHard: {
		Rows: 7, Cols: 7,
		Map: []string{
			"#######",
			"#.....#",
			"#.....#",
			"#....##",
			"#.....#",
			"#.....#",
			"#######",
		},
		BoxPositions:    [][2]int{{2, 2}, {2, 3}, {2, 4}},
		PlayerRow:       1, PlayerCol: 1,
		TargetPositions: [][2]int{{5, 2}, {5, 3}, {5, 4}},
	},
	puzzle.DifficultyExpert: {
		Rows: 8, Cols: 8,
		Map: []string{
			"########",
			"#......#",
			"#......#",
			"#.....##",
			"##.....#",
			"#......#",
			"#......#",
			"########",
		},
		BoxPositions:    [][2]int{{2, 2}, {2, 3}, {2, 4}, {2, 5}},
		PlayerRow:       1, PlayerCol: 1,
		TargetPositions: [][2]int{{6, 2}, {6, 3}, {6, 4}, {6, 5}},
	},
}

func (g *Generator) sokoban(difficulty puzzle.Difficulty) (json.RawMessage, error) {
	room, ok := sokobanRooms[difficulty]
	if !ok {
		room = sokobanRooms[puzzle.DifficultyEasy]
	}
	return marshal(room)
}

type mobiusDoc struct {
	Nodes       []nodeDoc `json:"nodes"`
	Edges       []edgeDoc `json:"edges"`
	StartNodeID string    `json:"startNodeId"`
	GoalNodeID  string    `json:"goalNodeId"`
}

type nodeDoc struct {
	ID string  `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
	Z  float64 `json:"z"`
}

type edgeDoc struct {
	From      string `json:"from"`
	To        string `json:"to"`
	Direction string `json:"direction"`
}

// mobius lays nodes on a twisted ring with east/west edges both ways
// around, then adds north chords across the ring on larger boards. The
// goal sits halfway around, reachable by the east chain.
func (g *Generator) mobius(difficulty puzzle.Difficulty) (json.RawMessage, error) {
	count := scale(difficulty, 6, 8, 10, 12)

	nodes := make([]nodeDoc, 0, count)
	for i := 0; i < count; i++ {
		theta := 2 * math.Pi * float64(i) / float64(count)
		nodes = append(nodes, nodeDoc{
			ID: fmt.Sprintf("n%d", i),
			X:  math.Cos(theta),
			Y:  math.Sin(theta),
			Z:  0.5 * math.Sin(theta/2),
		})
	}

	edges := make([]edgeDoc, 0, count*2+count/2)
	for i := 0; i < count; i++ {
		next := (i + 1) % count
		edges = append(edges,
			edgeDoc{From: nodes[i].ID, To: nodes[next].ID, Direction: "east"},
			edgeDoc{From: nodes[next].ID, To: nodes[i].ID, Direction: "west"},
		)
	}
	if count >= 8 {
		for i := 0; i < count/2; i += 2 {
			across := (i + count/2) % count
			edges = append(edges, edgeDoc{From: nodes[i].ID, To: nodes[across].ID, Direction: "north"})
		}
	}

	return marshal(mobiusDoc{
		Nodes:       nodes,
		Edges:       edges,
		StartNodeID: nodes[0].ID,
		GoalNodeID:  nodes[count/2].ID,
	})
}
