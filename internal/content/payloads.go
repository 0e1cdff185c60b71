package content

// Payload structs mirror the authoring JSON for each game type. Field
// names follow the content format (camelCase); structural validation
// beyond decoding lives in the builders and the variant constructors.

type sudokuPayload struct {
	Grid     [][]int       `json:"grid"`
	Solution [][]int       `json:"solution"`
	Cages    []cagePayload `json:"cages,omitempty"`
}

type cagePayload struct {
	Sum   int      `json:"sum"`
	Cells [][2]int `json:"cells"`
}

type nonogramPayload struct {
	Rows     int     `json:"rows"`
	Cols     int     `json:"cols"`
	RowClues [][]int `json:"rowClues"`
	ColClues [][]int `json:"colClues"`
	// Solution is optional: rows of '#' (filled) and '.' per cell. When
	// absent the picture is derived from the clues.
	Solution []string `json:"solution,omitempty"`
}

type ballSortPayload struct {
	TubeCount    int        `json:"tubeCount"`
	TubeCapacity int        `json:"tubeCapacity"`
	InitialState [][]string `json:"initialState"`
}

type pipesPayload struct {
	Rows      int               `json:"rows"`
	Cols      int               `json:"cols"`
	Endpoints []endpointPayload `json:"endpoints"`
	Bridges   [][2]int          `json:"bridges,omitempty"`
}

type endpointPayload struct {
	Color string `json:"color"`
	Row   int    `json:"row"`
	Col   int    `json:"col"`
}

type sokobanPayload struct {
	Rows int `json:"rows"`
	Cols int `json:"cols"`
	// Map holds one string per row: '#' for walls, '.' for floor.
	// Targets are listed separately and merged in.
	Map             []string `json:"map"`
	BoxPositions    [][2]int `json:"boxPositions"`
	PlayerRow       int      `json:"playerRow"`
	PlayerCol       int      `json:"playerCol"`
	TargetPositions [][2]int `json:"targetPositions"`
}

type minesweeperPayload struct {
	Rows      int `json:"rows"`
	Cols      int `json:"cols"`
	MineCount int `json:"mineCount"`
}

type mobiusPayload struct {
	Nodes       []nodePayload `json:"nodes"`
	Edges       []edgePayload `json:"edges"`
	StartNodeID string        `json:"startNodeId"`
	GoalNodeID  string        `json:"goalNodeId"`
}

// nodePayload carries isometric coordinates for the presentation layer;
// the engine only keeps the IDs.
type nodePayload struct {
	ID string  `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
	Z  float64 `json:"z"`
}

type edgePayload struct {
	From      string `json:"from"`
	To        string `json:"to"`
	Direction string `json:"direction"`
}

type simonPayload struct {
	ColorCount   int `json:"colorCount"`
	TargetLength int `json:"targetLength"`
}

type hanoiPayload struct {
	DiskCount int `json:"diskCount"`
	PegCount  int `json:"pegCount"`
}

type hitoriPayload struct {
	Size int     `json:"size"`
	Grid [][]int `json:"grid"`
	// Solution rows mark shaded cells with '#'.
	Solution []string `json:"solution"`
}

type lightsOutPayload struct {
	Size int `json:"size"`
	// Initial rows mark lit cells with '#'.
	Initial []string `json:"initial"`
}

type wordSearchPayload struct {
	Rows  int      `json:"rows"`
	Cols  int      `json:"cols"`
	Grid  []string `json:"grid"`
	Words []string `json:"words"`
}

type wordForgePayload struct {
	Letters string             `json:"letters"`
	Center  string             `json:"center"`
	Words   []wordEntryPayload `json:"words"`
}

type wordEntryPayload struct {
	Word string `json:"word"`
	Clue string `json:"clue,omitempty"`
}

type numberTargetPayload struct {
	Numbers []int `json:"numbers"`
	Target  int   `json:"target"`
}

type memoryPayload struct {
	PairCount int      `json:"pairCount"`
	Symbols   []string `json:"symbols"`
}

type twenty48Payload struct {
	Size       int `json:"size"`
	TargetTile int `json:"targetTile"`
}

type crosswordPayload struct {
	Rows int `json:"rows"`
	Cols int `json:"cols"`
	// Grid holds one string per row: '#' for blocks, solution letters
	// everywhere else.
	Grid  []string             `json:"grid"`
	Clues crosswordCluePayload `json:"clues"`
}

// crosswordCluePayload keys clues by slot number rendered as a string,
// matching the authoring format.
type crosswordCluePayload struct {
	Across map[string]string `json:"across"`
	Down   map[string]string `json:"down"`
}

type connectionsPayload struct {
	Groups []groupPayload `json:"groups"`
}

type groupPayload struct {
	Name  string   `json:"name"`
	Words []string `json:"words"`
}

type mathoraPayload struct {
	Size      int                      `json:"size"`
	Cells     []mathoraCellPayload     `json:"cells"`
	Equations []mathoraEquationPayload `json:"equations"`
}

type mathoraCellPayload struct {
	Row   int `json:"row"`
	Col   int `json:"col"`
	Given int `json:"given,omitempty"`
}

type mathoraEquationPayload struct {
	Operands  [][2]int `json:"operands"`
	Operators []string `json:"operators"`
	Result    [2]int   `json:"result"`
}

type kakuroPayload struct {
	Rows int `json:"rows"`
	Cols int `json:"cols"`
	// Blocks lists the clue-bearing closed cells; every cell not listed
	// is open.
	Blocks []blockPayload `json:"blocks"`
}

type blockPayload struct {
	Row       int `json:"row"`
	Col       int `json:"col"`
	AcrossSum int `json:"acrossSum,omitempty"`
	DownSum   int `json:"downSum,omitempty"`
}
