package variants

import (
	"fmt"

	apperrors "github.com/puzzlebox-games/puzzlebox/internal/platform/errors"
	"github.com/puzzlebox-games/puzzlebox/internal/puzzle"
	"github.com/puzzlebox-games/puzzlebox/internal/puzzle/ballsort"
	"github.com/puzzlebox-games/puzzlebox/internal/puzzle/connections"
	"github.com/puzzlebox-games/puzzlebox/internal/puzzle/crossword"
	"github.com/puzzlebox-games/puzzlebox/internal/puzzle/hanoi"
	"github.com/puzzlebox-games/puzzlebox/internal/puzzle/hitori"
	"github.com/puzzlebox-games/puzzlebox/internal/puzzle/kakuro"
	"github.com/puzzlebox-games/puzzlebox/internal/puzzle/lightsout"
	"github.com/puzzlebox-games/puzzlebox/internal/puzzle/mathora"
	"github.com/puzzlebox-games/puzzlebox/internal/puzzle/memory"
	"github.com/puzzlebox-games/puzzlebox/internal/puzzle/minesweeper"
	"github.com/puzzlebox-games/puzzlebox/internal/puzzle/mobius"
	"github.com/puzzlebox-games/puzzlebox/internal/puzzle/nonogram"
	"github.com/puzzlebox-games/puzzlebox/internal/puzzle/numbertarget"
	"github.com/puzzlebox-games/puzzlebox/internal/puzzle/pipes"
	"github.com/puzzlebox-games/puzzlebox/internal/puzzle/simon"
	"github.com/puzzlebox-games/puzzlebox/internal/puzzle/sokoban"
	"github.com/puzzlebox-games/puzzlebox/internal/puzzle/sudoku"
	"github.com/puzzlebox-games/puzzlebox/internal/puzzle/twenty48"
	"github.com/puzzlebox-games/puzzlebox/internal/puzzle/wordforge"
	"github.com/puzzlebox-games/puzzlebox/internal/puzzle/wordsearch"
)

const dateLayout = "2006-01-02"

// State is the renderable snapshot of a variant: the shared envelope
// plus the game-specific board under Game.
type State struct {
	Envelope EnvelopeState `json:"envelope"`
	CanUndo  bool          `json:"can_undo"`
	Game     any           `json:"game"`
}

// EnvelopeState mirrors puzzle.Envelope for wire payloads.
type EnvelopeState struct {
	ID         string `json:"id"`
	GameType   string `json:"game_type"`
	Difficulty string `json:"difficulty"`
	Date       string `json:"date,omitempty"`
	MoveCount  int    `json:"move_count"`
	Complete   bool   `json:"complete"`
}

// View builds the snapshot for a variant. Every value is copied; the
// result shares no state with the engine.
func View(v puzzle.Variant) (State, error) {
	state := State{Envelope: envelopeState(v.Envelope()), CanUndo: CanUndo(v)}
	switch g := v.(type) {
	case *sudoku.Game:
		state.Game = sudokuView(g)
	case *nonogram.Game:
		state.Game = nonogramView(g)
	case *ballsort.Game:
		state.Game = ballSortView(g)
	case *pipes.Game:
		state.Game = pipesView(g)
	case *sokoban.Game:
		state.Game = sokobanView(g)
	case *minesweeper.Game:
		state.Game = minesweeperView(g)
	case *mobius.Game:
		state.Game = mobiusView(g)
	case *simon.Game:
		state.Game = simonView(g)
	case *hanoi.Game:
		state.Game = hanoiView(g)
	case *hitori.Game:
		state.Game = hitoriView(g)
	case *lightsout.Game:
		state.Game = lightsOutView(g)
	case *wordsearch.Game:
		state.Game = wordSearchView(g)
	case *wordforge.Game:
		state.Game = wordForgeView(g)
	case *numbertarget.Game:
		state.Game = numberTargetView(g)
	case *memory.Game:
		state.Game = memoryView(g)
	case *twenty48.Game:
		state.Game = twenty48View(g)
	case *crossword.Game:
		state.Game = crosswordView(g)
	case *connections.Game:
		state.Game = connectionsView(g)
	case *mathora.Game:
		state.Game = mathoraView(g)
	case *kakuro.Game:
		state.Game = kakuroView(g)
	default:
		return State{}, apperrors.New(apperrors.CodeContentUnknownGameType,
			fmt.Sprintf("no view for game type %q", v.Envelope().Type))
	}
	return state, nil
}

func envelopeState(env puzzle.Envelope) EnvelopeState {
	state := EnvelopeState{
		ID:         env.ID,
		GameType:   env.Type.String(),
		Difficulty: env.Difficulty.String(),
		MoveCount:  env.MoveCount,
		Complete:   env.Complete,
	}
	if !env.Date.IsZero() {
		state.Date = env.Date.Format(dateLayout)
	}
	return state
}

type sudokuCellState struct {
	Value    int   `json:"value"`
	Given    bool  `json:"given"`
	Conflict bool  `json:"conflict"`
	Notes    []int `json:"notes,omitempty"`
}

type sudokuCageState struct {
	Sum       int      `json:"sum"`
	Cells     [][2]int `json:"cells"`
	Satisfied bool     `json:"satisfied"`
}

type sudokuState struct {
	Cells [][]sudokuCellState `json:"cells"`
	Cages []sudokuCageState   `json:"cages,omitempty"`
}

func sudokuView(g *sudoku.Game) sudokuState {
	cells := make([][]sudokuCellState, 9)
	for row := range cells {
		cells[row] = make([]sudokuCellState, 9)
		for col := range cells[row] {
			cells[row][col] = sudokuCellState{
				Value:    g.Value(row, col),
				Given:    g.IsGiven(row, col),
				Conflict: g.InConflict(row, col),
				Notes:    g.Notes(row, col),
			}
		}
	}
	var cages []sudokuCageState
	for i, cage := range g.Cages() {
		cs := make([][2]int, 0, len(cage.Cells))
		for _, at := range cage.Cells {
			cs = append(cs, [2]int{at.Row, at.Col})
		}
		cages = append(cages, sudokuCageState{Sum: cage.Sum, Cells: cs, Satisfied: g.CageSatisfied(i)})
	}
	return sudokuState{Cells: cells, Cages: cages}
}

type nonogramState struct {
	Rows     int        `json:"rows"`
	Cols     int        `json:"cols"`
	Cells    [][]string `json:"cells"`
	RowClues [][]int    `json:"row_clues"`
	ColClues [][]int    `json:"col_clues"`
	Filled   int        `json:"filled"`
	Total    int        `json:"total"`
	Mistakes [][2]int   `json:"mistakes,omitempty"`
}

func nonogramView(g *nonogram.Game) nonogramState {
	rows, cols := g.Size()
	cells := make([][]string, rows)
	rowClues := make([][]int, rows)
	for row := 0; row < rows; row++ {
		cells[row] = make([]string, cols)
		rowClues[row] = g.RowClues(row)
		for col := 0; col < cols; col++ {
			switch g.Cell(row, col) {
			case nonogram.CellFilled:
				cells[row][col] = "filled"
			case nonogram.CellMarked:
				cells[row][col] = "marked"
			default:
				cells[row][col] = "empty"
			}
		}
	}
	colClues := make([][]int, cols)
	for col := 0; col < cols; col++ {
		colClues[col] = g.ColClues(col)
	}
	filled, total := g.Progress()
	return nonogramState{
		Rows:     rows,
		Cols:     cols,
		Cells:    cells,
		RowClues: rowClues,
		ColClues: colClues,
		Filled:   filled,
		Total:    total,
		Mistakes: g.Mistakes(),
	}
}

type ballSortState struct {
	Tubes    [][]string `json:"tubes"`
	Capacity int        `json:"capacity"`
}

func ballSortView(g *ballsort.Game) ballSortState {
	return ballSortState{Tubes: g.Tubes(), Capacity: g.Capacity()}
}

type pipesPathState struct {
	Color     string    `json:"color"`
	Endpoints [2][2]int `json:"endpoints"`
	Cells     [][2]int  `json:"cells,omitempty"`
	Complete  bool      `json:"complete"`
}

type pipesState struct {
	Rows    int              `json:"rows"`
	Cols    int              `json:"cols"`
	Paths   []pipesPathState `json:"paths"`
	Bridges [][2]int         `json:"bridges,omitempty"`
}

func pipesView(g *pipes.Game) pipesState {
	rows, cols := g.Size()
	colors := g.Colors()
	paths := make([]pipesPathState, 0, len(colors))
	for _, color := range colors {
		ends, _ := g.Endpoints(color)
		paths = append(paths, pipesPathState{
			Color:     color,
			Endpoints: ends,
			Cells:     g.Path(color),
			Complete:  g.PathComplete(color),
		})
	}
	var bridges [][2]int
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			if g.IsBridge(row, col) {
				bridges = append(bridges, [2]int{row, col})
			}
		}
	}
	return pipesState{Rows: rows, Cols: cols, Paths: paths, Bridges: bridges}
}

type sokobanState struct {
	Rows      int        `json:"rows"`
	Cols      int        `json:"cols"`
	Cells     [][]string `json:"cells"`
	Player    [2]int     `json:"player"`
	Boxes     [][2]int   `json:"boxes"`
	PushCount int        `json:"push_count"`
}

func sokobanView(g *sokoban.Game) sokobanState {
	rows, cols := g.Size()
	cells := make([][]string, rows)
	for row := 0; row < rows; row++ {
		cells[row] = make([]string, cols)
		for col := 0; col < cols; col++ {
			switch g.Cell(row, col) {
			case sokoban.CellWall:
				cells[row][col] = "wall"
			case sokoban.CellTarget:
				cells[row][col] = "target"
			default:
				cells[row][col] = "floor"
			}
		}
	}
	playerRow, playerCol := g.Player()
	return sokobanState{
		Rows:      rows,
		Cols:      cols,
		Cells:     cells,
		Player:    [2]int{playerRow, playerCol},
		Boxes:     g.Boxes(),
		PushCount: g.PushCount(),
	}
}

type minesweeperCellState struct {
	State         string `json:"state"`
	AdjacentMines int    `json:"adjacent_mines,omitempty"`
}

type minesweeperState struct {
	Rows  int                      `json:"rows"`
	Cols  int                      `json:"cols"`
	Cells [][]minesweeperCellState `json:"cells"`
	Lost  bool                     `json:"lost"`
	// Mines is populated only once the game has ended.
	Mines [][2]int `json:"mines,omitempty"`
}

func minesweeperView(g *minesweeper.Game) minesweeperState {
	rows, cols := g.Size()
	cells := make([][]minesweeperCellState, rows)
	for row := 0; row < rows; row++ {
		cells[row] = make([]minesweeperCellState, cols)
		for col := 0; col < cols; col++ {
			cell := minesweeperCellState{State: "hidden"}
			switch g.State(row, col) {
			case minesweeper.CellRevealed:
				cell.State = "revealed"
				cell.AdjacentMines, _ = g.AdjacentMines(row, col)
			case minesweeper.CellFlagged:
				cell.State = "flagged"
			}
			cells[row][col] = cell
		}
	}
	return minesweeperState{Rows: rows, Cols: cols, Cells: cells, Lost: g.Lost(), Mines: g.Mines()}
}

type mobiusEdgeState struct {
	Direction string `json:"direction"`
	To        string `json:"to"`
}

type mobiusState struct {
	Current string            `json:"current"`
	Goal    string            `json:"goal"`
	Edges   []mobiusEdgeState `json:"edges"`
}

func mobiusView(g *mobius.Game) mobiusState {
	edges := g.AvailableEdges()
	out := make([]mobiusEdgeState, 0, len(edges))
	for _, edge := range edges {
		out = append(out, mobiusEdgeState{Direction: edge.Direction, To: edge.To})
	}
	return mobiusState{Current: g.Current(), Goal: g.Goal(), Edges: out}
}

type simonState struct {
	Level         int   `json:"level"`
	Sequence      []int `json:"sequence"`
	InputPosition int   `json:"input_position"`
	Failed        bool  `json:"failed"`
}

func simonView(g *simon.Game) simonState {
	return simonState{
		Level:         g.Level(),
		Sequence:      g.Sequence(),
		InputPosition: g.InputPosition(),
		Failed:        g.Failed(),
	}
}

type hanoiState struct {
	Pegs         [][]int `json:"pegs"`
	DiskCount    int     `json:"disk_count"`
	MinimumMoves int     `json:"minimum_moves"`
}

func hanoiView(g *hanoi.Game) hanoiState {
	pegs := make([][]int, g.PegCount())
	for i := range pegs {
		pegs[i] = g.Peg(i)
	}
	return hanoiState{Pegs: pegs, DiskCount: g.DiskCount(), MinimumMoves: g.MinimumMoves()}
}

type hitoriCellState struct {
	Value  int  `json:"value"`
	Shaded bool `json:"shaded"`
}

type hitoriState struct {
	Size              int                 `json:"size"`
	Cells             [][]hitoriCellState `json:"cells"`
	DuplicateUnshaded [][2]int            `json:"duplicate_unshaded,omitempty"`
	AdjacentShaded    [][2]int            `json:"adjacent_shaded,omitempty"`
	Disconnected      bool                `json:"disconnected"`
}

func hitoriView(g *hitori.Game) hitoriState {
	size := g.Size()
	cells := make([][]hitoriCellState, size)
	for row := 0; row < size; row++ {
		cells[row] = make([]hitoriCellState, size)
		for col := 0; col < size; col++ {
			cells[row][col] = hitoriCellState{Value: g.Value(row, col), Shaded: g.Shaded(row, col)}
		}
	}
	return hitoriState{
		Size:              size,
		Cells:             cells,
		DuplicateUnshaded: g.DuplicateUnshaded(),
		AdjacentShaded:    g.AdjacentShaded(),
		Disconnected:      g.Disconnected(),
	}
}

type lightsOutState struct {
	Size     int      `json:"size"`
	On       [][]bool `json:"on"`
	LitCount int      `json:"lit_count"`
}

func lightsOutView(g *lightsout.Game) lightsOutState {
	size := g.Size()
	on := make([][]bool, size)
	for row := 0; row < size; row++ {
		on[row] = make([]bool, size)
		for col := 0; col < size; col++ {
			on[row][col] = g.On(row, col)
		}
	}
	return lightsOutState{Size: size, On: on, LitCount: g.LitCount()}
}

type wordSearchFoundState struct {
	Word  string   `json:"word"`
	Cells [][2]int `json:"cells"`
}

type wordSearchState struct {
	Words []string               `json:"words"`
	Found []wordSearchFoundState `json:"found"`
}

func wordSearchView(g *wordsearch.Game) wordSearchState {
	found := g.FoundWords()
	out := make([]wordSearchFoundState, 0, len(found))
	for _, word := range found {
		out = append(out, wordSearchFoundState{Word: word, Cells: g.FoundCells(word)})
	}
	return wordSearchState{Words: g.Words(), Found: out}
}

type wordForgeFoundState struct {
	Word string `json:"word"`
	Clue string `json:"clue,omitempty"`
}

type wordForgeState struct {
	Letters   []string              `json:"letters"`
	Center    string                `json:"center"`
	Score     int                   `json:"score"`
	Found     []wordForgeFoundState `json:"found"`
	WordCount int                   `json:"word_count"`
}

func wordForgeView(g *wordforge.Game) wordForgeState {
	letters := g.Letters()
	out := make([]string, 0, len(letters))
	for _, letter := range letters {
		out = append(out, string(letter))
	}
	foundWords := g.FoundWords()
	found := make([]wordForgeFoundState, 0, len(foundWords))
	for _, word := range foundWords {
		clue, _ := g.Clue(word)
		found = append(found, wordForgeFoundState{Word: word, Clue: clue})
	}
	return wordForgeState{
		Letters:   out,
		Center:    string(g.Center()),
		Score:     g.Score(),
		Found:     found,
		WordCount: g.WordCount(),
	}
}

type numberTargetState struct {
	Values []int `json:"values"`
	Target int   `json:"target"`
}

func numberTargetView(g *numbertarget.Game) numberTargetState {
	return numberTargetState{Values: g.Values(), Target: g.Target()}
}

type memoryCardState struct {
	FaceUp  bool   `json:"face_up"`
	Matched bool   `json:"matched"`
	Symbol  string `json:"symbol,omitempty"`
}

type memoryState struct {
	Cards              []memoryCardState `json:"cards"`
	AwaitingResolution bool              `json:"awaiting_resolution"`
}

func memoryView(g *memory.Game) memoryState {
	cards := make([]memoryCardState, g.CardCount())
	for i := range cards {
		symbol, _ := g.Symbol(i)
		cards[i] = memoryCardState{FaceUp: g.FaceUp(i), Matched: g.Matched(i), Symbol: symbol}
	}
	return memoryState{Cards: cards, AwaitingResolution: g.AwaitingResolution()}
}

type twenty48State struct {
	Grid  [][]int `json:"grid"`
	Score int     `json:"score"`
	Lost  bool    `json:"lost"`
}

func twenty48View(g *twenty48.Game) twenty48State {
	return twenty48State{Grid: g.Grid(), Score: g.Score(), Lost: g.Lost()}
}

type crosswordSlotState struct {
	Number int    `json:"number"`
	Row    int    `json:"row"`
	Col    int    `json:"col"`
	Length int    `json:"length"`
	Clue   string `json:"clue"`
}

type crosswordState struct {
	Rows     int                  `json:"rows"`
	Cols     int                  `json:"cols"`
	Cells    [][]string           `json:"cells"`
	Across   []crosswordSlotState `json:"across"`
	Down     []crosswordSlotState `json:"down"`
	Mistakes [][2]int             `json:"mistakes,omitempty"`
}

func crosswordView(g *crossword.Game) crosswordState {
	rows, cols := g.Size()
	cells := make([][]string, rows)
	for row := 0; row < rows; row++ {
		cells[row] = make([]string, cols)
		for col := 0; col < cols; col++ {
			if g.IsBlock(row, col) {
				cells[row][col] = "#"
				continue
			}
			if letter := g.Cell(row, col); letter != 0 {
				cells[row][col] = string(letter)
			}
		}
	}
	return crosswordState{
		Rows:     rows,
		Cols:     cols,
		Cells:    cells,
		Across:   crosswordSlots(g.AcrossSlots(), g.AcrossClue),
		Down:     crosswordSlots(g.DownSlots(), g.DownClue),
		Mistakes: g.Mistakes(),
	}
}

func crosswordSlots(slots []crossword.Slot, clue func(int) (string, bool)) []crosswordSlotState {
	out := make([]crosswordSlotState, 0, len(slots))
	for _, slot := range slots {
		text, _ := clue(slot.Number)
		out = append(out, crosswordSlotState{
			Number: slot.Number,
			Row:    slot.Row,
			Col:    slot.Col,
			Length: slot.Length,
			Clue:   text,
		})
	}
	return out
}

type connectionsGroupState struct {
	Name  string   `json:"name"`
	Words []string `json:"words"`
}

type connectionsState struct {
	Selected     []string                `json:"selected,omitempty"`
	SolvedGroups []connectionsGroupState `json:"solved_groups"`
	Remaining    []string                `json:"remaining_words"`
	Mistakes     int                     `json:"mistakes"`
	MistakeLimit int                     `json:"mistake_limit"`
	Lost         bool                    `json:"lost"`
}

func connectionsView(g *connections.Game) connectionsState {
	solved := g.SolvedGroups()
	groups := make([]connectionsGroupState, 0, len(solved))
	for _, group := range solved {
		groups = append(groups, connectionsGroupState{Name: group.Name, Words: group.Words})
	}
	return connectionsState{
		Selected:     g.Selected(),
		SolvedGroups: groups,
		Remaining:    g.RemainingWords(),
		Mistakes:     g.Mistakes(),
		MistakeLimit: connections.MistakeLimit,
		Lost:         g.Lost(),
	}
}

type mathoraCellState struct {
	Declared bool `json:"declared"`
	Value    int  `json:"value,omitempty"`
	Given    bool `json:"given,omitempty"`
}

type mathoraEquationState struct {
	Operands  [][2]int `json:"operands"`
	Operators []string `json:"operators"`
	Result    [2]int   `json:"result"`
	Satisfied bool     `json:"satisfied"`
}

type mathoraState struct {
	Size      int                    `json:"size"`
	Cells     [][]mathoraCellState   `json:"cells"`
	Equations []mathoraEquationState `json:"equations"`
}

func mathoraView(g *mathora.Game) mathoraState {
	size := g.Size()
	cells := make([][]mathoraCellState, size)
	for row := 0; row < size; row++ {
		cells[row] = make([]mathoraCellState, size)
		for col := 0; col < size; col++ {
			value, declared := g.Value(row, col)
			cells[row][col] = mathoraCellState{
				Declared: declared,
				Value:    value,
				Given:    g.IsGiven(row, col),
			}
		}
	}
	equations := g.Equations()
	out := make([]mathoraEquationState, 0, len(equations))
	for i, eq := range equations {
		out = append(out, mathoraEquationState{
			Operands:  eq.Operands,
			Operators: eq.Operators,
			Result:    eq.Result,
			Satisfied: g.EquationSatisfied(i),
		})
	}
	return mathoraState{Size: size, Cells: cells, Equations: out}
}

type kakuroCellState struct {
	Block      bool `json:"block"`
	AcrossClue int  `json:"across_clue,omitempty"`
	DownClue   int  `json:"down_clue,omitempty"`
	Digit      int  `json:"digit,omitempty"`
}

type kakuroRunState struct {
	Sum       int      `json:"sum"`
	Across    bool     `json:"across"`
	Cells     [][2]int `json:"cells"`
	Satisfied bool     `json:"satisfied"`
}

type kakuroState struct {
	Rows  int                 `json:"rows"`
	Cols  int                 `json:"cols"`
	Cells [][]kakuroCellState `json:"cells"`
	Runs  []kakuroRunState    `json:"runs"`
}

func kakuroView(g *kakuro.Game) kakuroState {
	rows, cols := g.Size()
	cells := make([][]kakuroCellState, rows)
	for row := 0; row < rows; row++ {
		cells[row] = make([]kakuroCellState, cols)
		for col := 0; col < cols; col++ {
			cell := kakuroCellState{Block: g.IsBlock(row, col)}
			if cell.Block {
				cell.AcrossClue, _ = g.AcrossClue(row, col)
				cell.DownClue, _ = g.DownClue(row, col)
			} else {
				cell.Digit = g.Digit(row, col)
			}
			cells[row][col] = cell
		}
	}
	runs := g.Runs()
	out := make([]kakuroRunState, 0, len(runs))
	for i, run := range runs {
		out = append(out, kakuroRunState{
			Sum:       run.Sum,
			Across:    run.Across,
			Cells:     run.Cells,
			Satisfied: g.RunSatisfied(i),
		})
	}
	return kakuroState{Rows: rows, Cols: cols, Cells: cells, Runs: out}
}
