package variants

import (
	"encoding/json"
	"fmt"

	apperrors "github.com/puzzlebox-games/puzzlebox/internal/platform/errors"
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

type cellArgs struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

type fromToArgs struct {
	From int `json:"from"`
	To   int `json:"to"`
}

type directionArgs struct {
	Direction string `json:"direction"`
}

type wordArgs struct {
	Word string `json:"word"`
}

type digitArgs struct {
	Row   int `json:"row"`
	Col   int `json:"col"`
	Digit int `json:"digit"`
}

type sudokuPlaceArgs struct {
	Row   int `json:"row"`
	Col   int `json:"col"`
	Value int `json:"value"`
}

func applySudoku(g *sudoku.Game, action string, args json.RawMessage) (Outcome, error) {
	switch action {
	case "place":
		a, err := decodeArgs[sudokuPlaceArgs](args)
		if err != nil {
			return Outcome{}, err
		}
		return Outcome{Applied: g.Place(a.Row, a.Col, a.Value)}, nil
	case "toggle_note":
		a, err := decodeArgs[sudokuPlaceArgs](args)
		if err != nil {
			return Outcome{}, err
		}
		return Outcome{Applied: g.ToggleNote(a.Row, a.Col, a.Value)}, nil
	default:
		return Outcome{}, unknownAction(g.Envelope().Type, action)
	}
}

type nonogramDragArgs struct {
	Row  int    `json:"row"`
	Col  int    `json:"col"`
	Mode string `json:"mode"`
}

func applyNonogram(g *nonogram.Game, action string, args json.RawMessage) (Outcome, error) {
	switch action {
	case "drag_begin":
		a, err := decodeArgs[nonogramDragArgs](args)
		if err != nil {
			return Outcome{}, err
		}
		var mode nonogram.Mode
		switch a.Mode {
		case "fill":
			mode = nonogram.ModeFill
		case "mark":
			mode = nonogram.ModeMark
		default:
			return Outcome{}, apperrors.New(apperrors.CodeContentValueOutOfRange,
				fmt.Sprintf("drag mode %q is not \"fill\" or \"mark\"", a.Mode))
		}
		return Outcome{Applied: g.BeginDrag(a.Row, a.Col, mode)}, nil
	case "drag_over":
		a, err := decodeArgs[cellArgs](args)
		if err != nil {
			return Outcome{}, err
		}
		return Outcome{Applied: g.DragOver(a.Row, a.Col)}, nil
	case "drag_end":
		return Outcome{Applied: g.EndDrag()}, nil
	default:
		return Outcome{}, unknownAction(g.Envelope().Type, action)
	}
}

func applyBallSort(g *ballsort.Game, action string, args json.RawMessage) (Outcome, error) {
	switch action {
	case "move":
		a, err := decodeArgs[fromToArgs](args)
		if err != nil {
			return Outcome{}, err
		}
		return Outcome{Applied: g.Move(a.From, a.To)}, nil
	default:
		return Outcome{}, unknownAction(g.Envelope().Type, action)
	}
}

type pipesStartArgs struct {
	Color string `json:"color"`
	Row   int    `json:"row"`
	Col   int    `json:"col"`
}

type pipesColorArgs struct {
	Color string `json:"color"`
}

func applyPipes(g *pipes.Game, action string, args json.RawMessage) (Outcome, error) {
	switch action {
	case "path_start":
		a, err := decodeArgs[pipesStartArgs](args)
		if err != nil {
			return Outcome{}, err
		}
		return Outcome{Applied: g.StartPath(a.Color, a.Row, a.Col)}, nil
	case "path_extend":
		a, err := decodeArgs[cellArgs](args)
		if err != nil {
			return Outcome{}, err
		}
		return Outcome{Applied: g.ExtendPath(a.Row, a.Col)}, nil
	case "path_end":
		return Outcome{Applied: g.EndPath()}, nil
	case "path_clear":
		a, err := decodeArgs[pipesColorArgs](args)
		if err != nil {
			return Outcome{}, err
		}
		return Outcome{Applied: g.ClearPath(a.Color)}, nil
	default:
		return Outcome{}, unknownAction(g.Envelope().Type, action)
	}
}

func applySokoban(g *sokoban.Game, action string, args json.RawMessage) (Outcome, error) {
	switch action {
	case "move":
		a, err := decodeArgs[directionArgs](args)
		if err != nil {
			return Outcome{}, err
		}
		dRow, dCol, err := parseDelta(a.Direction)
		if err != nil {
			return Outcome{}, err
		}
		return Outcome{Applied: g.Move(dRow, dCol)}, nil
	default:
		return Outcome{}, unknownAction(g.Envelope().Type, action)
	}
}

func applyMinesweeper(g *minesweeper.Game, action string, args json.RawMessage) (Outcome, error) {
	switch action {
	case "reveal":
		a, err := decodeArgs[cellArgs](args)
		if err != nil {
			return Outcome{}, err
		}
		return Outcome{Applied: g.Reveal(a.Row, a.Col)}, nil
	case "toggle_flag":
		a, err := decodeArgs[cellArgs](args)
		if err != nil {
			return Outcome{}, err
		}
		return Outcome{Applied: g.ToggleFlag(a.Row, a.Col)}, nil
	default:
		return Outcome{}, unknownAction(g.Envelope().Type, action)
	}
}

func applyMobius(g *mobius.Game, action string, args json.RawMessage) (Outcome, error) {
	switch action {
	case "move":
		a, err := decodeArgs[directionArgs](args)
		if err != nil {
			return Outcome{}, err
		}
		node, moved := g.TryMove(a.Direction)
		out := Outcome{Applied: moved}
		if moved {
			out.Detail = node
		}
		return out, nil
	default:
		return Outcome{}, unknownAction(g.Envelope().Type, action)
	}
}

type simonPressArgs struct {
	Color int `json:"color"`
}

func applySimon(g *simon.Game, action string, args json.RawMessage) (Outcome, error) {
	switch action {
	case "press":
		a, err := decodeArgs[simonPressArgs](args)
		if err != nil {
			return Outcome{}, err
		}
		return Outcome{Applied: g.Press(a.Color)}, nil
	default:
		return Outcome{}, unknownAction(g.Envelope().Type, action)
	}
}

func applyHanoi(g *hanoi.Game, action string, args json.RawMessage) (Outcome, error) {
	switch action {
	case "move":
		a, err := decodeArgs[fromToArgs](args)
		if err != nil {
			return Outcome{}, err
		}
		return Outcome{Applied: g.Move(a.From, a.To)}, nil
	default:
		return Outcome{}, unknownAction(g.Envelope().Type, action)
	}
}

func applyHitori(g *hitori.Game, action string, args json.RawMessage) (Outcome, error) {
	switch action {
	case "toggle":
		a, err := decodeArgs[cellArgs](args)
		if err != nil {
			return Outcome{}, err
		}
		return Outcome{Applied: g.Toggle(a.Row, a.Col)}, nil
	default:
		return Outcome{}, unknownAction(g.Envelope().Type, action)
	}
}

func applyLightsOut(g *lightsout.Game, action string, args json.RawMessage) (Outcome, error) {
	switch action {
	case "press":
		a, err := decodeArgs[cellArgs](args)
		if err != nil {
			return Outcome{}, err
		}
		return Outcome{Applied: g.Press(a.Row, a.Col)}, nil
	default:
		return Outcome{}, unknownAction(g.Envelope().Type, action)
	}
}

type wordSearchSelectArgs struct {
	FromRow int `json:"from_row"`
	FromCol int `json:"from_col"`
	ToRow   int `json:"to_row"`
	ToCol   int `json:"to_col"`
}

func applyWordSearch(g *wordsearch.Game, action string, args json.RawMessage) (Outcome, error) {
	switch action {
	case "select":
		a, err := decodeArgs[wordSearchSelectArgs](args)
		if err != nil {
			return Outcome{}, err
		}
		return Outcome{Applied: g.Select(a.FromRow, a.FromCol, a.ToRow, a.ToCol)}, nil
	default:
		return Outcome{}, unknownAction(g.Envelope().Type, action)
	}
}

func applyWordForge(g *wordforge.Game, action string, args json.RawMessage) (Outcome, error) {
	switch action {
	case "guess":
		a, err := decodeArgs[wordArgs](args)
		if err != nil {
			return Outcome{}, err
		}
		result, _ := g.Guess(a.Word)
		return Outcome{
			Applied: result == wordforge.GuessAccepted || result == wordforge.GuessPangram,
			Detail:  guessDetail(result),
		}, nil
	default:
		return Outcome{}, unknownAction(g.Envelope().Type, action)
	}
}

func guessDetail(result wordforge.GuessResult) string {
	switch result {
	case wordforge.GuessAccepted:
		return "accepted"
	case wordforge.GuessPangram:
		return "pangram"
	case wordforge.GuessTooShort:
		return "too_short"
	case wordforge.GuessMissingCenter:
		return "missing_center"
	case wordforge.GuessUnknownLetter:
		return "unknown_letter"
	case wordforge.GuessNotInList:
		return "not_in_list"
	case wordforge.GuessDuplicate:
		return "duplicate"
	default:
		return "rejected"
	}
}

type combineArgs struct {
	I  int    `json:"i"`
	J  int    `json:"j"`
	Op string `json:"op"`
}

func applyNumberTarget(g *numbertarget.Game, action string, args json.RawMessage) (Outcome, error) {
	switch action {
	case "combine":
		a, err := decodeArgs[combineArgs](args)
		if err != nil {
			return Outcome{}, err
		}
		var op numbertarget.Operation
		switch a.Op {
		case "add":
			op = numbertarget.OperationAdd
		case "subtract":
			op = numbertarget.OperationSubtract
		case "multiply":
			op = numbertarget.OperationMultiply
		case "divide":
			op = numbertarget.OperationDivide
		default:
			return Outcome{}, apperrors.New(apperrors.CodeContentValueOutOfRange,
				fmt.Sprintf("operation %q is not add, subtract, multiply, or divide", a.Op))
		}
		return Outcome{Applied: g.Combine(a.I, a.J, op)}, nil
	default:
		return Outcome{}, unknownAction(g.Envelope().Type, action)
	}
}

type memoryFlipArgs struct {
	Card int `json:"card"`
}

func applyMemory(g *memory.Game, action string, args json.RawMessage) (Outcome, error) {
	switch action {
	case "flip":
		a, err := decodeArgs[memoryFlipArgs](args)
		if err != nil {
			return Outcome{}, err
		}
		return Outcome{Applied: g.FlipCard(a.Card)}, nil
	case "resolve":
		return Outcome{Applied: g.ResolveMismatch()}, nil
	default:
		return Outcome{}, unknownAction(g.Envelope().Type, action)
	}
}

func applyTwenty48(g *twenty48.Game, action string, args json.RawMessage) (Outcome, error) {
	switch action {
	case "move":
		a, err := decodeArgs[directionArgs](args)
		if err != nil {
			return Outcome{}, err
		}
		var dir twenty48.Direction
		switch a.Direction {
		case "up":
			dir = twenty48.DirectionUp
		case "down":
			dir = twenty48.DirectionDown
		case "left":
			dir = twenty48.DirectionLeft
		case "right":
			dir = twenty48.DirectionRight
		default:
			return Outcome{}, badDirection(a.Direction)
		}
		return Outcome{Applied: g.Move(dir)}, nil
	default:
		return Outcome{}, unknownAction(g.Envelope().Type, action)
	}
}

type crosswordSetArgs struct {
	Row    int    `json:"row"`
	Col    int    `json:"col"`
	Letter string `json:"letter"`
}

func applyCrossword(g *crossword.Game, action string, args json.RawMessage) (Outcome, error) {
	switch action {
	case "set_cell":
		a, err := decodeArgs[crosswordSetArgs](args)
		if err != nil {
			return Outcome{}, err
		}
		letters := []rune(a.Letter)
		if len(letters) != 1 {
			return Outcome{}, apperrors.New(apperrors.CodeContentValueOutOfRange,
				fmt.Sprintf("letter %q is not a single character", a.Letter))
		}
		return Outcome{Applied: g.SetCell(a.Row, a.Col, letters[0])}, nil
	case "clear_cell":
		a, err := decodeArgs[cellArgs](args)
		if err != nil {
			return Outcome{}, err
		}
		return Outcome{Applied: g.ClearCell(a.Row, a.Col)}, nil
	default:
		return Outcome{}, unknownAction(g.Envelope().Type, action)
	}
}

func applyConnections(g *connections.Game, action string, args json.RawMessage) (Outcome, error) {
	switch action {
	case "toggle_select":
		a, err := decodeArgs[wordArgs](args)
		if err != nil {
			return Outcome{}, err
		}
		return Outcome{Applied: g.ToggleSelect(a.Word)}, nil
	case "deselect_all":
		g.DeselectAll()
		return Outcome{Applied: true}, nil
	case "submit":
		result := g.Submit()
		return Outcome{
			Applied: result == connections.SubmitCorrect ||
				result == connections.SubmitOneAway ||
				result == connections.SubmitWrong,
			Detail: submitDetail(result),
		}, nil
	default:
		return Outcome{}, unknownAction(g.Envelope().Type, action)
	}
}

func submitDetail(result connections.SubmitResult) string {
	switch result {
	case connections.SubmitCorrect:
		return "correct"
	case connections.SubmitOneAway:
		return "one_away"
	case connections.SubmitWrong:
		return "wrong"
	case connections.SubmitRepeat:
		return "repeat"
	default:
		return "rejected"
	}
}

func applyMathora(g *mathora.Game, action string, args json.RawMessage) (Outcome, error) {
	switch action {
	case "place":
		a, err := decodeArgs[digitArgs](args)
		if err != nil {
			return Outcome{}, err
		}
		return Outcome{Applied: g.Place(a.Row, a.Col, a.Digit)}, nil
	case "clear":
		a, err := decodeArgs[cellArgs](args)
		if err != nil {
			return Outcome{}, err
		}
		return Outcome{Applied: g.Clear(a.Row, a.Col)}, nil
	default:
		return Outcome{}, unknownAction(g.Envelope().Type, action)
	}
}

func applyKakuro(g *kakuro.Game, action string, args json.RawMessage) (Outcome, error) {
	switch action {
	case "place":
		a, err := decodeArgs[digitArgs](args)
		if err != nil {
			return Outcome{}, err
		}
		return Outcome{Applied: g.Place(a.Row, a.Col, a.Digit)}, nil
	case "clear":
		a, err := decodeArgs[cellArgs](args)
		if err != nil {
			return Outcome{}, err
		}
		return Outcome{Applied: g.Clear(a.Row, a.Col)}, nil
	default:
		return Outcome{}, unknownAction(g.Envelope().Type, action)
	}
}

func parseDelta(direction string) (dRow, dCol int, err error) {
	switch direction {
	case "up":
		return -1, 0, nil
	case "down":
		return 1, 0, nil
	case "left":
		return 0, -1, nil
	case "right":
		return 0, 1, nil
	default:
		return 0, 0, badDirection(direction)
	}
}

func badDirection(direction string) error {
	return apperrors.New(apperrors.CodeContentValueOutOfRange,
		fmt.Sprintf("direction %q is not up, down, left, or right", direction))
}
