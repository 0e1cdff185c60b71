// Package variants dispatches wire-level actions and state views across
// the puzzle state machines. It is the one package that knows every
// concrete game type; sessions and tooling stay variant-agnostic behind
// Build, Apply, View, and Undo.
package variants

import (
	"encoding/json"
	"fmt"

	"github.com/puzzlebox-games/puzzlebox/internal/content"
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

// Build constructs the variant for a catalog entry, delegating payload
// decode to the content package.
func Build(desc content.Descriptor, payload []byte) (puzzle.Variant, error) {
	return content.Build(desc, payload)
}

// BuildSeeded is Build with a caller-owned placement seed, used to
// replay a known layout.
func BuildSeeded(desc content.Descriptor, payload []byte, seed int64) (puzzle.Variant, error) {
	return content.BuildSeeded(desc, payload, seed)
}

// Outcome reports what a dispatched action did. Detail is set by engines
// that classify results beyond a boolean, such as Word Forge guesses and
// Connections submissions.
type Outcome struct {
	Applied bool   `json:"applied"`
	Detail  string `json:"detail,omitempty"`
}

// Apply routes an action name plus JSON arguments to the variant's move
// entry points. Unknown actions and malformed arguments return errors;
// well-formed actions the engine rejects return Applied false with a nil
// error, mirroring the engines' silent no-op contract.
func Apply(v puzzle.Variant, action string, args json.RawMessage) (Outcome, error) {
	switch g := v.(type) {
	case *sudoku.Game:
		return applySudoku(g, action, args)
	case *nonogram.Game:
		return applyNonogram(g, action, args)
	case *ballsort.Game:
		return applyBallSort(g, action, args)
	case *pipes.Game:
		return applyPipes(g, action, args)
	case *sokoban.Game:
		return applySokoban(g, action, args)
	case *minesweeper.Game:
		return applyMinesweeper(g, action, args)
	case *mobius.Game:
		return applyMobius(g, action, args)
	case *simon.Game:
		return applySimon(g, action, args)
	case *hanoi.Game:
		return applyHanoi(g, action, args)
	case *hitori.Game:
		return applyHitori(g, action, args)
	case *lightsout.Game:
		return applyLightsOut(g, action, args)
	case *wordsearch.Game:
		return applyWordSearch(g, action, args)
	case *wordforge.Game:
		return applyWordForge(g, action, args)
	case *numbertarget.Game:
		return applyNumberTarget(g, action, args)
	case *memory.Game:
		return applyMemory(g, action, args)
	case *twenty48.Game:
		return applyTwenty48(g, action, args)
	case *crossword.Game:
		return applyCrossword(g, action, args)
	case *connections.Game:
		return applyConnections(g, action, args)
	case *mathora.Game:
		return applyMathora(g, action, args)
	case *kakuro.Game:
		return applyKakuro(g, action, args)
	default:
		return Outcome{}, apperrors.New(apperrors.CodeContentUnknownGameType,
			fmt.Sprintf("no action dispatch for game type %q", v.Envelope().Type))
	}
}

// CanUndo reports whether the variant supports undo at all.
func CanUndo(v puzzle.Variant) bool {
	_, ok := v.(puzzle.Undoer)
	return ok
}

// Undo restores the variant's previous state. Variants without undo
// support return an error; an undo that finds no history reports false
// with a nil error.
func Undo(v puzzle.Variant) (bool, error) {
	u, ok := v.(puzzle.Undoer)
	if !ok {
		return false, apperrors.New(apperrors.CodeSessionUndoUnsupported,
			fmt.Sprintf("game type %q does not support undo", v.Envelope().Type))
	}
	return u.Undo(), nil
}

func unknownAction(gameType puzzle.GameType, action string) error {
	return apperrors.WithMetadata(apperrors.CodeSessionUnknownOp,
		fmt.Sprintf("game type %q has no action %q", gameType, action),
		map[string]string{"action": action})
}

func decodeArgs[T any](args json.RawMessage) (*T, error) {
	var value T
	if len(args) == 0 {
		return &value, nil
	}
	if err := json.Unmarshal(args, &value); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeContentInvalidJSON, "decode action arguments", err)
	}
	return &value, nil
}
