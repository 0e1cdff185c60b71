// Package puzzle defines the shared vocabulary of the puzzle engine: game
// type and difficulty enums, the envelope carried by every puzzle instance,
// and the interfaces variant state machines implement.
//
// # Architecture
//
// Each game type lives in its own subpackage (puzzle/sudoku, puzzle/nonogram,
// puzzle/ballsort, ...) and owns its state representation, move validation,
// and completion detection. Variants never import each other; anything they
// share lives here or in puzzle/undo.
//
// Variants expose their own move vocabulary (Place, Reveal, Move, TryMove)
// rather than a generic move type. Invalid moves are silent no-ops reported
// through boolean or enum returns so a client can submit input without
// pre-validating it. Accessors return copies; the only way to mutate puzzle
// state is through the variant's move entry points.
//
// The play service hosts live variants, routes client intents to them, and
// persists progress snapshots. The catalog service stores the JSON content
// payloads that construct variants (see internal/content).
package puzzle
