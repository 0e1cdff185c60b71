package puzzle

import (
	"fmt"
	"time"
)

// GameType identifies a puzzle game variant.
type GameType int

// Difficulty grades puzzle content.
type Difficulty int

const (
	// GameTypeUnspecified represents an invalid game type value.
	GameTypeUnspecified GameType = iota
	// GameTypeSudoku indicates classic 9x9 Sudoku.
	GameTypeSudoku
	// GameTypeKillerSudoku indicates Sudoku with summed cages.
	GameTypeKillerSudoku
	// GameTypeNonogram indicates picture-logic grids.
	GameTypeNonogram
	// GameTypeBallSort indicates color-sorting tubes.
	GameTypeBallSort
	// GameTypePipes indicates endpoint-connection flow grids.
	GameTypePipes
	// GameTypeSokoban indicates box-pushing warehouses.
	GameTypeSokoban
	// GameTypeMinesweeper indicates mine-marking grids.
	GameTypeMinesweeper
	// GameTypeMobius indicates directed graph navigation.
	GameTypeMobius
	// GameTypeSimon indicates color sequence memory.
	GameTypeSimon
	// GameTypeHanoi indicates the Tower of Hanoi.
	GameTypeHanoi
	// GameTypeHitori indicates shading-elimination grids.
	GameTypeHitori
	// GameTypeLightsOut indicates toggle-all-off grids.
	GameTypeLightsOut
	// GameTypeWordSearch indicates find-the-word letter grids.
	GameTypeWordSearch
	// GameTypeWordForge indicates honeycomb word building.
	GameTypeWordForge
	// GameTypeNumberTarget indicates arithmetic target solving.
	GameTypeNumberTarget
	// GameTypeMemoryMatch indicates pair-matching cards.
	GameTypeMemoryMatch
	// GameType2048 indicates sliding tile merging.
	GameType2048
	// GameTypeCrossword indicates clued word grids.
	GameTypeCrossword
	// GameTypeConnections indicates grouping sixteen words into four sets.
	GameTypeConnections
	// GameTypeMathora indicates cross-math equation grids.
	GameTypeMathora
	// GameTypeKakuro indicates crossword-style digit sums.
	GameTypeKakuro
)

const (
	// DifficultyUnspecified represents an invalid difficulty value.
	DifficultyUnspecified Difficulty = iota
	// DifficultyEasy is the introductory tier.
	DifficultyEasy
	// DifficultyMedium is the standard tier.
	DifficultyMedium
	// DifficultyHard is the challenge tier.
	DifficultyHard
	// DifficultyExpert is the top tier.
	DifficultyExpert
)

var gameTypeSlugs = map[GameType]string{
	GameTypeSudoku:       "sudoku",
	GameTypeKillerSudoku: "killer_sudoku",
	GameTypeNonogram:     "nonogram",
	GameTypeBallSort:     "ball_sort",
	GameTypePipes:        "pipes",
	GameTypeSokoban:      "sokoban",
	GameTypeMinesweeper:  "minesweeper",
	GameTypeMobius:       "mobius",
	GameTypeSimon:        "simon",
	GameTypeHanoi:        "hanoi",
	GameTypeHitori:       "hitori",
	GameTypeLightsOut:    "lights_out",
	GameTypeWordSearch:   "word_search",
	GameTypeWordForge:    "word_forge",
	GameTypeNumberTarget: "number_target",
	GameTypeMemoryMatch:  "memory_match",
	GameType2048:         "2048",
	GameTypeCrossword:    "crossword",
	GameTypeConnections:  "connections",
	GameTypeMathora:      "mathora",
	GameTypeKakuro:       "kakuro",
}

var difficultySlugs = map[Difficulty]string{
	DifficultyEasy:   "easy",
	DifficultyMedium: "medium",
	DifficultyHard:   "hard",
	DifficultyExpert: "expert",
}

// String returns the stable slug for the game type.
func (g GameType) String() string {
	if slug, ok := gameTypeSlugs[g]; ok {
		return slug
	}
	return "unspecified"
}

// String returns the stable slug for the difficulty.
func (d Difficulty) String() string {
	if slug, ok := difficultySlugs[d]; ok {
		return slug
	}
	return "unspecified"
}

// ParseGameType resolves a slug into a GameType.
func ParseGameType(slug string) (GameType, error) {
	for gameType, candidate := range gameTypeSlugs {
		if candidate == slug {
			return gameType, nil
		}
	}
	return GameTypeUnspecified, fmt.Errorf("unknown game type %q", slug)
}

// ParseDifficulty resolves a slug into a Difficulty.
func ParseDifficulty(slug string) (Difficulty, error) {
	for difficulty, candidate := range difficultySlugs {
		if candidate == slug {
			return difficulty, nil
		}
	}
	return DifficultyUnspecified, fmt.Errorf("unknown difficulty %q", slug)
}

// GameTypes returns every known game type in declaration order.
func GameTypes() []GameType {
	types := make([]GameType, 0, len(gameTypeSlugs))
	for gameType := GameTypeSudoku; gameType <= GameTypeKakuro; gameType++ {
		types = append(types, gameType)
	}
	return types
}

// Envelope carries the state every puzzle instance shares regardless of
// variant: identity, classification, and play progress. Variants own their
// envelope and mutate it only through the methods below.
type Envelope struct {
	ID         string
	Type       GameType
	Difficulty Difficulty
	// Date is the daily-rotation date this content was assigned, zero for
	// free-play puzzles.
	Date      time.Time
	MoveCount int
	Complete  bool
}

// NewEnvelope constructs an envelope for a puzzle instance.
func NewEnvelope(id string, gameType GameType, difficulty Difficulty, date time.Time) Envelope {
	return Envelope{
		ID:         id,
		Type:       gameType,
		Difficulty: difficulty,
		Date:       date,
	}
}

// RecordMove increments the move counter.
func (e *Envelope) RecordMove() {
	e.MoveCount++
}

// SetComplete updates the completion flag.
func (e *Envelope) SetComplete(complete bool) {
	e.Complete = complete
}

// ResetProgress zeroes play progress while keeping identity.
func (e *Envelope) ResetProgress() {
	e.MoveCount = 0
	e.Complete = false
}

// Variant is the surface every puzzle state machine implements. Move entry
// points stay variant-specific; this interface covers what sessions and
// tooling need regardless of game type.
type Variant interface {
	// Envelope returns a copy of the puzzle's envelope.
	Envelope() Envelope
	// IsComplete reports whether the puzzle's win condition holds.
	IsComplete() bool
	// Reset restores the initial configuration and zeroes progress.
	Reset()
}

// Undoer marks variants that support restoring the previous state. Undo
// reports false when there is nothing to undo.
type Undoer interface {
	Variant
	Undo() bool
}
