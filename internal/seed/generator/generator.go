// Package generator produces deterministic sample puzzle content for
// seeding a development catalog with diverse test data.
package generator

import (
	"encoding/json"
	"fmt"
	"math/rand"

	"github.com/puzzlebox-games/puzzlebox/internal/puzzle"
)

// Generator builds content documents for every game type from a single
// random source, so a fixed seed reproduces the same catalog.
type Generator struct {
	rng *rand.Rand
}

// New creates a Generator around a seeded random source.
func New(seed int64, verbose bool) *Generator {
	return &Generator{rng: NewSeededRNG(seed, verbose)}
}

// Document produces one content document for the game type at the
// given difficulty. The document passes content validation as-is.
func (g *Generator) Document(gameType puzzle.GameType, difficulty puzzle.Difficulty) (json.RawMessage, error) {
	switch gameType {
	case puzzle.GameTypeSudoku:
		return g.sudoku(difficulty, false)
	case puzzle.GameTypeKillerSudoku:
		return g.sudoku(difficulty, true)
	case puzzle.GameTypeNonogram:
		return g.nonogram(difficulty)
	case puzzle.GameTypeBallSort:
		return g.ballSort(difficulty)
	case puzzle.GameTypePipes:
		return g.pipes(difficulty)
	case puzzle.GameTypeSokoban:
		return g.sokoban(difficulty)
	case puzzle.GameTypeMinesweeper:
		return g.minesweeper(difficulty)
	case puzzle.GameTypeMobius:
		return g.mobius(difficulty)
	case puzzle.GameTypeSimon:
		return g.simon(difficulty)
	case puzzle.GameTypeHanoi:
		return g.hanoi(difficulty)
	case puzzle.GameTypeHitori:
		return g.hitori(difficulty)
	case puzzle.GameTypeLightsOut:
		return g.lightsOut(difficulty)
	case puzzle.GameTypeWordSearch:
		return g.wordSearch(difficulty)
	case puzzle.GameTypeWordForge:
		return g.wordForge(difficulty)
	case puzzle.GameTypeNumberTarget:
		return g.numberTarget(difficulty)
	case puzzle.GameTypeMemoryMatch:
		return g.memoryMatch(difficulty)
	case puzzle.GameType2048:
		return g.twenty48(difficulty)
	case puzzle.GameTypeCrossword:
		return g.crossword(difficulty)
	case puzzle.GameTypeConnections:
		return g.connections(difficulty)
	case puzzle.GameTypeMathora:
		return g.mathora(difficulty)
	case puzzle.GameTypeKakuro:
		return g.kakuro(difficulty)
	default:
		return nil, fmt.Errorf("no generator for game type %q", gameType)
	}
}

// Difficulties returns the generation order used when a preset cycles
// through difficulties.
func Difficulties() []puzzle.Difficulty {
	return []puzzle.Difficulty{
		puzzle.DifficultyEasy,
		puzzle.DifficultyMedium,
		puzzle.DifficultyHard,
		puzzle.DifficultyExpert,
	}
}

// scale picks the value for a difficulty, treating anything unknown as
// easy.
func scale(difficulty puzzle.Difficulty, easy, medium, hard, expert int) int {
	switch difficulty {
	case puzzle.DifficultyMedium:
		return medium
	case puzzle.DifficultyHard:
		return hard
	case puzzle.DifficultyExpert:
		return expert
	default:
		return easy
	}
}

// randomRange returns a random number in [min, max].
func (g *Generator) randomRange(min, max int) int {
	if min >= max {
		return min
	}
	return min + g.rng.Intn(max-min+1)
}

func marshal(doc any) (json.RawMessage, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal document: %w", err)
	}
	return raw, nil
}
