// Package content decodes catalog puzzle payloads and constructs the
// matching variant state machines. Malformed content fails here with a
// structured load error before any game state exists.
package content

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	apperrors "github.com/puzzlebox-games/puzzlebox/internal/platform/errors"
	"github.com/puzzlebox-games/puzzlebox/internal/platform/random"
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

// Descriptor identifies the catalog entry a payload belongs to and
// seeds the envelope of the constructed variant.
type Descriptor struct {
	ID         string
	GameType   puzzle.GameType
	Difficulty puzzle.Difficulty
	// Date is the daily-rotation date, zero for free play.
	Date time.Time
}

// Build decodes payload for desc and constructs its variant. Game types
// that place content at runtime (Minesweeper, Memory Match, Simon,
// 2048) draw a fresh crypto-sourced seed.
func Build(desc Descriptor, payload []byte) (puzzle.Variant, error) {
	seed, err := random.NewSeed()
	if err != nil {
		return nil, err
	}
	return BuildSeeded(desc, payload, seed)
}

// BuildSeeded is Build with a caller-owned seed, used to replay a known
// layout. Game types without runtime placement ignore the seed.
func BuildSeeded(desc Descriptor, payload []byte, seed int64) (puzzle.Variant, error) {
	env := puzzle.NewEnvelope(desc.ID, desc.GameType, desc.Difficulty, desc.Date)
	switch desc.GameType {
	case puzzle.GameTypeSudoku:
		return buildSudoku(env, payload, false)
	case puzzle.GameTypeKillerSudoku:
		return buildSudoku(env, payload, true)
	case puzzle.GameTypeNonogram:
		return buildNonogram(env, payload)
	case puzzle.GameTypeBallSort:
		return buildBallSort(env, payload)
	case puzzle.GameTypePipes:
		return buildPipes(env, payload)
	case puzzle.GameTypeSokoban:
		return buildSokoban(env, payload)
	case puzzle.GameTypeMinesweeper:
		return buildMinesweeper(env, payload, seed)
	case puzzle.GameTypeMobius:
		return buildMobius(env, payload)
	case puzzle.GameTypeSimon:
		return buildSimon(env, payload, seed)
	case puzzle.GameTypeHanoi:
		return buildHanoi(env, payload)
	case puzzle.GameTypeHitori:
		return buildHitori(env, payload)
	case puzzle.GameTypeLightsOut:
		return buildLightsOut(env, payload)
	case puzzle.GameTypeWordSearch:
		return buildWordSearch(env, payload)
	case puzzle.GameTypeWordForge:
		return buildWordForge(env, payload)
	case puzzle.GameTypeNumberTarget:
		return buildNumberTarget(env, payload)
	case puzzle.GameTypeMemoryMatch:
		return buildMemory(env, payload, seed)
	case puzzle.GameType2048:
		return buildTwenty48(env, payload, seed)
	case puzzle.GameTypeCrossword:
		return buildCrossword(env, payload)
	case puzzle.GameTypeConnections:
		return buildConnections(env, payload)
	case puzzle.GameTypeMathora:
		return buildMathora(env, payload)
	case puzzle.GameTypeKakuro:
		return buildKakuro(env, payload)
	default:
		return nil, apperrors.New(apperrors.CodeContentUnknownGameType,
			fmt.Sprintf("no builder for game type %q", desc.GameType))
	}
}

// Validate decodes and structurally checks a payload without keeping
// the constructed variant. Import paths call this before any row is
// written.
func Validate(gameType puzzle.GameType, payload []byte) error {
	_, err := BuildSeeded(Descriptor{ID: "validate", GameType: gameType}, payload, 1)
	return err
}

func decode[T any](payload []byte) (*T, error) {
	var value T
	if err := json.Unmarshal(payload, &value); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeContentInvalidJSON, "decode payload", err)
	}
	return &value, nil
}

func buildSudoku(env puzzle.Envelope, payload []byte, killer bool) (puzzle.Variant, error) {
	p, err := decode[sudokuPayload](payload)
	if err != nil {
		return nil, err
	}
	if killer && len(p.Cages) == 0 {
		return nil, apperrors.New(apperrors.CodeContentMissingField, "killer sudoku without cages")
	}
	if !killer && len(p.Cages) > 0 {
		return nil, apperrors.New(apperrors.CodeContentValueOutOfRange,
			fmt.Sprintf("classic sudoku with %d cages", len(p.Cages)))
	}
	var cages []sudoku.Cage
	for _, cage := range p.Cages {
		cells := make([]sudoku.CageCell, 0, len(cage.Cells))
		for _, at := range cage.Cells {
			cells = append(cells, sudoku.CageCell{Row: at[0], Col: at[1]})
		}
		cages = append(cages, sudoku.Cage{Sum: cage.Sum, Cells: cells})
	}
	return sudoku.New(sudoku.Config{
		Envelope: env,
		Grid:     p.Grid,
		Solution: p.Solution,
		Cages:    cages,
	})
}

func buildNonogram(env puzzle.Envelope, payload []byte) (puzzle.Variant, error) {
	p, err := decode[nonogramPayload](payload)
	if err != nil {
		return nil, err
	}
	rowClues := normalizeClues(p.RowClues)
	colClues := normalizeClues(p.ColClues)
	var solution [][]bool
	switch {
	case len(p.Solution) > 0:
		solution, err = parseMask(p.Solution, p.Rows, p.Cols)
		if err != nil {
			return nil, err
		}
	case rowClues != nil && colClues != nil:
		solution, err = solveNonogram(p.Rows, p.Cols, rowClues, colClues)
		if err != nil {
			return nil, err
		}
	default:
		return nil, apperrors.New(apperrors.CodeContentMissingField,
			"nonogram needs a solution or both clue sets")
	}
	return nonogram.New(nonogram.Config{
		Envelope: env,
		Rows:     p.Rows,
		Cols:     p.Cols,
		Solution: solution,
		RowClues: rowClues,
		ColClues: colClues,
	})
}

// normalizeClues maps the authoring convention for an empty line, a
// lone zero, onto the engine's, an empty list.
func normalizeClues(clues [][]int) [][]int {
	if clues == nil {
		return nil
	}
	out := make([][]int, len(clues))
	for i, line := range clues {
		if len(line) == 1 && line[0] == 0 {
			out[i] = []int{}
			continue
		}
		out[i] = line
	}
	return out
}

func buildBallSort(env puzzle.Envelope, payload []byte) (puzzle.Variant, error) {
	p, err := decode[ballSortPayload](payload)
	if err != nil {
		return nil, err
	}
	return ballsort.New(ballsort.Config{
		Envelope:     env,
		TubeCount:    p.TubeCount,
		TubeCapacity: p.TubeCapacity,
		Initial:      p.InitialState,
	})
}

func buildPipes(env puzzle.Envelope, payload []byte) (puzzle.Variant, error) {
	p, err := decode[pipesPayload](payload)
	if err != nil {
		return nil, err
	}
	endpoints := make([]pipes.Endpoint, 0, len(p.Endpoints))
	for _, endpoint := range p.Endpoints {
		endpoints = append(endpoints, pipes.Endpoint{
			Color: endpoint.Color,
			Row:   endpoint.Row,
			Col:   endpoint.Col,
		})
	}
	return pipes.New(pipes.Config{
		Envelope:  env,
		Rows:      p.Rows,
		Cols:      p.Cols,
		Endpoints: endpoints,
		Bridges:   p.Bridges,
	})
}

func buildSokoban(env puzzle.Envelope, payload []byte) (puzzle.Variant, error) {
	p, err := decode[sokobanPayload](payload)
	if err != nil {
		return nil, err
	}
	if len(p.Map) != p.Rows {
		return nil, apperrors.New(apperrors.CodeContentDimensionMismatch,
			fmt.Sprintf("%d map rows, want %d", len(p.Map), p.Rows))
	}
	cells := make([][]sokoban.Cell, len(p.Map))
	for r, row := range p.Map {
		runes := []rune(row)
		if len(runes) != p.Cols {
			return nil, apperrors.New(apperrors.CodeContentDimensionMismatch,
				fmt.Sprintf("map row %d has %d cells, want %d", r, len(runes), p.Cols))
		}
		cells[r] = make([]sokoban.Cell, len(runes))
		for c, ch := range runes {
			switch ch {
			case '#':
				cells[r][c] = sokoban.CellWall
			case '.', ' ':
				cells[r][c] = sokoban.CellFloor
			default:
				return nil, apperrors.New(apperrors.CodeContentValueOutOfRange,
					fmt.Sprintf("map row %d col %d holds %q, want '#' or '.'", r, c, ch))
			}
		}
	}
	for _, at := range p.TargetPositions {
		if at[0] < 0 || at[0] >= p.Rows || at[1] < 0 || at[1] >= p.Cols {
			return nil, apperrors.New(apperrors.CodeContentValueOutOfRange,
				fmt.Sprintf("target (%d,%d) outside the %dx%d map", at[0], at[1], p.Rows, p.Cols))
		}
		if cells[at[0]][at[1]] == sokoban.CellWall {
			return nil, apperrors.New(apperrors.CodeContentValueOutOfRange,
				fmt.Sprintf("target (%d,%d) inside a wall", at[0], at[1]))
		}
		cells[at[0]][at[1]] = sokoban.CellTarget
	}
	return sokoban.New(sokoban.Config{
		Envelope:  env,
		Cells:     cells,
		Boxes:     p.BoxPositions,
		PlayerRow: p.PlayerRow,
		PlayerCol: p.PlayerCol,
	})
}

func buildMinesweeper(env puzzle.Envelope, payload []byte, seed int64) (puzzle.Variant, error) {
	p, err := decode[minesweeperPayload](payload)
	if err != nil {
		return nil, err
	}
	return minesweeper.New(minesweeper.Config{
		Envelope:  env,
		Rows:      p.Rows,
		Cols:      p.Cols,
		MineCount: p.MineCount,
		Seed:      seed,
	})
}

func buildMobius(env puzzle.Envelope, payload []byte) (puzzle.Variant, error) {
	p, err := decode[mobiusPayload](payload)
	if err != nil {
		return nil, err
	}
	nodes := make([]string, 0, len(p.Nodes))
	for _, node := range p.Nodes {
		nodes = append(nodes, node.ID)
	}
	edges := make([]mobius.Edge, 0, len(p.Edges))
	for _, edge := range p.Edges {
		edges = append(edges, mobius.Edge{
			From:      edge.From,
			Direction: edge.Direction,
			To:        edge.To,
		})
	}
	return mobius.New(mobius.Config{
		Envelope:    env,
		Nodes:       nodes,
		Edges:       edges,
		StartNodeID: p.StartNodeID,
		GoalNodeID:  p.GoalNodeID,
	})
}

func buildSimon(env puzzle.Envelope, payload []byte, seed int64) (puzzle.Variant, error) {
	p, err := decode[simonPayload](payload)
	if err != nil {
		return nil, err
	}
	return simon.New(simon.Config{
		Envelope:     env,
		ColorCount:   p.ColorCount,
		TargetLength: p.TargetLength,
		Seed:         seed,
	})
}

func buildHanoi(env puzzle.Envelope, payload []byte) (puzzle.Variant, error) {
	p, err := decode[hanoiPayload](payload)
	if err != nil {
		return nil, err
	}
	return hanoi.New(hanoi.Config{
		Envelope:  env,
		DiskCount: p.DiskCount,
		PegCount:  p.PegCount,
	})
}

func buildHitori(env puzzle.Envelope, payload []byte) (puzzle.Variant, error) {
	p, err := decode[hitoriPayload](payload)
	if err != nil {
		return nil, err
	}
	solution, err := parseMask(p.Solution, p.Size, p.Size)
	if err != nil {
		return nil, err
	}
	return hitori.New(hitori.Config{
		Envelope: env,
		Size:     p.Size,
		Grid:     p.Grid,
		Solution: solution,
	})
}

func buildLightsOut(env puzzle.Envelope, payload []byte) (puzzle.Variant, error) {
	p, err := decode[lightsOutPayload](payload)
	if err != nil {
		return nil, err
	}
	initial, err := parseMask(p.Initial, p.Size, p.Size)
	if err != nil {
		return nil, err
	}
	return lightsout.New(lightsout.Config{
		Envelope: env,
		Size:     p.Size,
		Initial:  initial,
	})
}

func buildWordSearch(env puzzle.Envelope, payload []byte) (puzzle.Variant, error) {
	p, err := decode[wordSearchPayload](payload)
	if err != nil {
		return nil, err
	}
	return wordsearch.New(wordsearch.Config{
		Envelope: env,
		Rows:     p.Rows,
		Cols:     p.Cols,
		Grid:     p.Grid,
		Words:    p.Words,
	})
}

func buildWordForge(env puzzle.Envelope, payload []byte) (puzzle.Variant, error) {
	p, err := decode[wordForgePayload](payload)
	if err != nil {
		return nil, err
	}
	center := []rune(p.Center)
	if len(center) != 1 {
		return nil, apperrors.New(apperrors.CodeContentValueOutOfRange,
			fmt.Sprintf("center %q is not a single letter", p.Center))
	}
	words := make([]wordforge.Entry, 0, len(p.Words))
	for _, entry := range p.Words {
		words = append(words, wordforge.Entry{Word: entry.Word, Clue: entry.Clue})
	}
	return wordforge.New(wordforge.Config{
		Envelope: env,
		Letters:  p.Letters,
		Center:   center[0],
		Words:    words,
	})
}

func buildNumberTarget(env puzzle.Envelope, payload []byte) (puzzle.Variant, error) {
	p, err := decode[numberTargetPayload](payload)
	if err != nil {
		return nil, err
	}
	return numbertarget.New(numbertarget.Config{
		Envelope: env,
		Numbers:  p.Numbers,
		Target:   p.Target,
	})
}

func buildMemory(env puzzle.Envelope, payload []byte, seed int64) (puzzle.Variant, error) {
	p, err := decode[memoryPayload](payload)
	if err != nil {
		return nil, err
	}
	return memory.New(memory.Config{
		Envelope:  env,
		PairCount: p.PairCount,
		Symbols:   p.Symbols,
		Seed:      seed,
	})
}

func buildTwenty48(env puzzle.Envelope, payload []byte, seed int64) (puzzle.Variant, error) {
	p, err := decode[twenty48Payload](payload)
	if err != nil {
		return nil, err
	}
	return twenty48.New(twenty48.Config{
		Envelope:   env,
		Size:       p.Size,
		TargetTile: p.TargetTile,
		Seed:       seed,
	})
}

func buildCrossword(env puzzle.Envelope, payload []byte) (puzzle.Variant, error) {
	p, err := decode[crosswordPayload](payload)
	if err != nil {
		return nil, err
	}
	across, err := clueNumbers(p.Clues.Across, "across")
	if err != nil {
		return nil, err
	}
	down, err := clueNumbers(p.Clues.Down, "down")
	if err != nil {
		return nil, err
	}
	return crossword.New(crossword.Config{
		Envelope:    env,
		Rows:        p.Rows,
		Cols:        p.Cols,
		Grid:        p.Grid,
		AcrossClues: across,
		DownClues:   down,
	})
}

func clueNumbers(clues map[string]string, direction string) (map[int]string, error) {
	out := make(map[int]string, len(clues))
	for key, clue := range clues {
		number, err := strconv.Atoi(key)
		if err != nil || number < 1 {
			return nil, apperrors.New(apperrors.CodeContentValueOutOfRange,
				fmt.Sprintf("%s clue key %q is not a slot number", direction, key))
		}
		out[number] = clue
	}
	return out, nil
}

func buildConnections(env puzzle.Envelope, payload []byte) (puzzle.Variant, error) {
	p, err := decode[connectionsPayload](payload)
	if err != nil {
		return nil, err
	}
	groups := make([]connections.Group, 0, len(p.Groups))
	for _, group := range p.Groups {
		groups = append(groups, connections.Group{Name: group.Name, Words: group.Words})
	}
	return connections.New(connections.Config{Envelope: env, Groups: groups})
}

func buildMathora(env puzzle.Envelope, payload []byte) (puzzle.Variant, error) {
	p, err := decode[mathoraPayload](payload)
	if err != nil {
		return nil, err
	}
	cells := make([]mathora.Cell, 0, len(p.Cells))
	for _, cell := range p.Cells {
		cells = append(cells, mathora.Cell{Row: cell.Row, Col: cell.Col, Given: cell.Given})
	}
	equations := make([]mathora.Equation, 0, len(p.Equations))
	for _, eq := range p.Equations {
		equations = append(equations, mathora.Equation{
			Operands:  eq.Operands,
			Operators: eq.Operators,
			Result:    eq.Result,
		})
	}
	return mathora.New(mathora.Config{
		Envelope:  env,
		Size:      p.Size,
		Cells:     cells,
		Equations: equations,
	})
}

func buildKakuro(env puzzle.Envelope, payload []byte) (puzzle.Variant, error) {
	p, err := decode[kakuroPayload](payload)
	if err != nil {
		return nil, err
	}
	blocks := make([]kakuro.Block, 0, len(p.Blocks))
	for _, block := range p.Blocks {
		blocks = append(blocks, kakuro.Block{
			Row:       block.Row,
			Col:       block.Col,
			AcrossSum: block.AcrossSum,
			DownSum:   block.DownSum,
		})
	}
	return kakuro.New(kakuro.Config{
		Envelope: env,
		Rows:     p.Rows,
		Cols:     p.Cols,
		Blocks:   blocks,
	})
}

// parseMask converts mask rows of '#' and '.' into booleans, checking
// dimensions on the way.
func parseMask(rows []string, wantRows, wantCols int) ([][]bool, error) {
	if len(rows) != wantRows {
		return nil, apperrors.New(apperrors.CodeContentDimensionMismatch,
			fmt.Sprintf("%d mask rows, want %d", len(rows), wantRows))
	}
	mask := make([][]bool, len(rows))
	for r, row := range rows {
		cells := []rune(row)
		if len(cells) != wantCols {
			return nil, apperrors.New(apperrors.CodeContentDimensionMismatch,
				fmt.Sprintf("mask row %d has %d cells, want %d", r, len(cells), wantCols))
		}
		mask[r] = make([]bool, len(cells))
		for c, cell := range cells {
			switch cell {
			case '#':
				mask[r][c] = true
			case '.':
			default:
				return nil, apperrors.New(apperrors.CodeContentValueOutOfRange,
					fmt.Sprintf("mask row %d col %d holds %q, want '#' or '.'", r, c, cell))
			}
		}
	}
	return mask, nil
}
