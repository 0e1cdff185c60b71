package generator

import (
	"encoding/json"

	"github.com/puzzlebox-games/puzzlebox/internal/puzzle"
)

type minesweeperDoc struct {
	Rows      int `json:"rows"`
	Cols      int `json:"cols"`
	MineCount int `json:"mineCount"`
}

func (g *Generator) minesweeper(difficulty puzzle.Difficulty) (json.RawMessage, error) {
	return marshal(minesweeperDoc{
		Rows:      scale(difficulty, 9, 16, 16, 20),
		Cols:      scale(difficulty, 9, 16, 30, 30),
		MineCount: scale(difficulty, 10, 40, 99, 130),
	})
}

type simonDoc struct {
	ColorCount   int `json:"colorCount"`
	TargetLength int `json:"targetLength"`
}

func (g *Generator) simon(difficulty puzzle.Difficulty) (json.RawMessage, error) {
	return marshal(simonDoc{
		ColorCount:   scale(difficulty, 4, 4, 5, 6),
		TargetLength: scale(difficulty, 5, 8, 12, 16),
	})
}

type hanoiDoc struct {
	DiskCount int `json:"diskCount"`
	PegCount  int `json:"pegCount"`
}

func (g *Generator) hanoi(difficulty puzzle.Difficulty) (json.RawMessage, error) {
	return marshal(hanoiDoc{
		DiskCount: scale(difficulty, 3, 5, 7, 9),
		PegCount:  3,
	})
}

type lightsOutDoc struct {
	Size    int      `json:"size"`
	Initial []string `json:"initial"`
}

// lightsOut presses random cells on a dark board, so the result is
// always solvable by replaying the presses.
func (g *Generator) lightsOut(difficulty puzzle.Difficulty) (json.RawMessage, error) {
	size := scale(difficulty, 3, 4, 5, 6)
	presses := scale(difficulty, 3, 5, 8, 12)

	lit := make([][]bool, size)
	for r := range lit {
		lit[r] = make([]bool, size)
	}
	toggle := func(r, c int) {
		if r >= 0 && r < size && c >= 0 && c < size {
			lit[r][c] = !lit[r][c]
		}
	}
	for i := 0; i < presses; i++ {
		r, c := g.rng.Intn(size), g.rng.Intn(size)
		toggle(r, c)
		toggle(r-1, c)
		toggle(r+1, c)
		toggle(r, c-1)
		toggle(r, c+1)
	}

	count := 0
	for _, row := range lit {
		for _, on := range row {
			if on {
				count++
			}
		}
	}
	if count == 0 {
		// Presses cancelled out; one more press relights the board.
		toggle(0, 0)
		toggle(0, 1)
		toggle(1, 0)
	}

	rows := make([]string, size)
	for r := range rows {
		row := make([]byte, size)
		for c := range row {
			if lit[r][c] {
				row[c] = '#'
			} else {
				row[c] = '.'
			}
		}
		rows[r] = string(row)
	}
	return marshal(lightsOutDoc{Size: size, Initial: rows})
}

type numberTargetDoc struct {
	Numbers []int `json:"numbers"`
	Target  int   `json:"target"`
}

var largeNumbers = []int{25, 50, 75, 100}

// numberTarget draws countdown-style numbers and derives the target
// from four of them, so a solution always exists.
func (g *Generator) numberTarget(difficulty puzzle.Difficulty) (json.RawMessage, error) {
	larges := scale(difficulty, 1, 2, 3, 4)
	numbers := make([]int, 0, 6)
	for _, i := range g.rng.Perm(len(largeNumbers))[:larges] {
		numbers = append(numbers, largeNumbers[i])
	}
	for len(numbers) < 6 {
		numbers = append(numbers, g.randomRange(1, 10))
	}

	target := numbers[0]*numbers[1] + numbers[2] - numbers[3]
	if target < 1 {
		target = numbers[0]*numbers[1] + numbers[2] + numbers[3]
	}
	return marshal(numberTargetDoc{Numbers: numbers, Target: target})
}

type memoryMatchDoc struct {
	PairCount int      `json:"pairCount"`
	Symbols   []string `json:"symbols"`
}

var memorySymbols = []string{
	"anchor", "bell", "crown", "dragon", "ember", "falcon",
	"garnet", "harbor", "island", "juniper", "kraken", "lantern",
}

func (g *Generator) memoryMatch(difficulty puzzle.Difficulty) (json.RawMessage, error) {
	pairs := scale(difficulty, 4, 6, 8, 10)
	return marshal(memoryMatchDoc{PairCount: pairs, Symbols: memorySymbols[:pairs]})
}

type twenty48Doc struct {
	Size       int `json:"size"`
	TargetTile int `json:"targetTile"`
}

func (g *Generator) twenty48(difficulty puzzle.Difficulty) (json.RawMessage, error) {
	return marshal(twenty48Doc{
		Size:       scale(difficulty, 4, 4, 4, 5),
		TargetTile: scale(difficulty, 256, 512, 1024, 2048),
	})
}
