package generator

import (
	"encoding/json"
	"strings"

	"github.com/puzzlebox-games/puzzlebox/internal/puzzle"
)

type sudokuDoc struct {
	Grid     [][]int    `json:"grid"`
	Solution [][]int    `json:"solution"`
	Cages    []cageDoc  `json:"cages,omitempty"`
}

type cageDoc struct {
	Sum   int      `json:"sum"`
	Cells [][2]int `json:"cells"`
}

// sudoku emits a solved 9x9 grid derived from the canonical shifted
// row pattern with a random digit relabeling, which keeps every row,
// column, and box valid. Classic boards blank a difficulty-dependent
// number of cells; killer boards blank everything and carry cages.
func (g *Generator) sudoku(difficulty puzzle.Difficulty, killer bool) (json.RawMessage, error) {
	digits := g.rng.Perm(9)
	solution := make([][]int, 9)
	for r := range solution {
		solution[r] = make([]int, 9)
		for c := range solution[r] {
			solution[r][c] = digits[(r*3+r/3+c)%9] + 1
		}
	}

	doc := sudokuDoc{Solution: solution}
	if killer {
		doc.Grid = make([][]int, 9)
		for r := range doc.Grid {
			doc.Grid[r] = make([]int, 9)
		}
		// Horizontal dominoes plus a trailing single per row cover the
		// board without overlap; two cells in one row never repeat a
		// digit, so every sum stays in range.
		for r := 0; r < 9; r++ {
			for c := 0; c < 8; c += 2 {
				doc.Cages = append(doc.Cages, cageDoc{
					Sum:   solution[r][c] + solution[r][c+1],
					Cells: [][2]int{{r, c}, {r, c + 1}},
				})
			}
			doc.Cages = append(doc.Cages, cageDoc{
				Sum:   solution[r][8],
				Cells: [][2]int{{r, 8}},
			})
		}
		return marshal(doc)
	}

	doc.Grid = make([][]int, 9)
	for r := range doc.Grid {
		doc.Grid[r] = append([]int(nil), solution[r]...)
	}
	blanks := scale(difficulty, 30, 40, 48, 54)
	for _, cell := range g.rng.Perm(81)[:blanks] {
		doc.Grid[cell/9][cell%9] = 0
	}
	return marshal(doc)
}

type nonogramDoc struct {
	Rows     int      `json:"rows"`
	Cols     int      `json:"cols"`
	Solution []string `json:"solution"`
}

// nonogram emits a random picture mask; clues are derived from it at
// build time.
func (g *Generator) nonogram(difficulty puzzle.Difficulty) (json.RawMessage, error) {
	size := scale(difficulty, 5, 8, 10, 12)
	filled := 0
	rows := make([]string, size)
	for r := range rows {
		var b strings.Builder
		for c := 0; c < size; c++ {
			if g.rng.Intn(100) < 55 {
				b.WriteByte('#')
				filled++
			} else {
				b.WriteByte('.')
			}
		}
		rows[r] = b.String()
	}
	if filled == 0 {
		mid := size / 2
		rows[mid] = rows[mid][:mid] + "#" + rows[mid][mid+1:]
	}
	return marshal(nonogramDoc{Rows: size, Cols: size, Solution: rows})
}

type hitoriDoc struct {
	Size     int      `json:"size"`
	Grid     [][]int  `json:"grid"`
	Solution []string `json:"solution"`
}

// hitori starts from a latin square, shades the even-even cells (never
// adjacent, never disconnecting), and overwrites each shaded cell with
// its row neighbor's value so the shading is actually forced.
func (g *Generator) hitori(difficulty puzzle.Difficulty) (json.RawMessage, error) {
	size := scale(difficulty, 4, 5, 6, 8)
	offset := g.rng.Intn(size)
	grid := make([][]int, size)
	for r := range grid {
		grid[r] = make([]int, size)
		for c := range grid[r] {
			grid[r][c] = (r+c+offset)%size + 1
		}
	}

	solution := make([]string, size)
	for r := 0; r < size; r++ {
		row := make([]byte, size)
		for c := 0; c < size; c++ {
			if r%2 == 0 && c%2 == 0 {
				row[c] = '#'
				neighbor := c + 1
				if neighbor >= size {
					neighbor = c - 1
				}
				grid[r][c] = grid[r][neighbor]
			} else {
				row[c] = '.'
			}
		}
		solution[r] = string(row)
	}
	return marshal(hitoriDoc{Size: size, Grid: grid, Solution: solution})
}

type kakuroDoc struct {
	Rows   int        `json:"rows"`
	Cols   int        `json:"cols"`
	Blocks []blockDoc `json:"blocks"`
}

type blockDoc struct {
	Row       int `json:"row"`
	Col       int `json:"col"`
	AcrossSum int `json:"acrossSum,omitempty"`
	DownSum   int `json:"downSum,omitempty"`
}

// kakuro reserves row 0 and column 0 for clue blocks and opens the
// rest as a square of runs. Cell values follow a modular latin layout,
// so every run holds distinct digits and the clue sums are exact.
func (g *Generator) kakuro(difficulty puzzle.Difficulty) (json.RawMessage, error) {
	if difficulty == puzzle.DifficultyEasy || difficulty == puzzle.DifficultyUnspecified {
		// 2x2 open square with pairwise-distinct digits x..x+3.
		x := g.randomRange(1, 6)
		return marshal(kakuroDoc{
			Rows: 3,
			Cols: 3,
			Blocks: []blockDoc{
				{Row: 0, Col: 0},
				{Row: 0, Col: 1, DownSum: 2*x + 2},
				{Row: 0, Col: 2, DownSum: 2*x + 4},
				{Row: 1, Col: 0, AcrossSum: 2*x + 1},
				{Row: 2, Col: 0, AcrossSum: 2*x + 5},
			},
		})
	}

	open := scale(difficulty, 3, 3, 3, 4)
	base := g.randomRange(1, 9-open+1)
	runSum := open*base + open*(open-1)/2
	size := open + 1
	blocks := []blockDoc{{Row: 0, Col: 0}}
	for c := 1; c < size; c++ {
		blocks = append(blocks, blockDoc{Row: 0, Col: c, DownSum: runSum})
	}
	for r := 1; r < size; r++ {
		blocks = append(blocks, blockDoc{Row: r, Col: 0, AcrossSum: runSum})
	}
	return marshal(kakuroDoc{Rows: size, Cols: size, Blocks: blocks})
}

type mathoraDoc struct {
	Size      int              `json:"size"`
	Cells     []mathoraCellDoc `json:"cells"`
	Equations []mathoraEqDoc   `json:"equations"`
}

type mathoraCellDoc struct {
	Row   int `json:"row"`
	Col   int `json:"col"`
	Given int `json:"given,omitempty"`
}

type mathoraEqDoc struct {
	Operands  [][2]int `json:"operands"`
	Operators []string `json:"operators"`
	Result    [2]int   `json:"result"`
}

// mathora builds one equation per row using a single operator chain,
// which keeps the arithmetic unambiguous, then hides one cell per row.
func (g *Generator) mathora(difficulty puzzle.Difficulty) (json.RawMessage, error) {
	size := scale(difficulty, 3, 3, 4, 4)
	operators := []string{"+"}
	switch difficulty {
	case puzzle.DifficultyMedium:
		operators = []string{"+", "-"}
	case puzzle.DifficultyHard, puzzle.DifficultyExpert:
		operators = []string{"+", "-", "*"}
	}

	doc := mathoraDoc{Size: size}
	for r := 0; r < size; r++ {
		op := operators[g.rng.Intn(len(operators))]
		values := g.equationValues(op, size-1)

		hidden := g.rng.Intn(size)
		operands := make([][2]int, 0, size-1)
		ops := make([]string, 0, size-2)
		for c := 0; c < size; c++ {
			given := values[c]
			if c == hidden {
				given = 0
			}
			doc.Cells = append(doc.Cells, mathoraCellDoc{Row: r, Col: c, Given: given})
			if c < size-1 {
				operands = append(operands, [2]int{r, c})
			}
			if c < size-2 {
				ops = append(ops, op)
			}
		}
		doc.Equations = append(doc.Equations, mathoraEqDoc{
			Operands:  operands,
			Operators: ops,
			Result:    [2]int{r, size - 1},
		})
	}
	return marshal(doc)
}

// equationValues picks operand values whose chained result stays in
// 1..9, the playable digit range, returning operands followed by the
// result.
func (g *Generator) equationValues(op string, operands int) []int {
	values := make([]int, 0, operands+1)
	switch op {
	case "-":
		first := g.randomRange(operands+3, 9)
		values = append(values, first)
		result := first
		for i := 1; i < operands; i++ {
			remaining := operands - 1 - i
			next := g.randomRange(1, result-1-remaining)
			values = append(values, next)
			result -= next
		}
		return append(values, result)
	case "*":
		result := 1
		for i := 0; i < operands; i++ {
			next := g.randomRange(1, 9/result)
			values = append(values, next)
			result *= next
		}
		return append(values, result)
	default:
		sum := 0
		for i := 0; i < operands; i++ {
			next := g.randomRange(1, 9-sum-(operands-1-i))
			values = append(values, next)
			sum += next
		}
		return append(values, sum)
	}
}
