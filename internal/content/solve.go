package content

import (
	"fmt"

	apperrors "github.com/puzzlebox-games/puzzlebox/internal/platform/errors"
)

// Clue-only nonogram payloads carry no picture, so the picture is
// recovered by line solving: every row and column is settled against
// its clues until no cell changes. Content must be line solvable; a
// cell left undecided after propagation means the clues do not pin a
// unique picture and the payload is rejected.

type lineCell int8

const (
	lineUnknown lineCell = iota
	lineFilled
	lineEmpty
)

func solveNonogram(rows, cols int, rowClues, colClues [][]int) ([][]bool, error) {
	if rows < 1 || cols < 1 {
		return nil, apperrors.New(apperrors.CodeContentValueOutOfRange,
			fmt.Sprintf("nonogram grid %dx%d below minimum 1x1", rows, cols))
	}
	if len(rowClues) != rows || len(colClues) != cols {
		return nil, apperrors.New(apperrors.CodeContentDimensionMismatch,
			fmt.Sprintf("%d row clue lines and %d column clue lines for a %dx%d grid",
				len(rowClues), len(colClues), rows, cols))
	}
	for r, clues := range rowClues {
		if err := checkClues(clues, cols, "row", r); err != nil {
			return nil, err
		}
	}
	for c, clues := range colClues {
		if err := checkClues(clues, rows, "column", c); err != nil {
			return nil, err
		}
	}

	grid := make([][]lineCell, rows)
	for r := range grid {
		grid[r] = make([]lineCell, cols)
	}

	line := make([]lineCell, max(rows, cols))
	for changed := true; changed; {
		changed = false
		for r := 0; r < rows; r++ {
			copy(line[:cols], grid[r])
			lineChanged, ok := settleLine(line[:cols], rowClues[r])
			if !ok {
				return nil, apperrors.New(apperrors.CodeContentSolutionMismatch,
					fmt.Sprintf("row %d clues contradict the rest of the grid", r))
			}
			if lineChanged {
				changed = true
				copy(grid[r], line[:cols])
			}
		}
		for c := 0; c < cols; c++ {
			for r := 0; r < rows; r++ {
				line[r] = grid[r][c]
			}
			lineChanged, ok := settleLine(line[:rows], colClues[c])
			if !ok {
				return nil, apperrors.New(apperrors.CodeContentSolutionMismatch,
					fmt.Sprintf("column %d clues contradict the rest of the grid", c))
			}
			if lineChanged {
				changed = true
				for r := 0; r < rows; r++ {
					grid[r][c] = line[r]
				}
			}
		}
	}

	solution := make([][]bool, rows)
	for r := range solution {
		solution[r] = make([]bool, cols)
		for c := 0; c < cols; c++ {
			switch grid[r][c] {
			case lineFilled:
				solution[r][c] = true
			case lineUnknown:
				return nil, apperrors.WithMetadata(apperrors.CodeContentSolutionMismatch,
					fmt.Sprintf("clues leave cell (%d,%d) undetermined", r, c),
					map[string]string{"row": fmt.Sprint(r), "col": fmt.Sprint(c)})
			}
		}
	}
	return solution, nil
}

func checkClues(clues []int, span int, axis string, index int) error {
	total := 0
	for _, run := range clues {
		if run < 1 {
			return apperrors.New(apperrors.CodeContentValueOutOfRange,
				fmt.Sprintf("%s %d clue %d below minimum 1", axis, index, run))
		}
		total += run
	}
	if total+len(clues)-1 > span {
		return apperrors.New(apperrors.CodeContentValueOutOfRange,
			fmt.Sprintf("%s %d clues need %d cells, have %d", axis, index, total+len(clues)-1, span))
	}
	return nil
}

// settleLine enumerates every clue arrangement consistent with the
// line's decided cells and locks the cells all arrangements agree on.
// It reports whether any cell changed, and false ok when no arrangement
// fits.
func settleLine(line []lineCell, runs []int) (bool, bool) {
	n := len(line)
	canFill := make([]bool, n)
	canEmpty := make([]bool, n)
	scratch := make([]lineCell, n)
	any := false

	var walk func(pos, run int)
	walk = func(pos, run int) {
		if run == len(runs) {
			for i := pos; i < n; i++ {
				if line[i] == lineFilled {
					return
				}
				scratch[i] = lineEmpty
			}
			any = true
			for i, cell := range scratch {
				if cell == lineFilled {
					canFill[i] = true
				} else {
					canEmpty[i] = true
				}
			}
			return
		}
		length := runs[run]
		for start := pos; start+length <= n; start++ {
			fits := true
			for i := start; i < start+length; i++ {
				if line[i] == lineEmpty {
					fits = false
					break
				}
			}
			if fits && (start+length == n || line[start+length] != lineFilled) {
				for i := pos; i < start; i++ {
					scratch[i] = lineEmpty
				}
				for i := start; i < start+length; i++ {
					scratch[i] = lineFilled
				}
				next := start + length
				if next < n {
					scratch[next] = lineEmpty
					walk(next+1, run+1)
				} else {
					walk(next, run+1)
				}
			}
			// A decided filled cell cannot be skipped, so the run
			// starts here or earlier.
			if line[start] == lineFilled {
				break
			}
		}
	}
	walk(0, 0)

	if !any {
		return false, false
	}
	changed := false
	for i := range line {
		switch {
		case canFill[i] && !canEmpty[i] && line[i] != lineFilled:
			line[i] = lineFilled
			changed = true
		case canEmpty[i] && !canFill[i] && line[i] != lineEmpty:
			line[i] = lineEmpty
			changed = true
		}
	}
	return changed, true
}
