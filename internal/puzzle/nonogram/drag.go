package nonogram

// Mode selects which pair of states a gesture paints.
type Mode int

const (
	// ModeFill paints and clears picture cells.
	ModeFill Mode = iota
	// ModeMark places and removes X annotations.
	ModeMark
)

// Action is the mutation a gesture applies, fixed at the origin cell.
type Action int

const (
	// ActionFill paints empty cells.
	ActionFill Action = iota
	// ActionClear erases filled cells.
	ActionClear
	// ActionMark annotates empty cells.
	ActionMark
	// ActionUnmark removes annotations.
	ActionUnmark
)

type axis int

const (
	axisNone axis = iota
	axisRow
	axisCol
)

type gesture struct {
	originRow int
	originCol int
	action    Action
	axis      axis
	visited   map[[2]int]bool
}

// BeginDrag starts a gesture at the origin cell. The action for the whole
// gesture derives from the origin's state and the mode, and the origin
// always toggles between the mode's two states. Returns false when the
// origin is out of bounds or a gesture is already active.
func (g *Game) BeginDrag(row, col int, mode Mode) bool {
	if g.gesture != nil || !g.inBounds(row, col) {
		return false
	}

	var action Action
	switch mode {
	case ModeFill:
		if g.grid[row][col] == CellFilled {
			action = ActionClear
		} else {
			action = ActionFill
		}
	case ModeMark:
		if g.grid[row][col] == CellMarked {
			action = ActionUnmark
		} else {
			action = ActionMark
		}
	default:
		return false
	}

	g.pushSnapshot()
	g.env.RecordMove()
	g.gesture = &gesture{
		originRow: row,
		originCol: col,
		action:    action,
		visited:   map[[2]int]bool{{row, col}: true},
	}

	// The origin toggles unconditionally, regardless of legal-source rules.
	switch action {
	case ActionFill:
		g.grid[row][col] = CellFilled
	case ActionClear:
		g.grid[row][col] = CellEmpty
	case ActionMark:
		g.grid[row][col] = CellMarked
	case ActionUnmark:
		g.grid[row][col] = CellEmpty
	}
	g.recompute()
	return true
}

// DragOver extends the active gesture toward the given cell. The first cell
// that leaves the origin locks the gesture's axis; later cells project onto
// that axis. Each cell changes at most once per gesture, and only when its
// state is the action's legal source. Returns true when a cell changed.
func (g *Game) DragOver(row, col int) bool {
	if g.gesture == nil || !g.inBounds(row, col) {
		return false
	}
	ges := g.gesture

	if ges.axis == axisNone {
		dRow := abs(row - ges.originRow)
		dCol := abs(col - ges.originCol)
		if dRow == 0 && dCol == 0 {
			return false
		}
		// Larger displacement wins; ties lock to the row axis.
		if dCol >= dRow {
			ges.axis = axisRow
		} else {
			ges.axis = axisCol
		}
	}

	// Project the cell onto the locked axis lane through the origin.
	if ges.axis == axisRow {
		row = ges.originRow
	} else {
		col = ges.originCol
	}

	key := [2]int{row, col}
	if ges.visited[key] {
		return false
	}
	ges.visited[key] = true

	if !g.applyAction(ges.action, row, col) {
		return false
	}
	g.recompute()
	return true
}

// EndDrag finishes the active gesture. Returns false when none is active.
func (g *Game) EndDrag() bool {
	if g.gesture == nil {
		return false
	}
	g.gesture = nil
	return true
}

// applyAction mutates the cell only when its state is the action's legal
// source: fill wants empty, clear wants filled, mark wants empty, unmark
// wants marked. Everything else is a silent no-op.
func (g *Game) applyAction(action Action, row, col int) bool {
	switch action {
	case ActionFill:
		if g.grid[row][col] != CellEmpty {
			return false
		}
		g.grid[row][col] = CellFilled
	case ActionClear:
		if g.grid[row][col] != CellFilled {
			return false
		}
		g.grid[row][col] = CellEmpty
	case ActionMark:
		if g.grid[row][col] != CellEmpty {
			return false
		}
		g.grid[row][col] = CellMarked
	case ActionUnmark:
		if g.grid[row][col] != CellMarked {
			return false
		}
		g.grid[row][col] = CellEmpty
	default:
		return false
	}
	return true
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
