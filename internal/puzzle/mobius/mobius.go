// Package mobius implements directed-graph navigation puzzles. The player
// walks labeled edges from a start node toward a goal node.
package mobius

import (
	"fmt"
	"sort"

	apperrors "github.com/puzzlebox-games/puzzlebox/internal/platform/errors"
	"github.com/puzzlebox-games/puzzlebox/internal/puzzle"
	"github.com/puzzlebox-games/puzzlebox/internal/puzzle/undo"
)

// Edge is one directed, labeled connection between nodes.
type Edge struct {
	From      string
	Direction string
	To        string
}

// Config describes the content needed to construct a game.
type Config struct {
	Envelope    puzzle.Envelope
	Nodes       []string
	Edges       []Edge
	StartNodeID string
	GoalNodeID  string
}

type snapshot struct {
	node      string
	moveCount int
	complete  bool
}

// Game is a graph navigation puzzle in progress.
type Game struct {
	env     puzzle.Envelope
	edges   map[string]map[string]string
	start   string
	goal    string
	current string
	history undo.Stack[snapshot]
}

var _ puzzle.Undoer = (*Game)(nil)

// New validates the config and constructs a game. The goal must be
// reachable from the start along directed edges.
func New(cfg Config) (*Game, error) {
	if len(cfg.Nodes) == 0 {
		return nil, apperrors.New(apperrors.CodeContentMissingField, "graph has no nodes")
	}
	nodes := make(map[string]bool, len(cfg.Nodes))
	for _, n := range cfg.Nodes {
		if n == "" {
			return nil, apperrors.New(apperrors.CodeContentMissingField, "node with empty id")
		}
		if nodes[n] {
			return nil, apperrors.WithMetadata(apperrors.CodeContentDuplicateEntry,
				fmt.Sprintf("duplicate node %q", n), map[string]string{"node": n})
		}
		nodes[n] = true
	}

	edges := make(map[string]map[string]string)
	for _, e := range cfg.Edges {
		if !nodes[e.From] || !nodes[e.To] {
			return nil, apperrors.New(apperrors.CodeContentMissingField,
				fmt.Sprintf("edge %s-[%s]->%s references an unknown node", e.From, e.Direction, e.To))
		}
		if e.Direction == "" {
			return nil, apperrors.New(apperrors.CodeContentMissingField,
				fmt.Sprintf("edge %s->%s has no direction", e.From, e.To))
		}
		if edges[e.From] == nil {
			edges[e.From] = make(map[string]string)
		}
		if _, dup := edges[e.From][e.Direction]; dup {
			return nil, apperrors.WithMetadata(apperrors.CodeContentDuplicateEntry,
				fmt.Sprintf("node %s has two %q edges", e.From, e.Direction),
				map[string]string{"node": e.From, "direction": e.Direction})
		}
		edges[e.From][e.Direction] = e.To
	}

	if !nodes[cfg.StartNodeID] {
		return nil, apperrors.New(apperrors.CodeContentMissingField,
			fmt.Sprintf("start node %q unknown", cfg.StartNodeID))
	}
	if !nodes[cfg.GoalNodeID] {
		return nil, apperrors.New(apperrors.CodeContentMissingField,
			fmt.Sprintf("goal node %q unknown", cfg.GoalNodeID))
	}
	if cfg.StartNodeID == cfg.GoalNodeID {
		return nil, apperrors.New(apperrors.CodeContentValueOutOfRange, "start and goal are the same node")
	}
	if !reachable(edges, cfg.StartNodeID, cfg.GoalNodeID) {
		return nil, apperrors.WithMetadata(apperrors.CodeContentUnreachableElement,
			fmt.Sprintf("goal %q unreachable from start %q", cfg.GoalNodeID, cfg.StartNodeID),
			map[string]string{"start": cfg.StartNodeID, "goal": cfg.GoalNodeID})
	}

	return &Game{
		env:     cfg.Envelope,
		edges:   edges,
		start:   cfg.StartNodeID,
		goal:    cfg.GoalNodeID,
		current: cfg.StartNodeID,
	}, nil
}

// TryMove walks the edge labeled direction from the current node. It
// returns the destination id and true on success; otherwise ("", false)
// with the game untouched.
func (g *Game) TryMove(direction string) (string, bool) {
	dest, ok := g.edges[g.current][direction]
	if !ok {
		return "", false
	}
	g.history.Push(snapshot{
		node:      g.current,
		moveCount: g.env.MoveCount,
		complete:  g.env.Complete,
	})
	g.current = dest
	g.env.RecordMove()
	g.env.SetComplete(g.current == g.goal)
	return dest, true
}

// Undo steps back to the node before the last move.
func (g *Game) Undo() bool {
	snap, ok := g.history.Pop()
	if !ok {
		return false
	}
	g.current = snap.node
	g.env.MoveCount = snap.moveCount
	g.env.SetComplete(snap.complete)
	return true
}

// AvailableEdges lists the edges leaving the current node, sorted by
// direction.
func (g *Game) AvailableEdges() []Edge {
	out := make([]Edge, 0, len(g.edges[g.current]))
	for dir, to := range g.edges[g.current] {
		out = append(out, Edge{From: g.current, Direction: dir, To: to})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Direction < out[j].Direction })
	return out
}

// Current returns the node the player stands on.
func (g *Game) Current() string {
	return g.current
}

// Goal returns the node the player must reach.
func (g *Game) Goal() string {
	return g.goal
}

// IsComplete reports whether the player stands on the goal node.
func (g *Game) IsComplete() bool {
	return g.env.Complete
}

// Envelope returns a copy of the puzzle envelope.
func (g *Game) Envelope() puzzle.Envelope {
	return g.env
}

// Reset returns the player to the start node and clears history.
func (g *Game) Reset() {
	g.current = g.start
	g.history.Clear()
	g.env.ResetProgress()
}

func reachable(edges map[string]map[string]string, from, to string) bool {
	seen := map[string]bool{from: true}
	queue := []string{from}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		if n == to {
			return true
		}
		for _, dest := range edges[n] {
			if !seen[dest] {
				seen[dest] = true
				queue = append(queue, dest)
			}
		}
	}
	return false
}
