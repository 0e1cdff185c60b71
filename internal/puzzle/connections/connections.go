// Package connections implements the find-the-groups word game: sixteen
// words hide four groups of four, guessed against a mistake budget.
package connections

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/cases"

	apperrors "github.com/puzzlebox-games/puzzlebox/internal/platform/errors"
	"github.com/puzzlebox-games/puzzlebox/internal/puzzle"
)

const (
	groupCount = 4
	groupSize  = 4
	// MistakeLimit is how many scored misses end the run.
	MistakeLimit = 4
)

// SubmitResult classifies one guess submission.
type SubmitResult uint8

const (
	// SubmitRejected means the selection was not submittable: fewer than
	// four words, or the game already over.
	SubmitRejected SubmitResult = iota
	// SubmitCorrect locks a whole group.
	SubmitCorrect
	// SubmitOneAway means three of the four words share a group; it
	// still costs a mistake.
	SubmitOneAway
	// SubmitWrong is a miss costing a mistake.
	SubmitWrong
	// SubmitRepeat is a previously-scored selection; no penalty.
	SubmitRepeat
)

// Group is one hidden category and its four words.
type Group struct {
	Name  string
	Words []string
}

// Config describes the content needed to construct a game.
type Config struct {
	Envelope puzzle.Envelope
	Groups   []Group
}

// Game is a connections round in progress.
type Game struct {
	env      puzzle.Envelope
	groups   []Group
	fold     cases.Caser
	wordOf   map[string]string // folded -> authored spelling
	groupOf  map[string]int    // folded -> group index
	selected map[string]bool   // folded
	solved   []int             // group indices in found order
	locked   map[int]bool
	guessed  map[string]bool // canonical selection keys already scored
	mistakes int
}

var _ puzzle.Variant = (*Game)(nil)

// New validates the config and constructs a game.
func New(cfg Config) (*Game, error) {
	if len(cfg.Groups) != groupCount {
		return nil, apperrors.New(apperrors.CodeContentDimensionMismatch,
			fmt.Sprintf("%d groups, want %d", len(cfg.Groups), groupCount))
	}

	g := &Game{
		env:      cfg.Envelope,
		fold:     cases.Fold(),
		wordOf:   make(map[string]string, groupCount*groupSize),
		groupOf:  make(map[string]int, groupCount*groupSize),
		selected: make(map[string]bool),
		locked:   make(map[int]bool),
		guessed:  make(map[string]bool),
	}
	names := make(map[string]bool, groupCount)
	for i, group := range cfg.Groups {
		if group.Name == "" {
			return nil, apperrors.New(apperrors.CodeContentMissingField,
				fmt.Sprintf("group %d has no name", i))
		}
		name := g.fold.String(group.Name)
		if names[name] {
			return nil, apperrors.New(apperrors.CodeContentDuplicateEntry,
				fmt.Sprintf("duplicate group name %q", group.Name))
		}
		names[name] = true
		if len(group.Words) != groupSize {
			return nil, apperrors.WithMetadata(apperrors.CodeContentDimensionMismatch,
				fmt.Sprintf("group %q has %d words, want %d", group.Name, len(group.Words), groupSize),
				map[string]string{"group": group.Name})
		}
		for _, word := range group.Words {
			if word == "" {
				return nil, apperrors.New(apperrors.CodeContentMissingField,
					fmt.Sprintf("group %q contains an empty word", group.Name))
			}
			folded := g.fold.String(word)
			if _, dup := g.wordOf[folded]; dup {
				return nil, apperrors.New(apperrors.CodeContentDuplicateEntry,
					fmt.Sprintf("word %q appears twice", word))
			}
			g.wordOf[folded] = word
			g.groupOf[folded] = i
		}
		g.groups = append(g.groups, Group{Name: group.Name, Words: append([]string(nil), group.Words...)})
	}
	g.recompute()
	return g, nil
}

// ToggleSelect flips a word in or out of the current selection. Unknown
// words, words in solved groups, a full selection, and finished games are
// rejected. Selection changes are not moves.
func (g *Game) ToggleSelect(word string) bool {
	if g.over() {
		return false
	}
	folded := g.fold.String(word)
	group, ok := g.groupOf[folded]
	if !ok || g.locked[group] {
		return false
	}
	if g.selected[folded] {
		delete(g.selected, folded)
		return true
	}
	if len(g.selected) == groupSize {
		return false
	}
	g.selected[folded] = true
	return true
}

// DeselectAll clears the current selection.
func (g *Game) DeselectAll() {
	g.selected = make(map[string]bool)
}

// Submit scores the current four-word selection. Correct guesses lock the
// group; near and wrong guesses each cost a mistake; repeating an
// already-scored selection costs nothing.
func (g *Game) Submit() SubmitResult {
	if g.over() || len(g.selected) != groupSize {
		return SubmitRejected
	}
	key := g.selectionKey()
	if g.guessed[key] {
		return SubmitRepeat
	}
	g.guessed[key] = true
	g.env.RecordMove()

	counts := make(map[int]int, groupCount)
	best, bestCount := 0, 0
	for folded := range g.selected {
		group := g.groupOf[folded]
		counts[group]++
		if counts[group] > bestCount {
			best, bestCount = group, counts[group]
		}
	}

	switch bestCount {
	case groupSize:
		g.locked[best] = true
		g.solved = append(g.solved, best)
		g.selected = make(map[string]bool)
		g.recompute()
		return SubmitCorrect
	case groupSize - 1:
		g.mistakes++
		return SubmitOneAway
	default:
		g.mistakes++
		return SubmitWrong
	}
}

// Selected returns the authored spellings of the current selection,
// sorted.
func (g *Game) Selected() []string {
	out := make([]string, 0, len(g.selected))
	for folded := range g.selected {
		out = append(out, g.wordOf[folded])
	}
	sort.Strings(out)
	return out
}

// SolvedGroups returns the found groups in the order they were found.
func (g *Game) SolvedGroups() []Group {
	out := make([]Group, 0, len(g.solved))
	for _, i := range g.solved {
		group := g.groups[i]
		out = append(out, Group{Name: group.Name, Words: append([]string(nil), group.Words...)})
	}
	return out
}

// RemainingWords returns the unsolved words, sorted.
func (g *Game) RemainingWords() []string {
	var out []string
	for folded, word := range g.wordOf {
		if !g.locked[g.groupOf[folded]] {
			out = append(out, word)
		}
	}
	sort.Strings(out)
	return out
}

// Mistakes returns how many scored misses have accumulated.
func (g *Game) Mistakes() int {
	return g.mistakes
}

// Lost reports whether the mistake budget ran out before every group was
// found.
func (g *Game) Lost() bool {
	return g.mistakes >= MistakeLimit && !g.env.Complete
}

// IsComplete reports whether all four groups were found.
func (g *Game) IsComplete() bool {
	return g.env.Complete
}

// Envelope returns a copy of the puzzle envelope.
func (g *Game) Envelope() puzzle.Envelope {
	return g.env
}

// Reset clears guesses, mistakes, and progress.
func (g *Game) Reset() {
	g.selected = make(map[string]bool)
	g.solved = nil
	g.locked = make(map[int]bool)
	g.guessed = make(map[string]bool)
	g.mistakes = 0
	g.env.ResetProgress()
	g.recompute()
}

func (g *Game) over() bool {
	return g.env.Complete || g.mistakes >= MistakeLimit
}

func (g *Game) recompute() {
	g.env.SetComplete(len(g.solved) == groupCount)
}

// selectionKey canonicalizes the selection so re-submitting the same four
// words is recognized regardless of pick order.
func (g *Game) selectionKey() string {
	words := make([]string, 0, len(g.selected))
	for folded := range g.selected {
		words = append(words, folded)
	}
	sort.Strings(words)
	return strings.Join(words, "\x1f")
}
