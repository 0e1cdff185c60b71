// Package wordforge implements honeycomb word-building puzzles: seven
// distinct letters around a required center, guesses scored by length
// with a bonus for using all seven.
package wordforge

import (
	"fmt"
	"sort"

	"golang.org/x/text/cases"

	apperrors "github.com/puzzlebox-games/puzzlebox/internal/platform/errors"
	"github.com/puzzlebox-games/puzzlebox/internal/puzzle"
)

// GuessResult classifies one guess.
type GuessResult uint8

const (
	// GuessAccepted is a new valid word.
	GuessAccepted GuessResult = iota
	// GuessPangram is a new valid word using all seven letters.
	GuessPangram
	// GuessTooShort rejects words under four letters.
	GuessTooShort
	// GuessMissingCenter rejects words without the center letter.
	GuessMissingCenter
	// GuessUnknownLetter rejects words using letters off the board.
	GuessUnknownLetter
	// GuessNotInList rejects words outside the puzzle's word list.
	GuessNotInList
	// GuessDuplicate rejects words already found.
	GuessDuplicate
)

// Entry is one listed word, optionally with a clue shown after finding
// it.
type Entry struct {
	Word string
	Clue string
}

// Config describes the content needed to construct a game.
type Config struct {
	Envelope puzzle.Envelope
	Letters  string
	Center   rune
	Words    []Entry
}

// Game is a word forge puzzle in progress.
type Game struct {
	env     puzzle.Envelope
	letters map[rune]bool
	order   []rune
	center  rune
	words   map[string]Entry
	found   map[string]bool
	score   int
	fold    cases.Caser
}

var _ puzzle.Variant = (*Game)(nil)

// New validates the config and constructs a game. The word list must
// follow the board's own rules and contain at least one pangram.
func New(cfg Config) (*Game, error) {
	fold := cases.Fold()
	letters := []rune(fold.String(cfg.Letters))
	if len(letters) != 7 {
		return nil, apperrors.New(apperrors.CodeContentValueOutOfRange,
			fmt.Sprintf("%d letters, want 7", len(letters)))
	}
	set := make(map[rune]bool, 7)
	order := make([]rune, 0, 7)
	for _, ch := range letters {
		if set[ch] {
			return nil, apperrors.New(apperrors.CodeContentDuplicateEntry,
				fmt.Sprintf("letter %q repeats", ch))
		}
		set[ch] = true
		order = append(order, ch)
	}
	center := []rune(fold.String(string(cfg.Center)))[0]
	if !set[center] {
		return nil, apperrors.New(apperrors.CodeContentMissingField,
			fmt.Sprintf("center %q not among the letters", center))
	}

	if len(cfg.Words) == 0 {
		return nil, apperrors.New(apperrors.CodeContentMissingField, "word list is empty")
	}
	g := &Game{
		env:     cfg.Envelope,
		letters: set,
		order:   order,
		center:  center,
		words:   make(map[string]Entry, len(cfg.Words)),
		found:   make(map[string]bool),
		fold:    fold,
	}
	pangram := false
	for _, e := range cfg.Words {
		folded := fold.String(e.Word)
		switch g.structural(folded) {
		case GuessTooShort:
			return nil, apperrors.WithMetadata(apperrors.CodeDictionaryWordTooShort,
				fmt.Sprintf("listed word %q under four letters", e.Word),
				map[string]string{"word": e.Word})
		case GuessMissingCenter, GuessUnknownLetter:
			return nil, apperrors.WithMetadata(apperrors.CodeContentValueOutOfRange,
				fmt.Sprintf("listed word %q cannot be built on this board", e.Word),
				map[string]string{"word": e.Word})
		}
		if _, dup := g.words[folded]; dup {
			return nil, apperrors.WithMetadata(apperrors.CodeContentDuplicateEntry,
				fmt.Sprintf("duplicate listed word %q", e.Word),
				map[string]string{"word": e.Word})
		}
		g.words[folded] = e
		if g.isPangram(folded) {
			pangram = true
		}
	}
	if !pangram {
		return nil, apperrors.New(apperrors.CodeDictionaryMissingPangram,
			"word list contains no pangram")
	}
	return g, nil
}

// Guess scores one word: 1 point for four letters, length otherwise,
// plus 7 for a pangram. The returned points are zero unless the guess
// was accepted.
func (g *Game) Guess(word string) (GuessResult, int) {
	folded := g.fold.String(word)
	if res := g.structural(folded); res != GuessAccepted {
		return res, 0
	}
	if _, listed := g.words[folded]; !listed {
		return GuessNotInList, 0
	}
	if g.found[folded] {
		return GuessDuplicate, 0
	}

	points := len([]rune(folded))
	if points == 4 {
		points = 1
	}
	result := GuessAccepted
	if g.isPangram(folded) {
		points += 7
		result = GuessPangram
	}
	g.found[folded] = true
	g.score += points
	g.env.RecordMove()
	g.env.SetComplete(len(g.found) == len(g.words))
	return result, points
}

// Score reports the accumulated points.
func (g *Game) Score() int {
	return g.score
}

// Letters returns the board's seven letters, center first.
func (g *Game) Letters() []rune {
	out := make([]rune, 0, 7)
	out = append(out, g.center)
	for _, ch := range g.order {
		if ch != g.center {
			out = append(out, ch)
		}
	}
	return out
}

// Center returns the required letter.
func (g *Game) Center() rune {
	return g.center
}

// FoundWords returns the found words in folded form, sorted.
func (g *Game) FoundWords() []string {
	out := make([]string, 0, len(g.found))
	for w := range g.found {
		out = append(out, w)
	}
	sort.Strings(out)
	return out
}

// WordCount reports the size of the full word list.
func (g *Game) WordCount() int {
	return len(g.words)
}

// Clue returns the clue for a found word. Unfound words stay hidden.
func (g *Game) Clue(word string) (string, bool) {
	folded := g.fold.String(word)
	if !g.found[folded] {
		return "", false
	}
	return g.words[folded].Clue, true
}

// IsComplete reports whether every listed word is found.
func (g *Game) IsComplete() bool {
	return g.env.Complete
}

// Envelope returns a copy of the puzzle envelope.
func (g *Game) Envelope() puzzle.Envelope {
	return g.env
}

// Reset forgets found words and score and clears progress.
func (g *Game) Reset() {
	g.found = make(map[string]bool)
	g.score = 0
	g.env.ResetProgress()
}

// structural applies the board rules that do not need the word list.
func (g *Game) structural(folded string) GuessResult {
	runes := []rune(folded)
	if len(runes) < 4 {
		return GuessTooShort
	}
	hasCenter := false
	for _, ch := range runes {
		if !g.letters[ch] {
			return GuessUnknownLetter
		}
		if ch == g.center {
			hasCenter = true
		}
	}
	if !hasCenter {
		return GuessMissingCenter
	}
	return GuessAccepted
}

func (g *Game) isPangram(folded string) bool {
	used := make(map[rune]bool, 7)
	for _, ch := range folded {
		used[ch] = true
	}
	return len(used) == 7
}
