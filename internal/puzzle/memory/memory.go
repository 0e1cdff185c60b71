// Package memory implements card-matching puzzles. Cards flip in pairs;
// a mismatch stays visible until the client acknowledges it.
package memory

import (
	"fmt"

	apperrors "github.com/puzzlebox-games/puzzlebox/internal/platform/errors"
	"github.com/puzzlebox-games/puzzlebox/internal/platform/random"
	"github.com/puzzlebox-games/puzzlebox/internal/puzzle"
)

// Config describes the content needed to construct a game. The deck
// order derives from Seed, so the same seed deals identically.
type Config struct {
	Envelope  puzzle.Envelope
	PairCount int
	Symbols   []string
	Seed      int64
}

type card struct {
	symbol  string
	faceUp  bool
	matched bool
}

// Game is a memory puzzle in progress.
type Game struct {
	env     puzzle.Envelope
	seed    int64
	symbols []string
	cards   []card
	open    []int
	matched int
}

var _ puzzle.Variant = (*Game)(nil)

// New validates the config and deals a shuffled deck face down.
func New(cfg Config) (*Game, error) {
	if cfg.PairCount < 2 {
		return nil, apperrors.New(apperrors.CodeContentValueOutOfRange,
			fmt.Sprintf("pair count %d below 2", cfg.PairCount))
	}
	if len(cfg.Symbols) != cfg.PairCount {
		return nil, apperrors.New(apperrors.CodeContentDimensionMismatch,
			fmt.Sprintf("%d symbols for %d pairs", len(cfg.Symbols), cfg.PairCount))
	}
	seen := make(map[string]bool, len(cfg.Symbols))
	for _, s := range cfg.Symbols {
		if s == "" {
			return nil, apperrors.New(apperrors.CodeContentMissingField, "empty symbol")
		}
		if seen[s] {
			return nil, apperrors.WithMetadata(apperrors.CodeContentDuplicateEntry,
				fmt.Sprintf("duplicate symbol %q", s), map[string]string{"symbol": s})
		}
		seen[s] = true
	}

	g := &Game{
		env:     cfg.Envelope,
		seed:    cfg.Seed,
		symbols: append([]string(nil), cfg.Symbols...),
	}
	g.deal()
	return g, nil
}

// FlipCard turns a card face up. With two cards up, a match locks both;
// a mismatch blocks further flips until ResolveMismatch. Returns false
// for out-of-range, matched, or already open cards, and while a
// mismatch is unresolved.
func (g *Game) FlipCard(i int) bool {
	if i < 0 || i >= len(g.cards) {
		return false
	}
	if len(g.open) == 2 {
		return false
	}
	c := &g.cards[i]
	if c.matched || c.faceUp {
		return false
	}

	c.faceUp = true
	g.open = append(g.open, i)
	g.env.RecordMove()

	if len(g.open) == 2 {
		a, b := &g.cards[g.open[0]], &g.cards[g.open[1]]
		if a.symbol == b.symbol {
			a.matched, b.matched = true, true
			g.matched += 2
			g.open = g.open[:0]
			if g.matched == len(g.cards) {
				g.env.SetComplete(true)
			}
		}
	}
	return true
}

// ResolveMismatch turns an unmatched open pair back down. The client
// calls this after showing the mismatch. Returns false when no mismatch
// is pending.
func (g *Game) ResolveMismatch() bool {
	if len(g.open) != 2 {
		return false
	}
	g.cards[g.open[0]].faceUp = false
	g.cards[g.open[1]].faceUp = false
	g.open = g.open[:0]
	return true
}

// AwaitingResolution reports whether a mismatched pair is showing.
func (g *Game) AwaitingResolution() bool {
	return len(g.open) == 2
}

// CardCount reports the deck size.
func (g *Game) CardCount() int {
	return len(g.cards)
}

// FaceUp reports whether a card is showing.
func (g *Game) FaceUp(i int) bool {
	if i < 0 || i >= len(g.cards) {
		return false
	}
	return g.cards[i].faceUp
}

// Matched reports whether a card is locked in a found pair.
func (g *Game) Matched(i int) bool {
	if i < 0 || i >= len(g.cards) {
		return false
	}
	return g.cards[i].matched
}

// Symbol returns a card's symbol only while it is showing or matched.
func (g *Game) Symbol(i int) (string, bool) {
	if i < 0 || i >= len(g.cards) {
		return "", false
	}
	c := g.cards[i]
	if !c.faceUp && !c.matched {
		return "", false
	}
	return c.symbol, true
}

// IsComplete reports whether every pair is matched.
func (g *Game) IsComplete() bool {
	return g.env.Complete
}

// Envelope returns a copy of the puzzle envelope.
func (g *Game) Envelope() puzzle.Envelope {
	return g.env
}

// Reset redeals the same seed's layout face down and clears progress.
func (g *Game) Reset() {
	g.deal()
	g.env.ResetProgress()
}

func (g *Game) deal() {
	g.cards = make([]card, 0, len(g.symbols)*2)
	for _, s := range g.symbols {
		g.cards = append(g.cards, card{symbol: s}, card{symbol: s})
	}
	rng := random.NewSource(g.seed)
	rng.Shuffle(len(g.cards), func(i, j int) {
		g.cards[i], g.cards[j] = g.cards[j], g.cards[i]
	})
	g.open = g.open[:0]
	g.matched = 0
}
