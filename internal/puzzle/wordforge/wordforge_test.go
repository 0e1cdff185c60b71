package wordforge

import (
	"testing"

	"github.com/puzzlebox-games/puzzlebox/internal/puzzle"
)

func entries(words ...string) []Entry {
	out := make([]Entry, len(words))
	for i, w := range words {
		out[i] = Entry{Word: w}
	}
	return out
}

// newGame builds a board on AMPLIFY with center L. AMPLIFY is the
// pangram.
func newGame(t *testing.T) *Game {
	t.Helper()
	g, err := New(Config{
		Envelope: puzzle.Envelope{ID: "wf1", Type: puzzle.GameTypeWordForge},
		Letters:  "AMPLIFY",
		Center:   'L',
		Words:    entries("AMPLIFY", "FLAP", "LIMP", "IMPLY", "LAMP", "PILL"),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return g
}

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{
			name: "six letters",
			cfg:  Config{Letters: "AMPLIF", Center: 'L', Words: entries("AMPLIFY")},
		},
		{
			name: "repeated letter",
			cfg:  Config{Letters: "AAMPLIF", Center: 'L', Words: entries("AMPLIFY")},
		},
		{
			name: "center not on board",
			cfg:  Config{Letters: "AMPLIFY", Center: 'Z', Words: entries("AMPLIFY")},
		},
		{
			name: "empty word list",
			cfg:  Config{Letters: "AMPLIFY", Center: 'L'},
		},
		{
			name: "listed word too short",
			cfg:  Config{Letters: "AMPLIFY", Center: 'L', Words: entries("AMPLIFY", "LAP")},
		},
		{
			name: "listed word off board",
			cfg:  Config{Letters: "AMPLIFY", Center: 'L', Words: entries("AMPLIFY", "CLUB")},
		},
		{
			name: "listed word missing center",
			cfg:  Config{Letters: "AMPLIFY", Center: 'L', Words: entries("AMPLIFY", "MAIM")},
		},
		{
			name: "no pangram",
			cfg:  Config{Letters: "AMPLIFY", Center: 'L', Words: entries("FLAP", "LIMP")},
		},
		{
			name: "duplicate listed word",
			cfg:  Config{Letters: "AMPLIFY", Center: 'L', Words: entries("AMPLIFY", "flap", "FLAP")},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := New(tc.cfg); err == nil {
				t.Fatal("New accepted invalid config")
			}
		})
	}
}

func TestGuessScoring(t *testing.T) {
	g := newGame(t)

	tests := []struct {
		word   string
		result GuessResult
		points int
	}{
		{word: "flap", result: GuessAccepted, points: 1},
		{word: "IMPLY", result: GuessAccepted, points: 5},
		{word: "Amplify", result: GuessPangram, points: 14},
	}
	total := 0
	for _, tc := range tests {
		res, pts := g.Guess(tc.word)
		if res != tc.result || pts != tc.points {
			t.Fatalf("Guess(%q) = %v,%d, want %v,%d", tc.word, res, pts, tc.result, tc.points)
		}
		total += pts
	}
	if got := g.Score(); got != total {
		t.Fatalf("Score = %d, want %d", got, total)
	}
	if got := g.Envelope().MoveCount; got != 3 {
		t.Fatalf("MoveCount = %d, want 3", got)
	}
}

func TestGuessRejections(t *testing.T) {
	g := newGame(t)

	tests := []struct {
		name   string
		word   string
		result GuessResult
	}{
		{name: "too short", word: "lap", result: GuessTooShort},
		{name: "unknown letter", word: "blimp", result: GuessUnknownLetter},
		{name: "missing center", word: "mafia", result: GuessMissingCenter},
		{name: "not in list", word: "mail", result: GuessNotInList},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res, pts := g.Guess(tc.word)
			if res != tc.result || pts != 0 {
				t.Fatalf("Guess(%q) = %v,%d, want %v,0", tc.word, res, pts, tc.result)
			}
		})
	}
	if g.Score() != 0 {
		t.Fatalf("Score = %d after rejections, want 0", g.Score())
	}
	if got := g.Envelope().MoveCount; got != 0 {
		t.Fatalf("MoveCount = %d, want 0", got)
	}
}

func TestGuessDuplicate(t *testing.T) {
	g := newGame(t)

	if res, _ := g.Guess("limp"); res != GuessAccepted {
		t.Fatalf("Guess(limp) = %v, want accepted", res)
	}
	res, pts := g.Guess("LIMP")
	if res != GuessDuplicate || pts != 0 {
		t.Fatalf("repeat Guess = %v,%d, want duplicate,0", res, pts)
	}
	if g.Score() != 1 {
		t.Fatalf("Score = %d, want 1", g.Score())
	}
}

func TestCompleteWhenAllFound(t *testing.T) {
	g := newGame(t)

	for _, w := range []string{"amplify", "flap", "limp", "imply", "lamp", "pill"} {
		if res, _ := g.Guess(w); res != GuessAccepted && res != GuessPangram {
			t.Fatalf("Guess(%q) = %v", w, res)
		}
	}
	if !g.IsComplete() {
		t.Fatal("IsComplete false with every word found")
	}
	// 14 + 1 + 1 + 5 + 1 + 1.
	if got := g.Score(); got != 23 {
		t.Fatalf("Score = %d, want 23", got)
	}
}

func TestCluesHiddenUntilFound(t *testing.T) {
	g, err := New(Config{
		Envelope: puzzle.Envelope{ID: "wf2", Type: puzzle.GameTypeWordForge},
		Letters:  "AMPLIFY",
		Center:   'L',
		Words:    []Entry{{Word: "AMPLIFY", Clue: "boost"}, {Word: "LAMP", Clue: "desk light"}},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if _, ok := g.Clue("lamp"); ok {
		t.Fatal("Clue exposed before the word was found")
	}
	if res, _ := g.Guess("lamp"); res != GuessAccepted {
		t.Fatal("Guess rejected")
	}
	clue, ok := g.Clue("LAMP")
	if !ok || clue != "desk light" {
		t.Fatalf("Clue = %q,%t, want \"desk light\",true", clue, ok)
	}
}

func TestLettersCenterFirst(t *testing.T) {
	g := newGame(t)

	letters := g.Letters()
	if len(letters) != 7 || letters[0] != 'l' {
		t.Fatalf("Letters = %q, want center first of 7", string(letters))
	}
	if g.Center() != 'l' {
		t.Fatalf("Center = %q, want l", g.Center())
	}
}

func TestReset(t *testing.T) {
	g := newGame(t)

	if res, _ := g.Guess("amplify"); res != GuessPangram {
		t.Fatal("Guess rejected")
	}
	g.Reset()

	if g.Score() != 0 || len(g.FoundWords()) != 0 {
		t.Fatal("reset kept score or found words")
	}
	if g.Envelope().MoveCount != 0 || g.IsComplete() {
		t.Fatal("reset did not clear progress")
	}
	if res, _ := g.Guess("amplify"); res != GuessPangram {
		t.Fatal("Guess rejected after reset")
	}
}
