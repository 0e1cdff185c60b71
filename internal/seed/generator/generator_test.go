package generator

import (
	"bytes"
	"testing"

	"github.com/puzzlebox-games/puzzlebox/internal/content"
	"github.com/puzzlebox-games/puzzlebox/internal/puzzle"
)

func TestDocumentValidatesForEveryGameType(t *testing.T) {
	t.Parallel()

	gen := New(42, false)
	for _, gameType := range puzzle.GameTypes() {
		for _, difficulty := range Difficulties() {
			document, err := gen.Document(gameType, difficulty)
			if err != nil {
				t.Fatalf("generate %s %s: %v", gameType, difficulty, err)
			}
			if err := content.Validate(gameType, document); err != nil {
				t.Fatalf("validate %s %s: %v\n%s", gameType, difficulty, err, document)
			}
		}
	}
}

func TestDocumentValidatesAcrossManyDraws(t *testing.T) {
	t.Parallel()

	// Many documents per type exercise the random paths beyond the
	// first draw.
	gen := New(7, false)
	for _, gameType := range puzzle.GameTypes() {
		for i := 0; i < 10; i++ {
			difficulty := Difficulties()[i%4]
			document, err := gen.Document(gameType, difficulty)
			if err != nil {
				t.Fatalf("generate %s draw %d: %v", gameType, i, err)
			}
			if err := content.Validate(gameType, document); err != nil {
				t.Fatalf("validate %s draw %d: %v\n%s", gameType, i, err, document)
			}
		}
	}
}

func TestDocumentDeterministicForSeed(t *testing.T) {
	t.Parallel()

	first := New(99, false)
	second := New(99, false)
	for _, gameType := range puzzle.GameTypes() {
		a, err := first.Document(gameType, puzzle.DifficultyMedium)
		if err != nil {
			t.Fatalf("first generate %s: %v", gameType, err)
		}
		b, err := second.Document(gameType, puzzle.DifficultyMedium)
		if err != nil {
			t.Fatalf("second generate %s: %v", gameType, err)
		}
		if !bytes.Equal(a, b) {
			t.Fatalf("%s documents diverged for the same seed:\n%s\n%s", gameType, a, b)
		}
	}
}

func TestDocumentRejectsUnknownGameType(t *testing.T) {
	t.Parallel()

	gen := New(1, false)
	if _, err := gen.Document(puzzle.GameTypeUnspecified, puzzle.DifficultyEasy); err == nil {
		t.Fatal("expected unknown game type error")
	}
}

func TestGetPresetConfigFallsBackToDemo(t *testing.T) {
	t.Parallel()

	got := GetPresetConfig(Preset("bogus"))
	want := GetPresetConfig(PresetDemo)
	if got != want {
		t.Fatalf("fallback config = %+v, want %+v", got, want)
	}
}
