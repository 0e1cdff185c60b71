package puzzle

import (
	"testing"
	"time"
)

func TestGameTypeSlugRoundTrip(t *testing.T) {
	for _, gameType := range GameTypes() {
		slug := gameType.String()
		if slug == "unspecified" {
			t.Fatalf("game type %d has no slug", gameType)
		}
		parsed, err := ParseGameType(slug)
		if err != nil {
			t.Fatalf("parse %q: %v", slug, err)
		}
		if parsed != gameType {
			t.Fatalf("slug %q parsed to %v, want %v", slug, parsed, gameType)
		}
	}
}

func TestParseGameTypeRejectsUnknown(t *testing.T) {
	if _, err := ParseGameType("tic_tac_toe"); err == nil {
		t.Fatal("expected unknown game type error")
	}
	if _, err := ParseGameType(""); err == nil {
		t.Fatal("expected empty game type error")
	}
}

func TestParseDifficulty(t *testing.T) {
	parsed, err := ParseDifficulty("hard")
	if err != nil {
		t.Fatalf("parse hard: %v", err)
	}
	if parsed != DifficultyHard {
		t.Fatalf("expected hard, got %v", parsed)
	}
	if _, err := ParseDifficulty("impossible"); err == nil {
		t.Fatal("expected unknown difficulty error")
	}
}

func TestGameTypesCoversAllSlugs(t *testing.T) {
	if got, want := len(GameTypes()), 21; got != want {
		t.Fatalf("expected %d game types, got %d", want, got)
	}
}

func TestEnvelopeProgress(t *testing.T) {
	date := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	env := NewEnvelope("abc123", GameTypeSudoku, DifficultyMedium, date)

	if env.MoveCount != 0 || env.Complete {
		t.Fatal("expected fresh envelope with zero progress")
	}

	env.RecordMove()
	env.RecordMove()
	env.SetComplete(true)
	if env.MoveCount != 2 {
		t.Fatalf("expected 2 moves, got %d", env.MoveCount)
	}
	if !env.Complete {
		t.Fatal("expected complete")
	}

	env.ResetProgress()
	if env.MoveCount != 0 || env.Complete {
		t.Fatal("expected progress cleared")
	}
	if env.ID != "abc123" || env.Type != GameTypeSudoku || !env.Date.Equal(date) {
		t.Fatal("expected identity preserved across reset")
	}
}
