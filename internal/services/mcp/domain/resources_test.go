package domain

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/puzzlebox-games/puzzlebox/internal/puzzle"
	"github.com/puzzlebox-games/puzzlebox/internal/services/catalog/storage"
)

func TestParseGameTypeFromURI(t *testing.T) {
	testCases := []struct {
		name    string
		uri     string
		want    string
		wantErr bool
	}{
		{name: "valid", uri: "puzzles://catalog/sudoku", want: "sudoku"},
		{name: "surrounding whitespace", uri: "  puzzles://catalog/hanoi  ", want: "hanoi"},
		{name: "empty slug", uri: "puzzles://catalog/", wantErr: true},
		{name: "wrong scheme", uri: "campaign://catalog/sudoku", wantErr: true},
		{name: "daily board uri", uri: "puzzles://daily", wantErr: true},
		{name: "extra path segment", uri: "puzzles://catalog/sudoku/extra", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := parseGameTypeFromURI(tc.uri)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("parseGameTypeFromURI(%q) = %q, want error", tc.uri, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseGameTypeFromURI(%q): %v", tc.uri, err)
			}
			if got != tc.want {
				t.Errorf("parseGameTypeFromURI(%q) = %q, want %q", tc.uri, got, tc.want)
			}
		})
	}
}

func TestReadDailyBoard(t *testing.T) {
	svc, store := newCatalogService(t)
	seedPuzzle(t, store, "h1", puzzle.GameTypeHanoi, hanoiPayload)
	if _, err := svc.AssignDaily(context.Background(), "", puzzle.GameTypeHanoi, "h1"); err != nil {
		t.Fatalf("assign daily: %v", err)
	}

	result, err := readDailyBoard(context.Background(), svc, dailyBoardURI)
	if err != nil {
		t.Fatalf("read daily board: %v", err)
	}
	if len(result.Contents) != 1 {
		t.Fatalf("got %d contents, want 1", len(result.Contents))
	}
	if result.Contents[0].URI != dailyBoardURI {
		t.Errorf("uri = %q, want %q", result.Contents[0].URI, dailyBoardURI)
	}
	if result.Contents[0].MIMEType != "application/json" {
		t.Errorf("mime type = %q, want application/json", result.Contents[0].MIMEType)
	}

	var payload DailyBoardPayload
	if err := json.Unmarshal([]byte(result.Contents[0].Text), &payload); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if payload.Date != testNow.Format(storage.DateLayout) {
		t.Errorf("date = %q, want %q", payload.Date, testNow.Format(storage.DateLayout))
	}
	if len(payload.Assignments) != 1 {
		t.Fatalf("got %d assignments, want 1", len(payload.Assignments))
	}
	if payload.Assignments[0].GameType != "hanoi" || payload.Assignments[0].PuzzleID != "h1" {
		t.Errorf("assignment = %+v, want hanoi/h1", payload.Assignments[0])
	}
}

func TestReadDailyBoardEmpty(t *testing.T) {
	svc, _ := newCatalogService(t)

	result, err := readDailyBoard(context.Background(), svc, dailyBoardURI)
	if err != nil {
		t.Fatalf("read daily board: %v", err)
	}

	var payload DailyBoardPayload
	if err := json.Unmarshal([]byte(result.Contents[0].Text), &payload); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if payload.Assignments == nil {
		t.Error("assignments must render as an empty list, not null")
	}
	if len(payload.Assignments) != 0 {
		t.Errorf("got %d assignments, want 0", len(payload.Assignments))
	}
}

func TestReadCatalogListing(t *testing.T) {
	svc, store := newCatalogService(t)
	seedPuzzle(t, store, "h1", puzzle.GameTypeHanoi, hanoiPayload)
	seedPuzzle(t, store, "s1", puzzle.GameTypeSimon, `{"colorCount":4,"targetLength":5}`)

	t.Run("scopes to game type", func(t *testing.T) {
		result, err := readCatalogListing(context.Background(), svc, "puzzles://catalog/hanoi")
		if err != nil {
			t.Fatalf("read catalog listing: %v", err)
		}

		var payload CatalogListPayload
		if err := json.Unmarshal([]byte(result.Contents[0].Text), &payload); err != nil {
			t.Fatalf("unmarshal payload: %v", err)
		}
		if payload.GameType != "hanoi" {
			t.Errorf("game_type = %q, want hanoi", payload.GameType)
		}
		if len(payload.Puzzles) != 1 || payload.Puzzles[0].ID != "h1" {
			t.Errorf("puzzles = %+v, want single h1", payload.Puzzles)
		}
	})

	t.Run("unknown slug", func(t *testing.T) {
		if _, err := readCatalogListing(context.Background(), svc, "puzzles://catalog/chess"); err == nil {
			t.Fatal("expected error for unknown game type")
		}
	})

	t.Run("malformed uri", func(t *testing.T) {
		if _, err := readCatalogListing(context.Background(), svc, "puzzles://daily"); err == nil {
			t.Fatal("expected error for non-catalog URI")
		}
	})

	t.Run("nil service", func(t *testing.T) {
		if _, err := readCatalogListing(context.Background(), nil, "puzzles://catalog/hanoi"); err == nil {
			t.Fatal("expected error for missing service")
		}
	})
}
