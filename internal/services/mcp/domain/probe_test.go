package domain

import (
	"context"
	"encoding/json"
	"testing"
)

func TestProbeHandler(t *testing.T) {
	handler := ProbeHandler()

	t.Run("reports hanoi state", func(t *testing.T) {
		_, result, err := handler(context.Background(), nil, ProbeInput{
			GameType: "hanoi",
			Payload:  hanoiPayload,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.GameType != "hanoi" {
			t.Errorf("game_type = %q, want hanoi", result.GameType)
		}
		if result.Complete {
			t.Error("fresh board must not be complete")
		}
		if result.MoveCount != 0 {
			t.Errorf("move_count = %d, want 0", result.MoveCount)
		}
		if result.CanUndo {
			t.Error("hanoi does not support undo")
		}

		var state struct {
			Envelope struct {
				GameType string `json:"game_type"`
			} `json:"envelope"`
			Game map[string]any `json:"game"`
		}
		if err := json.Unmarshal([]byte(result.State), &state); err != nil {
			t.Fatalf("state is not JSON: %v", err)
		}
		if state.Envelope.GameType != "hanoi" {
			t.Errorf("state game_type = %q, want hanoi", state.Envelope.GameType)
		}
		if _, ok := state.Game["pegs"]; !ok {
			t.Error("expected pegs in rendered hanoi state")
		}
	})

	t.Run("seeded ball sort supports undo", func(t *testing.T) {
		seed := int64(7)
		_, result, err := handler(context.Background(), nil, ProbeInput{
			GameType:   "ball_sort",
			Difficulty: "easy",
			Payload:    `{"tubeCount":3,"tubeCapacity":2,"initialState":[["red","blue"],["blue","red"],[]]}`,
			Seed:       &seed,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.CanUndo {
			t.Error("ball sort supports undo")
		}
	})

	t.Run("unknown game type", func(t *testing.T) {
		_, _, err := handler(context.Background(), nil, ProbeInput{GameType: "chess", Payload: "{}"})
		if err == nil {
			t.Fatal("expected error for unknown game type")
		}
	})

	t.Run("unknown difficulty", func(t *testing.T) {
		_, _, err := handler(context.Background(), nil, ProbeInput{
			GameType:   "hanoi",
			Difficulty: "impossible",
			Payload:    hanoiPayload,
		})
		if err == nil {
			t.Fatal("expected error for unknown difficulty")
		}
	})

	t.Run("malformed payload", func(t *testing.T) {
		_, _, err := handler(context.Background(), nil, ProbeInput{GameType: "hanoi", Payload: `{"diskCount":`})
		if err == nil {
			t.Fatal("expected error for malformed payload")
		}
	})

	t.Run("out of range payload", func(t *testing.T) {
		_, _, err := handler(context.Background(), nil, ProbeInput{GameType: "hanoi", Payload: `{"diskCount":0,"pegCount":3}`})
		if err == nil {
			t.Fatal("expected error for out of range payload")
		}
	})
}
