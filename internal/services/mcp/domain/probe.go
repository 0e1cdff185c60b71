package domain

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/puzzlebox-games/puzzlebox/internal/content"
	"github.com/puzzlebox-games/puzzlebox/internal/puzzle"
	"github.com/puzzlebox-games/puzzlebox/internal/puzzle/variants"
)

// ProbeInput represents the MCP tool input for an engine probe.
type ProbeInput struct {
	GameType   string `json:"game_type" jsonschema:"game type slug"`
	Difficulty string `json:"difficulty,omitempty" jsonschema:"difficulty slug, optional"`
	Payload    string `json:"payload" jsonschema:"puzzle content document as JSON text"`
	Seed       *int64 `json:"seed,omitempty" jsonschema:"fixed engine seed for reproducible generation"`
}

// ProbeResult represents the MCP tool output for an engine probe.
type ProbeResult struct {
	GameType  string `json:"game_type" jsonschema:"game type slug"`
	Complete  bool   `json:"complete" jsonschema:"whether the freshly loaded puzzle is already solved"`
	MoveCount int    `json:"move_count" jsonschema:"move counter after load, always 0 for a fresh board"`
	CanUndo   bool   `json:"can_undo" jsonschema:"whether this game type supports undo"`
	State     string `json:"state" jsonschema:"rendered engine state as JSON text"`
}

// ProbeTool defines the MCP tool schema for engine probes.
func ProbeTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "engine_probe",
		Description: "Loads a payload into its puzzle engine and reports the derived state, as smoke validation for authored content",
	}
}

// ProbeHandler builds a variant from the payload and renders its state.
// The probe never touches the catalog, so authors can validate content
// before importing it.
func ProbeHandler() mcp.ToolHandlerFor[ProbeInput, ProbeResult] {
	return func(_ context.Context, _ *mcp.CallToolRequest, input ProbeInput) (*mcp.CallToolResult, ProbeResult, error) {
		gameType, err := parseGameTypeSlug(input.GameType)
		if err != nil {
			return nil, ProbeResult{}, err
		}
		difficulty := puzzle.DifficultyUnspecified
		if strings.TrimSpace(input.Difficulty) != "" {
			difficulty, err = puzzle.ParseDifficulty(strings.TrimSpace(input.Difficulty))
			if err != nil {
				return nil, ProbeResult{}, fmt.Errorf("parse difficulty: %w", err)
			}
		}

		desc := content.Descriptor{ID: "probe", GameType: gameType, Difficulty: difficulty}
		var variant puzzle.Variant
		if input.Seed != nil {
			variant, err = variants.BuildSeeded(desc, []byte(input.Payload), *input.Seed)
		} else {
			variant, err = variants.Build(desc, []byte(input.Payload))
		}
		if err != nil {
			return nil, ProbeResult{}, fmt.Errorf("build variant: %w", err)
		}

		view, err := variants.View(variant)
		if err != nil {
			return nil, ProbeResult{}, fmt.Errorf("render state: %w", err)
		}
		state, err := json.Marshal(view)
		if err != nil {
			return nil, ProbeResult{}, fmt.Errorf("encode state: %w", err)
		}
		return nil, ProbeResult{
			GameType:  view.Envelope.GameType,
			Complete:  view.Envelope.Complete,
			MoveCount: view.Envelope.MoveCount,
			CanUndo:   view.CanUndo,
			State:     string(state),
		}, nil
	}
}

func parseGameTypeSlug(slug string) (puzzle.GameType, error) {
	gameType, err := puzzle.ParseGameType(strings.TrimSpace(slug))
	if err != nil {
		return puzzle.GameTypeUnspecified, fmt.Errorf("parse game type: %w", err)
	}
	return gameType, nil
}
