// Package domain defines the MCP tool and resource surface for the
// puzzle catalog. Handlers wrap the in-process catalog service, so the
// stdio authoring transport and the hosted HTTP transport share one
// code path instead of dialing a remote API.
package domain

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	catalog "github.com/puzzlebox-games/puzzlebox/internal/services/catalog/domain"
	"github.com/puzzlebox-games/puzzlebox/internal/services/catalog/storage"
)

// PuzzleGetInput represents the MCP tool input for fetching one puzzle.
type PuzzleGetInput struct {
	PuzzleID string `json:"puzzle_id" jsonschema:"catalog puzzle identifier"`
}

// PuzzleGetResult represents the MCP tool output for a single puzzle.
type PuzzleGetResult struct {
	ID           string `json:"id" jsonschema:"catalog puzzle identifier"`
	GameType     string `json:"game_type" jsonschema:"game type slug (sudoku, nonogram, ...)"`
	Difficulty   string `json:"difficulty" jsonschema:"difficulty slug (easy, medium, hard, expert)"`
	AssignedDate string `json:"assigned_date,omitempty" jsonschema:"most recent civil date this puzzle served as a daily"`
	CreatedAt    string `json:"created_at" jsonschema:"RFC3339 timestamp when the puzzle was imported"`
	Payload      string `json:"payload" jsonschema:"puzzle content document as JSON text"`
}

// PuzzleListInput represents the MCP tool input for catalog listings.
type PuzzleListInput struct {
	Filter    string `json:"filter,omitempty" jsonschema:"AIP-160 filter over game_type, difficulty, and assigned_date"`
	OrderBy   string `json:"order_by,omitempty" jsonschema:"listing order, id (default) or id desc"`
	PageSize  int    `json:"page_size,omitempty" jsonschema:"maximum puzzles per page (default 50, cap 200)"`
	PageToken string `json:"page_token,omitempty" jsonschema:"opaque token from a previous page"`
}

// PuzzleListEntry represents one catalog listing row. Payloads are
// omitted from listings to keep pages light.
type PuzzleListEntry struct {
	ID           string `json:"id"`
	GameType     string `json:"game_type"`
	Difficulty   string `json:"difficulty"`
	AssignedDate string `json:"assigned_date,omitempty"`
	CreatedAt    string `json:"created_at"`
}

// PuzzleListResult represents the MCP tool output for catalog listings.
type PuzzleListResult struct {
	Puzzles       []PuzzleListEntry `json:"puzzles" jsonschema:"one page of catalog puzzles"`
	NextPageToken string            `json:"next_page_token,omitempty" jsonschema:"token for the next page, empty on the last page"`
}

// DailyPuzzleInput represents the MCP tool input for daily lookups.
type DailyPuzzleInput struct {
	GameType string `json:"game_type" jsonschema:"game type slug"`
	Date     string `json:"date,omitempty" jsonschema:"civil date YYYY-MM-DD, defaults to today in UTC"`
}

// DailyPuzzleResult represents the MCP tool output for daily lookups.
type DailyPuzzleResult struct {
	Date       string `json:"date" jsonschema:"civil date the assignment covers"`
	GameType   string `json:"game_type" jsonschema:"game type slug"`
	PuzzleID   string `json:"puzzle_id" jsonschema:"assigned catalog puzzle identifier"`
	AssignedAt string `json:"assigned_at" jsonschema:"RFC3339 timestamp when the assignment was made"`
	Difficulty string `json:"difficulty" jsonschema:"difficulty slug of the assigned puzzle"`
	Payload    string `json:"payload" jsonschema:"puzzle content document as JSON text"`
}

// PuzzleImportInput represents the MCP tool input for authoring imports.
type PuzzleImportInput struct {
	Grant      string `json:"grant" jsonschema:"authoring grant JWT with content:write scope"`
	GameType   string `json:"game_type" jsonschema:"game type slug"`
	Difficulty string `json:"difficulty" jsonschema:"difficulty slug"`
	Payload    string `json:"payload" jsonschema:"puzzle content document as JSON text"`
}

// PuzzleImportResult represents the MCP tool output for authoring imports.
type PuzzleImportResult struct {
	ID         string `json:"id" jsonschema:"catalog puzzle identifier"`
	GameType   string `json:"game_type" jsonschema:"game type slug"`
	Difficulty string `json:"difficulty" jsonschema:"difficulty slug"`
	CreatedAt  string `json:"created_at" jsonschema:"RFC3339 timestamp when the puzzle was imported"`
}

// PuzzleGetTool defines the MCP tool schema for fetching one puzzle.
func PuzzleGetTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "catalog_get_puzzle",
		Description: "Fetches one catalog puzzle with its content payload",
	}
}

// PuzzleListTool defines the MCP tool schema for catalog listings.
func PuzzleListTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "catalog_list_puzzles",
		Description: "Lists catalog puzzles with AIP-160 filtering and cursor paging",
	}
}

// DailyPuzzleTool defines the MCP tool schema for daily lookups.
func DailyPuzzleTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "catalog_daily_puzzle",
		Description: "Resolves the daily puzzle for a game type and date",
	}
}

// PuzzleImportTool defines the MCP tool schema for authoring imports.
func PuzzleImportTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "catalog_import_puzzle",
		Description: "Imports an authored puzzle into the catalog (requires an authoring grant)",
	}
}

// PuzzleGetHandler fetches one puzzle from the catalog service.
func PuzzleGetHandler(svc *catalog.Service) mcp.ToolHandlerFor[PuzzleGetInput, PuzzleGetResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input PuzzleGetInput) (*mcp.CallToolResult, PuzzleGetResult, error) {
		record, err := svc.GetPuzzle(ctx, input.PuzzleID)
		if err != nil {
			return nil, PuzzleGetResult{}, fmt.Errorf("get puzzle: %w", err)
		}
		return nil, PuzzleGetResult{
			ID:           record.ID,
			GameType:     record.GameType.String(),
			Difficulty:   record.Difficulty.String(),
			AssignedDate: record.AssignedDate,
			CreatedAt:    record.CreatedAt.UTC().Format(time.RFC3339),
			Payload:      string(record.Payload),
		}, nil
	}
}

// PuzzleListHandler lists catalog puzzles through the catalog service.
func PuzzleListHandler(svc *catalog.Service) mcp.ToolHandlerFor[PuzzleListInput, PuzzleListResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input PuzzleListInput) (*mcp.CallToolResult, PuzzleListResult, error) {
		page, err := svc.ListPuzzles(ctx, input.Filter, input.OrderBy, input.PageSize, input.PageToken)
		if err != nil {
			return nil, PuzzleListResult{}, fmt.Errorf("list puzzles: %w", err)
		}
		return nil, PuzzleListResult{
			Puzzles:       toListEntries(page.Puzzles),
			NextPageToken: page.NextPageToken,
		}, nil
	}
}

// DailyPuzzleHandler resolves the daily assignment for one game type.
func DailyPuzzleHandler(svc *catalog.Service) mcp.ToolHandlerFor[DailyPuzzleInput, DailyPuzzleResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input DailyPuzzleInput) (*mcp.CallToolResult, DailyPuzzleResult, error) {
		gameType, err := parseGameTypeSlug(input.GameType)
		if err != nil {
			return nil, DailyPuzzleResult{}, err
		}
		assignment, record, err := svc.DailyPuzzle(ctx, input.Date, gameType)
		if err != nil {
			return nil, DailyPuzzleResult{}, fmt.Errorf("daily puzzle: %w", err)
		}
		return nil, DailyPuzzleResult{
			Date:       assignment.Date,
			GameType:   assignment.GameType.String(),
			PuzzleID:   assignment.PuzzleID,
			AssignedAt: assignment.AssignedAt.UTC().Format(time.RFC3339),
			Difficulty: record.Difficulty.String(),
			Payload:    string(record.Payload),
		}, nil
	}
}

// PuzzleImportHandler validates the authoring grant and payload, then
// stores the puzzle. Grant checks stay inside the catalog service so
// every import path enforces them identically.
func PuzzleImportHandler(svc *catalog.Service) mcp.ToolHandlerFor[PuzzleImportInput, PuzzleImportResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input PuzzleImportInput) (*mcp.CallToolResult, PuzzleImportResult, error) {
		record, err := svc.ImportPuzzle(ctx, input.Grant, catalog.ImportInput{
			GameType:   input.GameType,
			Difficulty: input.Difficulty,
			Payload:    json.RawMessage(input.Payload),
		})
		if err != nil {
			return nil, PuzzleImportResult{}, fmt.Errorf("import puzzle: %w", err)
		}
		return nil, PuzzleImportResult{
			ID:         record.ID,
			GameType:   record.GameType.String(),
			Difficulty: record.Difficulty.String(),
			CreatedAt:  record.CreatedAt.UTC().Format(time.RFC3339),
		}, nil
	}
}

func toListEntries(records []storage.PuzzleRecord) []PuzzleListEntry {
	entries := make([]PuzzleListEntry, 0, len(records))
	for _, record := range records {
		entries = append(entries, PuzzleListEntry{
			ID:           record.ID,
			GameType:     record.GameType.String(),
			Difficulty:   record.Difficulty.String(),
			AssignedDate: record.AssignedDate,
			CreatedAt:    record.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return entries
}
