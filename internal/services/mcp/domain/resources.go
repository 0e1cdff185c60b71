package domain

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	catalog "github.com/puzzlebox-games/puzzlebox/internal/services/catalog/domain"
)

const (
	dailyBoardURI        = "puzzles://daily"
	catalogURIPrefix     = "puzzles://catalog/"
	catalogURITemplate   = "puzzles://catalog/{game_type}"
	resourceListPageSize = 50
)

// DailyAssignmentEntry represents one daily slot in the board payload.
type DailyAssignmentEntry struct {
	GameType   string `json:"game_type"`
	PuzzleID   string `json:"puzzle_id"`
	AssignedAt string `json:"assigned_at"`
}

// DailyBoardPayload represents the MCP resource payload for the daily board.
type DailyBoardPayload struct {
	Date        string                 `json:"date"`
	Assignments []DailyAssignmentEntry `json:"assignments"`
}

// CatalogListPayload represents the MCP resource payload for one game
// type's catalog listing.
type CatalogListPayload struct {
	GameType      string            `json:"game_type"`
	Puzzles       []PuzzleListEntry `json:"puzzles"`
	NextPageToken string            `json:"next_page_token,omitempty"`
}

// DailyBoardResource defines the MCP resource for today's daily board.
func DailyBoardResource() *mcp.Resource {
	return &mcp.Resource{
		Name:        "daily_board",
		Title:       "Daily Puzzles",
		Description: "Readable board of today's daily puzzle assignments across all game types",
		MIMEType:    "application/json",
		URI:         dailyBoardURI,
	}
}

// CatalogResourceTemplate defines the MCP resource template for per-type
// catalog listings.
func CatalogResourceTemplate() *mcp.ResourceTemplate {
	return &mcp.ResourceTemplate{
		Name:        "catalog_by_type",
		Title:       "Catalog by Game Type",
		Description: "Readable catalog listing for one game type. URI format: puzzles://catalog/{game_type}",
		MIMEType:    "application/json",
		URITemplate: catalogURITemplate,
	}
}

// DailyBoardResourceHandler returns the daily board for today in UTC.
func DailyBoardResourceHandler(svc *catalog.Service) mcp.ResourceHandler {
	return func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		uri := dailyBoardURI
		if req != nil && req.Params != nil && req.Params.URI != "" {
			uri = req.Params.URI
		}
		return readDailyBoard(ctx, svc, uri)
	}
}

// CatalogResourceHandler returns a catalog listing scoped to the game
// type named in the resource URI.
func CatalogResourceHandler(svc *catalog.Service) mcp.ResourceHandler {
	return func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		if req == nil || req.Params == nil || req.Params.URI == "" {
			return nil, fmt.Errorf("game type is required; use URI format %s", catalogURITemplate)
		}
		return readCatalogListing(ctx, svc, req.Params.URI)
	}
}

func readDailyBoard(ctx context.Context, svc *catalog.Service, uri string) (*mcp.ReadResourceResult, error) {
	if svc == nil {
		return nil, fmt.Errorf("catalog service is not configured")
	}

	date, assignments, err := svc.DailyBoard(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("daily board: %w", err)
	}

	payload := DailyBoardPayload{Date: date, Assignments: []DailyAssignmentEntry{}}
	for _, assignment := range assignments {
		payload.Assignments = append(payload.Assignments, DailyAssignmentEntry{
			GameType:   assignment.GameType.String(),
			PuzzleID:   assignment.PuzzleID,
			AssignedAt: assignment.AssignedAt.UTC().Format(time.RFC3339),
		})
	}
	return resourceResult(uri, payload)
}

func readCatalogListing(ctx context.Context, svc *catalog.Service, uri string) (*mcp.ReadResourceResult, error) {
	if svc == nil {
		return nil, fmt.Errorf("catalog service is not configured")
	}

	slug, err := parseGameTypeFromURI(uri)
	if err != nil {
		return nil, fmt.Errorf("parse game type from URI: %w", err)
	}
	gameType, err := parseGameTypeSlug(slug)
	if err != nil {
		return nil, err
	}

	page, err := svc.ListPuzzles(ctx, fmt.Sprintf("game_type = %q", gameType.String()), "", resourceListPageSize, "")
	if err != nil {
		return nil, fmt.Errorf("list puzzles: %w", err)
	}

	return resourceResult(uri, CatalogListPayload{
		GameType:      gameType.String(),
		Puzzles:       toListEntries(page.Puzzles),
		NextPageToken: page.NextPageToken,
	})
}

func resourceResult(uri string, payload any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal resource payload: %w", err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{
			{
				URI:      uri,
				MIMEType: "application/json",
				Text:     string(data),
			},
		},
	}, nil
}

// parseGameTypeFromURI extracts the game type slug from a URI of the
// form puzzles://catalog/{game_type}.
func parseGameTypeFromURI(uri string) (string, error) {
	trimmed := strings.TrimSpace(uri)
	if !strings.HasPrefix(trimmed, catalogURIPrefix) {
		return "", fmt.Errorf("URI %q does not match %s", uri, catalogURITemplate)
	}
	slug := strings.TrimPrefix(trimmed, catalogURIPrefix)
	if slug == "" || strings.Contains(slug, "/") {
		return "", fmt.Errorf("URI %q does not name a game type", uri)
	}
	return slug, nil
}
