// Package domain implements catalog operations over puzzle storage.
package domain

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/puzzlebox-games/puzzlebox/internal/content"
	apperrors "github.com/puzzlebox-games/puzzlebox/internal/platform/errors"
	"github.com/puzzlebox-games/puzzlebox/internal/platform/grpc/pagination"
	"github.com/puzzlebox-games/puzzlebox/internal/platform/id"
	"github.com/puzzlebox-games/puzzlebox/internal/puzzle"
	"github.com/puzzlebox-games/puzzlebox/internal/services/catalog/core/filter"
	"github.com/puzzlebox-games/puzzlebox/internal/services/catalog/storage"
	"github.com/puzzlebox-games/puzzlebox/internal/services/catalog/storage/cursor"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200

	orderByID     = "id"
	orderByIDDesc = "id desc"
)

// Service exposes catalog operations shared by the MCP surface, the
// admin CLI, and the scheduler.
type Service struct {
	store storage.CatalogStore
	// grants is nil when authoring grants are not configured, which
	// keeps imports closed.
	grants *GrantConfig
	now    func() time.Time
}

// NewService creates a catalog service. A nil grant config disables
// imports rather than opening them. A nil now falls back to time.Now.
func NewService(store storage.CatalogStore, grants *GrantConfig, now func() time.Time) *Service {
	if now == nil {
		if grants != nil && grants.Now != nil {
			now = grants.Now
		} else {
			now = time.Now
		}
	}
	return &Service{store: store, grants: grants, now: now}
}

// ImportInput carries one authored puzzle into the catalog.
type ImportInput struct {
	GameType   string
	Difficulty string
	Payload    json.RawMessage
}

// GetPuzzle returns one puzzle record by ID.
func (s *Service) GetPuzzle(ctx context.Context, puzzleID string) (storage.PuzzleRecord, error) {
	puzzleID = strings.TrimSpace(puzzleID)
	if puzzleID == "" {
		return storage.PuzzleRecord{}, apperrors.New(apperrors.CodeCatalogEmptyID, "puzzle id is required")
	}
	record, err := s.store.GetPuzzle(ctx, puzzleID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return storage.PuzzleRecord{}, apperrors.WithMetadata(
				apperrors.CodeNotFound,
				"puzzle not found",
				map[string]string{"PuzzleID": puzzleID},
			)
		}
		return storage.PuzzleRecord{}, apperrors.Wrap(apperrors.CodeUnknown, "get puzzle", err)
	}
	return record, nil
}

// ListPuzzles returns one page of puzzles matching an AIP-160 filter.
// orderBy accepts "id" (default) or "id desc".
func (s *Service) ListPuzzles(ctx context.Context, filterExpr, orderBy string, pageSize int, pageToken string) (storage.PuzzlePage, error) {
	if pageSize < 0 {
		return storage.PuzzlePage{}, apperrors.New(apperrors.CodeCatalogInvalidPageSize, "page size must not be negative")
	}
	pageSize = pagination.ClampPageSize(int32(pageSize), pagination.PageSizeConfig{
		Default: defaultPageSize,
		Max:     maxPageSize,
	})

	ordering, err := pagination.NormalizeOrderBy(strings.TrimSpace(orderBy), pagination.OrderByConfig{
		Default: orderByID,
		Allowed: []string{orderByID, orderByIDDesc},
	})
	if err != nil {
		return storage.PuzzlePage{}, apperrors.Wrap(apperrors.CodeCatalogInvalidOrderBy, "parse order_by", err)
	}
	descending := ordering == orderByIDDesc

	filterExpr = strings.TrimSpace(filterExpr)
	condition, err := filter.ParsePuzzleFilter(filterExpr)
	if err != nil {
		return storage.PuzzlePage{}, apperrors.Wrap(apperrors.CodeCatalogInvalidFilter, "parse filter", err)
	}

	pageToken = strings.TrimSpace(pageToken)
	if pageToken != "" {
		decoded, err := cursor.Decode(pageToken)
		if err != nil {
			return storage.PuzzlePage{}, apperrors.Wrap(apperrors.CodeCatalogInvalidPageToken, "decode page token", err)
		}
		if err := cursor.ValidateFilterHash(decoded, filterExpr); err != nil {
			return storage.PuzzlePage{}, apperrors.Wrap(apperrors.CodeCatalogInvalidPageToken, "page token filter", err)
		}
		if err := cursor.ValidateDirection(decoded, descending); err != nil {
			return storage.PuzzlePage{}, apperrors.Wrap(apperrors.CodeCatalogInvalidPageToken, "page token ordering", err)
		}
	}

	page, err := s.store.ListPuzzles(ctx, storage.ListQuery{
		Condition:  condition,
		Filter:     filterExpr,
		PageSize:   pageSize,
		PageToken:  pageToken,
		Descending: descending,
	})
	if err != nil {
		return storage.PuzzlePage{}, apperrors.Wrap(apperrors.CodeUnknown, "list puzzles", err)
	}
	return page, nil
}

// DailyPuzzle resolves the assignment and puzzle for one date and game
// type. An empty date means today in UTC.
func (s *Service) DailyPuzzle(ctx context.Context, date string, gameType puzzle.GameType) (storage.DailyAssignment, storage.PuzzleRecord, error) {
	date, err := s.normalizeDate(date)
	if err != nil {
		return storage.DailyAssignment{}, storage.PuzzleRecord{}, err
	}
	if gameType == puzzle.GameTypeUnspecified {
		return storage.DailyAssignment{}, storage.PuzzleRecord{}, apperrors.New(apperrors.CodeCatalogInvalidGameType, "game type is required")
	}

	assignment, err := s.store.GetDailyAssignment(ctx, date, gameType)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return storage.DailyAssignment{}, storage.PuzzleRecord{}, apperrors.WithMetadata(
				apperrors.CodeNotFound,
				"no daily puzzle assigned",
				map[string]string{"Date": date, "GameType": gameType.String()},
			)
		}
		return storage.DailyAssignment{}, storage.PuzzleRecord{}, apperrors.Wrap(apperrors.CodeUnknown, "get daily assignment", err)
	}

	record, err := s.GetPuzzle(ctx, assignment.PuzzleID)
	if err != nil {
		return storage.DailyAssignment{}, storage.PuzzleRecord{}, err
	}
	return assignment, record, nil
}

// DailyBoard returns every assignment for one date. An empty date means
// today in UTC.
func (s *Service) DailyBoard(ctx context.Context, date string) (string, []storage.DailyAssignment, error) {
	date, err := s.normalizeDate(date)
	if err != nil {
		return "", nil, err
	}
	assignments, err := s.store.ListDailyAssignments(ctx, date)
	if err != nil {
		return "", nil, apperrors.Wrap(apperrors.CodeUnknown, "list daily assignments", err)
	}
	return date, assignments, nil
}

// ImportPuzzle validates an authoring grant and payload, then stores a
// new puzzle record.
func (s *Service) ImportPuzzle(ctx context.Context, grant string, input ImportInput) (storage.PuzzleRecord, error) {
	if s.grants == nil {
		return storage.PuzzleRecord{}, apperrors.New(apperrors.CodeGrantInvalid, "authoring grants are not configured")
	}
	if _, err := ValidateAuthoringGrant(grant, *s.grants); err != nil {
		return storage.PuzzleRecord{}, err
	}

	gameType, err := puzzle.ParseGameType(strings.TrimSpace(input.GameType))
	if err != nil {
		return storage.PuzzleRecord{}, apperrors.Wrap(apperrors.CodeCatalogInvalidGameType, "parse game type", err)
	}
	difficulty, err := puzzle.ParseDifficulty(strings.TrimSpace(input.Difficulty))
	if err != nil {
		return storage.PuzzleRecord{}, apperrors.Wrap(apperrors.CodeCatalogInvalidDifficulty, "parse difficulty", err)
	}
	if err := content.Validate(gameType, input.Payload); err != nil {
		return storage.PuzzleRecord{}, err
	}

	puzzleID, err := id.NewID()
	if err != nil {
		return storage.PuzzleRecord{}, apperrors.Wrap(apperrors.CodeUnknown, "generate puzzle id", err)
	}
	record := storage.PuzzleRecord{
		ID:         puzzleID,
		GameType:   gameType,
		Difficulty: difficulty,
		Payload:    append([]byte(nil), input.Payload...),
	}
	if err := s.store.CreatePuzzle(ctx, record); err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return storage.PuzzleRecord{}, apperrors.New(apperrors.CodeAlreadyExists, "puzzle id collision")
		}
		return storage.PuzzleRecord{}, apperrors.Wrap(apperrors.CodeUnknown, "create puzzle", err)
	}
	return s.store.GetPuzzle(ctx, puzzleID)
}

// AssignDaily pins one puzzle as the daily for a date. Used by the
// scheduler loop and by manual scheduling from the admin CLI.
func (s *Service) AssignDaily(ctx context.Context, date string, gameType puzzle.GameType, puzzleID string) (storage.DailyAssignment, error) {
	date, err := s.normalizeDate(date)
	if err != nil {
		return storage.DailyAssignment{}, err
	}
	if gameType == puzzle.GameTypeUnspecified {
		return storage.DailyAssignment{}, apperrors.New(apperrors.CodeCatalogInvalidGameType, "game type is required")
	}
	puzzleID = strings.TrimSpace(puzzleID)
	if puzzleID == "" {
		return storage.DailyAssignment{}, apperrors.New(apperrors.CodeCatalogEmptyID, "puzzle id is required")
	}

	assignment := storage.DailyAssignment{
		Date:       date,
		GameType:   gameType,
		PuzzleID:   puzzleID,
		AssignedAt: s.now().UTC(),
	}
	if err := s.store.AssignDaily(ctx, assignment); err != nil {
		switch {
		case errors.Is(err, storage.ErrAlreadyExists):
			return storage.DailyAssignment{}, apperrors.WithMetadata(
				apperrors.CodeCatalogDuplicateAssigned,
				"daily puzzle already assigned",
				map[string]string{"Date": date, "GameType": gameType.String()},
			)
		case errors.Is(err, storage.ErrNotFound):
			return storage.DailyAssignment{}, apperrors.WithMetadata(
				apperrors.CodeNotFound,
				"puzzle not found",
				map[string]string{"PuzzleID": puzzleID},
			)
		default:
			return storage.DailyAssignment{}, apperrors.Wrap(apperrors.CodeUnknown, "assign daily", err)
		}
	}
	return assignment, nil
}

// RotateDaily assigns the least recently assigned puzzle of a game type
// to the given date. It is idempotent per date and game type.
func (s *Service) RotateDaily(ctx context.Context, date string, gameType puzzle.GameType) (storage.DailyAssignment, error) {
	date, err := s.normalizeDate(date)
	if err != nil {
		return storage.DailyAssignment{}, err
	}
	if gameType == puzzle.GameTypeUnspecified {
		return storage.DailyAssignment{}, apperrors.New(apperrors.CodeCatalogInvalidGameType, "game type is required")
	}

	if existing, err := s.store.GetDailyAssignment(ctx, date, gameType); err == nil {
		return existing, nil
	} else if !errors.Is(err, storage.ErrNotFound) {
		return storage.DailyAssignment{}, apperrors.Wrap(apperrors.CodeUnknown, "get daily assignment", err)
	}

	candidate, err := s.store.NextDailyCandidate(ctx, gameType)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return storage.DailyAssignment{}, apperrors.WithMetadata(
				apperrors.CodeCatalogNoDailyCandidate,
				"no puzzles available for rotation",
				map[string]string{"GameType": gameType.String()},
			)
		}
		return storage.DailyAssignment{}, apperrors.Wrap(apperrors.CodeUnknown, "next daily candidate", err)
	}

	assignment, err := s.AssignDaily(ctx, date, gameType, candidate.ID)
	if err != nil {
		// A concurrent scheduler may have filled the slot between the
		// existence check and the insert.
		if errors.Is(err, apperrors.New(apperrors.CodeCatalogDuplicateAssigned, "")) {
			return s.currentAssignment(ctx, date, gameType)
		}
		return storage.DailyAssignment{}, err
	}
	return assignment, nil
}

// TypeCount pairs a game type with its catalog size.
type TypeCount struct {
	GameType puzzle.GameType
	Count    int
}

// Counts reports the number of stored puzzles per game type.
func (s *Service) Counts(ctx context.Context) ([]TypeCount, error) {
	counts := make([]TypeCount, 0, len(puzzle.GameTypes()))
	for _, gameType := range puzzle.GameTypes() {
		count, err := s.store.CountPuzzles(ctx, gameType)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.CodeUnknown, "count puzzles", err)
		}
		counts = append(counts, TypeCount{GameType: gameType, Count: count})
	}
	return counts, nil
}

func (s *Service) currentAssignment(ctx context.Context, date string, gameType puzzle.GameType) (storage.DailyAssignment, error) {
	assignment, err := s.store.GetDailyAssignment(ctx, date, gameType)
	if err != nil {
		return storage.DailyAssignment{}, apperrors.Wrap(apperrors.CodeUnknown, "get daily assignment", err)
	}
	return assignment, nil
}

func (s *Service) normalizeDate(date string) (string, error) {
	date = strings.TrimSpace(date)
	if date == "" {
		return s.now().UTC().Format(storage.DateLayout), nil
	}
	if _, err := time.Parse(storage.DateLayout, date); err != nil {
		return "", apperrors.Wrap(apperrors.CodeCatalogInvalidDate, "parse date", err)
	}
	return date, nil
}
