// Package sqlite provides a SQLite-backed catalog storage implementation.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"github.com/puzzlebox-games/puzzlebox/internal/platform/storage/sqlitemigrate"
	"github.com/puzzlebox-games/puzzlebox/internal/puzzle"
	"github.com/puzzlebox-games/puzzlebox/internal/services/catalog/storage"
	"github.com/puzzlebox-games/puzzlebox/internal/services/catalog/storage/cursor"
	"github.com/puzzlebox-games/puzzlebox/internal/services/catalog/storage/sqlite/migrations"
)

// Store persists catalog state in SQLite.
type Store struct {
	sqlDB *sql.DB
}

type scanner func(dest ...any) error

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens a SQLite catalog store and applies embedded migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := sqlitemigrate.ApplyMigrations(ctx, sqlDB, migrations.FS, ""); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// CreatePuzzle inserts one puzzle record.
func (s *Store) CreatePuzzle(ctx context.Context, record storage.PuzzleRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	id := strings.TrimSpace(record.ID)
	if id == "" {
		return fmt.Errorf("puzzle id is required")
	}
	if record.GameType == puzzle.GameTypeUnspecified {
		return fmt.Errorf("game type is required")
	}
	if record.Difficulty == puzzle.DifficultyUnspecified {
		return fmt.Errorf("difficulty is required")
	}
	if len(record.Payload) == 0 {
		return fmt.Errorf("payload is required")
	}
	assignedDate := strings.TrimSpace(record.AssignedDate)
	if assignedDate != "" {
		if _, err := time.Parse(storage.DateLayout, assignedDate); err != nil {
			return fmt.Errorf("assigned date must use %s: %q", storage.DateLayout, record.AssignedDate)
		}
	}
	createdAt := record.CreatedAt.UTC()
	updatedAt := record.UpdatedAt.UTC()
	if createdAt.IsZero() && updatedAt.IsZero() {
		createdAt = time.Now().UTC()
		updatedAt = createdAt
	} else {
		if createdAt.IsZero() {
			createdAt = updatedAt
		}
		if updatedAt.IsZero() {
			updatedAt = createdAt
		}
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO puzzles (
		   id,
		   game_type,
		   difficulty,
		   payload,
		   assigned_date,
		   created_at,
		   updated_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id,
		record.GameType.String(),
		record.Difficulty.String(),
		record.Payload,
		assignedDate,
		toMillis(createdAt),
		toMillis(updatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("create puzzle: %w", err)
	}
	return nil
}

// GetPuzzle returns one puzzle by ID.
func (s *Store) GetPuzzle(ctx context.Context, id string) (storage.PuzzleRecord, error) {
	if err := ctx.Err(); err != nil {
		return storage.PuzzleRecord{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.PuzzleRecord{}, fmt.Errorf("storage is not configured")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return storage.PuzzleRecord{}, fmt.Errorf("puzzle id is required")
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT id, game_type, difficulty, payload, assigned_date, created_at, updated_at
		   FROM puzzles
		  WHERE id = ?`,
		id,
	)
	record, err := scanPuzzleRecord(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.PuzzleRecord{}, storage.ErrNotFound
		}
		return storage.PuzzleRecord{}, fmt.Errorf("get puzzle: %w", err)
	}
	return record, nil
}

// ListPuzzles returns one page of puzzle records matching the query.
func (s *Store) ListPuzzles(ctx context.Context, query storage.ListQuery) (storage.PuzzlePage, error) {
	if err := ctx.Err(); err != nil {
		return storage.PuzzlePage{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.PuzzlePage{}, fmt.Errorf("storage is not configured")
	}
	if query.PageSize <= 0 {
		return storage.PuzzlePage{}, fmt.Errorf("page size must be greater than zero")
	}

	var clauses []string
	var params []any
	if query.Condition.Clause != "" {
		clauses = append(clauses, query.Condition.Clause)
		params = append(params, query.Condition.Params...)
	}

	keysetOp, orderDir := "id > ?", "ASC"
	if query.Descending {
		keysetOp, orderDir = "id < ?", "DESC"
	}

	pageToken := strings.TrimSpace(query.PageToken)
	if pageToken != "" {
		c, err := cursor.Decode(pageToken)
		if err != nil {
			return storage.PuzzlePage{}, fmt.Errorf("invalid page token: %w", err)
		}
		if err := cursor.ValidateFilterHash(c, query.Filter); err != nil {
			return storage.PuzzlePage{}, fmt.Errorf("invalid page token: %w", err)
		}
		if err := cursor.ValidateDirection(c, query.Descending); err != nil {
			return storage.PuzzlePage{}, fmt.Errorf("invalid page token: %w", err)
		}
		clauses = append(clauses, keysetOp)
		params = append(params, c.LastID)
	}

	querySQL := `SELECT id, game_type, difficulty, payload, assigned_date, created_at, updated_at
	   FROM puzzles`
	if len(clauses) > 0 {
		querySQL += "\n\t  WHERE " + strings.Join(clauses, " AND ")
	}
	querySQL += "\n\t  ORDER BY id " + orderDir + "\n\t  LIMIT ?"
	params = append(params, query.PageSize+1)

	rows, err := s.sqlDB.QueryContext(ctx, querySQL, params...)
	if err != nil {
		return storage.PuzzlePage{}, fmt.Errorf("list puzzles: %w", err)
	}
	defer rows.Close()

	page := storage.PuzzlePage{
		Puzzles: make([]storage.PuzzleRecord, 0, query.PageSize),
	}
	for rows.Next() {
		record, err := scanPuzzleRecord(rows.Scan)
		if err != nil {
			return storage.PuzzlePage{}, fmt.Errorf("list puzzles: %w", err)
		}
		page.Puzzles = append(page.Puzzles, record)
	}
	if err := rows.Err(); err != nil {
		return storage.PuzzlePage{}, fmt.Errorf("list puzzles: %w", err)
	}
	if len(page.Puzzles) > query.PageSize {
		page.Puzzles = page.Puzzles[:query.PageSize]
		token, err := cursor.Encode(cursor.NextPage(page.Puzzles[query.PageSize-1].ID, query.Filter, query.Descending))
		if err != nil {
			return storage.PuzzlePage{}, fmt.Errorf("encode page token: %w", err)
		}
		page.NextPageToken = token
	}
	return page, nil
}

// CountPuzzles counts puzzles of one game type, or all puzzles when the
// game type is unspecified.
func (s *Store) CountPuzzles(ctx context.Context, gameType puzzle.GameType) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if s == nil || s.sqlDB == nil {
		return 0, fmt.Errorf("storage is not configured")
	}

	var row *sql.Row
	if gameType == puzzle.GameTypeUnspecified {
		row = s.sqlDB.QueryRowContext(ctx, `SELECT COUNT(*) FROM puzzles`)
	} else {
		row = s.sqlDB.QueryRowContext(ctx, `SELECT COUNT(*) FROM puzzles WHERE game_type = ?`, gameType.String())
	}
	var count int
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("count puzzles: %w", err)
	}
	return count, nil
}

// AssignDaily records a daily assignment and stamps the puzzle's
// assigned date in the same transaction.
func (s *Store) AssignDaily(ctx context.Context, assignment storage.DailyAssignment) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	date := strings.TrimSpace(assignment.Date)
	if _, err := time.Parse(storage.DateLayout, date); err != nil {
		return fmt.Errorf("date must use %s: %q", storage.DateLayout, assignment.Date)
	}
	if assignment.GameType == puzzle.GameTypeUnspecified {
		return fmt.Errorf("game type is required")
	}
	puzzleID := strings.TrimSpace(assignment.PuzzleID)
	if puzzleID == "" {
		return fmt.Errorf("puzzle id is required")
	}
	assignedAt := assignment.AssignedAt.UTC()
	if assignedAt.IsZero() {
		assignedAt = time.Now().UTC()
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin assign daily: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var gotType string
	row := tx.QueryRowContext(ctx, `SELECT game_type FROM puzzles WHERE id = ?`, puzzleID)
	if err := row.Scan(&gotType); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.ErrNotFound
		}
		return fmt.Errorf("assign daily: %w", err)
	}
	if gotType != assignment.GameType.String() {
		return fmt.Errorf("puzzle %s is a %s puzzle, not %s", puzzleID, gotType, assignment.GameType)
	}

	if _, err := tx.ExecContext(
		ctx,
		`INSERT INTO daily_assignments (date, game_type, puzzle_id, assigned_at)
		 VALUES (?, ?, ?, ?)`,
		date,
		assignment.GameType.String(),
		puzzleID,
		toMillis(assignedAt),
	); err != nil {
		if isUniqueViolation(err) {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("assign daily: %w", err)
	}

	// MAX keeps the stamp monotonic when a past date is backfilled.
	if _, err := tx.ExecContext(
		ctx,
		`UPDATE puzzles SET assigned_date = MAX(assigned_date, ?), updated_at = ? WHERE id = ?`,
		date,
		toMillis(assignedAt),
		puzzleID,
	); err != nil {
		return fmt.Errorf("stamp assigned date: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit assign daily: %w", err)
	}
	return nil
}

// GetDailyAssignment returns the assignment for one date and game type.
func (s *Store) GetDailyAssignment(ctx context.Context, date string, gameType puzzle.GameType) (storage.DailyAssignment, error) {
	if err := ctx.Err(); err != nil {
		return storage.DailyAssignment{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.DailyAssignment{}, fmt.Errorf("storage is not configured")
	}
	date = strings.TrimSpace(date)
	if _, err := time.Parse(storage.DateLayout, date); err != nil {
		return storage.DailyAssignment{}, fmt.Errorf("date must use %s: %q", storage.DateLayout, date)
	}
	if gameType == puzzle.GameTypeUnspecified {
		return storage.DailyAssignment{}, fmt.Errorf("game type is required")
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT date, game_type, puzzle_id, assigned_at
		   FROM daily_assignments
		  WHERE date = ? AND game_type = ?`,
		date,
		gameType.String(),
	)
	assignment, err := scanDailyAssignment(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.DailyAssignment{}, storage.ErrNotFound
		}
		return storage.DailyAssignment{}, fmt.Errorf("get daily assignment: %w", err)
	}
	return assignment, nil
}

// ListDailyAssignments returns every assignment for one date ordered by
// game type slug.
func (s *Store) ListDailyAssignments(ctx context.Context, date string) ([]storage.DailyAssignment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	date = strings.TrimSpace(date)
	if _, err := time.Parse(storage.DateLayout, date); err != nil {
		return nil, fmt.Errorf("date must use %s: %q", storage.DateLayout, date)
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT date, game_type, puzzle_id, assigned_at
		   FROM daily_assignments
		  WHERE date = ?
		  ORDER BY game_type ASC`,
		date,
	)
	if err != nil {
		return nil, fmt.Errorf("list daily assignments: %w", err)
	}
	defer rows.Close()

	var assignments []storage.DailyAssignment
	for rows.Next() {
		assignment, err := scanDailyAssignment(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("list daily assignments: %w", err)
		}
		assignments = append(assignments, assignment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list daily assignments: %w", err)
	}
	return assignments, nil
}

// NextDailyCandidate returns the least recently assigned puzzle of one
// game type, breaking ties by ID.
func (s *Store) NextDailyCandidate(ctx context.Context, gameType puzzle.GameType) (storage.PuzzleRecord, error) {
	if err := ctx.Err(); err != nil {
		return storage.PuzzleRecord{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.PuzzleRecord{}, fmt.Errorf("storage is not configured")
	}
	if gameType == puzzle.GameTypeUnspecified {
		return storage.PuzzleRecord{}, fmt.Errorf("game type is required")
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT id, game_type, difficulty, payload, assigned_date, created_at, updated_at
		   FROM puzzles
		  WHERE game_type = ?
		  ORDER BY assigned_date ASC, id ASC
		  LIMIT 1`,
		gameType.String(),
	)
	record, err := scanPuzzleRecord(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.PuzzleRecord{}, storage.ErrNotFound
		}
		return storage.PuzzleRecord{}, fmt.Errorf("next daily candidate: %w", err)
	}
	return record, nil
}

func scanPuzzleRecord(scan scanner) (storage.PuzzleRecord, error) {
	var record storage.PuzzleRecord
	var gameType string
	var difficulty string
	var createdAt int64
	var updatedAt int64
	if err := scan(
		&record.ID,
		&gameType,
		&difficulty,
		&record.Payload,
		&record.AssignedDate,
		&createdAt,
		&updatedAt,
	); err != nil {
		return storage.PuzzleRecord{}, err
	}
	parsedType, err := puzzle.ParseGameType(gameType)
	if err != nil {
		return storage.PuzzleRecord{}, fmt.Errorf("stored game type: %w", err)
	}
	parsedDifficulty, err := puzzle.ParseDifficulty(difficulty)
	if err != nil {
		return storage.PuzzleRecord{}, fmt.Errorf("stored difficulty: %w", err)
	}
	record.GameType = parsedType
	record.Difficulty = parsedDifficulty
	record.CreatedAt = fromMillis(createdAt)
	record.UpdatedAt = fromMillis(updatedAt)
	return record, nil
}

func scanDailyAssignment(scan scanner) (storage.DailyAssignment, error) {
	var assignment storage.DailyAssignment
	var gameType string
	var assignedAt int64
	if err := scan(
		&assignment.Date,
		&gameType,
		&assignment.PuzzleID,
		&assignedAt,
	); err != nil {
		return storage.DailyAssignment{}, err
	}
	parsedType, err := puzzle.ParseGameType(gameType)
	if err != nil {
		return storage.DailyAssignment{}, fmt.Errorf("stored game type: %w", err)
	}
	assignment.GameType = parsedType
	assignment.AssignedAt = fromMillis(assignedAt)
	return assignment, nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	message := strings.ToLower(err.Error())
	return strings.Contains(message, "unique constraint failed")
}

var _ storage.CatalogStore = (*Store)(nil)
