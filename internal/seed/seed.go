// Package seed populates a local catalog database with generated
// sample puzzles for development.
package seed

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/puzzlebox-games/puzzlebox/internal/content"
	"github.com/puzzlebox-games/puzzlebox/internal/platform/id"
	"github.com/puzzlebox-games/puzzlebox/internal/puzzle"
	"github.com/puzzlebox-games/puzzlebox/internal/seed/generator"
	"github.com/puzzlebox-games/puzzlebox/internal/services/catalog/domain"
	"github.com/puzzlebox-games/puzzlebox/internal/services/catalog/storage"
	catalogsqlite "github.com/puzzlebox-games/puzzlebox/internal/services/catalog/storage/sqlite"
)

// Config holds seed run configuration.
type Config struct {
	DBPath  string
	Preset  generator.Preset
	Seed    int64
	PerType int    // Override preset's per-type count (0 = use preset default)
	Date    string // First daily date (default: today, UTC)
	Verbose bool
}

// DefaultConfig returns configuration with common defaults.
func DefaultConfig() Config {
	return Config{
		DBPath: filepath.Join("data", "catalog.db"),
		Preset: generator.PresetDemo,
	}
}

// Run generates sample puzzles for every game type, writes them to the
// catalog database, and assigns daily boards when the preset calls for
// them.
func Run(ctx context.Context, cfg Config) error {
	presetCfg := generator.GetPresetConfig(cfg.Preset)

	perType := presetCfg.PerType
	if cfg.PerType > 0 {
		perType = cfg.PerType
	}

	date := strings.TrimSpace(cfg.Date)
	if date == "" {
		date = time.Now().UTC().Format(storage.DateLayout)
	}
	start, err := time.Parse(storage.DateLayout, date)
	if err != nil {
		return fmt.Errorf("parse date %q: %w", date, err)
	}

	store, err := openStore(ctx, cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open catalog store: %w", err)
	}
	defer store.Close()

	gen := generator.New(cfg.Seed, cfg.Verbose)
	difficulties := generator.Difficulties()

	if cfg.Verbose {
		fmt.Fprintf(os.Stderr, "Running preset %q: %d puzzle(s) per game type\n",
			cfg.Preset, perType)
	}

	created := 0
	for _, gameType := range puzzle.GameTypes() {
		if err := ctx.Err(); err != nil {
			return err
		}
		for i := 0; i < perType; i++ {
			difficulty := puzzle.DifficultyEasy
			if presetCfg.VaryDifficulty {
				difficulty = difficulties[i%len(difficulties)]
			}

			document, err := gen.Document(gameType, difficulty)
			if err != nil {
				return fmt.Errorf("generate %s: %w", gameType, err)
			}
			if err := content.Validate(gameType, document); err != nil {
				return fmt.Errorf("validate generated %s: %w", gameType, err)
			}

			puzzleID, err := id.NewID()
			if err != nil {
				return fmt.Errorf("new puzzle id: %w", err)
			}
			now := time.Now().UTC()
			record := storage.PuzzleRecord{
				ID:         puzzleID,
				GameType:   gameType,
				Difficulty: difficulty,
				Payload:    document,
				CreatedAt:  now,
				UpdatedAt:  now,
			}
			if err := store.CreatePuzzle(ctx, record); err != nil {
				return fmt.Errorf("create %s puzzle: %w", gameType, err)
			}
			created++

			if cfg.Verbose {
				fmt.Fprintf(os.Stderr, "  Created %s puzzle %s (%s)\n",
					gameType, puzzleID, difficulty)
			}
		}
	}

	if presetCfg.DailyDays > 0 {
		svc := domain.NewService(store, nil, nil)
		for day := 0; day < presetCfg.DailyDays; day++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			boardDate := start.AddDate(0, 0, day).Format(storage.DateLayout)
			for _, gameType := range puzzle.GameTypes() {
				if _, err := svc.RotateDaily(ctx, boardDate, gameType); err != nil {
					return fmt.Errorf("assign %s daily for %s: %w", gameType, boardDate, err)
				}
			}
			if cfg.Verbose {
				fmt.Fprintf(os.Stderr, "  Assigned daily board for %s\n", boardDate)
			}
		}
	}

	if cfg.Verbose {
		fmt.Fprintf(os.Stderr, "Generation complete: %d puzzle(s) created\n", created)
	}
	return nil
}

func openStore(ctx context.Context, path string) (*catalogsqlite.Store, error) {
	cleanPath := filepath.Clean(strings.TrimSpace(path))
	if cleanPath == "." || cleanPath == "" {
		return nil, fmt.Errorf("catalog db path is required")
	}
	if dir := filepath.Dir(cleanPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage dir: %w", err)
		}
	}
	return catalogsqlite.Open(ctx, cleanPath)
}
