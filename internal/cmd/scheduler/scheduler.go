// Package scheduler parses scheduler command flags and launches the rotation
// runtime.
package scheduler

import (
	"context"
	"flag"
	"time"

	entrypoint "github.com/puzzlebox-games/puzzlebox/internal/platform/cmd"
	schedulerserver "github.com/puzzlebox-games/puzzlebox/internal/services/scheduler/app"
)

// Config holds scheduler command configuration.
type Config struct {
	Port          int           `env:"PUZZLEBOX_SCHEDULER_PORT" envDefault:"8089"`
	CatalogDBPath string        `env:"PUZZLEBOX_CATALOG_DB_PATH" envDefault:"data/catalog.db"`
	DBPath        string        `env:"PUZZLEBOX_SCHEDULER_DB_PATH" envDefault:"data/scheduler.db"`
	PollInterval  time.Duration `env:"PUZZLEBOX_SCHEDULER_POLL_INTERVAL" envDefault:"1h"`
	LookaheadDays int           `env:"PUZZLEBOX_SCHEDULER_LOOKAHEAD_DAYS" envDefault:"2"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.IntVar(&cfg.Port, "port", cfg.Port, "The scheduler health gRPC server port")
	fs.StringVar(&cfg.CatalogDBPath, "catalog-db-path", cfg.CatalogDBPath, "The catalog SQLite database path")
	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "The scheduler SQLite database path")
	fs.DurationVar(&cfg.PollInterval, "poll-interval", cfg.PollInterval, "Rotation sweep interval")
	fs.IntVar(&cfg.LookaheadDays, "lookahead-days", cfg.LookaheadDays, "Days ahead of today each sweep fills")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the scheduler runtime.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceScheduler, func(context.Context) error {
		return schedulerserver.Run(ctx, schedulerserver.RuntimeConfig{
			Port:          cfg.Port,
			CatalogDBPath: cfg.CatalogDBPath,
			DBPath:        cfg.DBPath,
			PollInterval:  cfg.PollInterval,
			LookaheadDays: cfg.LookaheadDays,
		})
	})
}
