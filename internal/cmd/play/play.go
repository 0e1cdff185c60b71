// Package play parses play command flags and starts the play runtime.
package play

import (
	"context"
	"flag"

	entrypoint "github.com/puzzlebox-games/puzzlebox/internal/platform/cmd"
	server "github.com/puzzlebox-games/puzzlebox/internal/services/play/app"
)

// Config holds play command configuration.
type Config struct {
	Port int    `env:"PUZZLEBOX_PLAY_PORT" envDefault:"8083"`
	Addr string `env:"PUZZLEBOX_PLAY_ADDR"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.IntVar(&cfg.Port, "port", cfg.Port, "The play health gRPC server port")
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "The play server listen address (overrides -port)")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the play service.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServicePlay, func(context.Context) error {
		if cfg.Addr != "" {
			return server.RunWithAddr(ctx, cfg.Addr)
		}
		return server.Run(ctx, cfg.Port)
	})
}
