// Package catalog parses catalog command flags and starts the catalog runtime.
package catalog

import (
	"context"
	"flag"

	entrypoint "github.com/puzzlebox-games/puzzlebox/internal/platform/cmd"
	server "github.com/puzzlebox-games/puzzlebox/internal/services/catalog/app"
)

// Config holds catalog command configuration.
type Config struct {
	Port int    `env:"PUZZLEBOX_CATALOG_PORT" envDefault:"8082"`
	Addr string `env:"PUZZLEBOX_CATALOG_ADDR"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.IntVar(&cfg.Port, "port", cfg.Port, "The catalog health gRPC server port")
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "The catalog server listen address (overrides -port)")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the catalog service.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceCatalog, func(context.Context) error {
		if cfg.Addr != "" {
			return server.RunWithAddr(ctx, cfg.Addr)
		}
		return server.Run(ctx, cfg.Port)
	})
}
