// Package mcp parses MCP command flags and selects stdio or HTTP transport.
package mcp

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	entrypoint "github.com/puzzlebox-games/puzzlebox/internal/platform/cmd"
	catalogdomain "github.com/puzzlebox-games/puzzlebox/internal/services/catalog/domain"
	catalogsqlite "github.com/puzzlebox-games/puzzlebox/internal/services/catalog/storage/sqlite"
	mcpservice "github.com/puzzlebox-games/puzzlebox/internal/services/mcp/service"
)

// Config holds MCP command configuration.
type Config struct {
	DBPath    string `env:"PUZZLEBOX_CATALOG_DB_PATH" envDefault:"data/catalog.db"`
	HTTPAddr  string `env:"PUZZLEBOX_MCP_HTTP_ADDR"   envDefault:"localhost:8081"`
	Transport string `env:"PUZZLEBOX_MCP_TRANSPORT"   envDefault:"stdio"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "The catalog SQLite database path")
	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP server address (for HTTP transport)")
	fs.StringVar(&cfg.Transport, "transport", cfg.Transport, "Transport type: stdio or http")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the MCP server against the local catalog store.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceMCP, func(context.Context) error {
		if dir := filepath.Dir(cfg.DBPath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create catalog storage dir: %w", err)
			}
		}
		store, err := catalogsqlite.Open(ctx, cfg.DBPath)
		if err != nil {
			return fmt.Errorf("open catalog sqlite store: %w", err)
		}
		defer func() {
			if closeErr := store.Close(); closeErr != nil {
				log.Printf("close catalog store: %v", closeErr)
			}
		}()

		grantCfg, hasGrants, err := catalogdomain.LoadGrantConfigFromEnv(nil)
		if err != nil {
			return err
		}
		var grants *catalogdomain.GrantConfig
		if hasGrants {
			grants = &grantCfg
		}

		return mcpservice.Run(ctx, mcpservice.Config{
			Catalog:   catalogdomain.NewService(store, grants, nil),
			Transport: mcpservice.TransportKind(cfg.Transport),
			HTTPAddr:  cfg.HTTPAddr,
		})
	})
}
