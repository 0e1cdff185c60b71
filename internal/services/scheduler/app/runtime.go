// Package app wires the scheduler runtime: the rotation sweep loop, its run
// history store, and the gRPC health endpoint.
package app

import (
	"context"
	"fmt"
	"log"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"

	catalogdomain "github.com/puzzlebox-games/puzzlebox/internal/services/catalog/domain"
	catalogsqlite "github.com/puzzlebox-games/puzzlebox/internal/services/catalog/storage/sqlite"
	schedulerdomain "github.com/puzzlebox-games/puzzlebox/internal/services/scheduler/domain"
	schedulerstorage "github.com/puzzlebox-games/puzzlebox/internal/services/scheduler/storage"
	schedulersqlite "github.com/puzzlebox-games/puzzlebox/internal/services/scheduler/storage/sqlite"
)

// RuntimeConfig controls scheduler startup, dependencies, and sweep cadence.
type RuntimeConfig struct {
	Port          int
	CatalogDBPath string
	DBPath        string
	PollInterval  time.Duration
	LookaheadDays int
}

const (
	defaultSchedulerPort = 8089
	defaultSchedulerDB   = "data/scheduler.db"
	defaultCatalogDB     = "data/catalog.db"
	defaultPollInterval  = time.Hour
)

// Run starts scheduler runtime dependencies and the rotation sweep loop.
func Run(ctx context.Context, cfg RuntimeConfig) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if cfg.Port <= 0 {
		cfg.Port = defaultSchedulerPort
	}
	if strings.TrimSpace(cfg.CatalogDBPath) == "" {
		cfg.CatalogDBPath = defaultCatalogDB
	}
	if strings.TrimSpace(cfg.DBPath) == "" {
		cfg.DBPath = defaultSchedulerDB
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = defaultPollInterval
	}

	for _, path := range []string{cfg.CatalogDBPath, cfg.DBPath} {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create scheduler storage dir: %w", err)
			}
		}
	}

	catalogStore, err := catalogsqlite.Open(ctx, cfg.CatalogDBPath)
	if err != nil {
		return fmt.Errorf("open catalog sqlite store: %w", err)
	}
	defer func() {
		if closeErr := catalogStore.Close(); closeErr != nil {
			log.Printf("close catalog sqlite store: %v", closeErr)
		}
	}()

	runStore, err := schedulersqlite.Open(ctx, cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open scheduler sqlite store: %w", err)
	}
	defer func() {
		if closeErr := runStore.Close(); closeErr != nil {
			log.Printf("close scheduler sqlite store: %v", closeErr)
		}
	}()

	catalogService := catalogdomain.NewService(catalogStore, nil, nil)
	planner := schedulerdomain.NewPlanner(catalogService, cfg.LookaheadDays, nil)

	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.Port))
	if err != nil {
		return fmt.Errorf("listen on scheduler port %d: %w", cfg.Port, err)
	}
	defer listener.Close()

	grpcServer := grpc.NewServer(grpc.StatsHandler(otelgrpc.NewServerHandler()))
	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus("scheduler", grpc_health_v1.HealthCheckResponse_SERVING)

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- grpcServer.Serve(listener)
	}()
	defer func() {
		healthServer.Shutdown()
		grpcServer.GracefulStop()
		<-serveErr
	}()

	log.Printf("scheduler server listening at %v", listener.Addr())
	return sweepLoop(ctx, planner, runStore, cfg.PollInterval)
}

// sweepLoop runs one sweep immediately and then one per poll interval until
// the context is cancelled.
func sweepLoop(ctx context.Context, planner *schedulerdomain.Planner, runs schedulerstorage.RunStore, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		results, err := planner.Sweep(ctx)
		recordResults(ctx, runs, results)
		log.Printf("scheduler sweep: %s", summarize(results))
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			log.Printf("scheduler sweep failed: %v", err)
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// recordResults persists rotated, skipped, and failed slots. Existing slots
// are left out so run history stays proportional to work done.
func recordResults(ctx context.Context, runs schedulerstorage.RunStore, results []schedulerdomain.Result) {
	if runs == nil {
		return
	}
	for _, result := range results {
		if result.Outcome == schedulerdomain.OutcomeExisting {
			continue
		}
		record := schedulerstorage.RunRecord{
			Date:     result.Date,
			GameType: result.GameType.String(),
			Outcome:  string(result.Outcome),
			PuzzleID: result.PuzzleID,
		}
		if result.Err != nil {
			record.Detail = result.Err.Error()
		}
		if err := runs.RecordRun(ctx, record); err != nil {
			log.Printf("record rotation run %s/%s: %v", result.Date, result.GameType, err)
		}
	}
}

// summarize renders sweep results as one log-friendly line.
func summarize(results []schedulerdomain.Result) string {
	counts := map[schedulerdomain.Outcome]int{}
	for _, result := range results {
		counts[result.Outcome]++
	}
	return fmt.Sprintf("%d slots (%d existing, %d rotated, %d skipped, %d failed)",
		len(results),
		counts[schedulerdomain.OutcomeExisting],
		counts[schedulerdomain.OutcomeRotated],
		counts[schedulerdomain.OutcomeSkipped],
		counts[schedulerdomain.OutcomeFailed],
	)
}
