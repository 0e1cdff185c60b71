// Package server wires the play runtime: live puzzle sessions behind a
// websocket transport, progress snapshots, and the gRPC health endpoint.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/puzzlebox-games/puzzlebox/internal/content"
	"github.com/puzzlebox-games/puzzlebox/internal/platform/config"
	"github.com/puzzlebox-games/puzzlebox/internal/platform/timeouts"
	"github.com/puzzlebox-games/puzzlebox/internal/puzzle"
	catalogdomain "github.com/puzzlebox-games/puzzlebox/internal/services/catalog/domain"
	catalogstorage "github.com/puzzlebox-games/puzzlebox/internal/services/catalog/storage"
	catalogsqlite "github.com/puzzlebox-games/puzzlebox/internal/services/catalog/storage/sqlite"
	"github.com/puzzlebox-games/puzzlebox/internal/services/play/domain"
	playbbolt "github.com/puzzlebox-games/puzzlebox/internal/services/play/storage/bbolt"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"
)

type serverEnv struct {
	DBPath        string `env:"PUZZLEBOX_PLAY_DB_PATH"`
	CatalogDBPath string `env:"PUZZLEBOX_PLAY_CATALOG_DB_PATH"`
	HTTPAddr      string `env:"PUZZLEBOX_PLAY_HTTP_ADDR"`
	UndoBudget    int    `env:"PUZZLEBOX_PLAY_UNDO_BUDGET"`
}

func loadServerEnv() serverEnv {
	var cfg serverEnv
	_ = config.ParseEnv(&cfg)
	if strings.TrimSpace(cfg.DBPath) == "" {
		cfg.DBPath = filepath.Join("data", "play.db")
	}
	if strings.TrimSpace(cfg.CatalogDBPath) == "" {
		cfg.CatalogDBPath = filepath.Join("data", "catalog.db")
	}
	if strings.TrimSpace(cfg.HTTPAddr) == "" {
		cfg.HTTPAddr = ":8090"
	}
	return cfg
}

// Server hosts live play sessions and the gRPC health lifecycle.
type Server struct {
	listener     net.Listener
	grpcServer   *grpc.Server
	health       *health.Server
	snapshots    *playbbolt.Store
	catalogStore *catalogsqlite.Store
	manager      *domain.Manager
	httpServer   *http.Server
}

// New creates a configured play server listening on the provided port.
func New(port int) (*Server, error) {
	return NewWithAddr(fmt.Sprintf(":%d", port))
}

// NewWithAddr creates a configured play server for the provided address.
func NewWithAddr(addr string) (*Server, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", addr, err)
	}

	env := loadServerEnv()
	snapshots, err := openSnapshotStore(env.DBPath)
	if err != nil {
		_ = listener.Close()
		return nil, err
	}

	catalogStore, err := openCatalogStore(env.CatalogDBPath)
	if err != nil {
		_ = listener.Close()
		_ = snapshots.Close()
		return nil, err
	}
	// The play service only reads catalog content; authoring grants stay
	// with the catalog service.
	catalogService := catalogdomain.NewService(catalogStore, nil, nil)

	manager := domain.NewManager(
		catalogContent{catalog: catalogService},
		snapshots,
		env.UndoBudget,
		nil,
	)

	grpcServer := grpc.NewServer(grpc.StatsHandler(otelgrpc.NewServerHandler()))
	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus("play", grpc_health_v1.HealthCheckResponse_SERVING)

	httpServer := &http.Server{
		Addr:              env.HTTPAddr,
		Handler:           NewHandler(manager),
		ReadHeaderTimeout: timeouts.ReadHeader,
	}

	return &Server{
		listener:     listener,
		grpcServer:   grpcServer,
		health:       healthServer,
		snapshots:    snapshots,
		catalogStore: catalogStore,
		manager:      manager,
		httpServer:   httpServer,
	}, nil
}

// Addr returns the listener address for the server.
func (s *Server) Addr() string {
	if s == nil || s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Manager returns the session manager backing the websocket API.
func (s *Server) Manager() *domain.Manager {
	if s == nil {
		return nil
	}
	return s.manager
}

// Run creates and serves a play server until context cancellation.
func Run(ctx context.Context, port int) error {
	server, err := New(port)
	if err != nil {
		return err
	}
	return server.Serve(ctx)
}

// RunWithAddr creates and serves a play server on an explicit address.
func RunWithAddr(ctx context.Context, addr string) error {
	server, err := NewWithAddr(addr)
	if err != nil {
		return err
	}
	return server.Serve(ctx)
}

// Serve starts the health gRPC server and the websocket API until
// context cancellation.
func (s *Server) Serve(ctx context.Context) error {
	if s == nil {
		return errors.New("server is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	defer s.Close()

	log.Printf("play server listening at %v", s.listener.Addr())
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- s.grpcServer.Serve(s.listener)
	}()

	httpErr := make(chan error, 1)
	go func() {
		httpErr <- s.httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		if s.health != nil {
			s.health.Shutdown()
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown play http server: %v", err)
		}
		s.grpcServer.GracefulStop()
		if err := <-serveErr; err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			return fmt.Errorf("serve gRPC: %w", err)
		}
		if err := <-httpErr; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve websocket: %w", err)
		}
		return nil
	case err := <-serveErr:
		if err == nil || errors.Is(err, grpc.ErrServerStopped) {
			return nil
		}
		return fmt.Errorf("serve gRPC: %w", err)
	case err := <-httpErr:
		if err == nil || errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve websocket: %w", err)
	}
}

// Close releases play server resources.
func (s *Server) Close() {
	if s == nil {
		return
	}
	if s.health != nil {
		s.health.Shutdown()
	}
	if s.grpcServer != nil {
		s.grpcServer.Stop()
	}
	if s.httpServer != nil {
		_ = s.httpServer.Close()
	}
	if s.listener != nil {
		_ = s.listener.Close()
	}
	if s.snapshots != nil {
		if err := s.snapshots.Close(); err != nil {
			log.Printf("close snapshot store: %v", err)
		}
	}
	if s.catalogStore != nil {
		if err := s.catalogStore.Close(); err != nil {
			log.Printf("close catalog store: %v", err)
		}
	}
}

func openSnapshotStore(path string) (*playbbolt.Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage dir: %w", err)
		}
	}
	store, err := playbbolt.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open snapshot store: %w", err)
	}
	return store, nil
}

func openCatalogStore(path string) (*catalogsqlite.Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage dir: %w", err)
		}
	}
	store, err := catalogsqlite.Open(context.Background(), path)
	if err != nil {
		return nil, fmt.Errorf("open catalog sqlite store: %w", err)
	}
	return store, nil
}

// catalogContent adapts the catalog service to the session manager's
// content source.
type catalogContent struct {
	catalog *catalogdomain.Service
}

func (c catalogContent) Puzzle(ctx context.Context, puzzleID string) (content.Descriptor, []byte, error) {
	record, err := c.catalog.GetPuzzle(ctx, puzzleID)
	if err != nil {
		return content.Descriptor{}, nil, err
	}
	return recordDescriptor(record), record.Payload, nil
}

func (c catalogContent) Daily(ctx context.Context, date string, gameType puzzle.GameType) (content.Descriptor, []byte, error) {
	assignment, record, err := c.catalog.DailyPuzzle(ctx, date, gameType)
	if err != nil {
		return content.Descriptor{}, nil, err
	}
	desc := recordDescriptor(record)
	if parsed, err := time.Parse(catalogstorage.DateLayout, assignment.Date); err == nil {
		desc.Date = parsed
	}
	return desc, record.Payload, nil
}

func recordDescriptor(record catalogstorage.PuzzleRecord) content.Descriptor {
	return content.Descriptor{
		ID:         record.ID,
		GameType:   record.GameType,
		Difficulty: record.Difficulty,
	}
}
