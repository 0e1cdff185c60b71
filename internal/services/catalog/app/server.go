// Package server wires the catalog runtime, its gRPC health endpoint, and
// the MCP HTTP API.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"os"
	"path/filepath"
	"strings"

	"github.com/puzzlebox-games/puzzlebox/internal/platform/config"
	catalogdomain "github.com/puzzlebox-games/puzzlebox/internal/services/catalog/domain"
	catalogsqlite "github.com/puzzlebox-games/puzzlebox/internal/services/catalog/storage/sqlite"
	mcpservice "github.com/puzzlebox-games/puzzlebox/internal/services/mcp/service"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"
)

type serverEnv struct {
	DBPath  string `env:"PUZZLEBOX_CATALOG_DB_PATH"`
	MCPAddr string `env:"PUZZLEBOX_CATALOG_MCP_ADDR"`
}

func loadServerEnv() serverEnv {
	var cfg serverEnv
	_ = config.ParseEnv(&cfg)
	if strings.TrimSpace(cfg.DBPath) == "" {
		cfg.DBPath = filepath.Join("data", "catalog.db")
	}
	return cfg
}

// Server hosts the catalog service, its MCP HTTP API, and the gRPC health
// lifecycle.
type Server struct {
	listener   net.Listener
	grpcServer *grpc.Server
	health     *health.Server
	store      *catalogsqlite.Store
	catalog    *catalogdomain.Service
	mcpAddr    string
}

// New creates a configured catalog server listening on the provided port.
func New(port int) (*Server, error) {
	return NewWithAddr(fmt.Sprintf(":%d", port))
}

// NewWithAddr creates a configured catalog server for the provided address.
func NewWithAddr(addr string) (*Server, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", addr, err)
	}

	env := loadServerEnv()
	store, err := openCatalogStore(env.DBPath)
	if err != nil {
		_ = listener.Close()
		return nil, err
	}

	grantCfg, hasGrants, err := catalogdomain.LoadGrantConfigFromEnv(nil)
	if err != nil {
		_ = listener.Close()
		_ = store.Close()
		return nil, err
	}
	var grants *catalogdomain.GrantConfig
	if hasGrants {
		grants = &grantCfg
	}
	catalogService := catalogdomain.NewService(store, grants, nil)

	grpcServer := grpc.NewServer(grpc.StatsHandler(otelgrpc.NewServerHandler()))
	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus("catalog", grpc_health_v1.HealthCheckResponse_SERVING)

	return &Server{
		listener:   listener,
		grpcServer: grpcServer,
		health:     healthServer,
		store:      store,
		catalog:    catalogService,
		mcpAddr:    env.MCPAddr,
	}, nil
}

// Addr returns the listener address for the server.
func (s *Server) Addr() string {
	if s == nil || s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Catalog returns the catalog service backing the API surface.
func (s *Server) Catalog() *catalogdomain.Service {
	if s == nil {
		return nil
	}
	return s.catalog
}

// Run creates and serves a catalog server until context cancellation.
func Run(ctx context.Context, port int) error {
	server, err := New(port)
	if err != nil {
		return err
	}
	return server.Serve(ctx)
}

// RunWithAddr creates and serves a catalog server on an explicit address.
func RunWithAddr(ctx context.Context, addr string) error {
	server, err := NewWithAddr(addr)
	if err != nil {
		return err
	}
	return server.Serve(ctx)
}

// Serve starts the health gRPC server and the MCP HTTP API until context
// cancellation.
func (s *Server) Serve(ctx context.Context) error {
	if s == nil {
		return errors.New("server is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	defer s.Close()

	log.Printf("catalog server listening at %v", s.listener.Addr())
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- s.grpcServer.Serve(s.listener)
	}()

	mcpErr := make(chan error, 1)
	go func() {
		mcpErr <- mcpservice.Run(ctx, mcpservice.Config{
			Catalog:   s.catalog,
			Transport: mcpservice.TransportHTTP,
			HTTPAddr:  s.mcpAddr,
		})
	}()

	select {
	case <-ctx.Done():
		if s.health != nil {
			s.health.Shutdown()
		}
		s.grpcServer.GracefulStop()
		if err := <-serveErr; err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			return fmt.Errorf("serve gRPC: %w", err)
		}
		if err := <-mcpErr; err != nil {
			return fmt.Errorf("serve MCP: %w", err)
		}
		return nil
	case err := <-serveErr:
		if err == nil || errors.Is(err, grpc.ErrServerStopped) {
			return nil
		}
		return fmt.Errorf("serve gRPC: %w", err)
	case err := <-mcpErr:
		if err != nil {
			return fmt.Errorf("serve MCP: %w", err)
		}
		return nil
	}
}

// Close releases catalog server resources.
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
	if s.listener != nil {
		_ = s.listener.Close()
	}
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			log.Printf("close catalog store: %v", err)
		}
	}
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
