package server

import (
	"context"
	"testing"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"
)

func startCatalogServer(t *testing.T) *Server {
	t.Helper()

	t.Setenv("PUZZLEBOX_CATALOG_DB_PATH", t.TempDir()+"/catalog.db")
	t.Setenv("PUZZLEBOX_CATALOG_MCP_ADDR", "127.0.0.1:0")

	srv, err := NewWithAddr("127.0.0.1:0")
	if err != nil {
		t.Fatalf("new server: %v", err)
	}

	runCtx, runCancel := context.WithCancel(context.Background())

	serveDone := make(chan error, 1)
	go func() {
		serveDone <- srv.Serve(runCtx)
	}()
	t.Cleanup(func() {
		runCancel()
		select {
		case serveErr := <-serveDone:
			if serveErr != nil {
				t.Fatalf("serve: %v", serveErr)
			}
		case <-time.After(5 * time.Second):
			t.Fatal("timeout waiting for server shutdown")
		}
	})

	return srv
}

func TestServer_HealthAndCatalogRoundTrip(t *testing.T) {
	srv := startCatalogServer(t)

	conn, err := grpc.NewClient(srv.Addr(), grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		t.Fatalf("dial catalog server: %v", err)
	}
	t.Cleanup(func() {
		if closeErr := conn.Close(); closeErr != nil {
			t.Fatalf("close gRPC connection: %v", closeErr)
		}
	})

	healthClient := grpc_health_v1.NewHealthClient(conn)
	checkCtx, checkCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer checkCancel()

	resp, err := healthClient.Check(checkCtx, &grpc_health_v1.HealthCheckRequest{})
	if err != nil {
		t.Fatalf("health check: %v", err)
	}
	if got := resp.GetStatus(); got != grpc_health_v1.HealthCheckResponse_SERVING {
		t.Fatalf("health status = %v, want SERVING", got)
	}

	namedResp, err := healthClient.Check(checkCtx, &grpc_health_v1.HealthCheckRequest{Service: "catalog"})
	if err != nil {
		t.Fatalf("named health check: %v", err)
	}
	if got := namedResp.GetStatus(); got != grpc_health_v1.HealthCheckResponse_SERVING {
		t.Fatalf("catalog health status = %v, want SERVING", got)
	}

	// The catalog service must be live against the opened store.
	counts, err := srv.Catalog().Counts(context.Background())
	if err != nil {
		t.Fatalf("counts: %v", err)
	}
	if len(counts) != 0 {
		t.Fatalf("expected empty catalog, got %d type counts", len(counts))
	}
}

func TestNewWithAddrRejectsBusyAddress(t *testing.T) {
	t.Setenv("PUZZLEBOX_CATALOG_DB_PATH", t.TempDir()+"/catalog.db")
	t.Setenv("PUZZLEBOX_CATALOG_MCP_ADDR", "127.0.0.1:0")

	srv, err := NewWithAddr("127.0.0.1:0")
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	defer srv.Close()

	if _, err := NewWithAddr(srv.Addr()); err == nil {
		t.Fatal("expected error for busy address")
	}
}

func TestServerNilSafety(t *testing.T) {
	var srv *Server
	if got := srv.Addr(); got != "" {
		t.Errorf("expected empty addr from nil server, got %q", got)
	}
	if got := srv.Catalog(); got != nil {
		t.Error("expected nil catalog from nil server")
	}
	srv.Close()
	if err := srv.Serve(context.Background()); err == nil {
		t.Fatal("expected error serving nil server")
	}
}
