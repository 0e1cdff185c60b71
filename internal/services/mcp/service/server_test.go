package service

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	catalog "github.com/puzzlebox-games/puzzlebox/internal/services/catalog/domain"
	"github.com/puzzlebox-games/puzzlebox/internal/services/catalog/storage/sqlite"
)

func newTestCatalog(t *testing.T) *catalog.Service {
	t.Helper()

	store, err := sqlite.Open(context.Background(), filepath.Join(t.TempDir(), "catalog.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Fatalf("close store: %v", err)
		}
	})
	return catalog.NewService(store, nil, time.Now)
}

type failingTransport struct{}

func (failingTransport) Connect(context.Context) (mcp.Connection, error) {
	return nil, errors.New("transport unavailable")
}

func TestNewRequiresCatalogService(t *testing.T) {
	if _, err := New(nil); err == nil {
		t.Fatal("expected error for nil catalog service")
	}
}

func TestNewRegistersHandlers(t *testing.T) {
	svc := newTestCatalog(t)
	server, err := New(svc)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if server.mcpServer == nil {
		t.Fatal("expected MCP server to be configured")
	}
	if server.catalog != svc {
		t.Fatal("expected catalog service to be retained")
	}
}

// TestRunWithTransportServesAndStops ensures runWithTransport connects,
// serves, and exits cleanly on cancel.
func TestRunWithTransportServesAndStops(t *testing.T) {
	svc := newTestCatalog(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	serverTransport, clientTransport := mcp.NewInMemoryTransports()

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- runWithTransport(ctx, svc, serverTransport)
	}()

	client := mcp.NewClient(&mcp.Implementation{Name: "client", Version: "v0.0.1"}, nil)
	clientCtx, clientCancel := context.WithTimeout(context.Background(), time.Second)
	defer clientCancel()

	type connectResult struct {
		session *mcp.ClientSession
		err     error
	}
	connectDone := make(chan connectResult, 1)
	go func() {
		session, err := client.Connect(clientCtx, clientTransport, nil)
		connectDone <- connectResult{session: session, err: err}
	}()

	var session *mcp.ClientSession
	select {
	case result := <-connectDone:
		if result.err != nil {
			t.Fatalf("connect client: %v", result.err)
		}
		session = result.session
	case <-time.After(2 * time.Second):
		t.Fatal("connect client timed out")
	}

	defer session.Close()

	cancel()

	select {
	case err := <-serveErr:
		if err != nil {
			t.Fatalf("run returned error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("run did not stop after cancel")
	}
}

// TestRunUnsupportedTransport ensures Run rejects unknown transport kinds.
func TestRunUnsupportedTransport(t *testing.T) {
	err := Run(context.Background(), Config{
		Catalog:   newTestCatalog(t),
		Transport: "websocket",
	})
	if err == nil {
		t.Fatal("expected error for unsupported transport")
	}
	if !strings.Contains(err.Error(), "not supported") {
		t.Errorf("expected 'not supported' in error, got: %v", err)
	}
}

func TestRunHTTPTransportRequiresCatalogService(t *testing.T) {
	err := Run(context.Background(), Config{Transport: TransportHTTP})
	if err == nil {
		t.Fatal("expected error for missing catalog service")
	}
}

// TestRunHTTPTransportStops ensures the HTTP transport path shuts down on
// context cancellation.
func TestRunHTTPTransportStops(t *testing.T) {
	svc := newTestCatalog(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- Run(ctx, Config{
			Catalog:   svc,
			Transport: TransportHTTP,
			HTTPAddr:  "127.0.0.1:0",
		})
	}()

	cancel()

	select {
	case err := <-serveErr:
		if err != nil {
			t.Fatalf("run returned error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("run did not stop after cancel")
	}
}

func TestServeWithTransportErrors(t *testing.T) {
	var nilServer *Server
	if err := nilServer.serveWithTransport(context.Background(), &mcp.StdioTransport{}); err == nil {
		t.Fatal("expected error for nil server")
	}

	emptyServer := &Server{}
	if err := emptyServer.serveWithTransport(context.Background(), &mcp.StdioTransport{}); err == nil {
		t.Fatal("expected error for missing MCP runtime")
	}

	// Nil context defaults to background; a failing transport still errors.
	server, err := New(newTestCatalog(t))
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if err := server.serveWithTransport(nil, failingTransport{}); err == nil {
		t.Fatal("expected error from failing transport")
	}
}
