package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/jsonrpc"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func TestIsLoopbackHost(t *testing.T) {
	tests := []struct {
		host string
		want bool
	}{
		{"localhost", true},
		{"LOCALHOST", true},
		{"Localhost", true},
		{"127.0.0.1", true},
		{"::1", true},
		{" localhost ", true},
		{"example.com", false},
		{"127.0.0.2", false},
		{"", false},
		{"local", false},
	}
	for _, tt := range tests {
		t.Run(tt.host, func(t *testing.T) {
			if got := isLoopbackHost(tt.host); got != tt.want {
				t.Errorf("isLoopbackHost(%q) = %v, want %v", tt.host, got, tt.want)
			}
		})
	}
}

func TestNormalizeHost(t *testing.T) {
	tests := []struct {
		input  string
		want   string
		wantOk bool
	}{
		{"localhost:8081", "localhost", true},
		{"example.com:443", "example.com", true},
		{"[::1]:8081", "::1", true},
		{"[::1]", "::1", true},
		{"::1", "::1", true},
		{"example.com", "example.com", true},
		{"", "", false},
		{"  ", "", false},
		{"[::1", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := normalizeHost(tt.input)
			if ok != tt.wantOk {
				t.Errorf("normalizeHost(%q) ok = %v, want %v", tt.input, ok, tt.wantOk)
			}
			if got != tt.want {
				t.Errorf("normalizeHost(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseAllowedHosts(t *testing.T) {
	hosts := parseAllowedHosts([]string{" mcp.example.com ", "Other.Example.COM", "", "  "})
	if len(hosts) != 2 {
		t.Fatalf("expected 2 hosts, got %d: %v", len(hosts), hosts)
	}
	if _, ok := hosts["mcp.example.com"]; !ok {
		t.Error("expected trimmed host to be present")
	}
	if _, ok := hosts["other.example.com"]; !ok {
		t.Error("expected lowercased host to be present")
	}
}

func TestWriteSessionError(t *testing.T) {
	w := httptest.NewRecorder()
	writeSessionError(w, "test error")

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected Content-Type application/json, got %q", ct)
	}

	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal body: %v", err)
	}
	if body["jsonrpc"] != "2.0" {
		t.Errorf("expected jsonrpc 2.0, got %v", body["jsonrpc"])
	}
	errObj, ok := body["error"].(map[string]any)
	if !ok {
		t.Fatal("expected error object in response")
	}
	if errObj["message"] != "test error" {
		t.Errorf("expected message %q, got %v", "test error", errObj["message"])
	}
}

func TestIsAllowedHostHeader(t *testing.T) {
	t.Run("loopback always allowed", func(t *testing.T) {
		transport := NewHTTPTransport("localhost:8081")
		if !transport.isAllowedHostHeader("localhost:8081") {
			t.Error("expected localhost to be allowed")
		}
		if !transport.isAllowedHostHeader("[::1]:8081") {
			t.Error("expected [::1] to be allowed")
		}
	})

	t.Run("configured host allowed", func(t *testing.T) {
		transport := NewHTTPTransport("localhost:8081")
		transport.allowedHosts = map[string]struct{}{
			"example.com": {},
		}
		if !transport.isAllowedHostHeader("example.com:443") {
			t.Error("expected example.com to be allowed")
		}
	})

	t.Run("env configured host allowed", func(t *testing.T) {
		t.Setenv("PUZZLEBOX_MCP_ALLOWED_HOSTS", "mcp.example.com,Other.Example.COM")
		transport := NewHTTPTransport("localhost:8081")
		if !transport.isAllowedHostHeader("mcp.example.com:443") {
			t.Error("expected env-configured host to be allowed")
		}
		if !transport.isAllowedHostHeader("other.example.com") {
			t.Error("expected env-configured host to match case-insensitively")
		}
	})

	t.Run("unknown host rejected", func(t *testing.T) {
		transport := NewHTTPTransport("localhost:8081")
		if transport.isAllowedHostHeader("evil.com:8081") {
			t.Error("expected evil.com to be rejected")
		}
	})

	t.Run("empty host rejected", func(t *testing.T) {
		transport := NewHTTPTransport("localhost:8081")
		if transport.isAllowedHostHeader("") {
			t.Error("expected empty host to be rejected")
		}
	})
}

func TestValidateLocalRequest(t *testing.T) {
	t.Run("nil request", func(t *testing.T) {
		transport := NewHTTPTransport("localhost:8081")
		if err := transport.validateLocalRequest(nil); err == nil {
			t.Fatal("expected error for nil request")
		}
	})

	t.Run("valid localhost no origin", func(t *testing.T) {
		transport := NewHTTPTransport("localhost:8081")
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Host = "localhost:8081"
		if err := transport.validateLocalRequest(req); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("valid localhost with origin", func(t *testing.T) {
		transport := NewHTTPTransport("localhost:8081")
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Host = "localhost:8081"
		req.Header.Set("Origin", "http://localhost:8081")
		if err := transport.validateLocalRequest(req); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("invalid host", func(t *testing.T) {
		transport := NewHTTPTransport("localhost:8081")
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Host = "evil.com"
		if err := transport.validateLocalRequest(req); err == nil {
			t.Fatal("expected error for invalid host")
		}
	})

	t.Run("invalid origin", func(t *testing.T) {
		transport := NewHTTPTransport("localhost:8081")
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Host = "localhost:8081"
		req.Header.Set("Origin", "http://evil.com")
		if err := transport.validateLocalRequest(req); err == nil {
			t.Fatal("expected error for invalid origin")
		}
	})

	t.Run("malformed origin", func(t *testing.T) {
		transport := NewHTTPTransport("localhost:8081")
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Host = "localhost:8081"
		req.Header.Set("Origin", ":::bad")
		if err := transport.validateLocalRequest(req); err == nil {
			t.Fatal("expected error for malformed origin")
		}
	})
}

func TestCompletionHandler(t *testing.T) {
	result, err := completionHandler(context.Background(), &mcp.CompleteRequest{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result == nil {
		t.Fatal("expected non-nil result")
	}
	if len(result.Completion.Values) != 0 {
		t.Errorf("expected empty values, got %v", result.Completion.Values)
	}
}

func TestResourceSubscribeHandler(t *testing.T) {
	t.Run("nil request", func(t *testing.T) {
		if err := resourceSubscribeHandler(context.Background(), nil); err == nil {
			t.Fatal("expected error for nil request")
		}
	})

	t.Run("nil params", func(t *testing.T) {
		if err := resourceSubscribeHandler(context.Background(), &mcp.SubscribeRequest{}); err == nil {
			t.Fatal("expected error for nil params")
		}
	})

	t.Run("empty URI", func(t *testing.T) {
		if err := resourceSubscribeHandler(context.Background(), &mcp.SubscribeRequest{
			Params: &mcp.SubscribeParams{URI: ""},
		}); err == nil {
			t.Fatal("expected error for empty URI")
		}
	})

	t.Run("valid URI", func(t *testing.T) {
		if err := resourceSubscribeHandler(context.Background(), &mcp.SubscribeRequest{
			Params: &mcp.SubscribeParams{URI: "puzzles://daily"},
		}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}

func TestResourceUnsubscribeHandler(t *testing.T) {
	t.Run("nil request", func(t *testing.T) {
		if err := resourceUnsubscribeHandler(context.Background(), nil); err == nil {
			t.Fatal("expected error for nil request")
		}
	})

	t.Run("valid URI", func(t *testing.T) {
		if err := resourceUnsubscribeHandler(context.Background(), &mcp.UnsubscribeRequest{
			Params: &mcp.UnsubscribeParams{URI: "puzzles://daily"},
		}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}

func newTestConnection() *httpConnection {
	return &httpConnection{
		sessionID:   "test_session",
		reqChan:     make(chan jsonrpc.Message, 1),
		respChan:    make(chan jsonrpc.Message, 1),
		notifyChan:  make(chan jsonrpc.Message, 1),
		closed:      make(chan struct{}),
		ready:       make(chan struct{}, 1),
		pendingReqs: make(map[jsonrpc.ID]chan jsonrpc.Message),
	}
}

func TestHTTPConnectionWriteResponseRouting(t *testing.T) {
	ctx := context.Background()
	conn := newTestConnection()

	reqID, err := jsonrpc.MakeID("req-1")
	if err != nil {
		t.Fatalf("MakeID: %v", err)
	}
	respChan := make(chan jsonrpc.Message, 1)
	conn.pendingMu.Lock()
	conn.pendingReqs[reqID] = respChan
	conn.pendingMu.Unlock()

	resp := &jsonrpc.Response{
		ID: reqID,
	}
	if err := conn.Write(ctx, resp); err != nil {
		t.Fatalf("Write() error: %v", err)
	}

	// The response must land on the pending channel, not the SSE stream.
	select {
	case msg := <-respChan:
		if msg == nil {
			t.Error("expected non-nil message")
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for response on pending channel")
	}
}

func TestHTTPConnectionWriteNotification(t *testing.T) {
	ctx := context.Background()
	conn := newTestConnection()

	notification := &jsonrpc.Request{
		Method: "notifications/resources/updated",
	}
	if err := conn.Write(ctx, notification); err != nil {
		t.Fatalf("Write() error: %v", err)
	}

	select {
	case msg := <-conn.notifyChan:
		if msg == nil {
			t.Error("expected non-nil message")
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for notification")
	}
}

func TestHTTPConnectionReadClosed(t *testing.T) {
	conn := newTestConnection()
	conn.Close()

	_, err := conn.Read(context.Background())
	if err == nil {
		t.Fatal("expected error reading from closed connection")
	}
}

func TestHTTPConnectionReadContextCancelled(t *testing.T) {
	conn := newTestConnection()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := conn.Read(ctx)
	if err == nil {
		t.Fatal("expected error for cancelled context")
	}
}

func TestHTTPConnectionWriteAfterClose(t *testing.T) {
	conn := newTestConnection()
	conn.Close()

	err := conn.Write(context.Background(), &jsonrpc.Request{Method: "notifications/initialized"})
	if err == nil {
		t.Fatal("expected error writing to closed connection")
	}
}

func TestHTTPConnectionCloseIdempotent(t *testing.T) {
	conn := newTestConnection()
	if err := conn.Close(); err != nil {
		t.Fatalf("first close: %v", err)
	}
	if err := conn.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
}

func TestHTTPConnectionReadSignalsReady(t *testing.T) {
	conn := newTestConnection()
	conn.reqChan <- &jsonrpc.Request{Method: "notifications/initialized"}

	if _, err := conn.Read(context.Background()); err != nil {
		t.Fatalf("Read() error: %v", err)
	}

	select {
	case <-conn.ready:
	default:
		t.Fatal("expected ready signal after first read")
	}
}

func TestGenerateSessionID(t *testing.T) {
	t.Run("unique and prefixed", func(t *testing.T) {
		first := generateSessionIDWithRandomRead(nil)
		second := generateSessionIDWithRandomRead(nil)
		if !strings.HasPrefix(first, "session_") {
			t.Errorf("expected session_ prefix, got %q", first)
		}
		if first == second {
			t.Errorf("expected unique session IDs, got %q twice", first)
		}
	})

	t.Run("falls back when random read fails", func(t *testing.T) {
		failing := func([]byte) (int, error) {
			return 0, errors.New("no entropy")
		}
		id := generateSessionIDWithRandomRead(failing)
		if !strings.HasPrefix(id, "session_") {
			t.Errorf("expected session_ prefix from fallback, got %q", id)
		}
	})
}

func TestNewHTTPTransportDefaults(t *testing.T) {
	t.Run("empty addr defaults to localhost", func(t *testing.T) {
		transport := NewHTTPTransport("")
		if transport.addr != "localhost:8081" {
			t.Errorf("expected default addr %q, got %q", "localhost:8081", transport.addr)
		}
	})

	t.Run("sessions map initialized", func(t *testing.T) {
		transport := NewHTTPTransport("localhost:8081")
		if transport.sessions == nil {
			t.Error("expected sessions map to be initialized")
		}
	})

	t.Run("serverOnce map initialized", func(t *testing.T) {
		transport := NewHTTPTransport("localhost:8081")
		if transport.serverOnce == nil {
			t.Error("expected serverOnce map to be initialized")
		}
	})

	t.Run("serverCtx initialized", func(t *testing.T) {
		transport := NewHTTPTransport("localhost:8081")
		if transport.serverCtx == nil {
			t.Error("expected serverCtx to be initialized")
		}
		if transport.serverCancel == nil {
			t.Error("expected serverCancel to be initialized")
		}
	})
}
