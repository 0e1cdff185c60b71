package service

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func setLocalhostHeaders(req *http.Request) {
	req.Host = "localhost:8081"
}

func TestConnectRegistersSession(t *testing.T) {
	transport := NewHTTPTransport("localhost:8081")

	conn, err := transport.Connect(context.Background())
	if err != nil {
		t.Fatalf("Connect() error: %v", err)
	}
	sessionID := conn.SessionID()
	if sessionID == "" {
		t.Fatal("expected non-empty session ID")
	}

	transport.sessionsMu.RLock()
	session := transport.sessions[sessionID]
	transport.sessionsMu.RUnlock()
	if session == nil {
		t.Fatal("expected session to be registered")
	}
	if session.conn == nil {
		t.Fatal("expected session connection to be set")
	}
}

func TestLookupSession(t *testing.T) {
	transport := NewHTTPTransport("localhost:8081")
	conn, err := transport.Connect(context.Background())
	if err != nil {
		t.Fatalf("Connect() error: %v", err)
	}
	sessionID := conn.SessionID()

	t.Run("found by header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/mcp", nil)
		req.Header.Set("Mcp-Session-Id", sessionID)
		session, gotID, exists := transport.lookupSession(req)
		if !exists {
			t.Fatal("expected session identifier to be present")
		}
		if session == nil {
			t.Fatal("expected session to resolve")
		}
		if gotID != sessionID {
			t.Errorf("expected session ID %q, got %q", sessionID, gotID)
		}
	})

	t.Run("found by cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/mcp", nil)
		req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: sessionID})
		session, _, exists := transport.lookupSession(req)
		if !exists || session == nil {
			t.Fatal("expected cookie session to resolve")
		}
	})

	t.Run("stale identifier", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/mcp", nil)
		req.Header.Set("Mcp-Session-Id", "expired-session")
		session, _, exists := transport.lookupSession(req)
		if !exists {
			t.Fatal("expected exists for presented identifier")
		}
		if session != nil {
			t.Fatal("expected stale identifier to resolve to nil session")
		}
	})

	t.Run("absent identifier", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/mcp", nil)
		_, _, exists := transport.lookupSession(req)
		if exists {
			t.Fatal("expected exists false without identifier")
		}
	})
}

func TestTouchSessionRefreshesIdleTimer(t *testing.T) {
	transport := NewHTTPTransport("localhost:8081")
	conn, err := transport.Connect(context.Background())
	if err != nil {
		t.Fatalf("Connect() error: %v", err)
	}
	sessionID := conn.SessionID()

	stale := time.Now().Add(-2 * time.Hour)
	transport.sessionsMu.Lock()
	transport.sessions[sessionID].lastUsed = stale
	transport.sessionsMu.Unlock()

	transport.touchSession(sessionID)

	transport.sessionsMu.RLock()
	lastUsed := transport.sessions[sessionID].lastUsed
	transport.sessionsMu.RUnlock()
	if !lastUsed.After(stale) {
		t.Fatal("expected touch to refresh lastUsed")
	}
}

func TestEnsureServerRunningWithoutServer(t *testing.T) {
	transport := NewHTTPTransport("localhost:8081")
	conn, err := transport.Connect(context.Background())
	if err != nil {
		t.Fatalf("Connect() error: %v", err)
	}

	transport.sessionsMu.RLock()
	session := transport.sessions[conn.SessionID()]
	transport.sessionsMu.RUnlock()

	done := make(chan struct{})
	go func() {
		transport.ensureServerRunning(session)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("ensureServerRunning did not return for nil server")
	}
}

func TestHandleHealth(t *testing.T) {
	t.Run("GET returns OK", func(t *testing.T) {
		transport := NewHTTPTransport("localhost:8081")
		req := httptest.NewRequest(http.MethodGet, "/mcp/health", nil)
		setLocalhostHeaders(req)
		w := httptest.NewRecorder()
		transport.handleHealth(w, req)
		if w.Code != http.StatusOK {
			t.Errorf("expected 200, got %d", w.Code)
		}
		if body := w.Body.String(); body != "OK" {
			t.Errorf("expected body OK, got %q", body)
		}
	})

	t.Run("POST rejected", func(t *testing.T) {
		transport := NewHTTPTransport("localhost:8081")
		req := httptest.NewRequest(http.MethodPost, "/mcp/health", nil)
		setLocalhostHeaders(req)
		w := httptest.NewRecorder()
		transport.handleHealth(w, req)
		if w.Code != http.StatusMethodNotAllowed {
			t.Errorf("expected 405, got %d", w.Code)
		}
	})

	t.Run("invalid host rejected", func(t *testing.T) {
		transport := NewHTTPTransport("localhost:8081")
		req := httptest.NewRequest(http.MethodGet, "/mcp/health", nil)
		req.Host = "evil.com"
		w := httptest.NewRecorder()
		transport.handleHealth(w, req)
		if w.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", w.Code)
		}
	})
}

func TestHandleMessagesRejectsInvalidHost(t *testing.T) {
	transport := NewHTTPTransport("localhost:8081")
	req := httptest.NewRequest(http.MethodPost, "/mcp", strings.NewReader("{}"))
	req.Host = "evil.com"
	w := httptest.NewRecorder()

	transport.handleMessages(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestHandleMessagesRejectsWrongMethod(t *testing.T) {
	transport := NewHTTPTransport("localhost:8081")
	req := httptest.NewRequest(http.MethodGet, "/mcp", nil)
	setLocalhostHeaders(req)
	w := httptest.NewRecorder()

	transport.handleMessages(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", w.Code)
	}
}

func TestHandleMessagesRejectsMalformedJSON(t *testing.T) {
	transport := NewHTTPTransport("localhost:8081")
	req := httptest.NewRequest(http.MethodPost, "/mcp", strings.NewReader(`{"jsonrpc":`))
	setLocalhostHeaders(req)
	w := httptest.NewRecorder()

	transport.handleMessages(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestHandleMessagesRequiresSessionForRequests(t *testing.T) {
	transport := NewHTTPTransport("localhost:8081")
	body := `{"jsonrpc":"2.0","id":1,"method":"tools/list"}`
	req := httptest.NewRequest(http.MethodPost, "/mcp", strings.NewReader(body))
	setLocalhostHeaders(req)
	w := httptest.NewRecorder()

	transport.handleMessages(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Invalid or missing session ID") {
		t.Errorf("expected missing session error, got %q", w.Body.String())
	}
}

func TestHandleMessagesRejectsStaleSession(t *testing.T) {
	transport := NewHTTPTransport("localhost:8081")
	body := `{"jsonrpc":"2.0","id":1,"method":"tools/list"}`
	req := httptest.NewRequest(http.MethodPost, "/mcp", strings.NewReader(body))
	setLocalhostHeaders(req)
	req.Header.Set("Mcp-Session-Id", "expired-session")
	w := httptest.NewRecorder()

	transport.handleMessages(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Invalid session ID") {
		t.Errorf("expected stale session error, got %q", w.Body.String())
	}
}

func TestHandleMessagesRejectsResponseMessages(t *testing.T) {
	transport := NewHTTPTransport("localhost:8081")
	conn, err := transport.Connect(context.Background())
	if err != nil {
		t.Fatalf("Connect() error: %v", err)
	}

	body := `{"jsonrpc":"2.0","id":1,"result":{}}`
	req := httptest.NewRequest(http.MethodPost, "/mcp", strings.NewReader(body))
	setLocalhostHeaders(req)
	req.Header.Set("Mcp-Session-Id", conn.SessionID())
	w := httptest.NewRecorder()

	transport.handleMessages(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "response") {
		t.Errorf("expected response rejection, got %q", w.Body.String())
	}
}

func TestHandleMessagesAcceptsNotification(t *testing.T) {
	transport := NewHTTPTransport("localhost:8081")
	conn, err := transport.Connect(context.Background())
	if err != nil {
		t.Fatalf("Connect() error: %v", err)
	}
	sessionID := conn.SessionID()

	body := `{"jsonrpc":"2.0","method":"notifications/initialized"}`
	req := httptest.NewRequest(http.MethodPost, "/mcp", strings.NewReader(body))
	setLocalhostHeaders(req)
	req.Header.Set("Mcp-Session-Id", sessionID)
	w := httptest.NewRecorder()

	transport.handleMessages(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d: %s", w.Code, w.Body.String())
	}

	transport.sessionsMu.RLock()
	session := transport.sessions[sessionID]
	transport.sessionsMu.RUnlock()
	select {
	case msg := <-session.conn.reqChan:
		if msg == nil {
			t.Error("expected queued notification")
		}
	default:
		t.Fatal("expected notification on request channel")
	}
}

func TestHandleSSERequiresSession(t *testing.T) {
	transport := NewHTTPTransport("localhost:8081")
	req := httptest.NewRequest(http.MethodGet, "/mcp", nil)
	setLocalhostHeaders(req)
	w := httptest.NewRecorder()

	transport.handleSSE(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestHandleSSEInvalidSessionHeader(t *testing.T) {
	transport := NewHTTPTransport("localhost:8081")

	req := httptest.NewRequest(http.MethodGet, "/mcp", nil)
	setLocalhostHeaders(req)
	req.Header.Set("Mcp-Session-Id", "nonexistent-session")
	w := httptest.NewRecorder()

	transport.handleSSE(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestHandleSSERejectsWrongMethod(t *testing.T) {
	transport := NewHTTPTransport("localhost:8081")
	req := httptest.NewRequest(http.MethodPost, "/mcp", nil)
	setLocalhostHeaders(req)
	w := httptest.NewRecorder()

	transport.handleSSE(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", w.Code)
	}
}

func TestHandleSSEWithSession(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	transport := NewHTTPTransport("localhost:8081")

	conn, err := transport.Connect(ctx)
	if err != nil {
		t.Fatalf("Connect() error: %v", err)
	}
	sessionID := conn.SessionID()

	req := httptest.NewRequest(http.MethodGet, "/mcp", nil)
	setLocalhostHeaders(req)
	req.Header.Set("Mcp-Session-Id", sessionID)
	req = req.WithContext(ctx)
	w := httptest.NewRecorder()

	// handleSSE blocks until context cancellation, so run it in a goroutine.
	done := make(chan struct{})
	go func() {
		transport.handleSSE(w, req)
		close(done)
	}()

	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("handleSSE did not return after context cancellation")
	}

	if ct := w.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("expected Content-Type text/event-stream, got %q", ct)
	}
}

func TestStartServesAndStops(t *testing.T) {
	transport := NewHTTPTransport("127.0.0.1:0")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	startErr := make(chan error, 1)
	go func() {
		startErr <- transport.Start(ctx)
	}()

	cancel()

	select {
	case err := <-startErr:
		if err != nil {
			t.Fatalf("Start returned error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Start did not stop after cancel")
	}
}

func TestStartReturnsListenError(t *testing.T) {
	originalListen := listenTCP
	listenTCP = func(string, string) (net.Listener, error) {
		return nil, errors.New("address in use")
	}
	defer func() { listenTCP = originalListen }()

	transport := NewHTTPTransport("127.0.0.1:0")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	err := transport.Start(ctx)
	if err == nil {
		t.Fatal("expected error when listen fails")
	}
	if !strings.Contains(err.Error(), "address in use") {
		t.Errorf("expected listen error, got: %v", err)
	}
}
