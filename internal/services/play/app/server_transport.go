package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	apperrors "github.com/puzzlebox-games/puzzlebox/internal/platform/errors"
	"github.com/puzzlebox-games/puzzlebox/internal/puzzle/variants"
	"github.com/puzzlebox-games/puzzlebox/internal/services/play/domain"
	"golang.org/x/net/websocket"
)

const (
	maxFramePayloadBytes   = 16 * 1024
	maxFramesPerSecond     = 40
	maxDecodeErrorsPerConn = 3
)

// wsFrame is one client request. Op selects the session operation.
type wsFrame struct {
	Op        string          `json:"op"`
	RequestID string          `json:"request_id,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

// wsResult is the server's reply to one frame. State is present exactly
// when OK is true.
type wsResult struct {
	Op        string          `json:"op"`
	RequestID string          `json:"request_id,omitempty"`
	OK        bool            `json:"ok"`
	SessionID string          `json:"session_id,omitempty"`
	State     *variants.State `json:"state,omitempty"`
	Error     *wsError        `json:"error,omitempty"`
}

type wsError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Retryable bool   `json:"retryable"`
}

type startPayload struct {
	PuzzleID   string `json:"puzzle_id,omitempty"`
	GameType   string `json:"game_type,omitempty"`
	Date       string `json:"date,omitempty"`
	UndoBudget int    `json:"undo_budget,omitempty"`
}

type movePayload struct {
	SessionID string          `json:"session_id"`
	Action    string          `json:"action"`
	Args      json.RawMessage `json:"args,omitempty"`
}

type sessionPayload struct {
	SessionID string `json:"session_id"`
}

// NewHandler creates play routes around a session manager.
func NewHandler(manager *domain.Manager) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/up", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	wsHandler := websocket.Handler(func(conn *websocket.Conn) {
		handlePlayConn(conn, manager)
	})

	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.Header().Set("Allow", http.MethodGet)
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		wsHandler.ServeHTTP(w, r)
	})

	return mux
}

// handlePlayConn drives one websocket connection. The loop is the only
// goroutine touching the sessions it starts, which keeps each session
// single-writer.
func handlePlayConn(conn *websocket.Conn, manager *domain.Manager) {
	defer func() {
		_ = conn.Close()
	}()

	ctx := context.Background()
	if request := conn.Request(); request != nil {
		ctx = request.Context()
	}

	decoder := json.NewDecoder(conn)
	encoder := json.NewEncoder(conn)

	owned := make(map[string]bool)
	defer func() {
		for sessionID := range owned {
			manager.Remove(sessionID)
		}
	}()

	windowStart := time.Now()
	framesInWindow := 0
	decodeErrors := 0

	for {
		var frame wsFrame
		if err := decoder.Decode(&frame); err != nil {
			if errors.Is(err, io.EOF) {
				return
			}
			decodeErrors++
			_ = writeWSError(encoder, "", "", "INVALID_ARGUMENT", "invalid frame payload", false)
			if decodeErrors >= maxDecodeErrorsPerConn {
				return
			}
			continue
		}
		decodeErrors = 0

		if len(frame.Payload) > maxFramePayloadBytes {
			_ = writeWSError(encoder, frame.Op, frame.RequestID, "INVALID_ARGUMENT", "payload too large", false)
			continue
		}

		now := time.Now()
		if now.Sub(windowStart) >= time.Second {
			windowStart = now
			framesInWindow = 0
		}
		framesInWindow++
		if framesInWindow > maxFramesPerSecond {
			_ = writeWSError(encoder, frame.Op, frame.RequestID, "RESOURCE_EXHAUSTED", "rate limit exceeded", true)
			return
		}

		switch frame.Op {
		case "start":
			handleStartFrame(ctx, encoder, manager, owned, frame)
		case "move":
			handleMoveFrame(ctx, encoder, manager, owned, frame)
		case "undo":
			handleUndoFrame(ctx, encoder, manager, owned, frame)
		case "reset":
			handleResetFrame(ctx, encoder, manager, owned, frame)
		case "state":
			handleStateFrame(ctx, encoder, manager, owned, frame)
		default:
			_ = writeWSError(encoder, frame.Op, frame.RequestID, "INVALID_ARGUMENT", "unsupported frame op", false)
		}
	}
}

func handleStartFrame(ctx context.Context, encoder *json.Encoder, manager *domain.Manager, owned map[string]bool, frame wsFrame) {
	var payload startPayload
	if len(frame.Payload) > 0 {
		if err := json.Unmarshal(frame.Payload, &payload); err != nil {
			_ = writeWSError(encoder, frame.Op, frame.RequestID, "INVALID_ARGUMENT", "invalid start payload", false)
			return
		}
	}

	session, state, err := manager.Start(ctx, domain.StartInput{
		PuzzleID:   payload.PuzzleID,
		GameType:   payload.GameType,
		Date:       payload.Date,
		UndoBudget: payload.UndoBudget,
	})
	if err != nil {
		_ = writeWSError(encoder, frame.Op, frame.RequestID, errorCode(err), err.Error(), false)
		return
	}
	owned[session.ID()] = true

	_ = writeResult(encoder, wsResult{
		Op:        frame.Op,
		RequestID: frame.RequestID,
		OK:        true,
		SessionID: session.ID(),
		State:     &state,
	})
}

func handleMoveFrame(ctx context.Context, encoder *json.Encoder, manager *domain.Manager, owned map[string]bool, frame wsFrame) {
	var payload movePayload
	if err := json.Unmarshal(frame.Payload, &payload); err != nil {
		_ = writeWSError(encoder, frame.Op, frame.RequestID, "INVALID_ARGUMENT", "invalid move payload", false)
		return
	}
	session, ok := ownedSession(manager, owned, payload.SessionID)
	if !ok {
		_ = writeWSError(encoder, frame.Op, frame.RequestID, string(apperrors.CodeNotFound), "unknown session", false)
		return
	}
	if strings.TrimSpace(payload.Action) == "" {
		_ = writeWSError(encoder, frame.Op, frame.RequestID, "INVALID_ARGUMENT", "action is required", false)
		return
	}

	state, outcome, err := session.Move(ctx, payload.Action, payload.Args)
	if err != nil {
		_ = writeWSError(encoder, frame.Op, frame.RequestID, errorCode(err), err.Error(), false)
		return
	}
	if !outcome.Applied {
		message := outcome.Detail
		if message == "" {
			message = "move is not legal in the current state"
		}
		_ = writeWSError(encoder, frame.Op, frame.RequestID, string(apperrors.CodeSessionMoveRejected), message, false)
		return
	}

	_ = writeResult(encoder, wsResult{
		Op:        frame.Op,
		RequestID: frame.RequestID,
		OK:        true,
		SessionID: session.ID(),
		State:     &state,
	})
}

func handleUndoFrame(ctx context.Context, encoder *json.Encoder, manager *domain.Manager, owned map[string]bool, frame wsFrame) {
	session, ok := decodeSessionFrame(encoder, manager, owned, frame)
	if !ok {
		return
	}

	state, undone, err := session.Undo(ctx)
	if err != nil {
		_ = writeWSError(encoder, frame.Op, frame.RequestID, errorCode(err), err.Error(), false)
		return
	}
	if !undone {
		_ = writeWSError(encoder, frame.Op, frame.RequestID, string(apperrors.CodeSessionNothingToUndo), "nothing to undo", false)
		return
	}

	_ = writeResult(encoder, wsResult{
		Op:        frame.Op,
		RequestID: frame.RequestID,
		OK:        true,
		SessionID: session.ID(),
		State:     &state,
	})
}

func handleResetFrame(ctx context.Context, encoder *json.Encoder, manager *domain.Manager, owned map[string]bool, frame wsFrame) {
	session, ok := decodeSessionFrame(encoder, manager, owned, frame)
	if !ok {
		return
	}

	state, err := session.Reset(ctx)
	if err != nil {
		_ = writeWSError(encoder, frame.Op, frame.RequestID, errorCode(err), err.Error(), false)
		return
	}

	_ = writeResult(encoder, wsResult{
		Op:        frame.Op,
		RequestID: frame.RequestID,
		OK:        true,
		SessionID: session.ID(),
		State:     &state,
	})
}

func handleStateFrame(ctx context.Context, encoder *json.Encoder, manager *domain.Manager, owned map[string]bool, frame wsFrame) {
	session, ok := decodeSessionFrame(encoder, manager, owned, frame)
	if !ok {
		return
	}

	state, err := session.State(ctx)
	if err != nil {
		_ = writeWSError(encoder, frame.Op, frame.RequestID, errorCode(err), err.Error(), false)
		return
	}

	_ = writeResult(encoder, wsResult{
		Op:        frame.Op,
		RequestID: frame.RequestID,
		OK:        true,
		SessionID: session.ID(),
		State:     &state,
	})
}

// decodeSessionFrame resolves the session for ops whose payload is just
// a session id. A false return means an error frame was already written.
func decodeSessionFrame(encoder *json.Encoder, manager *domain.Manager, owned map[string]bool, frame wsFrame) (*domain.Session, bool) {
	var payload sessionPayload
	if err := json.Unmarshal(frame.Payload, &payload); err != nil {
		_ = writeWSError(encoder, frame.Op, frame.RequestID, "INVALID_ARGUMENT", "invalid session payload", false)
		return nil, false
	}
	session, ok := ownedSession(manager, owned, payload.SessionID)
	if !ok {
		_ = writeWSError(encoder, frame.Op, frame.RequestID, string(apperrors.CodeNotFound), "unknown session", false)
		return nil, false
	}
	return session, true
}

// ownedSession resolves a session started by this connection. Sessions
// belonging to other connections stay invisible, which keeps every
// session single-writer.
func ownedSession(manager *domain.Manager, owned map[string]bool, sessionID string) (*domain.Session, bool) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" || !owned[sessionID] {
		return nil, false
	}
	return manager.Get(sessionID)
}

func errorCode(err error) string {
	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		return string(appErr.Code)
	}
	return string(apperrors.CodeUnknown)
}

func writeWSError(encoder *json.Encoder, op, requestID, code, message string, retryable bool) error {
	return writeResult(encoder, wsResult{
		Op:        op,
		RequestID: requestID,
		OK:        false,
		Error: &wsError{
			Code:      code,
			Message:   message,
			Retryable: retryable,
		},
	})
}

func writeResult(encoder *json.Encoder, result wsResult) error {
	if err := encoder.Encode(result); err != nil {
		log.Printf("play: write websocket frame: %v", err)
		return err
	}
	return nil
}
