// Package domain hosts live puzzle sessions for the play service.
//
// A session owns exactly one variant instance. All access is serialized
// behind the session mutex, so the websocket reader goroutine driving a
// connection is the only writer the engine ever sees.
package domain

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/puzzlebox-games/puzzlebox/internal/content"
	apperrors "github.com/puzzlebox-games/puzzlebox/internal/platform/errors"
	"github.com/puzzlebox-games/puzzlebox/internal/platform/id"
	"github.com/puzzlebox-games/puzzlebox/internal/puzzle"
	"github.com/puzzlebox-games/puzzlebox/internal/puzzle/variants"
	"github.com/puzzlebox-games/puzzlebox/internal/services/play/storage"
)

// DefaultUndoBudget is the number of undos a session starts with when
// the client does not request one.
const DefaultUndoBudget = 5

// ContentSource resolves puzzle content for new sessions.
type ContentSource interface {
	// Puzzle fetches authored content by catalog ID.
	Puzzle(ctx context.Context, puzzleID string) (content.Descriptor, []byte, error)
	// Daily fetches the content assigned to a game type on a civil date.
	Daily(ctx context.Context, date string, gameType puzzle.GameType) (content.Descriptor, []byte, error)
}

// Manager builds and tracks live sessions.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session

	source     ContentSource
	snapshots  storage.SnapshotStore
	undoBudget int
	now        func() time.Time
}

// NewManager creates a session manager. A nil now falls back to
// time.Now; a non-positive undoBudget falls back to DefaultUndoBudget.
func NewManager(source ContentSource, snapshots storage.SnapshotStore, undoBudget int, now func() time.Time) *Manager {
	if undoBudget <= 0 {
		undoBudget = DefaultUndoBudget
	}
	if now == nil {
		now = time.Now
	}
	return &Manager{
		sessions:   make(map[string]*Session),
		source:     source,
		snapshots:  snapshots,
		undoBudget: undoBudget,
		now:        now,
	}
}

// StartInput selects the content a new session plays. PuzzleID wins when
// set; otherwise GameType picks that type's daily for Date (today when
// Date is empty).
type StartInput struct {
	PuzzleID   string
	GameType   string
	Date       string
	UndoBudget int
}

// Start resolves content, builds the variant, and registers a session.
func (m *Manager) Start(ctx context.Context, input StartInput) (*Session, variants.State, error) {
	if m == nil || m.source == nil {
		return nil, variants.State{}, fmt.Errorf("content source is not configured")
	}

	desc, payload, err := m.resolveContent(ctx, input)
	if err != nil {
		return nil, variants.State{}, err
	}

	variant, err := variants.Build(desc, payload)
	if err != nil {
		return nil, variants.State{}, err
	}

	sessionID, err := id.NewID()
	if err != nil {
		return nil, variants.State{}, fmt.Errorf("generate session id: %w", err)
	}

	budget := input.UndoBudget
	if budget <= 0 {
		budget = m.undoBudget
	}

	session := &Session{
		id:         sessionID,
		puzzleID:   desc.ID,
		variant:    variant,
		undoBudget: budget,
		undosLeft:  budget,
		snapshots:  m.snapshots,
		now:        m.now,
	}

	state, err := session.State(ctx)
	if err != nil {
		return nil, variants.State{}, err
	}

	m.mu.Lock()
	m.sessions[sessionID] = session
	m.mu.Unlock()

	auditOp(ctx, sessionID, "start", true)
	return session, state, nil
}

// Get returns the live session registered under sessionID.
func (m *Manager) Get(sessionID string) (*Session, bool) {
	if m == nil {
		return nil, false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	session, ok := m.sessions[sessionID]
	return session, ok
}

// Remove drops a live session. Its last progress snapshot stays in the
// store.
func (m *Manager) Remove(sessionID string) {
	if m == nil {
		return
	}
	m.mu.Lock()
	delete(m.sessions, sessionID)
	m.mu.Unlock()
}

// Progress reads back the stored snapshot for a session.
func (m *Manager) Progress(ctx context.Context, sessionID string) (storage.Progress, error) {
	if m == nil || m.snapshots == nil {
		return storage.Progress{}, fmt.Errorf("snapshot store is not configured")
	}
	return m.snapshots.Get(ctx, sessionID)
}

func (m *Manager) resolveContent(ctx context.Context, input StartInput) (content.Descriptor, []byte, error) {
	if puzzleID := strings.TrimSpace(input.PuzzleID); puzzleID != "" {
		return m.source.Puzzle(ctx, puzzleID)
	}

	slug := strings.TrimSpace(input.GameType)
	if slug == "" {
		return content.Descriptor{}, nil, apperrors.New(apperrors.CodeCatalogEmptyID,
			"puzzle_id or game_type is required")
	}
	gameType, err := puzzle.ParseGameType(slug)
	if err != nil {
		return content.Descriptor{}, nil, apperrors.New(apperrors.CodeCatalogInvalidGameType,
			fmt.Sprintf("unknown game type %q", slug))
	}

	date := strings.TrimSpace(input.Date)
	if date == "" {
		date = m.now().UTC().Format("2006-01-02")
	}
	return m.source.Daily(ctx, date, gameType)
}

// Session is a live puzzle instance. It is the single writer for its
// variant; every method takes the session mutex.
type Session struct {
	mu sync.Mutex

	id         string
	puzzleID   string
	variant    puzzle.Variant
	undoBudget int
	undosLeft  int
	snapshots  storage.SnapshotStore
	now        func() time.Time
}

// ID returns the session identifier.
func (s *Session) ID() string {
	if s == nil {
		return ""
	}
	return s.id
}

// UndosLeft reports the remaining undo budget.
func (s *Session) UndosLeft() int {
	if s == nil {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.undosLeft
}

// Move applies one action through the variant's entry point. Applied
// reports whether the move mutated state; a legal no-op returns applied
// false with a detail and no error.
func (s *Session) Move(ctx context.Context, action string, args json.RawMessage) (variants.State, variants.Outcome, error) {
	if s == nil {
		return variants.State{}, variants.Outcome{}, fmt.Errorf("session is not configured")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.variant.IsComplete() {
		return variants.State{}, variants.Outcome{}, apperrors.New(apperrors.CodeSessionCompleted,
			"puzzle is already complete")
	}

	outcome, err := variants.Apply(s.variant, action, args)
	if err != nil {
		auditOp(ctx, s.id, "move", false)
		return variants.State{}, variants.Outcome{}, err
	}

	state, err := variants.View(s.variant)
	if err != nil {
		return variants.State{}, variants.Outcome{}, err
	}
	if outcome.Applied {
		s.persistLocked(ctx, state)
	}
	auditOp(ctx, s.id, "move", outcome.Applied)
	return state, outcome, nil
}

// Undo restores the state before the last move, spending one unit of
// the session's budget. An empty history reports undone false without
// spending budget.
func (s *Session) Undo(ctx context.Context) (variants.State, bool, error) {
	if s == nil {
		return variants.State{}, false, fmt.Errorf("session is not configured")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.variant.IsComplete() {
		return variants.State{}, false, apperrors.New(apperrors.CodeSessionCompleted,
			"puzzle is already complete")
	}
	if variants.CanUndo(s.variant) && s.undosLeft <= 0 {
		return variants.State{}, false, apperrors.New(apperrors.CodeSessionUndoExhausted,
			"undo budget is exhausted")
	}

	undone, err := variants.Undo(s.variant)
	if err != nil {
		auditOp(ctx, s.id, "undo", false)
		return variants.State{}, false, err
	}

	state, err := variants.View(s.variant)
	if err != nil {
		return variants.State{}, false, err
	}
	if undone {
		s.undosLeft--
		s.persistLocked(ctx, state)
	}
	auditOp(ctx, s.id, "undo", undone)
	return state, undone, nil
}

// Reset restores the initial configuration and the full undo budget.
func (s *Session) Reset(ctx context.Context) (variants.State, error) {
	if s == nil {
		return variants.State{}, fmt.Errorf("session is not configured")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.variant.Reset()
	s.undosLeft = s.undoBudget

	state, err := variants.View(s.variant)
	if err != nil {
		return variants.State{}, err
	}
	s.persistLocked(ctx, state)
	auditOp(ctx, s.id, "reset", true)
	return state, nil
}

// State returns the fully-settled view after the last applied move.
func (s *Session) State(ctx context.Context) (variants.State, error) {
	if s == nil {
		return variants.State{}, fmt.Errorf("session is not configured")
	}
	if err := ctx.Err(); err != nil {
		return variants.State{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return variants.View(s.variant)
}

// persistLocked writes a progress snapshot. Persistence is best-effort
// behind a live session: failures are logged, the mutation stands.
func (s *Session) persistLocked(ctx context.Context, state variants.State) {
	if s.snapshots == nil {
		return
	}
	encoded, err := json.Marshal(state)
	if err != nil {
		log.Printf("play: encode snapshot for session %s: %v", s.id, err)
		return
	}
	env := s.variant.Envelope()
	progress := storage.Progress{
		SessionID:    s.id,
		PuzzleID:     s.puzzleID,
		GameType:     env.Type,
		EncodedState: encoded,
		MoveCount:    env.MoveCount,
		Complete:     env.Complete,
		UpdatedAt:    s.now().UTC(),
	}
	if err := s.snapshots.Put(ctx, progress); err != nil {
		log.Printf("play: persist snapshot for session %s: %v", s.id, err)
	}
}

// auditOp logs one session operation with the active trace context.
func auditOp(ctx context.Context, sessionID, op string, applied bool) {
	var traceID, spanID string
	if sc := trace.SpanFromContext(ctx).SpanContext(); sc.IsValid() {
		traceID = sc.TraceID().String()
		spanID = sc.SpanID().String()
	}
	log.Printf("play: session=%s op=%s applied=%t trace_id=%s span_id=%s",
		sessionID, op, applied, traceID, spanID)
}
