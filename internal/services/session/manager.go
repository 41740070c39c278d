package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/puzpuzpuz/xsync/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/mcoot/cardwar/internal/dependencies/clock"
	"github.com/mcoot/cardwar/internal/dependencies/random"
	"github.com/mcoot/cardwar/internal/model"
	"github.com/mcoot/cardwar/internal/services/snapshot"
	"github.com/mcoot/cardwar/internal/services/war"
)

const (
	tracerName = "github.com/mcoot/cardwar/internal/services/session"

	// createAttempts bounds retries on session id collisions
	createAttempts = 3
)

// Manager owns every live session. Mutations of one session are serialized
// by that session's lock; different sessions never block each other.
type Manager struct {
	sessions *xsync.Map[model.SessionID, *entry]
	locks    *lockTable
	resolver *war.Resolver
	clock    clock.Clock
	random   random.Random
	tracer   trace.Tracer
	logger   *slog.Logger
}

// entry is a registered session. session is guarded by the session lock;
// view holds the snapshot published by the last mutation and is read
// without locking.
type entry struct {
	session *model.Session
	view    atomic.Pointer[snapshot.View]
}

func (e *entry) publish() *snapshot.View {
	v := snapshot.Project(e.session)
	e.view.Store(v)
	return v
}

// NewManager creates a new session Manager
func NewManager(resolver *war.Resolver, clk clock.Clock, rnd random.Random, logger *slog.Logger) *Manager {
	return &Manager{
		sessions: xsync.NewMap[model.SessionID, *entry](),
		locks:    newLockTable(),
		resolver: resolver,
		clock:    clk,
		random:   rnd,
		tracer:   otel.Tracer(tracerName),
		logger:   logger.With(slog.String("component", "session")),
	}
}

// CreateSession registers a Waiting session with host as player1
func (m *Manager) CreateSession(ctx context.Context, host model.Participant) (model.SessionID, error) {
	_, span := m.startSpan(ctx, "CreateSession", "", host.UserID)
	defer span.End()

	now := m.clock.Now()
	for attempt := 0; attempt < createAttempts; attempt++ {
		id := model.SessionID(m.random.UUID())
		e := &entry{session: &model.Session{
			ID:        id,
			Player1:   model.NewPlayer(host, m.random),
			Status:    model.SessionStatusWaiting,
			CreatedAt: now,
			UpdatedAt: now,
		}}
		e.publish()

		m.locks.pin(id)
		if _, loaded := m.sessions.LoadOrStore(id, e); loaded {
			m.locks.unpin(id)
			continue
		}

		span.SetAttributes(attribute.String("session.id", string(id)))
		m.logger.Info("session created",
			slog.String("session_id", string(id)),
			slog.Int64("user_id", int64(host.UserID)))
		return id, nil
	}

	err := errors.New("could not allocate a unique session id")
	recordError(span, err)
	return "", err
}

// JoinSession seats p as player2 and starts play
func (m *Manager) JoinSession(ctx context.Context, id model.SessionID, p model.Participant) (*snapshot.View, error) {
	_, span := m.startSpan(ctx, "JoinSession", id, p.UserID)
	defer span.End()

	release := m.locks.acquire(id)
	defer release()

	e, ok := m.sessions.Load(id)
	if !ok {
		return nil, recordError(span, model.ErrSessionNotFound)
	}
	s := e.session
	if s.Player2 != nil {
		return nil, recordError(span, model.ErrSessionFull)
	}
	if s.Player1.UserID == p.UserID {
		return nil, recordError(span, model.ErrAlreadyInSession)
	}

	s.Start(model.NewPlayer(p, m.random))
	s.UpdatedAt = m.clock.Now()
	if err := m.check(s, "join"); err != nil {
		return nil, recordError(span, err)
	}

	m.logger.Info("session started",
		slog.String("session_id", string(id)),
		slog.Int64("player1_id", int64(s.Player1.UserID)),
		slog.Int64("player2_id", int64(s.Player2.UserID)))
	return e.publish(), nil
}

// PlayCard plays the acting user's top card. A play out of turn, by a
// non-participant, or on a session that is not in progress leaves the
// session untouched and returns its current view.
func (m *Manager) PlayCard(ctx context.Context, id model.SessionID, userID model.UserID) (*snapshot.View, error) {
	_, span := m.startSpan(ctx, "PlayCard", id, userID)
	defer span.End()

	if _, ok := m.sessions.Load(id); !ok {
		return nil, recordError(span, model.ErrSessionNotFound)
	}

	release := m.locks.acquire(id)
	defer release()

	e, ok := m.sessions.Load(id)
	if !ok {
		return nil, recordError(span, model.ErrSessionNotFound)
	}
	s := e.session

	played, err := m.playRound(s, userID)
	if err != nil {
		return nil, recordError(span, err)
	}
	if !played {
		span.SetAttributes(attribute.Bool("play.ignored", true))
		return e.view.Load(), nil
	}

	s.UpdatedAt = m.clock.Now()
	if err := m.check(s, "play"); err != nil {
		return nil, recordError(span, err)
	}
	if s.IsFinished() {
		m.logger.Info("session finished",
			slog.String("session_id", string(id)),
			slog.Int64("winner_id", int64(s.Winner.UserID)),
			slog.Int("turns", s.TurnCount))
	}
	span.SetAttributes(
		attribute.String("session.status", string(s.Status)),
		attribute.Int("session.turn", s.TurnCount))
	return e.publish(), nil
}

// GetSession returns the latest published view without taking the session lock
func (m *Manager) GetSession(id model.SessionID) (*snapshot.View, error) {
	e, ok := m.sessions.Load(id)
	if !ok {
		return nil, model.ErrSessionNotFound
	}
	return e.view.Load(), nil
}

// Forfeit concedes the session on behalf of userID; the opponent wins.
// Finished sessions are returned unchanged.
func (m *Manager) Forfeit(ctx context.Context, id model.SessionID, userID model.UserID) (*snapshot.View, error) {
	_, span := m.startSpan(ctx, "Forfeit", id, userID)
	defer span.End()

	release := m.locks.acquire(id)
	defer release()

	e, ok := m.sessions.Load(id)
	if !ok {
		return nil, recordError(span, model.ErrSessionNotFound)
	}
	s := e.session

	p := s.PlayerByUser(userID)
	if p == nil {
		return nil, recordError(span, model.ErrNotParticipant)
	}
	switch s.Status {
	case model.SessionStatusWaiting:
		return nil, recordError(span, model.ErrSessionNotStarted)
	case model.SessionStatusFinished:
		return e.view.Load(), nil
	}

	s.Finish(s.Opponent(p))
	s.UpdatedAt = m.clock.Now()
	if err := m.check(s, "forfeit"); err != nil {
		return nil, recordError(span, err)
	}

	m.logger.Info("session forfeited",
		slog.String("session_id", string(id)),
		slog.Int64("user_id", int64(userID)),
		slog.Int64("winner_id", int64(s.Winner.UserID)))
	return e.publish(), nil
}

// EndSession deregisters a session and releases its lock
func (m *Manager) EndSession(ctx context.Context, id model.SessionID) error {
	_, span := m.startSpan(ctx, "EndSession", id, 0)
	defer span.End()

	release := m.locks.acquire(id)
	defer release()

	if _, ok := m.sessions.LoadAndDelete(id); !ok {
		return recordError(span, model.ErrSessionNotFound)
	}
	m.locks.unpin(id)

	m.logger.Info("session ended", slog.String("session_id", string(id)))
	return nil
}

// Shutdown ends every live session and returns how many were ended
func (m *Manager) Shutdown(ctx context.Context) int {
	var ids []model.SessionID
	m.sessions.Range(func(id model.SessionID, _ *entry) bool {
		ids = append(ids, id)
		return true
	})

	ended := 0
	for _, id := range ids {
		if err := m.EndSession(ctx, id); err == nil {
			ended++
		}
	}
	m.logger.Info("session manager shut down", slog.Int("ended", ended))
	return ended
}

// Count returns the number of live sessions
func (m *Manager) Count() int {
	return m.sessions.Size()
}

// check validates a session after a mutation. Failures are logged loudly
// and reported as ErrCorruptSession.
func (m *Manager) check(s *model.Session, op string) error {
	if err := s.Validate(); err != nil {
		m.logger.Error("session invariant violated",
			slog.String("session_id", string(s.ID)),
			slog.String("op", op),
			slog.String("status", string(s.Status)),
			slog.Int("total_cards", s.TotalCards()))
		return fmt.Errorf("%s session %s: %w", op, s.ID, err)
	}
	return nil
}

func (m *Manager) startSpan(ctx context.Context, op string, id model.SessionID, userID model.UserID) (context.Context, trace.Span) {
	attrs := []attribute.KeyValue{}
	if id != "" {
		attrs = append(attrs, attribute.String("session.id", string(id)))
	}
	if userID != 0 {
		attrs = append(attrs, attribute.Int64("user.id", int64(userID)))
	}
	return m.tracer.Start(ctx, "session."+op, trace.WithAttributes(attrs...))
}

func recordError(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
