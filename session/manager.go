package session

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	smartdocs "github.com/Nikhilpandey8/smartdocshub"
	"github.com/Nikhilpandey8/smartdocshub/doctpl"
)

// Manager tracks open sessions by id.
//
// Sessions a client never closes are reclaimed: with an idle timeout, a
// session unused for longer than it is closed on the next Open or Get,
// unless a generation is pending. With a session limit, Open closes the
// least recently used session to make room.
type Manager struct {
	gen         *doctpl.Generator
	generate    generateFunc
	log         *zap.Logger
	timeout     time.Duration
	idle        time.Duration
	maxSessions int
	now         func() time.Time

	mu       sync.Mutex
	sessions map[uuid.UUID]*Session
}

// Option configures a Manager.
type Option func(*Manager)

func WithLogger(l *zap.Logger) Option {
	return func(m *Manager) {
		m.log = l
	}
}

// WithTimeout bounds every generation started through the manager.
func WithTimeout(d time.Duration) Option {
	return func(m *Manager) {
		m.timeout = d
	}
}

// WithIdleTimeout closes sessions unused for longer than d. Zero keeps
// sessions until they are closed.
func WithIdleTimeout(d time.Duration) Option {
	return func(m *Manager) {
		m.idle = d
	}
}

// WithMaxSessions caps the number of open sessions. Zero means no limit.
func WithMaxSessions(n int) Option {
	return func(m *Manager) {
		m.maxSessions = n
	}
}

func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// NewManager returns a manager whose sessions render with gen.
func NewManager(gen *doctpl.Generator, opts ...Option) *Manager {
	m := &Manager{
		gen:      gen,
		generate: gen.Generate,
		log:      zap.NewNop(),
		now:      time.Now,
		sessions: make(map[uuid.UUID]*Session),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.log = m.log.Named("session")
	return m
}

// Open starts a session for tpl. prefill seeds the data when editing
// existing content; it is copied.
func (m *Manager) Open(tpl smartdocs.Template, prefill smartdocs.DocumentData) *Session {
	id := uuid.New()
	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		ID:       id,
		Opened:   m.now(),
		tpl:      tpl,
		generate: m.generate,
		timeout:  m.timeout,
		log:      m.log.With(zap.String("session", id.String()), zap.String("template", tpl.ID)),
		ctx:      ctx,
		cancel:   cancel,
		data:     prefill.Clone(),
	}
	s.release = func() {
		m.mu.Lock()
		delete(m.sessions, id)
		m.mu.Unlock()
	}

	m.mu.Lock()
	stale := m.expiredLocked(s.Opened)
	if m.maxSessions > 0 && len(m.sessions)-len(stale) >= m.maxSessions {
		if lru := m.leastRecentLocked(stale); lru != nil {
			stale = append(stale, lru)
		}
	}
	s.lastUsed = s.Opened
	m.sessions[id] = s
	m.mu.Unlock()
	m.reap(stale)
	s.log.Debug("session opened", zap.Int("prefilled", prefill.Len()))
	return s
}

// expiredLocked returns the sessions idle for longer than the idle timeout.
// m.mu must be held.
func (m *Manager) expiredLocked(now time.Time) []*Session {
	if m.idle <= 0 {
		return nil
	}
	var out []*Session
	for _, s := range m.sessions {
		if now.Sub(s.lastUsed) > m.idle && !s.Pending() {
			out = append(out, s)
		}
	}
	return out
}

// leastRecentLocked returns the open session used longest ago that is not
// in skip. m.mu must be held.
func (m *Manager) leastRecentLocked(skip []*Session) *Session {
	var lru *Session
	for _, s := range m.sessions {
		if slices.Contains(skip, s) {
			continue
		}
		if lru == nil || s.lastUsed.Before(lru.lastUsed) {
			lru = s
		}
	}
	return lru
}

func (m *Manager) reap(stale []*Session) {
	for _, s := range stale {
		s.log.Info("closing unused session", zap.Time("lastUsed", s.lastUsed))
		s.Close()
	}
}

// Get returns the open session with the given id.
func (m *Manager) Get(id string) (*Session, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("session: invalid id %q: %w", id, err)
	}
	now := m.now()
	m.mu.Lock()
	stale := m.expiredLocked(now)
	s, ok := m.sessions[uid]
	if ok && !slices.Contains(stale, s) {
		s.lastUsed = now
	} else {
		ok = false
	}
	m.mu.Unlock()
	m.reap(stale)
	if !ok {
		return nil, fmt.Errorf("session %s: %w", id, smartdocs.ErrSessionClosed)
	}
	return s, nil
}

// Close closes the session with the given id.
func (m *Manager) Close(id string) error {
	s, err := m.Get(id)
	if err != nil {
		return err
	}
	s.Close()
	return nil
}

// CloseAll closes every open session.
func (m *Manager) CloseAll() {
	m.mu.Lock()
	open := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		open = append(open, s)
	}
	m.mu.Unlock()
	for _, s := range open {
		s.Close()
	}
}

// Len returns the number of open sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Generator returns the generator shared by all sessions.
func (m *Manager) Generator() *doctpl.Generator { return m.gen }

// GenerateAssignment exports a free-text assignment. It needs no session
// because the input is not edited field by field.
func (m *Manager) GenerateAssignment(ctx context.Context, a doctpl.Assignment, format smartdocs.Format) (*smartdocs.Artifact, error) {
	if m.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}
	return m.gen.GenerateAssignment(ctx, a, format)
}
