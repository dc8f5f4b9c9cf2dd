// Package session implements editing sessions: a session owns the document
// data for one template, merges control updates into it, and runs
// generation in the background.
//
// Generation reads a snapshot of the data taken when it is requested, so
// later edits never affect a call already in flight. Only one generation may
// be pending per session; a second request is rejected with
// smartdocs.ErrGenerationPending. Closing a session cancels a pending
// generation and discards its result.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	smartdocs "github.com/Nikhilpandey8/smartdocshub"
	"github.com/Nikhilpandey8/smartdocshub/form"
)

type generateFunc func(ctx context.Context, tpl smartdocs.Template, data smartdocs.DocumentData, format smartdocs.Format) (*smartdocs.Artifact, error)

// Session is one open editing surface for a template.
type Session struct {
	ID       uuid.UUID
	Opened   time.Time
	tpl      smartdocs.Template
	generate generateFunc
	timeout  time.Duration
	log      *zap.Logger
	release  func()
	lastUsed time.Time // guarded by the manager

	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	data    smartdocs.DocumentData
	pending *Pending
	closed  bool
}

// Template returns the template being edited.
func (s *Session) Template() smartdocs.Template { return s.tpl }

// Set applies input to the control of fieldID and stores the result.
// Rejected input leaves the data unchanged.
func (s *Session) Set(fieldID string, in form.Input) (form.View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return form.View{}, smartdocs.ErrSessionClosed
	}
	return form.Apply(s.tpl, &s.data, fieldID, in)
}

// Views renders every field with its current value.
func (s *Session) Views() []form.View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return form.Render(s.tpl, s.data)
}

// Data returns a copy of the current document data.
func (s *Session) Data() smartdocs.DocumentData {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.Clone()
}

// Validate reports missing required fields without generating.
func (s *Session) Validate() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return smartdocs.Validate(s.tpl, s.data)
}

// Pending reports whether a generation is in flight.
func (s *Session) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending != nil
}

// Generate starts rendering the current data in format and returns
// immediately. Cancelling ctx or closing the session stops the work.
func (s *Session) Generate(ctx context.Context, format smartdocs.Format) (*Pending, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, smartdocs.ErrSessionClosed
	}
	if s.pending != nil {
		return nil, smartdocs.ErrGenerationPending
	}

	snap := s.data.Clone()
	var (
		jobCtx context.Context
		cancel context.CancelFunc
	)
	if s.timeout > 0 {
		jobCtx, cancel = context.WithTimeout(s.ctx, s.timeout)
	} else {
		jobCtx, cancel = context.WithCancel(s.ctx)
	}
	stop := context.AfterFunc(ctx, cancel)

	p := &Pending{Format: format, done: make(chan struct{})}
	s.pending = p
	s.log.Debug("generation dispatched", zap.String("format", string(format)))

	go func() {
		defer cancel()
		defer stop()
		art, err := s.generate(jobCtx, s.tpl, snap, format)

		s.mu.Lock()
		s.pending = nil
		closed := s.closed
		s.mu.Unlock()

		if closed {
			if err == nil {
				s.log.Info("artifact discarded, session closed", zap.String("name", art.Name))
			}
			art, err = nil, smartdocs.ErrSessionClosed
		}
		if err != nil && !closed {
			s.log.Info("generation failed", zap.String("format", string(format)), zap.Error(err))
		}
		p.finish(art, err)
	}()
	return p, nil
}

// Close cancels any pending generation and releases the session. It is safe
// to call more than once.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	s.cancel()
	if s.release != nil {
		s.release()
	}
	s.log.Debug("session closed")
}

// Pending is an in-flight generation.
type Pending struct {
	Format smartdocs.Format

	done chan struct{}
	art  *smartdocs.Artifact
	err  error
}

func (p *Pending) finish(art *smartdocs.Artifact, err error) {
	p.art, p.err = art, err
	close(p.done)
}

// Done is closed when the generation has finished.
func (p *Pending) Done() <-chan struct{} { return p.done }

// Wait blocks until the generation finishes or ctx is done. A generation
// whose session was closed yields smartdocs.ErrSessionClosed and no artifact.
func (p *Pending) Wait(ctx context.Context) (*smartdocs.Artifact, error) {
	select {
	case <-p.done:
		return p.art, p.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
