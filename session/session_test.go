package session

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	smartdocs "github.com/Nikhilpandey8/smartdocshub"
	"github.com/Nikhilpandey8/smartdocshub/doctpl"
	"github.com/Nikhilpandey8/smartdocshub/form"
)

func proposalTemplate() smartdocs.Template {
	return smartdocs.Template{
		ID:    "proposal",
		Title: "Project Proposal",
		Fields: []smartdocs.Field{
			{ID: "projectName", Label: "Project Name", Type: smartdocs.FieldText, Required: true},
			{ID: "budget", Label: "Budget", Type: smartdocs.FieldNumber},
			{ID: "timeline", Label: "Timeline", Type: smartdocs.FieldSelect, Options: []string{"1 month", "3 months"}},
		},
	}
}

func newManager(opts ...Option) *Manager {
	gen := doctpl.New(
		smartdocs.WithClock(func() time.Time { return time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC) }),
		smartdocs.WithCompression(false),
	)
	return NewManager(gen, opts...)
}

// blockingGenerate stands in for the generator and holds every call until
// release is closed or the call is cancelled.
type blockingGenerate struct {
	started chan smartdocs.DocumentData
	release chan struct{}
	next    generateFunc
}

func newBlocking(next generateFunc) *blockingGenerate {
	return &blockingGenerate{started: make(chan smartdocs.DocumentData, 4), release: make(chan struct{}), next: next}
}

func (b *blockingGenerate) generate(ctx context.Context, tpl smartdocs.Template, data smartdocs.DocumentData, format smartdocs.Format) (*smartdocs.Artifact, error) {
	b.started <- data
	select {
	case <-b.release:
		return b.next(ctx, tpl, data, format)
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func TestSessionEditAndGenerate(t *testing.T) {
	m := newManager()
	s := m.Open(proposalTemplate(), smartdocs.DocumentData{})
	assert.Equal(t, 1, m.Len())

	_, err := s.Set("projectName", form.TextInput("Solar Roof"))
	require.NoError(t, err)
	_, err = s.Set("budget", form.TextInput("12000"))
	require.NoError(t, err)
	_, err = s.Set("timeline", form.TextInput("6 months"))
	assert.True(t, errors.Is(err, smartdocs.ErrOptionNotAllowed))
	assert.NoError(t, s.Validate())

	p, err := s.Generate(context.Background(), smartdocs.FormatText)
	require.NoError(t, err)
	art, err := p.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Project_Proposal.txt", art.Name)
	assert.Contains(t, string(art.Data), "Budget: 12000")
	assert.Contains(t, string(art.Data), "Timeline: \n")
	assert.False(t, s.Pending())
}

func TestSessionPrefillIsCopied(t *testing.T) {
	prefill := smartdocs.NewDocumentData(map[string]smartdocs.Value{"projectName": smartdocs.Text("Draft")})
	s := newManager().Open(proposalTemplate(), prefill)
	prefill.Set("projectName", smartdocs.Text("changed"))
	assert.Equal(t, "Draft", s.Data().Lookup("projectName").String())
	assert.Equal(t, "Draft", s.Views()[0].Value)
}

func TestSessionValidationBlocksGeneration(t *testing.T) {
	s := newManager().Open(proposalTemplate(), smartdocs.DocumentData{})
	p, err := s.Generate(context.Background(), smartdocs.FormatPDF)
	require.NoError(t, err)

	art, err := p.Wait(context.Background())
	assert.Nil(t, art)
	var verr *smartdocs.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.True(t, verr.Has("projectName"))
}

func TestSessionSnapshotAtCallTime(t *testing.T) {
	m := newManager()
	b := newBlocking(m.generate)
	m.generate = b.generate

	s := m.Open(proposalTemplate(), smartdocs.DocumentData{})
	_, err := s.Set("projectName", form.TextInput("Before"))
	require.NoError(t, err)

	p, err := s.Generate(context.Background(), smartdocs.FormatText)
	require.NoError(t, err)
	<-b.started

	_, err = s.Set("projectName", form.TextInput("After"))
	require.NoError(t, err)
	close(b.release)

	art, err := p.Wait(context.Background())
	require.NoError(t, err)
	assert.Contains(t, string(art.Data), "Project Name: Before")
	assert.NotContains(t, string(art.Data), "After")
	assert.Equal(t, "After", s.Data().Lookup("projectName").String())
}

func TestSessionRejectsSecondGeneration(t *testing.T) {
	m := newManager()
	b := newBlocking(m.generate)
	m.generate = b.generate

	s := m.Open(proposalTemplate(), smartdocs.NewDocumentData(map[string]smartdocs.Value{
		"projectName": smartdocs.Text("X"),
	}))
	p, err := s.Generate(context.Background(), smartdocs.FormatPDF)
	require.NoError(t, err)
	<-b.started
	assert.True(t, s.Pending())

	_, err = s.Generate(context.Background(), smartdocs.FormatDOCX)
	assert.True(t, errors.Is(err, smartdocs.ErrGenerationPending))

	close(b.release)
	_, err = p.Wait(context.Background())
	require.NoError(t, err)

	p, err = s.Generate(context.Background(), smartdocs.FormatDOCX)
	require.NoError(t, err, "a new request is accepted once the first finished")
	art, err := p.Wait(context.Background())
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(art.Name, ".docx"))
}

func TestSessionCloseDiscardsPendingArtifact(t *testing.T) {
	m := newManager()
	b := newBlocking(m.generate)
	m.generate = b.generate

	s := m.Open(proposalTemplate(), smartdocs.NewDocumentData(map[string]smartdocs.Value{
		"projectName": smartdocs.Text("X"),
	}))
	p, err := s.Generate(context.Background(), smartdocs.FormatPDF)
	require.NoError(t, err)
	<-b.started

	s.Close()
	art, err := p.Wait(context.Background())
	assert.Nil(t, art)
	assert.True(t, errors.Is(err, smartdocs.ErrSessionClosed))
	assert.Equal(t, 0, m.Len())

	_, err = s.Generate(context.Background(), smartdocs.FormatPDF)
	assert.True(t, errors.Is(err, smartdocs.ErrSessionClosed))
	_, err = s.Set("projectName", form.TextInput("Y"))
	assert.True(t, errors.Is(err, smartdocs.ErrSessionClosed))
	s.Close()
}

func TestSessionCallerCancellation(t *testing.T) {
	m := newManager()
	b := newBlocking(m.generate)
	m.generate = b.generate
	s := m.Open(proposalTemplate(), smartdocs.DocumentData{})

	ctx, cancel := context.WithCancel(context.Background())
	p, err := s.Generate(ctx, smartdocs.FormatPDF)
	require.NoError(t, err)
	<-b.started
	cancel()

	_, err = p.Wait(context.Background())
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Eventually(t, func() bool { return !s.Pending() }, time.Second, 5*time.Millisecond)
}

func TestSessionTimeout(t *testing.T) {
	m := newManager(WithTimeout(20 * time.Millisecond))
	b := newBlocking(m.generate)
	m.generate = b.generate
	s := m.Open(proposalTemplate(), smartdocs.DocumentData{})

	p, err := s.Generate(context.Background(), smartdocs.FormatPDF)
	require.NoError(t, err)
	_, err = p.Wait(context.Background())
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestManagerLookup(t *testing.T) {
	m := newManager()
	s := m.Open(proposalTemplate(), smartdocs.DocumentData{})

	got, err := m.Get(s.ID.String())
	require.NoError(t, err)
	assert.Same(t, s, got)

	_, err = m.Get("not-a-uuid")
	assert.Error(t, err)

	require.NoError(t, m.Close(s.ID.String()))
	_, err = m.Get(s.ID.String())
	assert.True(t, errors.Is(err, smartdocs.ErrSessionClosed))

	m.Open(proposalTemplate(), smartdocs.DocumentData{})
	m.Open(proposalTemplate(), smartdocs.DocumentData{})
	m.CloseAll()
	assert.Equal(t, 0, m.Len())
}

func TestManagerGenerateAssignment(t *testing.T) {
	art, err := newManager().GenerateAssignment(context.Background(),
		doctpl.Assignment{Title: "Business Law", Content: "Contracts"}, smartdocs.FormatPDF)
	require.NoError(t, err)
	assert.Equal(t, "Business_Law.pdf", art.Name)
	assert.Equal(t, 1, art.Pages)
}

type stepClock struct{ t time.Time }

func (c *stepClock) now() time.Time { return c.t }

func TestManagerClosesIdleSessions(t *testing.T) {
	clock := &stepClock{t: time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)}
	m := newManager(WithClock(clock.now), WithIdleTimeout(10*time.Minute))

	stale := m.Open(proposalTemplate(), smartdocs.DocumentData{})
	kept := m.Open(proposalTemplate(), smartdocs.DocumentData{})

	clock.t = clock.t.Add(6 * time.Minute)
	_, err := m.Get(kept.ID.String())
	require.NoError(t, err)

	clock.t = clock.t.Add(6 * time.Minute)
	_, err = m.Get(stale.ID.String())
	assert.True(t, errors.Is(err, smartdocs.ErrSessionClosed))
	assert.Equal(t, 1, m.Len())
	_, err = stale.Set("projectName", form.TextInput("late"))
	assert.True(t, errors.Is(err, smartdocs.ErrSessionClosed))

	_, err = m.Get(kept.ID.String())
	require.NoError(t, err)

	clock.t = clock.t.Add(time.Hour)
	m.Open(proposalTemplate(), smartdocs.DocumentData{})
	assert.Equal(t, 1, m.Len())
}

func TestManagerKeepsIdleSessionWithPendingGeneration(t *testing.T) {
	clock := &stepClock{t: time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)}
	m := newManager(WithClock(clock.now), WithIdleTimeout(time.Minute))
	blocking := newBlocking(m.generate)
	m.generate = blocking.generate

	s := m.Open(proposalTemplate(), smartdocs.DocumentData{})
	_, err := s.Set("projectName", form.TextInput("Bridge"))
	require.NoError(t, err)
	p, err := s.Generate(context.Background(), smartdocs.FormatText)
	require.NoError(t, err)
	<-blocking.started

	clock.t = clock.t.Add(time.Hour)
	_, err = m.Get(s.ID.String())
	require.NoError(t, err)

	close(blocking.release)
	art, err := p.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Project_Proposal.txt", art.Name)
}

func TestManagerSessionLimit(t *testing.T) {
	clock := &stepClock{t: time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)}
	m := newManager(WithClock(clock.now), WithMaxSessions(2))

	first := m.Open(proposalTemplate(), smartdocs.DocumentData{})
	clock.t = clock.t.Add(time.Second)
	second := m.Open(proposalTemplate(), smartdocs.DocumentData{})
	clock.t = clock.t.Add(time.Second)
	_, err := m.Get(first.ID.String())
	require.NoError(t, err)

	clock.t = clock.t.Add(time.Second)
	third := m.Open(proposalTemplate(), smartdocs.DocumentData{})
	assert.Equal(t, 2, m.Len())

	_, err = m.Get(second.ID.String())
	assert.True(t, errors.Is(err, smartdocs.ErrSessionClosed))
	for _, s := range []*Session{first, third} {
		_, err := m.Get(s.ID.String())
		assert.NoError(t, err)
	}
}
