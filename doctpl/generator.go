package doctpl

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	smartdocs "github.com/Nikhilpandey8/smartdocshub"
)

type encodeFunc func(ctx context.Context, c Content, s smartdocs.Settings) ([]byte, int, error)

var encoders = map[smartdocs.Format]encodeFunc{
	smartdocs.FormatPDF:  encodePDF,
	smartdocs.FormatDOCX: encodeDOCX,
	smartdocs.FormatText: encodeText,
}

// Formats lists the formats a Generator can produce.
func Formats() []smartdocs.Format {
	return []smartdocs.Format{smartdocs.FormatPDF, smartdocs.FormatDOCX, smartdocs.FormatText}
}

// Generator produces artifacts from templates, assignments or assembled
// content. It holds no per-call state and is safe for concurrent use.
type Generator struct {
	settings smartdocs.Settings
	log      *zap.Logger
}

// New creates a Generator. With no options it produces portrait A4 pages.
func New(opts ...smartdocs.Option) *Generator {
	s := smartdocs.NewSettings(opts...)
	return &Generator{settings: s, log: s.Logger.Named("doctpl")}
}

// Settings returns the resolved layout.
func (g *Generator) Settings() smartdocs.Settings { return g.settings }

// Generate validates data against tpl and renders it in format. Missing
// required fields fail with *smartdocs.ValidationError before any encoding.
// Neither tpl nor data is modified.
func (g *Generator) Generate(ctx context.Context, tpl smartdocs.Template, data smartdocs.DocumentData, format smartdocs.Format) (*smartdocs.Artifact, error) {
	if _, ok := encoders[format]; !ok {
		return nil, fmt.Errorf("doctpl: %w: %q", smartdocs.ErrUnsupportedFormat, format)
	}
	snap := data.Clone()
	if err := smartdocs.Validate(tpl, snap); err != nil {
		g.log.Info("generation blocked by validation",
			zap.String("template", tpl.ID), zap.Error(err))
		return nil, err
	}

	content, warnings := Assemble(tpl, snap)
	for _, w := range warnings {
		g.log.Warn("file field fell back to name", zap.String("template", tpl.ID), zap.Error(w))
	}
	art, err := g.Render(ctx, content, format)
	if err != nil {
		return nil, err
	}
	art.Warnings = warnings
	return art, nil
}

// AssignmentMeta describes where an assignment comes from. Empty fields are
// left out of the subtitle.
type AssignmentMeta struct {
	Subject    string
	CourseCode string
	Semester   string
	Author     string
	Category   string
}

func (m AssignmentMeta) line() string {
	var parts []string
	if m.CourseCode != "" && m.Semester != "" {
		parts = append(parts, m.CourseCode+" Semester "+m.Semester)
	} else if m.CourseCode != "" {
		parts = append(parts, m.CourseCode)
	}
	for _, s := range []string{m.Subject, m.Category} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	if m.Author != "" {
		parts = append(parts, "by "+m.Author)
	}
	return strings.Join(parts, " | ")
}

// Assignment is a free-text document: a title and a body that may contain
// lightweight markup. The body is printed as-is; markup is not interpreted.
type Assignment struct {
	Title   string
	Content string
	Meta    AssignmentMeta
}

// GenerateAssignment renders a as a single flowed body.
func (g *Generator) GenerateAssignment(ctx context.Context, a Assignment, format smartdocs.Format) (*smartdocs.Artifact, error) {
	title := strings.TrimSpace(a.Title)
	if title == "" {
		title = "Untitled Assignment"
	}
	return g.Render(ctx, Content{
		Title:    title,
		Subtitle: a.Meta.line(),
		Blocks:   []Block{{Kind: BlockBody, Text: a.Content}},
	}, format)
}

// Render encodes already assembled content. A zero GeneratedAt is filled in
// from the generator clock.
func (g *Generator) Render(ctx context.Context, c Content, format smartdocs.Format) (*smartdocs.Artifact, error) {
	enc, ok := encoders[format]
	if !ok {
		return nil, fmt.Errorf("doctpl: %w: %q", smartdocs.ErrUnsupportedFormat, format)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if c.GeneratedAt.IsZero() {
		c.GeneratedAt = g.settings.Now().UTC().Truncate(time.Second)
	}

	start := time.Now()
	data, pages, err := enc(ctx, c, g.settings)
	if err != nil {
		g.log.Error("encoding failed", zap.String("title", c.Title),
			zap.String("format", string(format)), zap.Error(err))
		return nil, err
	}
	art := smartdocs.NewArtifact(smartdocs.FileName(c.Title, format), format, data, c.GeneratedAt)
	art.Pages = pages
	g.log.Info("document generated",
		zap.String("name", art.Name),
		zap.Int("blocks", len(c.Blocks)),
		zap.Int("pages", pages),
		zap.Int("bytes", len(data)),
		zap.Duration("took", time.Since(start)))
	return art, nil
}
