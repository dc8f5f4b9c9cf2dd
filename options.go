package smartdocs

import (
	"time"

	"go.uber.org/zap"
)

// Page layout constants accepted by WithOrientation and WithUnit.
const (
	OrientationPortrait  = "P"
	OrientationLandscape = "L"

	UnitMillimeter = "mm"
	UnitPoint      = "pt"
	UnitCentimeter = "cm"
	UnitInch       = "in"

	PageSizeA4     = "A4"
	PageSizeA5     = "A5"
	PageSizeLetter = "Letter"
	PageSizeLegal  = "Legal"
)

// DefaultFooter is the footer pattern used when none is configured.
// {page} is the current page number and {pages} the total page count.
const DefaultFooter = "SmartDocsHub - Page {page} of {pages}"

// Margins holds page margins in the configured unit.
type Margins struct {
	Top, Right, Bottom, Left float64
}

// Settings is the resolved layout and runtime configuration shared by the
// document encoders.
type Settings struct {
	PageSize    string
	Orientation string
	Unit        string
	Margins     Margins
	FontFamily  string
	FontSize    float64
	LineHeight  float64
	Footer      string
	Compress    bool
	Now         func() time.Time
	Logger      *zap.Logger
}

// Option is a functional option for configuring generators.
type Option func(*Settings)

// WithPageSize sets the page size by name, e.g. PageSizeA4.
func WithPageSize(size string) Option {
	return func(s *Settings) {
		s.PageSize = size
	}
}

// WithOrientation sets the page orientation: OrientationPortrait or
// OrientationLandscape.
func WithOrientation(orientation string) Option {
	return func(s *Settings) {
		s.Orientation = orientation
	}
}

// WithUnit sets the measurement unit for margins and line heights.
func WithUnit(unit string) Option {
	return func(s *Settings) {
		s.Unit = unit
	}
}

func WithMargins(m Margins) Option {
	return func(s *Settings) {
		s.Margins = m
	}
}

// WithFont sets the core font family (Helvetica, Times, Courier) and size in points.
func WithFont(family string, size float64) Option {
	return func(s *Settings) {
		s.FontFamily = family
		s.FontSize = size
	}
}

func WithLineHeight(h float64) Option {
	return func(s *Settings) {
		s.LineHeight = h
	}
}

// WithFooter sets the footer pattern. It supports {page} and {pages}.
func WithFooter(pattern string) Option {
	return func(s *Settings) {
		s.Footer = pattern
	}
}

// WithCompression toggles PDF stream compression.
func WithCompression(compress bool) Option {
	return func(s *Settings) {
		s.Compress = compress
	}
}

// WithClock replaces time.Now as the source of generation timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Settings) {
		s.Now = now
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Settings) {
		s.Logger = l
	}
}

// NewSettings applies opts over the defaults: portrait A4 in millimeters,
// 20mm margins, Helvetica 11pt with 7mm lines, compressed output.
func NewSettings(opts ...Option) Settings {
	s := Settings{
		PageSize:    PageSizeA4,
		Orientation: OrientationPortrait,
		Unit:        UnitMillimeter,
		Margins:     Margins{Top: 20, Right: 20, Bottom: 20, Left: 20},
		FontFamily:  "Helvetica",
		FontSize:    11,
		LineHeight:  7,
		Footer:      DefaultFooter,
		Compress:    true,
		Now:         time.Now,
	}
	for _, opt := range opts {
		opt(&s)
	}
	if s.Now == nil {
		s.Now = time.Now
	}
	if s.Logger == nil {
		s.Logger = zap.NewNop()
	}
	if s.Footer == "" {
		s.Footer = DefaultFooter
	}
	return s
}
