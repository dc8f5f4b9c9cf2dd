// Package config loads the YAML configuration of the smartdocs binaries.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	smartdocs "github.com/Nikhilpandey8/smartdocshub"
)

// DefaultPath is read by the binaries when it exists.
const DefaultPath = "smartdocs.yaml"

type Config struct {
	Logging    LoggingConfig    `yaml:"logging"`
	Document   DocumentConfig   `yaml:"document"`
	Generation GenerationConfig `yaml:"generation"`
	Session    SessionConfig    `yaml:"session"`
	Output     OutputConfig     `yaml:"output"`
}

type LoggingConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn warning error"`
	Output string `yaml:"output" validate:"oneof=console file both"`
	File   string `yaml:"file" validate:"required_unless=Output console"`
}

func (c *LoggingConfig) SetDefaults() {
	c.Level = strings.ToLower(c.Level)
	if c.Level == "" {
		c.Level = "info"
	}
	if c.Output == "" {
		c.Output = "console"
	}
}

type MarginsConfig struct {
	Top    float64 `yaml:"top" validate:"gte=0"`
	Right  float64 `yaml:"right" validate:"gte=0"`
	Bottom float64 `yaml:"bottom" validate:"gte=0"`
	Left   float64 `yaml:"left" validate:"gte=0"`
}

// DocumentConfig is the page layout used for every generated document.
type DocumentConfig struct {
	PageSize    string         `yaml:"page_size" validate:"oneof=A3 A4 A5 Letter Legal"`
	Orientation string         `yaml:"orientation" validate:"oneof=P L"`
	Unit        string         `yaml:"unit" validate:"oneof=mm pt cm in"`
	Margins     *MarginsConfig `yaml:"margins"`
	FontFamily  string         `yaml:"font_family" validate:"oneof=Helvetica Arial Times Courier"`
	FontSize    float64        `yaml:"font_size" validate:"gte=4,lte=72"`
	LineHeight  float64        `yaml:"line_height" validate:"gt=0"`
	Footer      string         `yaml:"footer"`
	Compress    *bool          `yaml:"compress"`
}

func (c *DocumentConfig) SetDefaults() {
	def := smartdocs.NewSettings()
	if c.PageSize == "" {
		c.PageSize = def.PageSize
	}
	switch strings.ToLower(c.Orientation) {
	case "", "p", "portrait":
		c.Orientation = smartdocs.OrientationPortrait
	case "l", "landscape":
		c.Orientation = smartdocs.OrientationLandscape
	}
	if c.Unit == "" {
		c.Unit = def.Unit
	}
	if c.Margins == nil {
		m := def.Margins
		c.Margins = &MarginsConfig{Top: m.Top, Right: m.Right, Bottom: m.Bottom, Left: m.Left}
	}
	if c.FontFamily == "" {
		c.FontFamily = def.FontFamily
	}
	if c.FontSize == 0 {
		c.FontSize = def.FontSize
	}
	if c.LineHeight == 0 {
		c.LineHeight = def.LineHeight
	}
	if c.Footer == "" {
		c.Footer = def.Footer
	}
	if c.Compress == nil {
		compress := def.Compress
		c.Compress = &compress
	}
}

type GenerationConfig struct {
	// Timeout bounds one generation request. Zero disables the limit.
	Timeout time.Duration `yaml:"timeout" validate:"gte=0"`
}

func (c *GenerationConfig) SetDefaults() {}

// SessionConfig bounds how many editing sessions stay open.
type SessionConfig struct {
	IdleTimeout time.Duration `yaml:"idle_timeout" validate:"gte=0"`
	MaxSessions int           `yaml:"max_sessions" validate:"gte=0"`
}

func (c *SessionConfig) SetDefaults() {
	if c.IdleTimeout == 0 {
		c.IdleTimeout = 30 * time.Minute
	}
	if c.MaxSessions == 0 {
		c.MaxSessions = 100
	}
}

type OutputConfig struct {
	// Dir receives saved artifacts. Empty means artifacts are only returned
	// inline.
	Dir string `yaml:"dir"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	c := &Config{}
	c.SetDefaults()
	return c
}

func (c *Config) SetDefaults() {
	c.Logging.SetDefaults()
	c.Document.SetDefaults()
	c.Generation.SetDefaults()
	c.Session.SetDefaults()
}

// Validate checks every section.
func (c *Config) Validate() error {
	err := smartdocs.Validator().Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("config: %w", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msg := fmt.Sprintf("%s: %v fails %s", strings.TrimPrefix(fe.Namespace(), "Config."), fe.Value(), fe.Tag())
		if fe.Param() != "" {
			msg += "=" + fe.Param()
		}
		msgs = append(msgs, msg)
	}
	return fmt.Errorf("config: invalid configuration: %s", strings.Join(msgs, "; "))
}

// Load reads the file at path over the defaults. A missing file is not an
// error and yields Default().
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML configuration, applies defaults and validates.
func Parse(data []byte) (*Config, error) {
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("config: failed to parse config file: %w", err)
	}
	c.SetDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// DocumentOptions converts the document section into generator options.
func (c *Config) DocumentOptions() []smartdocs.Option {
	d := c.Document
	opts := []smartdocs.Option{
		smartdocs.WithPageSize(d.PageSize),
		smartdocs.WithOrientation(d.Orientation),
		smartdocs.WithUnit(d.Unit),
		smartdocs.WithFont(d.FontFamily, d.FontSize),
		smartdocs.WithLineHeight(d.LineHeight),
		smartdocs.WithFooter(d.Footer),
	}
	if m := d.Margins; m != nil {
		opts = append(opts, smartdocs.WithMargins(smartdocs.Margins{Top: m.Top, Right: m.Right, Bottom: m.Bottom, Left: m.Left}))
	}
	if d.Compress != nil {
		opts = append(opts, smartdocs.WithCompression(*d.Compress))
	}
	return opts
}
