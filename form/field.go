// Package form maps template fields to input controls and turns user input
// into document data updates.
//
// Every field type has exactly one control. Unknown field types fall back to
// a single-line text control so that any template renders.
package form

import (
	"fmt"
	"mime"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	smartdocs "github.com/Nikhilpandey8/smartdocshub"
)

// Accept is the file-picker filter used by file controls.
const Accept = "image/*,.pdf,.doc,.docx"

const dateLayout = "2006-01-02"

// Widget names the kind of input element a view renders as.
type Widget string

const (
	WidgetInput    Widget = "input"
	WidgetTextarea Widget = "textarea"
	WidgetSelect   Widget = "select"
)

// Input is raw user interaction with a control. File controls read File,
// all others read Text.
type Input struct {
	Text string
	File smartdocs.FileHandle
}

// TextInput is shorthand for Input{Text: s}.
func TextInput(s string) Input { return Input{Text: s} }

// FileInput is shorthand for Input{File: h}.
func FileInput(h smartdocs.FileHandle) Input { return Input{File: h} }

// Update is the change a control emits. Callers merge it into DocumentData.
type Update struct {
	FieldID string
	Value   smartdocs.Value
}

// Option is one entry of a select view.
type Option struct {
	Value    string `json:"value"`
	Label    string `json:"label"`
	Selected bool   `json:"selected,omitempty"`
}

// View is the visual state of a control for a given value.
type View struct {
	FieldID     string              `json:"fieldId"`
	Label       string              `json:"label"`
	Type        smartdocs.FieldType `json:"type"`
	Widget      Widget              `json:"widget"`
	InputType   string              `json:"inputType,omitempty"`
	Placeholder string              `json:"placeholder,omitempty"`
	Value       string              `json:"value"`
	Options     []Option            `json:"options,omitempty"`
	Required    bool                `json:"required,omitempty"`
	MaxLength   int                 `json:"maxLength,omitempty"`
	Counter     string              `json:"counter,omitempty"`
	Accept      string              `json:"accept,omitempty"`
}

// Control renders one field and converts input into updates.
type Control interface {
	Field() smartdocs.Field
	// Apply converts input into an update. On error nothing must be stored.
	Apply(in Input) (Update, error)
	// View is a pure function of the field and the current value.
	View(current smartdocs.Value) View
	control()
}

// For returns the control for f.
func For(f smartdocs.Field) Control {
	switch f.Type {
	case smartdocs.FieldText:
		return TextControl{field: f}
	case smartdocs.FieldTextarea:
		return TextareaControl{field: f}
	case smartdocs.FieldSelect:
		return SelectControl{field: f}
	case smartdocs.FieldNumber:
		return NumberControl{field: f}
	case smartdocs.FieldDate:
		return DateControl{field: f}
	case smartdocs.FieldFile:
		return FileControl{field: f}
	default:
		return TextControl{field: f}
	}
}

func baseView(f smartdocs.Field, w Widget, inputType string) View {
	return View{
		FieldID:     f.ID,
		Label:       f.Label,
		Type:        f.Type,
		Widget:      w,
		InputType:   inputType,
		Placeholder: f.Placeholder,
		Required:    f.Required,
	}
}

// TextControl is a single-line text input.
type TextControl struct{ field smartdocs.Field }

func (c TextControl) Field() smartdocs.Field { return c.field }

func (c TextControl) Apply(in Input) (Update, error) {
	return Update{FieldID: c.field.ID, Value: smartdocs.Text(truncate(in.Text, c.field.MaxLength))}, nil
}

func (c TextControl) View(current smartdocs.Value) View {
	v := baseView(c.field, WidgetInput, "text")
	v.Value = current.String()
	setCounter(&v, c.field.MaxLength)
	return v
}

func (TextControl) control() {}

// TextareaControl is a multi-line text input. Input longer than MaxLength
// runes is truncated.
type TextareaControl struct{ field smartdocs.Field }

func (c TextareaControl) Field() smartdocs.Field { return c.field }

func (c TextareaControl) Apply(in Input) (Update, error) {
	return Update{FieldID: c.field.ID, Value: smartdocs.Text(truncate(in.Text, c.field.MaxLength))}, nil
}

func (c TextareaControl) View(current smartdocs.Value) View {
	v := baseView(c.field, WidgetTextarea, "")
	v.Value = current.String()
	setCounter(&v, c.field.MaxLength)
	return v
}

func (TextareaControl) control() {}

// SelectControl restricts values to the field options. The empty string
// means nothing is selected.
type SelectControl struct{ field smartdocs.Field }

func (c SelectControl) Field() smartdocs.Field { return c.field }

func (c SelectControl) Apply(in Input) (Update, error) {
	if in.Text == "" || c.allowed(in.Text) {
		return Update{FieldID: c.field.ID, Value: smartdocs.Text(in.Text)}, nil
	}
	return Update{}, fmt.Errorf("form: field %q: %w: %q", c.field.ID, smartdocs.ErrOptionNotAllowed, in.Text)
}

func (c SelectControl) allowed(s string) bool {
	for _, o := range c.field.Options {
		if o == s {
			return true
		}
	}
	return false
}

func (c SelectControl) View(current smartdocs.Value) View {
	v := baseView(c.field, WidgetSelect, "")
	selected := current.String()
	if !c.allowed(selected) {
		selected = ""
	}
	v.Value = selected
	v.Options = make([]Option, 0, len(c.field.Options)+1)
	v.Options = append(v.Options, Option{Value: "", Label: "Select " + c.field.Label, Selected: selected == ""})
	for _, o := range c.field.Options {
		v.Options = append(v.Options, Option{Value: o, Label: o, Selected: o == selected})
	}
	return v
}

func (SelectControl) control() {}

// NumberControl parses numeric input. Empty or unparsable input is stored as
// Null rather than rejected.
type NumberControl struct{ field smartdocs.Field }

func (c NumberControl) Field() smartdocs.Field { return c.field }

func (c NumberControl) Apply(in Input) (Update, error) {
	s := strings.TrimSpace(in.Text)
	val := smartdocs.Null()
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		val = smartdocs.Number(f)
	}
	return Update{FieldID: c.field.ID, Value: val}, nil
}

func (c NumberControl) View(current smartdocs.Value) View {
	v := baseView(c.field, WidgetInput, "number")
	v.Value = current.String()
	return v
}

func (NumberControl) control() {}

// DateControl stores ISO-8601 calendar dates as YYYY-MM-DD text.
type DateControl struct{ field smartdocs.Field }

func (c DateControl) Field() smartdocs.Field { return c.field }

func (c DateControl) Apply(in Input) (Update, error) {
	s := strings.TrimSpace(in.Text)
	if s == "" {
		return Update{FieldID: c.field.ID, Value: smartdocs.Text("")}, nil
	}
	d, err := time.Parse(dateLayout, s)
	if err != nil {
		return Update{}, fmt.Errorf("form: field %q: %w", c.field.ID, smartdocs.ErrInvalidDate)
	}
	return Update{FieldID: c.field.ID, Value: smartdocs.Text(d.Format(dateLayout))}, nil
}

func (c DateControl) View(current smartdocs.Value) View {
	v := baseView(c.field, WidgetInput, "date")
	v.Value = current.String()
	return v
}

func (DateControl) control() {}

// FileControl accepts a single image, PDF or Word file. Only the reference
// is stored; content is never read here.
type FileControl struct{ field smartdocs.Field }

func (c FileControl) Field() smartdocs.Field { return c.field }

func (c FileControl) Apply(in Input) (Update, error) {
	if in.File == nil {
		return Update{FieldID: c.field.ID, Value: smartdocs.Null()}, nil
	}
	if !Accepts(in.File) {
		return Update{}, fmt.Errorf("form: field %q: %w: %s", c.field.ID, smartdocs.ErrUnsupportedFile, in.File.Name())
	}
	return Update{FieldID: c.field.ID, Value: smartdocs.File(in.File)}, nil
}

func (c FileControl) View(current smartdocs.Value) View {
	v := baseView(c.field, WidgetInput, "file")
	v.Value = current.String()
	v.Accept = Accept
	return v
}

func (FileControl) control() {}

var documentExts = map[string]bool{".pdf": true, ".doc": true, ".docx": true}

var imageExts = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".webp": true,
	".bmp": true, ".svg": true, ".tif": true, ".tiff": true,
}

var documentTypes = map[string]bool{
	"application/pdf":    true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
}

// Accepts reports whether h matches Accept by extension or declared type.
func Accepts(h smartdocs.FileHandle) bool {
	ext := strings.ToLower(filepath.Ext(h.Name()))
	if documentExts[ext] || imageExts[ext] {
		return true
	}
	mt, _, err := mime.ParseMediaType(h.MimeType())
	if err != nil {
		return false
	}
	return strings.HasPrefix(mt, "image/") || documentTypes[mt]
}

func truncate(s string, max int) string {
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	r := []rune(s)
	return string(r[:max])
}

func setCounter(v *View, max int) {
	if max <= 0 {
		return
	}
	v.MaxLength = max
	v.Counter = fmt.Sprintf("%d/%d characters", utf8.RuneCountInString(v.Value), max)
}
