// Package smartdocs holds the data model shared by the SmartDocsHub document
// pipeline: templates and their typed fields, the per-session document data,
// generated artifacts, and the errors and options used across packages.
//
// A Template is an ordered list of Fields. The form package turns each Field
// into an input control, edits land in a DocumentData record, and the doctpl
// package renders Template + DocumentData into a PDF, DOCX or text Artifact.
package smartdocs

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// FieldType is the tag selecting which control renders a field.
type FieldType string

const (
	FieldText     FieldType = "text"
	FieldTextarea FieldType = "textarea"
	FieldSelect   FieldType = "select"
	FieldNumber   FieldType = "number"
	FieldFile     FieldType = "file"
	FieldDate     FieldType = "date"
)

// FieldTypes lists every known field type in declaration order.
var FieldTypes = []FieldType{FieldText, FieldTextarea, FieldSelect, FieldNumber, FieldFile, FieldDate}

// Known reports whether t is one of the defined field types. Unknown tags are
// kept as-is and render as plain text.
func (t FieldType) Known() bool {
	switch t {
	case FieldText, FieldTextarea, FieldSelect, FieldNumber, FieldFile, FieldDate:
		return true
	}
	return false
}

func (t FieldType) String() string { return string(t) }

// Field describes one prompt in a template.
type Field struct {
	ID          string    `json:"id" yaml:"id" validate:"required"`
	Label       string    `json:"label" yaml:"label" validate:"required"`
	Type        FieldType `json:"type" yaml:"type" validate:"required"`
	Placeholder string    `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Options     []string  `json:"options,omitempty" yaml:"options,omitempty" validate:"required_if=Type select,dive,required"`
	Required    bool      `json:"required,omitempty" yaml:"required,omitempty"`
	MaxLength   int       `json:"maxLength,omitempty" yaml:"max_length,omitempty" validate:"gte=0"`
}

// Template is a named, categorized bundle of fields. Field order drives both
// render order and output order. Templates are immutable once loaded.
type Template struct {
	ID          string  `json:"id" yaml:"id" validate:"required"`
	Title       string  `json:"title" yaml:"title" validate:"required"`
	Description string  `json:"description,omitempty" yaml:"description,omitempty"`
	Category    string  `json:"category,omitempty" yaml:"category,omitempty"`
	Icon        string  `json:"icon,omitempty" yaml:"icon,omitempty"`
	Premium     bool    `json:"premium,omitempty" yaml:"premium,omitempty"`
	Fields      []Field `json:"fields" yaml:"fields" validate:"unique=ID,dive"`
}

// Field returns the field with the given id.
func (t Template) Field(id string) (Field, bool) {
	for _, f := range t.Fields {
		if f.ID == id {
			return f, true
		}
	}
	return Field{}, false
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// Validator returns the shared struct validator used for catalog records.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
	})
	return validate
}

// Check verifies the template definition: id and title are set, field ids
// are present and unique, and every select field has options.
func (t Template) Check() error {
	err := Validator().Struct(t)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("smartdocs: template %q: %w", t.ID, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describeFieldError(fe))
	}
	return fmt.Errorf("smartdocs: template %q: %s", t.ID, strings.Join(msgs, "; "))
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Namespace() + " is required"
	case "required_if":
		return fe.Namespace() + " is required for select fields"
	case "unique":
		return fe.Namespace() + " has duplicate field ids"
	case "gte":
		return fe.Namespace() + " must not be negative"
	default:
		return fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag())
	}
}
