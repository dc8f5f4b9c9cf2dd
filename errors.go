package smartdocs

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common generation and editing failures.
var (
	ErrUnknownTemplate   = errors.New("smartdocs: unknown template")
	ErrUnknownField      = errors.New("smartdocs: unknown field")
	ErrUnsupportedFormat = errors.New("smartdocs: unsupported output format")
	ErrGenerationPending = errors.New("smartdocs: generation already pending")
	ErrSessionClosed     = errors.New("smartdocs: session is closed")
	ErrUnsupportedFile   = errors.New("smartdocs: unsupported file type")
	ErrOptionNotAllowed  = errors.New("smartdocs: value is not one of the field options")
	ErrInvalidDate       = errors.New("smartdocs: date must be formatted as YYYY-MM-DD")
	ErrUnsupportedTool   = errors.New("smartdocs: conversion not supported")
)

// MissingField names a required field that has no usable value.
type MissingField struct {
	ID    string
	Label string
}

// ValidationError reports every required field left empty at generation time.
// Fields are listed in template order.
type ValidationError struct {
	TemplateID string
	Missing    []MissingField
}

func (e *ValidationError) Error() string {
	labels := make([]string, len(e.Missing))
	for i, m := range e.Missing {
		labels[i] = m.Label
	}
	return fmt.Sprintf("smartdocs: template %q: missing required fields: %s",
		e.TemplateID, strings.Join(labels, ", "))
}

// Has reports whether the field with the given id is among the missing ones.
func (e *ValidationError) Has(fieldID string) bool {
	for _, m := range e.Missing {
		if m.ID == fieldID {
			return true
		}
	}
	return false
}

// GenerationError represents a failure in a specific step of encoding a
// document. It wraps the underlying error and names the step.
type GenerationError struct {
	Op     string // step name, e.g. "translate", "encode", "assemble"
	Format Format
	Err    error
}

func (e *GenerationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("smartdocs.%s(%s): %v", e.Op, e.Format, e.Err)
	}
	return fmt.Sprintf("smartdocs.%s(%s): unknown error", e.Op, e.Format)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// NewGenerationError creates a GenerationError for the given step.
func NewGenerationError(op string, format Format, err error) *GenerationError {
	return &GenerationError{Op: op, Format: format, Err: err}
}

// FileReadError is recorded when a file-typed field cannot be read. The
// affected block falls back to the file name; the document is still produced.
type FileReadError struct {
	FieldID  string
	FileName string
	Err      error
}

func (e *FileReadError) Error() string {
	return fmt.Sprintf("smartdocs: field %q: reading %q: %v", e.FieldID, e.FileName, e.Err)
}

func (e *FileReadError) Unwrap() error {
	return e.Err
}
