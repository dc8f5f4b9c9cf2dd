package smartdocs

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
)

// Format names an output encoding.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatDOCX Format = "docx"
	FormatText Format = "txt"

	FormatPNG  Format = "png"
	FormatJPEG Format = "jpg"
	FormatGIF  Format = "gif"
	FormatBMP  Format = "bmp"
)

// ParseFormat accepts a document format name, with or without a leading dot.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), "."))); f {
	case FormatPDF, FormatDOCX, FormatText:
		return f, nil
	case "word", "doc":
		return FormatDOCX, nil
	case "text":
		return FormatText, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

// ParseImageFormat accepts an image format name, with or without a leading dot.
func ParseImageFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), "."))); f {
	case FormatPNG, FormatJPEG, FormatGIF, FormatBMP:
		return f, nil
	case "jpeg":
		return FormatJPEG, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

// Extension returns the file extension including the dot.
func (f Format) Extension() string { return "." + string(f) }

// MIMEType returns the media type used when the artifact is downloaded.
func (f Format) MIMEType() string {
	switch f {
	case FormatPDF:
		return "application/pdf"
	case FormatDOCX:
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case FormatText:
		return "text/plain; charset=utf-8"
	case FormatPNG:
		return "image/png"
	case FormatJPEG:
		return "image/jpeg"
	case FormatGIF:
		return "image/gif"
	case FormatBMP:
		return "image/bmp"
	default:
		return "application/octet-stream"
	}
}

// Artifact is the result of one generation call. It is handed to the caller
// and not retained anywhere else.
type Artifact struct {
	ID          uuid.UUID
	Name        string
	Format      Format
	MIMEType    string
	Data        []byte
	Pages       int
	GeneratedAt time.Time
	Warnings    []error
}

// NewArtifact wraps data produced for format under name.
func NewArtifact(name string, format Format, data []byte, generatedAt time.Time) *Artifact {
	return &Artifact{
		ID:          uuid.New(),
		Name:        name,
		Format:      format,
		MIMEType:    format.MIMEType(),
		Data:        data,
		GeneratedAt: generatedAt,
	}
}

func (a *Artifact) Size() int { return len(a.Data) }

// Reader returns a fresh reader over the artifact bytes.
func (a *Artifact) Reader() io.Reader { return bytes.NewReader(a.Data) }

// WriteTo writes the artifact bytes to w.
func (a *Artifact) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(a.Data)
	return int64(n), err
}

// Save writes the artifact into dir under its own name and returns the path.
func (a *Artifact) Save(dir string) (string, error) {
	if a.Name == "" || a.Name != filepath.Base(a.Name) || strings.ContainsAny(a.Name, `/\`) {
		return "", fmt.Errorf("smartdocs: invalid artifact name %q", a.Name)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("smartdocs: creating %s: %w", dir, err)
	}
	path := filepath.Join(dir, a.Name)
	if err := os.WriteFile(path, a.Data, 0o644); err != nil {
		return "", fmt.Errorf("smartdocs: saving artifact: %w", err)
	}
	return path, nil
}

// FileName derives a download name from a title: runs of characters that are
// not letters, digits, '-' or '.' become a single underscore. An empty title
// yields "document".
func FileName(title string, format Format) string {
	var b strings.Builder
	underscore := false
	for _, r := range strings.TrimSpace(title) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '.' {
			b.WriteRune(r)
			underscore = false
			continue
		}
		if !underscore && b.Len() > 0 {
			b.WriteByte('_')
			underscore = true
		}
	}
	base := strings.Trim(b.String(), "_.")
	if base == "" {
		base = "document"
	}
	return base + format.Extension()
}
