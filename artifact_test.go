package smartdocs

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	tests := map[string]Format{
		"pdf":   FormatPDF,
		".PDF":  FormatPDF,
		"docx":  FormatDOCX,
		"word":  FormatDOCX,
		"txt":   FormatText,
		" text": FormatText,
	}
	for in, want := range tests {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseFormat("odt")
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))
	_, err = ParseFormat("png")
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))

	img, err := ParseImageFormat("JPEG")
	require.NoError(t, err)
	assert.Equal(t, FormatJPEG, img)
	assert.Equal(t, "image/jpeg", img.MIMEType())
	_, err = ParseImageFormat("webp")
	assert.Error(t, err)
}

func TestFileName(t *testing.T) {
	tests := []struct {
		title  string
		format Format
		want   string
	}{
		{"Assignment Generator", FormatPDF, "Assignment_Generator.pdf"},
		{"Cover Letter", FormatDOCX, "Cover_Letter.docx"},
		{"  Q3: Sales / Ops  ", FormatText, "Q3_Sales_Ops.txt"},
		{"", FormatPDF, "document.pdf"},
		{"***", FormatPDF, "document.pdf"},
		{"Résumé v2.1", FormatPDF, "Résumé_v2.1.pdf"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FileName(tt.title, tt.format), tt.title)
	}
}

func TestArtifactSave(t *testing.T) {
	at := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	a := NewArtifact("report.pdf", FormatPDF, []byte("%PDF-1.3"), at)
	assert.Equal(t, "application/pdf", a.MIMEType)
	assert.Equal(t, 8, a.Size())

	dir := t.TempDir()
	path, err := a.Save(dir)
	require.NoError(t, err)
	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, a.Data, got)
	assert.Equal(t, filepath.Join(dir, "report.pdf"), path)

	var buf bytes.Buffer
	n, err := a.WriteTo(&buf)
	require.NoError(t, err)
	assert.EqualValues(t, 8, n)

	bad := NewArtifact("../escape.pdf", FormatPDF, nil, at)
	_, err = bad.Save(dir)
	assert.Error(t, err)
}

func TestGenerationErrorUnwrap(t *testing.T) {
	cause := errors.New("boom")
	err := NewGenerationError("encode", FormatPDF, cause)
	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, "smartdocs.encode(pdf): boom", err.Error())

	ferr := &FileReadError{FieldID: "logo", FileName: "logo.png", Err: ErrUnsupportedFile}
	assert.True(t, errors.Is(ferr, ErrUnsupportedFile))
}

func TestNewSettingsDefaults(t *testing.T) {
	s := NewSettings()
	assert.Equal(t, PageSizeA4, s.PageSize)
	assert.Equal(t, DefaultFooter, s.Footer)
	assert.NotNil(t, s.Logger)
	assert.True(t, s.Compress)

	fixed := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	s = NewSettings(WithClock(func() time.Time { return fixed }), WithFooter(""), WithCompression(false))
	assert.Equal(t, fixed, s.Now())
	assert.Equal(t, DefaultFooter, s.Footer)
	assert.False(t, s.Compress)
}
