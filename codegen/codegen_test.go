package codegen

import (
	"bytes"
	"errors"
	"image/png"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	smartdocs "github.com/Nikhilpandey8/smartdocshub"
)

var fixedNow = time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC)

func newTestGenerator() *Generator {
	return New(
		smartdocs.WithClock(func() time.Time { return fixedNow }),
		smartdocs.WithCompression(false),
	)
}

func TestGeneratePNG(t *testing.T) {
	g := newTestGenerator()
	tests := []struct {
		sym     Symbology
		payload string
		prefix  string
	}{
		{QR, "https://smartdocshub.com", "qr_code_"},
		{Code128, "SDH-2024-001", "barcode_code_"},
		{Code39, "SDH 42", "barcode_code_"},
		{EAN, "590123412345", "barcode_code_"},
		{DataMatrix, "SmartDocsHub", "barcode_code_"},
		{PDF417, "SmartDocsHub boarding pass", "barcode_code_"},
	}
	for _, tt := range tests {
		t.Run(string(tt.sym), func(t *testing.T) {
			art, err := g.Generate(Request{Symbology: tt.sym, Payload: tt.payload})
			require.NoError(t, err)
			assert.Equal(t, smartdocs.FormatPNG, art.Format)
			assert.Equal(t, "image/png", art.MIMEType)
			assert.True(t, strings.HasPrefix(art.Name, tt.prefix), art.Name)
			assert.True(t, strings.HasSuffix(art.Name, ".png"), art.Name)

			img, err := png.Decode(bytes.NewReader(art.Data))
			require.NoError(t, err)
			assert.GreaterOrEqual(t, img.Bounds().Dx(), DefaultSize)
		})
	}
}

func TestGenerateNameUsesClock(t *testing.T) {
	art, err := newTestGenerator().Generate(Request{Payload: "hello"})
	require.NoError(t, err)
	assert.Equal(t, "qr_code_1710495000000.png", art.Name)
	assert.Equal(t, fixedNow, art.GeneratedAt)
}

func TestGenerateQRIsSquare(t *testing.T) {
	art, err := newTestGenerator().Generate(Request{Symbology: QR, Payload: "square", Size: 300})
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(art.Data))
	require.NoError(t, err)
	assert.Equal(t, 300, img.Bounds().Dx())
	assert.Equal(t, 300, img.Bounds().Dy())
}

func TestGenerateLinearHasCaption(t *testing.T) {
	art, err := newTestGenerator().Generate(Request{Symbology: Code128, Payload: "ABC", Size: 300})
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(art.Data))
	require.NoError(t, err)
	assert.Equal(t, 300/3+captionHeight, img.Bounds().Dy())
}

func TestGeneratePDF(t *testing.T) {
	art, err := newTestGenerator().Generate(Request{
		Symbology: QR,
		Payload:   ContactPayload(Contact{Name: "Jane Doe", Phone: "+1 555 0100"}),
		Format:    smartdocs.FormatPDF,
	})
	require.NoError(t, err)
	assert.Equal(t, "qr_code_1710495000000.pdf", art.Name)
	assert.Equal(t, 1, art.Pages)
	assert.True(t, bytes.HasPrefix(art.Data, []byte("%PDF-")))
	assert.Contains(t, string(art.Data), "/Subtype /Image")
}

func TestGenerateErrors(t *testing.T) {
	g := newTestGenerator()

	_, err := g.Generate(Request{Payload: "  "})
	assert.True(t, errors.Is(err, ErrEmptyPayload))

	_, err = g.Generate(Request{Payload: "x", Format: smartdocs.FormatDOCX})
	assert.True(t, errors.Is(err, smartdocs.ErrUnsupportedFormat))

	_, err = g.Generate(Request{Symbology: EAN, Payload: "not digits"})
	assert.Error(t, err)

	_, err = g.Generate(Request{Symbology: "aztec", Payload: "x"})
	assert.Error(t, err)
}

func TestParseSymbology(t *testing.T) {
	for in, want := range map[string]Symbology{
		"QR": QR, "barcode": Code128, "": Code128, " pdf417 ": PDF417, "datamatrix": DataMatrix,
	} {
		got, err := ParseSymbology(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseSymbology("maxicode")
	assert.Error(t, err)
}
