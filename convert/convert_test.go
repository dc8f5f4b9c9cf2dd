package convert

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"

	smartdocs "github.com/Nikhilpandey8/smartdocshub"
	"github.com/Nikhilpandey8/smartdocshub/doctpl"
)

var fixedNow = time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC)

func newTestConverter() *Converter {
	return New(
		smartdocs.WithClock(func() time.Time { return fixedNow }),
		smartdocs.WithCompression(false),
	)
}

func pngInput(t *testing.T, name string, w, h int) Input {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{uint8(x), uint8(y), 0x80, 0xff})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return Input{Name: name, MimeType: "image/png", Data: buf.Bytes()}
}

func pdfInput(t *testing.T, name string) Input {
	t.Helper()
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(40, 10, "source page")
	var buf bytes.Buffer
	require.NoError(t, pdf.Output(&buf))
	return Input{Name: name, MimeType: "application/pdf", Data: buf.Bytes()}
}

func textInput(name, s string) Input {
	return Input{Name: name, MimeType: "text/plain", Data: []byte(s)}
}

func decode(t *testing.T, art *smartdocs.Artifact) image.Image {
	t.Helper()
	img, _, err := image.Decode(bytes.NewReader(art.Data))
	require.NoError(t, err)
	return img
}

func TestConvertUnknownTool(t *testing.T) {
	_, err := newTestConverter().Convert(context.Background(), "text-formatter", textInput("a.txt", "x"), "")
	require.True(t, errors.Is(err, smartdocs.ErrUnsupportedTool))
	assert.Equal(t, "smartdocs: conversion not supported for text-formatter", err.Error())
}

func TestConvertRejectsEmptyAndCancelled(t *testing.T) {
	c := newTestConverter()
	_, err := c.Convert(context.Background(), WordCounter, Input{Name: "a.txt"}, "")
	assert.True(t, errors.Is(err, smartdocs.ErrUnsupportedFile))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = c.Convert(ctx, WordCounter, textInput("a.txt", "x"), "")
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestWordToPDFFromText(t *testing.T) {
	art, err := newTestConverter().Convert(context.Background(), WordToPDF,
		textInput("essay.txt", "First paragraph.\n\nSecond paragraph."), "pdf")
	require.NoError(t, err)
	assert.Equal(t, "essay.pdf", art.Name)
	assert.Equal(t, smartdocs.FormatPDF, art.Format)
	assert.Equal(t, 1, art.Pages)
	assert.Contains(t, string(art.Data), "Converted by SmartDocsHub.com - Page 1 of 1")
	assert.Contains(t, string(art.Data), "Second paragraph.")
}

func TestWordToPDFFromDOCX(t *testing.T) {
	docx, err := doctpl.New(smartdocs.WithClock(func() time.Time { return fixedNow })).
		GenerateAssignment(context.Background(), doctpl.Assignment{
			Title:   "Essay",
			Content: "Opening line\nClosing line",
		}, smartdocs.FormatDOCX)
	require.NoError(t, err)

	text, err := docxText(docx.Data)
	require.NoError(t, err)
	assert.Contains(t, text, "Essay")
	assert.Contains(t, text, "Opening line")
	assert.Contains(t, text, "Closing line")

	art, err := newTestConverter().Convert(context.Background(), WordToPDF,
		Input{Name: "essay.docx", Data: docx.Data}, "")
	require.NoError(t, err)
	assert.Equal(t, "essay.pdf", art.Name)
	assert.Contains(t, string(art.Data), "Opening line")
}

func TestWordToPDFRejectsImages(t *testing.T) {
	_, err := newTestConverter().Convert(context.Background(), WordToPDF, pngInput(t, "a.png", 4, 4), "")
	assert.True(t, errors.Is(err, smartdocs.ErrUnsupportedFile))
}

func TestPDFToWord(t *testing.T) {
	c := newTestConverter()
	in := pdfInput(t, "report.pdf")

	art, err := c.Convert(context.Background(), PDFToWord, in, "")
	require.NoError(t, err)
	assert.Equal(t, "report_converted.docx", art.Name)
	assert.Equal(t, smartdocs.FormatDOCX, art.Format)

	art, err = c.Convert(context.Background(), PDFToWord, in, "text")
	require.NoError(t, err)
	assert.Equal(t, "report_converted.txt", art.Name)
	assert.Contains(t, string(art.Data), "Original file: report.pdf\n")
	assert.Contains(t, string(art.Data), "Conversion date: March 15, 2024\n")

	_, err = c.Convert(context.Background(), PDFToWord, in, "pdf")
	assert.True(t, errors.Is(err, smartdocs.ErrUnsupportedFormat))

	_, err = c.Convert(context.Background(), PDFToWord, textInput("x.txt", "hello"), "")
	assert.True(t, errors.Is(err, smartdocs.ErrUnsupportedFile))
}

func TestImageToPDF(t *testing.T) {
	art, err := newTestConverter().Convert(context.Background(), ImageToPDF, pngInput(t, "scan.png", 400, 200), "")
	require.NoError(t, err)
	assert.Equal(t, "scan.pdf", art.Name)
	assert.Equal(t, 1, art.Pages)
	assert.True(t, bytes.HasPrefix(art.Data, []byte("%PDF-")))
	assert.Contains(t, string(art.Data), "/Subtype /Image")
	assert.Contains(t, string(art.Data), "Converted by SmartDocsHub.com - March 15, 2024")
}

func TestPDFToImage(t *testing.T) {
	c := newTestConverter()
	in := pdfInput(t, "slides.pdf")

	art, err := c.Convert(context.Background(), PDFToImage, in, "")
	require.NoError(t, err)
	assert.Equal(t, "slides.png", art.Name)
	img := decode(t, art)
	assert.Equal(t, image.Rect(0, 0, placeholderWidth, placeholderHeight), img.Bounds())

	art, err = c.Convert(context.Background(), PDFToImage, in, "jpeg")
	require.NoError(t, err)
	assert.Equal(t, "slides.jpg", art.Name)
	_, err = jpeg.Decode(bytes.NewReader(art.Data))
	require.NoError(t, err)

	_, err = c.Convert(context.Background(), PDFToImage, in, "gif")
	assert.True(t, errors.Is(err, smartdocs.ErrUnsupportedFormat))
	_, err = c.Convert(context.Background(), PDFToImage, pngInput(t, "a.png", 2, 2), "")
	assert.True(t, errors.Is(err, smartdocs.ErrUnsupportedFile))
}

func TestImageResize(t *testing.T) {
	c := newTestConverter()

	art, err := c.Convert(context.Background(), ImageResize, pngInput(t, "photo.png", 2400, 1200), "")
	require.NoError(t, err)
	assert.Equal(t, "photo_resized.png", art.Name)
	assert.Equal(t, image.Rect(0, 0, 1200, 600), decode(t, art).Bounds())

	art, err = c.Convert(context.Background(), ImageResize, pngInput(t, "small.png", 300, 100), "jpg")
	require.NoError(t, err)
	assert.Equal(t, "small_resized.jpg", art.Name)
	assert.Equal(t, "image/jpeg", art.MIMEType)
	assert.Equal(t, image.Rect(0, 0, 300, 100), decode(t, art).Bounds())
}

func TestImageCompress(t *testing.T) {
	art, err := newTestConverter().Convert(context.Background(), ImageCompress, pngInput(t, "photo.png", 64, 64), "")
	require.NoError(t, err)
	assert.Equal(t, "photo_compressed.jpg", art.Name)
	_, err = jpeg.Decode(bytes.NewReader(art.Data))
	require.NoError(t, err)
}

func TestImageFormatConverter(t *testing.T) {
	c := newTestConverter()
	in := pngInput(t, "logo.png", 32, 16)

	art, err := c.Convert(context.Background(), ImageFormat, in, "bmp")
	require.NoError(t, err)
	assert.Equal(t, "logo.bmp", art.Name)
	img, err := bmp.Decode(bytes.NewReader(art.Data))
	require.NoError(t, err)
	assert.Equal(t, 32, img.Bounds().Dx())

	art, err = c.Convert(context.Background(), ImageFormat, in, "gif")
	require.NoError(t, err)
	assert.Equal(t, "image/gif", art.MIMEType)

	_, err = c.Convert(context.Background(), ImageFormat, in, "webp")
	assert.True(t, errors.Is(err, smartdocs.ErrUnsupportedFormat))
	_, err = c.Convert(context.Background(), ImageFormat, textInput("a.txt", "not an image"), "png")
	assert.True(t, errors.Is(err, smartdocs.ErrUnsupportedFile))
}

func TestWordCounter(t *testing.T) {
	art, err := newTestConverter().Convert(context.Background(), WordCounter,
		textInput("notes.txt", strings.Repeat("word ", 1200)), "")
	require.NoError(t, err)
	assert.Equal(t, "notes_word_count_analysis.txt", art.Name)
	assert.Equal(t, smartdocs.FormatText, art.Format)

	report := string(art.Data)
	assert.Contains(t, report, "File: notes.txt\nAnalysis Date: March 15, 2024 09:30 UTC\n")
	assert.Contains(t, report, "Words: 1,200\n")
	assert.Contains(t, report, "Average reading speed (200 WPM): 6 minutes\n")
	assert.Contains(t, report, "Slow speaking speed (120 WPM): 10 minutes\n")
	assert.Contains(t, report, "Average words per sentence: 1200.0\n")
	assert.Contains(t, report, "File type: text/plain\n")
}

func TestAnalyze(t *testing.T) {
	st := Analyze("Hello world. How are you?\n\nFine!")
	assert.Equal(t, TextStats{
		Words:              6,
		Characters:         32,
		CharactersNoSpaces: 26,
		Sentences:          3,
		Paragraphs:         2,
		Lines:              3,
	}, st)
	assert.Equal(t, 1, st.Minutes(200))
	assert.Equal(t, 0, Analyze("").Minutes(200))
}

func TestCaseFunctions(t *testing.T) {
	assert.Equal(t, "Hello World Foo-bar", TitleCase("hello WORLD foo-bar"))
	assert.Equal(t, "Hello. World! Yes", SentenceCase("HELLO. world! yes"))
	assert.Equal(t, "aBcD", AlternatingCase("AbCd"))
	assert.Equal(t, "hELLO 42", InverseCase("Hello 42"))
}

func TestCaseConverter(t *testing.T) {
	art, err := newTestConverter().Convert(context.Background(), CaseConverter, textInput("draft.txt", "make it LOUD"), "")
	require.NoError(t, err)
	assert.Equal(t, "draft_case_converted.txt", art.Name)
	out := string(art.Data)
	assert.Contains(t, out, "=== UPPERCASE ===\nMAKE IT LOUD\n")
	assert.Contains(t, out, "=== Title Case ===\nMake It Loud\n")
	assert.Contains(t, out, "=== iNVERSE cASE ===\nMAKE IT loud\n")
}

func TestPDFSummaries(t *testing.T) {
	c := newTestConverter()
	a, b := pdfInput(t, "a.pdf"), pdfInput(t, "b.pdf")

	art, err := c.Merge(context.Background(), []Input{a, b})
	require.NoError(t, err)
	assert.Equal(t, "a_merged.pdf", art.Name)
	assert.Contains(t, string(art.Data), "Merged PDF Document")
	assert.Contains(t, string(art.Data), "2. b.pdf")

	art, err = c.Convert(context.Background(), PDFSplit, a, "")
	require.NoError(t, err)
	assert.Equal(t, "a_page_1.pdf", art.Name)

	art, err = c.Convert(context.Background(), PDFCompress, a, "")
	require.NoError(t, err)
	assert.Equal(t, "a_compressed.pdf", art.Name)
	assert.Contains(t, string(art.Data), "Compression ratio: 30% reduction")

	_, err = c.Merge(context.Background(), nil)
	assert.Error(t, err)
	_, err = c.Merge(context.Background(), []Input{a, textInput("c.txt", "x")})
	assert.True(t, errors.Is(err, smartdocs.ErrUnsupportedFile))
}
