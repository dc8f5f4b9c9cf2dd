package convert

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/dustin/go-humanize"

	smartdocs "github.com/Nikhilpandey8/smartdocshub"
	"github.com/Nikhilpandey8/smartdocshub/doctpl"
)

const (
	mimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	mimePDF  = "application/pdf"
	mimeText = "text/plain"
)

// readText returns the text of a plain text or DOCX upload. Legacy binary
// .doc files are not readable.
func readText(tool string, in Input) (string, error) {
	switch {
	case in.is(mimeDOCX):
		s, err := docxText(in.Data)
		if err != nil {
			return "", fmt.Errorf("convert: %s: reading %s: %w", tool, in.Name, err)
		}
		return s, nil
	case in.is(mimeText) && utf8.Valid(in.Data):
		return strings.ReplaceAll(string(in.Data), "\r\n", "\n"), nil
	default:
		return "", unsupported(tool, in, "text or docx")
	}
}

// docxText extracts paragraph text from word/document.xml. Runs are joined,
// paragraphs end with a newline.
func docxText(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	var doc *zip.File
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			doc = f
			break
		}
	}
	if doc == nil {
		return "", errors.New("missing word/document.xml")
	}
	rc, err := doc.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()

	var (
		b      strings.Builder
		inText bool
	)
	dec := xml.NewDecoder(rc)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				b.WriteByte('\t')
			case "br", "cr":
				b.WriteByte('\n')
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				b.WriteByte('\n')
			}
		case xml.CharData:
			if inText {
				b.Write(t)
			}
		}
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

func (c *Converter) wordToPDF(ctx context.Context, in Input) (*smartdocs.Artifact, error) {
	text, err := readText(WordToPDF, in)
	if err != nil {
		return nil, err
	}
	art, err := c.docs.Render(ctx, doctpl.Content{
		Title:    "Document Converted from Word",
		Subtitle: "Source: " + in.Name,
		Blocks:   []doctpl.Block{{Kind: doctpl.BlockBody, Text: text}},
	}, smartdocs.FormatPDF)
	if err != nil {
		return nil, err
	}
	art.Name = in.base() + smartdocs.FormatPDF.Extension()
	return art, nil
}

const pdfToWordNote = "This is a layout-free conversion. Text, images and formatting " +
	"are not extracted from the original PDF document."

var pdfToWordTips = []string{
	"Ensure the PDF contains selectable text",
	"Avoid heavily formatted or image-based PDFs",
	"Consider the original document structure",
}

func (c *Converter) pdfToWord(ctx context.Context, in Input, outputFormat string) (*smartdocs.Artifact, error) {
	if !in.is(mimePDF) {
		return nil, unsupported(PDFToWord, in, mimePDF)
	}
	format := smartdocs.FormatDOCX
	if outputFormat != "" {
		f, err := smartdocs.ParseFormat(outputFormat)
		if err != nil || f == smartdocs.FormatPDF {
			return nil, fmt.Errorf("convert: %s: %w: %q", PDFToWord, smartdocs.ErrUnsupportedFormat, outputFormat)
		}
		format = f
	}

	now := c.now()
	tips := "For best results with PDF to Word conversion:\n- " + strings.Join(pdfToWordTips, "\n- ")
	art, err := c.docs.Render(ctx, doctpl.Content{
		Title:       "Document Converted from PDF: " + in.Name,
		GeneratedAt: now,
		Blocks: []doctpl.Block{
			{Kind: doctpl.BlockBody, Text: "This document has been converted from PDF format to a text-based format."},
			{Kind: doctpl.BlockField, Label: "Original file", Text: in.Name},
			{Kind: doctpl.BlockField, Label: "File size", Text: humanize.Bytes(uint64(len(in.Data)))},
			{Kind: doctpl.BlockField, Label: "Conversion date", Text: now.Format("January 2, 2006")},
			{Kind: doctpl.BlockBody, Text: pdfToWordNote},
			{Kind: doctpl.BlockBody, Text: tips},
		},
	}, format)
	if err != nil {
		return nil, err
	}
	art.Name = in.base() + "_converted" + format.Extension()
	return art, nil
}
