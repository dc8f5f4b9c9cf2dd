package convert

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/go-pdf/fpdf"

	smartdocs "github.com/Nikhilpandey8/smartdocshub"
)

// compressionRatio is the size reduction reported by pdf-compress.
const compressionRatio = 0.7

func (c *Converter) newPDF(title string) *fpdf.Fpdf {
	s := c.settings
	pdf := fpdf.New(s.Orientation, "mm", s.PageSize, "")
	pdf.SetCompression(s.Compress)
	pdf.SetCatalogSort(true)
	now := c.now()
	pdf.SetCreationDate(now)
	pdf.SetModificationDate(now)
	pdf.SetCreator("SmartDocsHub", true)
	pdf.SetTitle(title, true)
	pdf.SetMargins(20, 20, 20)
	return pdf
}

func output(pdf *fpdf.Fpdf) ([]byte, error) {
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, smartdocs.NewGenerationError("output", smartdocs.FormatPDF, err)
	}
	return buf.Bytes(), nil
}

// summaryPDF writes a one page report: a heading followed by plain lines.
// Empty strings leave a blank line.
func (c *Converter) summaryPDF(title string, lines []string) ([]byte, error) {
	pdf := c.newPDF(title)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, tr(title), "", 1, "L", false, 0, "")
	pdf.Ln(10)
	pdf.SetFont("Helvetica", "", 12)
	for _, line := range lines {
		pdf.CellFormat(0, 10, tr(line), "", 1, "L", false, 0, "")
	}
	return output(pdf)
}

func (c *Converter) summary(name, title string, lines []string) (*smartdocs.Artifact, error) {
	data, err := c.summaryPDF(title, lines)
	if err != nil {
		return nil, err
	}
	art := c.artifact(name, smartdocs.FormatPDF, data)
	art.Pages = 1
	return art, nil
}

func size(in Input) string { return humanize.Bytes(uint64(len(in.Data))) }

// Merge records the given PDFs in a single summary document named after
// the first input. Page content is not copied.
func (c *Converter) Merge(ctx context.Context, inputs []Input) (*smartdocs.Artifact, error) {
	if len(inputs) == 0 {
		return nil, errors.New("convert: pdf-merge: no files")
	}
	lines := []string{"This document was created by merging multiple PDF files:"}
	for i, in := range inputs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !in.is(mimePDF) {
			return nil, unsupported(PDFMerge, in, mimePDF)
		}
		lines = append(lines, strconv.Itoa(i+1)+". "+in.Name+" ("+size(in)+")")
	}
	lines = append(lines, "", "Merged on: "+c.now().Format("January 2, 2006"), "", "Created by SmartDocsHub.com")
	return c.summary(inputs[0].base()+"_merged.pdf", "Merged PDF Document", lines)
}

func (c *Converter) splitPDF(in Input) (*smartdocs.Artifact, error) {
	if !in.is(mimePDF) {
		return nil, unsupported(PDFSplit, in, mimePDF)
	}
	return c.summary(in.base()+"_page_1.pdf", "PDF Split Result", []string{
		"Original file: " + in.Name,
		"File size: " + size(in),
		"This represents page 1 of the split PDF.",
		"",
		"Created by SmartDocsHub.com",
	})
}

func (c *Converter) compressPDF(in Input) (*smartdocs.Artifact, error) {
	if !in.is(mimePDF) {
		return nil, unsupported(PDFCompress, in, mimePDF)
	}
	estimated := uint64(float64(len(in.Data)) * compressionRatio)
	return c.summary(in.base()+"_compressed.pdf", "Compressed PDF", []string{
		"Original file: " + in.Name,
		"Original size: " + size(in),
		"Compressed size: " + humanize.Bytes(estimated) + " (estimated)",
		fmt.Sprintf("Compression ratio: %.0f%% reduction", (1-compressionRatio)*100),
		"",
		"Created by SmartDocsHub.com",
	})
}
