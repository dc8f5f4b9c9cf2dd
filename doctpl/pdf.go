package doctpl

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/go-pdf/fpdf"
	"golang.org/x/text/encoding/charmap"

	smartdocs "github.com/Nikhilpandey8/smartdocshub"
)

const (
	pagesAlias   = "{nb}"
	footerOffset = 15
	footerHeight = 10
)

// Heading sizes are relative to the body font size.
const (
	titleBoost    = 5
	subtitleDrop  = 1
	generatedDrop = 2
	footerDrop    = generatedDrop + 1
	blockSpacing  = 3

	// minFontSize is the floor for every size derived from the body size.
	minFontSize = 4
)

// reduced shrinks a derived font size without going below minFontSize.
func reduced(size, by float64) float64 { return max(size-by, minFontSize) }

// tighter shrinks a line height by one unit, keeping at least half of it.
func tighter(lineH float64) float64 { return max(lineH-1, lineH/2) }

// cp1252 converts UTF-8 text to the single-byte encoding used by the PDF core
// fonts. Runes outside Windows-1252 are an error, not a silent substitution.
func cp1252(s string) ([]byte, error) {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			return nil, fmt.Errorf("invalid UTF-8 at byte %d", i)
		}
		b, ok := charmap.Windows1252.EncodeRune(r)
		if !ok {
			return nil, fmt.Errorf("character %q (U+%04X) at byte %d has no Windows-1252 encoding", r, r, i)
		}
		out = append(out, b)
		i += size
	}
	return out, nil
}

// footerLine expands {page} and {pages}. The total is written as alias and
// filled in by fpdf when the document is closed.
func footerLine(pattern string, page int, alias string) string {
	r := strings.NewReplacer("{page}", strconv.Itoa(page), "{pages}", alias)
	return r.Replace(pattern)
}

// pageAlias returns a total-pages alias that occurs nowhere in c or the
// footer pattern. fpdf substitutes the alias across every page stream, so a
// colliding alias would rewrite user text.
func pageAlias(c Content, footer string) string {
	texts := []string{c.Title, c.Subtitle, footer}
	for _, b := range c.Blocks {
		texts = append(texts, b.Label, b.Text)
	}
	alias := pagesAlias
	for n := 1; ; n++ {
		clash := false
		for _, t := range texts {
			if strings.Contains(t, alias) {
				clash = true
				break
			}
		}
		if !clash {
			return alias
		}
		alias = "{nb" + strconv.Itoa(n) + "}"
	}
}

// paginator flows lines down the page and starts a new page whenever the
// next line would cross the bottom margin. Automatic page breaks are off so
// every break goes through ensure.
type paginator struct {
	pdf    *fpdf.Fpdf
	family string
	size   float64
	lineH  float64
	width  float64
	limit  float64
}

func newPaginator(pdf *fpdf.Fpdf, s smartdocs.Settings) *paginator {
	pageW, pageH := pdf.GetPageSize()
	return &paginator{
		pdf:    pdf,
		family: s.FontFamily,
		size:   s.FontSize,
		lineH:  s.LineHeight,
		width:  pageW - s.Margins.Left - s.Margins.Right,
		limit:  pageH - s.Margins.Bottom,
	}
}

func (p *paginator) ensure(h float64) {
	if p.pdf.GetY()+h > p.limit {
		p.pdf.AddPage()
	}
}

func (p *paginator) space(h float64) {
	if p.pdf.GetY()+h > p.limit {
		p.pdf.AddPage()
		return
	}
	p.pdf.Ln(h)
}

// write wraps text to the content width and emits it line by line. Explicit
// newlines start new lines; empty lines are kept.
func (p *paginator) write(text, style string, size, lineH float64) error {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\t", "    ")
	raw, err := cp1252(text)
	if err != nil {
		return err
	}
	p.pdf.SetFont(p.family, style, size)
	for _, para := range bytes.Split(raw, []byte("\n")) {
		lines := p.pdf.SplitLines(para, p.width)
		if len(lines) == 0 {
			lines = [][]byte{nil}
		}
		for _, ln := range lines {
			p.ensure(lineH)
			p.pdf.CellFormat(p.width, lineH, string(ln), "", 1, "L", false, 0, "")
		}
	}
	return nil
}

func encodePDF(ctx context.Context, c Content, s smartdocs.Settings) ([]byte, int, error) {
	pdf := fpdf.New(s.Orientation, s.Unit, s.PageSize, "")
	pdf.SetMargins(s.Margins.Left, s.Margins.Top, s.Margins.Right)
	pdf.SetAutoPageBreak(false, s.Margins.Bottom)
	pdf.SetCompression(s.Compress)
	pdf.SetCatalogSort(true)
	pdf.SetCreationDate(c.GeneratedAt)
	pdf.SetModificationDate(c.GeneratedAt)
	pdf.SetTitle(c.Title, true)
	pdf.SetCreator("SmartDocsHub", false)
	alias := pageAlias(c, s.Footer)
	pdf.AliasNbPages(alias)

	footer, err := cp1252(s.Footer)
	if err != nil {
		return nil, 0, smartdocs.NewGenerationError("translate", smartdocs.FormatPDF, err)
	}
	pdf.SetFooterFunc(func() {
		pdf.SetY(-footerOffset)
		pdf.SetFont(s.FontFamily, "I", reduced(s.FontSize, footerDrop))
		pdf.SetTextColor(128, 128, 128)
		pdf.CellFormat(0, footerHeight, footerLine(string(footer), pdf.PageNo(), alias), "", 0, "C", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
	})

	pdf.AddPage()
	p := newPaginator(pdf, s)

	title := c.Title
	if title == "" {
		title = "Document"
	}
	if err := p.write(title, "B", s.FontSize+titleBoost, s.LineHeight+3); err != nil {
		return nil, 0, smartdocs.NewGenerationError("translate", smartdocs.FormatPDF, err)
	}
	if c.Subtitle != "" {
		if err := p.write(c.Subtitle, "I", reduced(s.FontSize, subtitleDrop), tighter(s.LineHeight)); err != nil {
			return nil, 0, smartdocs.NewGenerationError("translate", smartdocs.FormatPDF, err)
		}
	}
	pdf.SetTextColor(100, 100, 100)
	if err := p.write(c.GeneratedLine(), "", reduced(s.FontSize, generatedDrop), tighter(s.LineHeight)); err != nil {
		return nil, 0, smartdocs.NewGenerationError("translate", smartdocs.FormatPDF, err)
	}
	pdf.SetTextColor(0, 0, 0)
	p.space(blockSpacing * 2)

	for i, b := range c.Blocks {
		if err := ctx.Err(); err != nil {
			return nil, 0, err
		}
		switch b.Kind {
		case BlockField:
			err = p.write(b.Label+":", "B", s.FontSize, s.LineHeight)
			if err == nil {
				err = p.write(b.Text, "", s.FontSize, s.LineHeight)
			}
		default:
			err = p.write(b.Text, "", s.FontSize, s.LineHeight)
		}
		if err != nil {
			return nil, 0, smartdocs.NewGenerationError("translate", smartdocs.FormatPDF,
				fmt.Errorf("block %d (%s): %w", i+1, b.Label, err))
		}
		if i < len(c.Blocks)-1 {
			p.space(blockSpacing)
		}
	}

	if pdf.Err() {
		return nil, 0, smartdocs.NewGenerationError("encode", smartdocs.FormatPDF, pdf.Error())
	}
	pages := pdf.PageNo()
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, 0, smartdocs.NewGenerationError("encode", smartdocs.FormatPDF, err)
	}
	return buf.Bytes(), pages, nil
}
