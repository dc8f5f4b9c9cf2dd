package doctpl

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"math"
	"strings"

	smartdocs "github.com/Nikhilpandey8/smartdocshub"
)

const (
	nsMain = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	nsRel  = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	xmlHdr = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"
)

const contentTypesXML = xmlHdr + `<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
	`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>` +
	`<Default Extension="xml" ContentType="application/xml"/>` +
	`<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>` +
	`<Override PartName="/word/footer1.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.footer+xml"/>` +
	`<Override PartName="/docProps/core.xml" ContentType="application/vnd.openxmlformats-package.core-properties+xml"/>` +
	`</Types>`

const packageRelsXML = xmlHdr + `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
	`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>` +
	`<Relationship Id="rId2" Type="http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties" Target="docProps/core.xml"/>` +
	`</Relationships>`

const documentRelsXML = xmlHdr + `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
	`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/footer" Target="footer1.xml"/>` +
	`</Relationships>`

// pageSizesMM holds portrait page sizes in millimeters.
var pageSizesMM = map[string][2]float64{
	"a3":     {297, 420},
	"a4":     {210, 297},
	"a5":     {148, 210},
	"letter": {215.9, 279.4},
	"legal":  {215.9, 355.6},
}

// mmPerUnit converts configured units to millimeters.
var mmPerUnit = map[string]float64{
	"mm":   1,
	"cm":   10,
	"in":   25.4,
	"inch": 25.4,
	"pt":   25.4 / 72,
}

func twips(mm float64) int {
	return int(math.Round(mm / 25.4 * 1440))
}

type docxWriter struct {
	b strings.Builder
}

func (w *docxWriter) raw(s string) { w.b.WriteString(s) }

func (w *docxWriter) text(s string) {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	w.b.Write(buf.Bytes())
}

// run writes a single text run. props is raw run-property XML.
func (w *docxWriter) run(s, props string) {
	w.raw("<w:r>")
	if props != "" {
		w.raw("<w:rPr>" + props + "</w:rPr>")
	}
	w.raw(`<w:t xml:space="preserve">`)
	w.text(s)
	w.raw("</w:t></w:r>")
}

// para writes one paragraph per line of s.
func (w *docxWriter) para(s, props string, after int) {
	for _, line := range strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n") {
		w.raw(fmt.Sprintf(`<w:p><w:pPr><w:spacing w:after="%d"/></w:pPr>`, after))
		if line != "" {
			w.run(line, props)
		}
		w.raw("</w:p>")
	}
}

func halfPoints(pt float64) string {
	return fmt.Sprintf(`<w:sz w:val="%d"/>`, int(math.Round(pt*2)))
}

func documentXML(c Content, s smartdocs.Settings) string {
	var w docxWriter
	w.raw(xmlHdr)
	w.raw(`<w:document xmlns:w="` + nsMain + `" xmlns:r="` + nsRel + `"><w:body>`)

	font := fmt.Sprintf(`<w:rFonts w:ascii="%s" w:hAnsi="%s"/>`, s.FontFamily, s.FontFamily)
	title := c.Title
	if title == "" {
		title = "Document"
	}
	w.para(title, font+"<w:b/>"+halfPoints(s.FontSize+titleBoost), 120)
	if c.Subtitle != "" {
		w.para(c.Subtitle, font+"<w:i/>"+halfPoints(reduced(s.FontSize, subtitleDrop)), 60)
	}
	w.para(c.GeneratedLine(), font+`<w:color w:val="646464"/>`+halfPoints(reduced(s.FontSize, generatedDrop)), 240)

	body := font + halfPoints(s.FontSize)
	for _, b := range c.Blocks {
		if b.Kind == BlockField {
			w.para(b.Label+":", body+"<w:b/>", 0)
		}
		w.para(b.Text, body, 0)
		w.raw(`<w:p/>`)
	}

	size, ok := pageSizesMM[strings.ToLower(s.PageSize)]
	if !ok {
		size = pageSizesMM["a4"]
	}
	orient := ""
	if strings.HasPrefix(strings.ToUpper(s.Orientation), "L") {
		size[0], size[1] = size[1], size[0]
		orient = ` w:orient="landscape"`
	}
	unit, ok := mmPerUnit[s.Unit]
	if !ok {
		unit = 1
	}
	m := s.Margins
	w.raw(`<w:sectPr><w:footerReference w:type="default" r:id="rId1"/>`)
	w.raw(fmt.Sprintf(`<w:pgSz w:w="%d" w:h="%d"%s/>`, twips(size[0]), twips(size[1]), orient))
	w.raw(fmt.Sprintf(`<w:pgMar w:top="%d" w:right="%d" w:bottom="%d" w:left="%d" w:header="708" w:footer="708" w:gutter="0"/>`,
		twips(m.Top*unit), twips(m.Right*unit), twips(m.Bottom*unit), twips(m.Left*unit)))
	w.raw(`</w:sectPr></w:body></w:document>`)
	return w.b.String()
}

// footerXML renders the footer pattern with PAGE and NUMPAGES fields in
// place of {page} and {pages}.
func footerXML(pattern string, s smartdocs.Settings) string {
	var w docxWriter
	w.raw(xmlHdr)
	w.raw(`<w:ftr xmlns:w="` + nsMain + `" xmlns:r="` + nsRel + `"><w:p><w:pPr><w:jc w:val="center"/></w:pPr>`)
	props := `<w:i/><w:color w:val="808080"/>` + halfPoints(reduced(s.FontSize, footerDrop))
	rest := pattern
	for rest != "" {
		i := strings.Index(rest, "{page")
		if i < 0 {
			w.run(rest, props)
			break
		}
		if i > 0 {
			w.run(rest[:i], props)
		}
		switch {
		case strings.HasPrefix(rest[i:], "{pages}"):
			w.raw(`<w:fldSimple w:instr=" NUMPAGES "><w:r><w:t>1</w:t></w:r></w:fldSimple>`)
			rest = rest[i+len("{pages}"):]
		case strings.HasPrefix(rest[i:], "{page}"):
			w.raw(`<w:fldSimple w:instr=" PAGE "><w:r><w:t>1</w:t></w:r></w:fldSimple>`)
			rest = rest[i+len("{page}"):]
		default:
			w.run(rest[i:i+len("{page")], props)
			rest = rest[i+len("{page"):]
		}
	}
	w.raw(`</w:p></w:ftr>`)
	return w.b.String()
}

func coreXML(c Content) string {
	var w docxWriter
	w.raw(xmlHdr)
	w.raw(`<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties"` +
		` xmlns:dc="http://purl.org/dc/elements/1.1/" xmlns:dcterms="http://purl.org/dc/terms/"` +
		` xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance">`)
	w.raw("<dc:title>")
	w.text(c.Title)
	w.raw("</dc:title><dc:creator>SmartDocsHub</dc:creator>")
	ts := c.GeneratedAt.UTC().Format("2006-01-02T15:04:05Z")
	w.raw(`<dcterms:created xsi:type="dcterms:W3CDTF">` + ts + `</dcterms:created>`)
	w.raw(`<dcterms:modified xsi:type="dcterms:W3CDTF">` + ts + `</dcterms:modified>`)
	w.raw(`</cp:coreProperties>`)
	return w.b.String()
}

func encodeDOCX(ctx context.Context, c Content, s smartdocs.Settings) ([]byte, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	parts := []struct {
		name string
		body string
	}{
		{"[Content_Types].xml", contentTypesXML},
		{"_rels/.rels", packageRelsXML},
		{"word/document.xml", documentXML(c, s)},
		{"word/_rels/document.xml.rels", documentRelsXML},
		{"word/footer1.xml", footerXML(s.Footer, s)},
		{"docProps/core.xml", coreXML(c)},
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, p := range parts {
		w, err := zw.CreateHeader(&zip.FileHeader{
			Name:     p.name,
			Method:   zip.Deflate,
			Modified: c.GeneratedAt,
		})
		if err != nil {
			return nil, 0, smartdocs.NewGenerationError("encode", smartdocs.FormatDOCX, err)
		}
		if _, err := w.Write([]byte(p.body)); err != nil {
			return nil, 0, smartdocs.NewGenerationError("encode", smartdocs.FormatDOCX, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, 0, smartdocs.NewGenerationError("encode", smartdocs.FormatDOCX, err)
	}
	return buf.Bytes(), 0, nil
}
