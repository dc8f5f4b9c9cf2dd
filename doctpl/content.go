// Package doctpl renders templates and their document data into
// downloadable artifacts.
//
// Generation happens in two steps. Content assembly walks the template
// fields in declared order and produces one labelled block per field. A
// format encoder then turns the assembled Content into bytes:
//
//   - pdf: core-font PDF with explicit pagination and a page-numbered footer
//   - docx: minimal WordprocessingML package
//   - txt: plain UTF-8 text
//
// Free-text assignment bodies go through the same encoders as a single body
// block, so pagination and footers behave identically.
package doctpl

import (
	"fmt"
	"io"
	"mime"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"

	smartdocs "github.com/Nikhilpandey8/smartdocshub"
)

// BlockKind distinguishes labelled field blocks from free-text bodies.
type BlockKind int

const (
	BlockField BlockKind = iota // "Label: value"
	BlockBody                   // flowed text without a label
)

// Block is one unit of document content.
type Block struct {
	Kind    BlockKind
	FieldID string
	Label   string
	Text    string
}

// Content is the format-independent document handed to encoders.
type Content struct {
	Title       string
	Subtitle    string
	GeneratedAt time.Time
	Blocks      []Block
}

// GeneratedLine is the timestamp line printed under the title. It is the
// only part of an artifact that changes between identical calls.
func (c Content) GeneratedLine() string {
	return "Generated on " + c.GeneratedAt.UTC().Format("January 2, 2006 15:04 UTC")
}

// sniffLen is how much of a file is read to detect its type.
const sniffLen = 3072

// Assemble builds content for tpl from data: the template title as heading
// followed by one block per field in declared order. Absent values render as
// the empty string. File fields are described by name, type and size; a file
// that cannot be read falls back to its name and is reported as a
// *smartdocs.FileReadError in the returned warnings.
func Assemble(tpl smartdocs.Template, data smartdocs.DocumentData) (Content, []error) {
	c := Content{
		Title:    tpl.Title,
		Subtitle: tpl.Description,
		Blocks:   make([]Block, 0, len(tpl.Fields)),
	}
	var warnings []error
	for _, f := range tpl.Fields {
		v := data.Lookup(f.ID)
		text := v.String()
		if h := v.FileHandle(); v.Kind() == smartdocs.KindFile && h != nil {
			desc, err := describeFile(f.ID, h)
			if err != nil {
				warnings = append(warnings, err)
			} else {
				text = desc
			}
		}
		c.Blocks = append(c.Blocks, Block{Kind: BlockField, FieldID: f.ID, Label: f.Label, Text: text})
	}
	return c, warnings
}

// describeFile opens h once and reads only enough to detect its type.
func describeFile(fieldID string, h smartdocs.FileHandle) (string, error) {
	fail := func(err error) error {
		return &smartdocs.FileReadError{FieldID: fieldID, FileName: h.Name(), Err: err}
	}
	rc, err := h.Open()
	if err != nil {
		return "", fail(err)
	}
	defer rc.Close()

	head, err := io.ReadAll(io.LimitReader(rc, sniffLen))
	if err != nil {
		return "", fail(err)
	}
	mt := mimetype.Detect(head)
	kind, ok := acceptedType(mt)
	if !ok {
		return "", fail(fmt.Errorf("%w: %s", smartdocs.ErrUnsupportedFile, mt.String()))
	}
	size := h.Size()
	if size < int64(len(head)) {
		size = int64(len(head))
	}
	return fmt.Sprintf("%s (%s, %s)", h.Name(), kind, humanize.Bytes(uint64(size))), nil
}

var documentTypes = map[string]bool{
	"application/pdf":    true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
}

// acceptedType walks the detected type and its parents looking for an image
// or a PDF/Word document.
func acceptedType(m *mimetype.MIME) (string, bool) {
	for ; m != nil; m = m.Parent() {
		mt, _, err := mime.ParseMediaType(m.String())
		if err != nil {
			continue
		}
		if strings.HasPrefix(mt, "image/") || documentTypes[mt] {
			return mt, true
		}
	}
	return "", false
}
