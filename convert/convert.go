// Package convert implements the file conversion tools listed in the tools
// catalog. Each conversion takes one uploaded file and returns a single
// artifact; nothing is written to disk.
package convert

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"

	smartdocs "github.com/Nikhilpandey8/smartdocshub"
	"github.com/Nikhilpandey8/smartdocshub/doctpl"
)

// Tool ids handled by Convert.
const (
	WordToPDF     = "word-to-pdf"
	PDFToWord     = "pdf-to-word"
	ImageToPDF    = "image-to-pdf"
	PDFToImage    = "pdf-to-image"
	ImageResize   = "image-resize"
	ImageCompress = "image-compress"
	ImageFormat   = "image-format-converter"
	WordCounter   = "word-counter"
	CaseConverter = "case-converter"
	PDFMerge      = "pdf-merge"
	PDFSplit      = "pdf-split"
	PDFCompress   = "pdf-compress"
)

const convertedFooter = "Converted by SmartDocsHub.com - Page {page} of {pages}"

// Tools lists the tool ids Convert understands.
func Tools() []string {
	return []string{
		WordToPDF, PDFToWord, ImageToPDF, PDFToImage,
		ImageResize, ImageCompress, ImageFormat,
		WordCounter, CaseConverter,
		PDFMerge, PDFSplit, PDFCompress,
	}
}

// Input is one uploaded file. MimeType is what the client declared and is
// only reported; the content itself is always sniffed.
type Input struct {
	Name     string
	MimeType string
	Data     []byte
}

func (in Input) base() string {
	name := filepath.Base(strings.ReplaceAll(in.Name, `\`, "/"))
	base := strings.TrimSuffix(name, filepath.Ext(name))
	if base == "" || base == "." || base == "/" {
		return "converted"
	}
	return base
}

func (in Input) detect() *mimetype.MIME { return mimetype.Detect(in.Data) }

// is reports whether the sniffed content has one of the given media types,
// or a parent of it does.
func (in Input) is(types ...string) bool {
	for m := in.detect(); m != nil; m = m.Parent() {
		for _, t := range types {
			if m.Is(t) {
				return true
			}
		}
	}
	return false
}

// Converter runs conversions. It is safe for concurrent use.
type Converter struct {
	settings smartdocs.Settings
	docs     *doctpl.Generator
	log      *zap.Logger
}

// New creates a Converter. The options configure page layout, clock and
// logger; the footer is always the conversion footer.
func New(opts ...smartdocs.Option) *Converter {
	s := smartdocs.NewSettings(opts...)
	docOpts := append(append([]smartdocs.Option{}, opts...), smartdocs.WithFooter(convertedFooter))
	return &Converter{
		settings: s,
		docs:     doctpl.New(docOpts...),
		log:      s.Logger.Named("convert"),
	}
}

// Convert runs toolID on in. outputFormat may be empty to take the tool's
// default output.
func (c *Converter) Convert(ctx context.Context, toolID string, in Input, outputFormat string) (*smartdocs.Artifact, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(in.Data) == 0 {
		return nil, fmt.Errorf("convert: %s: %w: empty file", toolID, smartdocs.ErrUnsupportedFile)
	}
	outputFormat = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(outputFormat), "."))

	start := time.Now()
	var (
		art *smartdocs.Artifact
		err error
	)
	switch toolID {
	case WordToPDF:
		art, err = c.wordToPDF(ctx, in)
	case PDFToWord:
		art, err = c.pdfToWord(ctx, in, outputFormat)
	case ImageToPDF:
		art, err = c.imageToPDF(in)
	case PDFToImage:
		art, err = c.pdfToImage(in, outputFormat)
	case ImageResize:
		art, err = c.resizeImage(in, outputFormat)
	case ImageCompress:
		art, err = c.compressImage(in)
	case ImageFormat:
		art, err = c.convertImage(in, outputFormat)
	case WordCounter:
		art, err = c.countWords(in)
	case CaseConverter:
		art, err = c.convertCase(in)
	case PDFMerge:
		art, err = c.Merge(ctx, []Input{in})
	case PDFSplit:
		art, err = c.splitPDF(in)
	case PDFCompress:
		art, err = c.compressPDF(in)
	default:
		return nil, fmt.Errorf("%w for %s", smartdocs.ErrUnsupportedTool, toolID)
	}
	if err != nil {
		c.log.Warn("conversion failed", zap.String("tool", toolID),
			zap.String("file", in.Name), zap.Error(err))
		return nil, err
	}
	c.log.Info("file converted",
		zap.String("tool", toolID),
		zap.String("file", in.Name),
		zap.String("output", art.Name),
		zap.Int("bytes", art.Size()),
		zap.Duration("took", time.Since(start)))
	return art, nil
}

func (c *Converter) now() time.Time { return c.settings.Now().UTC().Truncate(time.Second) }

func (c *Converter) artifact(name string, format smartdocs.Format, data []byte) *smartdocs.Artifact {
	return smartdocs.NewArtifact(name, format, data, c.now())
}

func unsupported(tool string, in Input, want string) error {
	return fmt.Errorf("convert: %s: %w: %s is %s, want %s",
		tool, smartdocs.ErrUnsupportedFile, in.Name, in.detect().String(), want)
}
