// Package codegen renders QR codes and linear or matrix barcodes as PNG
// images or single page PDF documents.
package codegen

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"strings"
	"sync"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/code128"
	"github.com/boombuler/barcode/code39"
	"github.com/boombuler/barcode/datamatrix"
	"github.com/boombuler/barcode/ean"
	"github.com/boombuler/barcode/qr"
	"github.com/go-pdf/fpdf"
	fpdfbarcode "github.com/go-pdf/fpdf/contrib/barcode"
	pdf417 "github.com/ruudk/golang-pdf417"
	"go.uber.org/zap"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	smartdocs "github.com/Nikhilpandey8/smartdocshub"
)

// Symbology selects the code family.
type Symbology string

const (
	QR         Symbology = "qr"
	Code128    Symbology = "code128"
	Code39     Symbology = "code39"
	EAN        Symbology = "ean"
	DataMatrix Symbology = "datamatrix"
	PDF417     Symbology = "pdf417"
)

// Symbologies lists every supported symbology.
var Symbologies = []Symbology{QR, Code128, Code39, EAN, DataMatrix, PDF417}

// ParseSymbology accepts a symbology name. "barcode" is shorthand for Code128.
func ParseSymbology(s string) (Symbology, error) {
	switch sym := Symbology(strings.ToLower(strings.TrimSpace(s))); sym {
	case QR, Code128, Code39, EAN, DataMatrix, PDF417:
		return sym, nil
	case "barcode", "":
		return Code128, nil
	default:
		return "", fmt.Errorf("codegen: unknown symbology %q", s)
	}
}

// Linear reports whether the symbology is one dimensional.
func (s Symbology) Linear() bool {
	return s == Code128 || s == Code39 || s == EAN
}

func (s Symbology) kind() string {
	if s == QR {
		return "qr"
	}
	return "barcode"
}

const (
	DefaultSize = 256
	MaxSize     = 2048

	pdf417Columns  = 10
	pdf417Security = 2

	captionHeight = 20
)

var ErrEmptyPayload = errors.New("codegen: empty payload")

// Request describes one code to render.
type Request struct {
	Symbology Symbology
	Payload   string
	// Size is the target width in pixels for PNG output. Zero means DefaultSize.
	Size   int
	Format smartdocs.Format
}

// Generator renders codes into artifacts.
type Generator struct {
	settings smartdocs.Settings
	log      *zap.Logger
}

// New returns a Generator. Only the clock, logger, page size and
// orientation settings are used.
func New(opts ...smartdocs.Option) *Generator {
	s := smartdocs.NewSettings(opts...)
	return &Generator{settings: s, log: s.Logger.Named("codegen")}
}

// Generate encodes req.Payload and renders it in req.Format, which must be
// PNG or PDF. The artifact is named <qr|barcode>_code_<unix millis>.
func (g *Generator) Generate(req Request) (*smartdocs.Artifact, error) {
	if strings.TrimSpace(req.Payload) == "" {
		return nil, ErrEmptyPayload
	}
	if req.Symbology == "" {
		req.Symbology = QR
	}
	if req.Format == "" {
		req.Format = smartdocs.FormatPNG
	}
	size := req.Size
	switch {
	case size <= 0:
		size = DefaultSize
	case size > MaxSize:
		size = MaxSize
	}

	bc, err := Encode(req.Symbology, req.Payload)
	if err != nil {
		return nil, err
	}

	var data []byte
	switch req.Format {
	case smartdocs.FormatPNG:
		data, err = renderPNG(bc, req.Symbology, req.Payload, size)
	case smartdocs.FormatPDF:
		data, err = g.renderPDF(bc, req.Symbology, req.Payload)
	default:
		return nil, fmt.Errorf("%w: %q", smartdocs.ErrUnsupportedFormat, req.Format)
	}
	if err != nil {
		return nil, smartdocs.NewGenerationError("codegen", req.Format, err)
	}

	now := g.settings.Now()
	name := fmt.Sprintf("%s_code_%d%s", req.Symbology.kind(), now.UnixMilli(), req.Format.Extension())
	art := smartdocs.NewArtifact(name, req.Format, data, now.UTC())
	if req.Format == smartdocs.FormatPDF {
		art.Pages = 1
	}
	g.log.Debug("code generated",
		zap.String("symbology", string(req.Symbology)),
		zap.String("format", string(req.Format)),
		zap.Int("bytes", len(data)))
	return art, nil
}

// Encode builds the unscaled barcode for payload.
func Encode(sym Symbology, payload string) (barcode.Barcode, error) {
	var (
		bc  barcode.Barcode
		err error
	)
	switch sym {
	case QR:
		bc, err = qr.Encode(payload, qr.M, qr.Auto)
	case Code128:
		bc, err = code128.Encode(payload)
	case Code39:
		bc, err = code39.Encode(payload, true, true)
	case EAN:
		bc, err = ean.Encode(payload)
	case DataMatrix:
		bc, err = datamatrix.Encode(payload)
	case PDF417:
		bc = pdf417.Encode(payload, pdf417Columns, pdf417Security)
	default:
		return nil, fmt.Errorf("codegen: unknown symbology %q", sym)
	}
	if err != nil {
		return nil, fmt.Errorf("codegen: encoding %s: %w", sym, err)
	}
	return bc, nil
}

// scaledSize picks output dimensions no smaller than the barcode itself.
func scaledSize(bc barcode.Barcode, sym Symbology, size int) (int, int) {
	b := bc.Bounds()
	w := max(size, b.Dx())
	switch {
	case sym.Linear():
		return w, max(size/3, 1)
	case sym == PDF417:
		return w, max(size/3, b.Dy())
	default:
		side := max(w, b.Dy())
		return side, side
	}
}

func renderPNG(bc barcode.Barcode, sym Symbology, payload string, size int) ([]byte, error) {
	w, h := scaledSize(bc, sym, size)
	scaled, err := barcode.Scale(bc, w, h)
	if err != nil {
		return nil, err
	}
	var img image.Image = scaled
	if sym.Linear() {
		img = withCaption(scaled, payload)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// withCaption draws the human readable payload under a linear barcode.
func withCaption(bc image.Image, text string) image.Image {
	b := bc.Bounds()
	canvas := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()+captionHeight))
	draw.Draw(canvas, canvas.Bounds(), image.White, image.Point{}, draw.Src)
	draw.Draw(canvas, b.Sub(b.Min), bc, b.Min, draw.Src)

	d := &font.Drawer{Dst: canvas, Src: image.NewUniform(color.Black), Face: basicfont.Face7x13}
	x := (b.Dx() - d.MeasureString(text).Round()) / 2
	d.Dot = fixed.P(max(x, 0), b.Dy()+captionHeight-5)
	d.DrawString(text)
	return canvas
}

// The fpdf barcode registry is package global.
var pdfMu sync.Mutex

func (g *Generator) renderPDF(bc barcode.Barcode, sym Symbology, payload string) ([]byte, error) {
	s := g.settings
	pdf := fpdf.New(s.Orientation, "mm", s.PageSize, "")
	pdf.SetCompression(s.Compress)
	pdf.SetCatalogSort(true)
	now := s.Now().UTC()
	pdf.SetCreationDate(now)
	pdf.SetModificationDate(now)
	pdf.SetCreator("SmartDocsHub", true)
	pdf.SetMargins(20, 20, 20)
	pdf.AddPage()

	title := "Barcode"
	if sym == QR {
		title = "QR Code"
	}
	pdf.SetTitle(title, true)
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, title, "", 1, "C", false, 0, "")

	pageW, _ := pdf.GetPageSize()
	w, h := 80.0, 80.0
	switch {
	case sym.Linear():
		w, h = 120, 40
	case sym == PDF417:
		w, h = 140, 50
	}
	x := (pageW - w) / 2
	y := pdf.GetY() + 10

	pdfMu.Lock()
	key := fpdfbarcode.Register(bc)
	fpdfbarcode.Barcode(pdf, key, x, y, w, h, false)
	pdfMu.Unlock()

	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetY(y + h + 8)
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(80, 80, 80)
	for _, line := range strings.Split(payload, "\n") {
		pdf.CellFormat(0, 5, tr(line), "", 1, "C", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
