package convert

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"

	"github.com/dustin/go-humanize"
	"github.com/go-pdf/fpdf"
	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	_ "golang.org/x/image/webp"

	smartdocs "github.com/Nikhilpandey8/smartdocshub"
)

const (
	maxResizeWidth  = 1200
	resizeQuality   = 90
	compressQuality = 70
	pdfImageQuality = 85
	imageMargin     = 10.0

	placeholderWidth  = 800
	placeholderHeight = 1000
)

func decodeImage(tool string, in Input) (image.Image, smartdocs.Format, error) {
	img, name, err := image.Decode(bytes.NewReader(in.Data))
	if err != nil {
		return nil, "", fmt.Errorf("convert: %s: %w: %s: %v", tool, smartdocs.ErrUnsupportedFile, in.Name, err)
	}
	// webp has no encoder; it converts to png by default.
	f, err := smartdocs.ParseImageFormat(name)
	if err != nil {
		f = smartdocs.FormatPNG
	}
	return img, f, nil
}

func imageFormat(tool, requested string, fallback smartdocs.Format) (smartdocs.Format, error) {
	if requested == "" {
		return fallback, nil
	}
	f, err := smartdocs.ParseImageFormat(requested)
	if err != nil {
		return "", fmt.Errorf("convert: %s: %w", tool, err)
	}
	return f, nil
}

// flatten composites img over a white background. JPEG has no alpha.
func flatten(img image.Image) *image.RGBA {
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Over)
	return dst
}

func encodeImage(img image.Image, f smartdocs.Format, quality int) ([]byte, error) {
	var (
		buf bytes.Buffer
		err error
	)
	switch f {
	case smartdocs.FormatPNG:
		err = png.Encode(&buf, img)
	case smartdocs.FormatJPEG:
		err = jpeg.Encode(&buf, flatten(img), &jpeg.Options{Quality: quality})
	case smartdocs.FormatGIF:
		err = gif.Encode(&buf, img, nil)
	case smartdocs.FormatBMP:
		err = bmp.Encode(&buf, img)
	default:
		return nil, fmt.Errorf("%w: %q", smartdocs.ErrUnsupportedFormat, f)
	}
	if err != nil {
		return nil, smartdocs.NewGenerationError("encode", f, err)
	}
	return buf.Bytes(), nil
}

// fitWidth scales img down to at most maxW pixels wide, keeping the aspect
// ratio. Smaller images are returned as-is.
func fitWidth(img image.Image, maxW int) image.Image {
	b := img.Bounds()
	if b.Dx() <= maxW {
		return img
	}
	h := max((b.Dy()*maxW+b.Dx()/2)/b.Dx(), 1)
	dst := image.NewRGBA(image.Rect(0, 0, maxW, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}

func (c *Converter) resizeImage(in Input, outputFormat string) (*smartdocs.Artifact, error) {
	img, src, err := decodeImage(ImageResize, in)
	if err != nil {
		return nil, err
	}
	f, err := imageFormat(ImageResize, outputFormat, src)
	if err != nil {
		return nil, err
	}
	data, err := encodeImage(fitWidth(img, maxResizeWidth), f, resizeQuality)
	if err != nil {
		return nil, err
	}
	return c.artifact(in.base()+"_resized"+f.Extension(), f, data), nil
}

func (c *Converter) compressImage(in Input) (*smartdocs.Artifact, error) {
	img, _, err := decodeImage(ImageCompress, in)
	if err != nil {
		return nil, err
	}
	data, err := encodeImage(img, smartdocs.FormatJPEG, compressQuality)
	if err != nil {
		return nil, err
	}
	return c.artifact(in.base()+"_compressed"+smartdocs.FormatJPEG.Extension(), smartdocs.FormatJPEG, data), nil
}

func (c *Converter) convertImage(in Input, outputFormat string) (*smartdocs.Artifact, error) {
	img, _, err := decodeImage(ImageFormat, in)
	if err != nil {
		return nil, err
	}
	f, err := imageFormat(ImageFormat, outputFormat, smartdocs.FormatPNG)
	if err != nil {
		return nil, err
	}
	data, err := encodeImage(img, f, resizeQuality)
	if err != nil {
		return nil, err
	}
	return c.artifact(in.base()+f.Extension(), f, data), nil
}

// imageToPDF places the image on a single page, scaled to fit inside the
// margins and centred on the axis with slack.
func (c *Converter) imageToPDF(in Input) (*smartdocs.Artifact, error) {
	img, _, err := decodeImage(ImageToPDF, in)
	if err != nil {
		return nil, err
	}
	jpg, err := encodeImage(img, smartdocs.FormatJPEG, pdfImageQuality)
	if err != nil {
		return nil, err
	}

	pdf := c.newPDF(in.Name)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	pageW, pageH := pdf.GetPageSize()
	maxW, maxH := pageW-2*imageMargin, pageH-2*imageMargin

	b := img.Bounds()
	imgRatio := float64(b.Dx()) / float64(b.Dy())
	var w, h, x, y float64
	if imgRatio > maxW/maxH {
		w, h = maxW, maxW/imgRatio
		x, y = imageMargin, imageMargin+(maxH-h)/2
	} else {
		w, h = maxH*imgRatio, maxH
		x, y = imageMargin+(maxW-w)/2, imageMargin
	}

	opt := fpdf.ImageOptions{ImageType: "JPG"}
	pdf.RegisterImageOptionsReader("upload", opt, bytes.NewReader(jpg))
	pdf.ImageOptions("upload", x, y, w, h, false, opt, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	pdf.Text(imageMargin, pageH-5, "Converted by SmartDocsHub.com - "+c.now().Format("January 2, 2006"))

	data, err := output(pdf)
	if err != nil {
		return nil, err
	}
	art := c.artifact(in.base()+smartdocs.FormatPDF.Extension(), smartdocs.FormatPDF, data)
	art.Pages = 1
	return art, nil
}

var (
	borderGray = color.RGBA{0xcc, 0xcc, 0xcc, 0xff}
	footerGray = color.RGBA{0x66, 0x66, 0x66, 0xff}
)

// pdfToImage renders an information card for the uploaded PDF. Page
// rasterisation is out of scope.
func (c *Converter) pdfToImage(in Input, outputFormat string) (*smartdocs.Artifact, error) {
	if !in.is(mimePDF) {
		return nil, unsupported(PDFToImage, in, mimePDF)
	}
	f, err := imageFormat(PDFToImage, outputFormat, smartdocs.FormatPNG)
	if err != nil {
		return nil, err
	}
	if f != smartdocs.FormatPNG && f != smartdocs.FormatJPEG {
		return nil, fmt.Errorf("convert: %s: %w: %q", PDFToImage, smartdocs.ErrUnsupportedFormat, f)
	}

	canvas := image.NewRGBA(image.Rect(0, 0, placeholderWidth, placeholderHeight))
	draw.Draw(canvas, canvas.Bounds(), image.White, image.Point{}, draw.Src)
	strokeRect(canvas, image.Rect(10, 10, placeholderWidth-10, placeholderHeight-10), 2, borderGray)

	text := func(x, y int, col color.Color, s string) {
		d := &font.Drawer{Dst: canvas, Src: image.NewUniform(col), Face: basicfont.Face7x13, Dot: fixed.P(x, y)}
		d.DrawString(s)
	}
	text(50, 100, color.Black, "PDF to Image Conversion")
	text(50, 150, color.Black, "Original file: "+in.Name)
	text(50, 180, color.Black, "File size: "+humanize.Bytes(uint64(len(in.Data))))
	text(50, 210, color.Black, "Conversion date: "+c.now().Format("January 2, 2006"))
	text(50, 260, color.Black, "Page content is not rasterised.")
	text(50, placeholderHeight-50, footerGray, "Converted by SmartDocsHub.com")

	data, err := encodeImage(canvas, f, resizeQuality)
	if err != nil {
		return nil, err
	}
	return c.artifact(in.base()+f.Extension(), f, data), nil
}

func strokeRect(dst draw.Image, r image.Rectangle, width int, col color.Color) {
	src := image.NewUniform(col)
	for _, edge := range []image.Rectangle{
		image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+width),
		image.Rect(r.Min.X, r.Max.Y-width, r.Max.X, r.Max.Y),
		image.Rect(r.Min.X, r.Min.Y, r.Min.X+width, r.Max.Y),
		image.Rect(r.Max.X-width, r.Min.Y, r.Max.X, r.Max.Y),
	} {
		draw.Draw(dst, edge, src, image.Point{}, draw.Src)
	}
}
