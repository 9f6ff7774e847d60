package report

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	"github.com/signintech/gopdf"
)

// defaultFont is DejaVu Sans, used unless PDF_FONT_PATH names another TTF.
//
//go:embed fonts/DejaVuSans.ttf
var defaultFont []byte

const (
	pdfFont       = "body"
	pdfMargin     = 50.0
	pdfLineHeight = 20.0
	pdfNumberCol  = 150.0
)

// PDFRenderer draws registers with a TrueType font.
type PDFRenderer struct {
	font []byte
}

// NewPDFRenderer creates a renderer using the TTF font at fontPath, or the
// bundled font when fontPath is empty. The file is read once, here.
func NewPDFRenderer(fontPath string) (*PDFRenderer, error) {
	if fontPath == "" {
		return &PDFRenderer{font: defaultFont}, nil
	}
	font, err := os.ReadFile(fontPath)
	if err != nil {
		return nil, fmt.Errorf("read font: %w", err)
	}
	return &PDFRenderer{font: font}, nil
}

// Render returns r as an A4 PDF document.
func (p *PDFRenderer) Render(r Register) ([]byte, error) {
	pdf := &gopdf.GoPdf{}
	pdf.Start(gopdf.Config{PageSize: *gopdf.PageSizeA4})
	pdf.AddPage()

	if err := pdf.AddTTFFontData(pdfFont, p.font); err != nil {
		return nil, fmt.Errorf("load font: %w", err)
	}

	w := &pdfWriter{pdf: pdf, y: pdfMargin}
	if err := w.text(0, Title, 18); err != nil {
		return nil, err
	}
	w.y += pdfLineHeight / 2

	for _, kv := range header(r) {
		if err := w.text(0, kv[0]+": "+kv[1], 12); err != nil {
			return nil, err
		}
	}
	w.y += pdfLineHeight / 2

	if len(r.Rows) == 0 {
		if err := w.text(0, EmptyMessage, 12); err != nil {
			return nil, err
		}
	} else {
		if err := w.row("Student ID", "Name", 12); err != nil {
			return nil, err
		}
		pdf.Line(pdfMargin, w.y-4, gopdf.PageSizeA4.W-pdfMargin, w.y-4)
		for _, row := range r.Rows {
			if err := w.row(row.StudentNumber, row.Name, 11); err != nil {
				return nil, err
			}
		}
	}

	var buf bytes.Buffer
	if _, err := pdf.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

type pdfWriter struct {
	pdf *gopdf.GoPdf
	y   float64
}

func (w *pdfWriter) text(x float64, s string, size int) error {
	if w.y > gopdf.PageSizeA4.H-pdfMargin {
		w.pdf.AddPage()
		w.y = pdfMargin
	}
	if err := w.pdf.SetFont(pdfFont, "", size); err != nil {
		return fmt.Errorf("set font: %w", err)
	}
	w.pdf.SetXY(pdfMargin+x, w.y)
	if err := w.pdf.Cell(nil, s); err != nil {
		return fmt.Errorf("write cell: %w", err)
	}
	w.y += pdfLineHeight
	return nil
}

func (w *pdfWriter) row(number, name string, size int) error {
	if err := w.text(0, number, size); err != nil {
		return err
	}
	w.y -= pdfLineHeight
	return w.text(pdfNumberCol, name, size)
}
