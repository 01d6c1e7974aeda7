package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// ReportHeader carries the fixed header block printed above the table.
type ReportHeader struct {
	SchoolName  string
	AppName     string
	FilterLine  string
	GeneratedAt time.Time
}

// PDFExporter renders datasets into a paginated tabular PDF with the
// institutional header.
type PDFExporter struct{}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// Render creates a PDF document with the report header and a grid table.
func (e *PDFExporter) Render(data Dataset, header ReportHeader) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("pdf requires at least one header")
	}
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(14, 15, 14)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	if header.SchoolName != "" {
		pdf.SetFont("Arial", "B", 18)
		pdf.SetTextColor(40, 40, 40)
		pdf.CellFormat(0, 8, tr(header.SchoolName), "", 1, "L", false, 0, "")
	}
	if header.AppName != "" {
		pdf.SetFont("Arial", "", 12)
		pdf.SetTextColor(100, 100, 100)
		pdf.CellFormat(0, 6, tr(header.AppName), "", 1, "L", false, 0, "")
	}
	pdf.SetFont("Arial", "", 10)
	generated := header.GeneratedAt
	if generated.IsZero() {
		generated = time.Now()
	}
	pdf.CellFormat(0, 6, tr(fmt.Sprintf("Reporte de Incidencias - Generado: %s", generated.Format("02/01/2006"))), "", 1, "L", false, 0, "")
	if header.FilterLine != "" {
		pdf.CellFormat(0, 6, tr(header.FilterLine), "", 1, "L", false, 0, "")
	}
	pdf.Ln(3)

	colWidth := 182.0 / float64(len(data.Headers))

	writeHeaderRow := func() {
		pdf.SetFont("Arial", "B", 9)
		pdf.SetFillColor(30, 64, 175)
		pdf.SetTextColor(255, 255, 255)
		for _, h := range data.Headers {
			pdf.CellFormat(colWidth, 8, tr(h), "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Arial", "", 8)
		pdf.SetTextColor(40, 40, 40)
	}
	writeHeaderRow()

	_, pageHeight := pdf.GetPageSize()
	_, _, _, bottom := pdf.GetMargins()
	for _, row := range data.Rows {
		if pdf.GetY()+7 > pageHeight-bottom {
			pdf.AddPage()
			writeHeaderRow()
		}
		for _, h := range data.Headers {
			pdf.CellFormat(colWidth, 7, tr(row[h]), "1", 0, "", false, 0, "")
		}
		pdf.Ln(-1)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
