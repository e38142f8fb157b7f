package report

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"
)

const (
	pdfRowHeight    = 5.0
	pdfBottomMargin = 12.0
)

type pdfRenderer struct{}

func (pdfRenderer) ContentType() string { return "application/pdf" }

func (pdfRenderer) Extension() string { return FormatPDF }

// Render lays the table out on landscape A4 with numbered column headers and
// a legend, like the HTML page.
func (pdfRenderer) Render(w io.Writer, rep *Report) error {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetFont("Arial", "B", 12)
	pdf.AddPage()

	pdf.Cell(0, 8, "Electricity & Weather Report")
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Date: %s (%s)", rep.Date, rep.Zone))
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 8)
	pdf.Cell(0, 4, "1. Time (HH:MM)")
	pdf.Ln(4)
	for i, col := range rep.Columns {
		pdf.Cell(0, 4, tr(fmt.Sprintf("%d. %s", i+2, col.Title)))
		pdf.Ln(4)
	}
	pdf.Ln(4)

	if !rep.HasData() {
		pdf.SetFont("Arial", "", 10)
		pdf.Cell(0, 6, NoDataMessage)
		pdf.Ln(6)
		return pdf.Output(w)
	}

	pageWidth, pageHeight := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	width := (pageWidth - left - right) / float64(len(rep.Columns)+1)

	header := func() {
		pdf.SetFont("Arial", "B", 8)
		for i := 0; i <= len(rep.Columns); i++ {
			pdf.CellFormat(width, pdfRowHeight, fmt.Sprint(i+1), "1", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Arial", "", 8)
	}
	header()

	for _, row := range rep.Rows {
		if pdf.GetY()+pdfRowHeight > pageHeight-pdfBottomMargin {
			pdf.AddPage()
			header()
		}
		pdf.CellFormat(width, pdfRowHeight, row.Local.Format(TimeLayout), "1", 0, "C", false, 0, "")
		for _, cell := range rep.Cells(row) {
			pdf.CellFormat(width, pdfRowHeight, cell, "1", 0, "R", false, 0, "")
		}
		pdf.Ln(-1)
	}

	return pdf.Output(w)
}
