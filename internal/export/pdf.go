package export

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"

	"github.com/hyperifyio/betsbrasileiras/internal/bet"
)

// Column widths in millimetres for an A4 landscape page.
var pdfWidths = []float64{18, 16, 36, 72, 38, 45, 26, 26}

// WritePDF renders the records as a landscape table. The core fonts are
// cp1252, so text is translated before it is written.
func WritePDF(w io.Writer, bets []bet.Bet) error {
	pdf := gofpdf.New("L", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle("Bets Brasileiras", true)
	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont("Helvetica", "", 7)
		pdf.CellFormat(0, 5, fmt.Sprintf("%d", pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	header := func() {
		pdf.SetFont("Helvetica", "B", 7)
		pdf.SetFillColor(230, 230, 230)
		for i, name := range bet.DisplayNames() {
			pdf.CellFormat(pdfWidths[i], 6, tr(name), "1", 0, "L", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Helvetica", "", 7)
	}
	pdf.SetHeaderFunc(header)
	pdf.AddPage()

	for _, b := range bets {
		for i, c := range bet.Columns {
			text := c.Value(b)
			if c.Field == "date_registered" || c.Field == "date_updated" {
				text = shortDate(b, c.Field)
			}
			pdf.CellFormat(pdfWidths[i], 5, tr(fit(pdf, text, pdfWidths[i]-2)), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}
	if err := pdf.Error(); err != nil {
		return err
	}
	return pdf.Output(w)
}

func shortDate(b bet.Bet, field string) string {
	t := b.DateRegistered
	if field == "date_updated" {
		t = b.DateUpdated
	}
	if t == nil {
		return ""
	}
	return t.UTC().Format("2006-01-02 15:04")
}

// fit truncates s with an ellipsis until it fits width.
func fit(pdf *gofpdf.Fpdf, s string, width float64) string {
	if pdf.GetStringWidth(s) <= width {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && pdf.GetStringWidth(string(r)+"...") > width {
		r = r[:len(r)-1]
	}
	return string(r) + "..."
}
