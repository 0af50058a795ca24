// Package sticker renders shipment label PDFs for batches of orders.
package sticker

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
)

// Label is the data printed on one sticker.
type Label struct {
	OrderNumber int
	Title       string
	PlaceNumber int
	OptID       string
	Container   string
}

// Generate renders one A6 landscape page per label and returns the PDF
// bytes.
func Generate(labels []Label) ([]byte, error) {
	if len(labels) == 0 {
		return nil, fmt.Errorf("no labels to render")
	}

	pdf := fpdf.New("L", "mm", "A6", "")
	pdf.SetMargins(8, 8, 8)

	for _, label := range labels {
		pdf.AddPage()

		pdf.SetFont("Helvetica", "B", 28)
		pdf.CellFormat(0, 14, fmt.Sprintf("# %d", label.OrderNumber), "", 1, "L", false, 0, "")

		pdf.SetFont("Helvetica", "", 12)
		pdf.MultiCell(0, 6, label.Title, "", "L", false)
		pdf.Ln(2)

		pdf.SetFont("Helvetica", "B", 14)
		pdf.CellFormat(0, 8, fmt.Sprintf("Place: %d", label.PlaceNumber), "", 1, "L", false, 0, "")

		if label.OptID != "" {
			pdf.SetFont("Helvetica", "", 12)
			pdf.CellFormat(0, 6, "OPT: "+label.OptID, "", 1, "L", false, 0, "")
		}
		if label.Container != "" {
			pdf.SetFont("Helvetica", "", 12)
			pdf.CellFormat(0, 6, "Container: "+label.Container, "", 1, "L", false, 0, "")
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render sticker pdf: %w", err)
	}
	return buf.Bytes(), nil
}
