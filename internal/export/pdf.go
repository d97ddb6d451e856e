package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"github.com/sroursolar/invoicegen/internal/preview"
)

// PDF layout constants, A4 portrait in millimeters.
const (
	pageMargin  = 15.0
	tableDescW  = 90.0
	tableQtyW   = 25.0
	tablePriceW = 30.0
	tableAmtW   = 35.0
	rowHeight   = 8.0
)

// RenderPDF lays the invoice model out as an A4 PDF document and returns the
// encoded bytes.
func RenderPDF(model *preview.Model) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	// Core fonts are cp1252; the translator keeps the euro sign and the
	// unset-field dash intact
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.AddPage()

	// Letterhead
	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(0, 10, tr(model.Company.Brand), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(90, 90, 90)
	for _, line := range letterheadLines(model) {
		pdf.CellFormat(0, 5, tr(line), "", 1, "L", false, 0, "")
	}
	pdf.Ln(6)

	// Bill to / bill info
	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(95, 5, "BILL TO", "", 0, "L", false, 0, "")
	pdf.CellFormat(85, 5, "BILL INFO", "", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(95, 5, tr(model.Customer.Name), "", 0, "L", false, 0, "")
	pdf.CellFormat(85, 5, fmt.Sprintf("Invoice # %d", model.Meta.Number), "", 1, "R", false, 0, "")
	pdf.CellFormat(95, 5, tr(model.Customer.Phone), "", 0, "L", false, 0, "")
	pdf.CellFormat(85, 5, tr(fmt.Sprintf("Date %s", model.Meta.Date)), "", 1, "R", false, 0, "")
	pdf.Ln(6)

	// Items table
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(245, 245, 245)
	pdf.CellFormat(tableDescW, rowHeight, "Item", "1", 0, "L", true, 0, "")
	pdf.CellFormat(tableQtyW, rowHeight, "Quantity", "1", 0, "C", true, 0, "")
	pdf.CellFormat(tablePriceW, rowHeight, "Price", "1", 0, "C", true, 0, "")
	pdf.CellFormat(tableAmtW, rowHeight, "Amount", "1", 1, "R", true, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	for _, row := range model.Rows {
		desc := row.Description
		if row.Note != "" {
			desc = fmt.Sprintf("%s (%s)", desc, row.Note)
		}
		pdf.CellFormat(tableDescW, rowHeight, tr(desc), "1", 0, "L", false, 0, "")
		pdf.CellFormat(tableQtyW, rowHeight, tr(row.Quantity), "1", 0, "C", false, 0, "")
		pdf.CellFormat(tablePriceW, rowHeight, tr(row.Price), "1", 0, "C", false, 0, "")
		pdf.CellFormat(tableAmtW, rowHeight, tr(row.Amount), "1", 1, "R", false, 0, "")
	}
	pdf.Ln(4)

	// Summary
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(tableDescW+tableQtyW, rowHeight, "", "", 0, "L", false, 0, "")
	pdf.CellFormat(tablePriceW, rowHeight, "Subtotal", "", 0, "L", false, 0, "")
	pdf.CellFormat(tableAmtW, rowHeight, tr(model.Subtotal), "", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(tableDescW+tableQtyW, rowHeight, "", "", 0, "L", false, 0, "")
	pdf.CellFormat(tablePriceW, rowHeight, "Total", "T", 0, "L", false, 0, "")
	pdf.CellFormat(tableAmtW, rowHeight, tr(model.Total), "T", 1, "R", false, 0, "")
	pdf.Ln(8)

	// Footer
	pdf.SetFont("Helvetica", "I", 9)
	pdf.SetTextColor(120, 120, 120)
	pdf.MultiCell(0, 5, tr(model.Footer), "", "L", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func letterheadLines(model *preview.Model) []string {
	lines := make([]string, 0, 4)
	if model.Company.Addr1 != "" || model.Company.Addr2 != "" {
		addr := model.Company.Addr1
		if model.Company.Addr2 != "" {
			if addr != "" {
				addr += ", "
			}
			addr += model.Company.Addr2
		}
		lines = append(lines, addr)
	}
	if model.Company.Phone != "" {
		lines = append(lines, model.Company.Phone)
	}
	if model.Company.Email != "" {
		lines = append(lines, model.Company.Email)
	}
	if model.Company.TaxRegNo != "" {
		lines = append(lines, fmt.Sprintf("Tax Reg. No. %s", model.Company.TaxRegNo))
	}
	return lines
}
