package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/sroursolar/invoicegen/internal/preview"
)

// RenderXLSX writes the invoice model into a single-sheet workbook mirroring
// the PDF layout, for users who post-process invoices in a spreadsheet.
func RenderXLSX(model *preview.Model) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)

	setCell := func(cell string, value interface{}) error {
		return f.SetCellValue(sheet, cell, value)
	}

	cells := []struct {
		cell  string
		value interface{}
	}{
		{"A1", model.Company.Brand},
		{"A2", model.Company.Addr1},
		{"A3", model.Company.Addr2},
		{"A4", model.Company.Phone},
		{"A5", model.Company.Email},
		{"A6", fmt.Sprintf("Tax Reg. No. %s", model.Company.TaxRegNo)},
		{"A8", "BILL TO"},
		{"A9", model.Customer.Name},
		{"A10", model.Customer.Phone},
		{"D8", "Invoice #"},
		{"E8", model.Meta.Number},
		{"D9", "Date"},
		{"E9", model.Meta.Date},
		{"D10", "Currency"},
		{"E10", model.Currency.String()},
	}
	for _, c := range cells {
		if err := setCell(c.cell, c.value); err != nil {
			return nil, fmt.Errorf("failed to fill cell %s: %w", c.cell, err)
		}
	}

	// Items table header
	headerRow := 12
	headers := []string{"Item", "Note", "Quantity", "Price", "Amount"}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, headerRow)
		if err != nil {
			return nil, fmt.Errorf("failed to address header cell: %w", err)
		}
		if err := setCell(cell, h); err != nil {
			return nil, fmt.Errorf("failed to fill header: %w", err)
		}
	}

	row := headerRow + 1
	for _, r := range model.Rows {
		values := []interface{}{r.Description, r.Note, r.Quantity, r.Price, r.Amount}
		for i, v := range values {
			cell, err := excelize.CoordinatesToCellName(i+1, row)
			if err != nil {
				return nil, fmt.Errorf("failed to address item cell: %w", err)
			}
			if err := setCell(cell, v); err != nil {
				return nil, fmt.Errorf("failed to fill item row: %w", err)
			}
		}
		row++
	}

	row++
	if err := setCell(fmt.Sprintf("D%d", row), "Subtotal"); err != nil {
		return nil, fmt.Errorf("failed to fill subtotal label: %w", err)
	}
	if err := setCell(fmt.Sprintf("E%d", row), model.Subtotal); err != nil {
		return nil, fmt.Errorf("failed to fill subtotal: %w", err)
	}
	row++
	if err := setCell(fmt.Sprintf("D%d", row), "Total"); err != nil {
		return nil, fmt.Errorf("failed to fill total label: %w", err)
	}
	if err := setCell(fmt.Sprintf("E%d", row), model.Total); err != nil {
		return nil, fmt.Errorf("failed to fill total: %w", err)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
