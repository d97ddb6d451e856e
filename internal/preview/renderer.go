// Package preview turns a submitted snapshot into a renderable invoice
// model. It re-derives every amount through the same calculator the form
// used, so the two surfaces can never disagree on a total.
package preview

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/sroursolar/invoicegen/internal/application/port"
	"github.com/sroursolar/invoicegen/internal/domain/invoice"
	"github.com/sroursolar/invoicegen/pkg/utils"
)

// Unset quantities and prices render as a dash, matching the form's blank
// numeric inputs.
const unsetMark = "—"

// Row is one rendered line of the invoice table
type Row struct {
	Description string `json:"description"`
	Note        string `json:"note,omitempty"`
	Quantity    string `json:"quantity"`
	Price       string `json:"price"`
	Amount      string `json:"amount"`
}

// Model is the fully derived invoice document handed to the export stage
type Model struct {
	Company  invoice.CompanyProfile `json:"company"`
	Customer invoice.Customer       `json:"customer"`
	Meta     invoice.InvoiceMeta    `json:"meta"`
	Currency invoice.Currency       `json:"currency"`
	Rows     []Row                  `json:"rows"`
	Subtotal string                 `json:"subtotal"`
	Total    string                 `json:"total"`
	Footer   string                 `json:"footer"`
	Filename string                 `json:"filename"`
}

// Renderer reads the snapshot slot and builds preview models
type Renderer struct {
	store  port.SnapshotRepository
	logger *zap.Logger
}

// NewRenderer creates a preview renderer
func NewRenderer(store port.SnapshotRepository, logger *zap.Logger) *Renderer {
	return &Renderer{
		store:  store,
		logger: logger,
	}
}

// Render loads the current snapshot and derives the invoice model. When no
// snapshot has been submitted yet it renders the sample invoice, so the
// preview surface is never blank.
func (r *Renderer) Render(ctx context.Context) (*Model, error) {
	snapshot, err := r.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	if snapshot == nil {
		r.logger.Info("No snapshot in slot, rendering sample invoice")
		snapshot = SampleSnapshot()
	}
	return Build(snapshot), nil
}

// Snapshot returns the stored snapshot, or the sample when the slot is empty
func (r *Renderer) Snapshot(ctx context.Context) (*invoice.DraftSnapshot, error) {
	snapshot, err := r.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	if snapshot == nil {
		snapshot = SampleSnapshot()
	}
	return snapshot, nil
}

// Build derives the invoice model from a snapshot
func Build(snapshot *invoice.DraftSnapshot) *Model {
	settings := snapshot.Settings
	symbol := settings.Currency.Symbol()

	rows := make([]Row, 0, len(snapshot.Items))
	for _, item := range snapshot.Items {
		price := invoice.EffectivePrice(item, settings)

		row := Row{
			Description: item.Description,
			Note:        item.Note,
			Quantity:    unsetMark,
			Price:       unsetMark,
			Amount:      utils.FormatMoney(amountFor(item, settings), symbol),
		}
		if row.Description == "" {
			row.Description = unsetMark
		}
		if item.HasQuantity() {
			row.Quantity = item.Quantity.String()
		}
		if item.HasUnitPrice() {
			row.Price = utils.FormatMoney(price, symbol)
		}
		rows = append(rows, row)
	}

	total := invoice.GrandTotal(snapshot.Items, settings)
	formatted := utils.FormatMoney(total, symbol)

	return &Model{
		Company:  snapshot.Company,
		Customer: snapshot.Customer,
		Meta:     snapshot.Meta,
		Currency: settings.Currency,
		Rows:     rows,
		Subtotal: formatted,
		Total:    formatted,
		Footer: fmt.Sprintf("Thank you for choosing %s. We appreciate your business and look forward to serving you again.",
			snapshot.Company.Brand),
		Filename: fmt.Sprintf("invoice-%d.pdf", snapshot.Meta.Number),
	}
}

// amountFor is the row amount with conversion applied to the price
func amountFor(item invoice.LineItem, settings invoice.CurrencySettings) decimal.Decimal {
	qty := decimal.Zero
	if item.HasQuantity() {
		qty = *item.Quantity
	}
	return qty.Mul(invoice.EffectivePrice(item, settings))
}

// SampleSnapshot is the canned invoice shown before any draft has been
// submitted
func SampleSnapshot() *invoice.DraftSnapshot {
	qty := decimal.NewFromInt(1)
	price := decimal.NewFromInt(100)

	return &invoice.DraftSnapshot{
		Company: invoice.CompanyProfile{
			Brand:    "Srour Solar Power",
			Addr1:    "Bazourieh",
			Addr2:    "Main street",
			Phone:    "+961 78 863 012",
			Email:    "sroursolarpower@gmail.com",
			TaxRegNo: "5001963",
			LogoPath: "/logo.png",
		},
		Customer: invoice.Customer{Name: "Customer"},
		Meta: invoice.InvoiceMeta{
			Number: 1001,
			Date:   time.Now().Format("Jan 2, 2006"),
		},
		Items: []invoice.LineItem{
			{
				ID:          "sample-item",
				Description: "Sample item",
				Quantity:    &qty,
				UnitPrice:   &price,
			},
		},
		Settings: invoice.CurrencySettings{Currency: invoice.CurrencyUSD},
	}
}
