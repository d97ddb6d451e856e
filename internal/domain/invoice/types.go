package invoice

import (
	"math/rand"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
)

// Currency is one of the two billing currencies supported by the generator.
type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
)

// IsValid returns true if the currency is a supported currency.
func (c Currency) IsValid() bool {
	return c == CurrencyUSD || c == CurrencyEUR
}

// Symbol returns the display symbol for the currency.
func (c Currency) Symbol() string {
	if c == CurrencyEUR {
		return "€"
	}
	return "$"
}

// String returns the string representation of the currency.
func (c Currency) String() string {
	return string(c)
}

// CompanyProfile holds the issuing company's details shown on the invoice
// letterhead. All fields are free text; only presence is checked when the
// wizard gates step advancement.
type CompanyProfile struct {
	Brand    string `json:"brand"`
	Addr1    string `json:"addr1"`
	Addr2    string `json:"addr2"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	TaxRegNo string `json:"tax_reg_no"`
	LogoPath string `json:"logo_path,omitempty"`
}

// Customer is the party the invoice is billed to.
type Customer struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// InvoiceMeta holds the invoice number and the user-editable date string.
// Two invoices may share a number; no uniqueness is enforced.
type InvoiceMeta struct {
	Number int    `json:"number"`
	Date   string `json:"date"`
}

// LineItem is one row of the invoice. Quantity and UnitPrice are nil until
// the user enters a value; nil is distinct from zero and serializes as JSON
// null so an untouched field survives the snapshot round-trip.
type LineItem struct {
	ID          string           `json:"id"`
	Description string           `json:"description"`
	Quantity    *decimal.Decimal `json:"quantity"`
	UnitPrice   *decimal.Decimal `json:"unit_price"`
	Note        string           `json:"note,omitempty"`
}

// HasQuantity returns true if the user has entered a quantity.
func (li LineItem) HasQuantity() bool {
	return li.Quantity != nil
}

// HasUnitPrice returns true if the user has entered a unit price.
func (li LineItem) HasUnitPrice() bool {
	return li.UnitPrice != nil
}

// NewLineItem creates an empty line item with a fresh locally-unique id and
// unset quantity and price.
func NewLineItem() LineItem {
	return LineItem{ID: ulid.Make().String()}
}

// CurrencySettings controls which currency amounts are shown in and whether
// secondary-to-primary conversion is applied. A zero Rate means the user has
// not entered one yet.
type CurrencySettings struct {
	Currency      Currency        `json:"currency"`
	UseConversion bool            `json:"use_conversion"`
	Rate          decimal.Decimal `json:"rate"`
}

// ConversionActive reports whether conversion actually applies to computed
// amounts: the flag must be on, the active currency must be the secondary
// unit, and the rate must be strictly positive. A rate of zero with the flag
// on falls back to unconverted prices so enabling the toggle before entering
// a rate never zeroes every amount.
func (cs CurrencySettings) ConversionActive() bool {
	return cs.UseConversion && cs.Currency == CurrencyEUR && cs.Rate.IsPositive()
}

// DraftSnapshot is the aggregate handed from the editing surface to the
// preview/export surface. It is the sole boundary contract between the two
// and must round-trip through JSON without loss.
type DraftSnapshot struct {
	Company  CompanyProfile   `json:"company"`
	Customer Customer         `json:"customer"`
	Meta     InvoiceMeta      `json:"meta"`
	Items    []LineItem       `json:"items"`
	Settings CurrencySettings `json:"settings"`
}

// RandomInvoiceNumber returns a number in [1000, 9999), matching the default
// the form seeds for a new draft.
func RandomInvoiceNumber() int {
	return 1000 + rand.Intn(8999)
}

// NewDraft creates a fresh draft pre-filled with the given company profile,
// a randomized invoice number, the given date string, and a single empty
// line item in USD with conversion off.
func NewDraft(company CompanyProfile, date string) *DraftSnapshot {
	return &DraftSnapshot{
		Company: company,
		Meta: InvoiceMeta{
			Number: RandomInvoiceNumber(),
			Date:   date,
		},
		Items: []LineItem{NewLineItem()},
		Settings: CurrencySettings{
			Currency: CurrencyUSD,
		},
	}
}
