// Package session implements the form editing session: a single owned draft
// plus the wizard machine that gates which step is active. All mutation is
// synchronous; invalid input is absorbed as an unset field and only blocks
// step advancement, it is never surfaced as an error.
package session

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/sroursolar/invoicegen/internal/application/port"
	"github.com/sroursolar/invoicegen/internal/domain/invoice"
	"github.com/sroursolar/invoicegen/internal/domain/wizard"
)

// DateFormat is the display format the "today" shortcut writes into the
// draft, e.g. "Aug 31, 2026". The date stays free text; users may overtype it.
const DateFormat = "Jan 2, 2006"

// ItemField names a mutable field of a line item
type ItemField string

const (
	FieldDescription ItemField = "description"
	FieldNote        ItemField = "note"
	FieldQuantity    ItemField = "quantity"
	FieldPrice       ItemField = "price"
)

// Session owns one draft invoice and its wizard position. The mutex only
// serializes concurrent HTTP handlers; the domain itself is single-threaded
// and event-driven.
type Session struct {
	ID string

	mu      sync.Mutex
	draft   *invoice.DraftSnapshot
	machine wizard.Machine

	store   port.SnapshotRepository
	exports port.ExportQueue
	logger  *zap.Logger
}

func newSession(id string, draft *invoice.DraftSnapshot, store port.SnapshotRepository, exports port.ExportQueue, logger *zap.Logger) *Session {
	return &Session{
		ID:      id,
		draft:   draft,
		machine: wizard.New(),
		store:   store,
		exports: exports,
		logger:  logger,
	}
}

// CompanyPatch carries field-level company edits. Nil fields are left
// untouched so editing one field never discards its siblings.
type CompanyPatch struct {
	Brand    *string `json:"brand"`
	Addr1    *string `json:"addr1"`
	Addr2    *string `json:"addr2"`
	Phone    *string `json:"phone"`
	Email    *string `json:"email"`
	TaxRegNo *string `json:"tax_reg_no"`
	LogoPath *string `json:"logo_path"`
}

// CustomerPatch carries field-level customer edits
type CustomerPatch struct {
	Name  *string `json:"name"`
	Phone *string `json:"phone"`
}

// DetailsPatch carries invoice metadata and currency edits. Today, when set,
// overwrites the date with the current date in DateFormat. Rate is free text
// and coerces to zero (unset) when it does not parse.
type DetailsPatch struct {
	Number        *int    `json:"number"`
	Date          *string `json:"date"`
	Today         bool    `json:"today"`
	Currency      *string `json:"currency"`
	UseConversion *bool   `json:"use_conversion"`
	Rate          *string `json:"rate"`
}

// UpdateCompany applies the patch to the draft's company profile
func (s *Session) UpdateCompany(patch CompanyPatch) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := &s.draft.Company
	applyString(&c.Brand, patch.Brand)
	applyString(&c.Addr1, patch.Addr1)
	applyString(&c.Addr2, patch.Addr2)
	applyString(&c.Phone, patch.Phone)
	applyString(&c.Email, patch.Email)
	applyString(&c.TaxRegNo, patch.TaxRegNo)
	applyString(&c.LogoPath, patch.LogoPath)
}

// UpdateCustomer applies the patch to the draft's customer
func (s *Session) UpdateCustomer(patch CustomerPatch) {
	s.mu.Lock()
	defer s.mu.Unlock()

	applyString(&s.draft.Customer.Name, patch.Name)
	applyString(&s.draft.Customer.Phone, patch.Phone)
}

// UpdateDetails applies the patch to the draft's metadata and currency
// settings. Unknown currencies are ignored rather than rejected.
func (s *Session) UpdateDetails(patch DetailsPatch) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if patch.Number != nil {
		s.draft.Meta.Number = *patch.Number
	}
	if patch.Today {
		s.draft.Meta.Date = time.Now().Format(DateFormat)
	} else if patch.Date != nil {
		s.draft.Meta.Date = *patch.Date
	}
	if patch.Currency != nil {
		if cur := invoice.Currency(*patch.Currency); cur.IsValid() {
			s.draft.Settings.Currency = cur
		}
	}
	if patch.UseConversion != nil {
		s.draft.Settings.UseConversion = *patch.UseConversion
	}
	if patch.Rate != nil {
		if rate := coerceNumeric(*patch.Rate); rate != nil {
			s.draft.Settings.Rate = *rate
		} else {
			s.draft.Settings.Rate = decimal.Zero
		}
	}
}

// AddItem appends an empty line item with a fresh id and returns it
func (s *Session) AddItem() invoice.LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	item := invoice.NewLineItem()
	s.draft.Items = append(s.draft.Items, item)
	return item
}

// RemoveItem removes the item with the given id. Removal is by id, never by
// position; an absent id is a no-op.
func (s *Session) RemoveItem(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.draft.Items[:0]
	for _, item := range s.draft.Items {
		if item.ID != id {
			items = append(items, item)
		}
	}
	s.draft.Items = items
}

// UpdateItem sets one field of the item with the given id, leaving every
// other field and every other item untouched. Numeric fields coerce through
// decimal parsing; text that does not parse becomes unset. An absent id is a
// no-op.
func (s *Session) UpdateItem(id string, field ItemField, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.draft.Items {
		if s.draft.Items[i].ID != id {
			continue
		}
		switch field {
		case FieldDescription:
			s.draft.Items[i].Description = value
		case FieldNote:
			s.draft.Items[i].Note = value
		case FieldQuantity:
			s.draft.Items[i].Quantity = coerceNumeric(value)
		case FieldPrice:
			s.draft.Items[i].UnitPrice = coerceNumeric(value)
		default:
			return fmt.Errorf("unknown item field: %s", field)
		}
		return nil
	}
	return nil
}

// Step returns the wizard's current step
func (s *Session) Step() wizard.Step {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.machine.Step()
}

// StepValid reports whether the current step's gating predicate holds
func (s *Session) StepValid() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return wizard.StepValid(s.machine.Step(), s.draft)
}

// PermittedTriggers returns the wizard triggers currently allowed
func (s *Session) PermittedTriggers() []wizard.Trigger {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.machine.PermittedTriggers(s.draft)
}

// Advance moves to the next step if the current step validates
func (s *Session) Advance() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.machine.Fire(wizard.TriggerAdvance, s.draft)
}

// Retreat moves to the previous step. It never re-validates.
func (s *Session) Retreat() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.machine.Fire(wizard.TriggerRetreat, s.draft)
}

// Submit freezes the draft into a snapshot, overwrites the shared slot, and
// hands the snapshot to the export queue. Only permitted from the review step.
func (s *Session) Submit(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.machine.Fire(wizard.TriggerSubmit, s.draft); err != nil {
		return err
	}

	snapshot := cloneSnapshot(s.draft)
	if err := s.store.Save(ctx, snapshot); err != nil {
		return fmt.Errorf("failed to store snapshot: %w", err)
	}

	if s.exports != nil {
		s.exports.Enqueue(snapshot)
	}

	s.logger.Info("Draft submitted",
		zap.String("session_id", s.ID),
		zap.Int("invoice_number", snapshot.Meta.Number),
		zap.Int("items", len(snapshot.Items)))
	return nil
}

// Snapshot returns a copy of the current draft. Callers never observe later
// edits through it.
func (s *Session) Snapshot() *invoice.DraftSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneSnapshot(s.draft)
}

// GrandTotal recomputes the draft's total with the current currency settings
func (s *Session) GrandTotal() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return invoice.GrandTotal(s.draft.Items, s.draft.Settings)
}

func applyString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

// coerceNumeric parses user text into an optional decimal. Blank or
// unparseable input yields nil, the unset marker.
func coerceNumeric(value string) *decimal.Decimal {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	d, err := decimal.NewFromString(trimmed)
	if err != nil {
		return nil
	}
	return &d
}

// cloneSnapshot deep-copies a draft so the snapshot is stable once taken
func cloneSnapshot(draft *invoice.DraftSnapshot) *invoice.DraftSnapshot {
	clone := *draft
	clone.Items = make([]invoice.LineItem, len(draft.Items))
	for i, item := range draft.Items {
		copied := item
		if item.Quantity != nil {
			q := *item.Quantity
			copied.Quantity = &q
		}
		if item.UnitPrice != nil {
			p := *item.UnitPrice
			copied.UnitPrice = &p
		}
		clone.Items[i] = copied
	}
	return &clone
}
