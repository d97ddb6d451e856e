package wizard

import (
	"strings"

	"github.com/sroursolar/invoicegen/internal/domain/invoice"
)

// Validity predicates are pure functions over the draft. Missing fields are a
// soft gate: they block advancement, they are never surfaced as errors.

// StepValid reports whether the given step's gating predicate holds for the
// draft. The review step always validates; it is the terminal review surface.
func StepValid(step Step, draft *invoice.DraftSnapshot) bool {
	if draft == nil {
		return false
	}

	switch step {
	case StepCompanyInfo:
		return companyInfoValid(draft)
	case StepCustomerInfo:
		return customerInfoValid(draft)
	case StepInvoiceDetails:
		return invoiceDetailsValid(draft)
	case StepItems:
		return itemsValid(draft)
	case StepReview:
		return true
	default:
		return false
	}
}

func companyInfoValid(draft *invoice.DraftSnapshot) bool {
	c := draft.Company
	return present(c.Brand) && present(c.Addr1) && present(c.Phone) && present(c.Email)
}

func customerInfoValid(draft *invoice.DraftSnapshot) bool {
	return present(draft.Customer.Name) && present(draft.Customer.Phone)
}

func invoiceDetailsValid(draft *invoice.DraftSnapshot) bool {
	return draft.Meta.Number != 0 && present(draft.Meta.Date)
}

// itemsValid requires at least one fully filled row: a non-empty description
// plus a set quantity and a set price.
func itemsValid(draft *invoice.DraftSnapshot) bool {
	for _, item := range draft.Items {
		if present(item.Description) && item.HasQuantity() && item.HasUnitPrice() {
			return true
		}
	}
	return false
}

func present(s string) bool {
	return strings.TrimSpace(s) != ""
}
