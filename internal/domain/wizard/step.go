package wizard

// Step represents one step of the invoice form wizard
type Step string

const (
	StepCompanyInfo    Step = "COMPANY_INFO"
	StepCustomerInfo   Step = "CUSTOMER_INFO"
	StepInvoiceDetails Step = "INVOICE_DETAILS"
	StepItems          Step = "ITEMS"
	StepReview         Step = "REVIEW"
)

// stepOrder is the linear progression of the wizard. There are no branching
// paths; Advance and Retreat move along this sequence.
var stepOrder = []Step{
	StepCompanyInfo,
	StepCustomerInfo,
	StepInvoiceDetails,
	StepItems,
	StepReview,
}

var validSteps = map[Step]bool{
	StepCompanyInfo:    true,
	StepCustomerInfo:   true,
	StepInvoiceDetails: true,
	StepItems:          true,
	StepReview:         true,
}

// First returns the initial step of the wizard
func First() Step {
	return stepOrder[0]
}

// Steps returns the ordered step sequence
func Steps() []Step {
	return append([]Step{}, stepOrder...)
}

// Index returns the zero-based position of the step in the wizard, or -1 if
// the step is not a valid wizard step
func (s Step) Index() int {
	for i, step := range stepOrder {
		if step == s {
			return i
		}
	}
	return -1
}

// IsTerminal returns true if the step is the terminal review step
func (s Step) IsTerminal() bool {
	return s == StepReview
}

// IsValid returns true if the step is a valid wizard step
func (s Step) IsValid() bool {
	return validSteps[s]
}

// String returns the string representation of the step
func (s Step) String() string {
	return string(s)
}
