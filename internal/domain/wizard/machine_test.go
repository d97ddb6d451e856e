package wizard

import (
	"errors"
	"testing"

	"github.com/sroursolar/invoicegen/internal/domain/invoice"
)

func TestStep_Index(t *testing.T) {
	tests := []struct {
		step Step
		want int
	}{
		{StepCompanyInfo, 0},
		{StepCustomerInfo, 1},
		{StepInvoiceDetails, 2},
		{StepItems, 3},
		{StepReview, 4},
		{Step("UNKNOWN"), -1},
	}

	for _, tt := range tests {
		t.Run(string(tt.step), func(t *testing.T) {
			if got := tt.step.Index(); got != tt.want {
				t.Errorf("Step.Index() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestStep_IsTerminal(t *testing.T) {
	for _, step := range Steps() {
		if got := step.IsTerminal(); got != (step == StepReview) {
			t.Errorf("Step(%s).IsTerminal() = %v", step, got)
		}
	}
}

func TestMachine_AdvanceWithValidDraft(t *testing.T) {
	m := New()
	draft := validDraft()

	want := []Step{StepCompanyInfo, StepCustomerInfo, StepInvoiceDetails, StepItems, StepReview}
	for i, step := range want {
		if m.Step() != step {
			t.Fatalf("at position %d: step = %s, want %s", i, m.Step(), step)
		}
		if step.IsTerminal() {
			break
		}
		if err := m.Fire(TriggerAdvance, draft); err != nil {
			t.Fatalf("advance from %s: %v", step, err)
		}
	}
}

func TestMachine_AdvanceIncrementsByOne(t *testing.T) {
	m := New()
	draft := validDraft()

	if err := m.Fire(TriggerAdvance, draft); err != nil {
		t.Fatalf("advance: %v", err)
	}
	if m.Step() != StepCustomerInfo {
		t.Errorf("step = %s, want %s", m.Step(), StepCustomerInfo)
	}
}

func TestMachine_AdvanceBlockedByGuard(t *testing.T) {
	m := New()
	draft := validDraft()
	draft.Company.Email = ""

	err := m.Fire(TriggerAdvance, draft)
	if !errors.Is(err, ErrGuardFailed) {
		t.Fatalf("expected ErrGuardFailed, got %v", err)
	}
	if m.Step() != StepCompanyInfo {
		t.Errorf("step changed despite guard failure: %s", m.Step())
	}
}

func TestMachine_AdvanceRejectedAtItemsWithoutCompleteRow(t *testing.T) {
	m := NewAt(StepItems)
	draft := validDraft()
	draft.Items = []invoice.LineItem{{ID: "a", Description: "no numbers"}}

	err := m.Fire(TriggerAdvance, draft)
	if !errors.Is(err, ErrGuardFailed) {
		t.Fatalf("expected ErrGuardFailed, got %v", err)
	}
	if m.Step() != StepItems {
		t.Errorf("step changed: %s", m.Step())
	}
}

func TestMachine_AdvanceRejectedAtTerminalStep(t *testing.T) {
	m := NewAt(StepReview)

	err := m.Fire(TriggerAdvance, validDraft())
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestMachine_RetreatNeverRevalidates(t *testing.T) {
	m := NewAt(StepItems)

	// An entirely empty draft would fail every predicate; retreat must still work
	if err := m.Fire(TriggerRetreat, &invoice.DraftSnapshot{}); err != nil {
		t.Fatalf("retreat: %v", err)
	}
	if m.Step() != StepInvoiceDetails {
		t.Errorf("step = %s, want %s", m.Step(), StepInvoiceDetails)
	}
}

func TestMachine_RetreatRejectedAtFirstStep(t *testing.T) {
	m := New()

	err := m.Fire(TriggerRetreat, validDraft())
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestMachine_SubmitOnlyFromReview(t *testing.T) {
	draft := validDraft()

	for _, step := range Steps() {
		m := NewAt(step)
		err := m.Fire(TriggerSubmit, draft)
		if step.IsTerminal() {
			if err != nil {
				t.Errorf("submit from %s: %v", step, err)
			}
			continue
		}
		if !errors.Is(err, ErrInvalidTransition) {
			t.Errorf("submit from %s: expected ErrInvalidTransition, got %v", step, err)
		}
	}
}

func TestMachine_CanFire(t *testing.T) {
	draft := validDraft()
	incomplete := &invoice.DraftSnapshot{}

	tests := []struct {
		name    string
		step    Step
		trigger Trigger
		draft   *invoice.DraftSnapshot
		want    bool
	}{
		{"advance valid first step", StepCompanyInfo, TriggerAdvance, draft, true},
		{"advance invalid first step", StepCompanyInfo, TriggerAdvance, incomplete, false},
		{"retreat first step", StepCompanyInfo, TriggerRetreat, draft, false},
		{"retreat middle step", StepItems, TriggerRetreat, incomplete, true},
		{"submit mid-wizard", StepItems, TriggerSubmit, draft, false},
		{"submit at review", StepReview, TriggerSubmit, draft, true},
		{"advance at review", StepReview, TriggerAdvance, draft, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewAt(tt.step)
			if got := m.CanFire(tt.trigger, tt.draft); got != tt.want {
				t.Errorf("CanFire(%s) at %s = %v, want %v", tt.trigger, tt.step, got, tt.want)
			}
		})
	}
}

func TestMachine_PermittedTriggers(t *testing.T) {
	m := NewAt(StepReview)

	triggers := m.PermittedTriggers(validDraft())
	want := map[Trigger]bool{TriggerRetreat: true, TriggerSubmit: true}
	if len(triggers) != len(want) {
		t.Fatalf("PermittedTriggers() = %v", triggers)
	}
	for _, trigger := range triggers {
		if !want[trigger] {
			t.Errorf("unexpected trigger %s", trigger)
		}
	}
}
