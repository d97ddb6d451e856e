package wizard

import (
	"fmt"

	"github.com/sroursolar/invoicegen/internal/domain/invoice"
)

// Machine tracks the wizard's current step and validates transitions against
// the draft being edited
type Machine interface {
	// Step returns the current step
	Step() Step

	// CanFire returns true if the trigger is permitted in the current step
	// for the given draft
	CanFire(trigger Trigger, draft *invoice.DraftSnapshot) bool

	// Fire attempts to execute the trigger, moving to the new step if allowed
	Fire(trigger Trigger, draft *invoice.DraftSnapshot) error

	// PermittedTriggers returns all triggers that can be fired in the current
	// step for the given draft
	PermittedTriggers(draft *invoice.DraftSnapshot) []Trigger
}

// GuardFunc evaluates whether a transition should be allowed for the draft
type GuardFunc func(draft *invoice.DraftSnapshot) bool

// transition represents a step transition with optional guard
type transition struct {
	toStep Step
	guard  GuardFunc
}

type machine struct {
	current     Step
	transitions map[Step]map[Trigger]transition
}

// New creates a wizard machine positioned at the first step.
//
// Advancing is guarded by the step's validity predicate; retreating is always
// allowed except at the first step and never re-validates, so a user can go
// back regardless of the current step's validity. Submit is only permitted
// from the terminal review step and leaves the machine there.
func New() Machine {
	return NewAt(First())
}

// NewAt creates a wizard machine positioned at the given step. It panics on
// an invalid step; callers restore positions that came from a valid machine.
func NewAt(initial Step) Machine {
	if !initial.IsValid() {
		panic("wizard: invalid initial step " + string(initial))
	}

	transitions := make(map[Step]map[Trigger]transition)
	for i, step := range stepOrder {
		t := make(map[Trigger]transition)
		if !step.IsTerminal() {
			t[TriggerAdvance] = transition{
				toStep: stepOrder[i+1],
				guard:  guardFor(step),
			}
		}
		if i > 0 {
			t[TriggerRetreat] = transition{toStep: stepOrder[i-1]}
		}
		if step.IsTerminal() {
			t[TriggerSubmit] = transition{toStep: step}
		}
		transitions[step] = t
	}

	return &machine{
		current:     initial,
		transitions: transitions,
	}
}

// guardFor returns the advancement guard for a step. The review step has no
// gating predicate.
func guardFor(step Step) GuardFunc {
	return func(draft *invoice.DraftSnapshot) bool {
		return StepValid(step, draft)
	}
}

// Step returns the current step
func (m *machine) Step() Step {
	return m.current
}

// CanFire returns true if the trigger is permitted in the current step
func (m *machine) CanFire(trigger Trigger, draft *invoice.DraftSnapshot) bool {
	t, ok := m.transitions[m.current][trigger]
	if !ok {
		return false
	}
	return t.guard == nil || t.guard(draft)
}

// Fire attempts to execute the trigger, moving to the new step if allowed
func (m *machine) Fire(trigger Trigger, draft *invoice.DraftSnapshot) error {
	t, ok := m.transitions[m.current][trigger]
	if !ok {
		return fmt.Errorf("%w: cannot fire %s from step %s", ErrInvalidTransition, trigger, m.current)
	}

	if t.guard != nil && !t.guard(draft) {
		return fmt.Errorf("%w: %s blocked at step %s", ErrGuardFailed, trigger, m.current)
	}

	m.current = t.toStep
	return nil
}

// PermittedTriggers returns all triggers that can be fired in the current step
func (m *machine) PermittedTriggers(draft *invoice.DraftSnapshot) []Trigger {
	permitted := make([]Trigger, 0, 3)
	for _, trigger := range []Trigger{TriggerAdvance, TriggerRetreat, TriggerSubmit} {
		if m.CanFire(trigger, draft) {
			permitted = append(permitted, trigger)
		}
	}
	return permitted
}
