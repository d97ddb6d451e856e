package wizard

// Trigger represents a user action that can move the wizard between steps
type Trigger string

const (
	TriggerAdvance Trigger = "ADVANCE"
	TriggerRetreat Trigger = "RETREAT"
	TriggerSubmit  Trigger = "SUBMIT"
)

// String returns the string representation of the trigger
func (t Trigger) String() string {
	return string(t)
}
