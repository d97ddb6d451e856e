package wizard

import "errors"

var (
	// ErrInvalidTransition is returned when a trigger is not permitted in the current step
	ErrInvalidTransition = errors.New("invalid wizard transition")

	// ErrInvalidStep is returned when a step is not a valid wizard step
	ErrInvalidStep = errors.New("invalid wizard step")

	// ErrGuardFailed is returned when the current step's validity predicate rejects advancement
	ErrGuardFailed = errors.New("step validation failed")
)
