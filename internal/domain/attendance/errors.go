package attendance

import (
	"errors"
	"fmt"
)

// Attendance domain errors
var (
	ErrIllegalClockAction = errors.New("clock action is not allowed right now")
	ErrUnknownClockAction = errors.New("unknown clock action")
	ErrStoreUnavailable   = errors.New("time log store unavailable")
)

// Rejection reasons surfaced to callers.
const (
	ReasonAMAlreadyStarted   = "AM session already started"
	ReasonAMAlreadyCompleted = "AM session already completed"
	ReasonAMNotOpen          = "AM session is not open"
	ReasonPMAlreadyStarted   = "PM session already started"
	ReasonPMAlreadyCompleted = "PM session already completed"
	ReasonPMNotOpen          = "PM session is not open"
	ReasonSessionLimit       = "daily session limit reached"
	ReasonSessionOpen        = "another session is still open"
	ReasonNoOpenSession      = "no open session to take a break from"
	ReasonAlreadyOnBreak     = "a break is already in progress"
	ReasonNotOnBreak         = "no break in progress"
	ReasonOnBreak            = "end the current break first"
)

// RejectionError is returned when a clock action is illegal in the current state.
type RejectionError struct {
	Action ClockAction
	Reason string
}

func (e *RejectionError) Error() string {
	return fmt.Sprintf("%s rejected: %s", e.Action, e.Reason)
}

func (e *RejectionError) Unwrap() error {
	return ErrIllegalClockAction
}

func reject(action ClockAction, reason string) error {
	return &RejectionError{Action: action, Reason: reason}
}
