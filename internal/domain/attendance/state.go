package attendance

type ClockAction string

const (
	ActionClockInAM  ClockAction = "clock_in_am"
	ActionClockOutAM ClockAction = "clock_out_am"
	ActionClockInPM  ClockAction = "clock_in_pm"
	ActionClockOutPM ClockAction = "clock_out_pm"
	ActionBreakStart ClockAction = "break_start"
	ActionBreakEnd   ClockAction = "break_end"
)

func (a ClockAction) Valid() bool {
	switch a {
	case ActionClockInAM, ActionClockOutAM, ActionClockInPM, ActionClockOutPM, ActionBreakStart, ActionBreakEnd:
		return true
	}
	return false
}

// Event returns the event type and session tag that the action appends.
func (a ClockAction) Event() (EventType, *SessionTag) {
	am, pm := SessionAM, SessionPM
	switch a {
	case ActionClockInAM:
		return EventClockIn, &am
	case ActionClockOutAM:
		return EventClockOut, &am
	case ActionClockInPM:
		return EventClockIn, &pm
	case ActionClockOutPM:
		return EventClockOut, &pm
	case ActionBreakStart:
		return EventBreakStart, nil
	default:
		return EventBreakEnd, nil
	}
}

// Transition applies action to s. It is pure: the caller derives s from the
// event log and discards the result once the event has been appended.
func (s ClockState) Transition(action ClockAction) (ClockState, error) {
	next := s
	switch action {
	case ActionClockInAM:
		if s.AM != SlotNotStarted {
			return s, reject(action, alreadyReason(s.AM, ReasonAMAlreadyStarted, ReasonAMAlreadyCompleted))
		}
		if s.sessionLimitReached() {
			return s, reject(action, ReasonSessionLimit)
		}
		if s.PM == SlotOpen {
			return s, reject(action, ReasonSessionOpen)
		}
		next.AM = SlotOpen
		next.Sessions++
	case ActionClockOutAM:
		if s.AM != SlotOpen {
			return s, reject(action, notOpenReason(s.AM, ReasonAMNotOpen, ReasonAMAlreadyCompleted))
		}
		if s.OnBreak {
			return s, reject(action, ReasonOnBreak)
		}
		next.AM = SlotCompleted
	case ActionClockInPM:
		if s.PM != SlotNotStarted {
			return s, reject(action, alreadyReason(s.PM, ReasonPMAlreadyStarted, ReasonPMAlreadyCompleted))
		}
		if s.sessionLimitReached() {
			return s, reject(action, ReasonSessionLimit)
		}
		if s.AM == SlotOpen {
			if s.OnBreak {
				return s, reject(action, ReasonOnBreak)
			}
			next.AM = SlotCompleted
		}
		next.PM = SlotOpen
		next.Sessions++
	case ActionClockOutPM:
		if s.PM != SlotOpen {
			return s, reject(action, notOpenReason(s.PM, ReasonPMNotOpen, ReasonPMAlreadyCompleted))
		}
		if s.OnBreak {
			return s, reject(action, ReasonOnBreak)
		}
		next.PM = SlotCompleted
	case ActionBreakStart:
		if s.AM != SlotOpen && s.PM != SlotOpen {
			return s, reject(action, ReasonNoOpenSession)
		}
		if s.OnBreak {
			return s, reject(action, ReasonAlreadyOnBreak)
		}
		next.OnBreak = true
	case ActionBreakEnd:
		if !s.OnBreak {
			return s, reject(action, ReasonNotOnBreak)
		}
		next.OnBreak = false
	default:
		return s, ErrUnknownClockAction
	}
	return next, nil
}

// Flags reports which actions are legal from s.
func (s ClockState) Flags() SessionFlags {
	legal := func(a ClockAction) bool {
		_, err := s.Transition(a)
		return err == nil
	}
	amDone := s.AM == SlotCompleted
	pmDone := s.PM == SlotCompleted
	return SessionFlags{
		CanClockInAM:         legal(ActionClockInAM),
		CanClockOutAM:        legal(ActionClockOutAM),
		CanClockInPM:         legal(ActionClockInPM),
		CanClockOutPM:        legal(ActionClockOutPM),
		CanStartBreak:        legal(ActionBreakStart),
		CanEndBreak:          legal(ActionBreakEnd),
		AMSessionCompleted:   amDone,
		PMSessionCompleted:   pmDone,
		AllSessionsCompleted: amDone && pmDone,
	}
}

func (s ClockState) sessionLimitReached() bool {
	return s.MaxSessions > 0 && s.Sessions >= s.MaxSessions
}

func alreadyReason(state SlotState, started, completed string) string {
	if state == SlotCompleted {
		return completed
	}
	return started
}

func notOpenReason(state SlotState, notOpen, completed string) string {
	if state == SlotCompleted {
		return completed
	}
	return notOpen
}
