package attendance

import (
	"sort"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/attendance"
)

// sortEvents returns a copy of events ordered by timestamp. Ties keep store order.
func sortEvents(events []attendance.TimeLogEvent) []attendance.TimeLogEvent {
	sorted := make([]attendance.TimeLogEvent, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Timestamp.Equal(sorted[j].Timestamp) {
			return sorted[i].Seq < sorted[j].Seq
		}
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})
	return sorted
}

// PairSessions turns one day's clock events into ordered work sessions.
// A clock-in while a session is open is ignored (first writer wins) and a
// clock-out with nothing open is dropped. A session still open at the end of
// the scan is returned with a nil End.
func PairSessions(events []attendance.TimeLogEvent) []attendance.WorkSession {
	var sessions []attendance.WorkSession
	var open *attendance.WorkSession

	for _, ev := range sortEvents(events) {
		switch ev.Type {
		case attendance.EventClockIn:
			if open != nil {
				continue
			}
			open = &attendance.WorkSession{
				Start:    ev.Timestamp,
				StartTag: ev.Session,
				Label:    attendance.LabelUnknown,
			}
		case attendance.EventClockOut:
			if open == nil {
				continue
			}
			end := ev.Timestamp
			open.End = &end
			open.EndTag = ev.Session
			sessions = append(sessions, *open)
			open = nil
		}
	}

	if open != nil {
		sessions = append(sessions, *open)
	}
	return sessions
}
