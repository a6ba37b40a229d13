package attendance

import (
	"time"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/attendance"
)

// SessionBreaks holds the breaks attributed to one work session.
type SessionBreaks struct {
	Closed    []attendance.BreakInterval
	OpenSince *time.Time
}

// Durations returns the closed break lengths to subtract from the session span.
func (b SessionBreaks) Durations() []time.Duration {
	out := make([]time.Duration, 0, len(b.Closed))
	for _, iv := range b.Closed {
		out = append(out, iv.Duration())
	}
	return out
}

// FindBreaks collects the breaks falling inside session, whose window ends at
// asOf while it is ongoing. Only break events inside [start, end] are seen, so
// every closed interval lies fully within the session. A break left open at
// the boundary is reported in OpenSince and never counted as closed.
func FindBreaks(session attendance.WorkSession, events []attendance.TimeLogEvent, asOf time.Time) SessionBreaks {
	start := session.Start
	end := session.EndOr(asOf)

	var out SessionBreaks
	var openAt *time.Time

	for _, ev := range sortEvents(events) {
		if ev.Type != attendance.EventBreakStart && ev.Type != attendance.EventBreakEnd {
			continue
		}
		if ev.Timestamp.Before(start) || ev.Timestamp.After(end) {
			continue
		}
		switch ev.Type {
		case attendance.EventBreakStart:
			if openAt == nil {
				ts := ev.Timestamp
				openAt = &ts
			}
		case attendance.EventBreakEnd:
			if openAt != nil {
				out.Closed = append(out.Closed, attendance.BreakInterval{Start: *openAt, End: ev.Timestamp})
				openAt = nil
			}
		}
	}

	out.OpenSince = openAt
	return out
}
