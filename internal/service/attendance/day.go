package attendance

import (
	"time"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/attendance"
)

// DayCalculator computes a DayAttendanceRecord from one day's events. It holds
// no state between calls; the same inputs always give the same record.
type DayCalculator struct {
	policy     attendance.Policy
	classifier *Classifier
	hours      HoursAggregator
}

func NewDayCalculator(policy attendance.Policy, classifier *Classifier) *DayCalculator {
	if classifier == nil {
		classifier = DefaultClassifier()
	}
	return &DayCalculator{
		policy:     policy,
		classifier: classifier,
		hours:      NewHoursAggregator(policy),
	}
}

// Compute builds the record of the calendar day containing day, as seen at asOf.
// Ongoing sessions on the live day run until asOf; on a past day they run
// until the day's end in loc.
func (c *DayCalculator) Compute(employeeID string, day time.Time, events []attendance.TimeLogEvent, asOf time.Time, loc *time.Location) attendance.DayAttendanceRecord {
	dr := DayRange(day, loc)
	live := dr.Contains(asOf)

	cutoff := asOf
	if cutoff.After(dr.To) {
		cutoff = dr.To
	}
	if cutoff.Before(dr.From) {
		cutoff = dr.From
	}

	sessions, segments := c.classifier.Classify(PairSessions(events), loc)

	breaks := make([]SessionBreaks, len(sessions))
	for i, s := range sessions {
		breaks[i] = FindBreaks(s, events, cutoff)
	}
	for i := range segments {
		idx := segments[i].Session
		segments[i].Worked = c.hours.SegmentWorked(segments[i], sessions[idx], breaks[idx], cutoff)
	}

	total := c.hours.TotalHours(sessions, breaks, cutoff)
	utHours, utMinutes := c.hours.Undertime(total)

	rec := attendance.DayAttendanceRecord{
		EmployeeID:       employeeID,
		Date:             dr.From,
		TotalHours:       total,
		Status:           c.hours.Status(total),
		UndertimeHours:   utHours,
		UndertimeMinutes: utMinutes,
		Sessions:         sessions,
		Segments:         segments,
		Live:             live,
	}

	fillColumns(&rec, segments)

	for i, s := range sessions {
		if !s.IsOpen() {
			continue
		}
		rec.HasOpenSession = true
		if breaks[i].OpenSince != nil {
			rec.OnBreakSince = breaks[i].OpenSince
		}
	}

	rec.State = c.deriveState(sessions, segments, rec.OnBreakSince != nil)
	rec.Flags = rec.State.Flags()
	if !live {
		// Only today accepts clock actions.
		rec.Flags.CanClockInAM = false
		rec.Flags.CanClockOutAM = false
		rec.Flags.CanClockInPM = false
		rec.Flags.CanClockOutPM = false
		rec.Flags.CanStartBreak = false
		rec.Flags.CanEndBreak = false
	}
	return rec
}

// deriveState recomputes the AM/PM slot states from the classified sessions.
func (c *DayCalculator) deriveState(sessions []attendance.WorkSession, segments []attendance.SessionSegment, onBreak bool) attendance.ClockState {
	state := attendance.ClockState{
		AM:          attendance.SlotNotStarted,
		PM:          attendance.SlotNotStarted,
		OnBreak:     onBreak,
		Sessions:    len(sessions),
		MaxSessions: c.policy.MaxSessionsPerDay,
	}
	for _, seg := range segments {
		var slot *attendance.SlotState
		switch seg.Label {
		case attendance.LabelAM:
			slot = &state.AM
		case attendance.LabelPM:
			slot = &state.PM
		default:
			continue
		}
		if seg.End == nil {
			*slot = attendance.SlotOpen
		} else if *slot != attendance.SlotOpen {
			*slot = attendance.SlotCompleted
		}
	}
	return state
}

// fillColumns sets the four DTR columns. Arrival is the earliest segment start
// of the half; departure is the end of its latest segment, nil while open.
func fillColumns(rec *attendance.DayAttendanceRecord, segments []attendance.SessionSegment) {
	var amFirst, amLast, pmFirst, pmLast *attendance.SessionSegment
	for i := range segments {
		seg := &segments[i]
		switch seg.Label {
		case attendance.LabelAM:
			if amFirst == nil || seg.Start.Before(amFirst.Start) {
				amFirst = seg
			}
			if amLast == nil || !seg.Start.Before(amLast.Start) {
				amLast = seg
			}
		case attendance.LabelPM:
			if pmFirst == nil || seg.Start.Before(pmFirst.Start) {
				pmFirst = seg
			}
			if pmLast == nil || !seg.Start.Before(pmLast.Start) {
				pmLast = seg
			}
		}
	}
	if amFirst != nil {
		rec.AMArrival = timePtr(amFirst.Start)
		rec.AMDeparture = copyTimePtr(amLast.End)
	}
	if pmFirst != nil {
		rec.PMArrival = timePtr(pmFirst.Start)
		rec.PMDeparture = copyTimePtr(pmLast.End)
	}
}

func timePtr(t time.Time) *time.Time {
	return &t
}

func copyTimePtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	return timePtr(*t)
}
