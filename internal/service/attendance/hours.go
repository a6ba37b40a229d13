package attendance

import (
	"math"
	"time"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/attendance"
)

// HoursAggregator turns a day's sessions and breaks into worked hours and a status.
type HoursAggregator struct {
	policy attendance.Policy
}

func NewHoursAggregator(policy attendance.Policy) HoursAggregator {
	return HoursAggregator{policy: policy}
}

// SessionWorked is the break-adjusted time of one session, never negative.
// An ongoing session runs until asOf.
func (a HoursAggregator) SessionWorked(s attendance.WorkSession, b SessionBreaks, asOf time.Time) time.Duration {
	end := s.EndOr(asOf)
	worked := end.Sub(s.Start)
	for _, d := range b.Durations() {
		worked -= d
	}
	if a.policy.PauseOnOpenBreak && s.IsOpen() && b.OpenSince != nil && asOf.After(*b.OpenSince) {
		worked -= asOf.Sub(*b.OpenSince)
	}
	if worked < 0 {
		return 0
	}
	return worked
}

// SegmentWorked is the break-adjusted time inside one display segment of s.
// Breaks count against the leg they overlap, so the legs of a split session
// add up to SessionWorked.
func (a HoursAggregator) SegmentWorked(seg attendance.SessionSegment, s attendance.WorkSession, b SessionBreaks, asOf time.Time) time.Duration {
	from := seg.Start
	to := asOf
	if seg.End != nil {
		to = *seg.End
	}
	worked := to.Sub(from)
	for _, iv := range b.Closed {
		worked -= overlap(from, to, iv.Start, iv.End)
	}
	if a.policy.PauseOnOpenBreak && s.IsOpen() && b.OpenSince != nil {
		worked -= overlap(from, to, *b.OpenSince, asOf)
	}
	if worked < 0 {
		return 0
	}
	return worked
}

func overlap(aFrom, aTo, bFrom, bTo time.Time) time.Duration {
	if bFrom.After(aFrom) {
		aFrom = bFrom
	}
	if bTo.Before(aTo) {
		aTo = bTo
	}
	if !aTo.After(aFrom) {
		return 0
	}
	return aTo.Sub(aFrom)
}

// TotalHours sums the break-adjusted time of every session and rounds to two decimals. breaks[i] belongs to sessions[i].
func (a HoursAggregator) TotalHours(sessions []attendance.WorkSession, breaks []SessionBreaks, asOf time.Time) float64 {
	var total time.Duration
	for i, s := range sessions {
		var b SessionBreaks
		if i < len(breaks) {
			b = breaks[i]
		}
		total += a.SessionWorked(s, b, asOf)
	}
	return MillisToHours(total.Milliseconds())
}

// Status maps worked hours to present, undertime or absent.
func (a HoursAggregator) Status(totalHours float64) attendance.DayStatus {
	switch {
	case totalHours >= a.policy.RequiredHours:
		return attendance.StatusPresent
	case totalHours > 0:
		return attendance.StatusUndertime
	default:
		return attendance.StatusAbsent
	}
}

// Undertime is the remainder to the required hours, split into hours and minutes.
// It is zero unless the status is undertime.
func (a HoursAggregator) Undertime(totalHours float64) (hours, minutes int) {
	if a.Status(totalHours) != attendance.StatusUndertime {
		return 0, 0
	}
	remaining := int(math.Max(0, math.Round(a.policy.RequiredHours*60-totalHours*60)))
	return remaining / 60, remaining % 60
}

// MillisToHours converts milliseconds to hours rounded to two decimal places.
func MillisToHours(ms int64) float64 {
	return attendance.RoundHours(float64(ms) / float64(time.Hour/time.Millisecond))
}
