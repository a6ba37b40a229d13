package attendance

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/attendance"
	"github.com/stretchr/testify/assert"
)

func TestHoursAggregator_SessionWorked_SubtractsClosedBreaks(t *testing.T) {
	agg := NewHoursAggregator(attendance.DefaultPolicy())
	b := SessionBreaks{Closed: []attendance.BreakInterval{{Start: at(10, 0), End: at(10, 30)}}}

	worked := agg.SessionWorked(closedSession(at(8, 0), at(12, 0)), b, at(18, 0))

	assert.Equal(t, 3*time.Hour+30*time.Minute, worked)
}

func TestHoursAggregator_SessionWorked_OngoingRunsToAsOf(t *testing.T) {
	agg := NewHoursAggregator(attendance.DefaultPolicy())

	worked := agg.SessionWorked(attendance.WorkSession{Start: at(8, 0)}, SessionBreaks{}, at(10, 30))

	assert.Equal(t, 2*time.Hour+30*time.Minute, worked)
}

func TestHoursAggregator_SessionWorked_OpenBreak(t *testing.T) {
	session := attendance.WorkSession{Start: at(8, 0)}
	since := at(10, 0)
	b := SessionBreaks{OpenSince: &since}

	running := NewHoursAggregator(attendance.DefaultPolicy())
	assert.Equal(t, 3*time.Hour, running.SessionWorked(session, b, at(11, 0)))

	policy := attendance.DefaultPolicy()
	policy.PauseOnOpenBreak = true
	paused := NewHoursAggregator(policy)
	assert.Equal(t, 2*time.Hour, paused.SessionWorked(session, b, at(11, 0)))
}

func TestHoursAggregator_SessionWorked_NeverNegative(t *testing.T) {
	agg := NewHoursAggregator(attendance.DefaultPolicy())
	b := SessionBreaks{Closed: []attendance.BreakInterval{
		{Start: at(8, 0), End: at(9, 0)},
		{Start: at(8, 0), End: at(9, 0)},
	}}

	worked := agg.SessionWorked(closedSession(at(8, 0), at(9, 0)), b, at(18, 0))

	assert.Equal(t, time.Duration(0), worked)
}

func TestHoursAggregator_SegmentWorked_SplitsBreakAtNoon(t *testing.T) {
	agg := NewHoursAggregator(attendance.DefaultPolicy())
	session := closedSession(at(8, 0), at(17, 0))
	b := SessionBreaks{Closed: []attendance.BreakInterval{{Start: at(11, 30), End: at(12, 30)}}}
	noon := at(12, 0)
	am := attendance.SessionSegment{Label: attendance.LabelAM, Start: at(8, 0), End: &noon}
	pm := attendance.SessionSegment{Label: attendance.LabelPM, Start: noon, End: session.End}

	amWorked := agg.SegmentWorked(am, session, b, at(18, 0))
	pmWorked := agg.SegmentWorked(pm, session, b, at(18, 0))

	assert.Equal(t, 3*time.Hour+30*time.Minute, amWorked)
	assert.Equal(t, 4*time.Hour+30*time.Minute, pmWorked)
	assert.Equal(t, agg.SessionWorked(session, b, at(18, 0)), amWorked+pmWorked)
}

func TestHoursAggregator_SegmentWorked_OpenLegPausedOnBreak(t *testing.T) {
	policy := attendance.DefaultPolicy()
	policy.PauseOnOpenBreak = true
	agg := NewHoursAggregator(policy)
	session := attendance.WorkSession{Start: at(13, 0)}
	since := at(15, 0)
	seg := attendance.SessionSegment{Label: attendance.LabelPM, Start: at(13, 0)}

	worked := agg.SegmentWorked(seg, session, SessionBreaks{OpenSince: &since}, at(16, 0))

	assert.Equal(t, 2*time.Hour, worked)
}

func TestHoursAggregator_Status(t *testing.T) {
	agg := NewHoursAggregator(attendance.DefaultPolicy())

	tests := []struct {
		hours float64
		want  attendance.DayStatus
	}{
		{8, attendance.StatusPresent},
		{9.5, attendance.StatusPresent},
		{7.99, attendance.StatusUndertime},
		{0.01, attendance.StatusUndertime},
		{0, attendance.StatusAbsent},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, agg.Status(tt.hours), "hours=%v", tt.hours)
	}
}

func TestHoursAggregator_Status_CustomThreshold(t *testing.T) {
	agg := NewHoursAggregator(attendance.Policy{RequiredHours: 6, MaxSessionsPerDay: 2})

	assert.Equal(t, attendance.StatusPresent, agg.Status(6))
	assert.Equal(t, attendance.StatusUndertime, agg.Status(5.5))
}

func TestHoursAggregator_Undertime(t *testing.T) {
	agg := NewHoursAggregator(attendance.DefaultPolicy())

	h, m := agg.Undertime(4)
	assert.Equal(t, 4, h)
	assert.Equal(t, 0, m)

	h, m = agg.Undertime(6.5)
	assert.Equal(t, 1, h)
	assert.Equal(t, 30, m)

	h, m = agg.Undertime(8)
	assert.Equal(t, 0, h)
	assert.Equal(t, 0, m)

	// Absent days carry no undertime.
	h, m = agg.Undertime(0)
	assert.Equal(t, 0, h)
	assert.Equal(t, 0, m)
}

func TestMillisToHours(t *testing.T) {
	assert.Equal(t, 8.75, MillisToHours((8*time.Hour + 45*time.Minute).Milliseconds()))
	assert.Equal(t, 0.33, MillisToHours((20 * time.Minute).Milliseconds()))
	assert.Equal(t, 0.0, MillisToHours(0))
}
