package attendance

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/attendance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func feb(day, hour, minute int) time.Time {
	return time.Date(2024, time.February, day, hour, minute, 0, 0, manila)
}

func newTestMonthlyBuilder() *MonthlyReportBuilder {
	return NewMonthlyReportBuilder(newTestDayCalculator())
}

func TestMonthlyReportBuilder_Build_LeapFebruary(t *testing.T) {
	events := (&eventBuilder{}).
		in(feb(5, 8, 0)).out(feb(5, 12, 0)).in(feb(5, 13, 0)).out(feb(5, 17, 0)). // 8h
		in(feb(6, 8, 0)).out(feb(6, 12, 0)). // 4h
		in(feb(7, 8, 0)).out(feb(7, 14, 30)). // 6.5h
		build()

	rep := newTestMonthlyBuilder().Build("emp-1", 2, 2024, events, on(15, 9, 0), manila)

	require.Len(t, rep.Days, 31)
	for i, slot := range rep.Days {
		assert.Equal(t, i+1, slot.Day)
		assert.Equal(t, i < 29, slot.Valid, "day %d", slot.Day)
		assert.False(t, slot.IsToday)
	}
	assert.Nil(t, rep.Days[29].Record)
	assert.Nil(t, rep.Days[30].Record)
	assert.Nil(t, rep.Today)

	require.NotNil(t, rep.Days[4].Record)
	assert.Equal(t, attendance.StatusPresent, rep.Days[4].Record.Status)
	require.NotNil(t, rep.Days[5].Record)
	assert.Equal(t, attendance.StatusUndertime, rep.Days[5].Record.Status)
	assert.Nil(t, rep.Days[0].Record)

	assert.Equal(t, 18.5, rep.TotalHours)
	assert.Equal(t, 1, rep.PresentDays)
	assert.Equal(t, 2, rep.UndertimeDays)
	// 4h00m + 1h30m
	assert.Equal(t, 5, rep.UndertimeHours)
	assert.Equal(t, 30, rep.UndertimeMinutes)
	assert.Equal(t, "PHT", rep.Timezone)
}

func TestMonthlyReportBuilder_Build_CommonYearFebruary(t *testing.T) {
	rep := newTestMonthlyBuilder().Build("emp-1", 2, 2023, nil, on(15, 9, 0), manila)

	assert.True(t, rep.Days[27].Valid)
	assert.False(t, rep.Days[28].Valid)
	assert.Equal(t, 0.0, rep.TotalHours)
	assert.Equal(t, 0, rep.PresentDays)
}

func TestMonthlyReportBuilder_Build_TodayKeptOutOfGrid(t *testing.T) {
	events := (&eventBuilder{}).
		in(on(4, 8, 0)).out(on(4, 16, 0)).
		in(at(8, 0)).
		build()

	rep := newTestMonthlyBuilder().Build("emp-1", 3, 2024, events, at(10, 0), manila)

	today := rep.Days[10]
	assert.True(t, today.IsToday)
	assert.Nil(t, today.Record)

	require.NotNil(t, rep.Today)
	assert.True(t, rep.Today.Live)
	assert.Equal(t, 2.0, rep.Today.TotalHours)

	assert.Equal(t, 8.0, rep.TotalHours)
	assert.Equal(t, 1, rep.PresentDays)
	assert.Equal(t, 0, rep.UndertimeDays)
}

func TestMonthlyReportBuilder_Build_DayBoundaryUsesSystemZone(t *testing.T) {
	// 2024-02-29 17:00 UTC is 2024-03-01 01:00 in UTC+8.
	ts := time.Date(2024, time.February, 29, 17, 0, 0, 0, time.UTC)
	events := (&eventBuilder{}).in(ts).out(ts.Add(2 * time.Hour)).build()

	march := newTestMonthlyBuilder().Build("emp-1", 3, 2024, events, on(20, 9, 0), manila)
	february := newTestMonthlyBuilder().Build("emp-1", 2, 2024, events, on(20, 9, 0), manila)

	require.NotNil(t, march.Days[0].Record)
	assert.Equal(t, 2.0, march.Days[0].Record.TotalHours)
	assert.Nil(t, february.Days[28].Record)
	assert.Equal(t, 0.0, february.TotalHours)
}

func TestMonthlyReportBuilder_Build_IgnoresEventsOutsideMonth(t *testing.T) {
	events := (&eventBuilder{}).in(feb(28, 8, 0)).out(feb(28, 17, 0)).build()

	rep := newTestMonthlyBuilder().Build("emp-1", 3, 2024, events, on(20, 9, 0), manila)

	assert.Nil(t, rep.Days[27].Record)
	assert.Equal(t, 0.0, rep.TotalHours)
}
