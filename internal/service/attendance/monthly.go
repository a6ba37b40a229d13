package attendance

import (
	"time"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/attendance"
)

// MonthlyReportBuilder assembles the 31-slot DTR grid for one employee and month.
type MonthlyReportBuilder struct {
	days *DayCalculator
}

func NewMonthlyReportBuilder(days *DayCalculator) *MonthlyReportBuilder {
	return &MonthlyReportBuilder{days: days}
}

// Build computes every day of the month that has events. The day containing
// asOf is kept out of the grid and totals and returned as the live Today
// record instead, since its hours keep changing until the employee clocks out.
func (b *MonthlyReportBuilder) Build(employeeID string, month, year int, events []attendance.TimeLogEvent, asOf time.Time, loc *time.Location) attendance.MonthReport {
	rep := attendance.MonthReport{
		EmployeeID:  employeeID,
		Month:       month,
		Year:        year,
		Location:    loc,
		Timezone:    loc.String(),
		GeneratedAt: asOf,
	}

	byDay := groupByLocalDay(events, MonthRange(month, year, loc), loc)
	lastDay := DaysIn(month, year)

	var totalHours float64
	undertimeMinutes := 0

	for i := range rep.Days {
		d := i + 1
		slot := &rep.Days[i]
		slot.Day = d
		if d > lastDay {
			continue
		}
		slot.Valid = true

		dayStart := time.Date(year, time.Month(month), d, 0, 0, 0, 0, loc)
		dayEvents := byDay[d]

		if SameDay(dayStart, asOf, loc) {
			slot.IsToday = true
			live := b.days.Compute(employeeID, dayStart, dayEvents, asOf, loc)
			rep.Today = &live
			continue
		}
		if len(dayEvents) == 0 {
			continue
		}

		rec := b.days.Compute(employeeID, dayStart, dayEvents, asOf, loc)
		slot.Record = &rec

		totalHours += rec.TotalHours
		switch rec.Status {
		case attendance.StatusPresent:
			rep.PresentDays++
		case attendance.StatusUndertime:
			rep.UndertimeDays++
			undertimeMinutes += rec.UndertimeHours*60 + rec.UndertimeMinutes
		}
	}

	rep.TotalHours = attendance.RoundHours(totalHours)
	rep.UndertimeHours = undertimeMinutes / 60
	rep.UndertimeMinutes = undertimeMinutes % 60
	return rep
}

// groupByLocalDay buckets the events inside r by their day of month in loc.
func groupByLocalDay(events []attendance.TimeLogEvent, r attendance.DateRange, loc *time.Location) map[int][]attendance.TimeLogEvent {
	out := make(map[int][]attendance.TimeLogEvent)
	for _, ev := range events {
		if !r.Contains(ev.Timestamp) {
			continue
		}
		d := ev.Timestamp.In(loc).Day()
		out[d] = append(out[d], ev)
	}
	return out
}
