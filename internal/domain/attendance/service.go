package attendance

import (
	"context"
)

// AttendanceService defines the attendance entry points used by the API layer
type AttendanceService interface {
	// ComputeDay recomputes the employee's record for a calendar day in the system timezone
	ComputeDay(ctx context.Context, employeeID string, date string) (DayAttendanceResponse, error)

	// ComputeMonth builds the 31-slot DTR grid for a month
	ComputeMonth(ctx context.Context, employeeID string, month, year int) (MonthReportResponse, error)

	// MonthReport is ComputeMonth without the response mapping, for renderers
	MonthReport(ctx context.Context, employeeID string, month, year int) (MonthReport, error)

	// ClockAction validates the action against today's state and appends the event
	ClockAction(ctx context.Context, req ClockActionRequest) (DayAttendanceResponse, error)

	// SessionStatus returns the clock flags for a day
	SessionStatus(ctx context.Context, employeeID string, date string) (SessionStatusResponse, error)

	// FlagDanglingSessions finds employees whose previous day still ends with an
	// open session and notifies them
	FlagDanglingSessions(ctx context.Context) ([]string, error)

	// Subscribe streams live updates of the employee's current day
	Subscribe(ctx context.Context, employeeID string) (<-chan LiveEvent, func())
}
