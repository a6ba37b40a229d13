package attendance

import (
	"context"
)

// TimeLogRepository is the append-only store of clock events.
type TimeLogRepository interface {
	// ListEvents returns every event of the employee in [r.From, r.To), ordered by
	// timestamp then insertion order. A partial read is returned as an error.
	ListEvents(ctx context.Context, employeeID string, r DateRange) ([]TimeLogEvent, error)

	// AppendEvent persists a new event. Existing events are never modified.
	AppendEvent(ctx context.Context, event NewTimeLogEvent) (TimeLogEvent, error)

	// WithEmployeeLock runs fn while holding the employee's write lock, so the
	// legality check and the append that follows it are atomic.
	WithEmployeeLock(ctx context.Context, employeeID string, fn func(ctx context.Context) error) error

	// ListEmployeesWithEvents returns the distinct employees with any event in r.
	ListEmployeesWithEvents(ctx context.Context, r DateRange) ([]string, error)
}
