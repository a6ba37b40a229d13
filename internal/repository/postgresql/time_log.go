package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-engine/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type timeLogRepository struct {
	db *database.DB
}

func NewTimeLogRepository(db *database.DB) attendance.TimeLogRepository {
	return &timeLogRepository{db: db}
}

// ListEvents implements attendance.TimeLogRepository.
func (r *timeLogRepository) ListEvents(ctx context.Context, employeeID string, dr attendance.DateRange) ([]attendance.TimeLogEvent, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, seq, employee_id, type, session, logged_at, created_at
		FROM time_logs
		WHERE employee_id = $1
		  AND logged_at >= $2
		  AND logged_at < $3
		ORDER BY logged_at ASC, seq ASC
	`

	rows, err := q.Query(ctx, query, employeeID, dr.From, dr.To)
	if err != nil {
		return nil, fmt.Errorf("failed to query time logs: %w", err)
	}
	defer rows.Close()

	var events []attendance.TimeLogEvent
	for rows.Next() {
		var ev attendance.TimeLogEvent
		if err := rows.Scan(&ev.ID, &ev.Seq, &ev.EmployeeID, &ev.Type, &ev.Session, &ev.Timestamp, &ev.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan time log: %w", err)
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read time logs: %w", err)
	}

	return events, nil
}

// AppendEvent implements attendance.TimeLogRepository.
func (r *timeLogRepository) AppendEvent(ctx context.Context, newEvent attendance.NewTimeLogEvent) (attendance.TimeLogEvent, error) {
	q := GetQuerier(ctx, r.db)

	id, err := uuid.NewV7()
	if err != nil {
		return attendance.TimeLogEvent{}, fmt.Errorf("failed to generate time log id: %w", err)
	}

	query := `
		INSERT INTO time_logs (id, employee_id, type, session, logged_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING seq, created_at
	`

	ev := attendance.TimeLogEvent{
		ID:         id.String(),
		EmployeeID: newEvent.EmployeeID,
		Type:       newEvent.Type,
		Timestamp:  newEvent.Timestamp,
		Session:    newEvent.Session,
	}
	err = q.QueryRow(ctx, query,
		ev.ID,
		ev.EmployeeID,
		ev.Type,
		ev.Session,
		ev.Timestamp,
	).Scan(&ev.Seq, &ev.CreatedAt)
	if err != nil {
		return attendance.TimeLogEvent{}, fmt.Errorf("failed to insert time log: %w", err)
	}

	return ev, nil
}

// WithEmployeeLock implements attendance.TimeLogRepository. The advisory lock
// is scoped to the transaction and released on commit or rollback.
func (r *timeLogRepository) WithEmployeeLock(ctx context.Context, employeeID string, fn func(ctx context.Context) error) error {
	return WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, employeeID); err != nil {
			return fmt.Errorf("failed to lock employee %s: %w", employeeID, err)
		}
		return fn(ctx)
	})
}

// ListEmployeesWithEvents implements attendance.TimeLogRepository.
func (r *timeLogRepository) ListEmployeesWithEvents(ctx context.Context, dr attendance.DateRange) ([]string, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT DISTINCT employee_id
		FROM time_logs
		WHERE logged_at >= $1
		  AND logged_at < $2
		ORDER BY employee_id
	`

	rows, err := q.Query(ctx, query, dr.From, dr.To)
	if err != nil {
		return nil, fmt.Errorf("failed to query employees with time logs: %w", err)
	}

	employeeIDs, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to scan employee ids: %w", err)
	}
	return employeeIDs, nil
}
