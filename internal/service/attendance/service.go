package attendance

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-engine/internal/pkg/sse"
	"github.com/cmlabs-hris/attendance-engine/internal/pkg/timezone"
)

const (
	EventAttendanceUpdated = "attendance.updated"
	EventDanglingSession   = "attendance.dangling_session"
)

// ZoneProvider resolves the system timezone for one computation.
type ZoneProvider interface {
	Current(ctx context.Context) timezone.Zone
}

type AttendanceServiceImpl struct {
	attendance.TimeLogRepository
	zones  ZoneProvider
	days   *DayCalculator
	months *MonthlyReportBuilder
	hub    *sse.Hub
	now    func() time.Time
}

func NewAttendanceService(
	timeLogRepo attendance.TimeLogRepository,
	zones ZoneProvider,
	policy attendance.Policy,
	hub *sse.Hub,
) *AttendanceServiceImpl {
	days := NewDayCalculator(policy, DefaultClassifier())
	return &AttendanceServiceImpl{
		TimeLogRepository: timeLogRepo,
		zones:             zones,
		days:              days,
		months:            NewMonthlyReportBuilder(days),
		hub:               hub,
		now:               time.Now,
	}
}

// WithClock replaces the service clock.
func (s *AttendanceServiceImpl) WithClock(now func() time.Time) *AttendanceServiceImpl {
	s.now = now
	return s
}

// ComputeDay implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ComputeDay(ctx context.Context, employeeID string, date string) (attendance.DayAttendanceResponse, error) {
	req := attendance.DayRequest{EmployeeID: employeeID, Date: date}
	if err := req.Validate(); err != nil {
		return attendance.DayAttendanceResponse{}, err
	}

	zone := s.zones.Current(ctx)
	rec, err := s.computeDay(ctx, employeeID, date, zone.Location)
	if err != nil {
		return attendance.DayAttendanceResponse{}, err
	}

	resp := attendance.NewDayAttendanceResponse(rec, zone.Location)
	resp.TimezoneFallback = zone.Fallback
	return resp, nil
}

// SessionStatus implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) SessionStatus(ctx context.Context, employeeID string, date string) (attendance.SessionStatusResponse, error) {
	req := attendance.DayRequest{EmployeeID: employeeID, Date: date}
	if err := req.Validate(); err != nil {
		return attendance.SessionStatusResponse{}, err
	}

	zone := s.zones.Current(ctx)
	rec, err := s.computeDay(ctx, employeeID, date, zone.Location)
	if err != nil {
		return attendance.SessionStatusResponse{}, err
	}

	resp := attendance.NewSessionStatusResponse(rec, zone.Location)
	resp.Fallback = zone.Fallback
	return resp, nil
}

// ComputeMonth implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ComputeMonth(ctx context.Context, employeeID string, month, year int) (attendance.MonthReportResponse, error) {
	zone := s.zones.Current(ctx)
	rep, err := s.monthReport(ctx, employeeID, month, year, zone)
	if err != nil {
		return attendance.MonthReportResponse{}, err
	}
	return attendance.NewMonthReportResponse(rep, zone.Location), nil
}

// MonthReport implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) MonthReport(ctx context.Context, employeeID string, month, year int) (attendance.MonthReport, error) {
	return s.monthReport(ctx, employeeID, month, year, s.zones.Current(ctx))
}

func (s *AttendanceServiceImpl) monthReport(ctx context.Context, employeeID string, month, year int, zone timezone.Zone) (attendance.MonthReport, error) {
	req := attendance.MonthRequest{EmployeeID: employeeID, Month: month, Year: year}
	if err := req.Validate(); err != nil {
		return attendance.MonthReport{}, err
	}

	// One read for the whole month: either every day is computed or none is.
	events, err := s.TimeLogRepository.ListEvents(ctx, employeeID, MonthRange(month, year, zone.Location))
	if err != nil {
		return attendance.MonthReport{}, fmt.Errorf("failed to list time logs for %04d-%02d: %w: %w", year, month, attendance.ErrStoreUnavailable, err)
	}

	rep := s.months.Build(employeeID, month, year, events, s.now(), zone.Location)
	rep.TimezoneFallback = zone.Fallback
	rep.TimezoneFallbackReason = zone.Reason
	return rep, nil
}

// ClockAction implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ClockAction(ctx context.Context, req attendance.ClockActionRequest) (attendance.DayAttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.DayAttendanceResponse{}, err
	}

	zone := s.zones.Current(ctx)
	loc := zone.Location

	var rec attendance.DayAttendanceRecord
	err := s.TimeLogRepository.WithEmployeeLock(ctx, req.EmployeeID, func(ctx context.Context) error {
		now := s.now()
		dr := DayRange(now, loc)

		events, err := s.TimeLogRepository.ListEvents(ctx, req.EmployeeID, dr)
		if err != nil {
			return fmt.Errorf("failed to list today's time logs: %w: %w", attendance.ErrStoreUnavailable, err)
		}

		current := s.days.Compute(req.EmployeeID, now, events, now, loc)
		if _, err := current.State.Transition(req.Action); err != nil {
			return err
		}

		var pending []attendance.NewTimeLogEvent
		if req.Action == attendance.ActionClockInPM && current.State.AM == attendance.SlotOpen {
			// Close the morning at the same instant so the log never holds two open sessions.
			typ, tag := attendance.ActionClockOutAM.Event()
			pending = append(pending, attendance.NewTimeLogEvent{
				EmployeeID: req.EmployeeID,
				Type:       typ,
				Timestamp:  now,
				Session:    tag,
			})
		}
		typ, tag := req.Action.Event()
		pending = append(pending, attendance.NewTimeLogEvent{
			EmployeeID: req.EmployeeID,
			Type:       typ,
			Timestamp:  now,
			Session:    tag,
		})

		for _, ev := range pending {
			saved, err := s.TimeLogRepository.AppendEvent(ctx, ev)
			if err != nil {
				return fmt.Errorf("failed to append %s event: %w: %w", ev.Type, attendance.ErrStoreUnavailable, err)
			}
			events = append(events, saved)
		}

		rec = s.days.Compute(req.EmployeeID, now, events, now, loc)
		return nil
	})
	if err != nil {
		return attendance.DayAttendanceResponse{}, err
	}

	resp := attendance.NewDayAttendanceResponse(rec, loc)
	resp.TimezoneFallback = zone.Fallback

	slog.Info("Clock action accepted",
		"employee_id", req.EmployeeID,
		"action", req.Action,
		"total_hours", rec.TotalHours)

	if s.hub != nil {
		s.hub.Publish(req.EmployeeID, sse.Event{
			EmployeeID: req.EmployeeID,
			Event:      EventAttendanceUpdated,
			Data:       resp,
		})
	}
	return resp, nil
}

// FlagDanglingSessions implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) FlagDanglingSessions(ctx context.Context) ([]string, error) {
	zone := s.zones.Current(ctx)
	loc := zone.Location
	now := s.now()
	yesterday := DayRange(StartOfDay(now, loc).AddDate(0, 0, -1), loc)

	employeeIDs, err := s.TimeLogRepository.ListEmployeesWithEvents(ctx, yesterday)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees with time logs: %w: %w", attendance.ErrStoreUnavailable, err)
	}

	var dangling []string
	for _, employeeID := range employeeIDs {
		events, err := s.TimeLogRepository.ListEvents(ctx, employeeID, yesterday)
		if err != nil {
			return dangling, fmt.Errorf("failed to list time logs of %s: %w: %w", employeeID, attendance.ErrStoreUnavailable, err)
		}

		rec := s.days.Compute(employeeID, yesterday.From, events, now, loc)
		if !rec.HasOpenSession {
			continue
		}
		dangling = append(dangling, employeeID)

		slog.Warn("Session left open past end of day",
			"employee_id", employeeID,
			"date", yesterday.From.Format("2006-01-02"))

		if s.hub != nil {
			s.hub.Publish(employeeID, sse.Event{
				EmployeeID: employeeID,
				Event:      EventDanglingSession,
				Data:       attendance.NewDayAttendanceResponse(rec, loc),
			})
		}
	}
	return dangling, nil
}

// Subscribe implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Subscribe(ctx context.Context, employeeID string) (<-chan attendance.LiveEvent, func()) {
	ch, cleanup := s.hub.Subscribe(employeeID)

	out := make(chan attendance.LiveEvent, 10)
	go func() {
		defer close(out)
		for {
			select {
			case event, ok := <-ch:
				if !ok {
					return
				}
				select {
				case out <- attendance.LiveEvent{Event: event.Event, Data: event.Data}:
				case <-ctx.Done():
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, cleanup
}

// computeDay reads the events of one calendar day and computes its record.
// An empty date means today in loc.
func (s *AttendanceServiceImpl) computeDay(ctx context.Context, employeeID, date string, loc *time.Location) (attendance.DayAttendanceRecord, error) {
	now := s.now()
	day := now
	if date != "" {
		parsed, err := ParseLocalDate(date, loc)
		if err != nil {
			return attendance.DayAttendanceRecord{}, fmt.Errorf("failed to parse date %q: %w", date, err)
		}
		day = parsed
	}

	events, err := s.TimeLogRepository.ListEvents(ctx, employeeID, DayRange(day, loc))
	if err != nil {
		return attendance.DayAttendanceRecord{}, fmt.Errorf("failed to list time logs for %s: %w: %w", date, attendance.ErrStoreUnavailable, err)
	}

	return s.days.Compute(employeeID, day, events, now, loc), nil
}

var _ attendance.AttendanceService = (*AttendanceServiceImpl)(nil)
