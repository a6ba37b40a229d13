package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-engine/internal/pkg/timezone"
)

// ZoneProvider is the part of timezone.Provider the jobs need.
type ZoneProvider interface {
	Current(ctx context.Context) timezone.Zone
	Refresh(ctx context.Context) error
}

type AttendanceJobs struct {
	attendanceSvc attendance.AttendanceService
	zones         ZoneProvider
	now           func() time.Time
}

func NewAttendanceJobs(attendanceSvc attendance.AttendanceService, zones ZoneProvider) *AttendanceJobs {
	return &AttendanceJobs{
		attendanceSvc: attendanceSvc,
		zones:         zones,
		now:           time.Now,
	}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("flag_dangling_sessions", 1*time.Hour, j.FlagDanglingSessions)
	scheduler.AddJob("refresh_system_timezone", 15*time.Minute, j.RefreshSystemTimezone)
}

// FlagDanglingSessions reports sessions left open on the previous day. It only
// acts in the first hour after midnight in the system timezone.
func (j *AttendanceJobs) FlagDanglingSessions(ctx context.Context) error {
	zone := j.zones.Current(ctx)
	if j.now().In(zone.Location).Hour() != 0 {
		return nil
	}

	slog.Info("Cron: Starting flag dangling sessions job", "timezone", zone.Name)

	dangling, err := j.attendanceSvc.FlagDanglingSessions(ctx)
	if err != nil {
		return fmt.Errorf("failed to flag dangling sessions: %w", err)
	}

	slog.Info("Cron: Flag dangling sessions completed", "dangling_count", len(dangling))
	return nil
}

// RefreshSystemTimezone keeps the last-known-good zone warm.
func (j *AttendanceJobs) RefreshSystemTimezone(ctx context.Context) error {
	return j.zones.Refresh(ctx)
}
