package attendance

import (
	"math"
	"time"

	"github.com/cmlabs-hris/attendance-engine/internal/pkg/validator"
)

// ========================================
// REQUEST DTOs
// ========================================

type ClockActionRequest struct {
	EmployeeID string      `json:"-"`
	Action     ClockAction `json:"action"`
}

func (r *ClockActionRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if !r.Action.Valid() {
		errs = append(errs, validator.ValidationError{
			Field:   "action",
			Message: "action must be one of: clock_in_am, clock_out_am, clock_in_pm, clock_out_pm, break_start, break_end",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type DayRequest struct {
	EmployeeID string `json:"employee_id"`
	Date       string `json:"date"` // YYYY-MM-DD, empty means today
}

func (r *DayRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if r.Date != "" {
		if _, valid := validator.IsValidDate(r.Date); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "date",
				Message: "date must be in YYYY-MM-DD format",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type MonthRequest struct {
	EmployeeID string `json:"employee_id"`
	Month      int    `json:"month"`
	Year       int    `json:"year"`
}

func (r *MonthRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if !validator.IsValidMonth(r.Month) {
		errs = append(errs, validator.ValidationError{
			Field:   "month",
			Message: "month must be between 1 and 12",
		})
	}

	if r.Year < 2000 || r.Year > 2100 {
		errs = append(errs, validator.ValidationError{
			Field:   "year",
			Message: "year must be between 2000 and 2100",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ========================================
// RESPONSE DTOs
// ========================================

type DayAttendanceResponse struct {
	EmployeeID       string       `json:"employee_id"`
	Date             string       `json:"date"`
	AMArrival        *string      `json:"am_arrival"`
	AMDeparture      *string      `json:"am_departure"`
	PMArrival        *string      `json:"pm_arrival"`
	PMDeparture      *string      `json:"pm_departure"`
	TotalHours       float64      `json:"total_hours"`
	Status           DayStatus    `json:"status"`
	UndertimeHours   int          `json:"undertime_hours"`
	UndertimeMinutes int          `json:"undertime_minutes"`
	AMState          SlotState    `json:"am_state"`
	PMState          SlotState    `json:"pm_state"`
	HasOpenSession   bool         `json:"has_open_session"`
	OnBreak          bool         `json:"on_break"`
	OnBreakSince     *string      `json:"on_break_since,omitempty"`
	Live             bool         `json:"live"`
	Flags            SessionFlags `json:"flags"`
	Timezone         string       `json:"timezone"`
	TimezoneFallback bool         `json:"timezone_fallback,omitempty"`
}

type SessionStatusResponse struct {
	EmployeeID string       `json:"employee_id"`
	Date       string       `json:"date"`
	AMState    SlotState    `json:"am_state"`
	PMState    SlotState    `json:"pm_state"`
	OnBreak    bool         `json:"on_break"`
	Flags      SessionFlags `json:"flags"`
	Timezone   string       `json:"timezone"`
	Fallback   bool         `json:"timezone_fallback,omitempty"`
}

type DaySlotResponse struct {
	Day     int                    `json:"day"`
	Valid   bool                   `json:"valid"`
	IsToday bool                   `json:"is_today"`
	Record  *DayAttendanceResponse `json:"record,omitempty"`
}

type MonthReportResponse struct {
	EmployeeID             string                 `json:"employee_id"`
	Month                  int                    `json:"month"`
	Year                   int                    `json:"year"`
	Timezone               string                 `json:"timezone"`
	TimezoneFallback       bool                   `json:"timezone_fallback"`
	TimezoneFallbackReason string                 `json:"timezone_fallback_reason,omitempty"`
	Days                   []DaySlotResponse      `json:"days"`
	Today                  *DayAttendanceResponse `json:"today,omitempty"`
	TotalHours             float64                `json:"total_hours"`
	PresentDays            int                    `json:"present_days"`
	UndertimeDays          int                    `json:"undertime_days"`
	UndertimeHours         int                    `json:"undertime_hours"`
	UndertimeMinutes       int                    `json:"undertime_minutes"`
	GeneratedAt            string                 `json:"generated_at"`
}

// LiveTokenResponse carries the short-lived token for the live stream
type LiveTokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"`
}

// LiveEvent is published whenever the employee's current day changes.
type LiveEvent struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// ========================================
// MAPPERS
// ========================================

// clockFormat is how the DTR shows arrival and departure times.
const clockFormat = "15:04"

func formatClock(t *time.Time, loc *time.Location) *string {
	if t == nil {
		return nil
	}
	s := t.In(loc).Format(clockFormat)
	return &s
}

// NewDayAttendanceResponse renders rec in loc.
func NewDayAttendanceResponse(rec DayAttendanceRecord, loc *time.Location) DayAttendanceResponse {
	return DayAttendanceResponse{
		EmployeeID:       rec.EmployeeID,
		Date:             rec.Date.Format("2006-01-02"),
		AMArrival:        formatClock(rec.AMArrival, loc),
		AMDeparture:      formatClock(rec.AMDeparture, loc),
		PMArrival:        formatClock(rec.PMArrival, loc),
		PMDeparture:      formatClock(rec.PMDeparture, loc),
		TotalHours:       rec.TotalHours,
		Status:           rec.Status,
		UndertimeHours:   rec.UndertimeHours,
		UndertimeMinutes: rec.UndertimeMinutes,
		AMState:          rec.State.AM,
		PMState:          rec.State.PM,
		HasOpenSession:   rec.HasOpenSession,
		OnBreak:          rec.State.OnBreak,
		OnBreakSince:     formatClock(rec.OnBreakSince, loc),
		Live:             rec.Live,
		Flags:            rec.Flags,
		Timezone:         loc.String(),
	}
}

func NewSessionStatusResponse(rec DayAttendanceRecord, loc *time.Location) SessionStatusResponse {
	return SessionStatusResponse{
		EmployeeID: rec.EmployeeID,
		Date:       rec.Date.Format("2006-01-02"),
		AMState:    rec.State.AM,
		PMState:    rec.State.PM,
		OnBreak:    rec.State.OnBreak,
		Flags:      rec.Flags,
		Timezone:   loc.String(),
	}
}

func NewMonthReportResponse(rep MonthReport, loc *time.Location) MonthReportResponse {
	days := make([]DaySlotResponse, 0, MonthDays)
	for _, slot := range rep.Days {
		out := DaySlotResponse{Day: slot.Day, Valid: slot.Valid, IsToday: slot.IsToday}
		if slot.Record != nil {
			rec := NewDayAttendanceResponse(*slot.Record, loc)
			out.Record = &rec
		}
		days = append(days, out)
	}

	var today *DayAttendanceResponse
	if rep.Today != nil {
		rec := NewDayAttendanceResponse(*rep.Today, loc)
		today = &rec
	}

	return MonthReportResponse{
		EmployeeID:             rep.EmployeeID,
		Month:                  rep.Month,
		Year:                   rep.Year,
		Timezone:               rep.Timezone,
		TimezoneFallback:       rep.TimezoneFallback,
		TimezoneFallbackReason: rep.TimezoneFallbackReason,
		Days:                   days,
		Today:                  today,
		TotalHours:             rep.TotalHours,
		PresentDays:            rep.PresentDays,
		UndertimeDays:          rep.UndertimeDays,
		UndertimeHours:         rep.UndertimeHours,
		UndertimeMinutes:       rep.UndertimeMinutes,
		GeneratedAt:            rep.GeneratedAt.In(loc).Format(time.RFC3339),
	}
}

// RoundHours rounds h to two decimal places.
func RoundHours(h float64) float64 {
	return math.Round(h*100) / 100
}
