package attendance

import (
	"time"
)

type EventType string

const (
	EventClockIn    EventType = "clock_in"
	EventClockOut   EventType = "clock_out"
	EventBreakStart EventType = "break_start"
	EventBreakEnd   EventType = "break_end"
)

func (t EventType) Valid() bool {
	switch t {
	case EventClockIn, EventClockOut, EventBreakStart, EventBreakEnd:
		return true
	}
	return false
}

// SessionTag is the half of the day a clock event was explicitly recorded for.
type SessionTag string

const (
	SessionAM SessionTag = "AM"
	SessionPM SessionTag = "PM"
)

func (s SessionTag) Valid() bool {
	return s == SessionAM || s == SessionPM
}

// TimeLogEvent is one atomic clock action. Events are never edited;
// corrections are appended as new events.
type TimeLogEvent struct {
	ID         string
	Seq        int64
	EmployeeID string
	Type       EventType
	Timestamp  time.Time
	Session    *SessionTag
	CreatedAt  time.Time
}

// NewTimeLogEvent is the payload accepted by TimeLogRepository.AppendEvent.
type NewTimeLogEvent struct {
	EmployeeID string
	Type       EventType
	Timestamp  time.Time
	Session    *SessionTag
}

type SessionLabel string

const (
	LabelAM      SessionLabel = "AM"
	LabelPM      SessionLabel = "PM"
	LabelUnknown SessionLabel = "unknown"
)

// WorkSession is one clock-in/clock-out pair. End is nil while the session is ongoing.
type WorkSession struct {
	Start    time.Time
	End      *time.Time
	StartTag *SessionTag
	EndTag   *SessionTag
	Label    SessionLabel
}

func (s WorkSession) IsOpen() bool {
	return s.End == nil
}

// Tag returns the explicit session tag, preferring the clock-in's tag.
func (s WorkSession) Tag() *SessionTag {
	if s.StartTag != nil {
		return s.StartTag
	}
	return s.EndTag
}

// EndOr returns the session end, or fallback when the session is still open.
func (s WorkSession) EndOr(fallback time.Time) time.Time {
	if s.End != nil {
		return *s.End
	}
	return fallback
}

type BreakInterval struct {
	Start time.Time
	End   time.Time
}

func (b BreakInterval) Duration() time.Duration {
	return b.End.Sub(b.Start)
}

// SessionSegment is a labelled, display-only slice of a WorkSession. A session
// that crosses noon yields two segments; accounting still uses the whole session.
type SessionSegment struct {
	Label   SessionLabel
	Start   time.Time
	End     *time.Time
	Session int // index into the day's session list
	// Worked is the leg's share of the session's break-adjusted time.
	Worked time.Duration
}

type DayStatus string

const (
	StatusPresent   DayStatus = "present"
	StatusUndertime DayStatus = "undertime"
	StatusAbsent    DayStatus = "absent"
)

type SlotState string

const (
	SlotNotStarted SlotState = "not_started"
	SlotOpen       SlotState = "open"
	SlotCompleted  SlotState = "completed"
)

// ClockState is the per-day state of the AM and PM slots.
type ClockState struct {
	AM          SlotState
	PM          SlotState
	OnBreak     bool
	Sessions    int
	MaxSessions int
}

// SessionFlags are the clock actions currently legal plus completion flags.
type SessionFlags struct {
	CanClockInAM         bool `json:"can_clock_in_am"`
	CanClockOutAM        bool `json:"can_clock_out_am"`
	CanClockInPM         bool `json:"can_clock_in_pm"`
	CanClockOutPM        bool `json:"can_clock_out_pm"`
	CanStartBreak        bool `json:"can_start_break"`
	CanEndBreak          bool `json:"can_end_break"`
	AMSessionCompleted   bool `json:"am_session_completed"`
	PMSessionCompleted   bool `json:"pm_session_completed"`
	AllSessionsCompleted bool `json:"all_sessions_completed"`
}

// DayAttendanceRecord is derived on every read from the day's events.
type DayAttendanceRecord struct {
	EmployeeID       string
	Date             time.Time // local midnight in the system zone
	AMArrival        *time.Time
	AMDeparture      *time.Time
	PMArrival        *time.Time
	PMDeparture      *time.Time
	TotalHours       float64
	Status           DayStatus
	UndertimeHours   int
	UndertimeMinutes int
	State            ClockState
	Flags            SessionFlags
	HasOpenSession   bool
	OnBreakSince     *time.Time
	Sessions         []WorkSession
	Segments         []SessionSegment
	Live             bool
}

// MonthDays is the fixed size of the DTR grid.
const MonthDays = 31

// DaySlot is one row of the DTR grid. Valid is false for days the month does
// not have; Record is nil when there is no time-log data or the day is live.
type DaySlot struct {
	Day     int
	Valid   bool
	IsToday bool
	Record  *DayAttendanceRecord
}

type MonthReport struct {
	EmployeeID             string
	Month                  int
	Year                   int
	Location               *time.Location
	Timezone               string
	TimezoneFallback       bool
	TimezoneFallbackReason string
	Days                   [MonthDays]DaySlot
	Today                  *DayAttendanceRecord
	TotalHours             float64
	PresentDays            int
	UndertimeDays          int
	UndertimeHours         int
	UndertimeMinutes       int
	GeneratedAt            time.Time
}

// Policy holds the business thresholds that the DTR rules depend on.
type Policy struct {
	RequiredHours     float64 `yaml:"required_hours"`
	MaxSessionsPerDay int     `yaml:"max_sessions_per_day"`
	PauseOnOpenBreak  bool    `yaml:"pause_on_open_break"`
}

func DefaultPolicy() Policy {
	return Policy{
		RequiredHours:     8,
		MaxSessionsPerDay: 2,
		PauseOnOpenBreak:  false,
	}
}

// DateRange is a half-open [From, To) interval of instants.
type DateRange struct {
	From time.Time
	To   time.Time
}

func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.From) && t.Before(r.To)
}
