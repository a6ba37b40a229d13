package attendance

import (
	"time"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/attendance"
)

// manila is a fixed UTC+8 zone so tests do not depend on the host tzdata.
var manila = time.FixedZone("PHT", 8*60*60)

// at returns hh:mm on 2024-03-11 in manila.
func at(hour, minute int) time.Time {
	return time.Date(2024, time.March, 11, hour, minute, 0, 0, manila)
}

func on(day, hour, minute int) time.Time {
	return time.Date(2024, time.March, day, hour, minute, 0, 0, manila)
}

type eventBuilder struct {
	seq    int64
	events []attendance.TimeLogEvent
}

func (b *eventBuilder) add(typ attendance.EventType, ts time.Time, tag *attendance.SessionTag) *eventBuilder {
	b.seq++
	b.events = append(b.events, attendance.TimeLogEvent{
		ID:         "ev",
		Seq:        b.seq,
		EmployeeID: "emp-1",
		Type:       typ,
		Timestamp:  ts,
		Session:    tag,
	})
	return b
}

func (b *eventBuilder) in(ts time.Time) *eventBuilder {
	return b.add(attendance.EventClockIn, ts, nil)
}

func (b *eventBuilder) out(ts time.Time) *eventBuilder {
	return b.add(attendance.EventClockOut, ts, nil)
}

func (b *eventBuilder) inTagged(ts time.Time, tag attendance.SessionTag) *eventBuilder {
	return b.add(attendance.EventClockIn, ts, &tag)
}

func (b *eventBuilder) outTagged(ts time.Time, tag attendance.SessionTag) *eventBuilder {
	return b.add(attendance.EventClockOut, ts, &tag)
}

func (b *eventBuilder) breakStart(ts time.Time) *eventBuilder {
	return b.add(attendance.EventBreakStart, ts, nil)
}

func (b *eventBuilder) breakEnd(ts time.Time) *eventBuilder {
	return b.add(attendance.EventBreakEnd, ts, nil)
}

func (b *eventBuilder) build() []attendance.TimeLogEvent {
	return b.events
}

func clock(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.In(manila).Format("15:04")
}
