package attendance

import (
	"testing"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/attendance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPairSessions_TwoSessions(t *testing.T) {
	events := (&eventBuilder{}).
		in(at(13, 0)).out(at(17, 0)).
		in(at(8, 0)).out(at(12, 0)).
		build()

	sessions := PairSessions(events)

	require.Len(t, sessions, 2)
	assert.Equal(t, at(8, 0), sessions[0].Start)
	assert.Equal(t, "12:00", clock(sessions[0].End))
	assert.Equal(t, at(13, 0), sessions[1].Start)
	assert.Equal(t, "17:00", clock(sessions[1].End))
}

func TestPairSessions_DuplicateClockInIgnored(t *testing.T) {
	events := (&eventBuilder{}).
		in(at(8, 0)).in(at(8, 5)).out(at(12, 0)).
		build()

	sessions := PairSessions(events)

	require.Len(t, sessions, 1)
	assert.Equal(t, at(8, 0), sessions[0].Start)
}

func TestPairSessions_OrphanClockOutDropped(t *testing.T) {
	events := (&eventBuilder{}).
		out(at(7, 0)).in(at(8, 0)).out(at(12, 0)).out(at(12, 30)).
		build()

	sessions := PairSessions(events)

	require.Len(t, sessions, 1)
	assert.Equal(t, at(8, 0), sessions[0].Start)
	assert.Equal(t, "12:00", clock(sessions[0].End))
}

func TestPairSessions_OpenSession(t *testing.T) {
	events := (&eventBuilder{}).in(at(8, 0)).build()

	sessions := PairSessions(events)

	require.Len(t, sessions, 1)
	assert.True(t, sessions[0].IsOpen())
	assert.Equal(t, attendance.LabelUnknown, sessions[0].Label)
}

func TestPairSessions_Empty(t *testing.T) {
	assert.Empty(t, PairSessions(nil))
}

func TestPairSessions_SameInstantUsesStoreOrder(t *testing.T) {
	// clock_in_pm while AM is open writes clockOut(AM) then clockIn(PM) at one instant.
	events := (&eventBuilder{}).
		inTagged(at(8, 0), attendance.SessionAM).
		outTagged(at(12, 30), attendance.SessionAM).
		inTagged(at(12, 30), attendance.SessionPM).
		build()

	sessions := PairSessions(events)

	require.Len(t, sessions, 2)
	assert.False(t, sessions[0].IsOpen())
	assert.True(t, sessions[1].IsOpen())
	assert.Equal(t, attendance.SessionPM, *sessions[1].StartTag)
}

func TestPairSessions_DoesNotMutateInput(t *testing.T) {
	events := (&eventBuilder{}).in(at(13, 0)).in(at(8, 0)).build()

	PairSessions(events)

	assert.Equal(t, at(13, 0), events[0].Timestamp)
}
