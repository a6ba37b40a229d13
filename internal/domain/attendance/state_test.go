package attendance

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func freshState() ClockState {
	return ClockState{AM: SlotNotStarted, PM: SlotNotStarted, MaxSessions: 2}
}

func requireRejected(t *testing.T, err error, reason string) {
	t.Helper()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrIllegalClockAction))

	var rejection *RejectionError
	require.True(t, errors.As(err, &rejection))
	assert.Equal(t, reason, rejection.Reason)
}

func TestClockState_Transition_FullDay(t *testing.T) {
	s := freshState()
	var err error

	for _, action := range []ClockAction{
		ActionClockInAM, ActionBreakStart, ActionBreakEnd, ActionClockOutAM,
		ActionClockInPM, ActionClockOutPM,
	} {
		s, err = s.Transition(action)
		require.NoError(t, err, "action %s", action)
	}

	assert.Equal(t, SlotCompleted, s.AM)
	assert.Equal(t, SlotCompleted, s.PM)
	assert.Equal(t, 2, s.Sessions)
	assert.True(t, s.Flags().AllSessionsCompleted)
}

func TestClockState_Transition_ClockOutWithoutClockIn(t *testing.T) {
	_, err := freshState().Transition(ActionClockOutAM)
	requireRejected(t, err, ReasonAMNotOpen)

	_, err = freshState().Transition(ActionClockOutPM)
	requireRejected(t, err, ReasonPMNotOpen)
}

func TestClockState_Transition_DoubleClockIn(t *testing.T) {
	s, err := freshState().Transition(ActionClockInAM)
	require.NoError(t, err)

	_, err = s.Transition(ActionClockInAM)
	requireRejected(t, err, ReasonAMAlreadyStarted)

	s, err = s.Transition(ActionClockOutAM)
	require.NoError(t, err)

	_, err = s.Transition(ActionClockInAM)
	requireRejected(t, err, ReasonAMAlreadyCompleted)
}

func TestClockState_Transition_ClockInPMClosesOpenAM(t *testing.T) {
	s, err := freshState().Transition(ActionClockInAM)
	require.NoError(t, err)

	s, err = s.Transition(ActionClockInPM)
	require.NoError(t, err)

	assert.Equal(t, SlotCompleted, s.AM)
	assert.Equal(t, SlotOpen, s.PM)
	assert.Equal(t, 2, s.Sessions)
}

func TestClockState_Transition_ClockInAMWhilePMOpen(t *testing.T) {
	s, err := freshState().Transition(ActionClockInPM)
	require.NoError(t, err)

	_, err = s.Transition(ActionClockInAM)
	requireRejected(t, err, ReasonSessionOpen)
}

func TestClockState_Transition_SessionLimit(t *testing.T) {
	s := ClockState{AM: SlotCompleted, PM: SlotNotStarted, Sessions: 1, MaxSessions: 1}

	_, err := s.Transition(ActionClockInPM)
	requireRejected(t, err, ReasonSessionLimit)
}

func TestClockState_Transition_SessionLimitWithOpenAM(t *testing.T) {
	s := ClockState{AM: SlotOpen, PM: SlotNotStarted, Sessions: 1, MaxSessions: 1}

	next, err := s.Transition(ActionClockInPM)

	requireRejected(t, err, ReasonSessionLimit)
	assert.Equal(t, s, next)
	assert.False(t, s.Flags().CanClockInPM)
	assert.True(t, s.Flags().CanClockOutAM)
}

func TestClockState_Transition_ClockInPMCountsNewSession(t *testing.T) {
	// Two AM sessions already logged, the second still open.
	s := ClockState{AM: SlotOpen, PM: SlotNotStarted, Sessions: 2, MaxSessions: 2}

	_, err := s.Transition(ActionClockInPM)
	requireRejected(t, err, ReasonSessionLimit)

	s.MaxSessions = 3
	next, err := s.Transition(ActionClockInPM)
	require.NoError(t, err)
	assert.Equal(t, 3, next.Sessions)
}

func TestClockState_Transition_Breaks(t *testing.T) {
	_, err := freshState().Transition(ActionBreakStart)
	requireRejected(t, err, ReasonNoOpenSession)

	_, err = freshState().Transition(ActionBreakEnd)
	requireRejected(t, err, ReasonNotOnBreak)

	s, err := freshState().Transition(ActionClockInAM)
	require.NoError(t, err)
	s, err = s.Transition(ActionBreakStart)
	require.NoError(t, err)

	_, err = s.Transition(ActionBreakStart)
	requireRejected(t, err, ReasonAlreadyOnBreak)

	_, err = s.Transition(ActionClockOutAM)
	requireRejected(t, err, ReasonOnBreak)

	_, err = s.Transition(ActionClockInPM)
	requireRejected(t, err, ReasonOnBreak)
}

func TestClockState_Transition_UnknownAction(t *testing.T) {
	_, err := freshState().Transition(ClockAction("teleport"))
	assert.ErrorIs(t, err, ErrUnknownClockAction)
}

func TestClockState_Transition_DoesNotMutateReceiver(t *testing.T) {
	s := freshState()

	_, err := s.Transition(ActionClockInAM)
	require.NoError(t, err)

	assert.Equal(t, SlotNotStarted, s.AM)
	assert.Equal(t, 0, s.Sessions)
}

func TestClockState_Flags_Fresh(t *testing.T) {
	f := freshState().Flags()

	assert.True(t, f.CanClockInAM)
	assert.True(t, f.CanClockInPM)
	assert.False(t, f.CanClockOutAM)
	assert.False(t, f.CanClockOutPM)
	assert.False(t, f.CanStartBreak)
	assert.False(t, f.CanEndBreak)
	assert.False(t, f.AMSessionCompleted)
	assert.False(t, f.AllSessionsCompleted)
}

func TestClockState_Flags_AMDone(t *testing.T) {
	s := ClockState{AM: SlotCompleted, PM: SlotNotStarted, Sessions: 1, MaxSessions: 2}
	f := s.Flags()

	assert.False(t, f.CanClockInAM)
	assert.True(t, f.CanClockInPM)
	assert.True(t, f.AMSessionCompleted)
	assert.False(t, f.PMSessionCompleted)
}

func TestClockAction_Event(t *testing.T) {
	typ, tag := ActionClockInPM.Event()
	assert.Equal(t, EventClockIn, typ)
	require.NotNil(t, tag)
	assert.Equal(t, SessionPM, *tag)

	typ, tag = ActionBreakEnd.Event()
	assert.Equal(t, EventBreakEnd, typ)
	assert.Nil(t, tag)
}

func TestRejectionError_Message(t *testing.T) {
	err := &RejectionError{Action: ActionClockOutAM, Reason: ReasonAMNotOpen}

	assert.Equal(t, "clock_out_am rejected: AM session is not open", err.Error())
}
