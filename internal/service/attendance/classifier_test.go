package attendance

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/attendance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifier_TagWinsOverHeuristics(t *testing.T) {
	pm := attendance.SessionPM
	end := at(11, 0)
	// Tagged PM even though it starts in the morning and never crosses noon.
	sessions := []attendance.WorkSession{{Start: at(9, 0), End: &end, StartTag: &pm}}

	labeled, segments := DefaultClassifier().Classify(sessions, manila)

	require.Len(t, segments, 1)
	assert.Equal(t, attendance.LabelPM, labeled[0].Label)
	assert.Equal(t, attendance.LabelPM, segments[0].Label)
}

func TestClassifier_TaggedSessionCrossingNoonNotSplit(t *testing.T) {
	am := attendance.SessionAM
	end := at(13, 0)
	sessions := []attendance.WorkSession{{Start: at(8, 0), End: &end, StartTag: &am}}

	_, segments := DefaultClassifier().Classify(sessions, manila)

	require.Len(t, segments, 1)
	assert.Equal(t, attendance.LabelAM, segments[0].Label)
}

func TestClassifier_UntaggedCrossingNoonIsSplit(t *testing.T) {
	end := at(17, 0)
	sessions := []attendance.WorkSession{{Start: at(8, 0), End: &end}}

	labeled, segments := DefaultClassifier().Classify(sessions, manila)

	require.Len(t, segments, 2)
	assert.Equal(t, attendance.LabelAM, labeled[0].Label)

	assert.Equal(t, attendance.LabelAM, segments[0].Label)
	assert.Equal(t, at(8, 0), segments[0].Start)
	assert.Equal(t, "12:00", clock(segments[0].End))

	assert.Equal(t, attendance.LabelPM, segments[1].Label)
	assert.True(t, at(12, 0).Equal(segments[1].Start))
	assert.Equal(t, "17:00", clock(segments[1].End))

	assert.Equal(t, 0, segments[0].Session)
	assert.Equal(t, 0, segments[1].Session)
}

func TestClassifier_SessionEndingExactlyAtNoonNotSplit(t *testing.T) {
	end := at(12, 0)
	sessions := []attendance.WorkSession{{Start: at(8, 0), End: &end}}

	_, segments := DefaultClassifier().Classify(sessions, manila)

	require.Len(t, segments, 1)
	assert.Equal(t, attendance.LabelAM, segments[0].Label)
}

func TestClassifier_OngoingSessionUsesStartHour(t *testing.T) {
	sessions := []attendance.WorkSession{
		{Start: at(11, 30)},
	}

	labeled, segments := DefaultClassifier().Classify(sessions, manila)

	require.Len(t, segments, 1)
	assert.Equal(t, attendance.LabelAM, labeled[0].Label)
	assert.Nil(t, segments[0].End)
}

func TestClassifier_StartHourAtNoonIsPM(t *testing.T) {
	end := at(17, 0)
	sessions := []attendance.WorkSession{{Start: at(12, 0), End: &end}}

	labeled, _ := DefaultClassifier().Classify(sessions, manila)

	assert.Equal(t, attendance.LabelPM, labeled[0].Label)
}

func TestClassifier_UsesSystemZoneNotUTC(t *testing.T) {
	// 23:30 UTC is 07:30 the next morning in UTC+8.
	start := time.Date(2024, time.March, 10, 23, 30, 0, 0, time.UTC)
	sessions := []attendance.WorkSession{{Start: start}}

	inManila, _ := DefaultClassifier().Classify(sessions, manila)
	inUTC, _ := DefaultClassifier().Classify(sessions, time.UTC)

	assert.Equal(t, attendance.LabelAM, inManila[0].Label)
	assert.Equal(t, attendance.LabelPM, inUTC[0].Label)
}

func TestClassifier_NoStrategiesLeavesUnknown(t *testing.T) {
	sessions := []attendance.WorkSession{{Start: at(8, 0)}}

	labeled, segments := NewClassifier().Classify(sessions, manila)

	assert.Equal(t, attendance.LabelUnknown, labeled[0].Label)
	assert.Empty(t, segments)
}
