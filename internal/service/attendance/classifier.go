package attendance

import (
	"time"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/attendance"
)

// ClassificationStrategy labels a session as AM and/or PM. It returns false
// when it does not apply, letting the next strategy try.
type ClassificationStrategy interface {
	Name() string
	Classify(session attendance.WorkSession, loc *time.Location) ([]attendance.SessionSegment, bool)
}

// Classifier tries its strategies in order; the first one that applies wins.
type Classifier struct {
	strategies []ClassificationStrategy
}

func NewClassifier(strategies ...ClassificationStrategy) *Classifier {
	return &Classifier{strategies: strategies}
}

// DefaultClassifier uses explicit tags first, then the noon split for an
// untagged session that crosses noon, then the start-hour heuristic.
func DefaultClassifier() *Classifier {
	return NewClassifier(TaggedStrategy{}, NoonSplitStrategy{}, StartHourStrategy{})
}

// Classify labels every session and returns the display segments. All
// hour-of-day decisions are made in loc.
func (c *Classifier) Classify(sessions []attendance.WorkSession, loc *time.Location) ([]attendance.WorkSession, []attendance.SessionSegment) {
	labeled := make([]attendance.WorkSession, len(sessions))
	var segments []attendance.SessionSegment

	for i, s := range sessions {
		labeled[i] = s
		labeled[i].Label = attendance.LabelUnknown

		for _, strategy := range c.strategies {
			segs, ok := strategy.Classify(s, loc)
			if !ok || len(segs) == 0 {
				continue
			}
			labeled[i].Label = segs[0].Label
			for _, seg := range segs {
				seg.Session = i
				segments = append(segments, seg)
			}
			break
		}
	}
	return labeled, segments
}

// TaggedStrategy trusts the session tag recorded by the clock action.
type TaggedStrategy struct{}

func (TaggedStrategy) Name() string { return "tagged" }

func (TaggedStrategy) Classify(s attendance.WorkSession, _ *time.Location) ([]attendance.SessionSegment, bool) {
	tag := s.Tag()
	if tag == nil || !tag.Valid() {
		return nil, false
	}
	return []attendance.SessionSegment{{Label: attendance.SessionLabel(*tag), Start: s.Start, End: s.End}}, true
}

// NoonSplitStrategy cuts a closed session that starts before local noon and
// ends after it into an AM leg and a PM leg. Ongoing sessions are not split.
type NoonSplitStrategy struct{}

func (NoonSplitStrategy) Name() string { return "noon_split" }

func (NoonSplitStrategy) Classify(s attendance.WorkSession, loc *time.Location) ([]attendance.SessionSegment, bool) {
	if s.End == nil {
		return nil, false
	}
	noon := LocalNoon(s.Start, loc)
	if !s.Start.Before(noon) || !s.End.After(noon) {
		return nil, false
	}
	amEnd := noon
	return []attendance.SessionSegment{
		{Label: attendance.LabelAM, Start: s.Start, End: &amEnd},
		{Label: attendance.LabelPM, Start: noon, End: s.End},
	}, true
}

// StartHourStrategy labels by the hour the session started: before 12 is AM.
type StartHourStrategy struct{}

func (StartHourStrategy) Name() string { return "start_hour" }

func (StartHourStrategy) Classify(s attendance.WorkSession, loc *time.Location) ([]attendance.SessionSegment, bool) {
	label := attendance.LabelPM
	if s.Start.In(loc).Hour() < 12 {
		label = attendance.LabelAM
	}
	return []attendance.SessionSegment{{Label: label, Start: s.Start, End: s.End}}, true
}
