package timeline

import (
	"sort"
	"time"
)

// sortEvents orders events in place. Chronological sort interleaves
// approximate events (ordered by story day) with exact events (ordered by
// timestamp): exact timestamps are mapped to a day index relative to the
// earliest exact anchor, approximate events compare by StoryDay directly,
// and on equal days exact events sort first. The sort is stable, so
// insertion order breaks remaining ties.
func sortEvents(events []*Event, key SortKey) {
	switch key {
	case SortImportance:
		sort.SliceStable(events, func(i, j int) bool {
			return events[i].PlotImpact.Importance > events[j].PlotImpact.Importance
		})
	case SortName:
		sort.SliceStable(events, func(i, j int) bool {
			return events[i].Name < events[j].Name
		})
	default:
		anchor := exactAnchor(events)
		sort.SliceStable(events, func(i, j int) bool {
			di, dj := dayIndex(events[i], anchor), dayIndex(events[j], anchor)
			if di != dj {
				return di < dj
			}
			// same day: exact before approximate, then exact by timestamp
			ei, ej := events[i], events[j]
			if ei.Time.IsApproximate != ej.Time.IsApproximate {
				return !ei.Time.IsApproximate
			}
			if !ei.Time.IsApproximate {
				return ei.Time.Timestamp.Before(ej.Time.Timestamp)
			}
			return false
		})
	}
}

// exactAnchor returns the earliest exact timestamp, against which exact
// events are projected onto the story-day axis.
func exactAnchor(events []*Event) time.Time {
	var anchor time.Time
	for _, e := range events {
		if e.Time.IsApproximate {
			continue
		}
		if anchor.IsZero() || e.Time.Timestamp.Before(anchor) {
			anchor = e.Time.Timestamp
		}
	}
	return anchor
}

func dayIndex(e *Event, anchor time.Time) int {
	if e.Time.IsApproximate {
		return e.Time.StoryDay
	}
	if anchor.IsZero() {
		return 0
	}
	return int(e.Time.Timestamp.Sub(anchor).Hours() / 24)
}
