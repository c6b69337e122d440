package discovery

import (
	"time"

	"github.com/parleyhq/parley/internal/domain"
)

const (
	totalCountWeight = 0.5

	// Bounded windows double-count recent activity relative to lifetime
	// activity; the unbounded window weights them equally.
	boundedRecencyWeight  = 2
	lifetimeRecencyWeight = 1
)

// windowCutoff returns the timestamp at/after which a selection counts as
// recent. The "all" frame (and any unrecognized frame) cuts off at epoch 0,
// making every event recent.
func windowCutoff(frame TimeFrame, now time.Time) time.Time {
	switch frame {
	case TimeFrameWeek:
		return now.Add(-7 * 24 * time.Hour)
	case TimeFrameMonth:
		return now.Add(-30 * 24 * time.Hour)
	}
	return time.Unix(0, 0)
}

func recencyWeight(frame TimeFrame) float64 {
	if frame == TimeFrameWeek || frame == TimeFrameMonth {
		return boundedRecencyWeight
	}
	return lifetimeRecencyWeight
}

func popularityScore(recent, total int, frame TimeFrame) float64 {
	return float64(recent)*recencyWeight(frame) + float64(total)*totalCountWeight
}

// countSelections tallies total and windowed selection counts per advisor.
func countSelections(events []*domain.SelectionEvent, cutoff time.Time) (total, recent map[string]int) {
	total = make(map[string]int)
	recent = make(map[string]int)
	for _, e := range events {
		if e == nil {
			continue
		}
		total[e.AdvisorID]++
		if !e.CreatedAt.Before(cutoff) {
			recent[e.AdvisorID]++
		}
	}
	return total, recent
}
