package discovery

import (
	"github.com/parleyhq/parley/internal/domain"
)

// Filter applies the hard predicates of a query to a catalog snapshot,
// preserving input order. Visibility (public + active) is applied first and
// unconditionally; the remaining predicates only narrow when specified.
// An empty result is valid, never an error.
func Filter(snapshot []*domain.AdvisorProfile, q Query) []*domain.AdvisorProfile {
	candidates := make([]*domain.AdvisorProfile, 0, len(snapshot))
	for _, p := range snapshot {
		if p == nil || !p.Visible() {
			continue
		}
		if q.Featured != nil && p.Featured != *q.Featured {
			continue
		}
		if q.Category != "" && p.CategoryKey() != q.Category {
			continue
		}
		if q.TeamID != "" && !p.HasTeam(q.TeamID) {
			continue
		}
		// Tag semantics are match-any: one overlapping tag passes.
		if len(q.Tags) > 0 && !p.HasAnyTag(q.Tags) {
			continue
		}
		if q.Bracket != "" && !q.Bracket.Contains(p.ExperienceYears()) {
			continue
		}
		candidates = append(candidates, p)
	}
	return candidates
}

// visibleOnly narrows a snapshot to publicly visible active profiles.
// Suggestion and popularity listings use this instead of the full pipeline.
func visibleOnly(snapshot []*domain.AdvisorProfile) []*domain.AdvisorProfile {
	return Filter(snapshot, Query{})
}
