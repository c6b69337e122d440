package discovery

import (
	"sort"
	"strings"
	"time"

	"github.com/parleyhq/parley/internal/domain"
)

const (
	// DefaultSuggestLimit caps suggestion listings when no limit is given.
	DefaultSuggestLimit = 6
	// DefaultPopularLimit caps popularity listings when no limit is given.
	DefaultPopularLimit = 10
)

// SuggestOptions controls a suggestion request. A zero UserID means an
// anonymous caller; Now anchors the recent-creation bonus.
type SuggestOptions struct {
	UserID          string
	Limit           int
	ExcludeSelected bool
	Now             time.Time
}

// ListAdvisors applies the filter pipeline only: no scoring, catalog order
// preserved, optional limit applied last.
func ListAdvisors(snapshot []*domain.AdvisorProfile, q Query) []*RankedResult {
	return applyLimit(wrapProfiles(Filter(snapshot, q)), q.Limit)
}

// Search filters, scores text relevance, drops zero-score candidates when a
// query term is present, orders by the requested strategy and limits. With an
// empty query every candidate scores a uniform 1, so ordering is governed by
// the strategy alone.
func Search(snapshot []*domain.AdvisorProfile, q Query) []*RankedResult {
	candidates := Filter(snapshot, q)

	text := strings.ToLower(strings.TrimSpace(q.Text))
	results := make([]*RankedResult, 0, len(candidates))
	for _, p := range candidates {
		score := RelevanceScore(p, text)
		// A query term acts as an implicit filter: zero relevance means
		// excluded, not ranked last.
		if text != "" && score == 0 {
			continue
		}
		results = append(results, &RankedResult{
			Profile:         p,
			Score:           float64(score),
			ExperienceYears: p.ExperienceYears(),
		})
	}

	strategy := q.Sort
	if strategy == "" {
		strategy = SortRelevance
	}
	return applyLimit(Rank(results, strategy), q.Limit)
}

// Suggest scores unselected visible advisors against the user's preference
// profile. Anonymous callers get an empty profile; that is a supported path,
// not an error.
func Suggest(snapshot []*domain.AdvisorProfile, history []*domain.SelectionEvent, opts SuggestOptions) []*RankedResult {
	byID := indexByID(snapshot)
	prefs := BuildPreferenceProfile(byID, history)

	selected := make(map[string]struct{})
	if opts.ExcludeSelected && opts.UserID != "" {
		for _, e := range history {
			if e != nil {
				selected[e.AdvisorID] = struct{}{}
			}
		}
	}

	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	results := make([]*RankedResult, 0, len(snapshot))
	for _, p := range visibleOnly(snapshot) {
		if _, ok := selected[p.ID]; ok {
			continue
		}
		results = append(results, &RankedResult{
			Profile:         p,
			Score:           suggestionScore(p, prefs, now),
			ExperienceYears: p.ExperienceYears(),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultSuggestLimit
	}
	return applyLimit(results, limit)
}

// Popular orders visible advisors by recency-weighted selection counts for
// the given time frame. Popularity listings always order descending by score
// and bypass the sort strategy selector.
func Popular(snapshot []*domain.AdvisorProfile, events []*domain.SelectionEvent, frame TimeFrame, limit int, now time.Time) []*RankedResult {
	if now.IsZero() {
		now = time.Now()
	}
	cutoff := windowCutoff(frame, now)
	total, recent := countSelections(events, cutoff)

	results := make([]*RankedResult, 0, len(snapshot))
	for _, p := range visibleOnly(snapshot) {
		results = append(results, &RankedResult{
			Profile:          p,
			Score:            popularityScore(recent[p.ID], total[p.ID], frame),
			ExperienceYears:  p.ExperienceYears(),
			TotalSelections:  total[p.ID],
			RecentSelections: recent[p.ID],
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if limit <= 0 {
		limit = DefaultPopularLimit
	}
	return applyLimit(results, limit)
}

func indexByID(snapshot []*domain.AdvisorProfile) map[string]*domain.AdvisorProfile {
	byID := make(map[string]*domain.AdvisorProfile, len(snapshot))
	for _, p := range snapshot {
		if p != nil {
			byID[p.ID] = p
		}
	}
	return byID
}
