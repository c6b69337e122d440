package discovery

import (
	"testing"
	"time"

	"github.com/parleyhq/parley/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testProfile(id string, mutate ...func(*domain.AdvisorProfile)) *domain.AdvisorProfile {
	p := &domain.AdvisorProfile{
		ID:        id,
		FirstName: "Advisor",
		LastName:  id,
		Public:    true,
		Status:    domain.AdvisorStatusActive,
		CreatedAt: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	}
	for _, m := range mutate {
		m(p)
	}
	return p
}

func resultIDs(results []*RankedResult) []string {
	ids := make([]string, len(results))
	for i, r := range results {
		ids[i] = r.Profile.ID
	}
	return ids
}

func TestListAdvisors_PreservesCatalogOrder(t *testing.T) {
	snapshot := []*domain.AdvisorProfile{
		testProfile("a"),
		testProfile("b"),
		testProfile("c"),
	}

	results := ListAdvisors(snapshot, Query{})

	assert.Equal(t, []string{"a", "b", "c"}, resultIDs(results))
}

func TestListAdvisors_LimitAppliedLast(t *testing.T) {
	snapshot := []*domain.AdvisorProfile{
		testProfile("hidden", func(p *domain.AdvisorProfile) { p.Public = false }),
		testProfile("a"),
		testProfile("b"),
		testProfile("c"),
	}

	results := ListAdvisors(snapshot, Query{Limit: 2})

	assert.Equal(t, []string{"a", "b"}, resultIDs(results))
}

func TestSearch_VisibilityInvariant(t *testing.T) {
	snapshot := []*domain.AdvisorProfile{
		testProfile("private", func(p *domain.AdvisorProfile) {
			p.Public = false
			p.Featured = true
			p.Persona.Title = "Fundraising Expert"
		}),
		testProfile("inactive", func(p *domain.AdvisorProfile) {
			p.Status = domain.AdvisorStatusInactive
			p.Persona.Title = "Fundraising Expert"
		}),
		testProfile("archived", func(p *domain.AdvisorProfile) {
			p.Status = domain.AdvisorStatusArchived
			p.Persona.Title = "Fundraising Expert"
		}),
		testProfile("visible", func(p *domain.AdvisorProfile) {
			p.Persona.Title = "Fundraising Expert"
		}),
	}

	results := Search(snapshot, Query{Text: "fundraising"})

	require.Len(t, results, 1)
	assert.Equal(t, "visible", results[0].Profile.ID)
}

func TestSearch_ZeroScoreExcluded(t *testing.T) {
	snapshot := []*domain.AdvisorProfile{
		testProfile("match", func(p *domain.AdvisorProfile) {
			p.Persona.Description = "deep fundraising experience"
		}),
		testProfile("nomatch"),
	}

	results := Search(snapshot, Query{Text: "fundraising"})

	assert.Equal(t, []string{"match"}, resultIDs(results))
}

func TestSearch_EmptyQueryUniformScore(t *testing.T) {
	snapshot := []*domain.AdvisorProfile{
		testProfile("a", func(p *domain.AdvisorProfile) {
			p.Persona.Experience = "3 years"
		}),
		testProfile("b", func(p *domain.AdvisorProfile) {
			p.Persona.Experience = "12 years"
		}),
	}

	results := Search(snapshot, Query{Sort: SortExperience})

	require.Len(t, results, 2)
	for _, r := range results {
		assert.Equal(t, float64(1), r.Score)
	}
	// Ordering is governed by the strategy, unaffected by text scoring.
	assert.Equal(t, []string{"b", "a"}, resultIDs(results))
}

func TestSearch_DefaultSortIsRelevance(t *testing.T) {
	snapshot := []*domain.AdvisorProfile{
		testProfile("weak", func(p *domain.AdvisorProfile) {
			p.Persona.Description = "fundraising"
		}),
		testProfile("strong", func(p *domain.AdvisorProfile) {
			p.Persona.Description = "fundraising fundraising fundraising"
			p.Persona.Specialties = []string{"fundraising"}
		}),
	}

	results := Search(snapshot, Query{Text: "fundraising"})

	assert.Equal(t, []string{"strong", "weak"}, resultIDs(results))
}

func TestSearch_ExperienceBracketFilter(t *testing.T) {
	snapshot := []*domain.AdvisorProfile{
		testProfile("five", func(p *domain.AdvisorProfile) {
			p.Persona.Experience = "5 years of operating"
		}),
		testProfile("six", func(p *domain.AdvisorProfile) {
			p.Persona.Experience = "6+ years"
		}),
	}

	results := Search(snapshot, Query{Bracket: domain.ExperienceBracketSenior})

	assert.Equal(t, []string{"six"}, resultIDs(results))
}

func TestSearch_Idempotent(t *testing.T) {
	snapshot := []*domain.AdvisorProfile{
		testProfile("a", func(p *domain.AdvisorProfile) { p.Tags = []string{"growth"} }),
		testProfile("b", func(p *domain.AdvisorProfile) { p.Tags = []string{"growth", "sales"} }),
		testProfile("c", func(p *domain.AdvisorProfile) { p.Featured = true; p.Tags = []string{"growth"} }),
	}
	q := Query{Text: "growth", Tags: []string{"growth"}, Sort: SortRelevance}

	first := Search(snapshot, q)
	second := Search(snapshot, q)

	assert.Equal(t, resultIDs(first), resultIDs(second))
}

func TestSuggest_ExcludesSelected(t *testing.T) {
	snapshot := []*domain.AdvisorProfile{
		testProfile("picked", func(p *domain.AdvisorProfile) { p.Featured = true }),
		testProfile("fresh"),
	}
	history := []*domain.SelectionEvent{
		{ID: "s1", UserID: "u1", AdvisorID: "picked", CreatedAt: time.Now()},
	}

	results := Suggest(snapshot, history, SuggestOptions{UserID: "u1", ExcludeSelected: true})

	assert.Equal(t, []string{"fresh"}, resultIDs(results))
}

func TestSuggest_KeepsSelectedWhenFlagUnset(t *testing.T) {
	snapshot := []*domain.AdvisorProfile{
		testProfile("picked", func(p *domain.AdvisorProfile) { p.Featured = true }),
		testProfile("fresh"),
	}
	history := []*domain.SelectionEvent{
		{ID: "s1", UserID: "u1", AdvisorID: "picked", CreatedAt: time.Now()},
	}

	results := Suggest(snapshot, history, SuggestOptions{UserID: "u1"})

	assert.Len(t, results, 2)
}

func TestSuggest_AnonymousScoring(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	snapshot := []*domain.AdvisorProfile{
		testProfile("featured", func(p *domain.AdvisorProfile) {
			p.Featured = true
			p.Persona.Experience = "8 years"
		}),
		testProfile("recent", func(p *domain.AdvisorProfile) {
			p.CreatedAt = now.Add(-10 * 24 * time.Hour)
		}),
		testProfile("plain", func(p *domain.AdvisorProfile) {
			p.Persona.Experience = "15 years"
			p.Category = "finance"
		}),
	}

	results := Suggest(snapshot, nil, SuggestOptions{Now: now})

	require.Len(t, results, 3)
	scores := make(map[string]float64)
	for _, r := range results {
		scores[r.Profile.ID] = r.Score
	}
	// Only featured/recency bonuses apply; preference-based terms are all 0.
	assert.Equal(t, float64(50), scores["featured"])
	assert.Equal(t, float64(15), scores["recent"])
	assert.Equal(t, float64(0), scores["plain"])
}

func TestSuggest_PreferenceProfileScoring(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	old := now.Add(-90 * 24 * time.Hour)
	snapshot := []*domain.AdvisorProfile{
		testProfile("chosen", func(p *domain.AdvisorProfile) {
			p.Category = "finance"
			p.Persona.Experience = "10 years"
			p.CreatedAt = old
		}),
		testProfile("samecat", func(p *domain.AdvisorProfile) {
			p.Category = "finance"
			p.Persona.Experience = "7 years"
			p.CreatedAt = old
		}),
		testProfile("offcat", func(p *domain.AdvisorProfile) {
			p.Category = "marketing"
			p.Persona.Experience = "10 years"
			p.CreatedAt = old
		}),
	}
	history := []*domain.SelectionEvent{
		{ID: "s1", UserID: "u1", AdvisorID: "chosen", CreatedAt: old},
	}

	results := Suggest(snapshot, history, SuggestOptions{UserID: "u1", ExcludeSelected: true, Now: now})

	require.Len(t, results, 2)
	scores := make(map[string]float64)
	for _, r := range results {
		scores[r.Profile.ID] = r.Score
	}
	// samecat: +30 category, proximity 20-|7-10| = 17 -> 47
	assert.Equal(t, float64(47), scores["samecat"])
	// offcat: proximity 20-0 = 20 only
	assert.Equal(t, float64(20), scores["offcat"])
}

func TestSuggest_DefaultLimit(t *testing.T) {
	snapshot := make([]*domain.AdvisorProfile, 0, 10)
	for i := 0; i < 10; i++ {
		snapshot = append(snapshot, testProfile(string(rune('a'+i))))
	}

	results := Suggest(snapshot, nil, SuggestOptions{})

	assert.Len(t, results, DefaultSuggestLimit)
}

func TestPopular_WeeklyScore(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	snapshot := []*domain.AdvisorProfile{testProfile("a")}

	events := make([]*domain.SelectionEvent, 0, 10)
	for i := 0; i < 8; i++ {
		events = append(events, &domain.SelectionEvent{
			ID: "old", UserID: "u", AdvisorID: "a",
			CreatedAt: now.Add(-30 * 24 * time.Hour),
		})
	}
	for i := 0; i < 2; i++ {
		events = append(events, &domain.SelectionEvent{
			ID: "new", UserID: "u", AdvisorID: "a",
			CreatedAt: now.Add(-24 * time.Hour),
		})
	}

	results := Popular(snapshot, events, TimeFrameWeek, 0, now)

	require.Len(t, results, 1)
	// recent(2) x 2 + total(10) x 0.5 = 9
	assert.Equal(t, float64(9), results[0].Score)
	assert.Equal(t, 10, results[0].TotalSelections)
	assert.Equal(t, 2, results[0].RecentSelections)
}

func TestPopular_AllTimeFrameWeighsRecencyOnce(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	snapshot := []*domain.AdvisorProfile{testProfile("a")}
	events := []*domain.SelectionEvent{
		{ID: "s1", UserID: "u", AdvisorID: "a", CreatedAt: now.Add(-400 * 24 * time.Hour)},
		{ID: "s2", UserID: "u", AdvisorID: "a", CreatedAt: now.Add(-time.Hour)},
	}

	results := Popular(snapshot, events, TimeFrameAll, 0, now)

	require.Len(t, results, 1)
	// every event is recent at epoch-0 cutoff: 2x1 + 2x0.5 = 3
	assert.Equal(t, float64(3), results[0].Score)
}

func TestPopular_OrdersDescendingAndLimits(t *testing.T) {
	now := time.Now()
	snapshot := []*domain.AdvisorProfile{
		testProfile("quiet"),
		testProfile("busy"),
		testProfile("mid"),
	}
	events := []*domain.SelectionEvent{
		{ID: "1", UserID: "u", AdvisorID: "busy", CreatedAt: now},
		{ID: "2", UserID: "u", AdvisorID: "busy", CreatedAt: now},
		{ID: "3", UserID: "u", AdvisorID: "mid", CreatedAt: now},
	}

	results := Popular(snapshot, events, TimeFrameMonth, 2, now)

	assert.Equal(t, []string{"busy", "mid"}, resultIDs(results))
}

func TestPopular_VisibilityInvariant(t *testing.T) {
	now := time.Now()
	snapshot := []*domain.AdvisorProfile{
		testProfile("hidden", func(p *domain.AdvisorProfile) { p.Public = false }),
		testProfile("shown"),
	}
	events := []*domain.SelectionEvent{
		{ID: "1", UserID: "u", AdvisorID: "hidden", CreatedAt: now},
	}

	results := Popular(snapshot, events, TimeFrameWeek, 0, now)

	assert.Equal(t, []string{"shown"}, resultIDs(results))
}
