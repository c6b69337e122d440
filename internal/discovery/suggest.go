package discovery

import (
	"time"

	"github.com/parleyhq/parley/internal/domain"
)

const (
	suggestFeaturedBonus = 50
	suggestCategoryBonus = 30

	// Experience proximity decays linearly to 0 at a 20-year gap.
	suggestProximityMax = 20

	suggestRecentCreationBonus  = 15
	suggestRecentCreationWindow = 30 * 24 * time.Hour
)

// PreferenceProfile is a lightweight, per-request view of a user's taste,
// derived from their selection history. Never persisted.
type PreferenceProfile struct {
	Categories         map[string]struct{}
	MaxExperienceYears int
}

// BuildPreferenceProfile derives a preference profile from the user's
// selection history, resolving selected advisors against the snapshot index.
// An empty history (anonymous caller included) yields an empty profile,
// which is a valid input to suggestion scoring, not an error.
func BuildPreferenceProfile(byID map[string]*domain.AdvisorProfile, history []*domain.SelectionEvent) PreferenceProfile {
	profile := PreferenceProfile{Categories: make(map[string]struct{})}
	for _, e := range history {
		if e == nil {
			continue
		}
		selected, ok := byID[e.AdvisorID]
		if !ok {
			continue
		}
		profile.Categories[selected.CategoryKey()] = struct{}{}
		if years := selected.ExperienceYears(); years > profile.MaxExperienceYears {
			profile.MaxExperienceYears = years
		}
	}
	return profile
}

// Empty reports whether the profile carries no usable history.
func (p PreferenceProfile) Empty() bool {
	return len(p.Categories) == 0
}

// suggestionScore scores a candidate against a preference profile. With an
// empty profile all preference-based terms are 0 and only the featured and
// recent-creation bonuses can fire.
func suggestionScore(p *domain.AdvisorProfile, prefs PreferenceProfile, now time.Time) float64 {
	score := 0.0

	if p.Featured {
		score += suggestFeaturedBonus
	}

	if !prefs.Empty() {
		if _, ok := prefs.Categories[p.CategoryKey()]; ok {
			score += suggestCategoryBonus
		}
		gap := p.ExperienceYears() - prefs.MaxExperienceYears
		if gap < 0 {
			gap = -gap
		}
		if bonus := suggestProximityMax - gap; bonus > 0 {
			score += float64(bonus)
		}
	}

	if now.Sub(p.CreatedAt) <= suggestRecentCreationWindow {
		score += suggestRecentCreationBonus
	}

	return score
}
