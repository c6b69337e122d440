package discovery

import (
	"strings"

	"github.com/parleyhq/parley/internal/domain"
)

const (
	// Whole-query substring bonuses, independent of per-term scoring.
	nameMatchBonus  = 100
	titleMatchBonus = 80

	// Per-term contributions.
	occurrenceWeight = 10
	specialtyBonus   = 30
	expertiseBonus   = 25

	featuredBonus = 20

	// Filter-only listings route through the same scorer; an empty query
	// assigns every candidate this uniform score.
	emptyQueryScore = 1
)

// RelevanceScore computes the raw text relevance of a profile against a
// query string. Scores are intentionally unnormalized and only comparable
// within one query execution. An empty query yields emptyQueryScore for
// every candidate.
func RelevanceScore(p *domain.AdvisorProfile, query string) int {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return emptyQueryScore
	}

	score := 0

	name := strings.ToLower(p.DisplayName())
	title := strings.ToLower(p.Persona.Title)
	if strings.Contains(name, query) {
		score += nameMatchBonus
	}
	if strings.Contains(title, query) {
		score += titleMatchBonus
	}

	haystack := searchableText(p)
	for _, term := range strings.Fields(query) {
		score += strings.Count(haystack, term) * occurrenceWeight
		if anyContains(p.Persona.Specialties, term) {
			score += specialtyBonus
		}
		if anyContains(p.Persona.Expertise, term) {
			score += expertiseBonus
		}
	}

	if p.Featured {
		score += featuredBonus
	}

	return score
}

// RatingScore is the review-aggregate rating of a profile. Reviews are not
// implemented yet, so this returns a constant 0 for every profile; the
// "rating" sort strategy falls through to its featured/newest tie-breaks.
// This stub is the extension point for the future reviews feature.
func RatingScore(p *domain.AdvisorProfile) int {
	_ = p
	return 0
}

// searchableText concatenates all searchable profile fields into one
// lower-cased string for per-term occurrence counting.
func searchableText(p *domain.AdvisorProfile) string {
	parts := []string{
		p.DisplayName(),
		p.Persona.Title,
		p.Persona.Description,
		p.Persona.OneLiner,
	}
	parts = append(parts, p.Persona.Specialties...)
	parts = append(parts, p.Persona.Expertise...)
	parts = append(parts, p.Tags...)
	parts = append(parts, p.CategoryKey())
	return strings.ToLower(strings.Join(parts, " "))
}

// anyContains reports whether any entry contains term as a substring.
// The bonus is flat: one matching entry is enough, more add nothing.
func anyContains(entries []string, term string) bool {
	for _, e := range entries {
		if strings.Contains(strings.ToLower(e), term) {
			return true
		}
	}
	return false
}
