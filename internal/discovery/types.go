// Package discovery implements the advisor discovery and ranking engine:
// hard filtering, field-weighted text relevance, competing sort strategies,
// time-decayed popularity and behavioral suggestion scoring. Every operation
// is a pure function over an explicit catalog snapshot; the engine holds no
// state across requests and never mutates its inputs.
package discovery

import (
	"github.com/parleyhq/parley/internal/domain"
)

// SortStrategy names a result ordering
type SortStrategy string

const (
	SortRelevance  SortStrategy = "relevance"
	SortRating     SortStrategy = "rating"
	SortExperience SortStrategy = "experience"
	SortNewest     SortStrategy = "newest"
	SortName       SortStrategy = "name"
)

// TimeFrame selects the popularity counting window
type TimeFrame string

const (
	TimeFrameWeek  TimeFrame = "week"
	TimeFrameMonth TimeFrame = "month"
	TimeFrameAll   TimeFrame = "all"
)

// Query is the caller input for listing and search. All fields are
// independently optional and AND-combined when present.
type Query struct {
	Text     string
	Category string
	Featured *bool
	Tags     []string
	TeamID   string
	Bracket  domain.ExperienceBracket
	Sort     SortStrategy
	Limit    int
}

// RankedResult is one output item of a discovery operation. Score is
// request-scoped and only comparable within a single execution; which scorer
// produced it depends on the operation.
type RankedResult struct {
	Profile          *domain.AdvisorProfile
	Score            float64
	ExperienceYears  int
	TotalSelections  int
	RecentSelections int
}

func wrapProfiles(profiles []*domain.AdvisorProfile) []*RankedResult {
	results := make([]*RankedResult, len(profiles))
	for i, p := range profiles {
		results[i] = &RankedResult{
			Profile:         p,
			ExperienceYears: p.ExperienceYears(),
		}
	}
	return results
}

func applyLimit(results []*RankedResult, limit int) []*RankedResult {
	if limit > 0 && len(results) > limit {
		return results[:limit]
	}
	return results
}
