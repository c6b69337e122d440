package discovery

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Rank orders results according to the named strategy and returns a new
// slice; the input is left untouched. An unknown strategy is a deliberate
// no-op that returns the input order unchanged, not a fallback to relevance.
func Rank(results []*RankedResult, strategy SortStrategy) []*RankedResult {
	out := make([]*RankedResult, len(results))
	copy(out, results)

	switch strategy {
	case SortRelevance:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Score > out[j].Score
		})
	case SortRating:
		// No review aggregate exists yet (RatingScore is a constant stub),
		// so ordering falls through to featured-first, then newest. A known
		// limitation, kept on purpose until reviews land.
		sort.SliceStable(out, func(i, j int) bool {
			ri, rj := RatingScore(out[i].Profile), RatingScore(out[j].Profile)
			if ri != rj {
				return ri > rj
			}
			if out[i].Profile.Featured != out[j].Profile.Featured {
				return out[i].Profile.Featured
			}
			return out[i].Profile.CreatedAt.After(out[j].Profile.CreatedAt)
		})
	case SortExperience:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].ExperienceYears > out[j].ExperienceYears
		})
	case SortNewest:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Profile.CreatedAt.After(out[j].Profile.CreatedAt)
		})
	case SortName:
		// Collators buffer internally and are not safe for concurrent use,
		// so build one per call.
		c := collate.New(language.English, collate.IgnoreCase)
		sort.SliceStable(out, func(i, j int) bool {
			return c.CompareString(out[i].Profile.DisplayName(), out[j].Profile.DisplayName()) < 0
		})
	}

	return out
}
