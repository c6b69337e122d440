package domain

import "strconv"

// ExperienceBracket names an inclusive range of experience years
type ExperienceBracket string

const (
	ExperienceBracketEntry  ExperienceBracket = "entry"  // 0-2 years
	ExperienceBracketMid    ExperienceBracket = "mid"    // 3-5 years
	ExperienceBracketSenior ExperienceBracket = "senior" // 6-10 years
	ExperienceBracketExpert ExperienceBracket = "expert" // 11+ years
)

// IsValidExperienceBracket checks if an ExperienceBracket is recognized
func IsValidExperienceBracket(b ExperienceBracket) bool {
	switch b {
	case ExperienceBracketEntry, ExperienceBracketMid, ExperienceBracketSenior, ExperienceBracketExpert:
		return true
	}
	return false
}

// Contains reports whether the given year count falls inside the bracket.
// Unrecognized brackets contain nothing.
func (b ExperienceBracket) Contains(years int) bool {
	switch b {
	case ExperienceBracketEntry:
		return years >= 0 && years <= 2
	case ExperienceBracketMid:
		return years >= 3 && years <= 5
	case ExperienceBracketSenior:
		return years >= 6 && years <= 10
	case ExperienceBracketExpert:
		return years >= 11
	}
	return false
}

// ParseExperienceYears extracts the first integer token from a free-text
// experience descriptor ("5+ years" -> 5, "over 12 yrs" -> 12). It is total:
// an empty or unparseable descriptor yields 0.
func ParseExperienceYears(descriptor string) int {
	start := -1
	for i, r := range descriptor {
		if r >= '0' && r <= '9' {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			years, err := strconv.Atoi(descriptor[start:i])
			if err != nil {
				return 0
			}
			return years
		}
	}
	if start < 0 {
		return 0
	}
	years, err := strconv.Atoi(descriptor[start:])
	if err != nil {
		return 0
	}
	return years
}
