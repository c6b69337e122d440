package domain

import (
	"fmt"
	"strings"
	"time"
)

// AdvisorStatus represents the lifecycle status of an advisor profile
type AdvisorStatus string

const (
	AdvisorStatusActive   AdvisorStatus = "active"
	AdvisorStatusInactive AdvisorStatus = "inactive"
	AdvisorStatusArchived AdvisorStatus = "archived"
)

// DefaultCategory is used when a profile carries no category
const DefaultCategory = "general"

// Persona holds the presentational block of an advisor profile
type Persona struct {
	Title       string
	Description string
	OneLiner    string
	Specialties []string
	Expertise   []string
	Experience  string // free text, e.g. "5+ years"
}

// TeamAffiliation links an advisor to a team
type TeamAffiliation struct {
	TeamID string
	Role   string
}

// AdvisorProfile represents a catalog entry in the advisor marketplace
type AdvisorProfile struct {
	ID          string
	FirstName   string
	LastName    string
	PersonaName string
	Category    string
	Tags        []string
	Featured    bool
	Public      bool
	Status      AdvisorStatus
	Persona     Persona
	Teams       []TeamAffiliation
	CreatedAt   time.Time
}

// DisplayName returns the persona name when set, otherwise "First Last".
func (a *AdvisorProfile) DisplayName() string {
	if a.PersonaName != "" {
		return a.PersonaName
	}
	return strings.TrimSpace(a.FirstName + " " + a.LastName)
}

// CategoryKey returns the profile's category, defaulting when absent.
func (a *AdvisorProfile) CategoryKey() string {
	if a.Category == "" {
		return DefaultCategory
	}
	return a.Category
}

// ExperienceYears derives the numeric year count from the persona's
// free-text experience descriptor.
func (a *AdvisorProfile) ExperienceYears() int {
	return ParseExperienceYears(a.Persona.Experience)
}

// Visible reports whether the profile may appear in any discovery result.
func (a *AdvisorProfile) Visible() bool {
	return a.Public && a.Status == AdvisorStatusActive
}

// HasTeam reports whether the profile is affiliated with the given team.
func (a *AdvisorProfile) HasTeam(teamID string) bool {
	for _, t := range a.Teams {
		if t.TeamID == teamID {
			return true
		}
	}
	return false
}

// HasAnyTag reports whether the profile's tag set intersects the given set.
func (a *AdvisorProfile) HasAnyTag(tags []string) bool {
	for _, want := range tags {
		for _, have := range a.Tags {
			if have == want {
				return true
			}
		}
	}
	return false
}

// ValidateAdvisorProfile validates an AdvisorProfile instance
func ValidateAdvisorProfile(a *AdvisorProfile) error {
	if a == nil {
		return fmt.Errorf("advisor profile cannot be nil")
	}

	if a.ID == "" {
		return fmt.Errorf("advisor ID is required")
	}

	if a.DisplayName() == "" {
		return fmt.Errorf("advisor display name is required")
	}

	if !isValidAdvisorStatus(a.Status) {
		return fmt.Errorf("advisor Status is invalid: %s", a.Status)
	}

	if a.CreatedAt.IsZero() {
		return fmt.Errorf("advisor CreatedAt is required")
	}

	return nil
}

// isValidAdvisorStatus checks if an AdvisorStatus is valid
func isValidAdvisorStatus(s AdvisorStatus) bool {
	switch s {
	case AdvisorStatusActive, AdvisorStatusInactive, AdvisorStatusArchived:
		return true
	}
	return false
}
