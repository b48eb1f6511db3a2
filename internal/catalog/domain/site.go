package domain

import "time"

// HeritageSite represents a publicly visible heritage-site entity.
type HeritageSite struct {
	ID              string
	Name            string
	Description     string
	Category        string
	Rating          float64
	DurationMinutes int
	Coordinates     Coordinates
	PersonaIDs      []string
	Country         string
	City            string
	Tags            []string
	PhotoURLs       []string
	Stats           SiteStats
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Coordinates holds the map position of a site.
type Coordinates struct {
	Lat float64
	Lng float64
}

// SiteStats aggregates evaluation/wishlist metrics.
type SiteStats struct {
	EvaluationCount int
	AvgSentiment    *float64
	WishlistCount   int
	LastEvaluatedAt *time.Time
}

// ScoredSite is a HeritageSite annotated with the persona match result.
// Derived per query and never persisted.
type ScoredSite struct {
	HeritageSite
	MatchScore        int
	MatchedPersonaIDs []string
	IsRecommended     bool
}

// HasPersona reports whether the curator assigned the given persona to the site.
func (s HeritageSite) HasPersona(personaID string) bool {
	for _, id := range s.PersonaIDs {
		if id == personaID {
			return true
		}
	}
	return false
}
