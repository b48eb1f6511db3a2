package domain

import "time"

// Site aggregates the heritage-site data required for admin operations.
type Site struct {
	ID              string
	Name            string
	Description     string
	Category        Category
	Country         Country
	City            string
	Coordinates     Coordinates
	Rating          Rating
	DurationMinutes DurationMinutes
	PersonaIDs      PersonaIDList
	Tags            TagList
	OfficialURL     URL
	PhotoURLs       PhotoURLList
	EvaluationCount int
	LastEvaluatedAt *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
