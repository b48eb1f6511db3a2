package domain

import "time"

// PersonaDefinition は推薦スコアリングの基準となる静的なペルソナ定義。
// HighAffinityCategories と MediumAffinityCategories は交差しないことが前提。
type PersonaDefinition struct {
	ID                       string
	Name                     string
	Icon                     string
	HighAffinityCategories   []string
	MediumAffinityCategories []string
}

// UserPersona is the onboarding result owned by a single user.
// The whole set is overwritten on reassessment, never merged.
type UserPersona struct {
	ID          string
	Title       string
	Description string
	Traits      []string
	Likes       []string
	Dislikes    []string
	Icon        string
	Value       int
	CompletedAt *time.Time
}

// DefaultPersonaDefinitions はアプリに組み込まれたペルソナカタログを返す。
// カタログは読み取り専用で、呼び出しごとに新しいスライスを返す。
func DefaultPersonaDefinitions() []PersonaDefinition {
	return []PersonaDefinition{
		{
			ID:                       "archaeologist",
			Name:                     "Archaeologist",
			Icon:                     "🏺",
			HighAffinityCategories:   []string{"archaeological_site", "monument"},
			MediumAffinityCategories: []string{"museum", "fortress"},
		},
		{
			ID:                       "art-lover",
			Name:                     "Art Lover",
			Icon:                     "🎨",
			HighAffinityCategories:   []string{"museum", "palace"},
			MediumAffinityCategories: []string{"historic_district", "religious_site"},
		},
		{
			ID:                       "pilgrim",
			Name:                     "Spiritual Seeker",
			Icon:                     "⛩️",
			HighAffinityCategories:   []string{"religious_site", "temple"},
			MediumAffinityCategories: []string{"monument", "garden"},
		},
		{
			ID:                       "historian",
			Name:                     "Historian",
			Icon:                     "📜",
			HighAffinityCategories:   []string{"fortress", "historic_district"},
			MediumAffinityCategories: []string{"archaeological_site", "palace", "museum"},
		},
		{
			ID:                       "nature-wanderer",
			Name:                     "Nature Wanderer",
			Icon:                     "🌿",
			HighAffinityCategories:   []string{"garden", "cultural_landscape"},
			MediumAffinityCategories: []string{"temple", "archaeological_site"},
		},
		{
			ID:                       "architecture-enthusiast",
			Name:                     "Architecture Enthusiast",
			Icon:                     "🏛️",
			HighAffinityCategories:   []string{"palace", "fortress", "temple"},
			MediumAffinityCategories: []string{"historic_district", "monument"},
		},
	}
}

func (p PersonaDefinition) hasHighAffinity(category string) bool {
	return containsCategory(p.HighAffinityCategories, category)
}

func (p PersonaDefinition) hasMediumAffinity(category string) bool {
	return containsCategory(p.MediumAffinityCategories, category)
}

func containsCategory(categories []string, category string) bool {
	for _, c := range categories {
		if c == category {
			return true
		}
	}
	return false
}
