package domain

import (
	"fmt"
	"math"
	"net/url"
	"strings"
)

var (
	allowedSiteTags = []string{"unesco", "guided_tours", "audio_guide", "wheelchair_accessible", "family_friendly", "night_visits"}

	knownCategories = []string{
		"archaeological_site",
		"monument",
		"museum",
		"fortress",
		"palace",
		"historic_district",
		"religious_site",
		"temple",
		"garden",
		"cultural_landscape",
	}

	knownPersonaIDs = []string{
		"archaeologist",
		"art-lover",
		"pilgrim",
		"historian",
		"nature-wanderer",
		"architecture-enthusiast",
	}
)

type Category string

func NewCategory(value string) (Category, error) {
	code := canonicalCategoryCode(value)
	if code == "" {
		return "", fmt.Errorf("category is required")
	}
	for _, known := range knownCategories {
		if known == code {
			return Category(code), nil
		}
	}
	return "", fmt.Errorf("invalid category: %s", value)
}

func (c Category) String() string {
	return string(c)
}

type Country string

func NewCountry(value string) (Country, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", fmt.Errorf("country is required")
	}
	return Country(trimmed), nil
}

func (c Country) String() string {
	return string(c)
}

type PersonaID string

func NewPersonaID(value string) (PersonaID, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", fmt.Errorf("persona id is required")
	}
	for _, known := range knownPersonaIDs {
		if known == trimmed {
			return PersonaID(trimmed), nil
		}
	}
	return "", fmt.Errorf("invalid persona id: %s", trimmed)
}

type PersonaIDList []PersonaID

func NewPersonaIDList(values []string) (PersonaIDList, error) {
	if len(values) == 0 {
		return nil, nil
	}
	result := make([]PersonaID, 0, len(values))
	seen := make(map[PersonaID]struct{})
	for _, raw := range values {
		id, err := NewPersonaID(raw)
		if err != nil {
			return nil, err
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		result = append(result, id)
	}
	return PersonaIDList(result), nil
}

func (l PersonaIDList) Strings() []string {
	result := make([]string, 0, len(l))
	for _, v := range l {
		result = append(result, string(v))
	}
	return result
}

type Tag string

func NewTag(value string) (Tag, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", fmt.Errorf("tag is required")
	}
	for _, allowed := range allowedSiteTags {
		if allowed == trimmed {
			return Tag(trimmed), nil
		}
	}
	return "", fmt.Errorf("invalid tag: %s", trimmed)
}

type TagList []Tag

func NewTagList(values []string) (TagList, error) {
	if len(values) == 0 {
		return nil, nil
	}
	result := make([]Tag, 0, len(values))
	seen := make(map[Tag]struct{})
	for _, raw := range values {
		tag, err := NewTag(raw)
		if err != nil {
			return nil, err
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		result = append(result, tag)
	}
	return TagList(result), nil
}

func (l TagList) Strings() []string {
	result := make([]string, 0, len(l))
	for _, v := range l {
		result = append(result, string(v))
	}
	return result
}

// Rating is the curated site rating, stored in half-point steps.
type Rating float64

func NewRating(value float64) (Rating, error) {
	if value < 0 || value > 5 {
		return 0, fmt.Errorf("rating must be between 0 and 5")
	}
	// 0.5刻みに丸めて保存する。表示側は刻み幅を前提にしている。
	return Rating(math.Round(value*2) / 2), nil
}

func (r Rating) Float64() float64 {
	return float64(r)
}

type DurationMinutes int

func NewDurationMinutes(value int) (DurationMinutes, error) {
	if value < 0 {
		return 0, fmt.Errorf("duration must be >= 0")
	}
	return DurationMinutes(value), nil
}

func (d DurationMinutes) Int() int {
	return int(d)
}

type Coordinates struct {
	Lat float64
	Lng float64
}

func NewCoordinates(lat, lng float64) (Coordinates, error) {
	if lat < -90 || lat > 90 {
		return Coordinates{}, fmt.Errorf("latitude must be between -90 and 90")
	}
	if lng < -180 || lng > 180 {
		return Coordinates{}, fmt.Errorf("longitude must be between -180 and 180")
	}
	return Coordinates{Lat: lat, Lng: lng}, nil
}

type URL string

func NewURL(value string) (URL, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", nil
	}
	if _, err := url.ParseRequestURI(trimmed); err != nil {
		return "", fmt.Errorf("invalid URL: %w", err)
	}
	return URL(trimmed), nil
}

func (u URL) String() string {
	return string(u)
}

type PhotoURL string

func NewPhotoURL(value string) (PhotoURL, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", fmt.Errorf("photo URL is required")
	}
	if _, err := url.ParseRequestURI(trimmed); err != nil {
		return "", fmt.Errorf("invalid photo URL: %w", err)
	}
	return PhotoURL(trimmed), nil
}

func (u PhotoURL) String() string {
	return string(u)
}

type PhotoURLList []PhotoURL

func NewPhotoURLList(values []string, limit int) (PhotoURLList, error) {
	if len(values) == 0 {
		return nil, nil
	}
	if limit > 0 && len(values) > limit {
		return nil, fmt.Errorf("photo URLs must be <= %d", limit)
	}
	result := make([]PhotoURL, 0, len(values))
	for _, raw := range values {
		urlValue, err := NewPhotoURL(raw)
		if err != nil {
			return nil, err
		}
		result = append(result, urlValue)
	}
	return PhotoURLList(result), nil
}

func (l PhotoURLList) Strings() []string {
	result := make([]string, 0, len(l))
	for _, v := range l {
		result = append(result, string(v))
	}
	return result
}

func canonicalCategoryCode(input string) string {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return ""
	}

	lower := strings.ToLower(strings.ReplaceAll(trimmed, " ", "_"))
	switch lower {
	case "ruins", "excavation", "archaeological":
		return "archaeological_site"
	case "memorial", "statue":
		return "monument"
	case "gallery", "art_museum":
		return "museum"
	case "castle", "citadel":
		return "fortress"
	case "church", "cathedral", "mosque", "synagogue":
		return "religious_site"
	case "shrine":
		return "temple"
	case "old_town", "quarter":
		return "historic_district"
	case "park", "botanical_garden":
		return "garden"
	case "terraces", "vineyard", "landscape":
		return "cultural_landscape"
	}

	return lower
}
