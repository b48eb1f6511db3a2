package common

import (
	"fmt"
	"strings"
)

var (
	AllowedSiteTags = []string{"unesco", "guided_tours", "audio_guide", "wheelchair_accessible", "family_friendly", "night_visits"}
	KnownPersonaIDs = []string{"archaeologist", "art-lover", "pilgrim", "historian", "nature-wanderer", "architecture-enthusiast"}

	allowedSiteTagSet  = makeStringSet(AllowedSiteTags)
	knownPersonaIDSet  = makeStringSet(KnownPersonaIDs)
	knownCategoryCodes = makeStringSet([]string{
		"archaeological_site", "monument", "museum", "fortress", "palace",
		"historic_district", "religious_site", "temple", "garden", "cultural_landscape",
	})
)

func makeStringSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		set[item] = struct{}{}
	}
	return set
}

// CanonicalCategoryCode normalises category aliases into canonical codes.
// 未知の入力はそのまま返し、採否の判断は呼び出し側に委ねる。
func CanonicalCategoryCode(input string) string {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return ""
	}

	lower := strings.ReplaceAll(strings.ToLower(trimmed), " ", "_")
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

	if _, ok := knownCategoryCodes[lower]; ok {
		return lower
	}

	return lower
}

// IsKnownCategory reports whether code is one of the canonical categories.
func IsKnownCategory(code string) bool {
	_, ok := knownCategoryCodes[code]
	return ok
}

// NormalizePersonaIDs validates and de-duplicates persona identifiers.
func NormalizePersonaIDs(values []string) ([]string, error) {
	seen := make(map[string]struct{})
	result := make([]string, 0, len(values))
	for _, raw := range values {
		id := strings.ToLower(strings.TrimSpace(raw))
		if id == "" {
			continue
		}
		if _, ok := knownPersonaIDSet[id]; !ok {
			return nil, fmt.Errorf("無効なペルソナIDです: %s", raw)
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		result = append(result, id)
	}
	return result, nil
}

// NormalizeSiteTags validates site tag selections.
func NormalizeSiteTags(tags []string) ([]string, error) {
	result := make([]string, 0, len(tags))
	seen := make(map[string]struct{})
	for _, raw := range tags {
		tag := strings.ToLower(strings.TrimSpace(raw))
		if tag == "" {
			continue
		}
		if _, ok := allowedSiteTagSet[tag]; !ok {
			return nil, fmt.Errorf("不正なタグです: %s", raw)
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		result = append(result, tag)
	}
	return result, nil
}
