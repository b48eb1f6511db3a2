package domain

import (
	"math"
	"sort"
)

// スコアリングの重み。直接マッチが最も重く、カテゴリ親和性は高/中の二段階のみ。
const (
	directMatchWeight    = 50.0
	highAffinityWeight   = 35.0
	mediumAffinityWeight = 20.0
	ratingBoostPivot     = 4.0
	ratingBoostScale     = 15.0

	// matchedScoreThreshold を超えたペルソナだけが MatchedPersonaIDs に入る。
	matchedScoreThreshold = 50.0

	// RecommendThreshold 以上のスコアで IsRecommended が立つ。
	RecommendThreshold = 75
)

// PersonaCatalog はペルソナ定義を束ね、サイトとの適合度スコアを計算するエンジン。
// 定義はコンストラクタで固定され、以後すべての操作は純粋関数として振る舞う。
type PersonaCatalog struct {
	defs []PersonaDefinition
	byID map[string]PersonaDefinition
}

// NewPersonaCatalog builds a scoring catalog from persona definitions.
func NewPersonaCatalog(defs []PersonaDefinition) PersonaCatalog {
	byID := make(map[string]PersonaDefinition, len(defs))
	for _, def := range defs {
		byID[def.ID] = def
	}
	return PersonaCatalog{
		defs: append([]PersonaDefinition(nil), defs...),
		byID: byID,
	}
}

// Definitions returns the persona definitions backing this catalog.
func (c PersonaCatalog) Definitions() []PersonaDefinition {
	return append([]PersonaDefinition(nil), c.defs...)
}

// ScoreSite はサイトと保持ペルソナ群の適合度を 0〜100 で返す。
// 複数ペルソナは平均ではなく最大値を採用する。どれか一つに強く合う
// サイトを埋もれさせないための仕様。未知のペルソナIDは 0 点扱いで無視する。
func (c PersonaCatalog) ScoreSite(site HeritageSite, personaIDs []string) (int, []string) {
	if len(personaIDs) == 0 {
		// ペルソナ未設定時は評価点のみのフォールバック。
		return clampScore(site.Rating / 5 * 100), nil
	}

	best := 0.0
	matched := make([]string, 0, len(personaIDs))
	for _, id := range personaIDs {
		score := c.scoreForPersona(site, id)
		if score > best {
			best = score
		}
		if score > matchedScoreThreshold {
			matched = append(matched, id)
		}
	}
	if len(matched) == 0 {
		matched = nil
	}
	return clampScore(best), matched
}

// scoreForPersona は単一ペルソナ視点の素点を返す。カテゴリ親和性は高/中どちらか一方のみ加算。
func (c PersonaCatalog) scoreForPersona(site HeritageSite, personaID string) float64 {
	score := 0.0
	if site.HasPersona(personaID) {
		score += directMatchWeight
	}
	if def, ok := c.byID[personaID]; ok {
		switch {
		case def.hasHighAffinity(site.Category):
			score += highAffinityWeight
		case def.hasMediumAffinity(site.Category):
			score += mediumAffinityWeight
		}
	}
	if boost := (site.Rating - ratingBoostPivot) * ratingBoostScale; boost > 0 {
		score += boost
	}
	return score
}

// RankSites scores every site and returns them ordered by descending match score.
// Ties break on higher rating, then on ascending site ID so the order is
// deterministic across calls. A limit of 0 or below means no truncation.
func (c PersonaCatalog) RankSites(sites []HeritageSite, personaIDs []string, limit int) []ScoredSite {
	scored := make([]ScoredSite, 0, len(sites))
	for _, site := range sites {
		score, matched := c.ScoreSite(site, personaIDs)
		scored = append(scored, ScoredSite{
			HeritageSite:      site,
			MatchScore:        score,
			MatchedPersonaIDs: matched,
			IsRecommended:     score >= RecommendThreshold,
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].MatchScore != scored[j].MatchScore {
			return scored[i].MatchScore > scored[j].MatchScore
		}
		if scored[i].Rating != scored[j].Rating {
			return scored[i].Rating > scored[j].Rating
		}
		return scored[i].ID < scored[j].ID
	})

	if limit > 0 && len(scored) > limit {
		scored = scored[:limit]
	}
	return scored
}

// FilterByPersonas はキュレーション済みペルソナまたは計算済みマッチが
// activeIDs と交差するサイトだけを残す。空フィルタは全件をそのまま返す。
func FilterByPersonas(scored []ScoredSite, activeIDs []string) []ScoredSite {
	if len(activeIDs) == 0 {
		return scored
	}

	active := make(map[string]struct{}, len(activeIDs))
	for _, id := range activeIDs {
		active[id] = struct{}{}
	}

	result := make([]ScoredSite, 0, len(scored))
	for _, site := range scored {
		if intersectsPersonaSet(site.PersonaIDs, active) || intersectsPersonaSet(site.MatchedPersonaIDs, active) {
			result = append(result, site)
		}
	}
	return result
}

// CountMatchesPerPersona はフィルタチップのバッジ用に、ペルソナごとの該当サイト数を数える。
// キュレーション済み指定か高親和カテゴリのどちらかで該当とみなす。全件再計算。
func (c PersonaCatalog) CountMatchesPerPersona(sites []HeritageSite) map[string]int {
	counts := make(map[string]int, len(c.defs))
	for _, def := range c.defs {
		counts[def.ID] = 0
		for _, site := range sites {
			if site.HasPersona(def.ID) || def.hasHighAffinity(site.Category) {
				counts[def.ID]++
			}
		}
	}
	return counts
}

func intersectsPersonaSet(ids []string, set map[string]struct{}) bool {
	for _, id := range ids {
		if _, ok := set[id]; ok {
			return true
		}
	}
	return false
}

func clampScore(value float64) int {
	if value < 0 {
		value = 0
	}
	if value > 100 {
		value = 100
	}
	return int(math.Round(value))
}
