package domain

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalog() PersonaCatalog {
	return NewPersonaCatalog(DefaultPersonaDefinitions())
}

func museumSite(rating float64, personaIDs ...string) HeritageSite {
	return HeritageSite{
		ID:         "site-museum",
		Name:       "National Museum",
		Category:   "museum",
		Rating:     rating,
		PersonaIDs: personaIDs,
	}
}

func TestScoreSiteDirectMatchWithHighAffinity(t *testing.T) {
	catalog := testCatalog()

	// 直接マッチ(+50) + 高親和カテゴリ(+35) + 評価ブースト(+7.5) = 92.5 → 93
	site := museumSite(4.5, "art-lover")
	score, matched := catalog.ScoreSite(site, []string{"art-lover"})

	assert.Equal(t, 93, score)
	assert.Equal(t, []string{"art-lover"}, matched)
}

func TestScoreSiteRange(t *testing.T) {
	catalog := testCatalog()
	personas := append(catalog.Definitions(), PersonaDefinition{ID: "ghost"})

	for _, def := range personas {
		for _, rating := range []float64{0, 1.5, 3.9, 4.0, 4.2, 5.0} {
			for _, curated := range [][]string{nil, {def.ID}} {
				site := HeritageSite{ID: "s", Category: "temple", Rating: rating, PersonaIDs: curated}
				score, _ := catalog.ScoreSite(site, []string{def.ID})
				assert.GreaterOrEqual(t, score, 0)
				assert.LessOrEqual(t, score, 100)
			}
		}
	}
}

func TestScoreSiteMonotonicInRating(t *testing.T) {
	catalog := testCatalog()

	prev := -1
	for rating := 0.0; rating <= 5.0; rating += 0.25 {
		site := museumSite(rating, "art-lover")
		score, _ := catalog.ScoreSite(site, []string{"art-lover"})
		assert.GreaterOrEqual(t, score, prev, "rating %.2f", rating)
		prev = score
	}
}

func TestScoreSiteDirectMatchDominates(t *testing.T) {
	catalog := testCatalog()

	// 評価ブーストなし(4.0未満)でも、直接マッチだけで50点に到達する。
	site := HeritageSite{ID: "s", Category: "cultural_landscape", Rating: 3.0, PersonaIDs: []string{"historian"}}
	score, _ := catalog.ScoreSite(site, []string{"historian"})
	assert.GreaterOrEqual(t, score, 50)
}

func TestScoreSiteMultiPersonaTakesMax(t *testing.T) {
	catalog := testCatalog()

	// art-lover 視点: 50+35=85 / pilgrim 視点: カテゴリ不一致で 0。
	site := museumSite(3.5, "art-lover")
	score, matched := catalog.ScoreSite(site, []string{"pilgrim", "art-lover"})

	assert.Equal(t, 85, score)
	assert.Equal(t, []string{"art-lover"}, matched)
}

func TestScoreSiteMatchedRequiresMeaningfulContribution(t *testing.T) {
	catalog := testCatalog()

	// 高親和カテゴリのみ(+35)は閾値50を超えないため matched に入らない。
	site := HeritageSite{ID: "s", Category: "museum", Rating: 3.0}
	score, matched := catalog.ScoreSite(site, []string{"art-lover"})

	assert.Equal(t, 35, score)
	assert.Empty(t, matched)
}

func TestScoreSiteNoPersonasFallsBackToRating(t *testing.T) {
	catalog := testCatalog()

	score, matched := catalog.ScoreSite(museumSite(4.5), nil)
	assert.Equal(t, 90, score)
	assert.Empty(t, matched)

	score, _ = catalog.ScoreSite(museumSite(0), nil)
	assert.Equal(t, 0, score)
}

func TestScoreSiteUnknownPersonaIgnored(t *testing.T) {
	catalog := testCatalog()

	site := museumSite(4.5, "art-lover")
	score, matched := catalog.ScoreSite(site, []string{"retired-persona"})

	// 未知IDは定義テーブルに当たらず、評価ブーストのみが残る。
	assert.Equal(t, 8, score)
	assert.Empty(t, matched)
}

func TestRankSitesOrderingAndRecommendation(t *testing.T) {
	catalog := testCatalog()

	sites := []HeritageSite{
		{ID: "c", Category: "garden", Rating: 3.0},
		{ID: "a", Category: "museum", Rating: 5.0, PersonaIDs: []string{"art-lover"}},
		{ID: "b", Category: "museum", Rating: 4.0},
	}

	ranked := catalog.RankSites(sites, []string{"art-lover"}, 0)
	require.Len(t, ranked, 3)

	for i := 1; i < len(ranked); i++ {
		assert.GreaterOrEqual(t, ranked[i-1].MatchScore, ranked[i].MatchScore)
	}
	for _, site := range ranked {
		assert.Equal(t, site.MatchScore >= RecommendThreshold, site.IsRecommended)
	}
	assert.Equal(t, "a", ranked[0].ID)
	assert.True(t, ranked[0].IsRecommended)
}

func TestRankSitesDeterministicTieBreak(t *testing.T) {
	catalog := testCatalog()

	sites := []HeritageSite{
		{ID: "z", Category: "garden", Rating: 2.0},
		{ID: "a", Category: "garden", Rating: 2.0},
		{ID: "m", Category: "garden", Rating: 3.0},
	}

	ranked := catalog.RankSites(sites, []string{"historian"}, 0)
	require.Len(t, ranked, 3)
	// 同スコア同評価は ID 昇順で安定。
	assert.Equal(t, []string{"m", "a", "z"}, []string{ranked[0].ID, ranked[1].ID, ranked[2].ID})
}

func TestRankSitesLimit(t *testing.T) {
	catalog := testCatalog()

	sites := make([]HeritageSite, 0, 10)
	for i := 0; i < 10; i++ {
		sites = append(sites, HeritageSite{ID: fmt.Sprintf("s%02d", i), Category: "museum", Rating: 3.0})
	}

	ranked := catalog.RankSites(sites, nil, 4)
	assert.Len(t, ranked, 4)
}

func TestFilterByPersonasEmptyFilterIsIdentity(t *testing.T) {
	catalog := testCatalog()

	scored := catalog.RankSites([]HeritageSite{museumSite(4.0, "art-lover")}, []string{"art-lover"}, 0)
	assert.Equal(t, scored, FilterByPersonas(scored, nil))
	assert.Equal(t, scored, FilterByPersonas(scored, []string{}))
}

func TestFilterByPersonasIntersection(t *testing.T) {
	scored := []ScoredSite{
		{HeritageSite: HeritageSite{ID: "curated", PersonaIDs: []string{"pilgrim"}}},
		{HeritageSite: HeritageSite{ID: "matched"}, MatchedPersonaIDs: []string{"historian"}},
		{HeritageSite: HeritageSite{ID: "neither"}},
	}

	result := FilterByPersonas(scored, []string{"pilgrim", "historian"})
	require.Len(t, result, 2)
	assert.Equal(t, "curated", result[0].ID)
	assert.Equal(t, "matched", result[1].ID)
}

func TestCountMatchesPerPersona(t *testing.T) {
	catalog := testCatalog()

	sites := []HeritageSite{
		{ID: "s1", Category: "museum", PersonaIDs: []string{"pilgrim"}},
		{ID: "s2", Category: "temple"},
		{ID: "s3", Category: "garden", PersonaIDs: []string{"art-lover"}},
	}

	counts := catalog.CountMatchesPerPersona(sites)

	// art-lover: s1(高親和 museum) + s3(キュレーション) = 2
	assert.Equal(t, 2, counts["art-lover"])
	// pilgrim: s1(キュレーション) + s2(高親和 temple) = 2
	assert.Equal(t, 2, counts["pilgrim"])
	// nature-wanderer: s3(高親和 garden) のみ
	assert.Equal(t, 1, counts["nature-wanderer"])
	// 定義済みペルソナは該当0件でもキーが存在する。
	assert.Contains(t, counts, "archaeologist")
}

func TestDefaultPersonaDefinitionsAffinitiesDisjoint(t *testing.T) {
	for _, def := range DefaultPersonaDefinitions() {
		high := make(map[string]struct{}, len(def.HighAffinityCategories))
		for _, c := range def.HighAffinityCategories {
			high[c] = struct{}{}
		}
		for _, c := range def.MediumAffinityCategories {
			_, overlap := high[c]
			assert.False(t, overlap, "persona %s category %s in both tiers", def.ID, c)
		}
	}
}
