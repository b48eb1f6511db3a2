package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalCategoryCode(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"ruins", "archaeological_site"},
		{"Archaeological", "archaeological_site"},
		{"castle", "fortress"},
		{"shrine", "temple"},
		{"Old Town", "historic_district"},
		{"botanical_garden", "garden"},
		{"museum", "museum"},
		{"  Palace ", "palace"},
		{"", ""},
		{"spaceport", "spaceport"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, CanonicalCategoryCode(tc.input), "input=%q", tc.input)
	}
}

func TestIsKnownCategory(t *testing.T) {
	assert.True(t, IsKnownCategory("religious_site"))
	assert.False(t, IsKnownCategory("spaceport"))
	assert.False(t, IsKnownCategory(""))
}

func TestNormalizePersonaIDs(t *testing.T) {
	ids, err := NormalizePersonaIDs([]string{" Historian ", "art-lover", "historian", ""})
	require.NoError(t, err)
	assert.Equal(t, []string{"historian", "art-lover"}, ids)

	_, err = NormalizePersonaIDs([]string{"time-traveler"})
	assert.Error(t, err)
}

func TestNormalizeSiteTags(t *testing.T) {
	tags, err := NormalizeSiteTags([]string{"UNESCO", "unesco", " guided_tours "})
	require.NoError(t, err)
	assert.Equal(t, []string{"unesco", "guided_tours"}, tags)

	_, err = NormalizeSiteTags([]string{"free_wifi"})
	assert.Error(t, err)
}
