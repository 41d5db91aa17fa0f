package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(v float64) *float64 { return &v }

func TestProfileStatsZeroMatches(t *testing.T) {
	stats := profileAgg{}.stats()

	assert.Equal(t, int64(0), stats.Total)
	assert.Nil(t, stats.AvgOverall)
	assert.Equal(t, map[string]int64{"1": 0, "2": 0, "3": 0, "4": 0, "5": 0}, stats.Distribution)
	assert.Nil(t, stats.FacetAverages["safety_feeling"])
	assert.Nil(t, stats.FacetAverages["respectfulness"])
	require.NotNil(t, stats.TopTags)
	assert.Empty(t, stats.TopTags)
}

func TestProfileStatsShaping(t *testing.T) {
	agg := profileAgg{
		Total:      3,
		AvgOverall: floatPtr(4.33333333),
		D4:         1,
		D5:         2,
		AvgSafety:  floatPtr(4.5),
	}
	stats := agg.stats()

	assert.Equal(t, int64(3), stats.Total)
	require.NotNil(t, stats.AvgOverall)
	assert.Equal(t, 4.333, *stats.AvgOverall)
	assert.Equal(t, map[string]int64{"1": 0, "2": 0, "3": 0, "4": 1, "5": 2}, stats.Distribution)
	require.NotNil(t, stats.FacetAverages["safety_feeling"])
	assert.Equal(t, 4.5, *stats.FacetAverages["safety_feeling"])
	assert.Nil(t, stats.FacetAverages["respectfulness"])
}

func TestAppStatsZeroMatches(t *testing.T) {
	stats := appAgg{}.stats()

	assert.Equal(t, int64(0), stats.Total)
	assert.Nil(t, stats.AvgOverall)
	assert.Equal(t, map[string]int64{"1": 0, "2": 0, "3": 0, "4": 0, "5": 0}, stats.Distribution)
	for _, facet := range []string{"usability", "reliability", "performance", "support_experience"} {
		assert.Nil(t, stats.FacetAverages[facet], facet)
	}
	require.NotNil(t, stats.TopTags)
	assert.Empty(t, stats.TopTags)
}
