package core

import (
	"testing"

	"github.com/huangsam/sunspot/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gs(origin schema.Origin, mean, median, std, maxV schema.Value) schema.GroupStats {
	return schema.GroupStats{Origin: origin, Count: 10, Mean: mean, Median: median, Std: std, Max: maxV}
}

func TestRecommend(t *testing.T) {
	stats := schema.DetailedStats{
		schema.GHI: {
			schema.Benin:       gs(schema.Benin, schema.Some(240), schema.Some(300), schema.Some(3), schema.None()),
			schema.SierraLeone: gs(schema.SierraLeone, schema.Some(200), schema.Some(280), schema.Some(5), schema.None()),
			schema.Togo:        gs(schema.Togo, schema.Some(230), schema.Some(320), schema.Some(8), schema.None()),
		},
		schema.DNI: {
			schema.Benin:       gs(schema.Benin, schema.Some(420), schema.None(), schema.None(), schema.None()),
			schema.SierraLeone: gs(schema.SierraLeone, schema.Some(120), schema.None(), schema.None(), schema.None()),
			schema.Togo:        gs(schema.Togo, schema.Some(400), schema.None(), schema.None(), schema.None()),
		},
		schema.Tamb: {
			schema.Benin: gs(schema.Benin, schema.Some(28), schema.None(), schema.None(), schema.Some(43.8)),
			schema.Togo:  gs(schema.Togo, schema.Some(27), schema.None(), schema.None(), schema.Some(40)),
		},
		schema.RH: {
			schema.SierraLeone: gs(schema.SierraLeone, schema.Some(79.4), schema.None(), schema.None(), schema.None()),
			schema.Benin:       gs(schema.Benin, schema.Some(54), schema.None(), schema.None(), schema.None()),
		},
	}

	rec := Recommend(stats)
	require.NotNil(t, rec.PrimaryTarget)
	assert.Equal(t, schema.Benin, rec.PrimaryTarget.Origin)
	require.NotNil(t, rec.SecondaryTarget)
	assert.Equal(t, schema.Togo, rec.SecondaryTarget.Origin, "secondary is picked by median")
	require.NotNil(t, rec.MostConsistent)
	assert.Equal(t, schema.Benin, rec.MostConsistent.Origin)

	assert.Equal(t, schema.CSPTechnology, rec.Technology)
	require.Len(t, rec.CSPCandidates, 1, "the DNI threshold is strict")
	assert.Equal(t, schema.Benin, rec.CSPCandidates[0].Origin)

	require.Len(t, rec.RiskFlags, 2)
	assert.Contains(t, rec.RiskFlags, schema.RiskFlag{Kind: schema.HighTemperature, Origin: schema.Benin, Value: schema.Some(43.8)})
	assert.Contains(t, rec.RiskFlags, schema.RiskFlag{Kind: schema.HighHumidity, Origin: schema.SierraLeone, Value: schema.Some(79.4)})
	assert.Less(t, string(rec.RiskFlags[0].Kind), string(rec.RiskFlags[1].Kind), "flags are sorted by kind")
}

func TestRecommendPVWhenDNIBelowThreshold(t *testing.T) {
	stats := schema.DetailedStats{
		schema.DNI: {schema.Togo: gs(schema.Togo, schema.Some(CSPThresholdDNI), schema.None(), schema.None(), schema.None())},
	}
	rec := Recommend(stats)
	assert.Equal(t, schema.PVTechnology, rec.Technology)
	assert.Empty(t, rec.CSPCandidates)
}

func TestRecommendEmptyStats(t *testing.T) {
	rec := Recommend(schema.DetailedStats{})
	assert.Nil(t, rec.PrimaryTarget)
	assert.Nil(t, rec.SecondaryTarget)
	assert.Nil(t, rec.MostConsistent)
	assert.Equal(t, schema.PVTechnology, rec.Technology)
	assert.Empty(t, rec.RiskFlags)
}

func TestRecommendTieGoesToName(t *testing.T) {
	stats := schema.DetailedStats{
		schema.GHI: {
			schema.Togo:  gs(schema.Togo, schema.Some(100), schema.Some(90), schema.Some(1), schema.None()),
			schema.Benin: gs(schema.Benin, schema.Some(100), schema.Some(90), schema.Some(1), schema.None()),
		},
	}
	rec := Recommend(stats)
	require.NotNil(t, rec.PrimaryTarget)
	assert.Equal(t, schema.Benin, rec.PrimaryTarget.Origin)
	assert.Equal(t, schema.Benin, rec.SecondaryTarget.Origin)
}

func TestRecommendMultipleFlagsPerOrigin(t *testing.T) {
	stats := schema.DetailedStats{
		schema.Tamb: {schema.Togo: gs(schema.Togo, schema.Some(30), schema.None(), schema.None(), schema.Some(41))},
		schema.RH:   {schema.Togo: gs(schema.Togo, schema.Some(80), schema.None(), schema.None(), schema.None())},
	}
	rec := Recommend(stats)
	require.Len(t, rec.RiskFlags, 2)
	for _, f := range rec.RiskFlags {
		assert.Equal(t, schema.Togo, f.Origin)
	}
}
