package core

import (
	"math"
	"testing"
	"time"

	"github.com/huangsam/sunspot/core/agg"
	"github.com/huangsam/sunspot/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func row(origin schema.Origin, ghi schema.Value) schema.Observation {
	return schema.Observation{Origin: origin, GHI: ghi}
}

func sampleDataset() schema.Dataset {
	return schema.Dataset{Rows: []schema.Observation{
		row(schema.Benin, schema.Some(200)),
		row(schema.Togo, schema.Some(150)),
		row(schema.Benin, schema.Some(240)),
		row(schema.SierraLeone, schema.None()),
		row(schema.Togo, schema.Some(150)),
		row(schema.Benin, schema.Some(160)),
		row(schema.Togo, schema.None()),
	}}
}

func TestSummarize(t *testing.T) {
	stats := Summarize(sampleDataset(), schema.GHI)
	require.Len(t, stats, 3, "every origin present gets an entry")

	benin := stats[schema.Benin]
	assert.Equal(t, 3, benin.Count)
	assert.InDelta(t, 200, benin.Mean.Float64, 1e-9)
	assert.InDelta(t, 200, benin.Median.Float64, 1e-9)
	assert.InDelta(t, 40, benin.Std.Float64, 1e-9)
	assert.Equal(t, schema.Some(160), benin.Min)
	assert.Equal(t, schema.Some(240), benin.Max)
	assert.InDelta(t, 20, benin.CV.Float64, 1e-9)

	togo := stats[schema.Togo]
	assert.Equal(t, 2, togo.Count, "missing values are excluded from the count")
	assert.Equal(t, schema.Some(0), togo.Std)
	assert.Equal(t, schema.Some(0), togo.CV, "a constant group has zero variation")

	sl := stats[schema.SierraLeone]
	assert.Equal(t, 0, sl.Count)
	assert.False(t, sl.Mean.Valid)
	assert.False(t, sl.Median.Valid)
	assert.False(t, sl.Std.Valid)
	assert.False(t, sl.CV.Valid)
}

func TestSummarizeSingleValue(t *testing.T) {
	ds := schema.Dataset{Rows: []schema.Observation{row(schema.Benin, schema.Some(5))}}
	gs := Summarize(ds, schema.GHI)[schema.Benin]
	assert.Equal(t, schema.Some(5), gs.Mean)
	assert.False(t, gs.Std.Valid, "sample std needs two values")
	assert.False(t, gs.CV.Valid)
}

func TestSummarizeAggregatedMissingField(t *testing.T) {
	var rows []schema.Observation
	for i, origin := range []schema.Origin{schema.Benin, schema.Togo, schema.Benin, schema.Togo} {
		ts := time.Date(2021, 8, 9, 10+i, 15, 0, 0, time.UTC)
		rows = append(rows, schema.Observation{Origin: origin, Timestamp: &ts, GHI: schema.Some(float64(100 * i)), BP: schema.None()})
	}
	ds := schema.Dataset{Rows: rows}

	for _, g := range []schema.Granularity{schema.RawGranularity, schema.HourlyGranularity, schema.DailyGranularity, schema.MonthlyGranularity} {
		stats := Summarize(agg.Aggregate(ds, g), schema.BP)
		require.Len(t, stats, 2, "granularity %s", g)
		for origin, gs := range stats {
			assert.Equal(t, 0, gs.Count, "granularity %s origin %s", g, origin)
			assert.False(t, gs.Mean.Valid, "granularity %s origin %s", g, origin)
			assert.False(t, gs.Std.Valid, "granularity %s origin %s", g, origin)
		}
	}
}

func TestSummarizeEvenMedian(t *testing.T) {
	ds := schema.Dataset{Rows: []schema.Observation{
		row(schema.Togo, schema.Some(4)),
		row(schema.Togo, schema.Some(1)),
		row(schema.Togo, schema.Some(3)),
		row(schema.Togo, schema.Some(2)),
	}}
	assert.Equal(t, schema.Some(2.5), Summarize(ds, schema.GHI)[schema.Togo].Median)
}

func TestSummarizeEmptyDataset(t *testing.T) {
	assert.Empty(t, Summarize(schema.Dataset{}, schema.GHI))
}

func TestCoefficientOfVariationZeroMean(t *testing.T) {
	gs := schema.GroupStats{Mean: schema.Some(0), Std: schema.Some(3)}
	assert.False(t, CoefficientOfVariation(gs).Valid)

	gs = schema.GroupStats{Mean: schema.Some(-10), Std: schema.Some(2)}
	assert.InDelta(t, -20, CoefficientOfVariation(gs).Float64, 1e-9)
}

func TestRank(t *testing.T) {
	entries := Rank(sampleDataset(), schema.GHI)
	require.Len(t, entries, 2, "origins without a mean are excluded")
	assert.Equal(t, schema.RankEntry{Rank: 1, Origin: schema.Benin, Mean: schema.Some(200)}, entries[0])
	assert.Equal(t, 2, entries[1].Rank)
	assert.Equal(t, schema.Togo, entries[1].Origin)
}

func TestRankTiesByName(t *testing.T) {
	ds := schema.Dataset{Rows: []schema.Observation{
		row(schema.Togo, schema.Some(10)),
		row(schema.Benin, schema.Some(10)),
	}}
	entries := Rank(ds, schema.GHI)
	require.Len(t, entries, 2)
	assert.Equal(t, schema.Benin, entries[0].Origin)
	assert.Equal(t, schema.Togo, entries[1].Origin)
}

func TestSummaryTable(t *testing.T) {
	ds := sampleDataset()
	ds.Rows[0].DNI = schema.Some(500)
	table := SummaryTable(ds, []schema.Field{schema.GHI, schema.DNI})
	require.Len(t, table, 2)
	assert.Equal(t, Summarize(ds, schema.GHI), table[schema.GHI])
	assert.Equal(t, 1, table[schema.DNI][schema.Benin].Count)
	assert.Equal(t, 0, table[schema.DNI][schema.Togo].Count)
}

func TestMostConsistent(t *testing.T) {
	c, ok := MostConsistent(Summarize(sampleDataset(), schema.GHI))
	require.True(t, ok)
	assert.Equal(t, schema.Togo, c.Origin)
	assert.Equal(t, schema.Some(0), c.Value)

	_, ok = MostConsistent(map[schema.Origin]schema.GroupStats{schema.Benin: {Origin: schema.Benin, Count: 1}})
	assert.False(t, ok)
}

func TestBuildOverview(t *testing.T) {
	ov := BuildOverview(sampleDataset(), schema.GHI)
	assert.Equal(t, schema.GHI, ov.Field)
	assert.Equal(t, 7, ov.TotalRecords)
	assert.Equal(t, []schema.Origin{schema.Benin, schema.SierraLeone, schema.Togo}, ov.Origins)
	assert.InDelta(t, 180, ov.OverallMean.Float64, 1e-9)
	assert.Equal(t, schema.Benin, ov.BestOrigin)
	assert.Equal(t, schema.Some(200), ov.BestMean)

	empty := BuildOverview(schema.Dataset{}, schema.GHI)
	assert.Equal(t, 0, empty.TotalRecords)
	assert.False(t, empty.OverallMean.Valid)
	assert.Empty(t, empty.BestOrigin)
}

func TestGroupsFor(t *testing.T) {
	groups := GroupsFor(sampleDataset(), schema.GHI)
	require.Len(t, groups, 3)
	assert.Equal(t, schema.Benin, groups[0].Origin)
	assert.Equal(t, []float64{200, 240, 160}, groups[0].Values)
	assert.Equal(t, schema.SierraLeone, groups[1].Origin)
	assert.Empty(t, groups[1].Values)
	assert.Equal(t, []float64{150, 150}, groups[2].Values)
}

func TestSummarizeIgnoresNonFinite(t *testing.T) {
	ds := schema.Dataset{Rows: []schema.Observation{
		row(schema.Benin, schema.Value{Float64: math.Inf(1), Valid: true}),
		row(schema.Benin, schema.Some(4)),
	}}
	gs := Summarize(ds, schema.GHI)[schema.Benin]
	assert.Equal(t, 1, gs.Count)
	assert.Equal(t, schema.Some(4), gs.Mean)
}
