package core

import (
	"sort"

	"github.com/huangsam/sunspot/core/algo"
	"github.com/huangsam/sunspot/schema"
)

// Summarize computes the statistics of one field for every origin present in the
// dataset with a single fold over its rows. Origins whose values are all missing
// still get an entry with a zero count.
func Summarize(ds schema.Dataset, field schema.Field) map[schema.Origin]schema.GroupStats {
	accs := make(map[schema.Origin]*algo.Accumulator)
	for _, o := range ds.Rows {
		acc, ok := accs[o.Origin]
		if !ok {
			acc = &algo.Accumulator{}
			accs[o.Origin] = acc
		}
		if v, ok := o.Get(field).Get(); ok {
			acc.Add(v)
		}
	}

	out := make(map[schema.Origin]schema.GroupStats, len(accs))
	for origin, acc := range accs {
		out[origin] = acc.Stats(origin)
	}
	return out
}

// SummaryTable computes Summarize for each field.
func SummaryTable(ds schema.Dataset, fields []schema.Field) schema.DetailedStats {
	out := make(schema.DetailedStats, len(fields))
	for _, f := range fields {
		out[f] = Summarize(ds, f)
	}
	return out
}

// CoefficientOfVariation returns std/mean*100 of a group, or no value when
// the mean is zero or either operand is missing.
func CoefficientOfVariation(gs schema.GroupStats) schema.Value {
	return algo.CoefficientOfVariation(gs.Mean, gs.Std)
}

// Rank orders the origins of a dataset by descending mean of a field.
func Rank(ds schema.Dataset, field schema.Field) []schema.RankEntry {
	return algo.RankOrigins(SortedStats(Summarize(ds, field)))
}

// MostConsistent returns the origin with the smallest defined standard deviation.
func MostConsistent(stats map[schema.Origin]schema.GroupStats) (schema.Candidate, bool) {
	return algo.Least(SortedStats(stats), func(gs schema.GroupStats) schema.Value { return gs.Std })
}

// BuildOverview summarizes a dataset for one field: record count, origins,
// overall mean and the best origin by mean.
func BuildOverview(ds schema.Dataset, field schema.Field) schema.Overview {
	ov := schema.Overview{
		Field:        field,
		TotalRecords: ds.Len(),
		Origins:      ds.Origins(),
	}
	var acc algo.Accumulator
	for _, o := range ds.Rows {
		if v, ok := o.Get(field).Get(); ok {
			acc.Add(v)
		}
	}
	ov.OverallMean = acc.Stats("").Mean
	if ranking := Rank(ds, field); len(ranking) > 0 {
		ov.BestOrigin = ranking[0].Origin
		ov.BestMean = ranking[0].Mean
	}
	return ov
}

// SortedStats flattens a per-origin statistics map into origin name order.
func SortedStats(stats map[schema.Origin]schema.GroupStats) []schema.GroupStats {
	out := make([]schema.GroupStats, 0, len(stats))
	for _, gs := range stats {
		out = append(out, gs)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Origin < out[j].Origin })
	return out
}

// GroupsFor builds the per-origin value lists of a field in origin name order,
// with missing values excluded.
func GroupsFor(ds schema.Dataset, field schema.Field) []algo.Group {
	byOrigin := make(map[schema.Origin][]float64)
	for _, o := range ds.Rows {
		if _, ok := byOrigin[o.Origin]; !ok {
			byOrigin[o.Origin] = nil
		}
		if v, ok := o.Get(field).Get(); ok {
			byOrigin[o.Origin] = append(byOrigin[o.Origin], v)
		}
	}
	groups := make([]algo.Group, 0, len(byOrigin))
	for origin, values := range byOrigin {
		groups = append(groups, algo.Group{Origin: origin, Values: values})
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Origin < groups[j].Origin })
	return groups
}
