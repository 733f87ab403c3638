package algo

import (
	"sort"

	"github.com/huangsam/sunspot/schema"
)

// RankOrigins sorts origins by mean in descending order, breaking ties by origin name
// ascending. Origins whose mean is no value are excluded. Ranks start at 1.
func RankOrigins(stats []schema.GroupStats) []schema.RankEntry {
	var ranked []schema.GroupStats
	for _, gs := range stats {
		if gs.Mean.Valid {
			ranked = append(ranked, gs)
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		mi, mj := ranked[i].Mean.Float64, ranked[j].Mean.Float64
		if mi != mj {
			return mi > mj
		}
		return ranked[i].Origin < ranked[j].Origin
	})

	entries := make([]schema.RankEntry, len(ranked))
	for i, gs := range ranked {
		entries[i] = schema.RankEntry{
			Rank:   i + 1,
			Origin: gs.Origin,
			Mean:   gs.Mean,
		}
	}
	return entries
}

// Best returns the origin with the largest defined statistic picked by key,
// ties going to the smaller origin name. The boolean is false when no origin qualifies.
func Best(stats []schema.GroupStats, key func(schema.GroupStats) schema.Value) (schema.Candidate, bool) {
	return pick(stats, key, func(a, b float64) bool { return a > b })
}

// Least returns the origin with the smallest defined statistic picked by key,
// ties going to the smaller origin name.
func Least(stats []schema.GroupStats, key func(schema.GroupStats) schema.Value) (schema.Candidate, bool) {
	return pick(stats, key, func(a, b float64) bool { return a < b })
}

func pick(stats []schema.GroupStats, key func(schema.GroupStats) schema.Value, better func(a, b float64) bool) (schema.Candidate, bool) {
	var best schema.Candidate
	found := false
	for _, gs := range stats {
		v, ok := key(gs).Get()
		if !ok {
			continue
		}
		switch {
		case !found,
			better(v, best.Value.Float64),
			v == best.Value.Float64 && gs.Origin < best.Origin:
			best = schema.Candidate{Origin: gs.Origin, Value: schema.Some(v)}
			found = true
		}
	}
	return best, found
}
