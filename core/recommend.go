package core

import (
	"sort"

	"github.com/huangsam/sunspot/core/algo"
	"github.com/huangsam/sunspot/schema"
)

// Recommendation thresholds.
const (
	CSPThresholdDNI       = 400.0 // mean DNI above which CSP is viable, W/m²
	HighTemperatureLimit  = 40.0  // max ambient temperature, °C
	HighHumidityThreshold = 75.0  // mean relative humidity, %
)

// RecommendFields are the fields Recommend reads.
var RecommendFields = []schema.Field{schema.GHI, schema.DNI, schema.Tamb, schema.RH}

// Recommend derives deployment advice from per-origin statistics.
// Missing fields or statistics simply produce no targets or flags for them.
func Recommend(stats schema.DetailedStats) schema.Recommendation {
	rec := schema.Recommendation{Technology: schema.PVTechnology}

	ghi := SortedStats(stats[schema.GHI])
	if c, ok := algo.Best(ghi, func(gs schema.GroupStats) schema.Value { return gs.Mean }); ok {
		rec.PrimaryTarget = &c
	}
	if c, ok := algo.Best(ghi, func(gs schema.GroupStats) schema.Value { return gs.Median }); ok {
		rec.SecondaryTarget = &c
	}
	if c, ok := MostConsistent(stats[schema.GHI]); ok {
		rec.MostConsistent = &c
	}

	for _, gs := range SortedStats(stats[schema.DNI]) {
		if v, ok := gs.Mean.Get(); ok && v > CSPThresholdDNI {
			rec.CSPCandidates = append(rec.CSPCandidates, schema.Candidate{Origin: gs.Origin, Value: gs.Mean})
		}
	}
	if len(rec.CSPCandidates) > 0 {
		rec.Technology = schema.CSPTechnology
	}

	for _, gs := range SortedStats(stats[schema.Tamb]) {
		if v, ok := gs.Max.Get(); ok && v > HighTemperatureLimit {
			rec.RiskFlags = append(rec.RiskFlags, schema.RiskFlag{Kind: schema.HighTemperature, Origin: gs.Origin, Value: gs.Max})
		}
	}
	for _, gs := range SortedStats(stats[schema.RH]) {
		if v, ok := gs.Mean.Get(); ok && v > HighHumidityThreshold {
			rec.RiskFlags = append(rec.RiskFlags, schema.RiskFlag{Kind: schema.HighHumidity, Origin: gs.Origin, Value: gs.Mean})
		}
	}
	sort.SliceStable(rec.RiskFlags, func(i, j int) bool {
		a, b := rec.RiskFlags[i], rec.RiskFlags[j]
		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}
		return a.Origin < b.Origin
	})
	return rec
}
