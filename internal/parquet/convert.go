package parquet

import (
	"math"
	"strings"

	"github.com/huangsam/sunspot/schema"
)

// ConvertDataset converts observations into Parquet rows.
func ConvertDataset(ds schema.Dataset) []Observation {
	result := make([]Observation, len(ds.Rows))
	for i, o := range ds.Rows {
		result[i] = Observation{
			Origin:    string(o.Origin),
			Timestamp: o.Timestamp,
			BucketKey: optionalString(o.BucketKey),
			Hour:      optionalInt(o.Hour),
			Month:     optionalInt(o.Month),
			Date:      optionalString(o.Date),
			GHI:       o.GHI.Ptr(),
			DNI:       o.DNI.Ptr(),
			DHI:       o.DHI.Ptr(),
			Tamb:      o.Tamb.Ptr(),
			RH:        o.RH.Ptr(),
			WS:        o.WS.Ptr(),
			BP:        o.BP.Ptr(),
		}
	}
	return result
}

// ConvertGroupStats converts per-origin statistics of a field into Parquet rows.
func ConvertGroupStats(field schema.Field, stats []schema.GroupStats) []GroupStats {
	result := make([]GroupStats, len(stats))
	for i, gs := range stats {
		result[i] = GroupStats{
			Field:  string(field),
			Origin: string(gs.Origin),
			Count:  int32(gs.Count),
			Mean:   gs.Mean.Ptr(),
			Median: gs.Median.Ptr(),
			Std:    gs.Std.Ptr(),
			Min:    gs.Min.Ptr(),
			Max:    gs.Max.Ptr(),
			CV:     gs.CV.Ptr(),
		}
	}
	return result
}

// ConvertRanking converts a ranking into Parquet rows.
func ConvertRanking(entries []schema.RankEntry) []RankEntry {
	result := make([]RankEntry, len(entries))
	for i, e := range entries {
		result[i] = RankEntry{Rank: int32(e.Rank), Origin: string(e.Origin), Mean: e.Mean.Ptr()}
	}
	return result
}

// ConvertTestResults converts significance test outcomes into Parquet rows.
func ConvertTestResults(results []schema.TestResult) []TestResult {
	out := make([]TestResult, len(results))
	for i, r := range results {
		groups := make([]string, len(r.Groups))
		for j, g := range r.Groups {
			groups[j] = string(g)
		}
		row := TestResult{
			TestName:    r.TestName,
			Field:       string(r.Field),
			PValue:      r.PValue,
			Significant: r.Significant,
			DF1:         int32(r.DF1),
			DF2:         int32(r.DF2),
			Groups:      strings.Join(groups, "|"),
			N:           int32(r.N),
		}
		if v, ok := r.Statistic.Get(); ok {
			if math.IsInf(v, 0) {
				row.StatisticInfinite = true
			} else {
				row.Statistic = &v
			}
		}
		out[i] = row
	}
	return out
}

// ConvertCorrelation flattens the upper triangle of a correlation matrix, diagonal included.
func ConvertCorrelation(m schema.CorrelationMatrix) []Correlation {
	var result []Correlation
	for i, a := range m.Fields {
		for j := i; j < len(m.Fields); j++ {
			result = append(result, Correlation{
				FieldA:      string(a),
				FieldB:      string(m.Fields[j]),
				Coefficient: m.Values[i][j].Ptr(),
				Pairs:       int32(m.Pairs[i][j]),
			})
		}
	}
	return result
}

// ConvertProfile converts diurnal profile points into Parquet rows.
func ConvertProfile(field schema.Field, points []schema.ProfilePoint) []ProfilePoint {
	result := make([]ProfilePoint, len(points))
	for i, p := range points {
		result[i] = ProfilePoint{
			Field:  string(field),
			Origin: string(p.Origin),
			Hour:   int32(p.Hour),
			Mean:   p.Mean.Ptr(),
			Count:  int32(p.Count),
		}
	}
	return result
}

// ConvertRecommendation flattens a recommendation into one row per finding.
func ConvertRecommendation(rec schema.Recommendation) []Finding {
	var result []Finding
	addCandidate := func(kind string, c *schema.Candidate) {
		if c == nil {
			return
		}
		origin := string(c.Origin)
		result = append(result, Finding{Kind: kind, Origin: &origin, Label: origin, Value: c.Value.Ptr()})
	}
	addCandidate("primary_target", rec.PrimaryTarget)
	addCandidate("secondary_target", rec.SecondaryTarget)
	addCandidate("most_consistent", rec.MostConsistent)
	result = append(result, Finding{Kind: "technology", Label: string(rec.Technology)})
	for i := range rec.CSPCandidates {
		addCandidate("csp_candidate", &rec.CSPCandidates[i])
	}
	for _, f := range rec.RiskFlags {
		origin := string(f.Origin)
		result = append(result, Finding{Kind: "risk_flag", Origin: &origin, Label: string(f.Kind), Value: f.Value.Ptr()})
	}
	return result
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func optionalInt(p *int) *int32 {
	if p == nil {
		return nil
	}
	v := int32(*p)
	return &v
}
