package schema

import "time"

// AnalysisRunRecord represents a row from the sunspot_analysis_runs table.
type AnalysisRunRecord struct {
	AnalysisID        int64
	Command           string
	StartTime         time.Time
	EndTime           *time.Time
	RunDurationMs     *int32
	TotalRowsAnalyzed int32
	ConfigParams      *string
}

// OriginStatsRecord represents a row from the sunspot_origin_stats table.
// Nil statistic pointers are stored as NULL.
type OriginStatsRecord struct {
	AnalysisID   int64
	Origin       string
	Field        string
	AnalysisTime time.Time
	Count        int32
	Mean         *float64
	Median       *float64
	Std          *float64
	Min          *float64
	Max          *float64
	CV           *float64
}

// NewOriginStatsRecord converts group statistics into a storable record.
func NewOriginStatsRecord(analysisID int64, field Field, at time.Time, gs GroupStats) OriginStatsRecord {
	return OriginStatsRecord{
		AnalysisID:   analysisID,
		Origin:       string(gs.Origin),
		Field:        string(field),
		AnalysisTime: at,
		Count:        int32(gs.Count),
		Mean:         gs.Mean.Ptr(),
		Median:       gs.Median.Ptr(),
		Std:          gs.Std.Ptr(),
		Min:          gs.Min.Ptr(),
		Max:          gs.Max.Ptr(),
		CV:           gs.CV.Ptr(),
	}
}
