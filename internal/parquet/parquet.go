// Package parquet provides data structures and functions for exporting sunspot
// analysis data to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/huangsam/sunspot/schema"
	"github.com/parquet-go/parquet-go"
)

// AnalysisRun represents a single sunspot analysis run with metadata.
// This struct maps to the sunspot_analysis_runs database table.
type AnalysisRun struct {
	AnalysisID        int64      `parquet:"analysis_id,snappy"`
	Command           string     `parquet:"command,snappy"`
	StartTime         time.Time  `parquet:"start_time,snappy"`
	EndTime           *time.Time `parquet:"end_time,optional,snappy"`
	RunDurationMs     *int32     `parquet:"run_duration_ms,optional,snappy"`
	TotalRowsAnalyzed int32      `parquet:"total_rows_analyzed,snappy"`
	ConfigParams      *string    `parquet:"config_params,optional,snappy"`
}

// OriginStats represents the statistics of one field for one origin in an analysis.
// This struct maps to the sunspot_origin_stats database table.
type OriginStats struct {
	AnalysisID   int64     `parquet:"analysis_id,snappy"`
	Origin       string    `parquet:"origin,snappy"`
	Field        string    `parquet:"field,snappy"`
	AnalysisTime time.Time `parquet:"analysis_time,snappy"`
	Count        int32     `parquet:"count,snappy"`
	Mean         *float64  `parquet:"mean,optional,snappy"`
	Median       *float64  `parquet:"median,optional,snappy"`
	Std          *float64  `parquet:"std,optional,snappy"`
	Min          *float64  `parquet:"min,optional,snappy"`
	Max          *float64  `parquet:"max,optional,snappy"`
	CV           *float64  `parquet:"cv,optional,snappy"`
}

// Observation is one (possibly aggregated) measurement row.
type Observation struct {
	Origin    string     `parquet:"origin,snappy"`
	Timestamp *time.Time `parquet:"timestamp,optional,snappy"`
	BucketKey *string    `parquet:"bucket_key,optional,snappy"`
	Hour      *int32     `parquet:"hour,optional,snappy"`
	Month     *int32     `parquet:"month,optional,snappy"`
	Date      *string    `parquet:"date,optional,snappy"`
	GHI       *float64   `parquet:"ghi,optional,snappy"`
	DNI       *float64   `parquet:"dni,optional,snappy"`
	DHI       *float64   `parquet:"dhi,optional,snappy"`
	Tamb      *float64   `parquet:"tamb,optional,snappy"`
	RH        *float64   `parquet:"rh,optional,snappy"`
	WS        *float64   `parquet:"ws,optional,snappy"`
	BP        *float64   `parquet:"bp,optional,snappy"`
}

// GroupStats is one row of a per-origin summary.
type GroupStats struct {
	Field  string   `parquet:"field,snappy"`
	Origin string   `parquet:"origin,snappy"`
	Count  int32    `parquet:"count,snappy"`
	Mean   *float64 `parquet:"mean,optional,snappy"`
	Median *float64 `parquet:"median,optional,snappy"`
	Std    *float64 `parquet:"std,optional,snappy"`
	Min    *float64 `parquet:"min,optional,snappy"`
	Max    *float64 `parquet:"max,optional,snappy"`
	CV     *float64 `parquet:"cv,optional,snappy"`
}

// RankEntry is one row of an origin ranking.
type RankEntry struct {
	Rank   int32    `parquet:"rank,snappy"`
	Origin string   `parquet:"origin,snappy"`
	Mean   *float64 `parquet:"mean,optional,snappy"`
}

// TestResult is the outcome of one significance test.
// Infinite statistics are stored as NULL with StatisticInfinite set.
type TestResult struct {
	TestName          string   `parquet:"test,snappy"`
	Field             string   `parquet:"field,snappy"`
	Statistic         *float64 `parquet:"statistic,optional,snappy"`
	StatisticInfinite bool     `parquet:"statistic_infinite,snappy"`
	PValue            float64  `parquet:"p_value,snappy"`
	Significant       bool     `parquet:"significant,snappy"`
	DF1               int32    `parquet:"df1,snappy"`
	DF2               int32    `parquet:"df2,snappy"`
	Groups            string   `parquet:"groups,snappy"`
	N                 int32    `parquet:"n,snappy"`
}

// Correlation is one cell of a correlation matrix.
type Correlation struct {
	FieldA      string   `parquet:"field_a,snappy"`
	FieldB      string   `parquet:"field_b,snappy"`
	Coefficient *float64 `parquet:"coefficient,optional,snappy"`
	Pairs       int32    `parquet:"pairs,snappy"`
}

// ProfilePoint is the hourly mean of a field for one origin.
type ProfilePoint struct {
	Field  string   `parquet:"field,snappy"`
	Origin string   `parquet:"origin,snappy"`
	Hour   int32    `parquet:"hour,snappy"`
	Mean   *float64 `parquet:"mean,optional,snappy"`
	Count  int32    `parquet:"count,snappy"`
}

// Finding is one line of a recommendation: a target, a technology or a risk flag.
type Finding struct {
	Kind   string   `parquet:"kind,snappy"`
	Origin *string  `parquet:"origin,optional,snappy"`
	Label  string   `parquet:"label,snappy"`
	Value  *float64 `parquet:"value,optional,snappy"`
}

// WriteRecords writes a slice of records to a Parquet file.
// The schema is derived from the struct tags of T.
func WriteRecords[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// WriteAnalysisRunsParquet writes a slice of AnalysisRun structs to a Parquet file.
func WriteAnalysisRunsParquet(data []AnalysisRun, outputPath string) error {
	return WriteRecords(data, outputPath)
}

// WriteOriginStatsParquet writes a slice of OriginStats structs to a Parquet file.
func WriteOriginStatsParquet(data []OriginStats, outputPath string) error {
	return WriteRecords(data, outputPath)
}

// ConvertAnalysisRunRecords converts schema.AnalysisRunRecord to AnalysisRun for Parquet export.
func ConvertAnalysisRunRecords(records []schema.AnalysisRunRecord) []AnalysisRun {
	result := make([]AnalysisRun, len(records))
	for i, record := range records {
		result[i] = AnalysisRun{
			AnalysisID:        record.AnalysisID,
			Command:           record.Command,
			StartTime:         record.StartTime,
			EndTime:           record.EndTime,
			RunDurationMs:     record.RunDurationMs,
			TotalRowsAnalyzed: record.TotalRowsAnalyzed,
			ConfigParams:      record.ConfigParams,
		}
	}
	return result
}

// ConvertOriginStatsRecords converts schema.OriginStatsRecord to OriginStats for Parquet export.
func ConvertOriginStatsRecords(records []schema.OriginStatsRecord) []OriginStats {
	result := make([]OriginStats, len(records))
	for i, record := range records {
		result[i] = OriginStats{
			AnalysisID:   record.AnalysisID,
			Origin:       record.Origin,
			Field:        record.Field,
			AnalysisTime: record.AnalysisTime,
			Count:        record.Count,
			Mean:         record.Mean,
			Median:       record.Median,
			Std:          record.Std,
			Min:          record.Min,
			Max:          record.Max,
			CV:           record.CV,
		}
	}
	return result
}
