// Package core has the analysis logic: unifying, aggregating, summarizing, ranking,
// significance testing and recommending.
package core

import (
	"context"
	"time"

	"github.com/huangsam/sunspot/core/algo"
	"github.com/huangsam/sunspot/internal/contract"
	"github.com/huangsam/sunspot/internal/outwriter"
	"github.com/huangsam/sunspot/schema"
)

// Command names, as recorded in the analysis store.
const (
	SummaryCommand   = "summary"
	RankCommand      = "rank"
	SignifCommand    = "signif"
	RecommendCommand = "recommend"
	AggregateCommand = "aggregate"
	CorrelateCommand = "correlate"
	ProfileCommand   = "profile"
	StatsCommand     = "stats"
)

// ExecutorFunc defines the function signature for executing different analysis commands.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error

// GetSummaryResults computes the per-origin statistics of the configured metric.
func GetSummaryResults(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) (schema.SummaryResult, error) {
	return runAnalysis(ctx, cfg, mgr, SummaryCommand, func(ctx context.Context, ds schema.Dataset) (schema.SummaryResult, error) {
		stats := Summarize(ds, cfg.Field)
		recordStats(ctx, mgr, cfg.Field, stats)
		return schema.SummaryResult{
			Field:   cfg.Field,
			Display: schema.FieldDisplayName(cfg.Field),
			Stats:   SortedStats(stats),
		}, nil
	})
}

// ExecuteSummary runs the summary and prints it.
func ExecuteSummary(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()
	result, err := GetSummaryResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.PrintSummaryResults(result, cfg, time.Since(start))
}

// GetRankResults orders the origins by descending mean of the configured metric.
func GetRankResults(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) ([]schema.RankEntry, error) {
	return runAnalysis(ctx, cfg, mgr, RankCommand, func(ctx context.Context, ds schema.Dataset) ([]schema.RankEntry, error) {
		stats := Summarize(ds, cfg.Field)
		recordStats(ctx, mgr, cfg.Field, stats)
		return algo.RankOrigins(SortedStats(stats)), nil
	})
}

// ExecuteRank runs the ranking and prints it.
func ExecuteRank(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()
	entries, err := GetRankResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.PrintRankResults(cfg.Field, entries, cfg, time.Since(start))
}

// GetSignificanceResults tests whether the configured metric differs between origins.
// It returns algo.ErrInsufficientData when fewer than two origins have values.
// A test that fails while another succeeds only warns.
func GetSignificanceResults(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) ([]schema.TestResult, error) {
	return runAnalysis(ctx, cfg, mgr, SignifCommand, func(ctx context.Context, ds schema.Dataset) ([]schema.TestResult, error) {
		recordStats(ctx, mgr, cfg.Field, Summarize(ds, cfg.Field))
		results, err := algo.RunTests(cfg.Field, GroupsFor(ds, cfg.Field), cfg.TestKind)
		if err != nil && len(results) > 0 {
			contract.LogWarn("Some significance tests could not run", err)
			return results, nil
		}
		if err != nil {
			return nil, err
		}
		return results, nil
	})
}

// ExecuteSignificance runs the significance tests and prints them.
func ExecuteSignificance(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()
	results, err := GetSignificanceResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.PrintSignificanceResults(results, cfg, time.Since(start))
}

// GetRecommendationResults derives deployment advice from the recommendation fields.
func GetRecommendationResults(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) (schema.Recommendation, error) {
	return runAnalysis(ctx, cfg, mgr, RecommendCommand, func(ctx context.Context, ds schema.Dataset) (schema.Recommendation, error) {
		stats := SummaryTable(ds, RecommendFields)
		for _, f := range RecommendFields {
			recordStats(ctx, mgr, f, stats[f])
		}
		return Recommend(stats), nil
	})
}

// ExecuteRecommend runs the recommendation rules and prints the advice.
func ExecuteRecommend(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()
	rec, err := GetRecommendationResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.PrintRecommendation(rec, cfg, time.Since(start))
}

// GetAggregateResults returns the unified dataset at the configured granularity.
func GetAggregateResults(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) (schema.Dataset, error) {
	return runAnalysis(ctx, cfg, mgr, AggregateCommand, func(_ context.Context, ds schema.Dataset) (schema.Dataset, error) {
		return ds, nil
	})
}

// ExecuteAggregate prints the unified dataset.
func ExecuteAggregate(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()
	ds, err := GetAggregateResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.PrintDataset(ds, cfg, time.Since(start))
}

// GetCorrelationResults computes the correlation matrix of the configured fields,
// or of the irradiance and weather fields when none are given.
func GetCorrelationResults(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) (schema.CorrelationMatrix, error) {
	return runAnalysis(ctx, cfg, mgr, CorrelateCommand, func(_ context.Context, ds schema.Dataset) (schema.CorrelationMatrix, error) {
		return Correlate(ds, fieldsOrDefault(cfg.Fields, schema.CorrelationFields)), nil
	})
}

// ExecuteCorrelate runs the correlation and prints the matrix.
func ExecuteCorrelate(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()
	m, err := GetCorrelationResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.PrintCorrelation(m, cfg, time.Since(start))
}

// GetProfileResults computes the diurnal profile of the configured metric.
func GetProfileResults(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) ([]schema.ProfilePoint, error) {
	return runAnalysis(ctx, cfg, mgr, ProfileCommand, func(_ context.Context, ds schema.Dataset) ([]schema.ProfilePoint, error) {
		return DiurnalProfile(ds, cfg.Field), nil
	})
}

// ExecuteProfile runs the diurnal profile and prints it.
func ExecuteProfile(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()
	points, err := GetProfileResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.PrintProfile(cfg.Field, points, cfg, time.Since(start))
}

// GetStatsResults computes the dataset overview and the detailed statistics of the
// configured fields, or of every field when none are given.
func GetStatsResults(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) (outwriter.StatsReport, error) {
	return runAnalysis(ctx, cfg, mgr, StatsCommand, func(ctx context.Context, ds schema.Dataset) (outwriter.StatsReport, error) {
		fields := fieldsOrDefault(cfg.Fields, schema.AllFields)
		table := SummaryTable(ds, fields)
		report := outwriter.StatsReport{
			Overview: BuildOverview(ds, cfg.Field),
			Stats:    make([]schema.SummaryResult, 0, len(fields)),
		}
		for _, f := range fields {
			recordStats(ctx, mgr, f, table[f])
			report.Stats = append(report.Stats, schema.SummaryResult{
				Field:   f,
				Display: schema.FieldDisplayName(f),
				Stats:   SortedStats(table[f]),
			})
		}
		return report, nil
	})
}

// ExecuteStats runs the detailed statistics and prints them.
func ExecuteStats(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()
	report, err := GetStatsResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.PrintStatsResults(report, cfg, time.Since(start))
}

func fieldsOrDefault(fields, fallback []schema.Field) []schema.Field {
	if len(fields) > 0 {
		return fields
	}
	return fallback
}
