package core

import (
	"context"
	"fmt"
	"time"

	"github.com/huangsam/sunspot/core/agg"
	"github.com/huangsam/sunspot/internal/contract"
	"github.com/huangsam/sunspot/internal/outwriter"
	"github.com/huangsam/sunspot/internal/source"
	"github.com/huangsam/sunspot/schema"
)

// runAnalysis performs the common Load, Merge, Filter and Aggregate steps inside a
// tracked run, then hands the dataset to compute.
func runAnalysis[T any](ctx context.Context, cfg *contract.Config, mgr contract.CacheManager, command string,
	compute func(ctx context.Context, ds schema.Dataset) (T, error),
) (T, error) {
	var zero T
	if !shouldSuppressHeader(ctx) {
		outwriter.LogAnalysisHeader(cfg, command)
	}

	ctx = beginAnalysis(ctx, cfg, mgr, command)
	rows := 0
	defer func() { endAnalysis(ctx, mgr, rows) }()

	ds, err := loadDataset(ctx, cfg, mgr)
	if err != nil {
		return zero, err
	}
	rows = ds.Len()
	return compute(ctx, ds)
}

// loadDataset unifies the selected origins, warns about the ones that failed,
// then applies the origin filter and the configured granularity.
func loadDataset(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) (schema.Dataset, error) {
	loader := source.NewLoader(cfg, sourceStore(mgr))
	result, err := Unify(ctx, loader, cfg.SelectedOrigins())
	if err != nil {
		return schema.Dataset{}, err
	}
	if result.Partial() {
		outwriter.LogPartialMerge(result)
	}
	ds := FilterOrigins(result.Dataset, cfg.Origins)
	return agg.Aggregate(ds, cfg.Granularity), nil
}

func sourceStore(mgr contract.CacheManager) contract.CacheStore {
	if mgr == nil {
		return nil
	}
	return mgr.GetSourceStore()
}

func analysisStore(mgr contract.CacheManager) contract.AnalysisStore {
	if mgr == nil {
		return nil
	}
	return mgr.GetAnalysisStore()
}

// beginAnalysis opens a tracked run when an analysis store is configured.
// The run ID travels in the returned context.
func beginAnalysis(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager, command string) context.Context {
	store := analysisStore(mgr)
	if store == nil {
		return ctx
	}
	configParams := map[string]any{
		"origins":     schema.JoinOrigins(cfg.SelectedOrigins(), ","),
		"field":       string(cfg.Field),
		"fields":      fieldNames(cfg.Fields),
		"granularity": string(cfg.Granularity),
		"test":        string(cfg.TestKind),
		"output":      string(cfg.Output),
	}
	analysisID, err := store.BeginAnalysis(command, time.Now(), configParams)
	if err != nil {
		contract.LogWarn("Analysis tracking initialization failed", err)
		return ctx
	}
	if analysisID > 0 {
		ctx = withAnalysisID(ctx, analysisID)
	}
	return ctx
}

// recordStats stores per-origin statistics of a field for the tracked run, if any.
func recordStats(ctx context.Context, mgr contract.CacheManager, field schema.Field, stats map[schema.Origin]schema.GroupStats) {
	analysisID, ok := getAnalysisID(ctx)
	store := analysisStore(mgr)
	if !ok || store == nil {
		return
	}
	now := time.Now()
	for _, gs := range SortedStats(stats) {
		if err := store.RecordOriginStats(schema.NewOriginStatsRecord(analysisID, field, now, gs)); err != nil {
			logTrackingError("RecordOriginStats", fmt.Sprintf("%s/%s", gs.Origin, field), err)
		}
	}
}

// endAnalysis closes the tracked run, if any.
func endAnalysis(ctx context.Context, mgr contract.CacheManager, rows int) {
	analysisID, ok := getAnalysisID(ctx)
	store := analysisStore(mgr)
	if !ok || store == nil {
		return
	}
	if err := store.EndAnalysis(analysisID, time.Now(), rows); err != nil {
		contract.LogWarn("Failed to finalize analysis tracking", err)
	}
}

// logTrackingError logs database tracking errors to stderr without disrupting analysis.
func logTrackingError(operation, target string, err error) {
	contract.LogWarn(fmt.Sprintf("Analysis tracking failed for %s on %s", operation, target), err)
}

func fieldNames(fields []schema.Field) []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = string(f)
	}
	return out
}
