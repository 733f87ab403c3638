package iocache

import (
	"errors"
	"fmt"
	"io"

	"github.com/huangsam/sunspot/internal/contract"
	"github.com/huangsam/sunspot/internal/parquet"
)

// ExecuteAnalysisExport writes the stored runs and origin statistics to Parquet files
// named after outputFile.
func ExecuteAnalysisExport(w io.Writer, store contract.AnalysisStore, outputFile string) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}
	if store == nil {
		return errors.New("analysis tracking is not enabled. Set --analysis-backend to use it")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get analysis status: %w", err)
	}
	if status.TotalRuns == 0 {
		return errors.New("no analysis data found to export")
	}

	_, _ = fmt.Fprintf(w, "Exporting data from %s backend...\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Total analysis runs: %d\n", status.TotalRuns)
	_, _ = fmt.Fprintf(w, "Total origin stats records: %d\n", status.TableSizes[originStatsTable])

	runs, err := store.GetAllAnalysisRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve analysis runs: %w", err)
	}
	stats, err := store.GetAllOriginStats()
	if err != nil {
		return fmt.Errorf("failed to retrieve origin stats: %w", err)
	}

	parquetRuns := parquet.ConvertAnalysisRunRecords(runs)
	runsFile := outputFile + ".analysis_runs.parquet"
	if err := parquet.WriteAnalysisRunsParquet(parquetRuns, runsFile); err != nil {
		return fmt.Errorf("failed to write analysis runs: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d analysis runs to: %s\n", len(parquetRuns), runsFile)

	parquetStats := parquet.ConvertOriginStatsRecords(stats)
	statsFile := outputFile + ".origin_stats.parquet"
	if err := parquet.WriteOriginStatsParquet(parquetStats, statsFile); err != nil {
		return fmt.Errorf("failed to write origin stats: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d origin stats records to: %s\n", len(parquetStats), statsFile)

	_, _ = fmt.Fprintln(w, "\nExport complete! The Parquet files can be read with DuckDB, Pandas (via pyarrow) or Spark.")
	return nil
}
