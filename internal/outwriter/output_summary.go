package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/huangsam/sunspot/internal/contract"
	"github.com/huangsam/sunspot/internal/parquet"
	"github.com/huangsam/sunspot/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintSummaryResults outputs the per-origin summary of one field to the configured destination.
func PrintSummaryResults(result schema.SummaryResult, cfg *contract.Config, duration time.Duration) error {
	return render(cfg, func(w io.Writer) error {
		return WriteSummaryResults(w, result, cfg, duration)
	}, func(path string) error {
		return parquet.WriteRecords(parquet.ConvertGroupStats(result.Field, result.Stats), path)
	})
}

// WriteSummaryResults writes the summary in the configured format, dispatching based on the output format configured.
func WriteSummaryResults(w io.Writer, result schema.SummaryResult, cfg *contract.Config, duration time.Duration) error {
	fmtValue, csvValue := createFormatters(cfg.Precision)
	switch cfg.Output {
	case schema.JSONOut:
		return writeJSON(w, result)
	case schema.CSVOut:
		return writeCSVResultsForSummary(w, result, csvValue)
	default:
		return writeSummaryTable(w, result, cfg, fmtValue, duration)
	}
}

// writeCSVResultsForSummary writes one CSV row per origin.
func writeCSVResultsForSummary(w io.Writer, result schema.SummaryResult, csvValue func(schema.Value) string) error {
	header := []string{"field", "origin", "count", "mean", "median", "std", "min", "max", "cv"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, gs := range result.Stats {
			if err := cw.Write(statsRow(result.Field, gs, csvValue)); err != nil {
				return err
			}
		}
		return nil
	})
}

// statsRow renders one statistics row: field, origin, count, then every statistic.
func statsRow(field schema.Field, gs schema.GroupStats, format func(schema.Value) string) []string {
	return []string{
		string(field),
		string(gs.Origin),
		strconv.Itoa(gs.Count),
		format(gs.Mean),
		format(gs.Median),
		format(gs.Std),
		format(gs.Min),
		format(gs.Max),
		format(gs.CV),
	}
}

// writeSummaryTable prints the per-origin statistics. Min and Max only show on wide terminals.
func writeSummaryTable(w io.Writer, result schema.SummaryResult, cfg *contract.Config, fmtValue func(schema.Value) string, duration time.Duration) error {
	_, _ = fmt.Fprintf(w, "%s\n", result.Display)
	table := tablewriter.NewWriter(w)

	wide := isWide(cfg)
	headers := []string{"Origin", "Count", "Mean", "Median", "Std"}
	if wide {
		headers = append(headers, "Min", "Max")
	}
	headers = append(headers, "CV %")
	table.Header(headers)
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	rows := 0
	for _, gs := range result.Stats {
		row := []string{
			string(gs.Origin),
			strconv.Itoa(gs.Count),
			fmtValue(gs.Mean),
			fmtValue(gs.Median),
			fmtValue(gs.Std),
		}
		if wide {
			row = append(row, fmtValue(gs.Min), fmtValue(gs.Max))
		}
		row = append(row, fmtValue(gs.CV))
		data = append(data, row)
		rows += gs.Count
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	writeFooter(w, cfg, rows, duration)
	return nil
}
