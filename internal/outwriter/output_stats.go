package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/huangsam/sunspot/internal/contract"
	"github.com/huangsam/sunspot/internal/parquet"
	"github.com/huangsam/sunspot/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// StatsReport is the overview plus detailed statistics of several fields.
type StatsReport struct {
	Overview schema.Overview        `json:"overview"`
	Stats    []schema.SummaryResult `json:"stats"`
}

// PrintStatsResults outputs the detailed statistics table to the configured destination.
func PrintStatsResults(report StatsReport, cfg *contract.Config, duration time.Duration) error {
	return render(cfg, func(w io.Writer) error {
		return WriteStatsResults(w, report, cfg, duration)
	}, func(path string) error {
		var rows []parquet.GroupStats
		for _, sr := range report.Stats {
			rows = append(rows, parquet.ConvertGroupStats(sr.Field, sr.Stats)...)
		}
		return parquet.WriteRecords(rows, path)
	})
}

// WriteStatsResults writes the report, dispatching based on the output format configured.
func WriteStatsResults(w io.Writer, report StatsReport, cfg *contract.Config, duration time.Duration) error {
	fmtValue, csvValue := createFormatters(cfg.Precision)
	switch cfg.Output {
	case schema.JSONOut:
		return writeJSON(w, report)
	case schema.CSVOut:
		header := []string{"field", "origin", "count", "mean", "median", "std", "min", "max", "cv"}
		return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
			for _, sr := range report.Stats {
				for _, gs := range sr.Stats {
					if err := cw.Write(statsRow(sr.Field, gs, csvValue)); err != nil {
						return err
					}
				}
			}
			return nil
		})
	default:
		return writeStatsTable(w, report, cfg, fmtValue, duration)
	}
}

func writeStatsTable(w io.Writer, report StatsReport, cfg *contract.Config, fmtValue func(schema.Value) string, duration time.Duration) error {
	ov := report.Overview
	_, _ = fmt.Fprintf(w, "Records: %d  Origins: %d  Overall mean %s: %s\n",
		ov.TotalRecords, len(ov.Origins), ov.Field, fmtValue(ov.OverallMean))
	if ov.BestOrigin != "" {
		_, _ = fmt.Fprintf(w, "Best origin by %s: %s (%s)\n", ov.Field, contract.Highlight(string(ov.BestOrigin), cfg.UseColors), fmtValue(ov.BestMean))
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Field", "Origin", "Count", "Mean", "Median", "Std", "Min", "Max", "CV %"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, sr := range report.Stats {
		for _, gs := range sr.Stats {
			data = append(data, statsRow(sr.Field, gs, fmtValue))
		}
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	writeFooter(w, cfg, ov.TotalRecords, duration)
	return nil
}
