package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/sunspot/internal/contract"
	"github.com/huangsam/sunspot/internal/parquet"
	"github.com/huangsam/sunspot/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// maxBarWidth caps the bar drawn next to each ranked mean.
const maxBarWidth = 30

// PrintRankResults outputs an origin ranking to the configured destination.
func PrintRankResults(field schema.Field, entries []schema.RankEntry, cfg *contract.Config, duration time.Duration) error {
	return render(cfg, func(w io.Writer) error {
		return WriteRankResults(w, field, entries, cfg, duration)
	}, func(path string) error {
		return parquet.WriteRecords(parquet.ConvertRanking(entries), path)
	})
}

// WriteRankResults writes a ranking, dispatching based on the output format configured.
func WriteRankResults(w io.Writer, field schema.Field, entries []schema.RankEntry, cfg *contract.Config, duration time.Duration) error {
	fmtValue, csvValue := createFormatters(cfg.Precision)
	switch cfg.Output {
	case schema.JSONOut:
		return writeJSON(w, struct {
			Field   schema.Field       `json:"field"`
			Ranking []schema.RankEntry `json:"ranking"`
		}{field, entries})
	case schema.CSVOut:
		return writeCSVWithHeader(w, []string{"rank", "origin", "field", "mean"}, func(cw *csv.Writer) error {
			for _, e := range entries {
				if err := cw.Write([]string{strconv.Itoa(e.Rank), string(e.Origin), string(field), csvValue(e.Mean)}); err != nil {
					return err
				}
			}
			return nil
		})
	default:
		return writeRankTable(w, field, entries, cfg, fmtValue, duration)
	}
}

// writeRankTable prints the ranking with a proportional bar for each mean.
func writeRankTable(w io.Writer, field schema.Field, entries []schema.RankEntry, cfg *contract.Config, fmtValue func(schema.Value) string, duration time.Duration) error {
	_, _ = fmt.Fprintf(w, "Average %s by origin\n", schema.FieldDisplayName(field))
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Rank", "Origin", "Mean", ""})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	top := 0.0
	for _, e := range entries {
		if v, ok := e.Mean.Get(); ok && v > top {
			top = v
		}
	}

	var data [][]string
	for _, e := range entries {
		name := string(e.Origin)
		if e.Rank == 1 {
			name = contract.Highlight(name, cfg.UseColors)
		}
		data = append(data, []string{strconv.Itoa(e.Rank), name, fmtValue(e.Mean), meanBar(e.Mean, top)})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(w, "Ranked %d origins in %v\n", len(entries), duration)
	return nil
}

// meanBar draws a bar proportional to the mean relative to the top mean.
func meanBar(v schema.Value, top float64) string {
	mean, ok := v.Get()
	if !ok || top <= 0 || mean <= 0 {
		return ""
	}
	return strings.Repeat("█", max(1, int(mean/top*maxBarWidth)))
}
