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

// maxTableRows limits how many observations a text table shows.
const maxTableRows = 50

// PrintDataset outputs a (possibly aggregated) dataset to the configured destination.
func PrintDataset(ds schema.Dataset, cfg *contract.Config, duration time.Duration) error {
	return render(cfg, func(w io.Writer) error {
		return WriteDataset(w, ds, cfg, duration)
	}, func(path string) error {
		return parquet.WriteRecords(parquet.ConvertDataset(ds), path)
	})
}

// WriteDataset writes observations, dispatching based on the output format configured.
func WriteDataset(w io.Writer, ds schema.Dataset, cfg *contract.Config, duration time.Duration) error {
	fmtValue, csvValue := createFormatters(cfg.Precision)
	switch cfg.Output {
	case schema.JSONOut:
		rows := ds.Rows
		if rows == nil {
			rows = []schema.Observation{}
		}
		return writeJSON(w, rows)
	case schema.CSVOut:
		return writeCSVResultsForDataset(w, ds, csvValue)
	default:
		return writeDatasetTable(w, ds, cfg, fmtValue, duration)
	}
}

func datasetHeader() []string {
	header := []string{"origin", "timestamp", "bucket", "hour", "month", "date"}
	for _, f := range schema.AllFields {
		header = append(header, string(f))
	}
	return header
}

func datasetRow(o schema.Observation, format func(schema.Value) string, missing string) []string {
	ts := missing
	if o.Timestamp != nil {
		ts = o.Timestamp.UTC().Format(time.RFC3339)
	}
	optInt := func(p *int) string {
		if p == nil {
			return missing
		}
		return strconv.Itoa(*p)
	}
	optStr := func(s string) string {
		if s == "" {
			return missing
		}
		return s
	}
	row := []string{string(o.Origin), ts, optStr(o.BucketKey), optInt(o.Hour), optInt(o.Month), optStr(o.Date)}
	for _, f := range schema.AllFields {
		row = append(row, format(o.Get(f)))
	}
	return row
}

// writeCSVResultsForDataset writes every observation as one CSV row.
func writeCSVResultsForDataset(w io.Writer, ds schema.Dataset, csvValue func(schema.Value) string) error {
	return writeCSVWithHeader(w, datasetHeader(), func(cw *csv.Writer) error {
		for _, o := range ds.Rows {
			if err := cw.Write(datasetRow(o, csvValue, "")); err != nil {
				return err
			}
		}
		return nil
	})
}

// writeDatasetTable prints the first rows of a dataset. Narrow terminals drop the derived columns.
func writeDatasetTable(w io.Writer, ds schema.Dataset, cfg *contract.Config, fmtValue func(schema.Value) string, duration time.Duration) error {
	table := tablewriter.NewWriter(w)
	wide := isWide(cfg)

	header := datasetHeader()
	if !wide {
		header = []string{"origin", "time", "GHI", "DNI", "DHI", "Tamb"}
	}
	table.Header(header)
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for i, o := range ds.Rows {
		if i == maxTableRows {
			break
		}
		row := datasetRow(o, fmtValue, "-")
		if !wide {
			when := row[2]
			if when == "-" {
				when = row[1]
			}
			row = []string{row[0], when, row[6], row[7], row[8], row[9]}
		}
		data = append(data, row)
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(w, "Showing %d of %d rows at %s granularity\n", len(data), ds.Len(), cfg.Granularity)
	writeFooter(w, cfg, ds.Len(), duration)
	return nil
}
