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

// PrintProfile outputs a diurnal profile to the configured destination.
func PrintProfile(field schema.Field, points []schema.ProfilePoint, cfg *contract.Config, duration time.Duration) error {
	return render(cfg, func(w io.Writer) error {
		return WriteProfile(w, field, points, cfg, duration)
	}, func(path string) error {
		return parquet.WriteRecords(parquet.ConvertProfile(field, points), path)
	})
}

// WriteProfile writes the profile, dispatching based on the output format configured.
func WriteProfile(w io.Writer, field schema.Field, points []schema.ProfilePoint, cfg *contract.Config, duration time.Duration) error {
	fmtValue, csvValue := createFormatters(cfg.Precision)
	switch cfg.Output {
	case schema.JSONOut:
		return writeJSON(w, struct {
			Field  schema.Field          `json:"field"`
			Points []schema.ProfilePoint `json:"points"`
		}{field, points})
	case schema.CSVOut:
		return writeCSVWithHeader(w, []string{"field", "origin", "hour", "mean", "count"}, func(cw *csv.Writer) error {
			for _, p := range points {
				row := []string{string(field), string(p.Origin), strconv.Itoa(p.Hour), csvValue(p.Mean), strconv.Itoa(p.Count)}
				if err := cw.Write(row); err != nil {
					return err
				}
			}
			return nil
		})
	default:
		return writeProfileTable(w, field, points, fmtValue, duration)
	}
}

// writeProfileTable prints one row per hour with a column per origin.
// Points arrive sorted by origin then hour.
func writeProfileTable(w io.Writer, field schema.Field, points []schema.ProfilePoint, fmtValue func(schema.Value) string, duration time.Duration) error {
	var origins []schema.Origin
	byHour := make(map[int]map[schema.Origin]schema.Value)
	for _, p := range points {
		if len(origins) == 0 || origins[len(origins)-1] != p.Origin {
			origins = append(origins, p.Origin)
		}
		if byHour[p.Hour] == nil {
			byHour[p.Hour] = make(map[schema.Origin]schema.Value)
		}
		byHour[p.Hour][p.Origin] = p.Mean
	}

	_, _ = fmt.Fprintf(w, "Mean %s by hour of day\n", schema.FieldDisplayName(field))
	table := tablewriter.NewWriter(w)
	header := []string{"Hour"}
	for _, o := range origins {
		header = append(header, string(o))
	}
	table.Header(header)
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for hour := range 24 {
		means, ok := byHour[hour]
		if !ok {
			continue
		}
		row := []string{fmt.Sprintf("%02d:00", hour)}
		for _, o := range origins {
			row = append(row, fmtValue(means[o]))
		}
		data = append(data, row)
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(w, "Profile computed in %v\n", duration)
	return nil
}
