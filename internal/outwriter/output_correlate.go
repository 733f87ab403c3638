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

// PrintCorrelation outputs a correlation matrix to the configured destination.
func PrintCorrelation(m schema.CorrelationMatrix, cfg *contract.Config, duration time.Duration) error {
	return render(cfg, func(w io.Writer) error {
		return WriteCorrelation(w, m, cfg, duration)
	}, func(path string) error {
		return parquet.WriteRecords(parquet.ConvertCorrelation(m), path)
	})
}

// WriteCorrelation writes the matrix, dispatching based on the output format configured.
// CSV holds one row per field pair of the upper triangle.
func WriteCorrelation(w io.Writer, m schema.CorrelationMatrix, cfg *contract.Config, duration time.Duration) error {
	fmtValue, csvValue := createFormatters(cfg.Precision)
	switch cfg.Output {
	case schema.JSONOut:
		return writeJSON(w, m)
	case schema.CSVOut:
		cells := parquet.ConvertCorrelation(m)
		return writeCSVWithHeader(w, []string{"field_a", "field_b", "coefficient", "pairs"}, func(cw *csv.Writer) error {
			for _, c := range cells {
				v := schema.None()
				if c.Coefficient != nil {
					v = schema.Some(*c.Coefficient)
				}
				if err := cw.Write([]string{c.FieldA, c.FieldB, csvValue(v), strconv.Itoa(int(c.Pairs))}); err != nil {
					return err
				}
			}
			return nil
		})
	default:
		return writeCorrelationTable(w, m, fmtValue, duration)
	}
}

// writeCorrelationTable prints the full symmetric matrix.
func writeCorrelationTable(w io.Writer, m schema.CorrelationMatrix, fmtValue func(schema.Value) string, duration time.Duration) error {
	table := tablewriter.NewWriter(w)
	header := []string{""}
	for _, f := range m.Fields {
		header = append(header, string(f))
	}
	table.Header(header)
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for i, f := range m.Fields {
		row := []string{string(f)}
		for j := range m.Fields {
			row = append(row, fmtValue(m.Values[i][j]))
		}
		data = append(data, row)
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(w, "Pearson correlation over rows where both fields are present. Completed in %v\n", duration)
	return nil
}
