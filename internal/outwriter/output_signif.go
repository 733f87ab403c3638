package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/huangsam/sunspot/core/algo"
	"github.com/huangsam/sunspot/internal/contract"
	"github.com/huangsam/sunspot/internal/parquet"
	"github.com/huangsam/sunspot/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintSignificanceResults outputs significance test results to the configured destination.
func PrintSignificanceResults(results []schema.TestResult, cfg *contract.Config, duration time.Duration) error {
	return render(cfg, func(w io.Writer) error {
		return WriteSignificanceResults(w, results, cfg, duration)
	}, func(path string) error {
		return parquet.WriteRecords(parquet.ConvertTestResults(results), path)
	})
}

// WriteSignificanceResults writes test results, dispatching based on the output format configured.
func WriteSignificanceResults(w io.Writer, results []schema.TestResult, cfg *contract.Config, duration time.Duration) error {
	fmtValue, csvValue := createFormatters(cfg.Precision)
	switch cfg.Output {
	case schema.JSONOut:
		return writeJSONResultsForSignificance(w, results)
	case schema.CSVOut:
		return writeCSVResultsForSignificance(w, results, csvValue)
	default:
		return writeSignificanceTable(w, results, cfg, fmtValue, duration)
	}
}

// writeJSONResultsForSignificance adds the plain label to each result.
func writeJSONResultsForSignificance(w io.Writer, results []schema.TestResult) error {
	type JSONTestResult struct {
		Label string `json:"label"`
		schema.TestResult
	}
	output := make([]JSONTestResult, len(results))
	for i, r := range results {
		output[i] = JSONTestResult{Label: contract.GetPlainLabel(r.Significant), TestResult: r}
	}
	return writeJSON(w, output)
}

func writeCSVResultsForSignificance(w io.Writer, results []schema.TestResult, csvValue func(schema.Value) string) error {
	header := []string{"test", "field", "statistic", "p_value", "significant", "df1", "df2", "n", "groups"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, r := range results {
			row := []string{
				r.TestName,
				string(r.Field),
				csvValue(r.Statistic),
				strconv.FormatFloat(r.PValue, 'g', -1, 64),
				strconv.FormatBool(r.Significant),
				strconv.Itoa(r.DF1),
				strconv.Itoa(r.DF2),
				strconv.Itoa(r.N),
				schema.JoinOrigins(r.Groups, "|"),
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}

func writeSignificanceTable(w io.Writer, results []schema.TestResult, cfg *contract.Config, fmtValue func(schema.Value) string, duration time.Duration) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Test", "Field", "Statistic", "p-value", "df", "N", "Result"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, r := range results {
		df := strconv.Itoa(r.DF1)
		if r.DF2 > 0 {
			df = fmt.Sprintf("%d, %d", r.DF1, r.DF2)
		}
		label := contract.GetPlainLabel(r.Significant)
		if cfg.UseColors {
			label = contract.GetColorLabel(r.Significant)
		}
		data = append(data, []string{
			r.TestName,
			string(r.Field),
			fmtValue(r.Statistic),
			formatPValue(r.PValue, cfg.Precision),
			df,
			strconv.Itoa(r.N),
			label,
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(w, "Significance level: p < %s. Completed in %v\n",
		strconv.FormatFloat(algo.SignificanceLevel, 'g', -1, 64), duration)
	return nil
}
