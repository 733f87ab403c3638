// Package outwriter renders analysis results as text tables, CSV, JSON or Parquet.
package outwriter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/huangsam/sunspot/internal/contract"
	"github.com/huangsam/sunspot/schema"
)

// writeWithFile handles the common pattern of opening a file, writing to it, and cleaning up.
// It accepts a writer function that takes an io.Writer and returns an error.
func writeWithFile(outputFile string, writer func(io.Writer) error, successMsg string) error {
	file, err := contract.SelectOutputFile(outputFile)
	if err != nil {
		return err
	}
	// Only close if it's not stdout
	if file != os.Stdout {
		defer func() { _ = file.Close() }()
	}

	if err := writer(file); err != nil {
		return err
	}

	if file != os.Stdout {
		fmt.Fprintf(os.Stderr, "💾 %s to %s\n", successMsg, outputFile)
	}
	return nil
}

// render writes non-parquet output to the configured file or stdout,
// and parquet output through the given parquet writer.
func render(cfg *contract.Config, write func(io.Writer) error, writeParquet func(string) error) error {
	if cfg.Output == schema.ParquetOut {
		if err := writeParquetFile(cfg.OutputFile, writeParquet); err != nil {
			return fmt.Errorf("error writing parquet output: %w", err)
		}
		return nil
	}
	if err := writeWithFile(cfg.OutputFile, write, successMessage(cfg.Output)); err != nil {
		return fmt.Errorf("error writing %s output: %w", outputName(cfg.Output), err)
	}
	return nil
}

func successMessage(mode schema.OutputMode) string {
	switch mode {
	case schema.JSONOut:
		return "Wrote JSON"
	case schema.CSVOut:
		return "Wrote CSV"
	default:
		return "Wrote table"
	}
}

func outputName(mode schema.OutputMode) string {
	if mode == schema.JSONOut || mode == schema.CSVOut {
		return strings.ToUpper(string(mode))
	}
	return "table"
}

// writeParquetFile runs a parquet writer against the configured output file.
func writeParquetFile(outputFile string, write func(string) error) error {
	if outputFile == "" {
		return fmt.Errorf("parquet output requires --output-file")
	}
	if err := write(outputFile); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "💾 Wrote Parquet to %s\n", outputFile)
	return nil
}

// writeJSON is a generic JSON encoder that handles indentation consistently.
func writeJSON(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// writeCSVWithHeader handles the common pattern of creating a CSV writer,
// writing a header, and writing data rows.
func writeCSVWithHeader(w io.Writer, header []string, writeRows func(*csv.Writer) error) error {
	csvWriter := csv.NewWriter(w)
	defer csvWriter.Flush()

	if err := csvWriter.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	if err := writeRows(csvWriter); err != nil {
		return err
	}

	csvWriter.Flush()
	return csvWriter.Error()
}

// createFormatters creates the common formatter closures used across multiple output types.
// Missing values render as "-" in tables and as empty cells in CSV.
func createFormatters(precision int) (fmtValue func(schema.Value) string, csvValue func(schema.Value) string) {
	fmtValue = func(v schema.Value) string {
		return v.Format(precision)
	}
	csvValue = func(v schema.Value) string {
		if !v.Valid {
			return ""
		}
		return v.Format(precision)
	}
	return fmtValue, csvValue
}

// formatPValue renders a p-value, switching to scientific notation for tiny values.
func formatPValue(p float64, precision int) string {
	if p != 0 && p < 1e-4 {
		return fmt.Sprintf("%.*e", precision, p)
	}
	return fmt.Sprintf("%.*f", precision+2, p)
}
