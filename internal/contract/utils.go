package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/huangsam/sunspot/schema"
)

// Significance label constants.
const (
	SignificantValue    = "Significant"
	NotSignificantValue = "Not significant"
)

// Color variables for console output.
var (
	SignificantColor    = color.New(color.FgGreen, color.Bold) // a real difference between origins
	NotSignificantColor = color.New(color.FgYellow)            // differences may be noise
	RiskColor           = color.New(color.FgRed, color.Bold)   // operational risk flags
	HighlightColor      = color.New(color.FgCyan, color.Bold)  // recommended targets
)

// GetPlainLabel returns a plain text label for a significance outcome.
// This is the core logic used for CSV, JSON, and table printing.
func GetPlainLabel(significant bool) string {
	if significant {
		return SignificantValue
	}
	return NotSignificantValue
}

// GetColorLabel returns a colored significance label for console output (table).
func GetColorLabel(significant bool) string {
	text := GetPlainLabel(significant)
	if significant {
		return SignificantColor.Sprint(text)
	}
	return NotSignificantColor.Sprint(text)
}

// GetRiskLabel returns a risk flag label, colored when requested.
func GetRiskLabel(kind schema.RiskKind, useColors bool) string {
	text := string(kind)
	if useColors {
		return RiskColor.Sprint(text)
	}
	return text
}

// Highlight colors a recommended target when requested.
func Highlight(text string, useColors bool) string {
	if useColors {
		return HighlightColor.Sprint(text)
	}
	return text
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. It falls back to os.Stdout when no path is given.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetCacheDBFilePath returns the path to the SQLite DB file for source cache storage.
func GetCacheDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".sunspot_cache.db"
	}
	return filepath.Join(homeDir, ".sunspot_cache.db")
}

// GetAnalysisDBFilePath returns the path to the SQLite DB file for analysis storage.
func GetAnalysisDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".sunspot_analysis.db"
	}
	return filepath.Join(homeDir, ".sunspot_analysis.db")
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
