// Package main provides a performance benchmarking tool for the Sunspot CLI.
// It measures execution times of every analysis command against a set of origin tables,
// running each command multiple times, treating the first successful run as cold and averaging the rest as warm,
// generating CSV output for performance analysis and documentation.
//
// Prerequisites:
// - sunspot binary installed and available in PATH
// - Origin tables benin.csv, togo.csv and sierraleone.csv under the source base
//
// Usage: go run benchmark/main.go [source-base]
//
//	source-base: Directory or http(s) base URL containing the origin tables
package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// BenchmarkResult holds the result of a benchmark run (no-cache average, cold run and average of warm runs).
type BenchmarkResult struct {
	Command     string
	Granularity string
	NoCacheTime string
	ColdTime    string
	WarmTime    string
}

// BenchmarkCase is one command line to time.
type BenchmarkCase struct {
	Command     string
	Granularity string
	ExtraArgs   []string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	SourceBase  string
	Timeout     time.Duration
	NoCacheRuns int
	CacheRuns   int
	Tables      map[string]string
	Cases       []BenchmarkCase
}

func main() {
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [source-base]\n", os.Args[0])
		os.Exit(1)
	}

	config := BenchmarkConfig{
		SourceBase:  strings.TrimSuffix(os.Args[1], "/"),
		Timeout:     2 * time.Minute,
		NoCacheRuns: 3,
		CacheRuns:   4,
		Tables: map[string]string{
			"benin":        "benin.csv",
			"togo":         "togo.csv",
			"sierra leone": "sierraleone.csv",
		},
		Cases: []BenchmarkCase{
			{Command: "summary", Granularity: "raw"},
			{Command: "summary", Granularity: "daily"},
			{Command: "rank", Granularity: "hourly"},
			{Command: "signif", Granularity: "raw"},
			{Command: "recommend", Granularity: "raw"},
			{Command: "aggregate", Granularity: "monthly"},
			{Command: "correlate", Granularity: "raw"},
			{Command: "profile", Granularity: "raw"},
			{Command: "stats", Granularity: "raw", ExtraArgs: []string{"--fields", "GHI,DNI,DHI,Tamb,RH,WS,BP"}},
		},
	}

	if err := checkPrerequisites(config); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Clearing cache...\n")
	clearCmd := exec.Command("sunspot", "cache", "clear")
	if output, err := clearCmd.CombinedOutput(); err != nil {
		fmt.Printf("Warning: failed to clear cache: %v\nOutput: %s\n", err, string(output))
	} else {
		fmt.Printf("Cache cleared successfully\n")
	}

	results := runBenchmarks(config)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// isRemote reports whether the source base is a URL.
func isRemote(base string) bool {
	return strings.HasPrefix(base, "http://") || strings.HasPrefix(base, "https://")
}

// checkPrerequisites verifies that the sunspot binary and local tables exist
func checkPrerequisites(config BenchmarkConfig) error {
	if _, err := exec.LookPath("sunspot"); err != nil {
		return fmt.Errorf("sunspot binary not found in PATH")
	}
	if isRemote(config.SourceBase) {
		return nil
	}
	for _, name := range config.Tables {
		path := filepath.Join(config.SourceBase, name)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return fmt.Errorf("table %s not found at %s", name, path)
		}
	}
	return nil
}

// sourceArgs builds the --source flags for every origin table.
func sourceArgs(config BenchmarkConfig) []string {
	var args []string
	for origin, name := range config.Tables {
		location := filepath.Join(config.SourceBase, name)
		if isRemote(config.SourceBase) {
			location = config.SourceBase + "/" + name
		}
		args = append(args, "--source", origin+"="+location)
	}
	return args
}

// runBenchmarks executes all benchmark cases
func runBenchmarks(config BenchmarkConfig) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d cases, %v timeout, no-cache: %d runs, cache: %d runs\n",
		len(config.Cases), config.Timeout, config.NoCacheRuns, config.CacheRuns)

	for _, c := range config.Cases {
		results = append(results, runBenchmarkSuite(config, c))
	}
	return results
}

// runBenchmarkSuite runs both no-cache and cache benchmarks for a command
func runBenchmarkSuite(config BenchmarkConfig, c BenchmarkCase) BenchmarkResult {
	fmt.Printf("Running %s (%s)\n", c.Command, c.Granularity)

	runPhase := func(cacheBackend string, numRuns int, phaseName string) (coldTime float64, avgTime string) {
		fmt.Printf("  %s phase (%d runs)\n", phaseName, numRuns)
		cold, times := runBenchmark(config, c, cacheBackend, numRuns)
		if cold == 0 {
			return 0, "TIMEOUT"
		}
		if len(times) == 0 {
			return cold, fmt.Sprintf("%.3fs", cold)
		}
		var sum float64
		for _, t := range times {
			sum += t
		}
		return cold, fmt.Sprintf("%.3fs", sum/float64(len(times)))
	}

	// Phase 1: No-cache runs
	_, noCacheAvg := runPhase("none", config.NoCacheRuns, "No-cache")

	// Phase 2: Cache runs
	coldTime, warmAvg := runPhase("sqlite", config.CacheRuns, "Cache")

	coldTimeStr := "TIMEOUT"
	if coldTime > 0 {
		coldTimeStr = fmt.Sprintf("%.3fs", coldTime)
	}

	fmt.Printf("  No-cache average: %s, Cold time: %s, Warm average: %s\n", noCacheAvg, coldTimeStr, warmAvg)

	return BenchmarkResult{
		Command:     c.Command,
		Granularity: c.Granularity,
		NoCacheTime: noCacheAvg,
		ColdTime:    coldTimeStr,
		WarmTime:    warmAvg,
	}
}

// runBenchmark executes a sunspot command multiple times with specified cache backend and returns cold time and warm times
func runBenchmark(config BenchmarkConfig, c BenchmarkCase, cacheBackend string, numRuns int) (coldTime float64, warmTimes []float64) {
	args := []string{c.Command, "--cache-backend", cacheBackend, "--granularity", c.Granularity, "--output", "csv"}
	args = append(args, c.ExtraArgs...)
	args = append(args, sourceArgs(config)...)

	var times []float64
	for run := 1; run <= numRuns; run++ {
		ctx, cancel := context.WithTimeout(context.Background(), config.Timeout)
		start := time.Now()
		cmd := exec.CommandContext(ctx, "sunspot", args...)
		if err := cmd.Run(); err == nil {
			times = append(times, time.Since(start).Seconds())
		}
		cancel()
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := filepath.Join(os.TempDir(), fmt.Sprintf("sunspot_benchmark_%s.csv", timestamp))

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"cmd", "granularity", "no_cache_avg", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, result := range results {
		if err := writer.Write([]string{result.Command, result.Granularity, result.NoCacheTime, result.ColdTime, result.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")
	for _, result := range results {
		fmt.Printf("  %-10s %-8s: No-cache: %s, Cold: %s, Warm: %s\n",
			result.Command, result.Granularity, result.NoCacheTime, result.ColdTime, result.WarmTime)
	}
	fmt.Printf("Benchmark script completed successfully\n")
}
