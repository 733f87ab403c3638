package cmd

import (
	"fmt"

	"github.com/huangsam/sunspot/core"
	"github.com/huangsam/sunspot/internal/contract"
	"github.com/spf13/cobra"
)

// runExecutor adapts a core executor to a cobra Run function.
func runExecutor(name string, fn core.ExecutorFunc) func(*cobra.Command, []string) {
	return func(_ *cobra.Command, _ []string) {
		if err := fn(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal(fmt.Sprintf("Cannot run %s analysis", name), err)
		}
	}
}

// summaryCmd prints descriptive statistics of one metric per origin.
var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Summarize a metric per origin (count, mean, median, std, min, max, cv).",
	Long: `Merge the configured origin tables and summarize one metric per origin.

Missing cells are skipped, never treated as zero. Origins without any value
for the metric are still listed with an empty summary.

Examples:
  # Summarize global horizontal irradiance for every origin
  sunspot summary

  # Summarize daily mean DNI for Benin and Togo
  sunspot summary --metric DNI --granularity daily --countries benin,togo

  # Export to CSV
  sunspot summary --output csv --output-file ghi.csv`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run:     runExecutor(core.SummaryCommand, core.ExecuteSummary),
}

// rankCmd orders origins by mean of a metric.
var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Rank origins by descending mean of a metric.",
	Long: `Rank origins by the mean of the selected metric, highest first.

Ties go to the origin that sorts first by name. Origins without any value
for the metric are left out.

Examples:
  # Rank by GHI
  sunspot rank

  # Rank by monthly ambient temperature
  sunspot rank --metric Tamb --granularity monthly`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run:     runExecutor(core.RankCommand, core.ExecuteRank),
}

// signifCmd tests whether a metric differs between origins.
var signifCmd = &cobra.Command{
	Use:   "signif",
	Short: "Test whether a metric differs between origins (ANOVA, Kruskal-Wallis).",
	Long: `Run a one-way ANOVA and/or a Kruskal-Wallis H test across origins.

A p-value below 0.05 is reported as significant. At least two origins must
have values for the metric.

Examples:
  # Run both tests on GHI
  sunspot signif

  # Only the rank-based test on relative humidity
  sunspot signif --metric RH --test kruskal`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run:     runExecutor(core.SignifCommand, core.ExecuteSignificance),
}

// recommendCmd derives deployment advice from per-origin statistics.
var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Recommend deployment targets, technology and risk flags.",
	Long: `Derive deployment advice from GHI, DNI, Tamb and RH statistics.

Reports:
- Primary target (highest mean GHI) and secondary target (highest median GHI)
- Most consistent origin (lowest GHI coefficient of variation)
- CSP when some origin's mean DNI exceeds 400 W/m², otherwise PV
- High temperature (max Tamb above 40 °C) and high humidity (mean RH above 75 %) flags

Examples:
  sunspot recommend
  sunspot recommend --output json`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run:     runExecutor(core.RecommendCommand, core.ExecuteRecommend),
}

// aggregateCmd writes the merged dataset at the chosen granularity.
var aggregateCmd = &cobra.Command{
	Use:   "aggregate",
	Short: "Write the merged dataset, optionally bucketed by hour, day or month.",
	Long: `Merge the configured origin tables and write the rows.

With a granularity other than raw, rows are grouped per origin and time bucket
and every metric is replaced by the mean of its present values.

Examples:
  # Monthly means for every origin as CSV
  sunspot aggregate --granularity monthly --output csv --output-file monthly.csv

  # Hourly rows as parquet
  sunspot aggregate --granularity hourly --output parquet --output-file hourly.parquet`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run:     runExecutor(core.AggregateCommand, core.ExecuteAggregate),
}

// correlateCmd computes Pearson correlations between metrics.
var correlateCmd = &cobra.Command{
	Use:   "correlate",
	Short: "Correlate metrics with each other (Pearson).",
	Long: `Compute the Pearson correlation matrix between metrics over rows where both are present.

Examples:
  # Default metric set
  sunspot correlate

  # Only irradiance against temperature for Togo
  sunspot correlate --fields GHI,DNI,Tamb --countries togo`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run:     runExecutor(core.CorrelateCommand, core.ExecuteCorrelate),
}

// profileCmd shows the mean of a metric by hour of day.
var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show the diurnal profile of a metric per origin.",
	Long: `Average a metric by hour of day for each origin.

Examples:
  sunspot profile
  sunspot profile --metric Tamb --countries "sierra leone"`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run:     runExecutor(core.ProfileCommand, core.ExecuteProfile),
}

// statsCmd prints the dataset overview and detailed statistics for many metrics.
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print the dataset overview and per-origin statistics for many metrics.",
	Long: `Print the overview (row count, origins, overall and best mean of --metric)
followed by per-origin statistics for every metric in --fields.

Examples:
  sunspot stats
  sunspot stats --fields GHI,WS,BP --output json`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run:     runExecutor(core.StatsCommand, core.ExecuteStats),
}
