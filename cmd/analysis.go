package cmd

import (
	"fmt"
	"os"

	"github.com/huangsam/sunspot/internal/contract"
	"github.com/huangsam/sunspot/internal/iocache"
	"github.com/huangsam/sunspot/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// analysisBackendFromConfig reads and validates the analysis backend settings.
// An empty backend means tracking is disabled.
func analysisBackendFromConfig() (schema.DatabaseBackend, string, error) {
	if err := loadConfigFile(); err != nil {
		return "", "", err
	}

	backend := schema.NoneBackend
	if backendStr := viper.GetString("analysis-backend"); backendStr != "" {
		backend = schema.DatabaseBackend(backendStr)
	}
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return "", "", fmt.Errorf("invalid analysis backend '%s'. must be sqlite, mysql, postgresql, none", backend)
	}

	connStr := viper.GetString("analysis-db-connect")
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return "", "", err
	}
	return backend, connStr, nil
}

// analysisSetup loads minimal configuration needed for analysis operations.
// This is used by commands that need analysis access without full shared setup.
func analysisSetup() error {
	backend, connStr, err := analysisBackendFromConfig()
	if err != nil {
		return err
	}

	// Initialize stores with the loaded config (no source caching for analysis commands)
	if err := iocache.InitCaching("", "", backend, connStr); err != nil {
		return fmt.Errorf("failed to initialize analysis: %w", err)
	}

	cfg.AnalysisBackend = backend
	cfg.AnalysisDBConnect = connStr
	cfg.OutputFile = viper.GetString("output-file")

	return nil
}

// sqlitePath returns the SQLite file a connection string points at.
func sqlitePath(connStr, defaultPath string) string {
	if connStr != "" {
		return connStr
	}
	return defaultPath
}

// analysisSetupWrapper wraps analysisSetup to provide PreRunE for analysis commands.
func analysisSetupWrapper(_ *cobra.Command, _ []string) error {
	return analysisSetup()
}

// analysisMigrateSetup loads minimal configuration needed for migrate operations.
// This is a specialized setup that does NOT initialize stores or create tables,
// allowing migrations to run on a fresh database.
func analysisMigrateSetup() error {
	backend, connStr, err := analysisBackendFromConfig()
	if err != nil {
		return err
	}
	cfg.AnalysisBackend = backend
	cfg.AnalysisDBConnect = connStr
	return nil
}

// analysisMigrateSetupWrapper wraps analysisMigrateSetup to provide PreRunE for migrate command.
func analysisMigrateSetupWrapper(_ *cobra.Command, _ []string) error {
	return analysisMigrateSetup()
}

// analysisCmd focused on analysis data management.
//
// Note: Analysis subcommands use minimal initialization (analysisSetup) instead of
// the full sharedSetup. This avoids source and metric validation for simple
// store operations.
var analysisCmd = &cobra.Command{
	Use:   "analysis",
	Short: "Manage historical analysis tracking and exports",
	Long: `Manage the history of analysis runs.

When --analysis-backend is set, Sunspot records every run, storing:
- Run metadata (timestamp, command, configuration, duration, rows analyzed)
- Per-origin statistics of every metric the run summarized

Supported backends: SQLite, MySQL, PostgreSQL, or None (disabled)

Subcommands:
  status  - Show analysis tracking statistics
  export  - Export data to Parquet for analytics
  clear   - Remove all tracking data
  migrate - Run database schema migrations

Examples:
  # Track runs in the default SQLite file
  sunspot summary --analysis-backend sqlite

  # Check tracking status
  sunspot analysis status --analysis-backend sqlite

  # Export for analysis in pandas/DuckDB
  sunspot analysis export --analysis-backend sqlite --output-file history`,
}

// analysisClearCmd clears the analysis data.
var analysisClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all historical analysis tracking data",
	Long: `Delete all stored analysis runs and origin statistics.

For SQLite: Deletes the database file
For MySQL/PostgreSQL: Drops the analysis tables and the migration ledger

WARNING: This action cannot be undone. Consider exporting data first.

Examples:
  sunspot analysis export --analysis-backend sqlite --output-file backup
  sunspot analysis clear --analysis-backend sqlite`,
	PreRunE: analysisSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		// Release the SQLite handle before the file goes away
		iocache.CloseCaching()
		if err := iocache.ClearAnalysis(cfg.AnalysisBackend, sqlitePath(cfg.AnalysisDBConnect, contract.GetAnalysisDBFilePath()), cfg.AnalysisDBConnect); err != nil {
			contract.LogFatal("Failed to clear analysis data", err)
		}
		fmt.Println("Analysis data cleared successfully.")
	},
}

// analysisStatusCmd shows analysis status.
var analysisStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display analysis tracking statistics and connection details",
	Long: `Show detailed information about historical analysis tracking.

Displays:
- Backend type and connection status
- Total number of analysis runs stored
- Last and oldest analysis run timestamps
- Total rows analyzed across all runs
- Database table sizes

Examples:
  sunspot analysis status --analysis-backend sqlite`,
	PreRunE: analysisSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		store := iocache.Manager.GetAnalysisStore()
		if store == nil {
			contract.LogFatal("Failed to get analysis status", fmt.Errorf("analysis tracking is disabled"))
		}
		status, err := store.GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get analysis status", err)
		}
		iocache.PrintAnalysisStatus(os.Stdout, status)
	},
}

// analysisExportCmd exports analysis data to Parquet files.
var analysisExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export historical data to Parquet for BI tools and analytics",
	Long: `Export all stored analysis data to Parquet format.

Writes two files next to --output-file:
- <output-file>.analysis_runs.parquet - one row per analysis run
- <output-file>.origin_stats.parquet - per-origin statistics of each run

Requires: --output-file parameter

Examples:
  sunspot analysis export --analysis-backend sqlite --output-file history

  # Query with DuckDB
  duckdb -c "SELECT * FROM read_parquet('history.origin_stats.parquet') LIMIT 10"`,
	PreRunE: analysisSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ExecuteAnalysisExport(os.Stdout, iocache.Manager.GetAnalysisStore(), cfg.OutputFile); err != nil {
			contract.LogFatal("Failed to export analysis data", err)
		}
	},
}

// analysisMigrateCmd runs database migrations for the analysis store.
var analysisMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the analysis tracking store.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  sunspot analysis migrate --analysis-backend sqlite

  # Migrate to specific version
  sunspot analysis migrate --analysis-backend sqlite --target-version 2

  # Rollback to the initial state
  sunspot analysis migrate --analysis-backend sqlite --target-version 0`,
	PreRunE: analysisMigrateSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := iocache.MigrateAnalysis(cfg.AnalysisBackend, cfg.AnalysisDBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
		fmt.Println("Analysis migrations applied successfully.")
	},
}
