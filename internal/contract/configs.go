package contract

import (
	"fmt"
	"maps"
	"strings"
	"time"

	"github.com/huangsam/sunspot/schema"
)

// Default values for configuration.
const (
	DefaultPrecision = 2
	MaxPrecision     = 4
	DefaultTimeout   = 30 * time.Second
)

// DefaultSources maps each known origin to its cleaned measurement table.
var DefaultSources = map[schema.Origin]string{
	schema.Benin:       "data/benin_clean.csv",
	schema.SierraLeone: "data/sierraleone_clean.csv",
	schema.Togo:        "data/togo_clean.csv",
}

// ProfileConfig holds profiling settings.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// Config holds the runtime configuration for the analysis.
// This struct remains the "final, validated" config.
type Config struct {
	Origins     []schema.Origin // Empty means every configured origin
	Field       schema.Field
	Fields      []schema.Field // Fields for multi-field commands such as stats and correlate
	Granularity schema.Granularity
	TestKind    schema.TestKind
	Precision   int
	Output      schema.OutputMode
	OutputFile  string
	Width       int // Terminal width override (0 = auto-detect)

	// Sources maps an origin to a file path or http(s) URL
	Sources       map[schema.Origin]string
	SourceTimeout time.Duration

	CacheBackend   schema.DatabaseBackend
	CacheDBConnect string // Please use env var as this is plaintext

	AnalysisBackend   schema.DatabaseBackend
	AnalysisDBConnect string // Please use env var as this is plaintext

	UseEmojis bool // Enable emojis in output headers
	UseColors bool // Enable colored labels in table output
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// --- Fields from rootCmd.PersistentFlags() ---
	Countries         string `mapstructure:"countries"`
	Metric            string `mapstructure:"metric"`
	Fields            string `mapstructure:"fields"`
	Granularity       string `mapstructure:"granularity"`
	Test              string `mapstructure:"test"`
	Output            string `mapstructure:"output"`
	OutputFile        string `mapstructure:"output-file"`
	Precision         int    `mapstructure:"precision"`
	Width             int    `mapstructure:"width"`
	Timeout           string `mapstructure:"timeout"`
	CacheBackend      string `mapstructure:"cache-backend"`
	CacheDBConnect    string `mapstructure:"cache-db-connect"`
	AnalysisBackend   string `mapstructure:"analysis-backend"`
	AnalysisDBConnect string `mapstructure:"analysis-db-connect"`
	Emoji             string `mapstructure:"emoji"`
	Color             string `mapstructure:"color"`

	// --- Per-origin locations: the config file map and --source overrides ---
	Sources map[string]string `mapstructure:"sources"`
	Source  map[string]string `mapstructure:"source"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	if c.Origins != nil {
		clone.Origins = make([]schema.Origin, len(c.Origins))
		copy(clone.Origins, c.Origins)
	}
	if c.Fields != nil {
		clone.Fields = make([]schema.Field, len(c.Fields))
		copy(clone.Fields, c.Fields)
	}
	if c.Sources != nil {
		clone.Sources = make(map[schema.Origin]string, len(c.Sources))
		maps.Copy(clone.Sources, c.Sources)
	}
	return &clone
}

// SelectedOrigins returns the origins a run should load: the explicit selection,
// or every configured source in name order.
func (c *Config) SelectedOrigins() []schema.Origin {
	if len(c.Origins) > 0 {
		return c.Origins
	}
	var origins []schema.Origin
	for _, o := range schema.AllOrigins {
		if _, ok := c.Sources[o]; ok {
			origins = append(origins, o)
		}
	}
	return origins
}

// ProcessAndValidate performs all complex parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processAnalysisInputs(cfg, input); err != nil {
		return err
	}
	if err := processSources(cfg, input); err != nil {
		return err
	}
	return validateBackendConfigs(cfg, input)
}

// ProcessProfilingConfig enables profiling when a file prefix is given.
func ProcessProfilingConfig(profile *ProfileConfig, profilePrefix string) {
	profilePrefix = strings.TrimSpace(profilePrefix)
	profile.Enabled = profilePrefix != ""
	profile.Prefix = profilePrefix
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateBackendConfigs validates cache and analysis backend configurations.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	// --- Cache Backend Validation ---
	cfg.CacheBackend = schema.DatabaseBackend(strings.ToLower(input.CacheBackend))
	if cfg.CacheBackend == "" {
		cfg.CacheBackend = schema.SQLiteBackend
	}
	if _, ok := schema.ValidDatabaseBackends[cfg.CacheBackend]; !ok {
		return fmt.Errorf("invalid cache backend '%s'. must be sqlite, mysql, postgresql, none", input.CacheBackend)
	}
	cfg.CacheDBConnect = input.CacheDBConnect
	if err := ValidateDatabaseConnectionString(cfg.CacheBackend, cfg.CacheDBConnect); err != nil {
		return fmt.Errorf("cache backend: %w", err)
	}

	// --- Analysis Backend Validation ---
	cfg.AnalysisBackend = schema.DatabaseBackend(strings.ToLower(input.AnalysisBackend))
	if cfg.AnalysisBackend == "" {
		return nil
	}
	if _, ok := schema.ValidDatabaseBackends[cfg.AnalysisBackend]; !ok {
		return fmt.Errorf("invalid analysis backend '%s'. must be sqlite, mysql, postgresql, none", input.AnalysisBackend)
	}
	cfg.AnalysisDBConnect = input.AnalysisDBConnect
	if err := ValidateDatabaseConnectionString(cfg.AnalysisBackend, cfg.AnalysisDBConnect); err != nil {
		return fmt.Errorf("analysis backend: %w", err)
	}

	// Both stores on SQLite must not share a file
	if cfg.CacheBackend == schema.SQLiteBackend && cfg.AnalysisBackend == schema.SQLiteBackend {
		cacheDBPath := cfg.CacheDBConnect
		if cacheDBPath == "" {
			cacheDBPath = GetCacheDBFilePath()
		}
		analysisDBPath := cfg.AnalysisDBConnect
		if analysisDBPath == "" {
			analysisDBPath = GetAnalysisDBFilePath()
		}
		if cacheDBPath == analysisDBPath {
			return fmt.Errorf("cache and analysis storage must use different SQLite database files. Both resolve to %q", cacheDBPath)
		}
	}
	return nil
}

// validateSimpleInputs processes and validates the output related fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width

	emojis, err := ParseBoolString(input.Emoji)
	if err != nil {
		return fmt.Errorf("invalid --emoji value: %w", err)
	}
	cfg.UseEmojis = emojis

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	if input.Precision < 1 || input.Precision > MaxPrecision {
		return fmt.Errorf("precision must be between 1 and %d (received %d)", MaxPrecision, input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", input.Output)
	}
	if cfg.Output == schema.ParquetOut && cfg.OutputFile == "" {
		return fmt.Errorf("parquet output requires --output-file")
	}
	if input.Width < 0 {
		return fmt.Errorf("width cannot be negative (received %d)", input.Width)
	}

	cfg.SourceTimeout = DefaultTimeout
	if input.Timeout != "" {
		d, err := time.ParseDuration(input.Timeout)
		if err != nil || d <= 0 {
			return fmt.Errorf("invalid timeout '%s'. expected a positive duration such as 30s", input.Timeout)
		}
		cfg.SourceTimeout = d
	}
	return nil
}

// processAnalysisInputs handles origins, metric, fields, granularity and test kind.
func processAnalysisInputs(cfg *Config, input *ConfigRawInput) error {
	origins, err := schema.ParseOrigins(input.Countries)
	if err != nil {
		return err
	}
	cfg.Origins = origins

	cfg.Field = schema.GHI
	if input.Metric != "" {
		f, err := schema.ParseField(input.Metric)
		if err != nil {
			return err
		}
		cfg.Field = f
	}

	cfg.Fields = nil
	for part := range strings.SplitSeq(input.Fields, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		f, err := schema.ParseField(part)
		if err != nil {
			return err
		}
		if !containsField(cfg.Fields, f) {
			cfg.Fields = append(cfg.Fields, f)
		}
	}

	cfg.Granularity = schema.Granularity(strings.ToLower(input.Granularity))
	if cfg.Granularity == "" {
		cfg.Granularity = schema.RawGranularity
	}
	if _, ok := schema.ValidGranularities[cfg.Granularity]; !ok {
		return fmt.Errorf("invalid granularity '%s'. must be raw, hourly, daily, monthly", input.Granularity)
	}

	cfg.TestKind = schema.TestKind(strings.ToLower(input.Test))
	if cfg.TestKind == "" {
		cfg.TestKind = schema.BothTests
	}
	if _, ok := schema.ValidTestKinds[cfg.TestKind]; !ok {
		return fmt.Errorf("invalid test '%s'. must be anova, kruskal, both", input.Test)
	}
	return nil
}

// processSources merges the default locations, the config file map and the
// --source overrides, in that order of precedence.
func processSources(cfg *Config, input *ConfigRawInput) error {
	sources := make(map[schema.Origin]string, len(DefaultSources))
	maps.Copy(sources, DefaultSources)

	for _, raw := range []map[string]string{input.Sources, input.Source} {
		for name, location := range raw {
			origin, err := schema.ParseOrigin(name)
			if err != nil {
				return fmt.Errorf("invalid source: %w", err)
			}
			location = strings.TrimSpace(location)
			if location == "" {
				return fmt.Errorf("source location for %s cannot be empty", origin)
			}
			sources[origin] = location
		}
	}
	cfg.Sources = sources

	for _, o := range cfg.Origins {
		if _, ok := cfg.Sources[o]; !ok {
			return fmt.Errorf("no source configured for %s", o)
		}
	}
	return nil
}

func containsField(fields []schema.Field, f schema.Field) bool {
	for _, x := range fields {
		if x == f {
			return true
		}
	}
	return false
}
