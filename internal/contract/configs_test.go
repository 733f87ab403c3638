package contract

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/sunspot/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validInput returns the raw input produced by the root command defaults.
func validInput() *ConfigRawInput {
	return &ConfigRawInput{
		Metric:       "GHI",
		Granularity:  "raw",
		Test:         "both",
		Output:       "text",
		Precision:    DefaultPrecision,
		Emoji:        "no",
		Color:        "yes",
		CacheBackend: "none",
	}
}

func TestProcessAndValidate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*ConfigRawInput)
		expectError bool
	}{
		{"valid minimal config", func(*ConfigRawInput) {}, false},
		{"lowercase metric", func(in *ConfigRawInput) { in.Metric = "dni" }, false},
		{"unknown metric", func(in *ConfigRawInput) { in.Metric = "UV" }, true},
		{"unknown country", func(in *ConfigRawInput) { in.Countries = "Benin,Ghana" }, true},
		{"invalid granularity", func(in *ConfigRawInput) { in.Granularity = "weekly" }, true},
		{"invalid test", func(in *ConfigRawInput) { in.Test = "t-test" }, true},
		{"invalid output", func(in *ConfigRawInput) { in.Output = "xml" }, true},
		{"parquet without file", func(in *ConfigRawInput) { in.Output = "parquet" }, true},
		{"parquet with file", func(in *ConfigRawInput) { in.Output = "parquet"; in.OutputFile = "out.parquet" }, false},
		{"precision too low", func(in *ConfigRawInput) { in.Precision = 0 }, true},
		{"precision too high", func(in *ConfigRawInput) { in.Precision = 5 }, true},
		{"negative width", func(in *ConfigRawInput) { in.Width = -1 }, true},
		{"invalid color", func(in *ConfigRawInput) { in.Color = "sometimes" }, true},
		{"invalid timeout", func(in *ConfigRawInput) { in.Timeout = "soon" }, true},
		{"unknown field list entry", func(in *ConfigRawInput) { in.Fields = "GHI,UV" }, true},
		{"invalid source origin", func(in *ConfigRawInput) { in.Source = map[string]string{"Ghana": "x.csv"} }, true},
		{"empty source location", func(in *ConfigRawInput) { in.Sources = map[string]string{"togo": " "} }, true},
		{"invalid cache backend", func(in *ConfigRawInput) { in.CacheBackend = "redis" }, true},
		{"mysql without connection", func(in *ConfigRawInput) { in.AnalysisBackend = "mysql" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validInput()
			tt.mutate(input)
			cfg := &Config{}
			err := ProcessAndValidate(cfg, input)
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestProcessAndValidateDefaults(t *testing.T) {
	input := validInput()
	input.Granularity = ""
	input.Test = ""
	input.Metric = ""
	input.CacheBackend = ""

	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, input))

	assert.Equal(t, schema.GHI, cfg.Field)
	assert.Equal(t, schema.RawGranularity, cfg.Granularity)
	assert.Equal(t, schema.BothTests, cfg.TestKind)
	assert.Equal(t, schema.SQLiteBackend, cfg.CacheBackend)
	assert.Equal(t, DefaultTimeout, cfg.SourceTimeout)
	assert.Equal(t, DefaultSources, cfg.Sources)
	assert.True(t, cfg.UseColors)
	assert.False(t, cfg.UseEmojis)
	assert.Equal(t, []schema.Origin{schema.Benin, schema.SierraLeone, schema.Togo}, cfg.SelectedOrigins())
}

func TestProcessAndValidateParsesLists(t *testing.T) {
	input := validInput()
	input.Countries = "togo, sierra-leone, Togo"
	input.Fields = "ghi,Tamb,GHI"
	input.Timeout = "5s"

	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, input))

	assert.Equal(t, []schema.Origin{schema.Togo, schema.SierraLeone}, cfg.Origins)
	assert.Equal(t, cfg.Origins, cfg.SelectedOrigins())
	assert.Equal(t, []schema.Field{schema.GHI, schema.Tamb}, cfg.Fields)
	assert.Equal(t, 5*time.Second, cfg.SourceTimeout)
}

func TestProcessSourcesPrecedence(t *testing.T) {
	input := validInput()
	input.Sources = map[string]string{"benin": "config/benin.csv", "togo": "config/togo.xlsx"}
	input.Source = map[string]string{"Togo": "https://example.org/togo.csv"}

	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, input))

	assert.Equal(t, "config/benin.csv", cfg.Sources[schema.Benin])
	assert.Equal(t, "https://example.org/togo.csv", cfg.Sources[schema.Togo])
	assert.Equal(t, DefaultSources[schema.SierraLeone], cfg.Sources[schema.SierraLeone])
}

func TestValidateDatabaseConnectionString(t *testing.T) {
	tests := []struct {
		name    string
		backend schema.DatabaseBackend
		conn    string
		wantErr bool
	}{
		{"sqlite accepts anything", schema.SQLiteBackend, "", false},
		{"none accepts anything", schema.NoneBackend, "", false},
		{"mysql valid", schema.MySQLBackend, "user:pass@tcp(localhost:3306)/sunspot", false},
		{"mysql missing tcp", schema.MySQLBackend, "user:pass@localhost/sunspot", true},
		{"mysql empty", schema.MySQLBackend, "", true},
		{"postgres valid", schema.PostgreSQLBackend, "host=localhost dbname=sunspot", false},
		{"postgres missing dbname", schema.PostgreSQLBackend, "host=localhost", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDatabaseConnectionString(tt.backend, tt.conn)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSQLiteStoresMustNotShareFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shared.db")
	input := validInput()
	input.CacheBackend = "sqlite"
	input.CacheDBConnect = path
	input.AnalysisBackend = "sqlite"
	input.AnalysisDBConnect = path

	err := ProcessAndValidate(&Config{}, input)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "different SQLite database files")
}

func TestConfigClone(t *testing.T) {
	cfg := &Config{
		Origins: []schema.Origin{schema.Benin},
		Fields:  []schema.Field{schema.GHI},
		Sources: map[schema.Origin]string{schema.Benin: "a.csv"},
	}
	clone := cfg.Clone()
	clone.Origins[0] = schema.Togo
	clone.Fields[0] = schema.DNI
	clone.Sources[schema.Benin] = "b.csv"

	assert.Equal(t, schema.Benin, cfg.Origins[0])
	assert.Equal(t, schema.GHI, cfg.Fields[0])
	assert.Equal(t, "a.csv", cfg.Sources[schema.Benin])
}

func TestProcessProfilingConfig(t *testing.T) {
	var profile ProfileConfig
	ProcessProfilingConfig(&profile, "  run1 ")
	assert.True(t, profile.Enabled)
	assert.Equal(t, "run1", profile.Prefix)

	ProcessProfilingConfig(&profile, "")
	assert.False(t, profile.Enabled)
	assert.Empty(t, profile.Prefix)
}
