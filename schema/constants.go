package schema

// Custom string types for type safety.
type (
	// Origin identifies the country a measurement was recorded in.
	Origin string

	// Field is a measured quantity of a solar observation.
	Field string

	// Granularity is the time bucket used when aggregating observations.
	Granularity string

	// TestKind selects the significance test to run.
	TestKind string

	// Technology is the recommended solar technology.
	Technology string

	// RiskKind labels an operational risk raised by the recommendation rules.
	RiskKind string

	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for caching and tracking.
	DatabaseBackend string
)

// Known origins.
const (
	Benin       Origin = "Benin"
	SierraLeone Origin = "Sierra Leone"
	Togo        Origin = "Togo"
)

// Measured fields.
const (
	GHI  Field = "GHI"  // global horizontal irradiance, W/m²
	DNI  Field = "DNI"  // direct normal irradiance, W/m²
	DHI  Field = "DHI"  // diffuse horizontal irradiance, W/m²
	Tamb Field = "Tamb" // ambient temperature, °C
	RH   Field = "RH"   // relative humidity, %
	WS   Field = "WS"   // wind speed, m/s
	BP   Field = "BP"   // barometric pressure, hPa
)

// All granularities supported.
const (
	RawGranularity     Granularity = "raw" // default
	HourlyGranularity  Granularity = "hourly"
	DailyGranularity   Granularity = "daily"
	MonthlyGranularity Granularity = "monthly"
)

// All significance tests supported.
const (
	ANOVATest   TestKind = "anova"
	KruskalTest TestKind = "kruskal"
	BothTests   TestKind = "both" // default
)

// Recommended technologies.
const (
	CSPTechnology Technology = "CSP"
	PVTechnology  Technology = "PV"
)

// Risk flag kinds.
const (
	HighTemperature RiskKind = "HighTemperature"
	HighHumidity    RiskKind = "HighHumidity"
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All database backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// AllOrigins lists the known origins in name order.
var AllOrigins = []Origin{Benin, SierraLeone, Togo}

// AllFields lists every measured field in display order.
var AllFields = []Field{GHI, DNI, DHI, Tamb, RH, WS, BP}

// CorrelationFields are the fields included in the default correlation matrix.
var CorrelationFields = []Field{GHI, DNI, DHI, Tamb, RH, WS}

// ValidOrigins lists all known origins.
var ValidOrigins = map[Origin]struct{}{
	Benin:       {},
	SierraLeone: {},
	Togo:        {},
}

// ValidFields lists all measured fields.
var ValidFields = map[Field]struct{}{
	GHI:  {},
	DNI:  {},
	DHI:  {},
	Tamb: {},
	RH:   {},
	WS:   {},
	BP:   {},
}

// ValidGranularities lists all valid granularities.
var ValidGranularities = map[Granularity]struct{}{
	RawGranularity:     {},
	HourlyGranularity:  {},
	DailyGranularity:   {},
	MonthlyGranularity: {},
}

// ValidTestKinds lists all valid significance test selections.
var ValidTestKinds = map[TestKind]struct{}{
	ANOVATest:   {},
	KruskalTest: {},
	BothTests:   {},
}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidDatabaseBackends lists all valid database backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// fieldDisplayNames maps fields to their long labels with units.
var fieldDisplayNames = map[Field]string{
	GHI:  "Global Horizontal Irradiance (W/m²)",
	DNI:  "Direct Normal Irradiance (W/m²)",
	DHI:  "Diffuse Horizontal Irradiance (W/m²)",
	Tamb: "Ambient Temperature (°C)",
	RH:   "Relative Humidity (%)",
	WS:   "Wind Speed (m/s)",
	BP:   "Barometric Pressure (hPa)",
}
