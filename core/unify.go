package core

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/sunspot/internal/contract"
	"github.com/huangsam/sunspot/schema"
)

// ErrAllSourcesUnavailable is returned by Unify when no origin could be loaded.
var ErrAllSourcesUnavailable = errors.New("all sources unavailable")

// timestampLayouts are tried in order when parsing the Timestamp column.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// columnAliases maps normalized column names to the field they carry.
var columnAliases = map[string]schema.Field{
	"ghi":                         schema.GHI,
	"globalhorizontalirradiance":  schema.GHI,
	"dni":                         schema.DNI,
	"directnormalirradiance":      schema.DNI,
	"dhi":                         schema.DHI,
	"diffusehorizontalirradiance": schema.DHI,
	"tamb":                        schema.Tamb,
	"ambienttemp":                 schema.Tamb,
	"ambienttemperature":          schema.Tamb,
	"rh":                          schema.RH,
	"relativehumidity":            schema.RH,
	"ws":                          schema.WS,
	"windspeed":                   schema.WS,
	"bp":                          schema.BP,
	"barometricpressure":          schema.BP,
}

// timestampColumns are the normalized names accepted for the timestamp column.
var timestampColumns = map[string]struct{}{
	"timestamp": {},
	"time":      {},
	"datetime":  {},
	"date":      {},
}

// missingTokens are cell contents that mean "no value".
var missingTokens = map[string]struct{}{
	"":     {},
	"nan":  {},
	"na":   {},
	"n/a":  {},
	"null": {},
	"none": {},
}

// Unify loads every origin through the loader and merges the tables into one dataset.
// An origin that cannot be loaded contributes nothing and is reported in the result's
// failures. When every origin fails, the dataset is empty and the error wraps
// ErrAllSourcesUnavailable.
func Unify(ctx context.Context, loader contract.SourceLoader, origins []schema.Origin) (schema.UnifyResult, error) {
	var result schema.UnifyResult
	tables := make([]schema.RawTable, 0, len(origins))
	for _, origin := range origins {
		if err := ctx.Err(); err != nil {
			return schema.UnifyResult{}, err
		}
		table, err := loader.Load(ctx, origin)
		if err != nil {
			result.Failures = append(result.Failures, &schema.SourceUnavailable{Origin: origin, Err: err})
			continue
		}
		table.Origin = origin
		tables = append(tables, table)
	}

	result.Dataset = MergeTables(tables)
	if len(origins) > 0 && len(tables) == 0 {
		return result, fmt.Errorf("%w: %w", ErrAllSourcesUnavailable, result.Err())
	}
	return result, nil
}

// MergeTables stamps each table's rows with its origin and concatenates them.
// Columns are matched case-insensitively. Unknown columns are ignored and fields
// a table lacks are missing on its rows.
func MergeTables(tables []schema.RawTable) schema.Dataset {
	total := 0
	for _, t := range tables {
		total += len(t.Records)
	}
	rows := make([]schema.Observation, 0, total)
	for _, t := range tables {
		layout := resolveColumns(t.Columns)
		for _, record := range t.Records {
			rows = append(rows, layout.observation(t.Origin, record))
		}
	}
	return schema.Dataset{Rows: rows}
}

// columnLayout records where each known column lives in a table's records.
type columnLayout struct {
	timestamp int
	fields    map[schema.Field]int
}

func resolveColumns(columns []string) columnLayout {
	layout := columnLayout{timestamp: -1, fields: make(map[schema.Field]int)}
	for i, col := range columns {
		key := normalizeColumn(col)
		if _, ok := timestampColumns[key]; ok && layout.timestamp < 0 {
			layout.timestamp = i
			continue
		}
		if f, ok := columnAliases[key]; ok {
			if _, seen := layout.fields[f]; !seen {
				layout.fields[f] = i
			}
		}
	}
	return layout
}

func (l columnLayout) observation(origin schema.Origin, record []string) schema.Observation {
	o := schema.Observation{Origin: origin}
	if l.timestamp >= 0 && l.timestamp < len(record) {
		if ts, ok := ParseTimestamp(record[l.timestamp]); ok {
			o.Timestamp = &ts
			hour, month := ts.Hour(), int(ts.Month())
			o.Hour = &hour
			o.Month = &month
			o.Date = ts.Format("2006-01-02")
		}
	}
	for f, idx := range l.fields {
		if idx < len(record) {
			o.Set(f, ParseValue(record[idx]))
		}
	}
	return o
}

// ParseValue converts a cell to a Value. Malformed, empty and non-finite cells are missing.
func ParseValue(cell string) schema.Value {
	cell = strings.TrimSpace(cell)
	if _, ok := missingTokens[strings.ToLower(cell)]; ok {
		return schema.None()
	}
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return schema.None()
	}
	return schema.Some(v)
}

// ParseTimestamp parses an ISO-8601 style timestamp and returns it in UTC.
func ParseTimestamp(cell string) (time.Time, bool) {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, cell); err == nil {
			return ts.UTC(), true
		}
	}
	return time.Time{}, false
}

func normalizeColumn(col string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(col)) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
