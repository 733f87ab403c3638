// Package source acquires the raw measurement tables of each origin.
package source

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/huangsam/sunspot/internal/contract"
	"github.com/huangsam/sunspot/schema"
)

var (
	// ErrUnsupportedSource is returned for locations whose format cannot be read.
	ErrUnsupportedSource = errors.New("unsupported source")

	// ErrNoSource is returned when an origin has no configured location.
	ErrNoSource = errors.New("no source configured")
)

// Format is the table encoding of a source.
type Format string

// Supported formats.
const (
	CSVFormat  Format = "csv"
	XLSXFormat Format = "xlsx"
)

// Loader loads origin tables from local files or http(s) URLs.
// Remote tables are cached in the source store when one is available.
type Loader struct {
	sources map[schema.Origin]string
	client  *http.Client
	cache   contract.CacheStore
	retries uint64
}

var _ contract.SourceLoader = &Loader{} // Compile-time check

// NewLoader builds a loader from the configured sources. The cache may be nil.
func NewLoader(cfg *contract.Config, cache contract.CacheStore) *Loader {
	timeout := cfg.SourceTimeout
	if timeout <= 0 {
		timeout = contract.DefaultTimeout
	}
	return &Loader{
		sources: cfg.Sources,
		client:  &http.Client{Timeout: timeout},
		cache:   cache,
		retries: defaultRetries,
	}
}

// Load returns the raw table of one origin.
func (l *Loader) Load(ctx context.Context, origin schema.Origin) (schema.RawTable, error) {
	location, ok := l.sources[origin]
	if !ok || location == "" {
		return schema.RawTable{}, fmt.Errorf("%w for %s", ErrNoSource, origin)
	}

	var (
		table schema.RawTable
		err   error
	)
	if IsRemote(location) {
		table, err = l.loadRemote(ctx, location)
	} else {
		table, err = loadFile(location)
	}
	if err != nil {
		return schema.RawTable{}, err
	}
	table.Origin = origin
	return table, nil
}

// IsRemote reports whether a location is an http(s) URL.
func IsRemote(location string) bool {
	lower := strings.ToLower(location)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// DetectFormat infers the table format from a file path or URL path.
func DetectFormat(location string) (Format, error) {
	p := location
	if IsRemote(location) {
		if u, err := url.Parse(location); err == nil {
			p = u.Path
		}
	}
	switch strings.ToLower(path.Ext(p)) {
	case ".csv", ".txt":
		return CSVFormat, nil
	case ".xlsx":
		return XLSXFormat, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedSource, location)
}

func loadFile(location string) (schema.RawTable, error) {
	format, err := DetectFormat(location)
	if err != nil {
		return schema.RawTable{}, err
	}
	f, err := os.Open(filepath.Clean(location))
	if err != nil {
		return schema.RawTable{}, fmt.Errorf("open %s: %w", location, err)
	}
	defer func() { _ = f.Close() }()

	switch format {
	case XLSXFormat:
		return ReadXLSX(f)
	default:
		return ReadCSV(f)
	}
}

// staleAfter is how long a cached remote table is trusted.
const staleAfter = 24 * time.Hour
