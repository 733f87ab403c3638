// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"time"

	"github.com/huangsam/sunspot/schema"
)

// SourceLoader obtains the raw measurement table of one origin.
// This allows the unifier to be tested without files or network access.
type SourceLoader interface {
	// Load returns the origin's table, or an error when it cannot be obtained.
	Load(ctx context.Context, origin schema.Origin) (schema.RawTable, error)
}

// CacheManager defines the interface for managing cache stores.
// This allows the cache layer to be mocked for testing.
type CacheManager interface {
	GetSourceStore() CacheStore
	GetAnalysisStore() AnalysisStore
}

// CacheStore defines the interface for cache data storage.
// This allows mocking the store for testing.
type CacheStore interface {
	Get(key string) ([]byte, int, int64, error)
	Set(key string, value []byte, version int, timestamp int64) error
	GetStatus() (schema.CacheStatus, error)
	Close() error
}

// AnalysisStore defines the interface for tracking analysis runs and storing statistics.
type AnalysisStore interface {
	// BeginAnalysis creates a new analysis run and returns its unique ID
	BeginAnalysis(command string, startTime time.Time, configParams map[string]any) (int64, error)

	// EndAnalysis updates the analysis run with completion data
	EndAnalysis(analysisID int64, endTime time.Time, totalRows int) error

	// RecordOriginStats stores the statistics of one field for one origin
	RecordOriginStats(record schema.OriginStatsRecord) error

	// GetStatus returns status information about the analysis store
	GetStatus() (schema.AnalysisStatus, error)

	// GetAllAnalysisRuns retrieves every stored run
	GetAllAnalysisRuns() ([]schema.AnalysisRunRecord, error)

	// GetAllOriginStats retrieves every stored statistics row
	GetAllOriginStats() ([]schema.OriginStatsRecord, error)

	// Close closes the underlying connection
	Close() error
}
