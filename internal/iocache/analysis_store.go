package iocache

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/huangsam/sunspot/internal/contract"
	"github.com/huangsam/sunspot/schema"
)

// Table names for analysis tracking.
const (
	analysisRunsTable = "sunspot_analysis_runs"
	originStatsTable  = "sunspot_origin_stats"
)

// analysisTables lists the analysis tables in creation order.
var analysisTables = []string{analysisRunsTable, originStatsTable}

// AnalysisStoreImpl implements the AnalysisStore interface.
type AnalysisStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
}

var _ contract.AnalysisStore = &AnalysisStoreImpl{} // Compile-time check

// NewAnalysisStore creates a new AnalysisStore with the specified backend.
func NewAnalysisStore(backend schema.DatabaseBackend, connStr string) (contract.AnalysisStore, error) {
	if backend == schema.NoneBackend {
		return &AnalysisStoreImpl{backend: backend}, nil
	}

	db, err := openDB(backend, connStr, GetAnalysisDBFilePath())
	if err != nil {
		return nil, fmt.Errorf("analysis store: %w", err)
	}
	if err := ensureAnalysisTables(db, backend); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create analysis tables: %w", err)
	}
	return &AnalysisStoreImpl{db: db, backend: backend}, nil
}

func (as *AnalysisStoreImpl) table(name string) string {
	return quoteTableName(name, as.backend)
}

// BeginAnalysis creates a new analysis run and returns its unique ID.
func (as *AnalysisStoreImpl) BeginAnalysis(command string, startTime time.Time, configParams map[string]any) (int64, error) {
	if as.db == nil {
		return 0, nil
	}

	configJSON, err := json.Marshal(configParams)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal config params: %w", err)
	}

	query := fmt.Sprintf(`INSERT INTO %s (command, start_time, config_params) VALUES (%s)`,
		as.table(analysisRunsTable), placeholders(as.backend, 3))
	args := []any{command, formatTime(startTime, as.backend), string(configJSON)}

	var analysisID int64
	if as.backend == schema.PostgreSQLBackend {
		err = as.db.QueryRow(query+" RETURNING analysis_id", args...).Scan(&analysisID)
	} else {
		var result sql.Result
		result, err = as.db.Exec(query, args...)
		if err == nil {
			analysisID, err = result.LastInsertId()
		}
	}
	if err != nil {
		return 0, fmt.Errorf("failed to insert analysis run: %w", err)
	}
	return analysisID, nil
}

// EndAnalysis updates the analysis run with completion data.
func (as *AnalysisStoreImpl) EndAnalysis(analysisID int64, endTime time.Time, totalRows int) error {
	if as.db == nil {
		return nil
	}

	start := timeScanner{backend: as.backend}
	selectQuery := fmt.Sprintf(`SELECT start_time FROM %s WHERE analysis_id = %s`,
		as.table(analysisRunsTable), placeholders(as.backend, 1))
	if err := as.db.QueryRow(selectQuery, analysisID).Scan(start.dest()); err != nil {
		return fmt.Errorf("failed to get start_time for analysis %d: %w", analysisID, err)
	}
	startTime, err := start.value()
	if err != nil || startTime == nil {
		return fmt.Errorf("failed to read start_time for analysis %d: %w", analysisID, err)
	}

	durationMs := endTime.Sub(*startTime).Milliseconds()
	var updateQuery string
	if as.backend == schema.PostgreSQLBackend {
		updateQuery = `UPDATE %s SET end_time = $1, run_duration_ms = $2, total_rows_analyzed = $3 WHERE analysis_id = $4`
	} else {
		updateQuery = `UPDATE %s SET end_time = ?, run_duration_ms = ?, total_rows_analyzed = ? WHERE analysis_id = ?`
	}
	_, err = as.db.Exec(fmt.Sprintf(updateQuery, as.table(analysisRunsTable)),
		formatTime(endTime, as.backend), durationMs, totalRows, analysisID)
	if err != nil {
		return fmt.Errorf("failed to update analysis run: %w", err)
	}
	return nil
}

// RecordOriginStats stores the statistics of one field for one origin.
func (as *AnalysisStoreImpl) RecordOriginStats(record schema.OriginStatsRecord) error {
	if as.db == nil {
		return nil
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (analysis_id, origin, field, analysis_time, row_count,
		                mean_value, median_value, std_value, min_value, max_value, cv_value)
		VALUES (%s)
	`, as.table(originStatsTable), placeholders(as.backend, 11))
	_, err := as.db.Exec(query,
		record.AnalysisID, record.Origin, record.Field, formatTime(record.AnalysisTime, as.backend), record.Count,
		record.Mean, record.Median, record.Std, record.Min, record.Max, record.CV,
	)
	if err != nil {
		return fmt.Errorf("failed to insert origin stats: %w", err)
	}
	return nil
}

// Close closes the underlying connection.
func (as *AnalysisStoreImpl) Close() error {
	if as.db != nil {
		return as.db.Close()
	}
	return nil
}

// GetStatus returns status information about the analysis store.
func (as *AnalysisStoreImpl) GetStatus() (schema.AnalysisStatus, error) {
	status := schema.AnalysisStatus{
		Backend:    string(as.backend),
		Connected:  as.db != nil,
		TableSizes: make(map[string]int64),
	}
	if as.db == nil {
		return status, nil
	}

	runs := as.table(analysisRunsTable)
	if err := as.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", runs)).Scan(&status.TotalRuns); err != nil {
		return status, fmt.Errorf("failed to get total runs: %w", err)
	}

	if status.TotalRuns > 0 {
		last := timeScanner{backend: as.backend}
		lastQuery := fmt.Sprintf("SELECT analysis_id, start_time FROM %s ORDER BY analysis_id DESC LIMIT 1", runs)
		if err := as.db.QueryRow(lastQuery).Scan(&status.LastRunID, last.dest()); err != nil {
			return status, fmt.Errorf("failed to get last run info: %w", err)
		}
		if t, err := last.value(); err != nil {
			return status, err
		} else if t != nil {
			status.LastRunTime = *t
		}

		oldest := timeScanner{backend: as.backend}
		oldestQuery := fmt.Sprintf("SELECT start_time FROM %s ORDER BY analysis_id ASC LIMIT 1", runs)
		if err := as.db.QueryRow(oldestQuery).Scan(oldest.dest()); err != nil {
			return status, fmt.Errorf("failed to get oldest run time: %w", err)
		}
		if t, err := oldest.value(); err != nil {
			return status, err
		} else if t != nil {
			status.OldestRunTime = *t
		}

		rowsQuery := fmt.Sprintf("SELECT COALESCE(SUM(total_rows_analyzed), 0) FROM %s", runs)
		if err := as.db.QueryRow(rowsQuery).Scan(&status.TotalRowsAnalyzed); err != nil {
			return status, fmt.Errorf("failed to get total rows analyzed: %w", err)
		}
	}

	for _, table := range analysisTables {
		var count int64
		if err := as.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", as.table(table))).Scan(&count); err != nil {
			return status, fmt.Errorf("failed to get count for table %s: %w", table, err)
		}
		status.TableSizes[table] = count
	}
	return status, nil
}

// GetAllAnalysisRuns retrieves all analysis runs from the store.
func (as *AnalysisStoreImpl) GetAllAnalysisRuns() ([]schema.AnalysisRunRecord, error) {
	if as.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT analysis_id, command, start_time, end_time, run_duration_ms, total_rows_analyzed, config_params
		FROM %s ORDER BY analysis_id`, as.table(analysisRunsTable))
	rows, err := as.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query analysis runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.AnalysisRunRecord
	for rows.Next() {
		var record schema.AnalysisRunRecord
		start := timeScanner{backend: as.backend}
		end := timeScanner{backend: as.backend}
		if err := rows.Scan(&record.AnalysisID, &record.Command, start.dest(), end.dest(),
			&record.RunDurationMs, &record.TotalRowsAnalyzed, &record.ConfigParams); err != nil {
			return nil, fmt.Errorf("failed to scan analysis run: %w", err)
		}
		startTime, err := start.value()
		if err != nil {
			return nil, err
		}
		if startTime != nil {
			record.StartTime = *startTime
		}
		if record.EndTime, err = end.value(); err != nil {
			return nil, err
		}
		results = append(results, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating analysis runs: %w", err)
	}
	return results, nil
}

// GetAllOriginStats retrieves every stored statistics row.
func (as *AnalysisStoreImpl) GetAllOriginStats() ([]schema.OriginStatsRecord, error) {
	if as.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT analysis_id, origin, field, analysis_time, row_count,
		mean_value, median_value, std_value, min_value, max_value, cv_value
		FROM %s ORDER BY analysis_id, field, origin`, as.table(originStatsTable))
	rows, err := as.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query origin stats: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.OriginStatsRecord
	for rows.Next() {
		var record schema.OriginStatsRecord
		at := timeScanner{backend: as.backend}
		if err := rows.Scan(&record.AnalysisID, &record.Origin, &record.Field, at.dest(), &record.Count,
			&record.Mean, &record.Median, &record.Std, &record.Min, &record.Max, &record.CV); err != nil {
			return nil, fmt.Errorf("failed to scan origin stats: %w", err)
		}
		analysisTime, err := at.value()
		if err != nil {
			return nil, err
		}
		if analysisTime != nil {
			record.AnalysisTime = *analysisTime
		}
		results = append(results, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating origin stats: %w", err)
	}
	return results, nil
}
