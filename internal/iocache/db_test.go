package iocache

import (
	"testing"
	"time"

	"github.com/huangsam/sunspot/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlaceholders(t *testing.T) {
	assert.Equal(t, "?, ?, ?", placeholders(schema.SQLiteBackend, 3))
	assert.Equal(t, "?", placeholders(schema.MySQLBackend, 1))
	assert.Equal(t, "$1, $2", placeholders(schema.PostgreSQLBackend, 2))
}

func TestQuoteTableName(t *testing.T) {
	assert.Equal(t, "`source_cache`", quoteTableName("source_cache", schema.MySQLBackend))
	assert.Equal(t, `"source_cache"`, quoteTableName("source_cache", schema.PostgreSQLBackend))
	assert.Equal(t, `"source_cache"`, quoteTableName("source_cache", schema.SQLiteBackend))
}

func TestMySQLDSNEnablesParseTime(t *testing.T) {
	dsn, err := mysqlDSN("user:pass@tcp(localhost:3306)/sunspot")
	require.NoError(t, err)
	assert.Contains(t, dsn, "parseTime=true")

	_, err = mysqlDSN("not a dsn")
	assert.Error(t, err)
}

func TestTimeScanner(t *testing.T) {
	at := time.Date(2024, 5, 6, 7, 8, 9, 123, time.FixedZone("WAT", 3600))

	ts := timeScanner{backend: schema.SQLiteBackend}
	ts.text.String, ts.text.Valid = formatTime(at, schema.SQLiteBackend).(string), true
	got, err := ts.value()
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, at.Equal(*got))

	null := timeScanner{backend: schema.SQLiteBackend}
	got, err = null.value()
	require.NoError(t, err)
	assert.Nil(t, got)

	bad := timeScanner{backend: schema.SQLiteBackend}
	bad.text.String, bad.text.Valid = "yesterday", true
	_, err = bad.value()
	assert.Error(t, err)

	native := timeScanner{backend: schema.PostgreSQLBackend}
	native.native.Time, native.native.Valid = at, true
	got, err = native.value()
	require.NoError(t, err)
	assert.True(t, at.Equal(*got))
}
