package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/huangsam/sunspot/internal/source"
	"github.com/huangsam/sunspot/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func table(columns []string, records ...[]string) schema.RawTable {
	return schema.RawTable{Columns: columns, Records: records}
}

var errOffline = errors.New("offline")

func TestParseValue(t *testing.T) {
	tests := []struct {
		cell string
		want schema.Value
	}{
		{"12.5", schema.Some(12.5)},
		{" -3 ", schema.Some(-3)},
		{"0", schema.Some(0)},
		{"1e3", schema.Some(1000)},
		{"", schema.None()},
		{"NaN", schema.None()},
		{"na", schema.None()},
		{"N/A", schema.None()},
		{"null", schema.None()},
		{"Inf", schema.None()},
		{"-inf", schema.None()},
		{"abc", schema.None()},
		{"12,5", schema.None()},
	}
	for _, tt := range tests {
		t.Run(tt.cell, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseValue(tt.cell))
		})
	}
}

func TestParseTimestamp(t *testing.T) {
	want := time.Date(2021, 8, 9, 0, 1, 0, 0, time.UTC)
	for _, cell := range []string{
		"2021-08-09T00:01:00Z",
		"2021-08-09T01:01:00+01:00",
		"2021-08-09 00:01:00",
		"2021-08-09T00:01:00",
		"2021-08-09T00:01",
		"2021-08-09 00:01",
	} {
		got, ok := ParseTimestamp(cell)
		require.True(t, ok, cell)
		assert.True(t, want.Equal(got), cell)
		assert.Equal(t, time.UTC, got.Location(), cell)
	}

	day, ok := ParseTimestamp("2021-08-09")
	require.True(t, ok)
	assert.Equal(t, 0, day.Hour())

	for _, cell := range []string{"", "  ", "yesterday", "09/08/2021"} {
		_, ok := ParseTimestamp(cell)
		assert.False(t, ok, cell)
	}
}

func TestMergeTables(t *testing.T) {
	benin := table([]string{"Timestamp", "GHI", "DNI", "Comments"},
		[]string{"2021-08-09 10:00", "500", "300", "clean"},
		[]string{"bad", "x", "", ""},
	)
	benin.Origin = schema.Benin
	togo := table([]string{"time", "ghi", "Ambient Temp", "RH"},
		[]string{"2021-08-09 11:30", "450", "31.5", "70"},
	)
	togo.Origin = schema.Togo

	ds := MergeTables([]schema.RawTable{benin, togo})
	require.Equal(t, 3, ds.Len())

	first := ds.Rows[0]
	assert.Equal(t, schema.Benin, first.Origin)
	require.NotNil(t, first.Timestamp)
	require.NotNil(t, first.Hour)
	assert.Equal(t, 10, *first.Hour)
	require.NotNil(t, first.Month)
	assert.Equal(t, 8, *first.Month)
	assert.Equal(t, "2021-08-09", first.Date)
	assert.Equal(t, schema.Some(500), first.GHI)
	assert.Equal(t, schema.Some(300), first.DNI)
	assert.False(t, first.Tamb.Valid, "columns a table lacks are missing")

	second := ds.Rows[1]
	assert.Nil(t, second.Timestamp, "unparseable timestamps are absent")
	assert.Nil(t, second.Hour, "derived fields are never defaulted to zero")
	assert.Nil(t, second.Month)
	assert.Empty(t, second.Date)
	assert.False(t, second.GHI.Valid)
	assert.False(t, second.DNI.Valid)

	third := ds.Rows[2]
	assert.Equal(t, schema.Togo, third.Origin)
	assert.Equal(t, schema.Some(450), third.GHI)
	assert.Equal(t, schema.Some(31.5), third.Tamb)
	assert.Equal(t, schema.Some(70), third.RH)
	assert.False(t, third.DNI.Valid)
}

func TestMergeTablesShortRecords(t *testing.T) {
	tbl := table([]string{"Timestamp", "GHI", "DNI"}, []string{"2021-08-09 10:00"})
	tbl.Origin = schema.SierraLeone
	ds := MergeTables([]schema.RawTable{tbl})
	require.Equal(t, 1, ds.Len())
	assert.False(t, ds.Rows[0].GHI.Valid)
	assert.NotNil(t, ds.Rows[0].Timestamp)
}

func TestUnify(t *testing.T) {
	ctx := context.Background()
	columns := []string{"Timestamp", "GHI"}

	t.Run("all origins load", func(t *testing.T) {
		loader := &source.MockSourceLoader{}
		loader.On("Load", mock.Anything, schema.Benin).Return(table(columns, []string{"2021-08-09 10:00", "1"}), nil)
		loader.On("Load", mock.Anything, schema.Togo).Return(table(columns, []string{"2021-08-09 10:00", "2"}), nil)

		result, err := Unify(ctx, loader, []schema.Origin{schema.Benin, schema.Togo})
		require.NoError(t, err)
		assert.False(t, result.Partial())
		assert.Equal(t, []schema.Origin{schema.Benin, schema.Togo}, result.Dataset.Origins())
		loader.AssertExpectations(t)
	})

	t.Run("partial failure", func(t *testing.T) {
		loader := &source.MockSourceLoader{}
		loader.On("Load", mock.Anything, schema.Benin).Return(table(columns, []string{"2021-08-09 10:00", "1"}), nil)
		loader.On("Load", mock.Anything, schema.SierraLeone).Return(schema.RawTable{}, errOffline)

		result, err := Unify(ctx, loader, []schema.Origin{schema.Benin, schema.SierraLeone})
		require.NoError(t, err)
		assert.True(t, result.Partial())
		assert.Equal(t, []schema.Origin{schema.SierraLeone}, result.FailedOrigins())
		assert.Equal(t, 1, result.Dataset.Len())

		var unavailable *schema.SourceUnavailable
		require.ErrorAs(t, result.Err(), &unavailable)
		assert.Equal(t, schema.SierraLeone, unavailable.Origin)
		assert.ErrorIs(t, result.Err(), errOffline)
	})

	t.Run("all origins fail", func(t *testing.T) {
		loader := &source.MockSourceLoader{}
		loader.On("Load", mock.Anything, mock.Anything).Return(schema.RawTable{}, errOffline)

		result, err := Unify(ctx, loader, []schema.Origin{schema.Benin, schema.Togo})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrAllSourcesUnavailable)
		assert.ErrorIs(t, err, errOffline)
		assert.Equal(t, 0, result.Dataset.Len())
		assert.Len(t, result.Failures, 2)
	})

	t.Run("no origins", func(t *testing.T) {
		result, err := Unify(ctx, &source.MockSourceLoader{}, nil)
		require.NoError(t, err)
		assert.Equal(t, 0, result.Dataset.Len())
	})

	t.Run("cancelled context", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		_, err := Unify(cancelled, &source.MockSourceLoader{}, []schema.Origin{schema.Benin})
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("loader origin is overridden", func(t *testing.T) {
		loader := &source.MockSourceLoader{}
		wrong := table(columns, []string{"2021-08-09 10:00", "1"})
		wrong.Origin = schema.Togo
		loader.On("Load", mock.Anything, schema.Benin).Return(wrong, nil)

		result, err := Unify(ctx, loader, []schema.Origin{schema.Benin})
		require.NoError(t, err)
		assert.Equal(t, schema.Benin, result.Dataset.Rows[0].Origin)
	})
}

func TestUnifyThenFilterEqualsUnifySingle(t *testing.T) {
	ctx := context.Background()
	columns := []string{"Timestamp", "GHI", "DNI"}
	tables := map[schema.Origin]schema.RawTable{
		schema.Benin:       table(columns, []string{"2021-08-09 10:00", "1", "2"}, []string{"2021-08-09 11:00", "3", ""}),
		schema.SierraLeone: table(columns, []string{"2021-08-09 10:00", "4", "5"}),
		schema.Togo:        table(columns, []string{"2021-08-09 10:00", "6", "7"}),
	}
	loader := &source.MockSourceLoader{}
	for origin, tbl := range tables {
		loader.On("Load", mock.Anything, origin).Return(tbl, nil)
	}

	all, err := Unify(ctx, loader, schema.AllOrigins)
	require.NoError(t, err)
	for _, origin := range schema.AllOrigins {
		single, err := Unify(ctx, loader, []schema.Origin{origin})
		require.NoError(t, err)
		assert.Equal(t, single.Dataset, FilterOrigins(all.Dataset, []schema.Origin{origin}), origin)
	}
}
