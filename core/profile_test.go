package core

import (
	"testing"

	"github.com/huangsam/sunspot/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func atHour(origin schema.Origin, hour int, ghi schema.Value) schema.Observation {
	return schema.Observation{Origin: origin, Hour: &hour, GHI: ghi}
}

func TestDiurnalProfile(t *testing.T) {
	ds := schema.Dataset{Rows: []schema.Observation{
		atHour(schema.Togo, 12, schema.Some(800)),
		atHour(schema.Benin, 12, schema.Some(700)),
		atHour(schema.Benin, 12, schema.Some(900)),
		atHour(schema.Benin, 6, schema.Some(50)),
		atHour(schema.Benin, 0, schema.None()),
		{Origin: schema.Benin, GHI: schema.Some(1000)},
	}}

	points := DiurnalProfile(ds, schema.GHI)
	require.Len(t, points, 3, "hours without values and rows without an hour are skipped")

	assert.Equal(t, schema.ProfilePoint{Origin: schema.Benin, Hour: 6, Mean: schema.Some(50), Count: 1}, points[0])
	assert.Equal(t, schema.ProfilePoint{Origin: schema.Benin, Hour: 12, Mean: schema.Some(800), Count: 2}, points[1])
	assert.Equal(t, schema.Togo, points[2].Origin)
}

func TestDiurnalProfileEmpty(t *testing.T) {
	assert.Empty(t, DiurnalProfile(schema.Dataset{}, schema.GHI))
}
