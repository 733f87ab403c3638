package core

import (
	"sort"

	"github.com/huangsam/sunspot/core/algo"
	"github.com/huangsam/sunspot/schema"
)

// DiurnalProfile returns, per origin, the mean of a field at each hour of day.
// Rows without an hour are skipped and hours without values are omitted.
func DiurnalProfile(ds schema.Dataset, field schema.Field) []schema.ProfilePoint {
	type key struct {
		origin schema.Origin
		hour   int
	}
	accs := make(map[key]*algo.Accumulator)
	for _, o := range ds.Rows {
		if o.Hour == nil {
			continue
		}
		v, ok := o.Get(field).Get()
		if !ok {
			continue
		}
		k := key{origin: o.Origin, hour: *o.Hour}
		acc, found := accs[k]
		if !found {
			acc = &algo.Accumulator{}
			accs[k] = acc
		}
		acc.Add(v)
	}

	points := make([]schema.ProfilePoint, 0, len(accs))
	for k, acc := range accs {
		gs := acc.Stats(k.origin)
		points = append(points, schema.ProfilePoint{Origin: k.origin, Hour: k.hour, Mean: gs.Mean, Count: gs.Count})
	}
	sort.Slice(points, func(i, j int) bool {
		if points[i].Origin != points[j].Origin {
			return points[i].Origin < points[j].Origin
		}
		return points[i].Hour < points[j].Hour
	})
	return points
}
