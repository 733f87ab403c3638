package core

import "github.com/huangsam/sunspot/schema"

// FilterOrigins returns a new dataset holding only the rows of the selected origins.
// An empty selection keeps every row. The input is never mutated.
func FilterOrigins(ds schema.Dataset, origins []schema.Origin) schema.Dataset {
	if len(origins) == 0 {
		return ds
	}
	keep := make(map[schema.Origin]struct{}, len(origins))
	for _, o := range origins {
		keep[o] = struct{}{}
	}
	rows := make([]schema.Observation, 0, len(ds.Rows))
	for _, o := range ds.Rows {
		if _, ok := keep[o.Origin]; ok {
			rows = append(rows, o)
		}
	}
	return schema.Dataset{Rows: rows}
}
