package core

import (
	"math"

	"github.com/huangsam/sunspot/schema"
	"gonum.org/v1/gonum/stat"
)

// minCorrelationPairs is the fewest paired rows a coefficient is computed from.
const minCorrelationPairs = 3

// Correlate computes the Pearson correlation between every pair of fields over
// the rows where both are present. Too few pairs or zero variance yields no value.
func Correlate(ds schema.Dataset, fields []schema.Field) schema.CorrelationMatrix {
	n := len(fields)
	m := schema.CorrelationMatrix{
		Fields: append([]schema.Field(nil), fields...),
		Values: make([][]schema.Value, n),
		Pairs:  make([][]int, n),
	}
	for i := range fields {
		m.Values[i] = make([]schema.Value, n)
		m.Pairs[i] = make([]int, n)
	}

	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			x, y := pairedValues(ds, fields[i], fields[j])
			v := schema.None()
			if len(x) >= minCorrelationPairs {
				r := stat.Correlation(x, y, nil)
				if !math.IsNaN(r) && !math.IsInf(r, 0) {
					v = schema.Some(math.Max(-1, math.Min(1, r)))
				}
			}
			m.Values[i][j], m.Values[j][i] = v, v
			m.Pairs[i][j], m.Pairs[j][i] = len(x), len(x)
		}
	}
	return m
}

func pairedValues(ds schema.Dataset, a, b schema.Field) ([]float64, []float64) {
	var x, y []float64
	for _, o := range ds.Rows {
		va, okA := o.Get(a).Get()
		vb, okB := o.Get(b).Get()
		if okA && okB {
			x = append(x, va)
			y = append(y, vb)
		}
	}
	return x, y
}
