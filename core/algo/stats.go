// Package algo has the numeric algorithms for statistics, ranking and significance testing.
package algo

import (
	"math"
	"slices"

	"github.com/huangsam/sunspot/schema"
)

// Accumulator folds values one at a time into running statistics.
// Mean and variance use Welford's update; values are retained for the median.
type Accumulator struct {
	n      int
	mean   float64
	m2     float64
	min    float64
	max    float64
	values []float64
}

// Add folds one value into the accumulator. NaN and infinities are ignored.
func (a *Accumulator) Add(v float64) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return
	}
	a.n++
	if a.n == 1 {
		a.min, a.max = v, v
	} else {
		a.min = math.Min(a.min, v)
		a.max = math.Max(a.max, v)
	}
	delta := v - a.mean
	a.mean += delta / float64(a.n)
	a.m2 += delta * (v - a.mean)
	a.values = append(a.values, v)
}

// Count returns the number of values folded so far.
func (a *Accumulator) Count() int {
	return a.n
}

// Stats returns the group statistics for the accumulated values.
func (a *Accumulator) Stats(origin schema.Origin) schema.GroupStats {
	gs := schema.GroupStats{Origin: origin, Count: a.n}
	if a.n == 0 {
		return gs
	}
	gs.Mean = schema.Some(a.mean)
	gs.Min = schema.Some(a.min)
	gs.Max = schema.Some(a.max)
	gs.Median = schema.Some(Median(a.values))
	if a.n > 1 {
		variance := a.m2 / float64(a.n-1)
		if variance < 0 {
			variance = 0
		}
		gs.Std = schema.Some(math.Sqrt(variance))
	}
	gs.CV = CoefficientOfVariation(gs.Mean, gs.Std)
	return gs
}

// Describe computes group statistics over a slice of values in one pass.
func Describe(origin schema.Origin, values []float64) schema.GroupStats {
	var acc Accumulator
	for _, v := range values {
		acc.Add(v)
	}
	return acc.Stats(origin)
}

// Median returns the median of values without modifying them.
// An even count yields the mean of the two middle values. Empty input yields NaN.
func Median(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return math.NaN()
	}
	sorted := slices.Clone(values)
	slices.Sort(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// CoefficientOfVariation returns std / mean * 100.
// It is no value when either operand is no value or the mean is zero.
func CoefficientOfVariation(mean, std schema.Value) schema.Value {
	m, ok := mean.Get()
	if !ok || m == 0 {
		return schema.None()
	}
	s, ok := std.Get()
	if !ok {
		return schema.None()
	}
	return schema.Some(s / m * 100)
}
