package algo

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// ANOVAResult is the outcome of a one-way analysis of variance.
type ANOVAResult struct {
	F      float64 // +Inf when groups differ but have no within-group spread
	PValue float64
	DF1    int // k - 1
	DF2    int // N - k
	SSB    float64
	SSW    float64
	N      int
}

// OneWayANOVA runs a one-way ANOVA over groups of any sizes.
// Empty groups are dropped. It needs at least two non-empty groups and N - k >= 1.
func OneWayANOVA(groups [][]float64) (ANOVAResult, error) {
	groups = dropEmpty(groups)
	k := len(groups)
	if k < 2 {
		return ANOVAResult{}, fmt.Errorf("%w: anova needs 2 non-empty groups, got %d", ErrInsufficientData, k)
	}

	n := 0
	sum := 0.0
	for _, g := range groups {
		n += len(g)
		for _, v := range g {
			sum += v
		}
	}
	if n-k < 1 {
		return ANOVAResult{}, fmt.Errorf("%w: anova needs more observations than groups (N=%d, k=%d)", ErrInsufficientData, n, k)
	}
	grand := sum / float64(n)

	var ssb, ssw float64
	allConstant := true
	first := groups[0][0]
	allEqual := true
	for _, g := range groups {
		gm := mean(g)
		d := gm - grand
		ssb += float64(len(g)) * d * d
		groupConstant := true
		for _, v := range g {
			e := v - gm
			ssw += e * e
			if v != g[0] {
				groupConstant = false
			}
			if v != first {
				allEqual = false
			}
		}
		allConstant = allConstant && groupConstant
	}
	// Exact zeros for degenerate inputs so rounding noise cannot produce a spurious F.
	if allConstant {
		ssw = 0
	}
	if allEqual {
		ssb = 0
	}

	res := ANOVAResult{DF1: k - 1, DF2: n - k, SSB: ssb, SSW: ssw, N: n}
	switch {
	case ssb == 0:
		res.F, res.PValue = 0, 1
	case ssw == 0:
		res.F, res.PValue = math.Inf(1), 0
	default:
		msb := ssb / float64(res.DF1)
		msw := ssw / float64(res.DF2)
		res.F = msb / msw
		dist := distuv.F{D1: float64(res.DF1), D2: float64(res.DF2)}
		res.PValue = clampProbability(dist.Survival(res.F))
	}
	return res, nil
}

func mean(values []float64) float64 {
	s := 0.0
	for _, v := range values {
		s += v
	}
	return s / float64(len(values))
}

func dropEmpty(groups [][]float64) [][]float64 {
	out := make([][]float64, 0, len(groups))
	for _, g := range groups {
		if len(g) > 0 {
			out = append(out, g)
		}
	}
	return out
}

func clampProbability(p float64) float64 {
	switch {
	case math.IsNaN(p):
		return 1
	case p < 0:
		return 0
	case p > 1:
		return 1
	}
	return p
}
