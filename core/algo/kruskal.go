package algo

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/stat/distuv"
)

// KruskalResult is the outcome of a Kruskal-Wallis H test.
type KruskalResult struct {
	H             float64
	PValue        float64
	DF            int // k - 1
	TieCorrection float64
	N             int
}

type rankedValue struct {
	value float64
	group int
}

// KruskalWallis runs the Kruskal-Wallis H test with mid-ranks and tie correction.
// Empty groups are dropped. When every value is tied the test is degenerate and yields H = 0, p = 1.
func KruskalWallis(groups [][]float64) (KruskalResult, error) {
	groups = dropEmpty(groups)
	k := len(groups)
	if k < 2 {
		return KruskalResult{}, fmt.Errorf("%w: kruskal-wallis needs 2 non-empty groups, got %d", ErrInsufficientData, k)
	}

	var pooled []rankedValue
	for gi, g := range groups {
		for _, v := range g {
			pooled = append(pooled, rankedValue{value: v, group: gi})
		}
	}
	n := len(pooled)
	sort.Slice(pooled, func(i, j int) bool { return pooled[i].value < pooled[j].value })

	rankSums := make([]float64, k)
	tieTerm := 0.0
	for i := 0; i < n; {
		j := i
		for j < n && pooled[j].value == pooled[i].value {
			j++
		}
		// positions i..j-1 share the mid-rank of 1-based ranks i+1..j
		midRank := float64(i+j+1) / 2
		for p := i; p < j; p++ {
			rankSums[pooled[p].group] += midRank
		}
		if t := float64(j - i); t > 1 {
			tieTerm += t*t*t - t
		}
		i = j
	}

	nf := float64(n)
	correction := 1 - tieTerm/(nf*nf*nf-nf)
	res := KruskalResult{DF: k - 1, TieCorrection: correction, N: n}
	if correction <= 0 {
		res.H, res.PValue = 0, 1
		return res, nil
	}

	sum := 0.0
	for gi, g := range groups {
		sum += rankSums[gi] * rankSums[gi] / float64(len(g))
	}
	h := 12/(nf*(nf+1))*sum - 3*(nf+1)
	h /= correction
	if h < 0 {
		h = 0
	}
	res.H = h
	dist := distuv.ChiSquared{K: float64(res.DF)}
	res.PValue = clampProbability(dist.Survival(h))
	return res, nil
}
