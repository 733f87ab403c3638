package algo

import (
	"errors"
	"fmt"
	"math"

	"github.com/huangsam/sunspot/schema"
)

// SignificanceLevel is the p-value threshold below which a difference is significant.
const SignificanceLevel = 0.05

// ErrInsufficientData is returned when a test has fewer than two non-empty groups.
var ErrInsufficientData = errors.New("insufficient data")

// Group is one origin's present values of the field under test.
type Group struct {
	Origin schema.Origin
	Values []float64
}

// finiteGroups drops NaN and infinite values, then drops groups left empty.
func finiteGroups(groups []Group) []Group {
	kept := make([]Group, 0, len(groups))
	for _, g := range groups {
		values := make([]float64, 0, len(g.Values))
		for _, v := range g.Values {
			if !math.IsNaN(v) && !math.IsInf(v, 0) {
				values = append(values, v)
			}
		}
		if len(values) > 0 {
			kept = append(kept, Group{Origin: g.Origin, Values: values})
		}
	}
	return kept
}

func checkGroups(field schema.Field, kept []Group) error {
	if len(kept) < 2 {
		return fmt.Errorf("%w: need at least 2 non-empty groups for %s, got %d", ErrInsufficientData, field, len(kept))
	}
	return nil
}

// Test runs a single significance test over the non-empty groups.
// Non-finite values are ignored. Kind must be anova or kruskal.
func Test(field schema.Field, groups []Group, kind schema.TestKind) (schema.TestResult, error) {
	kept := finiteGroups(groups)
	if err := checkGroups(field, kept); err != nil {
		return schema.TestResult{}, err
	}

	values := make([][]float64, len(kept))
	origins := make([]schema.Origin, len(kept))
	for i, g := range kept {
		values[i] = g.Values
		origins[i] = g.Origin
	}

	switch kind {
	case schema.ANOVATest:
		r, err := OneWayANOVA(values)
		if err != nil {
			return schema.TestResult{}, err
		}
		return schema.TestResult{
			TestName:    "ANOVA",
			Field:       field,
			Statistic:   schema.Some(r.F),
			PValue:      r.PValue,
			Significant: r.PValue < SignificanceLevel,
			DF1:         r.DF1,
			DF2:         r.DF2,
			Groups:      origins,
			N:           r.N,
		}, nil
	case schema.KruskalTest:
		r, err := KruskalWallis(values)
		if err != nil {
			return schema.TestResult{}, err
		}
		return schema.TestResult{
			TestName:    "Kruskal-Wallis",
			Field:       field,
			Statistic:   schema.Some(r.H),
			PValue:      r.PValue,
			Significant: r.PValue < SignificanceLevel,
			DF1:         r.DF,
			Groups:      origins,
			N:           r.N,
		}, nil
	default:
		return schema.TestResult{}, fmt.Errorf("unsupported test kind %q", kind)
	}
}

// RunTests runs the selected test, or both tests in ANOVA then Kruskal-Wallis order.
// Fewer than two non-empty groups fails before any test runs. Otherwise each test
// runs on its own: the results that succeed are returned together with the joined
// errors of those that did not, so one failing test never hides the other.
func RunTests(field schema.Field, groups []Group, kind schema.TestKind) ([]schema.TestResult, error) {
	if err := checkGroups(field, finiteGroups(groups)); err != nil {
		return nil, err
	}
	kinds := []schema.TestKind{kind}
	if kind == schema.BothTests {
		kinds = []schema.TestKind{schema.ANOVATest, schema.KruskalTest}
	}
	results := make([]schema.TestResult, 0, len(kinds))
	var errs []error
	for _, k := range kinds {
		r, err := Test(field, groups, k)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", k, err))
			continue
		}
		results = append(results, r)
	}
	return results, errors.Join(errs...)
}
