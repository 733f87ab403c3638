package schema

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

// RawTable is one origin's table as delivered by a source loader:
// a header row plus string records, before any parsing.
type RawTable struct {
	Origin  Origin
	Columns []string
	Records [][]string
}

// Observation is one timestamped record from one origin. Every numeric field is optional.
// Hour, Month and Date are derived from Timestamp and are absent when it is absent.
type Observation struct {
	Origin    Origin     `json:"origin"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
	BucketKey string     `json:"bucket,omitempty"`
	Hour      *int       `json:"hour,omitempty"`
	Month     *int       `json:"month,omitempty"`
	Date      string     `json:"date,omitempty"`

	GHI  Value `json:"ghi"`
	DNI  Value `json:"dni"`
	DHI  Value `json:"dhi"`
	Tamb Value `json:"tamb"`
	RH   Value `json:"rh"`
	WS   Value `json:"ws"`
	BP   Value `json:"bp"`
}

// Get returns the value of a field, no value for unknown fields.
func (o Observation) Get(f Field) Value {
	switch f {
	case GHI:
		return o.GHI
	case DNI:
		return o.DNI
	case DHI:
		return o.DHI
	case Tamb:
		return o.Tamb
	case RH:
		return o.RH
	case WS:
		return o.WS
	case BP:
		return o.BP
	}
	return None()
}

// Set stores a field value. Unknown fields are ignored.
func (o *Observation) Set(f Field, v Value) {
	switch f {
	case GHI:
		o.GHI = v
	case DNI:
		o.DNI = v
	case DHI:
		o.DHI = v
	case Tamb:
		o.Tamb = v
	case RH:
		o.RH = v
	case WS:
		o.WS = v
	case BP:
		o.BP = v
	}
}

// Clone returns a deep copy of the observation.
func (o Observation) Clone() Observation {
	c := o
	if o.Timestamp != nil {
		ts := *o.Timestamp
		c.Timestamp = &ts
	}
	if o.Hour != nil {
		h := *o.Hour
		c.Hour = &h
	}
	if o.Month != nil {
		m := *o.Month
		c.Month = &m
	}
	return c
}

// Dataset is an ordered collection of observations.
// Once produced it is treated as immutable; transformations return new datasets.
type Dataset struct {
	Rows []Observation `json:"rows"`
}

// Len returns the number of observations.
func (d Dataset) Len() int {
	return len(d.Rows)
}

// Origins returns the distinct origins present, sorted by name.
func (d Dataset) Origins() []Origin {
	seen := make(map[Origin]struct{})
	var out []Origin
	for _, r := range d.Rows {
		if _, ok := seen[r.Origin]; ok {
			continue
		}
		seen[r.Origin] = struct{}{}
		out = append(out, r.Origin)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// HasTimestamps reports whether at least one observation carries a timestamp.
func (d Dataset) HasTimestamps() bool {
	for _, r := range d.Rows {
		if r.Timestamp != nil {
			return true
		}
	}
	return false
}

// Values returns the present values of a field for one origin, in row order.
func (d Dataset) Values(origin Origin, f Field) []float64 {
	var out []float64
	for _, r := range d.Rows {
		if r.Origin != origin {
			continue
		}
		if v, ok := r.Get(f).Get(); ok {
			out = append(out, v)
		}
	}
	return out
}

// SourceUnavailable reports that one origin's table could not be obtained.
type SourceUnavailable struct {
	Origin Origin
	Err    error
}

// Error implements the error interface.
func (e *SourceUnavailable) Error() string {
	return fmt.Sprintf("source unavailable for %s: %v", e.Origin, e.Err)
}

// Unwrap returns the underlying acquisition error.
func (e *SourceUnavailable) Unwrap() error {
	return e.Err
}

// UnifyResult is the output of the unifier: the merged dataset plus any origins that failed.
type UnifyResult struct {
	Dataset  Dataset
	Failures []*SourceUnavailable
}

// Partial reports whether at least one origin failed.
func (r UnifyResult) Partial() bool {
	return len(r.Failures) > 0
}

// FailedOrigins lists the origins that could not be loaded.
func (r UnifyResult) FailedOrigins() []Origin {
	out := make([]Origin, len(r.Failures))
	for i, f := range r.Failures {
		out[i] = f.Origin
	}
	return out
}

// Err joins the failures into one error, nil when there are none.
func (r UnifyResult) Err() error {
	errs := make([]error, len(r.Failures))
	for i, f := range r.Failures {
		errs[i] = f
	}
	return errors.Join(errs...)
}
