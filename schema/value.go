package schema

import (
	"encoding/json"
	"math"
	"strconv"
)

// Value is an optional float. A Value with Valid == false is "no value":
// it is neither zero nor NaN, and every consumer must check Valid.
type Value struct {
	Float64 float64
	Valid   bool
}

// Some returns a present Value. NaN is treated as no value.
func Some(v float64) Value {
	if math.IsNaN(v) {
		return Value{}
	}
	return Value{Float64: v, Valid: true}
}

// None returns the "no value" marker.
func None() Value {
	return Value{}
}

// Get returns the float and whether it is present.
func (v Value) Get() (float64, bool) {
	return v.Float64, v.Valid
}

// OrElse returns the float or the fallback when there is no value.
func (v Value) OrElse(fallback float64) float64 {
	if !v.Valid {
		return fallback
	}
	return v.Float64
}

// Ptr returns a pointer to the float, or nil when there is no value.
func (v Value) Ptr() *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

// Format renders the value with the given precision, "-" when absent.
func (v Value) Format(precision int) string {
	if !v.Valid {
		return "-"
	}
	switch {
	case math.IsInf(v.Float64, 1):
		return "+Inf"
	case math.IsInf(v.Float64, -1):
		return "-Inf"
	}
	return strconv.FormatFloat(v.Float64, 'f', precision, 64)
}

// String implements fmt.Stringer.
func (v Value) String() string {
	if !v.Valid {
		return "-"
	}
	return strconv.FormatFloat(v.Float64, 'g', -1, 64)
}

// MarshalJSON encodes no value as null and infinities as strings.
func (v Value) MarshalJSON() ([]byte, error) {
	if !v.Valid {
		return []byte("null"), nil
	}
	switch {
	case math.IsInf(v.Float64, 1):
		return json.Marshal("+Inf")
	case math.IsInf(v.Float64, -1):
		return json.Marshal("-Inf")
	}
	return json.Marshal(v.Float64)
}

// UnmarshalJSON accepts null, numbers and the infinity strings.
func (v *Value) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*v = None()
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		switch s {
		case "+Inf":
			*v = Some(math.Inf(1))
		case "-Inf":
			*v = Some(math.Inf(-1))
		default:
			f, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return err
			}
			*v = Some(f)
		}
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*v = Some(f)
	return nil
}
