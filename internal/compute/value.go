// Package compute derives dashboard metrics from raw upstream readings.
//
// Every function here is pure: the same inputs always produce the same
// outputs and nothing is retained between refresh cycles. Missing inputs
// are carried as Unavailable values instead of zeros or string sentinels.
package compute

import (
	"encoding/json"
	"math"
)

// Value is an optional reading. The zero value is Unavailable.
type Value[T any] struct {
	v  T
	ok bool
}

// Of wraps a present value.
func Of[T any](v T) Value[T] { return Value[T]{v: v, ok: true} }

// Unavailable returns an absent value.
func Unavailable[T any]() Value[T] { return Value[T]{} }

// Finite wraps v, treating NaN and the infinities as Unavailable.
func Finite(v float64) Value[float64] {
	if !isFinite(v) {
		return Value[float64]{}
	}
	return Of(v)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func (v Value[T]) Available() bool { return v.ok }

func (v Value[T]) Get() (T, bool) { return v.v, v.ok }

// Map applies fn to a present value.
func Map[T, U any](v Value[T], fn func(T) U) Value[U] {
	if !v.ok {
		return Value[U]{}
	}
	return Of(fn(v.v))
}

// MapFinite applies fn to a present value and drops a non-finite result.
func MapFinite[T any](v Value[T], fn func(T) float64) Value[float64] {
	if !v.ok {
		return Value[float64]{}
	}
	return Finite(fn(v.v))
}

// MarshalJSON encodes Unavailable as null.
func (v Value[T]) MarshalJSON() ([]byte, error) {
	if !v.ok {
		return []byte("null"), nil
	}
	return json.Marshal(v.v)
}

func (v *Value[T]) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*v = Value[T]{}
		return nil
	}
	var t T
	if err := json.Unmarshal(data, &t); err != nil {
		return err
	}
	*v = Of(t)
	return nil
}
