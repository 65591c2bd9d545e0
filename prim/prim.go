// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package prim converts between host values and native Go values.
//
// Host values are what program and data files decode to: bool, int,
// float64, string, []any and map[string]any. Conversions are lenient in the
// way the file formats need (a YAML "3" is a valid int) and report failures
// wrapped with the target kind.
package prim

import (
	"fmt"
	"reflect"

	"github.com/spf13/cast"
)

// ToBool converts a host value to a bool.
func ToBool(v any) (bool, error) {
	b, err := cast.ToBoolE(v)
	if err != nil {
		return false, fmt.Errorf("prim: to bool: %w", err)
	}
	return b, nil
}

// ToInt converts a host value to an int. Floats are truncated.
func ToInt(v any) (int, error) {
	n, err := cast.ToIntE(v)
	if err != nil {
		return 0, fmt.Errorf("prim: to int: %w", err)
	}
	return n, nil
}

// ToFloat converts a host value to a float64.
func ToFloat(v any) (float64, error) {
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return 0, fmt.Errorf("prim: to float: %w", err)
	}
	return f, nil
}

// ToString converts a host value to a string. nil converts to "".
func ToString(v any) (string, error) {
	s, err := cast.ToStringE(v)
	if err != nil {
		return "", fmt.Errorf("prim: to string: %w", err)
	}
	return s, nil
}

// ToList converts a host list, or any Go slice or array, to []any.
// nil converts to an empty list.
func ToList(v any) ([]any, error) {
	if v == nil {
		return []any{}, nil
	}
	if l, err := cast.ToSliceE(v); err == nil {
		return l, nil
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = rv.Index(i).Interface()
		}
		return out, nil
	}
	return nil, fmt.Errorf("prim: to list: unable to cast %#v of type %T to []any", v, v)
}

// FromBool returns b as a host value.
func FromBool(b bool) any { return b }

// FromInt returns n as a host value.
func FromInt(n int) any { return n }

// FromFloat returns f as a host value.
func FromFloat(f float64) any { return f }

// FromString returns s as a host value.
func FromString(s string) any { return s }

// FromList returns the elements of l as a host list.
func FromList[T any](l []T) []any {
	out := make([]any, len(l))
	for i, v := range l {
		out[i] = v
	}
	return out
}
