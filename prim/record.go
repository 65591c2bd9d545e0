// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package prim

import (
	"fmt"
	"reflect"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/cast"
)

// ToRecord converts a host record to map[string]any. Structs and pointers to
// structs are mapped field by field, honoring `mapstructure` tags.
func ToRecord(v any) (map[string]any, error) {
	if v == nil {
		return map[string]any{}, nil
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer && !rv.IsNil() {
		rv = rv.Elem()
	}
	if rv.Kind() == reflect.Struct {
		out := make(map[string]any)
		if err := mapstructure.Decode(rv.Interface(), &out); err != nil {
			return nil, fmt.Errorf("prim: to record: %w", err)
		}
		return out, nil
	}
	m, err := cast.ToStringMapE(v)
	if err != nil {
		return nil, fmt.Errorf("prim: to record: %w", err)
	}
	return m, nil
}

// FromRecord decodes a host record into out, which must be a pointer.
// Scalar fields are converted leniently.
func FromRecord(rec map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return fmt.Errorf("prim: from record: %w", err)
	}
	if err := dec.Decode(rec); err != nil {
		return fmt.Errorf("prim: from record: %w", err)
	}
	return nil
}
