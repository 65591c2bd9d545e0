// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package prim

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrNoField is returned by Lookup when a path segment does not exist.
var ErrNoField = errors.New("prim: no such field")

// Lookup resolves a dotted path against a host value. "." and "" name v
// itself; a numeric segment indexes a list; any other segment reads a record
// field.
func Lookup(v any, path string) (any, error) {
	path = strings.TrimPrefix(path, ".")
	if path == "" {
		return v, nil
	}
	cur := v
	for _, seg := range strings.Split(path, ".") {
		if n, err := strconv.Atoi(seg); err == nil {
			l, err := ToList(cur)
			if err != nil {
				return nil, fmt.Errorf("%w: %q in %q", ErrNoField, seg, path)
			}
			if n < 0 || n >= len(l) {
				return nil, fmt.Errorf("%w: index %d out of range in %q", ErrNoField, n, path)
			}
			cur = l[n]
			continue
		}
		rec, err := ToRecord(cur)
		if err != nil {
			return nil, fmt.Errorf("%w: %q in %q", ErrNoField, seg, path)
		}
		next, ok := rec[seg]
		if !ok {
			return nil, fmt.Errorf("%w: %q in %q", ErrNoField, seg, path)
		}
		cur = next
	}
	return cur, nil
}
