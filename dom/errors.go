// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package dom

import "errors"

var (
	// ErrInvalidTag is returned when appending an element with an illegal name.
	ErrInvalidTag = errors.New("dom: invalid element name")
	// ErrInvalidSelector is returned when a selector does not compile.
	ErrInvalidSelector = errors.New("dom: invalid selector")
	// ErrNoJoin is returned by Enter and Exit on a selection without bound data.
	ErrNoJoin = errors.New("dom: selection has no data join")
	// ErrEnterOnly is returned when an enter selection is used for anything
	// but Append or Size.
	ErrEnterOnly = errors.New("dom: enter selection supports only append")
	// ErrNotTransition is returned by Delay and Duration outside a transition.
	ErrNotTransition = errors.New("dom: not a transition")
)
