// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package dsel

// Unindexed is the index of a context that has no index scope of its own.
// Evaluators applied under it see each node's position within its group.
const Unindexed = -1

// Valfn is a value given either as a constant or as a per-node evaluator of
// (datum, index). The zero Valfn is the constant zero value of T.
type Valfn[T any] struct {
	eval  func(datum any, i int) T
	value T
}

// Const returns a Valfn that yields v for every node.
func Const[T any](v T) Valfn[T] {
	return Valfn[T]{value: v}
}

// Func returns a Valfn evaluated once per node with the node's datum and
// index. fn must not retain the datum beyond the call.
func Func[T any](fn func(datum any, i int) T) Valfn[T] {
	if fn == nil {
		var zero T
		return Const(zero)
	}
	return Valfn[T]{eval: fn}
}

// On returns a per-node Valfn over data of type D. Nodes whose datum is not
// a D are evaluated with the zero D.
func On[D, T any](fn func(d D, i int) T) Valfn[T] {
	return Func(func(datum any, i int) T {
		d, _ := datum.(D)
		return fn(d, i)
	})
}

// Constant returns the constant value and true, or the zero value and false
// for a per-node Valfn. Selection libraries use it to skip per-node calls.
func (v Valfn[T]) Constant() (T, bool) {
	if v.eval == nil {
		return v.value, true
	}
	var zero T
	return zero, false
}

// Eval resolves the value for one node.
func (v Valfn[T]) Eval(datum any, i int) T {
	if v.eval == nil {
		return v.value
	}
	return v.eval(datum, i)
}

// At pins the index seen by a per-node evaluator to i. Constants and
// Unindexed (negative) positions are returned unchanged, leaving the
// selection library's own node positions in effect.
func (v Valfn[T]) At(i int) Valfn[T] {
	if v.eval == nil || i < 0 {
		return v
	}
	eval := v.eval
	return Valfn[T]{eval: func(datum any, _ int) T {
		return eval(datum, i)
	}}
}
