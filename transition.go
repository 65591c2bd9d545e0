// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package dsel

// Transition steps. They reuse the continuation protocol unchanged: a
// transition is just another context the library hands back.

// Transition continues with a transition context over the same nodes.
func Transition(k Continuation, ctx Context, i int) error {
	next, err := ctx.Transition()
	if err != nil {
		return err
	}
	return k(next, i)
}

// Delay sets the transition delay in milliseconds on every node.
func Delay(v Valfn[int]) Selection {
	return func(k Continuation, ctx Context, i int) error {
		next, err := ctx.Delay(v.At(i))
		if err != nil {
			return err
		}
		return k(next, i)
	}
}

// Duration sets the transition duration in milliseconds on every node.
func Duration(v Valfn[int]) Selection {
	return func(k Continuation, ctx Context, i int) error {
		next, err := ctx.Duration(v.At(i))
		if err != nil {
			return err
		}
		return k(next, i)
	}
}
