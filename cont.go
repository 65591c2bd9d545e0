// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package dsel

// Continuation represents "the rest of the invocation". It receives the
// context and index a step hands on and produces the invocation's result.
type Continuation func(ctx Context, i int) error

// Selection is a deferred program over a selection context.
//
// A Selection receives a continuation k, a context and an index. It performs
// its mutations against the context, possibly producing a new one, then passes
// the resulting context and index to k and returns k's result. Constructing a
// Selection never touches a context; only invoking it does.
type Selection func(k Continuation, ctx Context, i int) error

// Lift creates a step from a context transformation. The step applies f to
// the incoming context and forwards the result with the index unchanged.
// Errors from f abort the invocation without calling the continuation.
//
// Lift is the primitive constructor for steps that map one context to the
// next; most combinators in this package are built from it.
func Lift(f func(Context) (Context, error)) Selection {
	return func(k Continuation, ctx Context, i int) error {
		next, err := f(ctx)
		if err != nil {
			return err
		}
		return k(next, i)
	}
}

// Update is the identity step: it forwards the context and index unchanged.
// In a join it denotes the nodes that already had data.
func Update(k Continuation, ctx Context, i int) error {
	return k(ctx, i)
}
