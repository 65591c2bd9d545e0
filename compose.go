// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package dsel

// Context-preserving composition.
// These combinators run nested selections for their effects only, with the
// identity continuation, and never let a nested result replace the context
// the outer continuation observes.

// Sequence runs s1 then s2 against the same context and index, then continues
// with that original context and index.
func Sequence(s1, s2 Selection) Selection {
	return func(k Continuation, ctx Context, i int) error {
		if err := s1(identity, ctx, i); err != nil {
			return err
		}
		if err := s2(identity, ctx, i); err != nil {
			return err
		}
		return k(ctx, i)
	}
}

// Sequences runs every step against the same context, in order.
// An empty list is Update.
func Sequences(steps ...Selection) Selection {
	return func(k Continuation, ctx Context, i int) error {
		for _, s := range steps {
			if err := s(identity, ctx, i); err != nil {
				return err
			}
		}
		return k(ctx, i)
	}
}

// Embed runs w for its effects and continues with the original context and
// index. It detours into an unrelated sub-tree without affecting the pipeline.
func Embed(w Selection) Selection {
	return func(k Continuation, ctx Context, i int) error {
		if err := w(identity, ctx, i); err != nil {
			return err
		}
		return k(ctx, i)
	}
}

// ChainWidget runs w, applies s to w's result for effects only, then
// continues with w's result. s runs alongside the structural step w without
// superseding it.
func ChainWidget(w, s Selection) Selection {
	return func(k Continuation, ctx Context, i int) error {
		return w(func(next Context, j int) error {
			if err := s(identity, next, j); err != nil {
				return err
			}
			return k(next, j)
		}, ctx, i)
	}
}
