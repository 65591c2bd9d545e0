// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package dsel

// staticPrefix prefixes the class names that tag static elements.
const staticPrefix = "static"

// Static continues, for every node in the context, against exactly one child
// element of the given tag owned by that node.
//
// The child is located by a class name drawn from sym when Static is
// constructed. The first invocation creates and tags it; later invocations
// find the same element. The continuation sees the parent's index unchanged,
// or the node's own position when the context is Unindexed, so a memoized
// element keeps its logical position across re-renders.
//
// Static continues once per node and returns the first error.
func Static(sym *Gensym, tag string) Selection {
	class := sym.Next(staticPrefix)
	selector := "." + class
	return func(k Continuation, ctx Context, i int) error {
		return ctx.Each(func(node Context, j int) error {
			idx := i
			if idx < 0 {
				idx = j
			}
			child, err := node.Select(selector)
			if err != nil {
				return err
			}
			if child.Size() == 0 {
				if child, err = node.Append(tag); err != nil {
					return err
				}
			}
			if err := k(child, idx); err != nil {
				return err
			}
			_, err = child.Classed(class, Const(true))
			return err
		})
	}
}
