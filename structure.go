// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package dsel

// Structural steps: they narrow, create, join or detach nodes and forward the
// incoming index unchanged, except Bind which opens a fresh index scope.

// Select narrows the context to the first descendant of each node matching
// selector.
func Select(selector string) Selection {
	return Lift(func(ctx Context) (Context, error) {
		return ctx.Select(selector)
	})
}

// SelectAll narrows the context to all descendants matching selector.
func SelectAll(selector string) Selection {
	return Lift(func(ctx Context) (Context, error) {
		return ctx.SelectAll(selector)
	})
}

// Append creates a tag child under every node and continues with the new
// nodes.
func Append(tag string) Selection {
	return Lift(func(ctx Context) (Context, error) {
		return ctx.Append(tag)
	})
}

// Bind runs s to obtain an intermediate context, joins data to it and
// continues with the data-bound context.
//
// data is called with the datum of each group's parent and returns the child
// data in order. The continuation receives Unindexed: bound children are
// indexed by their own position, not by the index of the enclosing context.
func Bind(s Selection, data func(datum any) []any) Selection {
	return func(k Continuation, ctx Context, i int) error {
		return s(func(inner Context, _ int) error {
			bound, err := inner.Data(data)
			if err != nil {
				return err
			}
			return k(bound, Unindexed)
		}, ctx, i)
	}
}

// Enter narrows a data-bound context to the data that had no node.
func Enter(k Continuation, ctx Context, i int) error {
	next, err := ctx.Enter()
	if err != nil {
		return err
	}
	return k(next, i)
}

// Exit narrows a data-bound context to the nodes that had no data.
func Exit(k Continuation, ctx Context, i int) error {
	next, err := ctx.Exit()
	if err != nil {
		return err
	}
	return k(next, i)
}

// Remove detaches the nodes of the context from the tree.
func Remove(k Continuation, ctx Context, i int) error {
	next, err := ctx.Remove()
	if err != nil {
		return err
	}
	return k(next, i)
}
