// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package dsel

// Mutating steps set a value on every node of the context and forward the
// context and index unchanged. Per-node evaluators see the threaded index
// when the context has one (see [Valfn.At]).

// Classed adds (true) or removes (false) the class name on every node.
// name may hold several space-separated classes.
func Classed(name string, v Valfn[bool]) Selection {
	return func(k Continuation, ctx Context, i int) error {
		next, err := ctx.Classed(name, v.At(i))
		if err != nil {
			return err
		}
		return k(next, i)
	}
}

// Attr sets the named attribute on every node.
func Attr(name string, v Valfn[string]) Selection {
	return func(k Continuation, ctx Context, i int) error {
		next, err := ctx.Attr(name, v.At(i))
		if err != nil {
			return err
		}
		return k(next, i)
	}
}

// Style sets the named style property on every node.
func Style(name string, v Valfn[string]) Selection {
	return func(k Continuation, ctx Context, i int) error {
		next, err := ctx.Style(name, v.At(i))
		if err != nil {
			return err
		}
		return k(next, i)
	}
}

// Property sets the named node property on every node. Properties are not
// attributes: they are held by the node object, not serialized markup.
func Property(name string, v Valfn[any]) Selection {
	return func(k Continuation, ctx Context, i int) error {
		next, err := ctx.Property(name, v.At(i))
		if err != nil {
			return err
		}
		return k(next, i)
	}
}

// HTML replaces the inner markup of every node.
func HTML(v Valfn[string]) Selection {
	return func(k Continuation, ctx Context, i int) error {
		next, err := ctx.HTML(v.At(i))
		if err != nil {
			return err
		}
		return k(next, i)
	}
}

// Text replaces the content of every node with a single text node.
func Text(v Valfn[string]) Selection {
	return func(k Continuation, ctx Context, i int) error {
		next, err := ctx.Text(v.At(i))
		if err != nil {
			return err
		}
		return k(next, i)
	}
}
