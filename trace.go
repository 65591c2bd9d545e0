// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package dsel

// TraceEntry records one call a program made on a traced context.
type TraceEntry struct {
	Op    string // context method, lower case: "select", "attr", ...
	Name  string // selector, tag or attribute name; empty when not applicable
	Nodes int    // size of the context the call returned
}

// Trace wraps ctx so that every call made through it, and through every
// context derived from it, is appended to a shared log. It returns the traced
// context and a function reporting the log so far.
//
// Trace accumulates output the way a writer does: entries are appended in
// call order and never removed.
func Trace(ctx Context) (Context, func() []TraceEntry) {
	var output []TraceEntry
	t := &traced{inner: ctx, out: &output}
	return t, func() []TraceEntry { return output }
}

type traced struct {
	inner Context
	out   *[]TraceEntry
}

func (t *traced) tell(op, name string, next Context, err error) (Context, error) {
	if err != nil {
		return nil, err
	}
	*t.out = append(*t.out, TraceEntry{Op: op, Name: name, Nodes: next.Size()})
	return &traced{inner: next, out: t.out}, nil
}

func (t *traced) Select(selector string) (Context, error) {
	next, err := t.inner.Select(selector)
	return t.tell("select", selector, next, err)
}

func (t *traced) SelectAll(selector string) (Context, error) {
	next, err := t.inner.SelectAll(selector)
	return t.tell("selectAll", selector, next, err)
}

func (t *traced) Append(tag string) (Context, error) {
	next, err := t.inner.Append(tag)
	return t.tell("append", tag, next, err)
}

func (t *traced) Data(values func(datum any) []any) (Context, error) {
	next, err := t.inner.Data(values)
	return t.tell("data", "", next, err)
}

func (t *traced) Enter() (Context, error) {
	next, err := t.inner.Enter()
	return t.tell("enter", "", next, err)
}

func (t *traced) Exit() (Context, error) {
	next, err := t.inner.Exit()
	return t.tell("exit", "", next, err)
}

func (t *traced) Remove() (Context, error) {
	next, err := t.inner.Remove()
	return t.tell("remove", "", next, err)
}

func (t *traced) Each(fn func(node Context, i int) error) error {
	return t.inner.Each(func(node Context, i int) error {
		return fn(&traced{inner: node, out: t.out}, i)
	})
}

func (t *traced) Size() int { return t.inner.Size() }

func (t *traced) Classed(name string, v Valfn[bool]) (Context, error) {
	next, err := t.inner.Classed(name, v)
	return t.tell("classed", name, next, err)
}

func (t *traced) Attr(name string, v Valfn[string]) (Context, error) {
	next, err := t.inner.Attr(name, v)
	return t.tell("attr", name, next, err)
}

func (t *traced) Style(name string, v Valfn[string]) (Context, error) {
	next, err := t.inner.Style(name, v)
	return t.tell("style", name, next, err)
}

func (t *traced) Property(name string, v Valfn[any]) (Context, error) {
	next, err := t.inner.Property(name, v)
	return t.tell("property", name, next, err)
}

func (t *traced) HTML(v Valfn[string]) (Context, error) {
	next, err := t.inner.HTML(v)
	return t.tell("html", "", next, err)
}

func (t *traced) Text(v Valfn[string]) (Context, error) {
	next, err := t.inner.Text(v)
	return t.tell("text", "", next, err)
}

func (t *traced) Transition() (Context, error) {
	next, err := t.inner.Transition()
	return t.tell("transition", "", next, err)
}

func (t *traced) Delay(v Valfn[int]) (Context, error) {
	next, err := t.inner.Delay(v)
	return t.tell("delay", "", next, err)
}

func (t *traced) Duration(v Valfn[int]) (Context, error) {
	next, err := t.inner.Duration(v)
	return t.tell("duration", "", next, err)
}
