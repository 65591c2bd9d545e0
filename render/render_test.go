// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package render_test

import (
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"code.hybscloud.com/dsel"
	"code.hybscloud.com/dsel/dom"
	"code.hybscloud.com/dsel/render"
)

// chart keeps one rect per datum with a height of ten times the value.
func chart(sym *dsel.Gensym) dsel.Selection {
	return dsel.Pipeline(
		dsel.Static(sym, "svg"),
		dsel.Bind(dsel.SelectAll("rect"), func(d any) []any { return d.([]any) }),
		dsel.Sequences(
			dsel.Chain(dsel.Exit, dsel.Remove),
			dsel.Chain(dsel.Enter, dsel.Append("rect")),
		),
		dsel.Attr("height", dsel.On(func(v int, _ int) string { return strconv.Itoa(10 * v) })),
	)
}

func newBridge(t *testing.T, opts ...render.Option) (*dom.Document, *render.Bridge) {
	t.Helper()
	doc := dom.New()
	b, err := render.NewBridge(doc, opts...)
	require.NoError(t, err)
	return doc, b
}

func rects(t *testing.T, doc *dom.Document, node *html.Node) []*html.Node {
	t.Helper()
	all, err := doc.SelectNode(node).SelectAll("rect")
	require.NoError(t, err)
	return all.(*dom.Selection).Nodes()
}

func TestRenderCreatesContainer(t *testing.T) {
	doc, b := newBridge(t)
	node, err := b.Render(render.Model{Width: 300, Height: 150, Datum: "d"})
	require.NoError(t, err)

	assert.Equal(t, "div", node.Data)
	assert.Equal(t, "body", node.Parent.Data)
	assert.NotEmpty(t, render.ID(node))
	w, _ := dom.StyleValue(node, "width")
	h, _ := dom.StyleValue(node, "height")
	assert.Equal(t, "300px", w)
	assert.Equal(t, "150px", h)
	datum, ok := doc.Datum(node)
	require.True(t, ok)
	assert.Equal(t, "d", datum)
}

func TestRenderOneContainerPerCall(t *testing.T) {
	doc, b := newBridge(t)
	n1, err := b.Render(render.Model{})
	require.NoError(t, err)
	n2, err := b.Render(render.Model{})
	require.NoError(t, err)

	body, err := doc.Select("body")
	require.NoError(t, err)
	assert.Len(t, dom.Children(body.Node()), 2)
	assert.NotEqual(t, render.ID(n1), render.ID(n2))
	_, ok := dom.StyleValue(n1, "width")
	assert.False(t, ok, "zero width must not be styled")
}

func TestRenderWithParent(t *testing.T) {
	doc, err := dom.Parse(strings.NewReader(`<body><main id="app"></main></body>`))
	require.NoError(t, err)
	b, err := render.NewBridge(doc, render.WithParent("#app"))
	require.NoError(t, err)
	node, err := b.Render(render.Model{})
	require.NoError(t, err)
	id, _ := dom.Attr(node.Parent, "id")
	assert.Equal(t, "app", id)

	b, err = render.NewBridge(doc, render.WithParent("#missing"))
	require.NoError(t, err)
	_, err = b.Render(render.Model{})
	assert.ErrorIs(t, err, render.ErrNoParent)
}

func TestRenderUpdateRoundTrip(t *testing.T) {
	doc, b := newBridge(t)
	program := chart(dsel.NewGensym())

	node, err := b.Render(render.Model{Selection: program, Datum: []any{1, 2, 3}})
	require.NoError(t, err)
	first := rects(t, doc, node)
	require.Len(t, first, 3)
	h, _ := dom.Attr(first[2], "height")
	assert.Equal(t, "30", h)

	prev := render.Model{Selection: program, Datum: []any{1, 2, 3}}
	next := render.Model{Selection: program, Datum: []any{4, 5}}
	keep, err := b.Update(node, prev, next)
	require.NoError(t, err)
	assert.True(t, keep)

	second := rects(t, doc, node)
	require.Len(t, second, 2)
	assert.Same(t, first[0], second[0], "update must reuse nodes")
	h, _ = dom.Attr(second[1], "height")
	assert.Equal(t, "50", h)
	datum, _ := doc.Datum(node)
	assert.Equal(t, []any{4, 5}, datum)

	svgs, err := doc.SelectNode(node).SelectAll("svg")
	require.NoError(t, err)
	assert.Equal(t, 1, svgs.Size(), "static svg must be memoized")
}

func TestUpdateResizes(t *testing.T) {
	_, b := newBridge(t)
	m := render.Model{Width: 10}
	node, err := b.Render(m)
	require.NoError(t, err)

	_, err = b.Update(node, m, render.Model{Width: 20, Height: 5})
	require.NoError(t, err)
	w, _ := dom.StyleValue(node, "width")
	h, _ := dom.StyleValue(node, "height")
	assert.Equal(t, "20px", w)
	assert.Equal(t, "5px", h)
}

func TestUpdateReentrantRefused(t *testing.T) {
	doc, b := newBridge(t)
	outer := render.Model{Width: 10, Datum: "outer"}
	node, err := b.Render(outer)
	require.NoError(t, err)

	var nested error
	var seen any
	reenter := func(k dsel.Continuation, ctx dsel.Context, i int) error {
		_, nested = b.Update(node, outer, render.Model{Width: 99, Datum: "inner", Selection: dsel.Update})
		seen, _ = doc.Datum(node)
		return k(ctx, i)
	}
	outer.Selection = reenter
	_, err = b.Update(node, render.Model{Width: 10}, outer)
	require.NoError(t, err)
	assert.ErrorIs(t, nested, dsel.ErrBusy)
	assert.Equal(t, "outer", seen, "refused update must not rebind the datum")

	d, _ := doc.Datum(node)
	assert.Equal(t, "outer", d)
	w, _ := dom.StyleValue(node, "width")
	assert.Equal(t, "10px", w)
}

func TestUnmountDropsLease(t *testing.T) {
	doc, b := newBridge(t)
	for n := 0; n < 8; n++ {
		node, err := b.Render(render.Model{Selection: dsel.Update})
		require.NoError(t, err)
		b.Unmount(node)
		assert.Nil(t, node.Parent)
	}
	assert.Zero(t, b.Leases())

	body, err := doc.Select("body")
	require.NoError(t, err)
	assert.Nil(t, body.Node().FirstChild)
}

func TestRenderTopLevelIndex(t *testing.T) {
	_, b := newBridge(t)
	var seen []int
	program := dsel.Pipeline(
		dsel.Sequence(dsel.Append("p"), dsel.Append("p")),
		dsel.SelectAll("p"),
		dsel.Attr("data-i", dsel.Func(func(_ any, i int) string {
			seen = append(seen, i)
			return strconv.Itoa(i)
		})),
	)
	_, err := b.Render(render.Model{Selection: program})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 0}, seen)
}

func TestRenderProgramError(t *testing.T) {
	_, b := newBridge(t)
	node, err := b.Render(render.Model{Selection: dsel.Append("")})
	assert.ErrorIs(t, err, dom.ErrInvalidTag)
	assert.NotNil(t, node, "container is returned with the error")
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, b := newBridge(t, render.WithRegisterer(reg))
	node, err := b.Render(render.Model{})
	require.NoError(t, err)
	_, err = b.Update(node, render.Model{}, render.Model{Selection: dsel.Append("")})
	require.Error(t, err)

	// A second bridge on the same registry shares the collectors.
	_, err = render.NewBridge(dom.New(), render.WithRegisterer(reg))
	require.NoError(t, err)

	families, err := reg.Gather()
	require.NoError(t, err)
	counts := map[string]float64{}
	for _, f := range families {
		if f.GetName() != "dsel_render_total" {
			continue
		}
		for _, m := range f.GetMetric() {
			key := ""
			for _, l := range m.GetLabel() {
				key += l.GetName() + "=" + l.GetValue() + ","
			}
			counts[key] = m.GetCounter().GetValue()
		}
	}
	assert.Equal(t, 1.0, counts["op=render,outcome=ok,"])
	assert.Equal(t, 1.0, counts["op=update,outcome=error,"])
}

func TestRuntimeMountSetEvents(t *testing.T) {
	doc, b := newBridge(t)
	rt := render.NewRuntime(doc, b)
	events, cancel := rt.Subscribe()
	defer cancel()

	text := dsel.Chain(dsel.Append("span"), dsel.Text(dsel.On(func(s string, _ int) string { return s })))
	program := dsel.Pipeline(dsel.SelectAll("span"), dsel.Remove)
	program = dsel.Sequence(program, text)

	id, err := rt.Mount(render.Model{Selection: program, Datum: "hello"})
	require.NoError(t, err)
	assert.Equal(t, []string{id}, rt.Instances())

	ev := <-events
	assert.Equal(t, id, ev.ID)
	assert.Contains(t, ev.HTML, "<span>hello</span>")

	require.NoError(t, rt.SetDatum(id, "world"))
	ev = <-events
	assert.Contains(t, ev.HTML, "<span>world</span>")
	assert.NotContains(t, ev.HTML, "hello")

	m, ok := rt.Model(id)
	require.True(t, ok)
	assert.Equal(t, "world", m.Datum)

	full, err := rt.HTML()
	require.NoError(t, err)
	assert.Contains(t, full, "<span>world</span>")

	assert.ErrorIs(t, rt.Set("nope", render.Model{}), render.ErrUnknownInstance)
}

func TestRuntimeCancelClosesChannel(t *testing.T) {
	doc, b := newBridge(t)
	rt := render.NewRuntime(doc, b)
	events, cancel := rt.Subscribe()
	cancel()
	cancel()
	_, open := <-events
	assert.False(t, open)

	_, err := rt.Mount(render.Model{})
	require.NoError(t, err)
}

func TestRuntimeConcurrentSet(t *testing.T) {
	doc, b := newBridge(t)
	rt := render.NewRuntime(doc, b)
	program := dsel.Attr("data-v", dsel.Func(func(d any, _ int) string { return strconv.Itoa(d.(int)) }))
	id, err := rt.Mount(render.Model{Selection: program, Datum: 0})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, rt.SetDatum(id, i))
		}()
	}
	wg.Wait()
	m, _ := rt.Model(id)
	assert.IsType(t, 0, m.Datum)
}

func TestRuntimeSnapshot(t *testing.T) {
	doc, b := newBridge(t)
	rt := render.NewRuntime(doc, b)
	text := dsel.Text(dsel.On(func(s string, _ int) string { return s }))

	a, err := rt.Mount(render.Model{Selection: text, Datum: "a"})
	require.NoError(t, err)
	c, err := rt.Mount(render.Model{Selection: text, Datum: "c"})
	require.NoError(t, err)

	snap, err := rt.Snapshot()
	require.NoError(t, err)
	require.Len(t, snap, 2)
	assert.Equal(t, a, snap[0].ID)
	assert.Equal(t, c, snap[1].ID)
	assert.Contains(t, snap[0].HTML, ">a</div>")
	assert.Contains(t, snap[1].HTML, ">c</div>")
}

func TestRuntimeFailedMountLeavesNoContainer(t *testing.T) {
	doc, b := newBridge(t)
	rt := render.NewRuntime(doc, b)
	events, cancel := rt.Subscribe()
	defer cancel()

	kept, err := rt.Mount(render.Model{})
	require.NoError(t, err)
	<-events
	_, err = rt.Mount(render.Model{Selection: dsel.Append("")})
	require.ErrorIs(t, err, dom.ErrInvalidTag)

	body, err := doc.Select("body")
	require.NoError(t, err)
	var ids []string
	for c := body.Node().FirstChild; c != nil; c = c.NextSibling {
		ids = append(ids, render.ID(c))
	}
	assert.Equal(t, rt.Instances(), ids)
	assert.Equal(t, []string{kept}, ids)
	assert.Equal(t, 1, b.Leases())
	assert.Empty(t, events)
}

func TestRuntimeFailedSetRecordsModel(t *testing.T) {
	doc, b := newBridge(t)
	rt := render.NewRuntime(doc, b)
	text := dsel.Text(dsel.On(func(s string, _ int) string { return s }))
	id, err := rt.Mount(render.Model{Selection: text, Datum: "a"})
	require.NoError(t, err)

	events, cancel := rt.Subscribe()
	defer cancel()
	failing := dsel.Sequence(text, dsel.Append(""))
	err = rt.Set(id, render.Model{Selection: failing, Datum: "b"})
	require.ErrorIs(t, err, dom.ErrInvalidTag)

	m, _ := rt.Model(id)
	assert.Equal(t, "b", m.Datum)
	ev := <-events
	assert.Equal(t, id, ev.ID)
	assert.Contains(t, ev.HTML, ">b</div>")
}

func TestRuntimeUnmount(t *testing.T) {
	doc, b := newBridge(t)
	rt := render.NewRuntime(doc, b)
	a, err := rt.Mount(render.Model{})
	require.NoError(t, err)
	c, err := rt.Mount(render.Model{})
	require.NoError(t, err)

	events, cancel := rt.Subscribe()
	defer cancel()
	require.NoError(t, rt.Unmount(a))
	assert.Equal(t, []string{c}, rt.Instances())
	assert.Equal(t, render.Event{ID: a}, <-events)
	assert.Equal(t, 1, b.Leases())

	full, err := rt.HTML()
	require.NoError(t, err)
	assert.NotContains(t, full, a)
	assert.ErrorIs(t, rt.Unmount(a), render.ErrUnknownInstance)
}
