// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package dom_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"code.hybscloud.com/dsel"
	"code.hybscloud.com/dsel/dom"
)

func parse(t *testing.T, markup string) *dom.Document {
	t.Helper()
	doc, err := dom.Parse(strings.NewReader(markup))
	require.NoError(t, err)
	return doc
}

func body(t *testing.T, doc *dom.Document) *dom.Selection {
	t.Helper()
	s, err := doc.Select("body")
	require.NoError(t, err)
	require.Equal(t, 1, s.Size())
	return s
}

func sel(t *testing.T, ctx dsel.Context, err error) *dom.Selection {
	t.Helper()
	require.NoError(t, err)
	s, ok := ctx.(*dom.Selection)
	require.True(t, ok, "context is %T", ctx)
	return s
}

func TestNewDocumentRenders(t *testing.T) {
	doc := dom.New()
	var b strings.Builder
	require.NoError(t, doc.Render(&b))
	assert.Equal(t, "<html><head></head><body></body></html>", b.String())
}

func TestSelectFirstDescendantOnly(t *testing.T) {
	doc := parse(t, `<body><p class="a" id="one"></p><div><p class="a" id="two"></p></div></body>`)
	ctx, err := body(t, doc).Select(".a")
	s := sel(t, ctx, err)

	require.Equal(t, 1, s.Size())
	id, _ := dom.Attr(s.Node(), "id")
	assert.Equal(t, "one", id)
}

func TestSelectDoesNotMatchSelf(t *testing.T) {
	doc := parse(t, `<body class="x"></body>`)
	ctx, err := body(t, doc).Select(".x")
	s := sel(t, ctx, err)
	assert.Equal(t, 0, s.Size())
}

func TestSelectPropagatesDatum(t *testing.T) {
	doc := parse(t, `<body><svg></svg></body>`)
	b := body(t, doc).SetDatum("payload")
	ctx, err := b.Select("svg")
	s := sel(t, ctx, err)
	assert.Equal(t, "payload", s.Datum())
}

func TestSelectAllGroupsPerNode(t *testing.T) {
	doc := parse(t, `<body><ul><li></li><li></li></ul><ul><li></li></ul></body>`)
	ctx, err := body(t, doc).SelectAll("ul")
	uls := sel(t, ctx, err)
	require.Equal(t, 2, uls.Size())

	ctx, err = uls.SelectAll("li")
	lis := sel(t, ctx, err)
	assert.Equal(t, 3, lis.Size())

	var positions []int
	require.NoError(t, lis.Each(func(_ dsel.Context, i int) error {
		positions = append(positions, i)
		return nil
	}))
	assert.Equal(t, []int{0, 1, 0}, positions)
}

func TestInvalidSelector(t *testing.T) {
	doc := dom.New()
	_, err := body(t, doc).Select("[[")
	assert.ErrorIs(t, err, dom.ErrInvalidSelector)
}

func TestAppendInheritsDatumAndNamespace(t *testing.T) {
	doc := dom.New()
	b := body(t, doc).SetDatum(42)

	ctx, err := b.Append("svg")
	svg := sel(t, ctx, err)
	assert.Equal(t, "svg", svg.Node().Namespace)
	assert.Equal(t, 42, svg.Datum())

	ctx, err = svg.Append("rect")
	rect := sel(t, ctx, err)
	assert.Equal(t, "svg", rect.Node().Namespace)
	assert.Same(t, svg.Node(), rect.Node().Parent)
}

func TestAppendInvalidTag(t *testing.T) {
	doc := dom.New()
	for _, tag := range []string{"", "1div", "di v", "<p>"} {
		_, err := body(t, doc).Append(tag)
		assert.ErrorIs(t, err, dom.ErrInvalidTag, "tag %q", tag)
	}
}

func TestDataJoin(t *testing.T) {
	doc := parse(t, `<body><p>a</p><p>b</p><p>c</p></body>`)
	b := body(t, doc).SetDatum([]any{"x", "y"})

	ctx, err := b.SelectAll("p")
	ps := sel(t, ctx, err)
	ctx, err = ps.Data(func(d any) []any { return d.([]any) })
	update := sel(t, ctx, err)
	require.Equal(t, 2, update.Size())
	assert.Equal(t, "x", update.Datum())

	ctx, err = update.Enter()
	enter := sel(t, ctx, err)
	assert.Equal(t, 0, enter.Size())

	ctx, err = update.Exit()
	exit := sel(t, ctx, err)
	require.Equal(t, 1, exit.Size())
	assert.Equal(t, "c", dom.TextContent(exit.Node()))

	_, err = exit.Remove()
	require.NoError(t, err)
	assert.Len(t, dom.Children(b.Node()), 2)
}

func TestEnterAppendMergesIntoUpdate(t *testing.T) {
	doc := parse(t, `<body><p></p></body>`)
	b := body(t, doc)

	ctx, err := b.SelectAll("p")
	ps := sel(t, ctx, err)
	ctx, err = ps.Data(func(any) []any { return []any{1, 2, 3} })
	update := sel(t, ctx, err)
	require.Equal(t, 1, update.Size())

	ctx, err = update.Enter()
	enter := sel(t, ctx, err)
	require.Equal(t, 2, enter.Size())

	ctx, err = enter.Append("p")
	appended := sel(t, ctx, err)
	require.Equal(t, 2, appended.Size())
	assert.Equal(t, 2, appended.Datum())

	assert.Equal(t, 3, update.Size())
	assert.Len(t, dom.Children(b.Node()), 3)
}

func TestEnterSelectionRejectsMutation(t *testing.T) {
	doc := dom.New()
	ctx, err := body(t, doc).SelectAll("p")
	ps := sel(t, ctx, err)
	ctx, err = ps.Data(func(any) []any { return []any{1} })
	update := sel(t, ctx, err)
	enter, err := update.Enter()
	require.NoError(t, err)

	_, err = enter.Attr("x", dsel.Const("1"))
	assert.ErrorIs(t, err, dom.ErrEnterOnly)
	_, err = enter.Select("p")
	assert.ErrorIs(t, err, dom.ErrEnterOnly)
}

func TestEnterWithoutJoin(t *testing.T) {
	doc := dom.New()
	_, err := body(t, doc).Enter()
	assert.ErrorIs(t, err, dom.ErrNoJoin)
	_, err = body(t, doc).Exit()
	assert.ErrorIs(t, err, dom.ErrNoJoin)
}

func TestAttrConstantAndPerNode(t *testing.T) {
	doc := parse(t, `<body><i></i><i></i></body>`)
	ctx, err := body(t, doc).SelectAll("i")
	is := sel(t, ctx, err)
	ctx, err = is.Data(func(any) []any { return []any{"a", "b"} })
	bound := sel(t, ctx, err)

	_, err = bound.Attr("k", dsel.Const("c"))
	require.NoError(t, err)
	_, err = bound.Attr("v", dsel.Func(func(d any, i int) string {
		return d.(string) + strings.Repeat("!", i)
	}))
	require.NoError(t, err)

	nodes := bound.Nodes()
	require.Len(t, nodes, 2)
	for j, want := range []string{"a", "b!"} {
		k, _ := dom.Attr(nodes[j], "k")
		v, _ := dom.Attr(nodes[j], "v")
		assert.Equal(t, "c", k)
		assert.Equal(t, want, v)
	}
}

func TestClassedToggles(t *testing.T) {
	doc := parse(t, `<body><p class="keep"></p></body>`)
	ctx, err := body(t, doc).Select("p")
	p := sel(t, ctx, err)

	_, err = p.Classed("one two", dsel.Const(true))
	require.NoError(t, err)
	assert.True(t, dom.HasClass(p.Node(), "one"))
	assert.True(t, dom.HasClass(p.Node(), "two"))

	_, err = p.Classed("one", dsel.Const(false))
	require.NoError(t, err)
	assert.False(t, dom.HasClass(p.Node(), "one"))
	assert.True(t, dom.HasClass(p.Node(), "keep"))
}

func TestStyleMergesDeclarations(t *testing.T) {
	doc := parse(t, `<body><p style="color: red"></p></body>`)
	ctx, err := body(t, doc).Select("p")
	p := sel(t, ctx, err)

	_, err = p.Style("width", dsel.Const("10px"))
	require.NoError(t, err)
	_, err = p.Style("color", dsel.Const("blue"))
	require.NoError(t, err)

	style, _ := dom.Attr(p.Node(), "style")
	assert.Equal(t, "color: blue; width: 10px;", style)

	_, err = p.Style("color", dsel.Const(""))
	require.NoError(t, err)
	v, ok := dom.StyleValue(p.Node(), "color")
	assert.False(t, ok, "color still set to %q", v)
}

func TestPropertyIsNotAnAttribute(t *testing.T) {
	doc := parse(t, `<body><input></body>`)
	ctx, err := body(t, doc).Select("input")
	in := sel(t, ctx, err)

	_, err = in.Property("checked", dsel.Const[any](true))
	require.NoError(t, err)

	v, ok := doc.Property(in.Node(), "checked")
	require.True(t, ok)
	assert.Equal(t, true, v)
	_, ok = dom.Attr(in.Node(), "checked")
	assert.False(t, ok)
}

func TestTextAndHTML(t *testing.T) {
	doc := parse(t, `<body><div><b>old</b></div></body>`)
	ctx, err := body(t, doc).Select("div")
	div := sel(t, ctx, err)

	_, err = div.Text(dsel.Const("a < b"))
	require.NoError(t, err)
	out, err := doc.OuterHTML(div.Node())
	require.NoError(t, err)
	assert.Equal(t, "<div>a &lt; b</div>", out)

	_, err = div.HTML(dsel.Const("<em>new</em>"))
	require.NoError(t, err)
	out, err = doc.OuterHTML(div.Node())
	require.NoError(t, err)
	assert.Equal(t, "<div><em>new</em></div>", out)
}

func TestTransitionTiming(t *testing.T) {
	doc := parse(t, `<body><p></p><p></p><p></p></body>`)
	ctx, err := body(t, doc).SelectAll("p")
	ps := sel(t, ctx, err)

	_, err = ps.Delay(dsel.Const(10))
	assert.ErrorIs(t, err, dom.ErrNotTransition)

	ctx, err = ps.Transition()
	tr := sel(t, ctx, err)
	_, err = tr.Delay(dsel.Func(func(_ any, i int) int { return i * 100 }))
	require.NoError(t, err)

	for i, n := range ps.Nodes() {
		timing, ok := doc.Timing(n)
		require.True(t, ok)
		assert.Equal(t, time.Duration(i*100)*time.Millisecond, timing.Delay)
		assert.Equal(t, dom.DefaultDuration, timing.Duration)
	}
	assert.Equal(t, ps.Nodes(), tr.Nodes())
}
