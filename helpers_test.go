// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package dsel_test

import (
	"strconv"
	"strings"
	"testing"

	"code.hybscloud.com/dsel"
	"code.hybscloud.com/dsel/dom"
)

// newBody returns an empty document and a context over its body.
func newBody(tb testing.TB) (*dom.Document, *dom.Selection) {
	tb.Helper()
	return parseBody(tb, "")
}

// parseBody parses markup as the body of a new document.
func parseBody(tb testing.TB, markup string) (*dom.Document, *dom.Selection) {
	tb.Helper()
	doc, err := dom.Parse(strings.NewReader("<body>" + markup + "</body>"))
	if err != nil {
		tb.Fatalf("parse: %v", err)
	}
	body, err := doc.Select("body")
	if err != nil {
		tb.Fatalf("select body: %v", err)
	}
	return doc, body
}

// inner renders the children of the body.
func inner(tb testing.TB, doc *dom.Document) string {
	tb.Helper()
	body, err := doc.Select("body")
	if err != nil {
		tb.Fatalf("select body: %v", err)
	}
	var b strings.Builder
	for _, c := range dom.Children(body.Node()) {
		out, err := doc.OuterHTML(c)
		if err != nil {
			tb.Fatalf("render: %v", err)
		}
		b.WriteString(out)
	}
	return b.String()
}

// attrs collects the named attribute of every element matching selector.
func attrs(tb testing.TB, doc *dom.Document, selector, name string) []string {
	tb.Helper()
	body, err := doc.Select("body")
	if err != nil {
		tb.Fatalf("select body: %v", err)
	}
	all, err := body.SelectAll(selector)
	if err != nil {
		tb.Fatalf("select all %q: %v", selector, err)
	}
	var out []string
	for _, n := range all.(*dom.Selection).Nodes() {
		v, _ := dom.Attr(n, name)
		out = append(out, v)
	}
	return out
}

// capture is a final continuation that records what it receives.
type capture struct {
	ctx   dsel.Context
	i     int
	calls int
}

func (c *capture) k(ctx dsel.Context, i int) error {
	c.ctx, c.i = ctx, i
	c.calls++
	return nil
}

// indexText renders the index an evaluator sees.
func indexText(_ any, i int) string {
	return strconv.Itoa(i)
}
