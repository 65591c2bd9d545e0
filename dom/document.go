// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package dom

import (
	"fmt"
	"io"
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Document owns a node tree and the per-node state the tree does not carry:
// bound data, properties and transition timing.
type Document struct {
	root       *html.Node
	data       map[*html.Node]any
	props      map[*html.Node]map[string]any
	timing     map[*html.Node]Timing
	selectors  map[string]cascadia.Selector
	transition int
}

// New returns an empty document: <html><head></head><body></body></html>.
func New() *Document {
	root := &html.Node{Type: html.DocumentNode}
	htmlEl := &html.Node{Type: html.ElementNode, Data: "html", DataAtom: atom.Html}
	root.AppendChild(htmlEl)
	htmlEl.AppendChild(&html.Node{Type: html.ElementNode, Data: "head", DataAtom: atom.Head})
	htmlEl.AppendChild(&html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body})
	return newDocument(root)
}

// Parse reads an HTML document.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("dom: parse: %w", err)
	}
	return newDocument(root), nil
}

func newDocument(root *html.Node) *Document {
	return &Document{
		root:      root,
		data:      make(map[*html.Node]any),
		props:     make(map[*html.Node]map[string]any),
		timing:    make(map[*html.Node]Timing),
		selectors: make(map[string]cascadia.Selector),
	}
}

// Root returns the document node.
func (d *Document) Root() *html.Node { return d.root }

// Select returns a selection of the first element in the document matching
// selector. The selection is empty if nothing matches.
func (d *Document) Select(selector string) (*Selection, error) {
	sel, err := d.compile(selector)
	if err != nil {
		return nil, err
	}
	nodes := []*html.Node{nil}
	nodes[0] = queryFirst(d.root, sel)
	return &Selection{doc: d, groups: []group{{parent: d.root, nodes: nodes}}}, nil
}

// SelectNode returns a single-node selection of n.
func (d *Document) SelectNode(n *html.Node) *Selection {
	return &Selection{doc: d, groups: []group{{parent: d.root, nodes: []*html.Node{n}}}}
}

// Datum returns the datum bound to n.
func (d *Document) Datum(n *html.Node) (any, bool) {
	v, ok := d.data[n]
	return v, ok
}

// Property returns the named property of n.
func (d *Document) Property(n *html.Node, name string) (any, bool) {
	v, ok := d.props[n][name]
	return v, ok
}

// Timing returns the transition timing last scheduled on n.
func (d *Document) Timing(n *html.Node) (Timing, bool) {
	t, ok := d.timing[n]
	return t, ok
}

// Render writes the whole document as HTML.
func (d *Document) Render(w io.Writer) error {
	return html.Render(w, d.root)
}

// OuterHTML returns the markup of n and its descendants.
func (d *Document) OuterHTML(n *html.Node) (string, error) {
	var b strings.Builder
	if err := html.Render(&b, n); err != nil {
		return "", err
	}
	return b.String(), nil
}

func (d *Document) compile(selector string) (cascadia.Selector, error) {
	if sel, ok := d.selectors[selector]; ok {
		return sel, nil
	}
	sel, err := cascadia.Compile(selector)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrInvalidSelector, selector, err)
	}
	d.selectors[selector] = sel
	return sel, nil
}

// inherit copies the datum of from onto to, if from has one.
func (d *Document) inherit(from, to *html.Node) {
	if v, ok := d.data[from]; ok {
		d.data[to] = v
	}
}

// queryFirst returns the first descendant of n, in document order, matching
// sel. n itself is not considered.
func queryFirst(n *html.Node, sel cascadia.Selector) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		if sel.Match(c) {
			return c
		}
		if m := queryFirst(c, sel); m != nil {
			return m
		}
	}
	return nil
}

// queryAll appends every descendant of n matching sel, in document order.
func queryAll(n *html.Node, sel cascadia.Selector, out []*html.Node) []*html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		if sel.Match(c) {
			out = append(out, c)
		}
		out = queryAll(c, sel, out)
	}
	return out
}
