// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package dom

import (
	"fmt"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"code.hybscloud.com/dsel"
)

// group is an ordered list of nodes sharing a parent. Missing nodes are nil.
type group struct {
	parent *html.Node
	nodes  []*html.Node
}

// enterSlot is a placeholder for a datum that has no node yet.
type enterSlot struct {
	datum any
	ok    bool
}

// Selection is a grouped set of nodes in a Document. It implements
// dsel.Context.
type Selection struct {
	doc    *Document
	groups []group

	// Join results, set on the update selection returned by Data.
	enter *Selection
	exit  *Selection

	// Enter selections only: pending data per group slot, and the update
	// groups that appended nodes are merged into.
	pending [][]enterSlot
	update  []group

	// Non-zero for transition selections.
	transition int
}

var _ dsel.Context = (*Selection)(nil)

// Document returns the document the selection belongs to.
func (s *Selection) Document() *Document { return s.doc }

// Node returns the first node of the selection, or nil.
func (s *Selection) Node() *html.Node {
	for _, g := range s.groups {
		for _, n := range g.nodes {
			if n != nil {
				return n
			}
		}
	}
	return nil
}

// Nodes returns the nodes of the selection in group order.
func (s *Selection) Nodes() []*html.Node {
	var out []*html.Node
	for _, g := range s.groups {
		for _, n := range g.nodes {
			if n != nil {
				out = append(out, n)
			}
		}
	}
	return out
}

// Datum returns the datum of the first node.
func (s *Selection) Datum() any {
	if n := s.Node(); n != nil {
		return s.doc.data[n]
	}
	return nil
}

// SetDatum binds v to every node of the selection without computing a join.
func (s *Selection) SetDatum(v any) *Selection {
	s.eachNode(func(n *html.Node, _ int) {
		s.doc.data[n] = v
	})
	return s
}

// Size reports the number of nodes, or of pending data on an enter selection.
func (s *Selection) Size() int {
	if s.pending != nil {
		size := 0
		for _, slots := range s.pending {
			for _, slot := range slots {
				if slot.ok {
					size++
				}
			}
		}
		return size
	}
	return len(s.Nodes())
}

// Each calls fn with a single-node selection for every node.
func (s *Selection) Each(fn func(node dsel.Context, i int) error) error {
	if s.pending != nil {
		return ErrEnterOnly
	}
	for _, g := range s.groups {
		for i, n := range g.nodes {
			if n == nil {
				continue
			}
			if err := fn(s.doc.SelectNode(n), i); err != nil {
				return err
			}
		}
	}
	return nil
}

// Select narrows each node to its first matching descendant. The selected
// node inherits the datum of its source node.
func (s *Selection) Select(selector string) (dsel.Context, error) {
	if s.pending != nil {
		return nil, ErrEnterOnly
	}
	sel, err := s.doc.compile(selector)
	if err != nil {
		return nil, err
	}
	out := make([]group, len(s.groups))
	for gi, g := range s.groups {
		nodes := make([]*html.Node, len(g.nodes))
		for i, n := range g.nodes {
			if n == nil {
				continue
			}
			if m := queryFirst(n, sel); m != nil {
				s.doc.inherit(n, m)
				nodes[i] = m
			}
		}
		out[gi] = group{parent: g.parent, nodes: nodes}
	}
	return &Selection{doc: s.doc, groups: out}, nil
}

// SelectAll returns one group per node holding all its matching descendants.
func (s *Selection) SelectAll(selector string) (dsel.Context, error) {
	if s.pending != nil {
		return nil, ErrEnterOnly
	}
	sel, err := s.doc.compile(selector)
	if err != nil {
		return nil, err
	}
	var out []group
	for _, g := range s.groups {
		for _, n := range g.nodes {
			if n == nil {
				continue
			}
			out = append(out, group{parent: n, nodes: queryAll(n, sel, nil)})
		}
	}
	return &Selection{doc: s.doc, groups: out}, nil
}

// Append creates a tag element as the last child of every node. On an enter
// selection the element is appended to the group parent, bound to the
// pending datum and merged into the update selection.
func (s *Selection) Append(tag string) (dsel.Context, error) {
	if err := validTag(tag); err != nil {
		return nil, err
	}
	out := make([]group, len(s.groups))
	for gi, g := range s.groups {
		nodes := make([]*html.Node, len(g.nodes))
		if s.pending != nil {
			for i, slot := range s.pending[gi] {
				if !slot.ok {
					continue
				}
				el := newElement(tag, g.parent)
				g.parent.AppendChild(el)
				s.doc.data[el] = slot.datum
				nodes[i] = el
				s.update[gi].nodes[i] = el
			}
		} else {
			for i, n := range g.nodes {
				if n == nil {
					continue
				}
				el := newElement(tag, n)
				n.AppendChild(el)
				s.doc.inherit(n, el)
				nodes[i] = el
			}
		}
		out[gi] = group{parent: g.parent, nodes: nodes}
	}
	return &Selection{doc: s.doc, groups: out}, nil
}

// Remove detaches every node from its parent.
func (s *Selection) Remove() (dsel.Context, error) {
	if s.pending != nil {
		return nil, ErrEnterOnly
	}
	s.eachNode(func(n *html.Node, _ int) {
		if n.Parent != nil {
			n.Parent.RemoveChild(n)
		}
	})
	return s, nil
}

func (s *Selection) eachNode(fn func(n *html.Node, i int)) {
	for _, g := range s.groups {
		for i, n := range g.nodes {
			if n != nil {
				fn(n, i)
			}
		}
	}
}

func newElement(tag string, parent *html.Node) *html.Node {
	el := &html.Node{Type: html.ElementNode, Data: tag, DataAtom: atom.Lookup([]byte(tag))}
	if tag == "svg" || (parent.Namespace == "svg" && parent.Data != "foreignObject") {
		el.Namespace = "svg"
	}
	return el
}

func validTag(tag string) error {
	if tag == "" {
		return fmt.Errorf("%w: empty", ErrInvalidTag)
	}
	for i, r := range tag {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && (r >= '0' && r <= '9' || r == '-' || r == '_' || r == '.' || r == ':'):
		default:
			return fmt.Errorf("%w: %q", ErrInvalidTag, tag)
		}
	}
	return nil
}
