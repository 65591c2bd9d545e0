// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package dom

import (
	"golang.org/x/net/html"

	"code.hybscloud.com/dsel"
)

// Data joins values to every group by index. values is called once per
// group with the datum of the group's parent.
//
// The i-th datum is bound to the i-th node when that node exists. Surplus
// data become enter placeholders; surplus nodes become the exit selection.
func (s *Selection) Data(values func(datum any) []any) (dsel.Context, error) {
	if s.pending != nil {
		return nil, ErrEnterOnly
	}
	n := len(s.groups)
	update := make([]group, n)
	enter := &Selection{doc: s.doc, groups: make([]group, n), pending: make([][]enterSlot, n)}
	exit := &Selection{doc: s.doc, groups: make([]group, n)}

	for gi, g := range s.groups {
		data := values(s.doc.data[g.parent])
		nodes := make([]*html.Node, len(data))
		slots := make([]enterSlot, len(data))
		for i, v := range data {
			if i < len(g.nodes) && g.nodes[i] != nil {
				s.doc.data[g.nodes[i]] = v
				nodes[i] = g.nodes[i]
				continue
			}
			slots[i] = enterSlot{datum: v, ok: true}
		}
		var stale []*html.Node
		if len(g.nodes) > len(data) {
			stale = make([]*html.Node, len(g.nodes))
			copy(stale[len(data):], g.nodes[len(data):])
		}
		update[gi] = group{parent: g.parent, nodes: nodes}
		enter.groups[gi] = group{parent: g.parent, nodes: make([]*html.Node, len(data))}
		enter.pending[gi] = slots
		exit.groups[gi] = group{parent: g.parent, nodes: stale}
	}

	enter.update = update
	return &Selection{doc: s.doc, groups: update, enter: enter, exit: exit}, nil
}

// Enter returns the placeholders of the last join.
func (s *Selection) Enter() (dsel.Context, error) {
	if s.enter == nil {
		return nil, ErrNoJoin
	}
	return s.enter, nil
}

// Exit returns the nodes left without data by the last join.
func (s *Selection) Exit() (dsel.Context, error) {
	if s.exit == nil {
		return nil, ErrNoJoin
	}
	return s.exit, nil
}
