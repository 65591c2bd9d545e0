// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package dom

import (
	"time"

	"golang.org/x/net/html"

	"code.hybscloud.com/dsel"
)

// DefaultDuration is the duration a new transition schedules.
const DefaultDuration = 250 * time.Millisecond

// Timing is the schedule of the last transition started on a node.
// Mutations made through a transition take their end values immediately;
// Timing records when an animating client would play them.
type Timing struct {
	Transition int // transition id, unique within the document
	Delay      time.Duration
	Duration   time.Duration
}

// Transition starts a transition over the nodes of the selection. Each node
// is scheduled with no delay and DefaultDuration.
func (s *Selection) Transition() (dsel.Context, error) {
	if s.pending != nil {
		return nil, ErrEnterOnly
	}
	s.doc.transition++
	id := s.doc.transition
	s.eachNode(func(n *html.Node, _ int) {
		s.doc.timing[n] = Timing{Transition: id, Duration: DefaultDuration}
	})
	return &Selection{doc: s.doc, groups: s.groups, transition: id}, nil
}

// Delay sets the per-node delay of the transition in milliseconds.
func (s *Selection) Delay(v dsel.Valfn[int]) (dsel.Context, error) {
	return s.schedule(v, func(t *Timing, d time.Duration) { t.Delay = d })
}

// Duration sets the per-node duration of the transition in milliseconds.
func (s *Selection) Duration(v dsel.Valfn[int]) (dsel.Context, error) {
	return s.schedule(v, func(t *Timing, d time.Duration) { t.Duration = d })
}

func (s *Selection) schedule(v dsel.Valfn[int], set func(*Timing, time.Duration)) (dsel.Context, error) {
	if s.transition == 0 {
		return nil, ErrNotTransition
	}
	err := apply(s, v, func(n *html.Node, ms int) error {
		t := s.doc.timing[n]
		t.Transition = s.transition
		set(&t, time.Duration(ms)*time.Millisecond)
		s.doc.timing[n] = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}
