// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package render

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"golang.org/x/net/html"

	"code.hybscloud.com/dsel"
	"code.hybscloud.com/dsel/dom"
)

// ErrUnknownInstance is returned for an id the runtime never mounted.
var ErrUnknownInstance = errors.New("render: unknown instance")

// subscriberBuffer is the number of events a slow subscriber may lag behind
// before further events to it are dropped.
const subscriberBuffer = 64

// Event reports the markup of an instance after a render or update. HTML is
// empty once the instance is unmounted.
type Event struct {
	ID   string `json:"id"`
	HTML string `json:"html"`
}

type instance struct {
	node  *html.Node
	model Model
}

// Runtime owns mounted instances. All methods are safe for concurrent use;
// renders and updates are serialized.
type Runtime struct {
	doc *dom.Document
	el  Element
	log *slog.Logger

	mu        sync.Mutex
	instances map[string]*instance
	order     []string
	subs      map[int]chan Event
	nextSub   int
}

// NewRuntime returns a Runtime that renders into doc through el.
func NewRuntime(doc *dom.Document, el Element, opts ...Option) *Runtime {
	c := newConfig(opts)
	return &Runtime{
		doc:       doc,
		el:        el,
		log:       c.log,
		instances: make(map[string]*instance),
		subs:      make(map[int]chan Event),
	}
}

// Mount renders m once and returns the new instance id. A container whose
// render fails is unmounted again, so the document only holds instances.
func (r *Runtime) Mount(m Model) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	node, err := r.el.Render(m)
	if err != nil {
		if node != nil {
			r.el.Unmount(node)
		}
		return "", err
	}
	id := ID(node)
	if id == "" {
		r.el.Unmount(node)
		return "", fmt.Errorf("render: container has no %s", IDAttr)
	}
	r.instances[id] = &instance{node: node, model: m}
	r.order = append(r.order, id)
	r.publish(id, node)
	return id, nil
}

// Set replaces the model of a mounted instance and updates it.
func (r *Runtime) Set(id string, m Model) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.set(id, func(Model) Model { return m })
}

// SetDatum replaces only the datum of a mounted instance and updates it.
func (r *Runtime) SetDatum(id string, datum any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.set(id, func(m Model) Model {
		m.Datum = datum
		return m
	})
}

// set records the next model and publishes the node even when the update
// fails, so both match a partly re-rendered node. A refused update leaves
// them untouched.
func (r *Runtime) set(id string, next func(Model) Model) error {
	inst, ok := r.instances[id]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownInstance, id)
	}
	m := next(inst.model)
	keep, err := r.el.Update(inst.node, inst.model, m)
	if errors.Is(err, dsel.ErrBusy) {
		return err
	}
	inst.model = m
	if !keep {
		r.log.Warn("element discarded its node", "id", id)
	}
	r.publish(id, inst.node)
	return err
}

// Unmount removes an instance from the document. Subscribers receive an
// Event with empty HTML for it.
func (r *Runtime) Unmount(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	inst, ok := r.instances[id]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownInstance, id)
	}
	r.el.Unmount(inst.node)
	delete(r.instances, id)
	r.order = slices.DeleteFunc(r.order, func(o string) bool { return o == id })
	r.send(Event{ID: id})
	return nil
}

// Instances returns the ids of mounted instances in mount order.
func (r *Runtime) Instances() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.order)
}

// Model returns the current model of an instance.
func (r *Runtime) Model(id string) (Model, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	inst, ok := r.instances[id]
	if !ok {
		return Model{}, false
	}
	return inst.model, true
}

// HTML renders the whole document.
func (r *Runtime) HTML() (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var b strings.Builder
	if err := r.doc.Render(&b); err != nil {
		return "", err
	}
	return b.String(), nil
}

// Snapshot returns the current markup of every instance in mount order.
func (r *Runtime) Snapshot() ([]Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, 0, len(r.order))
	for _, id := range r.order {
		markup, err := r.doc.OuterHTML(r.instances[id].node)
		if err != nil {
			return nil, err
		}
		out = append(out, Event{ID: id, HTML: markup})
	}
	return out, nil
}

// Subscribe returns a channel receiving an Event after every mount, update
// and unmount, and a function that ends the subscription and closes
// the channel.
func (r *Runtime) Subscribe() (<-chan Event, func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.nextSub
	r.nextSub++
	ch := make(chan Event, subscriberBuffer)
	r.subs[id] = ch
	var once sync.Once
	return ch, func() {
		once.Do(func() {
			r.mu.Lock()
			defer r.mu.Unlock()
			delete(r.subs, id)
			close(ch)
		})
	}
}

// publish must be called with r.mu held.
func (r *Runtime) publish(id string, node *html.Node) {
	if len(r.subs) == 0 {
		return
	}
	markup, err := r.doc.OuterHTML(node)
	if err != nil {
		r.log.Error("render event", "id", id, "err", err)
		return
	}
	r.send(Event{ID: id, HTML: markup})
}

// send must be called with r.mu held.
func (r *Runtime) send(ev Event) {
	for sub, ch := range r.subs {
		select {
		case ch <- ev:
		default:
			r.log.Warn("subscriber lagging, event dropped", "id", ev.ID, "subscriber", sub)
		}
	}
}
