// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package render mounts selection programs into a document.
//
// A [Bridge] turns a [Model] into a live container element and re-applies
// the model's program to that element on update. A [Runtime] drives a
// Bridge the way a host UI runtime would: it owns mounted instances,
// serializes every render and update, and notifies subscribers with the
// resulting markup.
package render

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/net/html"

	"code.hybscloud.com/dsel"
	"code.hybscloud.com/dsel/dom"
)

// IDAttr is the attribute holding a container's instance id.
const IDAttr = "data-dsel-id"

// ErrNoParent is returned by Render when the mount parent does not exist.
var ErrNoParent = errors.New("render: mount parent not found")

// Model is everything needed to render one container.
type Model struct {
	Width     int // px; zero leaves the width unset
	Height    int // px; zero leaves the height unset
	Selection dsel.Selection
	Datum     any
}

// Element is the contract between a host runtime and a renderer.
type Element interface {
	// Render creates the container for m and runs its program.
	Render(m Model) (*html.Node, error)
	// Update re-runs next on the container created by Render. It reports
	// whether the host should keep the node.
	Update(node *html.Node, prev, next Model) (bool, error)
	// Unmount detaches a container and forgets its per-node state.
	Unmount(node *html.Node)
}

// Bridge renders models into a dom.Document.
type Bridge struct {
	doc     *dom.Document
	parent  string
	log     *slog.Logger
	metrics *metrics

	mu     sync.Mutex
	leases map[*html.Node]*dsel.Lease
}

var _ Element = (*Bridge)(nil)

// NewBridge returns a Bridge over doc.
func NewBridge(doc *dom.Document, opts ...Option) (*Bridge, error) {
	c := newConfig(opts)
	m, err := newMetrics(c.reg)
	if err != nil {
		return nil, fmt.Errorf("render: register metrics: %w", err)
	}
	return &Bridge{
		doc:     doc,
		parent:  c.parent,
		log:     c.log,
		metrics: m,
		leases:  make(map[*html.Node]*dsel.Lease),
	}, nil
}

// Document returns the document the bridge renders into.
func (b *Bridge) Document() *dom.Document { return b.doc }

// Render appends one container div under the mount parent, tags it with a
// fresh id, sizes it, binds m.Datum to it and runs m.Selection against it at
// index 0. The container is returned even when the program fails; the
// caller owns it and should Unmount it if it is not kept.
//
// Top-level per-node evaluators see index 0 rather than their position in
// a SelectAll result until a Bind opens a new index scope.
func (b *Bridge) Render(m Model) (node *html.Node, err error) {
	start := time.Now()
	defer func() { b.done("render", node, start, err) }()

	parent, err := b.doc.Select(b.parent)
	if err != nil {
		return nil, err
	}
	if parent.Size() == 0 {
		return nil, fmt.Errorf("%w: %q", ErrNoParent, b.parent)
	}
	ctx, err := parent.Append("div")
	if err != nil {
		return nil, err
	}
	container := ctx.(*dom.Selection)
	if _, err := container.Attr(IDAttr, dsel.Const(uuid.NewString())); err != nil {
		return nil, err
	}
	node = container.Node()
	return node, b.run(node, container, Model{}, m)
}

// Update binds next.Datum to node, resizes it if the size changed and runs
// next.Selection against it at index 0. A call made while node is already
// being rendered fails with [dsel.ErrBusy] and leaves node untouched. It
// always reports true.
func (b *Bridge) Update(node *html.Node, prev, next Model) (keep bool, err error) {
	start := time.Now()
	defer func() { b.done("update", node, start, err) }()

	return true, b.run(node, b.doc.SelectNode(node), prev, next)
}

// Unmount detaches node from its parent and drops its lease.
func (b *Bridge) Unmount(node *html.Node) {
	b.mu.Lock()
	delete(b.leases, node)
	b.mu.Unlock()
	if node.Parent != nil {
		node.Parent.RemoveChild(node)
	}
	b.log.Debug("unmounted", "id", ID(node))
}

// run sizes the container, binds the datum and runs the program, all under
// the node's lease.
func (b *Bridge) run(node *html.Node, container *dom.Selection, prev, next Model) error {
	apply := func(k dsel.Continuation, ctx dsel.Context, i int) error {
		if err := b.size(container, prev, next); err != nil {
			return err
		}
		container.SetDatum(next.Datum)
		if next.Selection == nil {
			return k(ctx, i)
		}
		return next.Selection(k, ctx, i)
	}
	return b.lease(node).Run(apply, container, 0)
}

func (b *Bridge) lease(node *html.Node) *dsel.Lease {
	b.mu.Lock()
	defer b.mu.Unlock()
	l, ok := b.leases[node]
	if !ok {
		l = new(dsel.Lease)
		b.leases[node] = l
	}
	return l
}

// size restyles the dimensions that differ between prev and next.
func (b *Bridge) size(container *dom.Selection, prev, next Model) error {
	if next.Width != prev.Width {
		if _, err := container.Style("width", px(next.Width)); err != nil {
			return err
		}
	}
	if next.Height != prev.Height {
		if _, err := container.Style("height", px(next.Height)); err != nil {
			return err
		}
	}
	return nil
}

func (b *Bridge) done(op string, node *html.Node, start time.Time, err error) {
	b.metrics.observe(op, start, err)
	id := ""
	if node != nil {
		id = ID(node)
	}
	if err != nil {
		b.log.Error("render failed", "op", op, "id", id, "err", err)
		return
	}
	b.log.Debug("rendered", "op", op, "id", id, "elapsed", time.Since(start))
}

// ID returns the instance id of a container, or "".
func ID(node *html.Node) string {
	id, _ := dom.Attr(node, IDAttr)
	return id
}

func px(n int) dsel.Valfn[string] {
	if n == 0 {
		return dsel.Const("")
	}
	return dsel.Const(strconv.Itoa(n) + "px")
}
