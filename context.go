// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package dsel

// Context is a live, mutable handle to the set of nodes a program is
// currently operating on. It is the surface the engine consumes from the
// underlying selection library.
//
// Methods that narrow or create nodes return a new Context; mutating methods
// return the receiver (or an equivalent handle) so steps can forward it.
// A Context is owned by a single invocation at a time; see [Lease].
type Context interface {
	// Select narrows each node to its first descendant matching selector.
	// Selected nodes inherit the datum of the node they were selected from.
	Select(selector string) (Context, error)
	// SelectAll narrows each node to all descendants matching selector,
	// one group per source node.
	SelectAll(selector string) (Context, error)
	// Append creates a child element of the given tag under every node and
	// returns the created nodes.
	Append(tag string) (Context, error)
	// Data joins values to the nodes of every group. values receives the
	// datum of the group's parent. The returned update context exposes the
	// join through Enter and Exit.
	Data(values func(datum any) []any) (Context, error)
	// Enter returns placeholders for data that had no node.
	Enter() (Context, error)
	// Exit returns nodes that had no data.
	Exit() (Context, error)
	// Remove detaches every node from the tree.
	Remove() (Context, error)
	// Each calls fn once per node with a single-node context and the node's
	// position in its group. Iteration stops at the first error.
	Each(fn func(node Context, i int) error) error
	// Size reports the number of nodes in the context.
	Size() int

	Classed(name string, v Valfn[bool]) (Context, error)
	Attr(name string, v Valfn[string]) (Context, error)
	Style(name string, v Valfn[string]) (Context, error)
	Property(name string, v Valfn[any]) (Context, error)
	HTML(v Valfn[string]) (Context, error)
	Text(v Valfn[string]) (Context, error)

	// Transition returns a transition context over the same nodes.
	Transition() (Context, error)
	// Delay and Duration set transition timing in milliseconds.
	Delay(v Valfn[int]) (Context, error)
	Duration(v Valfn[int]) (Context, error)
}
