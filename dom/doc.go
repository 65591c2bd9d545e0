// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package dom is an in-memory, data-driven selection library over an HTML
// node tree. Its [Selection] implements [dsel.Context].
//
// Nodes are golang.org/x/net/html nodes; selectors are CSS selectors compiled
// with cascadia. Data, node properties and transition timing are kept by the
// owning [Document], keyed by node, so the tree itself serializes as plain
// markup.
//
// Join semantics follow the classic index join: Data pairs the i-th datum
// with the i-th node of each group. Appending to an enter selection inserts
// the new nodes into the update selection it came from.
//
// A Document is not safe for concurrent use.
package dom
