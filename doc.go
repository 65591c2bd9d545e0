// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package dsel describes stateful DOM-selection programs as pure,
// composable values.
//
// The core type [Selection] is a continuation-passing step over a live
// selection [Context] and an index:
//
//	type Selection func(k Continuation, ctx Context, i int) error
//
// A step mutates the context, possibly producing a new one, and hands the
// result to its continuation k. Building a Selection touches nothing; every
// effect is deferred until the program is invoked with [Run], typically by a
// rendering bridge (see package render).
//
// # Design Philosophy
//
// dsel provides:
//   - Pure construction: composing steps allocates closures and nothing else
//   - Explicit sequencing: the continuation decides what observes which context
//   - Explicit index bookkeeping: the index a per-node evaluator sees is
//     threaded by the engine, not recovered from the selection library
//
// # Composition
//
//   - [Chain]: Pipe one step's resulting context into the next
//   - [Pipeline]: Chain a list of steps left to right
//   - [Sequence], [Sequences]: Run steps against the same context, then continue with it
//   - [Embed]: Detour into a nested program for its effects only
//   - [ChainWidget]: Apply an auxiliary step alongside a structural one
//
// # Structure
//
//   - [Select], [SelectAll]: Narrow to matching descendants
//   - [Append]: Create children
//   - [Bind]: Join data; opens a fresh index scope ([Unindexed])
//   - [Enter], [Exit], [Update], [Remove]: Join-pattern transitions
//   - [Static]: Find or create one memoized child per node, keeping the parent's index
//
// # Mutation
//
// [Classed], [Attr], [Style], [Property], [HTML] and [Text] take a [Valfn]:
// either a constant ([Const]) or a per-node evaluator of (datum, index)
// ([Func], [On]). Constants bypass per-node evaluation.
//
// # Transitions
//
//   - [Transition]: Continue with a transition context over the same nodes
//   - [Delay], [Duration]: Per-node or constant timing in milliseconds
//
// # Extension
//
// [Lift] turns any context transformation into a step. The transition steps
// are written against the same protocol and add no machinery of their own.
//
// # Index Threading
//
// Every step forwards the index it received, with two exceptions. [Bind]
// continues with [Unindexed], so bound children are indexed 0, 1, 2, ...
// regardless of the enclosing index. [Static] continues once per node with
// the parent's own index, so a memoized element keeps a stable position
// across repeated invocations.
//
// # Ownership
//
// A Context is owned by one invocation at a time. [Lease] refuses re-entrant
// use with [ErrBusy]. [Gensym] is the only state shared across invocations
// and uses an atomic counter.
//
// # Diagnostics
//
// [Trace] wraps a Context and records every call made through it.
//
// # Example
//
//	sym := dsel.NewGensym()
//	bars := dsel.Pipeline(
//		dsel.Static(sym, "svg"),
//		dsel.Bind(dsel.SelectAll("rect"), func(d any) []any { return d.([]any) }),
//		dsel.Enter,
//		dsel.Append("rect"),
//		dsel.Attr("width", dsel.On(func(v float64, _ int) string {
//			return strconv.FormatFloat(v, 'f', -1, 64)
//		})),
//		dsel.Attr("y", dsel.Func(func(_ any, i int) string {
//			return strconv.Itoa(i * 20)
//		})),
//	)
//	err := dsel.Run(bars, root, 0)
package dsel
