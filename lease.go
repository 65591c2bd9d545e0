// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package dsel

import (
	"errors"
	"sync/atomic"
)

// ErrBusy is returned when a context is invoked while another invocation
// still holds it.
var ErrBusy = errors.New("dsel: selection context already in use")

// Lease enforces single ownership of a selection context. At most one
// invocation can hold a Lease at a time; a second, re-entrant or concurrent,
// attempt fails instead of interleaving mutations.
//
// The zero Lease is free.
type Lease struct {
	held atomic.Uintptr
}

// Acquire takes the lease. It reports false if the lease is already held.
func (l *Lease) Acquire() bool {
	return l.held.CompareAndSwap(0, 1)
}

// Release frees the lease.
func (l *Lease) Release() {
	l.held.Store(0)
}

// Held reports whether the lease is currently taken.
func (l *Lease) Held() bool {
	return l.held.Load() != 0
}

// Run invokes s with the identity continuation while holding the lease.
// It returns ErrBusy without invoking s if the lease is taken. The lease is
// released even if s panics.
func (l *Lease) Run(s Selection, ctx Context, i int) error {
	if !l.Acquire() {
		return ErrBusy
	}
	defer l.Release()
	return s(identity, ctx, i)
}
