// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package dsel

import (
	"strconv"
	"sync/atomic"
)

// Gensym produces unique string tags. Create one per process and share it
// among every program that memoizes static elements into the same tree; tags
// from distinct generators may collide. There is no reset.
//
// The zero Gensym is ready to use and safe for concurrent use.
type Gensym struct {
	n atomic.Uint64
}

// NewGensym returns a new symbol generator starting at 1.
func NewGensym() *Gensym {
	return &Gensym{}
}

// Next returns prefix followed by the next counter value.
func (g *Gensym) Next(prefix string) string {
	return prefix + strconv.FormatUint(g.n.Add(1), 10)
}
