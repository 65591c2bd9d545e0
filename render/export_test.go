// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package render

// Leases returns the number of nodes the bridge holds a lease for.
func (b *Bridge) Leases() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.leases)
}
