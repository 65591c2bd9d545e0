// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package dsel

// identity is the identity continuation. It ends an invocation successfully.
func identity(Context, int) error { return nil }

// Run invokes s against ctx and index i with the identity continuation.
// All mutations described by s are applied before Run returns.
func Run(s Selection, ctx Context, i int) error {
	return s(identity, ctx, i)
}

// RunWith invokes s with a custom final continuation.
func RunWith(s Selection, k Continuation, ctx Context, i int) error {
	return s(k, ctx, i)
}
