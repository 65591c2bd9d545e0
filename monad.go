// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package dsel

// Pipeline composition for selections.
//
// Chain is the sequencing primitive: the context a step produces becomes the
// input of the next one. Update is its unit, so for all s:
//
//	Chain(Update, s) ≡ s ≡ Chain(s, Update)
//	Chain(Chain(a, b), c) ≡ Chain(a, Chain(b, c))

// Chain runs s1 and passes its resulting context and index to s2, whose
// continuation is the outer continuation.
func Chain(s1, s2 Selection) Selection {
	return func(k Continuation, ctx Context, i int) error {
		return s1(func(next Context, j int) error {
			return s2(k, next, j)
		}, ctx, i)
	}
}

// Pipeline chains steps left to right. An empty pipeline is Update.
func Pipeline(steps ...Selection) Selection {
	switch len(steps) {
	case 0:
		return Update
	case 1:
		return steps[0]
	}
	s := steps[len(steps)-1]
	for j := len(steps) - 2; j >= 0; j-- {
		s = Chain(steps[j], s)
	}
	return s
}
