// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package program

import (
	"errors"
	"strconv"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"

	"code.hybscloud.com/dsel"
	"code.hybscloud.com/dsel/prim"
)

// value is a compiled value node: a constant, or an evaluator over
// (datum, index).
type value struct {
	konst any
	eval  func(datum any, i int) (any, error)
}

func anyValue(v any) (any, error) { return v, nil }

// valfn compiles n and converts its result with conv. Constants are
// converted once and reported as shape errors; per-node evaluations that
// fail yield the zero value.
func valfn[T any](n *yaml.Node, conv func(any) (T, error)) (dsel.Valfn[T], error) {
	v, err := compileValue(n)
	if err != nil {
		return dsel.Valfn[T]{}, err
	}
	if v.eval == nil {
		t, err := conv(v.konst)
		if err != nil {
			return dsel.Valfn[T]{}, shape(n, "%v", err)
		}
		return dsel.Const(t), nil
	}
	eval := v.eval
	return dsel.Func(func(datum any, i int) T {
		var zero T
		x, err := eval(datum, i)
		if err != nil {
			return zero
		}
		t, err := conv(x)
		if err != nil {
			return zero
		}
		return t
	}), nil
}

func compileValue(n *yaml.Node) (value, error) {
	switch n.Kind {
	case yaml.ScalarNode, yaml.SequenceNode:
		var v any
		if err := n.Decode(&v); err != nil {
			return value{}, shape(n, "%v", err)
		}
		return value{konst: v}, nil
	case yaml.MappingNode:
		if len(n.Content) != 2 {
			return value{}, shape(n, "a value mapping has exactly one key")
		}
		return dynamic(n.Content[0], n.Content[1])
	}
	return value{}, shape(n, "unsupported value")
}

func dynamic(key, arg *yaml.Node) (value, error) {
	switch key.Value {
	case "field":
		if arg.Kind != yaml.ScalarNode {
			return value{}, shape(arg, "field takes a path")
		}
		path := arg.Value
		return value{eval: func(datum any, _ int) (any, error) {
			return prim.Lookup(datum, path)
		}}, nil

	case "index":
		var on bool
		if err := arg.Decode(&on); err != nil || !on {
			return value{}, shape(arg, "index takes true")
		}
		return value{eval: func(_ any, i int) (any, error) { return i, nil }}, nil

	case "template":
		if arg.Kind != yaml.ScalarNode {
			return value{}, shape(arg, "template takes a string")
		}
		tpl, err := template.New("value").Funcs(funcs).Option("missingkey=zero").Parse(arg.Value)
		if err != nil {
			return value{}, shape(arg, "%v", err)
		}
		return value{eval: func(datum any, i int) (any, error) {
			var b strings.Builder
			if err := tpl.Execute(&b, map[string]any{"d": datum, "i": i}); err != nil {
				return nil, err
			}
			return b.String(), nil
		}}, nil
	}
	return value{}, shape(key, "unknown value kind %q", key.Value)
}

var errDivZero = errors.New("division by zero")

var funcs = template.FuncMap{
	"add": arith(func(a, b float64) (float64, error) { return a + b, nil }),
	"sub": arith(func(a, b float64) (float64, error) { return a - b, nil }),
	"mul": arith(func(a, b float64) (float64, error) { return a * b, nil }),
	"div": arith(func(a, b float64) (float64, error) {
		if b == 0 {
			return 0, errDivZero
		}
		return a / b, nil
	}),
}

// arith lifts op to template operands. Results print as plain decimals,
// never in exponent form.
func arith(op func(a, b float64) (float64, error)) func(a, b any) (string, error) {
	return func(a, b any) (string, error) {
		x, err := prim.ToFloat(a)
		if err != nil {
			return "", err
		}
		y, err := prim.ToFloat(b)
		if err != nil {
			return "", err
		}
		v, err := op(x, y)
		if err != nil {
			return "", err
		}
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	}
}
