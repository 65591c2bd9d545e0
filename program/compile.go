// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package program

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"code.hybscloud.com/dsel"
	"code.hybscloud.com/dsel/prim"
)

type compiler struct {
	sym *dsel.Gensym
}

// bare steps take no argument.
var bare = map[string]dsel.Selection{
	"enter":      dsel.Enter,
	"exit":       dsel.Exit,
	"update":     dsel.Update,
	"remove":     dsel.Remove,
	"transition": dsel.Transition,
}

func shape(n *yaml.Node, format string, args ...any) error {
	return fmt.Errorf("%w: line %d: %s", ErrShape, n.Line, fmt.Sprintf(format, args...))
}

// steps compiles a step list into a pipeline.
func (c *compiler) steps(n *yaml.Node) (dsel.Selection, error) {
	if n.Kind != yaml.SequenceNode {
		return nil, shape(n, "want a step list")
	}
	out := make([]dsel.Selection, 0, len(n.Content))
	for _, item := range n.Content {
		s, err := c.step(item)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return dsel.Pipeline(out...), nil
}

func (c *compiler) step(n *yaml.Node) (dsel.Selection, error) {
	switch n.Kind {
	case yaml.ScalarNode:
		if s, ok := bare[n.Value]; ok {
			return s, nil
		}
		return nil, fmt.Errorf("%w: line %d: %q", ErrUnknownStep, n.Line, n.Value)
	case yaml.MappingNode:
		if len(n.Content) != 2 {
			return nil, shape(n, "a step has exactly one key")
		}
		return c.keyed(n.Content[0], n.Content[1])
	}
	return nil, shape(n, "want a step name or a single-key mapping")
}

func (c *compiler) keyed(key, arg *yaml.Node) (dsel.Selection, error) {
	switch key.Value {
	case "select", "selectAll", "append", "static":
		name, err := scalar(arg)
		if err != nil {
			return nil, err
		}
		switch key.Value {
		case "select":
			return dsel.Select(name), nil
		case "selectAll":
			return dsel.SelectAll(name), nil
		case "append":
			return dsel.Append(name), nil
		}
		return dsel.Static(c.sym, name), nil

	case "attr":
		return named(arg, prim.ToString, dsel.Attr)
	case "style":
		return named(arg, prim.ToString, dsel.Style)
	case "classed":
		return named(arg, prim.ToBool, dsel.Classed)
	case "property":
		return named(arg, anyValue, dsel.Property)

	case "text":
		v, err := valfn(arg, prim.ToString)
		return dsel.Text(v), err
	case "html":
		v, err := valfn(arg, prim.ToString)
		return dsel.HTML(v), err
	case "delay":
		v, err := valfn(arg, prim.ToInt)
		return dsel.Delay(v), err
	case "duration":
		v, err := valfn(arg, prim.ToInt)
		return dsel.Duration(v), err

	case "bind":
		return c.bind(arg)
	case "sequence":
		return c.sequence(arg)
	case "embed":
		s, err := c.steps(arg)
		if err != nil {
			return nil, err
		}
		return dsel.Embed(s), nil
	case "widget":
		return c.widget(arg)
	}
	return nil, fmt.Errorf("%w: line %d: %q", ErrUnknownStep, key.Line, key.Value)
}

func scalar(n *yaml.Node) (string, error) {
	if n.Kind != yaml.ScalarNode || n.Value == "" {
		return "", shape(n, "want a non-empty string")
	}
	return n.Value, nil
}

// named compiles a name -> value mapping into one mutation per entry, run
// in document order.
func named[T any](n *yaml.Node, conv func(any) (T, error), mk func(string, dsel.Valfn[T]) dsel.Selection) (dsel.Selection, error) {
	if n.Kind != yaml.MappingNode || len(n.Content) == 0 {
		return nil, shape(n, "want a name to value mapping")
	}
	out := make([]dsel.Selection, 0, len(n.Content)/2)
	for j := 0; j < len(n.Content); j += 2 {
		name, err := scalar(n.Content[j])
		if err != nil {
			return nil, err
		}
		v, err := valfn(n.Content[j+1], conv)
		if err != nil {
			return nil, err
		}
		out = append(out, mk(name, v))
	}
	return dsel.Pipeline(out...), nil
}

// fields returns the values of a mapping by key, rejecting unknown keys.
func fields(n *yaml.Node, allowed ...string) (map[string]*yaml.Node, error) {
	if n.Kind != yaml.MappingNode {
		return nil, shape(n, "want a mapping")
	}
	out := make(map[string]*yaml.Node, len(n.Content)/2)
	for j := 0; j < len(n.Content); j += 2 {
		k := n.Content[j]
		ok := false
		for _, a := range allowed {
			if k.Value == a {
				ok = true
				break
			}
		}
		if !ok {
			return nil, shape(k, "unexpected key %q", k.Value)
		}
		out[k.Value] = n.Content[j+1]
	}
	return out, nil
}

func (c *compiler) bind(n *yaml.Node) (dsel.Selection, error) {
	f, err := fields(n, "select", "program", "data")
	if err != nil {
		return nil, err
	}
	var inner dsel.Selection
	switch sel, prog := f["select"], f["program"]; {
	case sel != nil && prog != nil:
		return nil, shape(n, "bind takes select or program, not both")
	case sel != nil:
		name, err := scalar(sel)
		if err != nil {
			return nil, err
		}
		inner = dsel.SelectAll(name)
	case prog != nil:
		if inner, err = c.steps(prog); err != nil {
			return nil, err
		}
	default:
		return nil, shape(n, "bind needs select or program")
	}
	path := "."
	if d := f["data"]; d != nil {
		if d.Kind != yaml.ScalarNode {
			return nil, shape(d, "data is a path")
		}
		path = d.Value
	}
	return dsel.Bind(inner, func(datum any) []any {
		v, err := prim.Lookup(datum, path)
		if err != nil {
			return nil
		}
		l, err := prim.ToList(v)
		if err != nil {
			return nil
		}
		return l
	}), nil
}

func (c *compiler) sequence(n *yaml.Node) (dsel.Selection, error) {
	if n.Kind != yaml.SequenceNode {
		return nil, shape(n, "sequence takes a list of step lists")
	}
	branches := make([]dsel.Selection, 0, len(n.Content))
	for _, b := range n.Content {
		s, err := c.steps(b)
		if err != nil {
			return nil, err
		}
		branches = append(branches, s)
	}
	return dsel.Sequences(branches...), nil
}

func (c *compiler) widget(n *yaml.Node) (dsel.Selection, error) {
	f, err := fields(n, "main", "with")
	if err != nil {
		return nil, err
	}
	if f["main"] == nil || f["with"] == nil {
		return nil, shape(n, "widget needs main and with")
	}
	main, err := c.steps(f["main"])
	if err != nil {
		return nil, err
	}
	with, err := c.steps(f["with"])
	if err != nil {
		return nil, err
	}
	return dsel.ChainWidget(main, with), nil
}
