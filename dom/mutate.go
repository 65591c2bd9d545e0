// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package dom

import (
	"strings"

	"golang.org/x/net/html"

	"code.hybscloud.com/dsel"
)

// apply resolves v for every node and hands it to set. A constant is
// resolved once.
func apply[T any](s *Selection, v dsel.Valfn[T], set func(n *html.Node, val T) error) error {
	if s.pending != nil {
		return ErrEnterOnly
	}
	c, constant := v.Constant()
	for _, g := range s.groups {
		for i, n := range g.nodes {
			if n == nil {
				continue
			}
			val := c
			if !constant {
				val = v.Eval(s.doc.data[n], i)
			}
			if err := set(n, val); err != nil {
				return err
			}
		}
	}
	return nil
}

// Classed adds or removes the space-separated class names on every node.
func (s *Selection) Classed(name string, v dsel.Valfn[bool]) (dsel.Context, error) {
	names := strings.Fields(name)
	err := apply(s, v, func(n *html.Node, on bool) error {
		classes := strings.Fields(getAttr(n, "class"))
		for _, c := range names {
			classes = toggle(classes, c, on)
		}
		if len(classes) == 0 {
			removeAttr(n, "class")
			return nil
		}
		setAttr(n, "class", strings.Join(classes, " "))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Attr sets the named attribute on every node.
func (s *Selection) Attr(name string, v dsel.Valfn[string]) (dsel.Context, error) {
	err := apply(s, v, func(n *html.Node, val string) error {
		setAttr(n, name, val)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Style sets the named property in the style attribute of every node. An
// empty value removes the property.
func (s *Selection) Style(name string, v dsel.Valfn[string]) (dsel.Context, error) {
	err := apply(s, v, func(n *html.Node, val string) error {
		decls := parseStyle(getAttr(n, "style"))
		decls = setDecl(decls, name, val)
		if len(decls) == 0 {
			removeAttr(n, "style")
			return nil
		}
		setAttr(n, "style", formatStyle(decls))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Property stores the named property on every node.
func (s *Selection) Property(name string, v dsel.Valfn[any]) (dsel.Context, error) {
	err := apply(s, v, func(n *html.Node, val any) error {
		props := s.doc.props[n]
		if props == nil {
			props = make(map[string]any)
			s.doc.props[n] = props
		}
		props[name] = val
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

// HTML replaces the children of every node with the parsed markup.
func (s *Selection) HTML(v dsel.Valfn[string]) (dsel.Context, error) {
	err := apply(s, v, func(n *html.Node, markup string) error {
		children, err := html.ParseFragment(strings.NewReader(markup), n)
		if err != nil {
			return err
		}
		removeChildren(n)
		for _, c := range children {
			n.AppendChild(c)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Text replaces the children of every node with one text node.
func (s *Selection) Text(v dsel.Valfn[string]) (dsel.Context, error) {
	err := apply(s, v, func(n *html.Node, text string) error {
		removeChildren(n)
		if text != "" {
			n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

func removeChildren(n *html.Node) {
	for c := n.FirstChild; c != nil; c = n.FirstChild {
		n.RemoveChild(c)
	}
}

func toggle(classes []string, c string, on bool) []string {
	for i, have := range classes {
		if have == c {
			if on {
				return classes
			}
			return append(classes[:i:i], classes[i+1:]...)
		}
	}
	if on {
		return append(classes, c)
	}
	return classes
}

type decl struct{ name, value string }

func parseStyle(style string) []decl {
	var out []decl
	for _, part := range strings.Split(style, ";") {
		name, value, ok := strings.Cut(part, ":")
		if !ok {
			continue
		}
		name, value = strings.TrimSpace(name), strings.TrimSpace(value)
		if name != "" {
			out = append(out, decl{name, value})
		}
	}
	return out
}

func setDecl(decls []decl, name, value string) []decl {
	for i, d := range decls {
		if d.name == name {
			if value == "" {
				return append(decls[:i:i], decls[i+1:]...)
			}
			decls[i].value = value
			return decls
		}
	}
	if value == "" {
		return decls
	}
	return append(decls, decl{name, value})
}

func formatStyle(decls []decl) string {
	var b strings.Builder
	for i, d := range decls {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(d.name)
		b.WriteString(": ")
		b.WriteString(d.value)
		b.WriteByte(';')
	}
	return b.String()
}
