// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package program compiles YAML program files into selections.
//
// A program file is a mapping with an optional size and a step list:
//
//	width: 300
//	height: 100
//	program:
//	  - static: svg
//	  - bind: {select: rect, data: .}
//	  - enter
//	  - append: rect
//	  - attr:
//	      height: {template: "{{mul .d 10}}"}
//	      x: {template: "{{mul .i 20}}"}
//
// A step list compiles to a pipeline. Each step is a bare name (enter, exit,
// update, remove, transition) or a single-key mapping. Values are constants,
// {field: path} lookups into the datum, {template: text} templates over .d
// and .i, or {index: true}.
package program

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"code.hybscloud.com/dsel"
	"code.hybscloud.com/dsel/render"
)

var (
	// ErrUnknownStep is returned for a step name with no meaning.
	ErrUnknownStep = errors.New("program: unknown step")
	// ErrShape is returned when a step or value has the wrong YAML shape.
	ErrShape = errors.New("program: malformed program")
)

// File is a compiled program file.
type File struct {
	Width     int
	Height    int
	Selection dsel.Selection
	// Steps is the number of top-level steps.
	Steps int
}

// Model returns the render model of f with datum bound.
func (f *File) Model(datum any) render.Model {
	return render.Model{Width: f.Width, Height: f.Height, Selection: f.Selection, Datum: datum}
}

type fileNode struct {
	Width   int       `yaml:"width"`
	Height  int       `yaml:"height"`
	Program yaml.Node `yaml:"program"`
}

// Parse compiles a program file. Static steps draw their tags from sym.
func Parse(data []byte, sym *dsel.Gensym) (*File, error) {
	var fn fileNode
	if err := yaml.Unmarshal(data, &fn); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrShape, err)
	}
	f := &File{Width: fn.Width, Height: fn.Height, Selection: dsel.Update}
	if fn.Program.IsZero() {
		return f, nil
	}
	c := &compiler{sym: sym}
	s, err := c.steps(&fn.Program)
	if err != nil {
		return nil, err
	}
	f.Selection = s
	f.Steps = len(fn.Program.Content)
	return f, nil
}

// Load reads and compiles the program file at path.
func Load(path string, sym *dsel.Gensym) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	f, err := Parse(data, sym)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// ParseData decodes a YAML or JSON datum. Empty input is a nil datum.
func ParseData(data []byte) (any, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("program: data: %w", err)
	}
	return v, nil
}

// LoadData reads a YAML or JSON datum from path.
func LoadData(path string) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	v, err := ParseData(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return v, nil
}
