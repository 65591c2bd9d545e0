// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cli

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"code.hybscloud.com/dsel"
	"code.hybscloud.com/dsel/dom"
	"code.hybscloud.com/dsel/render"
)

// RenderOptions holds flags for the render command.
type RenderOptions struct {
	Program string
	Data    string
	Out     string
	Width   int
	Height  int
}

// RenderResult is the JSON payload of a successful render.
type RenderResult struct {
	ID   string `json:"id"`
	HTML string `json:"html"`
	Out  string `json:"out,omitempty"`
}

// NewRenderCommand creates the render command.
func NewRenderCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RenderOptions{}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a program against data into an HTML document",
		Long: `Render compiles the program file, mounts it once into an empty document
with the datum from the data file, and writes the document.

Width and height flags override the size declared by the program file.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(rootOpts, opts, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Program, "program", "p", "", "program file (YAML)")
	cmd.Flags().StringVarP(&opts.Data, "data", "d", "", "data file (YAML or JSON)")
	cmd.Flags().StringVarP(&opts.Out, "out", "o", "", "output file (default stdout)")
	cmd.Flags().IntVar(&opts.Width, "width", 0, "container width in px")
	cmd.Flags().IntVar(&opts.Height, "height", 0, "container height in px")

	return cmd
}

func runRender(rootOpts *RootOptions, opts *RenderOptions, cmd *cobra.Command) error {
	f := rootOpts.formatter(cmd)
	log := rootOpts.Logger()

	file, err := loadProgram(f, opts.Program, dsel.NewGensym())
	if err != nil {
		return err
	}
	datum, err := loadData(f, opts.Data)
	if err != nil {
		return err
	}
	m := file.Model(datum)
	if cmd.Flags().Changed("width") {
		m.Width = opts.Width
	}
	if cmd.Flags().Changed("height") {
		m.Height = opts.Height
	}

	doc := dom.New()
	b, err := render.NewBridge(doc, render.WithLogger(log))
	if err != nil {
		return f.Fail(ExitFailure, ErrCodeGeneric, err)
	}
	node, err := b.Render(m)
	if err != nil {
		return f.Fail(ExitFailure, ErrCodeRender, err)
	}

	var out strings.Builder
	if err := doc.Render(&out); err != nil {
		return f.Fail(ExitFailure, ErrCodeRender, err)
	}
	markup := out.String()

	if opts.Out != "" {
		if err := os.WriteFile(opts.Out, []byte(markup+"\n"), 0o644); err != nil {
			return f.Fail(ExitCommandError, ErrCodeNotFound, err)
		}
		log.Info("rendered", "program", opts.Program, "out", opts.Out)
		if f.Format == "json" {
			return f.Success(RenderResult{ID: render.ID(node), HTML: markup, Out: opts.Out})
		}
		return nil
	}
	if f.Format == "json" {
		return f.Success(RenderResult{ID: render.ID(node), HTML: markup})
	}
	return f.Success(markup)
}
