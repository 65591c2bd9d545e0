// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cli

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"code.hybscloud.com/dsel"
	"code.hybscloud.com/dsel/dom"
	"code.hybscloud.com/dsel/internal/server"
	"code.hybscloud.com/dsel/render"
)

// shutdownGrace bounds how long in-flight requests may run after a signal.
const shutdownGrace = 5 * time.Second

// ServeOptions holds flags for the serve command.
type ServeOptions struct {
	Addr    string
	Program string
	Data    string
}

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServeOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a program live over HTTP",
		Long: `Serve mounts the program once with the datum from the data file and
serves the document. Browsers receive every re-render over a websocket;
new data is posted to /instances/{id}/datum.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, rootOpts, opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVarP(&opts.Program, "program", "p", "", "program file (YAML)")
	cmd.Flags().StringVarP(&opts.Data, "data", "d", "", "data file (YAML or JSON)")

	return cmd
}

// newServer compiles the program, mounts it once and returns the handler.
func newServer(rootOpts *RootOptions, opts *ServeOptions, f *OutputFormatter) (*server.Server, string, error) {
	log := rootOpts.Logger()

	file, err := loadProgram(f, opts.Program, dsel.NewGensym())
	if err != nil {
		return nil, "", err
	}
	datum, err := loadData(f, opts.Data)
	if err != nil {
		return nil, "", err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())

	doc := dom.New()
	b, err := render.NewBridge(doc, render.WithLogger(log), render.WithRegisterer(reg))
	if err != nil {
		return nil, "", f.Fail(ExitFailure, ErrCodeGeneric, err)
	}
	rt := render.NewRuntime(doc, b, render.WithLogger(log))
	id, err := rt.Mount(file.Model(datum))
	if err != nil {
		return nil, "", f.Fail(ExitFailure, ErrCodeRender, err)
	}

	srv := server.New(rt,
		server.WithLogger(log),
		server.WithGatherer(reg),
		server.WithProgram(file))
	return srv, id, nil
}

func runServe(ctx context.Context, rootOpts *RootOptions, opts *ServeOptions, cmd *cobra.Command) error {
	f := rootOpts.formatter(cmd)
	log := rootOpts.Logger()

	srv, id, err := newServer(rootOpts, opts, f)
	if err != nil {
		return err
	}

	httpSrv := &http.Server{
		Addr:              opts.Addr,
		Handler:           srv,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		log.Info("serving", "addr", opts.Addr, "program", opts.Program, "instance", id)
		if err := httpSrv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		return f.Fail(ExitCommandError, ErrCodeGeneric, err)
	}
	log.Info("server stopped")
	return nil
}
