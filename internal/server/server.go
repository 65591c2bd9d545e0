// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package server serves a render runtime over HTTP. The document is served
// at /, instance markup is pushed to browsers over /ws, and data is posted
// to /instances.
package server

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"code.hybscloud.com/dsel"
	"code.hybscloud.com/dsel/internal/logging"
	"code.hybscloud.com/dsel/program"
	"code.hybscloud.com/dsel/render"
)

// maxBody bounds posted datum documents.
const maxBody = 1 << 20

// Server routes HTTP requests to a runtime.
type Server struct {
	rt      *render.Runtime
	file    *program.File
	log     *slog.Logger
	gather  prometheus.Gatherer
	handler http.Handler
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger for requests and websocket clients.
func WithLogger(log *slog.Logger) Option {
	return func(s *Server) { s.log = log }
}

// WithGatherer serves metrics from g at /metrics.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) { s.gather = g }
}

// WithProgram enables POST /instances, mounting f for each posted datum.
func WithProgram(f *program.File) Option {
	return func(s *Server) { s.file = f }
}

// New returns a Server over rt.
func New(rt *render.Runtime, opts ...Option) *Server {
	s := &Server{rt: rt, log: logging.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	s.handler = s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/", s.serveIndex)
	r.Get("/ws", s.serveWebsocket)
	r.Route("/instances", func(r chi.Router) {
		r.Get("/", s.listInstances)
		r.Post("/", s.mountInstance)
		r.Delete("/{id}", s.unmountInstance)
		r.Post("/{id}/datum", s.setDatum)
	})
	if s.gather != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.gather, promhttp.HandlerOpts{}))
	}
	return r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"elapsed", time.Since(start))
	})
}

// serveIndex serves the document with the update client appended to body.
func (s *Server) serveIndex(w http.ResponseWriter, _ *http.Request) {
	doc, err := s.rt.HTML()
	if err != nil {
		s.fail(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if i := strings.LastIndex(doc, "</body>"); i >= 0 {
		doc = doc[:i] + clientScript + doc[i:]
	}
	_, _ = io.WriteString(w, doc)
}

func (s *Server) listInstances(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.rt.Instances())
}

func (s *Server) mountInstance(w http.ResponseWriter, r *http.Request) {
	if s.file == nil {
		s.fail(w, http.StatusNotFound, errors.New("no program to mount"))
		return
	}
	datum, ok := s.readDatum(w, r)
	if !ok {
		return
	}
	id, err := s.rt.Mount(s.file.Model(datum))
	if err != nil {
		s.fail(w, status(err), err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (s *Server) unmountInstance(w http.ResponseWriter, r *http.Request) {
	if err := s.rt.Unmount(chi.URLParam(r, "id")); err != nil {
		s.fail(w, status(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) setDatum(w http.ResponseWriter, r *http.Request) {
	datum, ok := s.readDatum(w, r)
	if !ok {
		return
	}
	if err := s.rt.SetDatum(chi.URLParam(r, "id"), datum); err != nil {
		s.fail(w, status(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// readDatum decodes a YAML or JSON request body.
func (s *Server) readDatum(w http.ResponseWriter, r *http.Request) (any, bool) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBody))
	if err != nil {
		s.fail(w, http.StatusRequestEntityTooLarge, err)
		return nil, false
	}
	datum, err := program.ParseData(data)
	if err != nil {
		s.fail(w, http.StatusBadRequest, err)
		return nil, false
	}
	return datum, true
}

func status(err error) int {
	switch {
	case errors.Is(err, render.ErrUnknownInstance):
		return http.StatusNotFound
	case errors.Is(err, dsel.ErrBusy):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func (s *Server) fail(w http.ResponseWriter, code int, err error) {
	if code >= http.StatusInternalServerError {
		s.log.Error("request failed", "status", code, "err", err)
	}
	http.Error(w, fmt.Sprintf("%s: %v", http.StatusText(code), err), code)
}
