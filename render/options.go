// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package render

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"code.hybscloud.com/dsel/internal/logging"
)

type config struct {
	parent string
	log    *slog.Logger
	reg    prometheus.Registerer
}

func newConfig(opts []Option) config {
	c := config{parent: "body", log: logging.NewNop()}
	for _, o := range opts {
		o(&c)
	}
	return c
}

// Option configures a Bridge or a Runtime.
type Option func(*config)

// WithParent sets the selector of the element containers are created under.
// The default is "body".
func WithParent(selector string) Option {
	return func(c *config) { c.parent = selector }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.log = l
		}
	}
}

// WithRegisterer registers the render metrics with r. Without it metrics are
// collected but not exported.
func WithRegisterer(r prometheus.Registerer) Option {
	return func(c *config) { c.reg = r }
}
