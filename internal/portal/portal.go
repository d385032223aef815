// Package portal serves the landing page over HTTP.
package portal

import (
	"embed"
	"io/fs"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	g "maragu.dev/gomponents"

	"github.com/thinkai/waitlist/internal/assets"
	"github.com/thinkai/waitlist/internal/config"
	"github.com/thinkai/waitlist/internal/logging"
	"github.com/thinkai/waitlist/internal/session"
)

// StaticPrefix is where the embedded static files are served.
const StaticPrefix = "/static"

//go:embed static
var staticFiles embed.FS

type Options struct {
	Config   *config.Config
	Registry *session.Registry
	Assets   assets.Resolver
	Logger   *zap.Logger
	// Gatherer backs /metrics. Nil disables the endpoint.
	Gatherer prometheus.Gatherer
	// API is mounted at /api behind the visitor session when set.
	API http.Handler
}

type Portal struct {
	config   *config.Config
	registry *session.Registry
	assets   assets.Resolver
	log      *zap.Logger
	gatherer prometheus.Gatherer
	api      http.Handler
	static   fs.FS
}

func New(opts Options) (*Portal, error) {
	static, err := fs.Sub(staticFiles, "static")
	if err != nil {
		return nil, err
	}
	if opts.Assets == nil {
		opts.Assets = assets.Static{Prefix: StaticPrefix}
	}
	return &Portal{
		config:   opts.Config,
		registry: opts.Registry,
		assets:   opts.Assets,
		log:      logging.Component(opts.Logger, "portal"),
		gatherer: opts.Gatherer,
		api:      opts.API,
		static:   static,
	}, nil
}

func (p *Portal) render(w http.ResponseWriter, status int, page g.Node) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	// Page state changes per request; never cache it.
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if err := page.Render(w); err != nil {
		p.log.Error("render page", zap.Error(err))
	}
}
