package portal

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/thinkai/waitlist/internal/logging"
	"github.com/thinkai/waitlist/internal/session"
)

func (p *Portal) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logging.Requests(p.log))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/heartbeat"))

	r.Handle(StaticPrefix+"/*", http.StripPrefix(StaticPrefix+"/", http.FileServer(http.FS(p.static))))
	if p.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(p.gatherer, promhttp.HandlerOpts{}))
	}

	// Visitor routes
	r.Group(func(r chi.Router) {
		r.Use(p.registry.Middleware(session.CookieOptions{
			Domain: p.config.Domains.Portal,
			Secure: p.config.Domains.Secure,
		}))

		r.Get("/", p.handleHome)
		r.Post("/join", p.handleJoin)
		r.Post("/lock", p.handleLock)
		r.Post("/video", p.handleVideo)

		if p.api != nil {
			r.Mount("/api", p.api)
		}
	})

	r.NotFound(p.handleNotFound)

	return r
}
