// Package api exposes the landing page operations as JSON for scripted and
// JavaScript clients. It shares the visitor session with the HTML portal.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/thinkai/waitlist/internal/config"
	"github.com/thinkai/waitlist/internal/logging"
)

type Api struct {
	Config *config.Config
	log    *zap.Logger
}

func NewApi(cfg *config.Config, log *zap.Logger) *Api {
	return &Api{
		Config: cfg,
		log:    logging.Component(log, "api"),
	}
}

// Routes returns the API router. It expects the visitor session middleware
// to run in front of it.
func (api *Api) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   api.Config.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(api.RequireVisitor)

	r.Get("/state", api.GetState)
	r.Put("/email", api.PutEmail)
	r.Post("/submit", api.Submit)
	r.Get("/submission", api.GetSubmission)
	r.Post("/lock", api.ToggleLock)
	r.Post("/video", api.ToggleVideo)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]interface{}{"error": msg})
}
