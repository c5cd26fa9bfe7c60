package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/jaminalder/tictac/internal/app"
)

// NewServer wires routes and returns an http.Handler.
func NewServer(s *app.Service) http.Handler {
	return NewServerWithLogger(s, log.Logger)
}

// NewServerWithLogger is NewServer with an explicit access logger.
func NewServerWithLogger(s *app.Service, l zerolog.Logger) http.Handler {
	r := chi.NewRouter()
	h := &handlers{svc: s, tpl: loadTemplates()}
	r.Use(middleware.RealIP)
	r.Use(requestID)
	r.Use(accessLog(l))
	r.Use(middleware.Recoverer)

	r.Get("/", h.index)
	r.Get("/ws", h.ws)
	r.Route("/api", func(r chi.Router) {
		r.Get("/ping", h.ping)
		r.Get("/eval/{state}", h.evalJSON)
		r.Get("/moves/{state}", h.movesJSON)
		r.Get("/cache", h.cacheJSON)
	})
	r.Get("/{state}", h.game)
	return r
}
