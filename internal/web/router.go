package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/pixil98/go-adventure/internal/metrics"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter wires the transition table onto a chi mux.
func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(metrics.Middleware(routePattern))

	r.Get("/", h.Landing)
	r.Post("/player", h.CreatePlayer)

	r.Group(func(r chi.Router) {
		r.Use(h.RequirePlayer)
		r.Get("/rooms/{roomID}", h.ViewRoom)
		r.Get("/rooms/{roomID}/{direction}", h.Move)
		r.Post("/items/{itemID}/{action}", h.ItemAction)
	})

	r.Handle("/metrics", promhttp.Handler())
	r.NotFound(h.Fallback)
	r.MethodNotAllowed(h.Fallback)

	return r
}

func routePattern(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if pat := rc.RoutePattern(); pat != "" {
			return pat
		}
	}
	return "unmatched"
}
