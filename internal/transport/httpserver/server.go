package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
)

// NewRouter assembles the public surface: the open auth endpoints, the
// bearer-guarded API, the websocket upgrade and /metrics.
func NewRouter(h *Handlers, gatherer prometheus.Gatherer) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)

	r.Post("/api/register", h.Register)
	r.Post("/api/token", h.Token)

	// token is checked inside the websocket handshake
	r.Get("/ws", h.WS)

	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	r.Group(func(r chi.Router) {
		r.Use(h.AuthMiddleware)
		r.Post("/api/pubkey", h.SavePubKey)
		r.Get("/api/public_keys", h.PublicKeys)
		r.Get("/api/users", h.Users)
		r.Get("/api/messages/{with_user}", h.GetConversation)
		r.Post("/api/messages", h.SendMessage)
	})

	// the browser client is served from anywhere
	return cors.AllowAll().Handler(r)
}
