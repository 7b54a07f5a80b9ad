package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func NewRouter(s *Server) http.Handler {
	r := chi.NewRouter()

	r.Use(correlationID("X-Request-ID", requestIDKey))
	r.Use(correlationID("X-Trace-Id", traceIDKey))
	r.Use(recoverer(s.log))
	r.Use(accessLog(s.log))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Get("/readyz", s.Ready)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}

	r.Route("/cryptorate", func(r chi.Router) {
		r.Get("/", s.GetOverview)
		// Static segments win over {coinID} in chi regardless of order.
		r.Get("/settings", s.GetSettings)
		r.Get("/widgets", s.GetWidgets)
		r.Get("/{coinID}", s.GetCoin)
	})
	return r
}
