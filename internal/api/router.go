package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/edgespeak/tts-gateway/internal/config"
	"github.com/edgespeak/tts-gateway/internal/mcptool"
	"github.com/edgespeak/tts-gateway/internal/observability"
	"github.com/edgespeak/tts-gateway/internal/speech"
)

// Router assembles the HTTP surface: metadata, health, voices, synthesis,
// and the MCP transport, all backed by the same speech service.
type Router struct {
	mux   *chi.Mux
	svc   *speech.Service
	store *config.Store
}

// NewRouter creates the router over the shared speech service.
func NewRouter(svc *speech.Service, store *config.Store) *Router {
	return &Router{
		mux:   chi.NewRouter(),
		svc:   svc,
		store: store,
	}
}

// Setup wires middleware and routes and returns the root handler.
func (rt *Router) Setup() http.Handler {
	r := rt.mux

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(requestLogging)
	r.Use(chimiddleware.Recoverer)

	h := newHandlers(rt.svc)
	r.Get("/", h.Root)
	r.Get("/health", observability.HealthCheckHandler())
	r.Get("/ready", observability.ReadinessHandler(map[string]observability.HealthCheckFunc{
		"edge_voice_catalog": func(ctx context.Context) (bool, error) {
			_, err := rt.svc.ListVoices(ctx, "")
			return err == nil, err
		},
	}))
	r.Get("/voices", h.Voices)
	r.Post("/speak", h.Speak)

	r.Handle("/mcp", mcptool.HTTPHandler(rt.svc))

	if rt.store.Current().MetricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	return r
}

// requestLogging emits one structured line per request, carrying the chi
// request id as the correlation id.
func requestLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		logger := observability.WithCorrelationID(chimiddleware.GetReqID(r.Context()))
		logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration", time.Since(start)).
			Msg("Request handled")
	})
}
