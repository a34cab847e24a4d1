package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/edgespeak/tts-gateway/internal/edge"
	"github.com/edgespeak/tts-gateway/internal/observability"
	"github.com/edgespeak/tts-gateway/internal/speech"
)

type handlers struct {
	svc *speech.Service
}

func newHandlers(svc *speech.Service) *handlers {
	return &handlers{svc: svc}
}

// Root reports service metadata.
func (h *handlers) Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"service": observability.ServiceName,
		"version": observability.Version,
		"endpoints": []string{
			"GET /health", "GET /ready", "GET /voices?locale=", "POST /speak", "POST /mcp",
		},
	})
}

// Voices returns the voice catalog, optionally filtered by locale prefix.
// No match is an empty list with status 200.
func (h *handlers) Voices(w http.ResponseWriter, r *http.Request) {
	locale := r.URL.Query().Get("locale")

	voices, err := h.svc.ListVoices(r.Context(), locale)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"voices": voices,
		"count":  len(voices),
	})
}

// Speak synthesizes the posted request and streams MP3 chunks as they
// arrive from the engine. Validation failures are rejected before any
// audio byte is written; once streaming has begun, a mid-stream engine
// failure can only truncate the response.
func (h *handlers) Speak(w http.ResponseWriter, r *http.Request) {
	var req speech.SynthesisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	start := time.Now()
	chunks, errs, err := h.svc.Synthesize(r.Context(), req)
	if err != nil {
		observability.RecordSynthesis("http", start, 0, err)
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", edge.MimeType)
	w.WriteHeader(http.StatusOK)

	flusher, _ := w.(http.Flusher)
	var bytesOut int64
	for chunk := range chunks {
		n, werr := w.Write(chunk.Data)
		bytesOut += int64(n)
		if werr != nil {
			// Client went away; the context cancellation tears down
			// the engine session.
			break
		}
		if flusher != nil {
			flusher.Flush()
		}
	}

	streamErr := <-errs
	observability.RecordSynthesis("http", start, bytesOut, streamErr)
	if streamErr != nil {
		logger := observability.GetLogger()
		logger.Error().Err(streamErr).Int64("bytes_out", bytesOut).Msg("Synthesis stream failed")
	}
}

// writeError maps the speech error taxonomy onto HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, speech.ErrInvalidArgument):
		status = http.StatusBadRequest
	case errors.Is(err, speech.ErrServiceUnavailable):
		status = http.StatusServiceUnavailable
	case errors.Is(err, speech.ErrSynthesis):
		status = http.StatusBadGateway
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
