package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Voice catalog metrics
	voiceListRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tts_gateway_voice_list_requests_total",
		Help: "Total number of voice list requests",
	}, []string{"status"})

	voiceListLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "tts_gateway_voice_list_latency_seconds",
		Help:    "Voice list fetch latency in seconds",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.0, 5.0},
	})

	// Synthesis metrics
	synthesisRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tts_gateway_synthesis_requests_total",
		Help: "Total number of synthesis requests",
	}, []string{"status", "surface"}) // surface: "http" or "mcp"

	synthesisLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "tts_gateway_synthesis_latency_seconds",
		Help:    "Synthesis latency in seconds, first byte to last",
		Buckets: []float64{0.1, 0.25, 0.5, 1.0, 2.0, 5.0, 10.0, 30.0},
	})

	audioBytesOut = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tts_gateway_audio_bytes_total",
		Help: "Total synthesized audio bytes streamed to clients",
	})

	rejectedRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tts_gateway_rejected_requests_total",
		Help: "Requests rejected by validation before any external call",
	}, []string{"reason"})
)

// RecordVoiceList records one catalog fetch and its outcome.
func RecordVoiceList(start time.Time, err error) {
	voiceListLatency.Observe(time.Since(start).Seconds())
	status := "success"
	if err != nil {
		status = "error"
	}
	voiceListRequests.WithLabelValues(status).Inc()
}

// RecordSynthesis records one synthesis turn and its outcome.
func RecordSynthesis(surface string, start time.Time, bytesOut int64, err error) {
	synthesisLatency.Observe(time.Since(start).Seconds())
	status := "success"
	if err != nil {
		status = "error"
	}
	synthesisRequests.WithLabelValues(status, surface).Inc()
	if bytesOut > 0 {
		audioBytesOut.Add(float64(bytesOut))
	}
}

// RecordRejection records a request stopped by validation.
func RecordRejection(reason string) {
	rejectedRequests.WithLabelValues(reason).Inc()
}
