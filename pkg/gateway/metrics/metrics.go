package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the gateway.
type Metrics struct {
	registry *prometheus.Registry

	// Request metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Engine collaborator metrics
	EngineLatency *prometheus.HistogramVec
	EngineErrors  *prometheus.CounterVec

	// Streaming metrics
	StreamEventsTotal *prometheus.CounterVec
	StreamsActive     prometheus.Gauge

	// Audio assembly metrics
	FallbackAudioTotal prometheus.Counter
}

// New creates a Metrics instance with all collectors registered on a
// private registry.
func New(namespace string) *Metrics {
	if namespace == "" {
		namespace = "lingua"
	}

	registry := prometheus.NewRegistry()

	requestsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "Total number of API requests",
		},
		[]string{"endpoint", "status"},
	)

	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "request_duration_seconds",
			Help:      "Request duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"endpoint"},
	)

	engineLatency := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "engine_latency_seconds",
			Help:      "Latency of speech and language engine calls",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"engine"},
	)

	engineErrors := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "engine_errors_total",
			Help:      "Total engine call failures",
		},
		[]string{"engine"},
	)

	streamEventsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stream_events_total",
			Help:      "Total streaming events emitted",
		},
		[]string{"event"},
	)

	streamsActive := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "streams_active",
			Help:      "Number of currently open SSE and WebSocket streams",
		},
	)

	fallbackAudioTotal := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fallback_audio_total",
			Help:      "Responses served with placeholder audio instead of synthesized speech",
		},
	)

	registry.MustRegister(
		requestsTotal,
		requestDuration,
		engineLatency,
		engineErrors,
		streamEventsTotal,
		streamsActive,
		fallbackAudioTotal,
	)

	return &Metrics{
		registry:           registry,
		RequestsTotal:      requestsTotal,
		RequestDuration:    requestDuration,
		EngineLatency:      engineLatency,
		EngineErrors:       engineErrors,
		StreamEventsTotal:  streamEventsTotal,
		StreamsActive:      streamsActive,
		FallbackAudioTotal: fallbackAudioTotal,
	}
}

// Handler returns an HTTP handler for the metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordRequest records a completed request.
func (m *Metrics) RecordRequest(endpoint, status string, duration time.Duration) {
	m.RequestsTotal.WithLabelValues(endpoint, status).Inc()
	m.RequestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

// RecordEngine records one engine collaborator call.
func (m *Metrics) RecordEngine(engine string, duration time.Duration, err error) {
	m.EngineLatency.WithLabelValues(engine).Observe(duration.Seconds())
	if err != nil {
		m.EngineErrors.WithLabelValues(engine).Inc()
	}
}

// RecordStreamEvent records an emitted stream event by type.
func (m *Metrics) RecordStreamEvent(event string) {
	m.StreamEventsTotal.WithLabelValues(event).Inc()
}

// StreamOpened and StreamClosed track active stream count.
func (m *Metrics) StreamOpened() { m.StreamsActive.Inc() }

func (m *Metrics) StreamClosed() { m.StreamsActive.Dec() }

// RecordFallbackAudio counts a placeholder-audio substitution.
func (m *Metrics) RecordFallbackAudio() {
	m.FallbackAudioTotal.Inc()
}
