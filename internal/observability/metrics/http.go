package metrics

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type HTTPServerMetrics struct {
	registry *prometheus.Registry

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestInFlight prometheus.Gauge

	extractionsTotal       *prometheus.CounterVec
	extractionDuration     *prometheus.HistogramVec
	providerAttemptsTotal  *prometheus.CounterVec
	providerFallbacksTotal *prometheus.CounterVec
	resumeVersionsTotal    *prometheus.CounterVec
	completionPercentage   *prometheus.HistogramVec
}

func NewHTTPServerMetrics(service string) *HTTPServerMetrics {
	registry := prometheus.NewRegistry()

	requestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "crb",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests processed.",
		},
		[]string{"service", "method", "path", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "crb",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "method", "path"},
	)
	requestInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "crb",
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Number of in-flight HTTP requests.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	extractionsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "crb",
			Subsystem: "extract",
			Name:      "documents_total",
			Help:      "Total resume documents extracted by media type and status.",
		},
		[]string{"service", "media_type", "status"},
	)
	extractionDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "crb",
			Subsystem: "extract",
			Name:      "duration_seconds",
			Help:      "End-to-end resume extraction duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "media_type"},
	)
	providerAttemptsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "crb",
			Subsystem: "provider",
			Name:      "attempts_total",
			Help:      "Total AI provider attempts by provider and outcome.",
		},
		[]string{"service", "provider", "outcome"},
	)
	providerFallbacksTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "crb",
			Subsystem: "provider",
			Name:      "fallbacks_total",
			Help:      "Total requests served by a fallback provider.",
		},
		[]string{"service", "preferred", "served_by"},
	)
	resumeVersionsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "crb",
			Subsystem: "resume",
			Name:      "versions_total",
			Help:      "Total resume versions persisted by origin.",
		},
		[]string{"service", "origin"},
	)
	completionPercentage := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "crb",
			Subsystem: "resume",
			Name:      "completion_percentage",
			Help:      "Distribution of completion percentage across persisted resumes.",
			Buckets:   []float64{0, 10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
		},
		[]string{"service", "origin"},
	)

	registry.MustRegister(
		requestTotal,
		requestDuration,
		requestInFlight,
		extractionsTotal,
		extractionDuration,
		providerAttemptsTotal,
		providerFallbacksTotal,
		resumeVersionsTotal,
		completionPercentage,
	)

	return &HTTPServerMetrics{
		registry:               registry,
		requestTotal:           requestTotal,
		requestDuration:        requestDuration,
		requestInFlight:        requestInFlight,
		extractionsTotal:       extractionsTotal,
		extractionDuration:     extractionDuration,
		providerAttemptsTotal:  providerAttemptsTotal,
		providerFallbacksTotal: providerFallbacksTotal,
		resumeVersionsTotal:    resumeVersionsTotal,
		completionPercentage:   completionPercentage,
	}
}

func (m *HTTPServerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *HTTPServerMetrics) Middleware(service string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		path := normalizePath(r.URL.Path)
		recorder := &statusRecorder{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		m.requestInFlight.Inc()
		defer m.requestInFlight.Dec()

		next.ServeHTTP(recorder, r)

		m.requestTotal.WithLabelValues(
			service,
			r.Method,
			path,
			strconv.Itoa(recorder.statusCode),
		).Inc()
		m.requestDuration.WithLabelValues(service, r.Method, path).Observe(time.Since(start).Seconds())
	})
}

func normalizePath(path string) string {
	switch {
	case strings.HasPrefix(path, "/v1/resumes/") && path != "/v1/resumes/extract":
		return "/v1/resumes/{resume_id}"
	default:
		return path
	}
}

func (m *HTTPServerMetrics) RecordExtraction(service, mediaType, status string, duration time.Duration) {
	if mediaType == "" {
		mediaType = "unknown"
	}
	m.extractionsTotal.WithLabelValues(service, mediaType, status).Inc()
	m.extractionDuration.WithLabelValues(service, mediaType).Observe(duration.Seconds())
}

func (m *HTTPServerMetrics) RecordProviderAttempt(service, provider, outcome string) {
	if provider == "" {
		provider = "unknown"
	}
	m.providerAttemptsTotal.WithLabelValues(service, provider, outcome).Inc()
}

func (m *HTTPServerMetrics) RecordProviderFallback(service, preferred, servedBy string) {
	m.providerFallbacksTotal.WithLabelValues(service, preferred, servedBy).Inc()
}

func (m *HTTPServerMetrics) RecordResumeVersion(service, origin string, completion int) {
	if origin == "" {
		origin = "unknown"
	}
	m.resumeVersionsTotal.WithLabelValues(service, origin).Inc()
	m.completionPercentage.WithLabelValues(service, origin).Observe(float64(completion))
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusRecorder) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *statusRecorder) Flush() {
	flusher, ok := w.ResponseWriter.(http.Flusher)
	if ok {
		flusher.Flush()
	}
}

func (w *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not implement http.Hijacker")
	}
	return hijacker.Hijack()
}

func (w *statusRecorder) Push(target string, opts *http.PushOptions) error {
	pusher, ok := w.ResponseWriter.(http.Pusher)
	if !ok {
		return http.ErrNotSupported
	}
	return pusher.Push(target, opts)
}
