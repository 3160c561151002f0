package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	apiRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "issview_api_requests_total",
			Help: "Total number of upstream API requests by endpoint and outcome.",
		},
		[]string{"endpoint", "outcome"},
	)

	apiDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "issview_api_request_duration_seconds",
			Help:    "Upstream API request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	issPosition = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "issview_iss_position",
			Help: "Last observed ISS position as reported by the API.",
		},
		[]string{"axis"},
	)

	publishedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "issview_published_fixes_total",
			Help: "Total number of ISS position fixes handed to a publisher.",
		},
		[]string{"backend", "outcome"},
	)

	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "issview_http_requests_total",
			Help: "Total number of viewer HTTP requests.",
		},
		[]string{"path", "method", "code"},
	)

	httpDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "issview_http_duration_seconds",
			Help:    "Viewer HTTP request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method"},
	)
)

func init() {
	prometheus.MustRegister(apiRequestsTotal)
	prometheus.MustRegister(apiDurationSeconds)
	prometheus.MustRegister(issPosition)
	prometheus.MustRegister(publishedTotal)
	prometheus.MustRegister(httpRequestsTotal)
	prometheus.MustRegister(httpDurationSeconds)
}

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordAPIRequest records one upstream call. outcome is "ok" or a failure
// kind such as "network".
func RecordAPIRequest(endpoint, outcome string, d time.Duration) {
	apiRequestsTotal.WithLabelValues(endpoint, outcome).Inc()
	apiDurationSeconds.WithLabelValues(endpoint).Observe(d.Seconds())
}

// SetISSPosition stores the last reported longitude and latitude.
func SetISSPosition(lon, lat float64) {
	issPosition.WithLabelValues("longitude").Set(lon)
	issPosition.WithLabelValues("latitude").Set(lat)
}

// RecordPublish counts a publish attempt for backend.
func RecordPublish(backend string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	publishedTotal.WithLabelValues(backend, outcome).Inc()
}

// knownRoutes are the viewer paths that keep their own label.
var knownRoutes = map[string]bool{
	"/":                    true,
	"/healthz":             true,
	"/readyz":              true,
	"/metrics":             true,
	"/scene.svg":           true,
	"/app.js":              true,
	"/styles.css":          true,
	"/api/v1/scene":        true,
	"/api/v1/iss.geojson":  true,
	"/api/v1/viewer/close": true,
}

// normalizeRoute collapses unknown paths to "other" so scanners cannot blow
// up label cardinality.
func normalizeRoute(path string) string {
	if knownRoutes[path] {
		return path
	}
	return "other"
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Middleware records request count and duration for each request.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rw, r)

		route := normalizeRoute(r.URL.Path)
		httpRequestsTotal.WithLabelValues(route, r.Method, strconv.Itoa(rw.statusCode)).Inc()
		httpDurationSeconds.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
	})
}
