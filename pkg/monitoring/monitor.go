package monitoring

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint"},
	)

	ExamParses = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "exam_parses_total",
			Help: "Total number of exam document parses (cache misses)",
		},
	)

	ScoreRequests = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "score_requests_total",
			Help: "Total number of scoring requests",
		},
	)

	SessionTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "session_transitions_total",
			Help: "Total number of applied exam session transitions",
		},
		[]string{"transition"},
	)

	AutoSubmits = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "auto_submits_total",
			Help: "Total number of deadline-triggered submissions",
		},
	)
)

func Init() {
	prometheus.MustRegister(RequestCounter)
	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(ExamParses)
	prometheus.MustRegister(ScoreRequests)
	prometheus.MustRegister(SessionTransitions)
	prometheus.MustRegister(AutoSubmits)
}

// Middleware records per-request counters and latency keyed by the chi route
// pattern, so path parameters do not explode label cardinality.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		endpoint := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			endpoint = rctx.RoutePattern()
		}

		RequestCounter.WithLabelValues(
			r.Method,
			endpoint,
			strconv.Itoa(ww.Status()),
		).Inc()

		RequestDuration.WithLabelValues(
			r.Method,
			endpoint,
		).Observe(time.Since(start).Seconds())
	})
}

func Handler() http.Handler {
	return promhttp.Handler()
}
