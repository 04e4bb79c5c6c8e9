package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "media_gateway",
		Name:      "requests_total",
		Help:      "Media requests by access class and response status.",
	}, []string{"class", "status"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "media_gateway",
		Name:      "request_duration_seconds",
		Help:      "Media request duration by access class.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"class"})

	bytesStreamed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "media_gateway",
		Name:      "bytes_streamed_total",
		Help:      "Response body bytes streamed by access class.",
	}, []string{"class"})
)

// statusRecorder captures the status code and body size written by the
// downstream handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int64
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.status = code
	rec.ResponseWriter.WriteHeader(code)
}

func (rec *statusRecorder) Write(b []byte) (int, error) {
	n, err := rec.ResponseWriter.Write(b)
	rec.bytes += int64(n)
	return n, err
}

// Metrics records per-request Prometheus metrics for the media route
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		class, _ := GetAccessClassFromContext(r.Context())
		label := string(class)
		if label == "" {
			label = "unknown"
		}

		requestsTotal.WithLabelValues(label, strconv.Itoa(rec.status)).Inc()
		requestDuration.WithLabelValues(label).Observe(time.Since(start).Seconds())
		bytesStreamed.WithLabelValues(label).Add(float64(rec.bytes))
	})
}
