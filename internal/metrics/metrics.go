package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	pageRenders = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "washdesk",
			Name:      "page_renders_total",
			Help:      "Page renders by page and phase.",
		},
		[]string{"page", "phase"},
	)

	backendRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "washdesk",
			Name:      "backend_requests_total",
			Help:      "Backend API calls by operation and outcome.",
		},
		[]string{"operation", "outcome"},
	)

	backendDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "washdesk",
			Name:      "backend_request_duration_seconds",
			Help:      "Backend API call latency by operation.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	submissions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "washdesk",
			Name:      "submissions_total",
			Help:      "Form submissions by page and outcome.",
		},
		[]string{"page", "outcome"},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(pageRenders, backendRequests, backendDuration, submissions)
	})
}

// IncPageRender increments the render counter for a page/phase pair.
func IncPageRender(page, phase string) {
	pageRenders.WithLabelValues(page, phase).Inc()
}

// ObserveBackend records one backend call with its outcome and duration.
func ObserveBackend(operation, outcome string, dur time.Duration) {
	backendRequests.WithLabelValues(operation, outcome).Inc()
	backendDuration.WithLabelValues(operation).Observe(dur.Seconds())
}

// IncSubmission increments the submission counter for a page/outcome pair.
func IncSubmission(page, outcome string) {
	submissions.WithLabelValues(page, outcome).Inc()
}
