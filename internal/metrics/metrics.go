package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "shareit",
			Name:      "http_requests_total",
			Help:      "HTTP requests by endpoint.",
		},
		[]string{"endpoint"},
	)

	bookingsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "shareit",
			Name:      "bookings_created_total",
			Help:      "Bookings accepted into WAITING.",
		},
	)

	bookingDecisions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "shareit",
			Name:      "booking_decisions_total",
			Help:      "Booking decisions by outcome.",
		},
		[]string{"outcome"},
	)

	listingCache = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "shareit",
			Name:      "listing_cache_total",
			Help:      "Owner listing cache hits and misses.",
		},
		[]string{"result"},
	)

	exportTasks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "shareit",
			Name:      "export_tasks_total",
			Help:      "Export worker task outcomes.",
		},
		[]string{"status"},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(httpRequests)
		prometheus.MustRegister(bookingsCreated)
		prometheus.MustRegister(bookingDecisions)
		prometheus.MustRegister(listingCache)
		prometheus.MustRegister(exportTasks)
	})
}

// IncHTTP increments the counter for an endpoint label.
func IncHTTP(endpoint string) {
	httpRequests.WithLabelValues(endpoint).Inc()
}

// IncCreated counts an accepted booking request.
func IncCreated() {
	bookingsCreated.Inc()
}

// IncDecision counts a booking decision: "approved" or "rejected".
func IncDecision(outcome string) {
	bookingDecisions.WithLabelValues(outcome).Inc()
}

// IncCache counts a listing cache lookup: "hit" or "miss".
func IncCache(result string) {
	listingCache.WithLabelValues(result).Inc()
}

// IncExport counts an export task outcome.
func IncExport(status string) {
	exportTasks.WithLabelValues(status).Inc()
}
