// Package metrics provides the Prometheus collectors of the shop API.
//
// HTTP metrics are recorded by middleware.Metrics; the domain counters are
// incremented by the services after a successful commit.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "shop"

var (
	// RequestDuration tracks how long each HTTP request takes,
	// broken down by method, route path, and status code.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// RequestTotal counts all HTTP requests.
	RequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	RequestInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_in_flight",
		Help:      "Number of HTTP requests currently being served.",
	})

	MembersJoined = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "members",
		Name:      "joined_total",
		Help:      "Total number of members registered.",
	})

	// JoinRejected counts registrations refused because the name is taken.
	JoinRejected = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "members",
		Name:      "duplicate_rejected_total",
		Help:      "Total number of registrations rejected for a duplicate name.",
	})

	OrdersPlaced = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "orders",
		Name:      "placed_total",
		Help:      "Total number of orders placed.",
	})

	OrdersCanceled = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "orders",
		Name:      "canceled_total",
		Help:      "Total number of orders canceled.",
	})

	// OrderFailures counts rejected orders and cancellations by reason.
	OrderFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "orders",
			Name:      "failures_total",
			Help:      "Total number of rejected order operations.",
		},
		[]string{"operation", "reason"},
	)
)

// Registry holds every collector of the API plus the Go runtime and process collectors
var Registry = prometheus.NewRegistry()

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		RequestDuration,
		RequestTotal,
		RequestInFlight,
		MembersJoined,
		JoinRejected,
		OrdersPlaced,
		OrdersCanceled,
		OrderFailures,
	)
}

// Handler returns the /metrics HTTP handler
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}
