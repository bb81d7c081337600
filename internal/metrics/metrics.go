// Package metrics provides Prometheus instrumentation for the retail core.
package metrics

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "retail"

var (
	// HTTPRequestsTotal counts HTTP requests by method, path, and status.
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total HTTP requests by method, path pattern, and status code.",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration observes request latency by method and path.
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// CouponReservationsTotal counts reservation outcomes: reserved, exhausted, error.
	CouponReservationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "coupon_reservations_total",
			Help:      "Coupon reservation attempts by result.",
		},
		[]string{"result"},
	)

	// CouponReleasesTotal counts compensations by trigger.
	CouponReleasesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "coupon_releases_total",
			Help:      "Coupon reservations released by trigger.",
		},
		[]string{"trigger"},
	)

	// OrdersPlacedTotal counts placed orders by whether a coupon was applied.
	OrdersPlacedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_placed_total",
			Help:      "Orders placed by coupon outcome.",
		},
		[]string{"coupon"},
	)

	// PaymentTransitionsTotal counts payment attempts entering each status.
	PaymentTransitionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payment_transitions_total",
			Help:      "Payment attempt transitions by target status.",
		},
		[]string{"status"},
	)

	PaymentProcessingDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "payment_processing_duration_seconds",
		Help:      "Time from processing start to a terminal status.",
		Buckets:   []float64{0.5, 1, 2, 5, 10, 30, 60, 300},
	})

	// VerificationChecksTotal counts code checks by result.
	VerificationChecksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "verification_checks_total",
			Help:      "Verification code checks by result.",
		},
		[]string{"channel", "result"},
	)

	CouponCacheLookupsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "coupon_cache_lookups_total",
			Help:      "Coupon lookup cache hits and misses.",
		},
		[]string{"result"},
	)

	// DBAcquiredConnections tracks connections currently checked out of the pool.
	DBAcquiredConnections = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace, Name: "db_acquired_connections",
		Help: "Number of connections currently in use.",
	})
	DBIdleConnections = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace, Name: "db_idle_connections",
		Help: "Number of idle connections.",
	})
	DBTotalConnections = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace, Name: "db_total_connections",
		Help: "Number of open connections.",
	})
)

func init() {
	prometheus.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDuration,
		CouponReservationsTotal,
		CouponReleasesTotal,
		OrdersPlacedTotal,
		PaymentTransitionsTotal,
		PaymentProcessingDuration,
		VerificationChecksTotal,
		CouponCacheLookupsTotal,
		DBAcquiredConnections,
		DBIdleConnections,
		DBTotalConnections,
	)
}

// StartPoolStatsCollector samples pgxpool statistics into gauges until ctx is done.
func StartPoolStatsCollector(ctx context.Context, pool *pgxpool.Pool, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			stat := pool.Stat()
			DBAcquiredConnections.Set(float64(stat.AcquiredConns()))
			DBIdleConnections.Set(float64(stat.IdleConns()))
			DBTotalConnections.Set(float64(stat.TotalConns()))
		}
	}
}

// Middleware returns a gin middleware that records request metrics.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		timer := prometheus.NewTimer(HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
		))

		c.Next()

		timer.ObserveDuration()
		HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			statusBucket(c.Writer.Status()),
		).Inc()
	}
}

// Handler returns the Prometheus metrics HTTP handler for /metrics endpoint.
func Handler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}

func statusBucket(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}
