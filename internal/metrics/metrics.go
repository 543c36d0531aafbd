package metrics

import (
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	// HTTP Metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Business Metrics
	LedgerEntriesTotal  *prometheus.CounterVec
	BidsPlacedTotal     prometheus.Counter
	BidsRejectedTotal   *prometheus.CounterVec
	AuctionsClosedTotal *prometheus.CounterVec
	PayoutsTotal        prometheus.Counter
	PayoutAmountTotal   prometheus.Counter

	// Database Metrics
	DBConnectionsInUse prometheus.Gauge
	DBConnectionsIdle  prometheus.Gauge
	DBQueryDuration    *prometheus.HistogramVec
	DBQueriesTotal     *prometheus.CounterVec

	// System Metrics
	ServiceUptime    prometheus.Gauge
	Goroutines       prometheus.Gauge
	MemoryUsageBytes *prometheus.GaugeVec

	// Validation Metrics
	ValidationErrors *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	return &Metrics{
		// HTTP Metrics
		HTTPRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "auctiongateway_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"},
		),
		HTTPRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "auctiongateway_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status_code"},
		),
		HTTPRequestsInFlight: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "auctiongateway_http_requests_in_flight",
				Help: "Number of HTTP requests currently being served",
			},
		),

		// Business Metrics
		LedgerEntriesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "auctiongateway_ledger_entries_total",
				Help: "Total number of ledger entries appended",
			},
			[]string{"entry_type"},
		),
		BidsPlacedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "auctiongateway_bids_placed_total",
				Help: "Total number of bids accepted",
			},
		),
		BidsRejectedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "auctiongateway_bids_rejected_total",
				Help: "Total number of bids rejected",
			},
			[]string{"reason"},
		),
		AuctionsClosedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "auctiongateway_auctions_closed_total",
				Help: "Total number of auctions closed by the scheduler",
			},
			[]string{"outcome"},
		),
		PayoutsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "auctiongateway_payouts_total",
				Help: "Total number of seller payouts",
			},
		),
		PayoutAmountTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "auctiongateway_payout_amount_total",
				Help: "Total points paid out to sellers",
			},
		),

		// Database Metrics
		DBConnectionsInUse: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "auctiongateway_db_connections_in_use",
				Help: "Number of database connections currently in use",
			},
		),
		DBConnectionsIdle: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "auctiongateway_db_connections_idle",
				Help: "Number of idle database connections",
			},
		),
		DBQueryDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "auctiongateway_db_query_duration_seconds",
				Help:    "Duration of database queries in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0},
			},
			[]string{"operation", "table"},
		),
		DBQueriesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "auctiongateway_db_queries_total",
				Help: "Total number of database queries",
			},
			[]string{"operation", "table", "status"},
		),

		// System Metrics
		ServiceUptime: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "auctiongateway_service_uptime_seconds",
				Help: "Service uptime in seconds",
			},
		),
		Goroutines: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "auctiongateway_goroutines",
				Help: "Number of goroutines currently running",
			},
		),
		MemoryUsageBytes: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "auctiongateway_memory_usage_bytes",
				Help: "Memory usage in bytes",
			},
			[]string{"type"},
		),

		// Validation Metrics
		ValidationErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "auctiongateway_validation_errors_total",
				Help: "Total number of validation errors",
			},
			[]string{"field", "tag"},
		),
	}
}

// --- Recording Methods ---

func (m *Metrics) RecordHTTPRequest(method, path, statusCode string, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, statusCode).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path, statusCode).Observe(duration.Seconds())
}

func (m *Metrics) RecordLedgerEntry(entryType string) {
	m.LedgerEntriesTotal.WithLabelValues(entryType).Inc()
}

func (m *Metrics) RecordBidPlaced() {
	m.BidsPlacedTotal.Inc()
}

func (m *Metrics) RecordBidRejected(reason string) {
	m.BidsRejectedTotal.WithLabelValues(reason).Inc()
}

func (m *Metrics) RecordAuctionClosed(outcome string) {
	m.AuctionsClosedTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) RecordPayout(amount int64) {
	m.PayoutsTotal.Inc()
	m.PayoutAmountTotal.Add(float64(amount))
}

func (m *Metrics) RecordDBQuery(operation, table, status string, duration time.Duration) {
	m.DBQueriesTotal.WithLabelValues(operation, table, status).Inc()
	m.DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
}

func (m *Metrics) RecordValidationError(field, tag string) {
	m.ValidationErrors.WithLabelValues(field, tag).Inc()
}

// UpdateSystemMetrics updates system-level metrics (goroutines, uptime, memory).
func (m *Metrics) UpdateSystemMetrics(uptime time.Duration, memStats *runtime.MemStats) {
	m.ServiceUptime.Set(uptime.Seconds())
	m.Goroutines.Set(float64(runtime.NumGoroutine()))

	m.MemoryUsageBytes.WithLabelValues("alloc").Set(float64(memStats.Alloc))
	m.MemoryUsageBytes.WithLabelValues("sys").Set(float64(memStats.Sys))
	m.MemoryUsageBytes.WithLabelValues("heap_alloc").Set(float64(memStats.HeapAlloc))
	m.MemoryUsageBytes.WithLabelValues("heap_sys").Set(float64(memStats.HeapSys))
}
