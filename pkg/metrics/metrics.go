package metrics

import (
	"database/sql"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics набор Prometheus-метрик сервиса
type Metrics struct {
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	dbQueryDuration *prometheus.HistogramVec
	dbQueryErrors   *prometheus.CounterVec

	dbConnectionsOpen  prometheus.Gauge
	dbConnectionsInUse prometheus.Gauge
	dbConnectionsIdle  prometheus.Gauge

	wsSessionsActive prometheus.Gauge

	reservationsTotal *prometheus.CounterVec
}

// New создает и регистрирует метрики в default-регистре
func New(serviceName string) *Metrics {
	constLabels := prometheus.Labels{"service": serviceName}

	return &Metrics{
		httpRequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: constLabels,
		}, []string{"method", "path", "status"}),

		httpRequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request latency",
			ConstLabels: constLabels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "path"}),

		dbQueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query latency",
			ConstLabels: constLabels,
			Buckets:     []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"operation"}),

		dbQueryErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "db_query_errors_total",
			Help:        "Total number of failed database queries",
			ConstLabels: constLabels,
		}, []string{"operation"}),

		dbConnectionsOpen: promauto.NewGauge(prometheus.GaugeOpts{
			Name:        "db_connections_open",
			Help:        "Open database connections",
			ConstLabels: constLabels,
		}),

		dbConnectionsInUse: promauto.NewGauge(prometheus.GaugeOpts{
			Name:        "db_connections_in_use",
			Help:        "Database connections currently in use",
			ConstLabels: constLabels,
		}),

		dbConnectionsIdle: promauto.NewGauge(prometheus.GaugeOpts{
			Name:        "db_connections_idle",
			Help:        "Idle database connections",
			ConstLabels: constLabels,
		}),

		wsSessionsActive: promauto.NewGauge(prometheus.GaugeOpts{
			Name:        "ws_sessions_active",
			Help:        "Active WebSocket booking sessions",
			ConstLabels: constLabels,
		}),

		reservationsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "reservations_total",
			Help:        "Reservation commit outcomes",
			ConstLabels: constLabels,
		}, []string{"result"}), // created | conflict | token_failed | cancelled | expired
	}
}

// ObserveHTTPRequest фиксирует завершённый HTTP запрос
func (m *Metrics) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	m.httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// ObserveDBQuery фиксирует выполненный SQL запрос
func (m *Metrics) ObserveDBQuery(operation string, duration time.Duration, err error) {
	m.dbQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if err != nil {
		m.dbQueryErrors.WithLabelValues(operation).Inc()
	}
}

// SetDBStats обновляет gauge-метрики пула соединений
func (m *Metrics) SetDBStats(stats sql.DBStats) {
	m.dbConnectionsOpen.Set(float64(stats.OpenConnections))
	m.dbConnectionsInUse.Set(float64(stats.InUse))
	m.dbConnectionsIdle.Set(float64(stats.Idle))
}

// WSSessionStarted увеличивает счётчик активных WS-сессий
func (m *Metrics) WSSessionStarted() {
	m.wsSessionsActive.Inc()
}

// WSSessionEnded уменьшает счётчик активных WS-сессий
func (m *Metrics) WSSessionEnded() {
	m.wsSessionsActive.Dec()
}

// ReservationResult фиксирует исход коммита бронирования
func (m *Metrics) ReservationResult(result string) {
	m.reservationsTotal.WithLabelValues(result).Inc()
}
