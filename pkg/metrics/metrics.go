package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "tour_booking"

// Metrics набор Prometheus-метрик сервиса
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	DBQueryDuration    *prometheus.HistogramVec
	DBQueryErrors      *prometheus.CounterVec
	DBOpenConnections  *prometheus.GaugeVec
	DBInUseConnections *prometheus.GaugeVec
	DBIdleConnections  *prometheus.GaugeVec
	DBWaitCount        *prometheus.GaugeVec

	BookingEventsTotal    *prometheus.CounterVec
	EventDispatchFailures *prometheus.CounterVec

	serviceName string
}

// New создает метрики и регистрирует их в глобальном реестре Prometheus
func New(serviceName string) *Metrics {
	return NewWithRegistry(serviceName, prometheus.DefaultRegisterer)
}

// NewWithRegistry создает метрики в указанном реестре (используется в тестах)
func NewWithRegistry(serviceName string, reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		serviceName: serviceName,

		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests by route, method and status code",
			},
			[]string{"service", "route", "method", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "Duration of HTTP requests in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~2.5s
			},
			[]string{"service", "route", "method"},
		),

		DBQueryDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "db",
				Name:      "query_duration_seconds",
				Help:      "Duration of database queries in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
			},
			[]string{"service", "operation"},
		),
		DBQueryErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "db",
				Name:      "query_errors_total",
				Help:      "Total number of failed database queries",
			},
			[]string{"service", "operation"},
		),
		DBOpenConnections: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "db",
				Name:      "open_connections",
				Help:      "Number of established connections",
			},
			[]string{"service"},
		),
		DBInUseConnections: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "db",
				Name:      "in_use_connections",
				Help:      "Number of connections currently in use",
			},
			[]string{"service"},
		),
		DBIdleConnections: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "db",
				Name:      "idle_connections",
				Help:      "Number of idle connections",
			},
			[]string{"service"},
		),
		DBWaitCount: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "db",
				Name:      "wait_count",
				Help:      "Total number of connections waited for",
			},
			[]string{"service"},
		),

		BookingEventsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "booking",
				Name:      "events_total",
				Help:      "Total number of booking audit log events by kind",
			},
			[]string{"service", "event"},
		),
		EventDispatchFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "booking",
				Name:      "event_dispatch_failures_total",
				Help:      "Total number of failed deliveries to the notification service",
			},
			[]string{"service", "event"},
		),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.DBQueryDuration,
		m.DBQueryErrors,
		m.DBOpenConnections,
		m.DBInUseConnections,
		m.DBIdleConnections,
		m.DBWaitCount,
		m.BookingEventsTotal,
		m.EventDispatchFailures,
	)

	return m
}

// ServiceName возвращает имя сервиса, используемое в лейблах
func (m *Metrics) ServiceName() string {
	return m.serviceName
}

// RecordBookingEvent увеличивает счетчик событий журнала бронирования
// Безопасно вызывать на nil (метрики выключены)
func (m *Metrics) RecordBookingEvent(event string) {
	if m == nil {
		return
	}
	m.BookingEventsTotal.WithLabelValues(m.serviceName, event).Inc()
}

// RecordDispatchFailure увеличивает счетчик неудачных отправок в сервис уведомлений
func (m *Metrics) RecordDispatchFailure(event string) {
	if m == nil {
		return
	}
	m.EventDispatchFailures.WithLabelValues(m.serviceName, event).Inc()
}
