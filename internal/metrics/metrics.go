// Package metrics provides the Prometheus collectors of the panel.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Namespace prefixes every metric name.
const Namespace = "domain_panel"

// Metrics holds the collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	NotificationsTotal *prometheus.CounterVec
	BackupsTotal       *prometheus.CounterVec
	ReminderRunsTotal  *prometheus.CounterVec
	DomainsTracked     prometheus.Gauge
}

// New creates and registers every collector on reg, or on the default
// registerer when reg is nil.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		HTTPRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: Namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		NotificationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "notifications_total",
			Help:      "Reminder deliveries by method and result",
		}, []string{"method", "result"}),
		BackupsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "backups_total",
			Help:      "WebDAV backup operations by kind and result",
		}, []string{"operation", "result"}),
		ReminderRunsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "reminder_runs_total",
			Help:      "Expiry checks by trigger",
		}, []string{"trigger"}),
		DomainsTracked: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "domains_tracked",
			Help:      "Number of records in the loaded collection",
		}),
	}
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// ObserveNotification counts one delivery attempt.
func (m *Metrics) ObserveNotification(method string, err error) {
	if m == nil {
		return
	}
	m.NotificationsTotal.WithLabelValues(method, result(err)).Inc()
}

// ObserveBackup counts one backup or restore operation.
func (m *Metrics) ObserveBackup(operation string, err error) {
	if m == nil {
		return
	}
	m.BackupsTotal.WithLabelValues(operation, result(err)).Inc()
}

// ObserveReminderRun counts one expiry check.
func (m *Metrics) ObserveReminderRun(trigger string) {
	if m == nil {
		return
	}
	m.ReminderRunsTotal.WithLabelValues(trigger).Inc()
}

// SetDomains records the size of the loaded collection.
func (m *Metrics) SetDomains(n int) {
	if m == nil {
		return
	}
	m.DomainsTracked.Set(float64(n))
}

// Middleware records request count and latency per route template.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.HTTPRequestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.HTTPRequestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}
