package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector holds the Prometheus metrics for the citizen services
// workflow.
type Collector struct {
	TransitionsTotal   *prometheus.CounterVec
	NotificationsTotal *prometheus.CounterVec
	HTTPRequestsTotal  *prometheus.CounterVec
}

// NewCollector registers and returns the workflow metrics.
func NewCollector() *Collector {
	return &Collector{
		TransitionsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "citizen_services_status_transitions_total",
			Help: "Status transitions applied, by entity and new status",
		}, []string{"entity", "status"}),

		NotificationsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "citizen_services_notifications_total",
			Help: "Notification dispatch attempts, by kind and outcome",
		}, []string{"kind", "outcome"}),

		HTTPRequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "citizen_services_http_requests_total",
			Help: "HTTP requests served, by method, path and status code",
		}, []string{"method", "path", "status"}),
	}
}

// ObserveTransition records an applied status transition.
func (c *Collector) ObserveTransition(entity, status string) {
	if c == nil {
		return
	}
	c.TransitionsTotal.WithLabelValues(entity, status).Inc()
}

// ObserveNotification records a notification dispatch attempt.
func (c *Collector) ObserveNotification(kind string, err error) {
	if c == nil {
		return
	}
	outcome := "sent"
	if err != nil {
		outcome = "failed"
	}
	c.NotificationsTotal.WithLabelValues(kind, outcome).Inc()
}
