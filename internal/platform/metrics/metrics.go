package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors for the placement core.
// All helpers are nil-safe so services can run without metrics in tests.
type Metrics struct {
	ApplicationsSubmitted prometheus.Counter
	ModerationActions     *prometheus.CounterVec
	CascadeItems          *prometheus.CounterVec
	NotificationsCreated  *prometheus.CounterVec
	NotificationFailures  *prometheus.CounterVec
	RequestDuration       *prometheus.HistogramVec
}

// New creates and registers all collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		ApplicationsSubmitted: f.NewCounter(prometheus.CounterOpts{
			Name: "placement_applications_submitted_total",
			Help: "Applications persisted (idempotent re-submissions excluded)",
		}),
		ModerationActions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "placement_moderation_actions_total",
			Help: "Administrator moderation actions by action and outcome",
		}, []string{"action", "outcome"}),
		CascadeItems: f.NewCounterVec(prometheus.CounterOpts{
			Name: "placement_cascade_items_total",
			Help: "Per-item results of moderation cascades",
		}, []string{"cascade", "result"}),
		NotificationsCreated: f.NewCounterVec(prometheus.CounterOpts{
			Name: "placement_notifications_created_total",
			Help: "Notifications persisted by type",
		}, []string{"type"}),
		NotificationFailures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "placement_notification_failures_total",
			Help: "Notification side-effect failures by stage (persist, publish, cache)",
		}, []string{"stage"}),
		RequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "placement_http_request_duration_seconds",
			Help:    "HTTP request latency by route pattern",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"method", "route", "status"}),
	}
}

func (m *Metrics) IncApplicationSubmitted() {
	if m == nil {
		return
	}
	m.ApplicationsSubmitted.Inc()
}

// IncModeration records a moderation action; outcome is "applied" or "noop".
func (m *Metrics) IncModeration(action, outcome string) {
	if m == nil {
		return
	}
	m.ModerationActions.WithLabelValues(action, outcome).Inc()
}

func (m *Metrics) AddCascade(cascade, result string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.CascadeItems.WithLabelValues(cascade, result).Add(float64(n))
}

func (m *Metrics) AddNotificationsCreated(notificationType string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.NotificationsCreated.WithLabelValues(notificationType).Add(float64(n))
}

func (m *Metrics) IncNotificationFailure(stage string) {
	if m == nil {
		return
	}
	m.NotificationFailures.WithLabelValues(stage).Inc()
}

// ObserveRequest records request latency. Call with time.Now() taken at request start.
func (m *Metrics) ObserveRequest(method, route, status string, start time.Time) {
	if m == nil {
		return
	}
	m.RequestDuration.WithLabelValues(method, route, status).Observe(time.Since(start).Seconds())
}
