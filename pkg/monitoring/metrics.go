package monitoring

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP request metrics
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status_code", "service"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint", "service"},
	)

	// Appointment workflow metrics
	appointmentTransitionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "appointment_transitions_total",
			Help: "Total number of appointment state transitions",
		},
		[]string{"transition"},
	)

	// Sensor ingest metrics
	sensorReadingsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sensor_readings_total",
			Help: "Total number of ingested sensor readings",
		},
		[]string{"status"},
	)

	anomaliesConfirmedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sensor_anomalies_confirmed_total",
			Help: "Total number of anomaly labels confirmed by persistence tracking",
		},
		[]string{"label"},
	)

	// Notification engine metrics
	notificationsCreatedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_created_total",
			Help: "Total number of notifications created",
		},
		[]string{"type", "priority"},
	)

	notificationsRateLimitedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "notifications_rate_limited_total",
			Help: "Total number of notification creations rejected by the per-recipient rate limit",
		},
	)

	remindersSentTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notification_reminders_sent_total",
			Help: "Total number of reminder notifications produced by the reminder sweep",
		},
		[]string{"priority"},
	)
)

func init() {
	prometheus.MustRegister(
		httpRequestsTotal,
		httpRequestDuration,
		appointmentTransitionsTotal,
		sensorReadingsTotal,
		anomaliesConfirmedTotal,
		notificationsCreatedTotal,
		notificationsRateLimitedTotal,
		remindersSentTotal,
	)
}

// RecordHTTPRequest records an HTTP request metric
func RecordHTTPRequest(method, endpoint, statusCode, service string, durationSeconds float64) {
	httpRequestsTotal.WithLabelValues(method, endpoint, statusCode, service).Inc()
	httpRequestDuration.WithLabelValues(method, endpoint, service).Observe(durationSeconds)
}

// RecordAppointmentTransition records an appointment state transition
func RecordAppointmentTransition(transition string) {
	appointmentTransitionsTotal.WithLabelValues(transition).Inc()
}

// RecordSensorReading records an ingested reading outcome (ok, invalid, not_found)
func RecordSensorReading(status string) {
	sensorReadingsTotal.WithLabelValues(status).Inc()
}

// RecordAnomalyConfirmed records a confirmed anomaly label
func RecordAnomalyConfirmed(label string) {
	anomaliesConfirmedTotal.WithLabelValues(label).Inc()
}

// RecordNotificationCreated records a created notification
func RecordNotificationCreated(notificationType, priority string) {
	notificationsCreatedTotal.WithLabelValues(notificationType, priority).Inc()
}

// RecordNotificationRateLimited records a rate-limited notification creation
func RecordNotificationRateLimited() {
	notificationsRateLimitedTotal.Inc()
}

// RecordReminderSent records a reminder produced by the sweep
func RecordReminderSent(priority string) {
	remindersSentTotal.WithLabelValues(priority).Inc()
}

// MetricsHandler returns the Prometheus metrics HTTP handler
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
