package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymdesk_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gymdesk_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	ClientsRegisteredTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gymdesk_clients_registered_total",
			Help: "Total number of clients registered",
		},
	)

	PaymentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymdesk_payments_total",
			Help: "Total number of membership payments registered",
		},
		[]string{"method"},
	)

	PaymentAmountTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gymdesk_payment_amount_total",
			Help: "Sum of registered payment amounts",
		},
	)

	AccessAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymdesk_access_attempts_total",
			Help: "Total number of access attempts by movement and outcome",
		},
		[]string{"movement", "outcome"},
	)

	BackupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymdesk_backups_total",
			Help: "Total number of backup operations",
		},
		[]string{"operation", "status"},
	)

	ImportRowsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymdesk_import_rows_total",
			Help: "Rows processed by bulk client import",
		},
		[]string{"result"},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordClientRegistered() {
	ClientsRegisteredTotal.Inc()
}

func RecordPayment(method string, amount float64) {
	PaymentsTotal.WithLabelValues(method).Inc()
	PaymentAmountTotal.Add(amount)
}

func RecordAccessAttempt(movement, outcome string) {
	AccessAttemptsTotal.WithLabelValues(movement, outcome).Inc()
}

func RecordBackup(operation, status string) {
	BackupsTotal.WithLabelValues(operation, status).Inc()
}

func RecordImportRow(result string) {
	ImportRowsTotal.WithLabelValues(result).Inc()
}
