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

	RenewalsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymdesk_membership_renewals_total",
			Help: "Total number of membership renewals",
		},
		[]string{"status", "execution_type"},
	)

	RenewalBatchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "gymdesk_renewal_batch_duration_seconds",
			Help:    "Duration of auto-renewal batch runs",
			Buckets: prometheus.DefBuckets,
		},
	)

	PriceUpdatesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gymdesk_renewal_price_updates_total",
			Help: "Renewals where the resolved price differed from the stored cost",
		},
	)

	PaymentsGeneratedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymdesk_payments_generated_total",
			Help: "Ledger entries created by the billing engine",
		},
		[]string{"kind"},
	)

	PaymentsRegisteredTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gymdesk_payments_registered_total",
			Help: "Ledger entries manually marked as paid",
		},
	)

	EmailsSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymdesk_emails_sent_total",
			Help: "Total number of emails sent",
		},
		[]string{"type", "status"},
	)

	EmailQueueLength = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gymdesk_email_queue_length",
			Help: "Current length of email queue",
		},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordRenewal(status, executionType string) {
	RenewalsTotal.WithLabelValues(status, executionType).Inc()
}

func RecordPriceUpdate() {
	PriceUpdatesTotal.Inc()
}

func RecordPaymentGenerated(kind string) {
	PaymentsGeneratedTotal.WithLabelValues(kind).Inc()
}

func RecordPaymentRegistered() {
	PaymentsRegisteredTotal.Inc()
}

func RecordEmail(emailType, status string) {
	EmailsSentTotal.WithLabelValues(emailType, status).Inc()
}
