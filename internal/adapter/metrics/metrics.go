package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the sync service.
type Metrics struct {
	RecordsReconciled *prometheus.CounterVec
	WebhookDeliveries *prometheus.CounterVec
	SyncSweeps        prometheus.Counter
	TenantSyncs       *prometheus.CounterVec
}

// New initializes and registers the Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		RecordsReconciled: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pulseboard",
			Subsystem: "reconcile",
			Name:      "records_total",
			Help:      "Total number of records processed by the reconciliation pipeline.",
		}, []string{"kind", "result"}), // kind: customer, product, order, event; result: synced, skipped
		WebhookDeliveries: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pulseboard",
			Subsystem: "webhook",
			Name:      "deliveries_total",
			Help:      "Total number of webhook deliveries by topic and outcome.",
		}, []string{"topic", "status"}), // status: ok, unauthorized, error
		SyncSweeps: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "pulseboard",
			Subsystem: "scheduler",
			Name:      "sweeps_total",
			Help:      "Total number of scheduled full-sync sweeps started.",
		}),
		TenantSyncs: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pulseboard",
			Subsystem: "scheduler",
			Name:      "tenant_syncs_total",
			Help:      "Total number of per-tenant sync passes by outcome.",
		}, []string{"result"}), // result: ok, error
	}
}

// RecordReconciled increments the reconcile counter, tolerating a nil receiver
// so the pipeline can run without metrics in tests.
func (m *Metrics) RecordReconciled(kind, result string) {
	if m == nil {
		return
	}
	m.RecordsReconciled.WithLabelValues(kind, result).Inc()
}

// RecordWebhook increments the webhook delivery counter.
func (m *Metrics) RecordWebhook(topic, status string) {
	if m == nil {
		return
	}
	m.WebhookDeliveries.WithLabelValues(topic, status).Inc()
}

// RecordTenantSync increments the per-tenant sync counter.
func (m *Metrics) RecordTenantSync(result string) {
	if m == nil {
		return
	}
	m.TenantSyncs.WithLabelValues(result).Inc()
}

// RecordSweep increments the sweep counter.
func (m *Metrics) RecordSweep() {
	if m == nil {
		return
	}
	m.SyncSweeps.Inc()
}
