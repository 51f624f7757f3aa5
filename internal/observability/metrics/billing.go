package metrics

import (
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// BillingMetrics counts the mutating billing operations.
type BillingMetrics struct {
	billsGenerated     *prometheus.CounterVec
	paymentsRecorded   *prometheus.CounterVec
	settlementsWritten *prometheus.CounterVec
	boxActionsApplied  *prometheus.CounterVec
	ledgerEntries      *prometheus.CounterVec
	numberRetries      prometheus.Counter
}

var (
	billingMetricsOnce sync.Once
	billingMetrics     *BillingMetrics
)

// Billing returns the process-wide billing metrics set.
func Billing() *BillingMetrics {
	return BillingWithConfig(Config{})
}

// BillingWithConfig returns the billing metrics set, registering it on first use.
func BillingWithConfig(cfg Config) *BillingMetrics {
	billingMetricsOnce.Do(func() {
		billingMetrics = newBillingMetrics(prometheus.DefaultRegisterer, cfg)
	})
	return billingMetrics
}

// ResetBillingMetricsForTest clears the singleton between test runs.
func ResetBillingMetricsForTest() {
	billingMetricsOnce = sync.Once{}
	billingMetrics = nil
}

func newBillingMetrics(registerer prometheus.Registerer, cfg Config) *BillingMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	serviceName := strings.TrimSpace(cfg.ServiceName)
	if serviceName == "" {
		serviceName = "cablebill"
	}
	environment := strings.TrimSpace(cfg.Environment)
	if environment == "" {
		environment = "unknown"
	}

	constLabels := prometheus.Labels{
		"service": serviceName,
		"env":     environment,
	}

	billsGenerated := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name:        "cablebill_bills_generated_total",
			Help:        "Total bills created, by result.",
			ConstLabels: constLabels,
		},
		[]string{"result"}, // success | conflict | failed
	)

	paymentsRecorded := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name:        "cablebill_payments_recorded_total",
			Help:        "Total payments recorded, by bill attachment.",
			ConstLabels: constLabels,
		},
		[]string{"attached"}, // true | false
	)

	settlementsWritten := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name:        "cablebill_due_settlements_total",
			Help:        "Total due settlements written, by resulting status.",
			ConstLabels: constLabels,
		},
		[]string{"status"}, // PARTIAL | SETTLED
	)

	boxActionsApplied := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name:        "cablebill_box_actions_total",
			Help:        "Total box service actions applied.",
			ConstLabels: constLabels,
		},
		[]string{"action"},
	)

	ledgerEntries := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name:        "cablebill_ledger_entries_total",
			Help:        "Total immutable ledger transactions appended, by type.",
			ConstLabels: constLabels,
		},
		[]string{"type"},
	)

	numberRetries := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name:        "cablebill_number_collisions_total",
			Help:        "Total generated numbers that collided and were retried.",
			ConstLabels: constLabels,
		},
	)

	for _, collector := range []prometheus.Collector{
		billsGenerated,
		paymentsRecorded,
		settlementsWritten,
		boxActionsApplied,
		ledgerEntries,
		numberRetries,
	} {
		// AlreadyRegisteredError can only happen across test resets; ignore it.
		_ = registerer.Register(collector)
	}

	return &BillingMetrics{
		billsGenerated:     billsGenerated,
		paymentsRecorded:   paymentsRecorded,
		settlementsWritten: settlementsWritten,
		boxActionsApplied:  boxActionsApplied,
		ledgerEntries:      ledgerEntries,
		numberRetries:      numberRetries,
	}
}

// IncBillGenerated records a bill creation outcome.
func (m *BillingMetrics) IncBillGenerated(result string) {
	if m == nil {
		return
	}
	m.billsGenerated.WithLabelValues(result).Inc()
}

// IncPaymentRecorded records a payment, labelled by bill attachment.
func (m *BillingMetrics) IncPaymentRecorded(attached bool) {
	if m == nil {
		return
	}
	label := "false"
	if attached {
		label = "true"
	}
	m.paymentsRecorded.WithLabelValues(label).Inc()
}

// IncSettlementWritten records a due settlement by resulting status.
func (m *BillingMetrics) IncSettlementWritten(status string) {
	if m == nil {
		return
	}
	m.settlementsWritten.WithLabelValues(status).Inc()
}

// IncBoxActionApplied records a box service action.
func (m *BillingMetrics) IncBoxActionApplied(action string) {
	if m == nil {
		return
	}
	m.boxActionsApplied.WithLabelValues(action).Inc()
}

// IncLedgerEntry records one appended ledger transaction.
func (m *BillingMetrics) IncLedgerEntry(txnType string) {
	if m == nil {
		return
	}
	m.ledgerEntries.WithLabelValues(txnType).Inc()
}

// IncNumberRetry records a regenerated number after an insert collision.
func (m *BillingMetrics) IncNumberRetry() {
	if m == nil {
		return
	}
	m.numberRetries.Inc()
}
