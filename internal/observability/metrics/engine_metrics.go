package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	RunTriggerScheduler = "scheduler"
	RunTriggerAPI       = "api"

	ExcludeReasonMissingInvoiceNo  = "missing_invoice_no"
	ExcludeReasonMissingCustomerNo = "missing_customer_no"
	ExcludeReasonMissingDueDate    = "missing_due_date"
	ExcludeReasonBalanceOverGross  = "balance_over_gross"
)

// EngineMetrics captures aging engine run health signals.
type EngineMetrics struct {
	runsTotal       *prometheus.CounterVec
	runErrors       *prometheus.CounterVec
	runDuration     *prometheus.HistogramVec
	invoicesScored  prometheus.Counter
	rowsExcluded    *prometheus.CounterVec
	orphanPayments  prometheus.Counter
	snapshotUpserts prometheus.Counter
}

var (
	engineMetricsOnce sync.Once
	engineMetrics     *EngineMetrics
)

// Engine returns the singleton engine metrics registry.
func Engine() *EngineMetrics {
	return EngineWithConfig(Config{})
}

// EngineWithConfig returns the singleton engine metrics registry using config labels.
func EngineWithConfig(cfg Config) *EngineMetrics {
	engineMetricsOnce.Do(func() {
		engineMetrics = newEngineMetrics(prometheus.DefaultRegisterer, cfg)
	})
	return engineMetrics
}

// ResetEngineMetricsForTest resets the engine metrics singleton for tests.
func ResetEngineMetricsForTest() {
	engineMetricsOnce = sync.Once{}
	engineMetrics = nil
}

func newEngineMetrics(registerer prometheus.Registerer, cfg Config) *EngineMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	constLabels := cfg.constLabels()

	runsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:        "arengine_aging_runs_total",
		Help:        "Aging engine runs by trigger.",
		ConstLabels: constLabels,
	}, []string{"trigger"})
	runErrors := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:        "arengine_aging_run_errors_total",
		Help:        "Aging engine run failures by trigger.",
		ConstLabels: constLabels,
	}, []string{"trigger"})
	runDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:        "arengine_aging_run_duration_seconds",
		Help:        "Aging engine run latency to protect nightly batch freshness.",
		Buckets:     []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20, 30, 60, 120, 300},
		ConstLabels: constLabels,
	}, []string{"trigger"})
	invoicesScored := prometheus.NewCounter(prometheus.CounterOpts{
		Name:        "arengine_invoices_scored_total",
		Help:        "Invoices classified and scored across all runs.",
		ConstLabels: constLabels,
	})
	rowsExcluded := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:        "arengine_rows_excluded_total",
		Help:        "Source rows excluded by validation reason.",
		ConstLabels: constLabels,
	}, []string{"reason"})
	orphanPayments := prometheus.NewCounter(prometheus.CounterOpts{
		Name:        "arengine_unapplied_payments_total",
		Help:        "Payments observed without an invoice reference across all runs.",
		ConstLabels: constLabels,
	})
	snapshotUpserts := prometheus.NewCounter(prometheus.CounterOpts{
		Name:        "arengine_summary_snapshot_upserts_total",
		Help:        "Summary snapshot rows written or replaced.",
		ConstLabels: constLabels,
	})

	registerer.MustRegister(
		runsTotal,
		runErrors,
		runDuration,
		invoicesScored,
		rowsExcluded,
		orphanPayments,
		snapshotUpserts,
	)

	return &EngineMetrics{
		runsTotal:       runsTotal,
		runErrors:       runErrors,
		runDuration:     runDuration,
		invoicesScored:  invoicesScored,
		rowsExcluded:    rowsExcluded,
		orphanPayments:  orphanPayments,
		snapshotUpserts: snapshotUpserts,
	}
}

// ObserveRun records a completed engine run.
func (m *EngineMetrics) ObserveRun(trigger string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	m.runsTotal.WithLabelValues(trigger).Inc()
	m.runDuration.WithLabelValues(trigger).Observe(duration.Seconds())
	if err != nil {
		m.runErrors.WithLabelValues(trigger).Inc()
	}
}

// AddInvoicesScored records the number of invoices classified in a run.
func (m *EngineMetrics) AddInvoicesScored(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.invoicesScored.Add(float64(n))
}

// AddExcluded records validation exclusions by reason.
func (m *EngineMetrics) AddExcluded(reason string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.rowsExcluded.WithLabelValues(reason).Add(float64(n))
}

// AddUnappliedPayments records payments without an invoice reference.
func (m *EngineMetrics) AddUnappliedPayments(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.orphanPayments.Add(float64(n))
}

// IncSnapshotUpsert records a summary snapshot write.
func (m *EngineMetrics) IncSnapshotUpsert() {
	if m == nil {
		return
	}
	m.snapshotUpserts.Inc()
}
