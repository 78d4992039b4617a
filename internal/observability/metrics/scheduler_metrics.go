package metrics

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"
)

const (
	SchedulerJobReasonDeadlineExceeded = "deadline_exceeded"
	SchedulerJobReasonDB               = "db"
	SchedulerJobReasonBusinessRule     = "business_rule"
	SchedulerJobReasonUnknown          = "unknown"
)

// SchedulerMetrics captures nightly batch scheduler health signals.
type SchedulerMetrics struct {
	jobRuns     *prometheus.CounterVec
	jobDuration *prometheus.HistogramVec
	jobTimeouts *prometheus.CounterVec
	jobErrors   *prometheus.CounterVec
	runLoopLag  prometheus.Observer
}

var (
	schedulerMetricsOnce sync.Once
	schedulerMetrics     *SchedulerMetrics
)

// Scheduler returns the singleton scheduler metrics registry.
func Scheduler() *SchedulerMetrics {
	return SchedulerWithConfig(Config{})
}

// SchedulerWithConfig returns the singleton scheduler metrics registry using config labels.
func SchedulerWithConfig(cfg Config) *SchedulerMetrics {
	schedulerMetricsOnce.Do(func() {
		schedulerMetrics = newSchedulerMetrics(prometheus.DefaultRegisterer, cfg)
	})
	return schedulerMetrics
}

// ResetSchedulerMetricsForTest resets the scheduler metrics singleton for tests.
func ResetSchedulerMetricsForTest() {
	schedulerMetricsOnce = sync.Once{}
	schedulerMetrics = nil
}

func newSchedulerMetrics(registerer prometheus.Registerer, cfg Config) *SchedulerMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	constLabels := cfg.constLabels()

	jobRuns := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:        "arengine_scheduler_job_runs_total",
		Help:        "Scheduler job runs by name.",
		ConstLabels: constLabels,
	}, []string{"job"})
	jobDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:        "arengine_scheduler_job_duration_seconds",
		Help:        "Scheduler job latency to protect nightly snapshot freshness.",
		Buckets:     []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300, 600},
		ConstLabels: constLabels,
	}, []string{"job"})
	jobTimeouts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:        "arengine_scheduler_job_timeouts_total",
		Help:        "Scheduler job timeouts that threaten nightly batch SLAs.",
		ConstLabels: constLabels,
	}, []string{"job"})
	jobErrors := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:        "arengine_scheduler_job_errors_total",
		Help:        "Scheduler job errors by low-cardinality reason.",
		ConstLabels: constLabels,
	}, []string{"job", "reason"})
	runLoopLag := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:        "arengine_scheduler_runloop_lag_seconds",
		Help:        "Scheduler run loop lag beyond the configured interval.",
		Buckets:     []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		ConstLabels: constLabels,
	})

	registerer.MustRegister(jobRuns, jobDuration, jobTimeouts, jobErrors, runLoopLag)

	return &SchedulerMetrics{
		jobRuns:     jobRuns,
		jobDuration: jobDuration,
		jobTimeouts: jobTimeouts,
		jobErrors:   jobErrors,
		runLoopLag:  runLoopLag,
	}
}

// ObserveJob records one scheduler job execution.
func (m *SchedulerMetrics) ObserveJob(job string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	m.jobRuns.WithLabelValues(job).Inc()
	m.jobDuration.WithLabelValues(job).Observe(duration.Seconds())
	if err == nil {
		return
	}
	reason := ClassifyJobError(err)
	if reason == SchedulerJobReasonDeadlineExceeded {
		m.jobTimeouts.WithLabelValues(job).Inc()
	}
	m.jobErrors.WithLabelValues(job, reason).Inc()
}

// ObserveRunLoopLag records drift between scheduled and actual tick time.
func (m *SchedulerMetrics) ObserveRunLoopLag(lag time.Duration) {
	if m == nil || lag <= 0 {
		return
	}
	m.runLoopLag.Observe(lag.Seconds())
}

// ClassifyJobError maps an error to a low-cardinality reason label.
func ClassifyJobError(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, context.DeadlineExceeded):
		return SchedulerJobReasonDeadlineExceeded
	case errors.Is(err, gorm.ErrRecordNotFound),
		errors.Is(err, gorm.ErrDuplicatedKey),
		errors.Is(err, gorm.ErrInvalidTransaction):
		return SchedulerJobReasonDB
	default:
		return SchedulerJobReasonUnknown
	}
}
