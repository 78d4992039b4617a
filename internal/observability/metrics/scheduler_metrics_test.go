package metrics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"gorm.io/gorm"
)

func TestClassifyJobError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "deadline",
			err:  context.DeadlineExceeded,
			want: SchedulerJobReasonDeadlineExceeded,
		},
		{
			name: "record_not_found",
			err:  gorm.ErrRecordNotFound,
			want: SchedulerJobReasonDB,
		},
		{
			name: "duplicated_key",
			err:  gorm.ErrDuplicatedKey,
			want: SchedulerJobReasonDB,
		},
		{
			name: "unknown",
			err:  errors.New("boom"),
			want: SchedulerJobReasonUnknown,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ClassifyJobError(tc.err); got != tc.want {
				t.Fatalf("expected reason %q, got %q", tc.want, got)
			}
		})
	}
}

func TestObserveJobCountsTimeouts(t *testing.T) {
	registry := prometheus.NewRegistry()
	metrics := newSchedulerMetrics(registry, Config{
		ServiceName: "ar-engine",
		Environment: "test",
	})

	metrics.ObserveJob("aging_snapshot", time.Second, nil)
	metrics.ObserveJob("aging_snapshot", time.Second, context.DeadlineExceeded)
	metrics.ObserveJob("aging_snapshot", time.Second, errors.New("boom"))

	if got := testutil.ToFloat64(metrics.jobRuns.WithLabelValues("aging_snapshot")); got != 3 {
		t.Fatalf("expected 3 job runs, got %v", got)
	}
	if got := testutil.ToFloat64(metrics.jobTimeouts.WithLabelValues("aging_snapshot")); got != 1 {
		t.Fatalf("expected 1 timeout, got %v", got)
	}
	if got := testutil.ToFloat64(metrics.jobErrors.WithLabelValues("aging_snapshot", SchedulerJobReasonUnknown)); got != 1 {
		t.Fatalf("expected 1 unknown error, got %v", got)
	}
}
