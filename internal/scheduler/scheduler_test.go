package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	agingdomain "github.com/Vignesh4110/finance-modernization/internal/aging/domain"
	"github.com/Vignesh4110/finance-modernization/internal/clock"
	schedulerdomain "github.com/Vignesh4110/finance-modernization/internal/scheduler/domain"
	"github.com/Vignesh4110/finance-modernization/pkg/db"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type mockAgingSvc struct {
	calls   int
	lastReq agingdomain.RunRequest
	summary agingdomain.ARSummary
	err     error
}

func (m *mockAgingSvc) InvoiceAging(context.Context, agingdomain.RunRequest) (agingdomain.InvoiceAgingResponse, error) {
	return agingdomain.InvoiceAgingResponse{}, nil
}

func (m *mockAgingSvc) CustomerRisk(context.Context, agingdomain.RunRequest) (agingdomain.CustomerRiskResponse, error) {
	return agingdomain.CustomerRiskResponse{}, nil
}

func (m *mockAgingSvc) Summary(context.Context, agingdomain.RunRequest) (agingdomain.SummaryResponse, error) {
	return agingdomain.SummaryResponse{}, nil
}

func (m *mockAgingSvc) RunSnapshot(ctx context.Context, req agingdomain.RunRequest) (agingdomain.ARSummary, error) {
	m.calls++
	m.lastReq = req
	return m.summary, m.err
}

func setupSchedulerTest(t *testing.T, svc agingdomain.Service, cfg Config) (*Scheduler, *gorm.DB, *clock.FakeClock) {
	t.Helper()

	gdb, err := db.NewTest()
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := gdb.AutoMigrate(&schedulerdomain.JobRun{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	fake := clock.NewFakeClock(time.Date(2026, 3, 15, 2, 0, 0, 0, time.UTC))
	sched, err := New(Params{
		DB:       gdb,
		Log:      zap.NewNop(),
		AgingSvc: svc,
		Clock:    fake,
		Config:   cfg,
	})
	if err != nil {
		t.Fatalf("failed to build scheduler: %v", err)
	}
	return sched, gdb, fake
}

func TestNewRejectsMissingDeps(t *testing.T) {
	_, err := New(Params{Log: zap.NewNop()})
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestRunOnceRecordsJobRun(t *testing.T) {
	mock := &mockAgingSvc{summary: agingdomain.ARSummary{InvoiceCount: 42, ExcludedCount: 3}}
	sched, gdb, fake := setupSchedulerTest(t, mock, Config{})

	if err := sched.RunOnce(context.Background()); err != nil {
		t.Fatalf("RunOnce returned error: %v", err)
	}

	if mock.calls != 1 {
		t.Fatalf("expected one snapshot run, got %d", mock.calls)
	}
	if mock.lastReq.Trigger != "scheduler" {
		t.Fatalf("expected scheduler trigger, got %q", mock.lastReq.Trigger)
	}
	if !mock.lastReq.AsOf.Equal(fake.Now()) {
		t.Fatalf("expected as-of %v, got %v", fake.Now(), mock.lastReq.AsOf)
	}

	var runs []schedulerdomain.JobRun
	if err := gdb.Find(&runs).Error; err != nil {
		t.Fatalf("failed to load job runs: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected one job run row, got %d", len(runs))
	}
	run := runs[0]
	if run.JobName != "aging_snapshot" {
		t.Fatalf("unexpected job name %q", run.JobName)
	}
	if run.Status != schedulerdomain.JobStatusSucceeded {
		t.Fatalf("expected succeeded status, got %q", run.Status)
	}
	if run.FinishedAt == nil {
		t.Fatal("expected finished_at to be set")
	}
	if run.RowsProcessed != 42 || run.RowsExcluded != 3 {
		t.Fatalf("unexpected row counts: processed=%d excluded=%d", run.RowsProcessed, run.RowsExcluded)
	}
}

func TestRunOnceRecordsFailure(t *testing.T) {
	mock := &mockAgingSvc{err: errors.New("boom")}
	sched, gdb, _ := setupSchedulerTest(t, mock, Config{})

	if err := sched.RunOnce(context.Background()); err == nil {
		t.Fatal("expected error from failing job")
	}

	var run schedulerdomain.JobRun
	if err := gdb.First(&run).Error; err != nil {
		t.Fatalf("failed to load job run: %v", err)
	}
	if run.Status != schedulerdomain.JobStatusFailed {
		t.Fatalf("expected failed status, got %q", run.Status)
	}
	if run.Error == "" {
		t.Fatal("expected error message on job run row")
	}
}

func TestRunOnceTimeoutIsSoftFailure(t *testing.T) {
	mock := &mockAgingSvc{err: context.DeadlineExceeded}
	sched, gdb, _ := setupSchedulerTest(t, mock, Config{JobTimeout: time.Nanosecond})

	// Deadline errors are logged and skipped so the run loop keeps going.
	if err := sched.RunOnce(context.Background()); err != nil {
		t.Fatalf("expected timeout to be swallowed, got %v", err)
	}

	var run schedulerdomain.JobRun
	if err := gdb.First(&run).Error; err != nil {
		t.Fatalf("failed to load job run: %v", err)
	}
	if run.Status != schedulerdomain.JobStatusFailed {
		t.Fatalf("expected failed status on timeout, got %q", run.Status)
	}
}

func TestRunOnceSkipsDisabledJobs(t *testing.T) {
	mock := &mockAgingSvc{}
	sched, gdb, _ := setupSchedulerTest(t, mock, Config{EnabledJobs: []string{"other_job"}})

	if err := sched.RunOnce(context.Background()); err != nil {
		t.Fatalf("RunOnce returned error: %v", err)
	}
	if mock.calls != 0 {
		t.Fatalf("expected disabled job to be skipped, got %d calls", mock.calls)
	}

	var count int64
	if err := gdb.Model(&schedulerdomain.JobRun{}).Count(&count).Error; err != nil {
		t.Fatalf("failed to count job runs: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected no job run rows, got %d", count)
	}
}

func TestIsJobEnabledCaseInsensitive(t *testing.T) {
	mock := &mockAgingSvc{}
	sched, _, _ := setupSchedulerTest(t, mock, Config{EnabledJobs: []string{"Aging_Snapshot"}})

	if !sched.isJobEnabled("aging_snapshot") {
		t.Fatal("expected case-insensitive job match")
	}
	if sched.isJobEnabled("unknown_job") {
		t.Fatal("expected unknown job to be disabled")
	}
}
