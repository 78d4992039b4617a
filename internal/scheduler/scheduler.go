package scheduler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	agingdomain "github.com/Vignesh4110/finance-modernization/internal/aging/domain"
	"github.com/Vignesh4110/finance-modernization/internal/clock"
	obsmetrics "github.com/Vignesh4110/finance-modernization/internal/observability/metrics"
	schedulerdomain "github.com/Vignesh4110/finance-modernization/internal/scheduler/domain"
	"github.com/google/uuid"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var ErrInvalidConfig = errors.New("scheduler requires db, log, aging service and clock")

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	AgingSvc agingdomain.Service
	Clock    clock.Clock
	Config   Config `optional:"true"`
}

// Scheduler replaces the legacy nightly batch: it recomputes and stores
// the portfolio snapshot on a fixed interval.
type Scheduler struct {
	db       *gorm.DB
	log      *zap.Logger
	cfg      Config
	clock    clock.Clock
	agingSvc agingdomain.Service
}

func New(p Params) (*Scheduler, error) {
	if p.DB == nil || p.Log == nil || p.AgingSvc == nil || p.Clock == nil {
		return nil, ErrInvalidConfig
	}
	return &Scheduler{
		db:       p.DB,
		log:      p.Log.Named("scheduler").With(zap.String("component", "scheduler")),
		cfg:      p.Config.withDefaults(),
		clock:    p.Clock,
		agingSvc: p.AgingSvc,
	}, nil
}

// RunOnce executes every enabled job a single time.
func (s *Scheduler) RunOnce(parent context.Context) error {
	var err error

	jobs := []struct {
		Name string
		Run  func(context.Context) error
	}{
		{"aging_snapshot", s.AgingSnapshotJob},
	}

	for _, job := range jobs {
		if !s.isJobEnabled(job.Name) {
			continue
		}
		err = errors.Join(err, s.runJob(parent, job.Name, s.cfg.JobTimeout, job.Run))
	}

	return err
}

// RunForever ticks at the configured interval until the context ends.
func (s *Scheduler) RunForever(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.RunInterval)
	defer ticker.Stop()
	nextRun := s.clock.Now().Add(s.cfg.RunInterval)
	schedMetrics := obsmetrics.Scheduler()

	for {
		runLag := time.Since(nextRun)
		if runLag > 0 {
			schedMetrics.ObserveRunLoopLag(runLag)
		}
		if err := s.RunOnce(ctx); err != nil {
			s.log.Warn("scheduler run failed", zap.Error(err))
		}
		nextRun = nextRun.Add(s.cfg.RunInterval)

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// AgingSnapshotJob recomputes today's summary snapshot. Reruns replace the
// snapshot for the same date, so a crashed run can simply be retried.
func (s *Scheduler) AgingSnapshotJob(ctx context.Context) error {
	summary, err := s.agingSvc.RunSnapshot(ctx, agingdomain.RunRequest{
		AsOf:    s.clock.Now(),
		Trigger: obsmetrics.RunTriggerScheduler,
	})
	if err != nil {
		return err
	}

	s.recordJobCounts(ctx, summary.InvoiceCount, summary.ExcludedCount)
	return nil
}

func (s *Scheduler) runJob(
	parent context.Context,
	name string,
	timeout time.Duration,
	fn func(ctx context.Context) error,
) error {
	start := s.clock.Now()
	ctx, cancel := context.WithTimeout(parent, timeout)
	defer cancel()

	run := s.startJobRun(ctx, name)
	log := s.log.With(
		zap.String("job", name),
		zap.String("run_id", run.ID),
	)
	log.Info("job started")

	err := fn(withJobRun(ctx, run))
	obsmetrics.Scheduler().ObserveJob(name, time.Since(start), err)

	s.finishJobRun(ctx, run, err)

	if err == nil {
		log.Info("job finished", zap.Duration("elapsed", time.Since(start)))
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		log.Warn("job timed out",
			zap.Duration("timeout", timeout),
			zap.Error(err),
		)
		return nil
	}

	log.Error("job failed", zap.Error(err))
	return fmt.Errorf("%s: %w", name, err)
}

func (s *Scheduler) isJobEnabled(jobName string) bool {
	// An empty EnabledJobs list enables everything.
	if len(s.cfg.EnabledJobs) == 0 {
		return true
	}
	for _, enabled := range s.cfg.EnabledJobs {
		if strings.EqualFold(enabled, jobName) {
			return true
		}
	}
	return false
}

func (s *Scheduler) startJobRun(ctx context.Context, name string) *schedulerdomain.JobRun {
	run := &schedulerdomain.JobRun{
		ID:        uuid.NewString(),
		JobName:   name,
		Status:    schedulerdomain.JobStatusRunning,
		StartedAt: s.clock.Now(),
	}
	if err := s.db.WithContext(ctx).Create(run).Error; err != nil {
		s.log.Warn("job run bookkeeping failed", zap.String("job", name), zap.Error(err))
	}
	return run
}

func (s *Scheduler) finishJobRun(ctx context.Context, run *schedulerdomain.JobRun, jobErr error) {
	finished := s.clock.Now()
	run.FinishedAt = &finished
	run.Status = schedulerdomain.JobStatusSucceeded
	if jobErr != nil {
		run.Status = schedulerdomain.JobStatusFailed
		run.Error = jobErr.Error()
	}
	if err := s.db.WithContext(ctx).Save(run).Error; err != nil {
		s.log.Warn("job run bookkeeping failed", zap.String("job", run.JobName), zap.Error(err))
	}
}

func (s *Scheduler) recordJobCounts(ctx context.Context, processed, excluded int) {
	run := jobRunFromContext(ctx)
	if run == nil {
		return
	}
	run.RowsProcessed = processed
	run.RowsExcluded = excluded
}

type jobRunKey struct{}

func withJobRun(ctx context.Context, run *schedulerdomain.JobRun) context.Context {
	return context.WithValue(ctx, jobRunKey{}, run)
}

func jobRunFromContext(ctx context.Context) *schedulerdomain.JobRun {
	run, ok := ctx.Value(jobRunKey{}).(*schedulerdomain.JobRun)
	if !ok {
		return nil
	}
	return run
}
