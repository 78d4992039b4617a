package scheduler

import (
	"context"
	"os"
	"strings"
	"time"

	"go.uber.org/fx"
)

var Module = fx.Module("scheduler",
	fx.Provide(ProvideConfig),
	fx.Provide(New),
	fx.Invoke(NewScheduler),
)

// ProvideConfig reads scheduler tuning from the environment.
func ProvideConfig() Config {
	cfg := DefaultConfig()
	if v := os.Getenv("SCHEDULER_RUN_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.RunInterval = d
		}
	}
	if v := os.Getenv("SCHEDULER_JOB_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.JobTimeout = d
		}
	}
	if v := os.Getenv("SCHEDULER_ENABLED_JOBS"); v != "" {
		for _, job := range strings.Split(v, ",") {
			if job = strings.TrimSpace(job); job != "" {
				cfg.EnabledJobs = append(cfg.EnabledJobs, job)
			}
		}
	}
	return cfg
}

func NewScheduler(lc fx.Lifecycle, sched *Scheduler) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ctx, cancel := context.WithCancel(context.Background())

			go sched.RunForever(ctx)

			lc.Append(fx.Hook{
				OnStop: func(context.Context) error {
					cancel()
					return nil
				},
			})

			return nil
		},
	})
}
