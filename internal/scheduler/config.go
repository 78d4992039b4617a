package scheduler

import (
	"time"
)

// Config controls scheduler cadence and job timeouts.
type Config struct {
	RunInterval time.Duration
	JobTimeout  time.Duration
	EnabledJobs []string
}

func DefaultConfig() Config {
	return Config{
		RunInterval: 24 * time.Hour,
		JobTimeout:  10 * time.Minute,
	}
}

func (c Config) withDefaults() Config {
	defaults := DefaultConfig()
	if c.RunInterval <= 0 {
		c.RunInterval = defaults.RunInterval
	}
	if c.JobTimeout <= 0 {
		c.JobTimeout = defaults.JobTimeout
	}
	return c
}
