package domain

import "time"

// Job run outcomes recorded in job_runs.
const (
	JobStatusRunning   = "running"
	JobStatusSucceeded = "succeeded"
	JobStatusFailed    = "failed"
)

// JobRun is the bookkeeping row for one scheduler job execution.
type JobRun struct {
	ID            string     `gorm:"primaryKey;size:36" json:"id"`
	JobName       string     `gorm:"not null;index" json:"job_name"`
	Status        string     `gorm:"not null" json:"status"`
	StartedAt     time.Time  `gorm:"not null" json:"started_at"`
	FinishedAt    *time.Time `json:"finished_at,omitempty"`
	RowsProcessed int        `gorm:"not null;default:0" json:"rows_processed"`
	RowsExcluded  int        `gorm:"not null;default:0" json:"rows_excluded"`
	Error         string     `json:"error,omitempty"`
}

func (JobRun) TableName() string { return "job_runs" }
