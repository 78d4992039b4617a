package domain

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

// ExcludedRow records one source row dropped by validation, with the
// first failing reason. Excluded rows never crash a run.
type ExcludedRow struct {
	InvoiceNo  int64  `json:"invoice_no"`
	CustomerNo int64  `json:"customer_no"`
	Reason     string `json:"reason"`
}

// Report carries the data-quality outcome of one engine run.
type Report struct {
	Excluded      []ExcludedRow  `json:"excluded"`
	ReasonCounts  map[string]int `json:"reason_counts"`
	OrphanedRows  int            `json:"orphaned_rows"`
	ProcessedRows int            `json:"processed_rows"`
}

type RunRequest struct {
	AsOf      time.Time
	Recompute bool
	Trigger   string
}

type InvoiceAgingResponse struct {
	AsOfDate time.Time      `json:"as_of_date"`
	Invoices []InvoiceAging `json:"invoices"`
	Report   Report         `json:"report"`
}

type CustomerRiskResponse struct {
	AsOfDate  time.Time      `json:"as_of_date"`
	Customers []CustomerRisk `json:"customers"`
}

type SummaryResponse struct {
	Summary ARSummary `json:"summary"`
}

// Service computes aging views for an explicit as-of date. Summary results
// are persisted per date; passing Recompute forces a fresh snapshot.
type Service interface {
	InvoiceAging(ctx context.Context, req RunRequest) (InvoiceAgingResponse, error)
	CustomerRisk(ctx context.Context, req RunRequest) (CustomerRiskResponse, error)
	Summary(ctx context.Context, req RunRequest) (SummaryResponse, error)
	RunSnapshot(ctx context.Context, req RunRequest) (ARSummary, error)
}

// SnapshotRepository persists one summary row per as-of date.
type SnapshotRepository interface {
	Upsert(ctx context.Context, db *gorm.DB, summary ARSummary) error
	FindByDate(ctx context.Context, db *gorm.DB, asOf time.Time) (*ARSummary, error)
}

var (
	ErrInvalidAsOf  = errors.New("invalid_as_of")
	ErrNoSnapshot   = errors.New("no_snapshot")
	ErrRunCancelled = errors.New("run_cancelled")
)
