package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Vignesh4110/finance-modernization/internal/aging/domain"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SnapshotModel is the persisted shape of one summary snapshot. Bucket
// totals are stored as a JSON document to keep the row schema stable as
// reporting columns evolve.
type SnapshotModel struct {
	AsOfDate               time.Time        `gorm:"column:as_of_date;primaryKey"`
	TotalAR                decimal.Decimal  `gorm:"column:total_ar;type:numeric(16,2);not null"`
	CurrentAmount          decimal.Decimal  `gorm:"column:current_amount;type:numeric(16,2);not null"`
	CurrentPct             decimal.Decimal  `gorm:"column:current_pct;type:numeric(7,2);not null"`
	Buckets                datatypes.JSON   `gorm:"column:buckets"`
	DisputedAmount         decimal.Decimal  `gorm:"column:disputed_amount;type:numeric(16,2);not null"`
	DisputedCount          int              `gorm:"column:disputed_count;not null"`
	DSODays                *decimal.Decimal `gorm:"column:dso_days;type:numeric(10,2)"`
	UnappliedPaymentCount  int              `gorm:"column:unapplied_payment_count;not null"`
	UnappliedPaymentAmount decimal.Decimal  `gorm:"column:unapplied_payment_amount;type:numeric(16,2);not null"`
	OpenCustomerCount      int              `gorm:"column:open_customer_count;not null"`
	OpenInvoiceCount       int              `gorm:"column:open_invoice_count;not null"`
	InvoiceCount           int              `gorm:"column:invoice_count;not null"`
	ExcludedCount          int              `gorm:"column:excluded_count;not null"`
	CreatedAt              time.Time        `gorm:"column:created_at;not null"`
	UpdatedAt              time.Time        `gorm:"column:updated_at;not null"`
}

func (SnapshotModel) TableName() string { return "ar_summary_snapshots" }

type snapshotRepo struct{}

func ProvideSnapshots() domain.SnapshotRepository {
	return &snapshotRepo{}
}

func (r *snapshotRepo) Upsert(ctx context.Context, db *gorm.DB, summary domain.ARSummary) error {
	buckets, err := json.Marshal(summary.Buckets)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	return db.WithContext(ctx).Exec(
		`INSERT INTO ar_summary_snapshots (as_of_date, total_ar, current_amount, current_pct, buckets, disputed_amount, disputed_count, dso_days, unapplied_payment_count, unapplied_payment_amount, open_customer_count, open_invoice_count, invoice_count, excluded_count, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (as_of_date) DO UPDATE SET
		   total_ar = excluded.total_ar,
		   current_amount = excluded.current_amount,
		   current_pct = excluded.current_pct,
		   buckets = excluded.buckets,
		   disputed_amount = excluded.disputed_amount,
		   disputed_count = excluded.disputed_count,
		   dso_days = excluded.dso_days,
		   unapplied_payment_count = excluded.unapplied_payment_count,
		   unapplied_payment_amount = excluded.unapplied_payment_amount,
		   open_customer_count = excluded.open_customer_count,
		   open_invoice_count = excluded.open_invoice_count,
		   invoice_count = excluded.invoice_count,
		   excluded_count = excluded.excluded_count,
		   updated_at = excluded.updated_at`,
		summary.AsOfDate,
		summary.TotalAR,
		summary.CurrentAmount,
		summary.CurrentPct,
		datatypes.JSON(buckets),
		summary.DisputedAmount,
		summary.DisputedCount,
		summary.DSODays,
		summary.UnappliedPaymentCount,
		summary.UnappliedPaymentAmount,
		summary.OpenCustomerCount,
		summary.OpenInvoiceCount,
		summary.InvoiceCount,
		summary.ExcludedCount,
		now,
		now,
	).Error
}

func (r *snapshotRepo) FindByDate(ctx context.Context, db *gorm.DB, asOf time.Time) (*domain.ARSummary, error) {
	var row SnapshotModel
	err := db.WithContext(ctx).Raw(
		`SELECT as_of_date, total_ar, current_amount, current_pct, buckets, disputed_amount, disputed_count, dso_days, unapplied_payment_count, unapplied_payment_amount, open_customer_count, open_invoice_count, invoice_count, excluded_count
		 FROM ar_summary_snapshots WHERE as_of_date = ?`,
		asOf,
	).Scan(&row).Error
	if err != nil {
		return nil, err
	}
	if row.AsOfDate.IsZero() {
		return nil, nil
	}

	var buckets []domain.BucketTotal
	if len(row.Buckets) > 0 {
		if err := json.Unmarshal(row.Buckets, &buckets); err != nil {
			return nil, err
		}
	}

	return &domain.ARSummary{
		AsOfDate:               row.AsOfDate,
		TotalAR:                row.TotalAR,
		CurrentAmount:          row.CurrentAmount,
		CurrentPct:             row.CurrentPct,
		Buckets:                buckets,
		DisputedAmount:         row.DisputedAmount,
		DisputedCount:          row.DisputedCount,
		DSODays:                row.DSODays,
		UnappliedPaymentCount:  row.UnappliedPaymentCount,
		UnappliedPaymentAmount: row.UnappliedPaymentAmount,
		OpenCustomerCount:      row.OpenCustomerCount,
		OpenInvoiceCount:       row.OpenInvoiceCount,
		InvoiceCount:           row.InvoiceCount,
		ExcludedCount:          row.ExcludedCount,
	}, nil
}
