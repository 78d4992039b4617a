package repository

import (
	"context"

	"github.com/Vignesh4110/finance-modernization/internal/payment/domain"
	"github.com/Vignesh4110/finance-modernization/pkg/db/option"
	"github.com/Vignesh4110/finance-modernization/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, payment *domain.Payment) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO payments (id, payment_no, customer_no, invoice_ref, payment_date, amount, applied_flag, applied_amount, unapplied_amount, method, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		payment.ID,
		payment.PaymentNo,
		payment.CustomerNo,
		payment.InvoiceRef,
		payment.PaymentDate,
		payment.Amount,
		payment.AppliedFlag,
		payment.AppliedAmount,
		payment.UnappliedAmount,
		payment.Method,
		payment.CreatedAt,
		payment.UpdatedAt,
	).Error
}

func (r *repo) FindByPaymentNo(ctx context.Context, db *gorm.DB, paymentNo int64) (*domain.Payment, error) {
	var payment domain.Payment
	err := db.WithContext(ctx).Raw(
		`SELECT id, payment_no, customer_no, invoice_ref, payment_date, amount, applied_flag, applied_amount, unapplied_amount, method, created_at, updated_at
		 FROM payments WHERE payment_no = ?`,
		paymentNo,
	).Scan(&payment).Error
	if err != nil {
		return nil, err
	}
	if payment.ID == 0 {
		return nil, nil
	}
	return &payment, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListPaymentFilter, page pagination.Pagination) ([]*domain.Payment, error) {
	var payments []*domain.Payment
	stmt := db.WithContext(ctx).
		Model(&domain.Payment{})
	if filter.CustomerNo > 0 {
		stmt = stmt.Where("customer_no = ?", filter.CustomerNo)
	}
	if filter.InvoiceRef > 0 {
		stmt = stmt.Where("invoice_ref = ?", filter.InvoiceRef)
	}
	if filter.Method != "" {
		stmt = stmt.Where("method = ?", filter.Method)
	}
	if filter.PaidFrom != nil {
		stmt = stmt.Where("payment_date >= ?", *filter.PaidFrom)
	}
	if filter.PaidTo != nil {
		stmt = stmt.Where("payment_date <= ?", *filter.PaidTo)
	}
	stmt = option.ApplyPagination(page).Apply(stmt)
	err := stmt.
		Order("created_at desc, id desc").
		Find(&payments).Error
	if err != nil {
		return nil, err
	}
	return payments, nil
}

func (r *repo) ListAll(ctx context.Context, db *gorm.DB) ([]*domain.Payment, error) {
	var payments []*domain.Payment
	err := db.WithContext(ctx).Raw(
		`SELECT id, payment_no, customer_no, invoice_ref, payment_date, amount, applied_flag, applied_amount, unapplied_amount, method, created_at, updated_at
		 FROM payments ORDER BY payment_no`,
	).Scan(&payments).Error
	if err != nil {
		return nil, err
	}
	return payments, nil
}
