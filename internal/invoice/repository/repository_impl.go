package repository

import (
	"context"

	"github.com/Vignesh4110/finance-modernization/internal/invoice/domain"
	"github.com/Vignesh4110/finance-modernization/pkg/db/option"
	"github.com/Vignesh4110/finance-modernization/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, invoice *domain.Invoice) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO invoices (id, invoice_no, customer_no, invoice_date, due_date, terms_days, invoice_amount, tax_amount, freight_amount, discount_amount, gross_amount, amount_paid, balance_due, status, hold_flag, dispute_flag, dispute_reason, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		invoice.ID,
		invoice.InvoiceNo,
		invoice.CustomerNo,
		invoice.InvoiceDate,
		invoice.DueDate,
		invoice.TermsDays,
		invoice.InvoiceAmount,
		invoice.TaxAmount,
		invoice.FreightAmount,
		invoice.DiscountAmount,
		invoice.GrossAmount,
		invoice.AmountPaid,
		invoice.BalanceDue,
		invoice.Status,
		invoice.HoldFlag,
		invoice.DisputeFlag,
		invoice.DisputeReason,
		invoice.CreatedAt,
		invoice.UpdatedAt,
	).Error
}

func (r *repo) FindByInvoiceNo(ctx context.Context, db *gorm.DB, invoiceNo int64) (*domain.Invoice, error) {
	var invoice domain.Invoice
	err := db.WithContext(ctx).Raw(
		`SELECT id, invoice_no, customer_no, invoice_date, due_date, terms_days, invoice_amount, tax_amount, freight_amount, discount_amount, gross_amount, amount_paid, balance_due, status, hold_flag, dispute_flag, dispute_reason, created_at, updated_at
		 FROM invoices WHERE invoice_no = ?`,
		invoiceNo,
	).Scan(&invoice).Error
	if err != nil {
		return nil, err
	}
	if invoice.ID == 0 {
		return nil, nil
	}
	return &invoice, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListInvoiceFilter, page pagination.Pagination) ([]*domain.Invoice, error) {
	var invoices []*domain.Invoice
	stmt := db.WithContext(ctx).
		Model(&domain.Invoice{})
	if filter.CustomerNo > 0 {
		stmt = stmt.Where("customer_no = ?", filter.CustomerNo)
	}
	if filter.Status != "" {
		stmt = stmt.Where("status = ?", filter.Status)
	}
	if filter.DueFrom != nil {
		stmt = stmt.Where("due_date >= ?", *filter.DueFrom)
	}
	if filter.DueTo != nil {
		stmt = stmt.Where("due_date <= ?", *filter.DueTo)
	}
	stmt = option.ApplyPagination(page).Apply(stmt)
	err := stmt.
		Order("created_at desc, id desc").
		Find(&invoices).Error
	if err != nil {
		return nil, err
	}
	return invoices, nil
}

func (r *repo) ListAll(ctx context.Context, db *gorm.DB) ([]*domain.Invoice, error) {
	var invoices []*domain.Invoice
	err := db.WithContext(ctx).Raw(
		`SELECT id, invoice_no, customer_no, invoice_date, due_date, terms_days, invoice_amount, tax_amount, freight_amount, discount_amount, gross_amount, amount_paid, balance_due, status, hold_flag, dispute_flag, dispute_reason, created_at, updated_at
		 FROM invoices ORDER BY invoice_no`,
	).Scan(&invoices).Error
	if err != nil {
		return nil, err
	}
	return invoices, nil
}
