package domain

import (
	"context"

	"github.com/Vignesh4110/finance-modernization/pkg/db/pagination"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, invoice *Invoice) error
	FindByInvoiceNo(ctx context.Context, db *gorm.DB, invoiceNo int64) (*Invoice, error)
	List(ctx context.Context, db *gorm.DB, filter ListInvoiceFilter, page pagination.Pagination) ([]*Invoice, error)
	ListAll(ctx context.Context, db *gorm.DB) ([]*Invoice, error)
}
