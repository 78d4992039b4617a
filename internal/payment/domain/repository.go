package domain

import (
	"context"

	"github.com/Vignesh4110/finance-modernization/pkg/db/pagination"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, payment *Payment) error
	FindByPaymentNo(ctx context.Context, db *gorm.DB, paymentNo int64) (*Payment, error)
	List(ctx context.Context, db *gorm.DB, filter ListPaymentFilter, page pagination.Pagination) ([]*Payment, error)
	ListAll(ctx context.Context, db *gorm.DB) ([]*Payment, error)
}
