package domain

import (
	"context"

	"github.com/Vignesh4110/finance-modernization/pkg/db/pagination"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, customer *Customer) error
	FindByCustomerNo(ctx context.Context, db *gorm.DB, customerNo int64) (*Customer, error)
	List(ctx context.Context, db *gorm.DB, filter ListCustomerFilter, page pagination.Pagination) ([]*Customer, error)
	ListAll(ctx context.Context, db *gorm.DB) ([]*Customer, error)
}
