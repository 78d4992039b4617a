package repository

import (
	"context"

	"github.com/Vignesh4110/finance-modernization/internal/customer/domain"
	"github.com/Vignesh4110/finance-modernization/pkg/db/option"
	"github.com/Vignesh4110/finance-modernization/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, customer *domain.Customer) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO customers (id, customer_no, name, segment, region, industry, credit_limit, credit_used, credit_status, account_status, terms_days, metadata, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		customer.ID,
		customer.CustomerNo,
		customer.Name,
		customer.Segment,
		customer.Region,
		customer.Industry,
		customer.CreditLimit,
		customer.CreditUsed,
		customer.CreditStatus,
		customer.AccountStatus,
		customer.TermsDays,
		customer.Metadata,
		customer.CreatedAt,
		customer.UpdatedAt,
	).Error
}

func (r *repo) FindByCustomerNo(ctx context.Context, db *gorm.DB, customerNo int64) (*domain.Customer, error) {
	var customer domain.Customer
	err := db.WithContext(ctx).Raw(
		`SELECT id, customer_no, name, segment, region, industry, credit_limit, credit_used, credit_status, account_status, terms_days, metadata, created_at, updated_at
		 FROM customers WHERE customer_no = ?`,
		customerNo,
	).Scan(&customer).Error
	if err != nil {
		return nil, err
	}
	if customer.ID == 0 {
		return nil, nil
	}
	return &customer, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListCustomerFilter, page pagination.Pagination) ([]*domain.Customer, error) {
	var customers []*domain.Customer
	stmt := db.WithContext(ctx).
		Model(&domain.Customer{})
	if filter.Segment != "" {
		stmt = stmt.Where("segment = ?", filter.Segment)
	}
	if filter.Region != "" {
		stmt = stmt.Where("region = ?", filter.Region)
	}
	if filter.Industry != "" {
		stmt = stmt.Where("industry = ?", filter.Industry)
	}
	stmt = option.ApplyPagination(page).Apply(stmt)
	err := stmt.
		Order("created_at desc, id desc").
		Find(&customers).Error
	if err != nil {
		return nil, err
	}
	return customers, nil
}

func (r *repo) ListAll(ctx context.Context, db *gorm.DB) ([]*domain.Customer, error) {
	var customers []*domain.Customer
	err := db.WithContext(ctx).Raw(
		`SELECT id, customer_no, name, segment, region, industry, credit_limit, credit_used, credit_status, account_status, terms_days, metadata, created_at, updated_at
		 FROM customers ORDER BY customer_no`,
	).Scan(&customers).Error
	if err != nil {
		return nil, err
	}
	return customers, nil
}
