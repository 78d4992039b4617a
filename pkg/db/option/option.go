package option

import (
	"strconv"
	"time"

	"github.com/Vignesh4110/finance-modernization/pkg/db/pagination"
	"gorm.io/gorm"
)

// Option mutates a gorm statement before execution.
type Option interface {
	Apply(stmt *gorm.DB) *gorm.DB
}

type paginationOption struct {
	page pagination.Pagination
}

// ApplyPagination applies keyset pagination to a statement. Repositories
// fetch pageSize+1 rows so the caller can detect a next page. A malformed
// page token is ignored and the first page is returned.
func ApplyPagination(page pagination.Pagination) Option {
	return paginationOption{page: page}
}

func (o paginationOption) Apply(stmt *gorm.DB) *gorm.DB {
	pageSize := o.page.PageSize
	if pageSize <= 0 {
		pageSize = pagination.DefaultPageSize
	}

	if o.page.PageToken != "" {
		if cursor, err := pagination.DecodeCursor(o.page.PageToken); err == nil {
			createdAt, timeErr := time.Parse(time.RFC3339Nano, cursor.CreatedAt)
			id, idErr := strconv.ParseInt(cursor.ID, 10, 64)
			if timeErr == nil && idErr == nil {
				stmt = stmt.Where("(created_at < ?) OR (created_at = ? AND id < ?)",
					createdAt, createdAt, id)
			}
		}
	}

	return stmt.Limit(pageSize + 1)
}
