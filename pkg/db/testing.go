package db

import (
	"fmt"
	"sync/atomic"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

var testDBSeq atomic.Int64

// NewTest opens an isolated in-memory sqlite database. Each call gets its
// own named database so parallel tests don't share tables.
func NewTest() (*gorm.DB, error) {
	dsn := fmt.Sprintf("file:testdb_%d?mode=memory&cache=shared", testDBSeq.Add(1))
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}
	return conn, nil
}
