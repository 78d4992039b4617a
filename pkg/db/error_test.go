package db

import (
	"errors"
	"fmt"
	"testing"

	"gorm.io/gorm"
)

func TestIsDuplicateKeyErr(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"gorm sentinel", gorm.ErrDuplicatedKey, true},
		{"wrapped sentinel", fmt.Errorf("insert: %w", gorm.ErrDuplicatedKey), true},
		{"postgres 23505", errors.New(`ERROR: duplicate key value violates unique constraint "invoices_invoice_no_key" (SQLSTATE 23505)`), true},
		{"mysql 1062", errors.New("Error 1062 (23000): Duplicate entry '1000001' for key 'invoices.invoice_no'"), true},
		{"sqlite 2067", errors.New("constraint failed: UNIQUE constraint failed: invoices.invoice_no (2067)"), true},
		{"unrelated", errors.New("connection refused"), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsDuplicateKeyErr(tc.err); got != tc.want {
				t.Fatalf("IsDuplicateKeyErr(%v) = %v, want %v", tc.err, got, tc.want)
			}
		})
	}
}
