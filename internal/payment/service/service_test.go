package service

import (
	"context"
	"testing"
	"time"

	"github.com/Vignesh4110/finance-modernization/internal/payment/domain"
	"github.com/Vignesh4110/finance-modernization/internal/payment/repository"
	"github.com/Vignesh4110/finance-modernization/pkg/db"
	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func newPaymentService(t *testing.T) domain.Service {
	t.Helper()

	gdb, err := db.NewTest()
	assert.NoError(t, err)
	assert.NoError(t, gdb.AutoMigrate(&domain.Payment{}))

	node, err := snowflake.NewNode(1)
	assert.NoError(t, err)

	return New(Params{
		DB:    gdb,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  repository.Provide(),
	})
}

func TestCreatePayment(t *testing.T) {
	svc := newPaymentService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, domain.CreatePaymentRequest{
		PaymentNo:   500001,
		CustomerNo:  100001,
		InvoiceRef:  1000001,
		PaymentDate: time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		Amount:      decimal.NewFromInt(500),
		Method:      "ck",
	})
	assert.NoError(t, err)
	assert.Equal(t, domain.MethodCheck, created.Method)
	assert.True(t, created.Applied())
	assert.True(t, created.AppliedAmount.Equal(decimal.NewFromInt(500)))
	assert.True(t, created.UnappliedAmount.IsZero())

	fetched, err := svc.GetByPaymentNo(ctx, domain.GetPaymentRequest{PaymentNo: 500001})
	assert.NoError(t, err)
	assert.Equal(t, created.ID, fetched.ID)
}

func TestCreatePaymentUnappliedKeepsZeroRef(t *testing.T) {
	svc := newPaymentService(t)

	created, err := svc.Create(context.Background(), domain.CreatePaymentRequest{
		PaymentNo:   500001,
		CustomerNo:  100001,
		InvoiceRef:  -7,
		PaymentDate: time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		Amount:      decimal.NewFromInt(500),
		Method:      domain.MethodACH,
	})
	assert.NoError(t, err)
	assert.Equal(t, int64(0), created.InvoiceRef)
	assert.False(t, created.Applied())
	assert.True(t, created.AppliedAmount.IsZero())
	assert.True(t, created.UnappliedAmount.Equal(decimal.NewFromInt(500)))
}

func TestCreatePaymentValidation(t *testing.T) {
	svc := newPaymentService(t)
	ctx := context.Background()

	base := domain.CreatePaymentRequest{
		PaymentNo:   500001,
		CustomerNo:  100001,
		PaymentDate: time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		Amount:      decimal.NewFromInt(500),
		Method:      domain.MethodWire,
	}

	req := base
	req.Amount = decimal.Zero
	_, err := svc.Create(ctx, req)
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	req = base
	req.Method = "XX"
	_, err = svc.Create(ctx, req)
	assert.ErrorIs(t, err, domain.ErrInvalidMethod)

	req = base
	req.PaymentDate = time.Time{}
	_, err = svc.Create(ctx, req)
	assert.ErrorIs(t, err, domain.ErrInvalidPaymentDate)
}

func TestListPaymentsFilters(t *testing.T) {
	svc := newPaymentService(t)
	ctx := context.Background()

	seed := []domain.CreatePaymentRequest{
		{PaymentNo: 500001, CustomerNo: 100001, InvoiceRef: 1000001, PaymentDate: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), Amount: decimal.NewFromInt(100), Method: domain.MethodCheck},
		{PaymentNo: 500002, CustomerNo: 100001, PaymentDate: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), Amount: decimal.NewFromInt(200), Method: domain.MethodACH},
		{PaymentNo: 500003, CustomerNo: 100002, InvoiceRef: 1000002, PaymentDate: time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC), Amount: decimal.NewFromInt(300), Method: domain.MethodCheck},
	}
	for _, req := range seed {
		_, err := svc.Create(ctx, req)
		assert.NoError(t, err)
	}

	resp, err := svc.List(ctx, domain.ListPaymentRequest{CustomerNo: 100001})
	assert.NoError(t, err)
	assert.Len(t, resp.Payments, 2)

	resp, err = svc.List(ctx, domain.ListPaymentRequest{Method: "ck"})
	assert.NoError(t, err)
	assert.Len(t, resp.Payments, 2)

	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	resp, err = svc.List(ctx, domain.ListPaymentRequest{PaidFrom: &from})
	assert.NoError(t, err)
	assert.Len(t, resp.Payments, 2)
}
