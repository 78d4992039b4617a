package service

import (
	"context"
	"strings"
	"time"

	"github.com/Vignesh4110/finance-modernization/internal/payment/domain"
	"github.com/Vignesh4110/finance-modernization/pkg/db/pagination"
	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("payment.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreatePaymentRequest) (domain.Payment, error) {
	if req.PaymentNo <= 0 {
		return domain.Payment{}, domain.ErrInvalidPaymentNo
	}
	if req.CustomerNo <= 0 {
		return domain.Payment{}, domain.ErrInvalidCustomerNo
	}
	if req.PaymentDate.IsZero() {
		return domain.Payment{}, domain.ErrInvalidPaymentDate
	}
	if !req.Amount.IsPositive() {
		return domain.Payment{}, domain.ErrInvalidAmount
	}

	method := strings.ToUpper(strings.TrimSpace(req.Method))
	if !domain.ValidMethod(method) {
		return domain.Payment{}, domain.ErrInvalidMethod
	}

	existing, err := s.repo.FindByPaymentNo(ctx, s.db, req.PaymentNo)
	if err != nil {
		return domain.Payment{}, err
	}
	if existing != nil {
		return domain.Payment{}, domain.ErrDuplicatePayment
	}

	invoiceRef := req.InvoiceRef
	if invoiceRef < 0 {
		invoiceRef = 0
	}

	// Cash application proper lives upstream; here a remittance counts as
	// applied in full when it names an invoice, unapplied in full otherwise.
	amount := req.Amount.Round(2)
	applied := invoiceRef > 0
	appliedAmount := decimal.Zero
	if applied {
		appliedAmount = amount
	}

	now := time.Now().UTC()
	payment := domain.Payment{
		ID:              s.genID.Generate(),
		PaymentNo:       req.PaymentNo,
		CustomerNo:      req.CustomerNo,
		InvoiceRef:      invoiceRef,
		PaymentDate:     req.PaymentDate.UTC(),
		Amount:          amount,
		AppliedFlag:     applied,
		AppliedAmount:   appliedAmount,
		UnappliedAmount: amount.Sub(appliedAmount),
		Method:          method,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.repo.Insert(ctx, s.db, &payment); err != nil {
		return domain.Payment{}, err
	}

	return payment, nil
}

func (s *Service) List(ctx context.Context, req domain.ListPaymentRequest) (domain.ListPaymentResponse, error) {
	filter := domain.ListPaymentFilter{
		CustomerNo: req.CustomerNo,
		InvoiceRef: req.InvoiceRef,
		Method:     strings.ToUpper(strings.TrimSpace(req.Method)),
		PaidFrom:   req.PaidFrom,
		PaidTo:     req.PaidTo,
	}

	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = pagination.DefaultPageSize
	}

	items, err := s.repo.List(ctx, s.db, filter, pagination.Pagination{
		PageToken: req.PageToken,
		PageSize:  int(pageSize),
	})
	if err != nil {
		return domain.ListPaymentResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(items, int(pageSize), func(payment *domain.Payment) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        payment.ID.String(),
			CreatedAt: payment.CreatedAt.Format(time.RFC3339Nano),
		})
		if err != nil {
			return ""
		}
		return token
	})
	if pageInfo != nil && pageInfo.HasMore && len(items) > int(pageSize) {
		items = items[:pageSize]
	}

	payments := make([]domain.Payment, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		payments = append(payments, *item)
	}

	resp := domain.ListPaymentResponse{Payments: payments}
	if pageInfo != nil {
		resp.PageInfo = *pageInfo
	}

	return resp, nil
}

func (s *Service) GetByPaymentNo(ctx context.Context, req domain.GetPaymentRequest) (domain.Payment, error) {
	if req.PaymentNo <= 0 {
		return domain.Payment{}, domain.ErrInvalidPaymentNo
	}

	item, err := s.repo.FindByPaymentNo(ctx, s.db, req.PaymentNo)
	if err != nil {
		return domain.Payment{}, err
	}
	if item == nil {
		return domain.Payment{}, domain.ErrNotFound
	}

	return *item, nil
}
