package service

import (
	"context"
	"strings"
	"time"

	"github.com/Vignesh4110/finance-modernization/internal/invoice/domain"
	"github.com/Vignesh4110/finance-modernization/pkg/db/pagination"
	"github.com/bwmarrin/snowflake"
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
		log:   p.Log.Named("invoice.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateInvoiceRequest) (domain.Invoice, error) {
	if req.InvoiceNo <= 0 {
		return domain.Invoice{}, domain.ErrInvalidInvoiceNo
	}
	if req.CustomerNo <= 0 {
		return domain.Invoice{}, domain.ErrInvalidCustomerNo
	}
	if req.InvoiceDate.IsZero() {
		return domain.Invoice{}, domain.ErrInvalidInvoiceDate
	}
	// A due date is required at the API boundary; the aging run only
	// tolerates its absence for rows loaded outside this path.
	if req.DueDate == nil || req.DueDate.IsZero() {
		return domain.Invoice{}, domain.ErrMissingDueDate
	}

	status := strings.ToUpper(strings.TrimSpace(req.Status))
	if !domain.ValidStatus(status) {
		return domain.Invoice{}, domain.ErrInvalidStatus
	}

	// gross_amount is derived, never accepted from the caller.
	gross := req.InvoiceAmount.Add(req.TaxAmount).Add(req.FreightAmount).Round(2)
	if req.BalanceDue.GreaterThan(gross) {
		return domain.Invoice{}, domain.ErrBalanceExceedsGross
	}

	existing, err := s.repo.FindByInvoiceNo(ctx, s.db, req.InvoiceNo)
	if err != nil {
		return domain.Invoice{}, err
	}
	if existing != nil {
		return domain.Invoice{}, domain.ErrDuplicateInvoice
	}

	now := time.Now().UTC()
	due := req.DueDate.UTC()
	invoice := domain.Invoice{
		ID:             s.genID.Generate(),
		InvoiceNo:      req.InvoiceNo,
		CustomerNo:     req.CustomerNo,
		InvoiceDate:    req.InvoiceDate.UTC(),
		DueDate:        &due,
		TermsDays:      req.TermsDays,
		InvoiceAmount:  req.InvoiceAmount.Round(2),
		TaxAmount:      req.TaxAmount.Round(2),
		FreightAmount:  req.FreightAmount.Round(2),
		DiscountAmount: req.DiscountAmount.Round(2),
		GrossAmount:    gross,
		AmountPaid:     req.AmountPaid.Round(2),
		BalanceDue:     req.BalanceDue.Round(2),
		Status:         status,
		HoldFlag:       req.HoldFlag,
		DisputeFlag:    req.DisputeFlag || status == domain.StatusDisputed,
		DisputeReason:  strings.ToUpper(strings.TrimSpace(req.DisputeReason)),
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.repo.Insert(ctx, s.db, &invoice); err != nil {
		return domain.Invoice{}, err
	}

	return invoice, nil
}

func (s *Service) List(ctx context.Context, req domain.ListInvoiceRequest) (domain.ListInvoiceResponse, error) {
	filter := domain.ListInvoiceFilter{
		CustomerNo: req.CustomerNo,
		Status:     strings.ToUpper(strings.TrimSpace(req.Status)),
		DueFrom:    req.DueFrom,
		DueTo:      req.DueTo,
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
		return domain.ListInvoiceResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(items, int(pageSize), func(invoice *domain.Invoice) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        invoice.ID.String(),
			CreatedAt: invoice.CreatedAt.Format(time.RFC3339Nano),
		})
		if err != nil {
			return ""
		}
		return token
	})
	if pageInfo != nil && pageInfo.HasMore && len(items) > int(pageSize) {
		items = items[:pageSize]
	}

	invoices := make([]domain.Invoice, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		invoices = append(invoices, *item)
	}

	resp := domain.ListInvoiceResponse{Invoices: invoices}
	if pageInfo != nil {
		resp.PageInfo = *pageInfo
	}

	return resp, nil
}

func (s *Service) GetByInvoiceNo(ctx context.Context, req domain.GetInvoiceRequest) (domain.Invoice, error) {
	if req.InvoiceNo <= 0 {
		return domain.Invoice{}, domain.ErrInvalidInvoiceNo
	}

	item, err := s.repo.FindByInvoiceNo(ctx, s.db, req.InvoiceNo)
	if err != nil {
		return domain.Invoice{}, err
	}
	if item == nil {
		return domain.Invoice{}, domain.ErrNotFound
	}

	return *item, nil
}

