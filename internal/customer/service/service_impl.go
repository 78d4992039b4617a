package service

import (
	"context"
	"strings"
	"time"

	"github.com/Vignesh4110/finance-modernization/internal/customer/domain"
	"github.com/Vignesh4110/finance-modernization/pkg/db/pagination"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
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
		log:   p.Log.Named("customer.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateCustomerRequest) (domain.Customer, error) {
	if req.CustomerNo <= 0 {
		return domain.Customer{}, domain.ErrInvalidCustomerNo
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Customer{}, domain.ErrInvalidName
	}

	segment := strings.ToUpper(strings.TrimSpace(req.Segment))
	if !domain.ValidSegment(segment) {
		return domain.Customer{}, domain.ErrInvalidSegment
	}

	if req.CreditLimit.IsNegative() {
		return domain.Customer{}, domain.ErrInvalidCreditLimit
	}
	if req.CreditUsed.IsNegative() {
		return domain.Customer{}, domain.ErrInvalidCreditUsed
	}

	creditStatus := normalizeStatus(req.CreditStatus, domain.CreditStatusActive)
	if !domain.ValidCreditStatus(creditStatus) {
		return domain.Customer{}, domain.ErrInvalidCreditStatus
	}
	accountStatus := normalizeStatus(req.AccountStatus, domain.AccountStatusActive)
	if !domain.ValidAccountStatus(accountStatus) {
		return domain.Customer{}, domain.ErrInvalidAccountStatus
	}

	existing, err := s.repo.FindByCustomerNo(ctx, s.db, req.CustomerNo)
	if err != nil {
		return domain.Customer{}, err
	}
	if existing != nil {
		return domain.Customer{}, domain.ErrDuplicateCustomer
	}

	now := time.Now().UTC()
	customer := domain.Customer{
		ID:            s.genID.Generate(),
		CustomerNo:    req.CustomerNo,
		Name:          name,
		Segment:       segment,
		Region:        strings.ToUpper(strings.TrimSpace(req.Region)),
		Industry:      strings.ToUpper(strings.TrimSpace(req.Industry)),
		CreditLimit:   req.CreditLimit.Round(2),
		CreditUsed:    req.CreditUsed.Round(2),
		CreditStatus:  creditStatus,
		AccountStatus: accountStatus,
		TermsDays:     req.TermsDays,
		Metadata:      datatypes.JSONMap{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.repo.Insert(ctx, s.db, &customer); err != nil {
		return domain.Customer{}, err
	}

	return customer, nil
}

func (s *Service) List(ctx context.Context, req domain.ListCustomerRequest) (domain.ListCustomerResponse, error) {
	filter := domain.ListCustomerFilter{
		Segment:  strings.ToUpper(strings.TrimSpace(req.Segment)),
		Region:   strings.ToUpper(strings.TrimSpace(req.Region)),
		Industry: strings.ToUpper(strings.TrimSpace(req.Industry)),
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
		return domain.ListCustomerResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(items, int(pageSize), func(customer *domain.Customer) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        customer.ID.String(),
			CreatedAt: customer.CreatedAt.Format(time.RFC3339Nano),
		})
		if err != nil {
			return ""
		}
		return token
	})
	if pageInfo != nil && pageInfo.HasMore && len(items) > int(pageSize) {
		items = items[:pageSize]
	}

	customers := make([]domain.Customer, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		customers = append(customers, *item)
	}

	resp := domain.ListCustomerResponse{Customers: customers}
	if pageInfo != nil {
		resp.PageInfo = *pageInfo
	}

	return resp, nil
}

// normalizeStatus uppercases a one-letter status code, defaulting blanks.
func normalizeStatus(status, fallback string) string {
	status = strings.ToUpper(strings.TrimSpace(status))
	if status == "" {
		return fallback
	}
	return status
}

func (s *Service) GetByCustomerNo(ctx context.Context, req domain.GetCustomerRequest) (domain.Customer, error) {
	if req.CustomerNo <= 0 {
		return domain.Customer{}, domain.ErrInvalidCustomerNo
	}

	item, err := s.repo.FindByCustomerNo(ctx, s.db, req.CustomerNo)
	if err != nil {
		return domain.Customer{}, err
	}
	if item == nil {
		return domain.Customer{}, domain.ErrNotFound
	}

	return *item, nil
}
