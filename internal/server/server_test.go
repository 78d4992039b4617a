package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	agingdomain "github.com/Vignesh4110/finance-modernization/internal/aging/domain"
	"github.com/Vignesh4110/finance-modernization/internal/config"
	customerdomain "github.com/Vignesh4110/finance-modernization/internal/customer/domain"
	invoicedomain "github.com/Vignesh4110/finance-modernization/internal/invoice/domain"
	paymentdomain "github.com/Vignesh4110/finance-modernization/internal/payment/domain"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type fakeAgingService struct {
	lastReq agingdomain.RunRequest
	err     error
}

func (f *fakeAgingService) InvoiceAging(ctx context.Context, req agingdomain.RunRequest) (agingdomain.InvoiceAgingResponse, error) {
	f.lastReq = req
	return agingdomain.InvoiceAgingResponse{AsOfDate: req.AsOf}, f.err
}

func (f *fakeAgingService) CustomerRisk(ctx context.Context, req agingdomain.RunRequest) (agingdomain.CustomerRiskResponse, error) {
	f.lastReq = req
	return agingdomain.CustomerRiskResponse{AsOfDate: req.AsOf}, f.err
}

func (f *fakeAgingService) Summary(ctx context.Context, req agingdomain.RunRequest) (agingdomain.SummaryResponse, error) {
	f.lastReq = req
	return agingdomain.SummaryResponse{}, f.err
}

func (f *fakeAgingService) RunSnapshot(ctx context.Context, req agingdomain.RunRequest) (agingdomain.ARSummary, error) {
	f.lastReq = req
	return agingdomain.ARSummary{AsOfDate: req.AsOf}, f.err
}

type fakeCustomerService struct {
	createErr error
	getErr    error
}

func (f *fakeCustomerService) Create(ctx context.Context, req customerdomain.CreateCustomerRequest) (customerdomain.Customer, error) {
	return customerdomain.Customer{CustomerNo: req.CustomerNo, Name: req.Name}, f.createErr
}

func (f *fakeCustomerService) List(ctx context.Context, req customerdomain.ListCustomerRequest) (customerdomain.ListCustomerResponse, error) {
	return customerdomain.ListCustomerResponse{}, nil
}

func (f *fakeCustomerService) GetByCustomerNo(ctx context.Context, req customerdomain.GetCustomerRequest) (customerdomain.Customer, error) {
	return customerdomain.Customer{CustomerNo: req.CustomerNo}, f.getErr
}

type fakeInvoiceService struct {
	createErr error
}

func (f *fakeInvoiceService) Create(ctx context.Context, req invoicedomain.CreateInvoiceRequest) (invoicedomain.Invoice, error) {
	return invoicedomain.Invoice{InvoiceNo: req.InvoiceNo}, f.createErr
}

func (f *fakeInvoiceService) List(ctx context.Context, req invoicedomain.ListInvoiceRequest) (invoicedomain.ListInvoiceResponse, error) {
	return invoicedomain.ListInvoiceResponse{}, nil
}

func (f *fakeInvoiceService) GetByInvoiceNo(ctx context.Context, req invoicedomain.GetInvoiceRequest) (invoicedomain.Invoice, error) {
	return invoicedomain.Invoice{InvoiceNo: req.InvoiceNo}, nil
}

type fakePaymentService struct{}

func (f *fakePaymentService) Create(ctx context.Context, req paymentdomain.CreatePaymentRequest) (paymentdomain.Payment, error) {
	return paymentdomain.Payment{PaymentNo: req.PaymentNo}, nil
}

func (f *fakePaymentService) List(ctx context.Context, req paymentdomain.ListPaymentRequest) (paymentdomain.ListPaymentResponse, error) {
	return paymentdomain.ListPaymentResponse{}, nil
}

func (f *fakePaymentService) GetByPaymentNo(ctx context.Context, req paymentdomain.GetPaymentRequest) (paymentdomain.Payment, error) {
	return paymentdomain.Payment{PaymentNo: req.PaymentNo}, nil
}

type serverFixture struct {
	engine *gin.Engine
	aging  *fakeAgingService
	cust   *fakeCustomerService
	inv    *fakeInvoiceService
}

func newServerFixture(t *testing.T) *serverFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	engine := gin.New()
	engine.Use(ErrorHandlingMiddleware())

	fix := &serverFixture{
		engine: engine,
		aging:  &fakeAgingService{},
		cust:   &fakeCustomerService{},
		inv:    &fakeInvoiceService{},
	}

	NewServer(ServerParams{
		Gin:         engine,
		Cfg:         config.Config{Environment: "production"},
		Log:         zap.NewNop(),
		CustomerSvc: fix.cust,
		InvoiceSvc:  fix.inv,
		PaymentSvc:  &fakePaymentService{},
		AgingSvc:    fix.aging,
	})

	return fix
}

func (f *serverFixture) do(t *testing.T, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	f.engine.ServeHTTP(rec, req)
	return rec
}

func TestInvoiceAgingparsesAsOf(t *testing.T) {
	fix := newServerFixture(t)

	rec := fix.do(t, http.MethodGet, "/v1/aging/invoices?as_of=2026-03-15", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	want := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	if !fix.aging.lastReq.AsOf.Equal(want) {
		t.Fatalf("expected as-of %v, got %v", want, fix.aging.lastReq.AsOf)
	}
	if fix.aging.lastReq.Trigger != "api" {
		t.Fatalf("expected api trigger, got %q", fix.aging.lastReq.Trigger)
	}
}

func TestInvoiceAgingRejectsBadAsOf(t *testing.T) {
	fix := newServerFixture(t)

	rec := fix.do(t, http.MethodGet, "/v1/aging/invoices?as_of=15-03-2026", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	var resp errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode error: %v", err)
	}
	if resp.Error.Type != "validation_error" {
		t.Fatalf("expected validation_error, got %q", resp.Error.Type)
	}
}

func TestSummaryRecomputeFlag(t *testing.T) {
	fix := newServerFixture(t)

	rec := fix.do(t, http.MethodGet, "/v1/aging/summary?recompute=true", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !fix.aging.lastReq.Recompute {
		t.Fatal("expected recompute to pass through")
	}

	rec = fix.do(t, http.MethodGet, "/v1/aging/summary?recompute=bogus", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bogus recompute, got %d", rec.Code)
	}
}

func TestRunSnapshotForcesRecompute(t *testing.T) {
	fix := newServerFixture(t)

	rec := fix.do(t, http.MethodPost, "/v1/aging/run", map[string]string{"as_of": "2026-03-15"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !fix.aging.lastReq.Recompute {
		t.Fatal("expected forced recompute")
	}
	want := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	if !fix.aging.lastReq.AsOf.Equal(want) {
		t.Fatalf("expected as-of %v, got %v", want, fix.aging.lastReq.AsOf)
	}
}

func TestGetCustomerNotFound(t *testing.T) {
	fix := newServerFixture(t)
	fix.cust.getErr = customerdomain.ErrNotFound

	rec := fix.do(t, http.MethodGet, "/v1/customers/100001", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestGetCustomerRejectsBadPath(t *testing.T) {
	fix := newServerFixture(t)

	rec := fix.do(t, http.MethodGet, "/v1/customers/notanumber", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestCreateInvoiceValidationError(t *testing.T) {
	fix := newServerFixture(t)
	fix.inv.createErr = invoicedomain.ErrBalanceExceedsGross

	rec := fix.do(t, http.MethodPost, "/v1/invoices", map[string]any{
		"invoice_no":  1000001,
		"customer_no": 100001,
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode error: %v", err)
	}
	if len(resp.Error.Errors) != 1 || resp.Error.Errors[0].Code != "balance_exceeds_gross" {
		t.Fatalf("unexpected validation payload: %+v", resp.Error)
	}
}

func TestCreateInvoiceDuplicateKeyRace(t *testing.T) {
	fix := newServerFixture(t)
	// Two concurrent creates can both pass the pre-check; the loser
	// gets the driver's unique-violation error, which still maps to 409.
	fix.inv.createErr = errors.New(`ERROR: duplicate key value violates unique constraint "invoices_invoice_no_key" (SQLSTATE 23505)`)

	rec := fix.do(t, http.MethodPost, "/v1/invoices", map[string]any{
		"invoice_no":  1000001,
		"customer_no": 100001,
	})
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestCreateCustomerConflict(t *testing.T) {
	fix := newServerFixture(t)
	fix.cust.createErr = customerdomain.ErrDuplicateCustomer

	rec := fix.do(t, http.MethodPost, "/v1/customers", map[string]any{
		"customer_no": 100001,
		"name":        "Acme",
	})
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestDevSeedHiddenInProduction(t *testing.T) {
	fix := newServerFixture(t)

	rec := fix.do(t, http.MethodPost, "/v1/dev/seed", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for dev route in production, got %d", rec.Code)
	}
}
