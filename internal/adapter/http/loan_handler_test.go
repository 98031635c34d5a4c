package http

import (
	"bytes"
	"context"
	"encoding/json"
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"chama-backend/internal/adapter/middleware"
	"chama-backend/internal/domain/group"
	domainLoan "chama-backend/internal/domain/loan"
	"chama-backend/internal/domain/uow"
	"chama-backend/internal/finance"
	"chama-backend/internal/testutil/activitymock"
	"chama-backend/internal/testutil/groupmock"
	"chama-backend/internal/testutil/loanmock"
	"chama-backend/internal/testutil/uowmock"
	"chama-backend/internal/usecase/eligibility"
	ucLoan "chama-backend/internal/usecase/loan"
)

func newEchoWithValidator() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func mustJSON(v any) *bytes.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

var (
	testGroupID  = strings.Repeat("1", 32)
	testUserID   = strings.Repeat("2", 32)
	testActorID  = strings.Repeat("3", 32)
	testLoanID   = strings.Repeat("a", 32)
	testTargetID = strings.Repeat("4", 32)
)

// evaluatorStub satisfies loan.Evaluator without the full eligibility wiring.
type evaluatorStub struct {
	res *eligibility.Result
	err error
}

func (s *evaluatorStub) Compute(ctx context.Context, groupID, userID string) (*eligibility.Result, error) {
	return s.res, s.err
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// -------- tests --------

func TestRequestLoan_Success(t *testing.T) {
	e := newEchoWithValidator()

	loans := &loanmock.Repo{
		CreateFn: func(ctx context.Context, l *domainLoan.Loan) error { return nil },
	}
	acts := &activitymock.Repo{}
	tx := uowmock.Passthrough(uow.Repos{Loans: loans, Activities: acts})
	ev := &evaluatorStub{res: &eligibility.Result{
		Eligible:           true,
		ContributionsCount: 6,
		TotalContributions: dec("240000"),
		MaxLoanAmount:      dec("720000"),
	}}
	uc := ucLoan.NewUsecase(loans, &groupmock.Repo{}, ev, tx, 6)
	h := NewLoanHandler(uc)

	body := map[string]any{"amount": 120000, "term_months": 6}
	req := httptest.NewRequest(stdhttp.MethodPost, "/groups/"+testGroupID+"/loans", mustJSON(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("group_id")
	c.SetParamValues(testGroupID)
	c.Set(middleware.ContextUserID, testUserID)

	if err := h.RequestLoan(c); err != nil {
		t.Fatalf("RequestLoan error: %v", err)
	}
	if rec.Code != stdhttp.StatusCreated {
		t.Fatalf("status = %d, want 201, body=%s", rec.Code, rec.Body.String())
	}

	var dto ucLoan.DTO
	if err := json.Unmarshal(rec.Body.Bytes(), &dto); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	if dto.Status != string(domainLoan.StatusPending) {
		t.Fatalf("status = %s, want PENDING", dto.Status)
	}
	if dto.UserID != testUserID {
		t.Fatalf("user_id = %s, want token subject", dto.UserID)
	}
	if !dto.AmountRequested.Equal(dec("120000")) {
		t.Fatalf("amount_requested = %s, want 120000", dto.AmountRequested)
	}
}

func TestRequestLoan_ValidationError(t *testing.T) {
	e := newEchoWithValidator()
	h := NewLoanHandler(ucLoan.NewUsecase(nil, nil, nil, nil, 6)) // won't be called

	body := map[string]any{"amount": -5, "term_months": 6}
	req := httptest.NewRequest(stdhttp.MethodPost, "/groups/"+testGroupID+"/loans", mustJSON(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("group_id")
	c.SetParamValues(testGroupID)

	if err := h.RequestLoan(c); err != nil {
		t.Fatalf("RequestLoan error: %v", err)
	}
	if rec.Code != stdhttp.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
	var er ErrorResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &er)
	if er.Error != "validation failed" {
		t.Fatalf("error = %q, want %q", er.Error, "validation failed")
	}
}

func TestRequestLoan_OpenLoanConflict(t *testing.T) {
	e := newEchoWithValidator()

	ev := &evaluatorStub{res: &eligibility.Result{
		Eligible:           false,
		ContributionsCount: 6,
		MaxLoanAmount:      dec("720000"),
		HasActiveLoan:      true,
	}}
	uc := ucLoan.NewUsecase(&loanmock.Repo{}, &groupmock.Repo{}, ev, uowmock.New(), 6)
	h := NewLoanHandler(uc)

	body := map[string]any{"amount": 120000}
	req := httptest.NewRequest(stdhttp.MethodPost, "/groups/"+testGroupID+"/loans", mustJSON(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("group_id")
	c.SetParamValues(testGroupID)
	c.Set(middleware.ContextUserID, testUserID)

	if err := h.RequestLoan(c); err != nil {
		t.Fatalf("RequestLoan error: %v", err)
	}
	if rec.Code != stdhttp.StatusConflict {
		t.Fatalf("status = %d, want 409, body=%s", rec.Code, rec.Body.String())
	}
}

func TestRequestLoan_AmountAboveMax(t *testing.T) {
	e := newEchoWithValidator()

	ev := &evaluatorStub{res: &eligibility.Result{
		Eligible:           true,
		ContributionsCount: 6,
		MaxLoanAmount:      dec("100000"),
	}}
	uc := ucLoan.NewUsecase(&loanmock.Repo{}, &groupmock.Repo{}, ev, uowmock.New(), 6)
	h := NewLoanHandler(uc)

	body := map[string]any{"amount": 500000}
	req := httptest.NewRequest(stdhttp.MethodPost, "/groups/"+testGroupID+"/loans", mustJSON(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("group_id")
	c.SetParamValues(testGroupID)
	c.Set(middleware.ContextUserID, testUserID)

	if err := h.RequestLoan(c); err != nil {
		t.Fatalf("RequestLoan error: %v", err)
	}
	if rec.Code != stdhttp.StatusBadRequest {
		t.Fatalf("status = %d, want 400, body=%s", rec.Code, rec.Body.String())
	}
}

func TestGetLoan_NotFound(t *testing.T) {
	e := newEchoWithValidator()

	loans := &loanmock.Repo{
		GetByLoanIDFn: func(ctx context.Context, loanID string) (*domainLoan.Loan, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}
	uc := ucLoan.NewUsecase(loans, &groupmock.Repo{}, &evaluatorStub{}, uowmock.New(), 6)
	h := NewLoanHandler(uc)

	req := httptest.NewRequest(stdhttp.MethodGet, "/loans/"+testLoanID, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("loan_id")
	c.SetParamValues(testLoanID)

	if err := h.GetLoan(c); err != nil {
		t.Fatalf("GetLoan error: %v", err)
	}
	if rec.Code != stdhttp.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestSimulateLoan_FlatRate(t *testing.T) {
	e := newEchoWithValidator()

	groups := &groupmock.Repo{
		GetByGroupIDFn: func(ctx context.Context, groupID string) (*group.Group, error) {
			return &group.Group{
				GroupID:      groupID,
				InterestRate: dec("0.1"),
				InterestType: finance.FlatRate,
			}, nil
		},
	}
	uc := ucLoan.NewUsecase(&loanmock.Repo{}, groups, &evaluatorStub{}, uowmock.New(), 6)
	h := NewLoanHandler(uc)

	body := map[string]any{"amount": 100000, "term_months": 6}
	req := httptest.NewRequest(stdhttp.MethodPost, "/groups/"+testGroupID+"/loans/simulate", mustJSON(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("group_id")
	c.SetParamValues(testGroupID)

	if err := h.SimulateLoan(c); err != nil {
		t.Fatalf("SimulateLoan error: %v", err)
	}
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("status = %d, want 200, body=%s", rec.Code, rec.Body.String())
	}

	var terms finance.Terms
	if err := json.Unmarshal(rec.Body.Bytes(), &terms); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	// 100000 * (1 + 0.1*6) = 160000
	if !terms.TotalRepayment.Equal(dec("160000")) {
		t.Fatalf("total_repayment = %s, want 160000", terms.TotalRepayment)
	}
}
