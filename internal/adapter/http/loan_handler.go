package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"chama-backend/internal/adapter/middleware"
	"chama-backend/internal/usecase/loan"
)

type LoanHandler struct{ uc *loan.Usecase }

func NewLoanHandler(uc *loan.Usecase) *LoanHandler { return &LoanHandler{uc: uc} }

type requestLoanReq struct {
	Amount     float64 `json:"amount"      validate:"required,gt=0,dec2"`
	TermMonths int     `json:"term_months" validate:"gte=0,lte=60"`
}

func (h *LoanHandler) RequestLoan(c echo.Context) error {
	groupID := c.Param("group_id")
	if groupID == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing group_id path param"})
	}
	var req requestLoanReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}

	dto, err := h.uc.Request(c.Request().Context(), loan.RequestInput{
		GroupID:    groupID,
		UserID:     middleware.UserID(c),
		Amount:     decimal.NewFromFloat(req.Amount),
		TermMonths: req.TermMonths,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *LoanHandler) GetLoan(c echo.Context) error {
	loanID := c.Param("loan_id")
	if loanID == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing loan_id path param"})
	}
	dto, err := h.uc.Get(c.Request().Context(), loanID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

type simulateLoanReq struct {
	Amount     float64 `json:"amount"      validate:"required,gt=0,dec2"`
	TermMonths int     `json:"term_months" validate:"required,gte=1,lte=60"`
}

// SimulateLoan prices a hypothetical loan against the group's live policy
// without touching eligibility or persisting anything.
func (h *LoanHandler) SimulateLoan(c echo.Context) error {
	groupID := c.Param("group_id")
	if groupID == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing group_id path param"})
	}
	var req simulateLoanReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}

	terms, err := h.uc.Simulate(c.Request().Context(), groupID, decimal.NewFromFloat(req.Amount), req.TermMonths)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, terms)
}
