package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"chama-backend/internal/adapter/middleware"
	domain "chama-backend/internal/domain/contribution"
	uc "chama-backend/internal/usecase/contribution"
)

type ContributionHandler struct{ uc *uc.Usecase }

func NewContributionHandler(u *uc.Usecase) *ContributionHandler { return &ContributionHandler{uc: u} }

type recordContributionReq struct {
	// UserID lets a treasurer record on behalf of a member; defaults to the caller.
	UserID        string  `json:"user_id"        validate:"omitempty,hex32"`
	Amount        float64 `json:"amount"         validate:"required,gt=0,dec2"`
	Month         int     `json:"month"          validate:"required,gte=1,lte=12"`
	Year          int     `json:"year"           validate:"required,gte=2000"`
	PaymentMethod string  `json:"payment_method" validate:"omitempty,max=32"`
}

func (h *ContributionHandler) RecordContribution(c echo.Context) error {
	groupID := c.Param("group_id")
	if groupID == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing group_id path param"})
	}
	var req recordContributionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	userID := req.UserID
	if userID == "" {
		userID = middleware.UserID(c)
	}

	dto, err := h.uc.Record(c.Request().Context(), uc.RecordInput{
		GroupID:       groupID,
		UserID:        userID,
		Amount:        decimal.NewFromFloat(req.Amount),
		Month:         req.Month,
		Year:          req.Year,
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *ContributionHandler) settle(c echo.Context, to domain.Status) error {
	contributionID := c.Param("contribution_id")
	if contributionID == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing contribution_id path param"})
	}
	dto, err := h.uc.Settle(c.Request().Context(), contributionID, to)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *ContributionHandler) CompleteContribution(c echo.Context) error {
	return h.settle(c, domain.StatusCompleted)
}

func (h *ContributionHandler) FailContribution(c echo.Context) error {
	return h.settle(c, domain.StatusFailed)
}

// ContributionSummary aggregates COMPLETED contributions for one member,
// optionally narrowed to a single month/year period.
func (h *ContributionHandler) ContributionSummary(c echo.Context) error {
	groupID := c.Param("group_id")
	userID := c.Param("user_id")
	if groupID == "" || userID == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing group_id or user_id path param"})
	}

	var month, year int
	if err := echo.QueryParamsBinder(c).
		Int("month", &month).
		Int("year", &year).
		BindError(); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid month/year query param"})
	}
	var period *domain.Period
	if month != 0 || year != 0 {
		p := domain.Period{Month: month, Year: year}
		if err := p.Validate(); err != nil {
			return respondError(c, err)
		}
		period = &p
	}

	sum, err := h.uc.SummarizeCompleted(c.Request().Context(), groupID, userID, period)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, sum)
}
