package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"chama-backend/internal/adapter/middleware"
	"chama-backend/internal/domain/group"
	"chama-backend/internal/finance"
	"chama-backend/internal/usecase/groupadmin"
)

type GroupHandler struct{ uc *groupadmin.Usecase }

func NewGroupHandler(uc *groupadmin.Usecase) *GroupHandler { return &GroupHandler{uc: uc} }

type createGroupReq struct {
	Name                string  `json:"name"                  validate:"required,max=120"`
	Region              string  `json:"region"                validate:"required,region"`
	MonthlyContribution float64 `json:"monthly_contribution"  validate:"required,gt=0,dec2"`
	InterestRate        float64 `json:"interest_rate"         validate:"gte=0"`
	InterestType        string  `json:"interest_type"         validate:"required,interesttype"`
	MaxLoanMultiplier   float64 `json:"max_loan_multiplier"   validate:"required,gte=1"`
	LateMeetingFine     float64 `json:"late_meeting_fine"     validate:"gte=0,dec2"`
	MissedMeetingFine   float64 `json:"missed_meeting_fine"   validate:"gte=0,dec2"`
	LateContributionFee float64 `json:"late_contribution_fee" validate:"gte=0,dec2"`
	SocialFundAmount    float64 `json:"social_fund_amount"    validate:"gte=0,dec2"`
	MinContribMonths    int     `json:"min_contribution_months" validate:"gte=0"`
	ContributionDueDay  int     `json:"contribution_due_day"  validate:"gte=0,lte=28"`
}

func (h *GroupHandler) CreateGroup(c echo.Context) error {
	var req createGroupReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}

	g, err := h.uc.Create(c.Request().Context(), groupadmin.CreateInput{
		Name:                req.Name,
		Region:              group.Region(req.Region),
		MonthlyContribution: decimal.NewFromFloat(req.MonthlyContribution),
		InterestRate:        decimal.NewFromFloat(req.InterestRate),
		InterestType:        finance.InterestType(req.InterestType),
		MaxLoanMultiplier:   decimal.NewFromFloat(req.MaxLoanMultiplier),
		LateMeetingFine:     decimal.NewFromFloat(req.LateMeetingFine),
		MissedMeetingFine:   decimal.NewFromFloat(req.MissedMeetingFine),
		LateContributionFee: decimal.NewFromFloat(req.LateContributionFee),
		SocialFundAmount:    decimal.NewFromFloat(req.SocialFundAmount),
		MinContribMonths:    req.MinContribMonths,
		ContributionDueDay:  req.ContributionDueDay,
		CreatorUserID:       middleware.UserID(c),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, g)
}

func (h *GroupHandler) GetGroup(c echo.Context) error {
	groupID := c.Param("group_id")
	if groupID == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing group_id path param"})
	}
	g, err := h.uc.Get(c.Request().Context(), groupID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, g)
}

func (h *GroupHandler) ListActivities(c echo.Context) error {
	groupID := c.Param("group_id")
	if groupID == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing group_id path param"})
	}
	limit := 0
	if err := echo.QueryParamsBinder(c).Int("limit", &limit).BindError(); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid limit query param"})
	}
	acts, err := h.uc.Activities(c.Request().Context(), groupID, limit)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"activities": acts})
}

type nextMeetingReq struct {
	NextMeetingAt time.Time `json:"next_meeting_at" validate:"required"`
}

func (h *GroupHandler) UpdateNextMeeting(c echo.Context) error {
	groupID := c.Param("group_id")
	if groupID == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing group_id path param"})
	}
	var req nextMeetingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	if err := h.uc.UpdateNextMeeting(c.Request().Context(), groupID, middleware.UserID(c), req.NextMeetingAt); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "updated"})
}
