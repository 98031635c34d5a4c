package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"chama-backend/internal/adapter/middleware"
	"chama-backend/internal/domain/group"
	"chama-backend/internal/usecase/penalty"
)

type PenaltyHandler struct{ uc *penalty.Usecase }

func NewPenaltyHandler(uc *penalty.Usecase) *PenaltyHandler { return &PenaltyHandler{uc: uc} }

type applyPenaltyReq struct {
	UserID      string `json:"user_id"      validate:"required,hex32"`
	PenaltyType string `json:"penalty_type" validate:"required,penaltytype"`
}

func (h *PenaltyHandler) ApplyPenalty(c echo.Context) error {
	groupID := c.Param("group_id")
	if groupID == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing group_id path param"})
	}
	var req applyPenaltyReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}

	res, err := h.uc.Apply(c.Request().Context(), penalty.ApplyInput{
		GroupID:     groupID,
		UserID:      req.UserID,
		PenaltyType: group.PenaltyType(req.PenaltyType),
		ActorUserID: middleware.UserID(c),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

// SweepPenalties runs the late-contribution sweep for one group on demand.
// The scheduled job covers all groups; this endpoint exists for admins and
// treasurers who want to settle the month immediately after a meeting.
func (h *PenaltyHandler) SweepPenalties(c echo.Context) error {
	groupID := c.Param("group_id")
	if groupID == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing group_id path param"})
	}
	res, err := h.uc.SweepRequestedBy(c.Request().Context(), groupID, middleware.UserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}
