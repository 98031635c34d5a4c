package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"chama-backend/internal/usecase/eligibility"
)

type EligibilityHandler struct{ uc *eligibility.Usecase }

func NewEligibilityHandler(uc *eligibility.Usecase) *EligibilityHandler {
	return &EligibilityHandler{uc: uc}
}

func (h *EligibilityHandler) GetEligibility(c echo.Context) error {
	groupID := c.Param("group_id")
	userID := c.Param("user_id")
	if groupID == "" || userID == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing group_id or user_id path param"})
	}
	res, err := h.uc.Compute(c.Request().Context(), groupID, userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}
