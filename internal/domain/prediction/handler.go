package prediction

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/riskboard/riskboard/internal/platform/auth"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	write := api.Group("", auth.RequireRole("admin", "clinician"))
	write.POST("/hospitals/:id/predictions", h.Predict)
}

func (h *Handler) Predict(c echo.Context) error {
	hid, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid hospital id")
	}

	var features map[string]interface{}
	if err := c.Bind(&features); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if len(features) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "empty feature set")
	}

	result, err := h.svc.Predict(c.Request().Context(), hid, features)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, result)
}
