package ingest

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
	write.POST("/hospitals/:id/uploads", h.UploadCSV)
}

// UploadCSV accepts a multipart form with a single "file" part.
func (h *Handler) UploadCSV(c echo.Context) error {
	hid, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid hospital id")
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "missing file")
	}

	f, err := fileHeader.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	defer f.Close()

	report, err := h.svc.Upload(c.Request().Context(), hid,
		fileHeader.Filename, fileHeader.Header.Get("Content-Type"),
		fileHeader.Size, f)
	if err != nil {
		if report != nil && report.Uploaded > 0 {
			// Partial commit: surface what landed alongside the error.
			return c.JSON(http.StatusInternalServerError, map[string]interface{}{
				"error":    err.Error(),
				"total":    report.Total,
				"uploaded": report.Uploaded,
				"skipped":  report.Skipped,
			})
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, report)
}
