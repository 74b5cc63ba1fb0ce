package coordination

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/riskboard/riskboard/internal/platform/auth"
	"github.com/riskboard/riskboard/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	read := api.Group("", auth.RequireRole("admin", "clinician"))
	read.GET("/hospitals/:id/tasks", h.ListTasks)
	read.GET("/hospitals/:id/care-team", h.GetRoster)

	write := api.Group("", auth.RequireRole("admin", "clinician"))
	write.POST("/hospitals/:id/tasks", h.CreateTask)
	write.PATCH("/tasks/:id/status", h.UpdateTaskStatus)
	write.DELETE("/tasks/:id", h.DeleteTask)
	write.POST("/hospitals/:id/care-team", h.AddTeamMember)
}

func (h *Handler) ListTasks(c echo.Context) error {
	hid, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid hospital id")
	}

	pg := pagination.FromContext(c)
	items, total, err := h.svc.Worklist(c.Request().Context(), hid, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) CreateTask(c echo.Context) error {
	hid, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid hospital id")
	}

	var task CareTask
	if err := c.Bind(&task); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	task.HospitalID = hid
	if err := h.svc.CreateTask(c.Request().Context(), &task); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, task)
}

func (h *Handler) UpdateTaskStatus(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid task id")
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	task, err := h.svc.UpdateTaskStatus(c.Request().Context(), id, body.Status)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, task)
}

func (h *Handler) DeleteTask(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid task id")
	}
	if err := h.svc.DeleteTask(c.Request().Context(), id); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "task not found")
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) GetRoster(c echo.Context) error {
	hid, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid hospital id")
	}

	members, err := h.svc.Roster(c.Request().Context(), hid)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, members)
}

func (h *Handler) AddTeamMember(c echo.Context) error {
	hid, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid hospital id")
	}

	var member TeamMember
	if err := c.Bind(&member); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	member.HospitalID = hid
	if err := h.svc.AddTeamMember(c.Request().Context(), &member); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, member)
}
