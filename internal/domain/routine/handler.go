package routine

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/memorycare/memorycare/internal/platform/access"
	"github.com/memorycare/memorycare/internal/platform/auth"
)

const (
	msgTaskNotFound = "Daily task not found"
	msgInvalidTask  = "Invalid daily task data"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/daily-tasks", h.ListTasks)
	api.POST("/daily-tasks", h.CreateTask)
	api.GET("/daily-tasks/:id", h.GetTask)
	api.PUT("/daily-tasks/:id", h.UpdateTask)
	api.PATCH("/daily-tasks/:id", h.UpdateTask)
	api.DELETE("/daily-tasks/:id", h.DeleteTask)
}

// ListTasks serves both the full list and, with ?today=true, today's view.
func (h *Handler) ListTasks(c echo.Context) error {
	caller, err := auth.CallerOf(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	var items []*DailyTask
	if c.QueryParam("today") == "true" {
		items, err = h.svc.ListTodayTasks(ctx, caller.ID)
	} else {
		items, err = h.svc.ListTasks(ctx, caller.ID)
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch daily tasks").SetInternal(err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) CreateTask(c echo.Context) error {
	caller, err := auth.CallerOf(c)
	if err != nil {
		return err
	}
	var in TaskInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, msgInvalidTask).SetInternal(err)
	}
	t, err := h.svc.CreateTask(c.Request().Context(), caller.ID, in)
	if err != nil {
		return access.WriteError(err, msgInvalidTask, msgTaskNotFound, "Failed to create daily task")
	}
	return c.JSON(http.StatusCreated, t)
}

func (h *Handler) GetTask(c echo.Context) error {
	caller, err := auth.CallerOf(c)
	if err != nil {
		return err
	}
	id, err := access.ParseID(c, "id", msgTaskNotFound)
	if err != nil {
		return err
	}
	t, err := h.svc.GetTask(c.Request().Context(), caller.ID, id)
	if err != nil {
		return access.HTTPError(err, msgTaskNotFound, "Failed to fetch daily task")
	}
	return c.JSON(http.StatusOK, t)
}

func (h *Handler) UpdateTask(c echo.Context) error {
	caller, err := auth.CallerOf(c)
	if err != nil {
		return err
	}
	id, err := access.ParseID(c, "id", msgTaskNotFound)
	if err != nil {
		return err
	}
	var p TaskPatch
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, msgInvalidTask).SetInternal(err)
	}
	t, err := h.svc.UpdateTask(c.Request().Context(), caller.ID, id, p)
	if err != nil {
		return access.WriteError(err, msgInvalidTask, msgTaskNotFound, "Failed to update daily task")
	}
	return c.JSON(http.StatusOK, t)
}

func (h *Handler) DeleteTask(c echo.Context) error {
	caller, err := auth.CallerOf(c)
	if err != nil {
		return err
	}
	id, err := access.ParseID(c, "id", msgTaskNotFound)
	if err != nil {
		return err
	}
	if err := h.svc.DeleteTask(c.Request().Context(), caller.ID, id); err != nil {
		return access.HTTPError(err, msgTaskNotFound, "Failed to delete daily task")
	}
	return c.NoContent(http.StatusNoContent)
}
