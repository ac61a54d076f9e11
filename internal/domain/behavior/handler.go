package behavior

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/memorycare/memorycare/internal/platform/access"
	"github.com/memorycare/memorycare/internal/platform/auth"
)

const (
	msgLogNotFound = "Behavior log not found"
	msgInvalidLog  = "Invalid behavior log data"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/behavior-logs", h.ListLogs)
	api.POST("/behavior-logs", h.CreateLog)
	api.GET("/behavior-logs/:id", h.GetLog)
	api.PUT("/behavior-logs/:id", h.UpdateLog)
	api.PATCH("/behavior-logs/:id", h.UpdateLog)
}

func (h *Handler) ListLogs(c echo.Context) error {
	caller, err := auth.CallerOf(c)
	if err != nil {
		return err
	}
	rng, err := h.svc.ParseRange(c.QueryParam("startDate"), c.QueryParam("endDate"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid date range").SetInternal(err)
	}
	items, err := h.svc.ListLogs(c.Request().Context(), caller.ID, rng)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch behavior logs").SetInternal(err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) CreateLog(c echo.Context) error {
	caller, err := auth.CallerOf(c)
	if err != nil {
		return err
	}
	var in LogInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, msgInvalidLog).SetInternal(err)
	}
	l, err := h.svc.CreateLog(c.Request().Context(), caller, in)
	if err != nil {
		return access.WriteError(err, msgInvalidLog, msgLogNotFound, "Failed to create behavior log")
	}
	return c.JSON(http.StatusCreated, l)
}

func (h *Handler) GetLog(c echo.Context) error {
	caller, err := auth.CallerOf(c)
	if err != nil {
		return err
	}
	id, err := access.ParseID(c, "id", msgLogNotFound)
	if err != nil {
		return err
	}
	l, err := h.svc.GetLog(c.Request().Context(), caller.ID, id)
	if err != nil {
		return access.HTTPError(err, msgLogNotFound, "Failed to fetch behavior log")
	}
	return c.JSON(http.StatusOK, l)
}

func (h *Handler) UpdateLog(c echo.Context) error {
	caller, err := auth.CallerOf(c)
	if err != nil {
		return err
	}
	id, err := access.ParseID(c, "id", msgLogNotFound)
	if err != nil {
		return err
	}
	var p LogPatch
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, msgInvalidLog).SetInternal(err)
	}
	l, err := h.svc.UpdateLog(c.Request().Context(), caller.ID, id, p)
	if err != nil {
		return access.WriteError(err, msgInvalidLog, msgLogNotFound, "Failed to update behavior log")
	}
	return c.JSON(http.StatusOK, l)
}
