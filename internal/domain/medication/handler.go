package medication

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/memorycare/memorycare/internal/platform/access"
	"github.com/memorycare/memorycare/internal/platform/auth"
)

const (
	msgMedicationNotFound = "Medication not found"
	msgInvalidMedication  = "Invalid medication data"
	msgLogNotFound        = "Medication log not found"
	msgInvalidLog         = "Invalid medication log data"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/medications", h.ListMedications)
	api.POST("/medications", h.CreateMedication)
	api.GET("/medications/:id", h.GetMedication)
	api.PUT("/medications/:id", h.UpdateMedication)
	api.PATCH("/medications/:id", h.UpdateMedication)
	api.DELETE("/medications/:id", h.DeleteMedication)

	api.GET("/medication-logs", h.ListLogs)
	api.POST("/medication-logs", h.CreateLog)
	api.GET("/medication-logs/:id", h.GetLog)
	api.PUT("/medication-logs/:id", h.UpdateLog)
	api.PATCH("/medication-logs/:id", h.UpdateLog)
}

// -- Medications --

func (h *Handler) ListMedications(c echo.Context) error {
	caller, err := auth.CallerOf(c)
	if err != nil {
		return err
	}
	items, err := h.svc.ListMedications(c.Request().Context(), caller.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch medications").SetInternal(err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) CreateMedication(c echo.Context) error {
	caller, err := auth.CallerOf(c)
	if err != nil {
		return err
	}
	var in MedicationInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, msgInvalidMedication).SetInternal(err)
	}
	m, err := h.svc.CreateMedication(c.Request().Context(), caller.ID, in)
	if err != nil {
		return access.WriteError(err, msgInvalidMedication, msgMedicationNotFound, "Failed to create medication")
	}
	return c.JSON(http.StatusCreated, m)
}

func (h *Handler) GetMedication(c echo.Context) error {
	caller, err := auth.CallerOf(c)
	if err != nil {
		return err
	}
	id, err := access.ParseID(c, "id", msgMedicationNotFound)
	if err != nil {
		return err
	}
	m, err := h.svc.GetMedication(c.Request().Context(), caller.ID, id)
	if err != nil {
		return access.HTTPError(err, msgMedicationNotFound, "Failed to fetch medication")
	}
	return c.JSON(http.StatusOK, m)
}

func (h *Handler) UpdateMedication(c echo.Context) error {
	caller, err := auth.CallerOf(c)
	if err != nil {
		return err
	}
	id, err := access.ParseID(c, "id", msgMedicationNotFound)
	if err != nil {
		return err
	}
	var p MedicationPatch
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, msgInvalidMedication).SetInternal(err)
	}
	m, err := h.svc.UpdateMedication(c.Request().Context(), caller.ID, id, p)
	if err != nil {
		return access.WriteError(err, msgInvalidMedication, msgMedicationNotFound, "Failed to update medication")
	}
	return c.JSON(http.StatusOK, m)
}

func (h *Handler) DeleteMedication(c echo.Context) error {
	caller, err := auth.CallerOf(c)
	if err != nil {
		return err
	}
	id, err := access.ParseID(c, "id", msgMedicationNotFound)
	if err != nil {
		return err
	}
	if err := h.svc.DeleteMedication(c.Request().Context(), caller.ID, id); err != nil {
		return access.HTTPError(err, msgMedicationNotFound, "Failed to delete medication")
	}
	return c.NoContent(http.StatusNoContent)
}

// -- Logs --

func (h *Handler) ListLogs(c echo.Context) error {
	caller, err := auth.CallerOf(c)
	if err != nil {
		return err
	}
	filter, err := h.svc.DayFilter(c.QueryParam("date"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid date").SetInternal(err)
	}
	items, err := h.svc.ListLogs(c.Request().Context(), caller.ID, filter)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch medication logs").SetInternal(err)
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
	l, err := h.svc.CreateLog(c.Request().Context(), caller.ID, in)
	if err != nil {
		return access.WriteError(err, msgInvalidLog, msgLogNotFound, "Failed to create medication log")
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
		return access.HTTPError(err, msgLogNotFound, "Failed to fetch medication log")
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
		return access.WriteError(err, msgInvalidLog, msgLogNotFound, "Failed to update medication log")
	}
	return c.JSON(http.StatusOK, l)
}
