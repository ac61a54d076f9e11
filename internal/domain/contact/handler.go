package contact

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/memorycare/memorycare/internal/platform/access"
	"github.com/memorycare/memorycare/internal/platform/auth"
)

const (
	msgNotFound      = "Contact not found"
	msgInvalid       = "Invalid contact data"
	msgPhotoRequired = "photoURL is required"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/contacts", h.List)
	api.POST("/contacts", h.Create)
	api.GET("/contacts/:id", h.Get)
	api.PUT("/contacts/:id", h.Update)
	api.PATCH("/contacts/:id", h.Update)
	api.DELETE("/contacts/:id", h.Delete)
	api.PUT("/contacts/:id/photo", h.SetPhoto)
}

// List serves GET /api/contacts. ?emergency=true narrows to emergency
// contacts; any other value lists everything.
func (h *Handler) List(c echo.Context) error {
	caller, err := auth.CallerOf(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	list := h.svc.List
	if c.QueryParam("emergency") == "true" {
		list = h.svc.ListEmergency
	}
	items, err := list(ctx, caller.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch contacts").SetInternal(err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) Create(c echo.Context) error {
	caller, err := auth.CallerOf(c)
	if err != nil {
		return err
	}
	var in Input
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, msgInvalid).SetInternal(err)
	}
	ct, err := h.svc.Create(c.Request().Context(), caller.ID, in)
	if err != nil {
		return access.WriteError(err, msgInvalid, msgNotFound, "Failed to create contact")
	}
	return c.JSON(http.StatusCreated, ct)
}

func (h *Handler) Get(c echo.Context) error {
	caller, err := auth.CallerOf(c)
	if err != nil {
		return err
	}
	id, err := access.ParseID(c, "id", msgNotFound)
	if err != nil {
		return err
	}
	ct, err := h.svc.Get(c.Request().Context(), caller.ID, id)
	if err != nil {
		return access.HTTPError(err, msgNotFound, "Failed to fetch contact")
	}
	return c.JSON(http.StatusOK, ct)
}

func (h *Handler) Update(c echo.Context) error {
	caller, err := auth.CallerOf(c)
	if err != nil {
		return err
	}
	id, err := access.ParseID(c, "id", msgNotFound)
	if err != nil {
		return err
	}
	var p Patch
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, msgInvalid).SetInternal(err)
	}
	ct, err := h.svc.Update(c.Request().Context(), caller.ID, id, p)
	if err != nil {
		return access.WriteError(err, msgInvalid, msgNotFound, "Failed to update contact")
	}
	return c.JSON(http.StatusOK, ct)
}

func (h *Handler) Delete(c echo.Context) error {
	caller, err := auth.CallerOf(c)
	if err != nil {
		return err
	}
	id, err := access.ParseID(c, "id", msgNotFound)
	if err != nil {
		return err
	}
	if err := h.svc.Delete(c.Request().Context(), caller.ID, id); err != nil {
		return access.HTTPError(err, msgNotFound, "Failed to delete contact")
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) SetPhoto(c echo.Context) error {
	var req PhotoRequest
	if err := c.Bind(&req); err != nil || req.PhotoURL == "" {
		return echo.NewHTTPError(http.StatusBadRequest, msgPhotoRequired)
	}
	caller, err := auth.CallerOf(c)
	if err != nil {
		return err
	}
	id, err := access.ParseID(c, "id", msgNotFound)
	if err != nil {
		return err
	}
	ct, err := h.svc.SetPhoto(c.Request().Context(), caller.ID, id, req.PhotoURL)
	if err != nil {
		return access.HTTPError(err, msgNotFound, "Internal server error")
	}
	return c.JSON(http.StatusOK, ct)
}
