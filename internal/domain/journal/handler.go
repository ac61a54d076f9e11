package journal

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/memorycare/memorycare/internal/platform/access"
	"github.com/memorycare/memorycare/internal/platform/auth"
)

const (
	msgMemoryNotFound = "Memory not found"
	msgInvalidMemory  = "Invalid memory data"
	msgFaceNotFound   = "Familiar face not found"
	msgInvalidFace    = "Invalid familiar face data"
	msgPhotoRequired  = "photoURL is required"
	msgInternal       = "Internal server error"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/memories", h.ListMemories)
	api.POST("/memories", h.CreateMemory)
	api.GET("/memories/:id", h.GetMemory)
	api.PUT("/memories/:id", h.UpdateMemory)
	api.PATCH("/memories/:id", h.UpdateMemory)
	api.DELETE("/memories/:id", h.DeleteMemory)
	api.PUT("/memories/:id/photos", h.AddMemoryPhoto)

	api.GET("/familiar-faces", h.ListFamiliarFaces)
	api.POST("/familiar-faces", h.CreateFamiliarFace)
	api.GET("/familiar-faces/:id", h.GetFamiliarFace)
	api.PUT("/familiar-faces/:id", h.UpdateFamiliarFace)
	api.PATCH("/familiar-faces/:id", h.UpdateFamiliarFace)
	api.DELETE("/familiar-faces/:id", h.DeleteFamiliarFace)
	api.PUT("/familiar-faces/:id/photo", h.SetFamiliarFacePhoto)
}

// photoError maps failures of the photo routes. Anything but a missing or
// foreign record is reported without detail.
func photoError(err error, notFound string) error {
	return access.HTTPError(err, notFound, msgInternal)
}

// -- Memories --

func (h *Handler) ListMemories(c echo.Context) error {
	caller, err := auth.CallerOf(c)
	if err != nil {
		return err
	}
	items, err := h.svc.ListMemories(c.Request().Context(), caller.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch memories").SetInternal(err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) CreateMemory(c echo.Context) error {
	caller, err := auth.CallerOf(c)
	if err != nil {
		return err
	}
	var in MemoryInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, msgInvalidMemory).SetInternal(err)
	}
	m, err := h.svc.CreateMemory(c.Request().Context(), caller.ID, in)
	if err != nil {
		return access.WriteError(err, msgInvalidMemory, msgMemoryNotFound, "Failed to create memory")
	}
	return c.JSON(http.StatusCreated, m)
}

func (h *Handler) GetMemory(c echo.Context) error {
	caller, err := auth.CallerOf(c)
	if err != nil {
		return err
	}
	id, err := access.ParseID(c, "id", msgMemoryNotFound)
	if err != nil {
		return err
	}
	m, err := h.svc.GetMemory(c.Request().Context(), caller.ID, id)
	if err != nil {
		return access.HTTPError(err, msgMemoryNotFound, "Failed to fetch memory")
	}
	return c.JSON(http.StatusOK, m)
}

func (h *Handler) UpdateMemory(c echo.Context) error {
	caller, err := auth.CallerOf(c)
	if err != nil {
		return err
	}
	id, err := access.ParseID(c, "id", msgMemoryNotFound)
	if err != nil {
		return err
	}
	var p MemoryPatch
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, msgInvalidMemory).SetInternal(err)
	}
	m, err := h.svc.UpdateMemory(c.Request().Context(), caller.ID, id, p)
	if err != nil {
		return access.WriteError(err, msgInvalidMemory, msgMemoryNotFound, "Failed to update memory")
	}
	return c.JSON(http.StatusOK, m)
}

func (h *Handler) DeleteMemory(c echo.Context) error {
	caller, err := auth.CallerOf(c)
	if err != nil {
		return err
	}
	id, err := access.ParseID(c, "id", msgMemoryNotFound)
	if err != nil {
		return err
	}
	if err := h.svc.DeleteMemory(c.Request().Context(), caller.ID, id); err != nil {
		return access.HTTPError(err, msgMemoryNotFound, "Failed to delete memory")
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) AddMemoryPhoto(c echo.Context) error {
	var req PhotoRequest
	if err := c.Bind(&req); err != nil || req.PhotoURL == "" {
		return echo.NewHTTPError(http.StatusBadRequest, msgPhotoRequired)
	}
	caller, err := auth.CallerOf(c)
	if err != nil {
		return err
	}
	id, err := access.ParseID(c, "id", msgMemoryNotFound)
	if err != nil {
		return err
	}
	m, err := h.svc.AddMemoryPhoto(c.Request().Context(), caller.ID, id, req.PhotoURL)
	if err != nil {
		return photoError(err, msgMemoryNotFound)
	}
	return c.JSON(http.StatusOK, m)
}

// -- Familiar faces --

func (h *Handler) ListFamiliarFaces(c echo.Context) error {
	caller, err := auth.CallerOf(c)
	if err != nil {
		return err
	}
	items, err := h.svc.ListFamiliarFaces(c.Request().Context(), caller.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch familiar faces").SetInternal(err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) CreateFamiliarFace(c echo.Context) error {
	caller, err := auth.CallerOf(c)
	if err != nil {
		return err
	}
	var in FamiliarFaceInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, msgInvalidFace).SetInternal(err)
	}
	f, err := h.svc.CreateFamiliarFace(c.Request().Context(), caller.ID, in)
	if err != nil {
		return access.WriteError(err, msgInvalidFace, msgFaceNotFound, "Failed to create familiar face")
	}
	return c.JSON(http.StatusCreated, f)
}

func (h *Handler) GetFamiliarFace(c echo.Context) error {
	caller, err := auth.CallerOf(c)
	if err != nil {
		return err
	}
	id, err := access.ParseID(c, "id", msgFaceNotFound)
	if err != nil {
		return err
	}
	f, err := h.svc.GetFamiliarFace(c.Request().Context(), caller.ID, id)
	if err != nil {
		return access.HTTPError(err, msgFaceNotFound, "Failed to fetch familiar face")
	}
	return c.JSON(http.StatusOK, f)
}

func (h *Handler) UpdateFamiliarFace(c echo.Context) error {
	caller, err := auth.CallerOf(c)
	if err != nil {
		return err
	}
	id, err := access.ParseID(c, "id", msgFaceNotFound)
	if err != nil {
		return err
	}
	var p FamiliarFacePatch
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, msgInvalidFace).SetInternal(err)
	}
	f, err := h.svc.UpdateFamiliarFace(c.Request().Context(), caller.ID, id, p)
	if err != nil {
		return access.WriteError(err, msgInvalidFace, msgFaceNotFound, "Failed to update familiar face")
	}
	return c.JSON(http.StatusOK, f)
}

func (h *Handler) DeleteFamiliarFace(c echo.Context) error {
	caller, err := auth.CallerOf(c)
	if err != nil {
		return err
	}
	id, err := access.ParseID(c, "id", msgFaceNotFound)
	if err != nil {
		return err
	}
	if err := h.svc.DeleteFamiliarFace(c.Request().Context(), caller.ID, id); err != nil {
		return access.HTTPError(err, msgFaceNotFound, "Failed to delete familiar face")
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) SetFamiliarFacePhoto(c echo.Context) error {
	var req PhotoRequest
	if err := c.Bind(&req); err != nil || req.PhotoURL == "" {
		return echo.NewHTTPError(http.StatusBadRequest, msgPhotoRequired)
	}
	caller, err := auth.CallerOf(c)
	if err != nil {
		return err
	}
	id, err := access.ParseID(c, "id", msgFaceNotFound)
	if err != nil {
		return err
	}
	f, err := h.svc.SetFamiliarFacePhoto(c.Request().Context(), caller.ID, id, req.PhotoURL)
	if err != nil {
		return photoError(err, msgFaceNotFound)
	}
	return c.JSON(http.StatusOK, f)
}
