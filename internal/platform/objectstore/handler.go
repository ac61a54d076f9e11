package objectstore

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/memorycare/memorycare/internal/platform/auth"
)

// Handler serves upload URL issuance, direct uploads for the memory backend
// and ACL-checked downloads.
type Handler struct {
	svc    *Service
	logger zerolog.Logger
}

func NewHandler(svc *Service, logger zerolog.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// RegisterRoutes mounts the session-protected routes. api is the /api group
// and objects the /objects group.
func (h *Handler) RegisterRoutes(api *echo.Group, objects *echo.Group) {
	api.POST("/objects/upload", h.CreateUploadURL)
	objects.GET("/*", h.Download)
}

// RegisterUploadTarget mounts the signed PUT endpoint when the backend
// serves uploads itself. It must not sit behind the session middleware;
// the token in the URL is the authorisation. m typically carries a body
// limit sized for MaxObjectSize.
func (h *Handler) RegisterUploadTarget(e *echo.Echo, m ...echo.MiddlewareFunc) {
	if _, ok := h.svc.Backend().(*MemoryBackend); !ok {
		return
	}
	e.PUT(uploadPutPath+":objectId", h.Upload, m...)
}

func (h *Handler) CreateUploadURL(c echo.Context) error {
	uploadURL, err := h.svc.UploadURL(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create upload URL").SetInternal(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"uploadURL": uploadURL})
}

func (h *Handler) Upload(c echo.Context) error {
	mem, ok := h.svc.Backend().(*MemoryBackend)
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "Not Found")
	}
	key, err := mem.VerifyUpload(c.Param("objectId"), c.QueryParam("token"))
	if err != nil {
		return echo.NewHTTPError(http.StatusForbidden, "Invalid upload URL").SetInternal(err)
	}
	if _, err := mem.Put(c.Request().Context(), key, c.Request().Header.Get(echo.HeaderContentType), c.Request().Body); err != nil {
		var httpErr *echo.HTTPError
		switch {
		case errors.As(err, &httpErr):
			return httpErr
		case errors.Is(err, ErrObjectTooLarge):
			return echo.NewHTTPError(http.StatusRequestEntityTooLarge, "Object too large")
		}
		return echo.NewHTTPError(http.StatusBadRequest, "Failed to store object").SetInternal(err)
	}
	return c.NoContent(http.StatusOK)
}

func (h *Handler) Download(c echo.Context) error {
	ctx := c.Request().Context()
	caller, err := auth.CallerOf(c)
	if err != nil {
		return err
	}

	info, err := h.svc.Object(ctx, c.Request().URL.Path)
	if err != nil {
		return h.objectError(c, err)
	}
	if !h.svc.CanAccess(info, caller.ID.String(), PermissionRead) {
		return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
	}

	body, info, err := h.svc.Open(ctx, info)
	if err != nil {
		return h.objectError(c, err)
	}
	defer body.Close()

	res := c.Response().Header()
	if info.Size > 0 {
		res.Set(echo.HeaderContentLength, strconv.FormatInt(info.Size, 10))
	}
	if info.ETag != "" {
		res.Set("ETag", `"`+info.ETag+`"`)
	}
	cache := "private"
	if info.ACL != nil && info.ACL.Visibility == VisibilityPublic {
		cache = "public"
	}
	res.Set("Cache-Control", cache+", max-age=3600")
	contentType := info.ContentType
	if contentType == "" {
		contentType = echo.MIMEOctetStream
	}
	return c.Stream(http.StatusOK, contentType, body)
}

func (h *Handler) objectError(c echo.Context, err error) error {
	if errors.Is(err, ErrObjectNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "Not Found")
	}
	h.logger.Error().Err(err).Str("path", c.Request().URL.Path).Msg("error checking object access")
	return echo.NewHTTPError(http.StatusInternalServerError, "Internal Server Error").SetInternal(err)
}
