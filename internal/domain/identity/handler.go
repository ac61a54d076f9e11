package identity

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/memorycare/memorycare/internal/platform/access"
	"github.com/memorycare/memorycare/internal/platform/auth"
	"github.com/memorycare/memorycare/internal/platform/errs"
)

type Handler struct {
	svc      *Service
	sessions *auth.SessionManager
	logger   zerolog.Logger
}

func NewHandler(svc *Service, sessions *auth.SessionManager, logger zerolog.Logger) *Handler {
	return &Handler{svc: svc, sessions: sessions, logger: logger}
}

// RegisterPublicRoutes mounts the routes that run without a session.
func (h *Handler) RegisterPublicRoutes(public *echo.Group) {
	public.POST("/register", h.Register)
	public.POST("/login", h.Login)
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/logout", h.Logout)
	api.GET("/user", h.CurrentUser)
	api.PATCH("/user", h.UpdateProfile)
	api.GET("/patient/caregivers", h.ListCaregivers)

	caregiver := api.Group("/caregiver", auth.RequireRole(auth.RoleCaregiver))
	caregiver.GET("/patients", h.ListPatients)
	caregiver.POST("/patients", h.LinkPatient)
	caregiver.DELETE("/patients/:patientId", h.UnlinkPatient)
}

// -- Session --

func (h *Handler) Register(c echo.Context) error {
	var reg Registration
	if err := c.Bind(&reg); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user data").SetInternal(err)
	}
	u, err := h.svc.Register(c.Request().Context(), reg)
	if err != nil {
		return access.WriteError(err, "Invalid user data", "User not found", "Registration failed")
	}
	if err := h.startSession(c, u); err != nil {
		return err
	}
	h.logger.Info().Str("user_id", u.ID.String()).Str("role", u.Role).Msg("user registered")
	return c.JSON(http.StatusCreated, u)
}

func (h *Handler) Login(c echo.Context) error {
	var creds Credentials
	if err := c.Bind(&creds); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid login data").SetInternal(err)
	}
	u, err := h.svc.Authenticate(c.Request().Context(), creds)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid username or password")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Login failed").SetInternal(err)
	}
	if err := h.startSession(c, u); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, u)
}

func (h *Handler) startSession(c echo.Context, u *User) error {
	token, claims, err := h.sessions.Issue(u.ID, u.Role)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to start session").SetInternal(err)
	}
	h.sessions.SetCookie(c, token, claims)
	return nil
}

func (h *Handler) Logout(c echo.Context) error {
	if claims, ok := auth.ClaimsOf(c); ok {
		if err := h.sessions.Revoke(c.Request().Context(), claims); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "Logout failed").SetInternal(err)
		}
	}
	h.sessions.ClearCookie(c)
	return c.NoContent(http.StatusOK)
}

// -- Profile --

func (h *Handler) CurrentUser(c echo.Context) error {
	caller, err := auth.CallerOf(c)
	if err != nil {
		return err
	}
	u, err := h.svc.GetUser(c.Request().Context(), caller.ID)
	if err != nil {
		// The account behind a still-valid token is gone.
		if errors.Is(err, errs.ErrNotFound) {
			return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch user").SetInternal(err)
	}
	return c.JSON(http.StatusOK, u)
}

func (h *Handler) UpdateProfile(c echo.Context) error {
	caller, err := auth.CallerOf(c)
	if err != nil {
		return err
	}
	var p ProfilePatch
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user data").SetInternal(err)
	}
	u, err := h.svc.UpdateProfile(c.Request().Context(), caller.ID, p)
	if err != nil {
		return access.WriteError(err, "Invalid user data", "User not found", "Failed to update user")
	}
	return c.JSON(http.StatusOK, u)
}

// -- Caregiver links --

func (h *Handler) ListPatients(c echo.Context) error {
	caller, err := auth.CallerOf(c)
	if err != nil {
		return err
	}
	patients, err := h.svc.ListPatients(c.Request().Context(), caller.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch patients").SetInternal(err)
	}
	return c.JSON(http.StatusOK, patients)
}

func (h *Handler) LinkPatient(c echo.Context) error {
	caller, err := auth.CallerOf(c)
	if err != nil {
		return err
	}
	var req LinkRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid patient link data").SetInternal(err)
	}
	patientID, err := uuid.Parse(req.PatientID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid patient link data").SetInternal(err)
	}
	link, err := h.svc.LinkPatient(c.Request().Context(), caller.ID, patientID)
	if err != nil {
		return access.WriteError(err, "Invalid patient link data", "Patient not found", "Failed to link patient")
	}
	return c.JSON(http.StatusCreated, link)
}

func (h *Handler) UnlinkPatient(c echo.Context) error {
	caller, err := auth.CallerOf(c)
	if err != nil {
		return err
	}
	patientID, err := access.ParseID(c, "patientId", "Patient not found")
	if err != nil {
		return err
	}
	if err := h.svc.UnlinkPatient(c.Request().Context(), caller.ID, patientID); err != nil {
		return access.HTTPError(err, "Patient not found", "Failed to unlink patient")
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) ListCaregivers(c echo.Context) error {
	caller, err := auth.CallerOf(c)
	if err != nil {
		return err
	}
	caregivers, err := h.svc.ListCaregivers(c.Request().Context(), caller.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch caregivers").SetInternal(err)
	}
	return c.JSON(http.StatusOK, caregivers)
}
