package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type contextKey string

const (
	CallerKey contextKey = "caller"

	// claimsKey is the echo context key holding the parsed session claims.
	claimsKey = "session_claims"
)

const (
	RolePatient   = "patient"
	RoleCaregiver = "caregiver"
)

// Caller is the authenticated identity attached to every session request.
type Caller struct {
	ID   uuid.UUID
	Role string
}

// IsCaregiver reports whether the caller has the caregiver role.
func (c Caller) IsCaregiver() bool { return c.Role == RoleCaregiver }

// WithCaller returns a context carrying the caller identity.
func WithCaller(ctx context.Context, caller Caller) context.Context {
	return context.WithValue(ctx, CallerKey, caller)
}

// CallerFromContext returns the caller stored by RequireSession.
func CallerFromContext(ctx context.Context) (Caller, bool) {
	caller, ok := ctx.Value(CallerKey).(Caller)
	return caller, ok
}

// CallerOf is a handler-side shortcut for CallerFromContext. Handlers only run
// behind RequireSession, so a missing caller is reported as 401.
func CallerOf(c echo.Context) (Caller, error) {
	caller, ok := CallerFromContext(c.Request().Context())
	if !ok {
		return Caller{}, echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
	}
	return caller, nil
}

// ClaimsOf returns the session claims of the current request, if any.
func ClaimsOf(c echo.Context) (*Claims, bool) {
	claims, ok := c.Get(claimsKey).(*Claims)
	return claims, ok
}

// RequireSession authenticates the request from the session cookie or a
// bearer token. Missing, malformed, expired and revoked sessions all end the
// request with 401 before any handler runs.
func RequireSession(sessions *SessionManager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := sessions.tokenFromRequest(c.Request())
			if token == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
			}

			claims, err := sessions.Parse(c.Request().Context(), token)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized").SetInternal(err)
			}

			userID, err := uuid.Parse(claims.Subject)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized").SetInternal(err)
			}

			c.Set(claimsKey, claims)
			ctx := WithCaller(c.Request().Context(), Caller{ID: userID, Role: claims.Role})
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}

func bearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
