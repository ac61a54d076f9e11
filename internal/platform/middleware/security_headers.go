package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"
)

const (
	apiCSP = "default-src 'none'; frame-ancestors 'none'"
	// Uploaded photos are served back verbatim; sandbox keeps an uploaded
	// HTML or SVG file from running script in the app's origin.
	objectCSP = "default-src 'none'; img-src 'self'; media-src 'self'; sandbox"
)

// SecurityHeaders sets hardening headers on every response. API responses
// carry personal care data and are marked no-store; object downloads set
// their own Cache-Control after this runs.
func SecurityHeaders() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h := c.Response().Header()

			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("X-Frame-Options", "DENY")
			h.Set("X-XSS-Protection", "0")
			h.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
			h.Set("Referrer-Policy", "no-referrer")
			h.Set("Permissions-Policy", "camera=(), microphone=(), geolocation=()")
			h.Set("Cache-Control", "no-store")

			if strings.HasPrefix(c.Request().URL.Path, "/objects/") {
				h.Set("Content-Security-Policy", objectCSP)
				h.Set("Cross-Origin-Resource-Policy", "same-site")
			} else {
				h.Set("Content-Security-Policy", apiCSP)
			}

			return next(c)
		}
	}
}
