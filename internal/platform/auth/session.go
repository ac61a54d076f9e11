package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	DefaultCookieName = "memorycare.sid"
	DefaultSessionTTL = 7 * 24 * time.Hour
	sessionIssuer     = "memorycare"
)

var ErrSessionRevoked = errors.New("session has been revoked")

// Claims are the JWT claims carried by a session token.
type Claims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}

// SessionConfig configures token signing and the session cookie.
type SessionConfig struct {
	Secret       []byte
	TTL          time.Duration
	CookieName   string
	CookieSecure bool
}

// SessionManager issues and validates HS256 session tokens. Tokens are
// stateless; logout records the token id in a RevocationStore until the token
// would have expired anyway.
type SessionManager struct {
	cfg     SessionConfig
	revoked RevocationStore
	now     func() time.Time
}

// NewSessionManager creates a SessionManager. revoked may be nil, in which
// case an in-memory store is used.
func NewSessionManager(cfg SessionConfig, revoked RevocationStore) *SessionManager {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultSessionTTL
	}
	if cfg.CookieName == "" {
		cfg.CookieName = DefaultCookieName
	}
	if revoked == nil {
		revoked = NewMemoryRevocationStore()
	}
	return &SessionManager{cfg: cfg, revoked: revoked, now: time.Now}
}

// Issue signs a new session token for the user.
func (m *SessionManager) Issue(userID uuid.UUID, role string) (string, *Claims, error) {
	now := m.now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   userID.String(),
			Issuer:    sessionIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.cfg.TTL)),
		},
		Role: role,
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.cfg.Secret)
	if err != nil {
		return "", nil, fmt.Errorf("sign session token: %w", err)
	}
	return token, claims, nil
}

// Parse validates the token signature, expiry and revocation status.
func (m *SessionManager) Parse(ctx context.Context, token string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return m.cfg.Secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(sessionIssuer),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return nil, fmt.Errorf("parse session token: %w", err)
	}
	if !parsed.Valid {
		return nil, errors.New("invalid session token")
	}

	revoked, err := m.revoked.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("check revocation: %w", err)
	}
	if revoked {
		return nil, ErrSessionRevoked
	}
	return claims, nil
}

// Revoke invalidates the session described by claims.
func (m *SessionManager) Revoke(ctx context.Context, claims *Claims) error {
	expiresAt := m.now().Add(m.cfg.TTL)
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	return m.revoked.Revoke(ctx, claims.ID, claims.Subject, expiresAt)
}

// SetCookie writes the session cookie.
func (m *SessionManager) SetCookie(c echo.Context, token string, claims *Claims) {
	c.SetCookie(&http.Cookie{
		Name:     m.cfg.CookieName,
		Value:    token,
		Path:     "/",
		Expires:  claims.ExpiresAt.Time,
		HttpOnly: true,
		Secure:   m.cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearCookie expires the session cookie on the client.
func (m *SessionManager) ClearCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     m.cfg.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

// tokenFromRequest prefers the bearer token and falls back to the cookie.
func (m *SessionManager) tokenFromRequest(r *http.Request) string {
	if token := bearerToken(r); token != "" {
		return token
	}
	cookie, err := r.Cookie(m.cfg.CookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}
