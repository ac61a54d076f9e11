package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

var testSecret = []byte("test-secret-key-for-unit-tests-only")

func newTestSessions() *SessionManager {
	return NewSessionManager(SessionConfig{Secret: testSecret, TTL: time.Hour}, nil)
}

func runSession(t *testing.T, sessions *SessionManager, req *http.Request) (Caller, error) {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var got Caller
	handler := func(c echo.Context) error {
		caller, ok := CallerFromContext(c.Request().Context())
		if !ok {
			t.Fatal("expected caller on context")
		}
		got = caller
		return c.String(http.StatusOK, "ok")
	}

	err := RequireSession(sessions)(handler)(c)
	return got, err
}

func expectStatus(t *testing.T, err error, status int) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %d error, got nil", status)
	}
	httpErr, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected echo.HTTPError, got %T", err)
	}
	if httpErr.Code != status {
		t.Errorf("expected %d, got %d", status, httpErr.Code)
	}
}

func TestRequireSession_MissingToken(t *testing.T) {
	_, err := runSession(t, newTestSessions(), httptest.NewRequest(http.MethodGet, "/api/memories", nil))
	expectStatus(t, err, http.StatusUnauthorized)
}

func TestRequireSession_InvalidFormat(t *testing.T) {
	tests := []struct {
		name   string
		header string
	}{
		{"no bearer prefix", "Token abc123"},
		{"missing token", "Bearer"},
		{"basic auth", "Basic dXNlcjpwYXNz"},
		{"garbage token", "Bearer not-a-jwt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/memories", nil)
			req.Header.Set("Authorization", tt.header)
			_, err := runSession(t, newTestSessions(), req)
			expectStatus(t, err, http.StatusUnauthorized)
		})
	}
}

func TestRequireSession_BearerToken(t *testing.T) {
	sessions := newTestSessions()
	userID := uuid.New()
	token, _, err := sessions.Issue(userID, RoleCaregiver)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/memories", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	caller, err := runSession(t, sessions, req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if caller.ID != userID {
		t.Errorf("expected caller %s, got %s", userID, caller.ID)
	}
	if !caller.IsCaregiver() {
		t.Errorf("expected caregiver role, got %q", caller.Role)
	}
}

func TestRequireSession_Cookie(t *testing.T) {
	sessions := newTestSessions()
	userID := uuid.New()
	token, _, _ := sessions.Issue(userID, RolePatient)

	req := httptest.NewRequest(http.MethodGet, "/api/memories", nil)
	req.AddCookie(&http.Cookie{Name: DefaultCookieName, Value: token})
	caller, err := runSession(t, sessions, req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if caller.ID != userID || caller.Role != RolePatient {
		t.Errorf("unexpected caller %+v", caller)
	}
}

func TestRequireSession_WrongSecret(t *testing.T) {
	other := NewSessionManager(SessionConfig{Secret: []byte("another-secret-another-secret-xx")}, nil)
	token, _, _ := other.Issue(uuid.New(), RolePatient)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	_, err := runSession(t, newTestSessions(), req)
	expectStatus(t, err, http.StatusUnauthorized)
}

func TestRequireSession_Expired(t *testing.T) {
	sessions := newTestSessions()
	sessions.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, _, _ := sessions.Issue(uuid.New(), RolePatient)
	sessions.now = time.Now

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	_, err := runSession(t, sessions, req)
	expectStatus(t, err, http.StatusUnauthorized)
}

func TestRequireSession_Revoked(t *testing.T) {
	sessions := newTestSessions()
	token, claims, _ := sessions.Issue(uuid.New(), RolePatient)
	if err := sessions.Revoke(context.Background(), claims); err != nil {
		t.Fatalf("revoke: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	_, err := runSession(t, sessions, req)
	expectStatus(t, err, http.StatusUnauthorized)
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name     string
		role     string
		wantCode int
	}{
		{"caregiver allowed", RoleCaregiver, http.StatusOK},
		{"patient denied", RolePatient, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/api/caregiver/patients", nil)
			req = req.WithContext(WithCaller(req.Context(), Caller{ID: uuid.New(), Role: tt.role}))
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			h := RequireRole(RoleCaregiver)(func(c echo.Context) error {
				return c.String(http.StatusOK, "ok")
			})
			err := h(c)
			if tt.wantCode == http.StatusOK {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			expectStatus(t, err, tt.wantCode)
		})
	}
}

func TestRequireRole_NoCaller(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	err := RequireRole(RoleCaregiver)(func(c echo.Context) error { return nil })(c)
	expectStatus(t, err, http.StatusUnauthorized)
}
