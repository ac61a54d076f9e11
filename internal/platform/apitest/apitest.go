// Package apitest builds an echo server wired like the production one
// (session middleware, JSON error handler) for handler tests.
package apitest

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/memorycare/memorycare/internal/platform/auth"
	"github.com/memorycare/memorycare/internal/platform/errs"
)

var secret = []byte("apitest-session-secret-0123456789abcdef")

type Server struct {
	Echo     *echo.Echo
	Sessions *auth.SessionManager
	// Public is /api without a session; API is /api behind RequireSession.
	Public *echo.Group
	API    *echo.Group
}

func New() *Server {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = errs.HTTPErrorHandler(zerolog.Nop())
	sessions := auth.NewSessionManager(auth.SessionConfig{Secret: secret, TTL: time.Hour}, nil)
	return &Server{
		Echo:     e,
		Sessions: sessions,
		Public:   e.Group("/api"),
		API:      e.Group("/api", auth.RequireSession(sessions)),
	}
}

// Token issues a session token for a user id and role.
func (s *Server) Token(t testing.TB, userID uuid.UUID, role string) string {
	t.Helper()
	token, _, err := s.Sessions.Issue(userID, role)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return token
}

// Do sends body (marshalled to JSON unless it is a string or nil) and
// returns the recorded response. An empty token sends no credentials.
func (s *Server) Do(t testing.TB, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		r = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if r != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.Echo.ServeHTTP(rec, req)
	return rec
}

// Decode unmarshals the response body into T.
func Decode[T any](t testing.TB, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

// ErrorMessage returns the "error" field of a JSON error response.
func ErrorMessage(t testing.TB, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return Decode[errs.Body](t, rec).Error
}

// Status fails the test when the response code is not want.
func Status(t testing.TB, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("expected %d %s, got %d: %s", want, http.StatusText(want), rec.Code, rec.Body.String())
	}
}
