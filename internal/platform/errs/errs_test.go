package errs

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestInvalid_WrapsSentinel(t *testing.T) {
	err := Invalid("title is required")
	assert.True(t, errors.Is(err, ErrInvalid))
	assert.Contains(t, err.Error(), "title is required")
}

func TestConflict_WrapsSentinel(t *testing.T) {
	err := fmt.Errorf("register: %w", Conflict("Username already exists"))
	assert.True(t, errors.Is(err, ErrConflict))

	var ce *conflictError
	assert.True(t, errors.As(err, &ce))
	assert.Equal(t, "Username already exists", ce.Error())
}

func TestHTTPErrorHandler(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{"http error", echo.NewHTTPError(http.StatusNotFound, "Memory not found"), http.StatusNotFound, `{"error":"Memory not found"}`},
		{"plain error", errors.New("boom"), http.StatusInternalServerError, `{"error":"internal server error"}`},
		{"no message", &echo.HTTPError{Code: http.StatusUnauthorized}, http.StatusUnauthorized, `{"error":"Unauthorized"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/api/memories", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			HTTPErrorHandler(zerolog.Nop())(tt.err, c)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
		})
	}
}
