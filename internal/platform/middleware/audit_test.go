package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/memorycare/memorycare/internal/platform/auth"
)

func TestAudit_RecordsCaller(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	e := echo.New()

	callerID := uuid.New()
	memID := uuid.New()
	req := httptest.NewRequest(http.MethodPut, "/api/memories/"+memID.String(), nil)
	req = req.WithContext(auth.WithCaller(req.Context(), auth.Caller{ID: callerID, Role: auth.RoleCaregiver}))
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("request_id", "req-123")

	var got []AuditEntry
	recorder := AuditRecorderFunc(func(entry AuditEntry) error {
		got = append(got, entry)
		return nil
	})

	h := Audit(logger, recorder)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	if err := h(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(got) != 1 {
		t.Fatalf("expected 1 audit entry, got %d", len(got))
	}
	entry := got[0]
	if entry.UserID != callerID.String() {
		t.Errorf("expected user %s, got %s", callerID, entry.UserID)
	}
	if entry.Role != auth.RoleCaregiver {
		t.Errorf("expected role caregiver, got %s", entry.Role)
	}
	if entry.Resource != "memories" || entry.ResourceID != memID.String() {
		t.Errorf("unexpected resource %s/%s", entry.Resource, entry.ResourceID)
	}
	if entry.Action != "update" {
		t.Errorf("expected update, got %s", entry.Action)
	}
	if entry.RequestID != "req-123" {
		t.Errorf("expected req-123, got %s", entry.RequestID)
	}

	var line map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("audit log is not JSON: %v", err)
	}
	if line["type"] != "access_audit" {
		t.Errorf("expected type access_audit, got %v", line["type"])
	}
}

func TestAudit_CapturesErrorStatus(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/contacts/x", nil), httptest.NewRecorder())

	var status int
	recorder := AuditRecorderFunc(func(entry AuditEntry) error {
		status = entry.StatusCode
		return nil
	})

	h := Audit(zerolog.Nop(), recorder)(func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusNotFound, "Contact not found")
	})
	if err := h(c); err == nil {
		t.Fatal("expected handler error to propagate")
	}
	if status != http.StatusNotFound {
		t.Errorf("expected 404 status in audit entry, got %d", status)
	}
}

func TestAudit_SkipsNonAPIPaths(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/health", nil), httptest.NewRecorder())

	called := false
	recorder := AuditRecorderFunc(func(entry AuditEntry) error {
		called = true
		return nil
	})

	h := Audit(zerolog.Nop(), recorder)(func(c echo.Context) error { return nil })
	if err := h(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if called {
		t.Error("expected /health to be skipped")
	}
}

func TestExtractResource(t *testing.T) {
	tests := []struct {
		path     string
		resource string
		id       string
	}{
		{"/api/memories", "memories", ""},
		{"/api/memories/abc/photos", "memories", "abc"},
		{"/api/daily-tasks/today", "daily-tasks", "today"},
		{"/objects/uploads/abc", "objects", "uploads/abc"},
		{"/api/", "unknown", ""},
	}

	for _, tt := range tests {
		resource, id := extractResource(tt.path)
		if resource != tt.resource || id != tt.id {
			t.Errorf("extractResource(%q) = %q, %q; want %q, %q", tt.path, resource, id, tt.resource, tt.id)
		}
	}
}
