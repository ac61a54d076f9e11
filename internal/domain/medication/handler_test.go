package medication

import (
	"net/http"
	"testing"

	"github.com/google/uuid"

	"github.com/memorycare/memorycare/internal/platform/apitest"
	"github.com/memorycare/memorycare/internal/platform/auth"
)

func newTestServer() *apitest.Server {
	srv := apitest.New()
	NewHandler(newTestService()).RegisterRoutes(srv.API)
	return srv
}

func TestHandler_MedicationLifecycle(t *testing.T) {
	srv := newTestServer()
	token := srv.Token(t, uuid.New(), auth.RolePatient)

	rec := srv.Do(t, http.MethodPost, "/api/medications", donepezil(), token)
	apitest.Status(t, rec, http.StatusCreated)
	m := apitest.Decode[Medication](t, rec)

	apitest.Status(t, srv.Do(t, http.MethodDelete, "/api/medications/"+m.ID.String(), nil, token), http.StatusNoContent)

	rec = srv.Do(t, http.MethodGet, "/api/medications/"+m.ID.String(), nil, token)
	apitest.Status(t, rec, http.StatusOK)
	if got := apitest.Decode[Medication](t, rec); got.IsActive {
		t.Error("expected inactive medication")
	}

	rec = srv.Do(t, http.MethodGet, "/api/medications", nil, token)
	apitest.Status(t, rec, http.StatusOK)
	if items := apitest.Decode[[]Medication](t, rec); len(items) != 0 {
		t.Errorf("expected no active medications, got %d", len(items))
	}
}

func TestHandler_MedicationNotOwned(t *testing.T) {
	srv := newTestServer()
	owner := srv.Token(t, uuid.New(), auth.RolePatient)
	stranger := srv.Token(t, uuid.New(), auth.RolePatient)

	m := apitest.Decode[Medication](t, srv.Do(t, http.MethodPost, "/api/medications", donepezil(), owner))
	target := "/api/medications/" + m.ID.String()
	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodPatch, http.MethodDelete} {
		rec := srv.Do(t, method, target, `{"dosage":"5mg"}`, stranger)
		apitest.Status(t, rec, http.StatusNotFound)
		if msg := apitest.ErrorMessage(t, rec); msg != "Medication not found" {
			t.Errorf("%s: unexpected error %q", method, msg)
		}
	}

	rec := srv.Do(t, http.MethodGet, target, nil, owner)
	if got := apitest.Decode[Medication](t, rec); got.Dosage != "10mg" || !got.IsActive {
		t.Errorf("medication changed by non-owner: %+v", got)
	}
}

func TestHandler_Logs(t *testing.T) {
	srv := newTestServer()
	owner := srv.Token(t, uuid.New(), auth.RolePatient)
	stranger := srv.Token(t, uuid.New(), auth.RolePatient)
	m := apitest.Decode[Medication](t, srv.Do(t, http.MethodPost, "/api/medications", donepezil(), owner))

	rec := srv.Do(t, http.MethodPost, "/api/medication-logs",
		`{"medicationId":"`+m.ID.String()+`","scheduledTime":"2024-05-10T09:00:00Z"}`, stranger)
	apitest.Status(t, rec, http.StatusBadRequest)
	if msg := apitest.ErrorMessage(t, rec); msg != "Invalid medication log data" {
		t.Errorf("unexpected error %q", msg)
	}

	rec = srv.Do(t, http.MethodPost, "/api/medication-logs",
		`{"medicationId":"`+m.ID.String()+`","scheduledTime":"2024-05-10T09:00:00Z"}`, owner)
	apitest.Status(t, rec, http.StatusCreated)
	l := apitest.Decode[Log](t, rec)

	rec = srv.Do(t, http.MethodGet, "/api/medication-logs?date=2024-05-10", nil, owner)
	apitest.Status(t, rec, http.StatusOK)
	if items := apitest.Decode[[]Log](t, rec); len(items) != 1 {
		t.Errorf("expected 1 log, got %d", len(items))
	}
	rec = srv.Do(t, http.MethodGet, "/api/medication-logs?date=2024-05-11", nil, owner)
	if items := apitest.Decode[[]Log](t, rec); len(items) != 0 {
		t.Errorf("expected no logs, got %d", len(items))
	}
	apitest.Status(t, srv.Do(t, http.MethodGet, "/api/medication-logs?date=tomorrow", nil, owner), http.StatusBadRequest)

	rec = srv.Do(t, http.MethodPatch, "/api/medication-logs/"+l.ID.String(), `{"status":"taken"}`, owner)
	apitest.Status(t, rec, http.StatusOK)
	if got := apitest.Decode[Log](t, rec); got.Status != StatusTaken || got.TakenAt == nil {
		t.Errorf("unexpected log %+v", got)
	}

	rec = srv.Do(t, http.MethodPut, "/api/medication-logs/"+l.ID.String(), `{"status":"missed"}`, stranger)
	apitest.Status(t, rec, http.StatusNotFound)
	if msg := apitest.ErrorMessage(t, rec); msg != "Medication log not found" {
		t.Errorf("unexpected error %q", msg)
	}
}
