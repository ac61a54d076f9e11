package identity

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/memorycare/memorycare/internal/platform/apitest"
	"github.com/memorycare/memorycare/internal/platform/auth"
)

func newTestServer() (*apitest.Server, *Service) {
	srv := apitest.New()
	svc := newTestService()
	h := NewHandler(svc, srv.Sessions, zerolog.Nop())
	h.RegisterPublicRoutes(srv.Public)
	h.RegisterRoutes(srv.API)
	return srv, svc
}

func sessionCookie(t *testing.T, header http.Header) *http.Cookie {
	t.Helper()
	for _, c := range (&http.Response{Header: header}).Cookies() {
		if c.Name == auth.DefaultCookieName {
			return c
		}
	}
	t.Fatalf("no %s cookie in response", auth.DefaultCookieName)
	return nil
}

func TestHandler_Register(t *testing.T) {
	srv, _ := newTestServer()

	rec := srv.Do(t, http.MethodPost, "/api/register", registration("alice", ""), "")
	apitest.Status(t, rec, http.StatusCreated)
	u := apitest.Decode[map[string]interface{}](t, rec)
	if u["username"] != "alice" || u["role"] != RolePatient {
		t.Errorf("unexpected user %v", u)
	}
	if _, ok := u["password"]; ok {
		t.Error("password must not be serialized")
	}
	if c := sessionCookie(t, rec.Header()); c.Value == "" || !c.HttpOnly {
		t.Errorf("unexpected cookie %+v", c)
	}

	rec = srv.Do(t, http.MethodPost, "/api/register", registration("alice", ""), "")
	apitest.Status(t, rec, http.StatusBadRequest)
	if msg := apitest.ErrorMessage(t, rec); msg != "Username already exists" {
		t.Errorf("unexpected error %q", msg)
	}

	dup := registration("alice2", "")
	dup.Email = "alice@example.com"
	rec = srv.Do(t, http.MethodPost, "/api/register", dup, "")
	apitest.Status(t, rec, http.StatusBadRequest)
	if msg := apitest.ErrorMessage(t, rec); msg != "Email already exists" {
		t.Errorf("unexpected error %q", msg)
	}

	rec = srv.Do(t, http.MethodPost, "/api/register", `{"username":`, "")
	apitest.Status(t, rec, http.StatusBadRequest)
}

func TestHandler_LoginAndCurrentUser(t *testing.T) {
	srv, _ := newTestServer()
	apitest.Status(t, srv.Do(t, http.MethodPost, "/api/register", registration("alice", ""), ""), http.StatusCreated)

	rec := srv.Do(t, http.MethodPost, "/api/login", Credentials{Username: "alice", Password: "wrong"}, "")
	apitest.Status(t, rec, http.StatusUnauthorized)
	if msg := apitest.ErrorMessage(t, rec); msg != "Invalid username or password" {
		t.Errorf("unexpected error %q", msg)
	}

	rec = srv.Do(t, http.MethodPost, "/api/login", Credentials{Username: "alice", Password: "secret"}, "")
	apitest.Status(t, rec, http.StatusOK)
	cookie := sessionCookie(t, rec.Header())

	rec = srv.Do(t, http.MethodGet, "/api/user", nil, cookie.Value)
	apitest.Status(t, rec, http.StatusOK)
	if u := apitest.Decode[User](t, rec); u.Username != "alice" {
		t.Errorf("expected alice, got %q", u.Username)
	}

	apitest.Status(t, srv.Do(t, http.MethodGet, "/api/user", nil, ""), http.StatusUnauthorized)
}

func TestHandler_Logout(t *testing.T) {
	srv, _ := newTestServer()
	rec := srv.Do(t, http.MethodPost, "/api/register", registration("alice", ""), "")
	apitest.Status(t, rec, http.StatusCreated)
	token := sessionCookie(t, rec.Header()).Value

	rec = srv.Do(t, http.MethodPost, "/api/logout", nil, token)
	apitest.Status(t, rec, http.StatusOK)
	if c := sessionCookie(t, rec.Header()); c.MaxAge >= 0 {
		t.Errorf("expected cookie to be expired, MaxAge=%d", c.MaxAge)
	}

	rec = srv.Do(t, http.MethodGet, "/api/user", nil, token)
	apitest.Status(t, rec, http.StatusUnauthorized)
}

func TestHandler_UpdateProfile(t *testing.T) {
	srv, _ := newTestServer()
	rec := srv.Do(t, http.MethodPost, "/api/register", registration("alice", ""), "")
	token := sessionCookie(t, rec.Header()).Value

	rec = srv.Do(t, http.MethodPatch, "/api/user", `{"firstName":"Alicia","id":"`+uuid.NewString()+`"}`, token)
	apitest.Status(t, rec, http.StatusOK)
	u := apitest.Decode[User](t, rec)
	if u.FirstName != "Alicia" || u.Username != "alice" {
		t.Errorf("unexpected user %+v", u)
	}

	rec = srv.Do(t, http.MethodPatch, "/api/user", `{"email":"nope"}`, token)
	apitest.Status(t, rec, http.StatusBadRequest)
	if msg := apitest.ErrorMessage(t, rec); msg != "Invalid user data" {
		t.Errorf("unexpected error %q", msg)
	}
}

func TestHandler_CaregiverRoutes(t *testing.T) {
	srv, svc := newTestServer()
	patient, err := svc.Register(context.Background(), registration("sarah", RolePatient))
	if err != nil {
		t.Fatalf("register patient: %v", err)
	}
	caregiver, err := svc.Register(context.Background(), registration("michael", RoleCaregiver))
	if err != nil {
		t.Fatalf("register caregiver: %v", err)
	}
	patientToken := srv.Token(t, patient.ID, RolePatient)
	caregiverToken := srv.Token(t, caregiver.ID, RoleCaregiver)

	rec := srv.Do(t, http.MethodGet, "/api/caregiver/patients", nil, patientToken)
	apitest.Status(t, rec, http.StatusForbidden)
	if msg := apitest.ErrorMessage(t, rec); msg != "Access denied" {
		t.Errorf("unexpected error %q", msg)
	}

	body := `{"patientId":"` + patient.ID.String() + `"}`
	apitest.Status(t, srv.Do(t, http.MethodPost, "/api/caregiver/patients", body, caregiverToken), http.StatusCreated)

	rec = srv.Do(t, http.MethodPost, "/api/caregiver/patients", body, caregiverToken)
	apitest.Status(t, rec, http.StatusBadRequest)
	if msg := apitest.ErrorMessage(t, rec); msg != "Patient is already linked" {
		t.Errorf("unexpected error %q", msg)
	}

	rec = srv.Do(t, http.MethodGet, "/api/caregiver/patients", nil, caregiverToken)
	apitest.Status(t, rec, http.StatusOK)
	if patients := apitest.Decode[[]User](t, rec); len(patients) != 1 || patients[0].ID != patient.ID {
		t.Errorf("unexpected patients %+v", patients)
	}

	rec = srv.Do(t, http.MethodGet, "/api/patient/caregivers", nil, patientToken)
	apitest.Status(t, rec, http.StatusOK)
	if caregivers := apitest.Decode[[]User](t, rec); len(caregivers) != 1 || caregivers[0].ID != caregiver.ID {
		t.Errorf("unexpected caregivers %+v", caregivers)
	}

	apitest.Status(t, srv.Do(t, http.MethodDelete, "/api/caregiver/patients/"+patient.ID.String(), nil, caregiverToken), http.StatusNoContent)
	apitest.Status(t, srv.Do(t, http.MethodDelete, "/api/caregiver/patients/not-a-uuid", nil, caregiverToken), http.StatusNotFound)

	rec = srv.Do(t, http.MethodGet, "/api/caregiver/patients", nil, caregiverToken)
	if !strings.HasPrefix(strings.TrimSpace(rec.Body.String()), "[]") {
		t.Errorf("expected empty list, got %s", rec.Body.String())
	}
}
