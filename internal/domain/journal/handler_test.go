package journal

import (
	"context"
	"net/http"
	"net/url"
	"path"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/memorycare/memorycare/internal/platform/apitest"
	"github.com/memorycare/memorycare/internal/platform/auth"
	"github.com/memorycare/memorycare/internal/platform/objectstore"
)

type testEnv struct {
	srv     *apitest.Server
	objects *objectstore.Service
	mem     *objectstore.MemoryBackend
}

func newTestEnv() *testEnv {
	srv := apitest.New()
	mem := objectstore.NewMemoryBackend([]byte("journal-test-object-secret-0123456789"), "http://localhost:8000")
	objects := objectstore.NewService(mem, time.Minute)
	svc := NewService(NewMemoryRepoMem(), NewFamiliarFaceRepoMem(), objects)
	NewHandler(svc).RegisterRoutes(srv.API)
	return &testEnv{srv: srv, objects: objects, mem: mem}
}

// upload stores an object through a fresh upload URL and returns that URL.
func (e *testEnv) upload(t *testing.T) string {
	t.Helper()
	raw, err := e.objects.UploadURL(context.Background())
	if err != nil {
		t.Fatalf("upload url: %v", err)
	}
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("parse upload url: %v", err)
	}
	key, err := e.mem.VerifyUpload(path.Base(u.Path), u.Query().Get("token"))
	if err != nil {
		t.Fatalf("verify upload: %v", err)
	}
	if _, err := e.mem.Put(context.Background(), key, "image/jpeg", strings.NewReader("jpeg")); err != nil {
		t.Fatalf("put: %v", err)
	}
	return raw
}

func TestHandler_MemoryCRUD(t *testing.T) {
	env := newTestEnv()
	owner := env.srv.Token(t, uuid.New(), auth.RolePatient)

	rec := env.srv.Do(t, http.MethodPost, "/api/memories", `{"title":"T"}`, owner)
	apitest.Status(t, rec, http.StatusCreated)
	m := apitest.Decode[Memory](t, rec)

	rec = env.srv.Do(t, http.MethodPut, "/api/memories/"+m.ID.String(), `{"content":"C"}`, owner)
	apitest.Status(t, rec, http.StatusOK)
	updated := apitest.Decode[Memory](t, rec)
	if updated.Title != "T" || updated.Content == nil || *updated.Content != "C" {
		t.Errorf("unexpected memory %+v", updated)
	}
	if !updated.UpdatedAt.After(updated.CreatedAt) {
		t.Errorf("updatedAt %v not after createdAt %v", updated.UpdatedAt, updated.CreatedAt)
	}

	rec = env.srv.Do(t, http.MethodPatch, "/api/memories/"+m.ID.String(), `{"title":"Beach"}`, owner)
	apitest.Status(t, rec, http.StatusOK)

	rec = env.srv.Do(t, http.MethodGet, "/api/memories", nil, owner)
	apitest.Status(t, rec, http.StatusOK)
	if items := apitest.Decode[[]Memory](t, rec); len(items) != 1 || items[0].Title != "Beach" {
		t.Errorf("unexpected list %+v", items)
	}

	apitest.Status(t, env.srv.Do(t, http.MethodDelete, "/api/memories/"+m.ID.String(), nil, owner), http.StatusNoContent)
	apitest.Status(t, env.srv.Do(t, http.MethodGet, "/api/memories/"+m.ID.String(), nil, owner), http.StatusNotFound)
}

func TestHandler_MemoryValidation(t *testing.T) {
	env := newTestEnv()
	owner := env.srv.Token(t, uuid.New(), auth.RolePatient)

	rec := env.srv.Do(t, http.MethodPost, "/api/memories", `{"content":"no title"}`, owner)
	apitest.Status(t, rec, http.StatusBadRequest)
	if msg := apitest.ErrorMessage(t, rec); msg != "Invalid memory data" {
		t.Errorf("unexpected error %q", msg)
	}
	apitest.Status(t, env.srv.Do(t, http.MethodGet, "/api/memories", nil, ""), http.StatusUnauthorized)
}

func TestHandler_MemoryNotOwned(t *testing.T) {
	env := newTestEnv()
	owner := env.srv.Token(t, uuid.New(), auth.RolePatient)
	stranger := env.srv.Token(t, uuid.New(), auth.RoleCaregiver)

	rec := env.srv.Do(t, http.MethodPost, "/api/memories", `{"title":"private"}`, owner)
	m := apitest.Decode[Memory](t, rec)
	target := "/api/memories/" + m.ID.String()

	for _, tc := range []struct {
		method, path string
		body         interface{}
	}{
		{http.MethodGet, target, nil},
		{http.MethodPut, target, `{"title":"x"}`},
		{http.MethodPatch, target, `{"title":"x"}`},
		{http.MethodDelete, target, nil},
		{http.MethodPut, target + "/photos", `{"photoURL":"/objects/uploads/x"}`},
		{http.MethodGet, "/api/memories/not-a-uuid", nil},
	} {
		rec := env.srv.Do(t, tc.method, tc.path, tc.body, stranger)
		apitest.Status(t, rec, http.StatusNotFound)
		if msg := apitest.ErrorMessage(t, rec); msg != "Memory not found" {
			t.Errorf("%s %s: unexpected error %q", tc.method, tc.path, msg)
		}
	}

	rec = env.srv.Do(t, http.MethodGet, target, nil, owner)
	apitest.Status(t, rec, http.StatusOK)
	if got := apitest.Decode[Memory](t, rec); got.Title != "private" {
		t.Errorf("memory changed by non-owner: %+v", got)
	}
}

func TestHandler_MemoryPhotos(t *testing.T) {
	env := newTestEnv()
	ownerID := uuid.New()
	owner := env.srv.Token(t, ownerID, auth.RolePatient)

	m := apitest.Decode[Memory](t, env.srv.Do(t, http.MethodPost, "/api/memories", `{"title":"T"}`, owner))
	photoPath := "/api/memories/" + m.ID.String() + "/photos"

	rec := env.srv.Do(t, http.MethodPut, photoPath, `{}`, owner)
	apitest.Status(t, rec, http.StatusBadRequest)
	if msg := apitest.ErrorMessage(t, rec); msg != "photoURL is required" {
		t.Errorf("unexpected error %q", msg)
	}

	raw := env.upload(t)
	rec = env.srv.Do(t, http.MethodPut, photoPath, map[string]string{"photoURL": raw}, owner)
	apitest.Status(t, rec, http.StatusOK)
	updated := apitest.Decode[Memory](t, rec)
	if len(updated.PhotoURLs) != 1 || !strings.HasPrefix(updated.PhotoURLs[0], objectstore.EntityPrefix) {
		t.Fatalf("unexpected photos %v", updated.PhotoURLs)
	}

	info, err := env.objects.Object(context.Background(), updated.PhotoURLs[0])
	if err != nil {
		t.Fatalf("object: %v", err)
	}
	if !env.objects.CanAccess(info, ownerID.String(), objectstore.PermissionRead) {
		t.Error("owner should be able to read the photo")
	}
	if env.objects.CanAccess(info, uuid.NewString(), objectstore.PermissionRead) {
		t.Error("photo should be private")
	}

	// An object path that was never uploaded fails without detail.
	rec = env.srv.Do(t, http.MethodPut, photoPath, `{"photoURL":"/objects/uploads/missing"}`, owner)
	apitest.Status(t, rec, http.StatusInternalServerError)
	if msg := apitest.ErrorMessage(t, rec); msg != "Internal server error" {
		t.Errorf("unexpected error %q", msg)
	}
}

func TestHandler_FamiliarFaces(t *testing.T) {
	env := newTestEnv()
	owner := env.srv.Token(t, uuid.New(), auth.RolePatient)
	stranger := env.srv.Token(t, uuid.New(), auth.RolePatient)

	rec := env.srv.Do(t, http.MethodPost, "/api/familiar-faces", `{"name":"Emma","relationship":"Granddaughter"}`, owner)
	apitest.Status(t, rec, http.StatusBadRequest)
	if msg := apitest.ErrorMessage(t, rec); msg != "Invalid familiar face data" {
		t.Errorf("unexpected error %q", msg)
	}

	rec = env.srv.Do(t, http.MethodPost, "/api/familiar-faces",
		`{"name":"Emma","relationship":"Granddaughter","photoUrl":"/objects/uploads/emma"}`, owner)
	apitest.Status(t, rec, http.StatusCreated)
	f := apitest.Decode[FamiliarFace](t, rec)
	target := "/api/familiar-faces/" + f.ID.String()

	apitest.Status(t, env.srv.Do(t, http.MethodGet, target, nil, stranger), http.StatusNotFound)
	apitest.Status(t, env.srv.Do(t, http.MethodDelete, target, nil, stranger), http.StatusNotFound)

	rec = env.srv.Do(t, http.MethodPut, target+"/photo", map[string]string{"photoURL": env.upload(t)}, owner)
	apitest.Status(t, rec, http.StatusOK)
	if got := apitest.Decode[FamiliarFace](t, rec); !strings.HasPrefix(got.PhotoURL, objectstore.EntityPrefix+objectstore.UploadPrefix) {
		t.Errorf("unexpected photo url %q", got.PhotoURL)
	}

	rec = env.srv.Do(t, http.MethodGet, "/api/familiar-faces", nil, stranger)
	apitest.Status(t, rec, http.StatusOK)
	if items := apitest.Decode[[]FamiliarFace](t, rec); len(items) != 0 {
		t.Errorf("stranger should see no faces, got %d", len(items))
	}

	apitest.Status(t, env.srv.Do(t, http.MethodDelete, target, nil, owner), http.StatusNoContent)
}

func TestHandler_PhotosOwnedByAnotherUserAreNotFound(t *testing.T) {
	env := newTestEnv()
	aliceID := uuid.New()
	alice := env.srv.Token(t, aliceID, auth.RolePatient)
	mallory := env.srv.Token(t, uuid.New(), auth.RolePatient)

	rec := env.srv.Do(t, http.MethodPost, "/api/memories", `{"title":"Alice"}`, alice)
	apitest.Status(t, rec, http.StatusCreated)
	aliceMemory := apitest.Decode[Memory](t, rec)
	raw := env.upload(t)
	rec = env.srv.Do(t, http.MethodPut, "/api/memories/"+aliceMemory.ID.String()+"/photos", PhotoRequest{PhotoURL: raw}, alice)
	apitest.Status(t, rec, http.StatusOK)
	entityPath := apitest.Decode[Memory](t, rec).PhotoURLs[0]

	t.Run("MemoryPhotos", func(t *testing.T) {
		rec := env.srv.Do(t, http.MethodPost, "/api/memories", `{"title":"Mallory"}`, mallory)
		apitest.Status(t, rec, http.StatusCreated)
		m := apitest.Decode[Memory](t, rec)

		rec = env.srv.Do(t, http.MethodPut, "/api/memories/"+m.ID.String()+"/photos", PhotoRequest{PhotoURL: entityPath}, mallory)
		apitest.Status(t, rec, http.StatusNotFound)
		if msg := apitest.ErrorMessage(t, rec); msg != "Memory not found" {
			t.Errorf("unexpected message %q", msg)
		}
		rec = env.srv.Do(t, http.MethodGet, "/api/memories/"+m.ID.String(), nil, mallory)
		apitest.Status(t, rec, http.StatusOK)
		if got := apitest.Decode[Memory](t, rec); len(got.PhotoURLs) != 0 {
			t.Errorf("photo was appended: %v", got.PhotoURLs)
		}
	})

	t.Run("FamiliarFacePhoto", func(t *testing.T) {
		rec := env.srv.Do(t, http.MethodPost, "/api/familiar-faces", FamiliarFaceInput{Name: "Eve", Relationship: "Friend", PhotoURL: env.upload(t)}, mallory)
		apitest.Status(t, rec, http.StatusCreated)
		f := apitest.Decode[FamiliarFace](t, rec)

		rec = env.srv.Do(t, http.MethodPut, "/api/familiar-faces/"+f.ID.String()+"/photo", PhotoRequest{PhotoURL: raw}, mallory)
		apitest.Status(t, rec, http.StatusNotFound)
		if msg := apitest.ErrorMessage(t, rec); msg != "Familiar face not found" {
			t.Errorf("unexpected message %q", msg)
		}
	})

	info, err := env.objects.Object(context.Background(), entityPath)
	if err != nil {
		t.Fatalf("object: %v", err)
	}
	if info.ACL == nil || info.ACL.Owner != aliceID.String() {
		t.Errorf("object owner changed: %+v", info.ACL)
	}
}
