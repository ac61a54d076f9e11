package identity

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/memorycare/memorycare/internal/platform/errs"
)

func newTestService() *Service {
	users := NewUserRepoMem()
	return NewService(users, NewCaregiverLinkRepoMem(users))
}

func registration(username, role string) Registration {
	return Registration{
		Username:  username,
		Password:  "secret",
		Email:     username + "@example.com",
		FirstName: "First",
		LastName:  "Last",
		Role:      role,
	}
}

func TestRegister(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	reg := registration("alice", "")
	u, err := svc.Register(ctx, reg)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, u.ID)
	assert.Equal(t, RolePatient, u.Role)
	assert.NotEqual(t, "secret", u.Password, "password must be hashed")
	assert.False(t, u.CreatedAt.IsZero())
}

func TestRegister_Validation(t *testing.T) {
	svc := newTestService()
	tests := []struct {
		name string
		mod  func(*Registration)
	}{
		{"missing username", func(r *Registration) { r.Username = " " }},
		{"missing password", func(r *Registration) { r.Password = "" }},
		{"bad email", func(r *Registration) { r.Email = "not-an-email" }},
		{"missing name", func(r *Registration) { r.LastName = "" }},
		{"unknown role", func(r *Registration) { r.Role = "admin" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := registration("bob", RoleCaregiver)
			tt.mod(&reg)
			_, err := svc.Register(context.Background(), reg)
			assert.ErrorIs(t, err, errs.ErrInvalid)
		})
	}
}

func TestRegister_Duplicates(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	_, err := svc.Register(ctx, registration("alice", RolePatient))
	require.NoError(t, err)

	_, err = svc.Register(ctx, registration("alice", RolePatient))
	require.ErrorIs(t, err, errs.ErrConflict)
	assert.EqualError(t, err, "Username already exists")

	dup := registration("alice2", RolePatient)
	dup.Email = "ALICE@example.com"
	_, err = svc.Register(ctx, dup)
	require.ErrorIs(t, err, errs.ErrConflict)
	assert.EqualError(t, err, "Email already exists")
}

func TestAuthenticate(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	u, err := svc.Register(ctx, registration("alice", RolePatient))
	require.NoError(t, err)

	got, err := svc.Authenticate(ctx, Credentials{Username: "alice", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = svc.Authenticate(ctx, Credentials{Username: "alice", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Authenticate(ctx, Credentials{Username: "nobody", Password: "secret"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUpdateProfile(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	alice, err := svc.Register(ctx, registration("alice", RolePatient))
	require.NoError(t, err)
	_, err = svc.Register(ctx, registration("bob", RoleCaregiver))
	require.NoError(t, err)

	name := "Alicia"
	photo := "/objects/uploads/abc"
	u, err := svc.UpdateProfile(ctx, alice.ID, ProfilePatch{FirstName: &name, ProfilePhotoURL: &photo})
	require.NoError(t, err)
	assert.Equal(t, "Alicia", u.FirstName)
	assert.Equal(t, "Last", u.LastName)
	require.NotNil(t, u.ProfilePhotoURL)
	assert.Equal(t, photo, *u.ProfilePhotoURL)

	taken := "bob@example.com"
	_, err = svc.UpdateProfile(ctx, alice.ID, ProfilePatch{Email: &taken})
	assert.ErrorIs(t, err, errs.ErrConflict)

	empty := ""
	_, err = svc.UpdateProfile(ctx, alice.ID, ProfilePatch{LastName: &empty})
	assert.ErrorIs(t, err, errs.ErrInvalid)

	_, err = svc.UpdateProfile(ctx, uuid.New(), ProfilePatch{FirstName: &name})
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestCaregiverLinks(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	patient, err := svc.Register(ctx, registration("sarah", RolePatient))
	require.NoError(t, err)
	caregiver, err := svc.Register(ctx, registration("michael", RoleCaregiver))
	require.NoError(t, err)

	_, err = svc.LinkPatient(ctx, caregiver.ID, patient.ID)
	require.NoError(t, err)

	_, err = svc.LinkPatient(ctx, caregiver.ID, patient.ID)
	assert.ErrorIs(t, err, errs.ErrConflict)

	_, err = svc.LinkPatient(ctx, caregiver.ID, caregiver.ID)
	assert.ErrorIs(t, err, errs.ErrInvalid, "cannot link self")

	_, err = svc.LinkPatient(ctx, caregiver.ID, uuid.New())
	assert.ErrorIs(t, err, errs.ErrInvalid, "unknown patient")

	other, err := svc.Register(ctx, registration("nurse", RoleCaregiver))
	require.NoError(t, err)
	_, err = svc.LinkPatient(ctx, caregiver.ID, other.ID)
	assert.ErrorIs(t, err, errs.ErrInvalid, "caregiver is not a patient")

	patients, err := svc.ListPatients(ctx, caregiver.ID)
	require.NoError(t, err)
	require.Len(t, patients, 1)
	assert.Equal(t, patient.ID, patients[0].ID)

	caregivers, err := svc.ListCaregivers(ctx, patient.ID)
	require.NoError(t, err)
	require.Len(t, caregivers, 1)
	assert.Equal(t, caregiver.ID, caregivers[0].ID)

	require.NoError(t, svc.UnlinkPatient(ctx, caregiver.ID, patient.ID))
	patients, err = svc.ListPatients(ctx, caregiver.ID)
	require.NoError(t, err)
	assert.Empty(t, patients)
}
