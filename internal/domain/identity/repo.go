package identity

import (
	"context"

	"github.com/google/uuid"
)

// UserRepository stores accounts. Create and Update report a taken username
// or email as an errs.ErrConflict carrying the client-facing message.
type UserRepository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, u *User) error
}

// CaregiverLinkRepository stores caregiver-patient relationships.
type CaregiverLinkRepository interface {
	Create(ctx context.Context, l *CaregiverPatient) error
	Delete(ctx context.Context, caregiverID, patientID uuid.UUID) error
	ListPatients(ctx context.Context, caregiverID uuid.UUID) ([]*User, error)
	ListCaregivers(ctx context.Context, patientID uuid.UUID) ([]*User, error)
}

const (
	msgUsernameTaken = "Username already exists"
	msgEmailTaken    = "Email already exists"
	msgAlreadyLinked = "Patient is already linked"
)
