package identity

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/google/uuid"

	"github.com/memorycare/memorycare/internal/platform/auth"
	"github.com/memorycare/memorycare/internal/platform/errs"
)

var ErrInvalidCredentials = errors.New("invalid username or password")

type Service struct {
	users UserRepository
	links CaregiverLinkRepository
}

func NewService(users UserRepository, links CaregiverLinkRepository) *Service {
	return &Service{users: users, links: links}
}

// -- Accounts --

func (s *Service) Register(ctx context.Context, reg Registration) (*User, error) {
	reg.Username = strings.TrimSpace(reg.Username)
	reg.Email = strings.TrimSpace(reg.Email)
	if reg.Username == "" {
		return nil, errs.Invalid("username is required")
	}
	if reg.Password == "" {
		return nil, errs.Invalid("password is required")
	}
	if err := validateEmail(reg.Email); err != nil {
		return nil, err
	}
	if strings.TrimSpace(reg.FirstName) == "" || strings.TrimSpace(reg.LastName) == "" {
		return nil, errs.Invalid("first and last name are required")
	}
	if reg.Role == "" {
		reg.Role = RolePatient
	}
	if !auth.ValidRole(reg.Role) {
		return nil, errs.Invalid("role must be patient or caregiver")
	}

	if _, err := s.users.GetByUsername(ctx, reg.Username); err == nil {
		return nil, errs.Conflict(msgUsernameTaken)
	} else if !errors.Is(err, errs.ErrNotFound) {
		return nil, fmt.Errorf("lookup username: %w", err)
	}
	if _, err := s.users.GetByEmail(ctx, reg.Email); err == nil {
		return nil, errs.Conflict(msgEmailTaken)
	} else if !errors.Is(err, errs.ErrNotFound) {
		return nil, fmt.Errorf("lookup email: %w", err)
	}

	hash, err := auth.HashPassword(reg.Password)
	if err != nil {
		return nil, err
	}
	u := &User{
		Username:  reg.Username,
		Password:  hash,
		Email:     reg.Email,
		FirstName: strings.TrimSpace(reg.FirstName),
		LastName:  strings.TrimSpace(reg.LastName),
		Role:      reg.Role,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Authenticate returns ErrInvalidCredentials for an unknown user and for a
// wrong password alike.
func (s *Service) Authenticate(ctx context.Context, creds Credentials) (*User, error) {
	u, err := s.users.GetByUsername(ctx, strings.TrimSpace(creds.Username))
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !auth.CheckPassword(u.Password, creds.Password) {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

func (s *Service) GetUser(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.users.GetByID(ctx, id)
}

func (s *Service) UpdateProfile(ctx context.Context, id uuid.UUID, p ProfilePatch) (*User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.FirstName != nil {
		if strings.TrimSpace(*p.FirstName) == "" {
			return nil, errs.Invalid("first name must not be empty")
		}
		u.FirstName = strings.TrimSpace(*p.FirstName)
	}
	if p.LastName != nil {
		if strings.TrimSpace(*p.LastName) == "" {
			return nil, errs.Invalid("last name must not be empty")
		}
		u.LastName = strings.TrimSpace(*p.LastName)
	}
	if p.Email != nil {
		email := strings.TrimSpace(*p.Email)
		if err := validateEmail(email); err != nil {
			return nil, err
		}
		u.Email = email
	}
	if p.ProfilePhotoURL != nil {
		u.ProfilePhotoURL = p.ProfilePhotoURL
	}
	if err := s.users.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func validateEmail(email string) error {
	if email == "" {
		return errs.Invalid("email is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return errs.Invalid("email is not valid")
	}
	return nil
}

// -- Caregiver links --

// LinkPatient records that caregiverID looks after patientID. The patient
// must be an existing account with the patient role.
func (s *Service) LinkPatient(ctx context.Context, caregiverID, patientID uuid.UUID) (*CaregiverPatient, error) {
	if patientID == uuid.Nil || patientID == caregiverID {
		return nil, errs.Invalid("patientId is required")
	}
	patient, err := s.users.GetByID(ctx, patientID)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, errs.Invalid("patient %s does not exist", patientID)
		}
		return nil, err
	}
	if patient.Role != RolePatient {
		return nil, errs.Invalid("user %s is not a patient", patientID)
	}
	l := &CaregiverPatient{CaregiverID: caregiverID, PatientID: patientID}
	if err := s.links.Create(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

func (s *Service) UnlinkPatient(ctx context.Context, caregiverID, patientID uuid.UUID) error {
	return s.links.Delete(ctx, caregiverID, patientID)
}

func (s *Service) ListPatients(ctx context.Context, caregiverID uuid.UUID) ([]*User, error) {
	return s.links.ListPatients(ctx, caregiverID)
}

func (s *Service) ListCaregivers(ctx context.Context, patientID uuid.UUID) ([]*User, error) {
	return s.links.ListCaregivers(ctx, patientID)
}
