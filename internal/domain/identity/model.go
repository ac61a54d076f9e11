package identity

import (
	"time"

	"github.com/google/uuid"
)

const (
	RolePatient   = "patient"
	RoleCaregiver = "caregiver"
)

// User maps to the users table. The password hash never leaves the server.
type User struct {
	ID              uuid.UUID `db:"id" json:"id"`
	Username        string    `db:"username" json:"username"`
	Password        string    `db:"password" json:"-"`
	Email           string    `db:"email" json:"email"`
	FirstName       string    `db:"first_name" json:"firstName"`
	LastName        string    `db:"last_name" json:"lastName"`
	Role            string    `db:"role" json:"role"`
	ProfilePhotoURL *string   `db:"profile_photo_url" json:"profilePhotoUrl"`
	CreatedAt       time.Time `db:"created_at" json:"createdAt"`
}

// CaregiverPatient maps to the caregiver_patients table.
type CaregiverPatient struct {
	ID          uuid.UUID `db:"id" json:"id"`
	CaregiverID uuid.UUID `db:"caregiver_id" json:"caregiverId"`
	PatientID   uuid.UUID `db:"patient_id" json:"patientId"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}

// Registration is the body of POST /api/register.
type Registration struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      string `json:"role"`
}

// Credentials is the body of POST /api/login.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// ProfilePatch is the body of PATCH /api/user. Absent fields are left alone.
type ProfilePatch struct {
	FirstName       *string `json:"firstName"`
	LastName        *string `json:"lastName"`
	Email           *string `json:"email"`
	ProfilePhotoURL *string `json:"profilePhotoUrl"`
}

// LinkRequest is the body of POST /api/caregiver/patients.
type LinkRequest struct {
	PatientID string `json:"patientId"`
}
