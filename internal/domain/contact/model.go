package contact

import (
	"time"

	"github.com/google/uuid"
)

const (
	CategoryFamily    = "family"
	CategoryMedical   = "medical"
	CategoryEmergency = "emergency"
)

func validCategory(c string) bool {
	switch c {
	case CategoryFamily, CategoryMedical, CategoryEmergency:
		return true
	}
	return false
}

// Contact maps to the contacts table.
type Contact struct {
	ID           uuid.UUID `db:"id" json:"id"`
	UserID       uuid.UUID `db:"user_id" json:"userId"`
	Name         string    `db:"name" json:"name"`
	Relationship string    `db:"relationship" json:"relationship"`
	PhoneNumber  *string   `db:"phone_number" json:"phoneNumber"`
	Email        *string   `db:"email" json:"email"`
	PhotoURL     *string   `db:"photo_url" json:"photoUrl"`
	Category     string    `db:"category" json:"category"`
	IsEmergency  bool      `db:"is_emergency" json:"isEmergency"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
}

func (c *Contact) AccessibleBy(userID uuid.UUID) bool { return c.UserID == userID }

// Input is the body of POST /api/contacts.
type Input struct {
	Name         string  `json:"name"`
	Relationship string  `json:"relationship"`
	PhoneNumber  *string `json:"phoneNumber"`
	Email        *string `json:"email"`
	PhotoURL     *string `json:"photoUrl"`
	Category     string  `json:"category"`
	IsEmergency  bool    `json:"isEmergency"`
}

// Patch is the body of PUT and PATCH /api/contacts/:id.
type Patch struct {
	Name         *string `json:"name"`
	Relationship *string `json:"relationship"`
	PhoneNumber  *string `json:"phoneNumber"`
	Email        *string `json:"email"`
	PhotoURL     *string `json:"photoUrl"`
	Category     *string `json:"category"`
	IsEmergency  *bool   `json:"isEmergency"`
}

// PhotoRequest is the body of PUT /api/contacts/:id/photo.
type PhotoRequest struct {
	PhotoURL string `json:"photoURL"`
}
