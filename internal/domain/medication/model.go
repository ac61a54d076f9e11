package medication

import (
	"time"

	"github.com/google/uuid"
)

// Dose statuses.
const (
	StatusPending = "pending"
	StatusTaken   = "taken"
	StatusMissed  = "missed"
	StatusSkipped = "skipped"
)

var validStatuses = map[string]bool{
	StatusPending: true, StatusTaken: true, StatusMissed: true, StatusSkipped: true,
}

// Medication maps to the medications table. Deleting a medication only
// clears IsActive so its logs keep pointing at it.
type Medication struct {
	ID        uuid.UUID `db:"id" json:"id"`
	UserID    uuid.UUID `db:"user_id" json:"userId"`
	Name      string    `db:"name" json:"name"`
	Dosage    string    `db:"dosage" json:"dosage"`
	Frequency string    `db:"frequency" json:"frequency"`
	Times     []string  `db:"times" json:"times"`
	Notes     *string   `db:"notes" json:"notes"`
	IsActive  bool      `db:"is_active" json:"isActive"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

func (m *Medication) AccessibleBy(userID uuid.UUID) bool { return m.UserID == userID }

// MedicationInput is the body of POST /api/medications.
type MedicationInput struct {
	Name      string   `json:"name"`
	Dosage    string   `json:"dosage"`
	Frequency string   `json:"frequency"`
	Times     []string `json:"times"`
	Notes     *string  `json:"notes"`
}

// MedicationPatch is the body of PUT and PATCH /api/medications/:id.
type MedicationPatch struct {
	Name      *string   `json:"name"`
	Dosage    *string   `json:"dosage"`
	Frequency *string   `json:"frequency"`
	Times     *[]string `json:"times"`
	Notes     *string   `json:"notes"`
	IsActive  *bool     `json:"isActive"`
}

// Log maps to the medication_logs table: one scheduled dose.
type Log struct {
	ID            uuid.UUID  `db:"id" json:"id"`
	MedicationID  uuid.UUID  `db:"medication_id" json:"medicationId"`
	UserID        uuid.UUID  `db:"user_id" json:"userId"`
	ScheduledTime time.Time  `db:"scheduled_time" json:"scheduledTime"`
	TakenAt       *time.Time `db:"taken_at" json:"takenAt"`
	Status        string     `db:"status" json:"status"`
	Notes         *string    `db:"notes" json:"notes"`
	CreatedAt     time.Time  `db:"created_at" json:"createdAt"`
}

func (l *Log) AccessibleBy(userID uuid.UUID) bool { return l.UserID == userID }

// LogInput is the body of POST /api/medication-logs.
type LogInput struct {
	MedicationID  string     `json:"medicationId"`
	ScheduledTime time.Time  `json:"scheduledTime"`
	TakenAt       *time.Time `json:"takenAt"`
	Status        string     `json:"status"`
	Notes         *string    `json:"notes"`
}

// LogPatch is the body of PUT and PATCH /api/medication-logs/:id.
type LogPatch struct {
	ScheduledTime *time.Time `json:"scheduledTime"`
	TakenAt       *time.Time `json:"takenAt"`
	Status        *string    `json:"status"`
	Notes         *string    `json:"notes"`
}
