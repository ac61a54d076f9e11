package behavior

import (
	"time"

	"github.com/google/uuid"
)

// Log maps to the behavior_logs table. UserID is the person the entry is
// about; CaregiverID is set when a caregiver recorded it.
type Log struct {
	ID            uuid.UUID  `db:"id" json:"id"`
	UserID        uuid.UUID  `db:"user_id" json:"userId"`
	CaregiverID   *uuid.UUID `db:"caregiver_id" json:"caregiverId"`
	Mood          string     `db:"mood" json:"mood"`
	SleepHours    *int       `db:"sleep_hours" json:"sleepHours"`
	Appetite      *string    `db:"appetite" json:"appetite"`
	ActivityLevel *string    `db:"activity_level" json:"activityLevel"`
	Notes         *string    `db:"notes" json:"notes"`
	Date          time.Time  `db:"date" json:"date"`
	CreatedAt     time.Time  `db:"created_at" json:"createdAt"`
}

// AccessibleBy grants access to the subject and to the recording caregiver.
func (l *Log) AccessibleBy(userID uuid.UUID) bool {
	return l.UserID == userID || (l.CaregiverID != nil && *l.CaregiverID == userID)
}

// LogInput is the body of POST /api/behavior-logs.
type LogInput struct {
	Mood          string    `json:"mood"`
	SleepHours    *int      `json:"sleepHours"`
	Appetite      *string   `json:"appetite"`
	ActivityLevel *string   `json:"activityLevel"`
	Notes         *string   `json:"notes"`
	Date          time.Time `json:"date"`
}

// LogPatch is the body of PUT and PATCH /api/behavior-logs/:id.
type LogPatch struct {
	Mood          *string    `json:"mood"`
	SleepHours    *int       `json:"sleepHours"`
	Appetite      *string    `json:"appetite"`
	ActivityLevel *string    `json:"activityLevel"`
	Notes         *string    `json:"notes"`
	Date          *time.Time `json:"date"`
}

// Range bounds a listing by date, both ends inclusive.
type Range struct {
	Start, End time.Time
}
