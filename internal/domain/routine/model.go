package routine

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Task categories.
const (
	CategoryMorning    = "morning"
	CategoryMedication = "medication"
	CategoryMeals      = "meals"
	CategoryExercise   = "exercise"
	CategoryEvening    = "evening"
	CategorySocial     = "social"
	CategoryOther      = "other"
)

var validCategories = map[string]bool{
	CategoryMorning: true, CategoryMedication: true, CategoryMeals: true, CategoryExercise: true,
	CategoryEvening: true, CategorySocial: true, CategoryOther: true,
}

// DailyTask maps to the daily_tasks table. ScheduledTime is a wall-clock
// "HH:MM" string; Steps is free-form JSON owned by the client.
type DailyTask struct {
	ID            uuid.UUID       `db:"id" json:"id"`
	UserID        uuid.UUID       `db:"user_id" json:"userId"`
	Title         string          `db:"title" json:"title"`
	Description   *string         `db:"description" json:"description"`
	Steps         json.RawMessage `db:"steps" json:"steps"`
	Category      string          `db:"category" json:"category"`
	IsCompleted   bool            `db:"is_completed" json:"isCompleted"`
	CompletedAt   *time.Time      `db:"completed_at" json:"completedAt"`
	ScheduledTime *string         `db:"scheduled_time" json:"scheduledTime"`
	CreatedAt     time.Time       `db:"created_at" json:"createdAt"`
}

func (t *DailyTask) AccessibleBy(userID uuid.UUID) bool { return t.UserID == userID }

// TaskInput is the body of POST /api/daily-tasks.
type TaskInput struct {
	Title         string          `json:"title"`
	Description   *string         `json:"description"`
	Steps         json.RawMessage `json:"steps"`
	Category      string          `json:"category"`
	IsCompleted   bool            `json:"isCompleted"`
	CompletedAt   *time.Time      `json:"completedAt"`
	ScheduledTime *string         `json:"scheduledTime"`
}

// TaskPatch is the body of PUT and PATCH /api/daily-tasks/:id.
type TaskPatch struct {
	Title         *string         `json:"title"`
	Description   *string         `json:"description"`
	Steps         json.RawMessage `json:"steps"`
	Category      *string         `json:"category"`
	IsCompleted   *bool           `json:"isCompleted"`
	CompletedAt   *time.Time      `json:"completedAt"`
	ScheduledTime *string         `json:"scheduledTime"`
}

// scheduleKey orders tasks by time of day, unscheduled tasks first.
func scheduleKey(t *DailyTask) string {
	if t.ScheduledTime == nil {
		return ""
	}
	return *t.ScheduledTime
}
