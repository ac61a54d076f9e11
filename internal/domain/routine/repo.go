package routine

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TaskRepository lists tasks ordered by scheduled time, unscheduled first.
type TaskRepository interface {
	Create(ctx context.Context, t *DailyTask) error
	GetByID(ctx context.Context, id uuid.UUID) (*DailyTask, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*DailyTask, error)
	// ListOpenOrCompletedIn returns tasks that are not completed or whose
	// completion falls in [from, to).
	ListOpenOrCompletedIn(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]*DailyTask, error)
	Update(ctx context.Context, t *DailyTask) error
	Delete(ctx context.Context, id uuid.UUID) error
}
