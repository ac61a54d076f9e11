package behavior

import (
	"context"

	"github.com/google/uuid"
)

type LogRepository interface {
	Create(ctx context.Context, l *Log) error
	GetByID(ctx context.Context, id uuid.UUID) (*Log, error)
	// ListByUser returns logs about userID, newest date first. A nil range
	// lists everything.
	ListByUser(ctx context.Context, userID uuid.UUID, r *Range) ([]*Log, error)
	Update(ctx context.Context, l *Log) error
}
