package medication

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type MedicationRepository interface {
	Create(ctx context.Context, m *Medication) error
	// GetByID also returns inactive medications.
	GetByID(ctx context.Context, id uuid.UUID) (*Medication, error)
	// ListActiveByUser returns active medications ordered by name.
	ListActiveByUser(ctx context.Context, userID uuid.UUID) ([]*Medication, error)
	Update(ctx context.Context, m *Medication) error
	Deactivate(ctx context.Context, id uuid.UUID) error
}

// LogFilter narrows a log listing to scheduled times in [From, To). A nil
// filter lists everything.
type LogFilter struct {
	From, To time.Time
}

type LogRepository interface {
	Create(ctx context.Context, l *Log) error
	GetByID(ctx context.Context, id uuid.UUID) (*Log, error)
	// ListByUser returns logs ordered by scheduled time.
	ListByUser(ctx context.Context, userID uuid.UUID, f *LogFilter) ([]*Log, error)
	Update(ctx context.Context, l *Log) error
}
