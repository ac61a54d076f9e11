package behavior

import (
	"context"

	"github.com/google/uuid"

	"github.com/memorycare/memorycare/internal/platform/store"
)

func cloneLog(l Log) Log {
	l.CaregiverID = store.Ptr(l.CaregiverID)
	l.SleepHours = store.Ptr(l.SleepHours)
	l.Appetite = store.Ptr(l.Appetite)
	l.ActivityLevel = store.Ptr(l.ActivityLevel)
	l.Notes = store.Ptr(l.Notes)
	return l
}

type logRepoMem struct{ rows *store.Table[Log] }

func NewLogRepoMem() LogRepository {
	return &logRepoMem{rows: store.NewTable(cloneLog)}
}

func (r *logRepoMem) Create(_ context.Context, l *Log) error {
	l.ID = uuid.New()
	r.rows.Insert(l.ID, *l)
	return nil
}

func (r *logRepoMem) GetByID(_ context.Context, id uuid.UUID) (*Log, error) {
	l, err := r.rows.Get(id)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *logRepoMem) ListByUser(_ context.Context, userID uuid.UUID, rng *Range) ([]*Log, error) {
	rows := r.rows.Select(
		func(l Log) bool {
			if l.UserID != userID {
				return false
			}
			return rng == nil || (!l.Date.Before(rng.Start) && !l.Date.After(rng.End))
		},
		func(a, b Log) bool { return a.Date.After(b.Date) },
	)
	out := make([]*Log, len(rows))
	for i := range rows {
		out[i] = &rows[i]
	}
	return out, nil
}

func (r *logRepoMem) Update(_ context.Context, l *Log) error {
	return r.rows.Replace(l.ID, *l)
}
