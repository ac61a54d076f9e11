package medication

import (
	"context"

	"github.com/google/uuid"

	"github.com/memorycare/memorycare/internal/platform/store"
)

func cloneMedication(m Medication) Medication {
	m.Times = store.Slice(m.Times)
	m.Notes = store.Ptr(m.Notes)
	return m
}

func cloneLog(l Log) Log {
	l.TakenAt = store.Ptr(l.TakenAt)
	l.Notes = store.Ptr(l.Notes)
	return l
}

func pointers[T any](rows []T) []*T {
	out := make([]*T, len(rows))
	for i := range rows {
		out[i] = &rows[i]
	}
	return out
}

// -- Medications --

type medicationRepoMem struct{ rows *store.Table[Medication] }

func NewMedicationRepoMem() MedicationRepository {
	return &medicationRepoMem{rows: store.NewTable(cloneMedication)}
}

func (r *medicationRepoMem) Create(_ context.Context, m *Medication) error {
	m.ID = uuid.New()
	r.rows.Insert(m.ID, *m)
	return nil
}

func (r *medicationRepoMem) GetByID(_ context.Context, id uuid.UUID) (*Medication, error) {
	m, err := r.rows.Get(id)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *medicationRepoMem) ListActiveByUser(_ context.Context, userID uuid.UUID) ([]*Medication, error) {
	return pointers(r.rows.Select(
		func(m Medication) bool { return m.UserID == userID && m.IsActive },
		func(a, b Medication) bool { return store.NameLess(a.Name, b.Name) },
	)), nil
}

func (r *medicationRepoMem) Update(_ context.Context, m *Medication) error {
	return r.rows.Replace(m.ID, *m)
}

func (r *medicationRepoMem) Deactivate(_ context.Context, id uuid.UUID) error {
	_, err := r.rows.Modify(id, func(m Medication) (Medication, error) {
		m.IsActive = false
		return m, nil
	})
	return err
}

// -- Logs --

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

func (r *logRepoMem) ListByUser(_ context.Context, userID uuid.UUID, f *LogFilter) ([]*Log, error) {
	return pointers(r.rows.Select(
		func(l Log) bool {
			if l.UserID != userID {
				return false
			}
			return f == nil || (!l.ScheduledTime.Before(f.From) && l.ScheduledTime.Before(f.To))
		},
		func(a, b Log) bool { return a.ScheduledTime.Before(b.ScheduledTime) },
	)), nil
}

func (r *logRepoMem) Update(_ context.Context, l *Log) error {
	return r.rows.Replace(l.ID, *l)
}
